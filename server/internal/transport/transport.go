package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Versifine/qa-forum/server/store"
)

// Error codes carried in ErrorResponse.Code.
const (
	CodeBadRequest  = 1001
	CodeNotFound    = 2001
	CodeUndefined   = 3001
	CodeUnavailable = 5001
	CodeInternal    = 5000
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func ReadJSON(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code int, message string) {
	WriteJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// WriteStoreError maps a store error onto a status and logs anything that
// is not the caller's fault.
func WriteStoreError(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrNotPersisted):
		WriteError(w, http.StatusNotFound, CodeNotFound, "not found")
	case errors.Is(err, store.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
	case errors.Is(err, store.ErrUndefinedAggregate):
		WriteError(w, http.StatusUnprocessableEntity, CodeUndefined, err.Error())
	case errors.Is(err, store.ErrStoreUnavailable):
		log.Error().Err(err).Msg("store unavailable")
		WriteError(w, http.StatusServiceUnavailable, CodeUnavailable, "store unavailable")
	default:
		log.Error().Err(err).Msg("store error")
		WriteError(w, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}
