// Package forum exposes the question/answer store over JSON HTTP.
package forum

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/rs/zerolog"

	"github.com/Versifine/qa-forum/server/internal/transport"
	"github.com/Versifine/qa-forum/server/store"
)

const (
	defaultRankingSize = 10
	maxRankingSize     = 100
)

type Handler struct {
	Store *store.Store
	Log   zerolog.Logger

	validate *validator.Validate
}

func NewHandler(s *store.Store, log zerolog.Logger) *Handler {
	validate := validator.New()
	// notblank rejects whitespace-only text, which required lets through.
	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	return &Handler{
		Store:    s,
		Log:      log.With().Str("component", "forum").Logger(),
		validate: validate,
	}
}

// Routes registers every endpoint on mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Health)

	mux.HandleFunc("GET /api/v1/users", h.listUsers)
	mux.HandleFunc("POST /api/v1/users", h.createUser)
	mux.HandleFunc("GET /api/v1/users/{id}", h.getUser)
	mux.HandleFunc("PUT /api/v1/users/{id}", h.updateUser)
	mux.HandleFunc("GET /api/v1/users/{id}/questions", h.userQuestions)
	mux.HandleFunc("GET /api/v1/users/{id}/replies", h.userReplies)
	mux.HandleFunc("GET /api/v1/users/{id}/followed", h.userFollowed)
	mux.HandleFunc("GET /api/v1/users/{id}/liked", h.userLiked)
	mux.HandleFunc("GET /api/v1/users/{id}/karma", h.userKarma)

	mux.HandleFunc("GET /api/v1/questions", h.listQuestions)
	mux.HandleFunc("POST /api/v1/questions", h.createQuestion)
	mux.HandleFunc("GET /api/v1/questions/{id}", h.getQuestion)
	mux.HandleFunc("PUT /api/v1/questions/{id}", h.updateQuestion)
	mux.HandleFunc("GET /api/v1/questions/{id}/replies", h.questionReplies)
	mux.HandleFunc("POST /api/v1/questions/{id}/replies", h.createReply)
	mux.HandleFunc("GET /api/v1/questions/{id}/thread", h.questionThread)
	mux.HandleFunc("GET /api/v1/questions/{id}/followers", h.questionFollowers)
	mux.HandleFunc("POST /api/v1/questions/{id}/followers", h.followQuestion)
	mux.HandleFunc("GET /api/v1/questions/{id}/likers", h.questionLikers)
	mux.HandleFunc("POST /api/v1/questions/{id}/likers", h.likeQuestion)

	mux.HandleFunc("GET /api/v1/replies/{id}", h.getReply)

	mux.HandleFunc("GET /api/v1/rankings/most-followed", h.mostFollowed)
	mux.HandleFunc("GET /api/v1/rankings/most-liked", h.mostLiked)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		transport.WriteError(w, http.StatusNotFound, transport.CodeNotFound, "not found")
	})
}

// Health pings the database through the shared connection.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	db, err := h.Store.Conn().DB(r.Context())
	if err == nil {
		err = db.PingContext(r.Context())
	}
	if err != nil {
		h.Log.Warn().Err(err).Msg("health check failed")
		transport.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := transport.ReadJSON(r, v); err != nil {
		transport.WriteError(w, http.StatusBadRequest, transport.CodeBadRequest, "invalid json")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		transport.WriteError(w, http.StatusBadRequest, transport.CodeBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}

// pathID parses the {id} segment; unparsable ids answer 404.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		transport.WriteError(w, http.StatusNotFound, transport.CodeNotFound, "not found")
		return 0, false
	}
	return id, true
}

func (h *Handler) loadUser(w http.ResponseWriter, r *http.Request, id int64) (store.User, bool) {
	u, ok, err := h.Store.Users.FindByID(r.Context(), id)
	if err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return store.User{}, false
	}
	if !ok {
		transport.WriteError(w, http.StatusNotFound, transport.CodeNotFound, "user not found")
		return store.User{}, false
	}
	return u, true
}

func (h *Handler) loadQuestion(w http.ResponseWriter, r *http.Request, id int64) (store.Question, bool) {
	q, ok, err := h.Store.Questions.FindByID(r.Context(), id)
	if err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return store.Question{}, false
	}
	if !ok {
		transport.WriteError(w, http.StatusNotFound, transport.CodeNotFound, "question not found")
		return store.Question{}, false
	}
	return q, true
}

func (h *Handler) mostFollowed(w http.ResponseWriter, r *http.Request) {
	n := parseRankingSize(r.URL.Query().Get("n"))
	questions, err := h.Store.Questions.MostFollowed(r.Context(), n)
	if err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, questions)
}

func (h *Handler) mostLiked(w http.ResponseWriter, r *http.Request) {
	n := parseRankingSize(r.URL.Query().Get("n"))
	questions, err := h.Store.Questions.MostLiked(r.Context(), n)
	if err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, questions)
}

func parseRankingSize(value string) int {
	n := parsePositiveInt(value, defaultRankingSize)
	if n > maxRankingSize {
		return maxRankingSize
	}
	return n
}

func parsePositiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
