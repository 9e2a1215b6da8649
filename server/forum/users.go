package forum

import (
	"net/http"
	"strings"

	"github.com/Versifine/qa-forum/server/internal/transport"
	"github.com/Versifine/qa-forum/server/store"
)

type userRequest struct {
	FName string `json:"fname" validate:"required,notblank,max=64"`
	LName string `json:"lname" validate:"required,notblank,max=64"`
}

func (req userRequest) user(u store.User) store.User {
	u.FName = strings.TrimSpace(req.FName)
	u.LName = strings.TrimSpace(req.LName)
	return u
}

// listUsers returns every user, or the first match when fname and lname
// are both given.
func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	fname := strings.TrimSpace(r.URL.Query().Get("fname"))
	lname := strings.TrimSpace(r.URL.Query().Get("lname"))
	if fname != "" || lname != "" {
		u, ok, err := h.Store.Users.FindByName(r.Context(), fname, lname)
		if err != nil {
			transport.WriteStoreError(w, h.Log, err)
			return
		}
		if !ok {
			transport.WriteError(w, http.StatusNotFound, transport.CodeNotFound, "user not found")
			return
		}
		transport.WriteJSON(w, http.StatusOK, u)
		return
	}

	users, err := h.Store.Users.All(r.Context())
	if err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if !h.decode(w, r, &req) {
		return
	}

	u := req.user(store.User{})
	if err := h.Store.Users.Save(r.Context(), &u); err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	h.Log.Info().Int64("user_id", u.ID).Msg("user created")
	transport.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, ok := h.loadUser(w, r, id)
	if !ok {
		return
	}
	transport.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req userRequest
	if !h.decode(w, r, &req) {
		return
	}
	u, ok := h.loadUser(w, r, id)
	if !ok {
		return
	}

	u = req.user(u)
	if err := h.Store.Users.Save(r.Context(), &u); err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) userQuestions(w http.ResponseWriter, r *http.Request) {
	h.withUser(w, r, func(u store.User) (any, error) {
		return h.Store.Users.AuthoredQuestions(r.Context(), u)
	})
}

func (h *Handler) userReplies(w http.ResponseWriter, r *http.Request) {
	h.withUser(w, r, func(u store.User) (any, error) {
		return h.Store.Users.AuthoredReplies(r.Context(), u)
	})
}

func (h *Handler) userFollowed(w http.ResponseWriter, r *http.Request) {
	h.withUser(w, r, func(u store.User) (any, error) {
		return h.Store.Users.FollowedQuestions(r.Context(), u)
	})
}

func (h *Handler) userLiked(w http.ResponseWriter, r *http.Request) {
	h.withUser(w, r, func(u store.User) (any, error) {
		return h.Store.Users.LikedQuestions(r.Context(), u)
	})
}

func (h *Handler) userKarma(w http.ResponseWriter, r *http.Request) {
	h.withUser(w, r, func(u store.User) (any, error) {
		karma, err := h.Store.Users.AverageKarma(r.Context(), u)
		if err != nil {
			return nil, err
		}
		return struct {
			UserID       int64   `json:"user_id"`
			AverageKarma float64 `json:"average_karma"`
		}{UserID: u.ID, AverageKarma: karma}, nil
	})
}

// withUser resolves {id} to a user and writes whatever fn returns.
func (h *Handler) withUser(w http.ResponseWriter, r *http.Request, fn func(store.User) (any, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, ok := h.loadUser(w, r, id)
	if !ok {
		return
	}
	out, err := fn(u)
	if err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, out)
}
