package forum

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Versifine/qa-forum/server/internal/transport"
	"github.com/Versifine/qa-forum/server/store"
)

type questionDetail struct {
	store.Question
	Author   *store.User `json:"author"`
	NumLikes int64       `json:"num_likes"`
}

type replyDetail struct {
	store.Reply
	Parent   *store.Reply  `json:"parent"`
	Children []store.Reply `json:"children"`
}

type threadNode struct {
	store.Reply
	Children []threadNode `json:"children"`
}

// listQuestions filters by exact title (first match) or by author_id;
// with neither it lists every question.
func (h *Handler) listQuestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if title := query.Get("title"); title != "" {
		q, ok, err := h.Store.Questions.FindByTitle(r.Context(), title)
		if err != nil {
			transport.WriteStoreError(w, h.Log, err)
			return
		}
		if !ok {
			transport.WriteError(w, http.StatusNotFound, transport.CodeNotFound, "question not found")
			return
		}
		transport.WriteJSON(w, http.StatusOK, q)
		return
	}

	if raw := strings.TrimSpace(query.Get("author_id")); raw != "" {
		authorID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			transport.WriteError(w, http.StatusBadRequest, transport.CodeBadRequest, "invalid author_id")
			return
		}
		questions, err := h.Store.Questions.FindByAuthorID(r.Context(), authorID)
		if err != nil {
			transport.WriteStoreError(w, h.Log, err)
			return
		}
		transport.WriteJSON(w, http.StatusOK, questions)
		return
	}

	questions, err := h.Store.Questions.All(r.Context())
	if err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, questions)
}

func (h *Handler) createQuestion(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title" validate:"required,notblank,max=255"`
		Body     string `json:"body" validate:"required,notblank"`
		AuthorID int64  `json:"author_id" validate:"required,gt=0"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	if _, ok := h.loadUser(w, r, req.AuthorID); !ok {
		return
	}

	q := store.Question{Title: req.Title, Body: req.Body, AuthorID: req.AuthorID}
	if err := h.Store.Questions.Save(r.Context(), &q); err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	h.Log.Info().Int64("question_id", q.ID).Int64("author_id", q.AuthorID).Msg("question created")
	transport.WriteJSON(w, http.StatusCreated, q)
}

func (h *Handler) getQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q, ok := h.loadQuestion(w, r, id)
	if !ok {
		return
	}

	detail := questionDetail{Question: q}
	author, found, err := h.Store.Questions.Author(r.Context(), q)
	if err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	if found {
		detail.Author = &author
	}
	if detail.NumLikes, err = h.Store.Questions.NumLikes(r.Context(), q); err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, detail)
}

func (h *Handler) updateQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title" validate:"required,notblank,max=255"`
		Body  string `json:"body" validate:"required,notblank"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	q, ok := h.loadQuestion(w, r, id)
	if !ok {
		return
	}

	q.Title = req.Title
	q.Body = req.Body
	if err := h.Store.Questions.Save(r.Context(), &q); err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, q)
}

func (h *Handler) questionReplies(w http.ResponseWriter, r *http.Request) {
	h.withQuestion(w, r, func(q store.Question) (any, error) {
		return h.Store.Questions.Replies(r.Context(), q)
	})
}

func (h *Handler) questionFollowers(w http.ResponseWriter, r *http.Request) {
	h.withQuestion(w, r, func(q store.Question) (any, error) {
		return h.Store.Questions.Followers(r.Context(), q)
	})
}

func (h *Handler) questionLikers(w http.ResponseWriter, r *http.Request) {
	h.withQuestion(w, r, func(q store.Question) (any, error) {
		return h.Store.Questions.Likers(r.Context(), q)
	})
}

func (h *Handler) questionThread(w http.ResponseWriter, r *http.Request) {
	h.withQuestion(w, r, func(q store.Question) (any, error) {
		tree, err := h.Store.Replies.Thread(r.Context(), q.ID)
		if err != nil {
			return nil, err
		}
		seen := make(map[int64]bool, tree.Len())
		return buildThread(tree, tree.Roots(), seen), nil
	})
}

func buildThread(tree *store.ReplyTree, replies []store.Reply, seen map[int64]bool) []threadNode {
	nodes := make([]threadNode, 0, len(replies))
	for _, reply := range replies {
		if seen[reply.ID] {
			continue
		}
		seen[reply.ID] = true
		nodes = append(nodes, threadNode{
			Reply:    reply,
			Children: buildThread(tree, tree.Children(reply.ID), seen),
		})
	}
	return nodes
}

func (h *Handler) createReply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		AuthorID int64  `json:"author_id" validate:"required,gt=0"`
		Body     string `json:"body" validate:"required,notblank"`
		ParentID *int64 `json:"parent_id" validate:"omitempty,gt=0"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	q, ok := h.loadQuestion(w, r, id)
	if !ok {
		return
	}
	if _, ok := h.loadUser(w, r, req.AuthorID); !ok {
		return
	}

	if req.ParentID != nil {
		parent, found, err := h.Store.Replies.FindByID(r.Context(), *req.ParentID)
		if err != nil {
			transport.WriteStoreError(w, h.Log, err)
			return
		}
		if !found || parent.QuestionID != q.ID {
			transport.WriteError(w, http.StatusBadRequest, transport.CodeBadRequest, "parent reply must belong to the same question")
			return
		}
	}

	reply := store.Reply{QuestionID: q.ID, AuthorID: req.AuthorID, Body: req.Body, ParentID: req.ParentID}
	if err := h.Store.Replies.Save(r.Context(), &reply); err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	transport.WriteJSON(w, http.StatusCreated, reply)
}

func (h *Handler) getReply(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	reply, found, err := h.Store.Replies.FindByID(r.Context(), id)
	if err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	if !found {
		transport.WriteError(w, http.StatusNotFound, transport.CodeNotFound, "reply not found")
		return
	}

	detail := replyDetail{Reply: reply}
	parent, found, err := h.Store.Replies.ParentReply(r.Context(), reply)
	if err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	if found {
		detail.Parent = &parent
	}
	if detail.Children, err = h.Store.Replies.ChildReplies(r.Context(), reply); err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, detail)
}

type membershipRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

func (h *Handler) followQuestion(w http.ResponseWriter, r *http.Request) {
	h.withMembership(w, r, func(q store.Question, u store.User) (any, error) {
		f := store.Follow{QuestionID: q.ID, UserID: u.ID}
		if err := h.Store.Follows.Save(r.Context(), &f); err != nil {
			return nil, err
		}
		return f, nil
	})
}

func (h *Handler) likeQuestion(w http.ResponseWriter, r *http.Request) {
	h.withMembership(w, r, func(q store.Question, u store.User) (any, error) {
		l := store.Like{QuestionID: q.ID, UserID: u.ID}
		if err := h.Store.Likes.Save(r.Context(), &l); err != nil {
			return nil, err
		}
		return l, nil
	})
}

// withMembership resolves the question and the posting user before fn
// records a follow or like.
func (h *Handler) withMembership(w http.ResponseWriter, r *http.Request, fn func(store.Question, store.User) (any, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req membershipRequest
	if !h.decode(w, r, &req) {
		return
	}
	q, ok := h.loadQuestion(w, r, id)
	if !ok {
		return
	}
	u, ok := h.loadUser(w, r, req.UserID)
	if !ok {
		return
	}
	out, err := fn(q, u)
	if err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	transport.WriteJSON(w, http.StatusCreated, out)
}

func (h *Handler) withQuestion(w http.ResponseWriter, r *http.Request, fn func(store.Question) (any, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	q, ok := h.loadQuestion(w, r, id)
	if !ok {
		return
	}
	out, err := fn(q)
	if err != nil {
		transport.WriteStoreError(w, h.Log, err)
		return
	}
	transport.WriteJSON(w, http.StatusOK, out)
}
