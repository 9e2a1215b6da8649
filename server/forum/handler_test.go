package forum

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Versifine/qa-forum/server/store"
)

type testServer struct {
	store   *store.Store
	handler http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	conn := store.NewConn(store.MemoryPath, zerolog.Nop())
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, store.EnsureSchema(context.Background(), conn))

	s := store.New(conn)
	mux := http.NewServeMux()
	NewHandler(s, zerolog.Nop()).Routes(mux)
	return &testServer{store: s, handler: Logging(zerolog.Nop(), mux)}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}

func TestQuestionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/users", map[string]string{"fname": "Alice", "lname": "Smith"})
	require.Equal(t, http.StatusCreated, w.Code)
	alice := decodeBody[store.User](t, w)
	require.NotZero(t, alice.ID)

	w = ts.do(t, http.MethodPost, "/api/v1/questions", map[string]any{"title": "Why?", "body": "Tell me", "author_id": alice.ID})
	require.Equal(t, http.StatusCreated, w.Code)
	q := decodeBody[store.Question](t, w)

	w = ts.do(t, http.MethodPost, "/api/v1/questions/"+itoa(q.ID)+"/replies", map[string]any{"author_id": alice.ID, "body": "Because"})
	require.Equal(t, http.StatusCreated, w.Code)
	root := decodeBody[store.Reply](t, w)
	assert.Nil(t, root.ParentID)

	w = ts.do(t, http.MethodPost, "/api/v1/questions/"+itoa(q.ID)+"/replies", map[string]any{"author_id": alice.ID, "body": "Why because?", "parent_id": root.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/questions/"+itoa(q.ID)+"/likers", map[string]any{"user_id": alice.ID})
	require.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/questions/"+itoa(q.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decodeBody[map[string]any](t, w)
	assert.Equal(t, "Why?", detail["title"])
	assert.EqualValues(t, 1, detail["num_likes"])
	require.NotNil(t, detail["author"])

	w = ts.do(t, http.MethodGet, "/api/v1/questions/"+itoa(q.ID)+"/thread", nil)
	require.Equal(t, http.StatusOK, w.Code)
	thread := decodeBody[[]map[string]any](t, w)
	require.Len(t, thread, 1)
	assert.Equal(t, "Because", thread[0]["body"])
	assert.Len(t, thread[0]["children"], 1)

	w = ts.do(t, http.MethodGet, "/api/v1/replies/"+itoa(root.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	reply := decodeBody[map[string]any](t, w)
	assert.Nil(t, reply["parent"])
	assert.Len(t, reply["children"], 1)

	w = ts.do(t, http.MethodGet, "/api/v1/users/"+itoa(alice.ID)+"/karma", nil)
	require.Equal(t, http.StatusOK, w.Code)
	karma := decodeBody[map[string]any](t, w)
	assert.EqualValues(t, 1, karma["average_karma"])
}

func TestReplyParentMustShareQuestion(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	u := store.User{FName: "Alice", LName: "Smith"}
	require.NoError(t, ts.store.Users.Save(ctx, &u))
	q1 := store.Question{Title: "one", Body: "x", AuthorID: u.ID}
	q2 := store.Question{Title: "two", Body: "x", AuthorID: u.ID}
	require.NoError(t, ts.store.Questions.Save(ctx, &q1))
	require.NoError(t, ts.store.Questions.Save(ctx, &q2))
	parent := store.Reply{QuestionID: q1.ID, AuthorID: u.ID, Body: "on q1"}
	require.NoError(t, ts.store.Replies.Save(ctx, &parent))

	w := ts.do(t, http.MethodPost, "/api/v1/questions/"+itoa(q2.ID)+"/replies", map[string]any{"author_id": u.ID, "body": "x", "parent_id": parent.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestKarmaUndefined(t *testing.T) {
	ts := newTestServer(t)
	u := store.User{FName: "Quiet", LName: "User"}
	require.NoError(t, ts.store.Users.Save(context.Background(), &u))

	w := ts.do(t, http.MethodGet, "/api/v1/users/"+itoa(u.ID)+"/karma", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestValidationAndNotFound(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/users", map[string]string{"fname": "OnlyFirst"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/users", map[string]string{"fname": "   ", "lname": "Smith"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/v1/questions", map[string]any{"title": "t", "body": "b", "author_id": 77})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/questions/abc", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/api/v1/users?fname=No&lname=Body", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(t, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRankings(t *testing.T) {
	ts := newTestServer(t)
	ctx := context.Background()

	author := store.User{FName: "Alice", LName: "Smith"}
	fan := store.User{FName: "Bob", LName: "Jones"}
	require.NoError(t, ts.store.Users.Save(ctx, &author))
	require.NoError(t, ts.store.Users.Save(ctx, &fan))
	quiet := store.Question{Title: "quiet", Body: "x", AuthorID: author.ID}
	loud := store.Question{Title: "loud", Body: "x", AuthorID: author.ID}
	require.NoError(t, ts.store.Questions.Save(ctx, &quiet))
	require.NoError(t, ts.store.Questions.Save(ctx, &loud))
	require.NoError(t, ts.store.Follows.Save(ctx, &store.Follow{QuestionID: loud.ID, UserID: fan.ID}))
	require.NoError(t, ts.store.Follows.Save(ctx, &store.Follow{QuestionID: loud.ID, UserID: author.ID}))
	require.NoError(t, ts.store.Follows.Save(ctx, &store.Follow{QuestionID: quiet.ID, UserID: fan.ID}))

	w := ts.do(t, http.MethodGet, "/api/v1/rankings/most-followed?n=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	top := decodeBody[[]store.Question](t, w)
	assert.Equal(t, []store.Question{loud}, top)

	w = ts.do(t, http.MethodGet, "/api/v1/rankings/most-liked", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody[[]store.Question](t, w))
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func TestUserNamesAreTrimmed(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/v1/users", map[string]string{"fname": "  Alice ", "lname": " Smith"})
	require.Equal(t, http.StatusCreated, w.Code)
	u := decodeBody[store.User](t, w)
	assert.Equal(t, "Alice", u.FName)
	assert.Equal(t, "Smith", u.LName)

	path := "/api/v1/users/" + strconv.FormatInt(u.ID, 10)
	w = ts.do(t, http.MethodPut, path, map[string]string{"fname": "Alicia  ", "lname": "\tSmith"})
	require.Equal(t, http.StatusOK, w.Code)

	got, ok, err := ts.store.Users.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Alicia", got.FName)
	assert.Equal(t, "Smith", got.LName)
}

func TestLoggingKeepsResponseController(t *testing.T) {
	var flushErr error
	h := Logging(zerolog.Nop(), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flushErr = http.NewResponseController(w).Flush()
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NoError(t, flushErr)
	assert.True(t, w.Flushed)
}
