package store

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHydrateMissingColumn(t *testing.T) {
	_, err := HydrateUser(Row{"id": int64(1), "fname": "Alice"})
	require.ErrorIs(t, err, ErrHydration)

	var herr *HydrationError
	require.True(t, errors.As(err, &herr))
	assert.Equal(t, "users", herr.Table)
	assert.Equal(t, "lname", herr.Column)
	assert.ErrorIs(t, err, errMissingColumn)
}

func TestHydrateUnconvertibleValue(t *testing.T) {
	_, err := HydrateQuestion(Row{"id": "abc", "title": "t", "body": "b", "student_id": int64(1)})
	require.ErrorIs(t, err, ErrHydration)

	_, err = HydrateLike(Row{"id": int64(1), "question_id": 1.5, "student_id": int64(1)})
	require.ErrorIs(t, err, ErrHydration)

	for _, v := range []float64{1e30, -1e30, math.Inf(1), math.Inf(-1), math.NaN(), 9223372036854775807.0} {
		_, err = HydrateLike(Row{"id": int64(1), "question_id": v, "student_id": int64(1)})
		assert.ErrorIs(t, err, ErrHydration, "question_id %v", v)
	}

	l, err := HydrateLike(Row{"id": int64(1), "question_id": 42.0, "student_id": int64(1)})
	require.NoError(t, err)
	assert.Equal(t, int64(42), l.QuestionID)
}

func TestOutOfRangeRealFailsOnRead(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Conn().Exec(ctx, `INSERT INTO question_likes(question_id, student_id) VALUES(1e30, 1);`)
	require.NoError(t, err)

	_, err = s.Likes.All(ctx)
	require.ErrorIs(t, err, ErrHydration)
}

func TestHydrateNullsAreUnset(t *testing.T) {
	r, err := HydrateReply(Row{
		"id":          nil,
		"question_id": int64(3),
		"student_id":  "7",
		"body":        "hi",
		"parent_id":   nil,
	})
	require.NoError(t, err)
	assert.True(t, r.IsNew())
	assert.True(t, r.IsRoot())
	assert.Equal(t, int64(7), r.AuthorID)

	r, err = HydrateReply(Row{
		"id":          int64(2),
		"question_id": int64(3),
		"student_id":  int64(7),
		"body":        "hi",
		"parent_id":   int64(1),
	})
	require.NoError(t, err)
	require.NotNil(t, r.ParentID)
	assert.Equal(t, int64(1), *r.ParentID)
}

func TestSaveRejectsIncompleteBinding(t *testing.T) {
	s := newTestStore(t)
	broken := &table[User]{
		conn:    s.Conn(),
		name:    usersTable,
		columns: []string{"fname", "lname"},
		hydrate: HydrateUser,
		fields: func(u User) map[string]any {
			return map[string]any{"fname": u.FName, "last": u.LName}
		},
	}

	u := User{FName: "Alice", LName: "Smith"}
	err := broken.save(context.Background(), &u.ID, u)
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.True(t, u.IsNew())

	all, err := s.Users.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSelectList(t *testing.T) {
	tb := newTables(nil)
	assert.Equal(t, "id, fname, lname", tb.users.selectList(""))
	assert.Equal(t, "q.id AS id, q.title AS title, q.body AS body, q.student_id AS student_id", tb.questions.selectList("q"))
}
