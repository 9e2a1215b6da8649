package store

import (
	"context"
	"fmt"
)

func numLikes(ctx context.Context, conn *Conn, questionID int64) (int64, error) {
	rows, err := conn.Query(ctx,
		`SELECT COUNT(*) AS num_likes
		 FROM question_likes
		 WHERE question_id = ?;`,
		questionID,
	)
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	h := newHydrator(likesTable, rows[0])
	n := h.integer("num_likes")
	return n, h.err
}

// averageKarma divides the likes on a user's questions by the number of
// those questions in one round trip.
func averageKarma(ctx context.Context, conn *Conn, userID int64) (float64, error) {
	rows, err := conn.Query(ctx,
		`SELECT COUNT(DISTINCT q.id) AS num_questions,
		        COUNT(l.id) AS num_likes
		 FROM questions q
		 LEFT JOIN question_likes l ON l.question_id = q.id
		 WHERE q.student_id = ?;`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("average karma: %w", err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("%w: user %d has no questions", ErrUndefinedAggregate, userID)
	}
	h := newHydrator(questionsTable, rows[0])
	questions := h.integer("num_questions")
	likes := h.integer("num_likes")
	if h.err != nil {
		return 0, h.err
	}
	if questions == 0 {
		return 0, fmt.Errorf("%w: user %d has no questions", ErrUndefinedAggregate, userID)
	}
	return float64(likes) / float64(questions), nil
}

// mostCounted ranks questions by how many rows of the join table point at
// them. Equal counts fall back to ascending question id.
func mostCounted(ctx context.Context, t *tables, joinTable string, n int) ([]Question, error) {
	if n <= 0 {
		return []Question{}, nil
	}

	rows, err := t.conn.Query(ctx,
		`SELECT j.question_id AS question_id, COUNT(*) AS total
		 FROM `+joinTable+` j
		 JOIN questions q ON q.id = j.question_id
		 GROUP BY j.question_id
		 ORDER BY total DESC, j.question_id ASC
		 LIMIT ?;`,
		n,
	)
	if err != nil {
		return nil, fmt.Errorf("rank %s: %w", joinTable, err)
	}

	out := make([]Question, 0, len(rows))
	for _, row := range rows {
		h := newHydrator(joinTable, row)
		id := h.integer("question_id")
		if h.err != nil {
			return nil, h.err
		}
		q, ok, err := t.questions.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, q)
		}
	}
	return out, nil
}
