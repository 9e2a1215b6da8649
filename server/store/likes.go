package store

import "context"

type LikeRepo struct {
	t *tables
}

func (r *LikeRepo) All(ctx context.Context) ([]Like, error) {
	return r.t.likes.All(ctx)
}

func (r *LikeRepo) FindByID(ctx context.Context, id int64) (Like, bool, error) {
	return r.t.likes.FindByID(ctx, id)
}

// Save does not check for an existing (question, user) pair.
func (r *LikeRepo) Save(ctx context.Context, l *Like) error {
	return r.t.likes.save(ctx, &l.ID, *l)
}

func (r *LikeRepo) LikersForQuestionID(ctx context.Context, questionID int64) ([]User, error) {
	return r.t.users.queryAll(ctx,
		`SELECT `+r.t.users.selectList("u")+`
		 FROM question_likes l
		 JOIN users u ON u.id = l.student_id
		 WHERE l.question_id = ?
		 ORDER BY l.id ASC;`,
		questionID,
	)
}

func (r *LikeRepo) LikedQuestionsForUserID(ctx context.Context, userID int64) ([]Question, error) {
	return r.t.questions.queryAll(ctx,
		`SELECT `+r.t.questions.selectList("q")+`
		 FROM question_likes l
		 JOIN questions q ON q.id = l.question_id
		 WHERE l.student_id = ?
		 ORDER BY l.id ASC;`,
		userID,
	)
}

// NumLikesForQuestionID is zero for a question nobody liked.
func (r *LikeRepo) NumLikesForQuestionID(ctx context.Context, questionID int64) (int64, error) {
	return numLikes(ctx, r.t.conn, questionID)
}

func (r *LikeRepo) MostLikedQuestions(ctx context.Context, n int) ([]Question, error) {
	return mostCounted(ctx, r.t, likesTable, n)
}
