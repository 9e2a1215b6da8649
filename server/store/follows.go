package store

import "context"

type FollowRepo struct {
	t *tables
}

func (r *FollowRepo) All(ctx context.Context) ([]Follow, error) {
	return r.t.follows.All(ctx)
}

func (r *FollowRepo) FindByID(ctx context.Context, id int64) (Follow, bool, error) {
	return r.t.follows.FindByID(ctx, id)
}

// Save does not check for an existing (question, user) pair.
func (r *FollowRepo) Save(ctx context.Context, f *Follow) error {
	return r.t.follows.save(ctx, &f.ID, *f)
}

func (r *FollowRepo) FollowersForQuestionID(ctx context.Context, questionID int64) ([]User, error) {
	return r.t.users.queryAll(ctx,
		`SELECT `+r.t.users.selectList("u")+`
		 FROM question_follows f
		 JOIN users u ON u.id = f.student_id
		 WHERE f.question_id = ?
		 ORDER BY f.id ASC;`,
		questionID,
	)
}

func (r *FollowRepo) FollowedQuestionsForUserID(ctx context.Context, userID int64) ([]Question, error) {
	return r.t.questions.queryAll(ctx,
		`SELECT `+r.t.questions.selectList("q")+`
		 FROM question_follows f
		 JOIN questions q ON q.id = f.question_id
		 WHERE f.student_id = ?
		 ORDER BY f.id ASC;`,
		userID,
	)
}

func (r *FollowRepo) MostFollowedQuestions(ctx context.Context, n int) ([]Question, error) {
	return mostCounted(ctx, r.t, followsTable, n)
}
