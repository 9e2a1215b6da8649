package store

import "context"

type QuestionRepo struct {
	t *tables
}

func (r *QuestionRepo) All(ctx context.Context) ([]Question, error) {
	return r.t.questions.All(ctx)
}

func (r *QuestionRepo) FindByID(ctx context.Context, id int64) (Question, bool, error) {
	return r.t.questions.FindByID(ctx, id)
}

// FindByTitle returns the first question with this exact title.
func (r *QuestionRepo) FindByTitle(ctx context.Context, title string) (Question, bool, error) {
	return r.t.questions.first(ctx, "title = ?", title)
}

func (r *QuestionRepo) FindByAuthorID(ctx context.Context, authorID int64) ([]Question, error) {
	return r.t.questions.filter(ctx, "student_id = ?", authorID)
}

func (r *QuestionRepo) Save(ctx context.Context, q *Question) error {
	return r.t.questions.save(ctx, &q.ID, *q)
}

func (r *QuestionRepo) Author(ctx context.Context, q Question) (User, bool, error) {
	return r.t.users.FindByID(ctx, q.AuthorID)
}

func (r *QuestionRepo) Replies(ctx context.Context, q Question) ([]Reply, error) {
	return (&ReplyRepo{t: r.t}).FindByQuestionID(ctx, q.ID)
}

func (r *QuestionRepo) Followers(ctx context.Context, q Question) ([]User, error) {
	return (&FollowRepo{t: r.t}).FollowersForQuestionID(ctx, q.ID)
}

func (r *QuestionRepo) Likers(ctx context.Context, q Question) ([]User, error) {
	return (&LikeRepo{t: r.t}).LikersForQuestionID(ctx, q.ID)
}

func (r *QuestionRepo) NumLikes(ctx context.Context, q Question) (int64, error) {
	return numLikes(ctx, r.t.conn, q.ID)
}

// MostFollowed returns up to n questions with the most followers.
func (r *QuestionRepo) MostFollowed(ctx context.Context, n int) ([]Question, error) {
	return mostCounted(ctx, r.t, followsTable, n)
}

// MostLiked returns up to n questions with the most likes.
func (r *QuestionRepo) MostLiked(ctx context.Context, n int) ([]Question, error) {
	return mostCounted(ctx, r.t, likesTable, n)
}
