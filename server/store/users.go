package store

import "context"

type UserRepo struct {
	t *tables
}

func (r *UserRepo) All(ctx context.Context) ([]User, error) {
	return r.t.users.All(ctx)
}

func (r *UserRepo) FindByID(ctx context.Context, id int64) (User, bool, error) {
	return r.t.users.FindByID(ctx, id)
}

// FindByName returns the first user with exactly this first and last name.
func (r *UserRepo) FindByName(ctx context.Context, fname, lname string) (User, bool, error) {
	return r.t.users.first(ctx, "fname = ? AND lname = ?", fname, lname)
}

// Save inserts a new user or updates an existing one.
func (r *UserRepo) Save(ctx context.Context, u *User) error {
	return r.t.users.save(ctx, &u.ID, *u)
}

func (r *UserRepo) AuthoredQuestions(ctx context.Context, u User) ([]Question, error) {
	return (&QuestionRepo{t: r.t}).FindByAuthorID(ctx, u.ID)
}

func (r *UserRepo) AuthoredReplies(ctx context.Context, u User) ([]Reply, error) {
	return (&ReplyRepo{t: r.t}).FindByUserID(ctx, u.ID)
}

func (r *UserRepo) FollowedQuestions(ctx context.Context, u User) ([]Question, error) {
	return (&FollowRepo{t: r.t}).FollowedQuestionsForUserID(ctx, u.ID)
}

func (r *UserRepo) LikedQuestions(ctx context.Context, u User) ([]Question, error) {
	return (&LikeRepo{t: r.t}).LikedQuestionsForUserID(ctx, u.ID)
}

// AverageKarma is the mean like count over the questions u has authored.
// It fails with ErrUndefinedAggregate when u has authored none.
func (r *UserRepo) AverageKarma(ctx context.Context, u User) (float64, error) {
	return averageKarma(ctx, r.t.conn, u.ID)
}
