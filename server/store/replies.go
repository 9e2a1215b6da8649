package store

import (
	"context"
	"fmt"
)

type ReplyRepo struct {
	t *tables
}

func (r *ReplyRepo) All(ctx context.Context) ([]Reply, error) {
	return r.t.replies.All(ctx)
}

func (r *ReplyRepo) FindByID(ctx context.Context, id int64) (Reply, bool, error) {
	return r.t.replies.FindByID(ctx, id)
}

func (r *ReplyRepo) FindByUserID(ctx context.Context, userID int64) ([]Reply, error) {
	return r.t.replies.filter(ctx, "student_id = ?", userID)
}

func (r *ReplyRepo) FindByQuestionID(ctx context.Context, questionID int64) ([]Reply, error) {
	return r.t.replies.filter(ctx, "question_id = ?", questionID)
}

// Save inserts a new reply or updates an existing one. The parent, when
// set, is expected to belong to the same question; that is not checked.
func (r *ReplyRepo) Save(ctx context.Context, reply *Reply) error {
	return r.t.replies.save(ctx, &reply.ID, *reply)
}

// Update writes an already persisted reply and refuses unsaved ones.
func (r *ReplyRepo) Update(ctx context.Context, reply *Reply) error {
	if reply.IsNew() {
		return fmt.Errorf("%w: reply has no id", ErrNotPersisted)
	}
	return r.t.replies.save(ctx, &reply.ID, *reply)
}

func (r *ReplyRepo) Author(ctx context.Context, reply Reply) (User, bool, error) {
	return r.t.users.FindByID(ctx, reply.AuthorID)
}

func (r *ReplyRepo) Question(ctx context.Context, reply Reply) (Question, bool, error) {
	return r.t.questions.FindByID(ctx, reply.QuestionID)
}

// ParentReply is not found for a root reply.
func (r *ReplyRepo) ParentReply(ctx context.Context, reply Reply) (Reply, bool, error) {
	if reply.ParentID == nil {
		return Reply{}, false, nil
	}
	return r.t.replies.FindByID(ctx, *reply.ParentID)
}

// ChildReplies returns the direct children of reply, not the whole subtree.
func (r *ReplyRepo) ChildReplies(ctx context.Context, reply Reply) ([]Reply, error) {
	if reply.IsNew() {
		return []Reply{}, nil
	}
	return r.t.replies.filter(ctx, "parent_id = ?", reply.ID)
}

// Thread loads every reply of a question into a ReplyTree.
func (r *ReplyRepo) Thread(ctx context.Context, questionID int64) (*ReplyTree, error) {
	replies, err := r.FindByQuestionID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return NewReplyTree(replies), nil
}
