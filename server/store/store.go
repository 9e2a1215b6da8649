package store

// User is a row of the users table.
type User struct {
	ID    int64  `json:"id"`
	FName string `json:"fname"`
	LName string `json:"lname"`
}

// Question is a row of the questions table. AuthorID maps to student_id.
type Question struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	AuthorID int64  `json:"author_id"`
}

// Reply is a row of the replies table. A nil ParentID marks a root reply.
type Reply struct {
	ID         int64  `json:"id"`
	QuestionID int64  `json:"question_id"`
	AuthorID   int64  `json:"author_id"`
	Body       string `json:"body"`
	ParentID   *int64 `json:"parent_id,omitempty"`
}

// Follow links a user to a question they follow.
type Follow struct {
	ID         int64 `json:"id"`
	QuestionID int64 `json:"question_id"`
	UserID     int64 `json:"user_id"`
}

// Like links a user to a question they like.
type Like struct {
	ID         int64 `json:"id"`
	QuestionID int64 `json:"question_id"`
	UserID     int64 `json:"user_id"`
}

func (u User) IsNew() bool     { return u.ID == 0 }
func (q Question) IsNew() bool { return q.ID == 0 }
func (r Reply) IsNew() bool    { return r.ID == 0 }
func (f Follow) IsNew() bool   { return f.ID == 0 }
func (l Like) IsNew() bool     { return l.ID == 0 }

// IsRoot reports whether the reply answers the question directly.
func (r Reply) IsRoot() bool { return r.ParentID == nil }

const (
	usersTable     = "users"
	questionsTable = "questions"
	repliesTable   = "replies"
	followsTable   = "question_follows"
	likesTable     = "question_likes"
)

// HydrateUser builds a User from a row keyed by column name.
func HydrateUser(row Row) (User, error) {
	h := newHydrator(usersTable, row)
	u := User{
		ID:    h.integer("id"),
		FName: h.text("fname"),
		LName: h.text("lname"),
	}
	return u, h.err
}

func HydrateQuestion(row Row) (Question, error) {
	h := newHydrator(questionsTable, row)
	q := Question{
		ID:       h.integer("id"),
		Title:    h.text("title"),
		Body:     h.text("body"),
		AuthorID: h.integer("student_id"),
	}
	return q, h.err
}

func HydrateReply(row Row) (Reply, error) {
	h := newHydrator(repliesTable, row)
	r := Reply{
		ID:         h.integer("id"),
		QuestionID: h.integer("question_id"),
		AuthorID:   h.integer("student_id"),
		Body:       h.text("body"),
		ParentID:   h.optInt("parent_id"),
	}
	return r, h.err
}

func HydrateFollow(row Row) (Follow, error) {
	h := newHydrator(followsTable, row)
	f := Follow{
		ID:         h.integer("id"),
		QuestionID: h.integer("question_id"),
		UserID:     h.integer("student_id"),
	}
	return f, h.err
}

func HydrateLike(row Row) (Like, error) {
	h := newHydrator(likesTable, row)
	l := Like{
		ID:         h.integer("id"),
		QuestionID: h.integer("question_id"),
		UserID:     h.integer("student_id"),
	}
	return l, h.err
}

// tables holds one accessor per backing table, all sharing a Conn.
type tables struct {
	conn      *Conn
	users     *table[User]
	questions *table[Question]
	replies   *table[Reply]
	follows   *table[Follow]
	likes     *table[Like]
}

func newTables(conn *Conn) *tables {
	return &tables{
		conn: conn,
		users: &table[User]{
			conn:    conn,
			name:    usersTable,
			columns: []string{"fname", "lname"},
			hydrate: HydrateUser,
			fields: func(u User) map[string]any {
				return map[string]any{"fname": u.FName, "lname": u.LName}
			},
		},
		questions: &table[Question]{
			conn:    conn,
			name:    questionsTable,
			columns: []string{"title", "body", "student_id"},
			hydrate: HydrateQuestion,
			fields: func(q Question) map[string]any {
				return map[string]any{"title": q.Title, "body": q.Body, "student_id": q.AuthorID}
			},
		},
		replies: &table[Reply]{
			conn:    conn,
			name:    repliesTable,
			columns: []string{"question_id", "student_id", "body", "parent_id"},
			hydrate: HydrateReply,
			fields: func(r Reply) map[string]any {
				var parent any
				if r.ParentID != nil {
					parent = *r.ParentID
				}
				return map[string]any{
					"question_id": r.QuestionID,
					"student_id":  r.AuthorID,
					"body":        r.Body,
					"parent_id":   parent,
				}
			},
		},
		follows: &table[Follow]{
			conn:    conn,
			name:    followsTable,
			columns: []string{"question_id", "student_id"},
			hydrate: HydrateFollow,
			fields: func(f Follow) map[string]any {
				return map[string]any{"question_id": f.QuestionID, "student_id": f.UserID}
			},
		},
		likes: &table[Like]{
			conn:    conn,
			name:    likesTable,
			columns: []string{"question_id", "student_id"},
			hydrate: HydrateLike,
			fields: func(l Like) map[string]any {
				return map[string]any{"question_id": l.QuestionID, "student_id": l.UserID}
			},
		},
	}
}

// Store groups the repositories of the questions database.
type Store struct {
	Users     *UserRepo
	Questions *QuestionRepo
	Replies   *ReplyRepo
	Follows   *FollowRepo
	Likes     *LikeRepo

	conn *Conn
}

func New(conn *Conn) *Store {
	t := newTables(conn)
	return &Store{
		Users:     &UserRepo{t: t},
		Questions: &QuestionRepo{t: t},
		Replies:   &ReplyRepo{t: t},
		Follows:   &FollowRepo{t: t},
		Likes:     &LikeRepo{t: t},
		conn:      conn,
	}
}

// Conn returns the connection the repositories share.
func (s *Store) Conn() *Conn {
	return s.conn
}
