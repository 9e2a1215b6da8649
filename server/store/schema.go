package store

import (
	"context"
	"fmt"
)

// EnsureSchema creates the five forum tables when they are missing.
// Existing tables are left untouched.
func EnsureSchema(ctx context.Context, conn *Conn) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			fname TEXT NOT NULL,
			lname TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			student_id INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_questions_student ON questions(student_id);`,
		`CREATE TABLE IF NOT EXISTS replies (
			id INTEGER PRIMARY KEY,
			question_id INTEGER NOT NULL,
			student_id INTEGER NOT NULL,
			body TEXT NOT NULL,
			parent_id INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_replies_question ON replies(question_id);`,
		`CREATE INDEX IF NOT EXISTS idx_replies_parent ON replies(parent_id);`,
		`CREATE TABLE IF NOT EXISTS question_follows (
			id INTEGER PRIMARY KEY,
			question_id INTEGER NOT NULL,
			student_id INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_question_follows_question ON question_follows(question_id);`,
		`CREATE TABLE IF NOT EXISTS question_likes (
			id INTEGER PRIMARY KEY,
			question_id INTEGER NOT NULL,
			student_id INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_question_likes_question ON question_likes(question_id);`,
	}

	for _, stmt := range stmts {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
