package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database instead of a file.
const MemoryPath = ":memory:"

// Row is one result row addressable by column name.
type Row map[string]any

// Conn owns the single connection to the questions database.
//
// Nothing is opened until the first call that needs the database. The pool
// behind it is pinned to one connection so an in-memory database survives
// for the lifetime of the Conn.
type Conn struct {
	path string
	log  zerolog.Logger

	mu sync.Mutex
	db *sql.DB
}

func NewConn(path string, log zerolog.Logger) *Conn {
	return &Conn{
		path: strings.TrimSpace(path),
		log:  log.With().Str("component", "store").Logger(),
	}
}

// WithConn runs fn with a fresh connection and closes it on every exit path.
func WithConn(ctx context.Context, path string, log zerolog.Logger, fn func(*Conn) error) (err error) {
	c := NewConn(path, log)
	defer func() {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if _, err := c.DB(ctx); err != nil {
		return err
	}
	return fn(c)
}

// DB returns the shared handle, opening it on first use.
func (c *Conn) DB(ctx context.Context) (*sql.DB, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return c.db, nil
	}

	db, err := openSQLite(ctx, c.path)
	if err != nil {
		c.log.Error().Err(err).Str("path", c.path).Msg("open database")
		return nil, err
	}
	c.db = db
	c.log.Info().Str("path", c.path).Msg("database opened")
	return db, nil
}

func openSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: sqlite path is required", ErrStoreUnavailable)
	}

	dsn := path
	if path != MemoryPath {
		dsn = "file:" + filepath.ToSlash(path) + "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return db, nil
}

// Close releases the handle. A Conn that was never used closes cleanly.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	c.log.Info().Str("path", c.path).Msg("database closed")
	return err
}

// Query runs a statement and returns every row keyed by column name.
func (c *Conn) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	db, err := c.DB(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		row := make(Row, len(columns))
		for i, name := range columns {
			row[name] = normalize(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	c.log.Debug().Str("sql", compact(query)).Int("rows", len(out)).Dur("elapsed", time.Since(start)).Msg("query")
	return out, nil
}

// Exec runs a statement that returns no rows.
func (c *Conn) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	db, err := c.DB(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("sql", compact(query)).Dur("elapsed", time.Since(start)).Msg("exec")
	return res, nil
}

// normalize maps driver values onto int64, float64, string or nil.
func normalize(v any) any {
	switch t := v.(type) {
	case []byte:
		return string(t)
	case int:
		return int64(t)
	case int32:
		return int64(t)
	default:
		return v
	}
}

func compact(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
