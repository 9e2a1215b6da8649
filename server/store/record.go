package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// table is the shared load/hydrate/save machinery behind every repository.
type table[T any] struct {
	conn *Conn
	name string
	// columns lists the non-id columns in declaration order.
	columns []string
	hydrate func(Row) (T, error)
	fields  func(T) map[string]any
}

// selectList names the id and declared columns, qualified by alias when
// the query joins other tables.
func (t *table[T]) selectList(alias string) string {
	names := append([]string{"id"}, t.columns...)
	cols := make([]string, len(names))
	for i, col := range names {
		if alias == "" {
			cols[i] = col
			continue
		}
		cols[i] = alias + "." + col + " AS " + col
	}
	return strings.Join(cols, ", ")
}

// queryAll runs a hand-written query whose result columns match the table.
func (t *table[T]) queryAll(ctx context.Context, query string, args ...any) ([]T, error) {
	rows, err := t.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", t.name, err)
	}
	return t.hydrateAll(rows)
}

// All loads every row of the table ordered by id.
func (t *table[T]) All(ctx context.Context) ([]T, error) {
	return t.filter(ctx, "")
}

// FindByID returns the record with the given id, if any.
func (t *table[T]) FindByID(ctx context.Context, id int64) (T, bool, error) {
	if id <= 0 {
		var zero T
		return zero, false, nil
	}
	return t.first(ctx, "id = ?", id)
}

func (t *table[T]) filter(ctx context.Context, where string, args ...any) ([]T, error) {
	query := "SELECT " + t.selectList("") + " FROM " + t.name
	if where != "" {
		query += " WHERE " + where
	}
	query += " ORDER BY id ASC;"

	rows, err := t.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", t.name, err)
	}
	return t.hydrateAll(rows)
}

func (t *table[T]) first(ctx context.Context, where string, args ...any) (T, bool, error) {
	var zero T
	query := "SELECT " + t.selectList("") + " FROM " + t.name +
		" WHERE " + where + " ORDER BY id ASC LIMIT 1;"

	rows, err := t.conn.Query(ctx, query, args...)
	if err != nil {
		return zero, false, fmt.Errorf("select %s: %w", t.name, err)
	}
	if len(rows) == 0 {
		return zero, false, nil
	}
	rec, err := t.hydrate(rows[0])
	if err != nil {
		return zero, false, err
	}
	return rec, true, nil
}

func (t *table[T]) hydrateAll(rows []Row) ([]T, error) {
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		rec, err := t.hydrate(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// save inserts rec when *id is unset and stores the new id back through the
// pointer; otherwise it updates the row with that id.
func (t *table[T]) save(ctx context.Context, id *int64, rec T) error {
	if *id < 0 {
		return fmt.Errorf("%w: %s id %d", ErrInvalidInput, t.name, *id)
	}

	values := t.fields(rec)
	if len(values) != len(t.columns) {
		return fmt.Errorf("%w: %s binds %d columns, want %d", ErrInvalidInput, t.name, len(values), len(t.columns))
	}
	args := make([]any, 0, len(t.columns)+1)
	for _, col := range t.columns {
		v, ok := values[col]
		if !ok {
			return fmt.Errorf("%w: %s.%s is not bound", ErrInvalidInput, t.name, col)
		}
		args = append(args, sql.Named(col, v))
	}

	if *id == 0 {
		placeholders := make([]string, len(t.columns))
		for i, col := range t.columns {
			placeholders[i] = ":" + col
		}
		res, err := t.conn.Exec(ctx,
			"INSERT INTO "+t.name+"("+strings.Join(t.columns, ", ")+") VALUES("+strings.Join(placeholders, ", ")+");",
			args...,
		)
		if err != nil {
			return fmt.Errorf("insert %s: %w", t.name, err)
		}
		newID, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("insert %s: %w", t.name, err)
		}
		*id = newID
		return nil
	}

	sets := make([]string, len(t.columns))
	for i, col := range t.columns {
		sets[i] = col + " = :" + col
	}
	args = append(args, sql.Named("id", *id))
	res, err := t.conn.Exec(ctx,
		"UPDATE "+t.name+" SET "+strings.Join(sets, ", ")+" WHERE id = :id;",
		args...,
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", t.name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %s: %w", t.name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s id %d", ErrNotPersisted, t.name, *id)
	}
	return nil
}

// hydrator reads typed columns out of a Row and keeps the first failure.
type hydrator struct {
	table string
	row   Row
	err   error
}

func newHydrator(table string, row Row) *hydrator {
	return &hydrator{table: table, row: row}
}

func (h *hydrator) fail(col string, err error) {
	if h.err == nil {
		h.err = &HydrationError{Table: h.table, Column: col, Err: err}
	}
}

func (h *hydrator) value(col string) (any, bool) {
	v, ok := h.row[col]
	if !ok {
		h.fail(col, errMissingColumn)
	}
	return v, ok
}

// integer reads an integer column; NULL reads as zero, the unset id.
func (h *hydrator) integer(col string) int64 {
	p := h.optInt(col)
	if p == nil {
		return 0
	}
	return *p
}

func (h *hydrator) optInt(col string) *int64 {
	v, ok := h.value(col)
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case int64:
		return &t
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) || t < math.MinInt64 || t >= math.MaxInt64 {
			h.fail(col, fmt.Errorf("value %v out of int64 range", t))
			return nil
		}
		if t != math.Trunc(t) {
			h.fail(col, fmt.Errorf("non-integral value %v", t))
			return nil
		}
		n := int64(t)
		return &n
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			h.fail(col, err)
			return nil
		}
		return &n
	default:
		h.fail(col, fmt.Errorf("unexpected type %T", v))
		return nil
	}
}

func (h *hydrator) text(col string) string {
	v, ok := h.value(col)
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		h.fail(col, fmt.Errorf("unexpected type %T", v))
		return ""
	}
}
