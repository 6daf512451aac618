package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// fakeResult is what the next Query call returns.
type fakeResult struct {
	columns []string
	rows    [][]any
	err     error
}

type fakeQuery struct {
	sql  string
	args []any
}

// fakeDB answers queries from a queue of canned results and records what it
// was asked.
type fakeDB struct {
	results    []fakeResult
	queries    []fakeQuery
	committed  int
	rolledBack int
	pingErr    error
}

func (f *fakeDB) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.queries = append(f.queries, fakeQuery{sql: sql, args: args})

	if len(f.results) == 0 {
		return nil, fmt.Errorf("unexpected query %q", sql)
	}

	next := f.results[0]
	f.results = f.results[1:]
	if next.err != nil {
		return nil, next.err
	}

	return &fakeRows{columns: next.columns, rows: next.rows}, nil
}

func (f *fakeDB) Begin(context.Context) (pgx.Tx, error) {
	return &fakeTx{db: f}, nil
}

func (f *fakeDB) Ping(context.Context) error {
	return f.pingErr
}

// fakeTx only implements what pgx.BeginFunc and scany call; anything else
// panics on the nil embedded Tx.
type fakeTx struct {
	pgx.Tx
	db   *fakeDB
	done bool
}

func (t *fakeTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.db.Query(ctx, sql, args...)
}

func (t *fakeTx) Commit(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.db.committed++
	return nil
}

func (t *fakeTx) Rollback(context.Context) error {
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.db.rolledBack++
	return nil
}

type fakeRows struct {
	columns []string
	rows    [][]any
	idx     int
	closed  bool
}

func (r *fakeRows) Close()                        { r.closed = true }
func (r *fakeRows) Err() error                    { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) Conn() *pgx.Conn               { return nil }
func (r *fakeRows) RawValues() [][]byte           { return nil }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	fields := make([]pgconn.FieldDescription, len(r.columns))
	for i, c := range r.columns {
		fields[i] = pgconn.FieldDescription{Name: c}
	}
	return fields
}

func (r *fakeRows) Next() bool {
	if r.closed || r.idx >= len(r.rows) {
		r.closed = true
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Values() ([]any, error) {
	if r.idx == 0 {
		return nil, errors.New("no current row")
	}
	return r.rows[r.idx-1], nil
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(row))
	}

	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if row[i] == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}

		value := reflect.ValueOf(row[i])
		if !value.Type().ConvertibleTo(target.Type()) {
			return fmt.Errorf("scan: column %s: cannot assign %T to %s", r.columns[i], row[i], target.Type())
		}
		target.Set(value.Convert(target.Type()))
	}

	return nil
}
