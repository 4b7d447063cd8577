package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/vigil/pkg/repository"
)

var (
	errNotFound  = errors.New("situation not found")
	errDuplicate = errors.New("situation already exists")
)

func TestMapError(t *testing.T) {
	other := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"other pg error", &pgconn.PgError{Code: "23503"}, nil},
		{"unrelated", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errDuplicate)
			if tt.name == "other pg error" {
				var pgErr *pgconn.PgError
				if !errors.As(got, &pgErr) {
					t.Errorf("MapError() = %v, want pg error unchanged", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("MapError() = %v, want %v", got, tt.want)
			}
		})
	}
}

type result struct {
	affected int64
}

func (r result) LastInsertId() (int64, error) { return 0, nil }
func (r result) RowsAffected() (int64, error) { return r.affected, nil }

type executor struct {
	affected int64
	failAt   int
	queries  []string
}

func (e *executor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	e.queries = append(e.queries, query)
	if e.failAt > 0 && len(e.queries) == e.failAt {
		return nil, errors.New("exec failed")
	}
	return result{affected: e.affected}, nil
}

func TestExecExpectOne(t *testing.T) {
	ctx := context.Background()

	if err := repository.ExecExpectOne(ctx, &executor{affected: 1}, "DELETE FROM situations WHERE id = $1", 1); err != nil {
		t.Errorf("ExecExpectOne() error = %v", err)
	}

	err := repository.ExecExpectOne(ctx, &executor{affected: 0}, "DELETE FROM situations WHERE id = $1", 1)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("ExecExpectOne() error = %v, want sql.ErrNoRows", err)
	}
}

func TestExecAll(t *testing.T) {
	ctx := context.Background()
	stmts := []repository.Statement{
		{Query: "DELETE FROM situations"},
		{Query: "INSERT INTO situations (key) VALUES ($1)", Args: []any{"knife"}},
		{Query: "INSERT INTO situations (key) VALUES ($1)", Args: []any{"stairs"}},
	}

	e := &executor{}
	if err := repository.ExecAll(ctx, e, stmts); err != nil {
		t.Fatalf("ExecAll() error = %v", err)
	}
	if len(e.queries) != 3 {
		t.Errorf("executed %d statements, want 3", len(e.queries))
	}

	failing := &executor{failAt: 2}
	if err := repository.ExecAll(ctx, failing, stmts); err == nil {
		t.Error("expected error from second statement")
	}
	if len(failing.queries) != 2 {
		t.Errorf("executed %d statements after failure, want 2", len(failing.queries))
	}
}
