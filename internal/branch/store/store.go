package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/cctvdash/internal/branch"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, code, name, created_at, updated_at
func scanBranch(s scanner) (*branch.Branch, error) {
	var b branch.Branch
	if err := s.Scan(&b.ID, &b.Code, &b.Name, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}

	return &b, nil
}

const selectBranchColumns = `id, code, name, created_at, updated_at`

func (s *Store) GetByCode(ctx context.Context, code string) (*branch.Branch, error) {
	query := `SELECT ` + selectBranchColumns + `
		FROM branches
		WHERE LOWER(code) = LOWER($1)`

	b, err := scanBranch(s.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, branch.ErrNotFound
		}

		return nil, fmt.Errorf("getting branch: %w", err)
	}

	return b, nil
}

// Search matches query anywhere in the code or name, preferring code prefix
// matches and then shorter names.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]*branch.Branch, error) {
	q := `SELECT ` + selectBranchColumns + `
		FROM branches
		WHERE code ILIKE '%' || $1 || '%' ESCAPE '\' OR name ILIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY (code ILIKE $1 || '%' ESCAPE '\') DESC, LENGTH(name) ASC, code ASC
		LIMIT $2`

	rows, err := s.db.QueryContext(ctx, q, escapeLike(query), limit)
	if err != nil {
		return nil, fmt.Errorf("searching branches: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}

func (s *Store) List(ctx context.Context) ([]*branch.Branch, error) {
	query := `SELECT ` + selectBranchColumns + `
		FROM branches
		ORDER BY code ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}
	defer rows.Close()

	return collect(rows)
}

func collect(rows *sql.Rows) ([]*branch.Branch, error) {
	var branches []*branch.Branch

	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning branch: %w", err)
		}

		branches = append(branches, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating branch rows: %w", err)
	}

	return branches, nil
}

// escapeLike neutralises LIKE wildcards typed by the user.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type importTx struct {
	tx *sql.Tx
}

// BeginImport opens a transaction holding an advisory lock so concurrent
// imports of branch lists serialise.
func (s *Store) BeginImport(ctx context.Context) (branch.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext('branches_import'))"); err != nil {
		dbTx.Rollback()
		return nil, fmt.Errorf("acquiring import lock: %w", err)
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindByCodes(ctx context.Context, codes []string) (map[string]*branch.Branch, error) {
	found := make(map[string]*branch.Branch, len(codes))
	if len(codes) == 0 {
		return found, nil
	}

	query := `SELECT ` + selectBranchColumns + `
		FROM branches
		WHERE code = ANY($1)`

	rows, err := itx.tx.QueryContext(ctx, query, codes)
	if err != nil {
		return nil, fmt.Errorf("finding branches: %w", err)
	}
	defer rows.Close()

	branches, err := collect(rows)
	if err != nil {
		return nil, err
	}

	for _, b := range branches {
		found[b.Code] = b
	}

	return found, nil
}

func (itx *importTx) Upsert(ctx context.Context, b *branch.Branch) error {
	query := `
		INSERT INTO branches (code, name, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	if err := itx.tx.QueryRowContext(ctx, query, b.Code, b.Name).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return fmt.Errorf("upserting branch: %w", err)
	}

	return nil
}
