package branch

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=branch
type Repository interface {
	GetByCode(ctx context.Context, code string) (*Branch, error)
	Search(ctx context.Context, query string, limit int) ([]*Branch, error)
	List(ctx context.Context) ([]*Branch, error)

	BeginImport(ctx context.Context) (ImportTx, error)
}

type ImportTx interface {
	FindByCodes(ctx context.Context, codes []string) (map[string]*Branch, error)
	Upsert(ctx context.Context, b *Branch) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve turns the free-text branch filter into a branch code: an exact
// code match first, then a branch whose code or name is the only one
// containing the query. Anything else is passed through trimmed so the
// analytics API can decide.
func (s *Service) Resolve(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil
	}

	b, err := s.repo.GetByCode(ctx, query)
	if err == nil {
		return b.Code, nil
	}

	if !errors.Is(err, ErrNotFound) {
		return "", fmt.Errorf("looking up branch code: %w", err)
	}

	matches, err := s.repo.Search(ctx, query, 2)
	if err != nil {
		return "", fmt.Errorf("searching branches: %w", err)
	}

	if len(matches) == 1 {
		return matches[0].Code, nil
	}

	return query, nil
}

// Suggest lists branches whose code or name contains query.
func (s *Service) Suggest(ctx context.Context, query string, limit int) ([]*Branch, error) {
	if limit < 1 {
		limit = 10
	}

	return s.repo.Search(ctx, strings.TrimSpace(query), limit)
}

func (s *Service) List(ctx context.Context) ([]*Branch, error) {
	return s.repo.List(ctx)
}

type ImportParams struct {
	Code string
	Name string
}

type ImportResult struct {
	Created   int
	Updated   int
	Unchanged int
}

// Import upserts a branch list. Rows are keyed by code; a later row wins
// over an earlier one with the same code.
func (s *Service) Import(ctx context.Context, params []ImportParams) (*ImportResult, error) {
	byCode := make(map[string]ImportParams, len(params))
	order := make([]string, 0, len(params))

	for i, p := range params {
		p.Code = strings.TrimSpace(p.Code)
		p.Name = strings.TrimSpace(p.Name)

		if p.Code == "" {
			return nil, fmt.Errorf("row %d: missing branch code", i+1)
		}

		if _, seen := byCode[p.Code]; !seen {
			order = append(order, p.Code)
		}

		byCode[p.Code] = p
	}

	result := &ImportResult{}
	if len(order) == 0 {
		return result, nil
	}

	tx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning import: %w", err)
	}
	defer tx.Rollback()

	existing, err := tx.FindByCodes(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("finding existing branches: %w", err)
	}

	for _, code := range order {
		p := byCode[code]

		b, ok := existing[code]
		switch {
		case !ok:
			b = &Branch{Code: p.Code, Name: p.Name}
			result.Created++
		case b.Name == p.Name:
			result.Unchanged++
			continue
		default:
			b.Name = p.Name
			result.Updated++
		}

		if err := tx.Upsert(ctx, b); err != nil {
			return nil, fmt.Errorf("saving branch %s: %w", code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}

	return result, nil
}

// Passthrough resolves a branch filter to itself. It stands in for the
// directory when no database is configured.
type Passthrough struct{}

func (Passthrough) Resolve(_ context.Context, query string) (string, error) {
	return strings.TrimSpace(query), nil
}
