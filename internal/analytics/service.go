package analytics

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultEventsLimit   = 20
	DefaultBranchesLimit = 10
)

//go:generate mockgen -source=service.go -destination=source_mock.go -package=analytics
type Source interface {
	Summary(ctx context.Context, f Filter) (*Summary, error)
	Events(ctx context.Context, f Filter, p PageRequest) (*EventsPage, error)
	Branches(ctx context.Context, f Filter, p PageRequest) (*BranchesPage, error)
}

type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

// Overview is everything the dashboard shows for one filter.
type Overview struct {
	Summary *Summary
	Events  *EventsPage
}

// Overview fetches the summary and one page of events concurrently. Either
// failure cancels the other request.
func (s *Service) Overview(ctx context.Context, f Filter, p PageRequest) (*Overview, error) {
	p = p.normalize(DefaultEventsLimit)

	var out Overview

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := s.source.Summary(gctx, f)
		if err != nil {
			return err
		}
		out.Summary = summary
		return nil
	})

	g.Go(func() error {
		events, err := s.source.Events(gctx, f, p)
		if err != nil {
			return err
		}
		out.Events = events
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &out, nil
}

func (s *Service) Summary(ctx context.Context, f Filter) (*Summary, error) {
	return s.source.Summary(ctx, f)
}

func (s *Service) Events(ctx context.Context, f Filter, p PageRequest) (*EventsPage, error) {
	return s.source.Events(ctx, f, p.normalize(DefaultEventsLimit))
}

func (s *Service) Branches(ctx context.Context, f Filter, p PageRequest) (*BranchesPage, error) {
	return s.source.Branches(ctx, f, p.normalize(DefaultBranchesLimit))
}

// EachEvent pages through every event matching f and calls fn once per page.
func (s *Service) EachEvent(ctx context.Context, f Filter, pageSize int, fn func(page *EventsPage) error) error {
	p := PageRequest{Page: 1, Limit: pageSize}.normalize(DefaultEventsLimit)

	for {
		page, err := s.source.Events(ctx, f, p)
		if err != nil {
			return fmt.Errorf("fetching events page %d: %w", p.Page, err)
		}

		if err := fn(page); err != nil {
			return err
		}

		if !page.HasNext() || len(page.Events) == 0 {
			return nil
		}

		p.Page++
	}
}
