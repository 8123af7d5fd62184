// Package dashboard holds the state behind the parking violation dashboard:
// the time picker, the branch and violation filters, the current page and
// the last overview fetched for them.
package dashboard

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

// OverviewSource loads one dashboard overview.
type OverviewSource interface {
	Overview(ctx context.Context, f analytics.Filter, p analytics.PageRequest) (*analytics.Overview, error)
}

// BranchResolver maps the free-text branch filter to a branch id.
type BranchResolver interface {
	Resolve(ctx context.Context, query string) (string, error)
}

// Request is a snapshot of everything needed to fetch an overview.
type Request struct {
	ID            uint64
	Selection     selection.Selection
	BranchQuery   string
	ViolationOnly bool
	Page          analytics.PageRequest

	ctx context.Context
}

func (r Request) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}

// Response carries the outcome of a Request back to the controller.
type Response struct {
	ID       uint64
	Filter   analytics.Filter
	Overview *analytics.Overview
	Err      error
}

// Fetcher executes requests. It holds no dashboard state and may be called
// from any goroutine.
type Fetcher struct {
	source   OverviewSource
	branches BranchResolver
	clock    selection.Clock
}

// ResolveBranch maps query to a branch id with r. When r is nil or fails the
// trimmed query is used as the id.
func ResolveBranch(ctx context.Context, r BranchResolver, query string) string {
	query = strings.TrimSpace(query)
	if query == "" || r == nil {
		return query
	}

	id, err := r.Resolve(ctx, query)
	if err != nil {
		slog.Warn("failed to resolve branch, using query as id", "query", query, "error", err)
		return query
	}

	return id
}

func NewFetcher(source OverviewSource, branches BranchResolver, clock selection.Clock) *Fetcher {
	return &Fetcher{source: source, branches: branches, clock: clock}
}

func (f *Fetcher) Fetch(req Request) Response {
	ctx := req.Context()

	filter := analytics.NewFilter(req.Selection, f.clock, ResolveBranch(ctx, f.branches, req.BranchQuery), req.ViolationOnly)

	overview, err := f.source.Overview(ctx, filter, req.Page)
	return Response{ID: req.ID, Filter: filter, Overview: overview, Err: err}
}

// Controller is the dashboard state. It is owned by a single goroutine; all
// fetching happens through Requests handed to a Fetcher and the Responses
// handed back to Apply.
type Controller struct {
	clock    selection.Clock
	pageSize int

	Picker        selection.State
	BranchQuery   string
	ViolationOnly bool
	Page          int

	Overview  *analytics.Overview
	Filter    analytics.Filter
	Err       error
	UpdatedAt time.Time

	tracker Tracker
}

func NewController(clock selection.Clock, pageSize int) *Controller {
	if pageSize < 1 {
		pageSize = analytics.DefaultEventsLimit
	}

	return &Controller{
		clock:    clock,
		pageSize: pageSize,
		Picker:   selection.NewState(clock),
		Page:     1,
	}
}

func (c *Controller) Selection() selection.Selection {
	return c.Picker.Selection
}

// Loading reports whether a request is still outstanding.
func (c *Controller) Loading() bool {
	return c.tracker.InFlight() > 0
}

// Dispatch feeds a picker action through the reducer. When the committed
// selection changes the event page resets and a superseding request is
// returned.
func (c *Controller) Dispatch(a selection.Action) (Request, bool) {
	prev := c.Picker.Selection
	c.Picker = selection.Reduce(c.Picker, a, c.clock)

	if c.Picker.Selection == prev {
		return Request{}, false
	}

	c.Page = 1
	return c.begin(true), true
}

func (c *Controller) SetBranch(query string) (Request, bool) {
	query = strings.TrimSpace(query)
	if query == c.BranchQuery {
		return Request{}, false
	}

	c.BranchQuery = query
	c.Page = 1
	return c.begin(true), true
}

func (c *Controller) SetViolationOnly(on bool) (Request, bool) {
	if on == c.ViolationOnly {
		return Request{}, false
	}

	c.ViolationOnly = on
	c.Page = 1
	return c.begin(true), true
}

// SetPage moves to page n of the event table, clamped to the known pages.
func (c *Controller) SetPage(n int) (Request, bool) {
	if n < 1 {
		n = 1
	}

	if c.Overview != nil && c.Overview.Events != nil && c.Overview.Events.TotalPages > 0 && n > c.Overview.Events.TotalPages {
		n = c.Overview.Events.TotalPages
	}

	if n == c.Page {
		return Request{}, false
	}

	c.Page = n
	return c.begin(true), true
}

// Refresh reloads the current view, superseding anything in flight.
func (c *Controller) Refresh() Request {
	return c.begin(true)
}

// Poll reloads the current view without cancelling earlier requests. Among
// overlapping polls the latest issued one wins.
func (c *Controller) Poll() Request {
	return c.begin(false)
}

// Apply stores resp if it is the newest response. Failures keep the last
// good overview and only record the error.
func (c *Controller) Apply(resp Response) bool {
	if !c.tracker.Accept(resp.ID) {
		slog.Debug("dropping stale response", "id", resp.ID, "latest", c.tracker.Latest())
		return false
	}

	if resp.Err != nil {
		c.Err = resp.Err
		return true
	}

	c.Err = nil
	c.Overview = resp.Overview
	c.Filter = resp.Filter
	c.UpdatedAt = c.clock.Time()

	return true
}

// Close cancels every request in flight.
func (c *Controller) Close() {
	c.tracker.Stop()
}

func (c *Controller) begin(supersede bool) Request {
	id, ctx := c.tracker.Begin(context.Background(), supersede)

	return Request{
		ID:            id,
		Selection:     c.Picker.Selection,
		BranchQuery:   c.BranchQuery,
		ViolationOnly: c.ViolationOnly,
		Page:          analytics.PageRequest{Page: c.Page, Limit: c.pageSize},
		ctx:           ctx,
	}
}
