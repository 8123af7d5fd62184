package parking

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
	"github.com/MrJamesThe3rd/cctvdash/internal/dashboard"
	"github.com/MrJamesThe3rd/cctvdash/internal/http/params"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

type Handler struct {
	svc      *analytics.Service
	branches dashboard.BranchResolver
	clock    selection.Clock
}

func NewHandler(svc *analytics.Service, branches dashboard.BranchResolver, clock selection.Clock) *Handler {
	return &Handler{
		svc:      svc,
		branches: branches,
		clock:    clock,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/overview", h.overview)
	r.Get("/summary", h.summary)
	r.Get("/events", h.events)
	r.Get("/all_branches", h.allBranches)
}

type overviewResponse struct {
	Summary *analytics.Summary    `json:"summary"`
	Events  *analytics.EventsPage `json:"events"`
}

// filter builds the analytics filter from the selection, branch and
// violation_only query parameters. branch accepts a code or part of a name.
func (h *Handler) filter(r *http.Request) (analytics.Filter, error) {
	q := r.URL.Query()

	sel, err := params.Selection(q, h.clock)
	if err != nil {
		return analytics.Filter{}, err
	}

	branch := q.Get("branch_id")
	if branch == "" {
		branch = dashboard.ResolveBranch(r.Context(), h.branches, q.Get("branch"))
	}

	return analytics.NewFilter(sel, h.clock, branch, params.Bool(q, "violation_only")), nil
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	f, err := h.filter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := params.Page(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := h.svc.Overview(r.Context(), f, page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, overviewResponse{Summary: out.Summary, Events: out.Events})
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	f, err := h.filter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := h.svc.Summary(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, out)
}

func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	f, err := h.filter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := params.Page(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := h.svc.Events(r.Context(), f, page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, out)
}

func (h *Handler) allBranches(w http.ResponseWriter, r *http.Request) {
	f, err := h.filter(r)
	if err != nil {
		writeError(w, err)
		return
	}

	page, err := params.Page(r.URL.Query())
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := h.svc.Branches(r.Context(), f, page)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps bad input to 400 and upstream failures to 502/504.
func writeError(w http.ResponseWriter, err error) {
	var statusErr *analytics.StatusError

	switch {
	case errors.Is(err, params.ErrBadParam), errors.Is(err, selection.ErrInvalidSelection):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &statusErr):
		slog.Error("analytics api error", "status", statusErr.Code, "url", statusErr.URL, "detail", statusErr.Detail)
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "analytics api timed out", http.StatusGatewayTimeout)
	default:
		slog.Error("parking request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
