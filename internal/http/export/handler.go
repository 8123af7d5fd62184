package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
	"github.com/MrJamesThe3rd/cctvdash/internal/dashboard"
	"github.com/MrJamesThe3rd/cctvdash/internal/export"
	"github.com/MrJamesThe3rd/cctvdash/internal/http/params"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

type Handler struct {
	svc      *export.Service
	branches dashboard.BranchResolver
	clock    selection.Clock
}

func NewHandler(svc *export.Service, branches dashboard.BranchResolver, clock selection.Clock) *Handler {
	return &Handler{
		svc:      svc,
		branches: branches,
		clock:    clock,
	}
}

// Routes take the selection and filters in the query string, as the parking
// routes do.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/download", h.download)
}

type exportMetadataResponse struct {
	Events  int    `json:"events"`
	Images  int    `json:"images"`
	Summary string `json:"summary"`
}

func (h *Handler) run(r *http.Request, dir string) (*export.Result, error) {
	q := r.URL.Query()

	sel, err := params.Selection(q, h.clock)
	if err != nil {
		return nil, err
	}

	branchID := q.Get("branch_id")
	if branchID == "" {
		branchID = dashboard.ResolveBranch(r.Context(), h.branches, q.Get("branch"))
	}

	f := analytics.NewFilter(sel, h.clock, branchID, params.Bool(q, "violation_only"))

	return h.svc.Export(r.Context(), f, dir)
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	tmpDir, err := os.MkdirTemp("", "cctvdash-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	res, err := h.run(r, tmpDir)
	if err != nil {
		writeError(w, err)
		return
	}

	var summary bytes.Buffer
	export.WriteSummary(&summary, res.Items)

	resp := exportMetadataResponse{Events: len(res.Items), Summary: summary.String()}
	for _, it := range res.Items {
		if it.ImagePath != "" {
			resp.Images++
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	tmpDir, err := os.MkdirTemp("", "cctvdash-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	res, err := h.run(r, tmpDir)
	if err != nil {
		writeError(w, err)
		return
	}

	var summary bytes.Buffer
	export.WriteSummary(&summary, res.Items)

	if err := os.WriteFile(filepath.Join(res.Dir, "summary.txt"), summary.Bytes(), 0o644); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	var archive bytes.Buffer
	if err := export.Archive(&archive, res.Dir); err != nil {
		slog.Error("failed to create zip", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(res.Dir)+".zip"))

	if _, err := archive.WriteTo(w); err != nil {
		slog.Error("failed to write zip", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, params.ErrBadParam), errors.Is(err, selection.ErrInvalidSelection):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, analytics.ErrUnexpectedStatus):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		slog.Error("export failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
