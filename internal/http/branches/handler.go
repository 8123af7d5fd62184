package branches

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/cctvdash/internal/branch"
	"github.com/MrJamesThe3rd/cctvdash/internal/http/params"
	"github.com/MrJamesThe3rd/cctvdash/internal/importer"
)

type Handler struct {
	branchSvc *branch.Service
	importSvc *importer.Service
}

func NewHandler(branchSvc *branch.Service, importSvc *importer.Service) *Handler {
	return &Handler{
		branchSvc: branchSvc,
		importSvc: importSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/suggest", h.suggest)
	r.Post("/import", h.importList)
}

type branchResponse struct {
	ID        uuid.UUID  `json:"id"`
	Code      string     `json:"code"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type paramsDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type importResponse struct {
	Created   int         `json:"created"`
	Updated   int         `json:"updated"`
	Unchanged int         `json:"unchanged"`
	Rows      []paramsDTO `json:"rows,omitempty"`
}

func toResponseList(bs []*branch.Branch) []branchResponse {
	resp := make([]branchResponse, len(bs))
	for i, b := range bs {
		resp[i] = branchResponse{
			ID:        b.ID,
			Code:      b.Code,
			Name:      b.Name,
			CreatedAt: b.CreatedAt,
			UpdatedAt: b.UpdatedAt,
		}
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	bs, err := h.branchSvc.List(r.Context())
	if err != nil {
		slog.Error("failed to list branches", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(bs))
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	bs, err := h.branchSvc.Suggest(r.Context(), q, limit)
	if err != nil {
		slog.Error("failed to search branches", "query", q, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(bs))
}

// importList accepts a CSV or XLSX branch list in the "file" field. With
// dry_run=true the parsed rows are returned without saving.
func (h *Handler) importList(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatFor(header.Filename)
	}

	rows, err := h.importSvc.Parse(format, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if params.Bool(r.Form, "dry_run") {
		resp := importResponse{Rows: make([]paramsDTO, 0, len(rows))}
		for _, p := range rows {
			resp.Rows = append(resp.Rows, paramsDTO{Code: p.Code, Name: p.Name})
		}

		writeJSON(w, http.StatusOK, resp)
		return
	}

	result, err := h.branchSvc.Import(r.Context(), rows)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, importResponse{
		Created:   result.Created,
		Updated:   result.Updated,
		Unchanged: result.Unchanged,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
