package selection

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
	"github.com/MrJamesThe3rd/cctvdash/internal/calendar"
	"github.com/MrJamesThe3rd/cctvdash/internal/http/params"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

type Handler struct {
	clock selection.Clock
}

func NewHandler(clock selection.Clock) *Handler {
	return &Handler{clock: clock}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/resolve", h.resolve)
	r.Get("/current", h.current)
	r.Get("/navigate", h.navigate)
	r.Get("/calendar/month", h.month)
	r.Get("/calendar/weeks", h.weeks)
}

type resolveResponse struct {
	Tab          string            `json:"tab"`
	Mode         string            `json:"mode"`
	Label        string            `json:"label"`
	Start        time.Time         `json:"start"`
	End          time.Time         `json:"end"`
	StartDate    string            `json:"start_date"`
	EndDate      string            `json:"end_date"`
	GroupBy      analytics.GroupBy `json:"group_by"`
	UpdatedUntil string            `json:"updated_until"`
	Query        map[string]string `json:"query"`
}

func (h *Handler) toResponse(sel selection.Selection, f *selection.Formatter) resolveResponse {
	rng := selection.Resolve(sel, h.clock)

	query := make(map[string]string)
	for k, v := range params.Encode(sel) {
		query[k] = v[0]
	}

	return resolveResponse{
		Tab:          query["tab"],
		Mode:         query["mode"],
		Label:        f.Format(sel),
		Start:        rng.Start,
		End:          rng.End,
		StartDate:    rng.Start.Format(time.DateOnly),
		EndDate:      rng.End.Format(time.DateOnly),
		GroupBy:      analytics.GroupByFor(sel),
		UpdatedUntil: f.UpdatedUntil(sel),
		Query:        query,
	}
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request) {
	sel, err := params.Selection(r.URL.Query(), h.clock)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeSelection(w, r, sel)
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	tab, err := selection.ParseTab(r.URL.Query().Get("tab"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeSelection(w, r, selection.Current(tab, h.clock))
}

// navigate steps the selection by dir units (default 1).
func (h *Handler) navigate(w http.ResponseWriter, r *http.Request) {
	sel, err := params.Selection(r.URL.Query(), h.clock)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dir := 1
	if s := r.URL.Query().Get("dir"); s != "" {
		if dir, err = strconv.Atoi(s); err != nil {
			http.Error(w, "invalid dir", http.StatusBadRequest)
			return
		}
	}

	next := selection.Reduce(selection.State{Selection: sel}, selection.Navigate{Dir: dir}, h.clock)

	h.writeSelection(w, r, next.Selection)
}

func (h *Handler) writeSelection(w http.ResponseWriter, r *http.Request, sel selection.Selection) {
	f := selection.NewFormatter(params.Language(r), h.clock)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Language", f.Language().String())

	if err := json.NewEncoder(w).Encode(h.toResponse(sel, f)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type cellResponse struct {
	Date  string `json:"date"`
	Day   int    `json:"day"`
	Today bool   `json:"today,omitempty"`
}

type monthResponse struct {
	Year      int               `json:"year"`
	Month     int               `json:"month"`
	MonthName string            `json:"month_name"`
	Weekdays  [7]string         `json:"weekdays"`
	Rows      [][]*cellResponse `json:"rows"`
}

func (h *Handler) month(w http.ResponseWriter, r *http.Request) {
	today := h.clock.Today()

	year, month, err := yearMonth(r, today)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f := selection.NewFormatter(params.Language(r), h.clock)
	grid := calendar.MonthGrid(year, month, today.Location())

	resp := monthResponse{
		Year:      year,
		Month:     int(month),
		MonthName: f.MonthName(month),
		Weekdays:  f.Weekdays(),
		Rows:      make([][]*cellResponse, 0, len(grid)),
	}

	for _, row := range grid {
		cells := make([]*cellResponse, 0, len(row))
		for _, c := range row {
			if c.Empty() {
				cells = append(cells, nil)
				continue
			}

			cells = append(cells, &cellResponse{
				Date:  c.Date.Format(time.DateOnly),
				Day:   c.Day(),
				Today: calendar.SameDay(c.Date, today),
			})
		}
		resp.Rows = append(resp.Rows, cells)
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type weekResponse struct {
	Week    int    `json:"week"`
	Start   string `json:"start"`
	End     string `json:"end"`
	Current bool   `json:"current,omitempty"`
}

type weeksResponse struct {
	Year  int            `json:"year"`
	Weeks []weekResponse `json:"weeks"`
}

func (h *Handler) weeks(w http.ResponseWriter, r *http.Request) {
	today := h.clock.Today()

	year, _, err := yearMonth(r, today)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	curYear, curWeek := calendar.ISOWeek(today)

	grid := calendar.WeekGrid(year, today.Location())
	resp := weeksResponse{Year: year, Weeks: make([]weekResponse, 0, len(grid))}

	for _, ws := range grid {
		resp.Weeks = append(resp.Weeks, weekResponse{
			Week:    ws.Week,
			Start:   ws.Range.Start.Format(time.DateOnly),
			End:     ws.Range.End.Format(time.DateOnly),
			Current: ws.Year == curYear && ws.Week == curWeek,
		})
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

var errYearMonth = errors.New("year must be 1..9999 and month 1..12")

// yearMonth reads ?year and ?month, defaulting to the current ones.
func yearMonth(r *http.Request, today time.Time) (int, time.Month, error) {
	year, month := today.Year(), today.Month()

	if s := r.URL.Query().Get("year"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 9999 {
			return 0, 0, errYearMonth
		}
		year = n
	}

	if s := r.URL.Query().Get("month"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 12 {
			return 0, 0, errYearMonth
		}
		month = time.Month(n)
	}

	return year, month, nil
}
