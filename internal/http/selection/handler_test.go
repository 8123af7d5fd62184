package selection_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	selectionHandler "github.com/MrJamesThe3rd/cctvdash/internal/http/selection"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

var bangkok = time.FixedZone("ICT", 7*60*60)

func router() http.Handler {
	clock := selection.Clock{
		Location: bangkok,
		Now:      func() time.Time { return time.Date(2025, 3, 12, 10, 0, 0, 0, bangkok) },
	}

	r := chi.NewRouter()
	selectionHandler.NewHandler(clock).Routes(r)

	return r
}

func get(t *testing.T, target string, out any) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router().ServeHTTP(rec, req)

	if out != nil && rec.Code == http.StatusOK {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
	}

	return rec
}

type resolved struct {
	Tab          string            `json:"tab"`
	Mode         string            `json:"mode"`
	Label        string            `json:"label"`
	StartDate    string            `json:"start_date"`
	EndDate      string            `json:"end_date"`
	GroupBy      string            `json:"group_by"`
	UpdatedUntil string            `json:"updated_until"`
	Query        map[string]string `json:"query"`
}

func TestHandler_Resolve(t *testing.T) {
	type testCase struct {
		name   string
		target string
		want   resolved
	}

	tests := []testCase{
		{
			name:   "Default",
			target: "/resolve?lang=en",
			want: resolved{
				Tab: "day", Mode: "single", Label: "12/03/2025 (today)",
				StartDate: "2025-03-12", EndDate: "2025-03-12", GroupBy: "hour",
				UpdatedUntil: "Data updated until 12 March 2025",
				Query:        map[string]string{"tab": "day", "mode": "single", "date": "2025-03-12"},
			},
		},
		{
			name:   "WeekSpan",
			target: "/resolve?lang=en&tab=week&mode=range&year=2025&start_week=10&end_week=12",
			want: resolved{
				Tab: "week", Mode: "range", Label: "Weeks 10–12 (3 Mar – 23 Mar), 2025",
				StartDate: "2025-03-03", EndDate: "2025-03-23", GroupBy: "week",
				UpdatedUntil: "Data updated until 23 March 2025",
				Query: map[string]string{
					"tab": "week", "mode": "range", "year": "2025", "start_week": "10", "end_week": "12",
				},
			},
		},
		{
			name:   "ThaiMonth",
			target: "/resolve?tab=month&year=2025&month=2",
			want: resolved{
				Tab: "month", Mode: "single", Label: "กุมภาพันธ์ 2025",
				StartDate: "2025-02-01", EndDate: "2025-02-28", GroupBy: "day",
				UpdatedUntil: "ข้อมูลอัปเดตถึง 28 กุมภาพันธ์ 2568",
				Query:        map[string]string{"tab": "month", "mode": "single", "year": "2025", "month": "2"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got resolved
			rec := get(t, tt.target, &got)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandler_ResolveInvalid(t *testing.T) {
	rec := get(t, "/resolve?tab=week&year=2025&week=53", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Current(t *testing.T) {
	var got resolved
	rec := get(t, "/current?tab=week&lang=en", &got)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Week 11 (10 March – 16 March), 2025 (this week)", got.Label)
}

func TestHandler_ContentLanguage(t *testing.T) {
	type testCase struct {
		name   string
		target string
		want   string
	}

	tests := []testCase{
		{name: "English", target: "/current?tab=day&lang=en", want: "en"},
		{name: "Unsupported", target: "/current?tab=day&lang=fr", want: "th"},
		{name: "Default", target: "/current?tab=day", want: "th"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, tt.target, nil)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Content-Language"))
		})
	}
}

func TestHandler_Navigate(t *testing.T) {
	var got resolved
	rec := get(t, "/navigate?lang=en&tab=week&year=2025&week=1&dir=-1", &got)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024", got.Query["year"])
	assert.Equal(t, "52", got.Query["week"])
	assert.Equal(t, "2024-12-23", got.StartDate)

	rec = get(t, "/navigate?tab=day&date=2025-03-12&dir=x", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Month(t *testing.T) {
	var got struct {
		MonthName string              `json:"month_name"`
		Weekdays  [7]string           `json:"weekdays"`
		Rows      [][]*map[string]any `json:"rows"`
	}
	rec := get(t, "/calendar/month?year=2025&month=3&lang=en", &got)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "March", got.MonthName)
	assert.Equal(t, "Su", got.Weekdays[0])

	// March 2025 starts on a Saturday.
	require.Len(t, got.Rows, 6)
	assert.Nil(t, got.Rows[0][5])
	require.NotNil(t, got.Rows[0][6])
	assert.Equal(t, "2025-03-01", (*got.Rows[0][6])["date"])
	assert.Equal(t, true, (*got.Rows[2][3])["today"])

	rec = get(t, "/calendar/month?year=2025&month=13", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Weeks(t *testing.T) {
	var got struct {
		Year  int `json:"year"`
		Weeks []struct {
			Week    int    `json:"week"`
			Start   string `json:"start"`
			End     string `json:"end"`
			Current bool   `json:"current"`
		} `json:"weeks"`
	}
	rec := get(t, "/calendar/weeks?year=2020", &got)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, got.Weeks, 53)
	assert.Equal(t, "2019-12-30", got.Weeks[0].Start)
	assert.Equal(t, "2021-01-03", got.Weeks[52].End)

	for _, w := range got.Weeks {
		assert.False(t, w.Current)
	}
}
