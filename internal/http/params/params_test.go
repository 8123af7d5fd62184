package params_test

import (
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
	"github.com/MrJamesThe3rd/cctvdash/internal/http/params"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

var bangkok = time.FixedZone("ICT", 7*60*60)

func clock() selection.Clock {
	return selection.Clock{
		Location: bangkok,
		Now:      func() time.Time { return time.Date(2025, 3, 12, 10, 0, 0, 0, bangkok) },
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSelection(t *testing.T) {
	type testCase struct {
		name    string
		query   string
		want    selection.Selection
		wantErr error
	}

	tests := []testCase{
		{
			name:  "Default",
			query: "",
			want:  selection.SingleDay(day(2025, 3, 12)),
		},
		{
			name:  "SingleDay",
			query: "tab=day&date=2025-02-28",
			want:  selection.SingleDay(day(2025, 2, 28)),
		},
		{
			name:  "DayRange",
			query: "tab=day&mode=range&start=2025-01-02&end=2025-02-09",
			want:  selection.DayRange(day(2025, 1, 2), day(2025, 2, 9)),
		},
		{
			name:  "SingleWeek",
			query: "tab=week&year=2025&week=11",
			want:  selection.SingleWeek(2025, 11),
		},
		{
			name:  "WeekRange",
			query: "tab=WEEK&mode=range&year=2025&start_week=2&end_week=4",
			want:  selection.WeekSpan(2025, 2, 4),
		},
		{
			name:  "SingleMonth",
			query: "tab=month&year=2024&month=2",
			want:  selection.SingleMonth(2024, time.February),
		},
		{
			name:  "MonthRange",
			query: "tab=month&mode=range&year=2025&start_month=1&end_month=3",
			want:  selection.MonthSpan(2025, time.January, time.March),
		},
		{
			name:    "UnknownTab",
			query:   "tab=year",
			wantErr: params.ErrBadParam,
		},
		{
			name:    "BadNumber",
			query:   "tab=week&year=2025&week=eleven",
			wantErr: params.ErrBadParam,
		},
		{
			name:    "BadDate",
			query:   "tab=day&date=12/03/2025",
			wantErr: params.ErrBadParam,
		},
		{
			name:    "Week53InShortYear",
			query:   "tab=week&year=2025&week=53",
			wantErr: selection.ErrInvalidSelection,
		},
		{
			name:    "ReversedWeeks",
			query:   "tab=week&mode=range&year=2025&start_week=4&end_week=2",
			wantErr: selection.ErrInvalidSelection,
		},
		{
			name:    "ReversedDays",
			query:   "tab=day&mode=range&start=2025-02-09&end=2025-01-02",
			wantErr: selection.ErrInvalidSelection,
		},
		{
			name:    "Month13",
			query:   "tab=month&year=2025&month=13",
			wantErr: selection.ErrInvalidSelection,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			got, err := params.Selection(q, clock())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	sels := []selection.Selection{
		selection.SingleDay(day(2025, 3, 12)),
		selection.DayRange(day(2024, 12, 30), day(2025, 1, 5)),
		selection.SingleWeek(2020, 53),
		selection.WeekSpan(2025, 10, 12),
		selection.SingleMonth(2025, time.December),
		selection.MonthSpan(2025, time.April, time.June),
	}

	for _, sel := range sels {
		got, err := params.Selection(params.Encode(sel), clock())
		require.NoError(t, err)
		assert.Equal(t, sel, got)
	}
}

func TestPage(t *testing.T) {
	got, err := params.Page(url.Values{"page": {"3"}, "limit": {"500"}})
	require.NoError(t, err)
	assert.Equal(t, analytics.PageRequest{Page: 3, Limit: 100}, got)

	got, err = params.Page(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, analytics.PageRequest{}, got)

	_, err = params.Page(url.Values{"page": {"x"}})
	assert.ErrorIs(t, err, params.ErrBadParam)
}

func TestBool(t *testing.T) {
	q := url.Values{"a": {"true"}, "b": {"1"}, "c": {"off"}}
	assert.True(t, params.Bool(q, "a"))
	assert.True(t, params.Bool(q, "b"))
	assert.False(t, params.Bool(q, "c"))
	assert.False(t, params.Bool(q, "missing"))
}

func TestLanguage(t *testing.T) {
	r := httptest.NewRequest("GET", "/?lang=en", nil)
	r.Header.Set("Accept-Language", "th-TH")
	assert.Equal(t, "en", params.Language(r))

	r = httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Accept-Language", "th-TH")
	assert.Equal(t, "th-TH", params.Language(r))
}
