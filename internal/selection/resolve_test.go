package selection_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cctvdash/internal/calendar"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

func at(y, m, d, h, min, s, ms int) time.Time {
	return time.Date(y, time.Month(m), d, h, min, s, ms*int(time.Millisecond), bangkok)
}

func TestResolve(t *testing.T) {
	type testCase struct {
		name      string
		sel       selection.Selection
		wantStart time.Time
		wantEnd   time.Time
	}

	tests := []testCase{
		{
			name:      "SingleDay",
			sel:       selection.SingleDay(day(2025, 3, 4)),
			wantStart: at(2025, 3, 4, 0, 0, 0, 0),
			wantEnd:   at(2025, 3, 4, 23, 59, 59, 999),
		},
		{
			name:      "DayRange",
			sel:       selection.DayRange(day(2025, 2, 27), day(2025, 3, 2)),
			wantStart: at(2025, 2, 27, 0, 0, 0, 0),
			wantEnd:   at(2025, 3, 2, 23, 59, 59, 999),
		},
		{
			name:      "FirstWeekStartsInPreviousYear",
			sel:       selection.SingleWeek(2025, 1),
			wantStart: at(2024, 12, 30, 0, 0, 0, 0),
			wantEnd:   at(2025, 1, 5, 23, 59, 59, 999),
		},
		{
			name:      "WeekSpan",
			sel:       selection.WeekSpan(2025, 10, 12),
			wantStart: at(2025, 3, 3, 0, 0, 0, 0),
			wantEnd:   at(2025, 3, 23, 23, 59, 59, 999),
		},
		{
			name:      "February",
			sel:       selection.SingleMonth(2025, time.February),
			wantStart: at(2025, 2, 1, 0, 0, 0, 0),
			wantEnd:   at(2025, 2, 28, 23, 59, 59, 999),
		},
		{
			name:      "LeapFebruary",
			sel:       selection.SingleMonth(2024, time.February),
			wantStart: at(2024, 2, 1, 0, 0, 0, 0),
			wantEnd:   at(2024, 2, 29, 23, 59, 59, 999),
		},
		{
			name:      "MonthSpan",
			sel:       selection.MonthSpan(2025, time.April, time.June),
			wantStart: at(2025, 4, 1, 0, 0, 0, 0),
			wantEnd:   at(2025, 6, 30, 23, 59, 59, 999),
		},
		{
			name:      "InvalidFallsBackToToday",
			sel:       selection.Week{Mode: selection.ModeRange, Year: 2025, Week: 9, StartWeek: 9, EndWeek: 2},
			wantStart: at(2025, 3, 12, 0, 0, 0, 0),
			wantEnd:   at(2025, 3, 12, 23, 59, 59, 999),
		},
		{
			name:      "NilFallsBackToToday",
			sel:       nil,
			wantStart: at(2025, 3, 12, 0, 0, 0, 0),
			wantEnd:   at(2025, 3, 12, 23, 59, 59, 999),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selection.Resolve(tt.sel, fixedClock())
			assert.True(t, tt.wantStart.Equal(got.Start), "start %s", got.Start)
			assert.True(t, tt.wantEnd.Equal(got.End), "end %s", got.End)
		})
	}
}

func TestResolve_SingleWeekMatchesWeekRange(t *testing.T) {
	clock := fixedClock()

	for y := 2015; y <= 2030; y++ {
		for w := 1; w <= calendar.WeeksInYear(y); w++ {
			got := selection.Resolve(selection.SingleWeek(y, w), clock)
			require.Equal(t, calendar.WeekRange(y, w, bangkok), got)
		}
	}
}

func TestFromRange_RoundTrip(t *testing.T) {
	clock := fixedClock()
	f := selection.NewFormatter("en", clock)

	var sels []selection.Selection
	for d := day(2024, 12, 1); d.Before(day(2025, 3, 1)); d = d.AddDate(0, 0, 1) {
		sels = append(sels, selection.SingleDay(d))
	}
	for w := 1; w <= 53; w++ {
		sels = append(sels, selection.SingleWeek(2020, w))
	}
	for m := time.January; m <= time.December; m++ {
		sels = append(sels, selection.SingleMonth(2025, m))
	}

	for _, sel := range sels {
		back := selection.FromRange(sel.Tab(), selection.Resolve(sel, clock))
		require.Equal(t, sel, back)
		require.Equal(t, f.Format(sel), f.Format(back))
	}
}

func TestFromRange_Spans(t *testing.T) {
	clock := fixedClock()

	for _, sel := range []selection.Selection{
		selection.DayRange(day(2025, 1, 30), day(2025, 2, 2)),
		selection.WeekSpan(2025, 3, 9),
		selection.MonthSpan(2025, time.March, time.August),
	} {
		back := selection.FromRange(sel.Tab(), selection.Resolve(sel, clock))
		assert.Equal(t, sel, back)
	}
}
