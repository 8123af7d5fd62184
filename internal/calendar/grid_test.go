package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/cctvdash/internal/calendar"
)

func TestMonthGrid_Shape(t *testing.T) {
	for y := 2000; y <= 2030; y++ {
		for m := time.January; m <= time.December; m++ {
			rows := calendar.MonthGrid(y, m, time.UTC)

			var cells []calendar.Cell
			for _, row := range rows {
				cells = append(cells, row[:]...)
			}
			require.Len(t, cells, len(rows)*7)

			first := -1
			filled := 0
			for i, c := range cells {
				if c.Empty() {
					continue
				}
				if first < 0 {
					first = i
				}
				filled++
				require.Equal(t, filled, c.Day(), "%d-%02d cells must be consecutive", y, m)
			}

			firstDay := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
			require.Equal(t, int(firstDay.Weekday()), first, "%d-%02d", y, m)
			require.Equal(t, calendar.DaysIn(y, m), filled, "%d-%02d", y, m)
			require.False(t, rows[len(rows)-1][0].Empty(), "%d-%02d has a blank trailing row", y, m)
		}
	}
}

func TestMonthGrid_Layout(t *testing.T) {
	type testCase struct {
		name     string
		year     int
		month    time.Month
		wantRows int
		wantLead int
	}

	tests := []testCase{
		{name: "StartsOnSunday", year: 2026, month: time.February, wantRows: 4, wantLead: 0},
		{name: "StartsOnSaturday", year: 2025, month: time.March, wantRows: 6, wantLead: 6},
		{name: "StartsOnWednesday", year: 2025, month: time.January, wantRows: 5, wantLead: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := calendar.MonthGrid(tt.year, tt.month, time.UTC)
			require.Len(t, rows, tt.wantRows)

			for i := 0; i < tt.wantLead; i++ {
				assert.True(t, rows[0][i].Empty())
			}
			assert.Equal(t, 1, rows[0][tt.wantLead].Day())
		})
	}
}

func TestMonthGrid_FreshValue(t *testing.T) {
	a := calendar.MonthGrid(2025, time.May, time.UTC)
	a[0][4] = calendar.Cell{}

	b := calendar.MonthGrid(2025, time.May, time.UTC)
	assert.Equal(t, 1, b[0][4].Day())
}

func TestWeekGrid(t *testing.T) {
	weeks := calendar.WeekGrid(2020, time.UTC)
	require.Len(t, weeks, 53)

	for i, w := range weeks {
		assert.Equal(t, i+1, w.Week)
		assert.Equal(t, time.Monday, w.Range.Start.Weekday())
		if i > 0 {
			assert.Equal(t, weeks[i-1].Range.Start.AddDate(0, 0, 7), w.Range.Start)
		}
	}

	assert.Equal(t, date(2019, 12, 30), weeks[0].Range.Start)
}
