package calendar

import "time"

// Cell is one slot of a month grid. Padding cells have a zero Date.
type Cell struct {
	Date time.Time
}

func (c Cell) Empty() bool {
	return c.Date.IsZero()
}

// Day returns the day of month, or 0 for padding.
func (c Cell) Day() int {
	if c.Empty() {
		return 0
	}
	return c.Date.Day()
}

// GridRow is one calendar line, Sunday first.
type GridRow [7]Cell

// MonthGrid lays out the given month as Sunday-first rows. The first row is
// padded with empty cells before day 1 and the last row after the final day.
// Every call returns freshly allocated rows.
func MonthGrid(year int, month time.Month, loc *time.Location) []GridRow {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	lead := int(first.Weekday())
	days := DaysIn(year, month)

	rows := make([]GridRow, (lead+days+6)/7)
	for d := 1; d <= days; d++ {
		slot := lead + d - 1
		rows[slot/7][slot%7] = Cell{Date: time.Date(year, month, d, 0, 0, 0, 0, loc)}
	}

	return rows
}

// WeekSpan is an entry of the week picker.
type WeekSpan struct {
	Year  int
	Week  int
	Range Range
}

// WeekGrid lists every ISO week of year in order.
func WeekGrid(year int, loc *time.Location) []WeekSpan {
	n := WeeksInYear(year)

	weeks := make([]WeekSpan, 0, n)
	for w := 1; w <= n; w++ {
		weeks = append(weeks, WeekSpan{Year: year, Week: w, Range: WeekRange(year, w, loc)})
	}

	return weeks
}
