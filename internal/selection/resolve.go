package selection

import (
	"time"

	"github.com/MrJamesThe3rd/cctvdash/internal/calendar"
)

// Resolve turns sel into the inclusive range sent to the analytics API, from
// 00:00:00.000 of the first day to 23:59:59.999 of the last, in the clock's
// location. An invalid selection resolves to today.
func Resolve(sel Selection, clock Clock) calendar.Range {
	if Validate(sel) != nil {
		return calendar.DayRange(clock.Today())
	}

	loc := clock.location()

	switch v := sel.(type) {
	case Day:
		return calendar.Range{
			Start: clock.In(v.Start),
			End:   calendar.EndOfDay(clock.In(v.End)),
		}
	case Week:
		return calendar.Range{
			Start: calendar.WeekRange(v.Year, v.StartWeek, loc).Start,
			End:   calendar.WeekRange(v.Year, v.EndWeek, loc).End,
		}
	case Month:
		return calendar.Range{
			Start: calendar.MonthRange(v.Year, v.StartMonth, loc).Start,
			End:   calendar.MonthRange(v.Year, v.EndMonth, loc).End,
		}
	}

	return calendar.DayRange(clock.Today())
}

// FromRange derives the selection of tab whose resolved range starts and ends
// on the days of r. A range inside one unit gives a single selection.
func FromRange(tab Tab, r calendar.Range) Selection {
	switch tab {
	case TabWeek:
		year, from := calendar.ISOWeek(r.Start)
		endYear, to := calendar.ISOWeek(r.End)
		if from == to && year == endYear {
			return SingleWeek(year, from)
		}
		if endYear != year {
			to = calendar.WeeksInYear(year)
		}
		return WeekSpan(year, from, to)

	case TabMonth:
		if r.Start.Month() == r.End.Month() && r.Start.Year() == r.End.Year() {
			return SingleMonth(r.Start.Year(), r.Start.Month())
		}
		to := r.End.Month()
		if r.End.Year() != r.Start.Year() {
			to = time.December
		}
		return MonthSpan(r.Start.Year(), r.Start.Month(), to)
	}

	if calendar.SameDay(r.Start, r.End) {
		return SingleDay(r.Start)
	}
	return DayRange(r.Start, r.End)
}
