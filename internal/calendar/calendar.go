// Package calendar implements ISO-8601 week arithmetic and the month and
// week grids shown by the time picker.
package calendar

import "time"

// Range is a closed interval of instants. End is the last millisecond that
// belongs to the range.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside r, bounds included.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Days returns the number of calendar days r spans.
func (r Range) Days() int {
	start := StartOfDay(r.Start)
	end := StartOfDay(r.End)
	return daysBetween(start, end) + 1
}

// StartOfDay returns 00:00:00.000 of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns 23:59:59.999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DayRange is the range covering the whole of t's day.
func DayRange(t time.Time) Range {
	return Range{Start: StartOfDay(t), End: EndOfDay(t)}
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthRange covers the first to the last day of the given month.
func MonthRange(year int, month time.Month, loc *time.Location) Range {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
	return Range{Start: first, End: EndOfDay(last)}
}

// ISOWeek returns the ISO-8601 week-numbering year and week of t.
//
// The week is found by moving to the Thursday of t's Monday-based week; the
// Thursday's year is the ISO year and its ordinal day divided by seven,
// rounded up, is the week number.
func ISOWeek(t time.Time) (year, week int) {
	t = time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
	thursday := t.AddDate(0, 0, 4-isoWeekday(t))
	jan1 := time.Date(thursday.Year(), time.January, 1, 12, 0, 0, 0, time.UTC)
	ordinal := daysBetween(jan1, thursday) + 1
	return thursday.Year(), (ordinal + 6) / 7
}

// WeekNumber returns only the week part of ISOWeek. Late December days may
// belong to week 1 of the next year and early January days to week 52 or 53
// of the previous one.
func WeekNumber(t time.Time) int {
	_, week := ISOWeek(t)
	return week
}

// WeekRange returns Monday 00:00:00.000 through Sunday 23:59:59.999 of the
// given ISO week in loc. January 4th always lies in week 1.
func WeekRange(year, week int, loc *time.Location) Range {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	monday := jan4.AddDate(0, 0, 1-isoWeekday(jan4)+(week-1)*7)
	sunday := monday.AddDate(0, 0, 6)
	return Range{Start: monday, End: EndOfDay(sunday)}
}

// WeeksInYear returns 52 or 53.
func WeeksInYear(year int) int {
	dec31 := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	if week := WeekNumber(dec31); week != 1 {
		return week
	}
	return WeekNumber(time.Date(year, time.December, 24, 0, 0, 0, 0, time.UTC))
}

// StartOfWeek returns the Monday starting t's ISO week.
func StartOfWeek(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1-isoWeekday(t))
}

// isoWeekday maps Monday..Sunday to 1..7.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// daysBetween counts whole days from a to b using civil dates, so DST
// transitions never shift the result.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
