package selection

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/cctvdash/internal/calendar"
)

// Formatter renders selections as human readable labels.
type Formatter struct {
	tag     language.Tag
	locale  locale
	clock   Clock
	printer *message.Printer
}

// NewFormatter builds a formatter for the closest supported match of lang.
func NewFormatter(lang string, clock Clock) *Formatter {
	tag, loc := matchLocale(lang)

	return &Formatter{
		tag:     tag,
		locale:  loc,
		clock:   clock,
		printer: message.NewPrinter(tag),
	}
}

func (f *Formatter) Language() language.Tag {
	return f.tag
}

// Format labels sel. Equal selections always give equal labels.
func (f *Formatter) Format(sel Selection) string {
	if Validate(sel) != nil {
		return f.Format(Default(f.clock))
	}

	switch v := sel.(type) {
	case Day:
		return f.formatDay(v)
	case Week:
		return f.formatWeek(v)
	case Month:
		return f.formatMonth(v)
	}

	return ""
}

func (f *Formatter) formatDay(d Day) string {
	if d.Ranged() {
		return f.compactSpan(d.Start, d.End)
	}

	label := d.Start.Format("02/01/2006")
	if calendar.SameDay(d.Start, f.clock.Today()) {
		label = f.mark(label, f.locale.today)
	}
	return label
}

func (f *Formatter) formatWeek(w Week) string {
	loc := f.clock.location()

	if w.Ranged() {
		from := calendar.WeekRange(w.Year, w.StartWeek, loc).Start
		to := calendar.WeekRange(w.Year, w.EndWeek, loc).End
		head := fmt.Sprintf(f.locale.weeks, w.StartWeek, w.EndWeek)
		return fmt.Sprintf("%s (%s – %s), %d", head, f.shortDate(from), f.shortDate(to), w.Year)
	}

	r := calendar.WeekRange(w.Year, w.Week, loc)
	head := fmt.Sprintf(f.locale.week, w.Week)
	label := fmt.Sprintf("%s (%s – %s), %d", head, f.dayMonth(r.Start), f.dayMonth(r.End), w.Year)

	if year, week := calendar.ISOWeek(f.clock.Today()); year == w.Year && week == w.Week {
		label = f.mark(label, f.locale.thisWeek)
	}
	return label
}

func (f *Formatter) formatMonth(m Month) string {
	if m.Ranged() {
		return fmt.Sprintf("%s – %s %d", f.MonthName(m.StartMonth), f.MonthName(m.EndMonth), m.Year)
	}

	label := fmt.Sprintf("%s %d", f.MonthName(m.Month), m.Year)
	if today := f.clock.Today(); today.Year() == m.Year && today.Month() == m.Month {
		label = f.mark(label, f.locale.thisMonth)
	}
	return label
}

// compactSpan renders "2 Jan – 9 Feb 2025", repeating the year on the left
// only when the span crosses a year.
func (f *Formatter) compactSpan(from, to time.Time) string {
	if from.Year() != to.Year() {
		return fmt.Sprintf("%s %d – %s %d", f.shortDate(from), from.Year(), f.shortDate(to), to.Year())
	}
	return fmt.Sprintf("%s – %s %d", f.shortDate(from), f.shortDate(to), to.Year())
}

func (f *Formatter) mark(label, suffix string) string {
	return label + " (" + suffix + ")"
}

func (f *Formatter) shortDate(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), f.MonthShort(t.Month()))
}

func (f *Formatter) dayMonth(t time.Time) string {
	return fmt.Sprintf("%d %s", t.Day(), f.MonthName(t.Month()))
}

func (f *Formatter) MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return f.locale.months[m-1]
}

func (f *Formatter) MonthShort(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return f.locale.shortMonths[m-1]
}

// Weekdays returns the Sunday-first column headers of the month grid.
func (f *Formatter) Weekdays() [7]string {
	return f.locale.weekdays
}

// LongDate renders "28 February 2025", in the locale's era.
func (f *Formatter) LongDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), f.MonthName(t.Month()), t.Year()+f.locale.eraOffset)
}

// UpdatedUntil is the "data updated until" caption for the last day covered
// by sel.
func (f *Formatter) UpdatedUntil(sel Selection) string {
	end := Resolve(sel, f.clock).End
	return fmt.Sprintf(f.locale.updated, f.LongDate(end))
}

// Number groups digits the way the formatter's language does.
func (f *Formatter) Number(n int) string {
	return f.printer.Sprintf("%d", n)
}
