// Package selection models the dashboard's time selector: the committed
// selection value, the picker reducer that edits it, the resolver that turns
// it into a query range and the formatter that labels it.
package selection

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/cctvdash/internal/calendar"
)

var ErrInvalidSelection = errors.New("invalid selection")

// Tab is the granularity a selection is expressed in.
type Tab int

const (
	TabDay Tab = iota
	TabWeek
	TabMonth
)

func (t Tab) String() string {
	switch t {
	case TabDay:
		return "Day"
	case TabWeek:
		return "Week"
	case TabMonth:
		return "Month"
	}

	return "Unknown"
}

// ParseTab accepts "day", "week" or "month" in any case.
func ParseTab(s string) (Tab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "day", "":
		return TabDay, nil
	case "week":
		return TabWeek, nil
	case "month":
		return TabMonth, nil
	}

	return 0, fmt.Errorf("unknown tab %q", s)
}

type Mode int

const (
	ModeSingle Mode = iota
	ModeRange
)

func (m Mode) String() string {
	if m == ModeRange {
		return "range"
	}
	return "single"
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "single", "":
		return ModeSingle, nil
	case "range":
		return ModeRange, nil
	}

	return 0, fmt.Errorf("unknown mode %q", s)
}

// Selection is one of Day, Week or Month.
type Selection interface {
	Tab() Tab
	Ranged() bool
	Validate() error

	selection()
}

// Day selects calendar days. Only the date part of Start and End is used.
type Day struct {
	Mode  Mode
	Start time.Time
	End   time.Time
}

// Week selects ISO weeks of Year, which is the ISO week-numbering year.
// Week is the unit shown in single mode.
type Week struct {
	Mode      Mode
	Year      int
	Week      int
	StartWeek int
	EndWeek   int
}

// Month selects months of Year. Month is the unit shown in single mode.
type Month struct {
	Mode       Mode
	Year       int
	Month      time.Month
	StartMonth time.Month
	EndMonth   time.Month
}

func (Day) Tab() Tab   { return TabDay }
func (Week) Tab() Tab  { return TabWeek }
func (Month) Tab() Tab { return TabMonth }

func (d Day) Ranged() bool   { return d.Mode == ModeRange }
func (w Week) Ranged() bool  { return w.Mode == ModeRange }
func (m Month) Ranged() bool { return m.Mode == ModeRange }

func (Day) selection()   {}
func (Week) selection()  {}
func (Month) selection() {}

// ModeOf returns the mode of s.
func ModeOf(s Selection) Mode {
	if s.Ranged() {
		return ModeRange
	}
	return ModeSingle
}

func (d Day) Validate() error {
	if err := validateMode(d.Mode); err != nil {
		return err
	}

	if d.Start.IsZero() || d.End.IsZero() {
		return fmt.Errorf("%w: missing day", ErrInvalidSelection)
	}

	if d.Mode == ModeSingle && !calendar.SameDay(d.Start, d.End) {
		return fmt.Errorf("%w: single day spans %s to %s", ErrInvalidSelection,
			d.Start.Format(time.DateOnly), d.End.Format(time.DateOnly))
	}

	if civil(d.End).Before(civil(d.Start)) {
		return fmt.Errorf("%w: start day %s after end day %s", ErrInvalidSelection,
			d.Start.Format(time.DateOnly), d.End.Format(time.DateOnly))
	}

	return nil
}

func (w Week) Validate() error {
	if err := validateMode(w.Mode); err != nil {
		return err
	}

	if err := validateYear(w.Year); err != nil {
		return err
	}

	last := calendar.WeeksInYear(w.Year)
	for _, n := range []int{w.Week, w.StartWeek, w.EndWeek} {
		if n < 1 || n > last {
			return fmt.Errorf("%w: week %d outside 1..%d of %d", ErrInvalidSelection, n, last, w.Year)
		}
	}

	if w.StartWeek > w.EndWeek {
		return fmt.Errorf("%w: start week %d after end week %d", ErrInvalidSelection, w.StartWeek, w.EndWeek)
	}

	if w.Mode == ModeSingle && (w.StartWeek != w.Week || w.EndWeek != w.Week) {
		return fmt.Errorf("%w: single week %d spans %d..%d", ErrInvalidSelection, w.Week, w.StartWeek, w.EndWeek)
	}

	return nil
}

func (m Month) Validate() error {
	if err := validateMode(m.Mode); err != nil {
		return err
	}

	if err := validateYear(m.Year); err != nil {
		return err
	}

	for _, n := range []time.Month{m.Month, m.StartMonth, m.EndMonth} {
		if n < time.January || n > time.December {
			return fmt.Errorf("%w: month %d out of range", ErrInvalidSelection, n)
		}
	}

	if m.StartMonth > m.EndMonth {
		return fmt.Errorf("%w: start month %s after end month %s", ErrInvalidSelection, m.StartMonth, m.EndMonth)
	}

	if m.Mode == ModeSingle && (m.StartMonth != m.Month || m.EndMonth != m.Month) {
		return fmt.Errorf("%w: single month %s spans %s..%s", ErrInvalidSelection, m.Month, m.StartMonth, m.EndMonth)
	}

	return nil
}

// Validate reports whether s satisfies its invariants. A nil selection is
// invalid.
func Validate(s Selection) error {
	if s == nil {
		return fmt.Errorf("%w: nil", ErrInvalidSelection)
	}
	return s.Validate()
}

func validateMode(m Mode) error {
	if m != ModeSingle && m != ModeRange {
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidSelection, m)
	}
	return nil
}

func validateYear(y int) error {
	if y < 1 || y > 9999 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidSelection, y)
	}
	return nil
}

func SingleDay(t time.Time) Day {
	d := civil(t)
	return Day{Mode: ModeSingle, Start: d, End: d}
}

// DayRange orders a and b.
func DayRange(a, b time.Time) Day {
	a, b = civil(a), civil(b)
	if b.Before(a) {
		a, b = b, a
	}
	return Day{Mode: ModeRange, Start: a, End: b}
}

func SingleWeek(year, week int) Week {
	return Week{Mode: ModeSingle, Year: year, Week: week, StartWeek: week, EndWeek: week}
}

// WeekOf is the single week containing t.
func WeekOf(t time.Time) Week {
	return SingleWeek(calendar.ISOWeek(t))
}

// WeekSpan orders from and to.
func WeekSpan(year, from, to int) Week {
	if to < from {
		from, to = to, from
	}
	return Week{Mode: ModeRange, Year: year, Week: from, StartWeek: from, EndWeek: to}
}

func SingleMonth(year int, month time.Month) Month {
	return Month{Mode: ModeSingle, Year: year, Month: month, StartMonth: month, EndMonth: month}
}

// MonthSpan orders from and to.
func MonthSpan(year int, from, to time.Month) Month {
	if to < from {
		from, to = to, from
	}
	return Month{Mode: ModeRange, Year: year, Month: from, StartMonth: from, EndMonth: to}
}

// Default is today as a single day.
func Default(clock Clock) Selection {
	return SingleDay(clock.Today())
}

// Current returns the single unit of tab that contains now.
func Current(tab Tab, clock Clock) Selection {
	today := clock.Today()

	switch tab {
	case TabWeek:
		return WeekOf(today)
	case TabMonth:
		return SingleMonth(today.Year(), today.Month())
	}

	return SingleDay(today)
}

// civil strips the clock part of t and pins it to UTC so that days compare
// by calendar date alone.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
