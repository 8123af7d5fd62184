package selection

import (
	"time"

	"github.com/MrJamesThe3rd/cctvdash/internal/calendar"
)

// Unit is one pickable cell of the picker: a day, an ISO week or a month.
type Unit struct {
	tab   Tab
	day   time.Time
	year  int
	week  int
	month time.Month
}

func DayUnit(t time.Time) Unit {
	return Unit{tab: TabDay, day: civil(t), year: t.Year()}
}

func WeekUnit(year, week int) Unit {
	return Unit{tab: TabWeek, year: year, week: week}
}

func MonthUnit(year int, month time.Month) Unit {
	return Unit{tab: TabMonth, year: year, month: month}
}

func (u Unit) Tab() Tab { return u.tab }

func (u Unit) before(v Unit) bool {
	switch u.tab {
	case TabWeek:
		return u.week < v.week
	case TabMonth:
		return u.month < v.month
	}
	return u.day.Before(v.day)
}

func (u Unit) single() Selection {
	switch u.tab {
	case TabWeek:
		return SingleWeek(u.year, u.week)
	case TabMonth:
		return SingleMonth(u.year, u.month)
	}
	return SingleDay(u.day)
}

// span builds the finished range from two units of the same tab, ordered by
// value rather than by pick order.
func span(a, b Unit) Selection {
	if b.before(a) {
		a, b = b, a
	}

	switch a.tab {
	case TabWeek:
		return WeekSpan(a.year, a.week, b.week)
	case TabMonth:
		return MonthSpan(a.year, a.month, b.month)
	}
	return DayRange(a.day, b.day)
}

// State is the picker together with the committed selection it edits.
// A nil Anchor means no range endpoint is pending.
type State struct {
	Selection Selection
	Anchor    *Unit
	Open      bool

	// Page is the first day of the month (day tab) or year (week and month
	// tabs) the picker grid is showing.
	Page time.Time
}

func NewState(clock Clock) State {
	sel := Default(clock)
	return State{Selection: sel, Page: pageFor(sel, clock)}
}

func (s State) Tab() Tab { return s.Selection.Tab() }

func (s State) Pending() bool { return s.Anchor != nil }

// Action is an input to Reduce.
type Action interface {
	action()
}

type (
	// SwitchTab resets to the current unit of Tab in single mode.
	SwitchTab struct{ Tab Tab }

	// SwitchMode keeps the displayed unit and drops any pending anchor.
	SwitchMode struct{ Mode Mode }

	// Navigate moves the selection by Dir units. Ignored while an anchor is
	// pending. A week or month range stays within the year its new start
	// falls in, so a range moved across a year boundary is cut at the end of
	// that year and can come out narrower.
	Navigate struct{ Dir int }

	Pick struct{ Unit Unit }

	// Dismiss closes the picker and discards the pending anchor.
	Dismiss struct{}

	Toggle struct{}

	// Now jumps to the current unit of the active tab.
	Now struct{}

	// Turn pages the picker grid without touching the selection.
	Turn struct{ Dir int }
)

func (SwitchTab) action()  {}
func (SwitchMode) action() {}
func (Navigate) action()   {}
func (Pick) action()       {}
func (Dismiss) action()    {}
func (Toggle) action()     {}
func (Now) action()        {}
func (Turn) action()       {}

// Reduce applies a to s and returns the next state. s is never modified.
func Reduce(s State, a Action, clock Clock) State {
	if s.Selection == nil {
		s = NewState(clock)
	}

	switch a := a.(type) {
	case SwitchTab:
		sel := Current(a.Tab, clock)
		return State{Selection: sel, Page: pageFor(sel, clock)}

	case SwitchMode:
		s.Anchor = nil
		s.Selection = withMode(s.Selection, a.Mode)
		return s

	case Navigate:
		if s.Anchor != nil || a.Dir == 0 {
			return s
		}
		s.Selection = navigate(s.Selection, a.Dir)
		s.Page = pageFor(s.Selection, clock)
		return s

	case Pick:
		return pick(s, a.Unit, clock)

	case Dismiss:
		s.Anchor = nil
		s.Open = false
		return s

	case Toggle:
		if s.Open {
			s.Anchor = nil
			s.Open = false
			return s
		}
		s.Open = true
		s.Page = pageFor(s.Selection, clock)
		return s

	case Now:
		sel := Current(s.Tab(), clock)
		return State{Selection: sel, Page: pageFor(sel, clock)}

	case Turn:
		if s.Tab() == TabDay {
			s.Page = s.Page.AddDate(0, a.Dir, 0)
		} else {
			s.Page = s.Page.AddDate(a.Dir, 0, 0)
		}
		return s
	}

	return s
}

func pick(s State, u Unit, clock Clock) State {
	if u.tab != s.Tab() {
		return s
	}

	if !s.Selection.Ranged() {
		s.Selection = u.single()
		s.Anchor = nil
		s.Open = false
		s.Page = pageFor(s.Selection, clock)
		return s
	}

	if s.Anchor == nil || (u.tab != TabDay && s.Anchor.year != u.year) {
		s.Anchor = &u
		s.Open = true
		return s
	}

	s.Selection = span(*s.Anchor, u)
	s.Anchor = nil
	s.Open = false
	s.Page = pageFor(s.Selection, clock)
	return s
}

func withMode(sel Selection, mode Mode) Selection {
	if ModeOf(sel) == mode {
		return sel
	}

	switch v := sel.(type) {
	case Day:
		if mode == ModeRange {
			return Day{Mode: ModeRange, Start: v.Start, End: v.End}
		}
		return SingleDay(v.Start)
	case Week:
		if mode == ModeRange {
			return Week{Mode: ModeRange, Year: v.Year, Week: v.Week, StartWeek: v.Week, EndWeek: v.Week}
		}
		return SingleWeek(v.Year, v.Week)
	case Month:
		if mode == ModeRange {
			return Month{Mode: ModeRange, Year: v.Year, Month: v.Month, StartMonth: v.Month, EndMonth: v.Month}
		}
		return SingleMonth(v.Year, v.Month)
	}

	return sel
}

func navigate(sel Selection, dir int) Selection {
	switch v := sel.(type) {
	case Day:
		v.Start = v.Start.AddDate(0, 0, dir)
		v.End = v.End.AddDate(0, 0, dir)
		return v

	case Week:
		if !v.Ranged() {
			monday := calendar.WeekRange(v.Year, v.Week, time.UTC).Start
			return WeekOf(monday.AddDate(0, 0, 7*dir))
		}

		year, from := calendar.ISOWeek(calendar.WeekRange(v.Year, v.StartWeek, time.UTC).Start.AddDate(0, 0, 7*dir))
		endYear, to := calendar.ISOWeek(calendar.WeekRange(v.Year, v.EndWeek, time.UTC).Start.AddDate(0, 0, 7*dir))
		if endYear != year {
			to = calendar.WeeksInYear(year)
		}
		return WeekSpan(year, from, to)

	case Month:
		if !v.Ranged() {
			first := time.Date(v.Year, v.Month+time.Month(dir), 1, 0, 0, 0, 0, time.UTC)
			return SingleMonth(first.Year(), first.Month())
		}

		from := time.Date(v.Year, v.StartMonth+time.Month(dir), 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(v.Year, v.EndMonth+time.Month(dir), 1, 0, 0, 0, 0, time.UTC)
		if to.Year() != from.Year() {
			to = time.Date(from.Year(), time.December, 1, 0, 0, 0, 0, time.UTC)
		}
		return MonthSpan(from.Year(), from.Month(), to.Month())
	}

	return sel
}

// pageFor returns the picker page that shows the start of sel.
func pageFor(sel Selection, clock Clock) time.Time {
	loc := clock.location()

	switch v := sel.(type) {
	case Day:
		return time.Date(v.Start.Year(), v.Start.Month(), 1, 0, 0, 0, 0, loc)
	case Week:
		return time.Date(v.Year, time.January, 1, 0, 0, 0, 0, loc)
	case Month:
		return time.Date(v.Year, time.January, 1, 0, 0, 0, 0, loc)
	}

	return clock.Today()
}
