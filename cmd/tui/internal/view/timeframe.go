package view

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cctvdash/internal/calendar"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

// weekWindow is how many weeks of the year the week list shows at once.
const weekWindow = 8

var (
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	cellStyle      = lipgloss.NewStyle().Width(4).Align(lipgloss.Right)
	inRangeStyle   = cellStyle.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	focusStyle     = cellStyle.Reverse(true)
	todayStyle     = cellStyle.Underline(true).Bold(true)
)

// TimePicker draws the popup of the dashboard header and turns keys into
// selection actions. The selection itself lives in the dashboard
// controller; the picker only owns the cursor.
type TimePicker struct {
	formatter *selection.Formatter
	clock     selection.Clock

	// focus is the day under the cursor. On the week tab it is the Monday of
	// the focused week, on the month tab the first of the focused month.
	focus time.Time
}

func NewTimePicker(formatter *selection.Formatter, clock selection.Clock) TimePicker {
	return TimePicker{formatter: formatter, clock: clock, focus: clock.Today()}
}

// Open puts the cursor on the first unit of the current selection.
func (p *TimePicker) Open(s selection.State) {
	p.focus = p.snap(s.Tab(), selection.Resolve(s.Selection, p.clock).Start)
}

// Update maps a key to the actions it triggers. The cursor moves freely;
// when it leaves the page on display a Turn is emitted to follow it.
func (p TimePicker) Update(msg tea.KeyMsg, s selection.State) (TimePicker, []selection.Action) {
	tab := s.Tab()

	switch msg.String() {
	case "esc", "q":
		return p, []selection.Action{selection.Dismiss{}}
	case "t":
		return p, []selection.Action{selection.Now{}}
	case "s":
		return p, []selection.Action{selection.SwitchMode{Mode: otherMode(s.Selection)}}
	case "enter", " ":
		return p, []selection.Action{selection.Pick{Unit: p.unit(tab)}}
	case "left", "h":
		p.focus = p.step(tab, -1)
	case "right", "l":
		p.focus = p.step(tab, 1)
	case "up", "k":
		p.focus = p.row(tab, -1)
	case "down", "j":
		p.focus = p.row(tab, 1)
	case "pgup", "[":
		p.focus = p.page(tab, -1)
	case "pgdown", "]":
		p.focus = p.page(tab, 1)
	default:
		return p, nil
	}

	if dir := p.pageOffset(tab, s.Page); dir != 0 {
		return p, []selection.Action{selection.Turn{Dir: dir}}
	}

	return p, nil
}

func (p TimePicker) unit(tab selection.Tab) selection.Unit {
	switch tab {
	case selection.TabWeek:
		year, week := calendar.ISOWeek(p.focus)
		return selection.WeekUnit(year, week)
	case selection.TabMonth:
		return selection.MonthUnit(p.focus.Year(), p.focus.Month())
	}
	return selection.DayUnit(p.focus)
}

func (p TimePicker) snap(tab selection.Tab, t time.Time) time.Time {
	switch tab {
	case selection.TabWeek:
		return calendar.StartOfWeek(t)
	case selection.TabMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	}
	return calendar.StartOfDay(t)
}

func (p TimePicker) step(tab selection.Tab, dir int) time.Time {
	switch tab {
	case selection.TabWeek:
		return p.focus.AddDate(0, 0, 7*dir)
	case selection.TabMonth:
		return p.focus.AddDate(0, dir, 0)
	}
	return p.focus.AddDate(0, 0, dir)
}

func (p TimePicker) row(tab selection.Tab, dir int) time.Time {
	switch tab {
	case selection.TabWeek:
		return p.focus.AddDate(0, 0, 7*dir)
	case selection.TabMonth:
		return p.focus.AddDate(0, 3*dir, 0)
	}
	return p.focus.AddDate(0, 0, 7*dir)
}

func (p TimePicker) page(tab selection.Tab, dir int) time.Time {
	switch tab {
	case selection.TabWeek:
		year, week := calendar.ISOWeek(p.focus)
		week = min(week, calendar.WeeksInYear(year+dir))
		return calendar.WeekRange(year+dir, week, p.focus.Location()).Start
	case selection.TabMonth:
		return p.focus.AddDate(dir, 0, 0)
	}

	// Keep the day of month, clamped to the target month.
	first := time.Date(p.focus.Year(), p.focus.Month()+time.Month(dir), 1, 0, 0, 0, 0, p.focus.Location())
	day := min(p.focus.Day(), calendar.DaysIn(first.Year(), first.Month()))
	return first.AddDate(0, 0, day-1)
}

// pageOffset is how many pages the cursor lies away from page.
func (p TimePicker) pageOffset(tab selection.Tab, page time.Time) int {
	switch tab {
	case selection.TabWeek:
		year, _ := calendar.ISOWeek(p.focus)
		return year - page.Year()
	case selection.TabMonth:
		return p.focus.Year() - page.Year()
	}
	return (p.focus.Year()-page.Year())*12 + int(p.focus.Month()) - int(page.Month())
}

// View renders the popup for s.
func (p TimePicker) View(s selection.State) string {
	var body string

	switch s.Tab() {
	case selection.TabWeek:
		body = p.viewWeeks(s)
	case selection.TabMonth:
		body = p.viewMonths(s)
	default:
		body = p.viewDays(s)
	}

	hint := "←→↑↓ move · [ ] page · Enter pick · s mode · t now · Esc close"
	if s.Pending() {
		hint = warnStyle.Render("pick the end of the range") + "\n" + hint
	}

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		TabStrip(s),
		"",
		body,
		"",
		mutedStyle.Render(hint),
	))
}

// TabStrip renders the Day | Week | Month switcher with the active mode.
func TabStrip(s selection.State) string {
	tabs := make([]string, 0, 3)
	for _, tab := range []selection.Tab{selection.TabDay, selection.TabWeek, selection.TabMonth} {
		if tab == s.Tab() {
			tabs = append(tabs, activeTabStyle.Render(tab.String()))
			continue
		}
		tabs = append(tabs, tabStyle.Render(tab.String()))
	}

	mode := "single"
	if s.Selection.Ranged() {
		mode = "range"
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, append(tabs, mutedStyle.Render("  mode: "+mode))...)
}

func (p TimePicker) viewDays(s selection.State) string {
	selected := selection.Resolve(s.Selection, p.clock)
	today := p.clock.Today()

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s %d", p.formatter.MonthName(s.Page.Month()), s.Page.Year())))
	b.WriteString("\n")

	for _, wd := range p.formatter.Weekdays() {
		b.WriteString(cellStyle.Render(wd))
	}

	for _, row := range calendar.MonthGrid(s.Page.Year(), s.Page.Month(), s.Page.Location()) {
		b.WriteString("\n")

		for _, cell := range row {
			if cell.Empty() {
				b.WriteString(cellStyle.Render(""))
				continue
			}

			style := cellStyle
			switch {
			case calendar.SameDay(cell.Date, p.focus):
				style = focusStyle
			case selected.Contains(cell.Date):
				style = inRangeStyle
			case calendar.SameDay(cell.Date, today):
				style = todayStyle
			}

			b.WriteString(style.Render(fmt.Sprint(cell.Day())))
		}
	}

	return b.String()
}

func (p TimePicker) viewWeeks(s selection.State) string {
	selected := selection.Resolve(s.Selection, p.clock)
	weeks := calendar.WeekGrid(s.Page.Year(), s.Page.Location())
	currentYear, current := calendar.ISOWeek(p.clock.Today())
	focusYear, focusWeek := calendar.ISOWeek(p.focus)

	first := 0
	if focusYear == s.Page.Year() {
		first = max(0, min(focusWeek-weekWindow/2, len(weeks)-weekWindow))
	}

	lines := []string{titleStyle.Render(fmt.Sprint(s.Page.Year()))}

	for _, w := range weeks[first:min(first+weekWindow, len(weeks))] {
		line := fmt.Sprintf("W%02d  %d %s – %d %s",
			w.Week,
			w.Range.Start.Day(), p.formatter.MonthShort(w.Range.Start.Month()),
			w.Range.End.Day(), p.formatter.MonthShort(w.Range.End.Month()),
		)

		style := lipgloss.NewStyle()
		switch {
		case w.Year == focusYear && w.Week == focusWeek:
			style = style.Reverse(true)
		case selected.Contains(w.Range.Start):
			style = style.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
		case w.Year == currentYear && w.Week == current:
			style = style.Underline(true).Bold(true)
		}

		lines = append(lines, style.Render(line))
	}

	return strings.Join(lines, "\n")
}

func (p TimePicker) viewMonths(s selection.State) string {
	selected := selection.Resolve(s.Selection, p.clock)
	today := p.clock.Today()
	monthCell := lipgloss.NewStyle().Width(8).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprint(s.Page.Year())))

	for m := time.January; m <= time.December; m++ {
		if (m-1)%3 == 0 {
			b.WriteString("\n")
		}

		first := time.Date(s.Page.Year(), m, 1, 0, 0, 0, 0, s.Page.Location())

		style := monthCell
		switch {
		case first.Year() == p.focus.Year() && m == p.focus.Month():
			style = style.Reverse(true)
		case selected.Contains(first):
			style = style.Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
		case first.Year() == today.Year() && m == today.Month():
			style = style.Underline(true).Bold(true)
		}

		b.WriteString(style.Render(p.formatter.MonthShort(m)))
	}

	return b.String()
}

func otherMode(sel selection.Selection) selection.Mode {
	if sel.Ranged() {
		return selection.ModeSingle
	}
	return selection.ModeRange
}
