package view_test

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/cctvdash/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

func fixedClock() selection.Clock {
	return selection.Clock{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2025, time.March, 19, 10, 0, 0, 0, time.UTC) },
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTimePicker_Update(t *testing.T) {
	type testCase struct {
		name  string
		state selection.State
		keys  []tea.KeyMsg
		want  []selection.Action
	}

	tests := []testCase{
		{
			name:  "PickFocusedDay",
			state: selection.State{Selection: selection.SingleDay(date(2025, time.March, 10)), Open: true, Page: date(2025, time.March, 1)},
			keys:  []tea.KeyMsg{{Type: tea.KeyRight}, {Type: tea.KeyEnter}},
			want:  []selection.Action{selection.Pick{Unit: selection.DayUnit(date(2025, time.March, 11))}},
		},
		{
			name:  "PageClampsDayOfMonth",
			state: selection.State{Selection: selection.SingleDay(date(2025, time.March, 31)), Open: true, Page: date(2025, time.March, 1)},
			keys:  []tea.KeyMsg{{Type: tea.KeyPgDown}},
			want:  []selection.Action{selection.Turn{Dir: 1}},
		},
		{
			name:  "CursorLeavingMonthTurnsPage",
			state: selection.State{Selection: selection.SingleDay(date(2025, time.March, 1)), Open: true, Page: date(2025, time.March, 1)},
			keys:  []tea.KeyMsg{{Type: tea.KeyLeft}},
			want:  []selection.Action{selection.Turn{Dir: -1}},
		},
		{
			name:  "WeekCrossesIntoNextISOYear",
			state: selection.State{Selection: selection.SingleWeek(2024, 52), Open: true, Page: date(2024, time.January, 1)},
			keys:  []tea.KeyMsg{{Type: tea.KeyDown}},
			want:  []selection.Action{selection.Turn{Dir: 1}},
		},
		{
			name:  "PickMonthTwoRowsDown",
			state: selection.State{Selection: selection.SingleMonth(2025, time.February), Open: true, Page: date(2025, time.January, 1)},
			keys:  []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyEnter}},
			want:  []selection.Action{selection.Pick{Unit: selection.MonthUnit(2025, time.August)}},
		},
		{
			name:  "EscDismisses",
			state: selection.State{Selection: selection.SingleDay(date(2025, time.March, 10)), Open: true, Page: date(2025, time.March, 1)},
			keys:  []tea.KeyMsg{{Type: tea.KeyEsc}},
			want:  []selection.Action{selection.Dismiss{}},
		},
		{
			name:  "ModeToggle",
			state: selection.State{Selection: selection.SingleWeek(2025, 12), Open: true, Page: date(2025, time.January, 1)},
			keys:  []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("s")}},
			want:  []selection.Action{selection.SwitchMode{Mode: selection.ModeRange}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := fixedClock()
			p := view.NewTimePicker(selection.NewFormatter("en", clock), clock)
			p.Open(tt.state)

			var got []selection.Action
			for _, k := range tt.keys {
				p, got = p.Update(k, tt.state)
			}

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimePicker_ViewMarksRange(t *testing.T) {
	clock := fixedClock()
	p := view.NewTimePicker(selection.NewFormatter("en", clock), clock)

	state := selection.State{
		Selection: selection.DayRange(date(2025, time.March, 3), date(2025, time.March, 7)),
		Open:      true,
		Page:      date(2025, time.March, 1),
	}
	p.Open(state)

	out := p.View(state)
	assert.Contains(t, out, "March 2025")
	assert.Contains(t, out, "Su")
	assert.Contains(t, out, "31")
}
