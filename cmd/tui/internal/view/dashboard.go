package view

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
	"github.com/MrJamesThe3rd/cctvdash/internal/branch"
	"github.com/MrJamesThe3rd/cctvdash/internal/dashboard"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

const (
	topBranchesShown = 5
	suggestLimit     = 5
)

type overviewMsg struct {
	resp dashboard.Response
}

type suggestMsg struct {
	query    string
	branches []*branch.Branch
}

type pollMsg struct{}

// DashboardModel is the main screen: time picker, filters, KPI cards, the
// violation chart, the top branches and a page of events.
type DashboardModel struct {
	CommonModel

	ctrl      *dashboard.Controller
	fetcher   *dashboard.Fetcher
	formatter *selection.Formatter
	clock     selection.Clock
	interval  time.Duration

	// branches is nil when there is no branch directory to suggest from.
	branches *branch.Service

	picker        TimePicker
	branchInput   textinput.Model
	editingBranch bool
	suggestions   []*branch.Branch
	table         table.Model
	spinner       spinner.Model
}

func NewDashboardModel(
	ctrl *dashboard.Controller,
	fetcher *dashboard.Fetcher,
	branches *branch.Service,
	formatter *selection.Formatter,
	clock selection.Clock,
	interval time.Duration,
) DashboardModel {
	bi := textinput.New()
	bi.Placeholder = "all branches"
	bi.Prompt = "Branch: "
	bi.CharLimit = 64
	bi.Width = 24

	columns := []table.Column{
		{Title: "Time", Width: 16},
		{Title: "Branch", Width: 22},
		{Title: "Camera", Width: 10},
		{Title: "Vehicle", Width: 12},
		{Title: "Status", Width: 8},
		{Title: "Duration", Width: 10},
		{Title: "Exit", Width: 16},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return DashboardModel{
		ctrl:        ctrl,
		fetcher:     fetcher,
		branches:    branches,
		formatter:   formatter,
		clock:       clock,
		interval:    interval,
		picker:      NewTimePicker(formatter, clock),
		branchInput: bi,
		table:       t,
		spinner:     sp,
	}
}

func (m DashboardModel) Title() string { return "Parking Violations" }

func (m DashboardModel) ShortHelp() string {
	switch {
	case m.editingBranch:
		return "Enter: apply | Tab: complete | Esc: cancel"
	case m.ctrl.Picker.Open:
		return "Esc: close picker"
	}
	return "d/w/m: tab | ←/→: previous/next | p: picker | s: single/range | t: today | /: branch | v: violations | n/b: page | r: refresh | e: export | i: import branches | q: quit"
}

// Filter is the filter of the overview on screen.
func (m DashboardModel) Filter() analytics.Filter {
	return m.ctrl.Filter
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(m.ctrl.Refresh()), m.schedulePoll())
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.table.SetHeight(max(5, msg.Height-30))
		return m, nil

	case overviewMsg:
		if m.ctrl.Apply(msg.resp) {
			if msg.resp.Err != nil {
				slog.Error("failed to load overview", "error", msg.resp.Err, "request", msg.resp.ID)
			}
			m.refreshTable()
		}
		return m, nil

	case suggestMsg:
		if m.editingBranch && msg.query == strings.TrimSpace(m.branchInput.Value()) {
			m.suggestions = msg.branches
		}
		return m, nil

	case pollMsg:
		return m, tea.Batch(m.fetch(m.ctrl.Poll()), m.schedulePoll())

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case m.editingBranch:
			return m.updateBranch(msg)
		case m.ctrl.Picker.Open:
			return m.updatePicker(msg)
		}
		return m.updateBrowse(msg)
	}

	if m.editingBranch {
		var cmd tea.Cmd
		m.branchInput, cmd = m.branchInput.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m DashboardModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "d":
		return m, m.dispatch(selection.SwitchTab{Tab: selection.TabDay})
	case "w":
		return m, m.dispatch(selection.SwitchTab{Tab: selection.TabWeek})
	case "m":
		return m, m.dispatch(selection.SwitchTab{Tab: selection.TabMonth})
	case "s":
		return m, m.dispatch(selection.SwitchMode{Mode: otherMode(m.ctrl.Selection())})
	case "left", "h":
		return m, m.dispatch(selection.Navigate{Dir: -1})
	case "right", "l":
		return m, m.dispatch(selection.Navigate{Dir: 1})
	case "t":
		return m, m.dispatch(selection.Now{})
	case "p", "enter":
		cmd := m.dispatch(selection.Toggle{})
		m.picker.Open(m.ctrl.Picker)
		return m, cmd
	case "/":
		m.editingBranch = true
		m.branchInput.SetValue(m.ctrl.BranchQuery)
		m.branchInput.CursorEnd()
		return m, m.branchInput.Focus()
	case "v":
		req, ok := m.ctrl.SetViolationOnly(!m.ctrl.ViolationOnly)
		return m, m.fetchIf(req, ok)
	case "n", "pgdown":
		req, ok := m.ctrl.SetPage(m.ctrl.Page + 1)
		return m, m.fetchIf(req, ok)
	case "b", "pgup":
		req, ok := m.ctrl.SetPage(m.ctrl.Page - 1)
		return m, m.fetchIf(req, ok)
	case "r":
		return m, m.fetch(m.ctrl.Refresh())
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m DashboardModel) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var actions []selection.Action
	m.picker, actions = m.picker.Update(msg, m.ctrl.Picker)

	var cmds []tea.Cmd
	for _, a := range actions {
		cmds = append(cmds, m.dispatch(a))
	}

	// Switching mode or jumping to now moves the selection; keep the cursor
	// on it.
	if m.ctrl.Picker.Open && len(actions) > 0 {
		switch actions[0].(type) {
		case selection.SwitchMode, selection.Now:
			m.picker.Open(m.ctrl.Picker)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m DashboardModel) updateBranch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.editingBranch = false
		m.suggestions = nil
		m.branchInput.Blur()
		req, ok := m.ctrl.SetBranch(m.branchInput.Value())
		return m, m.fetchIf(req, ok)
	case tea.KeyEsc:
		m.editingBranch = false
		m.suggestions = nil
		m.branchInput.Blur()
		m.branchInput.SetValue(m.ctrl.BranchQuery)
		return m, nil
	case tea.KeyTab:
		if len(m.suggestions) > 0 {
			m.branchInput.SetValue(m.suggestions[0].Code)
			m.branchInput.CursorEnd()
			m.suggestions = nil
		}
		return m, nil
	}

	prev := m.branchInput.Value()

	var cmd tea.Cmd
	m.branchInput, cmd = m.branchInput.Update(msg)

	if m.branchInput.Value() == prev {
		return m, cmd
	}

	return m, tea.Batch(cmd, m.suggest(m.branchInput.Value()))
}

func (m DashboardModel) suggest(query string) tea.Cmd {
	query = strings.TrimSpace(query)
	if m.branches == nil || query == "" {
		return nil
	}

	svc := m.branches
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		branches, err := svc.Suggest(ctx, query, suggestLimit)
		if err != nil {
			slog.Warn("failed to suggest branches", "query", query, "error", err)
			return nil
		}

		return suggestMsg{query: query, branches: branches}
	}
}

// dispatch feeds a to the controller and fetches if the selection changed.
func (m DashboardModel) dispatch(a selection.Action) tea.Cmd {
	req, ok := m.ctrl.Dispatch(a)
	return m.fetchIf(req, ok)
}

func (m DashboardModel) fetchIf(req dashboard.Request, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	return m.fetch(req)
}

func (m DashboardModel) fetch(req dashboard.Request) tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		return overviewMsg{resp: fetcher.Fetch(req)}
	}
}

func (m DashboardModel) schedulePoll() tea.Cmd {
	if m.interval <= 0 {
		return nil
	}
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return pollMsg{}
	})
}

func (m *DashboardModel) refreshTable() {
	loc := m.clock.Location
	if loc == nil {
		loc = time.Local
	}

	var rows []table.Row
	if ov := m.ctrl.Overview; ov != nil && ov.Events != nil {
		for _, e := range ov.Events.Events {
			exit := "ongoing"
			if e.ExitTime != nil {
				exit = FormatTime(*e.ExitTime, loc)
			}

			rows = append(rows, table.Row{
				FormatTime(e.Timestamp, loc),
				e.Branch.Name,
				e.Camera.ID,
				e.VehicleID,
				StatusLabel(e.Status, m.formatter.Language()),
				FormatMinutes(e.DurationMinutes),
				exit,
			})
		}
	}

	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m DashboardModel) View() string {
	sections := []string{m.viewHeader(), m.viewFilters()}

	if m.ctrl.Picker.Open {
		sections = append(sections, m.picker.View(m.ctrl.Picker))
	}

	if m.ctrl.Err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("Error: %v", m.ctrl.Err)))
	}

	ov := m.ctrl.Overview
	if ov == nil {
		sections = append(sections, mutedStyle.Render("Loading..."))
		return lipgloss.NewStyle().Padding(1).Render(strings.Join(sections, "\n\n"))
	}

	if ov.Summary != nil {
		sections = append(sections, m.viewKPI(ov.Summary.KPI), m.viewCharts(ov.Summary))
	}

	sections = append(sections, m.viewEvents(ov.Events), mutedStyle.Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(strings.Join(sections, "\n\n"))
}

func (m DashboardModel) viewHeader() string {
	sel := m.ctrl.Selection()

	status := ""
	if m.ctrl.Loading() {
		status = m.spinner.View()
	}

	updated := m.formatter.UpdatedUntil(sel)
	if !m.ctrl.UpdatedAt.IsZero() {
		updated += " · " + m.ctrl.UpdatedAt.Format("15:04:05")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, titleStyle.Render("CCTV Parking Violations"), "  ", status),
		lipgloss.JoinHorizontal(lipgloss.Top, TabStrip(m.ctrl.Picker), "  ", m.formatter.Format(sel)),
		mutedStyle.Render(updated),
	)
}

func (m DashboardModel) viewFilters() string {
	label := m.branchInput.View()
	if !m.editingBranch {
		value := m.ctrl.BranchQuery
		if value == "" {
			value = mutedStyle.Render("all branches")
		}
		label = "Branch: " + value
		if id := m.ctrl.Filter.BranchID; id != "" && id != m.ctrl.BranchQuery {
			label += mutedStyle.Render(" → " + id)
		}
	}

	check := "[ ]"
	if m.ctrl.ViolationOnly {
		check = "[x]"
	}

	line := label + "    " + check + " violations only"

	if m.editingBranch && len(m.suggestions) > 0 {
		names := make([]string, 0, len(m.suggestions))
		for _, b := range m.suggestions {
			names = append(names, b.Code+" "+b.Name)
		}
		line += "\n" + mutedStyle.Render("  "+strings.Join(names, " · "))
	}

	return line
}

func (m DashboardModel) viewKPI(k analytics.KPI) string {
	card := func(label, value string) string {
		return cardStyle.Render(mutedStyle.Render(label) + "\n" + lipgloss.NewStyle().Bold(true).Render(value))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card("Violations", m.formatter.Number(k.TotalViolations)),
		card("Sessions", m.formatter.Number(k.TotalParkingSessions)),
		card("Violation rate", k.ViolationRate().StringFixed(1)+"%"),
		card("Ongoing", warnStyle.Render(m.formatter.Number(k.OngoingViolations))),
		card("Avg violation", FormatMinutes(k.AvgViolationDuration)),
		card("Avg normal stay", FormatMinutes(k.AvgNormalParkingTime)),
		card("Online branches", okStyle.Render(m.formatter.Number(k.OnlineBranches))),
	)
}

func (m DashboardModel) viewCharts(s *analytics.Summary) string {
	width := 60
	if m.Width > 0 {
		width = max(30, m.Width-50)
	}

	chart := panelStyle.Render(titleStyle.Render("Violations") + "\n" + renderChart(s.ChartData, width, 10))
	top := panelStyle.Render(titleStyle.Render("Top branches") + "\n" + renderTopBranches(s.TopBranches, topBranchesShown))

	return lipgloss.JoinHorizontal(lipgloss.Top, chart, " ", top)
}

func (m DashboardModel) viewEvents(page *analytics.EventsPage) string {
	footer := mutedStyle.Render("No events")
	if page != nil && page.TotalItems > 0 {
		footer = mutedStyle.Render(fmt.Sprintf("Page %d/%d · %s events",
			page.CurrentPage, page.TotalPages, m.formatter.Number(page.TotalItems)))
	}

	return m.table.View() + "\n" + footer
}

// Editing reports whether the branch filter has the keyboard.
func (m DashboardModel) Editing() bool {
	return m.editingBranch
}
