package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cctvdash/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
	"github.com/MrJamesThe3rd/cctvdash/internal/app"
	"github.com/MrJamesThe3rd/cctvdash/internal/config"
	"github.com/MrJamesThe3rd/cctvdash/internal/dashboard"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

type model struct {
	app       *app.App
	ctrl      *dashboard.Controller
	formatter *selection.Formatter

	currentView View

	dashboardView view.DashboardModel
	exportView    view.ExportModel
	importView    view.ImportModel
}

type View int

const (
	ViewDashboard View = 0
	ViewExport    View = 1
	ViewImport    View = 2
)

func initialModel(a *app.App) model {
	cfg := a.Config

	ctrl := dashboard.NewController(a.Clock, cfg.API.PageSize)
	fetcher := dashboard.NewFetcher(a.Analytics, a.Branches, a.Clock)
	formatter := selection.NewFormatter(cfg.App.Locale, a.Clock)

	return model{
		app:           a,
		ctrl:          ctrl,
		formatter:     formatter,
		currentView:   ViewDashboard,
		dashboardView: view.NewDashboardModel(ctrl, fetcher, a.BranchService, formatter, a.Clock, cfg.API.PollInterval),
	}
}

func (m model) Init() tea.Cmd {
	return m.dashboardView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewDashboard && m.dashboardIdle() {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "e":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.app.Export, m.exportFilter(), m.formatter.Format(m.ctrl.Selection()), m.app.Config.Server.ExportDir)

				return m, m.exportView.Init()
			case "i":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.app.BranchService, m.app.Importer)

				return m, m.importView.Init()
			}
		}

	case view.BackMsg:
		m.currentView = ViewDashboard
		return m, nil
	}

	// The dashboard keeps receiving its own messages while another view is
	// open so fetches and polling carry on.
	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
		cmd = tea.Batch(cmd, m.forwardToDashboard(msg))
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
		cmd = tea.Batch(cmd, m.forwardToDashboard(msg))
	}

	return m, cmd
}

func (m *model) forwardToDashboard(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.KeyMsg); ok {
		return nil
	}

	newModel, cmd := m.dashboardView.Update(msg)
	m.dashboardView = newModel.(view.DashboardModel)

	return cmd
}

func (m model) dashboardIdle() bool {
	return !m.ctrl.Picker.Open && !m.dashboardView.Editing()
}

// exportFilter is the filter of the overview on screen, or the current
// selection's when nothing has loaded yet.
func (m model) exportFilter() analytics.Filter {
	if f := m.dashboardView.Filter(); !f.Range.Start.IsZero() {
		return f
	}

	branchID := dashboard.ResolveBranch(context.Background(), m.app.Branches, m.ctrl.BranchQuery)
	return analytics.NewFilter(m.ctrl.Selection(), m.app.Clock, branchID, m.ctrl.ViolationOnly)
}

func (m model) View() string {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewExport:
		return m.withHelp(m.exportView.View(), m.exportView.ShortHelp())
	case ViewImport:
		return m.withHelp(m.importView.View(), m.importView.ShortHelp())
	}

	return "Unknown View"
}

func (m model) withHelp(body, help string) string {
	return body + "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("240")).PaddingLeft(1).Render(help)
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to the UI; logs go to a file.
	logFile, err := os.OpenFile(cfg.App.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	slog.SetDefault(slog.New(slog.NewJSONHandler(logFile, nil)))

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	m := initialModel(a)
	defer m.ctrl.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
