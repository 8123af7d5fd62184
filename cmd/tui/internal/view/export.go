package view

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
	"github.com/MrJamesThe3rd/cctvdash/internal/export"
)

type exportState int

const (
	exportStatePath exportState = iota
	exportStateExporting
	exportStateResult
)

// ExportModel exports the events behind the dashboard's current filter.
type ExportModel struct {
	CommonModel
	exportService *export.Service

	state  exportState
	err    error
	filter analytics.Filter
	label  string

	form    *huh.Form
	path    string
	spinner spinner.Model
	dir     string
	summary string
}

func NewExportModel(svc *export.Service, filter analytics.Filter, label, path string) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	if path == "" {
		path = "./exports"
	}

	m := ExportModel{
		exportService: svc,
		state:         exportStatePath,
		filter:        filter,
		label:         label,
		path:          path,
		spinner:       s,
	}
	m.form = m.buildPathForm()

	return m
}

func (m ExportModel) Title() string { return "Export Events" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to dashboard"
	case exportStateExporting:
		return "Exporting..."
	}
	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case exportStatePath:
		return m.updatePath(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m ExportModel) updatePath(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if path := strings.TrimSpace(m.form.GetString("path")); path != "" {
		m.path = path
	}

	m.state = exportStateExporting
	m.err = nil
	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(m.filter, m.path))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.dir = result.dir
		m.summary = result.body
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m ExportModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}
	return m, nil
}

func (m *ExportModel) buildPathForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("path").
				Title("Output Path").
				Description("Directory will be created if it doesn't exist").
				Placeholder("./exports").
				Value(&m.path),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStatePath:
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render("Export "+m.label),
				mutedStyle.Render(m.describeFilter()),
				"",
				m.form.View(),
			),
		)

	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("%s Exporting events and downloading evidence images...", m.spinner.View()),
		)

	case exportStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ExportModel) describeFilter() string {
	parts := []string{fmt.Sprintf("%s to %s",
		m.filter.Range.Start.Format("2006-01-02"), m.filter.Range.End.Format("2006-01-02"))}

	if m.filter.BranchID != "" {
		parts = append(parts, "branch "+m.filter.BranchID)
	}

	if m.filter.ViolationOnly {
		parts = append(parts, "violations only")
	}

	return strings.Join(parts, " · ")
}

func (m ExportModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(1).Render(
			errorStyle.Render(fmt.Sprintf("Error: %v", m.err)),
		)
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("46")).
		Render("Export Complete!")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			mutedStyle.Render(m.dir),
			"",
			"Summary:",
			"",
			m.summary,
		),
	)
}

type exportResultMsg struct {
	dir  string
	body string
	err  error
}

const exportTimeout = 10 * time.Minute

func (m ExportModel) runExportCmd(filter analytics.Filter, path string) tea.Cmd {
	svc := m.exportService

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		result, err := svc.Export(ctx, filter, path)
		if err != nil {
			return exportResultMsg{err: err}
		}

		var body strings.Builder
		export.WriteSummary(&body, result.Items)

		return exportResultMsg{dir: result.Dir, body: body.String()}
	}
}
