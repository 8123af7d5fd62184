package view

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/cctvdash/internal/branch"
	"github.com/MrJamesThe3rd/cctvdash/internal/importer"
)

const (
	importTimeout = 2 * time.Minute
	previewRows   = 8
)

var errNoDirectory = errors.New("the branch directory needs a database; set DB_HOST")

type importState int

const (
	importStateFilePick importState = iota
	importStateConfirm
	importStateImporting
	importStateResult
)

// ImportModel loads a branch list file into the branch directory.
type ImportModel struct {
	CommonModel
	branchService *branch.Service
	importService *importer.Service

	state      importState
	filePicker filepicker.Model
	path       string
	params     []branch.ImportParams
	form       *huh.Form

	status string
	err    error
}

func NewImportModel(branchSvc *branch.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt", ".xlsx"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	m := ImportModel{
		branchService: branchSvc,
		importService: impSvc,
		filePicker:    fp,
	}

	if branchSvc == nil {
		m.state = importStateResult
		m.err = errNoDirectory
		m.status = fmt.Sprintf("Error: %v", errNoDirectory)
	}

	return m
}

func (m ImportModel) Title() string { return "Import Branches" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateConfirm:
		return "←/→: choose | Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	if m.state != importStateFilePick {
		return nil
	}
	return m.filePicker.Init()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

	case parseResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.params = msg.params
		m.state = importStateConfirm
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Key("confirm").
					Title(fmt.Sprintf("Import %d branches from %s?", len(m.params), filepath.Base(m.path))).
					Affirmative("Import").
					Negative("Cancel"),
			),
		).WithWidth(60).WithShowHelp(false)

		return m, m.form.Init()

	case importResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d branches: %d created, %d updated, %d unchanged.",
			len(m.params), msg.result.Created, msg.result.Updated, msg.result.Unchanged)

		return m, nil
	}

	switch m.state {
	case importStateFilePick:
		return m.updateFilePick(msg)
	case importStateConfirm:
		return m.updateConfirm(msg)
	}

	return m, nil
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.path = path
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.parseCmd(path)
	}

	return m, cmd
}

func (m ImportModel) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.form.GetBool("confirm") {
		return m.handleEsc()
	}

	m.state = importStateImporting
	m.status = fmt.Sprintf("Importing %d branches...", len(m.params))

	return m, m.importCmd(m.params)
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	if m.branchService == nil {
		return m, Back
	}

	switch m.state {
	case importStateConfirm, importStateResult:
		m.state = importStateFilePick
		m.params = nil
		m.err = nil
		m.status = ""

		return m, m.filePicker.Init()
	}

	return m, Back
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select branch list (CSV or XLSX):\n\n%s", m.filePicker.View()),
		)
	case importStateConfirm:
		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left, m.viewPreview(), "", m.form.View()),
		)
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewPreview() string {
	lines := []string{titleStyle.Render("Preview")}

	for i, p := range m.params {
		if i == previewRows {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("... and %d more", len(m.params)-previewRows)))
			break
		}

		lines = append(lines, fmt.Sprintf("%-10s %s", p.Code, p.Name))
	}

	return strings.Join(lines, "\n")
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	return style.Render(okStyle.Render(m.status) + "\n\n(Esc to go back)")
}

// Messages

type parseResultMsg struct {
	params []branch.ImportParams
	err    error
}

type importResultMsg struct {
	result *branch.ImportResult
	err    error
}

func (m ImportModel) parseCmd(path string) tea.Cmd {
	svc := m.importService

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return parseResultMsg{err: err}
		}
		defer f.Close()

		params, err := svc.Parse(importer.FormatFor(path), f)
		if err != nil {
			return parseResultMsg{err: err}
		}

		if len(params) == 0 {
			return parseResultMsg{err: fmt.Errorf("no branches found in %s", filepath.Base(path))}
		}

		return parseResultMsg{params: params}
	}
}

func (m ImportModel) importCmd(params []branch.ImportParams) tea.Cmd {
	svc := m.branchService

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := svc.Import(ctx, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}
