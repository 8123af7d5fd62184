// Package cli implements the sub-commands of cctvctl.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
	"github.com/MrJamesThe3rd/cctvdash/internal/app"
	"github.com/MrJamesThe3rd/cctvdash/internal/branch"
	"github.com/MrJamesThe3rd/cctvdash/internal/dashboard"
	"github.com/MrJamesThe3rd/cctvdash/internal/export"
	"github.com/MrJamesThe3rd/cctvdash/internal/http/params"
	"github.com/MrJamesThe3rd/cctvdash/internal/importer"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

// Options represents command line options that are shared across sub-commands.
type Options struct {
	Writer io.Writer    `no-flag:"yes"`
	Log    *slog.Logger `no-flag:"yes"`

	// App builds the services a command needs.
	App func(ctx context.Context) (*app.App, error) `no-flag:"yes"`
}

// SelectionFlags spell out a time selection the way the HTTP API's query
// parameters do.
type SelectionFlags struct {
	Tab        string `short:"t" long:"tab" description:"Picker tab. Default is today" choice:"day" choice:"week" choice:"month"`
	Mode       string `long:"mode" description:"Single unit or range" choice:"single" choice:"range" default:"single"`
	Date       string `long:"date" description:"Day to show" value-name:"YYYY-MM-DD"`
	Start      string `long:"start" description:"First day of a day range" value-name:"YYYY-MM-DD"`
	End        string `long:"end" description:"Last day of a day range" value-name:"YYYY-MM-DD"`
	Year       int    `short:"y" long:"year" description:"Year of a week or month selection"`
	Week       int    `short:"w" long:"week" description:"ISO week number"`
	StartWeek  int    `long:"start-week" description:"First ISO week of a week range"`
	EndWeek    int    `long:"end-week" description:"Last ISO week of a week range"`
	Month      int    `short:"m" long:"month" description:"Month number (1-12)"`
	StartMonth int    `long:"start-month" description:"First month of a month range"`
	EndMonth   int    `long:"end-month" description:"Last month of a month range"`
}

func (s SelectionFlags) query() url.Values {
	q := url.Values{}
	set := func(key, value string) {
		if value != "" && value != "0" {
			q.Set(key, value)
		}
	}

	set("tab", s.Tab)
	set("mode", s.Mode)
	set("date", s.Date)
	set("start", s.Start)
	set("end", s.End)
	set("year", strconv.Itoa(s.Year))
	set("week", strconv.Itoa(s.Week))
	set("start_week", strconv.Itoa(s.StartWeek))
	set("end_week", strconv.Itoa(s.EndWeek))
	set("month", strconv.Itoa(s.Month))
	set("start_month", strconv.Itoa(s.StartMonth))
	set("end_month", strconv.Itoa(s.EndMonth))

	return q
}

func (s SelectionFlags) selection(clock selection.Clock) (selection.Selection, error) {
	return params.Selection(s.query(), clock)
}

// FilterFlags narrow the analytics queries of a command.
type FilterFlags struct {
	Branch        string `short:"b" long:"branch" description:"Branch code or name"`
	ViolationOnly bool   `short:"v" long:"violations" description:"Only violations"`
}

// Range represents options for the range sub-command.
type Range struct {
	Options
	SelectionFlags
	Lang string `short:"l" long:"lang" description:"Language of the label"`

	// Clock is the time the selection is resolved against.
	Clock selection.Clock `no-flag:"yes"`
}

// Summary represents options for the summary sub-command.
type Summary struct {
	Options
	SelectionFlags
	FilterFlags
	Lang string `short:"l" long:"lang" description:"Language of the label and numbers"`
}

// Import represents options for the import sub-command.
type Import struct {
	Options
	Format string `short:"F" long:"format" description:"File format. Default is to go by the file extension" choice:"csv" choice:"xlsx"`
	DryRun bool   `short:"n" long:"dry-run" description:"Parse and print the branches without saving them"`
	Args   struct {
		Files []string `description:"Branch list to import" positional-arg-name:"import-file"`
	} `positional-args:"yes" required:"yes"`
}

// Export represents options for the export sub-command.
type Export struct {
	Options
	SelectionFlags
	FilterFlags
	Output string `short:"o" long:"output" description:"Directory the export run is written to" value-name:"DIR"`
}

// Branches represents options for the branches sub-command.
type Branches struct {
	Options
}

// Execute prints the date range a selection resolves to.
func (r *Range) Execute(_ []string) error {
	clock := r.Clock
	sel, err := r.selection(clock)
	if err != nil {
		return err
	}

	f := selection.NewFormatter(r.Lang, clock)
	rng := selection.Resolve(sel, clock)

	table := tablewriter.NewWriter(r.Writer)
	table.SetAutoWrapText(false)
	table.Append([]string{"Label", f.Format(sel)})
	table.Append([]string{"Start", rng.Start.Format("2006-01-02 15:04:05")})
	table.Append([]string{"End", rng.End.Format("2006-01-02 15:04:05.000")})
	table.Append([]string{"Days", strconv.Itoa(rng.Days())})
	table.Append([]string{"Group by", string(analytics.GroupByFor(sel))})
	table.Append([]string{"Updated", f.UpdatedUntil(sel)})
	table.Append([]string{"Query", params.Encode(sel).Encode()})
	table.Render()

	return nil
}

// Execute prints the KPI and top branches for a selection.
func (s *Summary) Execute(_ []string) error {
	ctx := context.Background()

	a, err := s.App(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sel, err := s.selection(a.Clock)
	if err != nil {
		return err
	}

	lang := s.Lang
	if lang == "" {
		lang = a.Config.App.Locale
	}
	f := selection.NewFormatter(lang, a.Clock)

	filter := analytics.NewFilter(sel, a.Clock, dashboard.ResolveBranch(ctx, a.Branches, s.Branch), s.ViolationOnly)
	s.Log.Info("loading summary", "label", f.Format(sel), "branch", filter.BranchID)

	sum, err := a.Analytics.Summary(ctx, filter)
	if err != nil {
		return err
	}

	kpi := tablewriter.NewWriter(s.Writer)
	kpi.SetHeader([]string{"Violations", "Sessions", "Rate", "Ongoing", "Avg violation", "Avg normal", "Online"})
	kpi.SetAutoWrapText(false)
	kpi.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})
	kpi.Append([]string{
		f.Number(sum.KPI.TotalViolations),
		f.Number(sum.KPI.TotalParkingSessions),
		sum.KPI.ViolationRate().StringFixed(1) + "%",
		f.Number(sum.KPI.OngoingViolations),
		sum.KPI.AvgViolationDuration.StringFixed(1),
		sum.KPI.AvgNormalParkingTime.StringFixed(1),
		f.Number(sum.KPI.OnlineBranches),
	})
	kpi.Render()

	if len(sum.TopBranches) == 0 {
		return nil
	}

	top := tablewriter.NewWriter(s.Writer)
	top.SetHeader([]string{"#", "Code", "Branch", "Violations"})
	top.SetAutoWrapText(false)
	top.SetColumnAlignment([]int{tablewriter.ALIGN_RIGHT, 0, 0, tablewriter.ALIGN_RIGHT})
	for i, b := range sum.TopBranches {
		top.Append([]string{strconv.Itoa(i + 1), b.Code, b.Name, f.Number(b.Count)})
	}
	top.Render()

	return nil
}

// Execute imports branch lists into the branch directory.
func (i *Import) Execute(_ []string) error {
	ctx := context.Background()

	a, err := i.App(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.BranchService == nil && !i.DryRun {
		return fmt.Errorf("importing branches needs a database: set DB_HOST")
	}

	for _, file := range i.Args.Files {
		format := importer.Format(i.Format)
		if format == "" {
			format = importer.FormatFor(file)
		}

		rows, err := parseFile(a.Importer, format, file)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		i.Log.Info("read branch list", "file", file, "branches", len(rows))

		if i.DryRun {
			table := tablewriter.NewWriter(i.Writer)
			table.SetHeader([]string{"Code", "Name"})
			table.SetAutoWrapText(false)
			for _, r := range rows {
				table.Append([]string{r.Code, r.Name})
			}
			table.Render()
			continue
		}

		res, err := a.BranchService.Import(ctx, rows)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		i.Log.Info("imported branches", "file", file, "created", res.Created, "updated", res.Updated, "unchanged", res.Unchanged)
	}

	return nil
}

func parseFile(svc *importer.Service, format importer.Format, path string) ([]branch.ImportParams, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return svc.Parse(format, f)
}

// Execute exports the events of a selection with their evidence images.
func (e *Export) Execute(_ []string) error {
	ctx := context.Background()

	a, err := e.App(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	sel, err := e.selection(a.Clock)
	if err != nil {
		return err
	}

	out := e.Output
	if out == "" {
		out = a.Config.Server.ExportDir
	}

	filter := analytics.NewFilter(sel, a.Clock, dashboard.ResolveBranch(ctx, a.Branches, e.Branch), e.ViolationOnly)
	e.Log.Info("exporting events", "start", filter.Range.Start, "end", filter.Range.End, "branch", filter.BranchID)

	res, err := a.Export.Export(ctx, filter, out)
	if err != nil {
		return err
	}

	e.Log.Info("export written", "dir", res.Dir, "events", len(res.Items))
	export.WriteSummary(e.Writer, res.Items)

	return nil
}

// Execute lists the branch directory.
func (b *Branches) Execute(_ []string) error {
	ctx := context.Background()

	a, err := b.App(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.BranchService == nil {
		return fmt.Errorf("listing branches needs a database: set DB_HOST")
	}

	branches, err := a.BranchService.List(ctx)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(b.Writer)
	table.SetHeader([]string{"Code", "Name", "Updated"})
	table.SetAutoWrapText(false)
	for _, br := range branches {
		updated := br.CreatedAt
		if br.UpdatedAt != nil {
			updated = *br.UpdatedAt
		}
		table.Append([]string{br.Code, strings.TrimSpace(br.Name), updated.In(a.Clock.Time().Location()).Format("2006-01-02")})
	}
	table.Render()

	return nil
}
