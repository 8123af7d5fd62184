package export

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	timeLayout = "2006-01-02 15:04:05"
	sheetName  = "Events"
)

var columns = []string{
	"id", "timestamp", "branch_id", "branch", "camera", "vehicle",
	"status", "entry_time", "exit_time", "duration_minutes", "violation", "image",
}

func row(it Item, loc *time.Location) []string {
	e := it.Event

	exit := ""
	if !e.Ongoing() {
		exit = e.ExitTime.In(loc).Format(timeLayout)
	}

	image := ""
	if it.ImagePath != "" {
		image = filepath.Join(ImagesDir, filepath.Base(it.ImagePath))
	}

	return []string{
		strconv.Itoa(e.ID),
		e.Timestamp.In(loc).Format(timeLayout),
		e.Branch.ID,
		e.Branch.Name,
		e.Camera.ID,
		e.VehicleID,
		string(e.Status),
		e.EntryTime.In(loc).Format(timeLayout),
		exit,
		e.DurationMinutes.StringFixed(1),
		strconv.FormatBool(e.IsViolation),
		image,
	}
}

// WriteCSV writes the items as UTF-8 CSV with a BOM so spreadsheet programs
// pick up the Thai branch names.
func WriteCSV(w io.Writer, items []Item, loc *time.Location) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(columns); err != nil {
		return err
	}

	for _, it := range items {
		if err := cw.Write(row(it, loc)); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteXLSX saves the items as a single-sheet workbook at path.
func WriteXLSX(path string, items []Item, loc *time.Location) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, it := range items {
		cells := row(it, loc)

		values := make([]any, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		values[0] = it.Event.ID
		values[9] = it.Event.DurationMinutes.InexactFloat64()

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	return nil
}

type branchTotals struct {
	id, name   string
	events     int
	violations int
	ongoing    int
	minutes    decimal.Decimal
}

// WriteSummary renders per-branch totals of the items as a text table.
func WriteSummary(w io.Writer, items []Item) {
	byBranch := make(map[string]*branchTotals)

	for _, it := range items {
		e := it.Event

		t, ok := byBranch[e.Branch.ID]
		if !ok {
			t = &branchTotals{id: e.Branch.ID, name: e.Branch.Name}
			byBranch[e.Branch.ID] = t
		}

		t.events++
		t.minutes = t.minutes.Add(e.DurationMinutes)

		if e.IsViolation {
			t.violations++
			if e.Ongoing() {
				t.ongoing++
			}
		}
	}

	totals := make([]*branchTotals, 0, len(byBranch))
	for _, t := range byBranch {
		totals = append(totals, t)
	}

	slices.SortFunc(totals, func(a, b *branchTotals) int {
		if a.violations != b.violations {
			return b.violations - a.violations
		}
		if a.id < b.id {
			return -1
		}
		if a.id > b.id {
			return 1
		}
		return 0
	})

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Branch", "Name", "Events", "Violations", "Ongoing", "Avg minutes"})
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		0, 0,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	for _, t := range totals {
		avg := t.minutes.Div(decimal.NewFromInt(int64(t.events)))

		table.Append([]string{
			t.id,
			t.name,
			strconv.Itoa(t.events),
			strconv.Itoa(t.violations),
			strconv.Itoa(t.ongoing),
			avg.StringFixed(1),
		})
	}

	table.Render()
}

// Archive zips the contents of dir into w, with paths relative to dir.
func Archive(w io.Writer, dir string) error {
	zw := zip.NewWriter(w)

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		dst, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(dst, src)
		return err
	})
	if err != nil {
		zw.Close()
		return fmt.Errorf("archiving %s: %w", dir, err)
	}

	return zw.Close()
}
