package cli_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
	"github.com/MrJamesThe3rd/cctvdash/internal/app"
	"github.com/MrJamesThe3rd/cctvdash/internal/branch"
	"github.com/MrJamesThe3rd/cctvdash/internal/cli"
	"github.com/MrJamesThe3rd/cctvdash/internal/config"
	"github.com/MrJamesThe3rd/cctvdash/internal/http/params"
	"github.com/MrJamesThe3rd/cctvdash/internal/importer"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

func fixedClock() selection.Clock {
	return selection.Clock{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2025, time.March, 19, 10, 0, 0, 0, time.UTC) },
	}
}

func testOptions(out io.Writer, a *app.App) cli.Options {
	return cli.Options{
		Writer: out,
		Log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		App: func(context.Context) (*app.App, error) {
			return a, nil
		},
	}
}

func testApp(source analytics.Source) *app.App {
	return &app.App{
		Config:    &config.Config{},
		Clock:     fixedClock(),
		Analytics: analytics.NewService(source),
		Importer:  importer.NewService(),
		Branches:  branch.Passthrough{},
	}
}

func TestRange(t *testing.T) {
	var out bytes.Buffer

	cmd := cli.Range{
		Options: testOptions(&out, nil),
		SelectionFlags: cli.SelectionFlags{
			Tab:  "week",
			Mode: "single",
			Year: 2025,
			Week: 10,
		},
		Lang:  "en",
		Clock: fixedClock(),
	}

	require.NoError(t, cmd.Execute(nil))

	got := out.String()
	assert.Contains(t, got, "2025-03-03 00:00:00")
	assert.Contains(t, got, "2025-03-09 23:59:59.999")
	assert.Contains(t, got, "tab=week")
	assert.Contains(t, got, "week=10")
}

func TestRange_DefaultsToToday(t *testing.T) {
	var out bytes.Buffer

	cmd := cli.Range{Options: testOptions(&out, nil), Lang: "en", Clock: fixedClock()}
	require.NoError(t, cmd.Execute(nil))

	assert.Contains(t, out.String(), "2025-03-19 00:00:00")
	assert.Contains(t, out.String(), "hour")
}

func TestRange_BadSelection(t *testing.T) {
	cmd := cli.Range{
		Options:        testOptions(io.Discard, nil),
		SelectionFlags: cli.SelectionFlags{Tab: "week", Week: 10},
		Clock:          fixedClock(),
	}

	assert.ErrorIs(t, cmd.Execute(nil), params.ErrBadParam)
}

func TestSummary(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := analytics.NewMockSource(ctrl)
	source.EXPECT().Summary(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, f analytics.Filter) (*analytics.Summary, error) {
			assert.Equal(t, "B001", f.BranchID)
			assert.True(t, f.ViolationOnly)
			assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), f.Range.Start)

			return &analytics.Summary{
				KPI: analytics.KPI{
					TotalViolations:      5,
					TotalParkingSessions: 40,
					OngoingViolations:    1,
					AvgViolationDuration: decimal.RequireFromString("42.25"),
					AvgNormalParkingTime: decimal.RequireFromString("12"),
					OnlineBranches:       3,
				},
				TopBranches: []analytics.TopBranch{{Name: "Bang Na", Code: "B001", Count: 5}},
			}, nil
		})

	var out bytes.Buffer

	cmd := cli.Summary{
		Options:        testOptions(&out, testApp(source)),
		SelectionFlags: cli.SelectionFlags{Tab: "month", Mode: "single", Year: 2025, Month: 2},
		FilterFlags:    cli.FilterFlags{Branch: "B001", ViolationOnly: true},
		Lang:           "en",
	}

	require.NoError(t, cmd.Execute(nil))

	got := out.String()
	assert.Contains(t, got, "12.5%")
	assert.Contains(t, got, "42.3")
	assert.Contains(t, got, "Bang Na")
}

func TestImport_DryRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "branches.csv")
	require.NoError(t, os.WriteFile(path, []byte("code,name\nB001,Bang Na\nB002,Rama 9\n"), 0o644))

	var out bytes.Buffer

	cmd := cli.Import{Options: testOptions(&out, testApp(nil)), DryRun: true}
	cmd.Args.Files = []string{path}

	require.NoError(t, cmd.Execute(nil))
	assert.Contains(t, out.String(), "B001")
	assert.Contains(t, out.String(), "Rama 9")
}

func TestImport_NeedsDatabase(t *testing.T) {
	cmd := cli.Import{Options: testOptions(io.Discard, testApp(nil))}
	cmd.Args.Files = []string{"branches.csv"}

	assert.ErrorContains(t, cmd.Execute(nil), "DB_HOST")
}

func TestBranches_NeedsDatabase(t *testing.T) {
	cmd := cli.Branches{Options: testOptions(io.Discard, testApp(nil))}
	assert.ErrorContains(t, cmd.Execute(nil), "DB_HOST")
}
