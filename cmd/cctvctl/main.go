package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cctvdash/internal/app"
	"github.com/MrJamesThe3rd/cctvdash/internal/cli"
	"github.com/MrJamesThe3rd/cctvdash/internal/config"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("failed to load timezone", "error", err)
		os.Exit(1)
	}

	opts := cli.Options{
		Writer: os.Stdout,
		Log:    logger,
		App: func(ctx context.Context) (*app.App, error) {
			return app.New(ctx, cfg)
		},
	}

	p := flags.NewParser(nil, flags.HelpFlag|flags.PassDoubleDash)

	rng := cli.Range{Options: opts, Lang: cfg.App.Locale, Clock: selection.SystemClock(loc)}
	summary := cli.Summary{Options: opts}
	imp := cli.Import{Options: opts}
	exp := cli.Export{Options: opts}
	branches := cli.Branches{Options: opts}

	commands := []struct {
		name, short, long string
		data              any
	}{
		{"range", "Resolve a selection", "Prints the date range, label and query of a time selection.", &rng},
		{"summary", "Show KPI", "Prints the violation KPI and top branches of a time selection.", &summary},
		{"import", "Import branches", "Imports branch lists (CSV or XLSX) into the branch directory.", &imp},
		{"export", "Export events", "Exports events with their evidence images as CSV and XLSX.", &exp},
		{"branches", "List branches", "Lists the branch directory.", &branches},
	}

	for _, c := range commands {
		if _, err := p.AddCommand(c.name, c.short, c.long, c.data); err != nil {
			logger.Error("failed to add command", "command", c.name, "error", err)
			os.Exit(1)
		}
	}

	if _, err := p.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Stdout.WriteString(flagsErr.Message + "\n")
			return
		}

		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
