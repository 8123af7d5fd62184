// Package app wires the services shared by the API server, the TUI and the
// command line tool.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
	"github.com/MrJamesThe3rd/cctvdash/internal/branch"
	branchStore "github.com/MrJamesThe3rd/cctvdash/internal/branch/store"
	"github.com/MrJamesThe3rd/cctvdash/internal/config"
	"github.com/MrJamesThe3rd/cctvdash/internal/dashboard"
	"github.com/MrJamesThe3rd/cctvdash/internal/database"
	"github.com/MrJamesThe3rd/cctvdash/internal/export"
	"github.com/MrJamesThe3rd/cctvdash/internal/importer"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

type App struct {
	Config *config.Config
	Clock  selection.Clock

	Client    *analytics.Client
	Analytics *analytics.Service
	Importer  *importer.Service
	Export    *export.Service

	// BranchService is nil without a database; Branches then passes
	// branch filters through unchanged.
	BranchService *branch.Service
	Branches      dashboard.BranchResolver

	db *sql.DB
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	client, err := analytics.NewClient(cfg.API.BaseURL, cfg.API.Key, cfg.API.Timeout, loc)
	if err != nil {
		return nil, fmt.Errorf("creating analytics client: %w", err)
	}

	analyticsSvc := analytics.NewService(client)

	a := &App{
		Config:    cfg,
		Clock:     selection.SystemClock(loc),
		Client:    client,
		Analytics: analyticsSvc,
		Importer:  importer.NewService(),
		Export:    export.NewService(analyticsSvc, client, loc),
		Branches:  branch.Passthrough{},
	}

	if !cfg.HasDatabase() {
		return a, nil
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	a.db = db
	a.BranchService = branch.NewService(branchStore.New(db))
	a.Branches = a.BranchService

	return a, nil
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}

	return a.db.Close()
}
