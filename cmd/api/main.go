package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/cctvdash/internal/app"
	"github.com/MrJamesThe3rd/cctvdash/internal/config"
	apiHttp "github.com/MrJamesThe3rd/cctvdash/internal/http"
	branchesHandler "github.com/MrJamesThe3rd/cctvdash/internal/http/branches"
	exportHandler "github.com/MrJamesThe3rd/cctvdash/internal/http/export"
	parkingHandler "github.com/MrJamesThe3rd/cctvdash/internal/http/parking"
	selectionHandler "github.com/MrJamesThe3rd/cctvdash/internal/http/selection"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if a.BranchService == nil {
		slog.Warn("no database configured, branch directory disabled")
	}

	var branchesH *branchesHandler.Handler
	if a.BranchService != nil {
		branchesH = branchesHandler.NewHandler(a.BranchService, a.Importer)
	}

	router := apiHttp.New(
		apiHttp.Options{Logger: logger, AllowedOrigins: cfg.Server.AllowedOrigins},
		selectionHandler.NewHandler(a.Clock),
		parkingHandler.NewHandler(a.Analytics, a.Branches, a.Clock),
		branchesH,
		exportHandler.NewHandler(a.Export, a.Branches, a.Clock),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shut down", "error", err)
		}
	}()

	slog.Info("starting server", "port", srv.Addr, "analytics_api", cfg.API.BaseURL)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
