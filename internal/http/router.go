package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"github.com/MrJamesThe3rd/cctvdash/internal/http/branches"
	"github.com/MrJamesThe3rd/cctvdash/internal/http/export"
	"github.com/MrJamesThe3rd/cctvdash/internal/http/parking"
	"github.com/MrJamesThe3rd/cctvdash/internal/http/selection"
)

type Options struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

// New builds the API router. branchesV1 may be nil when no branch directory
// is configured.
func New(
	opts Options,
	selectionV1 *selection.Handler,
	parkingV1 *parking.Handler,
	branchesV1 *branches.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	router.Use(middleware.RequestID)

	if opts.Logger != nil {
		router.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	router.Use(middleware.CleanPath)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/selection", selectionV1.Routes)
		r.Route("/parking", parkingV1.Routes)

		if branchesV1 != nil {
			r.Route("/branches", branchesV1.Routes)
		}

		r.Route("/export", exportV1.Routes)
	})

	return router
}
