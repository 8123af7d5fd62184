package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/cctvdash/internal/analytics"
	"github.com/MrJamesThe3rd/cctvdash/internal/branch"
	"github.com/MrJamesThe3rd/cctvdash/internal/export"
	apiHttp "github.com/MrJamesThe3rd/cctvdash/internal/http"
	exportHandler "github.com/MrJamesThe3rd/cctvdash/internal/http/export"
	"github.com/MrJamesThe3rd/cctvdash/internal/http/parking"
	selectionHandler "github.com/MrJamesThe3rd/cctvdash/internal/http/selection"
	"github.com/MrJamesThe3rd/cctvdash/internal/selection"
)

type noEvents struct{}

func (noEvents) EachEvent(context.Context, analytics.Filter, int, func(*analytics.EventsPage) error) error {
	return nil
}

func newRouter() http.Handler {
	clock := selection.SystemClock(time.UTC)

	return apiHttp.New(
		apiHttp.Options{AllowedOrigins: []string{"https://dashboard.example.com"}},
		selectionHandler.NewHandler(clock),
		parking.NewHandler(analytics.NewService(nil), branch.Passthrough{}, clock),
		nil,
		exportHandler.NewHandler(export.NewService(noEvents{}, nil, time.UTC), branch.Passthrough{}, clock),
	)
}

func TestRouter(t *testing.T) {
	type testCase struct {
		name   string
		method string
		target string
		want   int
	}

	tests := []testCase{
		{name: "Heartbeat", method: http.MethodGet, target: "/healthz", want: http.StatusOK},
		{name: "Resolve", method: http.MethodGet, target: "/api/v1/selection/resolve", want: http.StatusOK},
		{name: "Weeks", method: http.MethodGet, target: "/api/v1/selection/calendar/weeks?year=2026", want: http.StatusOK},
		{name: "BranchesDisabled", method: http.MethodGet, target: "/api/v1/branches/suggest?q=b", want: http.StatusNotFound},
		{name: "WrongMethod", method: http.MethodGet, target: "/api/v1/export/download", want: http.StatusMethodNotAllowed},
		{name: "BadSelection", method: http.MethodGet, target: "/api/v1/parking/summary?tab=day&date=yesterday", want: http.StatusBadRequest},
	}

	r := newRouter()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/selection/resolve", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)

	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, req)

	assert.Equal(t, "https://dashboard.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}
