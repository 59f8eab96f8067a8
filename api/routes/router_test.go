package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	businesssvc "github.com/drivemap/drivemap-backend/internal/businesses"
	searchsvc "github.com/drivemap/drivemap-backend/internal/search"
	"github.com/drivemap/drivemap-backend/pkg/config"
	pkgerrors "github.com/drivemap/drivemap-backend/pkg/errors"
	"github.com/drivemap/drivemap-backend/pkg/logger"
)

type routerBusinessStub struct{}

func (routerBusinessStub) Register(ctx context.Context, req businesssvc.RegisterBusinessRequest) (*businesssvc.BusinessResponse, error) {
	return &businesssvc.BusinessResponse{ID: req.ID, Name: req.Name, IsRegistered: true}, nil
}

func (routerBusinessStub) GetByID(ctx context.Context, id uuid.UUID) (*businesssvc.BusinessResponse, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
}

func (routerBusinessStub) List(ctx context.Context, input businesssvc.ListBusinessesInput) ([]businesssvc.BusinessResponse, error) {
	return nil, nil
}

func (routerBusinessStub) Delete(ctx context.Context, id uuid.UUID) error {
	return nil
}

type routerSearchStub struct{}

func (routerSearchStub) ByRadiusAndCategory(ctx context.Context, input searchsvc.Input) ([]businesssvc.BusinessResponse, error) {
	return nil, nil
}

func (routerSearchStub) Nearby(ctx context.Context, input searchsvc.Input) ([]businesssvc.BusinessResponse, error) {
	return nil, nil
}

type routerSyncStub struct{}

func (routerSyncStub) SyncRegion(ctx context.Context, region string) (int, error) {
	return 0, nil
}

func newTestRouter(t *testing.T, metrics prometheus.Gatherer) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.Env = "test"

	return NewRouter(Dependencies{
		Config:          cfg,
		Logger:          logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard}),
		BusinessService: routerBusinessStub{},
		SearchService:   routerSearchStub{},
		SyncService:     routerSyncStub{},
		Metrics:         metrics,
	})
}

func TestRouterWiresRoutes(t *testing.T) {
	router := newTestRouter(t, nil)

	cases := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"health live", http.MethodGet, "/health/live", http.StatusOK},
		{"health ready skips nil deps", http.MethodGet, "/health/ready", http.StatusOK},
		{"list businesses", http.MethodGet, "/api/v1/businesses", http.StatusOK},
		{"search", http.MethodGet, "/api/v1/businesses/search?latitude=1&longitude=2&radius_km=5", http.StatusOK},
		{"nearby", http.MethodGet, "/api/v1/businesses/nearby?latitude=1&longitude=2&radius_km=5", http.StatusOK},
		{"get business not found", http.MethodGet, "/api/v1/businesses/" + uuid.NewString(), http.StatusNotFound},
		{"trigger sync", http.MethodPost, "/api/v1/sync", http.StatusOK},
		{"unknown route", http.MethodGet, "/api/v1/nothing-here", http.StatusNotFound},
		{"metrics absent without gatherer", http.MethodGet, "/metrics", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.target, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d body=%s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouterExposesMetricsWhenConfigured(t *testing.T) {
	router := newTestRouter(t, prometheus.NewRegistry())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected request id header to be set")
	}
}
