package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drivemap/drivemap-backend/api/controllers"
	"github.com/drivemap/drivemap-backend/api/middleware"
	businesssvc "github.com/drivemap/drivemap-backend/internal/businesses"
	searchsvc "github.com/drivemap/drivemap-backend/internal/search"
	syncsvc "github.com/drivemap/drivemap-backend/internal/sync"
	"github.com/drivemap/drivemap-backend/pkg/config"
	"github.com/drivemap/drivemap-backend/pkg/logger"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              controllers.Pinger
	Redis           controllers.Pinger
	BusinessService businesssvc.Service
	SearchService   searchsvc.Service
	SyncService     syncsvc.Service
	Metrics         prometheus.Gatherer
}

// NewRouter assembles the HTTP surface.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.DB, deps.Redis))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sync", controllers.TriggerSync(deps.SyncService, deps.Logger))

		r.Route("/businesses", func(r chi.Router) {
			r.Post("/", controllers.RegisterBusiness(deps.BusinessService, deps.Logger))
			r.Get("/", controllers.ListBusinesses(deps.BusinessService, deps.Logger))
			r.Get("/search", controllers.SearchBusinesses(deps.SearchService, deps.Logger))
			r.Get("/nearby", controllers.NearbyBusinesses(deps.SearchService, deps.Logger))
			r.Get("/{businessId}", controllers.GetBusiness(deps.BusinessService, deps.Logger))
			r.Delete("/{businessId}", controllers.DeleteBusiness(deps.BusinessService, deps.Logger))
		})
	})

	return r
}
