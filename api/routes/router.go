package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nutritrack/food-catalog/api/controllers"
	"github.com/nutritrack/food-catalog/api/middleware"
	"github.com/nutritrack/food-catalog/internal/catalog"
	"github.com/nutritrack/food-catalog/pkg/config"
	"github.com/nutritrack/food-catalog/pkg/logger"
	"github.com/nutritrack/food-catalog/pkg/metrics"
)

// Params carries the dependencies of the HTTP surface. Registry may be nil,
// in which case no metrics are collected or exposed.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	Foods    catalog.Service
	Ready    map[string]controllers.Pinger
	Registry *prometheus.Registry
}

func NewRouter(p Params) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Logging(p.Logger),
		middleware.CORS(p.Config.HTTP.CORSOrigins),
	)
	if p.Registry != nil {
		r.Use(middleware.Metrics(metrics.NewHTTPMetrics(p.Registry)))
		r.Handle("/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Get("/", controllers.Root(p.Config))
	r.Route("/health", func(r chi.Router) {
		r.Get("/", controllers.Health(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Logger, p.Ready))
	})

	r.Route("/api/foods", func(r chi.Router) {
		r.Get("/search", controllers.FoodsSearch(p.Foods, p.Logger))
		r.Get("/categories", controllers.FoodsCategories(p.Foods, p.Logger))
		r.Get("/{id}", controllers.FoodsGet(p.Foods, p.Logger))
		r.Get("/", controllers.FoodsList(p.Foods, p.Logger))
		r.Post("/", controllers.FoodsCreate(p.Foods, p.Logger))
	})

	return r
}
