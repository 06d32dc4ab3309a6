package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mdzubayertalukder/dropship-backend/api/controllers"
	"github.com/mdzubayertalukder/dropship-backend/api/middleware"
	"github.com/mdzubayertalukder/dropship-backend/internal/catalog"
	"github.com/mdzubayertalukder/dropship-backend/internal/imports"
	planlimit "github.com/mdzubayertalukder/dropship-backend/internal/planlimits"
	storeconfig "github.com/mdzubayertalukder/dropship-backend/internal/storeconfigs"
	syncsvc "github.com/mdzubayertalukder/dropship-backend/internal/sync"
	"github.com/mdzubayertalukder/dropship-backend/pkg/config"
	"github.com/mdzubayertalukder/dropship-backend/pkg/enums"
	"github.com/mdzubayertalukder/dropship-backend/pkg/logger"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger

	DBPinger    controllers.Pinger
	RedisPinger controllers.Pinger
	Gatherer    prometheus.Gatherer

	StoreConfigs storeconfig.Service
	Sync         syncsvc.Service
	Catalog      catalog.Service
	Imports      imports.Service
	PlanLimits   planlimit.Service
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(d.Logger),
		middleware.RequestID(d.Logger),
		middleware.Logging(d.Logger),
		middleware.CORS(d.Config.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(d.Config))
		r.Get("/ready", controllers.HealthReady(d.Config, d.Logger, d.DBPinger, d.RedisPinger))
	})

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(d.Config.JWT, d.Logger))
		r.Use(middleware.RequireRole(string(enums.ActorRoleSuperAdmin), d.Logger))

		r.Get("/ping", controllers.AdminPing())

		r.Route("/store-configs", func(r chi.Router) {
			r.Post("/", controllers.StoreConfigCreate(d.StoreConfigs, d.Logger))
			r.Get("/", controllers.StoreConfigList(d.StoreConfigs, d.Logger))
			r.Post("/test-connection", controllers.StoreConfigTestCredentials(d.StoreConfigs, d.Logger))
			r.Get("/{configId}", controllers.StoreConfigGet(d.StoreConfigs, d.Logger))
			r.Patch("/{configId}", controllers.StoreConfigUpdate(d.StoreConfigs, d.Logger))
			r.Delete("/{configId}", controllers.StoreConfigDelete(d.StoreConfigs, d.Logger))
			r.Post("/{configId}/test-connection", controllers.StoreConfigTestConnection(d.StoreConfigs, d.Logger))
			r.Post("/{configId}/sync", controllers.StoreConfigSync(d.Sync, d.Logger))
			r.Delete("/{configId}/products", controllers.StoreConfigClearProducts(d.StoreConfigs, d.Logger))
		})

		r.Route("/plan-limits", func(r chi.Router) {
			r.Get("/", controllers.PlanLimitList(d.PlanLimits, d.Logger))
			r.Get("/{packageId}", controllers.PlanLimitGet(d.PlanLimits, d.Logger))
			r.Put("/{packageId}", controllers.PlanLimitUpsert(d.PlanLimits, d.Logger))
			r.Delete("/{packageId}", controllers.PlanLimitDelete(d.PlanLimits, d.Logger))
		})

		r.Get("/reports/imports", controllers.ImportReport(d.PlanLimits, d.Logger))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(d.Config.JWT, d.Logger))

		r.Get("/ping", controllers.PrivatePing())

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogProducts(d.Catalog, d.Logger))
			r.Get("/products/{productId}", controllers.CatalogProduct(d.Catalog, d.Logger))
			r.Get("/stores", controllers.CatalogStores(d.Catalog, d.Logger))
		})

		r.Route("/imports", func(r chi.Router) {
			r.Use(middleware.RequireTenant(d.Logger))
			r.Post("/", controllers.ImportProduct(d.Imports, d.Logger))
			r.Post("/bulk", controllers.BulkImport(d.Imports, d.Logger))
			r.Post("/preview", controllers.ImportPreview(d.Imports, d.Logger))
			r.Get("/history", controllers.ImportHistory(d.Imports, d.Logger))
			r.Get("/limits", controllers.ImportUsage(d.Imports, d.Logger))
			r.Delete("/{recordId}", controllers.ImportRemove(d.Imports, d.Logger))
		})
	})

	return r
}
