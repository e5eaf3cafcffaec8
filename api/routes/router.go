package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mgilberte/opsdeck-backend/api/controllers"
	"github.com/mgilberte/opsdeck-backend/api/middleware"
	"github.com/mgilberte/opsdeck-backend/internal/catalog"
	"github.com/mgilberte/opsdeck-backend/internal/checklists"
	"github.com/mgilberte/opsdeck-backend/internal/clients"
	"github.com/mgilberte/opsdeck-backend/internal/offers"
	"github.com/mgilberte/opsdeck-backend/pkg/capabilities"
	"github.com/mgilberte/opsdeck-backend/pkg/config"
	"github.com/mgilberte/opsdeck-backend/pkg/db"
	"github.com/mgilberte/opsdeck-backend/pkg/logger"
	"github.com/mgilberte/opsdeck-backend/pkg/metrics"
	pkgredis "github.com/mgilberte/opsdeck-backend/pkg/redis"
)

type pinger interface {
	Ping(context.Context) error
}

type windowStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *pkgredis.Client,
	registry *capabilities.Registry,
	offerMetrics *metrics.OfferMetrics,
	gatherer prometheus.Gatherer,
	offersService offers.Service,
	catalogService catalog.Service,
	clientsService clients.Service,
	checklistsService checklists.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	// A typed-nil client must not reach interface-valued middleware params.
	var (
		idemStore pkgredis.IdempotencyStore
		redisPing pinger
		rateStore windowStore
	)
	if redisClient != nil {
		idemStore = redisClient
		redisPing = redisClient
		rateStore = redisClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPing))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.With(middleware.PublicRateLimit(cfg.PublicRateLimit, rateStore, offerMetrics, logg)).
			Post("/offers/accept", controllers.OfferAccept(offersService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Route("/offers", func(r chi.Router) {
			r.Get("/", controllers.OfferList(offersService, logg))
			r.Post("/", controllers.OfferCreate(offersService, logg))
			r.Get("/{offerId}", controllers.OfferDetail(offersService, logg))
			r.Post("/{offerId}/send", controllers.OfferSend(offersService, logg))
		})

		r.Route("/catalog/items", func(r chi.Router) {
			r.Get("/", controllers.CatalogItemList(catalogService, logg))
			r.Post("/", controllers.CatalogItemCreate(catalogService, logg))
		})

		r.Route("/clients", func(r chi.Router) {
			r.Get("/", controllers.ClientList(clientsService, logg))
			r.Post("/", controllers.ClientCreate(clientsService, logg))
			r.Get("/{clientId}", controllers.ClientDetail(clientsService, logg))
			r.Route("/{clientId}/checklist", func(r chi.Router) {
				r.Get("/", controllers.ChecklistList(checklistsService, logg))
				r.Post("/", controllers.ChecklistAdd(checklistsService, logg))
				r.Post("/{entryId}/complete", controllers.ChecklistComplete(checklistsService, logg))
			})
		})

		r.Get("/modules", controllers.ModuleList(registry, logg))
	})

	return r
}
