package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/coolabdulsamad/purple-premium-bread-sub002/api/controllers"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/api/middleware"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/internal/cart"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/internal/catalog"
	checkoutsvc "github.com/coolabdulsamad/purple-premium-bread-sub002/internal/checkout"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/config"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/logger"
	pkgredis "github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/redis"
)

type checkoutService interface {
	Checkout(ctx context.Context, cartID int) (*checkoutsvc.Result, error)
}

type catalogLoader interface {
	Current() *catalog.Snapshot
	Refresh(ctx context.Context) error
}

type dependencyPinger interface {
	Ping(ctx context.Context) error
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient *pkgredis.Client,
	backendPinger dependencyPinger,
	loader catalogLoader,
	store *cart.Store,
	checkout checkoutService,
) http.Handler {
	var idemStore pkgredis.IdempotencyStore
	if redisClient != nil {
		idemStore = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", healthReady(cfg, logg, redisClient, backendPinger))
	})

	if !cfg.App.IsProd() {
		r.Post("/api/dev/session", controllers.SessionMint(cfg, logg))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Get("/session", controllers.SessionInfo(logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/products", controllers.CatalogProducts(loader, logg))
			r.Get("/customers", controllers.CatalogCustomers(loader, logg))
			r.Get("/services", controllers.CatalogServices(loader, logg))
			r.Post("/refresh", controllers.CatalogRefresh(loader, store, logg))
		})

		r.Route("/carts", func(r chi.Router) {
			r.Get("/", controllers.CartList(store, logg))
			r.Post("/", controllers.CartCreate(store, logg))

			r.Route("/{cartID}", func(r chi.Router) {
				r.Get("/", controllers.CartDetail(store, logg))
				r.Patch("/", controllers.CartUpdate(store, logg))
				r.Delete("/", controllers.CartRemove(store, logg))
				r.Post("/activate", controllers.CartActivate(store, logg))

				r.Post("/items", controllers.CartAddItem(store, logg))
				r.Put("/items/{productID}", controllers.CartSetItemQuantity(store, logg))
				r.Put("/discount", controllers.CartSetDiscount(store, logg))

				r.Put("/payment/method", controllers.CartSetPaymentMethod(store, logg))
				r.Patch("/payment", controllers.CartUpdatePayment(store, logg))
				r.Post("/payment/receipt", controllers.CartAttachReceipt(store, logg))

				r.With(middleware.Idempotency(idemStore, cfg.Checkout.IdempotencyTTL, logg)).
					Post("/checkout", controllers.Checkout(checkout, logg))
			})
		})
	})

	return r
}

func healthReady(cfg *config.Config, logg *logger.Logger, redisClient *pkgredis.Client, backend dependencyPinger) http.HandlerFunc {
	deps := map[string]controllers.Pinger{}
	if redisClient != nil {
		deps["redis"] = redisClient
	}
	if backend != nil {
		deps["backend"] = backend
	}
	return controllers.HealthReady(cfg, logg, deps)
}
