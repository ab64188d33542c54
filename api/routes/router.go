package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/vitrina-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/vitrina-backend/api/controllers/cart"
	ordercontrollers "github.com/angelmondragon/vitrina-backend/api/controllers/orders"
	"github.com/angelmondragon/vitrina-backend/api/middleware"
	"github.com/angelmondragon/vitrina-backend/internal/cart"
	checkoutsvc "github.com/angelmondragon/vitrina-backend/internal/checkout"
	"github.com/angelmondragon/vitrina-backend/internal/orders"
	"github.com/angelmondragon/vitrina-backend/internal/paymentmethods"
	"github.com/angelmondragon/vitrina-backend/internal/products"
	"github.com/angelmondragon/vitrina-backend/internal/rates"
	"github.com/angelmondragon/vitrina-backend/internal/stores"
	"github.com/angelmondragon/vitrina-backend/pkg/config"
	"github.com/angelmondragon/vitrina-backend/pkg/db"
	"github.com/angelmondragon/vitrina-backend/pkg/logger"
)

// redisStore is the slice of the redis client the HTTP layer needs.
type redisStore interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) (string, error)
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	IdempotencyKey(scope, key string) string
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient redisStore,
	metricsHandler http.Handler,
	storeService stores.Service,
	rateService rates.Service,
	paymentMethods paymentmethods.Service,
	productService products.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins, cfg.Cart.SessionHeader),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisClient,
		}))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1/stores/{slug}", func(r chi.Router) {
		r.Use(middleware.StoreContext(storeService.ResolveActive, logg))

		r.Get("/rate", controllers.StoreRate(rateService, logg))
		r.Get("/payment-methods", controllers.StorePaymentMethods(paymentMethods, logg))
		r.Get("/products", controllers.ProductCatalog(productService, logg))
		r.Get("/products/{productID}", controllers.ProductDetail(productService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(cfg.Cart.SessionHeader, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(cartService, logg))
				r.Post("/items", cartcontrollers.CartAddItem(cartService, logg))
				r.Patch("/items/{itemKey}", cartcontrollers.CartUpdateItem(cartService, logg))
				r.Delete("/items/{itemKey}", cartcontrollers.CartRemoveItem(cartService, logg))
				r.Get("/quote", cartcontrollers.CartQuote(cartService, paymentMethods, logg))
				r.Post("/checkout/begin", cartcontrollers.CartBeginCheckout(cartService, logg))
				r.Post("/checkout/cancel", cartcontrollers.CartCancelCheckout(cartService, logg))
			})

			r.With(
				middleware.CheckoutRateLimit(cfg.Checkout.RateLimitPerIP, cfg.Checkout.RateLimitWindow, redisClient, logg),
				middleware.Idempotency(cfg.Checkout.IdempotencyTTL, redisClient, logg),
			).Post("/checkout", controllers.Checkout(checkoutService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminAuth(cfg.Auth, logg))

		r.Put("/rates", controllers.AdminUpdateGlobalRates(rateService, logg))

		r.Route("/stores/{slug}", func(r chi.Router) {
			r.Use(middleware.StoreContext(storeService.GetBySlug, logg))

			r.Put("/rates", controllers.AdminUpdateStoreRates(storeService, logg))
			r.Post("/pricing/preview", controllers.AdminPricingPreview(productService, logg))
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.List(ordersService, logg))
				r.Get("/{orderID}", ordercontrollers.Detail(ordersService, logg))
				r.Patch("/{orderID}/status", ordercontrollers.UpdateStatus(ordersService, logg))
			})
		})
	})

	return r
}
