package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/menuorders-backend/api/controllers"
	"github.com/angelmondragon/menuorders-backend/api/middleware"
	"github.com/angelmondragon/menuorders-backend/internal/catalog"
	checkoutsvc "github.com/angelmondragon/menuorders-backend/internal/checkout"
	"github.com/angelmondragon/menuorders-backend/pkg/config"
	"github.com/angelmondragon/menuorders-backend/pkg/logger"
	"github.com/angelmondragon/menuorders-backend/pkg/metrics"
	"github.com/angelmondragon/menuorders-backend/pkg/redis"
)

// Dependencies is everything the HTTP surface needs.
type Dependencies struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       controllers.Pinger
	Idempotency redis.IdempotencyStore
	Counters    redis.Counter
	Checkout    checkoutsvc.Service
	Catalog     catalog.Service
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	openLimit := middleware.NewRateLimitPolicy("open", cfg.RateLimit.OpenWindow, cfg.RateLimit.OpenIPLimit, 0)
	submitLimit := middleware.NewRateLimitPolicy("submit", cfg.RateLimit.SubmitWindow, cfg.RateLimit.SubmitIPLimit, cfg.RateLimit.SubmitSessionLimit)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    deps.DB,
			"redis": deps.Redis,
		}))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/checkout/sessions", func(r chi.Router) {
			r.With(middleware.RateLimit(openLimit, deps.Counters, logg)).Post("/", controllers.OpenCheckoutSession(deps.Checkout, logg))
			r.Route("/{sessionId}", func(r chi.Router) {
				r.Get("/", controllers.GetCheckoutSession(deps.Checkout, logg))
				r.Delete("/", controllers.CloseCheckoutSession(deps.Checkout, logg))
				r.Put("/extras", controllers.UpdateCheckoutExtras(deps.Checkout, logg))
				r.Put("/customer", controllers.UpdateCheckoutCustomer(deps.Checkout, logg))
				r.Put("/fulfillment", controllers.UpdateCheckoutFulfillment(deps.Checkout, logg))
				r.Post("/advance", controllers.AdvanceCheckout(deps.Checkout, logg))
				r.Post("/back", controllers.BackCheckout(deps.Checkout, logg))
				r.With(
					middleware.RateLimit(submitLimit, deps.Counters, logg),
					middleware.Idempotency(deps.Idempotency, logg),
				).Post("/submit", controllers.SubmitCheckout(deps.Checkout, logg))
				r.Get("/message", controllers.CheckoutMessage(deps.Checkout, logg))
				r.Get("/invoice", controllers.CheckoutInvoice(deps.Checkout, logg))
			})
		})

		r.Route("/restaurants/{restaurantId}", func(r chi.Router) {
			r.Get("/addons", controllers.RestaurantAddons(deps.Catalog, logg))
			r.Get("/zones", controllers.RestaurantZones(deps.Catalog, logg))
			r.Get("/orders/{orderNumber}/invoice", controllers.OrderInvoice(deps.Checkout, logg))
		})
	})

	return r
}
