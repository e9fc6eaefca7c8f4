package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/anandkrishnan/mealdash-backend/api/controllers"
	"github.com/anandkrishnan/mealdash-backend/api/middleware"
	authsvc "github.com/anandkrishnan/mealdash-backend/internal/auth"
	"github.com/anandkrishnan/mealdash-backend/internal/catalog"
	"github.com/anandkrishnan/mealdash-backend/internal/feedback"
	"github.com/anandkrishnan/mealdash-backend/internal/fulfillment"
	"github.com/anandkrishnan/mealdash-backend/internal/hotels"
	"github.com/anandkrishnan/mealdash-backend/internal/orders"
	"github.com/anandkrishnan/mealdash-backend/internal/placement"
	"github.com/anandkrishnan/mealdash-backend/internal/reports"
	"github.com/anandkrishnan/mealdash-backend/internal/users"
	"github.com/anandkrishnan/mealdash-backend/pkg/auth/session"
	"github.com/anandkrishnan/mealdash-backend/pkg/config"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
	"github.com/anandkrishnan/mealdash-backend/pkg/logger"
	pkgredis "github.com/anandkrishnan/mealdash-backend/pkg/redis"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Config *config.Config
	Logger *logger.Logger
	Redis  *pkgredis.Client
	// IdempotencyStore overrides Redis as the replay store when set.
	IdempotencyStore pkgredis.IdempotencyStore
	Sessions         session.AccessSessionChecker
	Metrics          *prometheus.Registry
	AuthService      authsvc.Service
	UsersService     users.Service
	Hotels           hotels.Service
	Catalog          catalog.Service
	Placement        placement.Service
	Fulfillment      fulfillment.Service
	Orders           orders.Service
	Feedback         feedback.Service
	Reports          reports.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	// a typed nil must not sneak through the interface nil checks
	var store pkgredis.IdempotencyStore
	var cache pkgredis.Pinger
	if deps.Redis != nil {
		store = deps.Redis
		cache = deps.Redis
	}
	if deps.IdempotencyStore != nil {
		store = deps.IdempotencyStore
	}

	// Replay protection is attached per route with With rather than Use'd
	// on a subrouter: chi only knows the full route pattern once matching
	// finishes, and the middleware needs that pattern to pick its TTL.
	idem := middleware.Idempotency(store, logg)

	noLimit := func(next http.Handler) http.Handler { return next }
	loginLimiter, registerLimiter := noLimit, noLimit
	if deps.Redis != nil {
		loginLimiter = middleware.AuthRateLimit(middleware.NewAuthRateLimitPolicy(
			"login",
			cfg.AuthRateLimit.LoginWindow,
			cfg.AuthRateLimit.LoginIPLimit,
			cfg.AuthRateLimit.LoginEmailLimit,
		), deps.Redis, logg)
		registerLimiter = middleware.AuthRateLimit(middleware.NewAuthRateLimitPolicy(
			"register",
			cfg.AuthRateLimit.RegisterWindow,
			cfg.AuthRateLimit.RegisterIPLimit,
			cfg.AuthRateLimit.RegisterEmailLimit,
		), deps.Redis, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, cache, logg))
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(loginLimiter).
			Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(registerLimiter, idem).
			Post("/register", controllers.AuthRegister(deps.AuthService, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).
			Post("/logout", controllers.AuthLogout(deps.AuthService, logg))
	})

	// public browsing surface
	r.Get("/api/v1/hotels", controllers.HotelsList(deps.Hotels, logg))
	r.Get("/api/v1/hotels/{hotelID}/menu", controllers.HotelMenu(deps.Hotels, deps.Catalog, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Get("/users/me", controllers.UserProfile(deps.UsersService, logg))
		r.Put("/users/me", controllers.UserProfileUpdate(deps.UsersService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleCustomer), logg))

			r.With(idem).Post("/orders", controllers.OrderPlace(deps.Placement, deps.Fulfillment, logg))
			r.Get("/orders", controllers.OrdersList(deps.Orders, logg))
			r.Get("/orders/{orderID}", controllers.OrderGet(deps.Orders, logg))
			r.With(idem).Post("/orders/{orderID}/payment-success", controllers.OrderPaymentSuccess(deps.Fulfillment, logg))
			r.With(idem).Post("/orders/{orderID}/feedback", controllers.OrderFeedback(deps.Feedback, logg))
		})

		r.Route("/hotel", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleHotel), logg))

			// registering a hotel is the one action allowed before the
			// hotel claim exists
			r.Post("/register", controllers.HotelRegister(deps.Hotels, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.HotelContext(logg))

				r.Get("/me", controllers.HotelOwn(deps.Hotels, logg))
				r.Put("/open", controllers.HotelSetOpen(deps.Hotels, logg))
				r.Get("/feedback", controllers.HotelFeedbackList(deps.Feedback, logg))

				r.Get("/menu", controllers.MenuList(deps.Catalog, logg))
				r.Post("/menu", controllers.MenuCreate(deps.Catalog, logg))
				r.Patch("/menu/{itemID}", controllers.MenuUpdate(deps.Catalog, logg))
				r.Delete("/menu/{itemID}", controllers.MenuDelete(deps.Catalog, logg))

				r.Get("/orders", controllers.HotelOrderQueue(deps.Orders, logg))
				r.Get("/orders/lookup", controllers.HotelOrderLookup(deps.Orders, logg))
				r.With(idem).Post("/orders/{orderID}/confirm", controllers.HotelOrderConfirm(deps.Fulfillment, logg))
				r.With(idem).Post("/orders/{orderID}/complete", controllers.HotelOrderComplete(deps.Fulfillment, logg))
				r.With(idem).Post("/orders/{orderID}/report", controllers.HotelOrderReport(deps.Reports, logg))
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

			r.Get("/hotels/pending", controllers.AdminPendingHotels(deps.Hotels, logg))
			r.Post("/hotels/{hotelID}/review", controllers.AdminReviewHotel(deps.Hotels, logg))
		})
	})

	return r
}
