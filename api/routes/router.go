package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jaummdev/nexa-ecommerce-backend/api/controllers"
	"github.com/jaummdev/nexa-ecommerce-backend/api/middleware"
	"github.com/jaummdev/nexa-ecommerce-backend/internal/auth"
	"github.com/jaummdev/nexa-ecommerce-backend/internal/cart"
	"github.com/jaummdev/nexa-ecommerce-backend/internal/catalog"
	"github.com/jaummdev/nexa-ecommerce-backend/internal/orders"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/config"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/db"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/enums"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/logger"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/metrics"
	"github.com/jaummdev/nexa-ecommerce-backend/pkg/redis"
)

// redisStore is the slice of the redis client the router depends on.
type redisStore interface {
	redis.IdempotencyStore
	redis.RateLimitStore
	Ping(context.Context) error
}

// Services groups the domain services mounted on the router.
type Services struct {
	Auth       auth.Service
	Products   catalog.ProductService
	Categories catalog.CategoryService
	Banners    catalog.BannerService
	Cart       cart.Service
	Orders     orders.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient redisStore,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	authenticated := middleware.Auth(cfg.JWT, logg)
	adminOnly := middleware.RequireRole(enums.RoleAdmin, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(map[string]controllers.Pinger{
			"database": dbP,
			"redis":    redisClient,
		}, logg))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AuthLogin(svc.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, redisClient, logg)).Post("/register", controllers.AuthRegister(svc.Auth, logg))
	})

	r.Route("/api/banners", func(r chi.Router) {
		r.Get("/", controllers.BannerList(svc.Banners, logg))
		r.Group(func(r chi.Router) {
			r.Use(authenticated, adminOnly)
			r.Post("/", controllers.BannerCreate(svc.Banners, logg))
			r.Put("/{id}", controllers.BannerUpdate(svc.Banners, logg))
			r.Delete("/{id}", controllers.BannerDelete(svc.Banners, logg))
		})
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", controllers.CategoryList(svc.Categories, logg))
		r.Group(func(r chi.Router) {
			r.Use(authenticated, adminOnly)
			r.Post("/", controllers.CategoryCreate(svc.Categories, logg))
			r.Put("/{id}", controllers.CategoryUpdate(svc.Categories, logg))
			r.Delete("/{id}", controllers.CategoryDelete(svc.Categories, logg))
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(svc.Products, logg))
		r.Get("/{id}", controllers.ProductGet(svc.Products, logg))
		r.Group(func(r chi.Router) {
			r.Use(authenticated, adminOnly)
			r.Post("/", controllers.ProductCreate(svc.Products, logg))
			r.Put("/{id}", controllers.ProductUpdate(svc.Products, logg))
			r.Delete("/{id}", controllers.ProductDelete(svc.Products, logg))
		})
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/", controllers.CartGet(svc.Cart, logg))
		r.Post("/", controllers.CartSet(svc.Cart, logg))
		r.Put("/", controllers.CartReplace(svc.Cart, logg))
		r.Delete("/", controllers.CartDelete(svc.Cart, logg))
		r.Delete("/items/{productId}", controllers.CartRemoveItem(svc.Cart, logg))
		r.Delete("/{id}", controllers.CartDelete(svc.Cart, logg))
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/", controllers.OrderList(svc.Orders, logg))
		r.With(middleware.Idempotency(redisClient, logg)).Post("/", controllers.OrderCreate(svc.Orders, logg))
		r.Put("/{id}", controllers.OrderUpdateStatus(svc.Orders, logg))
		r.Delete("/{id}", controllers.OrderDelete(svc.Orders, logg))
	})

	return r
}
