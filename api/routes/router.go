package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/bookhive/bookhive-backend/api/controllers"
	"github.com/bookhive/bookhive-backend/api/middleware"
	"github.com/bookhive/bookhive-backend/internal/audit"
	"github.com/bookhive/bookhive-backend/internal/auth"
	"github.com/bookhive/bookhive-backend/internal/cart"
	"github.com/bookhive/bookhive-backend/internal/catalog"
	"github.com/bookhive/bookhive-backend/internal/comments"
	"github.com/bookhive/bookhive-backend/internal/favorites"
	"github.com/bookhive/bookhive-backend/internal/orders"
	"github.com/bookhive/bookhive-backend/internal/ratings"
	"github.com/bookhive/bookhive-backend/internal/users"
	"github.com/bookhive/bookhive-backend/pkg/auth/session"
	"github.com/bookhive/bookhive-backend/pkg/config"
	"github.com/bookhive/bookhive-backend/pkg/logger"
	"github.com/bookhive/bookhive-backend/pkg/metrics"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Catalog   catalog.Service
	Auth      auth.Service
	Users     users.Service
	Favorites favorites.Service
	Cart      cart.Service
	Comments  comments.Service
	Ratings   ratings.Service
	Orders    orders.Service
	Audit     audit.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	sessions session.Checker,
	httpMetrics *metrics.HTTPMetrics,
	readiness map[string]controllers.Pinger,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORS.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}),
	)
	if httpMetrics != nil {
		r.Use(httpMetrics.Middleware)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})
	if httpMetrics != nil {
		r.Method(http.MethodGet, "/metrics", httpMetrics.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(svcs.Auth, logg))
		r.Post("/login", controllers.Login(svcs.Auth, cfg.Session, logg))
		r.Post("/logout", controllers.Logout(svcs.Auth, cfg.Session, logg))
	})

	r.Route("/api/v1/books", func(r chi.Router) {
		r.Get("/", controllers.BookSearch(svcs.Catalog, logg))
		r.Get("/genres", controllers.BookGenres(svcs.Catalog, logg))
		r.Get("/{isbn10}", controllers.BookGet(svcs.Catalog, svcs.Favorites, cfg.Session, logg))
		r.Get("/{isbn10}/comments", controllers.CommentsList(svcs.Comments, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Session, sessions, logg))
			r.Post("/{isbn10}/favorite", controllers.FavoriteToggle(svcs.Favorites, logg))
			r.Get("/{isbn10}/favorite", controllers.FavoriteStatus(svcs.Favorites, logg))
			r.Post("/{isbn10}/comments", controllers.CommentAdd(svcs.Comments, logg))
			r.Delete("/{isbn10}/comments/{commentId}", controllers.CommentDelete(svcs.Comments, logg))
			r.Put("/{isbn10}/rating", controllers.RatingUpsert(svcs.Ratings, logg))
			r.Get("/{isbn10}/rating", controllers.RatingGetOwn(svcs.Ratings, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Session, sessions, logg))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", controllers.ProfileGet(svcs.Users, logg))
			r.Put("/", controllers.ProfileUpdate(svcs.Users, logg))
			r.Get("/favorites", controllers.FavoritesList(svcs.Favorites, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(svcs.Cart, logg))
			r.Put("/items", controllers.CartSetItem(svcs.Cart, logg))
			r.Post("/items/{isbn10}/toggle", controllers.CartToggleItem(svcs.Cart, logg))
			r.Get("/items/{isbn10}/status", controllers.CartItemStatus(svcs.Cart, logg))
			r.Delete("/items/{isbn10}", controllers.CartRemoveItem(svcs.Cart, logg))
			r.Delete("/", controllers.CartClear(svcs.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.OrderCheckout(svcs.Orders, logg))
			r.Get("/", controllers.OrdersList(svcs.Orders, logg))
			r.Get("/{orderId}", controllers.OrderGet(svcs.Orders, logg))
			r.Put("/{orderId}/status", controllers.OrderUpdateStatus(svcs.Orders, logg))
		})

		r.Post("/catalog/sync", controllers.CatalogSync(svcs.Catalog, logg))
		r.Get("/audit", controllers.AuditList(svcs.Audit, logg))
	})

	return r
}
