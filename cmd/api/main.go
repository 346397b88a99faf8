package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookhive/bookhive-backend/api/controllers"
	"github.com/bookhive/bookhive-backend/api/routes"
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
	"github.com/bookhive/bookhive-backend/pkg/db"
	"github.com/bookhive/bookhive-backend/pkg/logger"
	"github.com/bookhive/bookhive-backend/pkg/metrics"
	"github.com/bookhive/bookhive-backend/pkg/migrate"
	"github.com/bookhive/bookhive-backend/pkg/redis"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	conn := dbClient.DB()
	catalogRepo := catalog.NewRepository(conn)
	auditRepo := audit.NewRepository(conn)
	userRepo := users.NewRepository(conn)

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Client:      dbClient,
		CatalogRepo: catalogRepo,
		AuditRepo:   auditRepo,
		Logger:      logg,
	})
	exitOnErr(logg, "catalog service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:    userRepo,
		AuditRepo:   auditRepo,
		Sessions:    sessionManager,
		SessionCfg:  cfg.Session,
		PasswordCfg: cfg.Password,
		Logger:      logg,
	})
	exitOnErr(logg, "auth service", err)

	userService, err := users.NewService(users.ServiceParams{UserRepo: userRepo})
	exitOnErr(logg, "user service", err)

	favoritesService, err := favorites.NewService(favorites.ServiceParams{
		FavoritesRepo: favorites.NewRepository(conn),
		CatalogRepo:   catalogRepo,
	})
	exitOnErr(logg, "favorites service", err)

	cartStore, err := newCartStore(cfg, conn, redisClient)
	exitOnErr(logg, "cart store", err)

	cartService, err := cart.NewService(cart.ServiceParams{
		Store:       cartStore,
		CatalogRepo: catalogRepo,
	})
	exitOnErr(logg, "cart service", err)

	commentsService, err := comments.NewService(comments.ServiceParams{
		CommentRepo: comments.NewRepository(conn),
		CatalogRepo: catalogRepo,
	})
	exitOnErr(logg, "comment service", err)

	ratingsService, err := ratings.NewService(ratings.ServiceParams{
		Client:      dbClient,
		RatingRepo:  ratings.NewRepository(conn),
		CatalogRepo: catalogRepo,
	})
	exitOnErr(logg, "rating service", err)

	ordersService, err := orders.NewService(orders.ServiceParams{
		Client:      dbClient,
		OrderRepo:   orders.NewRepository(conn),
		CatalogRepo: catalogRepo,
		AuditRepo:   auditRepo,
		UserRepo:    userRepo,
		CartStore:   cartStore,
		Logger:      logg,
	})
	exitOnErr(logg, "order service", err)

	auditService, err := audit.NewService(audit.ServiceParams{AuditRepo: auditRepo})
	exitOnErr(logg, "audit service", err)

	httpMetrics := metrics.NewHTTPMetrics()

	router := routes.NewRouter(cfg, logg, sessionManager, httpMetrics,
		map[string]controllers.Pinger{
			"postgres": dbClient,
			"redis":    redisClient,
		},
		routes.Services{
			Catalog:   catalogService,
			Auth:      authService,
			Users:     userService,
			Favorites: favoritesService,
			Cart:      cartService,
			Comments:  commentsService,
			Ratings:   ratingsService,
			Orders:    ordersService,
			Audit:     auditService,
		})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"cart_backend": cfg.Cart.Backend,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func newCartStore(cfg *config.Config, conn *gorm.DB, redisClient *redis.Client) (cart.Store, error) {
	switch cfg.Cart.Backend {
	case config.CartBackendSession:
		return cart.NewSessionStore(redisClient, cfg.Session.TTL())
	default:
		return cart.NewDBStore(conn), nil
	}
}

func exitOnErr(logg *logger.Logger, what string, err error) {
	if err != nil {
		logg.Error(context.Background(), "failed to create "+what, err)
		os.Exit(1)
	}
}
