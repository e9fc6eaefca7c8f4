package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/anandkrishnan/mealdash-backend/api/routes"
	"github.com/anandkrishnan/mealdash-backend/internal/auth"
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
	"github.com/anandkrishnan/mealdash-backend/pkg/db"
	"github.com/anandkrishnan/mealdash-backend/pkg/logger"
	"github.com/anandkrishnan/mealdash-backend/pkg/metrics"
	"github.com/anandkrishnan/mealdash-backend/pkg/migrate"
	"github.com/anandkrishnan/mealdash-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(logg, "session manager", err)

	registry := prometheus.NewRegistry()
	orderMetrics := metrics.NewOrderMetrics(registry)

	usersRepo := users.NewRepository(dbClient.DB())
	hotelsRepo := hotels.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	feedbackRepo := feedback.NewRepository(dbClient.DB())

	authService, err := auth.NewService(usersRepo, hotelsRepo, sessionManager, cfg.JWT, cfg.Password)
	requireResource(logg, "auth service", err)

	usersService, err := users.NewService(usersRepo)
	requireResource(logg, "users service", err)

	hotelsService, err := hotels.NewService(hotelsRepo)
	requireResource(logg, "hotels service", err)

	catalogService, err := catalog.NewService(catalogRepo)
	requireResource(logg, "catalog service", err)

	ordersService, err := orders.NewService(ordersRepo)
	requireResource(logg, "orders service", err)

	placementService, err := placement.NewService(catalogRepo, ordersRepo, hotelsService, dbClient, orderMetrics)
	requireResource(logg, "placement service", err)

	fulfillmentService, err := fulfillment.NewService(ordersRepo, catalogRepo, hotelsService, dbClient, logg, orderMetrics)
	requireResource(logg, "fulfillment service", err)

	feedbackService, err := feedback.NewService(feedbackRepo, ordersRepo, dbClient)
	requireResource(logg, "feedback service", err)

	reportsService, err := reports.NewService(usersRepo, ordersRepo, dbClient, cfg.Orders.ReportThreshold, logg, orderMetrics)
	requireResource(logg, "reports service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:       cfg,
			Logger:       logg,
			Redis:        redisClient,
			Sessions:     sessionManager,
			Metrics:      registry,
			AuthService:  authService,
			UsersService: usersService,
			Hotels:       hotelsService,
			Catalog:      catalogService,
			Placement:    placementService,
			Fulfillment:  fulfillmentService,
			Orders:       ordersService,
			Feedback:     feedbackService,
			Reports:      reportsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireResource(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
