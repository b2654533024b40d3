package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/agrilinkmw/agrilink-backend/api/routes"
	"github.com/agrilinkmw/agrilink-backend/internal/admin"
	authsvc "github.com/agrilinkmw/agrilink-backend/internal/auth"
	"github.com/agrilinkmw/agrilink-backend/internal/crops"
	"github.com/agrilinkmw/agrilink-backend/internal/demands"
	"github.com/agrilinkmw/agrilink-backend/internal/messages"
	"github.com/agrilinkmw/agrilink-backend/internal/orders"
	"github.com/agrilinkmw/agrilink-backend/internal/payments/paychangu"
	"github.com/agrilinkmw/agrilink-backend/internal/reviews"
	"github.com/agrilinkmw/agrilink-backend/internal/users"
	"github.com/agrilinkmw/agrilink-backend/pkg/auth/session"
	"github.com/agrilinkmw/agrilink-backend/pkg/config"
	"github.com/agrilinkmw/agrilink-backend/pkg/db"
	"github.com/agrilinkmw/agrilink-backend/pkg/logger"
	"github.com/agrilinkmw/agrilink-backend/pkg/mailer"
	"github.com/agrilinkmw/agrilink-backend/pkg/metrics"
	"github.com/agrilinkmw/agrilink-backend/pkg/migrate"
	pkgredis "github.com/agrilinkmw/agrilink-backend/pkg/redis"
	localstorage "github.com/agrilinkmw/agrilink-backend/pkg/storage/local"
)

const shutdownTimeout = 15 * time.Second

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

	redisClient, err := pkgredis.New(context.Background(), cfg.Redis, logg)
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
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	mediaStore, err := localstorage.New(context.Background(), cfg.Uploads, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare upload storage", err)
		os.Exit(1)
	}

	mail := mailer.New(cfg.Mail, logg)
	registry := prometheus.NewRegistry()
	paymentMetrics := metrics.NewPaymentMetrics(registry)

	userRepo := users.NewRepository(dbClient.DB())
	cropRepo := crops.NewRepository(dbClient.DB())
	demandRepo := demands.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())
	reviewRepo := reviews.NewRepository(dbClient.DB())
	messageRepo := messages.NewRepository(dbClient.DB())
	adminRepo := admin.NewRepository(dbClient.DB())

	authService, err := authsvc.NewService(userRepo, sessionManager, redisClient, mail, logg, cfg.JWT, cfg.Password, cfg.App)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}
	userService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}
	cropService, err := crops.NewService(cropRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create crops service", err)
		os.Exit(1)
	}
	demandService, err := demands.NewService(demandRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create demands service", err)
		os.Exit(1)
	}

	payloadBuilder, err := paychangu.NewPayloadBuilder(cfg.PayChangu, cfg.App)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment payload builder", err)
		os.Exit(1)
	}
	orderService, err := orders.NewService(orderRepo, cropRepo, userRepo, payloadBuilder, mail, paymentMetrics, logg, cfg.PayChangu)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	webhookGuard, err := paychangu.NewIdempotencyGuard(redisClient, cfg.PayChangu.IdempotencyTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook idempotency guard", err)
		os.Exit(1)
	}
	webhookService, err := paychangu.NewService(orderRepo, webhookGuard, cfg.PayChangu, paymentMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	reviewService, err := reviews.NewService(reviewRepo, orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}
	messageService, err := messages.NewService(messageRepo, userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create messages service", err)
		os.Exit(1)
	}
	adminService, err := admin.NewService(adminRepo, userRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

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
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Sessions: sessionManager,
			Registry: registry,
			Auth:     authService,
			Users:    userService,
			Crops:    cropService,
			Demands:  demandService,
			Orders:   orderService,
			Reviews:  reviewService,
			Messages: messageService,
			Admin:    adminService,
			Webhooks: webhookService,
			Media:    mediaStore,
		}),
	}

	if err := run(ctx, logg, server); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logg *logger.Logger, server *http.Server) error {
	stopCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-stopCtx.Done():
	}

	logg.Info(ctx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs error
	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = multierr.Append(errs, err)
	}
	if err := <-serveErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		errs = multierr.Append(errs, err)
	}
	return errs
}
