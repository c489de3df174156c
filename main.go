package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edubooking/config"
	"edubooking/database"
	inmemdb "edubooking/database/inmem"
	"edubooking/database/repository"
	appointmentTypeRepo "edubooking/database/repository/appointmenttype"
	"edubooking/handlers"
	"edubooking/middleware"
	"edubooking/routes"
	"edubooking/services/booking"
	"edubooking/services/notification"
	"edubooking/services/user"
	"edubooking/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// infrastructure holds the connections that outlive a single request.
type infrastructure struct {
	repos   repository.Repositories
	checks  map[string]utils.HealthCheck
	closers []func()
}

func (i *infrastructure) close() {
	for n := len(i.closers) - 1; n >= 0; n-- {
		i.closers[n]()
	}
}

func connectStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (*infrastructure, error) {
	infra := &infrastructure{checks: map[string]utils.HealthCheck{}}

	switch cfg.StorageDriver {
	case "memory":
		logger.Warn("Using in-memory storage; data is lost on restart")
		infra.repos = repository.NewMemoryRepositories(inmemdb.NewDB())
	case "mongo", "":
		client, err := database.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		infra.closers = append(infra.closers, func() { _ = client.Disconnect(context.Background()) })
		infra.checks["mongo"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }

		sessionClient, err := utils.NewRedisClient(ctx, cfg.RedisSessionDB)
		if err != nil {
			infra.close()
			return nil, err
		}
		infra.closers = append(infra.closers, func() { _ = sessionClient.Close() })
		lockClient, err := utils.NewRedisClient(ctx, cfg.RedisLockDB)
		if err != nil {
			infra.close()
			return nil, err
		}
		infra.closers = append(infra.closers, func() { _ = lockClient.Close() })
		infra.checks["redis"] = func(ctx context.Context) error { return sessionClient.Ping(ctx).Err() }

		infra.repos = repository.NewMongoRepositories(client.Database(cfg.DatabaseName), sessionClient, lockClient)
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.AppointmentTypesSource == "supabase" {
		client, err := appointmentTypeRepo.NewSupabaseClient(cfg.SupabaseURL, cfg.SupabaseServiceKey)
		if err != nil {
			infra.close()
			return nil, err
		}
		infra.repos.Types = appointmentTypeRepo.NewSupabaseAppointmentTypeRepo(client)
		logger.Info("Appointment types served from Supabase")
	}
	return infra, nil
}

// newQueue returns nil when the dispatch queue is disabled.
func newQueue(cfg config.Config) (*asynq.Client, notification.Enqueuer) {
	if !cfg.NotificationQueueEnabled || cfg.StorageDriver == "memory" {
		return nil, nil
	}
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	})
	return client, client
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is empty; bearer tokens cannot be verified")
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	infra, err := connectStorage(rootCtx, cfg, logger)
	if err != nil {
		logger.Fatal("main: failed to initialize storage", zap.Error(err))
	}
	defer infra.close()

	queueClient, queue := newQueue(cfg)
	if queueClient != nil {
		defer queueClient.Close()
	}

	loc := cfg.Location()
	repos := infra.repos

	// services.
	sessions := booking.NewSessionStore(repos.Sessions, cfg.SessionTTL, logger, nil)
	checker := booking.NewAvailabilityChecker(repos.Appointments, repos.Availability, loc, logger)
	coordinator := booking.NewCompletionCoordinator(booking.CompletionDeps{
		Sessions:     sessions,
		Types:        repos.Types,
		Availability: checker,
		Appointments: repos.Appointments,
		Users:        repos.Users,
		Identity:     user.NewIdentityResolver(repos.Users, logger),
		Notifier:     notification.NewNotificationScheduler(repos.Notifications, queue, logger, nil),
		Locker:       repos.Locker,
		Location:     loc,
		Logger:       logger,
	})

	monitor := utils.NewHealthMonitor(infra.checks)
	monitor.Start(rootCtx, 30*time.Second)

	bookingHandler := handlers.NewBookingHandler(sessions, coordinator, checker, repos.Types, logger)
	handlerBundle := handlers.NewHandlerBundle(bookingHandler, monitor, utils.NewTokenVerifier(cfg.JWTSecret))

	router := gin.New()
	router.Use(utils.ErrorHandler(logger))
	router.Use(middleware.RequestLogger(logger))
	routes.RegisterRoutes(router, handlerBundle, cfg.MaxRequestsPerMin)

	srv := &http.Server{
		Addr:    "0.0.0.0:" + cfg.AppPort,
		Handler: router,
	}

	logger.Info("Starting server",
		zap.String("addr", srv.Addr),
		zap.String("storage", cfg.StorageDriver),
		zap.String("timezone", loc.String()),
	)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
		return
	}
	logger.Info("main: server stopped gracefully")
}
