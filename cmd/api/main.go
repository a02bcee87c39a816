package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/salon-api/internal/config"
	appointmentHandler "github.com/jwalitptl/salon-api/internal/handler/appointment"
	availabilityHandler "github.com/jwalitptl/salon-api/internal/handler/availability"
	employeeHandler "github.com/jwalitptl/salon-api/internal/handler/employee"
	healthHandler "github.com/jwalitptl/salon-api/internal/handler/health"
	salonHandler "github.com/jwalitptl/salon-api/internal/handler/salon"
	"github.com/jwalitptl/salon-api/internal/middleware"
	"github.com/jwalitptl/salon-api/internal/repository/postgres"
	"github.com/jwalitptl/salon-api/internal/router"
	bookingService "github.com/jwalitptl/salon-api/internal/service/booking"
	employeeService "github.com/jwalitptl/salon-api/internal/service/employee"
	salonService "github.com/jwalitptl/salon-api/internal/service/salon"
	scheduleService "github.com/jwalitptl/salon-api/internal/service/schedule"
	"github.com/jwalitptl/salon-api/pkg/auth"
	"github.com/jwalitptl/salon-api/pkg/logger"
	redisBroker "github.com/jwalitptl/salon-api/pkg/messaging/redis"
	"github.com/jwalitptl/salon-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("salon_api", "booking")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	salonRepo := postgres.NewSalonRepository(db)
	employeeRepo := postgres.NewEmployeeRepository(db)
	serviceRepo := postgres.NewServiceRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)

	scheduleSvc := scheduleService.NewService(salonRepo, employeeRepo, serviceRepo, appointmentRepo, appLogger, appMetrics)
	bookingSvc := bookingService.NewService(appointmentRepo, employeeRepo, serviceRepo, scheduleSvc, appLogger, appMetrics)
	salonSvc := salonService.NewService(salonRepo, serviceRepo, scheduleSvc, appLogger)
	employeeSvc := employeeService.NewService(employeeRepo, scheduleSvc)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	// The broker is only used for readiness here; event publishing runs
	// in the worker. A Redis outage must not block the API.
	var brokerPinger healthHandler.Pinger
	if cfg.Redis.URL != "" {
		zl := log.Logger
		broker, err := redisBroker.NewRedisBroker(redisBroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, &zl)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, readiness will report degraded")
		} else {
			defer broker.Close()
			if p, ok := broker.(healthHandler.Pinger); ok {
				brokerPinger = p
			}
		}
	}

	r := router.NewRouter(
		authMiddleware,
		availabilityHandler.NewHandler(scheduleSvc),
		appointmentHandler.NewHandler(bookingSvc),
		salonHandler.NewHandler(salonSvc),
		employeeHandler.NewHandler(employeeSvc),
		healthHandler.NewHandler(db, brokerPinger),
		router.RouterConfig{
			RateLimitRPS:   cfg.Server.RateLimitRPS,
			RateLimitBurst: cfg.Server.RateLimitBurst,
			Timeout:        time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:     middleware.DefaultCORSConfig(),
			MetricsPrefix:  "salon_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	grace := cfg.Server.ShutdownGrace
	if grace <= 0 {
		grace = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
