package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryHTTP "github.com/frontandrew/fleet/internal/delivery/http"
	"github.com/frontandrew/fleet/internal/delivery/http/middleware"
	"github.com/frontandrew/fleet/internal/pkg/clock"
	"github.com/frontandrew/fleet/internal/pkg/config"
	"github.com/frontandrew/fleet/internal/pkg/database"
	"github.com/frontandrew/fleet/internal/pkg/jwt"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/frontandrew/fleet/internal/pkg/redis"
	"github.com/frontandrew/fleet/internal/repository"
	"github.com/frontandrew/fleet/internal/repository/memory"
	"github.com/frontandrew/fleet/internal/repository/postgres"
	"github.com/frontandrew/fleet/internal/usecase/auth"
	"github.com/frontandrew/fleet/internal/usecase/fleet"
	"github.com/frontandrew/fleet/internal/usecase/rental"
	"github.com/frontandrew/fleet/internal/usecase/renter"
	"github.com/frontandrew/fleet/internal/usecase/report"
)

func main() {
	// =========================================================================
	// Загрузка конфигурации
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Инициализация logger и часов
	// =========================================================================

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	log.Info("Starting fleet API server", map[string]interface{}{
		"db_driver": cfg.Database.Driver,
		"timezone":  cfg.Scheduler.Timezone,
	})

	clk := clock.New(clock.LoadLocation(cfg.Scheduler.Timezone))

	// =========================================================================
	// Хранилище
	// =========================================================================

	ctx := context.Background()
	var store repository.Store

	switch cfg.Database.Driver {
	case config.DriverMemory:
		store = memory.NewStore()
		log.Warn("Using in-memory store, data will be lost on restart")

	default:
		db, err := database.Connect(ctx, &cfg.Database)
		if err != nil {
			log.Fatal("Failed to connect to database", map[string]interface{}{
				"error": err.Error(),
			})
		}
		defer database.Close(db)

		if cfg.Database.ApplySchema {
			if err := database.EnsureSchema(ctx, db); err != nil {
				log.Fatal("Failed to apply database schema", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Connected to PostgreSQL", map[string]interface{}{
			"host":     cfg.Database.Host,
			"port":     cfg.Database.Port,
			"database": cfg.Database.Database,
		})

		store = postgres.NewStore(db)
	}

	// =========================================================================
	// Подключение к Redis (хранилище ключей идемпотентности)
	// =========================================================================

	var idempotencyStore middleware.IdempotencyStore
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   "fleet:",
		})
		if err != nil {
			// Без Redis повторные платежные запросы не отсекаются
			log.Warn("Redis is not available, idempotency keys are ignored", map[string]interface{}{
				"error":   err.Error(),
				"address": cfg.Redis.Address(),
			})
		} else {
			defer redisClient.Close()
			idempotencyStore = redisClient
			log.Info("Connected to Redis", map[string]interface{}{
				"address": cfg.Redis.Address(),
			})
		}
	}

	// =========================================================================
	// Создание JWT token service
	// =========================================================================

	tokenService := jwt.NewTokenService(cfg.JWT.SecretKey, cfg.JWT.AccessExpiry)

	passwordHash, err := auth.ResolvePasswordHash(cfg.Auth.AdminPassword, cfg.Auth.AdminPasswordHash)
	if err != nil {
		log.Fatal("Failed to prepare admin password", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// =========================================================================
	// Создание use case services
	// =========================================================================

	authService := auth.NewService(passwordHash, tokenService, log)
	fleetService := fleet.NewService(store, clk, log)
	renterService := renter.NewService(store, clk, log)
	rentalService := rental.NewService(store, clk, log)
	reportService := report.NewService(store, rentalService, clk, log)

	log.Info("Use case services initialized")

	// =========================================================================
	// Создание HTTP handlers и router
	// =========================================================================

	router := deliveryHTTP.NewRouter(
		deliveryHTTP.Handlers{
			Auth:   deliveryHTTP.NewAuthHandler(authService, log),
			Car:    deliveryHTTP.NewCarHandler(fleetService, clk, log),
			Renter: deliveryHTTP.NewRenterHandler(renterService, log),
			Rental: deliveryHTTP.NewRentalHandler(rentalService, clk, log),
			Report: deliveryHTTP.NewReportHandler(reportService, clk, log),
		},
		tokenService,
		idempotencyStore,
		cfg,
		log,
	)

	handler := router.Setup()

	log.Info("HTTP router configured")

	// =========================================================================
	// Создание HTTP сервера
	// =========================================================================

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// =========================================================================
	// Запуск сервера в goroutine
	// =========================================================================

	serverErrors := make(chan error, 1)

	go func() {
		log.Info("API server listening", map[string]interface{}{
			"address": srv.Addr,
		})
		serverErrors <- srv.ListenAndServe()
	}()

	// =========================================================================
	// Graceful shutdown
	// =========================================================================

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatal("Server error", map[string]interface{}{
			"error": err.Error(),
		})

	case sig := <-shutdown:
		log.Info("Shutdown signal received", map[string]interface{}{
			"signal": sig.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Graceful shutdown failed", map[string]interface{}{
				"error": err.Error(),
			})

			if err := srv.Close(); err != nil {
				log.Fatal("Failed to close server", map[string]interface{}{
					"error": err.Error(),
				})
			}
		}

		log.Info("Server stopped gracefully")
	}
}
