package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frontandrew/fleet/internal/pkg/clock"
	"github.com/frontandrew/fleet/internal/pkg/config"
	"github.com/frontandrew/fleet/internal/pkg/database"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/frontandrew/fleet/internal/repository/postgres"
	"github.com/frontandrew/fleet/internal/scheduler"
	"github.com/frontandrew/fleet/internal/usecase/rental"
)

func main() {
	runOnce := flag.String("run-once", "", "Run a job once and exit (e.g. 'sweep-overdue')")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logger.Level, cfg.Logger.Format, cfg.Logger.Output)
	log.Info("Starting fleet cronjob runner")

	// Пересчет просрочек имеет смысл только для общего хранилища
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatal("Cronjob runner requires the postgres driver", map[string]interface{}{
			"db_driver": cfg.Database.Driver,
		})
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer database.Close(db)

	loc := clock.LoadLocation(cfg.Scheduler.Timezone)
	rentalService := rental.NewService(postgres.NewStore(db), clock.New(loc), log)

	cronScheduler, err := scheduler.New(scheduler.Config{
		OverdueSweepSpec: cfg.Scheduler.OverdueSweepSpec,
		Location:         loc,
	}, rentalService, log)
	if err != nil {
		log.Fatal("Failed to create scheduler", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if *runOnce != "" {
		log.Info("Running job once", map[string]interface{}{"job": *runOnce})
		if err := cronScheduler.RunJob(*runOnce); err != nil {
			log.Error("Job failed", map[string]interface{}{
				"job":   *runOnce,
				"error": err.Error(),
			})
			database.Close(db)
			os.Exit(1)
		}
		return
	}

	cronScheduler.Start()
	log.Info("Cronjob scheduler is running", map[string]interface{}{
		"next_run": cronScheduler.NextRun().String(),
	})

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdown

	log.Info("Shutdown signal received", map[string]interface{}{
		"signal": sig.String(),
	})
	cronScheduler.Stop()
}
