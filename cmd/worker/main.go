package main

import (
	"log"
	"time"

	"recurso/internal/pkg/logger"
	"recurso/internal/platform/config"
	"recurso/internal/platform/database"
	"recurso/internal/workers"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Logging)

	globalDB, err := database.NewGlobalDB(cfg.Database.Global)
	if err != nil {
		log.Fatalf("Failed to connect to global DB: %v", err)
	}
	defer globalDB.Close()

	pool := database.NewTenantDBPool(cfg.Database.Tenant)
	defer pool.CloseAll()

	sweeper := workers.NewSweeper(globalDB, pool, cfg.Webhooks)

	log.Printf("Reminder sweep worker starting, daily at %02d:00 UTC", cfg.Reminders.SweepHourUTC)
	runReminderSweep(sweeper, cfg.Reminders.SweepHourUTC)
}

func runReminderSweep(sweeper *workers.Sweeper, hourUTC int) {
	for {
		now := time.Now().UTC()
		next := time.Date(now.Year(), now.Month(), now.Day(), hourUTC, 0, 0, 0, time.UTC)
		if !next.After(now) {
			next = next.AddDate(0, 0, 1)
		}

		log.Printf("Next reminder sweep at %s", next.Format(time.RFC3339))
		time.Sleep(next.Sub(now))

		sweeper.SweepReminders(time.Now().UTC())
	}
}
