package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"commercepulse/adapters/postgres"
	"commercepulse/internal/config"
	"commercepulse/ui"
)

func main() {
	// Load .env if present; real env vars take precedence
	if err := godotenv.Load(); err != nil {
		log.Printf("[Main] No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Main] Failed to load configuration: %v", err)
	}

	var snapshots *postgres.SnapshotRepository
	if cfg.Database.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		db, err := postgres.Connect(ctx, cfg.Database.URL)
		cancel()
		if err != nil {
			log.Fatalf("[Main] Failed to connect to database: %v", err)
		}
		defer db.Close()

		snapshots = postgres.NewSnapshotRepository(db)
		if err := snapshots.InitSchema(context.Background()); err != nil {
			log.Fatalf("[Main] Failed to initialize schema: %v", err)
		}
	} else {
		log.Printf("[Main] DATABASE_URL not set, snapshot persistence disabled")
	}

	app := ui.NewApp(cfg, snapshots)
	log.Printf("[Main] Starting on http://localhost:%s", cfg.Server.Port)
	log.Fatal(app.Start())
}
