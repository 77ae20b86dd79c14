package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/Bedotech/smartbook/internal/config"
	"github.com/Bedotech/smartbook/internal/logger"
	"github.com/Bedotech/smartbook/internal/postgres"
	"github.com/joho/godotenv"
)

//go:embed migrations
var migrations embed.FS

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC

	// Local development convenience; absence of a .env file is fine
	_ = godotenv.Load()
}

func main() {
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	entries, err := migrations.ReadDir("migrations")
	if err != nil {
		logger.Fatalw("Failed to read migrations", "error", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	if *dryRun {
		for _, entry := range entries {
			sql, err := migrations.ReadFile("migrations/" + entry.Name())
			if err != nil {
				logger.Fatalw("Failed to read migration", "file", entry.Name(), "error", err)
			}
			fmt.Printf("-- %s\n%s\n", entry.Name(), sql)
		}
		return
	}

	logger.Infow("Connecting to database", "host", cfg.Postgres.Host)
	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("Failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("Running database migrations...")
	for _, entry := range entries {
		sql, err := migrations.ReadFile("migrations/" + entry.Name())
		if err != nil {
			logger.Fatalw("Failed to read migration", "file", entry.Name(), "error", err)
		}

		// Each file applies atomically
		err = db.WithTx(ctx, func(ctx context.Context) error {
			_, execErr := db.GetQuerier(ctx).ExecContext(ctx, string(sql))
			return execErr
		})
		if err != nil {
			logger.Fatalw("Migration failed", "file", entry.Name(), "error", err)
		}
		logger.Infow("Applied migration", "file", entry.Name())
	}
	logger.Info("Migration completed successfully")
}
