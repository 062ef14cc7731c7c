// Command migrate applies the battle history schema.
package main

import (
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/skirmish/internal/config"
	"github.com/cory-johannsen/skirmish/internal/observability"
	"github.com/cory-johannsen/skirmish/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	dir := flag.String("migrations", "", "path to migration files (default: database.migrations)")
	direction := flag.String("direction", "up", "migration direction: up or down")
	steps := flag.Int("steps", 0, "number of steps (0 = all)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer logger.Sync()

	if !cfg.Database.Enabled {
		logger.Fatal("database.enabled is false; nothing to migrate", zap.String("config", *configPath))
	}
	d, err := postgres.ParseDirection(*direction)
	if err != nil {
		logger.Fatal("parsing flags", zap.Error(err))
	}
	if *dir == "" {
		*dir = cfg.Database.Migrations
	}

	res, err := postgres.Migrate(cfg.Database.DSN(), *dir, d, *steps)
	if err != nil {
		logger.Fatal("migration failed",
			zap.String("direction", string(d)),
			zap.String("migrations", *dir),
			zap.Error(err),
		)
	}
	logger.Info("schema migrated",
		zap.String("direction", string(d)),
		zap.Bool("changed", res.Changed),
		zap.Uint("version", res.Version),
		zap.Bool("dirty", res.Dirty),
		zap.Duration("elapsed", time.Since(start)),
	)
}
