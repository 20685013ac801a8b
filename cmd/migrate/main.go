package main

// Run database migrations:
//   go run ./cmd/migrate

import (
	"context"
	"os"

	"workvouch/internal/shared/config"
	"workvouch/internal/shared/storage/db"
	"workvouch/internal/shared/telemetry"
)

func main() {
	_, _ = telemetry.Init("info", "json")
	cfg, err := config.Load()
	if err != nil {
		telemetry.Error("config.load_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	if _, err := telemetry.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		telemetry.Error("telemetry.init_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	ctx := context.Background()

	opts := db.OptionsFromEnv(db.DefaultMigrateOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		telemetry.Error("migrate.connect_failed", map[string]any{"error": err})
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		os.Exit(1)
	}
	telemetry.Info("migrate.done", nil)
}
