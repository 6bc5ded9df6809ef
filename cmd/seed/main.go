package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"talentx/internal/config"
	"talentx/internal/database"
	"talentx/internal/observability"
	"talentx/internal/repository/sqlstore"
	"talentx/internal/seed"
)

func main() {
	fixturePath := flag.String("fixture", "", "YAML fixture to load instead of the built-in demo data")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := observability.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		logger.Error("load fixture", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	db, dialect, err := database.Open(ctx, database.Config{
		Driver:       cfg.DBDriver,
		DSN:          cfg.DatabaseURL,
		SQLitePath:   cfg.SQLitePath,
		ReadyTimeout: cfg.DBReadyTimeout,
	}, logger)
	if err != nil {
		logger.Error("open database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, dialect); err != nil {
		logger.Error("migrate", slog.String("error", err.Error()))
		os.Exit(1)
	}
	result, err := seed.NewSeeder(sqlstore.NewUserRepository(db, dialect), sqlstore.NewJobRepository(db, dialect), logger).Apply(ctx, fixture)
	if err != nil {
		logger.Error("seed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("seed data inserted",
		slog.Int("users_created", result.UsersCreated),
		slog.Int("users_skipped", result.UsersSkipped),
		slog.Int("jobs_created", result.JobsCreated),
		slog.Int("jobs_skipped", result.JobsSkipped))
}

func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.Parse(data)
}
