package main

import (
	"context"
	"os"

	"github.com/vytor/vocabflash/internal/config"
	"github.com/vytor/vocabflash/internal/db"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/repository/sqlite"
	"github.com/vytor/vocabflash/internal/services"
)

// app bundles the services a command needs. Commands open it on demand so
// --help works without a database.
type app struct {
	db       *db.DB
	profiles services.ProfileService
	reviews  services.ReviewService
	stats    services.StatsService
	imports  services.ImportService
}

func setupLogger(debug bool) {
	level := logger.WARN
	if debug {
		level = logger.DEBUG
	}
	logger.SetDefault(logger.New(
		logger.WithOutput(os.Stderr),
		logger.WithLevel(level),
		logger.WithColors(true),
	))
}

func openApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	database, err := db.Open(ctx, cfg.DBPath, cfg.DBOpenAttempts)
	if err != nil {
		return nil, err
	}

	profileRepo := sqlite.NewProfileRepository(database.DB)
	mistakes := services.NewMistakeService(sqlite.NewMistakeRepository(database.DB), profileRepo)
	return &app{
		db:       database,
		profiles: services.NewProfileService(profileRepo),
		reviews:  services.NewReviewService(sqlite.NewCardRepository(database.DB), cfg.ReviewBatchSize),
		stats:    services.NewStatsService(sqlite.NewStatsRepository(database.DB)),
		imports:  services.NewImportService(mistakes),
	}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}
