package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/vytor/vocabflash/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const driverName = "sqlite3"

type DB struct {
	*sqlx.DB
	log *logger.Logger
}

// Open opens the sqlite database at path, retrying the open and ping up to
// attempts times, and applies pending migrations.
func Open(ctx context.Context, path string, attempts int) (*DB, error) {
	log := logger.Default().WithPrefix("db")
	if attempts <= 0 {
		attempts = 1
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL", path)
	log.Info("opening database: %s", path)

	var sqlxDB *sqlx.DB
	err := retry.Do(
		func() error {
			d, err := sqlx.Open(driverName, dsn)
			if err != nil {
				return err
			}
			if err := d.PingContext(ctx); err != nil {
				_ = d.Close()
				return err
			}
			sqlxDB = d
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(attempts)),
		retry.Delay(200*time.Millisecond),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("database open attempt %d failed: %v", n+1, err)
		}),
	)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlxDB.SetMaxOpenConns(1) // single writer

	db := &DB{DB: sqlxDB, log: log}

	log.Debug("applying migrations")
	if err := Migrate(ctx, sqlxDB); err != nil {
		log.Error("failed to apply migrations: %v", err)
		_ = sqlxDB.Close()
		return nil, err
	}

	log.Info("database ready")
	return db, nil
}

// Migrate applies every embedded migration not yet recorded in schema_migrations.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	log := logger.FromContext(ctx).WithPrefix("db")

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at DATETIME DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}

	for _, entry := range entries {
		version := entry.Name()
		applied, err := isMigrationApplied(ctx, db, version)
		if err != nil {
			return err
		}
		if applied {
			log.Debug("migration %s already applied, skipping", version)
			continue
		}
		sqlBytes, err := migrationsFS.ReadFile("migrations/" + version)
		if err != nil {
			return err
		}
		log.Info("applying migration: %s", version)
		if _, err := db.ExecContext(ctx, string(sqlBytes)); err != nil {
			log.Error("migration %s failed: %v", version, err)
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", version, err)
		}
		log.Info("migration %s applied successfully", version)
	}
	return nil
}

func isMigrationApplied(ctx context.Context, db *sqlx.DB, version string) (bool, error) {
	var v string
	err := db.GetContext(ctx, &v, `SELECT version FROM schema_migrations WHERE version = ?`, version)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}
