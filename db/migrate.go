// Package db owns the database schema and applies it at startup.
package db

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/campusdesk/swo-feedback/logger"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies all pending migrations embedded in the binary.
// Safe to call on every startup; applied migrations are skipped.
func RunMigrations(dbURL string) error {
	log := logger.GetLogger()

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	// golang-migrate's pgx v5 driver registers the pgx5:// scheme
	m, err := migrate.NewWithSourceInstance("iofs", source, convertToPgx5URL(dbURL))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		log.Info("No migrations applied yet, starting from an empty schema")
	case err != nil:
		return fmt.Errorf("failed to read migration version: %w", err)
	case dirty:
		// A previous migration failed partway. Reset to the last clean version and retry.
		cleanVersion := int(version) - 1
		log.Infow("Dirty migration state detected, resetting to retry",
			"dirtyVersion", version,
			"resettingTo", cleanVersion)
		if cleanVersion <= 0 {
			cleanVersion = database.NilVersion
		}
		if err := m.Force(cleanVersion); err != nil {
			return fmt.Errorf("failed to reset dirty migration: %w", err)
		}
	default:
		log.Infow("Current migration version", "version", version)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Database is up to date, no migrations to apply")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	if version, dirty, err := m.Version(); err == nil {
		log.Infow("Migrations applied successfully", "currentVersion", version, "dirty", dirty)
	} else {
		log.Info("Migrations applied successfully")
	}
	return nil
}

// convertToPgx5URL rewrites a postgres:// or postgresql:// URL to pgx5://.
func convertToPgx5URL(dbURL string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if strings.HasPrefix(dbURL, prefix) {
			return "pgx5://" + strings.TrimPrefix(dbURL, prefix)
		}
	}
	return dbURL
}
