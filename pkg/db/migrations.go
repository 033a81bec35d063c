package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// MigrationConfig holds configuration for database migrations
type MigrationConfig struct {
	// Path to migration files
	MigrationsPath string

	// Whether to force version (bypassing dirty state checks)
	ForceVersion bool

	// Whether to auto-migrate GORM models instead of running SQL files
	AutoMigrateModels bool

	// Target version (0 means latest)
	TargetVersion uint
}

// NewMigrationConfig creates a new migration configuration with default values
func NewMigrationConfig(path string) *MigrationConfig {
	if path == "" {
		path = "migrations"
	}
	return &MigrationConfig{
		MigrationsPath: path,
	}
}

// RunMigrations brings the schema up to the target version
func RunMigrations(db *gorm.DB, cfg *MigrationConfig, log logrus.FieldLogger, models ...interface{}) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	if cfg.AutoMigrateModels && len(models) > 0 {
		log.Info("Running GORM auto-migrations")

		start := time.Now()
		if err := db.AutoMigrate(models...); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}

		log.WithField("took", time.Since(start).String()).Info("Auto-migration completed")
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", cfg.MigrationsPath),
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if cfg.ForceVersion {
		log.Warn("Force version is enabled, resetting dirty state if needed")
		if err := m.Force(int(cfg.TargetVersion)); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	}

	if cfg.TargetVersion > 0 {
		log.WithField("version", cfg.TargetVersion).Info("Migrating to target version")
		if err := m.Migrate(cfg.TargetVersion); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration failed: %w", err)
		}
	} else {
		log.Info("Migrating to latest version")
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	log.WithFields(logrus.Fields{"version": version, "dirty": dirty}).Info("Migration completed")
	return nil
}
