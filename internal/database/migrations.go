package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/tenant-task-api/internal/config"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies pending migrations for driver in filename order. Each file
// runs once; the applied version is tracked in schema_migrations.
func Migrate(db *gorm.DB, driver string, log *zap.Logger) error {
	m, err := newMigrator(db, driver)
	if err != nil {
		return err
	}

	before, _, _ := m.Version()
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("Database schema is up to date", zap.Uint("version", before))
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	after, _, _ := m.Version()
	log.Info("Database migrations applied", zap.Uint("from", before), zap.Uint("to", after))
	return nil
}

// SchemaVersion reports the last applied migration and whether it failed halfway
func SchemaVersion(db *gorm.DB, driver string) (uint, bool, error) {
	m, err := newMigrator(db, driver)
	if err != nil {
		return 0, false, err
	}
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// newMigrator wraps the pool owned by db. The migrator is never closed because
// closing it would close the shared pool.
func newMigrator(db *gorm.DB, driver string) (*migrate.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations for %s: %w", driver, err)
	}

	var target migratedb.Driver
	switch driver {
	case "postgres":
		target, err = migratepg.WithInstance(sqlDB, &migratepg.Config{})
	case "mysql":
		target, err = migratemysql.WithInstance(sqlDB, &migratemysql.Config{})
	case "sqlite":
		target, err = migratesqlite.WithInstance(sqlDB, &migratesqlite.Config{})
	default:
		return nil, config.ErrUnsupportedDriver
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driver, target)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrator: %w", err)
	}
	return m, nil
}
