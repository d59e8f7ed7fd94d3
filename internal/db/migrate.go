package db

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/diewo77/store-admin/internal/config"
	"github.com/diewo77/store-admin/internal/store"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies the schema. With MIGRATIONS enabled the embedded SQL files
// run through golang-migrate; otherwise gorm AutoMigrate is used (dev convenience).
func Migrate(conn *gorm.DB, cfg config.DatabaseConfig, useSQL bool, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if useSQL {
		if err := runSQLMigrations(cfg); err != nil {
			return fmt.Errorf("sql migrations failed: %w", err)
		}
		log.Info("sql migrations applied", zap.String("driver", cfg.Driver))
	} else {
		for _, m := range store.Models() {
			if err := conn.AutoMigrate(m); err != nil {
				return fmt.Errorf("automigrate %T: %w", m, err)
			}
		}
	}
	for _, table := range []string{"sessions", "audit_logs", "delete_intents", "drafts"} {
		if !conn.Migrator().HasTable(table) {
			return fmt.Errorf("%w: %s", ErrMissingTable, table)
		}
	}
	return nil
}

func runSQLMigrations(cfg config.DatabaseConfig) error {
	dir := "migrations/sqlite"
	if cfg.Driver == "postgres" {
		dir = "migrations/postgres"
	}
	sub, err := fs.Sub(migrationsFS, dir)
	if err != nil {
		return err
	}
	src, err := iofs.New(sub, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, cfg.URL())
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
