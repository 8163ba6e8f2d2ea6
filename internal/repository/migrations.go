package repository

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"bid-lifecycle/utils"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func newMigrator(conn string) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("repository.newMigrator: open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, conn)
	if err != nil {
		return nil, fmt.Errorf("repository.newMigrator: %w", err)
	}
	return m, nil
}

// MigrateUp applies every pending schema migration
func MigrateUp(conn string) error {
	m, err := newMigrator(conn)
	if err != nil {
		return err
	}
	defer m.Close()

	utils.Info("migrating schema up", nil)
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("repository.MigrateUp: %w", err)
	}
	return nil
}

// MigrateDown reverts every applied schema migration
func MigrateDown(conn string) error {
	m, err := newMigrator(conn)
	if err != nil {
		return err
	}
	defer m.Close()

	utils.Info("migrating schema down", nil)
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("repository.MigrateDown: %w", err)
	}
	return nil
}
