// Package migrate applies the schema migrations embedded in internal/db
// through golang-migrate.
package migrate

import (
	"errors"
	"fmt"

	"constituent-connect/backend/internal/db"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ErrNoChange reports that the schema is already at the requested version.
var ErrNoChange = migrate.ErrNoChange

// Run migrates the database at dsn in the given direction, "up" or "down".
// A run with nothing to apply is treated as success.
func Run(dsn string, direction string) error {
	if dsn == "" {
		return errors.New("database DSN is empty; set DATABASE_URL")
	}
	if direction != "up" && direction != "down" {
		return fmt.Errorf("direction must be up or down, got %q", direction)
	}

	source, err := iofs.New(db.MigrationFS, "migrations")
	if err != nil {
		return fmt.Errorf("load embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("connect for migration: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	step := m.Up
	if direction == "down" {
		step = m.Down
	}
	if err := step(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
