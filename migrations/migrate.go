// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pulse Festival Collective

// Package migrations carries the embedded goose migrations for the sync
// engine's durable store. SQLite and Postgres schemas live in separate
// directories because the sequence-column syntax differs between them.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed sqlite/*.sql postgres/*.sql
var embedMigrations embed.FS

// Migrate applies all pending migrations for the given dialect
// ("sqlite3" or "postgres").
func Migrate(db *sql.DB, dialect string) error {
	goose.SetBaseFS(embedMigrations)

	dir := "sqlite"
	if dialect == "postgres" {
		dir = "postgres"
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}
