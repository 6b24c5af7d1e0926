// Package databasetest provides throwaway databases for tests.
package databasetest

import (
	"testing"

	"github.com/inventory-api/internal/database"
	"github.com/rs/zerolog"
)

// New creates a fresh in-memory SQLite database with the schema applied.
func New(t testing.TB) *database.DB {
	t.Helper()

	db, err := database.Open(database.SQLite, ":memory:", zerolog.Nop())
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		db.Close()
		t.Fatalf("creating test database schema: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	return db
}
