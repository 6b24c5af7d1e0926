package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inventory-api/internal/config"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Dialect identifies the SQL flavour behind a connection
type Dialect string

const (
	Postgres Dialect = config.DriverPostgres
	SQLite   Dialect = config.DriverSQLite
)

// DB wraps the sql.DB connection with additional functionality
type DB struct {
	*sql.DB
	Dialect Dialect
	log     zerolog.Logger
}

// New creates a new database connection with connection pooling
func New(cfg *config.DatabaseConfig, log zerolog.Logger) (*DB, error) {
	dialect := Dialect(cfg.Driver)

	db, err := Open(dialect, cfg.GetDSN(), log)
	if err != nil {
		return nil, err
	}

	// SQLite serialises writers; one connection keeps transactions from
	// failing with SQLITE_BUSY.
	if dialect == Postgres {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.MaxLifetime)
	}

	// Test connection with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.log.Info().
		Str("driver", cfg.Driver).
		Str("host", cfg.Host).
		Str("database", cfg.Name).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("Database connection established")

	return db, nil
}

// Open opens a connection for the given dialect without pinging it
func Open(dialect Dialect, dsn string, log zerolog.Logger) (*DB, error) {
	var driverName string
	switch dialect {
	case Postgres:
		driverName = "postgres"
	case SQLite:
		driverName = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported database dialect %q", dialect)
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if dialect == SQLite {
		db.SetMaxOpenConns(1)
		pragmas := []string{
			"PRAGMA busy_timeout=5000",
			"PRAGMA synchronous=NORMAL",
		}
		for _, p := range pragmas {
			if _, err := db.Exec(p); err != nil {
				db.Close()
				return nil, fmt.Errorf("setting pragma %q: %w", p, err)
			}
		}
	}

	return &DB{
		DB:      db,
		Dialect: dialect,
		log:     log.With().Str("component", "database").Logger(),
	}, nil
}

// IsUniqueViolation reports whether err was caused by a UNIQUE constraint
func (db *DB) IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return true
		}
		// without extended result codes only the primary code is reported
		return code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(liteErr.Error(), "UNIQUE")
	}

	return false
}

// RowLock returns the clause that locks selected rows until the transaction ends.
// SQLite locks the whole database on write, so it needs none.
func (db *DB) RowLock() string {
	if db.Dialect == Postgres {
		return " FOR UPDATE"
	}
	return ""
}

// HealthCheck verifies the database connection is healthy
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}
