package store

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/pulsefest/pulse-sync/internal/config"
	"github.com/pulsefest/pulse-sync/internal/logger"
	"github.com/pulsefest/pulse-sync/migrations"
)

// DB wraps the sql.DB handle together with the driver-specific pieces the
// repositories need: a squirrel statement builder with the right
// placeholder format and an error classificator for retry decisions.
type DB struct {
	*sql.DB
	builder            sq.StatementBuilderType
	dialect            string
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying. The Postgres implementation inspects pgconn error codes; the
// SQLite implementation treats lock/busy errors as retryable.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// ErrorClassification is the verdict of an [ErrorClassificator].
type ErrorClassification int

const (
	// NonRetryable indicates the failed operation should not be retried.
	// Default for unrecognised errors, constraint violations, and data
	// exceptions.
	NonRetryable ErrorClassification = iota

	// Retryable indicates the operation may succeed if attempted again
	// (transient connection loss, deadlock rollback, database busy).
	Retryable
)

// Migrate applies the embedded goose migrations for the active dialect.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, db.dialect)
}

// NewDB opens a database connection for the configured driver, pings it,
// and applies migrations. Supported drivers: "sqlite3" and "pgx".
func NewDB(ctx context.Context, cfg config.Storage, log *logger.Logger) (*DB, error) {
	var (
		db  *DB
		err error
	)

	switch cfg.Driver {
	case "sqlite3":
		db, err = NewConnectSQLite(ctx, cfg, log)
	case "pgx":
		db, err = NewConnectPostgres(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if err = db.Migrate(); err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return db, nil
}

// NewStorages wires the concrete repositories over one DB handle.
func NewStorages(db *DB, log *logger.Logger) *Storages {
	return &Storages{
		Queue:     NewQueueRepository(db, log),
		SyncState: NewSyncStateRepository(db, log),
		Conflicts: NewConflictRepository(db, log),
		Records:   NewRecordRepository(db, log),
	}
}
