package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/pulsefest/pulse-sync/internal/logger"
	"github.com/pulsefest/pulse-sync/models"
)

type syncStateRepository struct {
	*DB
	logger *logger.Logger
}

// NewSyncStateRepository constructs the durable sync-state store over db.
func NewSyncStateRepository(db *DB, log *logger.Logger) SyncStateRepository {
	return &syncStateRepository{DB: db, logger: log}
}

// GetStatus implements [SyncStateRepository].
func (r *syncStateRepository) GetStatus(ctx context.Context, entityType models.EntityType) (models.EntitySyncStatus, error) {
	query, args, err := r.builder.
		Select("entity_type", "is_connected", "last_sync_at", "pending_changes",
			"last_error", "last_cursor", "last_task_state").
		From("entity_sync_status").
		Where(sq.Eq{"entity_type": entityType}).
		ToSql()
	if err != nil {
		return models.EntitySyncStatus{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	status, err := scanStatus(r.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.EntitySyncStatus{EntityType: entityType}, nil
	}
	if err != nil {
		return models.EntitySyncStatus{}, fmt.Errorf("get sync status for %s: %w", entityType, err)
	}
	return status, nil
}

// ListStatuses implements [SyncStateRepository].
func (r *syncStateRepository) ListStatuses(ctx context.Context) ([]models.EntitySyncStatus, error) {
	query, args, err := r.builder.
		Select("entity_type", "is_connected", "last_sync_at", "pending_changes",
			"last_error", "last_cursor", "last_task_state").
		From("entity_sync_status").
		OrderBy("entity_type ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sync statuses: %w", err)
	}
	defer rows.Close()

	var statuses []models.EntitySyncStatus
	for rows.Next() {
		status, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sync status row: %w", err)
		}
		statuses = append(statuses, status)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync statuses: %w", err)
	}

	return statuses, nil
}

// UpsertStatus implements [SyncStateRepository]. Delete-then-insert keeps
// the statement portable across the SQLite and Postgres upsert dialects.
func (r *syncStateRepository) UpsertStatus(ctx context.Context, status models.EntitySyncStatus) error {
	log := logger.FromContext(ctx)

	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := r.builder.
		Delete("entity_sync_status").
		Where(sq.Eq{"entity_type": status.EntityType}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("replace sync status for %s: %w", status.EntityType, err)
	}

	query, args, err = r.builder.
		Insert("entity_sync_status").
		Columns("entity_type", "is_connected", "last_sync_at", "pending_changes",
			"last_error", "last_cursor", "last_task_state").
		Values(status.EntityType, status.IsConnected, status.LastSyncAt,
			status.PendingChanges, status.LastError, status.LastCursor, status.LastTaskState).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "syncStateRepository.UpsertStatus").
			Str("entity_type", string(status.EntityType)).
			Msg("failed to upsert sync status")
		return fmt.Errorf("upsert sync status for %s: %w", status.EntityType, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}
	return nil
}

// SaveResult implements [SyncStateRepository]. Only the latest result is
// kept; a new pass replaces the previous record.
func (r *syncStateRepository) SaveResult(ctx context.Context, result models.SyncResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode sync result: %w", err)
	}

	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, "DELETE FROM sync_results"); err != nil {
		return fmt.Errorf("clear previous sync result: %w", err)
	}

	query, args, err := r.builder.
		Insert("sync_results").
		Columns("pass_id", "payload", "created_at").
		Values(result.PassID, string(payload), result.StartedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save sync result: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}
	return nil
}

// LastResult implements [SyncStateRepository].
func (r *syncStateRepository) LastResult(ctx context.Context) (models.SyncResult, error) {
	var payload string
	row := r.QueryRowContext(ctx, "SELECT payload FROM sync_results")
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SyncResult{}, ErrNoSyncResult
		}
		return models.SyncResult{}, fmt.Errorf("read last sync result: %w", err)
	}

	var result models.SyncResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return models.SyncResult{}, fmt.Errorf("decode last sync result: %w", err)
	}
	return result, nil
}

// AcquirePassMarker implements [SyncStateRepository]. The claim is a
// guarded write over the singleton marker row: it succeeds only when the
// row is free or its lease expired, so two processes cannot both hold it.
func (r *syncStateRepository) AcquirePassMarker(ctx context.Context, passID string, now time.Time, lease time.Duration) error {
	log := logger.FromContext(ctx)

	query, args, err := r.builder.
		Update("sync_pass_marker").
		Set("pass_id", passID).
		Set("started_at", now).
		Set("lease_until", now.Add(lease)).
		Where(sq.Eq{"slot": 1}).
		Where(sq.Or{
			sq.Eq{"pass_id": ""},
			sq.Lt{"lease_until": now},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("acquire pass marker: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Debug().
			Str("func", "syncStateRepository.AcquirePassMarker").
			Str("pass_id", passID).
			Msg("pass marker held by an active pass")
		return ErrPassActive
	}
	return nil
}

// ReleasePassMarker implements [SyncStateRepository]. Releasing a marker
// someone else re-acquired after our lease expired is a no-op.
func (r *syncStateRepository) ReleasePassMarker(ctx context.Context, passID string) error {
	query, args, err := r.builder.
		Update("sync_pass_marker").
		Set("pass_id", "").
		Set("started_at", nil).
		Set("lease_until", nil).
		Where(sq.Eq{"slot": 1, "pass_id": passID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("release pass marker: %w", err)
	}
	return nil
}

func scanStatus(row rowScanner) (models.EntitySyncStatus, error) {
	var status models.EntitySyncStatus
	var lastSyncAt sql.NullTime
	var taskState sql.NullString

	err := row.Scan(
		&status.EntityType,
		&status.IsConnected,
		&lastSyncAt,
		&status.PendingChanges,
		&status.LastError,
		&status.LastCursor,
		&taskState,
	)
	if err != nil {
		return models.EntitySyncStatus{}, err
	}

	if lastSyncAt.Valid {
		t := lastSyncAt.Time
		status.LastSyncAt = &t
	}
	if taskState.Valid {
		status.LastTaskState = models.TaskState(taskState.String)
	}

	return status, nil
}
