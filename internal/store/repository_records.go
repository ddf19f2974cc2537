package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/pulsefest/pulse-sync/internal/logger"
	"github.com/pulsefest/pulse-sync/models"
)

type recordRepository struct {
	*DB
	logger *logger.Logger
}

// NewRecordRepository constructs the local replica cache over db.
func NewRecordRepository(db *DB, log *logger.Logger) RecordRepository {
	return &recordRepository{DB: db, logger: log}
}

// Apply implements [RecordRepository]. Older snapshots are ignored so a
// re-pulled page cannot roll the replica backwards.
func (r *recordRepository) Apply(ctx context.Context, snap models.EntitySnapshot) error {
	fields, err := json.Marshal(snap.Fields)
	if err != nil {
		return fmt.Errorf("encode record fields: %w", err)
	}

	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := r.builder.
		Select("version").
		From("entity_records").
		Where(sq.Eq{"entity_type": snap.EntityType, "entity_id": snap.EntityID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var current int64
	err = tx.QueryRowContext(ctx, query, args...).Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		query, args, err = r.builder.
			Insert("entity_records").
			Columns("entity_type", "entity_id", "version", "deleted", "updated_at", "fields").
			Values(snap.EntityType, snap.EntityID, snap.Version, snap.Deleted, snap.UpdatedAt, string(fields)).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert record %s/%s: %w", snap.EntityType, snap.EntityID, err)
		}
	case err != nil:
		return fmt.Errorf("read record version %s/%s: %w", snap.EntityType, snap.EntityID, err)
	case current >= snap.Version:
		r.logger.Debug().
			Str("entity_type", string(snap.EntityType)).
			Str("entity_id", snap.EntityID).
			Int64("cached", current).
			Int64("pulled", snap.Version).
			Msg("skipping stale snapshot")
		return tx.Commit()
	default:
		query, args, err = r.builder.
			Update("entity_records").
			Set("version", snap.Version).
			Set("deleted", snap.Deleted).
			Set("updated_at", snap.UpdatedAt).
			Set("fields", string(fields)).
			Where(sq.Eq{"entity_type": snap.EntityType, "entity_id": snap.EntityID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("update record %s/%s: %w", snap.EntityType, snap.EntityID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}
	return nil
}

// Get implements [RecordRepository].
func (r *recordRepository) Get(ctx context.Context, entityType models.EntityType, entityID string) (models.EntitySnapshot, error) {
	query, args, err := r.builder.
		Select("version", "deleted", "updated_at", "fields").
		From("entity_records").
		Where(sq.Eq{"entity_type": entityType, "entity_id": entityID}).
		ToSql()
	if err != nil {
		return models.EntitySnapshot{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	snap := models.EntitySnapshot{EntityType: entityType, EntityID: entityID}
	var fields string
	err = r.QueryRowContext(ctx, query, args...).
		Scan(&snap.Version, &snap.Deleted, &snap.UpdatedAt, &fields)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.EntitySnapshot{}, ErrRecordNotFound
		}
		return models.EntitySnapshot{}, fmt.Errorf("get record %s/%s: %w", entityType, entityID, err)
	}

	if fields != "" {
		if err = json.Unmarshal([]byte(fields), &snap.Fields); err != nil {
			return models.EntitySnapshot{}, fmt.Errorf("decode record fields %s/%s: %w", entityType, entityID, err)
		}
	}
	return snap, nil
}

// ListByType implements [RecordRepository].
func (r *recordRepository) ListByType(ctx context.Context, entityType models.EntityType) ([]models.EntitySnapshot, error) {
	query, args, err := r.builder.
		Select("entity_id", "version", "deleted", "updated_at", "fields").
		From("entity_records").
		Where(sq.Eq{"entity_type": entityType}).
		OrderBy("entity_id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list records %s: %w", entityType, err)
	}
	defer rows.Close()

	var snaps []models.EntitySnapshot
	for rows.Next() {
		snap := models.EntitySnapshot{EntityType: entityType}
		var fields string
		if err = rows.Scan(&snap.EntityID, &snap.Version, &snap.Deleted, &snap.UpdatedAt, &fields); err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		if fields != "" {
			if err = json.Unmarshal([]byte(fields), &snap.Fields); err != nil {
				return nil, fmt.Errorf("decode record fields %s/%s: %w", entityType, snap.EntityID, err)
			}
		}
		snaps = append(snaps, snap)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	return snaps, nil
}
