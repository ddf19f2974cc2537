// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pulse Festival Collective

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

const queueColumns = "id, seq, entity_type, entity_id, operation, payload, status, priority, attempt_count, permanent, last_error, created_at, next_retry_at"

type queueRepository struct {
	*DB
	logger *logger.Logger
}

// NewQueueRepository constructs the durable Mutation Queue store over db.
func NewQueueRepository(db *DB, log *logger.Logger) QueueRepository {
	return &queueRepository{DB: db, logger: log}
}

// Insert implements [QueueRepository]. The whole append, including the
// pending-counter bump, happens inside one transaction; on return the item
// is durable and carries its assigned sequence number.
func (r *queueRepository) Insert(ctx context.Context, item models.QueueItem) (models.QueueItem, error) {
	log := logger.FromContext(ctx)

	payload, err := json.Marshal(item.Payload)
	if err != nil {
		return models.QueueItem{}, fmt.Errorf("encode queue item payload: %w", err)
	}

	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		return models.QueueItem{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := r.builder.
		Insert("queue_items").
		Columns("id", "entity_type", "entity_id", "operation", "payload",
			"status", "priority", "attempt_count", "permanent", "last_error", "created_at").
		Values(item.ID, item.EntityType, item.EntityID, item.Operation, string(payload),
			item.Status, item.Priority, item.AttemptCount, item.Permanent, item.LastError, item.CreatedAt).
		ToSql()
	if err != nil {
		return models.QueueItem{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "queueRepository.Insert").
			Str("item_id", item.ID).
			Msg("failed to insert queue item")
		return models.QueueItem{}, fmt.Errorf("insert queue item %s: %w", item.ID, err)
	}

	if err = r.bumpCounter(ctx, tx, item.Status, 1); err != nil {
		return models.QueueItem{}, err
	}

	row := tx.QueryRowContext(ctx, "SELECT seq FROM queue_items WHERE id = "+r.placeholder(1), item.ID)
	if err = row.Scan(&item.Seq); err != nil {
		return models.QueueItem{}, fmt.Errorf("read back queue item seq: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return models.QueueItem{}, fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return item, nil
}

// ClaimBatch implements [QueueRepository]. Each candidate is claimed with a
// guarded UPDATE (status = pending), so a row only belongs to the caller
// whose update actually flipped it; a concurrent claimer that lost the race
// sees zero affected rows and skips the item.
func (r *queueRepository) ClaimBatch(ctx context.Context, maxItems int) ([]models.QueueItem, error) {
	log := logger.FromContext(ctx)

	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := r.builder.
		Select("id").
		From("queue_items").
		Where(sq.Eq{"status": models.QueueStatusPending}).
		OrderBy("priority DESC", "seq ASC").
		Limit(uint64(maxItems)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select pending queue items: %w", err)
	}

	var candidates []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan pending queue item id: %w", err)
		}
		candidates = append(candidates, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending queue items: %w", err)
	}
	rows.Close()

	claimed := make([]string, 0, len(candidates))
	for _, id := range candidates {
		query, args, err = r.builder.
			Update("queue_items").
			Set("status", models.QueueStatusProcessing).
			Where(sq.Eq{"id": id, "status": models.QueueStatusPending}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			log.Err(err).
				Str("func", "queueRepository.ClaimBatch").
				Str("item_id", id).
				Msg("failed to claim queue item")
			return nil, fmt.Errorf("claim queue item %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 1 {
			claimed = append(claimed, id)
		}
	}

	if len(claimed) == 0 {
		if err = tx.Commit(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
		}
		return nil, nil
	}

	if err = r.bumpCounter(ctx, tx, models.QueueStatusPending, -int64(len(claimed))); err != nil {
		return nil, err
	}
	if err = r.bumpCounter(ctx, tx, models.QueueStatusProcessing, int64(len(claimed))); err != nil {
		return nil, err
	}

	query, args, err = r.builder.
		Select(queueColumns).
		From("queue_items").
		Where(sq.Eq{"id": claimed}).
		OrderBy("priority DESC", "seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	items, err := r.scanItems(ctx, tx, query, args)
	if err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}

	return items, nil
}

// MarkCompleted implements [QueueRepository]. The acknowledged row is
// destroyed; only the completed counter remembers it.
func (r *queueRepository) MarkCompleted(ctx context.Context, id string) error {
	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := r.builder.
		Delete("queue_items").
		Where(sq.Eq{"id": id, "status": models.QueueStatusProcessing}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("complete queue item %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.transitionFailure(ctx, tx, id)
	}

	if err = r.bumpCounter(ctx, tx, models.QueueStatusProcessing, -1); err != nil {
		return err
	}
	if err = r.bumpCounter(ctx, tx, models.QueueStatusCompleted, 1); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}
	return nil
}

// MarkFailed implements [QueueRepository].
func (r *queueRepository) MarkFailed(ctx context.Context, id string, errMsg string, nextRetryAt time.Time, permanent bool) error {
	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := r.builder.
		Update("queue_items").
		Set("status", models.QueueStatusFailed).
		Set("attempt_count", sq.Expr("attempt_count + 1")).
		Set("last_error", errMsg).
		Set("next_retry_at", nextRetryAt).
		Set("permanent", permanent).
		Where(sq.Eq{"id": id, "status": models.QueueStatusProcessing}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("fail queue item %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.transitionFailure(ctx, tx, id)
	}

	if err = r.bumpCounter(ctx, tx, models.QueueStatusProcessing, -1); err != nil {
		return err
	}
	if err = r.bumpCounter(ctx, tx, models.QueueStatusFailed, 1); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}
	return nil
}

// Release implements [QueueRepository]. Unlike MarkFailed the attempt
// count and retry schedule stay untouched: the claim is undone, not the
// outcome of a send.
func (r *queueRepository) Release(ctx context.Context, id string) error {
	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := r.builder.
		Update("queue_items").
		Set("status", models.QueueStatusPending).
		Where(sq.Eq{"id": id, "status": models.QueueStatusProcessing}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("release queue item %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.transitionFailure(ctx, tx, id)
	}

	if err = r.bumpCounter(ctx, tx, models.QueueStatusProcessing, -1); err != nil {
		return err
	}
	if err = r.bumpCounter(ctx, tx, models.QueueStatusPending, 1); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}
	return nil
}

// RetryFailed implements [QueueRepository].
func (r *queueRepository) RetryFailed(ctx context.Context, now time.Time) (int64, error) {
	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := r.builder.
		Update("queue_items").
		Set("status", models.QueueStatusPending).
		Set("next_retry_at", nil).
		Where(sq.Eq{"status": models.QueueStatusFailed, "permanent": false}).
		Where(sq.LtOrEq{"next_retry_at": now}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("re-arm failed queue items: %w", err)
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		if err = r.bumpCounter(ctx, tx, models.QueueStatusFailed, -n); err != nil {
			return 0, err
		}
		if err = r.bumpCounter(ctx, tx, models.QueueStatusPending, n); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}
	return n, nil
}

// RetryItem implements [QueueRepository].
func (r *queueRepository) RetryItem(ctx context.Context, id string) error {
	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := r.builder.
		Update("queue_items").
		Set("status", models.QueueStatusPending).
		Set("permanent", false).
		Set("next_retry_at", nil).
		Where(sq.Eq{"id": id, "status": models.QueueStatusFailed}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("re-arm queue item %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return r.transitionFailure(ctx, tx, id)
	}

	if err = r.bumpCounter(ctx, tx, models.QueueStatusFailed, -1); err != nil {
		return err
	}
	if err = r.bumpCounter(ctx, tx, models.QueueStatusPending, 1); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}
	return nil
}

// Delete implements [QueueRepository]. Claimed items cannot be removed;
// the caller must wait for the replay outcome first.
func (r *queueRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	item, err := r.getTx(ctx, tx, id)
	if err != nil {
		return err
	}
	if item.Status == models.QueueStatusProcessing {
		return ErrItemProcessing
	}

	query, args, err := r.builder.
		Delete("queue_items").
		Where(sq.Eq{"id": id, "status": item.Status}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete queue item %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Status moved under us; the item is being processed after all.
		return ErrItemProcessing
	}

	if err = r.bumpCounter(ctx, tx, item.Status, -1); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}
	return nil
}

// Get implements [QueueRepository].
func (r *queueRepository) Get(ctx context.Context, id string) (models.QueueItem, error) {
	return r.getTx(ctx, r.DB.DB, id)
}

// List implements [QueueRepository].
func (r *queueRepository) List(ctx context.Context, filter QueueFilter) ([]models.QueueItem, error) {
	b := r.builder.
		Select(queueColumns).
		From("queue_items").
		OrderBy("priority DESC", "seq ASC")

	if filter.Status != "" {
		b = b.Where(sq.Eq{"status": filter.Status})
	}
	if filter.EntityType != "" {
		b = b.Where(sq.Eq{"entity_type": filter.EntityType})
	}
	if filter.EntityID != "" {
		b = b.Where(sq.Eq{"entity_id": filter.EntityID})
	}
	if filter.Limit > 0 {
		b = b.Limit(filter.Limit)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.scanItems(ctx, r.DB.DB, query, args)
}

// Stats implements [QueueRepository]. Counters are maintained in the same
// transaction as every status change, so this is a four-row read.
func (r *queueRepository) Stats(ctx context.Context) (models.QueueStats, error) {
	rows, err := r.QueryContext(ctx, "SELECT status, count FROM queue_counters")
	if err != nil {
		return models.QueueStats{}, fmt.Errorf("read queue counters: %w", err)
	}
	defer rows.Close()

	var stats models.QueueStats
	for rows.Next() {
		var status models.QueueItemStatus
		var count int64
		if err = rows.Scan(&status, &count); err != nil {
			return models.QueueStats{}, fmt.Errorf("scan queue counter: %w", err)
		}
		switch status {
		case models.QueueStatusPending:
			stats.Pending = count
		case models.QueueStatusProcessing:
			stats.Processing = count
		case models.QueueStatusCompleted:
			stats.Completed = count
		case models.QueueStatusFailed:
			stats.Failed = count
		}
	}
	if err = rows.Err(); err != nil {
		return models.QueueStats{}, fmt.Errorf("iterate queue counters: %w", err)
	}

	return stats, nil
}

// PendingByEntity implements [QueueRepository].
func (r *queueRepository) PendingByEntity(ctx context.Context) (map[models.EntityType]int64, error) {
	query, args, err := r.builder.
		Select("entity_type", "COUNT(*)").
		From("queue_items").
		Where(sq.Eq{"status": models.QueueStatusPending}).
		GroupBy("entity_type").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count pending by entity: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.EntityType]int64)
	for rows.Next() {
		var entityType models.EntityType
		var count int64
		if err = rows.Scan(&entityType, &count); err != nil {
			return nil, fmt.Errorf("scan pending count: %w", err)
		}
		counts[entityType] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending counts: %w", err)
	}

	return counts, nil
}

// ResetStuckProcessing implements [QueueRepository].
func (r *queueRepository) ResetStuckProcessing(ctx context.Context) (int64, error) {
	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := r.builder.
		Update("queue_items").
		Set("status", models.QueueStatusPending).
		Where(sq.Eq{"status": models.QueueStatusProcessing}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reset stuck processing items: %w", err)
	}

	n, _ := res.RowsAffected()
	if n > 0 {
		if err = r.bumpCounter(ctx, tx, models.QueueStatusProcessing, -n); err != nil {
			return 0, err
		}
		if err = r.bumpCounter(ctx, tx, models.QueueStatusPending, n); err != nil {
			return 0, err
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}
	return n, nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

// queryer covers both *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *queueRepository) getTx(ctx context.Context, q queryer, id string) (models.QueueItem, error) {
	query, args, err := r.builder.
		Select(queueColumns).
		From("queue_items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.QueueItem{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	item, err := scanItem(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.QueueItem{}, ErrQueueItemNotFound
	}
	if err != nil {
		return models.QueueItem{}, fmt.Errorf("get queue item %s: %w", id, err)
	}
	return item, nil
}

// transitionFailure turns a zero-rows-affected guarded write into the
// precise sentinel: the item either does not exist or sits in a status the
// transition is illegal from.
func (r *queueRepository) transitionFailure(ctx context.Context, q queryer, id string) error {
	if _, err := r.getTx(ctx, q, id); err != nil {
		return err
	}
	return ErrIllegalTransition
}

func (r *queueRepository) scanItems(ctx context.Context, q queryer, query string, args []any) ([]models.QueueItem, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query queue items: %w", err)
	}
	defer rows.Close()

	var items []models.QueueItem
	for rows.Next() {
		item, err := scanItemRows(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queue items: %w", err)
	}

	return items, nil
}

func (r *queueRepository) bumpCounter(ctx context.Context, tx *sql.Tx, status models.QueueItemStatus, delta int64) error {
	query, args, err := r.builder.
		Update("queue_counters").
		Set("count", sq.Expr("count + ?", delta)).
		Where(sq.Eq{"status": status}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("bump %s counter: %w", status, err)
	}
	return nil
}

// placeholder returns the n-th positional placeholder for the active
// dialect ("?" for SQLite, "$n" for Postgres).
func (r *queueRepository) placeholder(n int) string {
	if r.dialect == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (models.QueueItem, error) {
	var item models.QueueItem
	var payload string
	var nextRetryAt sql.NullTime

	err := row.Scan(
		&item.ID,
		&item.Seq,
		&item.EntityType,
		&item.EntityID,
		&item.Operation,
		&payload,
		&item.Status,
		&item.Priority,
		&item.AttemptCount,
		&item.Permanent,
		&item.LastError,
		&item.CreatedAt,
		&nextRetryAt,
	)
	if err != nil {
		return models.QueueItem{}, err
	}

	if payload != "" {
		if err = json.Unmarshal([]byte(payload), &item.Payload); err != nil {
			return models.QueueItem{}, fmt.Errorf("decode queue item payload: %w", err)
		}
	}
	if nextRetryAt.Valid {
		t := nextRetryAt.Time
		item.NextRetryAt = &t
	}

	return item, nil
}

func scanItemRows(rows *sql.Rows) (models.QueueItem, error) {
	item, err := scanItem(rows)
	if err != nil {
		return models.QueueItem{}, fmt.Errorf("scan queue item row: %w", err)
	}
	return item, nil
}
