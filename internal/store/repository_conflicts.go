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

type conflictRepository struct {
	*DB
	logger *logger.Logger
}

// NewConflictRepository constructs the pending-conflict store over db.
func NewConflictRepository(db *DB, log *logger.Logger) ConflictRepository {
	return &conflictRepository{DB: db, logger: log}
}

// Save implements [ConflictRepository].
func (r *conflictRepository) Save(ctx context.Context, mutationID string, detail models.ConflictDetail) error {
	payload, err := json.Marshal(detail)
	if err != nil {
		return fmt.Errorf("encode conflict detail: %w", err)
	}

	tx, err := r.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	query, args, err := r.builder.
		Delete("pending_conflicts").
		Where(sq.Eq{"mutation_id": mutationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("replace pending conflict %s: %w", mutationID, err)
	}

	query, args, err = r.builder.
		Insert("pending_conflicts").
		Columns("mutation_id", "detail", "created_at").
		Values(mutationID, string(payload), time.Now()).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save pending conflict %s: %w", mutationID, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %w", ErrCommittingTransaction, err)
	}
	return nil
}

// Get implements [ConflictRepository].
func (r *conflictRepository) Get(ctx context.Context, mutationID string) (models.ConflictDetail, error) {
	query, args, err := r.builder.
		Select("detail").
		From("pending_conflicts").
		Where(sq.Eq{"mutation_id": mutationID}).
		ToSql()
	if err != nil {
		return models.ConflictDetail{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var payload string
	if err = r.QueryRowContext(ctx, query, args...).Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ConflictDetail{}, ErrConflictNotFound
		}
		return models.ConflictDetail{}, fmt.Errorf("get pending conflict %s: %w", mutationID, err)
	}

	var detail models.ConflictDetail
	if err = json.Unmarshal([]byte(payload), &detail); err != nil {
		return models.ConflictDetail{}, fmt.Errorf("decode pending conflict %s: %w", mutationID, err)
	}
	return detail, nil
}

// List implements [ConflictRepository].
func (r *conflictRepository) List(ctx context.Context) (map[string]models.ConflictDetail, error) {
	rows, err := r.QueryContext(ctx, "SELECT mutation_id, detail FROM pending_conflicts")
	if err != nil {
		return nil, fmt.Errorf("list pending conflicts: %w", err)
	}
	defer rows.Close()

	conflicts := make(map[string]models.ConflictDetail)
	for rows.Next() {
		var mutationID, payload string
		if err = rows.Scan(&mutationID, &payload); err != nil {
			return nil, fmt.Errorf("scan pending conflict row: %w", err)
		}

		var detail models.ConflictDetail
		if err = json.Unmarshal([]byte(payload), &detail); err != nil {
			return nil, fmt.Errorf("decode pending conflict %s: %w", mutationID, err)
		}
		conflicts[mutationID] = detail
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending conflicts: %w", err)
	}

	return conflicts, nil
}

// Delete implements [ConflictRepository].
func (r *conflictRepository) Delete(ctx context.Context, mutationID string) error {
	query, args, err := r.builder.
		Delete("pending_conflicts").
		Where(sq.Eq{"mutation_id": mutationID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete pending conflict %s: %w", mutationID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrConflictNotFound
	}
	return nil
}
