package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/pulsefest/pulse-sync/internal/adapter"
	"github.com/pulsefest/pulse-sync/internal/config"
	"github.com/pulsefest/pulse-sync/internal/logger"
	"github.com/pulsefest/pulse-sync/internal/store"
	"github.com/pulsefest/pulse-sync/models"
)

type mutationQueue struct {
	repo store.QueueRepository
	cfg  config.Sync
	log  *logger.Logger
	hub  *eventHub[models.QueueEvent]

	// injectable for deterministic tests
	now    func() time.Time
	jitter func(max time.Duration) time.Duration
}

// NewMutationQueue wires the durable mutation queue on top of its
// repository.
func NewMutationQueue(repo store.QueueRepository, cfg config.Sync, log *logger.Logger) MutationQueue {
	return &mutationQueue{
		repo: repo,
		cfg:  cfg,
		log:  log,
		hub:  newEventHub[models.QueueEvent](),
		now:  time.Now,
		jitter: func(max time.Duration) time.Duration {
			if max <= 0 {
				return 0
			}
			return rand.N(max)
		},
	}
}

// Enqueue implements [MutationQueue].
func (q *mutationQueue) Enqueue(ctx context.Context, entityType models.EntityType, entityID string, op models.Operation, payload models.Payload, priority int) (models.QueueItem, error) {
	if !models.IsKnownEntityType(entityType) {
		return models.QueueItem{}, fmt.Errorf("enqueue %q: %w", entityType, ErrUnknownEntityType)
	}
	if !op.Valid() {
		return models.QueueItem{}, fmt.Errorf("enqueue %q: %w", op, ErrInvalidOperation)
	}

	item := models.QueueItem{
		ID:         uuid.NewString(),
		EntityType: entityType,
		EntityID:   entityID,
		Operation:  op,
		Payload:    payload,
		Status:     models.QueueStatusPending,
		Priority:   priority,
		CreatedAt:  q.now().UTC(),
	}

	inserted, err := q.repo.Insert(ctx, item)
	if err != nil {
		return models.QueueItem{}, fmt.Errorf("insert queue item: %w", err)
	}

	q.emit(ctx, models.QueueEventAdded, inserted.ID)
	return inserted, nil
}

// DequeueBatch implements [MutationQueue].
func (q *mutationQueue) DequeueBatch(ctx context.Context) ([]models.QueueItem, error) {
	batch := q.cfg.DequeueBatchSize
	if batch <= 0 {
		batch = 25
	}

	items, err := q.repo.ClaimBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("claim queue batch: %w", err)
	}
	return items, nil
}

// MarkCompleted implements [MutationQueue].
func (q *mutationQueue) MarkCompleted(ctx context.Context, id string) error {
	if err := q.repo.MarkCompleted(ctx, id); err != nil {
		return fmt.Errorf("mark queue item %s completed: %w", id, err)
	}
	q.emit(ctx, models.QueueEventCompleted, id)
	return nil
}

// MarkFailed implements [MutationQueue]. The retry delay doubles with
// every attempt from BackoffBase up to BackoffCeiling, with full jitter:
// the stored delay is uniform in (0, computed]. Known-permanent causes
// and exhausted attempt caps flag the item permanent immediately.
func (q *mutationQueue) MarkFailed(ctx context.Context, id string, cause error) error {
	item, err := q.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load queue item %s for failure: %w", id, err)
	}

	attempts := item.AttemptCount + 1
	permanent := attempts >= q.cfg.MaxAttempts ||
		adapter.IsPermanent(cause) ||
		errors.Is(cause, ErrAwaitingResolution)
	nextRetryAt := q.now().UTC().Add(q.backoff(item.AttemptCount))

	if err = q.repo.MarkFailed(ctx, id, cause.Error(), nextRetryAt, permanent); err != nil {
		return fmt.Errorf("mark queue item %s failed: %w", id, err)
	}

	q.log.Warn().
		Str("item", id).
		Int("attempts", attempts).
		Bool("permanent", permanent).
		Time("next_retry_at", nextRetryAt).
		Err(cause).
		Msg("queue item failed")

	q.emit(ctx, models.QueueEventFailed, id)
	return nil
}

// backoff returns the jittered delay for a retry after the given number
// of prior attempts.
func (q *mutationQueue) backoff(priorAttempts int) time.Duration {
	base := q.cfg.BackoffBase
	if base <= 0 {
		base = time.Second
	}
	ceiling := q.cfg.BackoffCeiling
	if ceiling <= 0 {
		ceiling = 5 * time.Minute
	}

	d := base
	for i := 0; i < priorAttempts && d < ceiling; i++ {
		d *= 2
	}
	if d > ceiling {
		d = ceiling
	}
	return q.jitter(d)
}

// Release implements [MutationQueue].
func (q *mutationQueue) Release(ctx context.Context, id string) error {
	if err := q.repo.Release(ctx, id); err != nil {
		return fmt.Errorf("release queue item %s: %w", id, err)
	}
	return nil
}

// RetryFailed implements [MutationQueue].
func (q *mutationQueue) RetryFailed(ctx context.Context) (int64, error) {
	n, err := q.repo.RetryFailed(ctx, q.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("retry failed queue items: %w", err)
	}
	return n, nil
}

// RetryItem implements [MutationQueue].
func (q *mutationQueue) RetryItem(ctx context.Context, id string) error {
	if err := q.repo.RetryItem(ctx, id); err != nil {
		return fmt.Errorf("retry queue item %s: %w", id, err)
	}
	return nil
}

// Remove implements [MutationQueue].
func (q *mutationQueue) Remove(ctx context.Context, id string) error {
	if err := q.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove queue item %s: %w", id, err)
	}
	q.emit(ctx, models.QueueEventCleared, id)
	return nil
}

// Get implements [MutationQueue].
func (q *mutationQueue) Get(ctx context.Context, id string) (models.QueueItem, error) {
	item, err := q.repo.Get(ctx, id)
	if err != nil {
		return models.QueueItem{}, fmt.Errorf("get queue item %s: %w", id, err)
	}
	return item, nil
}

// List implements [MutationQueue].
func (q *mutationQueue) List(ctx context.Context, status models.QueueItemStatus) ([]models.QueueItem, error) {
	items, err := q.repo.List(ctx, store.QueueFilter{Status: status})
	if err != nil {
		return nil, fmt.Errorf("list queue items: %w", err)
	}
	return items, nil
}

// Stats implements [MutationQueue].
func (q *mutationQueue) Stats(ctx context.Context) (models.QueueStats, error) {
	stats, err := q.repo.Stats(ctx)
	if err != nil {
		return models.QueueStats{}, fmt.Errorf("queue stats: %w", err)
	}
	return stats, nil
}

// PendingByEntity implements [MutationQueue].
func (q *mutationQueue) PendingByEntity(ctx context.Context) (map[models.EntityType]int64, error) {
	counts, err := q.repo.PendingByEntity(ctx)
	if err != nil {
		return nil, fmt.Errorf("pending by entity: %w", err)
	}
	return counts, nil
}

// RecoverStuck implements [MutationQueue].
func (q *mutationQueue) RecoverStuck(ctx context.Context) (int64, error) {
	n, err := q.repo.ResetStuckProcessing(ctx)
	if err != nil {
		return 0, fmt.Errorf("recover stuck queue items: %w", err)
	}
	if n > 0 {
		q.log.Info().Int64("items", n).Msg("re-armed items left processing by a previous run")
	}
	return n, nil
}

// Subscribe implements [MutationQueue].
func (q *mutationQueue) Subscribe(fn func(models.QueueEvent)) func() {
	return q.hub.subscribe(fn)
}

func (q *mutationQueue) emit(ctx context.Context, kind models.QueueEventKind, itemID string) {
	stats, err := q.repo.Stats(ctx)
	if err != nil {
		q.log.Debug().Err(err).Msg("queue stats unavailable for event")
	}
	q.hub.emit(models.QueueEvent{
		Kind:   kind,
		ItemID: itemID,
		Stats:  stats,
		At:     q.now().UTC(),
	})
}
