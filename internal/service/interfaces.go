// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pulse Festival Collective

// Package service implements the sync engine's business logic: the
// mutation queue, the conflict resolver, the offline mutation handler,
// the sync manager, and the background sync service. Services depend on
// the store repositories and the transport adapter through interfaces and
// notify observers through typed event hubs instead of being polled.
package service

import (
	"context"
	"time"

	"github.com/pulsefest/pulse-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// MutationQueue is the durable FIFO of local writes awaiting server
// acknowledgement. Ordering is (priority DESC, seq ASC); failed items
// re-enter the queue only through retry, never silently.
type MutationQueue interface {
	// Enqueue validates and durably appends one local write. The item is
	// persisted before Enqueue returns; an error means nothing was recorded.
	Enqueue(ctx context.Context, entityType models.EntityType, entityID string, op models.Operation, payload models.Payload, priority int) (models.QueueItem, error)

	// DequeueBatch claims up to the configured batch of pending items,
	// flipping them to processing. Claimed items must be settled with
	// MarkCompleted or MarkFailed.
	DequeueBatch(ctx context.Context) ([]models.QueueItem, error)

	// MarkCompleted acknowledges a processing item. The item is destroyed;
	// only the completed counter remembers it.
	MarkCompleted(ctx context.Context, id string) error

	// MarkFailed records a failed attempt, schedules the next retry with
	// exponential backoff and full jitter, and flags the item permanent
	// once the attempt cap is reached or cause is known-permanent.
	MarkFailed(ctx context.Context, id string, cause error) error

	// Release puts a claimed item back to pending without counting an
	// attempt. Used for items a cancelled replay claimed but never sent.
	Release(ctx context.Context, id string) error

	// RetryFailed re-arms every non-permanent failed item whose backoff
	// window has elapsed. Returns the number of re-armed items.
	RetryFailed(ctx context.Context) (int64, error)

	// RetryItem explicitly re-arms one failed item, clearing the permanent
	// flag. This is the manual intervention path.
	RetryItem(ctx context.Context, id string) error

	// Remove deletes an item that is not currently processing.
	Remove(ctx context.Context, id string) error

	// Get returns one item by id.
	Get(ctx context.Context, id string) (models.QueueItem, error)

	// List returns items matching status, all items when status is empty.
	List(ctx context.Context, status models.QueueItemStatus) ([]models.QueueItem, error)

	// Stats returns the maintained counters without scanning the queue.
	Stats(ctx context.Context) (models.QueueStats, error)

	// PendingByEntity returns pending item counts per entity type.
	PendingByEntity(ctx context.Context) (map[models.EntityType]int64, error)

	// RecoverStuck re-arms items left processing by a crashed pass. Call
	// once at startup before any replay.
	RecoverStuck(ctx context.Context) (int64, error)

	// Subscribe registers an observer for queue events. The returned
	// function unsubscribes.
	Subscribe(fn func(models.QueueEvent)) (unsubscribe func())
}

// ConflictResolver reconciles a local and a server snapshot of the same
// entity according to the per-entity-type strategy configuration.
type ConflictResolver interface {
	// Detect reports the fields on which local and server genuinely
	// diverged since checkpoint. An empty slice means no conflict: at most
	// one side changed, or both changed identically.
	Detect(local, server models.EntitySnapshot, checkpoint time.Time) []models.FieldChange

	// Resolve applies the configured strategy for the snapshots' entity
	// type. The verdict is OutcomeNoConflict when the sides did not
	// diverge, OutcomeResolved with the winning or merged snapshot, or
	// OutcomePending when the strategy is manual.
	Resolve(local, server models.EntitySnapshot, checkpoint time.Time) models.ConflictResult
}

// MutationHandler is the offline-first write façade the application code
// records through. Writes always land in the queue first; Replay drains
// the queue against the server when a connection exists.
type MutationHandler interface {
	// Record captures one local write for later replay. Never requires
	// connectivity.
	Record(ctx context.Context, entityType models.EntityType, entityID string, op models.Operation, payload models.Payload) (models.Mutation, error)

	// Replay drains the queue against the server: pushes each claimed
	// item, resolves version conflicts via the resolver, and settles every
	// item as completed, failed, or parked in conflict. At most one replay
	// runs at a time; a concurrent call joins the running one and returns
	// its eventual result.
	Replay(ctx context.Context) (models.ReplayResult, error)

	// Reconcile compares freshly pulled server snapshots against queued
	// local writes of the same entities so a pass settles what it can
	// before the push: a server-wins verdict drops the queued write
	// outright, a manual strategy surfaces its conflict detail early, and
	// a local-wins write stays queued for Replay. Returns the number of
	// writes settled here.
	Reconcile(ctx context.Context, pulled []models.EntitySnapshot) (int, error)

	// PendingMutations lists unsettled mutations, conflict details attached.
	PendingMutations(ctx context.Context) ([]models.Mutation, error)

	// RetryMutation re-arms one failed mutation for the next replay.
	RetryMutation(ctx context.Context, id string) error

	// CancelMutation discards one unsettled mutation and its pending
	// conflict, if any.
	CancelMutation(ctx context.Context, id string) error

	// ResolveConflict settles a parked conflict with the user's verdict.
	// ResolutionLocal and ResolutionMerge enqueue a corrective mutation;
	// ResolutionServer and ResolutionDiscard drop the local write.
	ResolveConflict(ctx context.Context, mutationID string, resolution models.Resolution, merged models.Payload) error

	// Subscribe registers an observer for mutation events.
	Subscribe(fn func(models.MutationEvent)) (unsubscribe func())
}

// RecordApplier receives server snapshots pulled during a pass and applies
// them to the application's local datastore. The engine owns cursors and
// conflict handling; how records are materialised is the application's
// concern.
type RecordApplier interface {
	Apply(ctx context.Context, snapshot models.EntitySnapshot) error
}

// SyncManager runs full bidirectional passes through the fixed phase
// pipeline and owns the per-entity cursors.
type SyncManager interface {
	// Sync runs one full pass. If a pass is already running the call
	// joins it and returns that pass's eventual result; at most one pass
	// executes system-wide. Cancelling ctx stops the pass at the next
	// batch boundary; the partial result is still recorded.
	Sync(ctx context.Context) (models.SyncResult, error)

	// RetrySync re-runs only the entity tasks that failed in the previous
	// pass, resuming each from its last good pagination cursor. Returns
	// ErrSyncInProgress while a pass is running.
	RetrySync(ctx context.Context) (models.SyncResult, error)

	// Cancel requests cooperative cancellation of the running pass. No-op
	// when no pass is running.
	Cancel()

	// Phase returns the current phase, PhaseIdle between passes.
	Phase() models.SyncPhase

	// Status returns the per-entity cursor rows.
	Status(ctx context.Context) ([]models.EntitySyncStatus, error)

	// LastResult returns the outcome of the most recent finished pass.
	LastResult(ctx context.Context) (models.SyncResult, error)

	// Subscribe registers an observer for sync events.
	Subscribe(fn func(models.SyncEvent)) (unsubscribe func())
}

// BackgroundSync schedules sync passes without user interaction: on a
// minimum interval, and immediately when connectivity is regained,
// subject to the wifi and charging policy.
type BackgroundSync interface {
	// Start launches the scheduler. Idle until then.
	Start(ctx context.Context)

	// Stop halts the scheduler and waits for any in-flight triggered pass
	// to finish.
	Stop()

	// TriggerNow attempts one pass immediately, still honoring policy.
	// The result says whether a pass ran and, if not, why it was skipped.
	TriggerNow(ctx context.Context) models.BackgroundSyncResult

	// TimeUntilNextSync reports how long the minimum-interval floor still
	// blocks the next pass. Zero when a pass may run now.
	TimeUntilNextSync() time.Duration
}
