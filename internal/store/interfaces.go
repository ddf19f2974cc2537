// Package store implements the durable persistence layer of the sync
// engine: the mutation queue, per-entity sync cursors, the last pass
// result, pending conflicts, and the cross-process pass marker.
//
// Two database drivers are supported behind the same [DB] handle: SQLite
// for handheld scanners and POS terminals, and Postgres (via the pgx
// stdlib driver) for fixed gate-controller installs. All SQL is built with
// squirrel using the placeholder format of the active driver.
package store

import (
	"context"
	"time"

	"github.com/pulsefest/pulse-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// QueueFilter narrows List results. Zero values mean "no constraint".
type QueueFilter struct {
	Status     models.QueueItemStatus
	EntityType models.EntityType
	EntityID   string
	Limit      uint64
}

// QueueRepository is the durable store behind the Mutation Queue. Every
// mutating method persists before returning; an error means nothing was
// recorded and the caller is expected to retry the call.
type QueueRepository interface {
	// Insert durably appends a new item and assigns its monotonic sequence
	// number. The returned item carries the assigned Seq.
	Insert(ctx context.Context, item models.QueueItem) (models.QueueItem, error)

	// ClaimBatch atomically selects up to maxItems pending items ordered by
	// (priority DESC, seq ASC) and flips them to processing in the same
	// transaction. Two concurrent callers never receive the same item.
	ClaimBatch(ctx context.Context, maxItems int) ([]models.QueueItem, error)

	// MarkCompleted finalizes a processing item: the completed counter is
	// incremented and the row is destroyed (the server acknowledged the
	// write; nothing remains to replay). Returns ErrIllegalTransition if
	// the item is not processing.
	MarkCompleted(ctx context.Context, id string) error

	// MarkFailed moves a processing item to failed, increments its attempt
	// count, records errMsg and the next allowed retry time, and flags the
	// item permanent when the attempt cap is exceeded.
	MarkFailed(ctx context.Context, id string, errMsg string, nextRetryAt time.Time, permanent bool) error

	// Release returns one processing item to pending without counting an
	// attempt: the claim is undone, not the outcome of a send. Returns
	// ErrIllegalTransition if the item is not processing.
	Release(ctx context.Context, id string) error

	// RetryFailed re-arms every non-permanent failed item whose backoff
	// window has elapsed at now. Returns the number of re-armed items.
	RetryFailed(ctx context.Context, now time.Time) (int64, error)

	// RetryItem explicitly re-arms one failed item regardless of its
	// backoff window, clearing the permanent flag. Manual retry is the
	// needs-manual-intervention path for permanently failed items.
	RetryItem(ctx context.Context, id string) error

	// Delete removes an item that is not processing. Returns
	// ErrItemProcessing when the item is claimed, ErrQueueItemNotFound
	// when it does not exist.
	Delete(ctx context.Context, id string) error

	// Get returns one item by id.
	Get(ctx context.Context, id string) (models.QueueItem, error)

	// List returns items matching the filter ordered by (priority DESC,
	// seq ASC).
	List(ctx context.Context, filter QueueFilter) ([]models.QueueItem, error)

	// Stats returns the maintained O(1) counters; no table scan happens.
	Stats(ctx context.Context) (models.QueueStats, error)

	// PendingByEntity returns the number of pending items per entity type.
	PendingByEntity(ctx context.Context) (map[models.EntityType]int64, error)

	// ResetStuckProcessing re-arms every processing item back to pending.
	// Called once at startup: a processing item at boot was claimed by a
	// pass that died mid-replay.
	ResetStuckProcessing(ctx context.Context) (int64, error)
}

// SyncStateRepository persists the Sync Manager's durable state: one
// cursor row per entity type, the last pass result, and the pass-active
// marker that extends the in-process mutual exclusion across restarts.
type SyncStateRepository interface {
	// GetStatus returns the cursor row for one entity type. A type never
	// synced yet yields a zero status with the type filled in.
	GetStatus(ctx context.Context, entityType models.EntityType) (models.EntitySyncStatus, error)

	// ListStatuses returns all cursor rows.
	ListStatuses(ctx context.Context) ([]models.EntitySyncStatus, error)

	// UpsertStatus writes one cursor row.
	UpsertStatus(ctx context.Context, status models.EntitySyncStatus) error

	// SaveResult stores result as the new last pass outcome.
	SaveResult(ctx context.Context, result models.SyncResult) error

	// LastResult returns the most recently saved pass outcome, or
	// ErrNoSyncResult when no pass has finished yet.
	LastResult(ctx context.Context) (models.SyncResult, error)

	// AcquirePassMarker claims the durable pass marker for passID. A fresh
	// marker held by another pass yields ErrPassActive; a marker whose
	// lease expired (holder crashed) is superseded.
	AcquirePassMarker(ctx context.Context, passID string, now time.Time, lease time.Duration) error

	// ReleasePassMarker releases the marker if passID still holds it.
	ReleasePassMarker(ctx context.Context, passID string) error
}

// ConflictRepository persists pending conflicts so an unresolved conflict
// survives an app kill. Keyed by mutation id (1:1 with the queue item).
type ConflictRepository interface {
	// Save stores or replaces the pending conflict for a mutation.
	Save(ctx context.Context, mutationID string, detail models.ConflictDetail) error

	// Get returns the pending conflict for one mutation.
	Get(ctx context.Context, mutationID string) (models.ConflictDetail, error)

	// List returns all pending conflicts.
	List(ctx context.Context) (map[string]models.ConflictDetail, error)

	// Delete removes a resolved conflict.
	Delete(ctx context.Context, mutationID string) error
}

// RecordRepository is a local replica cache of server records. It doubles
// as the Sync Manager's record applier on installs where no richer app
// datastore sits behind the engine (the syncd daemon).
type RecordRepository interface {
	// Apply upserts one pulled snapshot. A snapshot older than the cached
	// version is a no-op.
	Apply(ctx context.Context, snap models.EntitySnapshot) error

	// Get returns the cached snapshot of one entity.
	Get(ctx context.Context, entityType models.EntityType, entityID string) (models.EntitySnapshot, error)

	// ListByType returns all cached snapshots of one entity type,
	// tombstones included.
	ListByType(ctx context.Context, entityType models.EntityType) ([]models.EntitySnapshot, error)
}

// Storages bundles the concrete repositories the services are wired with.
type Storages struct {
	Queue     QueueRepository
	SyncState SyncStateRepository
	Conflicts ConflictRepository
	Records   RecordRepository
}
