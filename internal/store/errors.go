package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known
// failure conditions. Callers should use [errors.Is] to match against
// these values.
var (
	// ErrQueueItemNotFound is returned when a queue operation targets an
	// item id that does not exist in the durable store.
	ErrQueueItemNotFound = errors.New("queue item not found")

	// ErrItemProcessing is returned when a delete or re-arm targets an item
	// that is currently claimed by a replay; the caller must wait for the
	// item's outcome.
	ErrItemProcessing = errors.New("queue item is being processed")

	// ErrIllegalTransition is returned when a status change would move an
	// item backward (e.g. completing an item that was never claimed).
	ErrIllegalTransition = errors.New("illegal queue item status transition")

	// ErrPassActive is returned by AcquirePassMarker when another pass
	// holds a fresh durable marker, meaning a sync is already running
	// (possibly in another process).
	ErrPassActive = errors.New("a sync pass is already active")

	// ErrNoSyncResult is returned when no pass has completed yet and no
	// last result exists.
	ErrNoSyncResult = errors.New("no sync result recorded")

	// ErrConflictNotFound is returned when a conflict lookup or resolution
	// targets a mutation id with no pending conflict.
	ErrConflictNotFound = errors.New("pending conflict not found")

	// ErrRecordNotFound is returned when a replica cache lookup targets an
	// entity that was never pulled.
	ErrRecordNotFound = errors.New("cached record not found")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain
// logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommittingTransaction is returned when committing an open
	// transaction fails. The transaction is considered rolled back.
	ErrCommittingTransaction = errors.New("failed to commit transaction")
)
