package service

import "errors"

var (
	// ErrOffline is returned when an operation needs the festival API and
	// the device has no usable network path.
	ErrOffline = errors.New("device is offline")

	// ErrSyncInProgress is returned by Sync when another pass already
	// holds the mutual exclusion, in this process or another one.
	ErrSyncInProgress = errors.New("sync pass already in progress")

	// ErrUnknownEntityType is returned when a caller names an entity type
	// outside the closed registry.
	ErrUnknownEntityType = errors.New("unknown entity type")

	// ErrInvalidOperation is returned when a recorded mutation carries an
	// operation outside create/update/delete.
	ErrInvalidOperation = errors.New("invalid mutation operation")

	// ErrAwaitingResolution marks a queue item parked behind an unresolved
	// conflict. The queue treats it as permanent: parked items never
	// re-enter replay until ResolveConflict settles them.
	ErrAwaitingResolution = errors.New("awaiting conflict resolution")

	// ErrInvalidResolution is returned by ResolveConflict for a resolution
	// value outside the closed set, or a merge resolution without a payload.
	ErrInvalidResolution = errors.New("invalid conflict resolution")

	// ErrIllegalPhaseTransition is returned when the sync state machine is
	// asked to make a move its transition table forbids.
	ErrIllegalPhaseTransition = errors.New("illegal sync phase transition")
)
