package models

import "time"

// QueueEventKind enumerates the events the Mutation Queue emits so
// observers can react without polling.
type QueueEventKind string

const (
	QueueEventAdded     QueueEventKind = "added"
	QueueEventCompleted QueueEventKind = "completed"
	QueueEventFailed    QueueEventKind = "failed"
	QueueEventCleared   QueueEventKind = "cleared"
)

// QueueEvent is one Mutation Queue notification.
type QueueEvent struct {
	Kind   QueueEventKind `json:"kind"`
	ItemID string         `json:"item_id,omitempty"`
	Stats  QueueStats     `json:"stats"`
	At     time.Time      `json:"at"`
}

// MutationEventKind enumerates the Offline Mutation Handler's events.
// These are the only integration surface consumed by UI-facing code.
type MutationEventKind string

const (
	MutationEventAdded     MutationEventKind = "mutation_added"
	MutationEventCompleted MutationEventKind = "mutation_completed"
	MutationEventFailed    MutationEventKind = "mutation_failed"
	MutationEventConflict  MutationEventKind = "mutation_conflict"
	ReplayEventStarted     MutationEventKind = "replay_started"
	ReplayEventCompleted   MutationEventKind = "replay_completed"
)

// MutationEvent is one Offline Mutation Handler notification. Mutation is
// set for per-mutation events; Replay is set for replay_completed.
type MutationEvent struct {
	Kind     MutationEventKind `json:"kind"`
	Mutation *Mutation         `json:"mutation,omitempty"`
	Replay   *ReplayResult     `json:"replay,omitempty"`
	At       time.Time         `json:"at"`
}

// SyncEventKind enumerates the Sync Manager's events.
type SyncEventKind string

const (
	SyncEventPhaseChange   SyncEventKind = "phase_change"
	SyncEventProgress      SyncEventKind = "progress"
	SyncEventTaskStarted   SyncEventKind = "task_started"
	SyncEventTaskCompleted SyncEventKind = "task_completed"
	SyncEventTaskFailed    SyncEventKind = "task_failed"
	SyncEventCompleted     SyncEventKind = "sync_completed"
	SyncEventFailed        SyncEventKind = "sync_failed"
)

// SyncEvent is one Sync Manager notification. Exactly the fields relevant
// to Kind are populated.
type SyncEvent struct {
	Kind     SyncEventKind `json:"kind"`
	Phase    SyncPhase     `json:"phase,omitempty"`
	Task     *SyncTask     `json:"task,omitempty"`
	Progress *SyncProgress `json:"progress,omitempty"`
	Result   *SyncResult   `json:"result,omitempty"`
	At       time.Time     `json:"at"`
}
