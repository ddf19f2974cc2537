package models

import "time"

// SyncPhase is the Sync Manager's state machine. Phases advance in strict
// order; CanTransition is the single source of truth for legal moves.
type SyncPhase string

const (
	PhaseIdle               SyncPhase = "idle"
	PhasePreparing          SyncPhase = "preparing"
	PhaseAuthenticating     SyncPhase = "authenticating"
	PhasePulling            SyncPhase = "pulling"
	PhaseResolvingConflicts SyncPhase = "resolving_conflicts"
	PhasePushing            SyncPhase = "pushing"
	PhaseFinalizing         SyncPhase = "finalizing"
	PhaseCompleted          SyncPhase = "completed"
	PhaseFailed             SyncPhase = "failed"
)

// CanTransition reports whether moving from p to next is legal. Any
// non-terminal phase may jump to failed (fatal abort); forward movement
// otherwise follows the fixed pipeline order.
func (p SyncPhase) CanTransition(next SyncPhase) bool {
	if next == PhaseFailed {
		return p != PhaseCompleted && p != PhaseFailed
	}
	order := map[SyncPhase]SyncPhase{
		PhaseIdle:               PhasePreparing,
		PhasePreparing:          PhaseAuthenticating,
		PhaseAuthenticating:     PhasePulling,
		PhasePulling:            PhaseResolvingConflicts,
		PhaseResolvingConflicts: PhasePushing,
		PhasePushing:            PhaseFinalizing,
		PhaseFinalizing:         PhaseCompleted,
	}
	return order[p] == next
}

// TaskState is the state of a single SyncTask inside a pass.
type TaskState string

const (
	TaskPending   TaskState = "pending"
	TaskRunning   TaskState = "running"
	TaskCompleted TaskState = "completed"
	TaskFailed    TaskState = "failed"
)

// SyncTask is one unit of work inside a pass, scoped to a single entity
// type. Cursor carries the pagination cursor of the last successful batch
// so retryFailedSync can resume where the task stopped.
type SyncTask struct {
	EntityType EntityType `json:"entity_type"`
	State      TaskState  `json:"state"`
	Pulled     int        `json:"pulled"`
	Pushed     int        `json:"pushed"`
	Cursor     string     `json:"cursor,omitempty"`
	Err        string     `json:"error,omitempty"`
}

// SyncProgressError is one accumulated per-entity error inside a pass.
// Fatal errors abort the pass; non-fatal ones are collected here.
type SyncProgressError struct {
	EntityType EntityType `json:"entity_type"`
	Phase      SyncPhase  `json:"phase"`
	Message    string     `json:"message"`
	Fatal      bool       `json:"fatal"`
}

// SyncResult is the immutable outcome record of one pass. It is produced
// exactly once per pass and retained as the last result until the next
// pass completes.
type SyncResult struct {
	PassID    string              `json:"pass_id"`
	Success   bool                `json:"success"`
	Cancelled bool                `json:"cancelled"`
	Pulled    int                 `json:"pulled"`
	Pushed    int                 `json:"pushed"`
	Conflicts int                 `json:"conflicts"`
	Errors    []SyncProgressError `json:"errors,omitempty"`
	StartedAt time.Time           `json:"started_at"`
	Duration  time.Duration       `json:"duration"`
}

// EntitySyncStatus is the per-entity-type cursor. Mutated only by the
// Sync Manager at phase boundaries. LastCursor and LastTaskState let
// retryFailedSync resume a failed task from its last good batch instead
// of restarting the pull from LastSyncAt.
type EntitySyncStatus struct {
	EntityType     EntityType `json:"entity_type"`
	IsConnected    bool       `json:"is_connected"`
	LastSyncAt     *time.Time `json:"last_sync_at,omitempty"`
	PendingChanges int64      `json:"pending_changes"`
	LastError      string     `json:"last_error,omitempty"`
	LastCursor     string     `json:"last_cursor,omitempty"`
	LastTaskState  TaskState  `json:"last_task_state,omitempty"`
}

// SyncProgress is the payload of a progress event during pulling.
// EstimatedTimeRemaining is computed from a moving average of per-batch
// durations and is zero until at least one batch has finished.
type SyncProgress struct {
	EntityType             EntityType    `json:"entity_type"`
	TotalItems             int           `json:"total_items"`
	ProcessedItems         int           `json:"processed_items"`
	CurrentBatch           int           `json:"current_batch"`
	TotalBatches           int           `json:"total_batches"`
	EstimatedTimeRemaining time.Duration `json:"estimated_time_remaining"`
}

// BatchConfig bounds how many records one pull page requests.
type BatchConfig struct {
	BatchSize int `json:"batch_size"`
}

// BackgroundSyncConfig configures the Background Sync Service.
// MinInterval is a floor, not a target: the OS scheduler or connectivity
// may delay a tick well past it.
type BackgroundSyncConfig struct {
	MinInterval      time.Duration `json:"min_interval"`
	RequiresWifi     bool          `json:"requires_wifi"`
	RequiresCharging bool          `json:"requires_charging"`
}

// BackgroundSyncResult is the outcome of one background trigger.
type BackgroundSyncResult struct {
	Triggered bool        `json:"triggered"`
	Skipped   string      `json:"skipped,omitempty"` // reason when not triggered
	Result    *SyncResult `json:"result,omitempty"`
}
