package models

import "time"

// MutationStatus is the lifecycle state of a Mutation. It extends the
// QueueItem state set with a dedicated conflict state: a mutation whose
// replay hit an unresolved conflict is parked, not failed, and waits for
// an explicit user resolution.
type MutationStatus string

const (
	MutationPending    MutationStatus = "pending"
	MutationProcessing MutationStatus = "processing"
	MutationCompleted  MutationStatus = "completed"
	MutationFailed     MutationStatus = "failed"
	MutationConflict   MutationStatus = "conflict"
)

// Terminal reports whether s is a final state requiring no further work.
// conflict is deliberately not terminal: it blocks its own entity until
// resolved, but never any other mutation.
func (s MutationStatus) Terminal() bool {
	return s == MutationCompleted
}

// Mutation is the Offline Mutation Handler's view of one recorded write.
// It maps 1:1 to a QueueItem while unresolved and adds the conflict
// bookkeeping the queue itself does not know about.
type Mutation struct {
	ID           string          `json:"id"`
	EntityType   EntityType      `json:"entity_type"`
	EntityID     string          `json:"entity_id"`
	Operation    Operation       `json:"operation"`
	Payload      Payload         `json:"payload"`
	Status       MutationStatus  `json:"status"`
	AttemptCount int             `json:"attempt_count"`
	LastError    string          `json:"last_error,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	ConflictInfo *ConflictDetail `json:"conflict_info,omitempty"`
}

// MutationFromQueueItem lifts a QueueItem into the handler's Mutation view.
func MutationFromQueueItem(item QueueItem) Mutation {
	return Mutation{
		ID:           item.ID,
		EntityType:   item.EntityType,
		EntityID:     item.EntityID,
		Operation:    item.Operation,
		Payload:      item.Payload,
		Status:       MutationStatus(item.Status),
		AttemptCount: item.AttemptCount,
		LastError:    item.LastError,
		CreatedAt:    item.CreatedAt,
	}
}

// MutationResult is the per-mutation outcome of a replay attempt or a
// manual conflict resolution.
type MutationResult struct {
	MutationID string         `json:"mutation_id"`
	Status     MutationStatus `json:"status"`
	ServerID   string         `json:"server_id,omitempty"`
	Err        string         `json:"error,omitempty"`
}

// ReplayResult summarizes one full drain of the mutation queue.
type ReplayResult struct {
	Attempted int              `json:"attempted"`
	Completed int              `json:"completed"`
	Failed    int              `json:"failed"`
	Conflicts int              `json:"conflicts"`
	Results   []MutationResult `json:"results"`
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration"`
}
