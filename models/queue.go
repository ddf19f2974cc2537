// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pulse Festival Collective

package models

import "time"

// Operation is the kind of local write recorded in a QueueItem.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

// Valid reports whether op is one of the three closed Operation values.
func (op Operation) Valid() bool {
	return op == OpCreate || op == OpUpdate || op == OpDelete
}

// QueueItemStatus is the durable state of a QueueItem. Transitions are
// forward-only: pending → processing → {completed | failed}. A failed item
// may be re-armed to pending, but only by an explicit retry — see
// [QueueItemStatus.CanTransition].
type QueueItemStatus string

const (
	QueueStatusPending    QueueItemStatus = "pending"
	QueueStatusProcessing QueueItemStatus = "processing"
	QueueStatusCompleted  QueueItemStatus = "completed"
	QueueStatusFailed     QueueItemStatus = "failed"
)

// CanTransition reports whether moving from s to next is a legal status
// transition. failed → pending is legal because explicit retry re-arms
// failed items; every other backward move is rejected.
func (s QueueItemStatus) CanTransition(next QueueItemStatus) bool {
	switch s {
	case QueueStatusPending:
		return next == QueueStatusProcessing
	case QueueStatusProcessing:
		return next == QueueStatusCompleted || next == QueueStatusFailed
	case QueueStatusFailed:
		return next == QueueStatusPending
	default:
		return false
	}
}

// Payload is an opaque key/value snapshot of the fields a local write touched.
// Keys are entity field names; values are whatever the caller recorded.
type Payload map[string]any

// QueueItem is one durable record of a pending local write.
//
// Seq is assigned by the store on insert and is strictly monotonic; it is
// the FIFO tie-break within a priority class. NextRetryAt is only set on
// failed items and gates when RetryFailed may re-arm them.
type QueueItem struct {
	ID           string          `json:"id"`
	Seq          int64           `json:"seq"`
	EntityType   EntityType      `json:"entity_type"`
	EntityID     string          `json:"entity_id"`
	Operation    Operation       `json:"operation"`
	Payload      Payload         `json:"payload"`
	Status       QueueItemStatus `json:"status"`
	Priority     int             `json:"priority"`
	AttemptCount int             `json:"attempt_count"`
	Permanent    bool            `json:"permanent"`
	LastError    string          `json:"last_error,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	NextRetryAt  *time.Time      `json:"next_retry_at,omitempty"`
}

// QueueStats is the O(1) counter snapshot maintained alongside the queue.
type QueueStats struct {
	Pending    int64 `json:"pending"`
	Processing int64 `json:"processing"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
}
