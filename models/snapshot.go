package models

import "time"

// EntitySnapshot is one side's view of a single entity record: the full
// field map plus the versioning metadata the Conflict Resolver needs.
// UpdatedAt is nil when the side has never touched the record.
type EntitySnapshot struct {
	EntityType EntityType `json:"entity_type"`
	EntityID   string     `json:"entity_id"`
	Version    int64      `json:"version"`
	Deleted    bool       `json:"deleted"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
	Fields     Payload    `json:"fields"`
}

// FieldChange records that a single field diverged between the local and
// server snapshots. Base carries the value at the last common checkpoint
// so a resolver or a user can see which side actually moved.
type FieldChange struct {
	Field       string `json:"field"`
	Base        any    `json:"base,omitempty"`
	LocalValue  any    `json:"local_value"`
	ServerValue any    `json:"server_value"`
}

// ChangedSince reports whether the snapshot carries an UpdatedAt strictly
// after the given checkpoint. A nil UpdatedAt means the side never changed
// the record.
func (s EntitySnapshot) ChangedSince(checkpoint time.Time) bool {
	return s.UpdatedAt != nil && s.UpdatedAt.After(checkpoint)
}
