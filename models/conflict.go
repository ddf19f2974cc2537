package models

import "time"

// ConflictStrategy selects how the Conflict Resolver reconciles a detected
// conflict for one entity type.
type ConflictStrategy string

const (
	// StrategyLastWriteWins compares UpdatedAt timestamps and keeps the
	// newer side. Ties (including timestamps within the configured clock
	// skew tolerance) are broken in favor of the server.
	StrategyLastWriteWins ConflictStrategy = "last_write_wins"

	// StrategyServerWins always keeps the server snapshot.
	StrategyServerWins ConflictStrategy = "server_wins"

	// StrategyClientWins always keeps the local snapshot.
	StrategyClientWins ConflictStrategy = "client_wins"

	// StrategyFieldMerge applies the per-field MergeRules and merges the
	// untouched remainder of both snapshots.
	StrategyFieldMerge ConflictStrategy = "field_merge"

	// StrategyManual never auto-resolves; the resolver always returns a
	// pending conflict for the user to settle.
	StrategyManual ConflictStrategy = "manual"
)

// Valid reports whether s is one of the closed ConflictStrategy values.
func (s ConflictStrategy) Valid() bool {
	switch s {
	case StrategyLastWriteWins, StrategyServerWins, StrategyClientWins,
		StrategyFieldMerge, StrategyManual:
		return true
	}
	return false
}

// MergeSide names which side of a conflict a MergeRule prefers.
type MergeSide string

const (
	MergePreferLocal   MergeSide = "local"
	MergePreferServer  MergeSide = "server"
	MergePreferChanged MergeSide = "changed"
)

// MergeRule is one declarative field-merge instruction: for Field, keep
// the named side. MergePreferChanged keeps whichever side diverged from
// the checkpoint value; if both diverged it falls back to the server.
type MergeRule struct {
	Field  string    `json:"field"`
	Prefer MergeSide `json:"prefer"`
}

// EntityConflictConfig configures conflict resolution for one entity type.
// MergeRules is only consulted when Strategy is StrategyFieldMerge.
type EntityConflictConfig struct {
	EntityType EntityType       `json:"entity_type"`
	Strategy   ConflictStrategy `json:"strategy"`
	MergeRules []MergeRule      `json:"merge_rules,omitempty"`
}

// Resolution is the user's (or strategy's) final verdict on a conflict.
type Resolution string

const (
	ResolutionLocal   Resolution = "local"
	ResolutionServer  Resolution = "server"
	ResolutionMerge   Resolution = "merge"
	ResolutionDiscard Resolution = "discard"
)

// ConflictDetail describes one detected conflict in full: both versions,
// the diverged fields, and the strategy that was applied (or is pending).
type ConflictDetail struct {
	EntityType        EntityType       `json:"entity_type"`
	EntityID          string           `json:"entity_id"`
	LocalVersion      int64            `json:"local_version"`
	ServerVersion     int64            `json:"server_version"`
	ConflictingFields []FieldChange    `json:"conflicting_fields"`
	Strategy          ConflictStrategy `json:"strategy"`
	DetectedAt        time.Time        `json:"detected_at"`
}

// ConflictOutcome is the closed set of decisions Resolve can reach.
type ConflictOutcome string

const (
	// OutcomeNoConflict means the two sides did not actually diverge
	// (at most one side changed, or both deleted); Merged carries the
	// snapshot to apply, which may be either input unchanged.
	OutcomeNoConflict ConflictOutcome = "no_conflict"

	// OutcomeResolved means a real conflict existed and the strategy
	// produced a winning or merged snapshot.
	OutcomeResolved ConflictOutcome = "resolved"

	// OutcomePending means the conflict could not be auto-resolved and
	// awaits a user decision via ResolveConflict.
	OutcomePending ConflictOutcome = "pending"
)

// ConflictResult is the Conflict Resolver's verdict for one entity.
// Merged is set unless Outcome is OutcomePending; Detail is set whenever
// a real conflict was detected, resolved or not.
type ConflictResult struct {
	Outcome ConflictOutcome `json:"outcome"`
	Merged  *EntitySnapshot `json:"merged,omitempty"`
	Detail  *ConflictDetail `json:"detail,omitempty"`
}
