// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pulse Festival Collective

package service

import (
	"maps"
	"reflect"
	"sort"
	"time"

	"dario.cat/mergo"

	"github.com/pulsefest/pulse-sync/internal/config"
	"github.com/pulsefest/pulse-sync/internal/logger"
	"github.com/pulsefest/pulse-sync/models"
)

type conflictResolver struct {
	cfg config.Sync
	log *logger.Logger
	now func() time.Time
}

// NewConflictResolver builds the resolver from the per-entity strategy
// configuration.
func NewConflictResolver(cfg config.Sync, log *logger.Logger) ConflictResolver {
	return &conflictResolver{cfg: cfg, log: log, now: time.Now}
}

// Detect implements [ConflictResolver]. A conflict requires BOTH sides to
// have changed after the checkpoint AND at least one field to carry
// different values. Divergent deletion state counts as the synthetic
// field "deleted".
func (r *conflictResolver) Detect(local, server models.EntitySnapshot, checkpoint time.Time) []models.FieldChange {
	if !local.ChangedSince(checkpoint) || !server.ChangedSince(checkpoint) {
		return nil
	}
	if local.Deleted && server.Deleted {
		return nil
	}

	var changes []models.FieldChange
	if local.Deleted != server.Deleted {
		changes = append(changes, models.FieldChange{
			Field:       "deleted",
			LocalValue:  local.Deleted,
			ServerValue: server.Deleted,
		})
	}

	fields := make([]string, 0, len(local.Fields)+len(server.Fields))
	seen := make(map[string]bool, len(local.Fields)+len(server.Fields))
	for f := range local.Fields {
		fields = append(fields, f)
		seen[f] = true
	}
	for f := range server.Fields {
		if !seen[f] {
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)

	for _, f := range fields {
		lv, lok := local.Fields[f]
		sv, sok := server.Fields[f]
		if lok && sok && reflect.DeepEqual(lv, sv) {
			continue
		}
		if !lok && !sok {
			continue
		}
		changes = append(changes, models.FieldChange{
			Field:       f,
			LocalValue:  lv,
			ServerValue: sv,
		})
	}
	return changes
}

// Resolve implements [ConflictResolver].
func (r *conflictResolver) Resolve(local, server models.EntitySnapshot, checkpoint time.Time) models.ConflictResult {
	changes := r.Detect(local, server, checkpoint)
	if len(changes) == 0 {
		merged := server
		if local.ChangedSince(checkpoint) && !server.ChangedSince(checkpoint) {
			merged = local
		}
		return models.ConflictResult{Outcome: models.OutcomeNoConflict, Merged: &merged}
	}

	cfg := r.cfg.ConflictConfigFor(local.EntityType)
	detail := &models.ConflictDetail{
		EntityType:        local.EntityType,
		EntityID:          local.EntityID,
		LocalVersion:      local.Version,
		ServerVersion:     server.Version,
		ConflictingFields: changes,
		Strategy:          cfg.Strategy,
		DetectedAt:        r.now().UTC(),
	}

	r.log.Debug().
		Str("entity_type", string(local.EntityType)).
		Str("entity_id", local.EntityID).
		Str("strategy", string(cfg.Strategy)).
		Int("fields", len(changes)).
		Msg("conflict detected")

	var merged models.EntitySnapshot
	switch cfg.Strategy {
	case models.StrategyManual:
		return models.ConflictResult{Outcome: models.OutcomePending, Detail: detail}
	case models.StrategyServerWins:
		merged = server
	case models.StrategyClientWins:
		merged = local
		merged.Version = server.Version
	case models.StrategyFieldMerge:
		merged = r.fieldMerge(local, server, cfg.MergeRules)
	case models.StrategyLastWriteWins:
		fallthrough
	default:
		merged = r.lastWriteWins(local, server)
	}

	return models.ConflictResult{Outcome: models.OutcomeResolved, Merged: &merged, Detail: detail}
}

// lastWriteWins keeps the side with the strictly newer UpdatedAt. Stamps
// within the clock skew tolerance are treated as simultaneous and the
// server wins; device clocks at a festival drift badly.
func (r *conflictResolver) lastWriteWins(local, server models.EntitySnapshot) models.EntitySnapshot {
	lt := stamp(local.UpdatedAt)
	st := stamp(server.UpdatedAt)

	if lt.Sub(st) > r.cfg.SkewTolerance {
		winner := local
		winner.Version = server.Version
		return winner
	}
	return server
}

// fieldMerge builds a combined snapshot: the union of both field maps,
// with each configured rule deciding its own field. MergePreferChanged
// keeps the side with the newer UpdatedAt since per-field change history
// is not tracked. Fields without a rule follow the server.
func (r *conflictResolver) fieldMerge(local, server models.EntitySnapshot, rules []models.MergeRule) models.EntitySnapshot {
	fields := maps.Clone(server.Fields)
	if fields == nil {
		fields = models.Payload{}
	}
	// union: local-only fields survive the merge
	if err := mergo.Merge(&fields, local.Fields); err != nil {
		r.log.Error().Err(err).Msg("field merge union failed, keeping server fields")
	}

	localNewer := stamp(local.UpdatedAt).Sub(stamp(server.UpdatedAt)) > r.cfg.SkewTolerance
	for _, rule := range rules {
		preferLocal := rule.Prefer == models.MergePreferLocal ||
			(rule.Prefer == models.MergePreferChanged && localNewer)

		if preferLocal {
			if v, ok := local.Fields[rule.Field]; ok {
				fields[rule.Field] = v
			} else {
				delete(fields, rule.Field)
			}
			continue
		}
		if v, ok := server.Fields[rule.Field]; ok {
			fields[rule.Field] = v
		} else {
			delete(fields, rule.Field)
		}
	}

	merged := server
	merged.Fields = fields
	if localNewer {
		merged.UpdatedAt = local.UpdatedAt
	}
	return merged
}

func stamp(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
