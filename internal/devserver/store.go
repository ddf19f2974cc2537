// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pulse Festival Collective

package devserver

import (
	"maps"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/pulsefest/pulse-sync/models"
)

// memoryStore is the devserver's entity store. Every applied mutation
// bumps the record version by one, and every mutation ID is remembered
// together with its original outcome so a replayed push answers
// identically without touching the data again.
type memoryStore struct {
	mu      sync.Mutex
	records map[models.EntityType]map[string]models.EntitySnapshot
	applied map[string]models.PushResult
	now     func() time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records: make(map[models.EntityType]map[string]models.EntitySnapshot),
		applied: make(map[string]models.PushResult),
		now:     time.Now,
	}
}

// Apply executes one push request. Conflicts are reported through the
// result, not an error: the caller answers 409 with the result body so
// the client receives the current server snapshot in the same round trip.
func (s *memoryStore) Apply(req models.PushRequest) models.PushResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prior, ok := s.applied[req.MutationID]; ok {
		return prior
	}

	byID, ok := s.records[req.EntityType]
	if !ok {
		byID = make(map[string]models.EntitySnapshot)
		s.records[req.EntityType] = byID
	}

	current, exists := byID[req.EntityID]
	if exists && current.Version > req.BaseVersion && stampAfter(current, req.ClientStamped) {
		snap := cloneSnapshot(current)
		result := models.PushResult{
			Conflict:       true,
			ServerID:       current.EntityID,
			ServerVersion:  current.Version,
			ServerSnapshot: &snap,
		}
		s.applied[req.MutationID] = result
		return result
	}

	next := models.EntitySnapshot{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		Version:    current.Version + 1,
		Fields:     make(models.Payload),
	}
	if exists {
		maps.Copy(next.Fields, current.Fields)
	}

	switch req.Operation {
	case models.OpDelete:
		next.Deleted = true
	default:
		maps.Copy(next.Fields, req.Payload)
	}

	stamped := s.now().UTC()
	next.UpdatedAt = &stamped
	byID[req.EntityID] = next

	result := models.PushResult{
		Success:       true,
		ServerID:      next.EntityID,
		ServerVersion: next.Version,
	}
	s.applied[req.MutationID] = result
	return result
}

// List pages the records of one entity type changed strictly after since.
// Ordering is by update time, entity ID as the tie breaker, so cursors
// stay stable across pages. The cursor is an offset into that ordering.
func (s *memoryStore) List(entityType models.EntityType, since *time.Time, cursor string, limit int) models.PullPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.EntitySnapshot
	for _, snap := range s.records[entityType] {
		if since != nil && !stampAfter(snap, *since) {
			continue
		}
		matched = append(matched, cloneSnapshot(snap))
	}

	sort.Slice(matched, func(i, j int) bool {
		si, sj := stamp(matched[i]), stamp(matched[j])
		if si.Equal(sj) {
			return matched[i].EntityID < matched[j].EntityID
		}
		return si.Before(sj)
	})

	offset, _ := strconv.Atoi(cursor)
	if offset < 0 || offset > len(matched) {
		offset = len(matched)
	}
	if limit <= 0 {
		limit = defaultPullLimit
	}

	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	page := models.PullPage{
		Records: matched[offset:end],
		Total:   len(matched),
	}
	if end < len(matched) {
		page.NextCursor = strconv.Itoa(end)
	}
	return page
}

// Seed installs a snapshot directly, bypassing version checks. Used by
// tests and by the devserver's fixture loader.
func (s *memoryStore) Seed(snap models.EntitySnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.records[snap.EntityType]
	if !ok {
		byID = make(map[string]models.EntitySnapshot)
		s.records[snap.EntityType] = byID
	}

	if snap.UpdatedAt == nil {
		stamped := s.now().UTC()
		snap.UpdatedAt = &stamped
	}
	byID[snap.EntityID] = cloneSnapshot(snap)
}

func cloneSnapshot(snap models.EntitySnapshot) models.EntitySnapshot {
	out := snap
	out.Fields = maps.Clone(snap.Fields)
	if snap.UpdatedAt != nil {
		stamped := *snap.UpdatedAt
		out.UpdatedAt = &stamped
	}
	return out
}

func stamp(snap models.EntitySnapshot) time.Time {
	if snap.UpdatedAt == nil {
		return time.Time{}
	}
	return *snap.UpdatedAt
}

func stampAfter(snap models.EntitySnapshot, t time.Time) bool {
	return stamp(snap).After(t)
}
