// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pulse Festival Collective

package service

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/pulsefest/pulse-sync/internal/adapter"
	"github.com/pulsefest/pulse-sync/internal/logger"
	"github.com/pulsefest/pulse-sync/internal/store"
	"github.com/pulsefest/pulse-sync/models"
)

type mutationHandler struct {
	queue     MutationQueue
	resolver  ConflictResolver
	transport adapter.Transport
	net       adapter.Connectivity
	conflicts store.ConflictRepository
	syncState store.SyncStateRepository
	log       *logger.Logger
	hub       *eventHub[models.MutationEvent]

	// join state for callers arriving while a replay runs
	mu     sync.Mutex
	replay *replayRun

	now func() time.Time
}

// replayRun is the join state of one running replay. Its result fields
// are written before done is closed, so a joiner that captured the run
// reads them without the lock and can never observe a later run's
// outcome.
type replayRun struct {
	done chan struct{}
	res  models.ReplayResult
	err  error
}

// NewMutationHandler wires the offline-first write façade.
func NewMutationHandler(
	queue MutationQueue,
	resolver ConflictResolver,
	transport adapter.Transport,
	net adapter.Connectivity,
	conflicts store.ConflictRepository,
	syncState store.SyncStateRepository,
	log *logger.Logger,
) MutationHandler {
	return &mutationHandler{
		queue:     queue,
		resolver:  resolver,
		transport: transport,
		net:       net,
		conflicts: conflicts,
		syncState: syncState,
		log:       log,
		hub:       newEventHub[models.MutationEvent](),
		now:       time.Now,
	}
}

// Record implements [MutationHandler]. The write lands in the durable
// queue unconditionally; connectivity is never consulted.
func (h *mutationHandler) Record(ctx context.Context, entityType models.EntityType, entityID string, op models.Operation, payload models.Payload) (models.Mutation, error) {
	item, err := h.queue.Enqueue(ctx, entityType, entityID, op, payload, 0)
	if err != nil {
		return models.Mutation{}, fmt.Errorf("record mutation: %w", err)
	}

	m := models.MutationFromQueueItem(item)
	h.emit(models.MutationEventAdded, &m, nil)
	return m, nil
}

// Replay implements [MutationHandler]. A call arriving while a replay is
// already draining the queue joins that replay and returns its eventual
// result instead of starting a second one.
func (h *mutationHandler) Replay(ctx context.Context) (models.ReplayResult, error) {
	h.mu.Lock()
	if r := h.replay; r != nil {
		h.mu.Unlock()
		select {
		case <-ctx.Done():
			return models.ReplayResult{}, ctx.Err()
		case <-r.done:
			return r.res, r.err
		}
	}
	r := &replayRun{done: make(chan struct{})}
	h.replay = r
	h.mu.Unlock()

	res, err := h.runReplay(ctx)

	h.mu.Lock()
	h.replay = nil
	h.mu.Unlock()
	r.res, r.err = res, err
	close(r.done)
	return res, err
}

// runReplay drains the queue. Items are claimed in queue order and
// settled one by one; a failure or conflict on an entity blocks the later
// mutations of that same entity for the rest of the run, so writes are
// never applied to the server out of order.
func (h *mutationHandler) runReplay(ctx context.Context) (models.ReplayResult, error) {
	if !h.net.IsOnline() {
		return models.ReplayResult{}, ErrOffline
	}

	res := models.ReplayResult{StartedAt: h.now().UTC()}
	h.emit(models.ReplayEventStarted, nil, nil)

	blocked := make(map[string]bool)
	for {
		if err := ctx.Err(); err != nil {
			break
		}

		batch, err := h.queue.DequeueBatch(ctx)
		if err != nil {
			res.Duration = h.now().UTC().Sub(res.StartedAt)
			return res, fmt.Errorf("replay dequeue: %w", err)
		}
		if len(batch) == 0 {
			break
		}

		for _, item := range batch {
			if ctx.Err() != nil {
				h.settleCancelled(ctx, item)
				continue
			}
			res.Attempted++
			h.replayOne(ctx, item, blocked, &res)
		}
	}

	res.Duration = h.now().UTC().Sub(res.StartedAt)
	h.emit(models.ReplayEventCompleted, nil, &res)
	return res, ctx.Err()
}

func (h *mutationHandler) replayOne(ctx context.Context, item models.QueueItem, blocked map[string]bool, res *models.ReplayResult) {
	key := string(item.EntityType) + "/" + item.EntityID
	if blocked[key] {
		h.fail(ctx, item, fmt.Errorf("blocked by earlier mutation of %s", key), res)
		return
	}

	push, err := h.transport.Push(ctx, pushRequest(item))
	if err != nil {
		blocked[key] = true
		h.fail(ctx, item, err, res)
		return
	}

	if !push.Conflict {
		h.complete(ctx, item, push.ServerID, res)
		return
	}
	if push.ServerSnapshot == nil {
		blocked[key] = true
		h.fail(ctx, item, fmt.Errorf("conflict response without server snapshot"), res)
		return
	}

	h.reconcile(ctx, item, *push.ServerSnapshot, blocked, res)
}

// reconcile handles a version conflict reported by the server: resolve
// against the configured strategy, then either drop the local write,
// push the winning snapshot, or park the item for a user decision.
func (h *mutationHandler) reconcile(ctx context.Context, item models.QueueItem, server models.EntitySnapshot, blocked map[string]bool, res *models.ReplayResult) {
	key := string(item.EntityType) + "/" + item.EntityID
	local := localSnapshot(item)
	checkpoint := h.checkpoint(ctx, item.EntityType)

	verdict := h.resolver.Resolve(local, server, checkpoint)
	switch verdict.Outcome {
	case models.OutcomePending:
		if err := h.conflicts.Save(ctx, item.ID, *verdict.Detail); err != nil {
			blocked[key] = true
			h.fail(ctx, item, fmt.Errorf("save pending conflict: %w", err), res)
			return
		}
		if err := h.queue.MarkFailed(ctx, item.ID, ErrAwaitingResolution); err != nil {
			h.log.Error().Err(err).Str("item", item.ID).Msg("park conflicted item")
		}
		blocked[key] = true
		res.Conflicts++
		m := models.MutationFromQueueItem(item)
		m.Status = models.MutationConflict
		m.ConflictInfo = verdict.Detail
		res.Results = append(res.Results, models.MutationResult{MutationID: item.ID, Status: models.MutationConflict})
		h.emit(models.MutationEventConflict, &m, nil)
		return

	case models.OutcomeResolved, models.OutcomeNoConflict:
		if verdict.Outcome == models.OutcomeResolved {
			res.Conflicts++
		}
		if snapshotEquals(*verdict.Merged, server) {
			// server side won outright; nothing left to push
			h.complete(ctx, item, server.EntityID, res)
			return
		}
		h.pushResolved(ctx, item, *verdict.Merged, server, blocked, res)
	}
}

// pushResolved sends the winning snapshot back with the server's version
// as base. The corrective idempotency key is derived from the item id and
// the version it supersedes so a replayed retry stays idempotent.
func (h *mutationHandler) pushResolved(ctx context.Context, item models.QueueItem, merged, server models.EntitySnapshot, blocked map[string]bool, res *models.ReplayResult) {
	key := string(item.EntityType) + "/" + item.EntityID

	op := models.OpUpdate
	if merged.Deleted {
		op = models.OpDelete
	}
	req := models.PushRequest{
		MutationID:    fmt.Sprintf("%s:r%d", item.ID, server.Version),
		EntityType:    item.EntityType,
		EntityID:      item.EntityID,
		Operation:     op,
		Payload:       merged.Fields,
		BaseVersion:   server.Version,
		ClientStamped: h.now().UTC(),
	}

	push, err := h.transport.Push(ctx, req)
	if err != nil {
		blocked[key] = true
		h.fail(ctx, item, fmt.Errorf("push resolved snapshot: %w", err), res)
		return
	}
	if push.Conflict {
		// server moved again mid-resolution; next replay starts over
		blocked[key] = true
		h.fail(ctx, item, fmt.Errorf("server advanced past version %d during resolution", server.Version), res)
		return
	}
	h.complete(ctx, item, push.ServerID, res)
}

// Reconcile implements [MutationHandler]. It runs between the pull and
// push halves of a pass: only the earliest queued write of each entity is
// judged, because the later ones are rebased onto its outcome during the
// push anyway.
func (h *mutationHandler) Reconcile(ctx context.Context, pulled []models.EntitySnapshot) (int, error) {
	if len(pulled) == 0 {
		return 0, nil
	}

	queued, err := h.queue.List(ctx, models.QueueStatusPending)
	if err != nil {
		return 0, fmt.Errorf("reconcile: list queued writes: %w", err)
	}
	byKey := make(map[string]models.QueueItem, len(queued))
	for _, item := range queued {
		key := string(item.EntityType) + "/" + item.EntityID
		if _, ok := byKey[key]; !ok {
			byKey[key] = item
		}
	}

	settled := 0
	for _, server := range pulled {
		item, ok := byKey[string(server.EntityType)+"/"+server.EntityID]
		if !ok {
			continue
		}

		verdict := h.resolver.Resolve(localSnapshot(item), server, h.checkpoint(ctx, item.EntityType))
		switch verdict.Outcome {
		case models.OutcomePending:
			// surface the conflict now so the user sees it before the push
			// even runs; the item itself stays queued and is parked when the
			// server rejects it
			if serr := h.conflicts.Save(ctx, item.ID, *verdict.Detail); serr != nil {
				h.log.Error().Err(serr).Str("item", item.ID).Msg("save early conflict detail")
				continue
			}
			m := models.MutationFromQueueItem(item)
			m.Status = models.MutationConflict
			m.ConflictInfo = verdict.Detail
			h.emit(models.MutationEventConflict, &m, nil)

		case models.OutcomeResolved:
			if !snapshotEquals(*verdict.Merged, server) {
				// local side won; leave it queued for the push phase
				continue
			}
			if rerr := h.queue.Remove(ctx, item.ID); rerr != nil {
				h.log.Error().Err(rerr).Str("item", item.ID).Msg("drop superseded write")
				continue
			}
			settled++
			h.log.Info().
				Str("item", item.ID).
				Str("entity", string(item.EntityType)+"/"+item.EntityID).
				Msg("queued write superseded by pulled record")
			m := models.MutationFromQueueItem(item)
			m.Status = models.MutationCompleted
			h.emit(models.MutationEventCompleted, &m, nil)
		}
	}
	return settled, nil
}

func (h *mutationHandler) complete(ctx context.Context, item models.QueueItem, serverID string, res *models.ReplayResult) {
	if err := h.queue.MarkCompleted(ctx, item.ID); err != nil {
		h.log.Error().Err(err).Str("item", item.ID).Msg("mark replayed item completed")
		res.Failed++
		res.Results = append(res.Results, models.MutationResult{MutationID: item.ID, Status: models.MutationFailed, Err: err.Error()})
		return
	}
	res.Completed++
	res.Results = append(res.Results, models.MutationResult{MutationID: item.ID, Status: models.MutationCompleted, ServerID: serverID})

	m := models.MutationFromQueueItem(item)
	m.Status = models.MutationCompleted
	h.emit(models.MutationEventCompleted, &m, nil)
}

func (h *mutationHandler) fail(ctx context.Context, item models.QueueItem, cause error, res *models.ReplayResult) {
	if err := h.queue.MarkFailed(ctx, item.ID, cause); err != nil {
		h.log.Error().Err(err).Str("item", item.ID).Msg("mark replayed item failed")
	}
	res.Failed++
	res.Results = append(res.Results, models.MutationResult{MutationID: item.ID, Status: models.MutationFailed, Err: cause.Error()})

	m := models.MutationFromQueueItem(item)
	m.Status = models.MutationFailed
	m.LastError = cause.Error()
	h.emit(models.MutationEventFailed, &m, nil)
}

// settleCancelled puts a claimed-but-unattempted item straight back to
// pending: it was never sent, so no attempt is counted and no backoff
// imposed. The settlement context must survive the cancelled replay
// context.
func (h *mutationHandler) settleCancelled(ctx context.Context, item models.QueueItem) {
	bg := context.WithoutCancel(ctx)
	if err := h.queue.Release(bg, item.ID); err != nil {
		h.log.Error().Err(err).Str("item", item.ID).Msg("settle item after cancel")
	}
}

// checkpoint returns the last successful sync time for an entity type,
// the zero time when it has never synced.
func (h *mutationHandler) checkpoint(ctx context.Context, t models.EntityType) time.Time {
	status, err := h.syncState.GetStatus(ctx, t)
	if err != nil || status.LastSyncAt == nil {
		return time.Time{}
	}
	return *status.LastSyncAt
}

// PendingMutations implements [MutationHandler].
func (h *mutationHandler) PendingMutations(ctx context.Context) ([]models.Mutation, error) {
	items, err := h.queue.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list pending mutations: %w", err)
	}
	pending, err := h.conflicts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending conflicts: %w", err)
	}

	out := make([]models.Mutation, 0, len(items))
	for _, item := range items {
		m := models.MutationFromQueueItem(item)
		if detail, ok := pending[item.ID]; ok {
			d := detail
			m.Status = models.MutationConflict
			m.ConflictInfo = &d
		}
		out = append(out, m)
	}
	return out, nil
}

// RetryMutation implements [MutationHandler].
func (h *mutationHandler) RetryMutation(ctx context.Context, id string) error {
	if err := h.queue.RetryItem(ctx, id); err != nil {
		return fmt.Errorf("retry mutation %s: %w", id, err)
	}
	return nil
}

// CancelMutation implements [MutationHandler].
func (h *mutationHandler) CancelMutation(ctx context.Context, id string) error {
	if err := h.queue.Remove(ctx, id); err != nil {
		return fmt.Errorf("cancel mutation %s: %w", id, err)
	}
	if err := h.conflicts.Delete(ctx, id); err != nil {
		h.log.Debug().Err(err).Str("mutation", id).Msg("no pending conflict to clear")
	}
	return nil
}

// ResolveConflict implements [MutationHandler].
func (h *mutationHandler) ResolveConflict(ctx context.Context, mutationID string, resolution models.Resolution, merged models.Payload) error {
	detail, err := h.conflicts.Get(ctx, mutationID)
	if err != nil {
		return fmt.Errorf("load conflict for mutation %s: %w", mutationID, err)
	}
	item, err := h.queue.Get(ctx, mutationID)
	if err != nil {
		return fmt.Errorf("load mutation %s: %w", mutationID, err)
	}

	switch resolution {
	case models.ResolutionServer, models.ResolutionDiscard:
		// local write is abandoned
	case models.ResolutionLocal:
		if _, err = h.queue.Enqueue(ctx, detail.EntityType, detail.EntityID, item.Operation, item.Payload, item.Priority); err != nil {
			return fmt.Errorf("enqueue local resolution for %s: %w", mutationID, err)
		}
	case models.ResolutionMerge:
		if merged == nil {
			return fmt.Errorf("merge resolution for %s needs a payload: %w", mutationID, ErrInvalidResolution)
		}
		if _, err = h.queue.Enqueue(ctx, detail.EntityType, detail.EntityID, models.OpUpdate, merged, item.Priority); err != nil {
			return fmt.Errorf("enqueue merged resolution for %s: %w", mutationID, err)
		}
	default:
		return fmt.Errorf("resolution %q: %w", resolution, ErrInvalidResolution)
	}

	if err = h.queue.Remove(ctx, mutationID); err != nil {
		return fmt.Errorf("remove resolved mutation %s: %w", mutationID, err)
	}
	if err = h.conflicts.Delete(ctx, mutationID); err != nil {
		return fmt.Errorf("clear resolved conflict %s: %w", mutationID, err)
	}

	m := models.MutationFromQueueItem(item)
	m.Status = models.MutationCompleted
	h.emit(models.MutationEventCompleted, &m, nil)
	return nil
}

// Subscribe implements [MutationHandler].
func (h *mutationHandler) Subscribe(fn func(models.MutationEvent)) func() {
	return h.hub.subscribe(fn)
}

func (h *mutationHandler) emit(kind models.MutationEventKind, m *models.Mutation, replay *models.ReplayResult) {
	h.hub.emit(models.MutationEvent{Kind: kind, Mutation: m, Replay: replay, At: h.now().UTC()})
}

func pushRequest(item models.QueueItem) models.PushRequest {
	req := models.PushRequest{
		MutationID:    item.ID,
		EntityType:    item.EntityType,
		EntityID:      item.EntityID,
		Operation:     item.Operation,
		Payload:       item.Payload,
		ClientStamped: item.CreatedAt,
	}
	if v, ok := item.Payload["version"]; ok {
		switch n := v.(type) {
		case int64:
			req.BaseVersion = n
		case int:
			req.BaseVersion = int64(n)
		case float64:
			req.BaseVersion = int64(n)
		}
	}
	return req
}

func localSnapshot(item models.QueueItem) models.EntitySnapshot {
	created := item.CreatedAt
	return models.EntitySnapshot{
		EntityType: item.EntityType,
		EntityID:   item.EntityID,
		Deleted:    item.Operation == models.OpDelete,
		UpdatedAt:  &created,
		Fields:     item.Payload,
	}
}

func snapshotEquals(a, b models.EntitySnapshot) bool {
	return a.Deleted == b.Deleted && reflect.DeepEqual(a.Fields, b.Fields)
}
