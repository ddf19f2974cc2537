// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pulse Festival Collective

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pulsefest/pulse-sync/internal/adapter"
	"github.com/pulsefest/pulse-sync/internal/config"
	"github.com/pulsefest/pulse-sync/internal/logger"
	"github.com/pulsefest/pulse-sync/internal/store"
	"github.com/pulsefest/pulse-sync/models"
)

// authRefreshWindow is how close to expiry a bearer token may get before
// the authenticating phase refreshes it proactively.
const authRefreshWindow = time.Minute

type syncManager struct {
	queue     MutationQueue
	handler   MutationHandler
	transport adapter.Transport
	net       adapter.Connectivity
	syncState store.SyncStateRepository
	applier   RecordApplier
	cfg       config.Sync
	log       *logger.Logger
	hub       *eventHub[models.SyncEvent]

	mu      sync.Mutex
	running bool
	phase   models.SyncPhase
	cancel  context.CancelFunc
	pass    *syncPass

	now func() time.Time
}

// syncPass is the join state of one running pass. Its result fields are
// written before done is closed, so a joiner that captured the pass reads
// them without the lock and can never observe a later pass's outcome.
type syncPass struct {
	done chan struct{}
	res  models.SyncResult
	err  error
}

// NewSyncManager wires the pass orchestrator. applier receives every
// pulled server record; the engine does not own the app's datastore.
func NewSyncManager(
	queue MutationQueue,
	handler MutationHandler,
	transport adapter.Transport,
	net adapter.Connectivity,
	syncState store.SyncStateRepository,
	applier RecordApplier,
	cfg config.Sync,
	log *logger.Logger,
) SyncManager {
	return &syncManager{
		queue:     queue,
		handler:   handler,
		transport: transport,
		net:       net,
		syncState: syncState,
		applier:   applier,
		cfg:       cfg,
		log:       log,
		hub:       newEventHub[models.SyncEvent](),
		phase:     models.PhaseIdle,
		now:       time.Now,
	}
}

// Sync implements [SyncManager]. A call arriving while a pass is already
// running joins that pass and returns its eventual result instead of
// starting a second one.
func (m *syncManager) Sync(ctx context.Context) (models.SyncResult, error) {
	return m.runPass(ctx, false, true)
}

// RetrySync implements [SyncManager].
func (m *syncManager) RetrySync(ctx context.Context) (models.SyncResult, error) {
	return m.runPass(ctx, true, false)
}

// Cancel implements [SyncManager].
func (m *syncManager) Cancel() {
	m.mu.Lock()
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Phase implements [SyncManager].
func (m *syncManager) Phase() models.SyncPhase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Status implements [SyncManager].
func (m *syncManager) Status(ctx context.Context) ([]models.EntitySyncStatus, error) {
	statuses, err := m.syncState.ListStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sync statuses: %w", err)
	}
	return statuses, nil
}

// LastResult implements [SyncManager].
func (m *syncManager) LastResult(ctx context.Context) (models.SyncResult, error) {
	res, err := m.syncState.LastResult(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("last sync result: %w", err)
	}
	return res, nil
}

// Subscribe implements [SyncManager].
func (m *syncManager) Subscribe(fn func(models.SyncEvent)) func() {
	return m.hub.subscribe(fn)
}

func (m *syncManager) runPass(ctx context.Context, onlyFailed, join bool) (models.SyncResult, error) {
	m.mu.Lock()
	if m.running {
		if !join {
			m.mu.Unlock()
			return models.SyncResult{}, ErrSyncInProgress
		}
		p := m.pass
		m.mu.Unlock()

		select {
		case <-ctx.Done():
			return models.SyncResult{}, ctx.Err()
		case <-p.done:
			return p.res, p.err
		}
	}
	passCtx, cancel := context.WithCancel(ctx)
	p := &syncPass{done: make(chan struct{})}
	m.running = true
	m.cancel = cancel
	m.pass = p
	m.mu.Unlock()

	res := models.SyncResult{
		PassID:    uuid.NewString(),
		StartedAt: m.now().UTC(),
	}
	err := m.execute(passCtx, &res, onlyFailed)
	res.Duration = m.now().UTC().Sub(res.StartedAt)
	res.Success = err == nil && !res.Cancelled

	m.persistResult(ctx, res)

	cancel()
	m.mu.Lock()
	m.running = false
	m.cancel = nil
	m.pass = nil
	m.phase = models.PhaseIdle
	m.mu.Unlock()
	p.res, p.err = res, err
	close(p.done)

	if err != nil {
		m.emit(models.SyncEvent{Kind: models.SyncEventFailed, Phase: models.PhaseFailed, Result: &res})
		return res, err
	}
	m.emit(models.SyncEvent{Kind: models.SyncEventCompleted, Phase: models.PhaseCompleted, Result: &res})
	return res, nil
}

// execute drives one pass through the fixed phase pipeline. Any returned
// error is fatal for the pass; per-entity failures are accumulated in
// res.Errors instead.
func (m *syncManager) execute(ctx context.Context, res *models.SyncResult, onlyFailed bool) error {
	// preparing
	if err := m.transition(models.PhasePreparing); err != nil {
		return err
	}
	if !m.net.IsOnline() {
		m.toFailed()
		return ErrOffline
	}
	if err := m.syncState.AcquirePassMarker(ctx, res.PassID, m.now().UTC(), m.cfg.PassLease); err != nil {
		m.toFailed()
		if errors.Is(err, store.ErrPassActive) {
			return fmt.Errorf("%w: durable marker held", ErrSyncInProgress)
		}
		return fmt.Errorf("acquire pass marker: %w", err)
	}
	defer func() {
		bg := context.WithoutCancel(ctx)
		if err := m.syncState.ReleasePassMarker(bg, res.PassID); err != nil {
			m.log.Error().Err(err).Str("pass", res.PassID).Msg("release pass marker")
		}
	}()

	tasks, err := m.buildTasks(ctx, onlyFailed)
	if err != nil {
		m.toFailed()
		return err
	}

	// authenticating
	if err = m.transition(models.PhaseAuthenticating); err != nil {
		return err
	}
	if adapter.TokenNeedsRefresh(m.transport.Token(), authRefreshWindow) {
		if err = m.transport.Authenticate(ctx); err != nil {
			m.toFailed()
			return fmt.Errorf("refresh device token: %w", err)
		}
	}

	// pulling
	if err = m.transition(models.PhasePulling); err != nil {
		return err
	}
	dirty, err := m.dirtyKeys(ctx)
	if err != nil {
		m.toFailed()
		return err
	}
	contested := make(map[string]models.EntitySnapshot)
	completed := make(map[models.EntityType]bool, len(tasks))
	for i := range tasks {
		if ctx.Err() != nil {
			res.Cancelled = true
			break
		}
		task := &tasks[i]
		m.pullEntity(ctx, task, res, dirty, contested)
		completed[task.EntityType] = task.State == models.TaskCompleted
	}

	// resolving_conflicts: judge pulled records against the queued local
	// writes of the same entities, then re-arm items whose backoff elapsed
	// so the push phase gets a complete queue
	if err = m.transition(models.PhaseResolvingConflicts); err != nil {
		return err
	}
	if !res.Cancelled {
		if len(contested) > 0 {
			snapshots := make([]models.EntitySnapshot, 0, len(contested))
			for _, snap := range contested {
				snapshots = append(snapshots, snap)
			}
			settled, rerr := m.handler.Reconcile(ctx, snapshots)
			if rerr != nil {
				m.log.Warn().Err(rerr).Msg("reconcile pulled records against queue")
			}
			res.Conflicts += settled
		}
		if rearmed, rerr := m.queue.RetryFailed(ctx); rerr != nil {
			m.log.Warn().Err(rerr).Msg("re-arm failed items before push")
		} else if rearmed > 0 {
			m.log.Info().Int64("items", rearmed).Msg("re-armed failed items for push")
		}
	}

	// pushing
	if err = m.transition(models.PhasePushing); err != nil {
		return err
	}
	if !res.Cancelled {
		replay, rerr := m.handler.Replay(ctx)
		res.Pushed = replay.Completed
		res.Conflicts += replay.Conflicts
		if replay.Failed > 0 {
			res.Errors = append(res.Errors, models.SyncProgressError{
				Phase:   models.PhasePushing,
				Message: fmt.Sprintf("%d mutations failed to replay", replay.Failed),
			})
		}
		switch {
		case rerr == nil:
		case errors.Is(rerr, context.Canceled) || errors.Is(rerr, context.DeadlineExceeded):
			res.Cancelled = true
		case errors.Is(rerr, ErrOffline):
			m.toFailed()
			return rerr
		default:
			m.toFailed()
			return fmt.Errorf("push phase: %w", rerr)
		}
	}

	// finalizing
	if err = m.transition(models.PhaseFinalizing); err != nil {
		return err
	}
	m.finalize(ctx, res, tasks, completed)

	return m.transition(models.PhaseCompleted)
}

// buildTasks topologically orders the entity registry so no entity type
// is pulled before its dependencies. With onlyFailed set, only the tasks
// whose previous run failed are kept, each resuming from its recorded
// cursor.
func (m *syncManager) buildTasks(ctx context.Context, onlyFailed bool) ([]models.SyncTask, error) {
	ordered, err := orderTasks(models.KnownEntityTypes())
	if err != nil {
		return nil, err
	}

	if !onlyFailed {
		return ordered, nil
	}

	statuses, err := m.syncState.ListStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load statuses for retry: %w", err)
	}
	failed := make(map[models.EntityType]string)
	for _, st := range statuses {
		if st.LastTaskState == models.TaskFailed {
			failed[st.EntityType] = st.LastCursor
		}
	}

	retry := ordered[:0]
	for _, t := range ordered {
		if cursor, ok := failed[t.EntityType]; ok {
			t.Cursor = cursor
			retry = append(retry, t)
		}
	}
	return retry, nil
}

// orderTasks topologically sorts the entity descriptors. A dependency
// cycle or a dependency on an unregistered type is fatal: the registry is
// misconfigured and no safe pull order exists.
func orderTasks(descriptors []models.EntityDescriptor) ([]models.SyncTask, error) {
	byType := make(map[models.EntityType]models.EntityDescriptor, len(descriptors))
	for _, d := range descriptors {
		byType[d.Type] = d
	}

	ordered := make([]models.SyncTask, 0, len(descriptors))
	visited := make(map[models.EntityType]bool, len(descriptors))
	onStack := make(map[models.EntityType]bool, len(descriptors))
	var visit func(d models.EntityDescriptor) error
	visit = func(d models.EntityDescriptor) error {
		if onStack[d.Type] {
			return fmt.Errorf("entity registry: dependency cycle through %s", d.Type)
		}
		if visited[d.Type] {
			return nil
		}
		visited[d.Type] = true
		onStack[d.Type] = true
		for _, dep := range d.DependsOn {
			dd, ok := byType[dep]
			if !ok {
				return fmt.Errorf("entity registry: %s depends on unknown type %s", d.Type, dep)
			}
			if err := visit(dd); err != nil {
				return err
			}
		}
		onStack[d.Type] = false
		ordered = append(ordered, models.SyncTask{EntityType: d.Type, State: models.TaskPending})
		return nil
	}
	for _, d := range descriptors {
		if err := visit(d); err != nil {
			return nil, err
		}
	}
	return ordered, nil
}

// dirtyKeys indexes the entities with a queued local write so the pull
// phase can mark their server records as contested.
func (m *syncManager) dirtyKeys(ctx context.Context) (map[string]bool, error) {
	queued, err := m.queue.List(ctx, models.QueueStatusPending)
	if err != nil {
		return nil, fmt.Errorf("list queued writes: %w", err)
	}
	keys := make(map[string]bool, len(queued))
	for _, item := range queued {
		keys[string(item.EntityType)+"/"+item.EntityID] = true
	}
	return keys, nil
}

// pullEntity pulls all pages for one task, applying every record and
// emitting progress with an estimated time remaining from a moving
// average of batch durations. Records of entities with a queued local
// write land in contested, latest snapshot per entity, for the resolving
// phase. Task failures are non-fatal for the pass.
func (m *syncManager) pullEntity(ctx context.Context, task *models.SyncTask, res *models.SyncResult, dirty map[string]bool, contested map[string]models.EntitySnapshot) {
	task.State = models.TaskRunning
	m.emit(models.SyncEvent{Kind: models.SyncEventTaskStarted, Phase: models.PhasePulling, Task: task})

	status, err := m.syncState.GetStatus(ctx, task.EntityType)
	if err != nil {
		m.failTask(ctx, task, res, fmt.Errorf("load cursor: %w", err))
		return
	}

	batchSize := m.cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 100
	}

	cursor := task.Cursor
	batchNum := 0
	var avgBatch time.Duration
	for {
		if ctx.Err() != nil {
			res.Cancelled = true
			m.rememberCursor(ctx, task, cursor)
			return
		}

		batchStart := m.now()
		page, perr := m.transport.Pull(ctx, models.PullRequest{
			EntityType: task.EntityType,
			Since:      status.LastSyncAt,
			Cursor:     cursor,
			Limit:      batchSize,
		})
		if perr != nil {
			m.rememberCursor(ctx, task, cursor)
			m.failTask(ctx, task, res, perr)
			return
		}

		for _, rec := range page.Records {
			if aerr := m.applier.Apply(ctx, rec); aerr != nil {
				m.rememberCursor(ctx, task, cursor)
				m.failTask(ctx, task, res, fmt.Errorf("apply %s/%s: %w", rec.EntityType, rec.EntityID, aerr))
				return
			}
			if key := string(rec.EntityType) + "/" + rec.EntityID; dirty[key] {
				contested[key] = rec
			}
		}
		task.Pulled += len(page.Records)
		res.Pulled += len(page.Records)

		batchNum++
		elapsed := m.now().Sub(batchStart)
		if avgBatch == 0 {
			avgBatch = elapsed
		} else {
			avgBatch = (avgBatch*3 + elapsed) / 4
		}
		m.emitProgress(task, page, batchNum, batchSize, avgBatch)

		cursor = page.NextCursor
		task.Cursor = cursor
		if cursor == "" {
			break
		}
	}

	task.State = models.TaskCompleted
	m.emit(models.SyncEvent{Kind: models.SyncEventTaskCompleted, Phase: models.PhasePulling, Task: task})
}

func (m *syncManager) emitProgress(task *models.SyncTask, page models.PullPage, batchNum, batchSize int, avgBatch time.Duration) {
	totalBatches := 0
	var eta time.Duration
	if page.Total > 0 && batchSize > 0 {
		totalBatches = (page.Total + batchSize - 1) / batchSize
		if remaining := totalBatches - batchNum; remaining > 0 {
			eta = avgBatch * time.Duration(remaining)
		}
	}
	m.emit(models.SyncEvent{
		Kind:  models.SyncEventProgress,
		Phase: models.PhasePulling,
		Task:  task,
		Progress: &models.SyncProgress{
			EntityType:             task.EntityType,
			TotalItems:             page.Total,
			ProcessedItems:         task.Pulled,
			CurrentBatch:           batchNum,
			TotalBatches:           totalBatches,
			EstimatedTimeRemaining: eta,
		},
	})
}

func (m *syncManager) failTask(ctx context.Context, task *models.SyncTask, res *models.SyncResult, cause error) {
	task.State = models.TaskFailed
	task.Err = cause.Error()
	res.Errors = append(res.Errors, models.SyncProgressError{
		EntityType: task.EntityType,
		Phase:      models.PhasePulling,
		Message:    cause.Error(),
	})
	m.log.Warn().Err(cause).Str("entity_type", string(task.EntityType)).Msg("entity pull failed")
	m.emit(models.SyncEvent{Kind: models.SyncEventTaskFailed, Phase: models.PhasePulling, Task: task})
}

// rememberCursor records where an interrupted task stopped so RetrySync
// can resume from its last good batch.
func (m *syncManager) rememberCursor(ctx context.Context, task *models.SyncTask, cursor string) {
	bg := context.WithoutCancel(ctx)
	status, err := m.syncState.GetStatus(bg, task.EntityType)
	if err != nil {
		m.log.Error().Err(err).Str("entity_type", string(task.EntityType)).Msg("load status to remember cursor")
		return
	}
	status.LastCursor = cursor
	status.LastTaskState = models.TaskFailed
	if err = m.syncState.UpsertStatus(bg, status); err != nil {
		m.log.Error().Err(err).Str("entity_type", string(task.EntityType)).Msg("remember cursor")
	}
}

// finalize advances the durable cursors of every completed task. The new
// checkpoint is the pass start, not its end, so records changed while the
// pass ran are pulled again next time rather than silently skipped.
func (m *syncManager) finalize(ctx context.Context, res *models.SyncResult, tasks []models.SyncTask, completed map[models.EntityType]bool) {
	bg := context.WithoutCancel(ctx)

	pending, err := m.queue.PendingByEntity(bg)
	if err != nil {
		m.log.Warn().Err(err).Msg("pending counts unavailable at finalize")
		pending = map[models.EntityType]int64{}
	}

	checkpoint := res.StartedAt
	for _, task := range tasks {
		// a cancelled pass persists only the tasks whose pull finished;
		// ones cancelled mid-pull already remembered their resume cursor
		// and ones that never ran stay untouched
		if res.Cancelled && !completed[task.EntityType] {
			continue
		}
		status, gerr := m.syncState.GetStatus(bg, task.EntityType)
		if gerr != nil {
			m.log.Error().Err(gerr).Str("entity_type", string(task.EntityType)).Msg("load status at finalize")
			continue
		}
		status.IsConnected = true
		status.PendingChanges = pending[task.EntityType]
		status.LastTaskState = task.State
		if completed[task.EntityType] {
			cp := checkpoint
			status.LastSyncAt = &cp
			status.LastCursor = ""
			status.LastError = ""
		} else {
			status.LastError = task.Err
		}
		if uerr := m.syncState.UpsertStatus(bg, status); uerr != nil {
			m.log.Error().Err(uerr).Str("entity_type", string(task.EntityType)).Msg("advance cursor")
		}
	}
}

func (m *syncManager) persistResult(ctx context.Context, res models.SyncResult) {
	bg := context.WithoutCancel(ctx)
	if err := m.syncState.SaveResult(bg, res); err != nil {
		m.log.Error().Err(err).Str("pass", res.PassID).Msg("save pass result")
	}
}

// transition advances the phase state machine, rejecting any move the
// transition table forbids.
func (m *syncManager) transition(next models.SyncPhase) error {
	m.mu.Lock()
	if !m.phase.CanTransition(next) {
		cur := m.phase
		m.mu.Unlock()
		return fmt.Errorf("%s -> %s: %w", cur, next, ErrIllegalPhaseTransition)
	}
	m.phase = next
	m.mu.Unlock()

	m.emit(models.SyncEvent{Kind: models.SyncEventPhaseChange, Phase: next})
	return nil
}

func (m *syncManager) toFailed() {
	if err := m.transition(models.PhaseFailed); err != nil {
		m.log.Error().Err(err).Msg("enter failed phase")
	}
}

func (m *syncManager) emit(ev models.SyncEvent) {
	ev.At = m.now().UTC()
	m.hub.emit(ev)
}
