// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pulse Festival Collective

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pulsefest/pulse-sync/internal/config"
	"github.com/pulsefest/pulse-sync/internal/logger"
	"github.com/pulsefest/pulse-sync/internal/mock"
	"github.com/pulsefest/pulse-sync/internal/store"
	"github.com/pulsefest/pulse-sync/models"
)

type syncMocks struct {
	queue     *mock.MockMutationQueue
	handler   *mock.MockMutationHandler
	transport *mock.MockTransport
	net       *mock.MockConnectivity
	syncState *mock.MockSyncStateRepository
	applier   *mock.MockRecordApplier
}

func newTestSyncManager(t *testing.T, ctrl *gomock.Controller) (*syncManager, syncMocks) {
	t.Helper()

	sm := syncMocks{
		queue:     mock.NewMockMutationQueue(ctrl),
		handler:   mock.NewMockMutationHandler(ctrl),
		transport: mock.NewMockTransport(ctrl),
		net:       mock.NewMockConnectivity(ctrl),
		syncState: mock.NewMockSyncStateRepository(ctrl),
		applier:   mock.NewMockRecordApplier(ctrl),
	}
	cfg := config.Sync{
		BatchSize: 100,
		PassLease: 10 * time.Minute,
	}

	m := NewSyncManager(sm.queue, sm.handler, sm.transport, sm.net, sm.syncState, sm.applier, cfg, logger.Nop()).(*syncManager)
	return m, sm
}

// ── task ordering ───────────────────────────────────────────────────────────

func TestBuildTasks_TopologicalOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, _ := newTestSyncManager(t, ctrl)

	tasks, err := m.buildTasks(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, tasks, len(models.KnownEntityTypes()))

	pos := make(map[models.EntityType]int, len(tasks))
	for i, task := range tasks {
		pos[task.EntityType] = i
	}
	for _, d := range models.KnownEntityTypes() {
		for _, dep := range d.DependsOn {
			assert.Less(t, pos[dep], pos[d.Type], "%s must come before %s", dep, d.Type)
		}
	}
}

func TestOrderTasks_DependencyCycleIsFatal(t *testing.T) {
	_, err := orderTasks([]models.EntityDescriptor{
		{Type: "a", DependsOn: []models.EntityType{"b"}},
		{Type: "b", DependsOn: []models.EntityType{"a"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dependency cycle")
}

func TestOrderTasks_UnknownDependencyIsFatal(t *testing.T) {
	_, err := orderTasks([]models.EntityDescriptor{
		{Type: "a", DependsOn: []models.EntityType{"ghost"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestBuildTasks_RetryKeepsOnlyFailedTasks(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, sm := newTestSyncManager(t, ctrl)

	sm.syncState.EXPECT().ListStatuses(gomock.Any()).Return([]models.EntitySyncStatus{
		{EntityType: models.EntityFestival, LastTaskState: models.TaskCompleted},
		{EntityType: models.EntityTicket, LastTaskState: models.TaskFailed, LastCursor: "cur-42"},
	}, nil)

	tasks, err := m.buildTasks(context.Background(), true)

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, models.EntityTicket, tasks[0].EntityType)
	assert.Equal(t, "cur-42", tasks[0].Cursor)
}

// ── Sync ────────────────────────────────────────────────────────────────────

func TestSync_OfflineFailsFast(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, sm := newTestSyncManager(t, ctrl)

	sm.net.EXPECT().IsOnline().Return(false)
	sm.syncState.EXPECT().SaveResult(gomock.Any(), gomock.Any()).Return(nil)

	res, err := m.Sync(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOffline)
	assert.False(t, res.Success)
	assert.Equal(t, models.PhaseIdle, m.Phase())
}

func TestSync_DurableMarkerHeldElsewhere(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, sm := newTestSyncManager(t, ctrl)

	sm.net.EXPECT().IsOnline().Return(true)
	sm.syncState.EXPECT().
		AcquirePassMarker(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(store.ErrPassActive)
	sm.syncState.EXPECT().SaveResult(gomock.Any(), gomock.Any()).Return(nil)

	_, err := m.Sync(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyncInProgress)
}

func TestSync_AuthFailureIsFatalAndAdvancesNoCursor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, sm := newTestSyncManager(t, ctrl)

	sm.net.EXPECT().IsOnline().Return(true)
	sm.syncState.EXPECT().AcquirePassMarker(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	sm.syncState.EXPECT().ReleasePassMarker(gomock.Any(), gomock.Any()).Return(nil)
	sm.transport.EXPECT().Token().Return("")
	sm.transport.EXPECT().Authenticate(gomock.Any()).Return(errors.New("401 unauthorized"))
	// no UpsertStatus expectation: a fatal auth failure must not touch cursors
	sm.syncState.EXPECT().SaveResult(gomock.Any(), gomock.Any()).Return(nil)

	res, err := m.Sync(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh device token")
	assert.False(t, res.Success)
}

func TestSync_FullPass(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, sm := newTestSyncManager(t, ctrl)

	sm.net.EXPECT().IsOnline().Return(true)
	sm.syncState.EXPECT().
		AcquirePassMarker(gomock.Any(), gomock.Any(), gomock.Any(), 10*time.Minute).
		Return(nil)
	sm.syncState.EXPECT().ReleasePassMarker(gomock.Any(), gomock.Any()).Return(nil)

	// empty token forces a refresh
	sm.transport.EXPECT().Token().Return("")
	sm.transport.EXPECT().Authenticate(gomock.Any()).Return(nil)

	sm.syncState.EXPECT().GetStatus(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, et models.EntityType) (models.EntitySyncStatus, error) {
			return models.EntitySyncStatus{EntityType: et}, nil
		}).AnyTimes()

	// one page per entity type, one festival record on the first
	festivalPage := models.PullPage{
		Records: []models.EntitySnapshot{{EntityType: models.EntityFestival, EntityID: "fest-1", Version: 1}},
		Total:   1,
	}
	sm.transport.EXPECT().Pull(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req models.PullRequest) (models.PullPage, error) {
			if req.EntityType == models.EntityFestival {
				return festivalPage, nil
			}
			return models.PullPage{}, nil
		}).Times(len(models.KnownEntityTypes()))
	sm.applier.EXPECT().Apply(gomock.Any(), festivalPage.Records[0]).Return(nil)

	sm.queue.EXPECT().List(gomock.Any(), models.QueueStatusPending).Return(nil, nil)
	sm.queue.EXPECT().RetryFailed(gomock.Any()).Return(int64(0), nil)
	sm.handler.EXPECT().Replay(gomock.Any()).Return(models.ReplayResult{Attempted: 2, Completed: 2}, nil)
	sm.queue.EXPECT().PendingByEntity(gomock.Any()).Return(map[models.EntityType]int64{}, nil)
	sm.syncState.EXPECT().UpsertStatus(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, st models.EntitySyncStatus) error {
			assert.NotNil(t, st.LastSyncAt)
			assert.Equal(t, models.TaskCompleted, st.LastTaskState)
			return nil
		}).Times(len(models.KnownEntityTypes()))
	sm.syncState.EXPECT().SaveResult(gomock.Any(), gomock.Any()).Return(nil)

	var phases []models.SyncPhase
	defer m.Subscribe(func(ev models.SyncEvent) {
		if ev.Kind == models.SyncEventPhaseChange {
			phases = append(phases, ev.Phase)
		}
	})()

	res, err := m.Sync(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Pulled)
	assert.Equal(t, 2, res.Pushed)
	assert.Empty(t, res.Errors)
	assert.Equal(t, []models.SyncPhase{
		models.PhasePreparing,
		models.PhaseAuthenticating,
		models.PhasePulling,
		models.PhaseResolvingConflicts,
		models.PhasePushing,
		models.PhaseFinalizing,
		models.PhaseCompleted,
	}, phases)
	assert.Equal(t, models.PhaseIdle, m.Phase())
}

func TestSync_EntityPullFailureIsNonFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, sm := newTestSyncManager(t, ctrl)

	sm.net.EXPECT().IsOnline().Return(true)
	sm.syncState.EXPECT().AcquirePassMarker(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	sm.syncState.EXPECT().ReleasePassMarker(gomock.Any(), gomock.Any()).Return(nil)
	sm.transport.EXPECT().Token().Return("")
	sm.transport.EXPECT().Authenticate(gomock.Any()).Return(nil)

	sm.syncState.EXPECT().GetStatus(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, et models.EntityType) (models.EntitySyncStatus, error) {
			return models.EntitySyncStatus{EntityType: et}, nil
		}).AnyTimes()

	pullErr := errors.New("gateway timeout")
	sm.transport.EXPECT().Pull(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req models.PullRequest) (models.PullPage, error) {
			if req.EntityType == models.EntityTicket {
				return models.PullPage{}, pullErr
			}
			return models.PullPage{}, nil
		}).Times(len(models.KnownEntityTypes()))

	sm.queue.EXPECT().List(gomock.Any(), models.QueueStatusPending).Return(nil, nil)
	sm.queue.EXPECT().RetryFailed(gomock.Any()).Return(int64(0), nil)
	sm.handler.EXPECT().Replay(gomock.Any()).Return(models.ReplayResult{}, nil)
	sm.queue.EXPECT().PendingByEntity(gomock.Any()).Return(map[models.EntityType]int64{}, nil)
	sm.syncState.EXPECT().UpsertStatus(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	sm.syncState.EXPECT().SaveResult(gomock.Any(), gomock.Any()).Return(nil)

	res, err := m.Sync(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, models.EntityTicket, res.Errors[0].EntityType)
	assert.Contains(t, res.Errors[0].Message, "gateway timeout")
}

func TestSync_PulledRecordOfQueuedEntityIsReconciled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, sm := newTestSyncManager(t, ctrl)

	sm.net.EXPECT().IsOnline().Return(true)
	sm.syncState.EXPECT().AcquirePassMarker(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	sm.syncState.EXPECT().ReleasePassMarker(gomock.Any(), gomock.Any()).Return(nil)
	sm.transport.EXPECT().Token().Return("")
	sm.transport.EXPECT().Authenticate(gomock.Any()).Return(nil)

	sm.syncState.EXPECT().GetStatus(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, et models.EntityType) (models.EntitySyncStatus, error) {
			return models.EntitySyncStatus{EntityType: et}, nil
		}).AnyTimes()

	// a local write of tick-1 sits in the queue while the server sends a
	// newer snapshot of the same ticket
	sm.queue.EXPECT().List(gomock.Any(), models.QueueStatusPending).Return([]models.QueueItem{
		{ID: "q-1", EntityType: models.EntityTicket, EntityID: "tick-1"},
	}, nil)
	serverSnap := models.EntitySnapshot{EntityType: models.EntityTicket, EntityID: "tick-1", Version: 4}
	sm.transport.EXPECT().Pull(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req models.PullRequest) (models.PullPage, error) {
			if req.EntityType == models.EntityTicket {
				return models.PullPage{Records: []models.EntitySnapshot{serverSnap}, Total: 1}, nil
			}
			return models.PullPage{}, nil
		}).Times(len(models.KnownEntityTypes()))
	sm.applier.EXPECT().Apply(gomock.Any(), serverSnap).Return(nil)

	sm.handler.EXPECT().Reconcile(gomock.Any(), []models.EntitySnapshot{serverSnap}).Return(1, nil)
	sm.queue.EXPECT().RetryFailed(gomock.Any()).Return(int64(0), nil)
	sm.handler.EXPECT().Replay(gomock.Any()).Return(models.ReplayResult{}, nil)
	sm.queue.EXPECT().PendingByEntity(gomock.Any()).Return(map[models.EntityType]int64{}, nil)
	sm.syncState.EXPECT().UpsertStatus(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	sm.syncState.EXPECT().SaveResult(gomock.Any(), gomock.Any()).Return(nil)

	res, err := m.Sync(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Conflicts)
}

func TestSync_SecondCallerJoinsInFlightPass(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, _ := newTestSyncManager(t, ctrl)

	p := &syncPass{done: make(chan struct{})}
	m.mu.Lock()
	m.running = true
	m.pass = p
	m.mu.Unlock()

	type outcome struct {
		res models.SyncResult
		err error
	}
	got := make(chan outcome, 1)
	go func() {
		res, err := m.Sync(context.Background())
		got <- outcome{res, err}
	}()

	// the in-flight pass finishes
	p.res = models.SyncResult{PassID: "pass-1", Success: true, Pulled: 9}
	close(p.done)

	select {
	case o := <-got:
		require.NoError(t, o.err)
		assert.Equal(t, "pass-1", o.res.PassID)
		assert.Equal(t, 9, o.res.Pulled)
	case <-time.After(2 * time.Second):
		t.Fatal("joining caller never returned")
	}
}

func TestRetrySync_RefusedWhilePassRunning(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, _ := newTestSyncManager(t, ctrl)

	m.mu.Lock()
	m.running = true
	m.mu.Unlock()

	_, err := m.RetrySync(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSyncInProgress)
}

func TestSync_CancelledContextMarksResultCancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, sm := newTestSyncManager(t, ctrl)

	ctx, cancel := context.WithCancel(context.Background())

	sm.net.EXPECT().IsOnline().Return(true)
	sm.syncState.EXPECT().AcquirePassMarker(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	sm.syncState.EXPECT().ReleasePassMarker(gomock.Any(), gomock.Any()).Return(nil)
	sm.transport.EXPECT().Token().Return("")
	sm.transport.EXPECT().Authenticate(gomock.Any()).DoAndReturn(
		func(context.Context) error {
			cancel() // pass is cancelled right after authenticating
			return nil
		})

	sm.syncState.EXPECT().GetStatus(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, et models.EntityType) (models.EntitySyncStatus, error) {
			return models.EntitySyncStatus{EntityType: et}, nil
		}).AnyTimes()
	sm.queue.EXPECT().List(gomock.Any(), models.QueueStatusPending).Return(nil, nil)
	sm.queue.EXPECT().PendingByEntity(gomock.Any()).Return(map[models.EntityType]int64{}, nil)
	sm.syncState.EXPECT().UpsertStatus(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	sm.syncState.EXPECT().SaveResult(gomock.Any(), gomock.Any()).Return(nil)

	res, err := m.Sync(ctx)

	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.False(t, res.Success)
	assert.Zero(t, res.Pulled)
}

func TestSync_CancelBetweenTasksKeepsCompletedCheckpoints(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, sm := newTestSyncManager(t, ctrl)

	sm.net.EXPECT().IsOnline().Return(true)
	sm.syncState.EXPECT().AcquirePassMarker(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	sm.syncState.EXPECT().ReleasePassMarker(gomock.Any(), gomock.Any()).Return(nil)
	sm.transport.EXPECT().Token().Return("")
	sm.transport.EXPECT().Authenticate(gomock.Any()).Return(nil)

	sm.syncState.EXPECT().GetStatus(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, et models.EntityType) (models.EntitySyncStatus, error) {
			return models.EntitySyncStatus{EntityType: et}, nil
		}).AnyTimes()
	sm.queue.EXPECT().List(gomock.Any(), models.QueueStatusPending).Return(nil, nil)

	// cancellation arrives while the first task's only page is in flight;
	// the festivals pull still finishes, the remaining tasks never start
	rec := models.EntitySnapshot{EntityType: models.EntityFestival, EntityID: "fest-1", Version: 1}
	sm.transport.EXPECT().Pull(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req models.PullRequest) (models.PullPage, error) {
			require.Equal(t, models.EntityFestival, req.EntityType)
			m.Cancel()
			return models.PullPage{Records: []models.EntitySnapshot{rec}, Total: 1}, nil
		})
	sm.applier.EXPECT().Apply(gomock.Any(), rec).Return(nil)

	sm.queue.EXPECT().PendingByEntity(gomock.Any()).Return(map[models.EntityType]int64{}, nil)
	// exactly one upsert: the completed festivals task keeps its advanced
	// checkpoint, every other entity's status stays untouched
	sm.syncState.EXPECT().UpsertStatus(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, st models.EntitySyncStatus) error {
			assert.Equal(t, models.EntityFestival, st.EntityType)
			assert.NotNil(t, st.LastSyncAt)
			assert.Equal(t, models.TaskCompleted, st.LastTaskState)
			return nil
		})
	sm.syncState.EXPECT().SaveResult(gomock.Any(), gomock.Any()).Return(nil)

	res, err := m.Sync(context.Background())

	require.NoError(t, err)
	assert.True(t, res.Cancelled)
	assert.False(t, res.Success)
	assert.Equal(t, 1, res.Pulled)
}

// ── Status / LastResult ─────────────────────────────────────────────────────

func TestStatus_DelegatesToRepository(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, sm := newTestSyncManager(t, ctrl)

	want := []models.EntitySyncStatus{{EntityType: models.EntityFestival, IsConnected: true}}
	sm.syncState.EXPECT().ListStatuses(gomock.Any()).Return(want, nil)

	got, err := m.Status(context.Background())

	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLastResult_NoPassYet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	m, sm := newTestSyncManager(t, ctrl)

	sm.syncState.EXPECT().LastResult(gomock.Any()).Return(models.SyncResult{}, store.ErrNoSyncResult)

	_, err := m.LastResult(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNoSyncResult)
}
