package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pulsefest/pulse-sync/internal/adapter"
	"github.com/pulsefest/pulse-sync/internal/config"
	"github.com/pulsefest/pulse-sync/internal/logger"
	"github.com/pulsefest/pulse-sync/internal/mock"
	"github.com/pulsefest/pulse-sync/models"
)

type handlerMocks struct {
	queue     *mock.MockMutationQueue
	transport *mock.MockTransport
	net       *mock.MockConnectivity
	conflicts *mock.MockConflictRepository
	syncState *mock.MockSyncStateRepository
}

func newTestHandler(t *testing.T, ctrl *gomock.Controller, configs ...models.EntityConflictConfig) (*mutationHandler, handlerMocks) {
	t.Helper()

	m := handlerMocks{
		queue:     mock.NewMockMutationQueue(ctrl),
		transport: mock.NewMockTransport(ctrl),
		net:       mock.NewMockConnectivity(ctrl),
		conflicts: mock.NewMockConflictRepository(ctrl),
		syncState: mock.NewMockSyncStateRepository(ctrl),
	}
	resolver := NewConflictResolver(config.Sync{
		SkewTolerance:   2 * time.Second,
		DefaultStrategy: models.StrategyLastWriteWins,
		ConflictConfigs: configs,
	}, logger.Nop())

	h := NewMutationHandler(m.queue, resolver, m.transport, m.net, m.conflicts, m.syncState, logger.Nop()).(*mutationHandler)
	h.now = func() time.Time { return time.Date(2026, 6, 12, 12, 0, 0, 0, time.UTC) }
	return h, m
}

// ── Record ──────────────────────────────────────────────────────────────────

func TestRecord_DelegatesToQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h, m := newTestHandler(t, ctrl)

	payload := models.Payload{"performance_id": "p-1"}
	m.queue.EXPECT().
		Enqueue(gomock.Any(), models.EntityFavorite, "f-1", models.OpCreate, payload, 0).
		Return(models.QueueItem{ID: "mut-1", Status: models.QueueStatusPending}, nil)

	var events []models.MutationEvent
	defer h.Subscribe(func(ev models.MutationEvent) { events = append(events, ev) })()

	mut, err := h.Record(context.Background(), models.EntityFavorite, "f-1", models.OpCreate, payload)

	require.NoError(t, err)
	assert.Equal(t, "mut-1", mut.ID)
	assert.Equal(t, models.MutationPending, mut.Status)
	require.Len(t, events, 1)
	assert.Equal(t, models.MutationEventAdded, events[0].Kind)
}

// ── Replay ──────────────────────────────────────────────────────────────────

func TestReplay_OfflineFailsFast(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h, m := newTestHandler(t, ctrl)

	m.net.EXPECT().IsOnline().Return(false)

	_, err := h.Replay(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOffline)
}

func TestReplay_CompletesAcknowledgedItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h, m := newTestHandler(t, ctrl)

	item := models.QueueItem{
		ID:         "mut-1",
		EntityType: models.EntityTicketScan,
		EntityID:   "scan-1",
		Operation:  models.OpCreate,
		Payload:    models.Payload{"gate": "A"},
		Status:     models.QueueStatusProcessing,
	}

	m.net.EXPECT().IsOnline().Return(true)
	gomock.InOrder(
		m.queue.EXPECT().DequeueBatch(gomock.Any()).Return([]models.QueueItem{item}, nil),
		m.queue.EXPECT().DequeueBatch(gomock.Any()).Return(nil, nil),
	)
	m.transport.EXPECT().Push(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, req models.PushRequest) (models.PushResult, error) {
			assert.Equal(t, "mut-1", req.MutationID)
			assert.Equal(t, models.EntityTicketScan, req.EntityType)
			return models.PushResult{Success: true, ServerID: "srv-1"}, nil
		})
	m.queue.EXPECT().MarkCompleted(gomock.Any(), "mut-1").Return(nil)

	res, err := h.Replay(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, res.Attempted)
	assert.Equal(t, 1, res.Completed)
	assert.Zero(t, res.Failed)
	require.Len(t, res.Results, 1)
	assert.Equal(t, models.MutationCompleted, res.Results[0].Status)
	assert.Equal(t, "srv-1", res.Results[0].ServerID)
}

func TestReplay_FailedPushBlocksLaterMutationsOfSameEntity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h, m := newTestHandler(t, ctrl)

	first := models.QueueItem{ID: "mut-1", EntityType: models.EntityFavorite, EntityID: "f-1", Operation: models.OpCreate}
	second := models.QueueItem{ID: "mut-2", EntityType: models.EntityFavorite, EntityID: "f-1", Operation: models.OpUpdate}

	m.net.EXPECT().IsOnline().Return(true)
	gomock.InOrder(
		m.queue.EXPECT().DequeueBatch(gomock.Any()).Return([]models.QueueItem{first, second}, nil),
		m.queue.EXPECT().DequeueBatch(gomock.Any()).Return(nil, nil),
	)
	m.transport.EXPECT().Push(gomock.Any(), gomock.Any()).Return(models.PushResult{}, adapter.ErrServerUnavailable)
	m.queue.EXPECT().MarkFailed(gomock.Any(), "mut-1", gomock.Any()).Return(nil)
	m.queue.EXPECT().MarkFailed(gomock.Any(), "mut-2", gomock.Any()).Return(nil)

	res, err := h.Replay(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, res.Attempted)
	assert.Equal(t, 2, res.Failed)
}

func TestReplay_ManualConflictIsParked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h, m := newTestHandler(t, ctrl, models.EntityConflictConfig{
		EntityType: models.EntityCashlessTransaction,
		Strategy:   models.StrategyManual,
	})

	created := time.Date(2026, 6, 12, 11, 30, 0, 0, time.UTC)
	item := models.QueueItem{
		ID:         "mut-1",
		EntityType: models.EntityCashlessTransaction,
		EntityID:   "tx-1",
		Operation:  models.OpUpdate,
		Payload:    models.Payload{"amount": 20},
		CreatedAt:  created,
	}
	serverStamp := created.Add(time.Minute)
	serverSnap := &models.EntitySnapshot{
		EntityType: models.EntityCashlessTransaction,
		EntityID:   "tx-1",
		Version:    4,
		UpdatedAt:  &serverStamp,
		Fields:     models.Payload{"amount": 25},
	}

	m.net.EXPECT().IsOnline().Return(true)
	gomock.InOrder(
		m.queue.EXPECT().DequeueBatch(gomock.Any()).Return([]models.QueueItem{item}, nil),
		m.queue.EXPECT().DequeueBatch(gomock.Any()).Return(nil, nil),
	)
	m.transport.EXPECT().Push(gomock.Any(), gomock.Any()).
		Return(models.PushResult{Conflict: true, ServerSnapshot: serverSnap}, nil)
	m.syncState.EXPECT().GetStatus(gomock.Any(), models.EntityCashlessTransaction).
		Return(models.EntitySyncStatus{EntityType: models.EntityCashlessTransaction}, nil)
	m.conflicts.EXPECT().Save(gomock.Any(), "mut-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, detail models.ConflictDetail) error {
			assert.Equal(t, "tx-1", detail.EntityID)
			assert.Equal(t, models.StrategyManual, detail.Strategy)
			return nil
		})
	m.queue.EXPECT().MarkFailed(gomock.Any(), "mut-1", ErrAwaitingResolution).Return(nil)

	var events []models.MutationEvent
	defer h.Subscribe(func(ev models.MutationEvent) { events = append(events, ev) })()

	res, err := h.Replay(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, res.Conflicts)
	assert.Zero(t, res.Completed)

	var kinds []models.MutationEventKind
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	assert.Contains(t, kinds, models.MutationEventConflict)
}

func TestReplay_ResolvedConflictPushesWinningSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h, m := newTestHandler(t, ctrl)

	created := time.Date(2026, 6, 12, 11, 30, 0, 0, time.UTC)
	item := models.QueueItem{
		ID:         "mut-1",
		EntityType: models.EntityFavorite,
		EntityID:   "f-1",
		Operation:  models.OpUpdate,
		Payload:    models.Payload{"rank": 1},
		CreatedAt:  created,
	}
	// server's stamp is older than the local write: last write wins locally
	serverStamp := created.Add(-time.Minute)
	serverSnap := &models.EntitySnapshot{
		EntityType: models.EntityFavorite,
		EntityID:   "f-1",
		Version:    4,
		UpdatedAt:  &serverStamp,
		Fields:     models.Payload{"rank": 2},
	}

	m.net.EXPECT().IsOnline().Return(true)
	gomock.InOrder(
		m.queue.EXPECT().DequeueBatch(gomock.Any()).Return([]models.QueueItem{item}, nil),
		m.queue.EXPECT().DequeueBatch(gomock.Any()).Return(nil, nil),
	)
	m.syncState.EXPECT().GetStatus(gomock.Any(), models.EntityFavorite).
		Return(models.EntitySyncStatus{EntityType: models.EntityFavorite}, nil)

	first := m.transport.EXPECT().Push(gomock.Any(), gomock.Any()).
		Return(models.PushResult{Conflict: true, ServerSnapshot: serverSnap}, nil)
	m.transport.EXPECT().Push(gomock.Any(), gomock.Any()).After(first).DoAndReturn(
		func(_ context.Context, req models.PushRequest) (models.PushResult, error) {
			assert.Equal(t, "mut-1:r4", req.MutationID)
			assert.Equal(t, int64(4), req.BaseVersion)
			assert.Equal(t, 1, req.Payload["rank"])
			return models.PushResult{Success: true, ServerID: "f-1"}, nil
		})
	m.queue.EXPECT().MarkCompleted(gomock.Any(), "mut-1").Return(nil)

	res, err := h.Replay(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, res.Completed)
	assert.Equal(t, 1, res.Conflicts)
}

func TestReplay_ServerWinsConflictDropsLocalWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h, m := newTestHandler(t, ctrl, models.EntityConflictConfig{
		EntityType: models.EntityTicketScan,
		Strategy:   models.StrategyServerWins,
	})

	created := time.Date(2026, 6, 12, 11, 30, 0, 0, time.UTC)
	item := models.QueueItem{
		ID:         "mut-1",
		EntityType: models.EntityTicketScan,
		EntityID:   "scan-1",
		Operation:  models.OpUpdate,
		Payload:    models.Payload{"gate": "A"},
		CreatedAt:  created,
	}
	serverStamp := created.Add(time.Minute)
	serverSnap := &models.EntitySnapshot{
		EntityType: models.EntityTicketScan,
		EntityID:   "scan-1",
		Version:    2,
		UpdatedAt:  &serverStamp,
		Fields:     models.Payload{"gate": "B"},
	}

	m.net.EXPECT().IsOnline().Return(true)
	gomock.InOrder(
		m.queue.EXPECT().DequeueBatch(gomock.Any()).Return([]models.QueueItem{item}, nil),
		m.queue.EXPECT().DequeueBatch(gomock.Any()).Return(nil, nil),
	)
	m.transport.EXPECT().Push(gomock.Any(), gomock.Any()).
		Return(models.PushResult{Conflict: true, ServerSnapshot: serverSnap}, nil)
	m.syncState.EXPECT().GetStatus(gomock.Any(), models.EntityTicketScan).
		Return(models.EntitySyncStatus{EntityType: models.EntityTicketScan}, nil)
	// no second push: the server side won outright
	m.queue.EXPECT().MarkCompleted(gomock.Any(), "mut-1").Return(nil)

	res, err := h.Replay(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, res.Completed)
	assert.Equal(t, 1, res.Conflicts)
}

func TestReplay_CancelReleasesUnattemptedItems(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h, m := newTestHandler(t, ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	items := []models.QueueItem{
		{ID: "mut-1", EntityType: models.EntityFavorite, EntityID: "fav-1", Operation: models.OpCreate},
		{ID: "mut-2", EntityType: models.EntityFavorite, EntityID: "fav-2", Operation: models.OpCreate},
	}

	m.net.EXPECT().IsOnline().Return(true)
	m.queue.EXPECT().DequeueBatch(gomock.Any()).Return(items, nil)
	m.transport.EXPECT().Push(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, models.PushRequest) (models.PushResult, error) {
			cancel() // replay is cancelled while the first push is in flight
			return models.PushResult{ServerID: "fav-1"}, nil
		})
	m.queue.EXPECT().MarkCompleted(gomock.Any(), "mut-1").Return(nil)
	// the never-sent item goes straight back to pending, no attempt counted
	m.queue.EXPECT().Release(gomock.Any(), "mut-2").Return(nil)

	res, err := h.Replay(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, res.Attempted)
	assert.Equal(t, 1, res.Completed)
}

func TestReplay_SecondCallerJoinsInFlightReplay(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h, _ := newTestHandler(t, ctrl)

	r := &replayRun{done: make(chan struct{})}
	h.mu.Lock()
	h.replay = r
	h.mu.Unlock()

	type outcome struct {
		res models.ReplayResult
		err error
	}
	got := make(chan outcome, 1)
	go func() {
		res, err := h.Replay(context.Background())
		got <- outcome{res, err}
	}()

	// the in-flight replay finishes
	r.res = models.ReplayResult{Attempted: 3, Completed: 3}
	close(r.done)

	select {
	case o := <-got:
		require.NoError(t, o.err)
		assert.Equal(t, 3, o.res.Completed)
	case <-time.After(2 * time.Second):
		t.Fatal("joining caller never returned")
	}
}

// ── Reconcile ───────────────────────────────────────────────────────────────

func TestReconcile_ServerWinsDropsQueuedWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h, m := newTestHandler(t, ctrl, models.EntityConflictConfig{
		EntityType: models.EntityTicketScan,
		Strategy:   models.StrategyServerWins,
	})

	created := time.Date(2026, 6, 12, 11, 30, 0, 0, time.UTC)
	item := models.QueueItem{
		ID:         "mut-1",
		EntityType: models.EntityTicketScan,
		EntityID:   "scan-1",
		Operation:  models.OpUpdate,
		Payload:    models.Payload{"gate": "A"},
		CreatedAt:  created,
	}
	serverStamp := created.Add(time.Minute)
	serverSnap := models.EntitySnapshot{
		EntityType: models.EntityTicketScan,
		EntityID:   "scan-1",
		Version:    3,
		UpdatedAt:  &serverStamp,
		Fields:     models.Payload{"gate": "B"},
	}

	m.queue.EXPECT().List(gomock.Any(), models.QueueStatusPending).Return([]models.QueueItem{item}, nil)
	m.syncState.EXPECT().GetStatus(gomock.Any(), models.EntityTicketScan).
		Return(models.EntitySyncStatus{EntityType: models.EntityTicketScan}, nil)
	m.queue.EXPECT().Remove(gomock.Any(), "mut-1").Return(nil)

	var events []models.MutationEvent
	defer h.Subscribe(func(ev models.MutationEvent) { events = append(events, ev) })()

	settled, err := h.Reconcile(context.Background(), []models.EntitySnapshot{serverSnap})

	require.NoError(t, err)
	assert.Equal(t, 1, settled)
	require.Len(t, events, 1)
	assert.Equal(t, models.MutationEventCompleted, events[0].Kind)
}

func TestReconcile_LocalWinLeavesWriteQueued(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h, m := newTestHandler(t, ctrl) // last-write-wins default

	serverStamp := time.Date(2026, 6, 12, 11, 30, 0, 0, time.UTC)
	item := models.QueueItem{
		ID:         "mut-1",
		EntityType: models.EntityFavorite,
		EntityID:   "fav-1",
		Operation:  models.OpUpdate,
		Payload:    models.Payload{"starred": true},
		CreatedAt:  serverStamp.Add(time.Minute), // local write is newer
	}
	serverSnap := models.EntitySnapshot{
		EntityType: models.EntityFavorite,
		EntityID:   "fav-1",
		Version:    2,
		UpdatedAt:  &serverStamp,
		Fields:     models.Payload{"starred": false},
	}

	m.queue.EXPECT().List(gomock.Any(), models.QueueStatusPending).Return([]models.QueueItem{item}, nil)
	m.syncState.EXPECT().GetStatus(gomock.Any(), models.EntityFavorite).
		Return(models.EntitySyncStatus{EntityType: models.EntityFavorite}, nil)
	// no Remove: the push phase sends the still-queued write

	settled, err := h.Reconcile(context.Background(), []models.EntitySnapshot{serverSnap})

	require.NoError(t, err)
	assert.Zero(t, settled)
}

func TestReconcile_ManualStrategySurfacesConflictEarly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h, m := newTestHandler(t, ctrl, models.EntityConflictConfig{
		EntityType: models.EntityCashlessTransaction,
		Strategy:   models.StrategyManual,
	})

	created := time.Date(2026, 6, 12, 11, 30, 0, 0, time.UTC)
	item := models.QueueItem{
		ID:         "mut-1",
		EntityType: models.EntityCashlessTransaction,
		EntityID:   "tx-1",
		Operation:  models.OpUpdate,
		Payload:    models.Payload{"amount": 20},
		CreatedAt:  created,
	}
	serverStamp := created.Add(time.Minute)
	serverSnap := models.EntitySnapshot{
		EntityType: models.EntityCashlessTransaction,
		EntityID:   "tx-1",
		Version:    4,
		UpdatedAt:  &serverStamp,
		Fields:     models.Payload{"amount": 25},
	}

	m.queue.EXPECT().List(gomock.Any(), models.QueueStatusPending).Return([]models.QueueItem{item}, nil)
	m.syncState.EXPECT().GetStatus(gomock.Any(), models.EntityCashlessTransaction).
		Return(models.EntitySyncStatus{EntityType: models.EntityCashlessTransaction}, nil)
	m.conflicts.EXPECT().Save(gomock.Any(), "mut-1", gomock.Any()).Return(nil)

	var events []models.MutationEvent
	defer h.Subscribe(func(ev models.MutationEvent) { events = append(events, ev) })()

	settled, err := h.Reconcile(context.Background(), []models.EntitySnapshot{serverSnap})

	require.NoError(t, err)
	assert.Zero(t, settled)
	require.Len(t, events, 1)
	assert.Equal(t, models.MutationEventConflict, events[0].Kind)
	assert.NotNil(t, events[0].Mutation.ConflictInfo)
}

// ── ResolveConflict ─────────────────────────────────────────────────────────

func TestResolveConflict_MergeRequiresPayload(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h, m := newTestHandler(t, ctrl)

	m.conflicts.EXPECT().Get(gomock.Any(), "mut-1").Return(models.ConflictDetail{}, nil)
	m.queue.EXPECT().Get(gomock.Any(), "mut-1").Return(models.QueueItem{ID: "mut-1"}, nil)

	err := h.ResolveConflict(context.Background(), "mut-1", models.ResolutionMerge, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidResolution)
}

func TestResolveConflict_LocalEnqueuesCorrectiveMutation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h, m := newTestHandler(t, ctrl)

	detail := models.ConflictDetail{EntityType: models.EntityFavorite, EntityID: "f-1"}
	item := models.QueueItem{
		ID:        "mut-1",
		Operation: models.OpUpdate,
		Payload:   models.Payload{"rank": 1},
		Priority:  3,
	}

	m.conflicts.EXPECT().Get(gomock.Any(), "mut-1").Return(detail, nil)
	m.queue.EXPECT().Get(gomock.Any(), "mut-1").Return(item, nil)
	m.queue.EXPECT().
		Enqueue(gomock.Any(), models.EntityFavorite, "f-1", models.OpUpdate, item.Payload, 3).
		Return(models.QueueItem{ID: "mut-2"}, nil)
	m.queue.EXPECT().Remove(gomock.Any(), "mut-1").Return(nil)
	m.conflicts.EXPECT().Delete(gomock.Any(), "mut-1").Return(nil)

	err := h.ResolveConflict(context.Background(), "mut-1", models.ResolutionLocal, nil)

	require.NoError(t, err)
}

func TestResolveConflict_ServerDropsLocalWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h, m := newTestHandler(t, ctrl)

	m.conflicts.EXPECT().Get(gomock.Any(), "mut-1").Return(models.ConflictDetail{}, nil)
	m.queue.EXPECT().Get(gomock.Any(), "mut-1").Return(models.QueueItem{ID: "mut-1"}, nil)
	m.queue.EXPECT().Remove(gomock.Any(), "mut-1").Return(nil)
	m.conflicts.EXPECT().Delete(gomock.Any(), "mut-1").Return(nil)

	require.NoError(t, h.ResolveConflict(context.Background(), "mut-1", models.ResolutionServer, nil))
}

// ── PendingMutations ────────────────────────────────────────────────────────

func TestPendingMutations_AttachesConflictDetails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	h, m := newTestHandler(t, ctrl)

	items := []models.QueueItem{
		{ID: "mut-1", Status: models.QueueStatusPending},
		{ID: "mut-2", Status: models.QueueStatusFailed},
	}
	detail := models.ConflictDetail{EntityID: "tx-1", Strategy: models.StrategyManual}

	m.queue.EXPECT().List(gomock.Any(), models.QueueItemStatus("")).Return(items, nil)
	m.conflicts.EXPECT().List(gomock.Any()).Return(map[string]models.ConflictDetail{"mut-2": detail}, nil)

	muts, err := h.PendingMutations(context.Background())

	require.NoError(t, err)
	require.Len(t, muts, 2)
	assert.Equal(t, models.MutationPending, muts[0].Status)
	assert.Nil(t, muts[0].ConflictInfo)
	assert.Equal(t, models.MutationConflict, muts[1].Status)
	require.NotNil(t, muts[1].ConflictInfo)
	assert.Equal(t, "tx-1", muts[1].ConflictInfo.EntityID)
}
