package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pulsefest/pulse-sync/internal/logger"
	"github.com/pulsefest/pulse-sync/internal/mock"
	"github.com/pulsefest/pulse-sync/models"
)

func newTestBackground(t *testing.T, ctrl *gomock.Controller, cfg models.BackgroundSyncConfig) (*backgroundSync, *mock.MockSyncManager, *mock.MockConnectivity, *mock.MockDevicePolicy) {
	t.Helper()

	manager := mock.NewMockSyncManager(ctrl)
	net := mock.NewMockConnectivity(ctrl)
	policy := mock.NewMockDevicePolicy(ctrl)

	b := NewBackgroundSync(manager, net, policy, cfg, logger.Nop()).(*backgroundSync)
	return b, manager, net, policy
}

func TestTriggerNow_SkipsWhenOffline(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	b, _, net, _ := newTestBackground(t, ctrl, models.BackgroundSyncConfig{MinInterval: time.Minute})

	net.EXPECT().IsOnline().Return(false)

	res := b.TriggerNow(context.Background())

	assert.False(t, res.Triggered)
	assert.Equal(t, skipOffline, res.Skipped)
}

func TestTriggerNow_SkipsOnMeteredNetworkWhenWifiRequired(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	b, _, net, _ := newTestBackground(t, ctrl, models.BackgroundSyncConfig{MinInterval: time.Minute, RequiresWifi: true})

	net.EXPECT().IsOnline().Return(true)
	net.EXPECT().IsWifi().Return(false)

	res := b.TriggerNow(context.Background())

	assert.Equal(t, skipWifi, res.Skipped)
}

func TestTriggerNow_SkipsOnBatteryWhenChargingRequired(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	b, _, net, policy := newTestBackground(t, ctrl, models.BackgroundSyncConfig{MinInterval: time.Minute, RequiresCharging: true})

	net.EXPECT().IsOnline().Return(true)
	policy.EXPECT().IsCharging().Return(false)

	res := b.TriggerNow(context.Background())

	assert.Equal(t, skipCharging, res.Skipped)
}

func TestTimeUntilNextSync_ReportsRemainingFloor(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	b, _, _, _ := newTestBackground(t, ctrl, models.BackgroundSyncConfig{MinInterval: 5 * time.Minute})

	now := time.Date(2026, 6, 12, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	// no pass yet: eligible immediately
	assert.Zero(t, b.TimeUntilNextSync())

	b.mu.Lock()
	b.lastPass = now
	b.mu.Unlock()

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 3*time.Minute, b.TimeUntilNextSync())

	now = now.Add(10 * time.Minute)
	assert.Zero(t, b.TimeUntilNextSync())
}

func TestTriggerNow_HonorsMinInterval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	b, manager, net, _ := newTestBackground(t, ctrl, models.BackgroundSyncConfig{MinInterval: 5 * time.Minute})

	now := time.Date(2026, 6, 12, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	net.EXPECT().IsOnline().Return(true).Times(3)
	manager.EXPECT().Sync(gomock.Any()).Return(models.SyncResult{Success: true}, nil)

	first := b.TriggerNow(context.Background())
	require.True(t, first.Triggered)

	// a second trigger inside the floor is skipped
	now = now.Add(time.Minute)
	second := b.TriggerNow(context.Background())
	assert.Equal(t, skipMinInterval, second.Skipped)

	// once the floor has elapsed the pass runs again
	now = now.Add(5 * time.Minute)
	manager.EXPECT().Sync(gomock.Any()).Return(models.SyncResult{Success: true}, nil)
	third := b.TriggerNow(context.Background())
	assert.True(t, third.Triggered)
}

func TestTriggerNow_ReportsPassInProgress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	b, manager, net, _ := newTestBackground(t, ctrl, models.BackgroundSyncConfig{MinInterval: time.Minute})

	net.EXPECT().IsOnline().Return(true)
	manager.EXPECT().Sync(gomock.Any()).Return(models.SyncResult{}, ErrSyncInProgress)

	res := b.TriggerNow(context.Background())

	assert.False(t, res.Triggered)
	assert.Equal(t, skipInProgress, res.Skipped)
}

func TestTriggerNow_ReturnsPassResult(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	b, manager, net, _ := newTestBackground(t, ctrl, models.BackgroundSyncConfig{MinInterval: time.Minute})

	net.EXPECT().IsOnline().Return(true)
	manager.EXPECT().Sync(gomock.Any()).Return(models.SyncResult{Success: true, Pulled: 12}, nil)

	res := b.TriggerNow(context.Background())

	assert.True(t, res.Triggered)
	require.NotNil(t, res.Result)
	assert.Equal(t, 12, res.Result.Pulled)
}

func TestStop_LateConnectivityCallbackIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	b, _, net, _ := newTestBackground(t, ctrl, models.BackgroundSyncConfig{MinInterval: time.Hour})

	var regained func()
	net.EXPECT().Subscribe(gomock.Any()).DoAndReturn(func(fn func()) func() {
		regained = fn
		return func() {}
	})

	b.Start(context.Background())
	b.Stop()

	// an emit already in flight when Stop ran must neither start a pass
	// nor touch the waited-on group
	require.NotNil(t, regained)
	regained()
}

func TestStartStop_ConnectivityRegainedTriggersPass(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	b, manager, net, _ := newTestBackground(t, ctrl, models.BackgroundSyncConfig{MinInterval: time.Hour})

	var regained func()
	net.EXPECT().Subscribe(gomock.Any()).DoAndReturn(func(fn func()) func() {
		regained = fn
		return func() {}
	})
	net.EXPECT().IsOnline().Return(true)

	done := make(chan struct{})
	manager.EXPECT().Sync(gomock.Any()).DoAndReturn(func(context.Context) (models.SyncResult, error) {
		close(done)
		return models.SyncResult{Success: true}, nil
	})

	b.Start(context.Background())
	defer b.Stop()

	require.NotNil(t, regained)
	regained()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("connectivity-regained trigger never ran a pass")
	}
}
