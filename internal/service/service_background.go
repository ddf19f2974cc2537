package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pulsefest/pulse-sync/internal/adapter"
	"github.com/pulsefest/pulse-sync/internal/logger"
	"github.com/pulsefest/pulse-sync/models"
)

const (
	skipOffline     = "offline"
	skipWifi        = "wifi required"
	skipCharging    = "charging required"
	skipMinInterval = "min interval not elapsed"
	skipInProgress  = "pass in progress"
)

type backgroundSync struct {
	manager SyncManager
	net     adapter.Connectivity
	policy  adapter.DevicePolicy
	cfg     models.BackgroundSyncConfig
	log     *logger.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	unsub    func()
	lastPass time.Time
	wg       sync.WaitGroup

	now func() time.Time
}

// NewBackgroundSync builds the scheduler. Idle until Start is called.
func NewBackgroundSync(manager SyncManager, net adapter.Connectivity, policy adapter.DevicePolicy, cfg models.BackgroundSyncConfig, log *logger.Logger) BackgroundSync {
	return &backgroundSync{
		manager: manager,
		net:     net,
		policy:  policy,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
	}
}

// Start implements [BackgroundSync]. A previously running scheduler is
// stopped first. Passes are attempted on every tick of MinInterval and
// immediately when connectivity is regained; both paths go through the
// same policy gate.
func (b *backgroundSync) Start(ctx context.Context) {
	interval := b.cfg.MinInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	b.Stop()

	b.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	b.unsub = b.net.Subscribe(func() {
		// the Add races Stop's Wait unless gated by the same mutex Stop
		// uses to clear cancel; a callback arriving after Stop sees nil
		// and backs off
		b.mu.Lock()
		if b.cancel == nil || jobCtx.Err() != nil {
			b.mu.Unlock()
			return
		}
		b.wg.Add(1)
		b.mu.Unlock()
		go func() {
			defer b.wg.Done()
			if jobCtx.Err() != nil {
				return
			}
			result := b.TriggerNow(jobCtx)
			if result.Skipped != "" {
				b.log.Debug().Str("reason", result.Skipped).Msg("connectivity-regained sync skipped")
			}
		}()
	})
	b.wg.Add(1)
	b.mu.Unlock()

	go func() {
		defer b.wg.Done()
		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				result := b.TriggerNow(jobCtx)
				if result.Skipped != "" {
					b.log.Debug().Str("reason", result.Skipped).Msg("scheduled sync skipped")
				}
			}
		}
	}()
}

// Stop implements [BackgroundSync]. Safe to call when not running.
func (b *backgroundSync) Stop() {
	b.mu.Lock()
	cancel := b.cancel
	unsub := b.unsub
	b.cancel = nil
	b.unsub = nil
	b.mu.Unlock()

	if unsub != nil {
		unsub()
	}
	if cancel != nil {
		cancel()
	}
	b.wg.Wait()
}

// TriggerNow implements [BackgroundSync].
func (b *backgroundSync) TriggerNow(ctx context.Context) models.BackgroundSyncResult {
	if reason := b.skipReason(); reason != "" {
		return models.BackgroundSyncResult{Skipped: reason}
	}

	b.mu.Lock()
	b.lastPass = b.now()
	b.mu.Unlock()

	result, err := b.manager.Sync(ctx)
	if err != nil {
		if errors.Is(err, ErrSyncInProgress) {
			return models.BackgroundSyncResult{Skipped: skipInProgress}
		}
		b.log.Warn().Err(err).Msg("background sync pass failed")
	}
	return models.BackgroundSyncResult{Triggered: true, Result: &result}
}

// TimeUntilNextSync implements [BackgroundSync].
func (b *backgroundSync) TimeUntilNextSync() time.Duration {
	interval := b.cfg.MinInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.lastPass.IsZero() {
		return 0
	}

	remaining := interval - b.now().Sub(b.lastPass)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// skipReason applies the policy gate: connectivity, network class,
// charging state, and the minimum interval floor.
func (b *backgroundSync) skipReason() string {
	if !b.net.IsOnline() {
		return skipOffline
	}
	if b.cfg.RequiresWifi && !b.net.IsWifi() {
		return skipWifi
	}
	if b.cfg.RequiresCharging && !b.policy.IsCharging() {
		return skipCharging
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.lastPass.IsZero() && b.now().Sub(b.lastPass) < b.cfg.MinInterval {
		return skipMinInterval
	}
	return ""
}
