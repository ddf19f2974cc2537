package service

import (
	"github.com/pulsefest/pulse-sync/internal/adapter"
	"github.com/pulsefest/pulse-sync/internal/config"
	"github.com/pulsefest/pulse-sync/internal/logger"
	"github.com/pulsefest/pulse-sync/internal/store"
)

// Services bundles the fully wired sync engine.
type Services struct {
	Queue      MutationQueue
	Resolver   ConflictResolver
	Mutations  MutationHandler
	Sync       SyncManager
	Background BackgroundSync
}

// NewServices wires the engine from its stores, transport, and
// connectivity sources. applier is the application's local datastore
// sink for pulled records.
func NewServices(
	storages *store.Storages,
	transport adapter.Transport,
	net adapter.Connectivity,
	policy adapter.DevicePolicy,
	applier RecordApplier,
	cfg *config.StructuredConfig,
	log *logger.Logger,
) *Services {
	queue := NewMutationQueue(storages.Queue, cfg.Sync, log)
	resolver := NewConflictResolver(cfg.Sync, log)
	mutations := NewMutationHandler(queue, resolver, transport, net, storages.Conflicts, storages.SyncState, log)
	syncMgr := NewSyncManager(queue, mutations, transport, net, storages.SyncState, applier, cfg.Sync, log)

	return &Services{
		Queue:      queue,
		Resolver:   resolver,
		Mutations:  mutations,
		Sync:       syncMgr,
		Background: NewBackgroundSync(syncMgr, net, policy, cfg.BackgroundConfig(), log),
	}
}
