// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pulse Festival Collective

package config

import "github.com/pulsefest/pulse-sync/models"

// validate checks that the final merged [StructuredConfig] satisfies all
// engine invariants before it is used at startup. The Sync Manager repeats
// the Sync/Background checks at its preparing phase, so a config mutated
// after startup is still caught.
func (cfg *StructuredConfig) validate() error {
	if cfg.Transport.BaseURL == "" || cfg.Transport.RequestTimeout <= 0 {
		return ErrInvalidTransportConfigs
	}

	if cfg.Storage.DSN == "" {
		return ErrInvalidStorageConfigs
	}
	if cfg.Storage.Driver != "sqlite3" && cfg.Storage.Driver != "pgx" {
		return ErrInvalidStorageConfigs
	}

	if err := cfg.Sync.validate(); err != nil {
		return err
	}

	if cfg.Background.MinInterval <= 0 {
		return ErrInvalidBackgroundConfigs
	}

	if cfg.Device.ID == "" || cfg.Device.FestivalID == "" {
		return ErrInvalidDeviceConfigs
	}

	return nil
}

// validate checks the sync tuning section on its own. Exported to the Sync
// Manager indirectly via [StructuredConfig.validate]; kept separate so the
// preparing phase can revalidate just this group.
func (s Sync) validate() error {
	if s.BatchSize <= 0 || s.DequeueBatchSize <= 0 || s.MaxAttempts <= 0 {
		return ErrInvalidSyncConfigs
	}
	if s.BackoffBase <= 0 || s.BackoffCeiling < s.BackoffBase {
		return ErrInvalidSyncConfigs
	}
	if s.SkewTolerance < 0 || s.PassLease <= 0 {
		return ErrInvalidSyncConfigs
	}
	if !s.DefaultStrategy.Valid() {
		return ErrInvalidSyncConfigs
	}

	for _, cc := range s.ConflictConfigs {
		if !models.IsKnownEntityType(cc.EntityType) || !cc.Strategy.Valid() {
			return ErrInvalidSyncConfigs
		}
		if cc.Strategy == models.StrategyFieldMerge && len(cc.MergeRules) == 0 {
			return ErrInvalidSyncConfigs
		}
	}

	return nil
}
