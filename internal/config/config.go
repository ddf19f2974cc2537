// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pulse Festival Collective

package config

import (
	"time"

	"github.com/pulsefest/pulse-sync/models"
)

// StructuredConfig is the top-level configuration container for a pulse-sync
// device. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// Device identifies this installation inside the festival platform.
	Device Device `envPrefix:"DEVICE_"`

	// Transport holds the REST endpoint settings for the festival API.
	Transport Transport `envPrefix:"TRANSPORT_"`

	// Storage holds the durable local store settings (queue, cursors,
	// pass marker).
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync tunes batching, retry backoff, and conflict resolution.
	Sync Sync `envPrefix:"SYNC_"`

	// Background configures the scheduled sync trigger.
	Background Background `envPrefix:"BACKGROUND_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Device identifies the physical installation running the engine.
type Device struct {
	// ID is the stable device identifier registered with the festival API.
	// Env: DEVICE_ID
	ID string `env:"ID"`

	// FestivalID scopes every sync pass to one festival.
	// Env: DEVICE_FESTIVAL_ID
	FestivalID string `env:"FESTIVAL_ID"`

	// Key is the device API key presented at login. Must be kept
	// confidential.
	// Env: DEVICE_KEY
	Key string `env:"KEY"`
}

// Transport holds network settings for the REST transport adapter.
type Transport struct {
	// BaseURL is the festival API base URL (e.g. "https://api.example.com").
	// Env: TRANSPORT_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout is the per-request timeout applied by the resty client.
	// Env: TRANSPORT_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage holds durable store settings.
type Storage struct {
	// Driver selects the database driver: "sqlite3" for handheld devices,
	// "pgx" for fixed gate-controller installs backed by Postgres.
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the connection string for the selected driver.
	// Env: STORAGE_DSN
	DSN string `env:"DSN"`
}

// Sync tunes the Mutation Queue and the Sync Manager.
type Sync struct {
	// BatchSize bounds how many records one pull page requests.
	// Env: SYNC_BATCH_SIZE
	BatchSize int `env:"BATCH_SIZE"`

	// DequeueBatchSize bounds how many queue items one replay claim takes.
	// Env: SYNC_DEQUEUE_BATCH_SIZE
	DequeueBatchSize int `env:"DEQUEUE_BATCH_SIZE"`

	// MaxAttempts caps automatic retries of a failed queue item; beyond it
	// the item is flagged permanent and needs manual intervention.
	// Env: SYNC_MAX_ATTEMPTS
	MaxAttempts int `env:"MAX_ATTEMPTS"`

	// BackoffBase is the first retry delay; subsequent delays double up to
	// BackoffCeiling, with full jitter applied.
	// Env: SYNC_BACKOFF_BASE
	BackoffBase time.Duration `env:"BACKOFF_BASE"`

	// BackoffCeiling caps the exponential retry delay.
	// Env: SYNC_BACKOFF_CEILING
	BackoffCeiling time.Duration `env:"BACKOFF_CEILING"`

	// SkewTolerance is the device/server clock skew window: two timestamps
	// within it are treated as simultaneous by the Conflict Resolver.
	// Env: SYNC_SKEW_TOLERANCE
	SkewTolerance time.Duration `env:"SKEW_TOLERANCE"`

	// PassLease bounds how long a durable pass-active marker is honored
	// before it is considered abandoned by a crashed process.
	// Env: SYNC_PASS_LEASE
	PassLease time.Duration `env:"PASS_LEASE"`

	// DefaultStrategy applies to entity types without an explicit entry in
	// ConflictConfigs.
	// Env: SYNC_DEFAULT_STRATEGY
	DefaultStrategy models.ConflictStrategy `env:"DEFAULT_STRATEGY"`

	// ConflictConfigs lists per-entity-type strategies and merge rules.
	// Populated from the JSON config file only.
	ConflictConfigs []models.EntityConflictConfig `env:"-"`
}

// Background configures the Background Sync Service.
type Background struct {
	// MinInterval is the floor between two background-triggered passes.
	// Env: BACKGROUND_MIN_INTERVAL
	MinInterval time.Duration `env:"MIN_INTERVAL"`

	// RequiresWifi suppresses background sync on metered connections.
	// Env: BACKGROUND_REQUIRES_WIFI
	RequiresWifi bool `env:"REQUIRES_WIFI"`

	// RequiresCharging suppresses background sync on battery power.
	// Env: BACKGROUND_REQUIRES_CHARGING
	RequiresCharging bool `env:"REQUIRES_CHARGING"`
}

// ConflictConfigFor returns the conflict configuration for one entity
// type, falling back to the default strategy when no explicit entry exists.
func (s Sync) ConflictConfigFor(t models.EntityType) models.EntityConflictConfig {
	for _, cc := range s.ConflictConfigs {
		if cc.EntityType == t {
			return cc
		}
	}
	return models.EntityConflictConfig{EntityType: t, Strategy: s.DefaultStrategy}
}

// BatchConfig returns the Sync section as the plain models value consumed
// by the Sync Manager.
func (cfg *StructuredConfig) BatchConfig() models.BatchConfig {
	return models.BatchConfig{BatchSize: cfg.Sync.BatchSize}
}

// BackgroundConfig returns the Background section as the plain models value
// consumed by the Background Sync Service.
func (cfg *StructuredConfig) BackgroundConfig() models.BackgroundSyncConfig {
	return models.BackgroundSyncConfig{
		MinInterval:      cfg.Background.MinInterval,
		RequiresWifi:     cfg.Background.RequiresWifi,
		RequiresCharging: cfg.Background.RequiresCharging,
	}
}

// GetStructuredConfig builds the merged device configuration. Layers are
// merged with mergo in precedence order — environment variables, then
// flags, then the optional JSON file — and the built-in defaults fill
// whatever remains empty. The result is validated before it is returned.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}

// defaults returns the baseline configuration a device starts from before
// any external layer is applied.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		Transport: Transport{
			RequestTimeout: 15 * time.Second,
		},
		Storage: Storage{
			Driver: "sqlite3",
			DSN:    "pulse-sync.db",
		},
		Sync: Sync{
			BatchSize:        100,
			DequeueBatchSize: 25,
			MaxAttempts:      8,
			BackoffBase:      time.Second,
			BackoffCeiling:   5 * time.Minute,
			SkewTolerance:    2 * time.Second,
			PassLease:        10 * time.Minute,
			DefaultStrategy:  models.StrategyLastWriteWins,
		},
		Background: Background{
			MinInterval: 5 * time.Minute,
		},
	}
}
