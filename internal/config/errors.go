package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidTransportConfigs indicates invalid transport settings
	// (for example, missing base URL or zero request timeout).
	ErrInvalidTransportConfigs = errors.New("invalid transport configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN or an unsupported driver).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSyncConfigs indicates invalid sync tuning
	// (for example, non-positive batch size or an unknown strategy).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidBackgroundConfigs indicates invalid background scheduler
	// settings (for example, zero minimum interval).
	ErrInvalidBackgroundConfigs = errors.New("invalid background configuration")
	// ErrInvalidDeviceConfigs indicates missing device identity settings.
	ErrInvalidDeviceConfigs = errors.New("invalid device configuration")
)
