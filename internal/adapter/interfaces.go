// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pulse Festival Collective

// Package adapter provides the transport-layer abstractions between the
// sync engine and the festival API.
//
// The primary abstraction is [Transport], which decouples the sync
// services from the wire protocol. The package ships an HTTP/REST
// implementation ([NewHTTPTransport]) built on resty; the engine only
// requires idempotency-by-mutation-id on push and a monotonic since
// cursor on pull, not any particular wire format.
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so callers can use [errors.Is] for transport-agnostic
// handling (e.g. [ErrVersionConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/pulsefest/pulse-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// Transport defines protocol-agnostic communication with the festival
// API. Implementations are responsible for serialisation, auth header
// management, and mapping wire-level failures to the sentinel values
// defined in this package.
type Transport interface {
	// SetToken stores the bearer token attached to all subsequent
	// authenticated requests.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or
	// an empty string if none has been set yet.
	Token() string

	// Authenticate exchanges the device identity for a fresh bearer
	// token and stores it via SetToken. Returns ErrUnauthorized (wrapped)
	// when the device key is rejected.
	Authenticate(ctx context.Context) error

	// Push sends one mutation to the server. The request carries the
	// mutation id as idempotency key: the server must apply it at most
	// once. A version conflict is NOT an error — it is reported through
	// PushResult.Conflict together with the server's current snapshot.
	Push(ctx context.Context, req models.PushRequest) (models.PushResult, error)

	// Pull retrieves one page of server deltas for req.EntityType strictly
	// after req.Since, positioned by req.Cursor.
	Pull(ctx context.Context, req models.PullRequest) (models.PullPage, error)
}

// Connectivity reports whether the device currently has a usable network
// path, and lets the background service react to connectivity regained
// without polling.
type Connectivity interface {
	// IsOnline reports whether the festival API is currently reachable.
	IsOnline() bool

	// IsWifi reports whether the active network is unmetered Wi-Fi.
	IsWifi() bool

	// Subscribe registers fn to be called whenever connectivity is
	// regained. The returned function unsubscribes.
	Subscribe(fn func()) (unsubscribe func())
}

// DevicePolicy exposes the device conditions the background scheduler
// honors. On mobile builds this wraps platform battery APIs; elsewhere a
// static implementation suffices.
type DevicePolicy interface {
	// IsCharging reports whether the device is on external power.
	IsCharging() bool
}
