// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Pulse Festival Collective

package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/pulsefest/pulse-sync/internal/config"
	"github.com/pulsefest/pulse-sync/models"
)

type httpTransport struct {
	client     *resty.Client
	deviceID   string
	festivalID string
	deviceKey  string

	mu    sync.RWMutex
	token string
}

// NewHTTPTransport constructs the REST implementation of [Transport]
// against the festival API described by cfg.
func NewHTTPTransport(cfg config.Transport, device config.Device) Transport {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	cli := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout)

	return &httpTransport{
		client:     cli,
		deviceID:   device.ID,
		festivalID: device.FestivalID,
		deviceKey:  device.Key,
	}
}

func (h *httpTransport) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpTransport) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

type deviceLoginRequest struct {
	DeviceID   string `json:"device_id"`
	FestivalID string `json:"festival_id"`
	DeviceKey  string `json:"device_key"`
}

// Authenticate implements [Transport].
func (h *httpTransport) Authenticate(ctx context.Context) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(deviceLoginRequest{
			DeviceID:   h.deviceID,
			FestivalID: h.festivalID,
			DeviceKey:  h.deviceKey,
		}).
		Post("/api/auth/device")
	if err != nil {
		return fmt.Errorf("device login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	token, err := parseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return fmt.Errorf("device login parse bearer token: %w", err)
	}

	h.SetToken(token)
	return nil
}

// Push implements [Transport]. A 409 response is not surfaced as an
// error: the body carries the server's current snapshot and the result is
// returned with Conflict set so the resolver can reconcile immediately.
func (h *httpTransport) Push(ctx context.Context, req models.PushRequest) (models.PushResult, error) {
	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader("Idempotency-Key", req.MutationID).
		SetBody(req).
		Post("/api/sync/push")
	if err != nil {
		return models.PushResult{}, fmt.Errorf("push request: %w", err)
	}

	if resp.StatusCode() == http.StatusConflict {
		var result models.PushResult
		if err = json.Unmarshal(resp.Body(), &result); err != nil {
			return models.PushResult{}, fmt.Errorf("decode push conflict response: %w", err)
		}
		result.Conflict = true
		result.Success = false
		return result, nil
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PushResult{}, err
	}

	var result models.PushResult
	if err = json.Unmarshal(resp.Body(), &result); err != nil {
		return models.PushResult{}, fmt.Errorf("decode push response: %w", err)
	}
	return result, nil
}

// Pull implements [Transport].
func (h *httpTransport) Pull(ctx context.Context, req models.PullRequest) (models.PullPage, error) {
	r := h.authedRequest(ctx).
		SetQueryParam("entity_type", string(req.EntityType)).
		SetQueryParam("limit", strconv.Itoa(req.Limit))
	if req.Since != nil {
		r = r.SetQueryParam("since", req.Since.UTC().Format(time.RFC3339Nano))
	}
	if req.Cursor != "" {
		r = r.SetQueryParam("cursor", req.Cursor)
	}

	resp, err := r.Get("/api/sync/pull")
	if err != nil {
		return models.PullPage{}, fmt.Errorf("pull request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PullPage{}, err
	}

	var page models.PullPage
	if err = json.Unmarshal(resp.Body(), &page); err != nil {
		return models.PullPage{}, fmt.Errorf("decode pull response: %w", err)
	}
	return page, nil
}

func (h *httpTransport) authedRequest(ctx context.Context) *resty.Request {
	return h.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+h.Token())
}

func parseBearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", fmt.Errorf("authorization header is not a bearer token")
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", fmt.Errorf("bearer token is empty")
	}
	return token, nil
}

// TokenNeedsRefresh reports whether token is absent, unparsable, or
// expires within the given window. The signature is NOT verified — only
// the server can do that; this is a local pre-flight check used by the
// Sync Manager's authenticating phase to refresh proactively.
func TokenNeedsRefresh(token string, within time.Duration) bool {
	if token == "" {
		return true
	}

	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return time.Until(exp.Time) < within
}
