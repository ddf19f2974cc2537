// Package devserver is a self-contained festival API good enough to run
// the sync engine against during development: device login, idempotent
// push with version checking, and cursor-paged pull, all over one
// in-memory store. It is not the production backend.
package devserver

import (
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/pulsefest/pulse-sync/internal/logger"
)

const (
	defaultPullLimit = 100
	defaultTokenTTL  = time.Hour
)

var (
	ErrEmptyAuthorizationHeader   = errors.New("empty Authorization header")
	ErrInvalidAuthorizationHeader = errors.New("invalid Authorization header")
	ErrUnknownDevice              = errors.New("unknown device")
	ErrWrongDeviceKey             = errors.New("wrong device key")
	ErrWrongFestival              = errors.New("device belongs to another festival")
)

// Config describes one devserver instance.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	// Env: DEVSERVER_ADDR
	Addr string `env:"ADDR" envDefault:":8080"`

	// FestivalID is the single festival this instance serves.
	// Env: DEVSERVER_FESTIVAL_ID
	FestivalID string `env:"FESTIVAL_ID" envDefault:"fest-local"`

	// JWTSecret signs the HS256 device tokens.
	// Env: DEVSERVER_JWT_SECRET
	JWTSecret string `env:"JWT_SECRET" envDefault:"dev-secret"`

	// TokenTTL bounds device token lifetime.
	// Env: DEVSERVER_TOKEN_TTL
	TokenTTL time.Duration `env:"TOKEN_TTL"`

	// DeviceID and DeviceKey pre-register one device so a local engine
	// can log in without extra setup.
	// Env: DEVSERVER_DEVICE_ID, DEVSERVER_DEVICE_KEY
	DeviceID  string `env:"DEVICE_ID" envDefault:"dev-device"`
	DeviceKey string `env:"DEVICE_KEY" envDefault:"dev-key"`
}

// Handler serves the devserver REST API.
type Handler struct {
	cfg   Config
	store *memoryStore

	// device ID to bcrypt hash of its key
	devices map[string][]byte

	logger *logger.Logger
}

// NewHandler builds a devserver handler. Devices are registered
// afterwards via [Handler.RegisterDevice].
func NewHandler(cfg Config, log *logger.Logger) *Handler {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	log.Info().Str("festival_id", cfg.FestivalID).Msg("devserver handler created")
	return &Handler{
		cfg:     cfg,
		store:   newMemoryStore(),
		devices: make(map[string][]byte),
		logger:  log,
	}
}

// RegisterDevice stores a bcrypt hash of the device key. The plain key
// is never kept.
func (h *Handler) RegisterDevice(deviceID, deviceKey string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(deviceKey), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash device key: %w", err)
	}

	h.devices[deviceID] = hash
	return nil
}

func (h *Handler) checkDeviceKey(deviceID, festivalID, deviceKey string) error {
	hash, ok := h.devices[deviceID]
	if !ok {
		return ErrUnknownDevice
	}
	if festivalID != h.cfg.FestivalID {
		return ErrWrongFestival
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(deviceKey)); err != nil {
		return ErrWrongDeviceKey
	}
	return nil
}
