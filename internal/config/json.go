package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pulsefest/pulse-sync/models"
)

// Duration is a time.Duration that unmarshals from a JSON string such as
// "30s" or "5m".
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}

	*d = Duration(parsed)
	return nil
}

// StructuredJSONConfig mirrors [StructuredConfig] with JSON field names and
// string durations. The per-entity conflict configuration lives only here:
// merge rules are declarative data that does not fit environment variables.
type StructuredJSONConfig struct {
	Device struct {
		ID         string `json:"id"`
		FestivalID string `json:"festival_id"`
		Key        string `json:"key"`
	} `json:"device,omitempty"`

	Transport struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"transport,omitempty"`

	Storage struct {
		Driver string `json:"driver"`
		DSN    string `json:"dsn"`
	} `json:"storage,omitempty"`

	Sync struct {
		BatchSize        int                           `json:"batch_size"`
		DequeueBatchSize int                           `json:"dequeue_batch_size"`
		MaxAttempts      int                           `json:"max_attempts"`
		BackoffBase      Duration                      `json:"backoff_base"`
		BackoffCeiling   Duration                      `json:"backoff_ceiling"`
		SkewTolerance    Duration                      `json:"skew_tolerance"`
		PassLease        Duration                      `json:"pass_lease"`
		DefaultStrategy  models.ConflictStrategy       `json:"default_strategy"`
		ConflictConfigs  []models.EntityConflictConfig `json:"conflict_configs"`
	} `json:"sync,omitempty"`

	Background struct {
		MinInterval      Duration `json:"min_interval"`
		RequiresWifi     bool     `json:"requires_wifi"`
		RequiresCharging bool     `json:"requires_charging"`
	} `json:"background,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err = json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json config: %w", err)
	}

	return jsonCfg.toStructured(), nil
}

// toStructured maps the JSON view onto the canonical [StructuredConfig].
func (j *StructuredJSONConfig) toStructured() *StructuredConfig {
	return &StructuredConfig{
		Device: Device{
			ID:         j.Device.ID,
			FestivalID: j.Device.FestivalID,
			Key:        j.Device.Key,
		},
		Transport: Transport{
			BaseURL:        j.Transport.BaseURL,
			RequestTimeout: time.Duration(j.Transport.RequestTimeout),
		},
		Storage: Storage{
			Driver: j.Storage.Driver,
			DSN:    j.Storage.DSN,
		},
		Sync: Sync{
			BatchSize:        j.Sync.BatchSize,
			DequeueBatchSize: j.Sync.DequeueBatchSize,
			MaxAttempts:      j.Sync.MaxAttempts,
			BackoffBase:      time.Duration(j.Sync.BackoffBase),
			BackoffCeiling:   time.Duration(j.Sync.BackoffCeiling),
			SkewTolerance:    time.Duration(j.Sync.SkewTolerance),
			PassLease:        time.Duration(j.Sync.PassLease),
			DefaultStrategy:  j.Sync.DefaultStrategy,
			ConflictConfigs:  j.Sync.ConflictConfigs,
		},
		Background: Background{
			MinInterval:      time.Duration(j.Background.MinInterval),
			RequiresWifi:     j.Background.RequiresWifi,
			RequiresCharging: j.Background.RequiresCharging,
		},
	}
}
