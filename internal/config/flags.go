package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-base-url festival API base URL
//	-d storage DSN
//	-driver storage driver (sqlite3 or pgx)
//	-device-id device identifier
//	-festival-id festival scope identifier
//	-device-key device API key
//	-c/-config json file path with configs
//	-batch-size pull page size
//	-min-interval background sync interval floor (e.g. "5m")
//	-request-timeout transport request timeout (e.g. "30s")
func ParseFlags() *StructuredConfig {
	var baseURL string
	var dsn string
	var driver string
	var deviceID string
	var festivalID string
	var deviceKey string
	var jsonConfigPath string
	var batchSize int
	var minInterval time.Duration
	var requestTimeout time.Duration

	flag.StringVar(&baseURL, "base-url", "", "Festival API base URL")
	flag.StringVar(&dsn, "d", "", "Storage DSN")
	flag.StringVar(&driver, "driver", "", "Storage driver (sqlite3 or pgx)")
	flag.StringVar(&deviceID, "device-id", "", "Device identifier")
	flag.StringVar(&festivalID, "festival-id", "", "Festival identifier")
	flag.StringVar(&deviceKey, "device-key", "", "Device API key")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.IntVar(&batchSize, "batch-size", 0, "Pull page size")
	flag.DurationVar(&minInterval, "min-interval", 0, "Background sync interval floor (e.g. 5m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Transport request timeout (e.g. 30s)")

	flag.Parse()

	return &StructuredConfig{
		Device: Device{
			ID:         deviceID,
			FestivalID: festivalID,
			Key:        deviceKey,
		},
		Transport: Transport{
			BaseURL:        baseURL,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			Driver: driver,
			DSN:    dsn,
		},
		Sync: Sync{
			BatchSize: batchSize,
		},
		Background: Background{
			MinInterval: minInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}
