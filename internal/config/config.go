// Package config defines process configuration and its defaults.
package config

import (
	"fmt"
	"strings"
)

// Storage drivers understood by the storage adapter.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFile, when set, receives a JSON copy of every log record.
	LogFile string `koanf:"log_file"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// StorageDriver selects where history is kept: memory, file or sqlite.
	StorageDriver string `koanf:"storage_driver"`

	// StoragePath is the file or database path for persistent drivers.
	StoragePath string `koanf:"storage_path"`

	// HistoryKey is the storage key the snapshot log lives under.
	HistoryKey string `koanf:"history_key"`

	// DateLayout formats snapshot dates (Go reference time layout).
	DateLayout string `koanf:"date_layout"`

	// QueueSize bounds the dispatch queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize caps how many request ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// WriteRate limits API writes per second; 0 disables the limit.
	WriteRate float64 `koanf:"write_rate"`

	// WriteBurst is the number of writes allowed above WriteRate at once.
	WriteBurst int `koanf:"write_burst"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":9080",
		StorageDriver: DriverFile,
		StoragePath:   "realm.json",
		HistoryKey:    "realmHistory",
		DateLayout:    "1/2/2006",
		QueueSize:     1024,
		DedupeSize:    10_000,
		WriteRate:     50,
		WriteBurst:    100,
	}
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.HistoryKey) == "":
		return fmt.Errorf("%w: history_key must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DateLayout) == "":
		return fmt.Errorf("%w: date_layout must not be empty", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.DedupeSize < 0:
		return fmt.Errorf("%w: dedupe_size must not be negative", ErrInvalidConfig)
	case c.WriteRate < 0:
		return fmt.Errorf("%w: write_rate must not be negative", ErrInvalidConfig)
	case c.WriteRate > 0 && c.WriteBurst <= 0:
		return fmt.Errorf("%w: write_burst must be positive when write_rate is set", ErrInvalidConfig)
	}

	switch strings.ToLower(c.StorageDriver) {
	case DriverMemory:
	case DriverFile, DriverSQLite:
		if strings.TrimSpace(c.StoragePath) == "" {
			return fmt.Errorf("%w: storage_path is required for the %s driver", ErrInvalidConfig, c.StorageDriver)
		}
	default:
		return fmt.Errorf("%w: unknown storage_driver %q", ErrInvalidConfig, c.StorageDriver)
	}
	return nil
}
