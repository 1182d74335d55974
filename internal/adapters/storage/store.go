// Package storage provides the key-value persistence the history log is
// written to.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/okian/realm/pkg/metrics"
)

// Supported drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Store reads and replaces text by key.
type Store interface {
	// Get returns the value under key; ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set replaces the value under key.
	Set(ctx context.Context, key, value string) error
	// Close releases resources held by the store.
	Close() error
}

// Open builds the store for driver. path is ignored by the memory driver.
func Open(ctx context.Context, driver, path string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverMemory, "":
		s = NewMemoryStore()
		driver = DriverMemory
	case DriverFile:
		s, err = NewFileStore(path)
	case DriverSQLite:
		s, err = NewSQLiteStore(ctx, path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(driver, s), nil
}

// instrumented records metrics around every call of the wrapped store.
type instrumented struct {
	driver string
	next   Store
}

// Instrument wraps s so each call is counted and timed under driver.
func Instrument(driver string, s Store) Store {
	return &instrumented{driver: driver, next: s}
}

func (i *instrumented) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	v, ok, err := i.next.Get(ctx, key)
	metrics.RecordStorageOp(i.driver, "get", err, sinceMs(start))
	return v, ok, err
}

func (i *instrumented) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := i.next.Set(ctx, key, value)
	metrics.RecordStorageOp(i.driver, "set", err, sinceMs(start))
	return err
}

func (i *instrumented) Close() error { return i.next.Close() }

func sinceMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
