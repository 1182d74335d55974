package service

import (
	"time"

	"github.com/okian/realm/internal/adapters/storage"
	"github.com/okian/realm/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the capacity of the dispatch queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many request ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStore sets the key-value store the history is kept in. The caller
// keeps ownership and closes it.
func WithStore(st storage.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithHistoryKey sets the storage key of the history blob.
func WithHistoryKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.historyKey = key
		}
	}
}

// WithDateLayout sets the time layout snapshot dates are formatted with.
func WithDateLayout(layout string) Option {
	return func(s *Service) {
		if layout != "" {
			s.dateLayout = layout
		}
	}
}

// WithClock replaces time.Now for snapshot dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator replaces the opportunity id source.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}
