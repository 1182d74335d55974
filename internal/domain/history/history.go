// Package history persists and restores the snapshot log.
//
// The log is stored as one JSON text blob under a single key and is always
// rewritten in full.
package history

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/okian/realm/internal/domain/model"
	"github.com/okian/realm/pkg/logger"
	"github.com/okian/realm/pkg/metrics"
)

// DefaultKey is the storage key the history blob lives under.
const DefaultKey = "realmHistory"

// Reader fetches text by key. ok is false when the key is absent.
type Reader interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// Writer replaces the text stored under key.
type Writer interface {
	Set(ctx context.Context, key, value string) error
}

// Encode serializes snapshots into the persisted text format.
func Encode(snaps []model.Snapshot) (string, error) {
	if snaps == nil {
		snaps = []model.Snapshot{}
	}
	raw, err := json.Marshal(snaps)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return string(raw), nil
}

// Decode parses persisted text. A JSON null decodes to an empty log.
func Decode(text string) ([]model.Snapshot, error) {
	var snaps []model.Snapshot
	if err := json.Unmarshal([]byte(text), &snaps); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if snaps == nil {
		snaps = []model.Snapshot{}
	}
	return snaps, nil
}

// Load restores the log stored under key. Missing, unreadable or malformed
// text yields an empty log; the cause is only logged.
func Load(ctx context.Context, r Reader, key string, log logger.Logger) []model.Snapshot {
	text, ok, err := r.Get(ctx, key)
	switch {
	case err != nil:
		warn(ctx, log, "history read failed; starting empty", key, err)
		return []model.Snapshot{}
	case !ok:
		return []model.Snapshot{}
	}

	snaps, err := Decode(text)
	if err != nil {
		warn(ctx, log, "history unparsable; starting empty", key, err)
		return []model.Snapshot{}
	}
	return snaps
}

// Persist overwrites the stored log with snaps.
func Persist(ctx context.Context, w Writer, key string, snaps []model.Snapshot) error {
	text, err := Encode(snaps)
	if err != nil {
		return err
	}
	if err := w.Set(ctx, key, text); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func warn(ctx context.Context, log logger.Logger, msg, key string, err error) {
	metrics.RecordHistoryFallback()
	if log == nil {
		return
	}
	log.Warn(ctx, msg, logger.String("key", key), logger.Error(err))
}
