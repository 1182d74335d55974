package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/realm/pkg/logger"
)

// FileStore keeps every key in one JSON object on disk, like a browser's
// local storage area. Each Set rewrites the file through a rename.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore opens (or prepares) the store file at path.
func NewFileStore(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: file driver", ErrMissingPath)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Get returns the value under key.
func (f *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := data[key]
	return v, ok, nil
}

// Set replaces the value under key. A file that cannot be parsed is moved
// aside to a ".corrupt-<unix>" copy before a fresh one is written. Any other
// read failure aborts the write.
func (f *FileStore) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	switch {
	case errors.Is(err, ErrCorrupt):
		backup, berr := f.moveAside()
		if berr != nil {
			return fmt.Errorf("%w; backup failed: %w", err, berr)
		}
		logger.Named("storage").Warn(ctx, "unreadable store file moved aside",
			logger.String("path", f.path),
			logger.String("backup", backup),
			logger.Error(err),
		)
		data = map[string]string{}
	case err != nil:
		return err
	}
	data[key] = value
	return f.write(data)
}

func (f *FileStore) moveAside() (string, error) {
	backup := fmt.Sprintf("%s.corrupt-%d", f.path, time.Now().UnixNano())
	if err := os.Rename(f.path, backup); err != nil {
		return "", fmt.Errorf("move store file aside: %w", err)
	}
	return backup, nil
}

// Close is a no-op; the file is not held open.
func (f *FileStore) Close() error { return nil }

func (f *FileStore) read() (map[string]string, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}
	data := map[string]string{}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return data, nil
}

func (f *FileStore) write(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".realm-store-*")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace store file: %w", err)
	}
	return nil
}
