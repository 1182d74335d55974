package logger

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Get().Info(context.Background(), "snapshot saved", String("date", "10/19/2026"), Int("count", 3))

	out := buf.String()
	for _, want := range []string{"snapshot saved", "date=10/19/2026", "count=3", "source=", "logger_test.go"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Named("storage").Warn(context.Background(), "slow write")

	if !strings.Contains(buf.String(), "logger=storage") {
		t.Errorf("named logger output %q missing name", buf.String())
	}
}

func TestLoggerFileFanout(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "realm.log")
	if err := Init(WithWriter(&buf), WithFile(path)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	Get().Error(context.Background(), "persist failed", String("key", "realmHistory"))
	if err := Sync(); err != nil {
		t.Fatalf("sync: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(raw), `"msg":"persist failed"`) {
		t.Errorf("json log %q missing message", raw)
	}
	if !strings.Contains(buf.String(), "persist failed") {
		t.Errorf("text log %q missing message", buf.String())
	}
}

func TestLoggerBadFile(t *testing.T) {
	var buf bytes.Buffer
	err := Init(WithWriter(&buf), WithFile(filepath.Join(t.TempDir(), "missing", "dir", "x.log")))
	if err == nil {
		t.Fatal("expected error for unopenable log file")
	}
	// Falls back to text-only logging.
	Get().Info(context.Background(), "still logging")
	if !strings.Contains(buf.String(), "still logging") {
		t.Errorf("fallback logger did not write: %q", buf.String())
	}
}

func TestSetLevelString(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(WithWriter(&buf)); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	for _, lvl := range []string{"debug", "INFO", "warning", "error", ""} {
		if err := SetLevelString(lvl); err != nil {
			t.Errorf("SetLevelString(%q) = %v", lvl, err)
		}
	}
	if err := SetLevelString("loud"); err == nil {
		t.Error("expected error for unknown level")
	}

	_ = SetLevelString("error")
	Get().Info(context.Background(), "hidden")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("info record written at error level")
	}
	_ = SetLevelString("info")
}
