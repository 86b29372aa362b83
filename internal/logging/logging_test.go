package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelWarn},
		{"  INFO  ", slog.LevelInfo},
		{"bogus", slog.LevelWarn},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "rbsync.log")

	log, closer, err := New(Options{Level: "info", File: path})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	log.Info("hello", "key", "value")
	if err := closer(); err != nil {
		t.Fatalf("closer() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) == 0 {
		t.Error("log file is empty")
	}
}

func TestNew_LevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rbsync.log")

	log, closer, err := New(Options{Level: "error", File: path})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	log.Info("should be filtered")
	if err := closer(); err != nil {
		t.Fatalf("closer() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("info record leaked through error level: %q", data)
	}
}

func TestNew_NoFile(t *testing.T) {
	log, closer, err := New(Options{})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if log == nil {
		t.Fatal("New() returned nil logger")
	}
	if err := closer(); err != nil {
		t.Errorf("closer() error: %v", err)
	}
}
