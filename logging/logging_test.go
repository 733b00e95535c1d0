package logging

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected Level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected Format 'console', got '%s'", cfg.Format)
	}
	if !cfg.Console {
		t.Error("expected Console to be true")
	}
}

func TestConfigTransportLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"unknown", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := Config{Level: tt.level}
			if got := cfg.TransportLevel(); got != tt.expected {
				t.Errorf("TransportLevel() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFileLogging(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	log := NewLogger(Config{Level: "info", Format: "json", Director: dir, Console: false})

	log.Info("stored object", zap.String("key", "a/b/c/x.jpg"))
	if err := log.Sync(); err != nil {
		t.Logf("sync: %v", err) // stderr sync fails on some platforms; file sync is what matters
	}

	data, err := os.ReadFile(filepath.Join(dir, "media.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected log output in file")
	}
}

func TestLoggerWithFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := FromZap(zap.New(core)).With(zap.String("component", "media")).Named("queue")

	log.Info("job done", zap.Int("size", 42))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].LoggerName != "queue" {
		t.Errorf("expected logger name 'queue', got %q", entries[0].LoggerName)
	}
	fields := entries[0].ContextMap()
	if fields["component"] != "media" {
		t.Errorf("expected component field, got %v", fields)
	}
	if fields["size"] != int64(42) {
		t.Errorf("expected size field, got %v", fields)
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	log := NewNop()
	log.Debug("a")
	log.Info("b")
	log.Warn("c")
	log.Error("d")
	if err := log.Sync(); err != nil {
		t.Errorf("nop sync: %v", err)
	}
}

func TestNewLoggerWithoutOutputsFallsBackToNop(t *testing.T) {
	log := NewLogger(Config{Console: false})
	log.Info("discarded")
}
