package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestLogBeforeInitIsSilent(t *testing.T) {
	// Must not panic when nothing has been initialized yet.
	Log = zap.NewNop()
	Sugar = Log.Sugar()

	Info("terrain built", zap.Int("width", 4))
	Sugar.Debugf("query at %f,%f", 1.0, 2.0)
	Sync()
}

func TestLogRotation(t *testing.T) {
	tempDir := t.TempDir()
	logFile := filepath.Join(tempDir, "terrain.log")

	cfg := FileConfig{
		Path:       logFile,
		MaxSizeMB:  1, // smallest size lumberjack allows
		MaxBackups: 2,
		MaxAgeDays: 1,
		Compress:   false,
	}
	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	defer Sync()

	// ~250 bytes per line, 6000 lines is well over 1MB.
	payload := strings.Repeat("h", 200)
	for i := 0; i < 6000; i++ {
		Debug("height query", zap.Int("n", i), zap.String("payload", payload))
	}
	Sync()

	entries, err := os.ReadDir(tempDir)
	if err != nil {
		t.Fatalf("failed to read temp dir: %v", err)
	}

	var rotated []string
	for _, e := range entries {
		name := e.Name()
		if name != "terrain.log" && strings.HasPrefix(name, "terrain-") && strings.HasSuffix(name, ".log") {
			rotated = append(rotated, name)
		}
	}
	if _, err := os.Stat(logFile); err != nil {
		t.Errorf("active log file missing: %v", err)
	}
	if len(rotated) == 0 {
		t.Errorf("expected at least one rotated file, found %v", entries)
	}
}

func TestLogLevels(t *testing.T) {
	tempDir := t.TempDir()

	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{level: "error", expected: []string{"ERROR"}, excluded: []string{"WARN", "INFO", "DEBUG"}},
		{level: "warn", expected: []string{"ERROR", "WARN"}, excluded: []string{"INFO", "DEBUG"}},
		{level: "info", expected: []string{"ERROR", "WARN", "INFO"}, excluded: []string{"DEBUG"}},
		{level: "debug", expected: []string{"ERROR", "WARN", "INFO", "DEBUG"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logFile := filepath.Join(tempDir, tt.level+".log")
			cfg := FileConfig{Path: logFile, MaxSizeMB: 10, MaxBackups: 1, MaxAgeDays: 1}

			if err := InitWithFileConfig(tt.level, cfg, false); err != nil {
				t.Fatalf("failed to init logger: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")
			Sync()

			content, err := os.ReadFile(logFile)
			if err != nil {
				t.Fatalf("failed to read log file: %v", err)
			}
			out := string(content)

			for _, exp := range tt.expected {
				if !strings.Contains(out, exp) {
					t.Errorf("expected %s in log output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(out, exc) {
					t.Errorf("unexpected %s in log output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestFieldsWrittenToFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "fields.log")
	if err := InitWithFileConfig("info", FileConfig{Path: logFile, MaxSizeMB: 1}, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}

	Info("terrain built", zap.Int("vertices", 16), zap.String("split", "quadrant"))
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	out := string(content)
	for _, want := range []string{"terrain built", `"vertices": 16`, `"split": "quadrant"`, "logger_test.go"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in log output, got %q", want, out)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q): got %v, want %v", in, got, want)
		}
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/terrain.log")

	if cfg.Path != "/tmp/terrain.log" {
		t.Errorf("expected path /tmp/terrain.log, got %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 {
		t.Errorf("expected MaxSizeMB 20, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups != 3 {
		t.Errorf("expected MaxBackups 3, got %d", cfg.MaxBackups)
	}
	if cfg.MaxAgeDays != 14 {
		t.Errorf("expected MaxAgeDays 14, got %d", cfg.MaxAgeDays)
	}
	if !cfg.Compress {
		t.Error("expected Compress to be true")
	}
}
