package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTempLogger(t *testing.T, level Level) (*FileLogger, string) {
	t.Helper()
	logPath := filepath.Join(t.TempDir(), "test.log")
	l, err := NewFileLogger(&Config{
		LogFilePath:   logPath,
		MaxFileSize:   1024 * 1024,
		MaxBackups:    3,
		Level:         level,
		EnableConsole: false,
	})
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l, logPath
}

func TestNewFileLogger(t *testing.T) {
	_, logPath := newTempLogger(t, LevelDebug)
	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("Log file was not created")
	}
}

func TestLogLevels(t *testing.T) {
	l, logPath := newTempLogger(t, LevelDebug)

	l.Debug("debug message", String("key", "value"))
	l.Info("info message", Int("count", 42))
	l.Warn("warn message", Bool("flag", true))
	l.Error("error message", errors.New("boom"), Float64("ratio", 0.5))

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"[DEBUG] debug message key=value",
		"[INFO] info message count=42",
		"[WARN] warn message flag=true",
		`[ERROR] error message error="boom" ratio=0.5`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("log missing %q\ngot: %s", want, content)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	l, logPath := newTempLogger(t, LevelWarn)

	l.Debug("filtered debug")
	l.Info("filtered info")
	l.Warn("kept warn")

	data, _ := os.ReadFile(logPath)
	content := string(data)
	if strings.Contains(content, "filtered") {
		t.Errorf("messages below the level leaked: %s", content)
	}
	if !strings.Contains(content, "kept warn") {
		t.Errorf("warn message missing: %s", content)
	}
}

func TestGlobalLoggerFallback(t *testing.T) {
	// without Init the global logger must be a safe no-op
	Debug("no-op debug")
	Info("no-op info")
	Warn("no-op warn")
	Error("no-op error", errors.New("x"))
}

func TestErrField(t *testing.T) {
	f := Err(nil)
	if f.Key != "error" || f.Value != nil {
		t.Errorf("Err(nil) = %+v", f)
	}
	f = Err(errors.New("bad"))
	if f.Value != "bad" {
		t.Errorf("Err() value = %v", f.Value)
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
