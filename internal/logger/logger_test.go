package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	err := Init(Config{
		Debug:     false,
		ConfigDir: configDir,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}

	logDir := filepath.Join(configDir, "logs")
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		t.Errorf("Log directory was not created: %s", logDir)
	}

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message", "key", "value")
	Error("Test error message")

	data, err := os.ReadFile(LogPath(configDir))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "Test debug message") {
		t.Error("debug message should be filtered below warn level")
	}
	if !strings.Contains(content, "Test warning message") {
		t.Errorf("warning message missing from log file: %q", content)
	}
}

func TestInitDebugMode(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	var console bytes.Buffer

	err := Init(Config{
		Debug:     true,
		ConfigDir: configDir,
		Console:   &console,
	})
	if err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}

	Debug("Test debug message in debug mode")
	if !strings.Contains(console.String(), "Test debug message in debug mode") {
		t.Errorf("console missing debug record: %q", console.String())
	}
}

func TestDetachHoldsBackConsole(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")
	var console bytes.Buffer
	if err := Init(Config{Debug: true, ConfigDir: configDir, Console: &console}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}

	reattach := Detach()
	Warn("while the program owns the screen")
	if console.Len() != 0 {
		t.Errorf("console written while detached: %q", console.String())
	}

	reattach()
	Warn("after the program exits")
	if !strings.Contains(console.String(), "after the program exits") {
		t.Errorf("console missing record after reattach: %q", console.String())
	}

	data, err := os.ReadFile(LogPath(configDir))
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "while the program owns the screen") {
		t.Error("detached record missing from the log file")
	}
}

func TestConsoleIgnoredWithoutDebug(t *testing.T) {
	var console bytes.Buffer
	if err := Init(Config{ConfigDir: t.TempDir(), Console: &console}); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	Error("file only")
	if console.Len() != 0 {
		t.Errorf("console written without debug: %q", console.String())
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestLogPath(t *testing.T) {
	got := LogPath("/tmp/cfg")
	want := filepath.Join("/tmp/cfg", "logs", "slackfeedback.log")
	if got != want {
		t.Errorf("LogPath() = %q, want %q", got, want)
	}
}
