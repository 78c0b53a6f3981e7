package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
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
		t.Error("Logger is nil after initialization")
	}

	if want := filepath.Join(logDir, "mantenix.log"); Path() != want {
		t.Errorf("Path() = %q, want %q", Path(), want)
	}

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
}

func TestInitStderrMode(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{Stderr: true, ConfigDir: configDir}); err != nil {
		t.Fatalf("Failed to initialize logger in stderr mode: %v", err)
	}
	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}
	if got := Logger.GetLevel(); got != log.InfoLevel {
		t.Errorf("level = %v, want %v", got, log.InfoLevel)
	}

	Info("Test info message in stderr mode")
}

func TestLevelSelection(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    log.Level
		wantErr bool
	}{
		{"default", Config{}, log.WarnLevel, false},
		{"stderr", Config{Stderr: true}, log.InfoLevel, false},
		{"debug wins over stderr", Config{Debug: true, Stderr: true}, log.DebugLevel, false},
		{"explicit level", Config{Debug: true, Level: "ERROR"}, log.ErrorLevel, false},
		{"unknown level", Config{Level: "loud"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.ConfigDir = t.TempDir()
			err := Init(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Init() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got := Logger.GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStdLog(t *testing.T) {
	Logger = nil
	StdLog().Print("discarded before init")

	if err := Init(Config{ConfigDir: t.TempDir()}); err != nil {
		t.Fatal(err)
	}
	StdLog().Print("http: TLS handshake error")

	data, err := os.ReadFile(Path())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "TLS handshake error") {
		t.Errorf("expected standard log output in %s, got %q", Path(), data)
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
