package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToExtraOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.log")

	log, err := New(true, false, WithOutput(path))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	log.Debug("hidden")
	log.Info("parsed")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one entry at info level, got %q", data)
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("expected json entry: %v", err)
	}
	if entry["step"] != "parsed" || entry["level"] != "info" {
		t.Fatalf("unexpected entry: %v", entry)
	}
}

func TestWithLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		debug   bool
		enabled string
		wantErr bool
	}{
		{name: "empty keeps debug switch", debug: true, enabled: "debug"},
		{name: "override", level: "warn", debug: true, enabled: "warn"},
		{name: "invalid", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := New(false, tt.debug, WithLevel(tt.level))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := log.Level().String(); got != tt.enabled {
				t.Fatalf("expected level %s, got %s", tt.enabled, got)
			}
		})
	}
}
