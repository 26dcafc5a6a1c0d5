package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "relay_config.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "# only comments\n\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.RelayPort != 5005 {
		t.Errorf("expected default port 5005, got %d", cfg.RelayPort)
	}
	if cfg.Source != "mock" {
		t.Errorf("expected mock source, got %q", cfg.Source)
	}
	if cfg.RelayPace() != time.Microsecond {
		t.Errorf("expected 1µs pace, got %v", cfg.RelayPace())
	}
	if cfg.RelayWriteTimeout() != 5*time.Second {
		t.Errorf("expected 5s write timeout, got %v", cfg.RelayWriteTimeout())
	}
	if cfg.RelayEmitOnConnect {
		t.Error("expected emit-on-connect off by default")
	}
	if cfg.ReadingsRetention != 24*time.Hour {
		t.Errorf("expected 24h reading retention, got %v", cfg.ReadingsRetention)
	}
}

func TestLoadOverrides(t *testing.T) {
	content := `
# relay
RELAY_PORT = 6006
RELAY_PACE_US=250
RELAY_WRITE_TIMEOUT_MS=0
RELAY_EMIT_ON_CONNECT=true
SOURCE=MQTT
MQTT_BROKER=tcp://broker:1883
TOPIC_POSE=inertial/pose/fused
LOG_LEVEL=DEBUG
READINGS_SINK=sqlite
READINGS_DB=/tmp/readings.db
READINGS_RETENTION=72h
WEB_SERVER_PORT=0
`
	cfg, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.RelayPort != 6006 {
		t.Errorf("expected port 6006, got %d", cfg.RelayPort)
	}
	if cfg.RelayPace() != 250*time.Microsecond {
		t.Errorf("expected 250µs pace, got %v", cfg.RelayPace())
	}
	if cfg.RelayWriteTimeout() != 0 {
		t.Errorf("expected write timeout disabled, got %v", cfg.RelayWriteTimeout())
	}
	if !cfg.RelayEmitOnConnect {
		t.Error("expected emit-on-connect enabled")
	}
	if cfg.Source != "mqtt" || cfg.TopicPose != "inertial/pose/fused" {
		t.Errorf("unexpected MQTT source settings: %q %q", cfg.Source, cfg.TopicPose)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected debug log level, got %q", cfg.LogLevel)
	}
	if cfg.ReadingsSink != "sqlite" || cfg.ReadingsDB != "/tmp/readings.db" {
		t.Errorf("unexpected sink settings: %q %q", cfg.ReadingsSink, cfg.ReadingsDB)
	}
	if cfg.ReadingsRetention != 72*time.Hour {
		t.Errorf("expected 72h retention, got %v", cfg.ReadingsRetention)
	}
	if cfg.WebServerPort != 0 {
		t.Errorf("expected web server disabled, got %d", cfg.WebServerPort)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "missing separator", content: "RELAY_PORT 5005", wantErr: "invalid config line 1"},
		{name: "unknown key", content: "\nFOO=bar", wantErr: "config line 2: unknown config key"},
		{name: "port out of range", content: "RELAY_PORT=70000", wantErr: "invalid RELAY_PORT"},
		{name: "pace too long", content: "RELAY_PACE_US=1000", wantErr: "RELAY_PACE_US must be 0-999"},
		{name: "negative timeout", content: "RELAY_WRITE_TIMEOUT_MS=-1", wantErr: "must not be negative"},
		{name: "bad bool", content: "RELAY_EMIT_ON_CONNECT=maybe", wantErr: "invalid RELAY_EMIT_ON_CONNECT"},
		{name: "unknown source", content: "SOURCE=sonar", wantErr: "SOURCE must be one of"},
		{name: "zero interval", content: "SAMPLE_INTERVAL=0", wantErr: "SAMPLE_INTERVAL must be positive"},
		{name: "gps without port", content: "SOURCE=gps\nGPS_SERIAL_PORT=", wantErr: "GPS_SERIAL_PORT is required"},
		{name: "mqtt without broker", content: "SOURCE=mqtt\nMQTT_BROKER=", wantErr: "MQTT_BROKER is required"},
		{name: "bad log level", content: "LOG_LEVEL=loud", wantErr: "LOG_LEVEL must be one of"},
		{name: "bad sink", content: "READINGS_SINK=kafka", wantErr: "READINGS_SINK must be one of"},
		{name: "bad retention", content: "READINGS_RETENTION=forever", wantErr: "invalid READINGS_RETENTION"},
		{name: "negative retention", content: "READINGS_SINK=sqlite\nREADINGS_RETENTION=-1h", wantErr: "READINGS_RETENTION must not be negative"},
		{name: "web port range", content: "WEB_SERVER_PORT=-5", wantErr: "WEB_SERVER_PORT must be 0-65535"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error but got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestInitGlobal(t *testing.T) {
	path := writeConfig(t, "RELAY_PORT=7007\n")
	if err := InitGlobal(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := Get(); got == nil || got.RelayPort != 7007 {
		t.Fatalf("expected global config with port 7007, got %+v", got)
	}

	// Later calls keep the first configuration.
	if err := InitGlobal(writeConfig(t, "RELAY_PORT=8008\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Get().RelayPort != 7007 {
		t.Errorf("expected first configuration to stick, got port %d", Get().RelayPort)
	}
}
