package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "cfg.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func requireErrEq(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error %q, got nil", want)
	}
	if err.Error() != want {
		t.Fatalf("error=%q want %q", err.Error(), want)
	}
}

func TestLoad_DefaultsApplied(t *testing.T) {
	path := writeTempConfig(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(cfg.Sensors) != 1 {
		t.Fatalf("sensors=%d want 1 default entry", len(cfg.Sensors))
	}
	s := cfg.Sensors[0]
	if s.Name != "GPSD Client" {
		t.Fatalf("name=%q", s.Name)
	}
	if s.Host != "localhost" || s.Port != 2947 {
		t.Fatalf("host=%q port=%d", s.Host, s.Port)
	}
	if s.ScanInterval != 10*time.Second {
		t.Fatalf("scan_interval=%s want 10s", s.ScanInterval)
	}
	if s.Addr() != "localhost:2947" {
		t.Fatalf("addr=%q", s.Addr())
	}
	if cfg.Web.Listen != ":8095" {
		t.Fatalf("web.listen=%q", cfg.Web.Listen)
	}
	if cfg.MQTT.ClientID != "gpsd-sensor" || cfg.MQTT.TopicPrefix != "gpsd" {
		t.Fatalf("mqtt defaults=%+v", cfg.MQTT)
	}
}

func TestLoad_SensorEntry(t *testing.T) {
	path := writeTempConfig(t, "sensors:\n  - name: Roof GPS\n    host: 10.0.0.5\n    port: 2948\n    unique_id: roof\n    scan_interval: 5s\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	s := cfg.Sensors[0]
	if s.Name != "Roof GPS" || s.Host != "10.0.0.5" || s.Port != 2948 || s.UniqueID != "roof" {
		t.Fatalf("sensor=%+v", s)
	}
	if s.ScanInterval != 5*time.Second {
		t.Fatalf("scan_interval=%s want 5s", s.ScanInterval)
	}
}

func TestLoad_PortValidation(t *testing.T) {
	path := writeTempConfig(t, "sensors:\n  - port: 70000\n")
	_, err := Load(path)
	requireErrEq(t, err, "sensors[0].port must be 1-65535")
}

func TestLoad_NegativeScanIntervalRejected(t *testing.T) {
	path := writeTempConfig(t, "sensors:\n  - scan_interval: -1s\n")
	_, err := Load(path)
	requireErrEq(t, err, "sensors[0].scan_interval must be >= 0")
}

func TestLoad_RejectsUnknownField(t *testing.T) {
	path := writeTempConfig(t, "sensors:\n  - bogus: true\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unknown-field error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")
	t.Setenv("WEB_LISTEN", ":9000")

	path := writeTempConfig(t, "mqtt:\n  broker: tcp://ignored:1883\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.MQTT.Broker != "tcp://broker:1883" {
		t.Fatalf("broker=%q", cfg.MQTT.Broker)
	}
	if cfg.Web.Listen != ":9000" {
		t.Fatalf("listen=%q", cfg.Web.Listen)
	}
}
