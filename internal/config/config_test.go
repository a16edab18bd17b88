// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cgxeiji/max32664/hub"
)

const sample = `
device:
  bus: "1"
  address: 0x55
  reset_pin: GPIO4
  mfio_pin: GPIO5
  max_busy_retries: 0
profile: bpt
poll:
  interval_ms: 100
bpt:
  calibration_file: cal.bin
  date: 180828
  time: 163808
  spo2:
    a: 1.5
    b: -34
    c: 112
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() err=%v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}
	Normalize(cfg)

	if cfg.Device.Bus != "1" || cfg.Device.Address != 0x55 {
		t.Fatalf("device = %+v", cfg.Device)
	}
	if *cfg.Device.MaxBusyRetries != 0 {
		t.Fatalf("max_busy_retries = %d, want 0 kept", *cfg.Device.MaxBusyRetries)
	}
	if cfg.Poll.IntervalMs != 100 || cfg.Log.Level != "info" {
		t.Fatalf("poll=%+v log=%+v", cfg.Poll, cfg.Log)
	}

	want := hub.Spo2Coefficients{A: 1.5, B: -34, C: 112}
	if got := cfg.BPT.Coefficients(); got != want {
		t.Fatalf("coefficients = %+v, want %+v", got, want)
	}
	dt := cfg.BPT.DateTime(time.Now())
	if dt != (hub.DateTime{Date: 180828, Time: 163808}) {
		t.Fatalf("date/time = %+v", dt)
	}
}

func TestParse_UnknownField(t *testing.T) {
	if _, err := Parse([]byte("profile: hr_spo2\nleds: 3\n")); err == nil {
		t.Fatal("expected unknown field error")
	}
}

func TestNormalize_Defaults(t *testing.T) {
	cfg := base(ProfileHRSpO2)
	Normalize(cfg)

	if cfg.Device.Address != hub.Addr {
		t.Fatalf("address = %#x", cfg.Device.Address)
	}
	if *cfg.Device.MaxBusyRetries != hub.DefaultMaxBusyRetries {
		t.Fatalf("max_busy_retries = %d", *cfg.Device.MaxBusyRetries)
	}
	if cfg.Poll.IntervalMs != DefaultPollInterval {
		t.Fatalf("interval = %d", cfg.Poll.IntervalMs)
	}
	if cfg.BPT.Coefficients() != hub.DefaultSpo2Coefficients {
		t.Fatalf("coefficients = %+v", cfg.BPT.Coefficients())
	}
}

func TestCalibration_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cal.bin")

	data := make([]byte, hub.CalibrationSize)
	for i := range data {
		data[i] = byte(i)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cal, err := BPTConfig{CalibrationFile: path}.Calibration()
	if err != nil {
		t.Fatalf("Calibration() err=%v", err)
	}
	if cal[0] != 0 || cal[511] != 0xFF {
		t.Fatalf("vector = % x ... % x", cal[:2], cal[510:])
	}

	if err := os.WriteFile(path, data[:100], 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := (BPTConfig{CalibrationFile: path}).Calibration(); err == nil {
		t.Fatal("expected short file error")
	}
}

func TestCalibration_Hex(t *testing.T) {
	cal, err := BPTConfig{CalibrationHex: "0x01, " + calHex()[2:]}.Calibration()
	if err != nil {
		t.Fatalf("Calibration() err=%v", err)
	}
	if cal[0] != 0x01 || cal[511] != 0xFF {
		t.Fatalf("vector = % x ... % x", cal[:2], cal[510:])
	}

	if _, err := (BPTConfig{}).Calibration(); err == nil {
		t.Fatal("expected missing source error")
	}
}

func TestHubConfig(t *testing.T) {
	now := time.Date(2018, 8, 28, 16, 38, 8, 0, time.UTC)

	b := BPTConfig{CalibrationHex: calHex()}
	cfg, err := b.HubConfig(now)
	if err != nil {
		t.Fatalf("HubConfig() err=%v", err)
	}
	if cfg.Calibration == nil || cfg.Calibration[511] != 0xFF {
		t.Fatal("calibration not loaded")
	}
	if cfg.DateTime != (hub.DateTime{Date: 180828, Time: 163808}) {
		t.Fatalf("date/time = %+v", cfg.DateTime)
	}
	if cfg.Coefficients != hub.DefaultSpo2Coefficients {
		t.Fatalf("coefficients = %+v", cfg.Coefficients)
	}
}
