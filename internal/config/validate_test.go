// internal/config/validate_test.go
package config

import (
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
)

// helper to build a minimal valid config
func base(profile string) *Config {
	return &Config{Profile: profile}
}

func calHex() string {
	return strings.Repeat("00", 511) + "ff"
}

// ---- tests ----

func TestValidate_MinimalProfiles(t *testing.T) {
	for _, p := range []string{ProfileHRSpO2, ProfileBPTRaw} {
		if err := Validate(base(p)); err != nil {
			t.Fatalf("profile %q: unexpected error: %v", p, err)
		}
	}
}

func TestValidate_BPTNeedsCalibration(t *testing.T) {
	cfg := base(ProfileBPT)

	if err := Validate(cfg); err == nil {
		t.Fatal("expected missing calibration error")
	}

	cfg.BPT.CalibrationHex = calHex()
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg.BPT.CalibrationFile = "cal.bin"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected mutually exclusive sources error")
	}
}

func TestValidate_ShortCalibrationHex(t *testing.T) {
	cfg := base(ProfileBPT)
	cfg.BPT.CalibrationHex = "00 01 02"

	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "3 bytes, want 512") {
		t.Fatalf("err=%v", err)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	neg := -1
	cfg := &Config{
		Device: DeviceConfig{
			Address:        0x80,
			MaxBusyRetries: &neg,
			ResetPin:       "GPIO4",
			MFIOPin:        "GPIO4",
		},
		Profile: "ecg",
		Poll:    PollConfig{IntervalMs: -5},
		Log:     LogConfig{Level: "loud"},
	}

	err := Validate(cfg)
	merr, ok := err.(*multierror.Error)
	if !ok {
		t.Fatalf("err=%T %v, want *multierror.Error", err, err)
	}
	if len(merr.Errors) != 6 {
		t.Fatalf("got %d errors, want 6:\n%v", len(merr.Errors), err)
	}
}

func TestValidate_DateTime(t *testing.T) {
	cases := []struct {
		date, time uint32
		ok         bool
	}{
		{180828, 163808, true},
		{0, 0, true},
		{181328, 0, false},
		{180800, 0, false},
		{180828, 246000, false},
		{180828, 126000, false},
		{0, 120000, false},
	}

	for _, c := range cases {
		cfg := base(ProfileBPT)
		cfg.BPT.CalibrationHex = calHex()
		cfg.BPT.Date, cfg.BPT.Time = c.date, c.time

		err := Validate(cfg)
		if (err == nil) != c.ok {
			t.Fatalf("date=%06d time=%06d: err=%v, want ok=%v", c.date, c.time, err, c.ok)
		}
	}
}

func TestValidate_Nil(t *testing.T) {
	if err := Validate(nil); err == nil {
		t.Fatal("expected error")
	}
}
