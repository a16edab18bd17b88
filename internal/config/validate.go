// internal/config/validate.go
package config

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Validate checks configuration correctness and reports every problem found.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	var errs *multierror.Error

	// ---- device ----

	d := cfg.Device
	if d.Address != 0 && (d.Address < 0x08 || d.Address > 0x77) {
		errs = multierror.Append(errs, fmt.Errorf("device.address %#x outside the 7-bit range", d.Address))
	}
	if d.SpeedKHz < 0 {
		errs = multierror.Append(errs, fmt.Errorf("device.speed_khz must not be negative"))
	}
	if d.MaxBusyRetries != nil && *d.MaxBusyRetries < 0 {
		errs = multierror.Append(errs, fmt.Errorf("device.max_busy_retries must not be negative"))
	}
	if d.ResetPin != "" && d.ResetPin == d.MFIOPin {
		errs = multierror.Append(errs, fmt.Errorf("device.reset_pin and device.mfio_pin are both %q", d.ResetPin))
	}

	// ---- poll ----

	if cfg.Poll.IntervalMs < 0 {
		errs = multierror.Append(errs, fmt.Errorf("poll.interval_ms must not be negative"))
	}

	// ---- log ----

	switch cfg.Log.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		errs = multierror.Append(errs, fmt.Errorf("log.level %q is unknown", cfg.Log.Level))
	}

	// ---- profile ----

	switch cfg.Profile {
	case ProfileHRSpO2, ProfileBPTRaw:
	case ProfileBPT:
		errs = multierror.Append(errs, validateBPT(cfg.BPT)...)
	case "":
		errs = multierror.Append(errs, fmt.Errorf("profile is required"))
	default:
		errs = multierror.Append(errs, fmt.Errorf("profile %q is unknown", cfg.Profile))
	}

	return errs.ErrorOrNil()
}

func validateBPT(b BPTConfig) []error {
	var errs []error

	switch {
	case b.CalibrationFile == "" && b.CalibrationHex == "":
		errs = append(errs, fmt.Errorf("bpt: calibration_file or calibration_hex is required"))
	case b.CalibrationFile != "" && b.CalibrationHex != "":
		errs = append(errs, fmt.Errorf("bpt: calibration_file and calibration_hex are mutually exclusive"))
	case b.CalibrationHex != "":
		if _, err := decodeHex(b.CalibrationHex); err != nil {
			errs = append(errs, fmt.Errorf("bpt.calibration_hex: %w", err))
		}
	}

	if b.Date != 0 {
		if !validDate(b.Date) {
			errs = append(errs, fmt.Errorf("bpt.date %06d is not YYMMDD", b.Date))
		}
		if !validTime(b.Time) {
			errs = append(errs, fmt.Errorf("bpt.time %06d is not HHMMSS", b.Time))
		}
	} else if b.Time != 0 {
		errs = append(errs, fmt.Errorf("bpt.time is set without bpt.date"))
	}

	return errs
}

func validDate(v uint32) bool {
	month, day := v/100%100, v%100
	return v <= 991231 && month >= 1 && month <= 12 && day >= 1 && day <= 31
}

func validTime(v uint32) bool {
	hour, minute, sec := v/10000, v/100%100, v%100
	return hour < 24 && minute < 60 && sec < 60
}
