// internal/config/calibration.go
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cgxeiji/max32664/hub"
)

// Calibration loads the BPT calibration vector from calibration_file or
// calibration_hex. Both sources must hold exactly hub.CalibrationSize bytes.
func (b BPTConfig) Calibration() (*hub.CalibrationVector, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case b.CalibrationFile != "":
		data, err = os.ReadFile(b.CalibrationFile)
		if err != nil {
			return nil, fmt.Errorf("bpt.calibration_file: %w", err)
		}
		if len(data) != hub.CalibrationSize {
			return nil, fmt.Errorf("bpt.calibration_file: %d bytes, want %d", len(data), hub.CalibrationSize)
		}
	case b.CalibrationHex != "":
		data, err = decodeHex(b.CalibrationHex)
		if err != nil {
			return nil, fmt.Errorf("bpt.calibration_hex: %w", err)
		}
	default:
		return nil, fmt.Errorf("bpt: no calibration source")
	}

	var v hub.CalibrationVector
	copy(v[:], data)
	return &v, nil
}

// DateTime returns the configured date and time, or the host clock when no
// date is set.
func (b BPTConfig) DateTime(now time.Time) hub.DateTime {
	if b.Date == 0 {
		return hub.DateTimeOf(now)
	}
	return hub.DateTime{Date: b.Date, Time: b.Time}
}

// Coefficients returns the SpO2 coefficients, or the defaults when unset.
func (b BPTConfig) Coefficients() hub.Spo2Coefficients {
	if b.Spo2 == nil {
		return hub.DefaultSpo2Coefficients
	}
	return hub.Spo2Coefficients{A: b.Spo2.A, B: b.Spo2.B, C: b.Spo2.C}
}

// HubConfig assembles everything ConfigureBPT needs.
func (b BPTConfig) HubConfig(now time.Time) (hub.BPTConfig, error) {
	cal, err := b.Calibration()
	if err != nil {
		return hub.BPTConfig{}, err
	}
	return hub.BPTConfig{
		Calibration:  cal,
		DateTime:     b.DateTime(now),
		Coefficients: b.Coefficients(),
	}, nil
}

// decodeHex accepts whitespace, commas and 0x prefixes between bytes.
func decodeHex(s string) ([]byte, error) {
	s = strings.ReplaceAll(s, "0x", "")
	s = strings.ReplaceAll(s, "0X", "")
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', ',':
			return -1
		}
		return r
	}, s)

	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(data) != hub.CalibrationSize {
		return nil, fmt.Errorf("%d bytes, want %d", len(data), hub.CalibrationSize)
	}
	return data, nil
}
