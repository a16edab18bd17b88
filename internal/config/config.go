// internal/config/config.go
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Profile names accepted in the profile field.
const (
	ProfileHRSpO2 = "hr_spo2"
	ProfileBPT    = "bpt"
	ProfileBPTRaw = "bpt_raw"
)

type Config struct {
	Device  DeviceConfig `yaml:"device"`
	Profile string       `yaml:"profile"`
	Poll    PollConfig   `yaml:"poll"`
	BPT     BPTConfig    `yaml:"bpt"`
	Log     LogConfig    `yaml:"log"`
}

// ---- DEVICE ----

type DeviceConfig struct {
	Bus      string `yaml:"bus"` // "" selects the first bus
	Address  uint16 `yaml:"address"`
	SpeedKHz int    `yaml:"speed_khz"` // 0 leaves the bus speed alone
	ResetPin string `yaml:"reset_pin"`
	MFIOPin  string `yaml:"mfio_pin"`

	// nil selects the driver default; 0 retries forever
	MaxBusyRetries *int `yaml:"max_busy_retries"`
}

// ---- POLL ----

type PollConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// ---- BPT ----

type BPTConfig struct {
	// exactly one calibration source is required by the bpt profile
	CalibrationFile string `yaml:"calibration_file"`
	CalibrationHex  string `yaml:"calibration_hex"`

	Date uint32 `yaml:"date"` // YYMMDD, 0 uses the host clock
	Time uint32 `yaml:"time"` // HHMMSS

	Spo2 *Spo2Config `yaml:"spo2"`
}

type Spo2Config struct {
	A float32 `yaml:"a"`
	B float32 `yaml:"b"`
	C float32 `yaml:"c"`
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML configuration file. Unknown fields are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes a YAML configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &cfg, nil
}
