// internal/config/normalize.go
package config

import "github.com/cgxeiji/max32664/hub"

// DefaultPollInterval is used when poll.interval_ms is not set.
const DefaultPollInterval = 250

// Normalize fills the defaults left out of the file.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Device.Address == 0 {
		cfg.Device.Address = hub.Addr
	}
	if cfg.Device.MaxBusyRetries == nil {
		n := hub.DefaultMaxBusyRetries
		cfg.Device.MaxBusyRetries = &n
	}
	if cfg.Poll.IntervalMs == 0 {
		cfg.Poll.IntervalMs = DefaultPollInterval
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.BPT.Spo2 == nil {
		c := hub.DefaultSpo2Coefficients
		cfg.BPT.Spo2 = &Spo2Config{A: c.A, B: c.B, C: c.C}
	}
}
