package max32664

import "fmt"

// SpO2 returns the smoothed SpO2 value in %, as reported by the hub
// algorithm. It shares the confidence rule of HeartRate.
func (d *Device) SpO2() (float64, error) {
	if err := d.poll(); err != nil {
		return 0, fmt.Errorf("max32664: could not get SpO2: %w", err)
	}
	if d.spo2.mean == 0 {
		return 0, fmt.Errorf("max32664: could not get SpO2: %w", ErrNotDetected)
	}

	return d.spo2.mean, nil
}
