package max32664

import (
	"fmt"

	"github.com/cgxeiji/max32664/hub"
)

// HeartRate returns the smoothed heart rate in beats per minute, as reported
// by the hub algorithm. Only reports with a confidence of at least 50% are
// taken into account. If the algorithm reports nothing usable (e.g. no finger
// is placed on the sensor), this function returns 0 with an ErrNotDetected
// error.
//
// ConfigureHRSpO2 must be called first.
func (d *Device) HeartRate() (float64, error) {
	if err := d.poll(); err != nil {
		return 0, fmt.Errorf("max32664: could not get heart rate: %w", err)
	}
	if d.hr.mean == 0 {
		return 0, fmt.Errorf("max32664: could not get heart rate: %w", ErrNotDetected)
	}

	return d.hr.mean, nil
}

// Vitals drains the output FIFO once and returns both the smoothed heart
// rate and SpO2. A missing SpO2 estimate is reported as 0 without error.
func (d *Device) Vitals() (hr, spo2 float64, err error) {
	if err := d.poll(); err != nil {
		return 0, 0, fmt.Errorf("max32664: could not get vitals: %w", err)
	}
	if d.hr.mean == 0 {
		return 0, 0, fmt.Errorf("max32664: could not get vitals: %w", ErrNotDetected)
	}

	return d.hr.mean, d.spo2.mean, nil
}

// poll drains the output FIFO and feeds the moving averages.
func (d *Device) poll() error {
	samples, err := d.Samples()
	if err != nil {
		return err
	}
	d.track(samples)
	return nil
}

// track feeds confident reports into the moving averages. A batch without a
// single confident report resets them. An empty batch leaves them alone.
func (d *Device) track(samples []hub.SensorAlgorithmSample) {
	if len(samples) == 0 {
		return
	}

	detected := false
	for _, s := range samples {
		if s.HRConfidence < minConfidence || s.HeartRate == 0 {
			continue
		}
		detected = true
		d.hr.add(float64(s.HeartRate))
		if s.SpO2 > 0 {
			d.spo2.add(float64(s.SpO2))
		}
	}

	if !detected {
		d.hr.reset()
		d.spo2.reset()
	}
}
