package hub

import (
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
)

// ErrRetriesExhausted is returned when a command kept answering busy for
// more than the configured number of retries.
var ErrRetriesExhausted = errors.New("max32664: busy retries exhausted")

// Profile names used in StepError.
const (
	ProfileHRSpO2         = "HR/SpO2"
	ProfileBPT            = "BPT"
	ProfileBPTRaw         = "BPT raw"
	ProfileBPTCalibration = "BPT calibration"
)

// StepError reports which step of a configuration sequence failed. The
// steps after it were not sent.
type StepError struct {
	Profile string
	Step    int
	Name    string
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("max32664: %s step %d (%s) failed: %v", e.Profile, e.Step, e.Name, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// BPTConfig is the data uploaded before the blood-pressure estimator is
// enabled.
type BPTConfig struct {
	Calibration  *CalibrationVector
	DateTime     DateTime
	Coefficients Spo2Coefficients
}

// BPReference is one set of cuff readings used in calibration mode.
type BPReference struct {
	Index     byte
	Systolic  [3]byte
	Diastolic [3]byte
}

type step struct {
	name   string
	run    func() error
	settle time.Duration
}

func (d *Device) sequence(profile string, steps []step) error {
	for i, s := range steps {
		if err := s.run(); err != nil {
			d.log.Warn().
				Str("profile", profile).
				Int("step", i+1).
				Str("name", s.name).
				Err(err).
				Msg("configuration step failed")
			return &StepError{Profile: profile, Step: i + 1, Name: s.name, Err: err}
		}
		d.sleep(s.settle)
	}
	d.log.Debug().Str("profile", profile).Msg("configured")

	return nil
}

// retryBusy runs op again every 10ms for as long as it fails with a
// retryable status. Any other outcome is returned as is.
func (d *Device) retryBusy(op func() error) error {
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(busyDelay), uint64(d.maxBusyRetries))
	for {
		err := op()
		if !StatusOf(err).Retryable() {
			return err
		}

		wait := b.NextBackOff()
		if wait == backoff.Stop {
			return fmt.Errorf("%w: %w", ErrRetriesExhausted, err)
		}
		d.log.Debug().Dur("wait", wait).Msg("hub busy, retrying")
		d.sleep(wait)
	}
}

func (d *Device) outputSteps(format byte) []step {
	return []step{
		{"set output format", func() error { return d.SetOutputFormat(format) }, 10 * time.Millisecond},
		{"set FIFO threshold", func() error { return d.SetFIFOThreshold(DefaultFIFOThreshold) }, 10 * time.Millisecond},
	}
}

// ConfigureHRSpO2 arms the heart-rate/SpO2 algorithm with sensor data
// passthrough. Samples are read with ReadSensorAlgorithmSamples.
func (d *Device) ConfigureHRSpO2() error {
	steps := d.outputSteps(OutputSensorAndAlgorithm)
	steps = append(steps,
		step{"enable AGC", func() error { return d.EnableAGC(true) }, 40 * time.Millisecond},
		step{"enable sensor", func() error { return d.EnableSensor(true) }, 40 * time.Millisecond},
		step{"enable WHRM", func() error { return d.EnableWHRM(WHRMMode1) }, 10 * time.Millisecond},
	)

	return d.sequence(ProfileHRSpO2, steps)
}

// ConfigureBPT uploads the calibration data and arms the blood-pressure
// estimator. AGC is left off, as the estimator requires. Samples are read
// with ReadBPTSamples.
func (d *Device) ConfigureBPT(cfg BPTConfig) error {
	steps := []step{
		{"load calibration vector", func() error { return d.LoadBPTCalibration(cfg.Calibration) }, 10 * time.Millisecond},
		{"set date and time", func() error { return d.SetDateTime(cfg.DateTime) }, 10 * time.Millisecond},
		{"load SpO2 coefficients", func() error { return d.LoadSpo2Coefficients(cfg.Coefficients) }, 10 * time.Millisecond},
	}
	steps = append(steps, d.outputSteps(OutputSensorAndAlgorithm)...)
	steps = append(steps,
		step{"enable sensor", func() error { return d.EnableSensor(true) }, 40 * time.Millisecond},
		step{"enable BPT", func() error {
			return d.retryBusy(func() error { return d.EnableBPT(BPTEstimation) })
		}, 100 * time.Millisecond},
		step{"disable AGC", func() error { return d.EnableAGC(false) }, 200 * time.Millisecond},
	)

	return d.sequence(ProfileBPT, steps)
}

// ConfigureBPTRaw arms the optical sensor with AGC off and no algorithm, for
// uncalibrated intensities. Samples are read with ReadBPTRawSamples.
func (d *Device) ConfigureBPTRaw() error {
	steps := d.outputSteps(OutputSensor)
	steps = append(steps,
		step{"enable sensor", func() error { return d.EnableSensor(true) }, 40 * time.Millisecond},
		step{"disable AGC", func() error {
			return d.retryBusy(func() error { return d.EnableAGC(false) })
		}, 100 * time.Millisecond},
	)

	return d.sequence(ProfileBPTRaw, steps)
}

// ConfigureBPTCalibration arms the blood-pressure estimator in calibration
// mode with the given cuff readings. Once the progress reported by
// ReadBPTSamples reaches 100, ReadBPTCalibration returns the vector to feed
// to ConfigureBPT in later sessions.
func (d *Device) ConfigureBPTCalibration(ref BPReference, dt DateTime) error {
	steps := []step{
		{"set BP reference", func() error { return d.SetBPReference(ref.Index, ref.Systolic, ref.Diastolic) }, 10 * time.Millisecond},
		{"set date and time", func() error { return d.SetDateTime(dt) }, 10 * time.Millisecond},
	}
	steps = append(steps, d.outputSteps(OutputSensorAndAlgorithm)...)
	steps = append(steps,
		step{"enable sensor", func() error { return d.EnableSensor(true) }, 40 * time.Millisecond},
		step{"enable BPT calibration", func() error {
			return d.retryBusy(func() error { return d.EnableBPT(BPTCalibration) })
		}, 100 * time.Millisecond},
		step{"disable AGC", func() error { return d.EnableAGC(false) }, 200 * time.Millisecond},
	)

	return d.sequence(ProfileBPTCalibration, steps)
}
