package hub

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Option defines a functional option for the device.
type Option func(d *Device) (Option, error)

// Options set different configuration options and returns the previous value
// of the last option passed.
func (d *Device) Options(options ...Option) (Option, error) {
	var old Option
	var err error
	for _, opt := range options {
		old, err = opt(d)
		if err != nil {
			return nil, err
		}
	}

	return old, nil
}

// Pins sets the reset and MFIO lines used by Begin. Either may be nil, in
// which case the corresponding line is left alone.
func Pins(reset, mfio Pin) Option {
	return func(d *Device) (Option, error) {
		oldReset, oldMFIO := d.reset, d.mfio
		d.reset = reset
		d.mfio = mfio

		return Pins(oldReset, oldMFIO), nil
	}
}

// Logger sets the logger used for transactions and sequencing.
func Logger(l zerolog.Logger) Option {
	return func(d *Device) (Option, error) {
		old := d.log
		d.log = l

		return Logger(old), nil
	}
}

// MaxBusyRetries bounds how many times a command answered with a busy status
// is resent. Zero removes the bound.
func MaxBusyRetries(n int) Option {
	return func(d *Device) (Option, error) {
		if n < 0 {
			return nil, fmt.Errorf("%w: busy retries %d", ErrInvalidParameter, n)
		}
		old := d.maxBusyRetries
		d.maxBusyRetries = n

		return MaxBusyRetries(old), nil
	}
}

// OutputFormat sets the output format of the hub.
func OutputFormat(format byte) Option {
	return func(d *Device) (Option, error) {
		old, err := d.ReadOutputFormat()
		if err != nil {
			return nil, err
		}
		if err := d.SetOutputFormat(format); err != nil {
			return nil, err
		}

		return OutputFormat(old), nil
	}
}

// FIFOThreshold sets the FIFO interrupt threshold of the hub. It can take
// values from 1 to 255.
func FIFOThreshold(n byte) Option {
	return func(d *Device) (Option, error) {
		old, err := d.ReadFIFOThreshold()
		if err != nil {
			return nil, err
		}
		if err := d.SetFIFOThreshold(n); err != nil {
			return nil, err
		}

		return FIFOThreshold(old), nil
	}
}
