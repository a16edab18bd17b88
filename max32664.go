// Package max32664 drives a MAX32664 biometric sensor hub over I²C.
//
// New brings the hub up in application mode; one of the Configure methods
// then arms an algorithm profile and the matching Samples method drains its
// output FIFO. Low level access is available through ToHub.
package max32664

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"periph.io/x/periph/conn/gpio/gpioreg"
	"periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/conn/physic"
	"periph.io/x/periph/host"

	"github.com/cgxeiji/max32664/hub"
)

var (
	// ErrWrongDevice is thrown when trying to convert a max32664.Device to
	// the underlying *hub.Device and the device is not backed by one.
	ErrWrongDevice = errors.New("max32664: wrong device")
	// ErrNotDetected is thrown when the algorithm reports nothing usable
	// (e.g. no finger is placed on the sensor).
	ErrNotDetected = errors.New("max32664: nothing detected on the sensor")
	// ErrWrongProfile is thrown when samples are read for a profile that was
	// not configured.
	ErrWrongProfile = errors.New("max32664: profile not configured")
	// ErrPinNotFound is thrown when a named GPIO pin does not exist.
	ErrPinNotFound = errors.New("max32664: pin not found")
)

// Device defines a MAX32664 device.
type Device struct {
	hub sensorHub
	bus i2c.BusCloser

	busName  string
	addr     uint16
	speed    physic.Frequency
	resetPin string
	mfioPin  string
	retries  int
	log      zerolog.Logger

	profile string
	hr      movingAverage
	spo2    movingAverage

	// Version is the firmware version reported by the hub.
	Version hub.Version
}

type sensorHub interface {
	Begin() error
	ReadVersion() (hub.Version, error)
	Shutdown() error

	ConfigureHRSpO2() error
	ConfigureBPT(cfg hub.BPTConfig) error
	ConfigureBPTRaw() error

	ReadSensorAlgorithmSamples() ([]hub.SensorAlgorithmSample, error)
	ReadBPTSamples() ([]hub.BPTSample, error)
	ReadBPTRawSamples() ([]hub.BPTSample, error)
}

// minConfidence is the lowest heart-rate confidence (in %) accepted by
// HeartRate and SpO2.
const minConfidence = 50

// New returns a new MAX32664 device, reset into application mode.
func New(options ...Option) (*Device, error) {
	d := &Device{
		addr:    hub.Addr,
		retries: hub.DefaultMaxBusyRetries,
		log:     zerolog.Nop(),
	}
	for _, opt := range options {
		opt(d)
	}

	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("max32664: could not initialize host: %w", err)
	}

	bus, err := i2creg.Open(d.busName)
	if err != nil {
		return nil, fmt.Errorf("max32664: could not open I2C bus: %w", err)
	}
	d.bus = bus

	if d.speed != 0 {
		if err := bus.SetSpeed(d.speed); err != nil {
			bus.Close()
			return nil, fmt.Errorf("max32664: could not set bus speed: %w", err)
		}
	}

	opts := []hub.Option{
		hub.Logger(d.log),
		hub.MaxBusyRetries(d.retries),
	}
	pins, err := d.pins()
	if err != nil {
		bus.Close()
		return nil, err
	}
	opts = append(opts, pins)

	h, err := hub.New(&i2c.Dev{Addr: d.addr, Bus: bus}, opts...)
	if err != nil {
		bus.Close()
		return nil, err
	}
	d.hub = h

	if err := d.begin(); err != nil {
		bus.Close()
		return nil, err
	}

	return d, nil
}

func (d *Device) pins() (hub.Option, error) {
	var reset, mfio hub.Pin
	if d.resetPin != "" {
		p := gpioreg.ByName(d.resetPin)
		if p == nil {
			return nil, fmt.Errorf("%w: %q", ErrPinNotFound, d.resetPin)
		}
		reset = p
	}
	if d.mfioPin != "" {
		p := gpioreg.ByName(d.mfioPin)
		if p == nil {
			return nil, fmt.Errorf("%w: %q", ErrPinNotFound, d.mfioPin)
		}
		mfio = p
	}

	return hub.Pins(reset, mfio), nil
}

func (d *Device) begin() error {
	if err := d.hub.Begin(); err != nil {
		return fmt.Errorf("max32664: could not bring up hub: %w", err)
	}

	v, err := d.hub.ReadVersion()
	if err != nil {
		return fmt.Errorf("max32664: could not get version: %w", err)
	}
	d.Version = v
	d.log.Info().Stringer("version", v).Msg("MAX32664 ready")

	return nil
}

// Close shuts the hub down and releases the bus.
func (d *Device) Close() error {
	err := d.Shutdown()
	if d.bus != nil {
		if cerr := d.bus.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Shutdown puts the hub in shutdown mode. New must be called again to use
// it afterwards.
func (d *Device) Shutdown() error {
	d.profile = ""
	return d.hub.Shutdown()
}

// ConfigureHRSpO2 arms the heart-rate/SpO2 algorithm.
func (d *Device) ConfigureHRSpO2() error {
	return d.configure(hub.ProfileHRSpO2, d.hub.ConfigureHRSpO2)
}

// ConfigureBPT arms the blood-pressure estimator with the given calibration.
func (d *Device) ConfigureBPT(cfg hub.BPTConfig) error {
	return d.configure(hub.ProfileBPT, func() error { return d.hub.ConfigureBPT(cfg) })
}

// ConfigureBPTRaw arms the optical sensor only.
func (d *Device) ConfigureBPTRaw() error {
	return d.configure(hub.ProfileBPTRaw, d.hub.ConfigureBPTRaw)
}

func (d *Device) configure(profile string, fn func() error) error {
	d.profile = ""
	d.hr.reset()
	d.spo2.reset()
	if err := fn(); err != nil {
		return err
	}
	d.profile = profile
	return nil
}

func (d *Device) want(profile string) error {
	if d.profile != profile {
		return fmt.Errorf("%w: want %s, have %q", ErrWrongProfile, profile, d.profile)
	}
	return nil
}

// Samples drains the HR/SpO2 samples waiting in the hub.
func (d *Device) Samples() ([]hub.SensorAlgorithmSample, error) {
	if err := d.want(hub.ProfileHRSpO2); err != nil {
		return nil, err
	}
	return d.hub.ReadSensorAlgorithmSamples()
}

// BPTSamples drains the blood-pressure samples waiting in the hub.
func (d *Device) BPTSamples() ([]hub.BPTSample, error) {
	if err := d.want(hub.ProfileBPT); err != nil {
		return nil, err
	}
	return d.hub.ReadBPTSamples()
}

// RawSamples drains the raw optical samples waiting in the hub.
func (d *Device) RawSamples() ([]hub.BPTSample, error) {
	if err := d.want(hub.ProfileBPTRaw); err != nil {
		return nil, err
	}
	return d.hub.ReadBPTRawSamples()
}

// ToHub converts a max32664 device to a hub device to access low level
// functions. Check the package max32664/hub for detailed behavior.
func (d *Device) ToHub() (*hub.Device, error) {
	h, ok := d.hub.(*hub.Device)
	if !ok {
		return nil, ErrWrongDevice
	}

	return h, nil
}
