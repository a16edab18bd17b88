package hub

import (
	"errors"
	"fmt"

	"periph.io/x/periph/conn/gpio"
)

var (
	// ErrNotApplicationMode is returned by Begin when the hub did not come up
	// in application mode. The bring-up sequence must be run again.
	ErrNotApplicationMode = errors.New("max32664: hub is not in application mode")
	// ErrNotBootloaderMode is returned by BeginBootloader when the hub did not
	// come up in bootloader mode.
	ErrNotBootloaderMode = errors.New("max32664: hub is not in bootloader mode")
)

// Pin is a GPIO line driving the hub. gpio.PinIO from periph satisfies it.
type Pin interface {
	Out(l gpio.Level) error
	In(pull gpio.Pull, edge gpio.Edge) error
}

// DeviceMode is the operating mode reported by the hub.
type DeviceMode byte

// Operating modes
const (
	ModeApplication DeviceMode = 0x00
	ModeShutdown    DeviceMode = 0x01
	ModeReset       DeviceMode = 0x02
	ModeBootloader  DeviceMode = 0x08
)

func (m DeviceMode) String() string {
	switch m {
	case ModeApplication:
		return "application"
	case ModeShutdown:
		return "shutdown"
	case ModeReset:
		return "reset"
	case ModeBootloader:
		return "bootloader"
	}
	return fmt.Sprintf("mode(%#02x)", byte(m))
}

// State is the bring-up state of the driver.
type State uint8

// Bring-up states
const (
	StatePoweredOff State = iota
	StateResetAsserted
	StateApplicationBooting
	StateReady
	StateBootloaderReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePoweredOff:
		return "powered off"
	case StateResetAsserted:
		return "reset asserted"
	case StateApplicationBooting:
		return "booting"
	case StateReady:
		return "ready"
	case StateBootloaderReady:
		return "bootloader ready"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", uint8(s))
}

// State returns the bring-up state of the driver.
func (d *Device) State() State {
	return d.state
}

// Mode returns the last device mode read from or set on the hub.
func (d *Device) Mode() DeviceMode {
	return d.mode
}

// Begin resets the hub into application mode: MFIO is held high while reset
// is pulsed low for 10ms, then the firmware gets 1s to boot before MFIO is
// released as a pulled-up interrupt input. The device mode read afterwards
// must be application mode.
func (d *Device) Begin() error {
	return d.begin(gpio.High, ModeApplication, StateReady, ErrNotApplicationMode)
}

// BeginBootloader resets the hub with MFIO held low, which makes it stay in
// the bootloader.
func (d *Device) BeginBootloader() error {
	return d.begin(gpio.Low, ModeBootloader, StateBootloaderReady, ErrNotBootloaderMode)
}

func (d *Device) begin(mfio gpio.Level, want DeviceMode, ready State, errMode error) error {
	// the mode is unknown until read back after the reset.
	d.mode = want
	if err := d.resetSequence(mfio); err != nil {
		d.state = StateFailed
		return fmt.Errorf("max32664: could not reset: %w", err)
	}

	mode, err := d.ReadDeviceMode()
	if err != nil {
		d.state = StateFailed
		return err
	}
	if mode != want {
		d.state = StateFailed
		d.log.Warn().Stringer("mode", mode).Stringer("want", want).Msg("unexpected device mode after reset")
		return fmt.Errorf("%w: got %s", errMode, mode)
	}

	d.state = ready
	d.log.Debug().Stringer("mode", mode).Msg("hub ready")

	return nil
}

func (d *Device) resetSequence(mfio gpio.Level) error {
	if d.reset == nil || d.mfio == nil {
		d.log.Warn().Msg("reset or MFIO pin not set, skipping reset pulse")
	}

	if d.mfio != nil {
		if err := d.mfio.Out(mfio); err != nil {
			return fmt.Errorf("could not drive MFIO: %w", err)
		}
	}
	if d.reset != nil {
		if err := d.reset.Out(gpio.Low); err != nil {
			return fmt.Errorf("could not assert reset: %w", err)
		}
	}
	d.state = StateResetAsserted
	d.sleep(resetHold)

	if d.reset != nil {
		if err := d.reset.Out(gpio.High); err != nil {
			return fmt.Errorf("could not release reset: %w", err)
		}
	}
	d.state = StateApplicationBooting
	d.sleep(bootWait)

	if d.mfio != nil {
		if err := d.mfio.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return fmt.Errorf("could not release MFIO: %w", err)
		}
	}

	return nil
}
