package max32664

import (
	"github.com/rs/zerolog"
	"periph.io/x/periph/conn/physic"
)

// An Option configures a device.
type Option func(d *Device) Option

// OnBus can be used to specify I²C bus name
// ("/dev/i2c-2", "I2C2", "2"). By default, the bus name is "", which selects
// the first available bus.
func OnBus(name string) Option {
	return func(d *Device) Option {
		old := d.busName
		d.busName = name
		return OnBus(old)
	}
}

// OnAddr can be used to specify alternative I²C address.
// By default, the address is 0x55.
func OnAddr(addr uint16) Option {
	return func(d *Device) Option {
		old := d.addr
		d.addr = addr
		return OnAddr(old)
	}
}

// OnPins sets the names of the GPIO pins wired to the reset and MFIO lines
// ("GPIO4", "P1_7"). Empty names leave the line undriven.
func OnPins(reset, mfio string) Option {
	return func(d *Device) Option {
		oldReset, oldMFIO := d.resetPin, d.mfioPin
		d.resetPin, d.mfioPin = reset, mfio
		return OnPins(oldReset, oldMFIO)
	}
}

// WithSpeed sets the I²C bus speed. By default, the bus speed is left alone.
func WithSpeed(f physic.Frequency) Option {
	return func(d *Device) Option {
		old := d.speed
		d.speed = f
		return WithSpeed(old)
	}
}

// WithLogger sets the logger of the device and its hub.
func WithLogger(l zerolog.Logger) Option {
	return func(d *Device) Option {
		old := d.log
		d.log = l
		return WithLogger(old)
	}
}

// WithMaxBusyRetries bounds how many times an algorithm enable answered with
// busy is resent. Zero removes the bound.
func WithMaxBusyRetries(n int) Option {
	return func(d *Device) Option {
		old := d.retries
		d.retries = n
		return WithMaxBusyRetries(old)
	}
}
