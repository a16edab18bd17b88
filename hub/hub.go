// Package hub implements the command/response protocol of the MAX32664
// biometric sensor hub.
//
// Every exchange with the hub is a write of [family][index][payload...]
// followed, after a settle delay, by a read of [status][response...]. The
// hub runs the heart-rate, SpO2 and blood-pressure algorithms itself; this
// package programs them and decodes their output FIFO.
package hub

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

var (
	// ErrTransport is wrapped by every error caused by the bus itself rather
	// than by a status byte returned by the hub.
	ErrTransport = errors.New("max32664: bus transaction failed")
	// ErrInvalidParameter is returned when an argument is out of the range
	// accepted by the hub.
	ErrInvalidParameter = errors.New("max32664: invalid parameter")
)

// Conn is the bus connection to the hub. *i2c.Dev from periph satisfies it.
type Conn interface {
	Tx(w, r []byte) error
}

// Device defines a MAX32664 sensor hub.
type Device struct {
	conn Conn

	reset Pin
	mfio  Pin

	mode  DeviceMode
	state State

	maxBusyRetries int
	log            zerolog.Logger
	sleep          func(time.Duration)
}

// New returns a new hub driver talking over conn. It does not touch the
// device; call Begin to run the reset sequence.
func New(conn Conn, options ...Option) (*Device, error) {
	d := &Device{
		conn:           conn,
		mode:           ModeApplication,
		state:          StatePoweredOff,
		maxBusyRetries: DefaultMaxBusyRetries,
		log:            zerolog.Nop(),
		sleep:          time.Sleep,
	}
	if _, err := d.Options(options...); err != nil {
		return nil, err
	}

	return d, nil
}

// Transact executes a single request and returns the interpreted status byte
// and the response bytes. A non-success status is not an error here; only
// bus failures are.
func (d *Device) Transact(req Request) (Status, []byte, error) {
	raw, resp, err := d.transact(req)
	if err != nil {
		return StatusUnknown, nil, err
	}
	return ParseStatus(raw, d.mode), resp, nil
}

func (d *Device) transact(req Request) (byte, []byte, error) {
	w := req.frame()
	if err := d.conn.Tx(w, nil); err != nil {
		return 0, nil, fmt.Errorf("%w: %s: write: %w", ErrTransport, req.Cmd, err)
	}

	d.sleep(req.Cmd.settle())

	r := make([]byte, req.N+1)
	if err := d.conn.Tx(nil, r); err != nil {
		return 0, nil, fmt.Errorf("%w: %s: read: %w", ErrTransport, req.Cmd, err)
	}

	d.log.Debug().
		Str("cmd", req.Cmd.Name).
		Int("write", len(w)).
		Hex("status", r[:1]).
		Int("read", req.N).
		Msg("transaction")

	return r[0], r[1:], nil
}

// do executes req and turns a non-success status into a *StatusError.
func (d *Device) do(req Request) ([]byte, error) {
	raw, resp, err := d.transact(req)
	if err != nil {
		return nil, err
	}
	if st := ParseStatus(raw, d.mode); st != StatusSuccess {
		return resp, &StatusError{Cmd: req.Cmd.Name, Status: st, Raw: raw}
	}
	return resp, nil
}

// WriteCommand sends a command without payload.
func (d *Device) WriteCommand(cmd Command) error {
	_, err := d.do(Request{Cmd: cmd})
	return err
}

// WriteCommandWithPayload sends a command followed by its payload.
func (d *Device) WriteCommandWithPayload(cmd Command, payload ...byte) error {
	_, err := d.do(Request{Cmd: cmd, Payload: payload})
	return err
}

// ReadCommand sends a command and reads n response bytes after the status.
func (d *Device) ReadCommand(cmd Command, n int) ([]byte, error) {
	return d.do(Request{Cmd: cmd, N: n})
}

func (d *Device) readByte(cmd Command) (byte, error) {
	b, err := d.ReadCommand(cmd, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// HubStatus is the decoded sensor hub status byte.
type HubStatus struct {
	SensorCommError    bool
	DataReady          bool
	OutputOverflow     bool
	InputOverflow      bool
	HostAccelUnderflow bool
}

// ReadHubStatus reads the sensor hub status flags.
func (d *Device) ReadHubStatus() (HubStatus, error) {
	b, err := d.readByte(CmdReadHubStatus)
	if err != nil {
		return HubStatus{}, fmt.Errorf("max32664: could not read hub status: %w", err)
	}
	return HubStatus{
		SensorCommError:    b&HubSensorCommErr != 0,
		DataReady:          b&HubDataReady != 0,
		OutputOverflow:     b&HubOutputOverflow != 0,
		InputOverflow:      b&HubInputOverflow != 0,
		HostAccelUnderflow: b&HubAccelUnderflow != 0,
	}, nil
}

// ReadDeviceMode reads the operating mode of the hub and remembers it for
// status interpretation.
func (d *Device) ReadDeviceMode() (DeviceMode, error) {
	b, err := d.readByte(CmdReadDeviceMode)
	if err != nil {
		return 0, fmt.Errorf("max32664: could not read device mode: %w", err)
	}
	d.mode = DeviceMode(b)
	return d.mode, nil
}

// SetDeviceMode switches the operating mode of the hub.
func (d *Device) SetDeviceMode(mode DeviceMode) error {
	if err := d.WriteCommandWithPayload(CmdSetDeviceMode, byte(mode)); err != nil {
		return fmt.Errorf("max32664: could not set device mode to %s: %w", mode, err)
	}
	d.mode = mode
	return nil
}

// Shutdown puts the hub in shutdown mode.
func (d *Device) Shutdown() error {
	return d.SetDeviceMode(ModeShutdown)
}

// Version is the firmware version of the hub.
type Version struct {
	Major    byte
	Minor    byte
	Revision byte
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Revision)
}

// ReadVersion reads the firmware version of the hub.
func (d *Device) ReadVersion() (Version, error) {
	b, err := d.ReadCommand(CmdReadVersion, 3)
	if err != nil {
		return Version{}, fmt.Errorf("max32664: could not read version: %w", err)
	}
	return Version{Major: b[0], Minor: b[1], Revision: b[2]}, nil
}

// ReadMCUType returns the MCU type byte of the hub.
func (d *Device) ReadMCUType() (byte, error) {
	b, err := d.readByte(CmdReadMCUType)
	if err != nil {
		return 0, fmt.Errorf("max32664: could not read MCU type: %w", err)
	}
	return b, nil
}

// SetOutputFormat selects what the output FIFO carries.
func (d *Device) SetOutputFormat(format byte) error {
	if format > OutputCounterSensorAlgorithm {
		return fmt.Errorf("%w: output format %#02x", ErrInvalidParameter, format)
	}
	if err := d.WriteCommandWithPayload(CmdSetOutputFormat, format); err != nil {
		return fmt.Errorf("max32664: could not set output format: %w", err)
	}
	return nil
}

// ReadOutputFormat reads the current output format.
func (d *Device) ReadOutputFormat() (byte, error) {
	b, err := d.readByte(CmdReadOutputFormat)
	if err != nil {
		return 0, fmt.Errorf("max32664: could not read output format: %w", err)
	}
	return b, nil
}

// SetFIFOThreshold sets the number of samples that raises the data ready
// interrupt. It accepts values from 1 to 255.
func (d *Device) SetFIFOThreshold(n byte) error {
	if n == 0 {
		return fmt.Errorf("%w: FIFO threshold must be at least 1", ErrInvalidParameter)
	}
	if err := d.WriteCommandWithPayload(CmdSetFIFOThreshold, n); err != nil {
		return fmt.Errorf("max32664: could not set FIFO threshold: %w", err)
	}
	return nil
}

// ReadFIFOThreshold reads the current FIFO interrupt threshold.
func (d *Device) ReadFIFOThreshold() (byte, error) {
	b, err := d.readByte(CmdReadFIFOThreshold)
	if err != nil {
		return 0, fmt.Errorf("max32664: could not read FIFO threshold: %w", err)
	}
	return b, nil
}

// EnableAGC enables or disables the automatic gain control algorithm.
func (d *Device) EnableAGC(enable bool) error {
	if err := d.WriteCommandWithPayload(CmdEnableAGC, boolByte(enable)); err != nil {
		return fmt.Errorf("max32664: could not set AGC to %t: %w", enable, err)
	}
	return nil
}

// EnableSensor enables or disables the optical front end.
func (d *Device) EnableSensor(enable bool) error {
	if err := d.WriteCommandWithPayload(CmdEnableSensor, boolByte(enable)); err != nil {
		return fmt.Errorf("max32664: could not set sensor to %t: %w", enable, err)
	}
	return nil
}

// EnableWHRM sets the mode of the heart-rate/SpO2 algorithm (0 disables it).
func (d *Device) EnableWHRM(mode byte) error {
	if mode > WHRMExtended {
		return fmt.Errorf("%w: WHRM mode %d", ErrInvalidParameter, mode)
	}
	if err := d.WriteCommandWithPayload(CmdEnableWHRM, mode); err != nil {
		return fmt.Errorf("max32664: could not enable WHRM mode %d: %w", mode, err)
	}
	return nil
}

// EnableBPT sets the mode of the blood-pressure algorithm (0 disables it).
func (d *Device) EnableBPT(mode byte) error {
	if mode > BPTEstimation {
		return fmt.Errorf("%w: BPT mode %d", ErrInvalidParameter, mode)
	}
	if err := d.WriteCommandWithPayload(CmdEnableBPT, mode); err != nil {
		return fmt.Errorf("max32664: could not enable BPT mode %d: %w", mode, err)
	}
	return nil
}

// ReadAvailableSamples returns the number of samples waiting in the output
// FIFO.
func (d *Device) ReadAvailableSamples() (int, error) {
	b, err := d.readByte(CmdReadAvailableSamples)
	if err != nil {
		return 0, fmt.Errorf("max32664: could not read available samples: %w", err)
	}
	return int(b), nil
}

// ReadOutputFIFO reads n bytes from the output FIFO.
func (d *Device) ReadOutputFIFO(n int) ([]byte, error) {
	b, err := d.ReadCommand(CmdReadOutputFIFO, n)
	if err != nil {
		return nil, fmt.Errorf("max32664: could not read output FIFO: %w", err)
	}
	return b, nil
}
