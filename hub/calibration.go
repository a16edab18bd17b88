package hub

import (
	"encoding/binary"
	"fmt"
	"time"
)

// CalibrationVector seeds the blood-pressure estimator. It is produced by the
// hub in calibration mode and must be supplied again after every power cycle.
type CalibrationVector [CalibrationSize]byte

// DateTime is the date and time given to the blood-pressure estimator, as
// decimal YYMMDD and HHMMSS numbers.
type DateTime struct {
	Date uint32
	Time uint32
}

// DateTimeOf returns the DateTime of t.
func DateTimeOf(t time.Time) DateTime {
	return DateTime{
		Date: uint32((t.Year()%100)*10000 + int(t.Month())*100 + t.Day()),
		Time: uint32(t.Hour()*10000 + t.Minute()*100 + t.Second()),
	}
}

// Bytes encodes the date and time as two little-endian 32-bit numbers.
func (dt DateTime) Bytes() []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint32(b[0:4], dt.Date)
	binary.LittleEndian.PutUint32(b[4:8], dt.Time)
	return b
}

// Spo2Coefficients are the A, B and C terms of the SpO2 calibration curve.
type Spo2Coefficients struct {
	A, B, C float32
}

// DefaultSpo2Coefficients are the coefficients published for the reference
// design.
var DefaultSpo2Coefficients = Spo2Coefficients{A: 1.5958422, B: -34.659664, C: 112.68987}

// fixed converts a coefficient to the hub's fixed-point format (x100000).
// Fractions are truncated.
func fixed(c float32) uint32 {
	return uint32(int32(c * 100000))
}

// Bytes encodes the coefficients as three big-endian fixed-point numbers.
func (c Spo2Coefficients) Bytes() []byte {
	b := make([]byte, 12)
	binary.BigEndian.PutUint32(b[0:4], fixed(c.A))
	binary.BigEndian.PutUint32(b[4:8], fixed(c.B))
	binary.BigEndian.PutUint32(b[8:12], fixed(c.C))
	return b
}

// LoadBPTCalibration uploads the calibration vector of the blood-pressure
// estimator. The vector is sent verbatim.
func (d *Device) LoadBPTCalibration(cv *CalibrationVector) error {
	if cv == nil {
		return fmt.Errorf("%w: nil calibration vector", ErrInvalidParameter)
	}
	if err := d.WriteCommandWithPayload(CmdWriteBPTCalibration, cv[:]...); err != nil {
		return fmt.Errorf("max32664: could not load BPT calibration: %w", err)
	}
	return nil
}

// ReadBPTCalibration reads back the calibration vector computed by the
// estimator after a calibration run.
func (d *Device) ReadBPTCalibration() (*CalibrationVector, error) {
	b, err := d.ReadCommand(CmdReadBPTCalibration, CalibrationSize)
	if err != nil {
		return nil, fmt.Errorf("max32664: could not read BPT calibration: %w", err)
	}
	cv := new(CalibrationVector)
	copy(cv[:], b)
	return cv, nil
}

// SetDateTime sets the date and time used by the blood-pressure estimator.
func (d *Device) SetDateTime(dt DateTime) error {
	if err := d.WriteCommandWithPayload(CmdWriteDateTime, dt.Bytes()...); err != nil {
		return fmt.Errorf("max32664: could not set date and time: %w", err)
	}
	return nil
}

// LoadSpo2Coefficients uploads the SpO2 calibration coefficients.
func (d *Device) LoadSpo2Coefficients(c Spo2Coefficients) error {
	if err := d.WriteCommandWithPayload(CmdWriteSpo2Coefficients, c.Bytes()...); err != nil {
		return fmt.Errorf("max32664: could not load SpO2 coefficients: %w", err)
	}
	return nil
}

// SetBPReference uploads the three cuff reference readings of calibration
// run index, in mmHg.
func (d *Device) SetBPReference(index byte, systolic, diastolic [3]byte) error {
	sys := append([]byte{index}, systolic[:]...)
	if err := d.WriteCommandWithPayload(CmdWriteSystolicReference, sys...); err != nil {
		return fmt.Errorf("max32664: could not set systolic reference: %w", err)
	}
	dia := append([]byte{index}, diastolic[:]...)
	if err := d.WriteCommandWithPayload(CmdWriteDiastolicReference, dia...); err != nil {
		return fmt.Errorf("max32664: could not set diastolic reference: %w", err)
	}
	return nil
}
