package hub

import (
	"errors"
	"fmt"
)

// Status is the interpreted status byte returned by every transaction.
type Status uint8

// Status codes.
const (
	StatusUnknown Status = iota
	StatusSuccess
	StatusUnavailableCommand
	StatusUnavailableFunction
	StatusDataFormatError
	StatusInputValueError
	StatusInvalidMode
	StatusTryAgain
	StatusBootloaderGeneral
	StatusBootloaderChecksum
	StatusBootloaderAuth
	StatusBootloaderInvalidApp
	StatusRetryableBusy
)

// Raw status bytes as sent by the hub.
const (
	rawSuccess             byte = 0x00
	rawUnavailableCommand  byte = 0x01
	rawUnavailableFunction byte = 0x02
	rawDataFormat          byte = 0x03
	rawInputValue          byte = 0x04
	rawInvalidMode         byte = 0x05 // TryAgain in bootloader mode
	rawBootloaderGeneral   byte = 0x80
	rawBootloaderChecksum  byte = 0x81
	rawBootloaderAuth      byte = 0x82
	rawBootloaderInvalid   byte = 0x83
	rawBusy                byte = 0xFE
	rawUnknown             byte = 0xFF
)

// ParseStatus interprets a raw status byte. The hub reuses 0x05 for two
// meanings, so the last-known device mode selects between InvalidMode and
// TryAgain.
func ParseStatus(raw byte, mode DeviceMode) Status {
	switch raw {
	case rawSuccess:
		return StatusSuccess
	case rawUnavailableCommand:
		return StatusUnavailableCommand
	case rawUnavailableFunction:
		return StatusUnavailableFunction
	case rawDataFormat:
		return StatusDataFormatError
	case rawInputValue:
		return StatusInputValueError
	case rawInvalidMode:
		if mode == ModeBootloader {
			return StatusTryAgain
		}
		return StatusInvalidMode
	case rawBootloaderGeneral:
		return StatusBootloaderGeneral
	case rawBootloaderChecksum:
		return StatusBootloaderChecksum
	case rawBootloaderAuth:
		return StatusBootloaderAuth
	case rawBootloaderInvalid:
		return StatusBootloaderInvalidApp
	case rawBusy:
		return StatusRetryableBusy
	case rawUnknown:
		return StatusUnknown
	}
	return StatusUnknown
}

var statusNames = map[Status]string{
	StatusUnknown:              "unknown error",
	StatusSuccess:              "success",
	StatusUnavailableCommand:   "unavailable command",
	StatusUnavailableFunction:  "unavailable function",
	StatusDataFormatError:      "data format error",
	StatusInputValueError:      "input value error",
	StatusInvalidMode:          "invalid mode",
	StatusTryAgain:             "bootloader try again",
	StatusBootloaderGeneral:    "bootloader general error",
	StatusBootloaderChecksum:   "bootloader checksum error",
	StatusBootloaderAuth:       "bootloader authentication error",
	StatusBootloaderInvalidApp: "bootloader invalid application",
	StatusRetryableBusy:        "busy, try again",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("status(%d)", uint8(s))
}

// Class groups statuses by how a caller should react to them.
type Class uint8

// Status classes.
const (
	ClassUnknown Class = iota
	ClassSuccess
	ClassRetryable
	ClassInput
	ClassProtocol
)

func (c Class) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassRetryable:
		return "retryable"
	case ClassInput:
		return "input error"
	case ClassProtocol:
		return "protocol error"
	}
	return "unknown"
}

// Class returns the taxonomy class of the status.
func (s Status) Class() Class {
	switch s {
	case StatusSuccess:
		return ClassSuccess
	case StatusRetryableBusy, StatusTryAgain:
		return ClassRetryable
	case StatusDataFormatError, StatusInputValueError:
		return ClassInput
	case StatusUnavailableCommand, StatusUnavailableFunction, StatusInvalidMode,
		StatusBootloaderGeneral, StatusBootloaderChecksum, StatusBootloaderAuth,
		StatusBootloaderInvalidApp:
		return ClassProtocol
	}
	return ClassUnknown
}

// Retryable reports whether resending the same command may succeed.
func (s Status) Retryable() bool {
	return s.Class() == ClassRetryable
}

// StatusError is returned when the hub answers a command with a status other
// than success.
type StatusError struct {
	Cmd    string
	Status Status
	Raw    byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("max32664: %s: %s (%#02x)", e.Cmd, e.Status, e.Raw)
}

// StatusOf extracts the hub status carried by err. It returns StatusSuccess
// for a nil error and StatusUnknown for errors that carry no status.
func StatusOf(err error) Status {
	if err == nil {
		return StatusSuccess
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status
	}
	return StatusUnknown
}
