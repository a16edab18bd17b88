package hub

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"periph.io/x/periph/conn/gpio"
	"periph.io/x/periph/conn/gpio/gpiotest"
)

type event struct {
	at   string
	what string
}

// recordingPin logs every level change into a shared journal.
type recordingPin struct {
	name    string
	journal *[]event
}

func (p *recordingPin) Out(l gpio.Level) error {
	*p.journal = append(*p.journal, event{p.name, l.String()})
	return nil
}

func (p *recordingPin) In(pull gpio.Pull, edge gpio.Edge) error {
	*p.journal = append(*p.journal, event{p.name, "in " + pull.String()})
	return nil
}

func TestBegin_Sequence(t *testing.T) {
	var journal []event
	reset := &recordingPin{name: "RST", journal: &journal}
	mfio := &recordingPin{name: "MFIO", journal: &journal}

	conn := &fakeConn{replies: [][]byte{{0x00, byte(ModeApplication)}}}
	d, err := New(conn, Pins(reset, mfio))
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	d.sleep = func(dur time.Duration) {
		journal = append(journal, event{"sleep", dur.String()})
	}

	if err := d.Begin(); err != nil {
		t.Fatalf("Begin() err=%v", err)
	}

	want := []event{
		{"MFIO", gpio.High.String()},
		{"RST", gpio.Low.String()},
		{"sleep", "10ms"},
		{"RST", gpio.High.String()},
		{"sleep", "1s"},
		{"MFIO", "in " + gpio.PullUp.String()},
		{"sleep", CommandDelay.String()},
	}
	if fmt.Sprint(journal) != fmt.Sprint(want) {
		t.Fatalf("sequence = %v\nwant       %v", journal, want)
	}
	if d.State() != StateReady {
		t.Fatalf("state = %s, want %s", d.State(), StateReady)
	}
	if len(conn.writes) != 1 || conn.writes[0][0] != FamilyReadDeviceMode {
		t.Fatalf("writes = % x", conn.writes)
	}
}

func TestBegin_BootloaderIsFailure(t *testing.T) {
	d, _, _ := newTestDevice(t, []byte{0x00, byte(ModeBootloader)})

	err := d.Begin()
	if !errors.Is(err, ErrNotApplicationMode) {
		t.Fatalf("err=%v, want ErrNotApplicationMode", err)
	}
	if d.State() != StateFailed {
		t.Fatalf("state = %s, want %s", d.State(), StateFailed)
	}
	if d.Mode() != ModeBootloader {
		t.Fatalf("mode = %s, want %s", d.Mode(), ModeBootloader)
	}
}

func TestBegin_StatusFailure(t *testing.T) {
	d, _, _ := newTestDevice(t, status(0xFF))

	err := d.Begin()
	if StatusOf(err) != StatusUnknown {
		t.Fatalf("err=%v", err)
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("err=%v, want *StatusError", err)
	}
	if d.State() != StateFailed {
		t.Fatalf("state = %s", d.State())
	}
}

func TestBegin_ForgetsPreviousMode(t *testing.T) {
	d, conn, _ := newTestDevice(t)
	if err := d.SetDeviceMode(ModeBootloader); err != nil {
		t.Fatalf("SetDeviceMode() err=%v", err)
	}

	conn.replies = [][]byte{status(0x05)}
	err := d.Begin()
	if got := StatusOf(err); got != StatusInvalidMode {
		t.Fatalf("status = %s, want %s (err=%v)", got, StatusInvalidMode, err)
	}
}

func TestDeviceMode_String(t *testing.T) {
	if got := DeviceMode(0x03).String(); got != "mode(0x03)" {
		t.Fatalf("String() = %q, want %q", got, "mode(0x03)")
	}
}

func TestBeginBootloader(t *testing.T) {
	reset := &gpiotest.Pin{N: "RST"}
	mfio := &gpiotest.Pin{N: "MFIO"}

	d, _, _ := newTestDevice(t, []byte{0x00, byte(ModeBootloader)})
	if _, err := d.Options(Pins(reset, mfio)); err != nil {
		t.Fatalf("Options() err=%v", err)
	}

	if err := d.BeginBootloader(); err != nil {
		t.Fatalf("BeginBootloader() err=%v", err)
	}
	if d.State() != StateBootloaderReady {
		t.Fatalf("state = %s", d.State())
	}
	if reset.L != gpio.High {
		t.Fatalf("reset left %s, want High", reset.L)
	}
	if mfio.P != gpio.PullUp {
		t.Fatalf("MFIO pull = %s, want PullUp", mfio.P)
	}
	if got := ParseStatus(0x05, d.Mode()); got != StatusTryAgain {
		t.Fatalf("0x05 in bootloader = %s", got)
	}
}

func TestBegin_WithoutPins(t *testing.T) {
	d, _, slept := newTestDevice(t, []byte{0x00, byte(ModeApplication)})

	if err := d.Begin(); err != nil {
		t.Fatalf("Begin() err=%v", err)
	}
	if len(*slept) < 2 || (*slept)[0] != resetHold || (*slept)[1] != bootWait {
		t.Fatalf("waits = %v", *slept)
	}
}
