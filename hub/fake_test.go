package hub

import (
	"bytes"
	"testing"
	"time"
)

// fakeConn records every write and answers reads from a queue of replies.
// An empty queue answers success.
type fakeConn struct {
	writes  [][]byte
	replies [][]byte

	writeErr error
	readErr  error
}

func (f *fakeConn) Tx(w, r []byte) error {
	if len(w) > 0 {
		if f.writeErr != nil {
			return f.writeErr
		}
		frame := make([]byte, len(w))
		copy(frame, w)
		f.writes = append(f.writes, frame)
	}
	if len(r) > 0 {
		if f.readErr != nil {
			return f.readErr
		}
		if len(f.replies) == 0 {
			r[0] = 0x00
			return nil
		}
		copy(r, f.replies[0])
		f.replies = f.replies[1:]
	}
	return nil
}

// commands returns the family and index bytes of every write.
func (f *fakeConn) commands() [][2]byte {
	out := make([][2]byte, len(f.writes))
	for i, w := range f.writes {
		out[i] = [2]byte{w[0], w[1]}
	}
	return out
}

// count returns how many writes carried cmd, sub-index included.
func (f *fakeConn) count(cmd Command) int {
	header := append([]byte{cmd.Family, cmd.Index}, cmd.Sub...)
	n := 0
	for _, w := range f.writes {
		if bytes.HasPrefix(w, header) {
			n++
		}
	}
	return n
}

func newTestDevice(t *testing.T, replies ...[]byte) (*Device, *fakeConn, *[]time.Duration) {
	t.Helper()

	conn := &fakeConn{replies: replies}
	d, err := New(conn)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	var slept []time.Duration
	d.sleep = func(dur time.Duration) {
		slept = append(slept, dur)
	}

	return d, conn, &slept
}

func ok() []byte {
	return []byte{0x00}
}

func status(raw byte) []byte {
	return []byte{raw}
}
