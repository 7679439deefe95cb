// Package termio is the concrete lineedit.Terminal: a raw-mode byte
// source and display sink over a real file descriptor pair, with a
// stop-pipe so a concurrent Close can interrupt a pending blocking read
// cleanly. It is the one place in this module that talks to the kernel
// directly; everything above it only ever sees the lineedit.Terminal
// interface.
package termio

import (
	"fmt"
	"os"
	"sync"
	"syscall"

	"github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"

	"github.com/pks-os/clink/pkg/errutil"
	"github.com/pks-os/clink/pkg/lineedit"
)

var _ lineedit.Terminal = (*Terminal)(nil)

// Terminal is a raw-mode terminal backed by a pair of *os.File, usually
// both ends of the same tty. Begin puts in into raw mode (no canonical
// processing, no echo, VMIN=1/VTIME=0) and saves whatever termios state
// was in effect; End restores it.
type Terminal struct {
	in, out *os.File
	fd      int

	saved  unix.Termios
	rawSet bool

	rStop, wStop *os.File

	mu      sync.Mutex
	stopped bool
}

// New constructs a Terminal over in/out. It fails fast if in is not
// actually attached to a terminal rather than silently degrading to a
// mode where the raw-mode ioctls in Begin would fail later with a less
// useful error.
func New(in, out *os.File) (*Terminal, error) {
	if !isatty.IsTerminal(in.Fd()) {
		return nil, fmt.Errorf("termio: %s is not a terminal", in.Name())
	}
	rStop, wStop, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("termio: create stop pipe: %w", err)
	}
	return &Terminal{in: in, out: out, fd: int(in.Fd()), rStop: rStop, wStop: wStop}, nil
}

// Begin saves the current termios state and switches the terminal to raw
// mode: no canonical line processing, no local echo, and a blocking
// single-byte read (VMIN=1, VTIME=0) at the kernel level.
func (t *Terminal) Begin() error {
	saved, err := unix.IoctlGetTermios(t.fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("termio: get termios: %w", err)
	}
	t.saved = *saved

	raw := *saved
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	if err := unix.IoctlSetTermios(t.fd, unix.TCSETS, &raw); err != nil {
		return fmt.Errorf("termio: set raw termios: %w", err)
	}
	t.rawSet = true
	return nil
}

// End restores the termios state Begin saved. It is a no-op if Begin was
// never called or already undone.
func (t *Terminal) End() error {
	if !t.rawSet {
		return nil
	}
	t.rawSet = false
	if err := unix.IoctlSetTermios(t.fd, unix.TCSETS, &t.saved); err != nil {
		return fmt.Errorf("termio: restore termios: %w", err)
	}
	return nil
}

// Select blocks until a byte is available for Read, or until Close
// interrupts it, in which case it returns nil and the next Read reports
// eof. This is the one sanctioned suspension point the driver calls
// before every Read.
func (t *Terminal) Select() error {
	stopFd := int(t.rStop.Fd())
	for {
		rset, nfd := newFdSet(t.fd, stopFd)
		err := pselect(nfd, rset)
		if err == syscall.EINTR {
			continue
		}
		if err != nil {
			return fmt.Errorf("termio: select: %w", err)
		}
		if fdIsSet(rset, stopFd) {
			var b [1]byte
			t.rStop.Read(b[:])
			t.mu.Lock()
			t.stopped = true
			t.mu.Unlock()
		}
		return nil
	}
}

// Read reads one byte from the terminal, or reports eof if a prior
// Select was interrupted by Close.
func (t *Terminal) Read() (byte, bool, error) {
	t.mu.Lock()
	stopped := t.stopped
	t.mu.Unlock()
	if stopped {
		return 0, true, nil
	}

	var b [1]byte
	n, err := t.in.Read(b[:])
	if err != nil {
		return 0, false, err
	}
	if n == 0 {
		return 0, true, nil
	}
	return b[0], false, nil
}

// Write implements the driver's display sink.
func (t *Terminal) Write(p []byte) (int, error) { return t.out.Write(p) }

// Close interrupts any Select currently blocked on this Terminal and
// releases the stop pipe. It does not close in/out; the embedder owns
// those file handles.
func (t *Terminal) Close() error {
	_, wErr := t.wStop.Write([]byte{'q'})
	rCloseErr := t.rStop.Close()
	wCloseErr := t.wStop.Close()
	return errutil.Combine(wErr, rCloseErr, wCloseErr)
}
