// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package termui

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

var ErrNotTerminal = errors.New("Not a terminal")

// Terminal owns the terminal mode for as long as it is open: raw input,
// alternate screen, hidden cursor. Close puts everything back and is safe
// to call more than once.
type Terminal struct {
	in  *os.File
	out *os.File

	restore unix.Termios
	once    sync.Once
	err     error
}

func Open(in, out *os.File) (*Terminal, error) {
	for _, file := range []*os.File{in, out} {
		if !term.IsTerminal(int(file.Fd())) {
			return nil, errors.Wrap(ErrNotTerminal, file.Name())
		}
	}

	fd := int(in.Fd())
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)

	if err != nil {
		return nil, errors.Wrap(err, "get terminal mode")
	}

	t := &Terminal{in: in, out: out, restore: *termios}
	termstate := *termios

	// Signals stay enabled so that Ctrl-C still interrupts the process.
	termstate.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR | unix.ICRNL | unix.IXON
	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termstate.Cflag &^= unix.CSIZE | unix.PARENB
	termstate.Cflag |= unix.CS8

	termstate.Cc[unix.VMIN] = 1
	termstate.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &termstate); err != nil {
		return nil, errors.Wrap(err, "set terminal mode")
	}

	if _, err := out.WriteString(enterAltScreen + hideCursor + clearScreen); err != nil {
		t.Close()
		return nil, errors.Wrap(err, "enter alternate screen")
	}

	return t, nil
}

func (t *Terminal) In() *os.File {
	return t.in
}

func (t *Terminal) Out() *os.File {
	return t.out
}

// Size is a SizeFunc for the output side of the terminal.
func (t *Terminal) Size() (Size, error) {
	return TerminalSize(int(t.out.Fd()))
}

func (t *Terminal) Close() error {
	t.once.Do(func() {
		_, writeErr := t.out.WriteString(resetStyle + showCursor + leaveAltScreen)

		t.err = unix.IoctlSetTermios(int(t.in.Fd()), ioctlSetTermios, &t.restore)

		if t.err != nil {
			t.err = errors.Wrap(t.err, "restore terminal mode")
		} else if writeErr != nil {
			t.err = errors.Wrap(writeErr, "leave alternate screen")
		}
	})

	return t.err
}

func TerminalSize(fd int) (Size, error) {
	cols, rows, err := term.GetSize(fd)

	if err != nil {
		return Size{}, errors.Wrap(err, "terminal size")
	}

	return Size{Cols: cols, Rows: rows}, nil
}
