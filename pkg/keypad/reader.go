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

package keypad

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// PollInterval bounds how long the reader sleeps in poll(2) before checking
// for cancellation.
const PollInterval = 100 * time.Millisecond

const pressBuffer = 32

// Reader turns raw terminal bytes into key presses.
type Reader struct {
	fd      int
	state   *State
	presses chan Key

	// escape sequence parser state
	inEscape bool
	inCSI    bool
}

func NewReader(fd int, state *State) *Reader {
	return &Reader{
		fd:      fd,
		state:   state,
		presses: make(chan Key, pressBuffer),
	}
}

func (r *Reader) State() *State {
	return r.state
}

// Presses delivers every key press in arrival order. Presses are dropped
// when nobody drains the channel.
func (r *Reader) Presses() <-chan Key {
	return r.presses
}

// Run blocks in poll(2) until input is available and feeds it to the State
// and the press channel. It returns nil when ctx is done or the input is
// closed.
func (r *Reader) Run(ctx context.Context) error {
	fds := []unix.PollFd{{Fd: int32(r.fd), Events: unix.POLLIN}}
	buf := make([]byte, 64)
	timeout := int(PollInterval / time.Millisecond)

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := unix.Poll(fds, timeout)

		if err == unix.EINTR {
			continue
		} else if err != nil {
			return errors.Wrap(err, "poll input")
		}

		if n == 0 {
			continue
		}

		if fds[0].Revents&(unix.POLLERR|unix.POLLNVAL) != 0 {
			return errors.Errorf("input fd %d is no longer readable", r.fd)
		}

		count, err := unix.Read(r.fd, buf)

		if err == unix.EINTR || err == unix.EAGAIN {
			continue
		} else if err != nil {
			return errors.Wrap(err, "read input")
		}

		if count == 0 {
			return nil
		}

		r.Feed(buf[:count])
	}
}

// Feed processes a chunk of raw input. Escape sequences (arrow keys and
// the like) are skipped so that their trailing letters do not register as
// keypad presses.
func (r *Reader) Feed(input []byte) {
	for _, b := range input {
		switch {
		case r.inCSI:
			if b >= 0x40 && b <= 0x7E {
				r.inCSI = false
			}
			continue

		case r.inEscape:
			r.inEscape = false

			if b == '[' || b == 'O' {
				r.inCSI = true
			}
			continue

		case b == 0x1B:
			r.inEscape = true
			continue

		case b < 0x20 || b >= 0x7F:
			continue
		}

		key := NormalizeKey(rune(b))
		r.state.Press(key)

		select {
		case r.presses <- key:
		default:
		}
	}

	// An ESC ending a chunk is the Esc key on its own
	r.inEscape = false
}
