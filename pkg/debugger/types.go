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

package debugger

import (
	"log"

	"github.com/pkg/errors"
)

var ErrBreakpoint = errors.New("Breakpoint reached")

type Breakpoint struct {
	Addr uint16
}

// Debugger implements chip8.MachineDebugger. It is called with the machine
// lock held and is not safe for concurrent use on its own.
type Debugger struct {
	Breakpoints []Breakpoint

	// Trace receives one line per executed instruction when non-nil.
	Trace *log.Logger

	steps uint64
}
