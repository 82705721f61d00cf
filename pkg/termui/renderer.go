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
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/lassandro/chipterm/pkg/chip8"
)

// SizeFunc reports the current terminal size.
type SizeFunc func() (Size, error)

// Renderer draws machine snapshots. Every frame is queued and written with
// a single flush.
type Renderer struct {
	w      *bufio.Writer
	size   SizeFunc
	styles Styles

	layout  Layout
	sized   bool
	layouts int

	// Last display seen, redrawn whenever the layout is recomputed.
	display    chip8.Display
	hasDisplay bool
}

func NewRenderer(w io.Writer, size SizeFunc, styles Styles) *Renderer {
	return &Renderer{
		w:      bufio.NewWriterSize(w, 64*1024),
		size:   size,
		styles: styles,
	}
}

func (r *Renderer) Layout() Layout {
	return r.layout
}

// Layouts counts how many times the layout has been computed.
func (r *Renderer) Layouts() int {
	return r.layouts
}

// Draw renders one frame. display is the screen contents when they changed
// since the last frame and nil otherwise.
func (r *Renderer) Draw(label string, snap *chip8.MachineState, display *chip8.Display) error {
	size, err := r.size()

	if err != nil {
		return err
	}

	if display != nil {
		r.display = *display
		r.hasDisplay = true
	}

	if !r.sized || size != r.layout.Size {
		r.layout = NewLayout(size)
		r.sized = true
		r.layouts++

		r.clear()

		if !size.Fits() {
			r.drawTooSmall()
			return r.flush()
		}

		r.drawFrame()

		if r.hasDisplay {
			display = &r.display
		}
	}

	if !r.layout.Size.Fits() {
		return nil
	}

	if display != nil {
		r.drawScreen(display)
	}

	r.drawLabel(label)
	r.drawMemory(snap)
	r.drawRegisters(snap)

	return r.flush()
}

func (r *Renderer) flush() error {
	return errors.Wrap(r.w.Flush(), "draw")
}
