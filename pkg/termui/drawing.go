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
	"fmt"
	"strings"

	"github.com/lassandro/chipterm/pkg/chip8"
	"github.com/lassandro/chipterm/pkg/encoding"
)

const TooSmallMessage = "Too small terminal size. Try lowering font size (Try Ctrl+-)"

// Frame pieces
const (
	cornerTopLeft     = "┌"
	cornerTopRight    = "┐"
	cornerBottomLeft  = "└"
	cornerBottomRight = "┘"
	frameVertical     = "│"
	frameHorizontal   = "─"

	dividerVertical   = "║"
	dividerHorizontal = "═"
	dividerTop        = "╥"
	dividerBottom     = "╨"
	dividerLeft       = "╞"
	dividerRight      = "╣"
)

// fingerprintCols is the narrowest memory panel that still fits the
// instruction sprite after the address and word.
const fingerprintCols = 19

func (r *Renderer) clear() {
	r.w.WriteString(resetStyle + clearScreen)

	blank := r.styles.Base.Render(strings.Repeat(" ", r.layout.Size.Cols))

	for y := 0; y < r.layout.Size.Rows; y++ {
		moveTo(r.w, 0, y)
		r.w.WriteString(blank)
	}
}

func (r *Renderer) drawTooSmall() {
	message := []rune(TooSmallMessage)

	if len(message) > r.layout.Size.Cols {
		message = message[:r.layout.Size.Cols]
	}

	moveTo(r.w, 0, 0)
	r.w.WriteString(r.styles.Warning.Render(string(message)))
}

func (r *Renderer) drawFrame() {
	l := r.layout
	border := r.styles.Border.Render
	inner := l.Size.Cols - 2

	moveTo(r.w, 0, 0)
	r.w.WriteString(border(
		cornerTopLeft + strings.Repeat(frameHorizontal, inner) + cornerTopRight,
	))

	for y := 1; y < l.Size.Rows-1; y++ {
		moveTo(r.w, 0, y)
		r.w.WriteString(border(frameVertical))
		moveTo(r.w, l.Size.Cols-1, y)
		r.w.WriteString(border(frameVertical))
	}

	moveTo(r.w, 0, l.Size.Rows-1)
	r.w.WriteString(border(
		cornerBottomLeft + strings.Repeat(frameHorizontal, inner) + cornerBottomRight,
	))

	// Memory panel divider, top to bottom
	moveTo(r.w, l.DividerX, 0)
	r.w.WriteString(border(dividerTop))

	for y := 1; y < l.Size.Rows-1; y++ {
		moveTo(r.w, l.DividerX, y)
		r.w.WriteString(border(dividerVertical))
	}

	moveTo(r.w, l.DividerX, l.Size.Rows-1)
	r.w.WriteString(border(dividerBottom))

	// Register panel divider, ending on the memory divider
	moveTo(r.w, 0, l.DividerY)
	r.w.WriteString(border(
		dividerLeft + strings.Repeat(dividerHorizontal, l.DividerX-1) + dividerRight,
	))
}

func (r *Renderer) drawScreen(display *chip8.Display) {
	for row := 0; row < screenRows; row++ {
		moveTo(r.w, r.layout.ScreenX, r.layout.ScreenY+row)
		r.w.WriteString(r.styles.Screen.Render(ScreenRow(display, row)))
	}
}

// drawLabel writes the status line into the top border, above the display.
// The rest of the border up to the divider is redrawn so a shorter label
// leaves nothing behind.
func (r *Renderer) drawLabel(label string) {
	room := r.layout.DividerX - 2
	text := []rune(" " + label + " ")

	if len(text) > room {
		text = text[:room]
	}

	moveTo(r.w, 1, 0)
	r.w.WriteString(r.styles.Border.Render(frameHorizontal))
	r.w.WriteString(r.styles.Label.Render(string(text)))
	r.w.WriteString(r.styles.Border.Render(
		strings.Repeat(frameHorizontal, room-len(text)),
	))
}

// MemoryEntry formats the panel line for the instruction at addr. The
// result is padded to width runes.
func MemoryEntry(memory []byte, addr int, width int) string {
	var entry string

	if addr >= 0 && addr < len(memory) {
		word := encoding.Word(memory, addr)
		entry = fmt.Sprintf(" %03x %04x ", addr, word)

		if width >= fingerprintCols {
			entry += Fingerprint(word) + " "
		}
	}

	if runes := []rune(entry); len(runes) > width {
		entry = string(runes[:width])
	}

	return fmt.Sprintf("%-*s", width, entry)
}

func (r *Renderer) drawMemory(snap *chip8.MachineState) {
	l := r.layout
	start, current := l.MemoryWindow(snap.Program)

	for row := 0; row < l.MemoryRows; row++ {
		style := r.styles.Memory

		if row == current {
			style = r.styles.Current
		}

		addr := start + row*entryBytes

		moveTo(r.w, l.MemoryX, l.MemoryY+row)
		r.w.WriteString(style.Render(MemoryEntry(snap.Memory[:], addr, l.MemoryCols)))
	}
}

// RegisterLines formats the register panel. Two lines hold V0-V8 and then
// V9-VF with the timers and index; compact is a single line for when the
// panel is one row tall.
func RegisterLines(snap *chip8.MachineState, compact bool) (string, string) {
	var first, second strings.Builder

	regFormat := "  V%X= %02x"
	if compact {
		regFormat = " V%X=%02x"
	}

	for i, value := range snap.Registers {
		target := &first
		if i >= 9 && !compact {
			target = &second
		}

		fmt.Fprintf(target, regFormat, i, value)
	}

	target := &second
	if compact {
		target = &first
		fmt.Fprintf(target, " DT=%02x ST=%02x I=%04x", snap.Delay, snap.Sound, snap.Index)
	} else {
		fmt.Fprintf(target, "  DT= %02x  ST= %02x  I= %04x", snap.Delay, snap.Sound, snap.Index)
	}

	return first.String(), second.String()
}

func (r *Renderer) drawRegisters(snap *chip8.MachineState) {
	l := r.layout
	firstRow, secondRow := l.RegisterLines()
	compact := firstRow == secondRow

	first, second := RegisterLines(snap, compact)

	moveTo(r.w, l.RegistersX, firstRow)
	r.w.WriteString(r.styles.Register.Render(first))

	if !compact {
		moveTo(r.w, l.RegistersX, secondRow)
		r.w.WriteString(r.styles.Register.Render(second))
	}
}
