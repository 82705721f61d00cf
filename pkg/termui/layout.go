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
	"github.com/lassandro/chipterm/pkg/chip8"
)

const (
	MinCols = 143
	MinRows = 36

	// Display cells: one column per pixel, one row per pixel pair.
	screenCols = chip8.DisplayWidth
	screenRows = chip8.DisplayHeight / 2

	// Memory entries step over whole instructions.
	entryBytes = 2
)

type Size struct {
	Cols int
	Rows int
}

func (s Size) Fits() bool {
	return s.Cols >= MinCols && s.Rows >= MinRows
}

// Layout places every region for one terminal size. All coordinates are
// 0-based cells.
type Layout struct {
	Size Size

	ScreenX int
	ScreenY int

	// Vertical divider between the display and the memory panel, and the
	// horizontal divider between the display and the register panel.
	DividerX int
	DividerY int

	MemoryX    int
	MemoryY    int
	MemoryCols int
	MemoryRows int

	RegistersX   int
	RegistersY   int
	RegisterRows int
}

func NewLayout(size Size) Layout {
	l := Layout{
		Size:     size,
		ScreenX:  1,
		ScreenY:  1,
		DividerX: 1 + screenCols,
		DividerY: 1 + screenRows,
	}

	l.MemoryX = l.DividerX + 1
	l.MemoryY = 1
	l.MemoryCols = size.Cols - 1 - l.MemoryX
	l.MemoryRows = size.Rows - 2

	l.RegistersX = 1
	l.RegistersY = l.DividerY + 1
	l.RegisterRows = size.Rows - 1 - l.RegistersY

	return l
}

// MemoryWindow returns the address shown on the first memory panel row and
// the row that holds pc. Entries are centered on pc unless that would start
// the window below address zero.
func (l Layout) MemoryWindow(pc uint16) (start int, current int) {
	center := l.MemoryRows / 2
	start = int(pc) - center*entryBytes

	if start < 0 {
		start = int(pc) % entryBytes
	}

	return start, (int(pc) - start) / entryBytes
}

// RegisterLines returns the panel rows used for the two register lines.
// With room for a single line both are the same row.
func (l Layout) RegisterLines() (first int, second int) {
	if l.RegisterRows < 2 {
		return l.RegistersY, l.RegistersY
	}

	free := l.RegisterRows - 2
	spacing := free / 3
	middle := free - spacing*2

	first = l.RegistersY + spacing
	second = first + 1 + middle

	return first, second
}
