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
	"strings"

	"github.com/lassandro/chipterm/pkg/chip8"
)

const (
	glyphEmpty  = ' '
	glyphTop    = '▀'
	glyphBottom = '▄'
	glyphFull   = '█'
)

// Glyph packs two vertically stacked pixels into one character cell.
func Glyph(top, bottom bool) rune {
	switch {
	case top && bottom:
		return glyphFull
	case top:
		return glyphTop
	case bottom:
		return glyphBottom
	default:
		return glyphEmpty
	}
}

// ScreenRow renders display scanlines 2*row and 2*row+1 as one line of
// text.
func ScreenRow(display *chip8.Display, row int) string {
	var sb strings.Builder
	sb.Grow(screenCols * 3)

	for x := 0; x < screenCols; x++ {
		sb.WriteRune(Glyph(display.Pixel(x, row*2), display.Pixel(x, row*2+1)))
	}

	return sb.String()
}

// Fingerprint draws an instruction word as an 8 by 2 pixel sprite: the
// first byte on top, the second below.
func Fingerprint(word uint16) string {
	var sb strings.Builder

	for i := 0; i < 8; i++ {
		top := word>>(15-uint(i))&1 == 1
		bottom := word>>(7-uint(i))&1 == 1
		sb.WriteRune(Glyph(top, bottom))
	}

	return sb.String()
}
