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

package chip8

// Row holds one 128 pixel scanline. Pixel x is bit 63-(x%64) of word x/64.
type Row [2]uint64

type Display [DisplayHeight]Row

func (d *Display) Pixel(x, y int) bool {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return false
	}

	return (d[y][x/64]>>(63-uint(x%64)))&1 == 1
}

func (d *Display) Set(x, y int, on bool) {
	if x < 0 || x >= DisplayWidth || y < 0 || y >= DisplayHeight {
		return
	}

	mask := uint64(1) << (63 - uint(x%64))

	if on {
		d[y][x/64] |= mask
	} else {
		d[y][x/64] &^= mask
	}
}

// Toggle flips a pixel and reports whether it was lit before.
func (d *Display) Toggle(x, y int) bool {
	was := d.Pixel(x, y)
	d.Set(x, y, !was)
	return was
}

func (d *Display) Clear() {
	*d = Display{}
}

func (d *Display) ScrollDown(n int) {
	if n <= 0 {
		return
	}

	for y := DisplayHeight - 1; y >= 0; y-- {
		if y-n >= 0 {
			d[y] = d[y-n]
		} else {
			d[y] = Row{}
		}
	}
}

func (d *Display) ScrollRight(n int) {
	if n <= 0 || n >= 64 {
		return
	}

	for y := range d {
		hi, lo := d[y][0], d[y][1]
		d[y][0] = hi >> n
		d[y][1] = lo>>n | hi<<(64-n)
	}
}

func (d *Display) ScrollLeft(n int) {
	if n <= 0 || n >= 64 {
		return
	}

	for y := range d {
		hi, lo := d[y][0], d[y][1]
		d[y][0] = hi<<n | lo>>(64-n)
		d[y][1] = lo << n
	}
}
