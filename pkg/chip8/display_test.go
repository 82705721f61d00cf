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

package chip8_test

import (
	"testing"

	"github.com/lassandro/chipterm/pkg/chip8"
)

func TestDisplayPixel(t *testing.T) {
	var d chip8.Display

	for _, x := range []int{0, 63, 64, 127} {
		d.Set(x, 5, true)

		if !d.Pixel(x, 5) {
			t.Errorf("pixel (%d, 5) not set", x)
		}
	}

	if d[5][0] != 0x8000000000000001 || d[5][1] != 0x8000000000000001 {
		t.Errorf("row words mismatch: %#016x %#016x", d[5][0], d[5][1])
	}

	if was := d.Toggle(0, 5); !was || d.Pixel(0, 5) {
		t.Error("toggle of a lit pixel should report it and clear it")
	}

	// Out of range access is ignored
	d.Set(128, 0, true)
	d.Set(0, 64, true)

	if d.Pixel(128, 0) || d.Pixel(-1, 0) {
		t.Error("out of range pixel reported lit")
	}
}

func TestDisplayScroll(t *testing.T) {
	var d chip8.Display
	d.Set(62, 0, true)

	d.ScrollRight(4)
	if !d.Pixel(66, 0) || d.Pixel(62, 0) {
		t.Error("scroll right did not carry across the word boundary")
	}

	d.ScrollLeft(4)
	if !d.Pixel(62, 0) || d.Pixel(66, 0) {
		t.Error("scroll left did not carry back")
	}

	d.ScrollDown(3)
	if !d.Pixel(62, 3) || d.Pixel(62, 0) {
		t.Error("scroll down mismatch")
	}
}

func TestDraw(t *testing.T) {
	mc := chip8.New()

	// Sprite 0x80: one pixel at the top left of the sprite
	mc.State.Memory[0x300] = 0x80
	mc.State.Index = 0x300
	mc.State.Registers[0] = 1
	mc.State.Registers[1] = 2

	if err := mc.Load(chip8.ProgramStart, []byte{0xD0, 0x11, 0xD0, 0x11, 0x00, 0xFF, 0xD0, 0x11}); err != nil {
		t.Fatal(err)
	}

	mc.ReadDisplay()

	// Low resolution draws 2x2 blocks
	if err := mc.ExecutionTick(); err != nil {
		t.Fatal(err)
	}

	if !mc.DisplayDirty() {
		t.Error("draw did not mark the display dirty")
	}

	d := mc.ReadDisplay()
	for _, p := range [][2]int{{2, 4}, {3, 4}, {2, 5}, {3, 5}} {
		if !d.Pixel(p[0], p[1]) {
			t.Errorf("pixel %v not lit", p)
		}
	}

	if mc.State.Registers[0xF] != 0 {
		t.Error("unexpected collision")
	}

	if mc.DisplayDirty() {
		t.Error("reading the display did not clear the dirty flag")
	}

	// Same sprite again erases it and reports a collision
	if err := mc.ExecutionTick(); err != nil {
		t.Fatal(err)
	}

	if mc.State.Registers[0xF] != 1 || mc.State.Display.Pixel(2, 4) {
		t.Error("second draw should erase and collide")
	}

	// High resolution draws single pixels
	mc.ExecutionTick()
	mc.ExecutionTick()

	if !mc.State.Display.Pixel(1, 2) || mc.State.Display.Pixel(2, 2) || mc.State.Display.Pixel(1, 3) {
		t.Error("high resolution draw mismatch")
	}
}
