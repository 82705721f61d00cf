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

package termui_test

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/lassandro/chipterm/pkg/chip8"
	"github.com/lassandro/chipterm/pkg/termui"
)

// screen interprets the cursor movement and clearing sequences the renderer
// emits and ignores every other escape sequence.
type screen struct {
	size  termui.Size
	cells [][]rune
	x, y  int
	clips int
}

func newScreen(size termui.Size) *screen {
	s := &screen{size: size}
	s.clear()
	return s
}

func (s *screen) clear() {
	s.cells = make([][]rune, s.size.Rows)

	for y := range s.cells {
		s.cells[y] = []rune(strings.Repeat(" ", s.size.Cols))
	}
}

func (s *screen) feed(t *testing.T, data []byte) {
	for len(data) > 0 {
		if data[0] == 0x1B && len(data) > 1 && data[1] == '[' {
			end := 2
			for end < len(data) && (data[end] < 0x40 || data[end] > 0x7E) {
				end++
			}

			if end == len(data) {
				t.Fatalf("Unterminated escape sequence %q", data)
			}

			params := string(data[2:end])

			switch data[end] {
			case 'H':
				parts := strings.Split(params, ";")
				row, _ := strconv.Atoi(parts[0])
				col, _ := strconv.Atoi(parts[1])
				s.x, s.y = col-1, row-1
			case 'J':
				if params == "2" {
					s.clear()
				}
			}

			data = data[end+1:]
			continue
		}

		r, size := utf8.DecodeRune(data)
		data = data[size:]

		if s.y < 0 || s.y >= s.size.Rows || s.x < 0 || s.x >= s.size.Cols {
			s.clips++
		} else {
			s.cells[s.y][s.x] = r
		}

		s.x++
	}
}

func (s *screen) row(y int) string {
	return string(s.cells[y])
}

func (s *screen) at(x, y int) rune {
	return s.cells[y][x]
}

func (s *screen) contains(text string) bool {
	for y := range s.cells {
		if strings.Contains(s.row(y), text) {
			return true
		}
	}

	return false
}

type testTerm struct {
	size   termui.Size
	out    bytes.Buffer
	screen *screen
}

func newTestTerm(cols, rows int) (*testTerm, *termui.Renderer) {
	tt := &testTerm{size: termui.Size{Cols: cols, Rows: rows}}
	tt.screen = newScreen(tt.size)

	styles := termui.NewStyles(lipgloss.NewRenderer(io.Discard))
	r := termui.NewRenderer(&tt.out, func() (termui.Size, error) {
		return tt.size, nil
	}, styles)

	return tt, r
}

func (tt *testTerm) resize(cols, rows int) {
	tt.size = termui.Size{Cols: cols, Rows: rows}
	tt.screen.size = tt.size
	tt.screen.clear()
}

func (tt *testTerm) draw(t *testing.T, r *termui.Renderer, snap *chip8.MachineState, display *chip8.Display) {
	tt.out.Reset()

	if err := r.Draw("label", snap, display); err != nil {
		t.Fatal(err)
	}

	tt.screen.feed(t, tt.out.Bytes())

	if tt.screen.clips > 0 {
		t.Fatalf("%d cells drawn outside a %dx%d terminal", tt.screen.clips, tt.size.Cols, tt.size.Rows)
	}
}

func testSnapshot() *chip8.MachineState {
	mc := chip8.New()
	mc.Load(chip8.ProgramStart, []byte{0x60, 0x01, 0xA2, 0x34, 0xF0, 0x0A})
	mc.State.Program = 0x202
	mc.State.Registers[0] = 0x01
	mc.State.Registers[0xA] = 0x5C
	mc.State.Delay = 0x3C
	mc.State.Index = 0x0234
	snap := mc.Snapshot()
	return &snap
}

func TestGlyph(t *testing.T) {
	testCases := []struct {
		top, bottom bool
		want        rune
	}{
		{false, false, ' '},
		{true, false, '▀'},
		{false, true, '▄'},
		{true, true, '█'},
	}

	for _, test := range testCases {
		if have := termui.Glyph(test.top, test.bottom); have != test.want {
			t.Errorf(
				"Glyph mismatch\nwant:%q (top:%t bottom:%t)\nhave:%q",
				test.want,
				test.top,
				test.bottom,
				have,
			)
		}
	}
}

func TestScreenRow(t *testing.T) {
	var d chip8.Display
	d.Set(0, 0, true)
	d.Set(1, 1, true)
	d.Set(2, 0, true)
	d.Set(2, 1, true)
	d.Set(127, 3, true)

	first := []rune(termui.ScreenRow(&d, 0))

	if len(first) != 128 {
		t.Fatalf("Row width mismatch\nwant:128\nhave:%d", len(first))
	}

	if string(first[:4]) != "▀▄█ " {
		t.Errorf("Row mismatch\nwant:%q\nhave:%q", "▀▄█ ", string(first[:4]))
	}

	if second := []rune(termui.ScreenRow(&d, 1)); second[127] != '▄' {
		t.Errorf("Last cell mismatch\nwant:'▄'\nhave:%q", second[127])
	}
}

func TestFingerprint(t *testing.T) {
	// 0xF0 on top, 0x0F below
	if have := termui.Fingerprint(0xF00F); have != "▀▀▀▀▄▄▄▄" {
		t.Errorf("Fingerprint mismatch\nwant:%q\nhave:%q", "▀▀▀▀▄▄▄▄", have)
	}

	if have := termui.Fingerprint(0xFF00); have != "▀▀▀▀▀▀▀▀" {
		t.Errorf("Fingerprint mismatch\nwant:%q\nhave:%q", "▀▀▀▀▀▀▀▀", have)
	}
}

func TestMemoryWindow(t *testing.T) {
	for _, rows := range []int{termui.MinRows, 37, 50, 81} {
		l := termui.NewLayout(termui.Size{Cols: termui.MinCols, Rows: rows})

		for _, pc := range []uint16{0x200, 0x202, 0x3FF, 0xFFE} {
			start, current := l.MemoryWindow(pc)

			if current != l.MemoryRows/2 {
				t.Errorf(
					"Current row mismatch\nwant:%d (rows:%d pc:%#03x)\nhave:%d",
					l.MemoryRows/2,
					rows,
					pc,
					current,
				)
			}

			if addr := start + current*2; addr != int(pc) {
				t.Errorf(
					"Highlighted address mismatch\nwant:%#03x\nhave:%#03x",
					pc,
					addr,
				)
			}
		}
	}

	// Near zero the window is clamped instead of wrapping
	l := termui.NewLayout(termui.Size{Cols: termui.MinCols, Rows: 40})
	start, current := l.MemoryWindow(0x4)

	if start != 0 || current != 2 {
		t.Errorf("Clamped window mismatch\nwant:0, 2\nhave:%d, %d", start, current)
	}
}

func TestMemoryEntry(t *testing.T) {
	memory := make([]byte, chip8.MemorySize)
	memory[0x200] = 0x60
	memory[0x201] = 0x01

	if have := termui.MemoryEntry(memory, 0x200, 12); have != " 200 6001   " {
		t.Errorf("Entry mismatch\nwant:%q\nhave:%q", " 200 6001   ", have)
	}

	want := " 200 6001  ▀▀    ▄   "
	if have := termui.MemoryEntry(memory, 0x200, 21); have != want {
		t.Errorf("Entry mismatch\nwant:%q\nhave:%q", want, have)
	}

	if have := termui.MemoryEntry(memory, chip8.MemorySize, 6); have != "      " {
		t.Errorf("Entry past memory should be blank, have:%q", have)
	}
}

func TestRegisterLines(t *testing.T) {
	snap := testSnapshot()

	first, second := termui.RegisterLines(snap, false)

	if !strings.HasPrefix(first, "  V0= 01  V1= 00") || strings.Contains(first, "V9") {
		t.Errorf("First register line mismatch: %q", first)
	}

	if !strings.HasPrefix(second, "  V9= 00  VA= 5c") ||
		!strings.HasSuffix(second, "  DT= 3c  ST= 00  I= 0234") {
		t.Errorf("Second register line mismatch: %q", second)
	}

	compact, _ := termui.RegisterLines(snap, true)

	if len(compact) > 128 || !strings.HasSuffix(compact, " DT=3c ST=00 I=0234") {
		t.Errorf("Compact register line mismatch: %q", compact)
	}
}

func TestRegisterSpacing(t *testing.T) {
	testCases := []struct {
		rows          int
		first, second int
	}{
		{36, 34, 34},
		{37, 34, 35},
		{40, 35, 37},
		{45, 36, 41},
	}

	for _, test := range testCases {
		l := termui.NewLayout(termui.Size{Cols: termui.MinCols, Rows: test.rows})
		first, second := l.RegisterLines()

		if first != test.first || second != test.second {
			t.Errorf(
				"Register rows mismatch (terminal rows:%d)\nwant:%d, %d\nhave:%d, %d",
				test.rows,
				test.first,
				test.second,
				first,
				second,
			)
		}

		if second > test.rows-2 {
			t.Errorf("Register row %d overlaps the border", second)
		}
	}
}

func TestDraw(t *testing.T) {
	tt, r := newTestTerm(termui.MinCols, termui.MinRows)
	snap := testSnapshot()

	var d chip8.Display
	d.Set(0, 0, true)
	d.Set(0, 1, true)

	tt.draw(t, r, snap, &d)

	l := r.Layout()
	s := tt.screen

	if s.at(0, 0) != '┌' || s.at(termui.MinCols-1, termui.MinRows-1) != '┘' {
		t.Error("Border corners missing")
	}

	if s.at(l.DividerX, 0) != '╥' || s.at(l.DividerX, 10) != '║' || s.at(0, l.DividerY) != '╞' {
		t.Error("Panel dividers missing")
	}

	if s.at(1, 1) != '█' {
		t.Errorf("Display cell mismatch\nwant:'█'\nhave:%q", s.at(1, 1))
	}

	if !strings.Contains(s.row(0), " label ") {
		t.Errorf("Label missing from the top border: %q", s.row(0))
	}

	// The program counter is on the middle memory row
	_, current := l.MemoryWindow(snap.Program)
	entry := string(s.cells[l.MemoryY+current][l.MemoryX : l.MemoryX+l.MemoryCols])

	if !strings.HasPrefix(entry, " 202 a234") {
		t.Errorf("Current memory entry mismatch\nwant:%q\nhave:%q", " 202 a234", entry)
	}

	if !s.contains(" V0=01") || !s.contains("I=0234") {
		t.Error("Register panel missing")
	}

	if s.contains(termui.TooSmallMessage) {
		t.Error("Size warning drawn on a large enough terminal")
	}
}

func TestDrawTooSmall(t *testing.T) {
	for _, size := range [][2]int{{142, 36}, {143, 35}, {80, 24}} {
		tt, r := newTestTerm(size[0], size[1])

		var d chip8.Display
		d.Set(0, 0, true)

		tt.draw(t, r, testSnapshot(), &d)

		if !strings.HasPrefix(tt.screen.row(0), termui.TooSmallMessage[:size[0]/2]) {
			t.Errorf("Size warning missing at %dx%d", size[0], size[1])
		}

		for y := 0; y < size[1]; y++ {
			row := tt.screen.row(y)

			if y == 0 {
				row = strings.TrimPrefix(row, termui.TooSmallMessage)
			}

			if strings.TrimSpace(row) != "" {
				t.Errorf("Panel output on a %dx%d terminal: row %d is %q", size[0], size[1], y, row)
				break
			}
		}

		// Nothing more is written until the size changes
		tt.out.Reset()

		if err := r.Draw("label", testSnapshot(), &d); err != nil {
			t.Fatal(err)
		}

		if tt.out.Len() != 0 {
			t.Errorf("Unexpected output on a too small terminal: %q", tt.out.String())
		}
	}
}

func TestLayoutRecompute(t *testing.T) {
	tt, r := newTestTerm(150, 40)
	snap := testSnapshot()

	tt.draw(t, r, snap, nil)
	tt.draw(t, r, snap, nil)
	tt.draw(t, r, snap, nil)

	if r.Layouts() != 1 {
		t.Errorf("Layout recomputed without a resize\nwant:1\nhave:%d", r.Layouts())
	}

	if bytes.Contains(tt.out.Bytes(), []byte("\033[2J")) {
		t.Error("Screen cleared without a resize")
	}

	tt.resize(160, 45)
	tt.draw(t, r, snap, nil)

	if r.Layouts() != 2 {
		t.Errorf("Layout not recomputed after a resize\nwant:2\nhave:%d", r.Layouts())
	}

	if have := r.Layout().Size; have != (termui.Size{Cols: 160, Rows: 45}) {
		t.Errorf("Layout size mismatch\nwant:160x45\nhave:%dx%d", have.Cols, have.Rows)
	}

	if tt.screen.at(159, 44) != '┘' {
		t.Error("Frame not redrawn after a resize")
	}
}

func TestDisplayRedrawnAfterResize(t *testing.T) {
	tt, r := newTestTerm(termui.MinCols, termui.MinRows)
	snap := testSnapshot()

	var d chip8.Display
	d.Set(5, 2, true)

	tt.draw(t, r, snap, &d)
	tt.draw(t, r, snap, nil)

	// Shrinking below the minimum and growing back must restore the display
	// even though the machine never marks it dirty again.
	tt.resize(100, 30)
	tt.draw(t, r, snap, nil)

	tt.resize(termui.MinCols+10, termui.MinRows+4)
	tt.draw(t, r, snap, nil)

	if have := tt.screen.at(6, 2); have != '▀' {
		t.Errorf("Display not redrawn after resize\nwant:'▀'\nhave:%q", have)
	}
}
