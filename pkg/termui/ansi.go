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
	"io"
)

const (
	enterAltScreen = "\033[?1049h"
	leaveAltScreen = "\033[?1049l"
	hideCursor     = "\033[?25l"
	showCursor     = "\033[?25h"
	resetStyle     = "\033[0m"
	clearScreen    = "\033[2J"
)

// moveTo positions the cursor at a 0-based cell.
func moveTo(w io.Writer, x, y int) {
	fmt.Fprintf(w, "\033[%d;%dH", y+1, x+1)
}
