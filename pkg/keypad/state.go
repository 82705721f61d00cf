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
	"sync"
	"time"
)

const DefaultHold = 200 * time.Millisecond

// State tracks which physical keys are held. Terminals only report key
// presses (and autorepeat), so a key counts as held for the hold window
// after the last byte it produced.
type State struct {
	mu      sync.Mutex
	hold    time.Duration
	now     func() time.Time
	pressed map[Key]time.Time
}

// NewState returns a State with the given hold window. A nil clock uses
// time.Now.
func NewState(hold time.Duration, now func() time.Time) *State {
	if hold <= 0 {
		hold = DefaultHold
	}

	if now == nil {
		now = time.Now
	}

	return &State{
		hold:    hold,
		now:     now,
		pressed: make(map[Key]time.Time),
	}
}

func (st *State) Press(key Key) {
	st.mu.Lock()
	st.pressed[NormalizeKey(rune(key))] = st.now()
	st.mu.Unlock()
}

func (st *State) Held(key Key) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	last, exists := st.pressed[NormalizeKey(rune(key))]

	if !exists {
		return false
	}

	return st.now().Sub(last) < st.hold
}

// Release forgets every key.
func (st *State) Release() {
	st.mu.Lock()
	st.pressed = make(map[Key]time.Time)
	st.mu.Unlock()
}
