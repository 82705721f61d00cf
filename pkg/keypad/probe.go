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
	"context"
)

// Probe answers the two keypad questions a machine asks, in terms of
// keypad codes.
type Probe struct {
	keys    *KeyMap
	state   *State
	presses <-chan Key
}

func NewProbe(keys *KeyMap, state *State, presses <-chan Key) *Probe {
	return &Probe{keys: keys, state: state, presses: presses}
}

// IsPressed reports whether the key bound to code is held. It never blocks.
func (p *Probe) IsPressed(code uint8) bool {
	key, ok := p.keys.Key(code)

	if !ok {
		return false
	}

	return p.state.Held(key)
}

// WaitForKey blocks until a mapped key is pressed and returns its code.
// Presses queued before the call are discarded and unmapped keys are
// ignored. It returns ctx.Err() if ctx is done first.
func (p *Probe) WaitForKey(ctx context.Context) (uint8, error) {
	for drained := false; !drained; {
		select {
		case <-p.presses:
		default:
			drained = true
		}
	}

	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()

		case key, ok := <-p.presses:
			if !ok {
				<-ctx.Done()
				return 0, ctx.Err()
			}

			if code, mapped := p.keys.Code(key); mapped {
				return code, nil
			}
		}
	}
}
