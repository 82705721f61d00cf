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

package scheduler

import (
	"context"

	"github.com/lassandro/chipterm/pkg/chip8"
)

// Machine is the part of the core the scheduler drives. None of its methods
// are expected to be safe for concurrent use.
type Machine interface {
	ExecutionTick() error
	TimerTick()
	SoundActive() bool
	Snapshot() chip8.MachineState
	DisplayDirty() bool
	ReadDisplay() chip8.Display
	SetKeyHandlers(poll chip8.KeyPollFunc, wait chip8.KeyWaitFunc)
}

type KeyProbe interface {
	IsPressed(code uint8) bool
	WaitForKey(ctx context.Context) (uint8, error)
}

type AudioSink interface {
	Play()
	Pause()
}

// Drawer renders one frame. display is nil when the screen has not changed
// since the previous frame.
type Drawer interface {
	Draw(label string, snap *chip8.MachineState, display *chip8.Display) error
}

// TargetRates are in ticks per second; zero runs a loop unthrottled.
type TargetRates struct {
	Execution uint32
	Timers    uint32
	Render    uint32
}

type MeasuredRates struct {
	Execution float64
	Timers    float64
	Render    float64
}

type Option func(*Scheduler)

func WithKeys(keys KeyProbe) Option {
	return func(s *Scheduler) { s.keys = keys }
}

func WithAudio(sink AudioSink) Option {
	return func(s *Scheduler) { s.audio = sink }
}

// WithExecutionLimit stops the scheduler after n execution ticks.
func WithExecutionLimit(n uint64) Option {
	return func(s *Scheduler) { s.execution.Limit = n }
}
