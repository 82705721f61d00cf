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

// Package scheduler runs a machine's execution, timer and render loops at
// independent rates. The loops share the machine through a single mutex
// which is never held across sleeping, drawing or audio calls.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lassandro/chipterm/pkg/chip8"
	"github.com/lassandro/chipterm/pkg/pacer"
)

type Scheduler struct {
	mu      sync.Mutex
	machine Machine

	keys  KeyProbe
	audio AudioSink

	execution pacer.Loop
	timers    pacer.Loop
	render    pacer.Loop
}

func New(machine Machine, rates TargetRates, opts ...Option) *Scheduler {
	s := &Scheduler{machine: machine}

	s.execution = pacer.Loop{Name: "execution", Rate: rates.Execution}
	s.timers = pacer.Loop{Name: "timers", Rate: rates.Timers}
	s.render = pacer.Loop{Name: "render", Rate: rates.Render}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Scheduler) Measured() MeasuredRates {
	return MeasuredRates{
		Execution: s.execution.Measured(),
		Timers:    s.timers.Measured(),
		Render:    s.render.Measured(),
	}
}

func (s *Scheduler) ExecutionTicks() uint64 {
	return s.execution.Ticks()
}

// Label is the status line drawn above the display.
func (s *Scheduler) Label() string {
	rates := s.Measured()

	return fmt.Sprintf(
		"%6.1f cycles per second; %5.1f timer ticks; %5.1f frames per second drawn",
		rates.Execution,
		rates.Timers,
		rates.Render,
	)
}

// Run drives the three loops until ctx is done or one of them stops. The
// first loop to stop, for any reason, stops the others. It returns the
// first error, which is chip8.ErrExit when the program exits by itself.
func (s *Scheduler) Run(ctx context.Context, ui Drawer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, gctx := errgroup.WithContext(ctx)

	// Handlers go in before the first execution tick.
	s.installKeyHandlers(gctx)

	s.execution.Body = s.executionTick
	s.timers.Body = s.timersTick
	s.render.Body = func(ctx context.Context) error {
		return s.renderTick(ui)
	}

	for _, loop := range []*pacer.Loop{&s.execution, &s.timers, &s.render} {
		loop := loop

		group.Go(func() error {
			defer cancel()

			err := loop.Run(gctx)

			if cause := errors.Cause(err); cause == context.Canceled ||
				cause == context.DeadlineExceeded {
				// Aborted key wait during shutdown
				return nil
			}

			return errors.WithMessage(err, loop.Name)
		})
	}

	err := group.Wait()

	if s.audio != nil {
		s.audio.Pause()
	}

	return err
}

func (s *Scheduler) installKeyHandlers(ctx context.Context) {
	if s.keys == nil {
		return
	}

	keys := s.keys

	// The wait handler only ever runs inside executionTick, which holds the
	// lock. It is released for the duration of the wait so the other loops
	// keep running.
	s.machine.SetKeyHandlers(
		keys.IsPressed,
		func() (uint8, error) {
			s.mu.Unlock()
			defer s.mu.Lock()

			return keys.WaitForKey(ctx)
		},
	)
}

func (s *Scheduler) executionTick(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.machine.ExecutionTick()
}

func (s *Scheduler) timersTick(ctx context.Context) error {
	sound := s.tickTimers()

	if s.audio == nil {
		return nil
	}

	if sound {
		s.audio.Play()
	} else {
		s.audio.Pause()
	}

	return nil
}

func (s *Scheduler) tickTimers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.machine.TimerTick()
	return s.machine.SoundActive()
}

func (s *Scheduler) renderTick(ui Drawer) error {
	snap, display := s.snapshot()
	return ui.Draw(s.Label(), &snap, display)
}

// snapshot copies the machine state, and the display only when it changed.
func (s *Scheduler) snapshot() (chip8.MachineState, *chip8.Display) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.machine.Snapshot()

	if !s.machine.DisplayDirty() {
		return snap, nil
	}

	frame := s.machine.ReadDisplay()
	return snap, &frame
}
