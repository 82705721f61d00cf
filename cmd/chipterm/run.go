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

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lassandro/chipterm/pkg/audio"
	"github.com/lassandro/chipterm/pkg/chip8"
	"github.com/lassandro/chipterm/pkg/debugger"
	"github.com/lassandro/chipterm/pkg/keypad"
	"github.com/lassandro/chipterm/pkg/scheduler"
	"github.com/lassandro/chipterm/pkg/termui"
)

// Instructions shown either side of the program counter when a breakpoint is
// hit.
const breakContext = 4

func run(cfg *config) int {
	var opts []chip8.Option
	var dbg *debugger.Debugger

	if cfg.Debug || len(cfg.Breakpoints) > 0 {
		dbg = &debugger.Debugger{}

		for _, addr := range cfg.Breakpoints {
			dbg.AddBreakpoint(addr)
		}

		if cfg.Debug {
			file, err := os.Create(cfg.LogFile)

			if err != nil {
				log.Println(err)
				return 1
			}

			defer file.Close()

			dbg.Trace = log.New(file, "", log.Lmicroseconds)
			dbg.Trace.Printf("loaded %s, %d bytes", cfg.Path, len(cfg.ROM))
		}

		opts = append(opts, chip8.WithDebugger(dbg))
	}

	mc := chip8.New(opts...)

	if err := mc.Load(chip8.ProgramStart, cfg.ROM); err != nil {
		log.Println(err)
		return 1
	}

	var schedOpts []scheduler.Option

	if !cfg.Mute {
		tone, err := audio.NewTone(cfg.Tone)

		if err != nil {
			log.Printf("%v, continuing without sound", err)
		} else {
			defer tone.Close()
			schedOpts = append(schedOpts, scheduler.WithAudio(tone))
		}
	}

	tty, err := termui.Open(os.Stdin, os.Stdout)

	if err != nil {
		log.Println(err)
		return 1
	}

	defer tty.Close()

	state := keypad.NewState(cfg.Hold, nil)
	reader := keypad.NewReader(int(tty.In().Fd()), state)
	probe := keypad.NewProbe(keypad.DefaultKeyMap(), state, reader.Presses())
	schedOpts = append(schedOpts, scheduler.WithKeys(probe))

	sched := scheduler.New(mc, cfg.Rates, schedOpts...)
	err = play(tty, sched, reader)

	// Reports go to the restored terminal
	if err := tty.Close(); err != nil {
		log.Println(err)
	}

	if dbg != nil && dbg.Trace != nil {
		dbg.Trace.Printf(
			"stopped after %d ticks, %d traced: %s",
			sched.ExecutionTicks(),
			dbg.Steps(),
			sched.Label(),
		)
	}

	switch {
	case err == nil:
		return 0

	case errors.Cause(err) == chip8.ErrExit:
		log.Println(chip8.ErrExit)
		return 0

	case errors.Cause(err) == debugger.ErrBreakpoint:
		log.Println(err)
		dumpState(os.Stdout, &mc.State)
		return 0

	default:
		log.Println(err)
		return 1
	}
}

// play runs the machine until it stops, the keyboard fails or the process is
// interrupted.
func play(tty *termui.Terminal, sched *scheduler.Scheduler, reader *keypad.Reader) error {
	ctx, stop := interruptContext()
	defer stop()

	styles := termui.NewStyles(lipgloss.NewRenderer(tty.Out()))
	ui := termui.NewRenderer(tty.Out(), tty.Size, styles)

	group, gctx := errgroup.WithContext(ctx)
	gctx, cancel := context.WithCancel(gctx)
	defer cancel()

	group.Go(func() error {
		defer cancel()
		return sched.Run(gctx, ui)
	})

	group.Go(func() (err error) {
		// The terminal is only restored if this goroutine returns
		defer func() {
			if r := recover(); r != nil {
				err = errors.Errorf("keyboard: %v", r)
			}
		}()

		return errors.Wrap(reader.Run(gctx), "keyboard")
	})

	return group.Wait()
}

// interruptContext is done on any signal the terminal can send while ISIG is
// set.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT,
	)
}

func dumpState(w io.Writer, state *chip8.MachineState) {
	debugger.PrintRegs(w, state)
	fmt.Fprintln(w)

	start := state.Program

	if start >= breakContext*2 {
		start -= breakContext * 2
	} else {
		start %= 2
	}

	debugger.PrintMem(w, state, start, breakContext*2+1)
}
