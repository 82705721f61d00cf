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
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/lassandro/chipterm/pkg/audio"
	"github.com/lassandro/chipterm/pkg/chip8"
	"github.com/lassandro/chipterm/pkg/encoding"
	"github.com/lassandro/chipterm/pkg/keypad"
	"github.com/lassandro/chipterm/pkg/scheduler"
)

const usage = "chipterm [flags] <rom>"

type config struct {
	Rates   scheduler.TargetRates
	Tone    int
	Mute    bool
	Hold    time.Duration
	Debug   bool
	LogFile string

	Path        string
	ROM         []byte
	Breakpoints []uint16

	breaks []string
}

func newCommand(run func(cfg *config)) *cobra.Command {
	var cfg config

	cmd := &cobra.Command{
		Use:   usage,
		Short: "run a CHIP-8 program in the terminal",
		Long: "Runs a CHIP-8 or SUPER-CHIP program with its screen, memory " +
			"and registers drawn in the terminal.\n\n" +
			"Keypad:  1 2 3 4 / q w e r / a s d f / z x c v\n" +
			"Quit:    Ctrl-C",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.load(args[0]); err != nil {
				return err
			}

			run(&cfg)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Uint32VarP(&cfg.Rates.Execution, "cpu", "c", 500, "instructions per second, 0 is unthrottled")
	flags.Uint32VarP(&cfg.Rates.Timers, "speed", "s", 60, "timer ticks per second, 0 is unthrottled")
	flags.Uint32VarP(&cfg.Rates.Render, "draw", "d", 60, "frames drawn per second, 0 is unthrottled")
	flags.IntVarP(&cfg.Tone, "tone", "t", audio.DefaultTone, "buzzer frequency in Hz")
	flags.BoolVar(&cfg.Mute, "mute", false, "disable the buzzer")
	flags.DurationVar(&cfg.Hold, "hold", keypad.DefaultHold, "how long a key counts as held after a keystroke")
	flags.BoolVar(&cfg.Debug, "debug", false, "trace executed instructions into the log file")
	flags.StringVar(&cfg.LogFile, "log", "chipterm.log", "debug log file")
	flags.StringArrayVarP(&cfg.breaks, "break", "b", nil, "stop when the program counter reaches this hex address")

	return cmd
}

// load checks the flag values and reads the program. Everything that can be
// wrong with the configuration is reported here, before the terminal is
// touched.
func (cfg *config) load(path string) error {
	if !cfg.Mute && cfg.Tone <= 0 {
		return errors.Errorf("invalid tone %d Hz", cfg.Tone)
	}

	if cfg.Hold <= 0 {
		return errors.Errorf("invalid hold time %v", cfg.Hold)
	}

	for _, s := range cfg.breaks {
		addr, err := parseAddress(s)

		if err != nil {
			return errors.Wrap(err, "break")
		}

		cfg.Breakpoints = append(cfg.Breakpoints, addr)
	}

	rom, err := readROM(path)

	if err != nil {
		return err
	}

	cfg.Path = path
	cfg.ROM = rom

	return nil
}

// parseAddress accepts the prefixed forms of encoding.DecodeHex as well as
// bare hex digits.
func parseAddress(s string) (uint16, error) {
	if !strings.HasPrefix(s, "$") && !strings.ContainsAny(s, "xX") {
		s = "0x" + s
	}

	addr, err := encoding.DecodeHex(s)

	if err != nil {
		return 0, err
	}

	if addr >= chip8.MemorySize {
		return 0, errors.Errorf("address %#03x is outside memory", addr)
	}

	return addr, nil
}

func readROM(path string) ([]byte, error) {
	rom, err := os.ReadFile(path)

	if err != nil {
		return nil, errors.Wrap(err, "read program")
	}

	if len(rom) > chip8.MaxProgramSize {
		return nil, errors.Wrapf(
			chip8.ErrProgramTooLarge,
			"%s is %d bytes, at most %d fit",
			path,
			len(rom),
			chip8.MaxProgramSize,
		)
	}

	return rom, nil
}
