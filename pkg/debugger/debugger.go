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

package debugger

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/lassandro/chipterm/pkg/chip8"
	"github.com/lassandro/chipterm/pkg/encoding"
)

// AddBreakpoint reports whether addr was not already a breakpoint.
func (dbg *Debugger) AddBreakpoint(addr uint16) bool {
	for _, breakpoint := range dbg.Breakpoints {
		if breakpoint.Addr == addr {
			return false
		}
	}

	dbg.Breakpoints = append(dbg.Breakpoints, Breakpoint{addr})
	return true
}

// Steps is the number of instructions let through.
func (dbg *Debugger) Steps() uint64 {
	return dbg.steps
}

func (dbg *Debugger) Step(addr uint16, instruction uint16) error {
	for _, breakpoint := range dbg.Breakpoints {
		if addr == breakpoint.Addr {
			if dbg.Trace != nil {
				dbg.Trace.Printf("[%#03x] breakpoint after %d steps", addr, dbg.steps)
			}

			return errors.Wrapf(ErrBreakpoint, "[%#03x]", addr)
		}
	}

	if dbg.Trace != nil {
		dbg.Trace.Printf(
			"[%#03x] %04x  %s", addr, instruction, Disassemble(instruction),
		)
	}

	dbg.steps++
	return nil
}

// PrintRegs writes the register file, timers and stack.
func PrintRegs(w io.Writer, state *chip8.MachineState) {
	for i, register := range state.Registers {
		fmt.Fprintf(w, "V%X: %#02x\t", i, register)

		if i == len(state.Registers)/2-1 {
			fmt.Fprintln(w)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(
		w,
		"PC: %#03x\tI: %#03x\tDT: %#02x\tST: %#02x\tSP: %d\n",
		state.Program,
		state.Index,
		state.Delay,
		state.Sound,
		state.StackPointer,
	)

	for i := 0; i < int(state.StackPointer) && i < len(state.Stack); i++ {
		fmt.Fprintf(w, "#%02d: %#03x\n", i, state.Stack[i])
	}
}

// PrintMem writes count instructions starting at addr, one per line, with
// their disassembly.
func PrintMem(w io.Writer, state *chip8.MachineState, addr, count uint16) {
	for i := uint16(0); i < count; i++ {
		at := int(addr) + int(i)*2

		if at >= len(state.Memory) {
			break
		}

		word := encoding.Word(state.Memory[:], at)
		marker := " "

		if at == int(state.Program) {
			marker = ">"
		}

		fmt.Fprintf(w, "%s[%#03x] %04x  %s\n", marker, at, word, Disassemble(word))
	}
}
