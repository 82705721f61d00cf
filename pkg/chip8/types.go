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

package chip8

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
)

// KeyPollFunc reports whether the key with the given code (0x0-0xF) is held.
type KeyPollFunc func(code uint8) bool

// KeyWaitFunc blocks until a key is pressed and returns its code. A non-nil
// error aborts the instruction that asked for the key.
type KeyWaitFunc func() (uint8, error)

// MachineState is everything observable about the machine. It is a plain
// value: copying it yields an independent snapshot.
type MachineState struct {
	Registers    [RegisterSize]uint8
	Program      uint16
	Index        uint16
	Delay        uint8
	Sound        uint8
	Stack        [StackSize]uint16
	StackPointer uint8
	HighRes      bool
	Memory       [MemorySize]byte
	Display      Display
}

// MachineDebugger is consulted before every instruction. Returning an error
// stops execution before the instruction runs.
type MachineDebugger interface {
	Step(addr uint16, instruction uint16) error
}

type Machine struct {
	State    MachineState
	Debugger MachineDebugger

	flags [FlagCount]uint8
	dirty bool
	poll  KeyPollFunc
	wait  KeyWaitFunc
	rand  *rand.Rand
}

type Option func(*Machine)

func WithRand(r *rand.Rand) Option {
	return func(mc *Machine) { mc.rand = r }
}

func WithDebugger(dbg MachineDebugger) Option {
	return func(mc *Machine) { mc.Debugger = dbg }
}

var (
	ErrExit            = errors.New("program exited")
	ErrStackOverflow   = errors.New("stack overflow")
	ErrStackUnderflow  = errors.New("stack underflow")
	ErrProgramTooLarge = errors.New("program too large")
	ErrNoKeyHandler    = errors.New("no key wait handler installed")
)

// OpcodeError reports an instruction the core cannot execute.
type OpcodeError struct {
	Addr   uint16
	Opcode uint16
}

func (e *OpcodeError) Error() string {
	return fmt.Sprintf("illegal opcode %#04x at %#03x", e.Opcode, e.Addr)
}
