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
	"math/rand"
	"time"

	"github.com/pkg/errors"

	"github.com/lassandro/chipterm/pkg/encoding"
)

func New(opts ...Option) *Machine {
	mc := &Machine{}

	for _, opt := range opts {
		opt(mc)
	}

	if mc.rand == nil {
		mc.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	mc.Reset()

	return mc
}

func (mc *Machine) Reset() {
	mc.State = MachineState{}
	mc.flags = [FlagCount]uint8{}

	copy(mc.State.Memory[MEMSPACE_SMALL_FONT:], smallFont[:])
	copy(mc.State.Memory[MEMSPACE_LARGE_FONT:], largeFont[:])

	mc.State.Program = ProgramStart
	mc.dirty = true
}

func (mc *Machine) Load(addr uint16, program []byte) error {
	if int(addr)+len(program) > MemorySize {
		return errors.Wrapf(
			ErrProgramTooLarge,
			"got %d bytes at %#03x, free memory is only %d bytes",
			len(program),
			addr,
			MemorySize-int(addr),
		)
	}

	copy(mc.State.Memory[addr:], program)
	mc.State.Program = addr

	return nil
}

// SetKeyHandlers installs the functions the keypad opcodes call. They run
// synchronously inside ExecutionTick.
func (mc *Machine) SetKeyHandlers(poll KeyPollFunc, wait KeyWaitFunc) {
	mc.poll = poll
	mc.wait = wait
}

func (mc *Machine) TimerTick() {
	if mc.State.Delay > 0 {
		mc.State.Delay--
	}

	if mc.State.Sound > 0 {
		mc.State.Sound--
	}
}

func (mc *Machine) SoundActive() bool {
	return mc.State.Sound > 0
}

func (mc *Machine) Snapshot() MachineState {
	return mc.State
}

func (mc *Machine) DisplayDirty() bool {
	return mc.dirty
}

// ReadDisplay returns a copy of the display and clears the dirty flag.
func (mc *Machine) ReadDisplay() Display {
	mc.dirty = false
	return mc.State.Display
}

func (mc *Machine) read(addr int) byte {
	return mc.State.Memory[addr&(MemorySize-1)]
}

func (mc *Machine) write(addr int, value byte) {
	mc.State.Memory[addr&(MemorySize-1)] = value
}

func (mc *Machine) keyHeld(code uint8) bool {
	if mc.poll == nil {
		return false
	}

	return mc.poll(code & 0xF)
}

// ExecutionTick decodes and executes one instruction. On error the program
// counter is left on the failing instruction.
func (mc *Machine) ExecutionTick() error {
	addr := mc.State.Program
	instruction := encoding.Word(mc.State.Memory[:], int(addr))

	if mc.Debugger != nil {
		if err := mc.Debugger.Step(addr, instruction); err != nil {
			return err
		}
	}

	mc.State.Program += 2

	if err := mc.execute(addr, instruction); err != nil {
		mc.State.Program = addr
		return err
	}

	return nil
}

func (mc *Machine) execute(addr, instruction uint16) error {
	s := &mc.State
	x := encoding.X(instruction)
	y := encoding.Y(instruction)
	n := encoding.N(instruction)
	kk := encoding.KK(instruction)
	nnn := encoding.NNN(instruction)

	illegal := &OpcodeError{Addr: addr, Opcode: instruction}

	switch encoding.Op(instruction) {
	case OP_SYS:
		switch {
		// CLS
		case instruction == 0x00E0:
			s.Display.Clear()
			mc.dirty = true

		// RET
		case instruction == 0x00EE:
			if s.StackPointer == 0 {
				return ErrStackUnderflow
			}

			s.StackPointer--
			s.Program = s.Stack[s.StackPointer]

		// SCD n
		case instruction&0xFFF0 == 0x00C0:
			s.Display.ScrollDown(int(n))
			mc.dirty = true

		// SCR
		case instruction == 0x00FB:
			s.Display.ScrollRight(4)
			mc.dirty = true

		// SCL
		case instruction == 0x00FC:
			s.Display.ScrollLeft(4)
			mc.dirty = true

		// EXIT
		case instruction == 0x00FD:
			return ErrExit

		// LOW
		case instruction == 0x00FE:
			s.HighRes = false

		// HIGH
		case instruction == 0x00FF:
			s.HighRes = true

		default:
			return illegal
		}

	// JP addr
	case OP_JP:
		s.Program = nnn

	// CALL addr
	case OP_CALL:
		if int(s.StackPointer) >= StackSize {
			return ErrStackOverflow
		}

		s.Stack[s.StackPointer] = s.Program
		s.StackPointer++
		s.Program = nnn

	// SE Vx, byte
	case OP_SE:
		if s.Registers[x] == kk {
			s.Program += 2
		}

	// SNE Vx, byte
	case OP_SNE:
		if s.Registers[x] != kk {
			s.Program += 2
		}

	// SE Vx, Vy
	case OP_SEV:
		if n != 0 {
			return illegal
		}

		if s.Registers[x] == s.Registers[y] {
			s.Program += 2
		}

	// LD Vx, byte
	case OP_LD:
		s.Registers[x] = kk

	// ADD Vx, byte
	case OP_ADD:
		s.Registers[x] += kk

	case OP_ALU:
		return mc.alu(x, y, n, illegal)

	// SNE Vx, Vy
	case OP_SNEV:
		if n != 0 {
			return illegal
		}

		if s.Registers[x] != s.Registers[y] {
			s.Program += 2
		}

	// LD I, addr
	case OP_LDI:
		s.Index = nnn

	// JP V0, addr
	case OP_JPV:
		s.Program = nnn + uint16(s.Registers[0])

	// RND Vx, byte
	case OP_RND:
		s.Registers[x] = uint8(mc.rand.Intn(256)) & kk

	// DRW Vx, Vy, nibble
	case OP_DRW:
		mc.draw(s.Registers[x], s.Registers[y], n)

	case OP_KEY:
		switch kk {
		// SKP Vx
		case 0x9E:
			if mc.keyHeld(s.Registers[x]) {
				s.Program += 2
			}

		// SKNP Vx
		case 0xA1:
			if !mc.keyHeld(s.Registers[x]) {
				s.Program += 2
			}

		default:
			return illegal
		}

	case OP_MISC:
		return mc.misc(x, kk, illegal)
	}

	return nil
}

func (mc *Machine) alu(x, y, n uint8, illegal error) error {
	v := &mc.State.Registers

	switch n {
	// LD Vx, Vy
	case 0x0:
		v[x] = v[y]

	// OR Vx, Vy
	case 0x1:
		v[x] |= v[y]

	// AND Vx, Vy
	case 0x2:
		v[x] &= v[y]

	// XOR Vx, Vy
	case 0x3:
		v[x] ^= v[y]

	// ADD Vx, Vy
	case 0x4:
		sum := uint16(v[x]) + uint16(v[y])
		v[x] = uint8(sum)
		v[0xF] = uint8(sum >> 8)

	// SUB Vx, Vy
	case 0x5:
		borrow := v[x] >= v[y]
		v[x] -= v[y]
		v[0xF] = flag(borrow)

	// SHR Vx
	case 0x6:
		carry := v[x] & 0x1
		v[x] >>= 1
		v[0xF] = carry

	// SUBN Vx, Vy
	case 0x7:
		borrow := v[y] >= v[x]
		v[x] = v[y] - v[x]
		v[0xF] = flag(borrow)

	// SHL Vx
	case 0xE:
		carry := v[x] >> 7
		v[x] <<= 1
		v[0xF] = carry

	default:
		return illegal
	}

	return nil
}

func (mc *Machine) misc(x, kk uint8, illegal error) error {
	s := &mc.State

	switch kk {
	// LD Vx, DT
	case 0x07:
		s.Registers[x] = s.Delay

	// LD Vx, K
	case 0x0A:
		if mc.wait == nil {
			return ErrNoKeyHandler
		}

		code, err := mc.wait()

		if err != nil {
			return errors.Wrap(err, "key wait")
		}

		s.Registers[x] = code & 0xF

	// LD DT, Vx
	case 0x15:
		s.Delay = s.Registers[x]

	// LD ST, Vx
	case 0x18:
		s.Sound = s.Registers[x]

	// ADD I, Vx
	case 0x1E:
		s.Index += uint16(s.Registers[x])

	// LD F, Vx
	case 0x29:
		s.Index = MEMSPACE_SMALL_FONT + uint16(s.Registers[x]&0xF)*5

	// LD HF, Vx
	case 0x30:
		s.Index = MEMSPACE_LARGE_FONT + uint16(s.Registers[x]&0xF)*10

	// LD B, Vx
	case 0x33:
		value := s.Registers[x]
		mc.write(int(s.Index), value/100)
		mc.write(int(s.Index)+1, (value/10)%10)
		mc.write(int(s.Index)+2, value%10)

	// LD [I], Vx
	case 0x55:
		for i := 0; i <= int(x); i++ {
			mc.write(int(s.Index)+i, s.Registers[i])
		}

	// LD Vx, [I]
	case 0x65:
		for i := 0; i <= int(x); i++ {
			s.Registers[i] = mc.read(int(s.Index) + i)
		}

	// LD R, Vx
	case 0x75:
		if x >= FlagCount {
			return illegal
		}

		copy(mc.flags[:x+1], s.Registers[:x+1])

	// LD Vx, R
	case 0x85:
		if x >= FlagCount {
			return illegal
		}

		copy(s.Registers[:x+1], mc.flags[:x+1])

	default:
		return illegal
	}

	return nil
}

// draw XORs a sprite at (vx, vy) in the current resolution. A zero height
// draws a 16x16 sprite. VF is set when any lit pixel is erased.
func (mc *Machine) draw(vx, vy, height uint8) {
	s := &mc.State

	width, rows, cols, scale := LowResWidth, int(height), 8, 2
	limit := LowResHeight

	if s.HighRes {
		width, limit, scale = DisplayWidth, DisplayHeight, 1
	}

	if height == 0 {
		rows, cols = 16, 16
	}

	originX := int(vx) % width
	originY := int(vy) % limit
	collision := false

	for row := 0; row < rows; row++ {
		py := originY + row

		if py >= limit {
			break
		}

		var bits uint16

		if cols == 16 {
			bits = uint16(mc.read(int(s.Index)+row*2))<<8 |
				uint16(mc.read(int(s.Index)+row*2+1))
		} else {
			bits = uint16(mc.read(int(s.Index)+row)) << 8
		}

		for col := 0; col < cols; col++ {
			px := originX + col

			if px >= width {
				break
			}

			if bits&(0x8000>>uint(col)) == 0 {
				continue
			}

			erased := false

			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					if s.Display.Toggle(px*scale+dx, py*scale+dy) {
						erased = true
					}
				}
			}

			if erased {
				collision = true
			}
		}
	}

	s.Registers[0xF] = flag(collision)
	mc.dirty = true
}

func flag(b bool) uint8 {
	if b {
		return 1
	}

	return 0
}
