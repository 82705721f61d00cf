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

	"github.com/lassandro/chipterm/pkg/chip8"
	"github.com/lassandro/chipterm/pkg/encoding"
)

var aluMnemonics = map[uint8]string{
	0x0: "LD",
	0x1: "OR",
	0x2: "AND",
	0x3: "XOR",
	0x4: "ADD",
	0x5: "SUB",
	0x6: "SHR",
	0x7: "SUBN",
	0xE: "SHL",
}

// Disassemble returns the mnemonic form of an instruction. Words that are
// not instructions come back as a DW directive.
func Disassemble(instruction uint16) string {
	x := encoding.X(instruction)
	y := encoding.Y(instruction)
	n := encoding.N(instruction)
	kk := encoding.KK(instruction)
	nnn := encoding.NNN(instruction)

	data := fmt.Sprintf("DW %#04x", instruction)

	switch encoding.Op(instruction) {
	case chip8.OP_SYS:
		switch {
		case instruction == 0x00E0:
			return "CLS"
		case instruction == 0x00EE:
			return "RET"
		case instruction&0xFFF0 == 0x00C0:
			return fmt.Sprintf("SCD %d", n)
		case instruction == 0x00FB:
			return "SCR"
		case instruction == 0x00FC:
			return "SCL"
		case instruction == 0x00FD:
			return "EXIT"
		case instruction == 0x00FE:
			return "LOW"
		case instruction == 0x00FF:
			return "HIGH"
		}

	case chip8.OP_JP:
		return fmt.Sprintf("JP %#03x", nnn)

	case chip8.OP_CALL:
		return fmt.Sprintf("CALL %#03x", nnn)

	case chip8.OP_SE:
		return fmt.Sprintf("SE V%X, %#02x", x, kk)

	case chip8.OP_SNE:
		return fmt.Sprintf("SNE V%X, %#02x", x, kk)

	case chip8.OP_SEV:
		if n == 0 {
			return fmt.Sprintf("SE V%X, V%X", x, y)
		}

	case chip8.OP_LD:
		return fmt.Sprintf("LD V%X, %#02x", x, kk)

	case chip8.OP_ADD:
		return fmt.Sprintf("ADD V%X, %#02x", x, kk)

	case chip8.OP_ALU:
		mnemonic, exists := aluMnemonics[n]

		if !exists {
			break
		}

		if n == 0x6 || n == 0xE {
			return fmt.Sprintf("%s V%X", mnemonic, x)
		}

		return fmt.Sprintf("%s V%X, V%X", mnemonic, x, y)

	case chip8.OP_SNEV:
		if n == 0 {
			return fmt.Sprintf("SNE V%X, V%X", x, y)
		}

	case chip8.OP_LDI:
		return fmt.Sprintf("LD I, %#03x", nnn)

	case chip8.OP_JPV:
		return fmt.Sprintf("JP V0, %#03x", nnn)

	case chip8.OP_RND:
		return fmt.Sprintf("RND V%X, %#02x", x, kk)

	case chip8.OP_DRW:
		return fmt.Sprintf("DRW V%X, V%X, %d", x, y, n)

	case chip8.OP_KEY:
		switch kk {
		case 0x9E:
			return fmt.Sprintf("SKP V%X", x)
		case 0xA1:
			return fmt.Sprintf("SKNP V%X", x)
		}

	case chip8.OP_MISC:
		return disassembleMisc(x, kk, data)
	}

	return data
}

func disassembleMisc(x, kk uint8, data string) string {
	switch kk {
	case 0x07:
		return fmt.Sprintf("LD V%X, DT", x)
	case 0x0A:
		return fmt.Sprintf("LD V%X, K", x)
	case 0x15:
		return fmt.Sprintf("LD DT, V%X", x)
	case 0x18:
		return fmt.Sprintf("LD ST, V%X", x)
	case 0x1E:
		return fmt.Sprintf("ADD I, V%X", x)
	case 0x29:
		return fmt.Sprintf("LD F, V%X", x)
	case 0x30:
		return fmt.Sprintf("LD HF, V%X", x)
	case 0x33:
		return fmt.Sprintf("LD B, V%X", x)
	case 0x55:
		return fmt.Sprintf("LD [I], V%X", x)
	case 0x65:
		return fmt.Sprintf("LD V%X, [I]", x)
	case 0x75:
		if x < chip8.FlagCount {
			return fmt.Sprintf("LD R, V%X", x)
		}
	case 0x85:
		if x < chip8.FlagCount {
			return fmt.Sprintf("LD V%X, R", x)
		}
	}

	return data
}
