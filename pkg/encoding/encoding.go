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

package encoding

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidHex = errors.New("Invalid hex string")

// Decodes a hexidecimal string in the formats: 0xFFFF, xFFFF, $FFFF
func DecodeHex(s string) (uint16, error) {
	if strings.HasPrefix(s, "$") {
		s = "0x" + s[1:]
	}

	if i := strings.IndexAny(s, "xX"); i == 0 {
		s = "0" + s
	} else if i == -1 || i != 1 || s[0] != '0' {
		return 0, errors.Wrapf(ErrInvalidHex, "%q", s)
	}

	result, err := strconv.ParseUint(s, 0, 16)

	if err != nil {
		return 0, errors.Wrapf(ErrInvalidHex, "%q", s)
	}

	return uint16(result), nil
}

// Word reads the big-endian instruction word at addr. Bytes past the end of
// memory read as zero.
func Word(memory []byte, addr int) uint16 {
	var hi, lo byte

	if addr >= 0 && addr < len(memory) {
		hi = memory[addr]
	}

	if addr+1 >= 0 && addr+1 < len(memory) {
		lo = memory[addr+1]
	}

	return uint16(hi)<<8 | uint16(lo)
}

// Opcode field accessors
// ---- [ _ _ _ _ | X X X X | Y Y Y Y | N N N N ]

func Op(value uint16) uint8   { return uint8(value >> 12) }
func X(value uint16) uint8    { return uint8(value>>8) & 0xF }
func Y(value uint16) uint8    { return uint8(value>>4) & 0xF }
func N(value uint16) uint8    { return uint8(value) & 0xF }
func KK(value uint16) uint8   { return uint8(value) }
func NNN(value uint16) uint16 { return value & 0x0FFF }
