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
	"unicode"

	"github.com/pkg/errors"
)

const KeyCount = 16

// Key identifies a physical key by the character the terminal sends for it.
// Letters are always stored lower case.
type Key rune

func NormalizeKey(r rune) Key {
	return Key(unicode.ToLower(r))
}

var ErrInvalidKeyMap = errors.New("Invalid key map")

// KeyMap is a bijection between the 16 keypad codes and physical keys.
type KeyMap struct {
	keys  [KeyCount]Key
	codes map[Key]uint8
}

func NewKeyMap(bindings map[uint8]Key) (*KeyMap, error) {
	km := &KeyMap{codes: make(map[Key]uint8, KeyCount)}

	for code, key := range bindings {
		if code >= KeyCount {
			return nil, errors.Wrapf(
				ErrInvalidKeyMap, "code %#x out of range", code,
			)
		}

		key = NormalizeKey(rune(key))

		if other, exists := km.codes[key]; exists {
			return nil, errors.Wrapf(
				ErrInvalidKeyMap,
				"key %q bound to both %#x and %#x",
				rune(key), other, code,
			)
		}

		km.keys[code] = key
		km.codes[key] = code
	}

	for code := uint8(0); code < KeyCount; code++ {
		if _, exists := bindings[code]; !exists {
			return nil, errors.Wrapf(
				ErrInvalidKeyMap, "code %#x has no key", code,
			)
		}
	}

	return km, nil
}

// DefaultKeyMap lays the keypad over the left hand side of a QWERTY board:
//
//	1 2 3 4      1 2 3 C
//	q w e r  ->  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
func DefaultKeyMap() *KeyMap {
	km, err := NewKeyMap(map[uint8]Key{
		0x1: '1', 0x2: '2', 0x3: '3', 0xC: '4',
		0x4: 'q', 0x5: 'w', 0x6: 'e', 0xD: 'r',
		0x7: 'a', 0x8: 's', 0x9: 'd', 0xE: 'f',
		0xA: 'z', 0x0: 'x', 0xB: 'c', 0xF: 'v',
	})

	if err != nil {
		panic(err)
	}

	return km
}

func (km *KeyMap) Key(code uint8) (Key, bool) {
	if code >= KeyCount {
		return 0, false
	}

	return km.keys[code], true
}

func (km *KeyMap) Code(key Key) (uint8, bool) {
	code, exists := km.codes[NormalizeKey(rune(key))]
	return code, exists
}
