// Zaparoo Nixie
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Nixie.
//
// Zaparoo Nixie is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Nixie is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Nixie.  If not, see <http://www.gnu.org/licenses/>.

// Package tubes maps display symbols to the cathode drive patterns of a
// four-tube Nixie board and packs whole frames into the shift register word
// expected by the driver board.
package tubes

import "fmt"

// Symbol is a single tube face. Values 0-9 light the matching cathode and
// Blank lights nothing.
type Symbol uint8

const (
	// Blank turns every cathode of a tube off.
	Blank Symbol = 10
	// Positions is the number of tubes on the board.
	Positions = 4
	// Cathodes is the number of digit cathodes per tube.
	Cathodes = 10
)

// cathodeWiring maps a digit to the shift register bit driving its cathode,
// per tube position. The board routes the cathodes of the outer and inner
// tube pairs in opposite directions.
var cathodeWiring = [Positions][Cathodes]uint8{
	{1, 0, 9, 8, 7, 6, 5, 4, 3, 2},
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 0, 9, 8, 7, 6, 5, 4, 3, 2},
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
}

// Pattern returns the one-hot cathode pattern for a symbol shown on the tube
// at position. Only the low Cathodes bits are ever set. Out of range input is
// a programming error and panics.
func Pattern(position int, s Symbol) uint16 {
	if position < 0 || position >= Positions {
		panic(fmt.Sprintf("tubes: position %d out of range", position))
	}
	if s > Blank {
		panic(fmt.Sprintf("tubes: symbol %d out of range", s))
	}
	if s == Blank {
		return 0
	}
	return 1 << cathodeWiring[position][s]
}

// Digit converts an integer 0-9 to a Symbol. Out of range input panics.
func Digit(n int) Symbol {
	if n < 0 || n > 9 {
		panic(fmt.Sprintf("tubes: digit %d out of range", n))
	}
	return Symbol(n)
}

// WordSize is the number of bytes in an encoded frame.
const WordSize = 6

// Encode packs a frame into the board's shift register word. Tube 0 occupies
// bits 0-9, tube 3 bits 30-39 and the dot mask bits 40-43. The word is sent
// most significant byte first.
func Encode(f Frame) [WordSize]byte {
	var word uint64
	for i, s := range f.Digits {
		word |= uint64(Pattern(i, s)) << (i * Cathodes)
	}
	word |= uint64(f.Dots&DotMask) << (Positions * Cathodes)

	var out [WordSize]byte
	for i := range out {
		out[i] = byte(word >> (8 * (WordSize - 1 - i)))
	}
	return out
}
