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

package tubes

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		position int
		symbol   Symbol
		expected uint16
	}{
		{name: "zero on reversed tube", position: 0, symbol: 0, expected: 1 << 1},
		{name: "one on reversed tube", position: 0, symbol: 1, expected: 1 << 0},
		{name: "nine on reversed tube", position: 2, symbol: 9, expected: 1 << 2},
		{name: "zero on straight tube", position: 1, symbol: 0, expected: 1 << 0},
		{name: "nine on straight tube", position: 3, symbol: 9, expected: 1 << 9},
		{name: "blank", position: 1, symbol: Blank, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Pattern(tt.position, tt.symbol))
		})
	}
}

func TestPattern_OutOfRangePanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { Pattern(-1, 0) })
	assert.Panics(t, func() { Pattern(Positions, 0) })
	assert.Panics(t, func() { Pattern(0, Blank+1) })
	assert.Panics(t, func() { Digit(10) })
	assert.Panics(t, func() { Digit(-1) })
}

func TestEncode(t *testing.T) {
	t.Parallel()

	t.Run("blank frame is all zero", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, [WordSize]byte{}, Encode(BlankFrame))
	})

	t.Run("dots land above cathode bits", func(t *testing.T) {
		t.Parallel()
		word := Encode(BlankFrame.WithDots(DotMask))
		// bits 40-43 are the low nibble of the first byte
		assert.Equal(t, [WordSize]byte{0x0f, 0, 0, 0, 0, 0}, word)
	})

	t.Run("last tube nine", func(t *testing.T) {
		t.Parallel()
		f := BlankFrame
		f.Digits[3] = 9
		// bit 39 is the top bit of the second byte
		assert.Equal(t, [WordSize]byte{0, 0x80, 0, 0, 0, 0}, Encode(f))
	})
}

func TestFrameString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "12:34", NewFrame(12, 34, false, DotSeconds).String())
	assert.Equal(t, "-934", NewFrame(9, 34, true, 0).String())
	assert.Equal(t, ".----", BootFrame(1).String())
	assert.Equal(t, ".-.-:-.-", BootFrame(4).String())
	assert.Equal(t, "2024", NumberFrame(2024, 0).String())
}

func TestBootFrame(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint8(0b0001), BootFrame(0).Dots)
	assert.Equal(t, uint8(0b0011), BootFrame(2).Dots)
	assert.Equal(t, uint8(0b1111), BootFrame(9).Dots)
	assert.Equal(t, BlankFrame.Digits, BootFrame(3).Digits)
}

// TestPropertyPatternOneHot verifies every digit lights exactly one cathode.
func TestPropertyPatternOneHot(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		pos := rapid.IntRange(0, Positions-1).Draw(t, "pos")
		d := rapid.IntRange(0, 9).Draw(t, "digit")

		p := Pattern(pos, Digit(d))
		if bits.OnesCount16(p) != 1 {
			t.Fatalf("pattern %b for digit %d at %d is not one-hot", p, d, pos)
		}
		if p>>Cathodes != 0 {
			t.Fatalf("pattern %b sets bits above the cathode range", p)
		}
	})
}

// TestPropertyEncodeIsolatesTubes verifies each tube's bits in the word are
// exactly its own pattern.
func TestPropertyEncodeIsolatesTubes(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		var f Frame
		for i := range f.Digits {
			f.Digits[i] = Symbol(rapid.IntRange(0, int(Blank)).Draw(t, "symbol"))
		}
		f.Dots = uint8(rapid.IntRange(0, int(DotMask)).Draw(t, "dots"))

		word := Encode(f)
		var packed uint64
		for _, b := range word {
			packed = packed<<8 | uint64(b)
		}
		for i, s := range f.Digits {
			got := uint16(packed>>(i*Cathodes)) & (1<<Cathodes - 1)
			if got != Pattern(i, s) {
				t.Fatalf("tube %d: got %b want %b", i, got, Pattern(i, s))
			}
		}
		if uint8(packed>>(Positions*Cathodes)) != f.Dots {
			t.Fatalf("dots: got %b want %b", uint8(packed>>(Positions*Cathodes)), f.Dots)
		}
	})
}

func TestSameDigitsIgnoresDots(t *testing.T) {
	t.Parallel()

	a := NewFrame(12, 34, false, 0)
	b := a.WithDots(DotSeconds)
	require.NotEqual(t, a, b)
	assert.True(t, a.SameDigits(b))
}
