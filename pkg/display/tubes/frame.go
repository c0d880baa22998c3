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

import "strings"

// Separator dots, one per inter-tube gap plus the indicator before the first
// tube.
const (
	DotLeading uint8 = 1 << iota
	DotGap12
	DotGap23
	DotGap34

	DotMask = DotLeading | DotGap12 | DotGap23 | DotGap34
)

// DotSeconds is the separator between the hour and minute pairs.
const DotSeconds = DotGap23

// Frame is one complete display state. Frames are values and are replaced,
// never mutated, once handed to a driver.
type Frame struct {
	Digits [Positions]Symbol
	Dots   uint8
}

// BlankFrame has every tube and dot off.
var BlankFrame = Frame{Digits: [Positions]Symbol{Blank, Blank, Blank, Blank}}

// NewFrame builds a frame from two two-digit values, as used for HH:MM and
// DD.MM layouts. When blankLeading is set a leading zero on the first pair
// is left dark.
func NewFrame(hi, lo int, blankLeading bool, dots uint8) Frame {
	f := Frame{
		Digits: [Positions]Symbol{
			Digit(hi / 10 % 10),
			Digit(hi % 10),
			Digit(lo / 10 % 10),
			Digit(lo % 10),
		},
		Dots: dots & DotMask,
	}
	if blankLeading && hi < 10 {
		f.Digits[0] = Blank
	}
	return f
}

// NumberFrame shows the last four decimal digits of n.
func NumberFrame(n int, dots uint8) Frame {
	if n < 0 {
		n = -n
	}
	return NewFrame(n/100%100, n%100, false, dots)
}

// BootFrame is the startup progress bar: all tubes dark with the first step
// dots lit, step running 1 to Positions.
func BootFrame(step int) Frame {
	step = max(1, min(step, Positions))
	f := BlankFrame
	f.Dots = uint8(1<<step) - 1
	return f
}

// SameDigits reports whether two frames show the same faces, ignoring dots.
func (f Frame) SameDigits(o Frame) bool {
	return f.Digits == o.Digits
}

// WithDots returns a copy of the frame with the dot mask replaced.
func (f Frame) WithDots(dots uint8) Frame {
	f.Dots = dots & DotMask
	return f
}

// String renders the frame for logs and terminals, e.g. "12:34" or ".--.--".
func (f Frame) String() string {
	var sb strings.Builder
	if f.Dots&DotLeading != 0 {
		sb.WriteByte('.')
	}
	for i, s := range f.Digits {
		if s == Blank {
			sb.WriteByte('-')
		} else {
			sb.WriteByte('0' + byte(s))
		}
		if i < Positions-1 && f.Dots&(DotGap12<<i) != 0 {
			if DotGap12<<i == DotSeconds {
				sb.WriteByte(':')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
