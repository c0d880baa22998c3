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

// Package animation interpolates between two tube frames. Each tube counts
// upward through the intervening digit faces, wrapping from 9 to 0, so a
// change always rolls forward the way a mechanical counter would.
package animation

import (
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/tubes"
)

// Animator holds a precomputed sequence of Steps()+1 frames. The zero value
// is not usable, create one with New.
type Animator struct {
	started  time.Time
	frames   []tubes.Frame
	interval time.Duration
	step     int
}

// New precomputes the frames from one value to another. Frame 0 is from and
// frame steps is to. A steps value below 1 is treated as 1.
func New(from, to tubes.Frame, steps int, interval time.Duration, now time.Time) *Animator {
	steps = max(1, steps)
	frames := make([]tubes.Frame, steps+1)
	for k := range frames {
		frames[k] = interpolate(from, to, k, steps)
	}
	return &Animator{
		started:  now,
		frames:   frames,
		interval: interval,
	}
}

func interpolate(from, to tubes.Frame, k, steps int) tubes.Frame {
	if k == 0 {
		return from
	}
	if k == steps {
		return to
	}
	f := to
	for i := range f.Digits {
		f.Digits[i] = face(from.Digits[i], to.Digits[i], k, steps)
	}
	return f
}

func face(from, to tubes.Symbol, k, steps int) tubes.Symbol {
	if from == tubes.Blank || to == tubes.Blank {
		// blanks have no place on the counting path, switch halfway
		if 2*k < steps {
			return from
		}
		return to
	}
	distance := (int(to) - int(from) + tubes.Cathodes) % tubes.Cathodes
	return tubes.Symbol((int(from) + distance*k/steps) % tubes.Cathodes)
}

// Steps is the number of steps N. The animation has N+1 frames.
func (a *Animator) Steps() int {
	return len(a.frames) - 1
}

// Frames returns a copy of the whole sequence.
func (a *Animator) Frames() []tubes.Frame {
	out := make([]tubes.Frame, len(a.frames))
	copy(out, a.frames)
	return out
}

// Advance moves to the step due at now and returns its frame. The step index
// never decreases, so a clock stepping backwards holds the current frame.
func (a *Animator) Advance(now time.Time) tubes.Frame {
	due := a.Steps()
	if a.interval > 0 {
		due = int(now.Sub(a.started) / a.interval)
	}
	due = min(due, a.Steps())
	if due > a.step {
		a.step = due
	}
	return a.frames[a.step]
}

// Current is the last frame returned by Advance, or the first frame if
// Advance was never called.
func (a *Animator) Current() tubes.Frame {
	return a.frames[a.step]
}

// Target is the final frame.
func (a *Animator) Target() tubes.Frame {
	return a.frames[len(a.frames)-1]
}

// StepIndex is the index of the current frame.
func (a *Animator) StepIndex() int {
	return a.step
}

// Done reports whether the final frame has been reached.
func (a *Animator) Done() bool {
	return a.step >= a.Steps()
}

// Retarget discards this animation and starts a new one towards to from the
// last emitted frame.
func (a *Animator) Retarget(to tubes.Frame, now time.Time) *Animator {
	return New(a.Current(), to, a.Steps(), a.interval, now)
}
