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

// Package antipoison schedules the cathode exercising sweep. Digits that stay
// unlit for long periods build up deposits on their cathodes, so every digit
// face is driven on a fixed calendar cadence.
package antipoison

import (
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/tubes"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultSweepStep is how long each face is shown during a sweep.
	DefaultSweepStep = 60 * time.Millisecond
	// DefaultPasses is how many times all ten faces are cycled per sweep.
	DefaultPasses = 2

	minutesPerDay = 24 * 60
)

// Scheduler decides when a sweep is due. A sweep is due on a local calendar
// minute whose minute of day is a multiple of the interval, and runs at most
// once for any given minute. A due sweep colliding with an animation stays
// pending until the animation is over.
type Scheduler struct {
	sweep      *Sweep
	step       time.Duration
	interval   int
	passes     int
	lastMinute int64
	pending    bool
	hasRun     bool
}

// NewScheduler creates a scheduler running every interval minutes. An
// interval of 0 disables it.
func NewScheduler(interval int, step time.Duration, passes int) *Scheduler {
	s := &Scheduler{}
	s.Configure(interval, step, passes)
	return s
}

// Configure replaces the cadence. A running sweep is left to finish.
func (s *Scheduler) Configure(interval int, step time.Duration, passes int) {
	if step <= 0 {
		step = DefaultSweepStep
	}
	if passes <= 0 {
		passes = DefaultPasses
	}
	s.interval = max(0, interval)
	s.step = step
	s.passes = passes
	if s.interval == 0 {
		s.pending = false
	}
}

// Interval is the cadence in minutes, 0 when disabled.
func (s *Scheduler) Interval() int {
	return s.interval
}

// Pending reports whether a due sweep is waiting for an animation to end.
func (s *Scheduler) Pending() bool {
	return s.pending
}

// LastMinute is the calendar minute, in minutes since the local epoch, of
// the last sweep that became due. The second return is false if none has.
func (s *Scheduler) LastMinute() (int64, bool) {
	return s.lastMinute, s.hasRun
}

// Tick is called once per render tick with the local wall clock in epoch
// seconds. It returns the active sweep, or nil when normal rendering should
// continue. animating reports whether a value change animation is in
// progress.
func (s *Scheduler) Tick(localEpoch int64, animating bool, now time.Time) *Sweep {
	if s.sweep != nil {
		if !s.sweep.Done(now) {
			return s.sweep
		}
		s.sweep = nil
	}

	minute := floorDiv(localEpoch, 60)
	if s.interval > 0 && (!s.hasRun || minute != s.lastMinute) {
		minuteOfDay := minute % minutesPerDay
		if minuteOfDay < 0 {
			minuteOfDay += minutesPerDay
		}
		if minuteOfDay%int64(s.interval) == 0 {
			s.lastMinute = minute
			s.hasRun = true
			s.pending = true
		}
	}

	if !s.pending {
		return nil
	}
	if animating {
		log.Debug().Msg("anti-poison sweep deferred by animation")
		return nil
	}

	s.pending = false
	s.sweep = newSweep(now, s.step, s.passes)
	log.Debug().Int64("minute", s.lastMinute).Msg("starting anti-poison sweep")
	return s.sweep
}

// Active returns the running sweep, if any, without advancing the schedule.
func (s *Scheduler) Active(now time.Time) *Sweep {
	if s.sweep == nil || s.sweep.Done(now) {
		return nil
	}
	return s.sweep
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Sweep drives every tube through all ten faces in lockstep.
type Sweep struct {
	started time.Time
	step    time.Duration
	passes  int
}

func newSweep(now time.Time, step time.Duration, passes int) *Sweep {
	return &Sweep{started: now, step: step, passes: passes}
}

// Duration is the total time the sweep takes.
func (s *Sweep) Duration() time.Duration {
	return time.Duration(s.passes*tubes.Cathodes) * s.step
}

// Done reports whether the sweep has finished at now.
func (s *Sweep) Done(now time.Time) bool {
	return now.Sub(s.started) >= s.Duration()
}

// Frame returns the face shown at now. Before the start it shows 0 and after
// the end it holds 9.
func (s *Sweep) Frame(now time.Time) tubes.Frame {
	idx := int(now.Sub(s.started) / s.step)
	idx = max(0, min(idx, s.passes*tubes.Cathodes-1))
	d := tubes.Symbol(idx % tubes.Cathodes)
	return tubes.Frame{Digits: [tubes.Positions]tubes.Symbol{d, d, d, d}}
}
