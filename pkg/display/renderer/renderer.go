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

// Package renderer turns the trusted wall clock into tube frames once per
// refresh tick. It owns the active display slot, starts transition
// animations on value changes and hands the tubes over to the anti-poison
// sweep when one is due.
package renderer

import (
	"slices"
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/animation"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/antipoison"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/tubes"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// BootStep is how long each step of the startup progress bar is shown.
const BootStep = 250 * time.Millisecond

// Settings is the display behaviour taken from the device config.
type Settings struct {
	EnabledSlots       []Slot
	AnimationStep      time.Duration
	SweepStep          time.Duration
	AnimationSteps     int
	AntiPoisonInterval int
	SweepPasses        int
	DateFormat         DateFormat
	Hour24             bool
	Animate            bool
}

// DefaultSettings cycles time and date in 24-hour format with animations on.
func DefaultSettings() Settings {
	return Settings{
		EnabledSlots:       []Slot{SlotTime, SlotDate},
		Hour24:             true,
		Animate:            true,
		AnimationSteps:     10,
		AnimationStep:      40 * time.Millisecond,
		AntiPoisonInterval: 15,
		SweepStep:          antipoison.DefaultSweepStep,
		SweepPasses:        antipoison.DefaultPasses,
	}
}

// Input is everything a tick needs from outside the renderer.
type Input struct {
	// LocalEpoch is the trusted instant plus the zone offset.
	LocalEpoch int64
	// HasTime is false until any time source has been accepted.
	HasTime bool
	// Dot is the current heartbeat state.
	Dot bool
}

// Renderer is driven from the main loop only and is not safe for concurrent
// use.
type Renderer struct {
	clock    clockwork.Clock
	booted   time.Time
	anim     *animation.Animator
	poison   *antipoison.Scheduler
	enabled  map[Slot]bool
	settings Settings
	target   tubes.Frame
	last     tubes.Frame
	slot     Slot
	primed   bool
	jump     bool
	sweeping bool
}

// New returns a renderer that starts in the boot progress bar.
func New(clock clockwork.Clock, settings Settings) *Renderer {
	r := &Renderer{
		clock:  clock,
		booted: clock.Now(),
		poison: antipoison.NewScheduler(0, 0, 0),
		slot:   SlotTime,
		last:   tubes.BootFrame(1),
	}
	r.Apply(settings)
	return r
}

// Apply replaces the renderer settings. If the current slot is no longer
// enabled the display jumps back to the time slot.
func (r *Renderer) Apply(settings Settings) {
	r.settings = settings
	r.enabled = make(map[Slot]bool, len(AllSlots))
	for _, s := range settings.EnabledSlots {
		r.enabled[s] = true
	}
	if len(r.enabled) == 0 {
		log.Warn().Msg("no display slots enabled, forcing time slot")
		r.enabled[SlotTime] = true
	}
	if !r.enabled[r.slot] {
		r.slot = SlotTime
		r.jump = true
	}
	r.poison.Configure(settings.AntiPoisonInterval, settings.SweepStep, settings.SweepPasses)
}

// Settings returns the applied settings.
func (r *Renderer) Settings() Settings {
	s := r.settings
	s.EnabledSlots = slices.Clone(s.EnabledSlots)
	return s
}

// PressButton advances to the next enabled slot. The change is shown on the
// next tick without animation.
func (r *Renderer) PressButton() Slot {
	prev := r.slot
	r.slot = nextSlot(r.slot, r.enabled)
	if r.slot != prev {
		r.jump = true
	}
	return r.slot
}

// Slot is the active display slot.
func (r *Renderer) Slot() Slot {
	return r.slot
}

// Animating reports whether a transition is in progress.
func (r *Renderer) Animating() bool {
	return r.anim != nil
}

// Sweeping reports whether the anti-poison sweep owns the tubes.
func (r *Renderer) Sweeping() bool {
	return r.sweeping
}

// Last is the most recently emitted frame.
func (r *Renderer) Last() tubes.Frame {
	return r.last
}

// RenderTick produces the frame for this refresh period. Calling it again
// with the same input at the same clock reading returns the same frame.
func (r *Renderer) RenderTick(in Input) tubes.Frame {
	now := r.clock.Now()

	if !in.HasTime {
		r.anim = nil
		r.primed = false
		r.last = r.bootFrame(now)
		return r.last
	}

	target := compose(r.slot, in.LocalEpoch, in.Dot, &r.settings)

	if sweep := r.poison.Tick(in.LocalEpoch, r.anim != nil, now); sweep != nil {
		r.anim = nil
		r.sweeping = true
		r.target = target
		r.primed = true
		r.last = sweep.Frame(now)
		return r.last
	}

	switch {
	case r.sweeping:
		// roll from the last sweep face back to the value
		r.sweeping = false
		r.jump = false
		r.startAnimation(target, now)
	case !r.primed || r.jump:
		r.jump = false
		r.anim = nil
	case !target.SameDigits(r.target):
		r.startAnimation(target, now)
	}
	r.target = target
	r.primed = true

	frame := target
	if r.anim != nil {
		frame = r.anim.Advance(now).WithDots(target.Dots)
		if r.anim.Done() {
			r.anim = nil
		}
	}
	r.last = frame
	return frame
}

func (r *Renderer) startAnimation(target tubes.Frame, now time.Time) {
	switch {
	case !r.settings.Animate:
		r.anim = nil
	case r.anim != nil:
		r.anim = r.anim.Retarget(target, now)
	default:
		r.anim = animation.New(r.last, target, r.settings.AnimationSteps, r.settings.AnimationStep, now)
	}
}

func (r *Renderer) bootFrame(now time.Time) tubes.Frame {
	elapsed := max(0, now.Sub(r.booted))
	step := 1 + int(elapsed/BootStep)%tubes.Positions
	return tubes.BootFrame(step)
}
