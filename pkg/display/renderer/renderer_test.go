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

package renderer

import (
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/tubes"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	// 2024-03-01 23:59:00 UTC
	beforeMidnight int64 = 1709337540
	// 2024-03-02 00:00:00 UTC
	midnight int64 = 1709337600
	// 2024-03-01 09:05:30 UTC
	morning int64 = 1709283930
)

func quietSettings() Settings {
	s := DefaultSettings()
	s.AntiPoisonInterval = 0
	return s
}

func newTestRenderer(t *testing.T, s Settings) (*Renderer, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	return New(clock, s), clock
}

func TestRenderTick_Idempotent(t *testing.T) {
	t.Parallel()

	r, clock := newTestRenderer(t, DefaultSettings())
	in := Input{LocalEpoch: morning, HasTime: true, Dot: true}

	first := r.RenderTick(in)
	assert.Equal(t, first, r.RenderTick(in))

	// also holds mid animation
	clock.Advance(time.Second)
	in.LocalEpoch += 60
	second := r.RenderTick(in)
	require.True(t, r.Animating())
	assert.Equal(t, second, r.RenderTick(in))
}

func TestRenderTick_MidnightAnimation(t *testing.T) {
	t.Parallel()

	s := quietSettings()
	s.AnimationSteps = 6
	s.AnimationStep = 20 * time.Millisecond
	r, clock := newTestRenderer(t, s)

	first := r.RenderTick(Input{LocalEpoch: beforeMidnight, HasTime: true})
	require.Equal(t, "2359", first.String())

	var frames []tubes.Frame
	frames = append(frames, r.RenderTick(Input{LocalEpoch: midnight, HasTime: true}))
	for r.Animating() {
		clock.Advance(s.AnimationStep)
		frames = append(frames, r.RenderTick(Input{LocalEpoch: midnight, HasTime: true}))
	}

	require.Len(t, frames, s.AnimationSteps+1)
	assert.Equal(t, "2359", frames[0].String())
	assert.Equal(t, "0000", frames[len(frames)-1].String())
}

func TestRenderTick_SlotChangeIsNotAnimated(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t, quietSettings())
	in := Input{LocalEpoch: morning, HasTime: true}

	assert.Equal(t, "0905", r.RenderTick(in).String())

	assert.Equal(t, SlotDate, r.PressButton())
	frame := r.RenderTick(in)
	assert.Equal(t, "01:03", frame.String())
	assert.False(t, r.Animating())
}

func TestRenderTick_TwelveHour(t *testing.T) {
	t.Parallel()

	s := quietSettings()
	s.Hour24 = false

	tests := []struct {
		name     string
		expected string
		epoch    int64
	}{
		{name: "morning blanks leading zero", epoch: morning, expected: "-905"},
		{name: "afternoon marks pm", epoch: morning + 4*3600, expected: ".-105"},
		{name: "midnight is twelve", epoch: midnight, expected: "1200"},
		{name: "noon is twelve pm", epoch: midnight - 12*3600, expected: ".1200"},
		{name: "last minute of the day is pm", epoch: midnight - 60, expected: ".1159"},
		{name: "last minute before noon is am", epoch: midnight - 12*3600 - 60, expected: "1159"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, _ := newTestRenderer(t, s)
			assert.Equal(t, tt.expected, r.RenderTick(Input{LocalEpoch: tt.epoch, HasTime: true}).String())
		})
	}
}

func TestRenderTick_Dots(t *testing.T) {
	t.Parallel()

	r, _ := newTestRenderer(t, quietSettings())

	assert.Equal(t, "09:05", r.RenderTick(Input{LocalEpoch: morning, HasTime: true, Dot: true}).String())
	assert.Equal(t, "0905", r.RenderTick(Input{LocalEpoch: morning, HasTime: true, Dot: false}).String())

	r.PressButton()
	// date separator does not follow the heartbeat
	assert.Equal(t, "01:03", r.RenderTick(Input{LocalEpoch: morning, HasTime: true, Dot: false}).String())
	assert.Equal(t, "01:03", r.RenderTick(Input{LocalEpoch: morning, HasTime: true, Dot: true}).String())
}

func TestRenderTick_DateFormatAndYear(t *testing.T) {
	t.Parallel()

	s := quietSettings()
	s.DateFormat = DateMonthDay
	s.EnabledSlots = []Slot{SlotTime, SlotDate, SlotYear}
	r, _ := newTestRenderer(t, s)
	in := Input{LocalEpoch: morning, HasTime: true}

	r.RenderTick(in)
	r.PressButton()
	assert.Equal(t, "03:01", r.RenderTick(in).String())
	r.PressButton()
	assert.Equal(t, "2024", r.RenderTick(in).String())
	assert.Equal(t, SlotTime, r.PressButton())
}

func TestPressButton_SkipsDisabledSlots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		enabled  []Slot
		expected []Slot
	}{
		{name: "all enabled", enabled: []Slot{SlotTime, SlotDate, SlotYear}, expected: []Slot{SlotDate, SlotYear, SlotTime}},
		{name: "date disabled", enabled: []Slot{SlotTime, SlotYear}, expected: []Slot{SlotYear, SlotTime, SlotYear}},
		{name: "only time", enabled: []Slot{SlotTime}, expected: []Slot{SlotTime, SlotTime}},
		{name: "nothing enabled forces time", enabled: nil, expected: []Slot{SlotTime, SlotTime}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := quietSettings()
			s.EnabledSlots = tt.enabled
			r, _ := newTestRenderer(t, s)

			var got []Slot
			for range tt.expected {
				got = append(got, r.PressButton())
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestApply_DisablingActiveSlotReturnsToTime(t *testing.T) {
	t.Parallel()

	s := quietSettings()
	r, _ := newTestRenderer(t, s)
	r.PressButton()
	require.Equal(t, SlotDate, r.Slot())

	s.EnabledSlots = []Slot{SlotTime}
	r.Apply(s)
	assert.Equal(t, SlotTime, r.Slot())
}

func TestRenderTick_BootProgress(t *testing.T) {
	t.Parallel()

	r, clock := newTestRenderer(t, quietSettings())

	assert.Equal(t, tubes.BootFrame(1), r.RenderTick(Input{}))
	clock.Advance(BootStep)
	assert.Equal(t, tubes.BootFrame(2), r.RenderTick(Input{}))
	clock.Advance(3 * BootStep)
	assert.Equal(t, tubes.BootFrame(1), r.RenderTick(Input{}))

	// the first real value is shown without animating from the boot bar
	assert.Equal(t, "0905", r.RenderTick(Input{LocalEpoch: morning, HasTime: true}).String())
	assert.False(t, r.Animating())
}

func TestRenderTick_AntiPoisonSweep(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	s.AntiPoisonInterval = 1
	s.SweepStep = 10 * time.Millisecond
	s.SweepPasses = 1
	r, clock := newTestRenderer(t, s)

	frame := r.RenderTick(Input{LocalEpoch: morning, HasTime: true})
	assert.Equal(t, "0000", frame.String())
	assert.True(t, r.Sweeping())

	clock.Advance(55 * time.Millisecond)
	assert.Equal(t, "5555", r.RenderTick(Input{LocalEpoch: morning, HasTime: true}).String())

	clock.Advance(time.Second)
	r.RenderTick(Input{LocalEpoch: morning, HasTime: true})
	assert.False(t, r.Sweeping())
	assert.True(t, r.Animating(), "returns to the value through an animation")

	clock.Advance(time.Minute)
	assert.Equal(t, "0905", r.RenderTick(Input{LocalEpoch: morning + 10, HasTime: true}).String())
	assert.False(t, r.Sweeping(), "same minute does not sweep again")
}

func TestRenderTick_AntiPoisonWaitsForAnimation(t *testing.T) {
	t.Parallel()

	s := DefaultSettings()
	s.AntiPoisonInterval = 1
	s.SweepStep = time.Millisecond
	s.SweepPasses = 1
	s.AnimationSteps = 10
	s.AnimationStep = time.Second
	r, clock := newTestRenderer(t, s)

	// 09:05:50, the sweep for 09:05 runs and hands back through a slow
	// animation
	r.RenderTick(Input{LocalEpoch: morning + 20, HasTime: true})
	require.True(t, r.Sweeping())
	clock.Advance(time.Second)
	r.RenderTick(Input{LocalEpoch: morning + 20, HasTime: true})
	require.True(t, r.Animating())

	// 09:06:00 arrives mid animation, the sweep has to wait
	clock.Advance(time.Second)
	r.RenderTick(Input{LocalEpoch: morning + 30, HasTime: true})
	assert.False(t, r.Sweeping())
	assert.True(t, r.Animating())

	clock.Advance(time.Minute)
	r.RenderTick(Input{LocalEpoch: morning + 31, HasTime: true})
	assert.False(t, r.Sweeping())
	assert.False(t, r.Animating())

	// deferred, not dropped
	r.RenderTick(Input{LocalEpoch: morning + 32, HasTime: true})
	assert.True(t, r.Sweeping())
}
