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

package config

import (
	"slices"
	"time"
)

const (
	DisplayDriverAuto     = "auto"
	DisplayDriverSerial   = "serial"
	DisplayDriverTerminal = "terminal"
	DisplayDriverLog      = "log"

	SlotTime = "time"
	SlotDate = "date"
	SlotYear = "year"

	DateFormatDayMonth = "DDMM"
	DateFormatMonthDay = "MMDD"

	DefaultBaudRate           = 115200
	DefaultAnimationSteps     = 10
	DefaultAnimationStepMs    = 40
	DefaultAntiPoisonInterval = 15
	DefaultRefreshMs          = 20
)

type Display struct {
	Driver             string   `toml:"driver" validate:"oneof=auto serial terminal log"`
	Device             string   `toml:"device,omitempty"`
	DateFormat         string   `toml:"date_format" validate:"oneof=DDMM MMDD"`
	Slots              []string `toml:"slots" validate:"dive,oneof=time date year"`
	BaudRate           int      `toml:"baud_rate" validate:"min=1200,max=921600"`
	AnimationSteps     int      `toml:"animation_steps" validate:"min=1,max=100"`
	AnimationStepMs    int      `toml:"animation_step_ms" validate:"min=0,max=1000"`
	AntiPoisonInterval int      `toml:"anti_poison_interval" validate:"min=0,max=1440"`
	RefreshMs          int      `toml:"refresh_ms" validate:"min=5,max=1000"`
	Animation          bool     `toml:"animation"`
}

func (c *Instance) DisplayDriver() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Display.Driver
}

func (c *Instance) DisplayDevice() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Display.Device
}

func (c *Instance) DisplayBaudRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Display.BaudRate
}

// DisplaySlots lists the enabled slot names in cycle order.
func (c *Instance) DisplaySlots() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.vals.Display.Slots)
}

// SlotEnabled reports whether a slot is in the enabled list.
func (c *Instance) SlotEnabled(slot string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.vals.Display.Slots, slot)
}

// SetSlotEnabled adds or removes a slot, keeping the time, date, year order.
func (c *Instance) SetSlotEnabled(slot string, enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Display.Slots = setSlot(c.vals.Display.Slots, slot, enabled)
}

func setSlot(slots []string, slot string, enabled bool) []string {
	out := make([]string, 0, 3)
	for _, s := range []string{SlotTime, SlotDate, SlotYear} {
		on := slices.Contains(slots, s)
		if s == slot {
			on = enabled
		}
		if on {
			out = append(out, s)
		}
	}
	return out
}

func (c *Instance) DateFormat() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Display.DateFormat
}

func (c *Instance) AnimationEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Display.Animation
}

func (c *Instance) AnimationSteps() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Display.AnimationSteps
}

func (c *Instance) AnimationStep() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.vals.Display.AnimationStepMs) * time.Millisecond
}

// AntiPoisonInterval is the sweep cadence in minutes, 0 when disabled.
func (c *Instance) AntiPoisonInterval() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Display.AntiPoisonInterval
}

// RefreshPeriod is how often the main loop renders a frame.
func (c *Instance) RefreshPeriod() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.vals.Display.RefreshMs) * time.Millisecond
}
