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
	"fmt"
	"strings"
)

// Slot is one of the views the tubes can show. Slots cycle in declaration
// order on each button press.
type Slot int

const (
	SlotTime Slot = iota
	SlotDate
	SlotYear
	slotCount
)

// AllSlots lists every slot in cycle order.
var AllSlots = []Slot{SlotTime, SlotDate, SlotYear}

func (s Slot) String() string {
	switch s {
	case SlotTime:
		return "time"
	case SlotDate:
		return "date"
	case SlotYear:
		return "year"
	default:
		return fmt.Sprintf("slot(%d)", int(s))
	}
}

// ParseSlot converts a config name to a Slot.
func ParseSlot(name string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "time":
		return SlotTime, nil
	case "date":
		return SlotDate, nil
	case "year":
		return SlotYear, nil
	default:
		return SlotTime, fmt.Errorf("unknown display slot: %q", name)
	}
}

// DateFormat is the order of the day and month pairs in the date slot.
type DateFormat int

const (
	DateDayMonth DateFormat = iota
	DateMonthDay
)

// ParseDateFormat converts a config value ("DDMM" or "MMDD") to a DateFormat.
func ParseDateFormat(s string) (DateFormat, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "DDMM":
		return DateDayMonth, nil
	case "MMDD":
		return DateMonthDay, nil
	default:
		return DateDayMonth, fmt.Errorf("unknown date format: %q", s)
	}
}

// nextSlot returns the slot after cur in cycle order among enabled. If
// nothing is enabled the time slot is forced.
func nextSlot(cur Slot, enabled map[Slot]bool) Slot {
	for i := 1; i <= int(slotCount); i++ {
		cand := Slot((int(cur) + i) % int(slotCount))
		if enabled[cand] {
			return cand
		}
	}
	return SlotTime
}
