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
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/tubes"
)

// compose formats a local wall clock reading for a slot. localEpoch already
// includes the zone offset, so it is read back as UTC.
func compose(slot Slot, localEpoch int64, dot bool, s *Settings) tubes.Frame {
	t := time.Unix(localEpoch, 0).UTC()

	switch slot {
	case SlotDate:
		if s.DateFormat == DateMonthDay {
			return tubes.NewFrame(int(t.Month()), t.Day(), false, tubes.DotSeconds)
		}
		return tubes.NewFrame(t.Day(), int(t.Month()), false, tubes.DotSeconds)
	case SlotYear:
		return tubes.NumberFrame(t.Year(), 0)
	default:
		var dots uint8
		if dot {
			dots = tubes.DotSeconds
		}
		hour := t.Hour()
		if s.Hour24 {
			return tubes.NewFrame(hour, t.Minute(), false, dots)
		}
		// the leading dot is the PM indicator
		if hour >= 12 {
			dots |= tubes.DotLeading
		}
		hour %= 12
		if hour == 0 {
			hour = 12
		}
		return tubes.NewFrame(hour, t.Minute(), true, dots)
	}
}
