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

package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsClockReliable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		time     time.Time
		name     string
		expected bool
	}{
		{name: "unix epoch", time: time.Unix(0, 0), expected: false},
		{name: "rtc reset to 2000", time: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), expected: false},
		{name: "end of 2023", time: time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC), expected: false},
		{name: "start of 2024", time: time.Date(MinReliableYear, 1, 1, 0, 0, 0, 0, time.UTC), expected: true},
		{name: "future", time: time.Date(2031, 6, 1, 0, 0, 0, 0, time.UTC), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsClockReliable(tt.time))
		})
	}
}
