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

package tzoffset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetSecondsAt_DST(t *testing.T) {
	t.Parallel()

	l, err := New("America/New_York")
	require.NoError(t, err)

	winter, err := l.OffsetSecondsAt(1704067200) // 2024-01-01
	require.NoError(t, err)
	assert.Equal(t, int32(-5*3600), winter)

	summer, err := l.OffsetSecondsAt(1719792000) // 2024-07-01
	require.NoError(t, err)
	assert.Equal(t, int32(-4*3600), summer)
}

func TestSetZone_InvalidFallsBackToUTC(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		zone string
	}{
		{name: "unknown", zone: "Mars/Olympus_Mons"},
		{name: "empty", zone: "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			l, err := New(tt.zone)
			require.ErrorIs(t, err, ErrConfigInvalid)
			assert.Equal(t, "UTC", l.Zone())

			off, err := l.OffsetSecondsAt(1700000000)
			require.NoError(t, err)
			assert.Equal(t, int32(0), off)
		})
	}
}

func TestSetZone_Switch(t *testing.T) {
	t.Parallel()

	l, err := New("UTC")
	require.NoError(t, err)
	require.NoError(t, l.SetZone("Asia/Kolkata"))

	off, err := l.OffsetSecondsAt(1700000000)
	require.NoError(t, err)
	assert.Equal(t, int32(5*3600+30*60), off)
	assert.Equal(t, "Asia/Kolkata", l.Zone())
}

func TestLocalToUTC(t *testing.T) {
	t.Parallel()

	l, err := New("Europe/Berlin")
	require.NoError(t, err)

	// 2024-01-02 12:30 CET is 11:30 UTC
	got := l.LocalToUTC(2024, time.January, 2, 12, 30, 0)
	assert.Equal(t, time.Date(2024, 1, 2, 11, 30, 0, 0, time.UTC).Unix(), got)
}

func TestFixed(t *testing.T) {
	t.Parallel()

	off, err := Fixed(3600).OffsetSecondsAt(0)
	require.NoError(t, err)
	assert.Equal(t, int32(3600), off)
}
