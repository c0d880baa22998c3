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

package terminal

import (
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/tubes"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	require.NotNil(t, sim)
	return sim
}

func screenText(sim tcell.SimulationScreen) string {
	cells, width, _ := sim.GetContents()
	var b strings.Builder
	for i, c := range cells {
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		} else {
			b.WriteRune(' ')
		}
		if (i+1)%width == 0 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

func TestRender(t *testing.T) {
	t.Parallel()

	rows := Render(tubes.NewFrame(10, 47, false, tubes.DotSeconds))
	require.Len(t, rows, GlyphRows)
	assert.Equal(t, "     █   ███   █ █   ███", rows[0])
	assert.Equal(t, "     █   █ █   ███     █", rows[2])
	assert.Equal(t, "     █   ███ •   █     █", rows[4])
}

func TestRender_Blank(t *testing.T) {
	t.Parallel()

	for _, row := range Render(tubes.BlankFrame) {
		assert.Equal(t, strings.Repeat(" ", 24), row)
	}
}

func TestPreview_KeysAndFrames(t *testing.T) {
	t.Parallel()

	sim := newSimScreen(t)
	p := New(sim)

	var presses, quits atomic.Int32
	p.SetButtonHandler(func() { presses.Add(1) })
	p.SetQuitHandler(func() { quits.Add(1) })

	require.NoError(t, p.Open(t.Context()))
	require.NoError(t, p.Show(tubes.NewFrame(8, 8, false, 0)))

	require.Eventually(t, func() bool {
		return strings.Contains(screenText(sim), "█ █   █ █")
	}, 2*time.Second, 10*time.Millisecond)

	sim.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	sim.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	require.Eventually(t, func() bool { return presses.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	sim.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	require.Eventually(t, func() bool { return quits.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, p.Close())
}

func TestPreview_CloseDoesNotQuit(t *testing.T) {
	t.Parallel()

	sim := newSimScreen(t)
	p := New(sim)
	var quits atomic.Int32
	p.SetQuitHandler(func() { quits.Add(1) })

	require.NoError(t, p.Open(t.Context()))
	require.NoError(t, p.Show(tubes.NewFrame(1, 1, true, 0)))
	require.Eventually(t, func() bool {
		return strings.Contains(screenText(sim), "█")
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, p.Close())
	require.NoError(t, p.Show(tubes.BlankFrame))
	assert.Zero(t, quits.Load())
}
