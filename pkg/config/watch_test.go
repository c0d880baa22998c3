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
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartFileWatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, CfgFile)
	require.NoError(t, os.WriteFile(path, []byte("config_schema = 1\n"), 0o600))

	var calls atomic.Int32
	w, err := StartFileWatch(clockwork.NewRealClock(), path, func() { calls.Add(1) })
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	// unrelated files in the same directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o600))

	for range 3 {
		require.NoError(t, os.WriteFile(path, []byte("config_schema = 1\ndebug_logging = true\n"), 0o600))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(2 * watchSettle)
	assert.Equal(t, int32(1), calls.Load(), "burst of writes reported once")
}

func TestStartFileWatch_MissingDirectory(t *testing.T) {
	t.Parallel()

	_, err := StartFileWatch(clockwork.NewRealClock(), filepath.Join(t.TempDir(), "missing", CfgFile), func() {})
	require.Error(t, err)
}

func TestFileWatcher_SettlesOnClock(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	var calls atomic.Int32
	w, err := StartFileWatch(clock, filepath.Join(t.TempDir(), CfgFile), func() { calls.Add(1) })
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })

	w.touch()
	clock.Advance(watchSettle / 2)
	w.touch()
	clock.Advance(watchSettle / 2)
	assert.Never(t, func() bool { return calls.Load() > 0 }, 100*time.Millisecond, 10*time.Millisecond,
		"restarted timer has not settled yet")

	clock.Advance(watchSettle)
	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 10*time.Millisecond)
}

func TestFileWatcher_CloseCancelsPendingChange(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	var calls atomic.Int32
	w, err := StartFileWatch(clock, filepath.Join(t.TempDir(), CfgFile), func() { calls.Add(1) })
	require.NoError(t, err)

	w.touch()
	require.NoError(t, w.Close())
	clock.Advance(2 * watchSettle)

	assert.Never(t, func() bool { return calls.Load() > 0 }, 100*time.Millisecond, 10*time.Millisecond)

	// events racing the close are ignored too
	w.touch()
	clock.Advance(2 * watchSettle)
	assert.Never(t, func() bool { return calls.Load() > 0 }, 100*time.Millisecond, 10*time.Millisecond)
}
