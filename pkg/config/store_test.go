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
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetPut(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key   string
		value string
	}{
		{key: KeyHour24, value: "false"},
		{key: KeyNTPEnabled, value: "false"},
		{key: KeyNTPServer, value: "pool.ntp.org"},
		{key: KeyNTPSyncInterval, value: "600"},
		{key: KeyTimeZone, value: "Europe/London"},
		{key: KeySlotYear, value: "true"},
		{key: KeyDateFormat, value: DateFormatMonthDay},
		{key: KeyAnimation, value: "false"},
		{key: KeyAntiPoisonInterval, value: "0"},
		{key: KeyDebugLogging, value: "true"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			cfg, _ := newTestConfig(t, "")

			require.NoError(t, cfg.Put(tt.key, tt.value))
			got, err := cfg.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.value, got)
		})
	}
}

func TestStore_UnknownKey(t *testing.T) {
	t.Parallel()

	cfg, _ := newTestConfig(t, "")
	_, err := cfg.Get("display.brightness")
	require.ErrorIs(t, err, ErrUnknownKey)
	require.ErrorIs(t, cfg.Put("display.brightness", "3"), ErrUnknownKey)
}

func TestStore_InvalidValueLeavesSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key   string
		value string
	}{
		{key: KeyHour24, value: "maybe"},
		{key: KeyNTPSyncInterval, value: "soon"},
		{key: KeyNTPSyncInterval, value: "5"},
		{key: KeyAntiPoisonInterval, value: "-1"},
		{key: KeyDateFormat, value: "YYDD"},
		{key: KeyNTPServer, value: "not a host!"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Parallel()
			cfg, _ := newTestConfig(t, "")
			before := cfg.Snapshot()

			require.ErrorIs(t, cfg.Put(tt.key, tt.value), ErrInvalidValue)
			assert.Equal(t, before, cfg.Snapshot())
		})
	}
}

func TestStore_Commit(t *testing.T) {
	t.Parallel()

	cfg, fs := newTestConfig(t, "")
	var store SettingsStore = cfg

	require.NoError(t, store.Put(KeySlotDate, "false"))
	require.NoError(t, store.Commit())

	reloaded, err := NewConfig(fs, testCfgPath, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, []string{SlotTime}, reloaded.DisplaySlots())
}

func TestKeys(t *testing.T) {
	t.Parallel()

	keys := Keys()
	assert.Len(t, keys, len(storeKeys))
	assert.IsIncreasing(t, keys)
	assert.Contains(t, keys, KeyTimeZone)

	cfg, err := NewConfig(afero.NewMemMapFs(), testCfgPath, BaseDefaults)
	require.NoError(t, err)
	for _, k := range keys {
		_, err := cfg.Get(k)
		require.NoError(t, err, k)
	}
}
