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
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCfgPath = "/etc/zaparoo-nixie/config.toml"

func newTestConfig(t *testing.T, contents string) (*Instance, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	if contents != "" {
		require.NoError(t, afero.WriteFile(fs, testCfgPath, []byte(contents), 0o600))
	}
	cfg, err := NewConfig(fs, testCfgPath, BaseDefaults)
	require.NoError(t, err)
	return cfg, fs
}

func TestNewConfig_WritesDefaults(t *testing.T) {
	t.Parallel()

	cfg, fs := newTestConfig(t, "")

	exists, err := afero.Exists(fs, testCfgPath)
	require.NoError(t, err)
	assert.True(t, exists)

	assert.True(t, cfg.Hour24())
	assert.True(t, cfg.NTPEnabled())
	assert.Equal(t, DefaultNTPServer, cfg.NTPServer())
	assert.Equal(t, 3671*time.Second, cfg.NTPSyncInterval())
	assert.Equal(t, DefaultTimeZone, cfg.TimeZone())
	assert.Equal(t, []string{SlotTime, SlotDate}, cfg.DisplaySlots())
	assert.Equal(t, DisplayDriverAuto, cfg.DisplayDriver())
	assert.Equal(t, 20*time.Millisecond, cfg.RefreshPeriod())
	assert.NotEmpty(t, cfg.DeviceID())
}

func TestNewConfig_EmptyPath(t *testing.T) {
	t.Parallel()

	_, err := NewConfig(afero.NewMemMapFs(), "", BaseDefaults)
	require.Error(t, err)
}

func TestLoad_PreservesDefaultsForMissingFields(t *testing.T) {
	t.Parallel()

	cfg, _ := newTestConfig(t, `
config_schema = 1

[time]
hour_24 = false
time_zone = "Europe/Berlin"
`)

	assert.False(t, cfg.Hour24())
	assert.Equal(t, "Europe/Berlin", cfg.TimeZone())
	assert.Equal(t, DefaultNTPServer, cfg.NTPServer())
	assert.Equal(t, 3671*time.Second, cfg.NTPSyncInterval())
	assert.Equal(t, DefaultAntiPoisonInterval, cfg.AntiPoisonInterval())
	assert.True(t, cfg.AnimationEnabled())
}

func TestLoad_SlotsReplaceDefaults(t *testing.T) {
	t.Parallel()

	cfg, _ := newTestConfig(t, `
config_schema = 1

[display]
slots = ["year"]
`)

	assert.Equal(t, []string{SlotYear}, cfg.DisplaySlots())
	assert.False(t, cfg.SlotEnabled(SlotTime))
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		contents string
		wantErr  error
	}{
		{
			name:     "schema mismatch",
			contents: "config_schema = 7\n",
			wantErr:  ErrSchemaMismatch,
		},
		{
			name:     "unknown slot",
			contents: "config_schema = 1\n[display]\nslots = [\"weather\"]\n",
			wantErr:  ErrInvalidValue,
		},
		{
			name:     "interval too short",
			contents: "config_schema = 1\n[time]\nntp_sync_interval = 1\n",
			wantErr:  ErrInvalidValue,
		},
		{
			name:     "bad driver",
			contents: "config_schema = 1\n[display]\ndriver = \"hdmi\"\n",
			wantErr:  ErrInvalidValue,
		},
		{
			name:     "mqtt publisher without broker",
			contents: "config_schema = 1\n[[publishers.mqtt]]\ntopic = \"nixie\"\n",
			wantErr:  ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, testCfgPath, []byte(tt.contents), 0o600))

			_, err := NewConfig(fs, testCfgPath, BaseDefaults)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoad_InvalidFileKeepsPreviousValues(t *testing.T) {
	t.Parallel()

	cfg, fs := newTestConfig(t, "")
	require.NoError(t, afero.WriteFile(fs, testCfgPath, []byte("config_schema = 1\n[display]\nrefresh_ms = 0\n"), 0o600))

	require.ErrorIs(t, cfg.Load(), ErrInvalidValue)
	assert.Equal(t, 20*time.Millisecond, cfg.RefreshPeriod())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	cfg, fs := newTestConfig(t, "")
	cfg.SetHour24(false)
	cfg.SetNTPEnabled(false)
	cfg.SetSlotEnabled(SlotYear, true)
	cfg.SetDebugLogging(true)
	require.NoError(t, cfg.Save())

	reloaded, err := NewConfig(fs, testCfgPath, BaseDefaults)
	require.NoError(t, err)
	assert.False(t, reloaded.Hour24())
	assert.False(t, reloaded.NTPEnabled())
	assert.True(t, reloaded.DebugLogging())
	assert.Equal(t, []string{SlotTime, SlotDate, SlotYear}, reloaded.DisplaySlots())
	assert.Equal(t, cfg.DeviceID(), reloaded.DeviceID())
}

func TestSnapshot_IsACopy(t *testing.T) {
	t.Parallel()

	cfg, _ := newTestConfig(t, "")
	snap := cfg.Snapshot()
	snap.Display.Slots[0] = SlotYear

	assert.Equal(t, []string{SlotTime, SlotDate}, cfg.DisplaySlots())
}

func TestSetSlotEnabled_KeepsOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{SlotTime, SlotYear}, setSlot([]string{SlotYear}, SlotTime, true))
	assert.Equal(t, []string{SlotDate}, setSlot([]string{SlotTime, SlotDate}, SlotTime, false))
	assert.Equal(t, []string{SlotTime}, setSlot([]string{SlotTime, SlotTime}, SlotDate, false))
}

func TestGetMQTTPublishers(t *testing.T) {
	t.Parallel()

	cfg, _ := newTestConfig(t, `
config_schema = 1

[[publishers.mqtt]]
broker = "tcp://localhost:1883"
topic = "nixie/events"
filter = ["time.source"]
`)

	pubs := cfg.GetMQTTPublishers()
	require.Len(t, pubs, 1)
	assert.Equal(t, "tcp://localhost:1883", pubs[0].Broker)
	assert.Equal(t, []string{"time.source"}, pubs[0].Filter)
	assert.Nil(t, pubs[0].Enabled)
}

func TestErrorReportingDSN(t *testing.T) {
	t.Parallel()

	cfg, _ := newTestConfig(t, `
config_schema = 1

[error_reporting]
dsn = "https://key@sentry.example.com/1"
`)
	assert.Empty(t, cfg.ErrorReportingDSN(), "disabled by default")

	on, _ := newTestConfig(t, `
config_schema = 1

[error_reporting]
enabled = true
dsn = "https://key@sentry.example.com/1"
`)
	assert.Equal(t, "https://key@sentry.example.com/1", on.ErrorReportingDSN())
}

func TestReplace(t *testing.T) {
	t.Parallel()

	cfg, _ := newTestConfig(t, "")
	id := cfg.DeviceID()

	vals := cfg.Snapshot()
	vals.DeviceID = ""
	vals.Time.TimeZone = "Asia/Tokyo"
	require.NoError(t, cfg.Replace(vals))
	assert.Equal(t, "Asia/Tokyo", cfg.TimeZone())
	assert.Equal(t, id, cfg.DeviceID())

	vals.Display.RefreshMs = 0
	require.ErrorIs(t, cfg.Replace(vals), ErrInvalidValue)
	assert.Equal(t, 20*time.Millisecond, cfg.RefreshPeriod())
}
