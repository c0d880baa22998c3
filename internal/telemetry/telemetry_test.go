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

package telemetry

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty string", input: "", expected: ""},
		{name: "no user", input: "/usr/local/bin/nixie", expected: "/usr/local/bin/nixie"},
		{
			name:     "linux home",
			input:    "/home/pi/.config/zaparoo-nixie/config.toml",
			expected: "/home/<user>/.config/zaparoo-nixie/config.toml",
		},
		{
			name:     "linux home uppercase",
			input:    "/Home/Pi/rtc.db",
			expected: "/home/<user>/rtc.db",
		},
		{
			name:     "root home",
			input:    "/root/.local/share/zaparoo-nixie/rtc.db",
			expected: "/home/<user>/.local/share/zaparoo-nixie/rtc.db",
		},
		{
			name:     "macos users",
			input:    "/Users/alex/Library/zaparoo-nixie/nixie.log",
			expected: "/Users/<user>/Library/zaparoo-nixie/nixie.log",
		},
		{
			name:     "message with two paths",
			input:    "copying /home/alice/a to /home/bob/b",
			expected: "copying /home/<user>/a to /home/<user>/b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizePath(tt.input))
		})
	}
}

func TestSanitizeEvent(t *testing.T) {
	t.Parallel()

	event := &sentry.Event{
		ServerName: "nixie-kitchen",
		Message:    "failed to open /home/pi/rtc.db",
		Extra:      map[string]any{"path": "/home/pi/config.toml", "count": 3},
		Exception: []sentry.Exception{
			{
				Stacktrace: &sentry.Stacktrace{Frames: []sentry.Frame{
					{AbsPath: "/home/dev/src/nixie/main.go", Filename: "main.go"},
				}},
			},
			{},
		},
	}

	got := sanitizeEvent(event)
	require.NotNil(t, got)
	assert.Empty(t, got.ServerName)
	assert.Equal(t, "failed to open /home/<user>/rtc.db", got.Message)
	assert.Equal(t, "/home/<user>/config.toml", got.Extra["path"])
	assert.Equal(t, 3, got.Extra["count"])
	assert.Equal(t, "/home/<user>/src/nixie/main.go", got.Exception[0].Stacktrace.Frames[0].AbsPath)
}

func TestInit_EmptyDSN(t *testing.T) {
	t.Parallel()

	require.NoError(t, Init("", "device", "linux"))
	assert.False(t, Enabled())
	Close()
	Flush()
}
