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
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/config"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/platforms"
	testhelpers "github.com/ZaparooProject/zaparoo-nixie/pkg/testing/helpers"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPathsPlatform() *mocks.MockPlatform {
	pl := mocks.NewMockPlatform()
	pl.On("Settings").Return(platforms.Settings{
		DataDir:   "/var/lib/zaparoo-nixie",
		ConfigDir: "/etc/zaparoo-nixie",
	}).Maybe()
	return pl
}

func TestConfigPath_PlatformDefault(t *testing.T) {
	t.Setenv(config.CfgEnv, "")
	assert.Equal(t, filepath.Join("/etc/zaparoo-nixie", config.CfgFile), ConfigPath(newPathsPlatform()))
}

func TestConfigPath_EnvOverride(t *testing.T) {
	t.Setenv(config.CfgEnv, "/tmp/nixie.toml")
	assert.Equal(t, "/tmp/nixie.toml", ConfigPath(newPathsPlatform()))
}

func TestRTCPath(t *testing.T) {
	t.Parallel()

	fs := testhelpers.NewMemoryFS()
	cfg := testhelpers.NewTestConfig(t, fs, "")
	assert.Equal(t, filepath.Join("/var/lib/zaparoo-nixie", config.RTCFile), RTCPath(newPathsPlatform(), cfg))

	require.NoError(t, fs.WriteFile(testhelpers.TestConfigPath, []byte("config_schema = 1\n\n[rtc]\npath = \"/mnt/rtc.db\"\n")))
	require.NoError(t, cfg.Load())
	assert.Equal(t, "/mnt/rtc.db", RTCPath(newPathsPlatform(), cfg))
}
