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

	"github.com/ZaparooProject/zaparoo-nixie/pkg/config"
	"github.com/stretchr/testify/require"
)

// TestConfigPath is where NewTestConfig keeps its settings file.
const TestConfigPath = "/etc/zaparoo-nixie/config.toml"

// NewTestConfig loads a settings instance on the helper's filesystem. An
// empty contents string starts from the defaults.
func NewTestConfig(t testing.TB, fs *FSHelper, contents string) *config.Instance {
	t.Helper()
	if contents != "" {
		require.NoError(t, fs.WriteFile(TestConfigPath, []byte(contents)))
	}
	cfg, err := config.NewConfig(fs.Fs, TestConfigPath, config.BaseDefaults)
	require.NoError(t, err)
	return cfg
}
