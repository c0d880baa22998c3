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
	"os"
	"path/filepath"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/config"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/platforms"
)

// ConfigPath returns the settings file location. The CfgEnv environment
// variable overrides the platform default.
func ConfigPath(pl platforms.Platform) string {
	if p := os.Getenv(config.CfgEnv); p != "" {
		return p
	}
	return filepath.Join(pl.Settings().ConfigDir, config.CfgFile)
}

// RTCPath returns where the battery clock emulation keeps its state.
func RTCPath(pl platforms.Platform, cfg *config.Instance) string {
	if p := cfg.RTCPath(); p != "" {
		return p
	}
	return filepath.Join(pl.Settings().DataDir, config.RTCFile)
}
