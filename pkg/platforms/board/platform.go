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

// Package board is the dedicated clock board platform: a single board
// computer wired to the tube driver on its on-board UART, running the clock
// as a system service.
package board

import (
	"fmt"
	"os"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/config"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/platforms"
)

const (
	DataDir       = "/var/lib/zaparoo-nixie"
	ConfigDir     = "/etc/zaparoo-nixie"
	LogDir        = "/var/log/zaparoo-nixie"
	TempDir       = "/run/zaparoo-nixie"
	DisplayDevice = "/dev/serial0"
)

type Platform struct{}

func NewPlatform() *Platform {
	return &Platform{}
}

func (*Platform) ID() string {
	return platforms.PlatformIDBoard
}

func (*Platform) Settings() platforms.Settings {
	return platforms.Settings{
		DataDir:       DataDir,
		ConfigDir:     ConfigDir,
		TempDir:       TempDir,
		LogDir:        LogDir,
		DisplayDevice: DisplayDevice,
	}
}

func (p *Platform) StartPre(_ *config.Instance) error {
	s := p.Settings()
	for _, dir := range []string{s.DataDir, s.TempDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

func (*Platform) Stop() error {
	return nil
}

func (*Platform) DefaultDisplayDriver(bool) string {
	return config.DisplayDriverSerial
}
