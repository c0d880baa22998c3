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

// Package platforms describes the hosts the clock runs on: where settings,
// state and logs live, and which tube output suits the host by default.
package platforms

import (
	"errors"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/config"
)

var ErrNotSupported = errors.New("operation not supported on this platform")

const (
	PlatformIDLinux = "linux"
	PlatformIDBoard = "board"
)

type Settings struct {
	// DataDir is where persistent state such as the battery clock
	// emulation is stored.
	DataDir string
	// ConfigDir is where the settings file is stored.
	ConfigDir string
	// TempDir holds files that may be removed between runs.
	TempDir string
	// LogDir holds the rotating log file.
	LogDir string
	// DisplayDevice is the default serial device of the tube driver board,
	// empty to autodetect.
	DisplayDevice string
}

type Platform interface {
	// ID is the unique identifier of the platform.
	ID() string
	// Settings returns the platform's directory layout.
	Settings() Settings
	// StartPre runs any setup needed before the service starts.
	StartPre(cfg *config.Instance) error
	// Stop runs cleanup after the service has stopped.
	Stop() error
	// DefaultDisplayDriver names the tube output used when the settings
	// file asks for auto.
	DefaultDisplayDriver(foreground bool) string
}
