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

package drivers

import (
	"fmt"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/config"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/drivers/serialtube"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/drivers/terminal"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/platforms"
	"github.com/jonboulle/clockwork"
)

// ResolveID returns the driver the settings ask for, asking the platform
// when set to auto.
func ResolveID(cfg *config.Instance, pl platforms.Platform, foreground bool) string {
	id := cfg.DisplayDriver()
	if id == config.DisplayDriverAuto || id == "" {
		id = pl.DefaultDisplayDriver(foreground)
	}
	return id
}

// Select builds the configured driver. It is not opened.
func Select(
	cfg *config.Instance,
	pl platforms.Platform,
	clock clockwork.Clock,
	foreground bool,
) (Driver, error) {
	id := ResolveID(cfg, pl, foreground)
	switch id {
	case config.DisplayDriverSerial:
		device := cfg.DisplayDevice()
		if device == "" {
			device = pl.Settings().DisplayDevice
		}
		return serialtube.New(serialtube.Config{
			Path:     device,
			BaudRate: cfg.DisplayBaudRate(),
		}, clock), nil
	case config.DisplayDriverTerminal:
		return terminal.New(nil), nil
	case config.DisplayDriverLog:
		return NewLogDriver(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, id)
	}
}
