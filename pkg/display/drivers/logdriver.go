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
	"context"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/tubes"
	"github.com/rs/zerolog/log"
)

const LogDriverID = "log"

// LogDriver writes each frame to the log. Used for headless runs without a
// driver board.
type LogDriver struct{}

func NewLogDriver() *LogDriver {
	return &LogDriver{}
}

func (*LogDriver) ID() string {
	return LogDriverID
}

func (*LogDriver) Open(context.Context) error {
	return nil
}

func (*LogDriver) Show(f tubes.Frame) error {
	log.Debug().Str("tubes", f.String()).Msg("frame")
	return nil
}

func (*LogDriver) Close() error {
	return nil
}
