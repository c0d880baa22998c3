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

package service

import (
	"fmt"
	"strings"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/config"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/renderer"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/authority"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/intake"
	"github.com/rs/zerolog/log"
)

func authoritySettings(cfg *config.Instance) authority.Settings {
	return authority.Settings{
		NTPEnabled:   cfg.NTPEnabled(),
		NTPServer:    cfg.NTPServer(),
		SyncInterval: cfg.NTPSyncInterval(),
	}
}

// rendererSettings maps the display section onto renderer settings. Bad
// slot names and date formats are logged and skipped.
func rendererSettings(cfg *config.Instance) renderer.Settings {
	s := renderer.DefaultSettings()

	s.EnabledSlots = nil
	for _, name := range cfg.DisplaySlots() {
		slot, err := renderer.ParseSlot(name)
		if err != nil {
			log.Warn().Err(err).Msg("ignoring display slot")
			continue
		}
		s.EnabledSlots = append(s.EnabledSlots, slot)
	}

	df, err := renderer.ParseDateFormat(cfg.DateFormat())
	if err != nil {
		log.Warn().Err(err).Msg("using default date format")
	}
	s.DateFormat = df

	s.Hour24 = cfg.Hour24()
	s.Animate = cfg.AnimationEnabled()
	s.AnimationSteps = cfg.AnimationSteps()
	s.AnimationStep = cfg.AnimationStep()
	s.AntiPoisonInterval = cfg.AntiPoisonInterval()
	return s
}

// ParseManualEntry reads a manual time from the command line, either as
// "HH:MM YYYY-MM-DD" local time or as an RFC 3339 timestamp. Field values
// are checked later when the entry is applied.
func ParseManualEntry(arg string) (intake.ManualEntry, error) {
	arg = strings.TrimSpace(arg)
	if strings.Contains(arg, "T") {
		return intake.ManualEntry{Timestamp: arg}, nil
	}

	clock, date, ok := strings.Cut(arg, " ")
	if !ok {
		return intake.ManualEntry{}, fmt.Errorf("%w: expected \"HH:MM YYYY-MM-DD\", got %q", authority.ErrParse, arg)
	}
	hour, minute, ok := strings.Cut(clock, ":")
	if !ok {
		return intake.ManualEntry{}, fmt.Errorf("%w: expected HH:MM, got %q", authority.ErrParse, clock)
	}
	return intake.ManualEntry{
		Hour:   hour,
		Minute: minute,
		Date:   strings.TrimSpace(date),
	}, nil
}
