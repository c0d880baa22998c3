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

import "time"

const (
	DefaultNTPServer       = "time.google.com"
	DefaultNTPSyncInterval = 3671
	DefaultTimeZone        = "America/New_York"
)

type Time struct {
	NTPServer string `toml:"ntp_server" validate:"omitempty,hostname|ip"`
	TimeZone  string `toml:"time_zone"`
	// NTPSyncInterval is in seconds.
	NTPSyncInterval int  `toml:"ntp_sync_interval" validate:"min=16,max=604800"`
	Hour24          bool `toml:"hour_24"`
	NTPEnabled      bool `toml:"ntp_enabled"`
}

func (c *Instance) Hour24() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Time.Hour24
}

func (c *Instance) SetHour24(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Time.Hour24 = enabled
}

func (c *Instance) NTPEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Time.NTPEnabled
}

func (c *Instance) SetNTPEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Time.NTPEnabled = enabled
}

func (c *Instance) NTPServer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Time.NTPServer == "" {
		return DefaultNTPServer
	}
	return c.vals.Time.NTPServer
}

func (c *Instance) NTPSyncInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.vals.Time.NTPSyncInterval) * time.Second
}

// TimeZone is the IANA zone name used for display.
func (c *Instance) TimeZone() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Time.TimeZone
}
