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

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Keys understood by the settings store. Values are exchanged as strings.
const (
	KeyHour24             = "time.hour_24"
	KeyNTPEnabled         = "time.ntp_enabled"
	KeyNTPServer          = "time.ntp_server"
	KeyNTPSyncInterval    = "time.ntp_sync_interval"
	KeyTimeZone           = "time.time_zone"
	KeySlotTime           = "display.slot.time"
	KeySlotDate           = "display.slot.date"
	KeySlotYear           = "display.slot.year"
	KeyDateFormat         = "display.date_format"
	KeyDisplayDriver      = "display.driver"
	KeyAnimation          = "display.animation"
	KeyAntiPoisonInterval = "display.anti_poison_interval"
	KeyDebugLogging       = "debug_logging"
)

// SettingsStore is the narrow key/value view of the settings used by
// operator tools. Put validates immediately, Commit persists.
type SettingsStore interface {
	Get(key string) (string, error)
	Put(key, value string) error
	Commit() error
}

type storeKey struct {
	get func(v *Values) string
	put func(v *Values, s string) error
}

func boolKey(field func(v *Values) *bool) storeKey {
	return storeKey{
		get: func(v *Values) string { return strconv.FormatBool(*field(v)) },
		put: func(v *Values, s string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(s))
			if err != nil {
				return err
			}
			*field(v) = b
			return nil
		},
	}
}

func intKey(field func(v *Values) *int) storeKey {
	return storeKey{
		get: func(v *Values) string { return strconv.Itoa(*field(v)) },
		put: func(v *Values, s string) error {
			n, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return err
			}
			*field(v) = n
			return nil
		},
	}
}

func stringKey(field func(v *Values) *string) storeKey {
	return storeKey{
		get: func(v *Values) string { return *field(v) },
		put: func(v *Values, s string) error {
			*field(v) = strings.TrimSpace(s)
			return nil
		},
	}
}

func slotKey(slot string) storeKey {
	return storeKey{
		get: func(v *Values) string {
			return strconv.FormatBool(slices.Contains(v.Display.Slots, slot))
		},
		put: func(v *Values, s string) error {
			b, err := strconv.ParseBool(strings.TrimSpace(s))
			if err != nil {
				return err
			}
			v.Display.Slots = setSlot(v.Display.Slots, slot, b)
			return nil
		},
	}
}

var storeKeys = map[string]storeKey{
	KeyHour24:             boolKey(func(v *Values) *bool { return &v.Time.Hour24 }),
	KeyNTPEnabled:         boolKey(func(v *Values) *bool { return &v.Time.NTPEnabled }),
	KeyNTPServer:          stringKey(func(v *Values) *string { return &v.Time.NTPServer }),
	KeyNTPSyncInterval:    intKey(func(v *Values) *int { return &v.Time.NTPSyncInterval }),
	KeyTimeZone:           stringKey(func(v *Values) *string { return &v.Time.TimeZone }),
	KeySlotTime:           slotKey(SlotTime),
	KeySlotDate:           slotKey(SlotDate),
	KeySlotYear:           slotKey(SlotYear),
	KeyDateFormat:         stringKey(func(v *Values) *string { return &v.Display.DateFormat }),
	KeyDisplayDriver:      stringKey(func(v *Values) *string { return &v.Display.Driver }),
	KeyAnimation:          boolKey(func(v *Values) *bool { return &v.Display.Animation }),
	KeyAntiPoisonInterval: intKey(func(v *Values) *int { return &v.Display.AntiPoisonInterval }),
	KeyDebugLogging:       boolKey(func(v *Values) *bool { return &v.DebugLogging }),
}

// Keys lists every settings store key, sorted.
func Keys() []string {
	keys := make([]string, 0, len(storeKeys))
	for k := range storeKeys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (c *Instance) Get(key string) (string, error) {
	k, ok := storeKeys[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return k.get(&c.vals), nil
}

// Put changes one value in memory. The change is rejected, and nothing
// modified, if the value does not parse or fails validation.
func (c *Instance) Put(key, value string) error {
	k, ok := storeKeys[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := cloneValues(c.vals)
	if err := k.put(&next, value); err != nil {
		return fmt.Errorf("%w: %s=%q: %w", ErrInvalidValue, key, value, err)
	}
	if err := c.validateValues(&next); err != nil {
		return err
	}
	c.vals = next
	return nil
}

// Commit writes pending changes to disk.
func (c *Instance) Commit() error {
	return c.Save()
}
