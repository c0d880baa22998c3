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

// Package tzoffset resolves UTC offsets for an IANA time zone. The zone
// database is embedded so lookups work on boards without /usr/share/zoneinfo.
package tzoffset

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"
)

const DefaultZone = "America/New_York"

var ErrConfigInvalid = errors.New("invalid time zone")

// Lookup answers offset queries for the configured zone. It is safe for
// concurrent use and can be re-pointed at another zone at any time.
type Lookup struct {
	loc atomic.Pointer[time.Location]
}

// New loads the named zone. On error the lookup is still usable and falls
// back to UTC.
func New(name string) (*Lookup, error) {
	l := &Lookup{}
	err := l.SetZone(name)
	return l, err
}

// SetZone switches to the named zone. An unknown name switches to UTC and
// returns an error wrapping ErrConfigInvalid.
func (l *Lookup) SetZone(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		l.loc.Store(time.UTC)
		return fmt.Errorf("%w: empty zone name", ErrConfigInvalid)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("zone", name).Msg("unknown time zone, falling back to UTC")
		l.loc.Store(time.UTC)
		return fmt.Errorf("%w: %q: %w", ErrConfigInvalid, name, err)
	}
	l.loc.Store(loc)
	log.Info().Str("zone", loc.String()).Msg("time zone set")
	return nil
}

// Zone is the name of the active zone.
func (l *Lookup) Zone() string {
	return l.location().String()
}

func (l *Lookup) location() *time.Location {
	if loc := l.loc.Load(); loc != nil {
		return loc
	}
	return time.UTC
}

// OffsetSecondsAt returns the zone offset in effect at a UTC instant.
func (l *Lookup) OffsetSecondsAt(epoch int64) (int32, error) {
	_, offset := time.Unix(epoch, 0).In(l.location()).Zone()
	return int32(offset), nil //nolint:gosec // zone offsets are within ±26h
}

// LocalToUTC converts a wall clock reading in the active zone to a UTC
// instant. Readings in a DST gap or overlap resolve the way time.Date does.
func (l *Lookup) LocalToUTC(year int, month time.Month, day, hour, minute, sec int) int64 {
	return time.Date(year, month, day, hour, minute, sec, 0, l.location()).Unix()
}

// Fixed is a lookup with a constant offset, for tests and for boards
// configured with a bare UTC offset.
type Fixed int32

func (f Fixed) OffsetSecondsAt(int64) (int32, error) {
	return int32(f), nil
}
