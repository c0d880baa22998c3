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

package authority

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// parseManualEntry validates the three manual tokens and returns the local
// wall clock reading as seconds, as if it were UTC. Every bad token is
// reported, not just the first.
func parseManualEntry(hour, minute, date string) (int64, error) {
	var errs []error

	h, err := parseField("hour", hour, 23)
	if err != nil {
		errs = append(errs, err)
	}
	m, err := parseField("minute", minute, 59)
	if err != nil {
		errs = append(errs, err)
	}
	d, err := time.Parse(dateLayout, strings.TrimSpace(date))
	if err != nil {
		errs = append(errs, fmt.Errorf("date %q: %w", date, err))
	} else if d.Year() < 1970 {
		errs = append(errs, fmt.Errorf("date %q: year before 1970", date))
	}

	if len(errs) > 0 {
		return 0, fmt.Errorf("%w: %w", ErrParse, errors.Join(errs...))
	}

	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, time.UTC).Unix(), nil
}

func parseField(name, s string, maxVal int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 2 {
		return 0, fmt.Errorf("%s %q: want one or two digits", name, s)
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%s %q: not a number", name, s)
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, s, err)
	}
	if v > maxVal {
		return 0, fmt.Errorf("%s %d out of range 0-%d", name, v, maxVal)
	}
	return v, nil
}
