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
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Layout of the settings image written by the original ESP8266 firmware.
// Fields live at fixed addresses with no version, so the image is read once
// and converted to typed values.
const (
	LegacyImageSize        = 512
	LegacyMagic     uint64 = 0x4e49584945544150

	legacyAddr24Hr        = 10
	legacyAddrNTPEnabled  = 11
	legacyAddrNTPInterval = 50
	legacyAddrSSID        = 100
	legacyAddrNTPServer   = 200
	legacyAddrTimeZone    = 250
	legacyAddrMagic       = 500
	legacyStringLen       = 50
)

var ErrLegacyUninitialized = errors.New("legacy settings image was never initialised")

// ImportLegacyEEPROM converts a dumped settings image into values, starting
// from base for everything the image does not hold. Wi-Fi credentials in the
// image are ignored.
//
//nolint:gocritic // config struct copied for immutability
func ImportLegacyEEPROM(image []byte, base Values) (Values, error) {
	if len(image) < LegacyImageSize {
		return base, fmt.Errorf("legacy image is %d bytes, want %d", len(image), LegacyImageSize)
	}

	magic := binary.LittleEndian.Uint64(image[legacyAddrMagic:])
	if magic != LegacyMagic {
		return base, fmt.Errorf("%w: magic %#x", ErrLegacyUninitialized, magic)
	}

	vals := cloneValues(base)
	vals.Time.Hour24 = image[legacyAddr24Hr] != 0
	vals.Time.NTPEnabled = image[legacyAddrNTPEnabled] != 0

	if interval := binary.LittleEndian.Uint32(image[legacyAddrNTPInterval:]); interval > 0 {
		vals.Time.NTPSyncInterval = int(interval)
	}
	if server := legacyString(image, legacyAddrNTPServer); server != "" {
		vals.Time.NTPServer = server
	}
	if zone := legacyString(image, legacyAddrTimeZone); zone != "" {
		vals.Time.TimeZone = zone
	}

	if legacyString(image, legacyAddrSSID) != "" {
		log.Info().Msg("legacy image holds Wi-Fi credentials, not imported")
	}

	return vals, nil
}

func legacyString(image []byte, addr int) string {
	field := image[addr : addr+legacyStringLen]
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	return string(bytes.TrimSpace(field))
}
