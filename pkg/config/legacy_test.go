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
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func legacyImage(magic uint64) []byte {
	img := make([]byte, LegacyImageSize)
	img[legacyAddr24Hr] = 0
	img[legacyAddrNTPEnabled] = 1
	binary.LittleEndian.PutUint32(img[legacyAddrNTPInterval:], 900)
	copy(img[legacyAddrSSID:], "homewifi")
	copy(img[legacyAddrNTPServer:], "pool.ntp.org")
	copy(img[legacyAddrTimeZone:], "Europe/Berlin")
	binary.LittleEndian.PutUint64(img[legacyAddrMagic:], magic)
	return img
}

func TestImportLegacyEEPROM(t *testing.T) {
	t.Parallel()

	vals, err := ImportLegacyEEPROM(legacyImage(LegacyMagic), BaseDefaults)
	require.NoError(t, err)

	assert.False(t, vals.Time.Hour24)
	assert.True(t, vals.Time.NTPEnabled)
	assert.Equal(t, 900, vals.Time.NTPSyncInterval)
	assert.Equal(t, "pool.ntp.org", vals.Time.NTPServer)
	assert.Equal(t, "Europe/Berlin", vals.Time.TimeZone)
	assert.Equal(t, BaseDefaults.Display.Slots, vals.Display.Slots)
}

func TestImportLegacyEEPROM_MagicTag(t *testing.T) {
	t.Parallel()

	// the tag reads NIXIETAP in big endian order
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], LegacyMagic)
	assert.Equal(t, "NIXIETAP", string(b[:]))
}

func TestImportLegacyEEPROM_Errors(t *testing.T) {
	t.Parallel()

	_, err := ImportLegacyEEPROM(legacyImage(0xffffffffffffffff), BaseDefaults)
	require.ErrorIs(t, err, ErrLegacyUninitialized)

	_, err = ImportLegacyEEPROM(make([]byte, 100), BaseDefaults)
	require.Error(t, err)
}

func TestImportLegacyEEPROM_EmptyFieldsKeepBase(t *testing.T) {
	t.Parallel()

	img := make([]byte, LegacyImageSize)
	img[legacyAddr24Hr] = 1
	binary.LittleEndian.PutUint64(img[legacyAddrMagic:], LegacyMagic)

	vals, err := ImportLegacyEEPROM(img, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, DefaultNTPServer, vals.Time.NTPServer)
	assert.Equal(t, DefaultTimeZone, vals.Time.TimeZone)
	assert.Equal(t, DefaultNTPSyncInterval, vals.Time.NTPSyncInterval)
	assert.False(t, vals.Time.NTPEnabled)
}
