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

package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

// linuxSerialPrefixes are the device names a tube driver board shows up as:
// USB serial adapters, CDC boards and the on-board UART of single board
// computers.
var linuxSerialPrefixes = []string{"ttyUSB", "ttyACM", "ttyAMA", "ttyS0", "serial"}

func isTubeSerialName(name string) bool {
	return slices.ContainsFunc(linuxSerialPrefixes, func(p string) bool {
		return strings.HasPrefix(name, p)
	})
}

func getLinuxList(path string) ([]string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	devices := make([]string, 0, len(entries))
	for _, v := range entries {
		if v.IsDir() || !isTubeSerialName(v.Name()) {
			continue
		}
		devices = append(devices, filepath.Join(path, v.Name()))
	}

	return devices, nil
}

// GetSerialDeviceList returns candidate serial devices for a tube driver
// board, most likely first.
func GetSerialDeviceList() ([]string, error) {
	switch runtime.GOOS {
	case "linux":
		return getLinuxList("/dev")
	case "darwin":
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("failed to get serial ports list on darwin: %w", err)
		}
		var devices []string
		for _, v := range ports {
			if strings.HasPrefix(v, "/dev/tty.usbserial") || strings.HasPrefix(v, "/dev/tty.usbmodem") {
				devices = append(devices, v)
			}
		}
		return devices, nil
	default:
		ports, err := serial.GetPortsList()
		if err != nil {
			return nil, fmt.Errorf("failed to get serial ports list: %w", err)
		}
		log.Debug().Strs("ports", ports).Msg("serial ports")
		return ports, nil
	}
}
