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
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/clocks"
)

var (
	// ErrSourceUnavailable is returned when the hardware clock is absent or
	// cannot be read.
	ErrSourceUnavailable = errors.New("time source unavailable")
	// ErrParse is returned for a malformed manual time or date.
	ErrParse = errors.New("invalid manual time entry")
)

// ClockHardware is the battery backed real time clock.
type ClockHardware interface {
	Read() (int64, error)
	Write(epoch int64) error
	// EnableHeartbeat starts calling beat rateHz times per second.
	EnableHeartbeat(rateHz int, beat func()) error
}

// NetworkTimeSync runs periodic network time queries in the background and
// reports each outcome through the registered callback. Begin must not
// block.
type NetworkTimeSync interface {
	Begin(server string, interval time.Duration) bool
	Stop()
	IsSyncCurrent() bool
	LastSyncedInstant() int64
	OnSyncEvent(cb func(clocks.SyncResult))
}

// Connectivity reports whether the network link is up.
type Connectivity interface {
	Connected() bool
}

// OffsetLookup returns the UTC offset of the configured zone at an instant.
type OffsetLookup interface {
	OffsetSecondsAt(epoch int64) (int32, error)
}

// Source identifies where the trusted instant last came from.
type Source int

const (
	SourceNone Source = iota
	SourceRTC
	SourceNetwork
	SourceManual
)

func (s Source) String() string {
	switch s {
	case SourceNone:
		return "none"
	case SourceRTC:
		return "rtc"
	case SourceNetwork:
		return "network"
	case SourceManual:
		return "manual"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// State is the reconciler lifecycle state.
type State int

const (
	StateBoot State = iota
	StateRTCLoaded
	StateNetworkPending
	StateSteady
	StateManualOverride
)

func (s State) String() string {
	switch s {
	case StateBoot:
		return "boot"
	case StateRTCLoaded:
		return "rtc_loaded"
	case StateNetworkPending:
		return "network_pending"
	case StateSteady:
		return "steady"
	case StateManualOverride:
		return "manual_override"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// IsValidTransition reports whether the reconciler may move from one state
// to another. A manual entry is accepted from anywhere.
func (s State) IsValidTransition(to State) bool {
	if s == to || to == StateManualOverride {
		return true
	}
	switch s {
	case StateBoot:
		return to == StateRTCLoaded || to == StateNetworkPending || to == StateSteady
	case StateRTCLoaded:
		return to == StateNetworkPending || to == StateSteady
	case StateNetworkPending:
		return to == StateSteady
	case StateSteady, StateManualOverride:
		return to == StateNetworkPending || to == StateSteady
	default:
		return false
	}
}

// TrustedInstant is a snapshot of the single wall clock value the device
// believes. Epoch and LastUpdated are UTC seconds.
type TrustedInstant struct {
	Epoch       int64
	LastUpdated int64
	Source      Source
}

// Settings is the part of the configuration the reconciler caches.
type Settings struct {
	NTPServer    string
	SyncInterval time.Duration
	NTPEnabled   bool
}
