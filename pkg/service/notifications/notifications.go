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

// Package notifications defines the events the clock announces to outside
// listeners, and helpers to send them without blocking the caller.
package notifications

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
)

const (
	MethodStarted        = "clock.started"
	MethodTimeSource     = "time.source"
	MethodTimeSyncFailed = "time.sync_failed"
	MethodDisplaySlot    = "display.slot"
	MethodConnectivity   = "network.connectivity"
)

type Notification struct {
	Method string
	Params json.RawMessage
}

type StartedParams struct {
	SessionID string `json:"sessionId"`
	DeviceID  string `json:"deviceId"`
	Platform  string `json:"platform"`
	Degraded  bool   `json:"degraded"`
}

type TimeSourceParams struct {
	Source string `json:"source"`
	State  string `json:"state"`
	Epoch  int64  `json:"epoch"`
}

type SyncFailedParams struct {
	Server string `json:"server"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
}

type DisplaySlotParams struct {
	Slot string `json:"slot"`
}

type ConnectivityParams struct {
	Connected bool `json:"connected"`
}

// send queues a notification if there is room. The main loop must never
// wait on listeners.
func send(ns chan<- Notification, method string, params any) {
	var raw json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			log.Error().Err(err).Str("method", method).Msg("failed to marshal notification")
			return
		}
		raw = b
	}

	select {
	case ns <- Notification{Method: method, Params: raw}:
	default:
		log.Warn().Str("method", method).Msg("notification queue full, dropping notification")
	}
}

func Started(ns chan<- Notification, p StartedParams) {
	send(ns, MethodStarted, p)
}

func TimeSourceChanged(ns chan<- Notification, p TimeSourceParams) {
	send(ns, MethodTimeSource, p)
}

func TimeSyncFailed(ns chan<- Notification, p SyncFailedParams) {
	send(ns, MethodTimeSyncFailed, p)
}

func DisplaySlotChanged(ns chan<- Notification, slot string) {
	send(ns, MethodDisplaySlot, DisplaySlotParams{Slot: slot})
}

func ConnectivityChanged(ns chan<- Notification, connected bool) {
	send(ns, MethodConnectivity, ConnectivityParams{Connected: connected})
}
