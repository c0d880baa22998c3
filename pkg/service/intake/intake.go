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

// Package intake hands signals from interrupt-like contexts (heartbeat,
// touch button, network sync callbacks, file watchers) to the main loop.
// Every producer method is non-blocking. The main loop consumes everything
// once per iteration with Drain.
package intake

import (
	"errors"
	"sync/atomic"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/clocks"
	"github.com/rs/zerolog/log"
)

const DefaultQueueSize = 16

var ErrQueueFull = errors.New("event queue full")

// Event is one of the typed events returned by Drain.
type Event interface {
	isEvent()
}

// ButtonPressed reports how many presses arrived since the last drain.
type ButtonPressed struct {
	Count int
}

// SyncCompleted carries the latest network sync result. Older undrained
// results are superseded.
type SyncCompleted struct {
	Result clocks.SyncResult
}

// ConnectivityChanged reports the latest network link state. Transitions
// that were superseded before a drain are not reported.
type ConnectivityChanged struct {
	Connected bool
}

// ManualEntry is an operator supplied wall clock time. Either Timestamp is
// set, or Hour, Minute and Date are.
type ManualEntry struct {
	Hour      string
	Minute    string
	Date      string
	Timestamp string
}

// ConfigReloaded reports that the settings file changed on disk.
type ConfigReloaded struct{}

func (ButtonPressed) isEvent()       {}
func (SyncCompleted) isEvent()       {}
func (ConnectivityChanged) isEvent() {}
func (ManualEntry) isEvent()         {}
func (ConfigReloaded) isEvent()      {}

type Intake struct {
	queue   chan Event
	sync    atomic.Pointer[clocks.SyncResult]
	link    atomic.Pointer[bool]
	presses atomic.Uint32
	dropped atomic.Uint64
	dot     atomic.Bool
}

// New creates an intake with a bounded queue of size events. Sizes below 1
// use DefaultQueueSize.
func New(size int) *Intake {
	if size < 1 {
		size = DefaultQueueSize
	}
	return &Intake{queue: make(chan Event, size)}
}

// ToggleDot flips the separator state. Called by the 1 Hz heartbeat.
func (in *Intake) ToggleDot() {
	for {
		old := in.dot.Load()
		if in.dot.CompareAndSwap(old, !old) {
			return
		}
	}
}

// Dot is the current separator state.
func (in *Intake) Dot() bool {
	return in.dot.Load()
}

// PressButton records one touch button edge.
func (in *Intake) PressButton() {
	in.presses.Add(1)
}

// PostSync stores a sync result in the single outstanding slot, replacing
// any result the main loop has not picked up yet.
func (in *Intake) PostSync(result clocks.SyncResult) {
	if prev := in.sync.Swap(&result); prev != nil {
		log.Debug().Msg("undrained sync result superseded")
	}
}

// PostConnectivity stores the link state in its own slot, so it is never
// lost to a full queue. The latest state wins.
func (in *Intake) PostConnectivity(connected bool) {
	if prev := in.link.Swap(&connected); prev != nil {
		log.Debug().Bool("connected", connected).Msg("undrained connectivity change superseded")
	}
}

// PostManual queues an operator entry. It returns ErrQueueFull instead of
// blocking when the main loop has fallen behind.
func (in *Intake) PostManual(entry ManualEntry) error {
	if !in.enqueue(entry) {
		return ErrQueueFull
	}
	return nil
}

// PostConfigReload queues a settings reload.
func (in *Intake) PostConfigReload() {
	if !in.enqueue(ConfigReloaded{}) {
		log.Warn().Msg("event queue full, config reload dropped")
	}
}

func (in *Intake) enqueue(ev Event) bool {
	select {
	case in.queue <- ev:
		return true
	default:
		in.dropped.Add(1)
		return false
	}
}

// Dropped is the number of events lost to a full queue.
func (in *Intake) Dropped() uint64 {
	return in.dropped.Load()
}

// Drain consumes everything pending. Button presses come first, then the
// sync result and the link state, then queued events in arrival order, so a
// manual entry in the same batch as a sync result is applied last.
func (in *Intake) Drain() []Event {
	var events []Event

	if n := in.presses.Swap(0); n > 0 {
		events = append(events, ButtonPressed{Count: int(n)})
	}
	if res := in.sync.Swap(nil); res != nil {
		events = append(events, SyncCompleted{Result: *res})
	}
	if connected := in.link.Swap(nil); connected != nil {
		events = append(events, ConnectivityChanged{Connected: *connected})
	}

	for {
		select {
		case ev := <-in.queue:
			events = append(events, ev)
		default:
			return events
		}
	}
}
