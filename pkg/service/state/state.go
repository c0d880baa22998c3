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

package state

import (
	"context"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/notifications"
)

// NotificationBuffer is the size of the outgoing notification queue.
const NotificationBuffer = 100

// TimeStatus is the announced view of the trusted time.
type TimeStatus struct {
	Source string
	State  string
}

// State holds what the service last announced to listeners, so each change
// is sent once.
//
// LOCKING RULES: mu protects all mutable fields. Never send to the
// notification channel while holding it: lock, compare and copy, unlock,
// then send.
type State struct {
	ctx           context.Context
	ctxCancelFunc context.CancelFunc
	Notifications chan<- notifications.Notification
	sessionID     string
	time          TimeStatus
	slot          string
	mu            syncutil.RWMutex
	connected     bool
	connKnown     bool
	degraded      bool
	stopService   bool
}

func NewState(sessionID string) (state *State, notificationCh <-chan notifications.Notification) {
	ns := make(chan notifications.Notification, NotificationBuffer)
	ctx, ctxCancelFunc := context.WithCancel(context.Background())
	return &State{
		Notifications: ns,
		ctx:           ctx,
		ctxCancelFunc: ctxCancelFunc,
		sessionID:     sessionID,
	}, ns
}

func (s *State) GetContext() context.Context {
	return s.ctx
}

func (s *State) SessionID() string {
	return s.sessionID
}

func (s *State) StopService() {
	s.mu.Lock()
	s.stopService = true
	s.mu.Unlock()
	s.ctxCancelFunc()
}

func (s *State) Stopping() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopService
}

func (s *State) SetDegraded(degraded bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.degraded = degraded
}

func (s *State) Degraded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// SetTimeStatus records the trusted time source and reconciler state,
// announcing it if either differs from the last announcement.
func (s *State) SetTimeStatus(status TimeStatus, epoch int64) {
	s.mu.Lock()
	if s.time == status {
		s.mu.Unlock()
		return
	}
	s.time = status
	s.mu.Unlock()

	notifications.TimeSourceChanged(s.Notifications, notifications.TimeSourceParams{
		Source: status.Source,
		State:  status.State,
		Epoch:  epoch,
	})
}

func (s *State) TimeStatus() TimeStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.time
}

// SetSlot records the slot on the tubes and announces changes.
func (s *State) SetSlot(slot string) {
	s.mu.Lock()
	if s.slot == slot {
		s.mu.Unlock()
		return
	}
	s.slot = slot
	s.mu.Unlock()

	notifications.DisplaySlotChanged(s.Notifications, slot)
}

func (s *State) Slot() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slot
}

// SetConnected records the network link state. The first report is always
// announced.
func (s *State) SetConnected(connected bool) {
	s.mu.Lock()
	if s.connKnown && s.connected == connected {
		s.mu.Unlock()
		return
	}
	s.connKnown = true
	s.connected = connected
	s.mu.Unlock()

	notifications.ConnectivityChanged(s.Notifications, connected)
}

func (s *State) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}
