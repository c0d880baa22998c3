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

package mocks

import (
	"fmt"
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/clocks"
	"github.com/stretchr/testify/mock"
)

// MockClockHardware is a mock battery clock using testify/mock
type MockClockHardware struct {
	mock.Mock
}

func (m *MockClockHardware) Read() (int64, error) {
	args := m.Called()
	if err := args.Error(1); err != nil {
		return 0, fmt.Errorf("mock operation failed: %w", err)
	}
	return args.Get(0).(int64), nil //nolint:forcetypeassert // mock setup controls type
}

func (m *MockClockHardware) Write(epoch int64) error {
	args := m.Called(epoch)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock operation failed: %w", err)
	}
	return nil
}

func (m *MockClockHardware) EnableHeartbeat(rateHz int, beat func()) error {
	args := m.Called(rateHz, beat)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock operation failed: %w", err)
	}
	return nil
}

// MockNetworkTimeSync is a mock network time client. The registered
// callback is kept so tests can deliver results with Deliver.
type MockNetworkTimeSync struct {
	cb func(clocks.SyncResult)
	mock.Mock
}

func (m *MockNetworkTimeSync) Begin(server string, interval time.Duration) bool {
	args := m.Called(server, interval)
	return args.Bool(0)
}

func (m *MockNetworkTimeSync) Stop() {
	m.Called()
}

func (m *MockNetworkTimeSync) IsSyncCurrent() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockNetworkTimeSync) LastSyncedInstant() int64 {
	args := m.Called()
	return args.Get(0).(int64) //nolint:forcetypeassert // mock setup controls type
}

func (m *MockNetworkTimeSync) OnSyncEvent(cb func(clocks.SyncResult)) {
	m.cb = cb
}

// Deliver invokes the registered callback as the real client would from its
// own goroutine.
func (m *MockNetworkTimeSync) Deliver(res clocks.SyncResult) {
	if m.cb != nil {
		m.cb(res)
	}
}

// MockConnectivity is a mock link monitor
type MockConnectivity struct {
	mock.Mock
}

// Connected accepts either a bool or a func() bool return value, the latter
// for tests that flip the link mid-test.
func (m *MockConnectivity) Connected() bool {
	args := m.Called()
	if fn, ok := args.Get(0).(func() bool); ok {
		return fn()
	}
	return args.Bool(0)
}

// MockOffsetLookup is a mock time zone offset lookup
type MockOffsetLookup struct {
	mock.Mock
}

func (m *MockOffsetLookup) OffsetSecondsAt(epoch int64) (int32, error) {
	args := m.Called(epoch)
	if err := args.Error(1); err != nil {
		return 0, fmt.Errorf("mock operation failed: %w", err)
	}
	return args.Get(0).(int32), nil //nolint:forcetypeassert // mock setup controls type
}
