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
	"context"
	"fmt"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/tubes"
	"github.com/stretchr/testify/mock"
)

// MockDriver is a testify mock of a display driver.
type MockDriver struct {
	mock.Mock
}

// NewMockDriver returns a driver mock with ID, Open and Close set up.
func NewMockDriver() *MockDriver {
	m := &MockDriver{}
	m.On("ID").Return("mock").Maybe()
	m.On("Open", mock.Anything).Return(nil).Maybe()
	m.On("Close").Return(nil).Maybe()
	return m
}

func (m *MockDriver) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockDriver) Open(ctx context.Context) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock driver open failed: %w", err)
	}
	return nil
}

func (m *MockDriver) Show(f tubes.Frame) error {
	args := m.Called(f)
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock driver show failed: %w", err)
	}
	return nil
}

func (m *MockDriver) Close() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock driver close failed: %w", err)
	}
	return nil
}
