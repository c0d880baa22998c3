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

// Package drivers connects rendered frames to a physical or simulated set
// of tubes. Writes from the render loop never block: frames are handed to
// an Output goroutine, and only the latest frame is kept.
package drivers

import (
	"context"
	"errors"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/tubes"
	"github.com/rs/zerolog/log"
)

var ErrUnknownDriver = errors.New("unknown display driver")

// Driver shows frames on a set of tubes. Show may block and is only ever
// called from one goroutine.
type Driver interface {
	ID() string
	Open(ctx context.Context) error
	Show(f tubes.Frame) error
	Close() error
}

// ButtonSource is implemented by drivers that can also act as the touch
// button, e.g. a key on the terminal preview.
type ButtonSource interface {
	SetButtonHandler(fn func())
}

// Output hands frames from the render loop to a Driver.
type Output struct {
	drv    Driver
	frames chan tubes.Frame
}

func NewOutput(drv Driver) *Output {
	return &Output{
		drv:    drv,
		frames: make(chan tubes.Frame, 1),
	}
}

func (o *Output) Driver() Driver {
	return o.drv
}

// Submit queues a frame, replacing any frame not yet shown.
func (o *Output) Submit(f tubes.Frame) {
	for {
		select {
		case o.frames <- f:
			return
		default:
		}
		select {
		case <-o.frames:
		default:
		}
	}
}

// Run shows submitted frames until ctx is done. Identical consecutive
// frames are written once. A failing driver is logged on the first error
// and again once it recovers.
func (o *Output) Run(ctx context.Context) error {
	var last tubes.Frame
	var shown, failing bool

	for {
		select {
		case <-ctx.Done():
			return nil
		case f := <-o.frames:
			if shown && f == last {
				continue
			}
			if err := o.drv.Show(f); err != nil {
				if !failing {
					log.Error().Err(err).Str("driver", o.drv.ID()).Msg("failed to show frame")
					failing = true
				}
				shown = false
				continue
			}
			if failing {
				log.Info().Str("driver", o.drv.ID()).Msg("display output recovered")
				failing = false
			}
			last = f
			shown = true
		}
	}
}
