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

// Package netwatch tracks whether the time server can be reached and
// reports link changes.
package netwatch

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	DefaultPollInterval = 10 * time.Second
	probeTimeout        = 3 * time.Second
	ntpPort             = "123"
)

// ProbeFunc returns nil when host is reachable.
type ProbeFunc func(ctx context.Context, host string) error

// DialProbe resolves host and opens a UDP socket towards its NTP port. No
// packets are sent, so it only checks name resolution and routing.
func DialProbe(ctx context.Context, host string) error {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "udp", net.JoinHostPort(host, ntpPort))
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", host, err)
	}
	if err := conn.Close(); err != nil {
		log.Debug().Err(err).Msg("error closing probe socket")
	}
	return nil
}

// Monitor tracks whether the network is up and which host address it has.
type Monitor struct {
	clock     clockwork.Clock
	probe     ProbeFunc
	onChange  func(connected bool)
	host      string
	interval  time.Duration
	connected atomic.Bool
	mu        syncutil.RWMutex
}

// New creates a monitor that starts out disconnected. onChange is called
// from the monitor goroutine on every transition.
func New(
	clock clockwork.Clock,
	probe ProbeFunc,
	host string,
	interval time.Duration,
	onChange func(connected bool),
) *Monitor {
	if probe == nil {
		probe = DialProbe
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Monitor{
		clock:    clock,
		probe:    probe,
		host:     host,
		interval: interval,
		onChange: onChange,
	}
}

func (m *Monitor) Connected() bool {
	return m.connected.Load()
}

// SetHost changes the probed host, e.g. after the time server setting
// changed. It takes effect on the next poll.
func (m *Monitor) SetHost(host string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.host = host
}

func (m *Monitor) Host() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.host
}

// Run polls until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	ticker := m.clock.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.Poll(ctx)
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
		}
	}
}

// Poll probes once and reports a change.
func (m *Monitor) Poll(ctx context.Context) {
	host := m.Host()
	up := false
	if host != "" {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := m.probe(pctx, host)
		cancel()
		if err != nil {
			log.Debug().Err(err).Str("host", host).Msg("connectivity probe failed")
		} else {
			up = true
		}
	}

	if m.connected.Swap(up) == up {
		return
	}
	log.Info().Bool("connected", up).Str("host", host).Msg("connectivity changed")
	if m.onChange != nil {
		m.onChange(up)
	}
}
