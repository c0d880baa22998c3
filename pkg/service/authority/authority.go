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

// Package authority reconciles the battery clock, network time and manual
// entries into one trusted wall clock value. Manual entries always win over
// network results requested before them, and every accepted correction is
// written back to the battery clock so the next boot starts from it.
package authority

import (
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/clocks"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// Authority is driven by the main loop. Read-only accessors are safe to call
// from other goroutines.
type Authority struct {
	anchorAt    time.Time
	cutoff      time.Time
	clock       clockwork.Clock
	hw          ClockHardware
	ntp         NetworkTimeSync
	conn        Connectivity
	offsets     OffsetLookup
	lastOffErr  error
	cfg         Settings
	anchorEpoch int64
	lastUpdated int64
	source      Source
	state       State
	mu          syncutil.RWMutex
	syncing     bool

	// manualHold blocks network syncs after a manual entry until NTP is
	// switched off and on again.
	manualHold bool
}

// New creates a reconciler in the boot state. conn may be nil, in which case
// the network is assumed to be up.
func New(
	clock clockwork.Clock,
	hw ClockHardware,
	ntp NetworkTimeSync,
	conn Connectivity,
	offsets OffsetLookup,
) *Authority {
	return &Authority{
		clock:   clock,
		hw:      hw,
		ntp:     ntp,
		conn:    conn,
		offsets: offsets,
		state:   StateBoot,
	}
}

// LoadFromHardwareClock trusts whatever the battery clock holds. Only a
// missing or unreadable clock is an error. Implausible values are accepted.
func (a *Authority) LoadFromHardwareClock() error {
	if a.hw == nil {
		return fmt.Errorf("%w: no hardware clock", ErrSourceUnavailable)
	}
	epoch, err := a.hw.Read()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	if !helpers.IsClockReliable(time.Unix(epoch, 0)) {
		log.Warn().Int64("epoch", epoch).Msg("hardware clock looks unset, trusting it until a better source arrives")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.setInstantLocked(epoch, SourceRTC)
	a.transitionLocked(StateRTCLoaded)
	log.Info().Int64("epoch", epoch).Msg("loaded time from hardware clock")
	return nil
}

// RequestNetworkSync starts the network time client when NTP is enabled, no
// manual entry holds the time and the link is up. It returns true only if a
// new sync was started.
func (a *Authority) RequestNetworkSync() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requestLocked()
}

func (a *Authority) requestLocked() bool {
	switch {
	case a.syncing:
		return false
	case a.manualHold:
		log.Debug().Msg("manual time set, network time sync held")
		a.settleLocked()
		return false
	case !a.cfg.NTPEnabled, a.ntp == nil:
		a.settleLocked()
		return false
	case a.conn != nil && !a.conn.Connected():
		log.Debug().Msg("network down, network time sync deferred")
		a.settleLocked()
		return false
	}

	if !a.ntp.Begin(a.cfg.NTPServer, a.cfg.SyncInterval) {
		log.Warn().Str("server", a.cfg.NTPServer).Msg("network time client failed to start")
		a.settleLocked()
		return false
	}
	a.syncing = true
	a.transitionLocked(StateNetworkPending)
	log.Info().
		Str("server", a.cfg.NTPServer).
		Dur("interval", a.cfg.SyncInterval).
		Msg("network time sync started")
	return true
}

// settleLocked leaves the loaded or pending state when no network sync is
// going to answer.
func (a *Authority) settleLocked() {
	if a.source != SourceNone && (a.state == StateRTCLoaded || a.state == StateNetworkPending) {
		a.transitionLocked(StateSteady)
	}
}

// StopNetworkSync stops the network time client. Results of queries sent
// before the stop are ignored.
func (a *Authority) StopNetworkSync() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
	a.settleLocked()
}

func (a *Authority) stopLocked() {
	a.cutoff = a.clock.Now()
	if !a.syncing {
		return
	}
	a.ntp.Stop()
	a.syncing = false
	log.Info().Msg("network time sync stopped")
}

// OnConnectivityChanged starts syncing when the link comes up and stops it
// when the link goes down.
func (a *Authority) OnConnectivityChanged(connected bool) {
	if connected {
		a.RequestNetworkSync()
		return
	}
	a.StopNetworkSync()
}

// OnNetworkSyncEvent consumes one network sync outcome. Successes replace
// the trusted instant and are written to the hardware clock. Failures are
// only logged, the sync client owns retries.
func (a *Authority) OnNetworkSyncEvent(res clocks.SyncResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.cutoff.IsZero() && !res.RequestedAt.After(a.cutoff) {
		log.Debug().
			Time("requested", res.RequestedAt).
			Time("cutoff", a.cutoff).
			Msg("ignoring network time result requested before last override")
		return
	}

	if a.manualHold && res.OK() {
		log.Debug().Msg("ignoring network time while manual time is held")
		return
	}

	if !res.OK() {
		log.Warn().
			Err(res.Err).
			Str("kind", res.Kind.String()).
			Str("server", res.Server).
			Msg("network time sync failed")
		return
	}

	a.setInstantLocked(res.Epoch, SourceNetwork)
	a.transitionLocked(StateSteady)
	log.Info().Int64("epoch", res.Epoch).Str("server", res.Server).Msg("time set from network")
	a.writeHardwareLocked(res.Epoch)
}

// ApplyManualEntry sets the time from separate hour, minute and YYYY-MM-DD
// date tokens given in local time. Malformed tokens return an error wrapping
// ErrParse and leave everything unchanged.
func (a *Authority) ApplyManualEntry(hour, minute, date string) error {
	local, err := parseManualEntry(hour, minute, date)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.applyManualLocked(a.localToUTCLocked(local))
	return nil
}

// ApplyManualTimestamp sets the time from an RFC 3339 timestamp with an
// explicit offset, e.g. 2024-01-02T15:04:05+01:00.
func (a *Authority) ApplyManualTimestamp(ts string) error {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.applyManualLocked(t.Unix())
	return nil
}

func (a *Authority) applyManualLocked(epoch int64) {
	a.stopLocked()
	a.manualHold = true
	a.setInstantLocked(epoch, SourceManual)
	a.transitionLocked(StateManualOverride)
	log.Info().Int64("epoch", epoch).Msg("time set manually")
	a.writeHardwareLocked(epoch)
}

// localToUTCLocked converts a local wall clock reading, expressed as if it
// were UTC, to a real UTC instant. The offset is looked up twice so readings
// near a DST change use the offset in effect at the result.
func (a *Authority) localToUTCLocked(local int64) int64 {
	utc := local - int64(a.offsetLocked(local))
	return local - int64(a.offsetLocked(utc))
}

// CurrentInstantWithOffset returns the trusted instant shifted into local
// time. The offset is looked up on every call since it changes with DST.
func (a *Authority) CurrentInstantWithOffset() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	epoch := a.currentLocked()
	return epoch + int64(a.offsetLocked(epoch))
}

func (a *Authority) offsetLocked(epoch int64) int32 {
	if a.offsets == nil {
		return 0
	}
	off, err := a.offsets.OffsetSecondsAt(epoch)
	if err != nil {
		if a.lastOffErr == nil || a.lastOffErr.Error() != err.Error() {
			log.Error().Err(err).Msg("time zone offset lookup failed, using UTC")
		}
		a.lastOffErr = err
		return 0
	}
	a.lastOffErr = nil
	return off
}

// Snapshot returns the trusted instant as of now.
func (a *Authority) Snapshot() TrustedInstant {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return TrustedInstant{
		Epoch:       a.currentLocked(),
		Source:      a.source,
		LastUpdated: a.lastUpdated,
	}
}

// HasTime reports whether any source has been accepted yet.
func (a *Authority) HasTime() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.source != SourceNone
}

// State returns the lifecycle state.
func (a *Authority) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// Syncing reports whether the network time client is running.
func (a *Authority) Syncing() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.syncing
}

// ApplyConfig caches new settings. Disabling NTP stops the client, a changed
// server or interval restarts it, and enabling it starts it if the link is
// up. Only switching NTP from off to on lifts a manual entry's hold.
func (a *Authority) ApplyConfig(s Settings) {
	a.mu.Lock()
	defer a.mu.Unlock()

	prev := a.cfg
	a.cfg = s

	if a.manualHold && !prev.NTPEnabled && s.NTPEnabled {
		log.Info().Msg("network time re-enabled, releasing manual hold")
		a.manualHold = false
	}

	if !s.NTPEnabled {
		a.stopLocked()
		a.settleLocked()
		return
	}

	if a.syncing && (prev.NTPServer != s.NTPServer || prev.SyncInterval != s.SyncInterval) {
		log.Info().Str("server", s.NTPServer).Msg("network time settings changed, restarting sync")
		a.stopLocked()
	}
	a.requestLocked()
}

func (a *Authority) currentLocked() int64 {
	if a.source == SourceNone {
		return 0
	}
	elapsed := a.clock.Since(a.anchorAt)
	return a.anchorEpoch + int64(elapsed/time.Second)
}

func (a *Authority) setInstantLocked(epoch int64, src Source) {
	a.anchorEpoch = epoch
	a.anchorAt = a.clock.Now()
	a.lastUpdated = epoch
	a.source = src
}

func (a *Authority) transitionLocked(to State) {
	if !a.state.IsValidTransition(to) {
		log.Warn().
			Str("from", a.state.String()).
			Str("to", to.String()).
			Msg("unexpected time authority transition")
	}
	if a.state != to {
		log.Debug().Str("from", a.state.String()).Str("to", to.String()).Msg("time authority state changed")
	}
	a.state = to
}

func (a *Authority) writeHardwareLocked(epoch int64) {
	if a.hw == nil {
		return
	}
	if err := a.hw.Write(epoch); err != nil {
		log.Error().Err(err).Int64("epoch", epoch).Msg("failed to write hardware clock")
	}
}

// IsParseError reports whether err came from a rejected manual entry.
func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}
