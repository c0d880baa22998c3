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

package service

import (
	"context"
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/clocks/tzoffset"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/config"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/renderer"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/tubes"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/authority"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/intake"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/notifications"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/state"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const buttonTimeLayout = "15:04:05 2006-01-02"

// FrameSink receives every rendered frame. It must not block.
type FrameSink interface {
	Submit(f tubes.Frame)
}

// HostSetter is told the time server name so connectivity probes follow
// settings changes.
type HostSetter interface {
	SetHost(host string)
}

// Loop is the single cooperative main loop. Everything outside it talks to
// it through the intake.
type Loop struct {
	clock  clockwork.Clock
	cfg    *config.Instance
	in     *intake.Intake
	auth   *authority.Authority
	rnd    *renderer.Renderer
	out    FrameSink
	st     *state.State
	tz     *tzoffset.Lookup
	hosts  HostSetter
	period time.Duration
}

// LoopArgs wires the loop to the components it drives each tick.
type LoopArgs struct {
	Clock    clockwork.Clock
	Config   *config.Instance
	Intake   *intake.Intake
	Auth     *authority.Authority
	Renderer *renderer.Renderer
	Out      FrameSink
	State    *state.State
	Zone     *tzoffset.Lookup
	// Hosts is optional.
	Hosts HostSetter
}

// NewLoop builds a loop ticking at the configured refresh period.
func NewLoop(args LoopArgs) *Loop {
	return &Loop{
		clock:  args.Clock,
		cfg:    args.Config,
		in:     args.Intake,
		auth:   args.Auth,
		rnd:    args.Renderer,
		out:    args.Out,
		st:     args.State,
		tz:     args.Zone,
		hosts:  args.Hosts,
		period: args.Config.RefreshPeriod(),
	}
}

// Run steps once per refresh period until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	period := l.period
	ticker := l.clock.NewTicker(period)
	defer ticker.Stop()

	for {
		l.Step()
		if l.period != period {
			period = l.period
			ticker.Reset(period)
			log.Info().Dur("period", period).Msg("refresh period changed")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
		}
	}
}

// Step drains pending events, dispatches them, renders one frame and
// announces any change in status.
func (l *Loop) Step() tubes.Frame {
	for _, ev := range l.in.Drain() {
		l.dispatch(ev)
	}

	frame := l.rnd.RenderTick(renderer.Input{
		LocalEpoch: l.auth.CurrentInstantWithOffset(),
		HasTime:    l.auth.HasTime(),
		Dot:        l.in.Dot(),
	})
	l.out.Submit(frame)

	snap := l.auth.Snapshot()
	l.st.SetTimeStatus(state.TimeStatus{
		Source: snap.Source.String(),
		State:  l.auth.State().String(),
	}, snap.Epoch)
	l.st.SetSlot(l.rnd.Slot().String())

	return frame
}

func (l *Loop) dispatch(ev intake.Event) {
	switch e := ev.(type) {
	case intake.ButtonPressed:
		l.onButton(e.Count)
	case intake.SyncCompleted:
		l.auth.OnNetworkSyncEvent(e.Result)
		if !e.Result.OK() {
			errMsg := ""
			if e.Result.Err != nil {
				errMsg = e.Result.Err.Error()
			}
			notifications.TimeSyncFailed(l.st.Notifications, notifications.SyncFailedParams{
				Server: e.Result.Server,
				Kind:   e.Result.Kind.String(),
				Error:  errMsg,
			})
		}
	case intake.ConnectivityChanged:
		l.auth.OnConnectivityChanged(e.Connected)
		l.st.SetConnected(e.Connected)
	case intake.ManualEntry:
		l.onManualEntry(e)
	case intake.ConfigReloaded:
		l.onConfigReload()
	default:
		log.Warn().Msgf("unhandled event type: %T", ev)
	}
}

func (l *Loop) onButton(count int) {
	for range count {
		slot := l.rnd.PressButton()
		log.Debug().Str("slot", slot.String()).Msg("button pressed")
	}

	if !l.auth.HasTime() {
		log.Info().Msg("button pressed, no time set yet")
		return
	}
	local := time.Unix(l.auth.CurrentInstantWithOffset(), 0).UTC()
	snap := l.auth.Snapshot()
	log.Info().
		Str("time", local.Format(buttonTimeLayout)).
		Str("zone", l.tz.Zone()).
		Str("source", snap.Source.String()).
		Msg("current time")
}

func (l *Loop) onManualEntry(e intake.ManualEntry) {
	var err error
	if e.Timestamp != "" {
		err = l.auth.ApplyManualTimestamp(e.Timestamp)
	} else {
		err = l.auth.ApplyManualEntry(e.Hour, e.Minute, e.Date)
	}
	if err != nil {
		log.Error().Err(err).Msg("rejected manual time entry")
	}
}

func (l *Loop) onConfigReload() {
	if err := l.cfg.Load(); err != nil {
		log.Error().Err(err).Msg("failed to reload config, keeping current settings")
		return
	}
	log.Info().Msg("config reloaded")
	l.applySettings()
}

// applySettings pushes the current settings to every component.
func (l *Loop) applySettings() {
	helpers.SetDebugLogging(l.cfg.DebugLogging())

	if err := l.tz.SetZone(l.cfg.TimeZone()); err != nil {
		log.Warn().Err(err).Msg("time zone invalid, using UTC")
	}
	if l.hosts != nil {
		l.hosts.SetHost(l.cfg.NTPServer())
	}
	l.auth.ApplyConfig(authoritySettings(l.cfg))
	l.rnd.Apply(rendererSettings(l.cfg))

	if p := l.cfg.RefreshPeriod(); p > 0 {
		l.period = p
	}
}
