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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/clocks/netwatch"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/clocks/ntpsync"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/clocks/rtc"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/clocks/tzoffset"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/config"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/drivers"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/renderer"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/platforms"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/authority"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/broker"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/intake"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/notifications"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/publishers"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/state"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// ErrDegradedStart is returned alongside a running service when the battery
// clock could not be used. The display waits for a network or manual time.
var ErrDegradedStart = errors.New("started without a hardware clock")

const heartbeatHz = 1

// Options replace the real collaborators, mostly for tests.
type Options struct {
	// Clock defaults to the real clock.
	Clock clockwork.Clock
	// Probe defaults to netwatch.DialProbe.
	Probe netwatch.ProbeFunc
	// NTPQuery defaults to a real NTP exchange.
	NTPQuery ntpsync.QueryFunc
	// Driver overrides the display driver from the settings.
	Driver drivers.Driver
	// Foreground picks the interactive driver when the settings say auto.
	Foreground bool
}

// Service is a running clock.
type Service struct {
	st   *state.State
	in   *intake.Intake
	done chan struct{}
	err  error
}

type quitSource interface {
	SetQuitHandler(fn func())
}

// Stop shuts the service down and waits for cleanup to finish.
func (s *Service) Stop() error {
	s.st.StopService()
	<-s.done
	return s.err
}

// Done is closed once the service has shut down.
func (s *Service) Done() <-chan struct{} {
	return s.done
}

// SetTime queues a manual time entry for the main loop.
func (s *Service) SetTime(entry intake.ManualEntry) error {
	if err := s.in.PostManual(entry); err != nil {
		return fmt.Errorf("failed to queue manual time: %w", err)
	}
	return nil
}

// PressButton acts as a touch on the button.
func (s *Service) PressButton() {
	s.in.PressButton()
}

func openHardwareClock(pl platforms.Platform, cfg *config.Instance, clock clockwork.Clock) (*rtc.Clock, error) {
	path := helpers.RTCPath(pl, cfg)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("%w: failed to create data directory: %w", rtc.ErrUnavailable, err)
	}
	log.Info().Str("path", path).Msg("opening battery clock store")
	return rtc.Open(path, clock)
}

// Start boots the clock and returns once the main loop is running. An error
// wrapping ErrDegradedStart comes with a usable Service; any other error
// means nothing was started.
//
//nolint:funlen,gocognit // linear startup sequence
func Start(pl platforms.Platform, cfg *config.Instance, opts Options) (*Service, error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	sessionID := uuid.New().String()
	log.Info().Msgf("boot session UUID: %s", sessionID)

	log.Info().Msg("running platform pre start")
	if err := pl.StartPre(cfg); err != nil {
		log.Error().Err(err).Msg("platform start pre error")
		return nil, fmt.Errorf("platform start pre failed: %w", err)
	}

	drv := opts.Driver
	if drv == nil {
		var err error
		drv, err = drivers.Select(cfg, pl, clock, opts.Foreground)
		if err != nil {
			return nil, fmt.Errorf("failed to select display driver: %w", err)
		}
	}
	log.Info().Str("driver", drv.ID()).Msg("display driver selected")

	st, ns := state.NewState(sessionID)
	in := intake.New(intake.DefaultQueueSize)

	zone, err := tzoffset.New(cfg.TimeZone())
	if err != nil {
		log.Warn().Err(err).Msg("time zone invalid, using UTC")
	}

	var degraded error
	var hw authority.ClockHardware
	rtcClock, err := openHardwareClock(pl, cfg, clock)
	if err != nil {
		log.Error().Err(err).Msg("battery clock unavailable")
		degraded = err
	} else {
		hw = rtcClock
	}

	var ntp *ntpsync.Client
	if opts.NTPQuery != nil {
		ntp = ntpsync.NewWithQuery(clock, opts.NTPQuery)
	} else {
		ntp = ntpsync.New(clock)
	}
	ntp.OnSyncEvent(in.PostSync)

	monitor := netwatch.New(clock, opts.Probe, cfg.NTPServer(), netwatch.DefaultPollInterval, in.PostConnectivity)

	auth := authority.New(clock, hw, ntp, monitor, zone)
	if err := auth.LoadFromHardwareClock(); err != nil {
		log.Warn().Err(err).Msg("no time from battery clock")
		if degraded == nil {
			degraded = err
		}
	}
	auth.ApplyConfig(authoritySettings(cfg))

	rnd := renderer.New(clock, rendererSettings(cfg))
	out := drivers.NewOutput(drv)

	if bs, ok := drv.(drivers.ButtonSource); ok {
		bs.SetButtonHandler(in.PressButton)
	}
	if qs, ok := drv.(quitSource); ok {
		qs.SetQuitHandler(st.StopService)
	}

	if rtcClock != nil {
		if err := rtcClock.EnableHeartbeat(heartbeatHz, in.ToggleDot); err != nil {
			log.Error().Err(err).Msg("failed to start heartbeat")
		}
	}

	loop := NewLoop(LoopArgs{
		Clock:    clock,
		Config:   cfg,
		Intake:   in,
		Auth:     auth,
		Renderer: rnd,
		Out:      out,
		State:    st,
		Zone:     zone,
		Hosts:    monitor,
	})

	notifBroker := broker.NewBroker(ns)
	activePublishers := publishers.StartAll(cfg, notifBroker)

	watcher, err := config.StartFileWatch(clock, cfg.Path(), in.PostConfigReload)
	if err != nil {
		log.Warn().Err(err).Msg("config hot reload unavailable")
	}

	if err := drv.Open(st.GetContext()); err != nil {
		log.Warn().Err(err).Str("driver", drv.ID()).Msg("display not ready, will keep retrying")
	}

	notifications.Started(st.Notifications, notifications.StartedParams{
		SessionID: sessionID,
		DeviceID:  cfg.DeviceID(),
		Platform:  pl.ID(),
		Degraded:  degraded != nil,
	})
	st.SetDegraded(degraded != nil)

	g, ctx := errgroup.WithContext(st.GetContext())
	g.Go(func() error { return notifBroker.Run(ctx) })
	g.Go(func() error { return out.Run(ctx) })
	g.Go(func() error { return monitor.Run(ctx) })
	if rtcClock == nil {
		g.Go(func() error { return runHeartbeat(ctx, clock, in.ToggleDot) })
	}
	g.Go(func() error {
		defer st.StopService()
		return loop.Run(ctx)
	})

	svc := &Service{
		st:   st,
		in:   in,
		done: make(chan struct{}),
	}

	go func() {
		svc.err = g.Wait()
		log.Info().Msg("service context cancelled, running cleanup")

		for _, p := range activePublishers {
			p.Stop()
		}
		if watcher != nil {
			if err := watcher.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing config watcher")
			}
		}
		ntp.Close()
		if err := drv.Close(); err != nil {
			log.Warn().Err(err).Str("driver", drv.ID()).Msg("error closing display driver")
		}
		if rtcClock != nil {
			if err := rtcClock.Close(); err != nil {
				log.Warn().Err(err).Msg("error closing battery clock store")
			}
		}
		if err := pl.Stop(); err != nil {
			log.Warn().Msgf("error stopping platform: %s", err)
		}

		log.Info().Msg("service cleanup completed")
		close(svc.done)
	}()

	if degraded != nil {
		return svc, errors.Join(ErrDegradedStart, degraded)
	}
	return svc, nil
}

// runHeartbeat drives the separator dots when there is no battery clock to
// do it.
func runHeartbeat(ctx context.Context, clock clockwork.Clock, beat func()) error {
	ticker := clock.NewTicker(time.Second / heartbeatHz)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			beat()
		}
	}
}
