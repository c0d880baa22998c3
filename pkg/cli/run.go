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

package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/config"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/platforms"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/daemon"
	"github.com/rs/zerolog/log"
)

// startService starts the clock and queues a manual time if one was given.
// A degraded start is logged and otherwise treated as success.
func startService(
	pl platforms.Platform,
	cfg *config.Instance,
	opts service.Options,
	setTime string,
) (*service.Service, error) {
	svc, err := service.Start(pl, cfg, opts)
	switch {
	case errors.Is(err, service.ErrDegradedStart):
		log.Warn().Err(err).Msg("service running without a hardware clock")
	case err != nil:
		return nil, fmt.Errorf("error starting service: %w", err)
	}

	if setTime != "" {
		entry, err := service.ParseManualEntry(setTime)
		if err != nil {
			log.Error().Err(err).Msg("ignoring -set-time")
		} else if err := svc.SetTime(entry); err != nil {
			log.Error().Err(err).Msg("failed to set time")
		}
	}
	return svc, nil
}

// RunApp runs the clock in the background service mode or in the foreground
// with the terminal preview, until it is stopped.
func RunApp(pl platforms.Platform, cfg *config.Instance, f *Flags) (returnErr error) {
	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %v\n", r)
			log.Error().Msgf("panic recovered: %v", r)
			returnErr = fmt.Errorf("panic: %v", r)
		}
	}()

	d, err := daemon.NewService(daemon.ServiceArgs{
		Platform: pl,
		Entry: func() (func() error, <-chan struct{}, error) {
			svc, err := startService(pl, cfg, service.Options{}, *f.SetTime)
			if err != nil {
				return nil, nil, err
			}
			return svc.Stop, svc.Done(), nil
		},
	})
	if err != nil {
		return fmt.Errorf("error setting up service: %w", err)
	}

	switch {
	case *f.Service != "":
		//nolint:wrapcheck // subcommand errors are shown as they are
		return d.ServiceHandler(*f.Service)
	case *f.Daemon:
		log.Info().Msg("starting service in daemon mode")
		//nolint:wrapcheck // already wrapped by the daemon
		return d.Run()
	}

	if d.Running() {
		return daemon.ErrAlreadyRunning
	}

	svc, err := startService(pl, cfg, service.Options{Foreground: true}, *f.SetTime)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Stop(); err != nil {
			log.Error().Msgf("error stopping service: %s", err)
		}
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	select {
	case <-sigs:
	case <-svc.Done():
		log.Info().Msg("service shut down internally")
	}
	return nil
}
