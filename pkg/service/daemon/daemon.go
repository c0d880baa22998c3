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

// Package daemon runs the service as a background process tracked by a PID
// file, and controls a running instance through it.
package daemon

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/config"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/platforms"
	"github.com/rs/zerolog/log"
)

var (
	ErrAlreadyRunning = errors.New("service already running")
	ErrNotRunning     = errors.New("service not running")
)

// ServiceEntry starts the service and returns a function that stops it and a
// channel closed once it has shut down on its own.
type ServiceEntry func() (stop func() error, done <-chan struct{}, err error)

type Service struct {
	start   ServiceEntry
	signals chan os.Signal
	pidPath string
}

type ServiceArgs struct {
	Platform platforms.Platform
	Entry    ServiceEntry
}

// NewService prepares the process manager without starting anything.
func NewService(args ServiceArgs) (*Service, error) {
	tempDir := args.Platform.Settings().TempDir
	err := os.MkdirAll(tempDir, 0o750)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	return &Service{
		start:   args.Entry,
		pidPath: filepath.Join(tempDir, config.PidFile),
	}, nil
}

func (s *Service) createPidFile() error {
	err := os.WriteFile(s.pidPath, []byte(strconv.Itoa(os.Getpid())), 0o600)
	if err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}
	return nil
}

func (s *Service) removePidFile() error {
	err := os.Remove(s.pidPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove PID file: %w", err)
	}
	return nil
}

// Pid returns the process ID of the running service, or 0 when there is no
// PID file.
func (s *Service) Pid() (int, error) {
	//nolint:gosec // PID file lives in the platform temp dir
	data, err := os.ReadFile(s.pidPath)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	} else if err != nil {
		return 0, fmt.Errorf("error reading pid file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("error parsing pid: %w", err)
	}
	return pid, nil
}

// Running returns true if the process named in the PID file is alive.
func (s *Service) Running() bool {
	pid, err := s.Pid()
	if err != nil || pid == 0 {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}

// Run starts the service in this process and blocks until it stops, either
// on SIGINT/SIGTERM or on its own.
func (s *Service) Run() error {
	if s.Running() {
		return ErrAlreadyRunning
	}

	log.Info().Msg("starting service")
	if err := s.createPidFile(); err != nil {
		return err
	}
	defer func() {
		if err := s.removePidFile(); err != nil {
			log.Error().Err(err).Msg("error removing pid file")
		}
	}()

	stop, done, err := s.start()
	if err != nil {
		return fmt.Errorf("error starting service: %w", err)
	}

	sigs := s.signals
	if sigs == nil {
		sigs = make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigs)
	}

	select {
	case sig := <-sigs:
		log.Info().Str("signal", sig.String()).Msg("stopping service")
		if err := stop(); err != nil {
			return fmt.Errorf("error stopping service: %w", err)
		}
	case <-done:
		log.Info().Msg("service shut down internally")
	}
	return nil
}

// Stop signals a running service to shut down.
func (s *Service) Stop() error {
	if !s.Running() {
		return ErrNotRunning
	}

	pid, err := s.Pid()
	if err != nil {
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	err = process.Signal(syscall.SIGTERM)
	if err != nil {
		return fmt.Errorf("failed to send SIGTERM to process: %w", err)
	}

	return nil
}

// ServiceHandler runs a -service subcommand. An empty command does nothing.
func (s *Service) ServiceHandler(cmd string) error {
	switch cmd {
	case "":
		return nil
	case "exec":
		return s.Run()
	case "stop":
		return s.Stop()
	case "status":
		if s.Running() {
			_, _ = fmt.Println("started")
			return nil
		}
		_, _ = fmt.Println("stopped")
		return ErrNotRunning
	default:
		return fmt.Errorf("unknown service argument: %s", cmd)
	}
}
