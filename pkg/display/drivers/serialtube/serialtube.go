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

// Package serialtube drives the tube driver board over a serial link. The
// board latches each received word into the shift registers feeding the
// tube cathodes.
package serialtube

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/display/tubes"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/helpers"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"go.bug.st/serial"
)

const (
	DriverID = "serial"

	DefaultBaudRate   = 115200
	ReadTimeout       = 250 * time.Millisecond
	ReconnectInterval = 2 * time.Second
	handshakeReads    = 4
)

var (
	ErrNoBoard      = errors.New("no tube driver board found")
	ErrNotConnected = errors.New("tube driver board not connected")
	ErrBadReply     = errors.New("unexpected reply from tube driver board")
)

type Config struct {
	// Path is the serial device, empty to autodetect.
	Path     string
	BaudRate int
}

// Driver sends frames to a tube board over a serial port and reopens the
// port when writes fail.
type Driver struct {
	lastAttempt time.Time
	clock       clockwork.Clock
	port        SerialPort
	factory     SerialPortFactory
	listPorts   func() ([]string, error)
	cfg         Config
	path        string
	last        tubes.Frame
	mu          syncutil.Mutex
	connected   bool
	lastSent    bool
}

// New returns a driver that opens ports with DefaultSerialPortFactory.
func New(cfg Config, clock clockwork.Clock) *Driver {
	return NewWithFactory(cfg, clock, DefaultSerialPortFactory, helpers.GetSerialDeviceList)
}

func NewWithFactory(
	cfg Config,
	clock clockwork.Clock,
	factory SerialPortFactory,
	listPorts func() ([]string, error),
) *Driver {
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	return &Driver{
		cfg:       cfg,
		clock:     clock,
		factory:   factory,
		listPorts: listPorts,
	}
}

func (*Driver) ID() string {
	return DriverID
}

// Path is the device of the connected board, or the last one used.
func (d *Driver) Path() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.path
}

func (d *Driver) Connected() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connected
}

// Open connects to the board. If it fails, Show keeps retrying.
func (d *Driver) Open(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.connectLocked(ctx)
}

func (d *Driver) connectLocked(ctx context.Context) error {
	d.lastAttempt = d.clock.Now()

	if d.cfg.Path != "" {
		return d.openLocked(ctx, d.cfg.Path)
	}

	ports, err := d.listPorts()
	if err != nil {
		return fmt.Errorf("failed to get serial ports: %w", err)
	}
	log.Debug().Int("port_count", len(ports)).Msg("serialtube: checking serial ports")

	for _, name := range ports {
		if ctx.Err() != nil {
			return fmt.Errorf("detection cancelled: %w", ctx.Err())
		}
		if err := d.openLocked(ctx, name); err != nil {
			log.Debug().Err(err).Str("port", name).Msg("serialtube: detection failed for port")
			continue
		}
		return nil
	}
	return ErrNoBoard
}

func (d *Driver) openLocked(ctx context.Context, path string) error {
	port, err := d.factory(path, &serial.Mode{
		BaudRate: d.cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return err
	}

	if err := port.SetReadTimeout(ReadTimeout); err != nil {
		closePort(port, path)
		return fmt.Errorf("failed to set read timeout: %w", err)
	}

	if err := handshake(ctx, port); err != nil {
		closePort(port, path)
		return err
	}

	d.port = port
	d.path = path
	d.connected = true
	d.lastSent = false
	log.Info().Str("device", path).Msg("tube driver board connected")
	return nil
}

func handshake(ctx context.Context, port SerialPort) error {
	if _, err := port.Write([]byte(CmdProbe + CommandTerminator)); err != nil {
		return fmt.Errorf("failed to send probe: %w", err)
	}

	var reply strings.Builder
	buf := make([]byte, 64)
	for range handshakeReads {
		if ctx.Err() != nil {
			return fmt.Errorf("handshake cancelled: %w", ctx.Err())
		}
		n, err := port.Read(buf)
		if err != nil {
			return fmt.Errorf("failed to read probe reply: %w", err)
		}
		reply.Write(buf[:n])
		if strings.ContainsRune(reply.String(), ReplyTerminator) {
			break
		}
	}

	if !isBoardReply(reply.String()) {
		return fmt.Errorf("%w: %q", ErrBadReply, reply.String())
	}
	log.Debug().Str("reply", strings.TrimSpace(reply.String())).Msg("serialtube: board replied")

	if _, err := port.Write([]byte(CmdClear + CommandTerminator)); err != nil {
		return fmt.Errorf("failed to clear tubes: %w", err)
	}
	return nil
}

// Show writes the frame if it differs from the last one written. While
// disconnected it reconnects at most once per ReconnectInterval.
func (d *Driver) Show(f tubes.Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.connected {
		if d.clock.Since(d.lastAttempt) < ReconnectInterval {
			return ErrNotConnected
		}
		ctx, cancel := context.WithTimeout(context.Background(), ReconnectInterval)
		err := d.connectLocked(ctx)
		cancel()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrNotConnected, err)
		}
	}

	if d.lastSent && f == d.last {
		return nil
	}

	p := Packet(f)
	if _, err := d.port.Write(p[:]); err != nil {
		if isDisconnectionError(err) {
			log.Info().Str("device", d.path).Err(err).Msg("tube driver board disconnected")
			d.dropLocked()
		}
		return fmt.Errorf("failed to write frame: %w", err)
	}

	d.last = f
	d.lastSent = true
	return nil
}

func (d *Driver) dropLocked() {
	if d.port != nil {
		closePort(d.port, d.path)
		d.port = nil
	}
	d.connected = false
	d.lastSent = false
	d.lastAttempt = d.clock.Now()
}

func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.port != nil {
		p := Packet(tubes.BlankFrame)
		if _, err := d.port.Write(p[:]); err != nil {
			log.Debug().Err(err).Msg("serialtube: failed to blank tubes on close")
		}
	}
	d.dropLocked()
	log.Info().Str("device", d.path).Msg("tube driver board closed")
	return nil
}

func closePort(port SerialPort, path string) {
	if err := port.Close(); err != nil {
		log.Debug().Err(err).Str("port", path).Msg("failed to close serial port")
	}
}

func isDisconnectionError(err error) bool {
	if err == nil {
		return false
	}

	var portErr serial.PortError
	if errors.As(err, &portErr) {
		switch portErr.Code() {
		case serial.PortNotFound, serial.PortClosed, serial.InvalidSerialPort:
			return true
		default:
			return false
		}
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "device not configured") ||
		strings.Contains(errStr, "input/output error") ||
		strings.Contains(errStr, "no such device") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "port closed")
}
