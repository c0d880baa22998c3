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

// Package rtc emulates a battery backed real time clock for hosts without
// one. The last written instant is kept in a small bolt database along with
// the host wall time at the write, and reads advance it by the host time
// elapsed since.
package rtc

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/helpers/syncutil"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

const (
	// BucketClock holds the stored reading.
	BucketClock = "clock"
	keyEpoch    = "epoch"
	keyHostNano = "host_nano"

	openTimeout = time.Second
)

var (
	ErrUnavailable  = errors.New("battery clock unavailable")
	ErrInvalidRate  = errors.New("heartbeat rate must be positive")
	ErrCorruptStore = errors.New("battery clock store corrupt")
)

// Clock is the battery-backed clock, persisted as an epoch and the host
// reading it was taken at.
type Clock struct {
	clock  clockwork.Clock
	db     *bolt.DB
	cancel context.CancelFunc
	done   chan struct{}
	mu     syncutil.Mutex
}

// Open opens or creates the clock store at path. A store that has never been
// written reads as the host clock.
func Open(path string, clock clockwork.Clock) (*Clock, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open bolt database: %w", ErrUnavailable, err)
	}

	err = db.Update(func(txn *bolt.Tx) error {
		_, err := txn.CreateBucketIfNotExists([]byte(BucketClock))
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing battery clock store")
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return &Clock{clock: clock, db: db}, nil
}

// Read returns the current UTC epoch seconds.
func (c *Clock) Read() (int64, error) {
	var epoch, hostNano int64
	var found bool

	err := c.db.View(func(txn *bolt.Tx) error {
		b := txn.Bucket([]byte(BucketClock))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", BucketClock)
		}
		ev, hv := b.Get([]byte(keyEpoch)), b.Get([]byte(keyHostNano))
		if ev == nil || hv == nil {
			return nil
		}
		if len(ev) != 8 || len(hv) != 8 {
			return ErrCorruptStore
		}
		//nolint:gosec // both stored from an int64
		epoch, hostNano = int64(binary.BigEndian.Uint64(ev)), int64(binary.BigEndian.Uint64(hv))
		found = true
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	now := c.clock.Now()
	if !found {
		return now.Unix(), nil
	}

	elapsed := now.Sub(time.Unix(0, hostNano))
	if elapsed < 0 {
		// host clock went backwards, e.g. reset on power loss
		log.Debug().Dur("elapsed", elapsed).Msg("host clock behind battery clock anchor")
		elapsed = 0
	}
	return epoch + int64(elapsed/time.Second), nil
}

// Write sets the clock to epoch seconds.
func (c *Clock) Write(epoch int64) error {
	var ev, hv [8]byte
	//nolint:gosec // round trips in Read
	binary.BigEndian.PutUint64(ev[:], uint64(epoch))
	//nolint:gosec // round trips in Read
	binary.BigEndian.PutUint64(hv[:], uint64(c.clock.Now().UnixNano()))

	err := c.db.Update(func(txn *bolt.Tx) error {
		b := txn.Bucket([]byte(BucketClock))
		if b == nil {
			return fmt.Errorf("bucket %q does not exist", BucketClock)
		}
		if err := b.Put([]byte(keyEpoch), ev[:]); err != nil {
			return fmt.Errorf("failed to store epoch: %w", err)
		}
		if err := b.Put([]byte(keyHostNano), hv[:]); err != nil {
			return fmt.Errorf("failed to store host anchor: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// EnableHeartbeat calls beat rateHz times per second until Close. Enabling
// again replaces the previous heartbeat.
func (c *Clock) EnableHeartbeat(rateHz int, beat func()) error {
	if rateHz <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRate, rateHz)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopHeartbeatLocked()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	c.cancel = cancel
	c.done = done

	ticker := c.clock.NewTicker(time.Second / time.Duration(rateHz))
	go func() {
		defer close(done)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				beat()
			}
		}
	}()

	log.Debug().Int("rate_hz", rateHz).Msg("battery clock heartbeat enabled")
	return nil
}

func (c *Clock) stopHeartbeatLocked() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	<-c.done
	c.cancel = nil
	c.done = nil
}

// Close stops the heartbeat and closes the store.
func (c *Clock) Close() error {
	c.mu.Lock()
	c.stopHeartbeatLocked()
	c.mu.Unlock()

	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close bolt database: %w", err)
	}
	return nil
}
