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

// Package ntpsync queries a network time server in the background and
// reports each outcome as a clocks.SyncResult.
package ntpsync

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/clocks"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/helpers/syncutil"
	"github.com/beevik/ntp"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	// MinQuerySpacing is the shortest gap allowed between two queries, even
	// across restarts.
	MinQuerySpacing = 15 * time.Second
	// QueryTimeout bounds a single exchange.
	QueryTimeout = 5 * time.Second
)

// QueryFunc performs one NTP exchange.
type QueryFunc func(host string, opt ntp.QueryOptions) (*ntp.Response, error)

// Client polls one NTP server in the background and reports each outcome
// through the OnSyncEvent callback.
type Client struct {
	clock      clockwork.Clock
	query      QueryFunc
	limiter    *rate.Limiter
	cb         func(clocks.SyncResult)
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	interval   atomic.Int64
	lastOKNano atomic.Int64
	lastEpoch  atomic.Int64
	mu         syncutil.Mutex
}

// New returns a client using the real NTP transport.
func New(clock clockwork.Clock) *Client {
	return NewWithQuery(clock, ntp.QueryWithOptions)
}

// NewWithQuery returns a client that sends its exchanges through query.
func NewWithQuery(clock clockwork.Clock, query QueryFunc) *Client {
	return &Client{
		clock:   clock,
		query:   query,
		limiter: rate.NewLimiter(rate.Every(MinQuerySpacing), 1),
	}
}

// OnSyncEvent registers the callback for sync outcomes. It is called from
// the query goroutine.
func (c *Client) OnSyncEvent(cb func(clocks.SyncResult)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cb = cb
}

// Begin starts querying server now and then every interval. Any running
// sync is stopped first. It never blocks on the network.
func (c *Client) Begin(server string, interval time.Duration) bool {
	if server == "" || interval <= 0 {
		log.Warn().Str("server", server).Dur("interval", interval).Msg("invalid network time settings")
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.interval.Store(int64(interval))

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run(ctx, server, interval)
	}()
	return true
}

// Stop cancels the running sync without waiting for an in-flight query.
// Its result, if any, is dropped.
func (c *Client) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

func (c *Client) stopLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Close stops syncing and waits for the query goroutine to exit.
func (c *Client) Close() {
	c.Stop()
	c.wg.Wait()
}

// IsSyncCurrent reports whether the last successful sync is younger than
// twice the sync interval.
func (c *Client) IsSyncCurrent() bool {
	last := c.lastOKNano.Load()
	if last == 0 {
		return false
	}
	age := c.clock.Since(time.Unix(0, last))
	return age <= 2*time.Duration(c.interval.Load())
}

// LastSyncedInstant is the epoch obtained by the last successful sync, 0
// before the first one.
func (c *Client) LastSyncedInstant() int64 {
	return c.lastEpoch.Load()
}

func (c *Client) run(ctx context.Context, server string, interval time.Duration) {
	log.Debug().Str("server", server).Dur("interval", interval).Msg("network time loop started")
	ticker := c.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		if !c.waitForSlot(ctx) {
			return
		}
		res := c.syncOnce(server)
		if ctx.Err() != nil {
			log.Debug().Str("server", server).Msg("dropping network time result after stop")
			return
		}
		c.deliver(res)

		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
		}
	}
}

func (c *Client) waitForSlot(ctx context.Context) bool {
	now := c.clock.Now()
	delay := c.limiter.ReserveN(now, 1).DelayFrom(now)
	if delay <= 0 {
		return true
	}
	log.Debug().Dur("delay", delay).Msg("spacing network time query")
	select {
	case <-ctx.Done():
		return false
	case <-c.clock.After(delay):
		return true
	}
}

func (c *Client) syncOnce(server string) clocks.SyncResult {
	requestedAt := c.clock.Now()

	resp, err := c.query(server, ntp.QueryOptions{Timeout: QueryTimeout})
	if err != nil {
		kind := Classify(err)
		return clocks.Failure(server, kind, err, requestedAt)
	}
	if err := resp.Validate(); err != nil {
		return clocks.Failure(server, clocks.FailureResponseError, err, requestedAt)
	}

	now := c.clock.Now()
	epoch := now.Add(resp.ClockOffset).Unix()
	c.lastOKNano.Store(now.UnixNano())
	c.lastEpoch.Store(epoch)
	return clocks.Success(server, epoch, requestedAt)
}

func (c *Client) deliver(res clocks.SyncResult) {
	if res.OK() {
		log.Info().Str("server", res.Server).Int64("epoch", res.Epoch).Msg("network time sync succeeded")
	} else {
		log.Warn().Err(res.Err).Str("server", res.Server).Stringer("kind", res.Kind).
			Msg("network time sync failed")
	}

	c.mu.Lock()
	cb := c.cb
	c.mu.Unlock()
	if cb != nil {
		cb(res)
	}
}

// Classify maps a query error to a failure kind.
func Classify(err error) clocks.FailureKind {
	if err == nil {
		return clocks.FailureNone
	}

	var dnsErr *net.DNSError
	var addrErr *net.AddrError
	var parseErr *net.ParseError
	if errors.As(err, &dnsErr) || errors.As(err, &addrErr) || errors.As(err, &parseErr) {
		return clocks.FailureBadAddress
	}

	if errors.Is(err, os.ErrDeadlineExceeded) {
		return clocks.FailureUnreachable
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return clocks.FailureUnreachable
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch opErr.Op {
		case "write":
			return clocks.FailureSendError
		case "dial", "read":
			return clocks.FailureUnreachable
		}
	}

	return clocks.FailureResponseError
}
