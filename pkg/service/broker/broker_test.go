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

package broker

import (
	"context"
	"testing"
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/notifications"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBroker(t *testing.T, size int) (*Broker, chan notifications.Notification, context.CancelFunc, <-chan error) {
	t.Helper()
	source := make(chan notifications.Notification, size)
	b := NewBroker(source)
	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()
	return b, source, cancel, done
}

func TestSubscribe_IDs(t *testing.T) {
	t.Parallel()

	b := NewBroker(make(chan notifications.Notification))
	_, id1 := b.Subscribe(1)
	_, id2 := b.Subscribe(1)
	assert.Equal(t, 0, id1)
	assert.Equal(t, 1, id2)
	assert.Len(t, b.subscribers, 2)
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	b := NewBroker(make(chan notifications.Notification))
	ch, id := b.Subscribe(1)
	b.Unsubscribe(id)
	b.Unsubscribe(id)

	_, ok := <-ch
	assert.False(t, ok)
	assert.Empty(t, b.subscribers)
}

func TestBroadcast_AllSubscribers(t *testing.T) {
	t.Parallel()

	b, source, cancel, _ := startBroker(t, 4)
	defer cancel()

	subs := make([]<-chan notifications.Notification, 3)
	for i := range subs {
		subs[i], _ = b.Subscribe(4)
	}

	notifications.DisplaySlotChanged(source, "year")
	for _, sub := range subs {
		select {
		case n := <-sub:
			assert.Equal(t, notifications.MethodDisplaySlot, n.Method)
		case <-time.After(time.Second):
			t.Fatal("notification not delivered")
		}
	}
}

func TestBroadcast_SlowSubscriberDropped(t *testing.T) {
	t.Parallel()

	b, source, cancel, _ := startBroker(t, 32)
	defer cancel()

	fast, _ := b.Subscribe(32)
	_, _ = b.Subscribe(1)

	for range 10 {
		notifications.ConnectivityChanged(source, true)
	}

	for range 10 {
		select {
		case <-fast:
		case <-time.After(time.Second):
			t.Fatal("fast subscriber blocked by slow one")
		}
	}
}

func TestRun_ClosesSubscribers(t *testing.T) {
	t.Parallel()

	b, _, cancel, done := startBroker(t, 1)
	ch, _ := b.Subscribe(1)

	cancel()
	require.NoError(t, <-done)

	_, ok := <-ch
	assert.False(t, ok)
}

func TestRun_SourceClosed(t *testing.T) {
	t.Parallel()

	source := make(chan notifications.Notification)
	b := NewBroker(source)
	ch, _ := b.Subscribe(1)

	close(source)
	require.NoError(t, b.Run(t.Context()))
	_, ok := <-ch
	assert.False(t, ok)
}
