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

// Package broker fans notifications from the main loop out to every
// publisher. A slow subscriber loses notifications instead of holding up
// the others.
package broker

import (
	"context"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/notifications"
	"github.com/rs/zerolog/log"
)

type Broker struct {
	source      <-chan notifications.Notification
	subscribers map[int]chan notifications.Notification
	mu          syncutil.RWMutex
	nextID      int
}

func NewBroker(source <-chan notifications.Notification) *Broker {
	return &Broker{
		source:      source,
		subscribers: make(map[int]chan notifications.Notification),
	}
}

// Run broadcasts until the source closes or ctx is done, then closes every
// subscriber channel.
func (b *Broker) Run(ctx context.Context) error {
	defer b.closeAll()
	for {
		select {
		case n, ok := <-b.source:
			if !ok {
				log.Debug().Msg("broker: source channel closed")
				return nil
			}
			b.broadcast(n)
		case <-ctx.Done():
			log.Debug().Msg("broker: shutting down")
			return nil
		}
	}
}

func (b *Broker) broadcast(n notifications.Notification) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subscribers {
		select {
		case ch <- n:
		default:
			log.Warn().
				Int("subscriber_id", id).
				Str("method", n.Method).
				Msg("subscriber channel full, dropping notification")
		}
	}
}

// Subscribe registers a listener with room for bufferSize pending
// notifications.
func (b *Broker) Subscribe(bufferSize int) (notifs <-chan notifications.Notification, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id = b.nextID
	b.nextID++
	ch := make(chan notifications.Notification, bufferSize)
	b.subscribers[id] = ch

	log.Debug().Int("subscriber_id", id).Int("buffer_size", bufferSize).Msg("new subscriber registered")
	return ch, id
}

// Unsubscribe closes a subscription. Unknown ids are ignored.
func (b *Broker) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
}

func (b *Broker) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
}
