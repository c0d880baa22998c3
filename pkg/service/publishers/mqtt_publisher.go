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

// Package publishers forwards clock notifications to outside systems.
package publishers

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ZaparooProject/zaparoo-nixie/pkg/config"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/broker"
	"github.com/ZaparooProject/zaparoo-nixie/pkg/service/notifications"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	connectTimeout    = 10 * time.Second
	publishTimeout    = 5 * time.Second
	disconnectQuiesce = 250

	subscriptionBuffer = 100
)

// Message is the JSON payload published for each notification.
type Message struct {
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
	Device string          `json:"device,omitempty"`
}

type MQTTPublisher struct {
	client    mqtt.Client
	newClient func(*mqtt.ClientOptions) mqtt.Client
	stopCh    chan struct{}
	broker    string
	topic     string
	deviceID  string
	filter    []string
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

// NewMQTTPublisher creates a publisher. An empty filter publishes every
// notification, otherwise only the listed methods.
func NewMQTTPublisher(broker, topic string, filter []string) *MQTTPublisher {
	return &MQTTPublisher{
		broker:    broker,
		topic:     topic,
		filter:    filter,
		stopCh:    make(chan struct{}),
		newClient: mqtt.NewClient,
	}
}

// brokerURL adds the tcp scheme to a bare host:port.
func brokerURL(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	return "tcp://" + broker
}

// Start connects and begins publishing from notifs in the background.
func (p *MQTTPublisher) Start(notifs <-chan notifications.Notification) error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL(p.broker))
	opts.SetClientID("zaparoo-nixie-" + uuid.New().String()[:8])
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.OnConnect = func(mqtt.Client) {
		log.Info().Str("broker", p.broker).Msg("mqtt publisher: connected")
	}
	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		log.Warn().Err(err).Str("broker", p.broker).Msg("mqtt publisher: connection lost")
	}

	p.client = p.newClient(opts)
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		log.Warn().Str("broker", p.broker).Msg("mqtt publisher: broker not reachable yet, retrying in background")
	} else if err := token.Error(); err != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", err)
	}

	p.wg.Add(1)
	go p.publishNotifications(notifs)
	return nil
}

// Stop ends publishing and disconnects. It is safe to call more than once.
func (p *MQTTPublisher) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		p.wg.Wait()
		if p.client != nil {
			log.Debug().Str("broker", p.broker).Msg("mqtt publisher: disconnecting")
			p.client.Disconnect(disconnectQuiesce)
		}
	})
}

func (p *MQTTPublisher) publishNotifications(notifs <-chan notifications.Notification) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			return
		case n, ok := <-notifs:
			if !ok {
				log.Debug().Msg("mqtt publisher: notification channel closed")
				return
			}
			if !p.matchesFilter(n.Method) {
				continue
			}
			p.publish(n)
		}
	}
}

func (p *MQTTPublisher) publish(n notifications.Notification) {
	payload, err := json.Marshal(Message{Method: n.Method, Params: n.Params, Device: p.deviceID})
	if err != nil {
		log.Error().Err(err).Str("method", n.Method).Msg("mqtt publisher: failed to marshal notification")
		return
	}

	token := p.client.Publish(p.topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		log.Warn().Str("method", n.Method).Msg("mqtt publisher: publish timed out")
		return
	}
	if err := token.Error(); err != nil {
		log.Error().Err(err).Str("method", n.Method).Msg("mqtt publisher: failed to publish message")
		return
	}
	log.Debug().Str("method", n.Method).Msg("mqtt publisher: published notification")
}

func (p *MQTTPublisher) matchesFilter(method string) bool {
	return len(p.filter) == 0 || slices.Contains(p.filter, method)
}

// StartAll starts a publisher with its own subscription for every enabled
// MQTT entry in the settings. Publishers that fail to start are logged and
// skipped.
func StartAll(cfg *config.Instance, b *broker.Broker) []*MQTTPublisher {
	started := make([]*MQTTPublisher, 0)
	for _, pc := range cfg.GetMQTTPublishers() {
		if pc.Enabled != nil && !*pc.Enabled {
			continue
		}
		log.Info().Str("broker", pc.Broker).Str("topic", pc.Topic).Msg("starting MQTT publisher")
		pub := NewMQTTPublisher(pc.Broker, pc.Topic, pc.Filter)
		pub.deviceID = cfg.DeviceID()

		notifs, id := b.Subscribe(subscriptionBuffer)
		if err := pub.Start(notifs); err != nil {
			log.Error().Err(err).Str("broker", pc.Broker).Msg("failed to start MQTT publisher")
			b.Unsubscribe(id)
			continue
		}
		started = append(started, pub)
	}
	if len(started) > 0 {
		log.Info().Int("count", len(started)).Msg("started MQTT publishers")
	}
	return started
}
