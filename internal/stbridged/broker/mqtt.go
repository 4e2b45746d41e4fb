// Package broker adapts the paho MQTT client to the narrow pub/sub
// surface the box package depends on.
package broker

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/settopbox/stbridge/internal/stbridged/box"
	"github.com/settopbox/stbridge/internal/stbridged/errors"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	defaultQoS     = 0
)

// Options configures the MQTT connection
type Options struct {
	// URL is the broker address, e.g. "wss://broker.example:443/mqtt"
	URL string
	// ClientID identifies this connection to the broker
	ClientID string
	// Username and Password authenticate the connection when set
	Username string
	Password string
	// InsecureSkipVerify disables TLS certificate verification
	InsecureSkipVerify bool
	// OnConnectionLost is invoked when the broker connection drops
	OnConnectionLost func(error)
}

// Broker is an MQTT-backed implementation of the box package's broker
// interface. Multiple handlers may be registered for the same topic
// filter; the broker keeps a single upstream subscription per filter
// and fans incoming messages out to every registered handler.
type Broker struct {
	client mqtt.Client
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[string][]box.MessageHandler
}

// Connect dials the broker and blocks until the connection is
// established or the timeout elapses.
func Connect(opts Options, logger *slog.Logger) (*Broker, error) {
	const op = "broker.Connect"

	b := &Broker{
		logger:   logger,
		handlers: make(map[string][]box.MessageHandler),
	}

	clientOpts := mqtt.NewClientOptions().
		AddBroker(opts.URL).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)
	if opts.Username != "" {
		clientOpts.SetUsername(opts.Username)
		clientOpts.SetPassword(opts.Password)
	}
	if opts.InsecureSkipVerify {
		clientOpts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})
	}
	clientOpts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn("broker connection lost", "error", err)
		if opts.OnConnectionLost != nil {
			opts.OnConnectionLost(err)
		}
	})
	clientOpts.SetOnConnectHandler(func(client mqtt.Client) {
		logger.Info("broker connected", "url", opts.URL)
		b.resubscribe(client)
	})

	b.client = mqtt.NewClient(clientOpts)
	token := b.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, errors.NewError("BROKER_UNAVAILABLE", "broker connect timed out", op, errors.ErrNotConnected)
	}
	if err := token.Error(); err != nil {
		return nil, errors.NewError("BROKER_UNAVAILABLE", "connecting to broker", op, err)
	}
	return b, nil
}

// Publish sends a payload to a topic
func (b *Broker) Publish(topic string, payload []byte) error {
	const op = "Broker.Publish"

	if !b.client.IsConnected() {
		return errors.NewError("BROKER_UNAVAILABLE", "not connected", op, errors.ErrNotConnected)
	}
	token := b.client.Publish(topic, defaultQoS, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return errors.NewError("BROKER_UNAVAILABLE", fmt.Sprintf("publish to %s timed out", topic), op, errors.ErrNotConnected)
	}
	if err := token.Error(); err != nil {
		return errors.NewError("BROKER_UNAVAILABLE", fmt.Sprintf("publishing to %s", topic), op, err)
	}
	return nil
}

// Subscribe registers a handler for a topic filter. Subscribing to the
// same filter again adds another handler instead of replacing the
// existing one.
func (b *Broker) Subscribe(topic string, handler box.MessageHandler) error {
	const op = "Broker.Subscribe"

	b.mu.Lock()
	existing := len(b.handlers[topic])
	b.handlers[topic] = append(b.handlers[topic], handler)
	b.mu.Unlock()

	if existing > 0 {
		// Upstream subscription already in place
		return nil
	}

	token := b.client.Subscribe(topic, defaultQoS, func(_ mqtt.Client, msg mqtt.Message) {
		b.dispatch(msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(publishTimeout) {
		return errors.NewError("BROKER_UNAVAILABLE", fmt.Sprintf("subscribe to %s timed out", topic), op, errors.ErrNotConnected)
	}
	if err := token.Error(); err != nil {
		return errors.NewError("BROKER_UNAVAILABLE", fmt.Sprintf("subscribing to %s", topic), op, err)
	}
	return nil
}

// Close disconnects from the broker, allowing in-flight work to finish
func (b *Broker) Close() {
	b.client.Disconnect(uint(publishTimeout / time.Millisecond))
}

func (b *Broker) dispatch(topic string, payload []byte) {
	b.mu.RLock()
	var handlers []box.MessageHandler
	for filter, registered := range b.handlers {
		if topicMatches(filter, topic) {
			handlers = append(handlers, registered...)
		}
	}
	b.mu.RUnlock()

	ctx := context.Background()
	for _, handler := range handlers {
		handler(ctx, topic, payload)
	}
}

// resubscribe restores upstream subscriptions after a reconnect
func (b *Broker) resubscribe(client mqtt.Client) {
	b.mu.RLock()
	topics := make([]string, 0, len(b.handlers))
	for topic := range b.handlers {
		topics = append(topics, topic)
	}
	b.mu.RUnlock()

	for _, topic := range topics {
		token := client.Subscribe(topic, defaultQoS, func(_ mqtt.Client, msg mqtt.Message) {
			b.dispatch(msg.Topic(), msg.Payload())
		})
		if token.WaitTimeout(publishTimeout) && token.Error() != nil {
			b.logger.Error("resubscribe failed", "topic", topic, "error", token.Error())
		}
	}
}
