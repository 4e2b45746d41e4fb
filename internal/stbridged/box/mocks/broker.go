// Package mocks provides testify mocks for the box package interfaces
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/settopbox/stbridge/internal/stbridged/box"
)

// Broker implements a mock broker that records published payloads and
// registered subscriptions for inspection.
type Broker struct {
	mock.Mock

	// Published collects every publish in order
	Published []PublishedMessage
	// Handlers maps subscribed topics to their handlers
	Handlers map[string][]box.MessageHandler
}

// PublishedMessage is one recorded publish
type PublishedMessage struct {
	Topic   string
	Payload []byte
}

// NewBroker creates a mock broker that accepts all operations
func NewBroker() *Broker {
	b := &Broker{Handlers: make(map[string][]box.MessageHandler)}
	b.On("Publish", mock.Anything, mock.Anything).Return(nil)
	b.On("Subscribe", mock.Anything, mock.Anything).Return(nil)
	return b
}

func (m *Broker) Publish(topic string, payload []byte) error {
	args := m.Called(topic, payload)
	if args.Error(0) == nil {
		m.Published = append(m.Published, PublishedMessage{Topic: topic, Payload: payload})
	}
	return args.Error(0)
}

func (m *Broker) Subscribe(topic string, handler box.MessageHandler) error {
	args := m.Called(topic, handler)
	if args.Error(0) == nil {
		if m.Handlers == nil {
			m.Handlers = make(map[string][]box.MessageHandler)
		}
		m.Handlers[topic] = append(m.Handlers[topic], handler)
	}
	return args.Error(0)
}

// PublishedTo returns the payloads published to one topic in order
func (m *Broker) PublishedTo(topic string) [][]byte {
	var payloads [][]byte
	for _, p := range m.Published {
		if p.Topic == topic {
			payloads = append(payloads, p.Payload)
		}
	}
	return payloads
}

// SubscribedTopics returns the set of topics with at least one handler
func (m *Broker) SubscribedTopics() []string {
	topics := make([]string, 0, len(m.Handlers))
	for topic := range m.Handlers {
		topics = append(topics, topic)
	}
	return topics
}

// Deliver invokes every handler registered for a topic
func (m *Broker) Deliver(ctx context.Context, topic string, payload []byte) {
	for _, handler := range m.Handlers[topic] {
		handler(ctx, topic, payload)
	}
}
