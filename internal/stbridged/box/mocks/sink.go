package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/settopbox/stbridge/internal/stbridged/box"
)

// EventSink implements a mock event sink that records delivered events
type EventSink struct {
	mock.Mock

	// Events collects every delivered event in order
	Events []box.Event
}

// NewEventSink creates a mock sink that accepts all events
func NewEventSink() *EventSink {
	s := &EventSink{}
	s.On("Publish", mock.Anything, mock.Anything).Return(nil)
	return s
}

func (m *EventSink) Publish(ctx context.Context, event box.Event) error {
	args := m.Called(ctx, event)
	if args.Error(0) == nil {
		m.Events = append(m.Events, event)
	}
	return args.Error(0)
}
