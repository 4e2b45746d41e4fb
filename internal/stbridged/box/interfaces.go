package box

import (
	"context"
	"time"
)

// MessageHandler receives one inbound broker message. Handlers for a
// single box are invoked sequentially by the shared broker client.
type MessageHandler func(ctx context.Context, topic string, payload []byte)

// Broker is the publish/subscribe session the synchronizer rides on.
// Connection management (connect, reconnect, TLS, auth) belongs to the
// implementation; the synchronizer never closes it.
type Broker interface {
	// Publish sends a payload to a topic
	Publish(topic string, payload []byte) error

	// Subscribe registers a handler for a topic. Subscribing the same
	// topic twice adds a second handler rather than replacing the first.
	Subscribe(topic string, handler MessageHandler) error
}

// MetadataService resolves opaque content ids against the HTTP metadata
// endpoint. An empty string means the service had no matching entry (a
// lookup miss, not an error); errors are transport-level failures.
type MetadataService interface {
	// RecordingTitle returns the title for a recording or replay event id
	RecordingTitle(ctx context.Context, id string) (string, error)

	// RecordingImage returns the artwork URL for a recording or replay event id
	RecordingImage(ctx context.Context, id string) (string, error)

	// ListingTitle returns the program title for a live listing id
	ListingTitle(ctx context.Context, id string) (string, error)
}

// EventType represents types of box events
type EventType string

const (
	// EventStateChanged indicates a lifecycle state update was accepted
	EventStateChanged EventType = "STATE_CHANGED"
	// EventPlayingChanged indicates the playing-info snapshot was replaced
	EventPlayingChanged EventType = "PLAYING_CHANGED"
)

// Event describes one accepted update. Events fire after every matched
// update, including ones that carry no new information; sinks must
// tolerate redundant events.
type Event struct {
	// Type indicates what kind of event occurred
	Type EventType
	// BoxID identifies which box the event is about
	BoxID string
	// Name is the box's friendly name
	Name string
	// State is the lifecycle state after the update
	State State
	// Info is the playing-info snapshot after the update
	Info PlayingInfo
	// Timestamp records when the event occurred
	Timestamp time.Time
}

// EventSink receives box events. At most one sink is held per
// synchronizer; the last registration wins.
type EventSink interface {
	// Publish delivers an event to interested observers
	Publish(ctx context.Context, event Event) error
}

// Service is the read/control surface the HTTP layer consumes
type Service interface {
	// Boxes returns snapshots of all tracked boxes
	Boxes() []Snapshot

	// Box returns the snapshot for one box
	Box(id string) (Snapshot, error)

	// SendKey emulates a remote-control key press on a box
	SendKey(id, key string) error

	// SetChannel tunes a box to a linear channel
	SetChannel(id, channelID string) error

	// PowerOff clears a box's playing-info snapshot locally
	PowerOff(id string) error
}
