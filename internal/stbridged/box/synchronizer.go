package box

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/settopbox/stbridge/internal/stbridged/errors"
)

// Synchronizer keeps the local model of one set-top box aligned with the
// physical device. Inbound status messages drive the lifecycle state and
// the playing-info snapshot; remote-control commands go out as published
// messages, each followed by an explicit state refresh.
//
// The broker and metadata clients are shared collaborators; the
// synchronizer never closes them. Box state is guarded by a mutex so the
// broker delivery loop, the HTTP layer and the event stream can share it.
type Synchronizer struct {
	mu  sync.Mutex
	box *Box

	clientID     string
	friendlyName string

	broker   Broker
	resolver *Resolver
	logger   *slog.Logger

	sink EventSink

	// bootstrapped flips on the first observed non-unknown state and
	// never resets; the per-box subscriptions happen at most once.
	bootstrapped bool
}

// NewSynchronizer creates a synchronizer for one box. The channel table is
// read-only to the synchronizer and may be shared across boxes.
func NewSynchronizer(b *Box, clientID, friendlyName string, broker Broker, resolver *Resolver, logger *slog.Logger) *Synchronizer {
	if b.State == "" {
		b.State = StateUnknown
	}
	return &Synchronizer{
		box:          b,
		clientID:     clientID,
		friendlyName: friendlyName,
		broker:       broker,
		resolver:     resolver,
		logger:       logger.With("boxId", b.ID, "box", b.Name),
	}
}

// SetSink registers the event sink invoked after every accepted update.
// At most one sink is held; the last registration wins.
func (s *Synchronizer) SetSink(sink EventSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sink = sink
}

// ID returns the immutable box identifier
func (s *Synchronizer) ID() string {
	return s.box.ID
}

// Snapshot returns a point-in-time value copy of the box
func (s *Synchronizer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:        s.box.ID,
		Name:      s.box.Name,
		State:     s.box.State,
		Available: s.box.Available,
		Info:      s.box.Info,
		UpdatedAt: s.box.UpdatedAt,
	}
}

// Register subscribes to the household-wide topics and announces this
// client as online. Transport failures propagate to the caller.
func (s *Synchronizer) Register() error {
	if err := s.subscribe(householdTopic(s.box.HouseholdID), s.onPeerAnnouncement); err != nil {
		return err
	}
	if err := s.subscribe(wildcardStatusTopic(s.box.HouseholdID), s.OnStatusEnvelope); err != nil {
		return err
	}
	presence := presenceMessage{
		Source:     s.clientID,
		State:      presenceOnline,
		DeviceType: presenceDevice,
	}
	payload, err := json.Marshal(presence)
	if err != nil {
		return err
	}
	return s.broker.Publish(householdTopic(s.box.HouseholdID), payload)
}

// OnStatusEnvelope handles a message on the household-wide status topic.
// Messages whose source does not match this box are ignored. The first
// non-unknown state observation triggers a one-time bootstrap: one state
// request plus subscriptions scoped to this exact box.
func (s *Synchronizer) OnStatusEnvelope(ctx context.Context, topic string, payload []byte) {
	var envelope Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		s.logger.Debug("undecodable status envelope", "topic", topic, "error", err)
		return
	}
	if envelope.Source != s.box.ID {
		return
	}

	state := State(envelope.State)
	s.mu.Lock()

	requested := false
	if !s.bootstrapped && state != StateUnknown {
		s.bootstrapped = true
		if err := s.requestStateLocked(); err != nil {
			s.logger.Error("state request failed during bootstrap", "error", err)
		}
		requested = true
		s.subscribeBoxTopics()
	}

	if state == StateStandby {
		// Standby means nothing is on screen; clear without lookups.
		s.box.Info = PlayingInfo{}
	} else if !requested {
		if err := s.requestStateLocked(); err != nil {
			s.logger.Error("state request failed", "error", err)
		}
	}

	s.box.State = state
	s.box.Available = true
	s.box.UpdatedAt = time.Now()
	event := s.eventLocked(EventStateChanged)
	s.mu.Unlock()

	s.notify(ctx, event)
}

// OnDetailedStatus handles a message on the box's direct status topic or
// this client's response topic. Payloads lacking the detailed status tree
// are logged and skipped; the prior snapshot is preserved.
func (s *Synchronizer) OnDetailedStatus(ctx context.Context, topic string, payload []byte) {
	var envelope Envelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		s.logger.Debug("undecodable detailed status", "topic", topic, "error", err)
		return
	}
	if envelope.Source != s.box.ID {
		return
	}
	if len(envelope.Status) == 0 {
		s.logger.Debug("detailed status without status field", "topic", topic)
		return
	}

	var status StatusPayload
	if err := json.Unmarshal(envelope.Status, &status); err != nil {
		s.logger.Debug("undecodable status tree", "topic", topic, "error", err)
		return
	}

	info, ok, err := s.resolver.Resolve(ctx, status, s.box.Channels)
	if err != nil {
		// Metadata failures skip the update and keep the prior snapshot;
		// the next status message gets a fresh chance.
		s.logger.Error("failed to resolve playing info", "error", err)
		return
	}
	if !ok {
		// Unrecognized uiStatus produced no update: keep the prior
		// snapshot and timestamp, and emit no event.
		return
	}

	s.mu.Lock()
	s.box.Info = info
	s.box.UpdatedAt = time.Now()
	event := s.eventLocked(EventPlayingChanged)
	s.mu.Unlock()

	s.notify(ctx, event)
}

// RequestState asks the box to emit its current detailed status. The
// response arrives asynchronously via OnDetailedStatus.
func (s *Synchronizer) RequestState() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestStateLocked()
}

// SendKey publishes an emulated remote-control key press, then requests a
// fresh state: commands are fire-and-refresh, no acknowledgement is
// awaited.
func (s *Synchronizer) SendKey(key string) error {
	if key == "" {
		return errors.NewError("INVALID_KEY", "key code cannot be empty", "Synchronizer.SendKey", errors.ErrInvalidInput)
	}
	message := keyEventMessage{
		Type: msgTypeKeyEvent,
		Status: keyEventStatus{
			W3CKey:    key,
			EventType: keyEventDownUp,
		},
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	if err := s.broker.Publish(deviceTopic(s.box.HouseholdID, s.box.ID), payload); err != nil {
		return err
	}
	return s.RequestState()
}

// SetChannel publishes a channel-switch command for a linear channel,
// then requests a fresh state.
func (s *Synchronizer) SetChannel(channelID string) error {
	if channelID == "" {
		return errors.NewError("INVALID_CHANNEL", "channel id cannot be empty", "Synchronizer.SetChannel", errors.ErrInvalidInput)
	}
	message := channelChangeMessage{
		ID:   makeID(8),
		Type: msgTypePushToTV,
		Source: channelChangeSource{
			ClientID:           s.clientID,
			FriendlyDeviceName: s.friendlyName,
		},
		Status: channelChangeStatus{
			SourceType:       pushSourceType,
			Source:           channelRef{ChannelID: channelID},
			RelativePosition: 0,
			Speed:            1,
		},
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	if err := s.broker.Publish(deviceTopic(s.box.HouseholdID, s.box.ID), payload); err != nil {
		return err
	}
	return s.RequestState()
}

// PowerOff clears the playing-info snapshot locally. Nothing is
// published; powering the hardware off goes through SendKey(KeyPower).
func (s *Synchronizer) PowerOff() {
	s.mu.Lock()
	s.box.Info = PlayingInfo{}
	s.box.UpdatedAt = time.Now()
	event := s.eventLocked(EventPlayingChanged)
	s.mu.Unlock()

	s.notify(context.Background(), event)
}

// requestStateLocked publishes a CPE.getUiStatus command on the box's
// direct topic. Callers hold the mutex.
func (s *Synchronizer) requestStateLocked() error {
	s.logger.Debug("requesting box state")
	message := stateRequestMessage{
		ID:     makeID(8),
		Type:   msgTypeUIStatusRequest,
		Source: s.clientID,
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return s.broker.Publish(deviceTopic(s.box.HouseholdID, s.box.ID), payload)
}

// subscribeBoxTopics performs the staged per-box subscriptions: the box's
// direct topic and direct status topic, plus this client's own response
// topic. Subscribing lazily avoids per-box subscriptions for boxes never
// actually seen. Callers hold the mutex.
func (s *Synchronizer) subscribeBoxTopics() {
	household := s.box.HouseholdID
	topics := []string{
		deviceTopic(household, s.clientID),
		deviceTopic(household, s.box.ID),
		deviceStatusTopic(household, s.box.ID),
	}
	for _, topic := range topics {
		if err := s.subscribe(topic, s.OnDetailedStatus); err != nil {
			s.logger.Error("subscription failed", "topic", topic, "error", err)
		}
	}
}

func (s *Synchronizer) subscribe(topic string, handler MessageHandler) error {
	if err := s.broker.Subscribe(topic, handler); err != nil {
		return err
	}
	s.logger.Debug("subscribed to topic", "topic", topic)
	return nil
}

func (s *Synchronizer) onPeerAnnouncement(ctx context.Context, topic string, payload []byte) {
	s.logger.Debug("peer announcement", "topic", topic, "payload", string(payload))
}

// eventLocked builds an event from current box state. Callers hold the
// mutex.
func (s *Synchronizer) eventLocked(eventType EventType) Event {
	return Event{
		Type:      eventType,
		BoxID:     s.box.ID,
		Name:      s.box.Name,
		State:     s.box.State,
		Info:      s.box.Info,
		Timestamp: s.box.UpdatedAt,
	}
}

func (s *Synchronizer) notify(ctx context.Context, event Event) {
	s.mu.Lock()
	sink := s.sink
	s.mu.Unlock()
	if sink == nil {
		return
	}
	if err := sink.Publish(ctx, event); err != nil {
		// Observer failures never block synchronization.
		s.logger.Error("failed to publish box event", "error", err)
	}
}
