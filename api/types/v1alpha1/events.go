package v1alpha1

import "time"

// BoxEventType represents types of box-related events
type BoxEventType string

const (
	// BoxEventStateChanged indicates a lifecycle state update was accepted
	BoxEventStateChanged BoxEventType = "STATE_CHANGED"
	// BoxEventPlayingChanged indicates the playing-info snapshot was replaced
	BoxEventPlayingChanged BoxEventType = "PLAYING_CHANGED"
)

// BoxEvent is one frame on the box event stream. A frame is emitted after
// every update that changed the box's lifecycle state or snapshot.
type BoxEvent struct {
	// TypeMeta describes API version details
	TypeMeta `json:",inline"`
	// Type indicates the kind of event
	Type BoxEventType `json:"type"`
	// BoxID identifies which box the event is about
	BoxID string `json:"boxId"`
	// State is the box's lifecycle state after the update
	State BoxState `json:"state"`
	// PlayingInfo is the snapshot after the update
	PlayingInfo PlayingInfo `json:"playingInfo"`
	// Timestamp records when the event occurred
	Timestamp time.Time `json:"timestamp"`
}
