package v1alpha1

import "time"

// BoxState represents the coarse lifecycle state reported by a set-top box
type BoxState string

const (
	// BoxStateUnknown indicates a box that has not yet reported any state
	BoxStateUnknown BoxState = "UNKNOWN"
	// BoxStateStandby indicates a box in standby with no active content
	BoxStateStandby BoxState = "ONLINE_STANDBY"
	// BoxStateRunning indicates a box that is powered on and rendering content
	BoxStateRunning BoxState = "ONLINE_RUNNING"
)

// SourceKind identifies which content pathway a box is currently playing from
type SourceKind string

const (
	// SourceKindNone indicates no active content
	SourceKindNone SourceKind = ""
	// SourceKindChannel indicates a live linear channel
	SourceKindChannel SourceKind = "linear"
	// SourceKindReplay indicates replay TV playback
	SourceKindReplay SourceKind = "replay"
	// SourceKindDVR indicates playback of a local recording
	SourceKindDVR SourceKind = "nDVR"
	// SourceKindBuffer indicates time-shifted playback from the review buffer
	SourceKindBuffer SourceKind = "reviewbuffer"
	// SourceKindApp indicates an application is on screen
	SourceKindApp SourceKind = "app"
)

// PlayingInfo is the normalized description of what a box currently shows.
// Fields that are not meaningful for the active source kind are empty.
type PlayingInfo struct {
	// SourceType identifies the active content pathway
	SourceType SourceKind `json:"sourceType"`
	// ChannelID references the tuned channel, if any
	ChannelID string `json:"channelId,omitempty"`
	// ChannelTitle is the human name of the tuned channel
	ChannelTitle string `json:"channelTitle,omitempty"`
	// Title is the human name of the current program, recording or app
	Title string `json:"title,omitempty"`
	// Image is a URL for artwork matching the current content
	Image string `json:"image,omitempty"`
	// Paused reports whether playback is currently paused
	Paused bool `json:"paused"`
}

// Box represents one set-top box tracked by the bridge
type Box struct {
	// TypeMeta describes the versioning of this object
	TypeMeta `json:",inline"`

	// ID is the immutable box identifier
	ID string `json:"id"`
	// Name is the friendly display name
	Name string `json:"name"`
	// State is the box's current lifecycle state
	State BoxState `json:"state"`
	// Available reports whether the box has been observed on the broker
	Available bool `json:"available"`
	// PlayingInfo describes the content currently on screen
	PlayingInfo PlayingInfo `json:"playingInfo"`
	// UpdatedAt is when the bridge last accepted an update for this box
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// BoxList is a list of boxes
type BoxList struct {
	// TypeMeta describes the versioning of this object
	TypeMeta `json:",inline"`

	// Items is the list of Box objects
	Items []Box `json:"items"`
}
