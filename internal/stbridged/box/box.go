// Package box implements the set-top box domain model and the state
// synchronization logic that keeps it aligned with the physical device.
package box

import "time"

// State represents the coarse lifecycle state of a set-top box. The value
// is adopted verbatim from the box's own status messages, so states outside
// the known constants can occur and are carried as-is.
type State string

const (
	// StateUnknown indicates a box that has not yet reported any state
	StateUnknown State = "UNKNOWN"
	// StateStandby indicates a box in standby with no active content
	StateStandby State = "ONLINE_STANDBY"
	// StateRunning indicates a box that is powered on and rendering content
	StateRunning State = "ONLINE_RUNNING"
)

// SourceKind identifies which content pathway a box is playing from.
// The values are the sourceType strings used on the wire.
type SourceKind string

const (
	// SourceNone indicates no active content
	SourceNone SourceKind = ""
	// SourceChannel indicates a live linear channel
	SourceChannel SourceKind = "linear"
	// SourceReplay indicates replay TV playback
	SourceReplay SourceKind = "replay"
	// SourceDVR indicates playback of a local recording
	SourceDVR SourceKind = "nDVR"
	// SourceBuffer indicates time-shifted playback from the review buffer
	SourceBuffer SourceKind = "reviewbuffer"
	// SourceApp indicates an application is on screen
	SourceApp SourceKind = "app"
)

// Remote-control key codes understood by the boxes
const (
	KeyPlayPause   = "MediaPlayPause"
	KeyChannelUp   = "ChannelUp"
	KeyChannelDown = "ChannelDown"
	KeyPower       = "Power"
)

// PlayingInfo is the normalized "what is on screen" snapshot. It is owned
// by a Box and replaced wholesale on every accepted update; fields not
// meaningful for the active source kind stay empty. Exactly one source
// kind is active at a time.
type PlayingInfo struct {
	// SourceType identifies the active content pathway
	SourceType SourceKind
	// ChannelID references the tuned channel, if any
	ChannelID string
	// ChannelTitle is the human name of the tuned channel
	ChannelTitle string
	// Title is the human name of the current program, recording or app
	Title string
	// Image is a URL for artwork matching the current content
	Image string
	// Paused reports whether playback is currently paused
	Paused bool
}

// ChannelDescriptor holds static metadata for one tunable channel. The
// channel table is populated by the catalog loader before synchronization
// begins and is read-only afterwards.
type ChannelDescriptor struct {
	// ID is the channel's service identifier
	ID string
	// Title is the channel's human name
	Title string
	// StreamImage is the artwork URL shown while the channel is tuned
	StreamImage string
}

// Box holds the identity and observed state of one physical set-top box.
// It is created once per box and mutated in place for the life of the
// session; only the playing-info snapshot is cleared on power-off, never
// the identity fields.
type Box struct {
	// ID is the immutable box identifier matched against message sources
	ID string
	// Name is the friendly display name
	Name string
	// HouseholdID is the broker namespace grouping this account's boxes
	HouseholdID string
	// State is the current lifecycle state
	State State
	// Info is the current playing-info snapshot
	Info PlayingInfo
	// Available reports whether the box has been observed on the broker
	Available bool
	// Channels maps channel ids to their descriptors
	Channels map[string]ChannelDescriptor
	// UpdatedAt is when the last update for this box was accepted
	UpdatedAt time.Time
}

// Snapshot is a point-in-time value copy of a box, safe to hand to
// callers without further locking.
type Snapshot struct {
	ID        string
	Name      string
	State     State
	Available bool
	Info      PlayingInfo
	UpdatedAt time.Time
}
