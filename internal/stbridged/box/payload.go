package box

import "encoding/json"

// Envelope is the outer shape shared by every inbound message: a source
// box id, an optional lifecycle state, and an optional nested status tree.
type Envelope struct {
	// Source is the id of the box the message is about
	Source string `json:"source"`
	// State is the reported lifecycle state, when present
	State string `json:"state"`
	// Status carries the detailed status tree, when present
	Status json.RawMessage `json:"status"`
}

// StatusPayload is the nested, variant-shaped detailed status. Exactly one
// of PlayerState or AppsState is meaningful, selected by UIStatus.
type StatusPayload struct {
	// UIStatus selects the variant: "mainUI" or "apps"
	UIStatus string `json:"uiStatus"`
	// PlayerState describes playback when UIStatus is "mainUI"
	PlayerState *PlayerState `json:"playerState"`
	// AppsState describes the foreground app when UIStatus is "apps"
	AppsState *AppsState `json:"appsState"`
}

// PlayerState describes what the player is rendering
type PlayerState struct {
	// SourceType is the content pathway (linear, replay, nDVR, reviewbuffer)
	SourceType string `json:"sourceType"`
	// Source carries the pathway-specific content references
	Source PlayerSource `json:"source"`
	// Speed is the playback speed; 0 means paused
	Speed float64 `json:"speed"`
}

// PlayerSource references the content being played. Which fields are set
// depends on the source type.
type PlayerSource struct {
	// ChannelID is the tuned channel for linear and buffer playback
	ChannelID string `json:"channelId"`
	// EventID keys live listings, replay and buffer metadata lookups
	EventID string `json:"eventId"`
	// RecordingID keys DVR recording metadata lookups
	RecordingID string `json:"recordingId"`
}

// AppsState describes the foreground application
type AppsState struct {
	// AppName is the application's display name
	AppName string `json:"appName"`
	// LogoPath is the application logo URL, possibly scheme-less
	LogoPath string `json:"logoPath"`
}
