package box

import "math/rand"

const correlationIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// makeID generates a short random correlation id for outbound commands.
// The boxes echo it back but this core never matches on it.
func makeID(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = correlationIDAlphabet[rand.Intn(len(correlationIDAlphabet))]
	}
	return string(b)
}

// presenceMessage announces this client as online to the household
type presenceMessage struct {
	Source     string `json:"source"`
	State      string `json:"state"`
	DeviceType string `json:"deviceType"`
}

// stateRequestMessage asks a box to emit its current detailed status
type stateRequestMessage struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Source string `json:"source"`
}

// keyEventMessage emulates a remote-control key press
type keyEventMessage struct {
	Type   string         `json:"type"`
	Status keyEventStatus `json:"status"`
}

type keyEventStatus struct {
	W3CKey    string `json:"w3cKey"`
	EventType string `json:"eventType"`
}

// channelChangeMessage tunes a box to a linear channel
type channelChangeMessage struct {
	ID     string              `json:"id"`
	Type   string              `json:"type"`
	Source channelChangeSource `json:"source"`
	Status channelChangeStatus `json:"status"`
}

type channelChangeSource struct {
	ClientID           string `json:"clientId"`
	FriendlyDeviceName string `json:"friendlyDeviceName"`
}

type channelChangeStatus struct {
	SourceType       string     `json:"sourceType"`
	Source           channelRef `json:"source"`
	RelativePosition int        `json:"relativePosition"`
	Speed            int        `json:"speed"`
}

type channelRef struct {
	ChannelID string `json:"channelId"`
}

// Command type and field constants used on the wire
const (
	msgTypeUIStatusRequest = "CPE.getUiStatus"
	msgTypeKeyEvent        = "CPE.KeyEvent"
	msgTypePushToTV        = "CPE.pushToTV"

	keyEventDownUp = "keyDownUp"
	presenceOnline = "ONLINE_RUNNING"
	presenceDevice = "HGO"
	pushSourceType = "linear"
)
