package v1alpha1

// KeyPressRequest asks the bridge to emulate a remote-control key press
type KeyPressRequest struct {
	// Key is the w3c key code to send (e.g. "MediaPlayPause", "Power")
	Key string `json:"key"`
}

// ChannelChangeRequest asks the bridge to tune a box to a linear channel
type ChannelChangeRequest struct {
	// ChannelID is the service identifier of the target channel
	ChannelID string `json:"channelId"`
}
