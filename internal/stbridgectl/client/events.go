package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/settopbox/stbridge/api/types/v1alpha1"
)

// WatchEvents dials the daemon's box event stream and delivers each
// frame to the handler. It blocks until the context ends or the stream
// breaks; a context cancellation is a clean stop, not an error.
func (c *Client) WatchEvents(ctx context.Context, handler func(v1alpha1.BoxEvent)) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = "/api/v1alpha1/boxes/events"

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("error connecting to event stream: HTTP %d", resp.StatusCode)
		}
		return fmt.Errorf("error connecting to event stream: %w", err)
	}
	defer conn.Close()

	// Unblock the read loop when the context ends
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("event stream closed: %w", err)
		}

		var event v1alpha1.BoxEvent
		if err := json.Unmarshal(frame, &event); err != nil {
			return fmt.Errorf("error decoding event frame: %w", err)
		}
		handler(event)
	}
}
