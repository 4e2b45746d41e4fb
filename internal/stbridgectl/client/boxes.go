package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/settopbox/stbridge/api/types/v1alpha1"
)

// ListBoxes returns every box tracked by the daemon
func (c *Client) ListBoxes(ctx context.Context) ([]v1alpha1.Box, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/v1alpha1/boxes", nil)
	if err != nil {
		return nil, err
	}

	var list v1alpha1.BoxList
	if err := decodeResponse(resp, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// GetBox returns one box by id
func (c *Client) GetBox(ctx context.Context, id string) (*v1alpha1.Box, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/v1alpha1/boxes/%s", id), nil)
	if err != nil {
		return nil, err
	}

	var box v1alpha1.Box
	if err := decodeResponse(resp, &box); err != nil {
		return nil, err
	}
	return &box, nil
}

// SendKey emulates a remote-control key press on a box
func (c *Client) SendKey(ctx context.Context, id, key string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/v1alpha1/boxes/%s/keys", id),
		v1alpha1.KeyPressRequest{Key: key})
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}

// SetChannel tunes a box to a linear channel
func (c *Client) SetChannel(ctx context.Context, id, channelID string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/v1alpha1/boxes/%s/channel", id),
		v1alpha1.ChannelChangeRequest{ChannelID: channelID})
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}

// PowerOff clears a box's playing state on the daemon
func (c *Client) PowerOff(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, fmt.Sprintf("/api/v1alpha1/boxes/%s/power", id), nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, nil)
}
