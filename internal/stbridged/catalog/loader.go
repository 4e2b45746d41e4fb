// Package catalog loads the provider channel lineup used to resolve
// channel ids from status payloads into titles and stream artwork.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/settopbox/stbridge/internal/stbridged/box"
	"github.com/settopbox/stbridge/internal/stbridged/errors"
)

const defaultTimeout = 30 * time.Second

// Loader fetches the channel lineup from the provider API
type Loader struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewLoader creates a lineup loader for the given API base URL
func NewLoader(baseURL string, logger *slog.Logger) *Loader {
	return &Loader{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

// lineup is the subset of the channels response we consume
type lineup struct {
	Channels []struct {
		StationSchedules []struct {
			Station struct {
				ServiceID string `json:"serviceId"`
				Title     string `json:"title"`
				Images    []struct {
					AssetType string `json:"assetType"`
					URL       string `json:"url"`
				} `json:"images"`
			} `json:"station"`
		} `json:"stationSchedules"`
	} `json:"channels"`
}

// Load fetches the channel lineup and returns it keyed by service id.
// Channels without a station entry are skipped.
func (l *Loader) Load(ctx context.Context) (map[string]box.ChannelDescriptor, error) {
	const op = "catalog.Load"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+"/channels", nil)
	if err != nil {
		return nil, errors.NewError("LINEUP_FAILED", "building channels request", op, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, errors.NewError("LINEUP_FAILED", "fetching channel lineup", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewError("LINEUP_FAILED", fmt.Sprintf("channel lineup returned status %d", resp.StatusCode), op, nil)
	}

	var payload lineup
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.NewError("LINEUP_FAILED", "decoding channel lineup", op, err)
	}

	channels := make(map[string]box.ChannelDescriptor)
	for _, ch := range payload.Channels {
		if len(ch.StationSchedules) == 0 {
			continue
		}
		station := ch.StationSchedules[0].Station
		if station.ServiceID == "" {
			continue
		}
		descriptor := box.ChannelDescriptor{
			ID:    station.ServiceID,
			Title: station.Title,
		}
		for _, image := range station.Images {
			if image.AssetType == "imageStream" {
				descriptor.StreamImage = image.URL
				break
			}
		}
		channels[station.ServiceID] = descriptor
	}

	l.logger.Info("channel lineup loaded", "channels", len(channels))
	return channels, nil
}
