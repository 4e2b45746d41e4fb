package box

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/settopbox/stbridge/internal/stbridged/errors"
)

// Resolver derives a normalized playing-info snapshot from a detailed
// status payload, calling out to the metadata service when the payload
// alone is not enough.
type Resolver struct {
	metadata MetadataService
	logger   *slog.Logger
}

// NewResolver creates a resolver backed by the given metadata service
func NewResolver(metadata MetadataService, logger *slog.Logger) *Resolver {
	return &Resolver{
		metadata: metadata,
		logger:   logger,
	}
}

// Resolve interprets a detailed status payload into a new PlayingInfo.
// The second return value reports whether the payload produced an update;
// it is false for unrecognized uiStatus values, in which case the caller
// keeps its previous snapshot. Lookup misses yield empty fields; channel
// ids absent from the table and transport failures are returned as errors.
func (r *Resolver) Resolve(ctx context.Context, status StatusPayload, channels map[string]ChannelDescriptor) (PlayingInfo, bool, error) {
	const op = "Resolver.Resolve"

	switch status.UIStatus {
	case "mainUI":
		if status.PlayerState == nil {
			return PlayingInfo{}, false, errors.NewError("MALFORMED_STATUS", "mainUI status without playerState", op, errors.ErrMalformedPayload)
		}
		info, err := r.resolvePlayer(ctx, *status.PlayerState, channels)
		if err != nil {
			return PlayingInfo{}, false, err
		}
		return info, true, nil

	case "apps":
		if status.AppsState == nil {
			return PlayingInfo{}, false, errors.NewError("MALFORMED_STATUS", "apps status without appsState", op, errors.ErrMalformedPayload)
		}
		return resolveApp(*status.AppsState), true, nil

	default:
		// Unknown UI states are deliberately ignored, not errors; the box
		// keeps whatever snapshot it had.
		r.logger.Debug("ignoring unrecognized uiStatus", "uiStatus", status.UIStatus)
		return PlayingInfo{}, false, nil
	}
}

func (r *Resolver) resolvePlayer(ctx context.Context, player PlayerState, channels map[string]ChannelDescriptor) (PlayingInfo, error) {
	const op = "Resolver.resolvePlayer"
	source := player.Source

	switch SourceKind(player.SourceType) {
	case SourceReplay:
		title, err := r.metadata.RecordingTitle(ctx, source.EventID)
		if err != nil {
			return PlayingInfo{}, err
		}
		image, err := r.metadata.RecordingImage(ctx, source.EventID)
		if err != nil {
			return PlayingInfo{}, err
		}
		return PlayingInfo{
			SourceType: SourceReplay,
			Title:      prefixTitle("ReplayTV: ", title),
			Image:      image,
			Paused:     player.Speed == 0,
		}, nil

	case SourceDVR:
		title, err := r.metadata.RecordingTitle(ctx, source.RecordingID)
		if err != nil {
			return PlayingInfo{}, err
		}
		image, err := r.metadata.RecordingImage(ctx, source.RecordingID)
		if err != nil {
			return PlayingInfo{}, err
		}
		return PlayingInfo{
			SourceType: SourceDVR,
			Title:      prefixTitle("Recording: ", title),
			Image:      image,
			Paused:     player.Speed == 0,
		}, nil

	case SourceBuffer:
		channel, ok := channels[source.ChannelID]
		if !ok {
			return PlayingInfo{}, errors.NewError("CHANNEL_UNKNOWN", fmt.Sprintf("channel %s not in lineup", source.ChannelID), op, errors.ErrChannelUnknown)
		}
		title, err := r.metadata.RecordingTitle(ctx, source.EventID)
		if err != nil {
			return PlayingInfo{}, err
		}
		return PlayingInfo{
			SourceType:   SourceBuffer,
			ChannelID:    channel.ID,
			ChannelTitle: channel.Title,
			Title:        prefixTitle("Delayed: ", title),
			Image:        channel.StreamImage,
			Paused:       player.Speed == 0,
		}, nil

	case SourceChannel:
		channel, ok := channels[source.ChannelID]
		if !ok {
			return PlayingInfo{}, errors.NewError("CHANNEL_UNKNOWN", fmt.Sprintf("channel %s not in lineup", source.ChannelID), op, errors.ErrChannelUnknown)
		}
		title, err := r.metadata.ListingTitle(ctx, source.EventID)
		if err != nil {
			return PlayingInfo{}, err
		}
		return PlayingInfo{
			SourceType:   SourceChannel,
			ChannelID:    channel.ID,
			ChannelTitle: channel.Title,
			Title:        title,
			Image:        channel.StreamImage,
			// A live channel is never considered paused, whatever the speed
			Paused: false,
		}, nil

	default:
		// Unrecognized source types degrade to a generic "playing
		// something" snapshot without any metadata lookup.
		r.logger.Debug("unrecognized sourceType", "sourceType", player.SourceType)
		return PlayingInfo{
			SourceType: SourceChannel,
			Title:      "Playing something...",
			Paused:     player.Speed == 0,
		}, nil
	}
}

func resolveApp(apps AppsState) PlayingInfo {
	logoPath := apps.LogoPath
	// Literal prefix check, not URL parsing: paths already starting with
	// "http:" pass through untouched, everything else gets "https:"
	// prepended (logo paths normally arrive as "//host/path").
	if !strings.HasPrefix(logoPath, "http:") {
		logoPath = "https:" + logoPath
	}
	return PlayingInfo{
		SourceType:   SourceApp,
		ChannelTitle: apps.AppName,
		Title:        apps.AppName,
		Image:        logoPath,
		Paused:       false,
	}
}

// prefixTitle joins a source prefix with a fetched title, leaving the
// title empty when the metadata service had no matching entry.
func prefixTitle(prefix, title string) string {
	if title == "" {
		return ""
	}
	return prefix + title
}
