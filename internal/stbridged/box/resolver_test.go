package box_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/settopbox/stbridge/internal/stbridged/box"
	"github.com/settopbox/stbridge/internal/stbridged/box/mocks"
	"github.com/settopbox/stbridge/internal/stbridged/errors"
)

func testChannels() map[string]box.ChannelDescriptor {
	return map[string]box.ChannelDescriptor{
		"NL_000001": {ID: "NL_000001", Title: "NPO 1", StreamImage: "https://img.example/npo1.png"},
	}
}

func playerStatus(sourceType string, speed float64, source box.PlayerSource) box.StatusPayload {
	return box.StatusPayload{
		UIStatus: "mainUI",
		PlayerState: &box.PlayerState{
			SourceType: sourceType,
			Speed:      speed,
			Source:     source,
		},
	}
}

func TestResolveLiveChannel(t *testing.T) {
	tests := []struct {
		name      string
		speed     float64
		title     string
		wantTitle string
	}{
		{
			name:      "running program",
			speed:     1,
			title:     "Journaal",
			wantTitle: "Journaal",
		},
		{
			// Live is never paused, whatever the reported speed.
			name:      "speed zero still not paused",
			speed:     0,
			title:     "Journaal",
			wantTitle: "Journaal",
		},
		{
			name:      "listing miss falls back to empty title",
			speed:     1,
			title:     "",
			wantTitle: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metadata := &mocks.MetadataService{}
			metadata.On("ListingTitle", mock.Anything, "crid:event-1").Return(tt.title, nil)
			resolver := box.NewResolver(metadata, testLogger())

			info, ok, err := resolver.Resolve(context.Background(),
				playerStatus("linear", tt.speed, box.PlayerSource{ChannelID: "NL_000001", EventID: "crid:event-1"}),
				testChannels())

			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, box.SourceChannel, info.SourceType)
			assert.Equal(t, "NL_000001", info.ChannelID)
			assert.Equal(t, "NPO 1", info.ChannelTitle)
			assert.Equal(t, tt.wantTitle, info.Title)
			assert.Equal(t, "https://img.example/npo1.png", info.Image)
			assert.False(t, info.Paused)
		})
	}
}

func TestResolveReplayPausedAtSpeedZero(t *testing.T) {
	metadata := &mocks.MetadataService{}
	metadata.On("RecordingTitle", mock.Anything, "crid:event-7").Return("Wie is de Mol", nil)
	metadata.On("RecordingImage", mock.Anything, "crid:event-7").Return("https://img.example/mol.png", nil)
	resolver := box.NewResolver(metadata, testLogger())

	info, ok, err := resolver.Resolve(context.Background(),
		playerStatus("replay", 0, box.PlayerSource{EventID: "crid:event-7"}),
		testChannels())

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, box.SourceReplay, info.SourceType)
	assert.Equal(t, "ReplayTV: Wie is de Mol", info.Title)
	assert.Equal(t, "https://img.example/mol.png", info.Image)
	assert.Empty(t, info.ChannelID)
	assert.Empty(t, info.ChannelTitle)
	assert.True(t, info.Paused)
}

func TestResolveRecording(t *testing.T) {
	metadata := &mocks.MetadataService{}
	metadata.On("RecordingTitle", mock.Anything, "crid:rec-3").Return("Tatort", nil)
	metadata.On("RecordingImage", mock.Anything, "crid:rec-3").Return("https://img.example/tatort.png", nil)
	resolver := box.NewResolver(metadata, testLogger())

	info, ok, err := resolver.Resolve(context.Background(),
		playerStatus("nDVR", 2, box.PlayerSource{RecordingID: "crid:rec-3"}),
		testChannels())

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, box.SourceDVR, info.SourceType)
	assert.Equal(t, "Recording: Tatort", info.Title)
	assert.False(t, info.Paused)
}

func TestResolveBuffer(t *testing.T) {
	metadata := &mocks.MetadataService{}
	metadata.On("RecordingTitle", mock.Anything, "crid:event-2").Return("Studio Sport", nil)
	resolver := box.NewResolver(metadata, testLogger())

	info, ok, err := resolver.Resolve(context.Background(),
		playerStatus("reviewbuffer", 0, box.PlayerSource{ChannelID: "NL_000001", EventID: "crid:event-2"}),
		testChannels())

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, box.SourceBuffer, info.SourceType)
	assert.Equal(t, "NL_000001", info.ChannelID)
	assert.Equal(t, "NPO 1", info.ChannelTitle)
	assert.Equal(t, "Delayed: Studio Sport", info.Title)
	assert.Equal(t, "https://img.example/npo1.png", info.Image)
	assert.True(t, info.Paused)
}

func TestResolveBufferUnknownChannel(t *testing.T) {
	resolver := box.NewResolver(&mocks.MetadataService{}, testLogger())

	_, _, err := resolver.Resolve(context.Background(),
		playerStatus("reviewbuffer", 1, box.PlayerSource{ChannelID: "NL_999999", EventID: "crid:event-2"}),
		testChannels())

	require.Error(t, err)
	assert.True(t, errors.IsChannelUnknown(err))
}

func TestResolveUnrecognizedSourceType(t *testing.T) {
	metadata := &mocks.MetadataService{}
	resolver := box.NewResolver(metadata, testLogger())

	info, ok, err := resolver.Resolve(context.Background(),
		playerStatus("vod", 0, box.PlayerSource{EventID: "crid:event-5"}),
		testChannels())

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, box.SourceChannel, info.SourceType)
	assert.Empty(t, info.ChannelID)
	assert.Equal(t, "Playing something...", info.Title)
	assert.Empty(t, info.Image)
	assert.True(t, info.Paused)
	// The fallback never touches the metadata service.
	metadata.AssertNotCalled(t, "RecordingTitle", mock.Anything, mock.Anything)
	metadata.AssertNotCalled(t, "ListingTitle", mock.Anything, mock.Anything)
}

func TestResolveApps(t *testing.T) {
	tests := []struct {
		name      string
		logoPath  string
		wantImage string
	}{
		{
			name:      "scheme-less logo path gets https prefix",
			logoPath:  "//cdn.example/x.png",
			wantImage: "https://cdn.example/x.png",
		},
		{
			// Literal prefix check: anything already starting with the
			// substring "http:" passes through untouched.
			name:      "http-prefixed path untouched",
			logoPath:  "http:images.example/a.png",
			wantImage: "http:images.example/a.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := box.NewResolver(&mocks.MetadataService{}, testLogger())

			info, ok, err := resolver.Resolve(context.Background(), box.StatusPayload{
				UIStatus:  "apps",
				AppsState: &box.AppsState{AppName: "Netflix", LogoPath: tt.logoPath},
			}, testChannels())

			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, box.SourceApp, info.SourceType)
			assert.Equal(t, "Netflix", info.Title)
			assert.Equal(t, "Netflix", info.ChannelTitle)
			assert.Equal(t, tt.wantImage, info.Image)
			assert.False(t, info.Paused)
		})
	}
}

func TestResolveUnknownUIStatusIsNoUpdate(t *testing.T) {
	resolver := box.NewResolver(&mocks.MetadataService{}, testLogger())

	_, ok, err := resolver.Resolve(context.Background(),
		box.StatusPayload{UIStatus: "screensaver"}, testChannels())

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolveLookupTransportErrorPropagates(t *testing.T) {
	metadata := &mocks.MetadataService{}
	metadata.On("RecordingTitle", mock.Anything, "crid:event-7").Return("", assert.AnError)
	resolver := box.NewResolver(metadata, testLogger())

	_, _, err := resolver.Resolve(context.Background(),
		playerStatus("replay", 1, box.PlayerSource{EventID: "crid:event-7"}),
		testChannels())

	assert.ErrorIs(t, err, assert.AnError)
}

func TestResolveMainUIWithoutPlayerState(t *testing.T) {
	resolver := box.NewResolver(&mocks.MetadataService{}, testLogger())

	_, _, err := resolver.Resolve(context.Background(),
		box.StatusPayload{UIStatus: "mainUI"}, testChannels())

	require.Error(t, err)
	assert.True(t, errors.IsMalformedPayload(err))
}
