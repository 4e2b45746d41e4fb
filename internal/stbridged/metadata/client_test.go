package metadata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLookupTitleAndImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listings/crid:event-1", r.URL.Path)
		fmt.Fprint(w, `{"program":{"title":"Journaal","images":[{"url":"https://img.example/j.png"},{"url":"https://img.example/j2.png"}]}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())

	title, err := c.RecordingTitle(context.Background(), "crid:event-1")
	require.NoError(t, err)
	assert.Equal(t, "Journaal", title)

	image, err := c.RecordingImage(context.Background(), "crid:event-1")
	require.NoError(t, err)
	assert.Equal(t, "https://img.example/j.png", image)

	listing, err := c.ListingTitle(context.Background(), "crid:event-1")
	require.NoError(t, err)
	assert.Equal(t, "Journaal", listing)
}

func TestLookupMissIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())

	title, err := c.RecordingTitle(context.Background(), "crid:unknown")
	require.NoError(t, err)
	assert.Empty(t, title)

	image, err := c.RecordingImage(context.Background(), "crid:unknown")
	require.NoError(t, err)
	assert.Empty(t, image)
}

func TestLookupIsCached(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, `{"program":{"title":"Tatort"}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testLogger())

	for i := 0; i < 3; i++ {
		title, err := c.RecordingTitle(context.Background(), "crid:rec-3")
		require.NoError(t, err)
		assert.Equal(t, "Tatort", title)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestLookupTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL, testLogger())

	_, err := c.RecordingTitle(context.Background(), "crid:event-1")
	assert.Error(t, err)
}

func TestLookupHonorsContextDuringRateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"program":{"title":"A"}}`)
	}))
	defer srv.Close()

	// One request per minute, no burst headroom after the first call
	c := NewClient(srv.URL, testLogger(), WithRateLimit(1.0/60, 1))

	_, err := c.RecordingTitle(context.Background(), "crid:a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = c.RecordingTitle(ctx, "crid:b")
	assert.Error(t, err)
}
