package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	v1alpha1 "github.com/settopbox/stbridge/api/types/v1alpha1"
	"github.com/settopbox/stbridge/internal/stbridged/box"
	"github.com/settopbox/stbridge/internal/stbridged/errors"
)

// mockService implements box.Service for handler tests
type mockService struct {
	mock.Mock
}

func (m *mockService) Boxes() []box.Snapshot {
	args := m.Called()
	return args.Get(0).([]box.Snapshot)
}

func (m *mockService) Box(id string) (box.Snapshot, error) {
	args := m.Called(id)
	return args.Get(0).(box.Snapshot), args.Error(1)
}

func (m *mockService) SendKey(id, key string) error {
	args := m.Called(id, key)
	return args.Error(0)
}

func (m *mockService) SetChannel(id, channelID string) error {
	args := m.Called(id, channelID)
	return args.Error(0)
}

func (m *mockService) PowerOff(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHandler(t *testing.T) (*Handler, *mockService, *Hub) {
	t.Helper()
	service := &mockService{}
	hub := NewHub(testLogger())
	return NewHandler(service, hub, nil, testLogger()), service, hub
}

func notFoundErr() error {
	return errors.NewError("BOX_NOT_FOUND", "no box with id", "test", errors.ErrNotFound)
}

func TestListBoxes(t *testing.T) {
	handler, service, _ := newTestHandler(t)
	service.On("Boxes").Return([]box.Snapshot{
		{
			ID:        "box-1",
			Name:      "Living room",
			State:     box.StateRunning,
			Available: true,
			Info:      box.PlayingInfo{SourceType: box.SourceChannel, ChannelID: "NL_000001", Title: "Journaal"},
		},
		{
			ID:    "box-2",
			Name:  "Bedroom",
			State: box.StateUnknown,
		},
	})

	rec := httptest.NewRecorder()
	handler.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1alpha1/boxes/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var list v1alpha1.BoxList
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	assert.Equal(t, "BoxList", list.Kind)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "box-1", list.Items[0].ID)
	assert.Equal(t, v1alpha1.BoxStateRunning, list.Items[0].State)
	assert.Equal(t, "Journaal", list.Items[0].PlayingInfo.Title)
	assert.Equal(t, v1alpha1.BoxStateUnknown, list.Items[1].State)
}

func TestGetBox(t *testing.T) {
	handler, service, _ := newTestHandler(t)
	service.On("Box", "box-1").Return(box.Snapshot{
		ID:        "box-1",
		Name:      "Living room",
		State:     box.StateStandby,
		Available: true,
	}, nil)

	rec := httptest.NewRecorder()
	handler.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1alpha1/boxes/box-1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var b v1alpha1.Box
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&b))
	assert.Equal(t, "Box", b.Kind)
	assert.Equal(t, v1alpha1.BoxStateStandby, b.State)
	assert.True(t, b.Available)
}

func TestGetBoxNotFound(t *testing.T) {
	handler, service, _ := newTestHandler(t)
	service.On("Box", "missing").Return(box.Snapshot{}, notFoundErr())

	rec := httptest.NewRecorder()
	handler.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1alpha1/boxes/missing", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "BOX_NOT_FOUND")
}

func TestSendKey(t *testing.T) {
	handler, service, _ := newTestHandler(t)
	service.On("SendKey", "box-1", "MediaPlayPause").Return(nil)

	body := bytes.NewBufferString(`{"key":"MediaPlayPause"}`)
	rec := httptest.NewRecorder()
	handler.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1alpha1/boxes/box-1/keys", body))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	service.AssertExpectations(t)
}

func TestSendKeyInvalidBody(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	body := bytes.NewBufferString(`{`)
	rec := httptest.NewRecorder()
	handler.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1alpha1/boxes/box-1/keys", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendKeyEmptyKeyRejected(t *testing.T) {
	handler, service, _ := newTestHandler(t)
	service.On("SendKey", "box-1", "").Return(
		errors.NewError("INVALID_KEY", "key must not be empty", "test", errors.ErrInvalidInput))

	body := bytes.NewBufferString(`{"key":""}`)
	rec := httptest.NewRecorder()
	handler.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1alpha1/boxes/box-1/keys", body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetChannel(t *testing.T) {
	handler, service, _ := newTestHandler(t)
	service.On("SetChannel", "box-1", "NL_000001").Return(nil)

	body := bytes.NewBufferString(`{"channelId":"NL_000001"}`)
	rec := httptest.NewRecorder()
	handler.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1alpha1/boxes/box-1/channel", body))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	service.AssertExpectations(t)
}

func TestPowerOff(t *testing.T) {
	handler, service, _ := newTestHandler(t)
	service.On("PowerOff", "box-1").Return(nil)

	rec := httptest.NewRecorder()
	handler.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1alpha1/boxes/box-1/power", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	service.AssertExpectations(t)
}

func TestHealthEndpoints(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		handler.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "ok")
	}
}

func TestEventStreamBroadcast(t *testing.T) {
	handler, _, hub := newTestHandler(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(handler.Router())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1alpha1/boxes/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	// Give the hub a moment to register the connection
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, hub.Publish(context.Background(), box.Event{
		Type:      box.EventPlayingChanged,
		BoxID:     "box-1",
		State:     box.StateRunning,
		Info:      box.PlayingInfo{SourceType: box.SourceChannel, Title: "Journaal"},
		Timestamp: time.Now(),
	}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	var event v1alpha1.BoxEvent
	require.NoError(t, json.Unmarshal(frame, &event))
	assert.Equal(t, "BoxEvent", event.Kind)
	assert.Equal(t, v1alpha1.BoxEventPlayingChanged, event.Type)
	assert.Equal(t, "box-1", event.BoxID)
	assert.Equal(t, "Journaal", event.PlayingInfo.Title)
}
