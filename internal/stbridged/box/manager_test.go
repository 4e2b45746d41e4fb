package box_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settopbox/stbridge/internal/stbridged/box"
	"github.com/settopbox/stbridge/internal/stbridged/box/mocks"
	"github.com/settopbox/stbridge/internal/stbridged/errors"
)

func newManagerWithBoxes(t *testing.T, ids ...string) (*box.Manager, *mocks.Broker) {
	t.Helper()
	broker := mocks.NewBroker()
	metadata := &mocks.MetadataService{}
	resolver := box.NewResolver(metadata, testLogger())

	manager := box.NewManager(testLogger())
	for _, id := range ids {
		manager.Add(box.NewSynchronizer(&box.Box{
			ID:          id,
			Name:        "Box " + id,
			HouseholdID: testHousehold,
		}, testClientID, "Test Bridge", broker, resolver, testLogger()))
	}
	return manager, broker
}

func TestManagerBoxesInRegistrationOrder(t *testing.T) {
	manager, _ := newManagerWithBoxes(t, "box-b", "box-a", "box-c")

	snapshots := manager.Boxes()
	require.Len(t, snapshots, 3)
	assert.Equal(t, "box-b", snapshots[0].ID)
	assert.Equal(t, "box-a", snapshots[1].ID)
	assert.Equal(t, "box-c", snapshots[2].ID)
}

func TestManagerBoxNotFound(t *testing.T) {
	manager, _ := newManagerWithBoxes(t, "box-a")

	_, err := manager.Box("missing")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	assert.True(t, errors.IsNotFound(manager.SendKey("missing", box.KeyPower)))
	assert.True(t, errors.IsNotFound(manager.SetChannel("missing", "NL_000001")))
	assert.True(t, errors.IsNotFound(manager.PowerOff("missing")))
}

func TestManagerRegisterAll(t *testing.T) {
	manager, broker := newManagerWithBoxes(t, "box-a", "box-b")

	require.NoError(t, manager.Register())

	// One shared subscription pair, one presence publish per box
	assert.Len(t, broker.Handlers[testHousehold], 2)
	assert.Len(t, broker.Handlers[testHousehold+"/+/status"], 2)
	assert.Len(t, broker.PublishedTo(testHousehold), 2)
}

func TestManagerSinkFanout(t *testing.T) {
	manager, _ := newManagerWithBoxes(t, "box-a", "box-b")

	sink := mocks.NewEventSink()
	manager.SetSink(sink)

	require.NoError(t, manager.PowerOff("box-a"))
	require.NoError(t, manager.PowerOff("box-b"))

	require.Len(t, sink.Events, 2)
	assert.Equal(t, "box-a", sink.Events[0].BoxID)
	assert.Equal(t, "box-b", sink.Events[1].BoxID)
	for _, event := range sink.Events {
		assert.Equal(t, box.EventPlayingChanged, event.Type)
	}
}

func TestManagerControlRoutesToRightBox(t *testing.T) {
	manager, broker := newManagerWithBoxes(t, "box-a", "box-b")

	require.NoError(t, manager.SendKey("box-b", box.KeyChannelUp))

	topic := testHousehold + "/box-b"
	published := broker.PublishedTo(topic)
	// Key event plus the follow-up state request
	require.Len(t, published, 2)
	assert.Contains(t, string(published[0]), box.KeyChannelUp)
	assert.Empty(t, broker.PublishedTo(testHousehold+"/box-a"))
}
