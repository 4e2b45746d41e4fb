package box

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/settopbox/stbridge/internal/stbridged/errors"
)

// Manager is a registry of synchronizers, one per tracked box. It exists
// to give the HTTP layer a single handle; each synchronizer still models
// exactly one box and boxes do not coordinate with each other.
type Manager struct {
	mu     sync.RWMutex
	boxes  map[string]*Synchronizer
	order  []string
	logger *slog.Logger
}

// NewManager creates an empty manager
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		boxes:  make(map[string]*Synchronizer),
		logger: logger,
	}
}

// Add registers a synchronizer under its box id
func (m *Manager) Add(s *Synchronizer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boxes[s.ID()]; !ok {
		m.order = append(m.order, s.ID())
	}
	m.boxes[s.ID()] = s
}

// Register registers every synchronizer with the broker
func (m *Manager) Register() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, id := range m.order {
		if err := m.boxes[id].Register(); err != nil {
			return fmt.Errorf("registering box %s: %w", id, err)
		}
	}
	return nil
}

// SetSink plugs the event sink into every synchronizer
func (m *Manager) SetSink(sink EventSink) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.boxes {
		s.SetSink(sink)
	}
}

// Boxes returns snapshots of all tracked boxes in registration order
func (m *Manager) Boxes() []Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshots := make([]Snapshot, 0, len(m.order))
	for _, id := range m.order {
		snapshots = append(snapshots, m.boxes[id].Snapshot())
	}
	return snapshots
}

// Box returns the snapshot for one box
func (m *Manager) Box(id string) (Snapshot, error) {
	s, err := m.get(id)
	if err != nil {
		return Snapshot{}, err
	}
	return s.Snapshot(), nil
}

// SendKey emulates a remote-control key press on a box
func (m *Manager) SendKey(id, key string) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	return s.SendKey(key)
}

// SetChannel tunes a box to a linear channel
func (m *Manager) SetChannel(id, channelID string) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	return s.SetChannel(channelID)
}

// PowerOff clears a box's playing-info snapshot locally
func (m *Manager) PowerOff(id string) error {
	s, err := m.get(id)
	if err != nil {
		return err
	}
	s.PowerOff()
	return nil
}

func (m *Manager) get(id string) (*Synchronizer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.boxes[id]
	if !ok {
		return nil, errors.NewError("BOX_NOT_FOUND", fmt.Sprintf("box not found: %s", id), "Manager.get", errors.ErrNotFound)
	}
	return s, nil
}
