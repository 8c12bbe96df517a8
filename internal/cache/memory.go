package cache

import (
	"encoding/json"
	"sync"

	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// Memory keeps the snapshot in process. Saved snapshots are deep-copied
// through JSON so later state changes cannot leak into the stored value.
type Memory struct {
	mu      sync.Mutex
	data    []byte
	saves   int
	saveErr error
	loadErr error
}

var _ Cache = (*Memory)(nil)

// NewMemory returns an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{}
}

// Seed stores snap as if it had been saved earlier.
func (m *Memory) Seed(snap types.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

// FailSaves makes every subsequent Save return err (nil restores success).
func (m *Memory) FailSaves(err error) {
	m.mu.Lock()
	m.saveErr = err
	m.mu.Unlock()
}

// FailLoads makes Load return err.
func (m *Memory) FailLoads(err error) {
	m.mu.Lock()
	m.loadErr = err
	m.mu.Unlock()
}

// Saves returns how many Save calls succeeded.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Load returns the stored snapshot.
func (m *Memory) Load() (types.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var snap types.Snapshot
	if m.loadErr != nil {
		return snap, m.loadErr
	}
	if m.data == nil {
		return snap, nil
	}
	err := json.Unmarshal(m.data, &snap)
	return snap, err
}

// Save stores a copy of snap.
func (m *Memory) Save(snap types.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	m.data = data
	m.saves++
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
