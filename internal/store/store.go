// Package store implements the state container: the single in-memory copy of
// the engine state, persisted to the local cache and observed by listeners.
package store

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/pinboard/internal/cache"
	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// ListenerID identifies a registered listener.
type ListenerID uint64

type listener struct {
	id ListenerID
	fn func()
}

// Store holds the current State. Apply is the only way to change it.
//
// Applies are serialized. Each apply queues one notification pass; passes
// run in order, in registration order within a pass, with no store lock
// held, and never overlap. A listener may call Apply: the nested change is
// merged at once and its pass runs after the current one. An Apply that
// lands while another goroutine is notifying leaves its pass to that
// goroutine.
type Store struct {
	applyMu sync.Mutex

	mu        sync.RWMutex
	state     types.State
	listeners []listener
	nextID    ListenerID

	notifyMu sync.Mutex
	pending  int
	draining bool

	cache cache.Cache
	log   logrus.FieldLogger
}

// New loads the initial state from c. A missing, unreadable, or malformed
// snapshot yields empty collections; the failure is logged, never returned.
func New(c cache.Cache, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Store{cache: c, log: log}

	snap := types.Snapshot{}
	if c != nil {
		loaded, err := c.Load()
		if err != nil {
			log.WithError(err).Warn("local cache unreadable, starting empty")
		} else {
			snap = loaded
		}
	}
	s.state = snap.State()
	return s
}

// Get returns the current state. Collections must be treated as read-only.
func (s *Store) Get() types.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Apply computes a patch from the current state, merges it, persists the
// durable collections, and notifies listeners.
func (s *Store) Apply(fn func(prev types.State) types.Patch) {
	s.applyMu.Lock()
	s.mu.Lock()
	patch := fn(s.state)
	s.state = patch.Merge(s.state)
	next := s.state
	s.mu.Unlock()

	s.persist(next)

	s.notifyMu.Lock()
	s.pending++
	s.notifyMu.Unlock()
	s.applyMu.Unlock()

	s.drain()
}

// drain runs queued notification passes until none are left. Only one
// goroutine drains at a time; the others return at once.
func (s *Store) drain() {
	s.notifyMu.Lock()
	if s.draining {
		s.notifyMu.Unlock()
		return
	}
	s.draining = true
	for s.pending > 0 {
		s.pending--
		s.notifyMu.Unlock()

		s.mu.RLock()
		listeners := append([]listener(nil), s.listeners...)
		s.mu.RUnlock()
		for _, l := range listeners {
			l.fn()
		}

		s.notifyMu.Lock()
	}
	s.draining = false
	s.notifyMu.Unlock()
}

// Set merges a fixed patch. Equivalent to Apply with a constant function.
func (s *Store) Set(p types.Patch) {
	s.Apply(func(types.State) types.Patch { return p })
}

// Subscribe registers fn to run after every apply.
func (s *Store) Subscribe(fn func()) ListenerID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.listeners = append(s.listeners, listener{id: s.nextID, fn: fn})
	return s.nextID
}

// Unsubscribe removes a listener. Unknown ids are ignored.
func (s *Store) Unsubscribe(id ListenerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

// persist writes the durable snapshot. In-memory state wins over
// durability: a failed write is logged and otherwise ignored.
func (s *Store) persist(st types.State) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Save(st.Snapshot()); err != nil {
		s.log.WithError(err).Error("local cache write failed")
	}
}
