package types

import "encoding/json"

// State is the complete in-memory value held by the state container.
// Collections are replaced on every change and never mutated in place, so a
// collection's slice identity changes exactly when its contents change.
type State struct {
	Clients    []Client
	Cards      []ContentCard
	DailyNotes []json.RawMessage

	// CurrentClientID is nil when no client is selected.
	CurrentClientID *string
	// IsLoading is transient and never persisted.
	IsLoading bool
}

// Snapshot returns the durable subset of the state.
func (s State) Snapshot() Snapshot {
	return Snapshot{
		Clients:    s.Clients,
		Cards:      s.Cards,
		DailyNotes: s.DailyNotes,
	}
}

// FindClient returns the client with the given ID.
func (s State) FindClient(id string) (Client, bool) {
	for _, c := range s.Clients {
		if c.ID == id {
			return c, true
		}
	}
	return Client{}, false
}

// FindCard returns the card with the given ID.
func (s State) FindCard(id string) (ContentCard, bool) {
	for _, c := range s.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return ContentCard{}, false
}

// Patch is a partial State. Nil fields leave the current value unchanged.
type Patch struct {
	Clients    *[]Client
	Cards      *[]ContentCard
	DailyNotes *[]json.RawMessage

	CurrentClientID    *string
	ClearCurrentClient bool
	IsLoading          *bool
}

// Merge applies p on top of s and returns the result.
// ClearCurrentClient takes precedence over CurrentClientID.
func (p Patch) Merge(s State) State {
	if p.Clients != nil {
		s.Clients = *p.Clients
	}
	if p.Cards != nil {
		s.Cards = *p.Cards
	}
	if p.DailyNotes != nil {
		s.DailyNotes = *p.DailyNotes
	}
	if p.CurrentClientID != nil {
		id := *p.CurrentClientID
		s.CurrentClientID = &id
	}
	if p.ClearCurrentClient {
		s.CurrentClientID = nil
	}
	if p.IsLoading != nil {
		s.IsLoading = *p.IsLoading
	}
	return s
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Clients == nil && p.Cards == nil && p.DailyNotes == nil &&
		p.CurrentClientID == nil && !p.ClearCurrentClient && p.IsLoading == nil
}
