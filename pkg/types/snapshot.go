package types

import "encoding/json"

// Snapshot is the durable record written to the local cache on every state
// change. DailyNotes is carried through untouched.
type Snapshot struct {
	Clients    []Client          `json:"clients"`
	Cards      []ContentCard     `json:"cards"`
	DailyNotes []json.RawMessage `json:"dailyNotes"`
}

// State returns the initial state seeded from the snapshot. Nil collections
// become empty ones.
func (s Snapshot) State() State {
	st := State{
		Clients:    s.Clients,
		Cards:      s.Cards,
		DailyNotes: s.DailyNotes,
	}
	if st.Clients == nil {
		st.Clients = []Client{}
	}
	if st.Cards == nil {
		st.Cards = []ContentCard{}
	}
	if st.DailyNotes == nil {
		st.DailyNotes = []json.RawMessage{}
	}
	return st
}
