package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatchMerge(t *testing.T) {
	selected := "c1"
	base := State{
		Clients:         []Client{{ID: "c1", Name: "Acme"}},
		Cards:           []ContentCard{{ID: "k1", ClientID: "c1"}},
		CurrentClientID: &selected,
	}

	t.Run("empty patch keeps everything", func(t *testing.T) {
		p := Patch{}
		assert.True(t, p.Empty())
		got := p.Merge(base)
		assert.Equal(t, base, got)
	})

	t.Run("replaces only supplied collections", func(t *testing.T) {
		cards := []ContentCard{}
		got := Patch{Cards: &cards}.Merge(base)
		assert.Empty(t, got.Cards)
		assert.Equal(t, base.Clients, got.Clients)
		require.NotNil(t, got.CurrentClientID)
		assert.Equal(t, "c1", *got.CurrentClientID)
	})

	t.Run("clear current client wins over set", func(t *testing.T) {
		other := "c2"
		got := Patch{CurrentClientID: &other, ClearCurrentClient: true}.Merge(base)
		assert.Nil(t, got.CurrentClientID)
	})

	t.Run("current client id is copied", func(t *testing.T) {
		other := "c2"
		got := Patch{CurrentClientID: &other}.Merge(base)
		other = "mutated"
		require.NotNil(t, got.CurrentClientID)
		assert.Equal(t, "c2", *got.CurrentClientID)
	})
}

func TestSnapshotStateFillsEmptyCollections(t *testing.T) {
	st := Snapshot{}.State()
	assert.NotNil(t, st.Clients)
	assert.NotNil(t, st.Cards)
	assert.NotNil(t, st.DailyNotes)
	assert.Nil(t, st.CurrentClientID)
	assert.False(t, st.IsLoading)
}

func TestStateSnapshotExcludesTransientFields(t *testing.T) {
	selected := "c1"
	st := State{
		Clients:         []Client{{ID: "c1"}},
		CurrentClientID: &selected,
		IsLoading:       true,
	}
	snap := st.Snapshot()
	assert.Len(t, snap.Clients, 1)
	assert.Nil(t, snap.Cards)
}

func TestContentCardCloneSharesNoSlices(t *testing.T) {
	orig := ContentCard{ID: "k1", Tags: []string{"a"}, Links: []string{"l"}}
	cp := orig.Clone()
	cp.Tags[0] = "b"
	cp.Links[0] = "m"
	assert.Equal(t, "a", orig.Tags[0])
	assert.Equal(t, "l", orig.Links[0])
}
