package cache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pinboard/pkg/types"
)

func sampleSnapshot() types.Snapshot {
	return types.Snapshot{
		Clients: []types.Client{{ID: "c1", Name: "Acme", CreatedAt: "2026-01-01T00:00:00.000Z"}},
		Cards: []types.ContentCard{{
			ID: "k1", ClientID: "c1", Title: "Launch", Type: "Post", Pillar: "General",
			Status: "To Do", Links: []string{}, Checklist: []types.ChecklistItem{}, Tags: []string{"a"},
		}},
		DailyNotes: []json.RawMessage{json.RawMessage(`{"date":"2026-01-01","text":"hi"}`)},
	}
}

func TestCacheDrivers(t *testing.T) {
	drivers := []struct {
		name string
		open func(t *testing.T) Cache
	}{
		{"json", func(t *testing.T) Cache { return NewJSONFile(t.TempDir()) }},
		{"sqlite", func(t *testing.T) Cache {
			c, err := OpenSQLite(t.TempDir())
			require.NoError(t, err)
			return c
		}},
		{"memory", func(t *testing.T) Cache { return NewMemory() }},
	}

	for _, d := range drivers {
		t.Run(d.name, func(t *testing.T) {
			t.Run("fresh cache loads empty snapshot", func(t *testing.T) {
				c := d.open(t)
				t.Cleanup(func() { c.Close() })

				snap, err := c.Load()
				require.NoError(t, err)
				assert.Empty(t, snap.Clients)
				assert.Empty(t, snap.Cards)
				assert.Empty(t, snap.DailyNotes)
			})

			t.Run("save then load returns same snapshot", func(t *testing.T) {
				c := d.open(t)
				t.Cleanup(func() { c.Close() })

				want := sampleSnapshot()
				require.NoError(t, c.Save(want))

				got, err := c.Load()
				require.NoError(t, err)
				assert.Equal(t, want.Clients, got.Clients)
				assert.Equal(t, want.Cards, got.Cards)
				require.Len(t, got.DailyNotes, 1)
				assert.JSONEq(t, string(want.DailyNotes[0]), string(got.DailyNotes[0]))
			})

			t.Run("later save replaces earlier one", func(t *testing.T) {
				c := d.open(t)
				t.Cleanup(func() { c.Close() })

				require.NoError(t, c.Save(sampleSnapshot()))
				require.NoError(t, c.Save(types.Snapshot{Clients: []types.Client{}}))

				got, err := c.Load()
				require.NoError(t, err)
				assert.Empty(t, got.Clients)
				assert.Empty(t, got.Cards)
			})

			t.Run("close is idempotent", func(t *testing.T) {
				c := d.open(t)
				require.NoError(t, c.Close())
				require.NoError(t, c.Close())
			})
		})
	}
}

func TestJSONFileMalformedSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SnapshotFileName), []byte("{not json"), 0o644))

	_, err := NewJSONFile(dir).Load()
	assert.Error(t, err)
}

func TestJSONFileSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	c := NewJSONFile(dir)
	require.NoError(t, c.Save(sampleSnapshot()))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, SnapshotFileName, entries[0].Name())
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	c, err := OpenSQLite(dir)
	require.NoError(t, err)
	require.NoError(t, c.Save(sampleSnapshot()))
	require.NoError(t, c.Close())

	c2, err := OpenSQLite(dir)
	require.NoError(t, err)
	t.Cleanup(func() { c2.Close() })

	got, err := c2.Load()
	require.NoError(t, err)
	assert.Len(t, got.Clients, 1)
	assert.Len(t, got.Cards, 1)
}

func TestMemoryFailures(t *testing.T) {
	m := NewMemory()
	boom := errors.New("quota exceeded")

	m.FailSaves(boom)
	assert.ErrorIs(t, m.Save(sampleSnapshot()), boom)
	assert.Equal(t, 0, m.Saves())

	m.FailSaves(nil)
	require.NoError(t, m.Save(sampleSnapshot()))
	assert.Equal(t, 1, m.Saves())

	m.FailLoads(boom)
	_, err := m.Load()
	assert.ErrorIs(t, err, boom)
}

func TestOpen(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.CacheConfig
		want    any
		wantErr error
	}{
		{"default is json", types.CacheConfig{}, &JSONFile{}, nil},
		{"sqlite", types.CacheConfig{Backend: types.CacheSQLite}, &SQLite{}, nil},
		{"memory", types.CacheConfig{Backend: types.CacheMemory}, &Memory{}, nil},
		{"unknown", types.CacheConfig{Backend: "redis"}, nil, types.ErrCacheUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			cfg.DataDir = filepath.Join(t.TempDir(), "nested")
			c, err := Open(cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { c.Close() })
			assert.IsType(t, tt.want, c)
		})
	}
}
