package remote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pinboard/pkg/types"
)

func TestMemoryInsertAssignsServerFields(t *testing.T) {
	m := NewMemory()
	row, err := m.InsertClient(context.Background(), types.Row{"name": "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "srv-1", row[types.ColID])
	assert.IsType(t, time.Time{}, row[types.ColCreatedAt])

	stored, ok := m.Client("srv-1")
	require.True(t, ok)
	assert.Equal(t, "Acme", stored["name"])
}

func TestMemoryListClientsOrderedByName(t *testing.T) {
	m := NewMemory()
	m.PutClient(types.Row{"id": "1", "name": "Zed"})
	m.PutClient(types.Row{"id": "2", "name": "Acme"})
	m.PutClient(types.Row{"id": "3", "name": "Mid"})

	rows, err := m.ListClients(context.Background())
	require.NoError(t, err)
	names := []any{rows[0]["name"], rows[1]["name"], rows[2]["name"]}
	assert.Equal(t, []any{"Acme", "Mid", "Zed"}, names)
}

func TestMemoryFailAndCalls(t *testing.T) {
	m := NewMemory()
	boom := errors.New("offline")
	m.Fail(OpInsertCard, boom)

	_, err := m.InsertCard(context.Background(), types.Row{})
	assert.ErrorIs(t, err, boom)

	m.Fail(OpInsertCard, nil)
	_, err = m.InsertCard(context.Background(), types.Row{})
	require.NoError(t, err)

	assert.Equal(t, []string{OpInsertCard, OpInsertCard}, m.Calls())
}

func TestMemoryUpdateMissing(t *testing.T) {
	m := NewMemory()
	err := m.UpdateCard(context.Background(), "nope", types.Row{"title": "x"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestMemoryHoldRespectsContext(t *testing.T) {
	m := NewMemory()
	m.Hold()
	defer m.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := m.DeleteCard(ctx, "k1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryCardsRejectUnknownColumns(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.InsertCard(ctx, types.Row{"title": "t", "status": "Draft"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"status"`)
	assert.Empty(t, mustListCards(t, m))

	row, err := m.InsertCard(ctx, types.Row{"title": "t", "client_id": nil})
	require.NoError(t, err)
	id := row[types.ColID].(string)

	err = m.UpdateCard(ctx, id, types.Row{"caption": "c"})
	require.Error(t, err)
	stored, _ := m.Card(id)
	assert.NotContains(t, stored, "caption")

	require.NoError(t, m.UpdateCard(ctx, id, types.Row{"title": "u"}))
}

func TestMemoryClientsAcceptProfileColumns(t *testing.T) {
	m := NewMemory()
	_, err := m.InsertClient(context.Background(), types.Row{"name": "Acme", "niche": "coffee", "tone": "warm"})
	require.NoError(t, err)
}

func mustListCards(t *testing.T, m *Memory) []types.Row {
	t.Helper()
	rows, err := m.ListCards(context.Background())
	require.NoError(t, err)
	return rows
}
