package remote

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// Memory is an in-process Remote. It assigns sequential ids, records every
// call, and can be told to fail or to hold calls until released.
type Memory struct {
	mu      sync.Mutex
	nextID  int
	clients map[string]types.Row
	cards   map[string]types.Row
	calls   []string
	fail    map[string]error
	gate    chan struct{}
	now     func() time.Time
}

var _ Remote = (*Memory)(nil)

// NewMemory returns an empty in-memory remote.
func NewMemory() *Memory {
	return &Memory{
		clients: make(map[string]types.Row),
		cards:   make(map[string]types.Row),
		fail:    make(map[string]error),
		now:     time.Now,
	}
}

// Remote operation names used by Fail and Calls.
const (
	OpListClients  = "ListClients"
	OpListCards    = "ListCards"
	OpInsertClient = "InsertClient"
	OpUpdateClient = "UpdateClient"
	OpDeleteClient = "DeleteClient"
	OpInsertCard   = "InsertCard"
	OpUpdateCard   = "UpdateCard"
	OpDeleteCard   = "DeleteCard"
)

// AllOps lists every operation name.
var AllOps = []string{
	OpListClients, OpListCards,
	OpInsertClient, OpUpdateClient, OpDeleteClient,
	OpInsertCard, OpUpdateCard, OpDeleteCard,
}

// Fail makes op return err until cleared with a nil err.
func (m *Memory) Fail(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.fail, op)
		return
	}
	m.fail[op] = err
}

// Hold makes every call block until Release is called or its context ends.
func (m *Memory) Hold() {
	m.mu.Lock()
	m.gate = make(chan struct{})
	m.mu.Unlock()
}

// Release unblocks calls parked by Hold.
func (m *Memory) Release() {
	m.mu.Lock()
	if m.gate != nil {
		close(m.gate)
		m.gate = nil
	}
	m.mu.Unlock()
}

// Calls returns the operations invoked so far, in order.
func (m *Memory) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string{}, m.calls...)
}

// PutClient stores a client row directly, bypassing call recording.
func (m *Memory) PutClient(row types.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[fmt.Sprint(row[types.ColID])] = copyRow(row)
}

// PutCard stores a card row directly, bypassing call recording.
func (m *Memory) PutCard(row types.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[fmt.Sprint(row[types.ColID])] = copyRow(row)
}

// Client returns the stored client row.
func (m *Memory) Client(id string) (types.Row, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.clients[id]
	return copyRow(r), ok
}

// Card returns the stored card row.
func (m *Memory) Card(id string) (types.Row, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.cards[id]
	return copyRow(r), ok
}

// enter records op, waits on the gate, and returns the injected failure.
func (m *Memory) enter(ctx context.Context, op string) error {
	m.mu.Lock()
	m.calls = append(m.calls, op)
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fail[op]
}

func (m *Memory) ListClients(ctx context.Context) ([]types.Row, error) {
	if err := m.enter(ctx, OpListClients); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := sortedRows(m.clients)
	sort.SliceStable(out, func(i, j int) bool {
		return fmt.Sprint(out[i][types.ColName]) < fmt.Sprint(out[j][types.ColName])
	})
	return out, nil
}

func (m *Memory) ListCards(ctx context.Context) ([]types.Row, error) {
	if err := m.enter(ctx, OpListCards); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return sortedRows(m.cards), nil
}

func (m *Memory) InsertClient(ctx context.Context, row types.Row) (types.Row, error) {
	if err := m.enter(ctx, OpInsertClient); err != nil {
		return nil, err
	}
	return m.insert(m.clients, row), nil
}

func (m *Memory) UpdateClient(ctx context.Context, id string, row types.Row) error {
	if err := m.enter(ctx, OpUpdateClient); err != nil {
		return err
	}
	return m.update(m.clients, id, row)
}

func (m *Memory) DeleteClient(ctx context.Context, id string) error {
	if err := m.enter(ctx, OpDeleteClient); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.clients, id)
	return nil
}

func (m *Memory) InsertCard(ctx context.Context, row types.Row) (types.Row, error) {
	if err := m.enter(ctx, OpInsertCard); err != nil {
		return nil, err
	}
	if err := cardSchema(row); err != nil {
		return nil, fmt.Errorf("insert cards: %w", err)
	}
	return m.insert(m.cards, row), nil
}

func (m *Memory) UpdateCard(ctx context.Context, id string, row types.Row) error {
	if err := m.enter(ctx, OpUpdateCard); err != nil {
		return err
	}
	if err := cardSchema(row); err != nil {
		return fmt.Errorf("update cards %s: %w", id, err)
	}
	return m.update(m.cards, id, row)
}

func (m *Memory) DeleteCard(ctx context.Context, id string) error {
	if err := m.enter(ctx, OpDeleteCard); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cards, id)
	return nil
}

func (m *Memory) insert(table map[string]types.Row, row types.Row) types.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	id := "srv-" + strconv.Itoa(m.nextID)
	stored := copyRow(row)
	stored[types.ColID] = id
	stored[types.ColCreatedAt] = m.now().UTC()
	table[id] = stored
	return copyRow(stored)
}

func (m *Memory) update(table map[string]types.Row, id string, row types.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := table[id]
	if !ok {
		return fmt.Errorf("update %s: %w", id, types.ErrNotFound)
	}
	for k, v := range row {
		if k == types.ColID {
			continue
		}
		stored[k] = v
	}
	return nil
}

// cardSchema rejects columns the remote cards table does not have, the way
// a real database would.
func cardSchema(row types.Row) error {
	for k := range row {
		if !types.IsCardColumn(k) {
			return fmt.Errorf("column %q does not exist", k)
		}
	}
	return nil
}

func sortedRows(table map[string]types.Row) []types.Row {
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]types.Row, len(ids))
	for i, id := range ids {
		out[i] = copyRow(table[id])
	}
	return out
}

func copyRow(r types.Row) types.Row {
	if r == nil {
		return nil
	}
	out := make(types.Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
