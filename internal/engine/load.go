package engine

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/pinboard/internal/metrics"
	"github.com/mesh-intelligence/pinboard/internal/normalize"
	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// SetCurrentClientID selects a client. An empty id clears the selection.
func (e *Engine) SetCurrentClientID(id string) {
	if id == "" {
		e.store.Set(types.Patch{ClearCurrentClient: true})
		return
	}
	e.store.Set(types.Patch{CurrentClientID: &id})
}

// opLoad labels the initial load in metrics.
const opLoad = "LoadInitialData"

// LoadInitialData replaces both collections with the remote store's
// contents. Any fetch error aborts the load and keeps the cache-seeded
// state. IsLoading is set for the duration and cleared either way.
func (e *Engine) LoadInitialData(ctx context.Context) {
	loading, idle := true, false
	e.store.Set(types.Patch{IsLoading: &loading})

	if e.remote == nil {
		e.rec.Remote(opLoad, metrics.OutcomeSkipped)
		e.store.Set(types.Patch{IsLoading: &idle})
		return
	}

	clients, cards, err := e.fetchAll(ctx)
	if err != nil {
		e.rec.Remote(opLoad, metrics.OutcomeError)
		e.log.WithError(err).Warn("initial load failed, keeping cached state")
		e.store.Set(types.Patch{IsLoading: &idle})
		return
	}
	e.rec.Remote(opLoad, metrics.OutcomeOK)

	e.store.Set(types.Patch{
		Clients:   &clients,
		Cards:     &cards,
		IsLoading: &idle,
	})
}

func (e *Engine) fetchAll(ctx context.Context) ([]types.Client, []types.ContentCard, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	clientRows, err := e.remote.ListClients(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list clients: %w", err)
	}
	cardRows, err := e.remote.ListCards(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list cards: %w", err)
	}

	clients := make([]types.Client, len(clientRows))
	for i, row := range clientRows {
		clients[i] = normalize.ClientFromRow(row)
	}
	cards := make([]types.ContentCard, len(cardRows))
	for i, row := range cardRows {
		cards[i] = normalize.CardFromRow(row)
	}
	return clients, cards, nil
}
