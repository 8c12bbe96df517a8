package engine

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/pinboard/internal/normalize"
	"github.com/mesh-intelligence/pinboard/internal/remote"
	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// AddClient appends a new client under a temporary id and returns it. When
// a remote store is configured the client is inserted in the background and,
// on success, the whole local record is replaced by the server's.
func (e *Engine) AddClient(ctx context.Context, in types.ClientInput) types.Client {
	client := normalize.NewClient(e.newID(), e.stamp(), in)

	e.store.Apply(func(prev types.State) types.Patch {
		next := make([]types.Client, 0, len(prev.Clients)+1)
		next = append(next, prev.Clients...)
		next = append(next, client)
		return types.Patch{Clients: &next}
	})
	e.rec.Optimistic("addClient")

	tempID := client.ID
	fields := logrus.Fields{"entity": "client", "id": tempID}
	e.background(ctx, remote.OpInsertClient, fields, func(ctx context.Context, r remote.Remote) error {
		row, err := r.InsertClient(ctx, normalize.ClientToRow(client))
		if err != nil {
			return err
		}
		server := normalize.ClientFromRow(row)
		if server.ID == "" {
			return types.ErrEmptyReturning
		}
		e.store.Apply(func(prev types.State) types.Patch {
			return replaceClient(prev, tempID, server)
		})
		return nil
	})

	return client
}

// replaceClient swaps the client carrying tempID for server and repoints
// cards and the selection that still reference tempID. A missing tempID
// (deleted meanwhile) yields an empty patch.
func replaceClient(prev types.State, tempID string, server types.Client) types.Patch {
	idx := -1
	for i, c := range prev.Clients {
		if c.ID == tempID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return types.Patch{}
	}

	clients := append([]types.Client{}, prev.Clients...)
	clients[idx] = server
	patch := types.Patch{Clients: &clients}

	if server.ID == tempID {
		return patch
	}

	var cards []types.ContentCard
	for i, card := range prev.Cards {
		if card.ClientID != tempID {
			continue
		}
		if cards == nil {
			cards = append([]types.ContentCard{}, prev.Cards...)
		}
		cards[i].ClientID = server.ID
	}
	if cards != nil {
		patch.Cards = &cards
	}

	if prev.CurrentClientID != nil && *prev.CurrentClientID == tempID {
		id := server.ID
		patch.CurrentClientID = &id
	}
	return patch
}

// UpdateClient overlays in onto the client with the given id, then mirrors
// the supplied fields to the remote store. Unknown ids change nothing
// locally.
func (e *Engine) UpdateClient(ctx context.Context, id string, in types.ClientInput) {
	e.store.Apply(func(prev types.State) types.Patch {
		for i, c := range prev.Clients {
			if c.ID != id {
				continue
			}
			next := append([]types.Client{}, prev.Clients...)
			next[i] = normalize.ApplyClientInput(c, in)
			return types.Patch{Clients: &next}
		}
		return types.Patch{}
	})
	e.rec.Optimistic("updateClient")

	row := normalize.ClientPatchRow(in)
	e.background(ctx, remote.OpUpdateClient, logrus.Fields{"entity": "client", "id": id},
		func(ctx context.Context, r remote.Remote) error {
			return r.UpdateClient(ctx, id, row)
		})
}

// DeleteClient removes the client, every card assigned to it, and the
// selection if it pointed at the client. Only the client row is deleted
// remotely. Deleting an unknown id is a no-op; an empty id is ignored so
// unassigned cards are never swept up.
func (e *Engine) DeleteClient(ctx context.Context, id string) {
	if id == "" {
		return
	}
	e.store.Apply(func(prev types.State) types.Patch {
		clients := make([]types.Client, 0, len(prev.Clients))
		for _, c := range prev.Clients {
			if c.ID != id {
				clients = append(clients, c)
			}
		}
		cards := make([]types.ContentCard, 0, len(prev.Cards))
		for _, card := range prev.Cards {
			if card.ClientID != id {
				cards = append(cards, card)
			}
		}

		var patch types.Patch
		if len(clients) != len(prev.Clients) {
			patch.Clients = &clients
		}
		if len(cards) != len(prev.Cards) {
			patch.Cards = &cards
		}
		if prev.CurrentClientID != nil && *prev.CurrentClientID == id {
			patch.ClearCurrentClient = true
		}
		return patch
	})
	e.rec.Optimistic("deleteClient")

	e.background(ctx, remote.OpDeleteClient, logrus.Fields{"entity": "client", "id": id},
		func(ctx context.Context, r remote.Remote) error {
			return r.DeleteClient(ctx, id)
		})
}
