package engine

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/pinboard/internal/normalize"
	"github.com/mesh-intelligence/pinboard/internal/remote"
	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// AddCard appends a new card under a temporary id and returns it. When a
// remote store is configured the card is inserted in the background and,
// on success, only its id (and createdAt) is substituted so locally entered
// fields are kept.
func (e *Engine) AddCard(ctx context.Context, in types.CardInput) types.ContentCard {
	card := normalize.NewCard(e.newID(), e.stamp(), in)
	e.appendCard(card)
	e.rec.Optimistic("addCard")

	tempID := card.ID
	e.background(ctx, remote.OpInsertCard, logrus.Fields{"entity": "card", "id": tempID},
		func(ctx context.Context, r remote.Remote) error {
			row, err := r.InsertCard(ctx, normalize.CardToRow(card))
			if err != nil {
				return err
			}
			server := normalize.CardFromRow(row)
			if server.ID == "" {
				return types.ErrEmptyReturning
			}
			e.store.Apply(func(prev types.State) types.Patch {
				return substituteCardID(prev, tempID, server)
			})
			return nil
		})

	return card
}

// substituteCardID rewrites the id of the card carrying tempID, keeping
// every other local field. A missing tempID yields an empty patch.
func substituteCardID(prev types.State, tempID string, server types.ContentCard) types.Patch {
	for i, c := range prev.Cards {
		if c.ID != tempID {
			continue
		}
		next := append([]types.ContentCard{}, prev.Cards...)
		next[i].ID = server.ID
		if server.CreatedAt != "" {
			next[i].CreatedAt = server.CreatedAt
		}
		return types.Patch{Cards: &next}
	}
	return types.Patch{}
}

// UpdateCard overlays in onto the card with the given id, then mirrors the
// supplied fields to the remote store.
func (e *Engine) UpdateCard(ctx context.Context, id string, in types.CardInput) {
	e.store.Apply(func(prev types.State) types.Patch {
		for i, c := range prev.Cards {
			if c.ID != id {
				continue
			}
			next := append([]types.ContentCard{}, prev.Cards...)
			next[i] = normalize.ApplyCardInput(c, in)
			return types.Patch{Cards: &next}
		}
		return types.Patch{}
	})
	e.rec.Optimistic("updateCard")

	row := normalize.CardPatchRow(in)
	e.background(ctx, remote.OpUpdateCard, logrus.Fields{"entity": "card", "id": id},
		func(ctx context.Context, r remote.Remote) error {
			return r.UpdateCard(ctx, id, row)
		})
}

// DeleteCard removes the card locally and remotely. Unknown ids are a no-op.
func (e *Engine) DeleteCard(ctx context.Context, id string) {
	e.store.Apply(func(prev types.State) types.Patch {
		next := make([]types.ContentCard, 0, len(prev.Cards))
		for _, c := range prev.Cards {
			if c.ID != id {
				next = append(next, c)
			}
		}
		if len(next) == len(prev.Cards) {
			return types.Patch{}
		}
		return types.Patch{Cards: &next}
	})
	e.rec.Optimistic("deleteCard")

	e.background(ctx, remote.OpDeleteCard, logrus.Fields{"entity": "card", "id": id},
		func(ctx context.Context, r remote.Remote) error {
			return r.DeleteCard(ctx, id)
		})
}

// DuplicateCard copies the card with the given id under a new temporary id
// and a suffixed title. The boolean is false when no card has the id.
//
// The copy is inserted remotely only when it belongs to a client. Unlike
// AddCard, the server id is only logged and never written back: the local
// copy keeps its temporary id for its lifetime, so later updates or deletes
// of that copy address an id the remote store does not know.
func (e *Engine) DuplicateCard(ctx context.Context, id string) (types.ContentCard, bool) {
	orig, ok := e.store.Get().FindCard(id)
	if !ok {
		return types.ContentCard{}, false
	}

	dup := orig.Clone()
	dup.ID = e.newID()
	dup.Title = orig.Title + types.CopySuffix
	dup.CreatedAt = e.stamp()
	e.appendCard(dup)
	e.rec.Optimistic("duplicateCard")

	if dup.ClientID == "" {
		return dup, true
	}

	fields := logrus.Fields{"entity": "card", "id": dup.ID, "source": id}
	e.background(ctx, remote.OpInsertCard, fields, func(ctx context.Context, r remote.Remote) error {
		row, err := r.InsertCard(ctx, normalize.CardToRow(dup))
		if err != nil {
			return err
		}
		e.log.WithFields(fields).WithField("remote_id", normalize.String(row[types.ColID])).
			Debug("duplicate stored remotely, local id kept")
		return nil
	})

	return dup, true
}

func (e *Engine) appendCard(card types.ContentCard) {
	e.store.Apply(func(prev types.State) types.Patch {
		next := make([]types.ContentCard, 0, len(prev.Cards)+1)
		next = append(next, prev.Cards...)
		next = append(next, card)
		return types.Patch{Cards: &next}
	})
}
