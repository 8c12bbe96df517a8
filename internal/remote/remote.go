// Package remote implements the remote adapter: create/read/update/delete
// calls against the relational store holding the clients and cards tables.
package remote

import (
	"context"

	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// Remote is the set of calls the engine makes against the remote store.
// Rows use remote column names; mapping to entities is the caller's job.
type Remote interface {
	// ListClients returns every client row ordered by name ascending.
	ListClients(ctx context.Context) ([]types.Row, error)
	// ListCards returns every card row in no particular order.
	ListCards(ctx context.Context) ([]types.Row, error)

	// InsertClient inserts row and returns the stored row, including the
	// server-assigned id and created_at.
	InsertClient(ctx context.Context, row types.Row) (types.Row, error)
	UpdateClient(ctx context.Context, id string, row types.Row) error
	DeleteClient(ctx context.Context, id string) error

	InsertCard(ctx context.Context, row types.Row) (types.Row, error)
	UpdateCard(ctx context.Context, id string, row types.Row) error
	DeleteCard(ctx context.Context, id string) error
}
