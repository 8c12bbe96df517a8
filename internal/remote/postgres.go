package remote

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mesh-intelligence/pinboard/pkg/types"
)

// querier is the subset of *pgxpool.Pool used by Postgres.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Postgres talks to the remote store through a pgx connection pool.
type Postgres struct {
	db   querier
	pool *pgxpool.Pool
}

var _ Remote = (*Postgres)(nil)

// Connect opens a pool for cfg.URL and pings it. It returns (nil, nil) when
// no URL is configured, so callers run purely locally.
func Connect(ctx context.Context, cfg types.RemoteConfig) (*Postgres, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open remote pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping remote: %w", err)
	}
	return &Postgres{db: pool, pool: pool}, nil
}

// Close releases the pool. Safe on a nil receiver.
func (p *Postgres) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}

func (p *Postgres) ListClients(ctx context.Context) ([]types.Row, error) {
	return p.list(ctx, fmt.Sprintf("SELECT * FROM %s ORDER BY %s ASC",
		ident(types.TableClients), ident(types.ColName)))
}

func (p *Postgres) ListCards(ctx context.Context) ([]types.Row, error) {
	return p.list(ctx, fmt.Sprintf("SELECT * FROM %s", ident(types.TableCards)))
}

func (p *Postgres) InsertClient(ctx context.Context, row types.Row) (types.Row, error) {
	return p.insert(ctx, types.TableClients, row)
}

func (p *Postgres) UpdateClient(ctx context.Context, id string, row types.Row) error {
	return p.update(ctx, types.TableClients, id, row)
}

func (p *Postgres) DeleteClient(ctx context.Context, id string) error {
	return p.delete(ctx, types.TableClients, id)
}

func (p *Postgres) InsertCard(ctx context.Context, row types.Row) (types.Row, error) {
	return p.insert(ctx, types.TableCards, row)
}

func (p *Postgres) UpdateCard(ctx context.Context, id string, row types.Row) error {
	return p.update(ctx, types.TableCards, id, row)
}

func (p *Postgres) DeleteCard(ctx context.Context, id string) error {
	return p.delete(ctx, types.TableCards, id)
}

func (p *Postgres) list(ctx context.Context, query string) ([]types.Row, error) {
	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("collect rows: %w", err)
	}
	out := make([]types.Row, len(maps))
	for i, m := range maps {
		out[i] = types.Row(m)
	}
	return out, nil
}

func (p *Postgres) insert(ctx context.Context, table string, row types.Row) (types.Row, error) {
	cols, args := columns(row)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		ident(table), joinIdents(cols), strings.Join(placeholders, ", "))

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert into %s: %w", table, err)
	}
	stored, err := pgx.CollectOneRow(rows, pgx.RowToMap)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrEmptyReturning
		}
		return nil, fmt.Errorf("insert into %s: %w", table, err)
	}
	return types.Row(stored), nil
}

func (p *Postgres) update(ctx context.Context, table, id string, row types.Row) error {
	if id == "" {
		return types.ErrInvalidID
	}
	cols, args := columns(row)
	if len(cols) == 0 {
		return nil
	}
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", ident(c), i+1)
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		ident(table), strings.Join(sets, ", "), ident(types.ColID), len(args))

	tag, err := p.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s %s: %w", table, id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update %s %s: %w", table, id, types.ErrNotFound)
	}
	return nil
}

func (p *Postgres) delete(ctx context.Context, table, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", ident(table), ident(types.ColID))
	if _, err := p.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", table, id, err)
	}
	return nil
}

// columns returns row's column names in sorted order with matching args, so
// generated SQL is stable.
func columns(row types.Row) ([]string, []any) {
	cols := make([]string, 0, len(row))
	for c := range row {
		if c == types.ColID {
			continue
		}
		cols = append(cols, c)
	}
	sort.Strings(cols)
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = row[c]
	}
	return cols, args
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func joinIdents(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = ident(n)
	}
	return strings.Join(quoted, ", ")
}
