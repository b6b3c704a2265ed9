// Package pg implements the storage interfaces against Postgres, the
// authoritative backend. Identities and timestamps are assigned by the
// database; every write returns the authoritative row.
package pg

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"maktaba/internal/storage"
)

// DB wraps a pgx connection pool shared by the per-entity sources.
type DB struct {
	pool *pgxpool.Pool
}

// New opens a connection pool for the given DSN and verifies it with a ping.
func New(ctx context.Context, dsn string) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &DB{pool: pool}, nil
}

// Books returns the book data source backed by this pool.
func (db *DB) Books() *BookSource { return &BookSource{pool: db.pool} }

// Participants returns the participant data source backed by this pool.
func (db *DB) Participants() *ParticipantSource { return &ParticipantSource{pool: db.pool} }

// Close releases the connection pool.
func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}

// buildWhere renders query clauses as a WHERE fragment with positional
// arguments. Column names come from internal builders, never from callers.
func buildWhere(q storage.Query) (string, []any, error) {
	if len(q.Clauses) == 0 {
		return "", nil, nil
	}
	var sb strings.Builder
	args := make([]any, 0, len(q.Clauses))
	sb.WriteString(" WHERE ")
	for i, c := range q.Clauses {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		switch c.Op {
		case storage.OpEq:
			fmt.Fprintf(&sb, "%s = $%d", c.Column, i+1)
			args = append(args, c.Value)
		case storage.OpILike:
			fmt.Fprintf(&sb, "%s ILIKE $%d", c.Column, i+1)
			args = append(args, "%"+fmt.Sprint(c.Value)+"%")
		case storage.OpGte:
			fmt.Fprintf(&sb, "%s >= $%d", c.Column, i+1)
			args = append(args, c.Value)
		case storage.OpLte:
			fmt.Fprintf(&sb, "%s <= $%d", c.Column, i+1)
			args = append(args, c.Value)
		default:
			return "", nil, fmt.Errorf("unsupported operator %q", c.Op)
		}
	}
	return sb.String(), args, nil
}

func orderBy(s storage.Sort) string {
	if s.Column == "" {
		return ""
	}
	dir := "ASC"
	if s.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", s.Column, dir)
}
