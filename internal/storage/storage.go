package storage

import (
	"context"
	"errors"

	"maktaba/internal/models"
)

// ErrReadOnly is returned by sources that do not support mutations
// (the fixture source: create/update/delete are remote-only).
var ErrReadOnly = errors.New("storage: source is read-only")

// Op is a filter operator understood by every data source.
type Op string

const (
	OpEq    Op = "eq"    // exact equality
	OpILike Op = "ilike" // case-insensitive substring match
	OpGte   Op = "gte"   // inclusive lower bound
	OpLte   Op = "lte"   // inclusive upper bound
)

// Clause is a single column constraint. Clauses in a query are AND-ed.
type Clause struct {
	Column string
	Op     Op
	Value  any
}

// Sort orders a result set by one column.
type Sort struct {
	Column     string
	Descending bool
}

// Query is the read-request shape shared by all data sources: zero or more
// AND-ed clauses plus a sort. An empty clause list matches every record.
type Query struct {
	Clauses []Clause
	Sort    Sort
}

// Where returns a copy of the query with an extra clause appended.
func (q Query) Where(column string, op Op, value any) Query {
	clauses := make([]Clause, len(q.Clauses), len(q.Clauses)+1)
	copy(clauses, q.Clauses)
	q.Clauses = append(clauses, Clause{Column: column, Op: op, Value: value})
	return q
}

// DataSource abstracts the authoritative backend for one entity collection.
// T is the entity type, P its partial-update payload. Implementations:
// pg (remote Postgres) and fixtures (static in-memory dataset).
//
// Insert ignores the draft's ID and timestamps; the source assigns a fresh
// identity and stamps createdAt = updatedAt. Update applies only the non-nil
// patch fields and bumps updatedAt, returning the authoritative row. Delete
// of an unknown identity is a no-op and succeeds.
type DataSource[T models.Entity, P any] interface {
	Select(ctx context.Context, q Query) ([]T, error)
	Insert(ctx context.Context, draft T) (T, error)
	Update(ctx context.Context, id string, patch P) (T, error)
	Delete(ctx context.Context, id string) error
}
