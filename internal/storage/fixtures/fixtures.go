// Package fixtures provides a static in-memory data source used when no
// remote backend is configured. Reads answer after an artificial delay to
// model network latency; mutations are remote-only and fail with
// storage.ErrReadOnly.
package fixtures

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"maktaba/internal/models"
	"maktaba/internal/storage"
)

// Delay is the artificial latency applied to every read.
const Delay = 500 * time.Millisecond

// FieldFunc resolves a query column to a record's field value.
type FieldFunc[T models.Entity] func(rec T, column string) (any, bool)

// Source serves a fixed dataset of T. The dataset is never mutated; reads
// return copies.
type Source[T models.Entity, P any] struct {
	data  []T
	field FieldFunc[T]
	delay time.Duration
}

// NewSource builds a fixture source over the given dataset.
func NewSource[T models.Entity, P any](data []T, field FieldFunc[T]) *Source[T, P] {
	return &Source[T, P]{data: data, field: field, delay: Delay}
}

// WithDelay overrides the artificial latency. Used by tests.
func (s *Source[T, P]) WithDelay(d time.Duration) *Source[T, P] {
	s.delay = d
	return s
}

func (s *Source[T, P]) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
		return nil
	}
}

// Select evaluates the query clauses against the dataset in memory, applying
// the same operator semantics as the remote backend.
func (s *Source[T, P]) Select(ctx context.Context, q storage.Query) ([]T, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	var out []T
	for _, rec := range s.data {
		ok, err := s.matches(rec, q.Clauses)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, rec)
		}
	}
	if q.Sort.Column != "" {
		s.sortBy(out, q.Sort)
	}
	return out, nil
}

// Insert is not supported by the fixture source.
func (s *Source[T, P]) Insert(ctx context.Context, draft T) (T, error) {
	var zero T
	return zero, storage.ErrReadOnly
}

// Update is not supported by the fixture source.
func (s *Source[T, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	var zero T
	return zero, storage.ErrReadOnly
}

// Delete is not supported by the fixture source.
func (s *Source[T, P]) Delete(ctx context.Context, id string) error {
	return storage.ErrReadOnly
}

func (s *Source[T, P]) matches(rec T, clauses []storage.Clause) (bool, error) {
	for _, c := range clauses {
		field, ok := s.field(rec, c.Column)
		if !ok {
			return false, fmt.Errorf("fixtures: unknown column %q", c.Column)
		}
		switch c.Op {
		case storage.OpEq:
			if fmt.Sprint(field) != fmt.Sprint(c.Value) {
				return false, nil
			}
		case storage.OpILike:
			hay := strings.ToLower(fmt.Sprint(field))
			needle := strings.ToLower(fmt.Sprint(c.Value))
			if !strings.Contains(hay, needle) {
				return false, nil
			}
		case storage.OpGte:
			cmp, err := compare(field, c.Value)
			if err != nil {
				return false, err
			}
			if cmp < 0 {
				return false, nil
			}
		case storage.OpLte:
			cmp, err := compare(field, c.Value)
			if err != nil {
				return false, err
			}
			if cmp > 0 {
				return false, nil
			}
		default:
			return false, fmt.Errorf("fixtures: unsupported operator %q", c.Op)
		}
	}
	return true, nil
}

// compare orders two values of the same shape: timestamps chronologically,
// everything else lexically.
func compare(field, value any) (int, error) {
	if ft, ok := field.(time.Time); ok {
		vt, ok := value.(time.Time)
		if !ok {
			return 0, fmt.Errorf("fixtures: cannot compare time column with %T", value)
		}
		switch {
		case ft.Before(vt):
			return -1, nil
		case ft.After(vt):
			return 1, nil
		}
		return 0, nil
	}
	return strings.Compare(fmt.Sprint(field), fmt.Sprint(value)), nil
}

func (s *Source[T, P]) sortBy(recs []T, by storage.Sort) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, _ := s.field(recs[i], by.Column)
		b, _ := s.field(recs[j], by.Column)
		cmp, err := compare(a, b)
		if err != nil {
			return false
		}
		if by.Descending {
			return cmp > 0
		}
		return cmp < 0
	})
}
