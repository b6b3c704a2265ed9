// Package repository implements the generic CRUD cache manager: one
// repository per entity collection, each owning its in-memory view of the
// authoritative backend.
package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"maktaba/internal/models"
	"maktaba/internal/storage"
)

// ErrNoForeignKey is returned by FetchRelated on a repository configured
// without a foreign-key column.
var ErrNoForeignKey = errors.New("repository: no foreign key configured")

// Config carries the per-entity rules that differ between collections.
type Config struct {
	// Name appears in error-slot messages and logs ("books", "participants").
	Name string
	// SortColumn orders every fetch, descending.
	SortColumn string
	// ForeignKey is the column FetchRelated filters on; empty disables it.
	ForeignKey string
}

// Repository is a cache manager over one DataSource. The cache holds exactly
// one record per identity, ordered by the sort column descending after every
// successful operation. Failures leave the cache untouched, record a
// human-readable message in the error slot and return the error; the cache
// is never corrupted by a failed call.
//
// Mutations touching the same identity are serialized through a per-identity
// lock, so overlapping update/delete on one record cannot lose a write.
// Operations on different identities still interleave freely and the last
// backend response wins.
type Repository[T models.Entity, P any] struct {
	cfg    Config
	src    storage.DataSource[T, P]
	logger *zap.Logger

	mu      sync.RWMutex
	items   []T
	lastErr string

	loading atomic.Int32

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// New builds a repository with an empty cache.
func New[T models.Entity, P any](cfg Config, src storage.DataSource[T, P], logger *zap.Logger) *Repository[T, P] {
	return &Repository[T, P]{
		cfg:    cfg,
		src:    src,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// begin marks an operation in flight and clears the error slot. The returned
// release runs on every exit path.
func (r *Repository[T, P]) begin() func() {
	r.loading.Add(1)
	r.mu.Lock()
	r.lastErr = ""
	r.mu.Unlock()
	return func() { r.loading.Add(-1) }
}

func (r *Repository[T, P]) fail(msg string, err error) {
	r.mu.Lock()
	r.lastErr = msg
	r.mu.Unlock()
	r.logger.Error(msg, zap.String("collection", r.cfg.Name), zap.Error(err))
}

func (r *Repository[T, P]) lockID(id string) func() {
	r.locksMu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	r.locksMu.Unlock()
	l.Lock()
	return l.Unlock
}

// sort order is newest-first by the entity's modification time.
func (r *Repository[T, P]) resortLocked() {
	slices.SortStableFunc(r.items, func(a, b T) int {
		return b.Modified().Compare(a.Modified())
	})
}

// FetchAll loads every record from the source, sorted newest-first, and
// replaces the cache with the result. The previous cache survives a failure.
func (r *Repository[T, P]) FetchAll(ctx context.Context) ([]T, error) {
	defer r.begin()()

	q := storage.Query{Sort: storage.Sort{Column: r.cfg.SortColumn, Descending: true}}
	recs, err := r.src.Select(ctx, q)
	if err != nil {
		r.fail(fmt.Sprintf("failed to fetch %s", r.cfg.Name), err)
		return nil, err
	}

	r.mu.Lock()
	r.items = slices.Clone(recs)
	r.mu.Unlock()
	return recs, nil
}

// FetchRelated loads records whose foreign-key column equals the given
// value, sorted newest-first. The shared cache is not touched; the result is
// for read-only detail views.
func (r *Repository[T, P]) FetchRelated(ctx context.Context, fk string) ([]T, error) {
	defer r.begin()()

	if r.cfg.ForeignKey == "" {
		r.fail(fmt.Sprintf("failed to fetch related %s", r.cfg.Name), ErrNoForeignKey)
		return nil, ErrNoForeignKey
	}
	q := storage.Query{Sort: storage.Sort{Column: r.cfg.SortColumn, Descending: true}}
	q = q.Where(r.cfg.ForeignKey, storage.OpEq, fk)
	recs, err := r.src.Select(ctx, q)
	if err != nil {
		r.fail(fmt.Sprintf("failed to fetch related %s", r.cfg.Name), err)
		return nil, err
	}
	return recs, nil
}

// Create sends a draft to the source, which assigns identity and timestamps,
// then inserts the authoritative record into the cache and re-sorts so the
// newest-first invariant holds.
func (r *Repository[T, P]) Create(ctx context.Context, draft T) (T, error) {
	defer r.begin()()

	rec, err := r.src.Insert(ctx, draft)
	if err != nil {
		r.fail(fmt.Sprintf("failed to create %s record", r.cfg.Name), err)
		var zero T
		return zero, err
	}

	r.mu.Lock()
	r.items = append(r.items, rec)
	r.resortLocked()
	r.mu.Unlock()

	r.logger.Info("record created",
		zap.String("collection", r.cfg.Name),
		zap.String("id", rec.EntityID()),
	)
	return rec, nil
}

// Update applies a partial payload to the identified record. The source's
// response is authoritative and replaces the cache entry; an identity absent
// from the cache leaves the cache alone even though the backend write
// happened.
func (r *Repository[T, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	unlock := r.lockID(id)
	defer unlock()
	defer r.begin()()

	rec, err := r.src.Update(ctx, id, patch)
	if err != nil {
		r.fail(fmt.Sprintf("failed to update %s record", r.cfg.Name), err)
		var zero T
		return zero, err
	}

	r.mu.Lock()
	for i := range r.items {
		if r.items[i].EntityID() == id {
			r.items[i] = rec
			r.resortLocked()
			break
		}
	}
	r.mu.Unlock()

	r.logger.Info("record updated",
		zap.String("collection", r.cfg.Name),
		zap.String("id", id),
	)
	return rec, nil
}

// Delete removes the identified record. The source treats an unknown
// identity as a no-op; the repository does not pre-check existence.
func (r *Repository[T, P]) Delete(ctx context.Context, id string) error {
	unlock := r.lockID(id)
	defer unlock()
	defer r.begin()()

	if err := r.src.Delete(ctx, id); err != nil {
		r.fail(fmt.Sprintf("failed to delete %s record", r.cfg.Name), err)
		return err
	}

	r.mu.Lock()
	r.items = slices.DeleteFunc(r.items, func(rec T) bool {
		return rec.EntityID() == id
	})
	r.mu.Unlock()

	r.logger.Info("record deleted",
		zap.String("collection", r.cfg.Name),
		zap.String("id", id),
	)
	return nil
}

// Items returns a copy of the current cache.
func (r *Repository[T, P]) Items() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.items)
}

// Loading reports whether any operation is in flight.
func (r *Repository[T, P]) Loading() bool {
	return r.loading.Load() > 0
}

// LastError returns the error-slot message from the most recent failed
// operation, or "" if the last operation succeeded.
func (r *Repository[T, P]) LastError() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}
