package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/girumdom/caretaker-portal/internal/core/domain"
)

// FetchFunc loads every item of a resource visible to the credential.
type FetchFunc[T any] func(ctx context.Context, token string) ([]T, error)

// DeleteFunc deletes one item of a resource.
type DeleteFunc func(ctx context.Context, token string, id int64) error

// ListView is the local, ordered collection behind a list screen. Items are
// keyed by the identifier idOf returns.
type ListView[T any] struct {
	name  string
	creds CredentialSource
	fetch FetchFunc[T]
	idOf  func(T) int64
	log   zerolog.Logger

	mu     sync.RWMutex
	items  []T
	loaded bool
	gen    uint64
	closed bool
}

// NewListView returns an empty, open view.
func NewListView[T any](name string, creds CredentialSource, fetch FetchFunc[T], idOf func(T) int64, log zerolog.Logger) *ListView[T] {
	return &ListView[T]{
		name:  name,
		creds: creds,
		fetch: fetch,
		idOf:  idOf,
		log:   log.With().Str("view", name).Logger(),
	}
}

// Load fetches the collection once and replaces the local items, keeping the
// backend's order. A response that arrives after Close is dropped with
// ErrViewClosed. One overtaken by a local change or Reset is dropped and the
// current items are returned.
func (v *ListView[T]) Load(ctx context.Context) ([]T, error) {
	token, ok := v.creds.Credential(ctx)
	if !ok {
		return nil, domain.ErrNotAuthenticated
	}

	v.mu.RLock()
	gen, closed := v.gen, v.closed
	v.mu.RUnlock()
	if closed {
		return nil, domain.ErrViewClosed
	}

	items, err := v.fetch(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", v.name, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		v.log.Debug().Msg("late response dropped")
		return nil, domain.ErrViewClosed
	}
	if v.gen != gen {
		v.log.Debug().Msg("superseded response dropped")
		return append([]T(nil), v.items...), nil
	}
	v.items = append([]T(nil), items...)
	v.loaded = true
	v.gen++
	return append([]T(nil), v.items...), nil
}

// Items returns a copy of the local collection.
func (v *ListView[T]) Items() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]T(nil), v.items...)
}

// Loaded reports whether a Load has completed since the last Reset.
func (v *ListView[T]) Loaded() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loaded
}

// Insert appends item, or replaces the existing item with the same id.
func (v *ListView[T]) Insert(item T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.gen++
	id := v.idOf(item)
	for i := range v.items {
		if v.idOf(v.items[i]) == id {
			v.items[i] = item
			return
		}
	}
	v.items = append(v.items, item)
}

// Replace swaps in item for the one with the same id and reports whether one was found.
func (v *ListView[T]) Replace(item T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return false
	}
	id := v.idOf(item)
	for i := range v.items {
		if v.idOf(v.items[i]) == id {
			v.items[i] = item
			v.gen++
			return true
		}
	}
	return false
}

// Remove drops the item with id locally and reports whether it was present.
func (v *ListView[T]) Remove(id int64) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	for i := range v.items {
		if v.idOf(v.items[i]) == id {
			v.items = append(v.items[:i:i], v.items[i+1:]...)
			return true
		}
	}
	return false
}

// Delete removes the item locally before asking the backend to delete it.
// The removal is not rolled back if the request fails; the next Load
// reconciles. Without confirmation nothing happens.
func (v *ListView[T]) Delete(ctx context.Context, id int64, confirmed bool, del DeleteFunc) error {
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	token, ok := v.creds.Credential(ctx)
	if !ok {
		return domain.ErrNotAuthenticated
	}

	v.Remove(id)
	if err := del(ctx, token, id); err != nil {
		v.log.Warn().Err(err).Int64("id", id).Msg("delete failed after local removal")
		return fmt.Errorf("delete %s %d: %w", v.name, id, err)
	}
	return nil
}

// Reset empties the view and drops in-flight loads, e.g. after logout.
func (v *ListView[T]) Reset() {
	v.mu.Lock()
	v.items = nil
	v.loaded = false
	v.gen++
	v.mu.Unlock()
}

// Close unmounts the view. Later responses never mutate it.
func (v *ListView[T]) Close() {
	v.mu.Lock()
	v.closed = true
	v.gen++
	v.mu.Unlock()
}
