// Package storage scopes a shared session store to a single browser.
package storage

import (
	"context"

	"github.com/girumdom/caretaker-portal/internal/core/ports"
)

const keyPrefix = "portal"

// Namespaced prefixes every key with portal:<id>: so many browsers can share
// one backing store.
type Namespaced struct {
	base   ports.SessionStorage
	prefix string
}

// Namespace returns base scoped to id.
func Namespace(base ports.SessionStorage, id string) *Namespaced {
	return &Namespaced{base: base, prefix: keyPrefix + ":" + id + ":"}
}

// Key returns the backing-store key for key.
func (n *Namespaced) Key(key string) string {
	return n.prefix + key
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.base.Get(ctx, n.Key(key))
}

func (n *Namespaced) Set(ctx context.Context, key, value string) error {
	return n.base.Set(ctx, n.Key(key), value)
}

func (n *Namespaced) Delete(ctx context.Context, keys ...string) error {
	scoped := make([]string, len(keys))
	for i, k := range keys {
		scoped[i] = n.Key(k)
	}
	return n.base.Delete(ctx, scoped...)
}
