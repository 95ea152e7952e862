package dux

import "context"

// storeContextKey is the context key under which a store travels.
type storeContextKey struct{}

// NewContext returns a context carrying the store. One store placed at the
// root of a consumer tree is reachable by every Bound consumer beneath it,
// at any depth, without manual threading.
func NewContext[S any](ctx context.Context, store *Store[S]) context.Context {
	return context.WithValue(ctx, storeContextKey{}, store)
}

// FromContext extracts a store for state type S from the context.
// The boolean is false when no store is present or when the stored one
// manages a different state type.
func FromContext[S any](ctx context.Context) (*Store[S], bool) {
	store, ok := ctx.Value(storeContextKey{}).(*Store[S])
	return store, ok
}
