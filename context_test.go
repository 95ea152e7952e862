package dux

import (
	"context"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	store, err := New(searchReducer)
	if err != nil {
		t.Fatal(err)
	}

	ctx := NewContext(context.Background(), store)
	got, ok := FromContext[searchState](ctx)
	if !ok {
		t.Fatal("FromContext found no store")
	}
	if got != store {
		t.Error("FromContext returned a different store")
	}
}

func TestFromContextMissing(t *testing.T) {
	if _, ok := FromContext[searchState](context.Background()); ok {
		t.Error("FromContext reported a store in an empty context")
	}
}

func TestFromContextWrongStateType(t *testing.T) {
	store, _ := New(searchReducer)
	ctx := NewContext(context.Background(), store)

	if _, ok := FromContext[int](ctx); ok {
		t.Error("FromContext matched a store of a different state type")
	}
}

func TestContextReachesAnyDepth(t *testing.T) {
	store, _ := New(searchReducer)
	ctx := NewContext(context.Background(), store)

	// Intermediate values do not shadow the store.
	type otherKey struct{}
	ctx = context.WithValue(ctx, otherKey{}, "layer")
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	got, ok := FromContext[searchState](ctx)
	if !ok || got != store {
		t.Error("store not reachable through derived contexts")
	}
}
