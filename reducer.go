package dux

import (
	"fmt"
	"reflect"
)

// Reducer computes the next state from the current state and an action.
// A reducer must be pure: deterministic for a given (state, action) pair and
// free of observable side effects. For action types it does not recognize it
// must return the input state unchanged. Failure is reported through the
// error return; when a reducer fails during dispatch the store keeps its
// pre-dispatch state.
type Reducer[S any] func(state S, action any) (S, error)

// Mux routes actions to per-type transition functions.
// Actions with no registered transition fall through to identity, so a Mux
// always satisfies the unknown-action contract of Reducer.
type Mux[S any] struct {
	transitions map[reflect.Type]func(S, any) (S, error)
}

// NewMux creates an empty Mux.
func NewMux[S any]() *Mux[S] {
	return &Mux[S]{
		transitions: make(map[reflect.Type]func(S, any) (S, error)),
	}
}

// Handle registers the transition for actions of type A.
// Registering the same action type twice is an error: the second
// registration would silently shadow the first and misroute dispatches.
func Handle[S any, A any](m *Mux[S], fn func(S, A) (S, error)) error {
	actionType := reflect.TypeOf((*A)(nil)).Elem()
	if _, exists := m.transitions[actionType]; exists {
		return fmt.Errorf("dux: transition already registered for %v", actionType)
	}
	m.transitions[actionType] = func(state S, action any) (S, error) {
		return fn(state, action.(A))
	}
	return nil
}

// MustHandle is Handle but panics on duplicate registration.
// Intended for package-level wiring where a duplicate is a programming error.
func MustHandle[S any, A any](m *Mux[S], fn func(S, A) (S, error)) {
	if err := Handle(m, fn); err != nil {
		panic(err)
	}
}

// Reducer returns the routing reducer over the registered transitions.
func (m *Mux[S]) Reducer() Reducer[S] {
	return func(state S, action any) (S, error) {
		transition, ok := m.transitions[reflect.TypeOf(action)]
		if !ok {
			return state, nil
		}
		return transition(state, action)
	}
}

// Len returns the number of registered transitions.
func (m *Mux[S]) Len() int {
	return len(m.transitions)
}

// Compose chains reducers over the same state, applied left to right.
// The first error stops the chain and the caller's state is left to the
// store's failure handling.
func Compose[S any](reducers ...Reducer[S]) Reducer[S] {
	return func(state S, action any) (S, error) {
		var err error
		for _, r := range reducers {
			state, err = r(state, action)
			if err != nil {
				return state, err
			}
		}
		return state, nil
	}
}

// Scoped lifts a reducer over a subtree into a reducer over the parent
// state. get extracts the subtree, set returns a copy of the parent with the
// subtree replaced. When the subtree reducer returns its input unchanged the
// parent is returned unchanged as well, preserving identity passthrough and
// structural sharing of untouched siblings.
func Scoped[S any, Sub comparable](get func(S) Sub, set func(S, Sub) S, r Reducer[Sub]) Reducer[S] {
	return func(state S, action any) (S, error) {
		sub := get(state)
		next, err := r(sub, action)
		if err != nil {
			return state, err
		}
		if next == sub {
			return state, nil
		}
		return set(state, next), nil
	}
}
