package dux

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrStoreNotFound is returned by Mount when the context carries no
	// store for the connector's state type.
	ErrStoreNotFound = errors.New("dux: no store in context")

	// ErrAlreadyMounted is returned by Mount on a Bound that is mounted.
	ErrAlreadyMounted = errors.New("dux: consumer already mounted")
)

// Dispatch submits an action to the store. It is the only store capability
// handed to mapDispatchToProps, so consumers stay decoupled from the store
// itself.
type Dispatch func(action any) error

// Props is the projection handed to a consumer: state-derived values plus
// dispatch-bound action creators. Actions is computed once per mount and
// stays referentially stable across re-renders.
type Props[SP, DP any] struct {
	State   SP
	Actions DP
}

// Consumer receives projected props after each state change.
type Consumer[SP, DP any] interface {
	Render(props Props[SP, DP])
}

// ConsumerFunc adapts a function to the Consumer interface.
type ConsumerFunc[SP, DP any] func(props Props[SP, DP])

func (f ConsumerFunc[SP, DP]) Render(props Props[SP, DP]) { f(props) }

// Connector projects store state and dispatch into consumer props.
// mapState must be a pure projection of the state; it runs once per
// notification per bound consumer. mapDispatch runs once per mount and
// returns action creators closing over the store's dispatch; nil is allowed
// and yields zero-valued Actions. SP is constrained comparable so the
// re-render check is a plain == on the projected values.
type Connector[S any, SP comparable, DP any] struct {
	mapState    func(S) SP
	mapDispatch func(Dispatch) DP
}

// Connect builds a Connector from the two projection functions.
func Connect[S any, SP comparable, DP any](mapState func(S) SP, mapDispatch func(Dispatch) DP) *Connector[S, SP, DP] {
	return &Connector[S, SP, DP]{
		mapState:    mapState,
		mapDispatch: mapDispatch,
	}
}

// Bind wraps a consumer. The returned Bound is inert until mounted.
func (c *Connector[S, SP, DP]) Bind(consumer Consumer[SP, DP]) *Bound[S, SP, DP] {
	return &Bound[S, SP, DP]{connector: c, consumer: consumer}
}

// Bound is a consumer bound to a store for the duration of a mount.
// Failing to Unmount a Bound leaks its subscription.
type Bound[S any, SP comparable, DP any] struct {
	connector *Connector[S, SP, DP]
	consumer  Consumer[SP, DP]

	mu      sync.Mutex
	mounted bool
	store   *Store[S]
	unsub   Unsubscribe
	actions DP
	last    SP
}

// Mount resolves the store from the context, computes dispatch props,
// subscribes, and renders the initial props. A Bound can be mounted again
// after Unmount; mounting twice without an Unmount in between is an error.
func (b *Bound[S, SP, DP]) Mount(ctx context.Context) error {
	store, ok := FromContext[S](ctx)
	if !ok {
		return ErrStoreNotFound
	}
	if b.connector.mapState == nil {
		return errors.New("dux: nil mapState projection")
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mounted {
		return ErrAlreadyMounted
	}
	b.mounted = true
	b.store = store

	var actions DP
	if b.connector.mapDispatch != nil {
		actions = b.connector.mapDispatch(store.Dispatch)
	}
	b.actions = actions

	b.unsub = store.Subscribe(b.notify)
	b.last = b.connector.mapState(store.GetState())
	b.consumer.Render(Props[SP, DP]{State: b.last, Actions: b.actions})
	return nil
}

// notify recomputes the state props and re-renders only when they changed.
func (b *Bound[S, SP, DP]) notify() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.mounted {
		// Unmounted during the same notification pass.
		return
	}
	next := b.connector.mapState(b.store.GetState())
	if next == b.last {
		return
	}
	b.last = next
	b.consumer.Render(Props[SP, DP]{State: next, Actions: b.actions})
}

// Unmount releases the subscription. Calling it on an unmounted Bound is a
// no-op.
func (b *Bound[S, SP, DP]) Unmount() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.mounted {
		return
	}
	b.mounted = false
	b.unsub()
	b.unsub = nil
	b.store = nil
}

// Mounted reports whether the Bound currently holds a subscription.
func (b *Bound[S, SP, DP]) Mounted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.mounted
}
