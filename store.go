package dux

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

var (
	// ErrNilAction is returned when dispatch is called with a nil action.
	ErrNilAction = errors.New("dux: nil action")

	// ErrDispatchInProgress is returned when a reducer or subscriber
	// dispatches while a dispatch for the same store is already in
	// progress on the same call stack.
	ErrDispatchInProgress = errors.New("dux: dispatch in progress")
)

// Unsubscribe removes the subscriber it was returned for.
// Calling it more than once is a no-op.
type Unsubscribe func()

// subscriber wraps a callback with its removal state.
type subscriber struct {
	fn      func()
	removed bool // guarded by Store.mu
}

// Store owns the current state, the reducer, and the subscriber registry.
// The state is never mutated in place, only replaced by the reducer's
// return value, so GetState callers never observe a torn value.
type Store[S any] struct {
	reducer  Reducer[S]
	cfg      *config
	dispatch DispatchFunc // middleware pipeline ending in transition

	mu          sync.RWMutex // guards state and subscribers
	state       S
	subscribers []*subscriber

	version atomic.Uint64

	dispatchMu sync.Mutex   // serializes transitions
	owner      atomic.Int64 // goroutine id of the in-flight dispatch, 0 when idle
}

// New creates a store whose initial state is the reducer's own default,
// obtained by evaluating the reducer once against the zero state with an
// init sentinel action. Reducers must tolerate both: an unrecognized action
// falls through to identity, so a reducer that treats the zero state as its
// default needs no special casing.
func New[S any](reducer Reducer[S], opts ...Option) (*Store[S], error) {
	if reducer == nil {
		return nil, errors.New("dux: nil reducer")
	}
	var zero S
	initial, err := reducer(zero, initAction{})
	if err != nil {
		return nil, fmt.Errorf("dux: initial state: %w", err)
	}
	return newStore(reducer, initial, opts)
}

// NewWithState creates a store with an explicit initial state.
func NewWithState[S any](reducer Reducer[S], initial S, opts ...Option) (*Store[S], error) {
	if reducer == nil {
		return nil, errors.New("dux: nil reducer")
	}
	return newStore(reducer, initial, opts)
}

func newStore[S any](reducer Reducer[S], initial S, opts []Option) (*Store[S], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Store[S]{
		reducer: reducer,
		cfg:     cfg,
		state:   initial,
	}

	// Compose the pipeline, first middleware outermost.
	d := s.transition
	for i := len(cfg.middlewares) - 1; i >= 0; i-- {
		d = cfg.middlewares[i](d)
	}
	s.dispatch = d

	return s, nil
}

// GetState returns the current state.
func (s *Store[S]) GetState() S {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Version returns the number of completed transitions.
func (s *Store[S]) Version() uint64 {
	return s.version.Load()
}

// SubscriberCount returns the number of registered subscribers.
func (s *Store[S]) SubscriberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}

// Dispatch runs the action through the reducer and, on success, replaces
// the state and synchronously notifies every registered subscriber in
// registration order. On reducer failure the state keeps its pre-dispatch
// value, no subscriber runs, and the error is returned.
func (s *Store[S]) Dispatch(action any) error {
	return s.DispatchContext(context.Background(), action)
}

// DispatchContext is Dispatch with a caller-supplied context, threaded
// through middleware and observability hooks.
func (s *Store[S]) DispatchContext(ctx context.Context, action any) error {
	if action == nil {
		return ErrNilAction
	}
	return s.dispatch(ctx, action)
}

// Subscribe registers a callback invoked after every successful dispatch.
// The returned Unsubscribe removes exactly that registration. Registry
// changes made from inside a notification do not affect the in-progress
// pass: the pass iterates a snapshot taken when the state was replaced.
// A nil callback registers nothing and returns a no-op Unsubscribe.
func (s *Store[S]) Subscribe(fn func()) Unsubscribe {
	if fn == nil {
		return func() {}
	}

	sub := &subscriber{fn: fn}
	s.mu.Lock()
	s.subscribers = append(s.subscribers, sub)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub.removed {
			return
		}
		sub.removed = true
		for i, candidate := range s.subscribers {
			if candidate == sub {
				s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

// transition is the terminal stage of the dispatch pipeline: it serializes
// the reduce-replace-notify sequence against other dispatches and rejects
// re-entrant dispatch from the same call stack.
func (s *Store[S]) transition(ctx context.Context, action any) error {
	if action == nil {
		return ErrNilAction
	}

	gid := goroutineID()
	if s.owner.Load() == gid {
		return fmt.Errorf("%w: %s dispatched from a reducer or subscriber", ErrDispatchInProgress, ActionType(action))
	}

	s.dispatchMu.Lock()
	s.owner.Store(gid)
	defer func() {
		s.owner.Store(0)
		s.dispatchMu.Unlock()
	}()

	name := ActionType(action)
	obs := s.cfg.observability
	if obs != nil {
		ctx = obs.OnDispatchStart(ctx, name)
	}
	start := time.Now()

	prev := s.GetState()
	next, err := s.reducer(prev, action)
	if err != nil {
		err = fmt.Errorf("dux: reduce %s: %w", name, err)
		if obs != nil {
			obs.OnDispatchComplete(ctx, time.Since(start), err)
		}
		if s.cfg.logger != nil {
			s.cfg.logger.Error("transition failed", "action", name, "error", err)
		}
		return err
	}

	s.mu.Lock()
	s.state = next
	seq := s.version.Add(1)
	snapshot := make([]*subscriber, len(s.subscribers))
	copy(snapshot, s.subscribers)
	s.mu.Unlock()

	s.appendJournal(ctx, seq, name, action)

	// Fan out without holding mu so callbacks can subscribe and
	// unsubscribe. Every snapshotted subscriber runs, including ones
	// unsubscribed earlier in the same pass.
	notifyStart := time.Now()
	notifyCtx := ctx
	if obs != nil {
		notifyCtx = obs.OnNotifyStart(ctx, name, len(snapshot))
	}
	for _, sub := range snapshot {
		sub.fn()
	}
	if obs != nil {
		obs.OnNotifyComplete(notifyCtx, time.Since(notifyStart))
	}

	if obs != nil {
		obs.OnDispatchComplete(ctx, time.Since(start), nil)
	}
	if s.cfg.logger != nil {
		s.cfg.logger.Debug("transition applied", "action", name, "version", seq)
	}
	return nil
}

var goroutinePrefix = []byte("goroutine ")

// goroutineID parses the current goroutine's id from its stack header.
// Goroutine identity is what tells a re-entrant dispatch (same stack, must
// error) apart from a concurrent one (different goroutine, blocks on the
// dispatch mutex).
func goroutineID() int64 {
	buf := make([]byte, 32)
	n := runtime.Stack(buf, false)
	fields := bytes.TrimPrefix(buf[:n], goroutinePrefix)
	i := bytes.IndexByte(fields, ' ')
	if i < 0 {
		return -1
	}
	id, err := strconv.ParseInt(string(fields[:i]), 10, 64)
	if err != nil {
		return -1
	}
	return id
}
