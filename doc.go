// Package dux is a unidirectional state container: a single state value
// replaced exclusively by pure reducers in response to dispatched actions,
// with synchronous subscriber notification after every transition.
//
// # Actions
//
// Actions are plain Go values. The action's dynamic type is its discriminant,
// so two packages can declare same-named action types without colliding:
//
//	type SetSearchTerm struct{ Value string }
//
//	store.Dispatch(SetSearchTerm{Value: "dare"})
//
// Types can override the reported name by implementing TypeNamer.
//
// # Reducers
//
// A Reducer computes the next state from the current state and an action.
// It must be pure, must return the input state unchanged for action types it
// does not recognize, and reports failure through its error return. The Mux
// builder routes actions to per-type transition functions and falls through
// to identity for everything else:
//
//	mux := dux.NewMux[AppState]()
//	dux.Handle(mux, func(s AppState, a SetSearchTerm) (AppState, error) {
//	    s.SearchTerm = a.Value
//	    return s, nil
//	})
//
//	store, err := dux.New(mux.Reducer())
//
// # Store
//
// The store owns the current state, the reducer, and the subscriber
// registry. Dispatches are serialized; subscribers run synchronously on the
// dispatching goroutine, in registration order, against a snapshot of the
// registry taken when the state was replaced. A reducer or subscriber must
// not dispatch while a dispatch is in flight on the same call stack; the
// store detects this and returns ErrDispatchInProgress.
//
//	unsubscribe := store.Subscribe(func() {
//	    fmt.Println(store.GetState())
//	})
//	defer unsubscribe()
//
// # Binding consumers
//
// Connect projects store state and dispatch-bound action creators into a
// consumer's props. The store is distributed through a context.Context so
// consumers never hold it directly:
//
//	ctx := dux.NewContext(context.Background(), store)
//
//	connector := dux.Connect(
//	    func(s AppState) SearchProps { return SearchProps{Term: s.SearchTerm} },
//	    func(d dux.Dispatch) SearchActions {
//	        return SearchActions{SetTerm: func(v string) error {
//	            return d(SetSearchTerm{Value: v})
//	        }}
//	    },
//	)
//
//	bound := connector.Bind(view)
//	if err := bound.Mount(ctx); err != nil { ... }
//	defer bound.Unmount()
//
// The consumer re-renders only when its projected state props change.
// Dispatch props are computed once per mount and stay referentially stable.
//
// # History
//
// A Journal records every successful dispatch and can replay the history
// into a fresh store:
//
//	journal := dux.NewMemoryJournal()
//	store, _ := dux.New(reducer, dux.WithJournal(journal))
//
//	dux.RegisterAction[SetSearchTerm]()
//	dux.Replay(ctx, journal, freshStore, 0)
//
// # Observability
//
// The dux/otel package implements the Observability interface with
// OpenTelemetry traces and metrics; wire it in with WithObservability.
package dux
