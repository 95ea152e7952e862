package dux

import (
	"context"
	"time"
)

// Observability receives hooks around state transitions and subscriber
// fan-out. Implementations must be safe for concurrent use. The dux/otel
// package provides an OpenTelemetry implementation.
type Observability interface {
	// OnDispatchStart is called when a dispatch enters the store, before
	// the reducer runs. The returned context is threaded through the rest
	// of the dispatch.
	OnDispatchStart(ctx context.Context, actionType string) context.Context

	// OnDispatchComplete is called when the dispatch finishes, with the
	// reducer error if the transition failed.
	OnDispatchComplete(ctx context.Context, duration time.Duration, err error)

	// OnNotifyStart is called after the state has been replaced, before
	// subscribers run. subscribers is the size of the notification snapshot.
	OnNotifyStart(ctx context.Context, actionType string, subscribers int) context.Context

	// OnNotifyComplete is called after all subscribers have run.
	OnNotifyComplete(ctx context.Context, duration time.Duration)
}
