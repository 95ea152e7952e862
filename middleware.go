package dux

import "context"

// DispatchFunc is the signature of one stage of the dispatch pipeline.
type DispatchFunc func(ctx context.Context, action any) error

// Middleware decorates the dispatch pipeline. A middleware may inspect,
// replace, or swallow the action, and may dispatch further actions: the
// store's transition lock is not yet held while middleware runs, so a
// middleware-initiated dispatch is an ordinary recursive call, not a
// re-entrant one.
type Middleware func(next DispatchFunc) DispatchFunc

// LoggingMiddleware logs every action passing through dispatch: failures at
// Error, successful transitions at Debug.
func LoggingMiddleware(logger Logger) Middleware {
	return func(next DispatchFunc) DispatchFunc {
		return func(ctx context.Context, action any) error {
			err := next(ctx, action)
			if err != nil {
				logger.Error("dispatch failed", "action", ActionType(action), "error", err)
				return err
			}
			logger.Debug("dispatched", "action", ActionType(action))
			return nil
		}
	}
}
