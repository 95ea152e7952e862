package dux

import "reflect"

// TypeNamer is an optional interface that action types can implement to
// provide their own discriminant name. Without it the reflect-based
// package-qualified type name is used.
//
// Example:
//
//	type SetSearchTerm struct{ Value string }
//	func (SetSearchTerm) ActionTypeName() string { return "search/set-term" }
//
// Explicit names stay stable across refactoring and package moves, which
// matters when actions are recorded in a Journal.
type TypeNamer interface {
	ActionTypeName() string
}

// ActionType returns the discriminant for an action.
// If the action implements TypeNamer, returns the custom name.
// Otherwise returns the reflect-based package-qualified type name.
// Returns "nil" for a nil action.
func ActionType(action any) string {
	if action == nil {
		return "nil"
	}
	if namer, ok := action.(TypeNamer); ok {
		return namer.ActionTypeName()
	}
	return reflect.TypeOf(action).String()
}

// initAction is dispatched through the reducer exactly once at store
// construction when no explicit initial state is supplied. No Mux knows it,
// so it falls through to the identity branch and the reducer's default
// state comes back.
type initAction struct{}

func (initAction) ActionTypeName() string { return "dux/init" }
