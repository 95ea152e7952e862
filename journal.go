package dux

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"time"
)

// ErrActionNotRegistered is returned by Replay when a recorded action type
// has no registered Go type to decode into.
var ErrActionNotRegistered = errors.New("dux: action type not registered")

// RecordedAction is one entry in a Journal: the dispatched action, JSON
// encoded, tagged with its discriminant and the store version the dispatch
// produced.
type RecordedAction struct {
	Seq       uint64          `json:"seq"`
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Journal records the action history of a store. The store appends one
// entry per successful dispatch; history is in-memory only and lives as
// long as the session.
type Journal interface {
	// Append stores a recorded action.
	Append(ctx context.Context, rec *RecordedAction) error

	// Load returns entries with from <= Seq <= to in sequence order.
	// A to of 0 means "through the latest entry".
	Load(ctx context.Context, from, to uint64) ([]*RecordedAction, error)

	// Position returns the sequence of the latest entry, 0 when empty.
	Position(ctx context.Context) (uint64, error)
}

// MemoryJournal is an in-memory implementation of Journal.
// It is safe for concurrent access.
type MemoryJournal struct {
	mu      sync.RWMutex
	entries []*RecordedAction
}

// NewMemoryJournal creates an empty in-memory journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// Append stores a recorded action.
func (j *MemoryJournal) Append(ctx context.Context, rec *RecordedAction) error {
	if rec == nil {
		return errors.New("dux: nil record")
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	entry := *rec
	j.entries = append(j.entries, &entry)
	return nil
}

// Load returns copies of the entries in the requested range.
func (j *MemoryJournal) Load(ctx context.Context, from, to uint64) ([]*RecordedAction, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	var out []*RecordedAction
	for _, rec := range j.entries {
		if rec.Seq < from {
			continue
		}
		if to != 0 && rec.Seq > to {
			continue
		}
		entry := *rec
		out = append(out, &entry)
	}
	return out, nil
}

// Position returns the sequence of the latest entry.
func (j *MemoryJournal) Position(ctx context.Context) (uint64, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if len(j.entries) == 0 {
		return 0, nil
	}
	return j.entries[len(j.entries)-1].Seq, nil
}

// Len returns the number of recorded entries.
func (j *MemoryJournal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

// appendJournal records a completed transition. Journal failure never fails
// the dispatch that triggered it.
func (s *Store[S]) appendJournal(ctx context.Context, seq uint64, name string, action any) {
	journal := s.cfg.journal
	if journal == nil {
		return
	}

	data, err := json.Marshal(action)
	if err == nil {
		err = journal.Append(ctx, &RecordedAction{
			Seq:       seq,
			Type:      name,
			Data:      data,
			Timestamp: time.Now(),
		})
	}
	if err != nil {
		if s.cfg.onJournalError != nil {
			s.cfg.onJournalError(err)
			return
		}
		if s.cfg.logger != nil {
			s.cfg.logger.Error("journal append failed", "action", name, "error", err)
		}
	}
}

// actionRegistry maps recorded discriminants back to Go types for Replay.
var actionRegistry = struct {
	mu    sync.RWMutex
	types map[string]reflect.Type
}{types: make(map[string]reflect.Type)}

// RegisterAction makes actions of type A decodable during Replay. A must be
// a value type (not a pointer); its discriminant is ActionType of the zero
// value, so TypeNamer overrides apply.
func RegisterAction[A any]() {
	var zero A
	actionRegistry.mu.Lock()
	defer actionRegistry.mu.Unlock()
	actionRegistry.types[ActionType(zero)] = reflect.TypeOf(zero)
}

// decodeAction reconstructs a registered action from its recorded form.
func decodeAction(name string, data json.RawMessage) (any, error) {
	actionRegistry.mu.RLock()
	actionType, ok := actionRegistry.types[name]
	actionRegistry.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrActionNotRegistered, name)
	}

	value := reflect.New(actionType)
	if err := json.Unmarshal(data, value.Interface()); err != nil {
		return nil, fmt.Errorf("dux: decode %s: %w", name, err)
	}
	return value.Elem().Interface(), nil
}

// Replay re-dispatches journal history into a store, in sequence order,
// starting at from (0 replays everything). Every recorded action type must
// have been registered with RegisterAction. Replaying into a store that
// itself journals to the same Journal would append the history again; use a
// journal-free store for reconstruction.
func Replay[S any](ctx context.Context, journal Journal, store *Store[S], from uint64) error {
	if journal == nil {
		return errors.New("dux: nil journal")
	}
	if store == nil {
		return errors.New("dux: nil store")
	}

	recs, err := journal.Load(ctx, from, 0)
	if err != nil {
		return fmt.Errorf("dux: load journal: %w", err)
	}

	for _, rec := range recs {
		action, err := decodeAction(rec.Type, rec.Data)
		if err != nil {
			return fmt.Errorf("dux: replay seq %d: %w", rec.Seq, err)
		}
		if err := store.DispatchContext(ctx, action); err != nil {
			return fmt.Errorf("dux: replay seq %d: %w", rec.Seq, err)
		}
	}
	return nil
}
