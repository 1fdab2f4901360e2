package undo

import (
	"github.com/cockroachdb/errors"
)

// Errors
var (
	ErrNothingToUndo   = errors.New("there is no command to undo")
	ErrConsecutiveUndo = errors.New("cannot undo consecutively, a command has already been undone")
)

// State represents the ledger state.
type State int

const (
	StateEmpty   State = iota // Nothing recorded yet
	StatePending              // One action waiting to be undone
	StateBlocked              // Last action already undone
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePending:
		return "pending"
	case StateBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// Ledger holds at most one pending action.
// It is not safe for concurrent use; the owner serializes access.
type Ledger struct {
	state   State
	pending Action
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{state: StateEmpty}
}

// Record replaces the pending action. A nil action is ignored.
func (l *Ledger) Record(a Action) {
	if a == nil {
		return
	}
	l.pending = a
	l.state = StatePending
}

// Take hands out the pending action and blocks the ledger until the
// next Record.
func (l *Ledger) Take() (Action, error) {
	switch l.state {
	case StateEmpty:
		return nil, ErrNothingToUndo
	case StateBlocked:
		return nil, ErrConsecutiveUndo
	}

	a := l.pending
	l.pending = nil
	l.state = StateBlocked
	return a, nil
}

// State returns the ledger state.
func (l *Ledger) State() State {
	return l.state
}

// Pending returns the action waiting to be undone.
func (l *Ledger) Pending() (Action, bool) {
	if l.state != StatePending {
		return nil, false
	}
	return l.pending, true
}
