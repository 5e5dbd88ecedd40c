package statemachine

import (
	"errors"
	"fmt"
)

var (
	ErrNoTransition          = errors.New("no transition defined")
	ErrTransitionRejected    = errors.New("transition rejected by guards")
	ErrUnreachableTransition = errors.New("transition follows an unguarded transition for the same state and event")
)

// TransitionError reports which state and event failed. It unwraps to
// ErrNoTransition or ErrTransitionRejected.
type TransitionError struct {
	State string
	Event string
	Err   error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("statemachine: %s: state %q, event %q", e.Err, e.State, e.Event)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}
