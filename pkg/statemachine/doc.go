// Package statemachine is a small generic finite state machine.
//
// States and events are any comparable types, usually string constants:
//
//	type state string
//	type event string
//
//	m := statemachine.MustNew[state, event]("idle",
//		statemachine.WithTransition[state, event]("idle", "submit", "requesting"),
//		statemachine.WithTransition[state, event]("requesting", "failed", "idle"),
//	)
//	err := m.Fire(ctx, "submit")
//
// Fire returns a *TransitionError wrapping ErrNoTransition when the current
// state has no transition for the event, and ErrTransitionRejected when every
// candidate was vetoed by its guards.
package statemachine
