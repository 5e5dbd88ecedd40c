package statemachine

import (
	"context"
	"fmt"
	"sync"
)

// Guard vetoes a transition when it returns false.
type Guard[S, E comparable] func(ctx context.Context, from S, event E) bool

// Action runs before the state changes. A non-nil error aborts the transition.
type Action[S, E comparable] func(ctx context.Context, from, to S, event E) error

// Hook observes a completed transition.
type Hook[S, E comparable] func(from, to S, event E)

type transition[S, E comparable] struct {
	to      S
	guards  []Guard[S, E]
	actions []Action[S, E]
}

// Machine is a finite state machine over state type S and event type E.
// It is safe for concurrent use.
type Machine[S, E comparable] struct {
	mu          sync.Mutex
	initial     S
	current     S
	transitions map[S]map[E][]transition[S, E]
	hooks       []Hook[S, E]
}

// New creates a machine in the initial state.
func New[S, E comparable](initial S, opts ...Option[S, E]) (*Machine[S, E], error) {
	m := &Machine[S, E]{
		initial:     initial,
		current:     initial,
		transitions: make(map[S]map[E][]transition[S, E]),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// MustNew is like New but panics on an invalid definition.
func MustNew[S, E comparable](initial S, opts ...Option[S, E]) *Machine[S, E] {
	m, err := New(initial, opts...)
	if err != nil {
		panic(fmt.Sprintf("statemachine: %v", err))
	}
	return m
}

func (m *Machine[S, E]) Current() S {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Fire applies event to the current state. The first transition whose guards
// all pass wins; its actions run in order before the state changes.
func (m *Machine[S, E]) Fire(ctx context.Context, event E) error {
	m.mu.Lock()

	from := m.current
	candidates := m.transitions[from][event]
	if len(candidates) == 0 {
		m.mu.Unlock()
		return &TransitionError{State: fmt.Sprint(from), Event: fmt.Sprint(event), Err: ErrNoTransition}
	}

	t, ok := m.pick(ctx, from, event, candidates)
	if !ok {
		m.mu.Unlock()
		return &TransitionError{State: fmt.Sprint(from), Event: fmt.Sprint(event), Err: ErrTransitionRejected}
	}

	for _, action := range t.actions {
		if err := action(ctx, from, t.to, event); err != nil {
			m.mu.Unlock()
			return fmt.Errorf("statemachine: action failed: %w", err)
		}
	}

	m.current = t.to
	hooks := m.hooks
	m.mu.Unlock()

	for _, h := range hooks {
		h(from, t.to, event)
	}
	return nil
}

// CanFire reports whether Fire(event) would currently succeed, ignoring actions.
func (m *Machine[S, E]) CanFire(ctx context.Context, event E) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.pick(ctx, m.current, event, m.transitions[m.current][event])
	return ok
}

// Reset returns the machine to its initial state without running hooks.
func (m *Machine[S, E]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.initial
}

func (m *Machine[S, E]) pick(ctx context.Context, from S, event E, candidates []transition[S, E]) (transition[S, E], bool) {
	for _, t := range candidates {
		if allow(ctx, from, event, t.guards) {
			return t, true
		}
	}
	return transition[S, E]{}, false
}

func allow[S, E comparable](ctx context.Context, from S, event E, guards []Guard[S, E]) bool {
	for _, g := range guards {
		if !g(ctx, from, event) {
			return false
		}
	}
	return true
}
