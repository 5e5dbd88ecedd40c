package statemachine

// Option configures a Machine during construction.
type Option[S, E comparable] func(*Machine[S, E]) error

// TransitionOption attaches guards or actions to one transition.
type TransitionOption[S, E comparable] func(*transition[S, E])

// WithTransition allows event to move the machine from one state to another.
// Several transitions may share from and event; guards decide between them in
// declaration order.
func WithTransition[S, E comparable](from S, event E, to S, opts ...TransitionOption[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) error {
		t := transition[S, E]{to: to}
		for _, opt := range opts {
			opt(&t)
		}
		if m.transitions[from] == nil {
			m.transitions[from] = make(map[E][]transition[S, E])
		}
		for _, existing := range m.transitions[from][event] {
			if len(existing.guards) == 0 {
				return ErrUnreachableTransition
			}
		}
		m.transitions[from][event] = append(m.transitions[from][event], t)
		return nil
	}
}

// WithHook registers a callback run after every successful transition,
// outside the machine's lock.
func WithHook[S, E comparable](h Hook[S, E]) Option[S, E] {
	return func(m *Machine[S, E]) error {
		if h != nil {
			m.hooks = append(m.hooks, h)
		}
		return nil
	}
}

func WithGuard[S, E comparable](g Guard[S, E]) TransitionOption[S, E] {
	return func(t *transition[S, E]) {
		if g != nil {
			t.guards = append(t.guards, g)
		}
	}
}

func WithAction[S, E comparable](a Action[S, E]) TransitionOption[S, E] {
	return func(t *transition[S, E]) {
		if a != nil {
			t.actions = append(t.actions, a)
		}
	}
}
