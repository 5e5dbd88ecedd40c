package statemachine_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trialkit/pkg/statemachine"
)

type (
	state string
	event string
)

const (
	idle       state = "idle"
	requesting state = "requesting"
	done       state = "done"

	submit  event = "submit"
	succeed event = "succeed"
	fail    event = "fail"
)

func newMachine(t *testing.T, opts ...statemachine.Option[state, event]) *statemachine.Machine[state, event] {
	t.Helper()
	base := []statemachine.Option[state, event]{
		statemachine.WithTransition[state, event](idle, submit, requesting),
		statemachine.WithTransition[state, event](requesting, succeed, done),
		statemachine.WithTransition[state, event](requesting, fail, idle),
	}
	m, err := statemachine.New(idle, append(base, opts...)...)
	require.NoError(t, err)
	return m
}

func TestMachine_Fire(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("follows transitions", func(t *testing.T) {
		t.Parallel()
		m := newMachine(t)

		require.NoError(t, m.Fire(ctx, submit))
		assert.Equal(t, requesting, m.Current())
		require.NoError(t, m.Fire(ctx, fail))
		assert.Equal(t, idle, m.Current())
		require.NoError(t, m.Fire(ctx, submit))
		require.NoError(t, m.Fire(ctx, succeed))
		assert.Equal(t, done, m.Current())

		m.Reset()
		assert.Equal(t, idle, m.Current())
	})

	t.Run("undefined transition", func(t *testing.T) {
		t.Parallel()
		m := newMachine(t)

		err := m.Fire(ctx, succeed)
		require.ErrorIs(t, err, statemachine.ErrNoTransition)

		var terr *statemachine.TransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "idle", terr.State)
		assert.Equal(t, "succeed", terr.Event)
		assert.Equal(t, idle, m.Current())
		assert.False(t, m.CanFire(ctx, succeed))
	})

	t.Run("guards pick the first allowed transition", func(t *testing.T) {
		t.Parallel()
		var allowed atomic.Bool
		m := statemachine.MustNew(idle,
			statemachine.WithTransition(idle, submit, done,
				statemachine.WithGuard(func(context.Context, state, event) bool { return allowed.Load() })),
			statemachine.WithTransition[state, event](idle, submit, requesting,
				statemachine.WithGuard(func(context.Context, state, event) bool { return false })),
		)

		err := m.Fire(ctx, submit)
		assert.ErrorIs(t, err, statemachine.ErrTransitionRejected)
		assert.False(t, m.CanFire(ctx, submit))

		allowed.Store(true)
		assert.True(t, m.CanFire(ctx, submit))
		require.NoError(t, m.Fire(ctx, submit))
		assert.Equal(t, done, m.Current())
	})

	t.Run("failing action aborts", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		m := statemachine.MustNew(idle,
			statemachine.WithTransition(idle, submit, requesting,
				statemachine.WithAction(func(context.Context, state, state, event) error { return boom })),
		)

		assert.ErrorIs(t, m.Fire(ctx, submit), boom)
		assert.Equal(t, idle, m.Current())
	})

	t.Run("hooks observe transitions", func(t *testing.T) {
		t.Parallel()
		var seen []string
		m := newMachine(t, statemachine.WithHook(func(from, to state, ev event) {
			seen = append(seen, string(from)+">"+string(to)+":"+string(ev))
		}))

		require.NoError(t, m.Fire(ctx, submit))
		require.NoError(t, m.Fire(ctx, fail))
		assert.Equal(t, []string{"idle>requesting:submit", "requesting>idle:fail"}, seen)
	})
}

func TestMachine_UnreachableTransition(t *testing.T) {
	t.Parallel()

	_, err := statemachine.New(idle,
		statemachine.WithTransition[state, event](idle, submit, requesting),
		statemachine.WithTransition[state, event](idle, submit, done),
	)
	assert.ErrorIs(t, err, statemachine.ErrUnreachableTransition)

	assert.Panics(t, func() {
		statemachine.MustNew(idle,
			statemachine.WithTransition[state, event](idle, submit, requesting),
			statemachine.WithTransition[state, event](idle, submit, done),
		)
	})
}

func TestMachine_ConcurrentSubmitOnlyOneWins(t *testing.T) {
	t.Parallel()
	m := newMachine(t)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if m.Fire(context.Background(), submit) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, wins.Load())
	assert.Equal(t, requesting, m.Current())
}
