package pg_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/trialkit/pkg/pg"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.False(t, pg.IsNotFoundError(nil))
	assert.True(t, pg.IsNotFoundError(pgx.ErrNoRows))
	assert.True(t, pg.IsNotFoundError(fmt.Errorf("query tenant: %w", pgx.ErrNoRows)))
	assert.False(t, pg.IsNotFoundError(errors.New("boom")))
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthcheck(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()
		check := pg.Healthcheck(pingerFunc(func(context.Context) error { return nil }))
		assert.NoError(t, check(context.Background()))
	})

	t.Run("unhealthy", func(t *testing.T) {
		t.Parallel()
		pingErr := errors.New("connection refused")
		check := pg.Healthcheck(pingerFunc(func(context.Context) error { return pingErr }))

		err := check(context.Background())
		assert.ErrorIs(t, err, pg.ErrHealthcheckFailed)
		assert.ErrorIs(t, err, pingErr)
	})
}

func TestConnect_EmptyConnectionString(t *testing.T) {
	t.Parallel()

	_, err := pg.Connect(context.Background(), pg.Config{})
	assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)
}
