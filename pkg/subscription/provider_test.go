package subscription_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trialkit/pkg/subscription"
)

func TestNewReturnRoutes(t *testing.T) {
	t.Parallel()

	routes, err := subscription.NewReturnRoutes("https://app.test/")
	require.NoError(t, err)
	assert.Equal(t, testRoutes, routes)

	for _, bad := range []string{"", "app.test", "/relative", "ftp://app.test"} {
		_, err := subscription.NewReturnRoutes(bad)
		assert.ErrorIs(t, err, subscription.ErrInvalidPublicURL, bad)
	}
}

func TestParseProviderChoice(t *testing.T) {
	t.Parallel()

	tests := map[string]subscription.ProviderChoice{
		"checkout":     subscription.ProviderCheckout,
		"Stripe":       subscription.ProviderCheckout,
		"preference":   subscription.ProviderPreference,
		" mercadopago": subscription.ProviderPreference,
	}
	for raw, want := range tests {
		got, ok := subscription.ParseProviderChoice(raw)
		assert.True(t, ok, raw)
		assert.Equal(t, want, got)
	}

	_, ok := subscription.ParseProviderChoice("paypal")
	assert.False(t, ok)
}

func TestIdempotencyKey(t *testing.T) {
	t.Parallel()

	window := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	key := subscription.IdempotencyKey("acme", "pro", subscription.ProviderCheckout, window)

	assert.Len(t, key, 64)
	assert.Equal(t, key, subscription.IdempotencyKey("acme", "pro", subscription.ProviderCheckout, window))
	assert.NotEqual(t, key, subscription.IdempotencyKey("acme", "pro", subscription.ProviderPreference, window))
	assert.NotEqual(t, key, subscription.IdempotencyKey("acme", "business", subscription.ProviderCheckout, window))
	assert.NotEqual(t, key, subscription.IdempotencyKey("acme2", "pro", subscription.ProviderCheckout, window))
	assert.NotEqual(t, key, subscription.IdempotencyKey("acme", "pro", subscription.ProviderCheckout, window.Add(10*time.Minute)))
	// Separators keep field boundaries distinct.
	assert.NotEqual(t,
		subscription.IdempotencyKey("ab", "c", subscription.ProviderCheckout, window),
		subscription.IdempotencyKey("a", "bc", subscription.ProviderCheckout, window))
}
