package subscription_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trialkit/pkg/plan"
	"github.com/dmitrymomot/trialkit/pkg/subscription"
)

func newPreferenceProvider(t *testing.T, sandbox bool, h http.HandlerFunc) *subscription.PreferenceProvider {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	p, err := subscription.NewPreferenceProvider(subscription.PreferenceConfig{
		AccessToken: "APP_USR-token",
		APIURL:      srv.URL + "/",
		Sandbox:     sandbox,
	})
	require.NoError(t, err)
	return p
}

func TestNewPreferenceProvider_Config(t *testing.T) {
	t.Parallel()

	_, err := subscription.NewPreferenceProvider(subscription.PreferenceConfig{APIURL: "https://api.test"})
	assert.ErrorIs(t, err, subscription.ErrMissingAPIKey)

	_, err = subscription.NewPreferenceProvider(subscription.PreferenceConfig{AccessToken: "x"})
	assert.ErrorIs(t, err, subscription.ErrMissingAPIURL)
}

func TestPreferenceProvider_CreateTrialSession(t *testing.T) {
	t.Parallel()

	t.Run("registers recurring preference with trial", func(t *testing.T) {
		t.Parallel()
		p := newPreferenceProvider(t, false, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/preapproval", r.URL.Path)
			assert.Equal(t, "Bearer APP_USR-token", r.Header.Get("Authorization"))
			assert.Equal(t, "idem-123", r.Header.Get("X-Idempotency-Key"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "acme", body["external_reference"])
			assert.Equal(t, "owner@acme.test", body["payer_email"])

			back := body["back_urls"].(map[string]any)
			assert.Equal(t, testRoutes.Success, back["success"])
			assert.Equal(t, testRoutes.Failure, back["failure"])
			assert.Equal(t, testRoutes.Pending, back["pending"])

			rec := body["auto_recurring"].(map[string]any)
			assert.InDelta(t, 1, rec["frequency"], 0)
			assert.Equal(t, "months", rec["frequency_type"])
			assert.InDelta(t, 199.0, rec["transaction_amount"], 0.001)
			assert.Equal(t, "BRL", rec["currency_id"])

			trial := rec["free_trial"].(map[string]any)
			assert.InDelta(t, 14, trial["frequency"], 0)
			assert.Equal(t, "days", trial["frequency_type"])

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"pref_1","init_point":"https://pay.test/init/pref_1","sandbox_init_point":"https://sandbox.pay.test/init/pref_1"}`))
		})

		res, err := p.CreateTrialSession(context.Background(), trialRequest(t, plan.Business))
		require.NoError(t, err)
		assert.Equal(t, "pref_1", res.ID)
		assert.Equal(t, "https://pay.test/init/pref_1", res.RedirectURL)
		assert.Equal(t, "mercadopago", p.Name())
	})

	t.Run("sandbox uses sandbox init point", func(t *testing.T) {
		t.Parallel()
		p := newPreferenceProvider(t, true, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"id":"pref_2","init_point":"https://pay.test/init/pref_2","sandbox_init_point":"https://sandbox.pay.test/init/pref_2"}`))
		})

		res, err := p.CreateTrialSession(context.Background(), trialRequest(t, plan.Starter))
		require.NoError(t, err)
		assert.Equal(t, "https://sandbox.pay.test/init/pref_2", res.RedirectURL)
	})

	t.Run("non 2xx status", func(t *testing.T) {
		t.Parallel()
		p := newPreferenceProvider(t, false, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid access token"}`))
		})

		_, err := p.CreateTrialSession(context.Background(), trialRequest(t, plan.Starter))
		assert.ErrorIs(t, err, subscription.ErrUnexpectedStatus)
		assert.Contains(t, err.Error(), "401")
	})

	t.Run("missing init point", func(t *testing.T) {
		t.Parallel()
		p := newPreferenceProvider(t, false, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"id":"pref_3"}`))
		})

		_, err := p.CreateTrialSession(context.Background(), trialRequest(t, plan.Starter))
		assert.ErrorIs(t, err, subscription.ErrInvalidRedirectURL)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		p := newPreferenceProvider(t, false, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		})

		_, err := p.CreateTrialSession(context.Background(), trialRequest(t, plan.Starter))
		assert.Error(t, err)
	})
}
