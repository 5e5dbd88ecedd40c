package subscription

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// StripeProvider is the checkout-session variant: a hosted Stripe Checkout in
// subscription mode with an inline monthly price taken from the plan catalog.
type StripeProvider struct {
	client session.Client
}

// StripeOption configures a StripeProvider.
type StripeOption func(*stripe.BackendConfig)

// WithStripeHTTPClient replaces the pooled default HTTP client.
func WithStripeHTTPClient(c *http.Client) StripeOption {
	return func(cfg *stripe.BackendConfig) {
		if c != nil {
			cfg.HTTPClient = c
		}
	}
}

// NewStripeProvider creates the checkout-session provider.
// Network retries are disabled.
func NewStripeProvider(cfg StripeConfig, opts ...StripeOption) (*StripeProvider, error) {
	if cfg.SecretKey == "" {
		return nil, ErrMissingAPIKey
	}

	bc := &stripe.BackendConfig{
		HTTPClient:        cleanhttp.DefaultPooledClient(),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	}
	if cfg.APIURL != "" {
		bc.URL = stripe.String(cfg.APIURL)
	}
	for _, opt := range opts {
		opt(bc)
	}

	return &StripeProvider{
		client: session.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, bc),
			Key: cfg.SecretKey,
		},
	}, nil
}

func (p *StripeProvider) Name() string {
	return "stripe"
}

// CreateTrialSession creates a Checkout Session. Stripe has no pending return
// route; the failure route doubles as the cancel URL.
func (p *StripeProvider) CreateTrialSession(ctx context.Context, req TrialSessionRequest) (*SessionResult, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:        stripe.String(req.Routes.Success),
		CancelURL:         stripe.String(req.Routes.Failure),
		CustomerEmail:     stripe.String(req.Email),
		ClientReferenceID: stripe.String(req.TenantID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Quantity: stripe.Int64(1),
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(strings.ToLower(req.Plan.MonthlyPrice.Currency)),
				UnitAmount: stripe.Int64(req.Plan.MonthlyPrice.Amount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.Plan.DisplayName),
				},
				Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
					Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
				},
			},
		}},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(int64(req.Plan.TrialDays)),
		},
	}
	params.Context = ctx
	params.AddMetadata("tenant_id", req.TenantID)
	params.AddMetadata("plan", req.Plan.ID.String())
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	s, err := p.client.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe: create checkout session: %w", err)
	}

	res := &SessionResult{ID: s.ID, RedirectURL: s.URL}
	if err := validateResult(res); err != nil {
		return nil, fmt.Errorf("stripe: %w", err)
	}
	return res, nil
}
