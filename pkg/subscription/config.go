package subscription

import "time"

// Config holds the orchestrator settings.
type Config struct {
	PublicBaseURL     string        `env:"CHECKOUT_PUBLIC_BASE_URL,required"`
	IdempotencyWindow time.Duration `env:"CHECKOUT_IDEMPOTENCY_WINDOW" envDefault:"10m"`
	ProviderTimeout   time.Duration `env:"CHECKOUT_PROVIDER_TIMEOUT" envDefault:"15s"`
}

// StripeConfig configures the checkout-session provider.
// An empty SecretKey leaves the provider disabled.
type StripeConfig struct {
	SecretKey string `env:"STRIPE_SECRET_KEY"`
	APIURL    string `env:"STRIPE_API_URL"` // overrides the Stripe API base URL, mostly for testing
}

// PreferenceConfig configures the subscription-preference provider.
// An empty AccessToken leaves the provider disabled.
type PreferenceConfig struct {
	AccessToken string `env:"PREFERENCE_ACCESS_TOKEN"`
	APIURL      string `env:"PREFERENCE_API_URL" envDefault:"https://api.mercadopago.com"`
	Sandbox     bool   `env:"PREFERENCE_SANDBOX" envDefault:"false"`
}
