package subscription

import (
	"context"
	"net/url"
	"strings"

	"github.com/dmitrymomot/trialkit/pkg/plan"
)

// Provider creates hosted trial checkout sessions with a payment provider.
// Implementations perform exactly one remote call per invocation and never retry.
type Provider interface {
	// CreateTrialSession opens a subscription checkout with a free trial for
	// the given tenant and returns where the customer must be sent.
	CreateTrialSession(ctx context.Context, req TrialSessionRequest) (*SessionResult, error)

	// Name identifies the provider in logs and metrics.
	Name() string
}

// TrialSessionRequest is everything an adapter needs to open a trial session.
type TrialSessionRequest struct {
	TenantID       string
	Plan           plan.Definition
	Email          string
	Routes         ReturnRoutes
	IdempotencyKey string
}

// SessionResult is a created provider session.
type SessionResult struct {
	ID          string `json:"sessionOrPreferenceId"`
	RedirectURL string `json:"redirectUrl"`
}

// ReturnRoutes are the absolute URLs the provider sends the customer back to.
type ReturnRoutes struct {
	Success string
	Failure string
	Pending string
}

// Fixed outcome paths appended to the public base URL.
const (
	SuccessPath = "/subscription/success"
	FailurePath = "/subscription/failure"
	PendingPath = "/subscription/pending"
)

// NewReturnRoutes builds the outcome URLs under baseURL.
func NewReturnRoutes(baseURL string) (ReturnRoutes, error) {
	if !isAbsoluteHTTPURL(baseURL) {
		return ReturnRoutes{}, ErrInvalidPublicURL
	}
	base := strings.TrimRight(baseURL, "/")
	return ReturnRoutes{
		Success: base + SuccessPath,
		Failure: base + FailurePath,
		Pending: base + PendingPath,
	}, nil
}

// ProviderChoice selects which configured provider serves a request.
type ProviderChoice string

const (
	// ProviderCheckout is the checkout-session variant.
	ProviderCheckout ProviderChoice = "checkout"
	// ProviderPreference is the subscription-preference variant.
	ProviderPreference ProviderChoice = "preference"
)

var providerAliases = map[string]ProviderChoice{
	"checkout":    ProviderCheckout,
	"stripe":      ProviderCheckout,
	"preference":  ProviderPreference,
	"mercadopago": ProviderPreference,
}

// ParseProviderChoice resolves a provider name or alias, case-insensitively.
func ParseProviderChoice(raw string) (ProviderChoice, bool) {
	c, ok := providerAliases[strings.ToLower(strings.TrimSpace(raw))]
	return c, ok
}

func (c ProviderChoice) String() string {
	return string(c)
}

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validateResult(res *SessionResult) error {
	if res == nil || res.ID == "" {
		return ErrMissingSessionID
	}
	if !isAbsoluteHTTPURL(res.RedirectURL) {
		return ErrInvalidRedirectURL
	}
	return nil
}
