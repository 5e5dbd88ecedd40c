package subscription

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-cleanhttp"
)

const preapprovalPath = "/preapproval"

// maxErrorBody caps how much of a failed response is kept for logs.
const maxErrorBody = 4 << 10

// PreferenceProvider is the subscription-preference variant: it registers a
// recurring preference with a free trial and returns the hosted init point.
type PreferenceProvider struct {
	httpClient  *http.Client
	apiURL      string
	accessToken string
	sandbox     bool
}

// PreferenceOption configures a PreferenceProvider.
type PreferenceOption func(*PreferenceProvider)

// WithPreferenceHTTPClient replaces the pooled default HTTP client.
func WithPreferenceHTTPClient(c *http.Client) PreferenceOption {
	return func(p *PreferenceProvider) {
		if c != nil {
			p.httpClient = c
		}
	}
}

// NewPreferenceProvider creates the subscription-preference provider.
func NewPreferenceProvider(cfg PreferenceConfig, opts ...PreferenceOption) (*PreferenceProvider, error) {
	if cfg.AccessToken == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.APIURL == "" {
		return nil, ErrMissingAPIURL
	}

	p := &PreferenceProvider{
		httpClient:  cleanhttp.DefaultPooledClient(),
		apiURL:      strings.TrimRight(cfg.APIURL, "/"),
		accessToken: cfg.AccessToken,
		sandbox:     cfg.Sandbox,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *PreferenceProvider) Name() string {
	return "mercadopago"
}

type preferenceRequest struct {
	Reason            string         `json:"reason"`
	ExternalReference string         `json:"external_reference"`
	PayerEmail        string         `json:"payer_email"`
	BackURL           string         `json:"back_url"`
	BackURLs          backURLs       `json:"back_urls"`
	AutoRecurring     autoRecurring  `json:"auto_recurring"`
	Metadata          map[string]any `json:"metadata,omitempty"`
}

type backURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type autoRecurring struct {
	Frequency         int       `json:"frequency"`
	FrequencyType     string    `json:"frequency_type"`
	TransactionAmount float64   `json:"transaction_amount"`
	CurrencyID        string    `json:"currency_id"`
	FreeTrial         freeTrial `json:"free_trial"`
}

type freeTrial struct {
	Frequency     int    `json:"frequency"`
	FrequencyType string `json:"frequency_type"`
}

type preferenceResponse struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

// CreateTrialSession registers the preference. All three return routes are wired.
func (p *PreferenceProvider) CreateTrialSession(ctx context.Context, req TrialSessionRequest) (*SessionResult, error) {
	body, err := json.Marshal(preferenceRequest{
		Reason:            req.Plan.DisplayName + " subscription",
		ExternalReference: req.TenantID,
		PayerEmail:        req.Email,
		BackURL:           req.Routes.Success,
		BackURLs: backURLs{
			Success: req.Routes.Success,
			Failure: req.Routes.Failure,
			Pending: req.Routes.Pending,
		},
		AutoRecurring: autoRecurring{
			Frequency:         1,
			FrequencyType:     "months",
			TransactionAmount: req.Plan.MonthlyPrice.Major(),
			CurrencyID:        strings.ToUpper(req.Plan.MonthlyPrice.Currency),
			FreeTrial: freeTrial{
				Frequency:     req.Plan.TrialDays,
				FrequencyType: "days",
			},
		},
		Metadata: map[string]any{"plan": req.Plan.ID.String()},
	})
	if err != nil {
		return nil, fmt.Errorf("preference: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+preapprovalPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("preference: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("X-Idempotency-Key", req.IdempotencyKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("preference: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, errors.Join(ErrUnexpectedStatus,
			fmt.Errorf("preference: status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet)))
	}

	var out preferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("preference: decode response: %w", err)
	}

	redirect := out.InitPoint
	if p.sandbox && out.SandboxInitPoint != "" {
		redirect = out.SandboxInitPoint
	}

	res := &SessionResult{ID: out.ID, RedirectURL: redirect}
	if err := validateResult(res); err != nil {
		return nil, fmt.Errorf("preference: %w", err)
	}
	return res, nil
}
