package subscription

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dmitrymomot/trialkit/pkg/logger"
	"github.com/dmitrymomot/trialkit/pkg/plan"
	"github.com/dmitrymomot/trialkit/pkg/tenant"
)

// DefaultProviderTimeout bounds a single provider call.
const DefaultProviderTimeout = 15 * time.Second

// storeTimeout bounds recording a created session, independent of the caller.
const storeTimeout = 3 * time.Second

// Request is a caller's ask for a trial checkout session.
type Request struct {
	TenantID string `json:"tenantId"`
	Plan     string `json:"plan"`
	Email    string `json:"email"`
}

// Service validates session requests and delegates them to the chosen provider.
// It is safe for concurrent use.
type Service struct {
	registry  tenant.Registry
	routes    ReturnRoutes
	providers map[ProviderChoice]Provider
	store     SessionStore
	window    time.Duration
	timeout   time.Duration
	log       *slog.Logger
	metrics   *Metrics
	now       func() time.Time
	group     singleflight.Group
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithProvider registers p for choice. A nil provider is ignored.
func WithProvider(choice ProviderChoice, p Provider) ServiceOption {
	return func(s *Service) {
		if p != nil {
			s.providers[choice] = p
		}
	}
}

// WithSessionStore replaces the default in-memory store.
func WithSessionStore(store SessionStore) ServiceOption {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithIdempotencyWindow sets how long resubmissions replay the first session.
func WithIdempotencyWindow(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithProviderTimeout bounds each provider call.
func WithProviderTimeout(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func WithMetrics(m *Metrics) ServiceOption {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides time.Now, used to place requests in idempotency windows.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service. Panics if registry is nil.
func NewService(registry tenant.Registry, routes ReturnRoutes, opts ...ServiceOption) *Service {
	if registry == nil {
		panic("subscription: tenant registry is required")
	}
	s := &Service{
		registry:  registry,
		routes:    routes,
		providers: make(map[ProviderChoice]Provider),
		store:     NewMemoryStore(),
		window:    DefaultIdempotencyWindow,
		timeout:   DefaultProviderTimeout,
		log:       logger.Discard(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("subscription"))
	return s
}

// Providers lists the configured provider choices.
func (s *Service) Providers() []ProviderChoice {
	out := make([]ProviderChoice, 0, len(s.providers))
	for _, c := range []ProviderChoice{ProviderCheckout, ProviderPreference} {
		if _, ok := s.providers[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// CreateSession opens a trial checkout session for req with the provider named by choice.
// Checks run in order and the first failure wins: required fields, plan, provider,
// tenant. Every returned error is an *Error safe to show to the caller.
func (s *Service) CreateSession(ctx context.Context, req Request, choice ProviderChoice) (*SessionResult, error) {
	res, err := s.createSession(ctx, req, choice)
	if err != nil {
		s.metrics.incFailed(metricLabel(choice), err)
		return nil, err
	}
	return res, nil
}

func (s *Service) createSession(ctx context.Context, req Request, choice ProviderChoice) (*SessionResult, error) {
	tenantID := strings.TrimSpace(req.TenantID)
	rawPlan := strings.TrimSpace(req.Plan)
	email := strings.TrimSpace(req.Email)

	if missing := missingFields(tenantID, rawPlan, email); len(missing) > 0 {
		return nil, validationError(ErrMissingField, "missing required field: %s", strings.Join(missing, ", "))
	}

	planID, ok := plan.Parse(rawPlan)
	if !ok {
		return nil, validationError(ErrUnknownPlan, "unknown plan, expected one of: %s", planNames())
	}
	def, ok := plan.Lookup(planID)
	if !ok {
		return nil, validationError(ErrUnknownPlan, "unknown plan")
	}

	provider, ok := s.providers[choice]
	if !ok {
		return nil, validationError(ErrUnsupportedProvider, "unsupported payment provider")
	}

	if _, err := s.registry.Lookup(ctx, tenantID); err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) || errors.Is(err, tenant.ErrInvalidIdentifier) {
			return nil, notFoundError(ErrTenantNotFound, "tenant not found")
		}
		s.log.ErrorContext(ctx, "tenant lookup failed", logger.TenantID(tenantID), logger.Error(err))
		return nil, internalError(err)
	}

	key := IdempotencyKey(tenantID, planID.String(), choice, windowStart(s.now(), s.window))

	label := metricLabel(choice)
	if res := s.lookupStored(ctx, key); res != nil {
		s.metrics.incReplayed(label)
		s.log.DebugContext(ctx, "replaying stored session",
			logger.TenantID(tenantID), logger.Plan(planID.String()), logger.Provider(provider.Name()))
		return res, nil
	}

	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.callProvider(ctx, provider, label, TrialSessionRequest{
			TenantID:       tenantID,
			Plan:           def,
			Email:          email,
			Routes:         s.routes,
			IdempotencyKey: key,
		})
	})
	if err != nil {
		return nil, err
	}

	res := *v.(*SessionResult)
	if shared {
		s.metrics.incReplayed(label)
	}
	return &res, nil
}

// callProvider runs one provider call and records its result detached from the
// caller's cancellation, so a client that disconnects cannot leave a created
// session unrecorded.
func (s *Service) callProvider(ctx context.Context, p Provider, label string, req TrialSessionRequest) (*SessionResult, error) {
	detached := context.WithoutCancel(ctx)
	callCtx, cancel := context.WithTimeout(detached, s.timeout)
	defer cancel()

	start := time.Now()
	res, err := p.CreateTrialSession(callCtx, req)
	s.metrics.observeProvider(label, start)

	attrs := []any{
		logger.TenantID(req.TenantID),
		logger.Plan(req.Plan.ID.String()),
		logger.Provider(p.Name()),
		logger.Duration(time.Since(start)),
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() != nil {
			s.log.ErrorContext(ctx, "provider call timed out", append(attrs, logger.Error(err))...)
			return nil, providerError(ErrProviderTimeout, "payment provider did not respond in time", err)
		}
		s.log.ErrorContext(ctx, "provider call failed", append(attrs, logger.Error(err))...)
		return nil, providerError(ErrProviderFailed, "could not create checkout session with payment provider", err)
	}
	if err := validateResult(res); err != nil {
		s.log.ErrorContext(ctx, "provider returned unusable session", append(attrs, logger.Error(err))...)
		return nil, providerError(ErrProviderFailed, "could not create checkout session with payment provider", err)
	}

	storeCtx, cancelStore := context.WithTimeout(detached, storeTimeout)
	defer cancelStore()
	if err := s.store.Put(storeCtx, req.IdempotencyKey, *res, s.window); err != nil {
		s.log.WarnContext(ctx, "failed to store session", append(attrs, logger.Error(err))...)
	}

	s.metrics.incCreated(label)
	s.log.InfoContext(ctx, "trial session created", attrs...)
	return res, nil
}

func (s *Service) lookupStored(ctx context.Context, key string) *SessionResult {
	res, err := s.store.Get(ctx, key)
	if err != nil {
		s.log.WarnContext(ctx, "session store lookup failed", logger.Error(err))
		return nil
	}
	return res
}

func missingFields(tenantID, planID, email string) []string {
	var missing []string
	if tenantID == "" {
		missing = append(missing, "tenantId")
	}
	if planID == "" {
		missing = append(missing, "plan")
	}
	if email == "" {
		missing = append(missing, "email")
	}
	return missing
}

func planNames() string {
	ids := plan.IDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = id.String()
	}
	return strings.Join(names, ", ")
}

func metricLabel(choice ProviderChoice) string {
	switch choice {
	case ProviderCheckout, ProviderPreference:
		return string(choice)
	default:
		return "unknown"
	}
}
