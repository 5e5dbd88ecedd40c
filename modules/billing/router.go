package billing

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/trialkit/binder"
	"github.com/dmitrymomot/trialkit/handler"
	"github.com/dmitrymomot/trialkit/pkg/plan"
	"github.com/dmitrymomot/trialkit/pkg/ratelimiter"
	"github.com/dmitrymomot/trialkit/pkg/subscription"
)

// SessionCreator is the part of subscription.Service the router depends on.
type SessionCreator interface {
	CreateSession(ctx context.Context, req subscription.Request, choice subscription.ProviderChoice) (*subscription.SessionResult, error)
}

// RouterOptions configures the billing module.
type RouterOptions struct {
	Sessions SessionCreator
	Logger   *slog.Logger

	// SessionLimiter throttles session creation per client IP. Optional.
	SessionLimiter ratelimiter.Limiter
}

type createSessionRequest struct {
	Provider string `path:"provider" json:"-"`
	TenantID string `json:"tenantId"`
	Plan     string `json:"plan"`
	Email    string `json:"email"`
}

type outcomeRequest struct {
	Outcome string `path:"outcome"`
}

// OutcomeResponse is the body of the provider return routes.
type OutcomeResponse struct {
	Outcome string `json:"outcome"`
	Message string `json:"message"`
}

// PlansResponse lists the plan catalog.
type PlansResponse struct {
	Plans []plan.Definition `json:"plans"`
}

// Router mounts the session, plan listing and return routes. Paths are absolute,
// so mount it at the root:
//
//	svc := subscription.NewService(registry, routes, subscription.WithProvider(...))
//	r := chi.NewRouter()
//	r.Mount("/", billing.Router(billing.RouterOptions{Sessions: svc, Logger: log}))
func Router(opts RouterOptions) chi.Router {
	if opts.Sessions == nil {
		panic("billing: session creator is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	errHandler := handler.NewErrorHandler(opts.Logger, ClassifySubscriptionError)
	h := &handlers{sessions: opts.Sessions}

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errHandler(handler.NewContext(w, r), handler.NotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errHandler(handler.NewContext(w, r), handler.MethodNotAllowed)
	})

	var sessions chi.Router = r
	if opts.SessionLimiter != nil {
		sessions = r.With(ratelimiter.Middleware(opts.SessionLimiter, ratelimiter.ByClientIP,
			ratelimiter.WithLogger(opts.Logger),
			ratelimiter.WithDeniedHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				errHandler(handler.NewContext(w, r), handler.TooManyRequests)
			})),
		))
	}
	sessions.Post("/api/subscriptions/{provider}/session", handler.Wrap(h.createSession,
		handler.WithBinders[handler.Context, createSessionRequest](binder.JSON(), binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, createSessionRequest](errHandler),
	))
	r.Get("/api/plans", handler.Wrap(h.listPlans,
		handler.WithErrorHandler[handler.Context, struct{}](errHandler),
	))
	r.Get("/subscription/{outcome}", handler.Wrap(h.outcome,
		handler.WithBinders[handler.Context, outcomeRequest](binder.Path(chi.URLParam)),
		handler.WithErrorHandler[handler.Context, outcomeRequest](errHandler),
	))

	return r
}

type handlers struct {
	sessions SessionCreator
}

func (h *handlers) createSession(ctx handler.Context, req createSessionRequest) handler.Response {
	choice, ok := subscription.ParseProviderChoice(req.Provider)
	if !ok {
		// The service rejects it as an unsupported provider.
		choice = subscription.ProviderChoice(req.Provider)
	}

	res, err := h.sessions.CreateSession(ctx, subscription.Request{
		TenantID: req.TenantID,
		Plan:     req.Plan,
		Email:    req.Email,
	}, choice)
	if err != nil {
		return handler.Error(err)
	}
	return handler.JSON(res)
}

func (h *handlers) listPlans(handler.Context, struct{}) handler.Response {
	return handler.JSON(PlansResponse{Plans: plan.All()})
}

func (h *handlers) outcome(_ handler.Context, req outcomeRequest) handler.Response {
	o := subscription.ResolveOutcome(req.Outcome)
	return handler.JSON(OutcomeResponse{Outcome: o.String(), Message: o.Message()})
}

// ClassifySubscriptionError maps *subscription.Error classes to HTTP statuses.
func ClassifySubscriptionError(err error) (int, handler.ErrorBody, bool) {
	var se *subscription.Error
	if !errors.As(err, &se) {
		return 0, handler.ErrorBody{}, false
	}

	status := http.StatusInternalServerError
	switch se.Class {
	case subscription.ClassValidation:
		status = http.StatusBadRequest
	case subscription.ClassNotFound:
		status = http.StatusNotFound
	}
	return status, handler.ErrorBody{Error: se.Message, Code: subscription.Code(err)}, true
}
