// Package subscription opens trial checkout sessions with payment providers.
//
// Service validates a Request against the plan catalog and the tenant
// registry, then delegates to one of two Provider variants: StripeProvider
// (hosted checkout session) or PreferenceProvider (recurring preference).
// Requests for the same tenant, plan and provider inside one idempotency
// window share a session, both through the SessionStore and through a
// singleflight group for concurrent duplicates.
//
//	routes, err := subscription.NewReturnRoutes(cfg.PublicBaseURL)
//	if err != nil {
//		return err
//	}
//	stripeProvider, err := subscription.NewStripeProvider(stripeCfg)
//	if err != nil {
//		return err
//	}
//	svc := subscription.NewService(registry, routes,
//		subscription.WithProvider(subscription.ProviderCheckout, stripeProvider),
//		subscription.WithSessionStore(subscription.NewRedisStore(rdb)),
//		subscription.WithLogger(log),
//	)
//
//	res, err := svc.CreateSession(ctx, subscription.Request{
//		TenantID: "acme", Plan: "pro", Email: "owner@acme.test",
//	}, subscription.ProviderCheckout)
//
// Errors returned by CreateSession are *Error values carrying a class
// (validation, not_found, provider, internal) and a sanitized message.
// Provider details are logged, never returned.
//
// ResolveOutcome turns the route the customer lands on after checkout into
// a terminal Outcome. Unknown routes resolve to OutcomeFailed.
package subscription
