// Package billing exposes trial session creation, the plan catalog and the
// provider return routes over HTTP.
//
// Routes:
//
//	POST /api/subscriptions/{provider}/session  {tenantId, plan, email} -> {sessionOrPreferenceId, redirectUrl}
//	GET  /api/plans                             -> {plans: [...]}
//	GET  /subscription/{outcome}                -> {outcome, message}
//
// Errors are rendered as {error, code}. Validation failures are 400, an unknown
// tenant is 404 and provider or internal failures are 500 with a generic message.
package billing
