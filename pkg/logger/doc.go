// Package logger builds slog loggers with environment defaults and
// attributes pulled from the request context.
//
//	log := logger.New(
//		logger.WithEnvironment(cfg.Env, cfg.AppName),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//
//	log.InfoContext(ctx, "session created",
//		logger.TenantID(tenantID),
//		logger.Provider("checkout"),
//	)
//
// Attribute helpers in attr.go keep key names consistent across packages.
// Error returns an empty attribute for a nil error so callers can log
// unconditionally.
package logger
