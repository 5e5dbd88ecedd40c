// Package httpserver runs the HTTP API with graceful shutdown and exposes
// liveness and readiness handlers plus an access log middleware.
//
//	srv := httpserver.New(cfg.HTTP, log)
//	r.Get("/health/live", httpserver.LivenessHandler())
//	r.Get("/health/ready", httpserver.ReadinessHandler(log,
//		httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)},
//	))
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
