// Package ratelimiter implements a token bucket limiter with in-memory and
// Redis stores, plus HTTP middleware.
//
//	store := ratelimiter.NewRedisStore(rdb)
//	limiter, err := ratelimiter.NewBucket(store, cfg)
//	r.With(ratelimiter.Middleware(limiter, ratelimiter.ByClientIP)).Post("/session", h)
//
// Denied requests do not consume tokens.
package ratelimiter
