package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/trialkit/migrations"
	"github.com/dmitrymomot/trialkit/modules/billing"
	"github.com/dmitrymomot/trialkit/pkg/clientip"
	"github.com/dmitrymomot/trialkit/pkg/config"
	"github.com/dmitrymomot/trialkit/pkg/httpserver"
	"github.com/dmitrymomot/trialkit/pkg/logger"
	"github.com/dmitrymomot/trialkit/pkg/pg"
	"github.com/dmitrymomot/trialkit/pkg/ratelimiter"
	"github.com/dmitrymomot/trialkit/pkg/redis"
	"github.com/dmitrymomot/trialkit/pkg/requestid"
	"github.com/dmitrymomot/trialkit/pkg/subscription"
	"github.com/dmitrymomot/trialkit/pkg/tenant"
)

type appConfig struct {
	Env             string        `env:"APP_ENV" envDefault:"development"`
	Name            string        `env:"APP_NAME" envDefault:"trialkit"`
	TenantCacheSize int           `env:"TENANT_CACHE_SIZE" envDefault:"1024"`
	TenantCacheTTL  time.Duration `env:"TENANT_CACHE_TTL" envDefault:"1m"`
}

func main() {
	var app appConfig
	config.MustLoad(&app)

	log := logger.New(
		logger.WithEnvironment(app.Env, app.Name),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	)
	slog.SetDefault(log)

	if err := run(context.Background(), app, log); err != nil {
		log.Error("server stopped with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, app appConfig, log *slog.Logger) error {
	var (
		httpCfg       httpserver.Config
		pgCfg         pg.Config
		redisCfg      redis.Config
		checkoutCfg   subscription.Config
		stripeCfg     subscription.StripeConfig
		preferenceCfg subscription.PreferenceConfig
		limitCfg      ratelimiter.Config
		clientIPCfg   clientip.Config
	)
	for _, cfg := range []func() error{
		func() error { return config.Load(&httpCfg) },
		func() error { return config.Load(&pgCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&checkoutCfg) },
		func() error { return config.Load(&stripeCfg) },
		func() error { return config.Load(&preferenceCfg) },
		func() error { return config.Load(&limitCfg) },
		func() error { return config.Load(&clientIPCfg) },
	} {
		if err := cfg(); err != nil {
			return err
		}
	}

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if pgCfg.AutoMigrate {
		if err := pg.Migrate(ctx, pool, pgCfg, migrations.FS, ".", log.With(logger.Component("migrate"))); err != nil {
			return err
		}
	}

	rdb, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Error("failed to close redis client", logger.Error(err))
		}
	}()

	routes, err := subscription.NewReturnRoutes(checkoutCfg.PublicBaseURL)
	if err != nil {
		return err
	}

	providers, err := buildProviders(stripeCfg, preferenceCfg, log)
	if err != nil {
		return err
	}

	registry := tenant.NewCachedRegistry(
		tenant.NewPostgresRegistry(pool),
		tenant.WithCacheSize(app.TenantCacheSize),
		tenant.WithCacheTTL(app.TenantCacheTTL),
	)

	opts := append(providers,
		subscription.WithSessionStore(subscription.NewRedisStore(rdb)),
		subscription.WithIdempotencyWindow(checkoutCfg.IdempotencyWindow),
		subscription.WithProviderTimeout(checkoutCfg.ProviderTimeout),
		subscription.WithLogger(log),
		subscription.WithMetrics(subscription.NewMetrics(prometheus.DefaultRegisterer)),
	)
	svc := subscription.NewService(registry, routes, opts...)
	log.Info("subscription service ready", slog.Any("providers", svc.Providers()))

	ips, err := clientip.NewResolver(clientIPCfg)
	if err != nil {
		return err
	}

	var limiter ratelimiter.Limiter
	if limitCfg.Enabled {
		bucket, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(rdb), limitCfg)
		if err != nil {
			return err
		}
		limiter = bucket
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware, ips.Middleware, middleware.Recoverer, httpserver.AccessLog(log))
	r.Get("/health/live", httpserver.LivenessHandler())
	r.Get("/health/ready", httpserver.ReadinessHandler(log,
		httpserver.Check{Name: "postgres", Fn: pg.Healthcheck(pool)},
		httpserver.Check{Name: "redis", Fn: redis.Healthcheck(rdb)},
	))
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/", billing.Router(billing.RouterOptions{
		Sessions:       svc,
		Logger:         log,
		SessionLimiter: limiter,
	}))

	return httpserver.New(httpCfg, log).Run(ctx, r)
}

// buildProviders enables every provider whose credentials are configured.
func buildProviders(stripeCfg subscription.StripeConfig, preferenceCfg subscription.PreferenceConfig, log *slog.Logger) ([]subscription.ServiceOption, error) {
	var opts []subscription.ServiceOption

	if stripeCfg.SecretKey != "" {
		p, err := subscription.NewStripeProvider(stripeCfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, subscription.WithProvider(subscription.ProviderCheckout, p))
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, checkout provider disabled")
	}

	if preferenceCfg.AccessToken != "" {
		p, err := subscription.NewPreferenceProvider(preferenceCfg)
		if err != nil {
			return nil, err
		}
		opts = append(opts, subscription.WithProvider(subscription.ProviderPreference, p))
	} else {
		log.Warn("PREFERENCE_ACCESS_TOKEN not set, preference provider disabled")
	}

	if len(opts) == 0 {
		return nil, errors.Join(subscription.ErrNoProviderAvailable, errors.New("set STRIPE_SECRET_KEY or PREFERENCE_ACCESS_TOKEN"))
	}
	return opts, nil
}
