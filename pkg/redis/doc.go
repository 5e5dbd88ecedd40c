// Package redis connects to the Redis server that stores idempotent checkout sessions.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store := subscription.NewRedisStore(client)
//
// Healthcheck plugs the client into the readiness probe.
package redis
