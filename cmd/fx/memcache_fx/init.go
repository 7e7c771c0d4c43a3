package memcache_fx

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
	"tripbuddy/internal/infra"
	mem "tripbuddy/pkg/memcache"
)

var Module = fx.Provide(provideMemcacheClient)

// provideMemcacheClient uses Redis when REDIS_URL is set and a per-process
// store otherwise.
func provideMemcacheClient(lc fx.Lifecycle, cfg *infra.Config) (mem.Store, error) {
	var store mem.Store

	if cfg.RedisURL != "" {
		redisCache, err := infra.NewRedisCache(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		store = redisCache
	} else {
		logrus.Info("REDIS_URL not set, using in-memory cache")
		store = mem.NewInMemory()
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close()
		},
	})
	return store, nil
}
