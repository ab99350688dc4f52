package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/DRSN-tech/affiliate-catalog/internal/cfg"
	"github.com/DRSN-tech/affiliate-catalog/internal/repository/redis/converter"
	"github.com/DRSN-tech/affiliate-catalog/internal/usecase"
	"github.com/DRSN-tech/affiliate-catalog/pkg/clients"
	"github.com/DRSN-tech/affiliate-catalog/pkg/e"
	"github.com/DRSN-tech/affiliate-catalog/pkg/jitter"
	"github.com/DRSN-tech/affiliate-catalog/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "catalog:"
	scanBatch = 200
)

// CacheRepo кэширует страницы каталога в Redis.
type CacheRepo struct {
	client *clients.RedisClient
	conv   converter.PageConverter
	cfg    *cfg.RedisCfg
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, conv converter.PageConverter,
	cfg *cfg.RedisCfg, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		conv:   conv,
		cfg:    cfg,
		logger: logger,
	}
}

// GetPage возвращает страницу из кэша. Повреждённая запись удаляется и считается промахом.
func (c *CacheRepo) GetPage(ctx context.Context, key string) (*usecase.CachedPage, bool, error) {
	data, err := c.client.Client.Get(ctx, pageKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, r.Nil) {
			return nil, false, nil // cache miss
		}
		return nil, false, e.Wrap(whereami.WhereAmI(), err)
	}

	var model converter.PageRedisModel
	if err := json.Unmarshal(data, &model); err != nil {
		c.logger.Warnf("Redis unmarshal failed for key %s: %v", key, e.Wrap(whereami.WhereAmI(), err))
		if err := c.client.Client.Del(ctx, pageKey(key)).Err(); err != nil {
			c.logger.Warnf("Redis del failed: %v", e.Wrap(whereami.WhereAmI(), err))
		}
		return nil, false, nil
	}

	return c.conv.ToUseCase(&model), true, nil
}

// SetPage кладёт страницу с TTL и джиттером, чтобы страницы не истекали одновременно.
func (c *CacheRepo) SetPage(ctx context.Context, key string, page *usecase.CachedPage) error {
	data, err := json.Marshal(c.conv.ToRedisModel(page))
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	ttl := jitter.Duration(c.cfg.CatalogTTL, c.cfg.TTLJitter)
	if err := c.client.Client.Set(ctx, pageKey(key), data, ttl).Err(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// Invalidate удаляет все страницы каталога.
func (c *CacheRepo) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Client.Scan(ctx, cursor, keyPrefix+"*", scanBatch).Result()
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}

		if len(keys) > 0 {
			if err := c.client.Client.Del(ctx, keys...).Err(); err != nil {
				return e.Wrap(whereami.WhereAmI(), err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func pageKey(key string) string {
	return keyPrefix + key
}
