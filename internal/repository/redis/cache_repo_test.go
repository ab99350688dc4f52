package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/DRSN-tech/affiliate-catalog/internal/cfg"
	"github.com/DRSN-tech/affiliate-catalog/internal/domain"
	"github.com/DRSN-tech/affiliate-catalog/internal/repository/redis/converter"
	"github.com/DRSN-tech/affiliate-catalog/internal/usecase"
	"github.com/DRSN-tech/affiliate-catalog/pkg/clients"
	"github.com/DRSN-tech/affiliate-catalog/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRepo подключается к Redis из REDIS_TEST_ADDR и пропускает тест, если он недоступен.
func newTestRepo(t *testing.T) *CacheRepo {
	t.Helper()

	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR is not set")
	}

	redisCfg := &cfg.RedisCfg{
		Addr:        addr,
		DB:          15,
		DialTimeout: time.Second,
		Timeout:     time.Second,
		CatalogTTL:  time.Minute,
		TTLJitter:   0.2,
	}
	client := clients.NewRedisClient(redisCfg)
	if err := client.Ping(context.Background()); err != nil {
		t.Skipf("redis is not reachable: %v", err)
	}
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	return NewCacheRepo(client, converter.PageConverterImpl{}, redisCfg, logger.NewNopLogger())
}

func TestCacheRepo_SetGetInvalidate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Invalidate(ctx))

	orig := decimal.RequireFromString("1899.99")
	page := &usecase.CachedPage{
		Items: []domain.Product{{ItemID: "1", Name: "Phone", Price: decimal.RequireFromString("1299.99"), OriginalPrice: &orig}},
		Total: 1,
	}

	_, ok, err := repo.GetPage(ctx, "list:1:0")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.SetPage(ctx, "list:1:0", page))

	got, ok, err := repo.GetPage(ctx, "list:1:0")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, "Phone", got.Items[0].Name)
	assert.Equal(t, domain.SourceReal, got.Items[0].Source)
	assert.EqualValues(t, 32, got.Items[0].DiscountPercent())

	require.NoError(t, repo.Invalidate(ctx))
	_, ok, err = repo.GetPage(ctx, "list:1:0")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCacheRepo_CorruptEntryIsMiss(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.client.Client.Set(ctx, pageKey("broken"), "{not json", time.Minute).Err())

	_, ok, err := repo.GetPage(ctx, "broken")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, repo.client.Client.Exists(ctx, pageKey("broken")).Val())
}
