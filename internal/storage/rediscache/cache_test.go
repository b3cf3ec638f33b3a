package rediscache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/product"
)

type countingRepo struct {
	products []product.Product
	err      error
	calls    int
}

func (r *countingRepo) List(_ context.Context) ([]product.Product, error) {
	r.calls++
	return r.products, r.err
}

func (r *countingRepo) GetByID(_ context.Context, id string) (*product.Product, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			return &r.products[i], nil
		}
	}
	return nil, product.ErrNotFound
}

func (r *countingRepo) GetByIDs(_ context.Context, _ []string) ([]product.Product, error) {
	return r.products, nil
}

func setup(t *testing.T, repo *countingRepo) (*CatalogCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(repo, client, time.Minute, zap.NewNop()), mr
}

func catalog() []product.Product {
	return []product.Product{
		{
			ID:    "p1",
			Title: "Widget",
			Price: decimal.NewNullDecimal(decimal.NewFromInt(100)),
		},
		{ID: "p2", Title: "Imponderable"},
	}
}

func TestList_CachesSecondRead(t *testing.T) {
	repo := &countingRepo{products: catalog()}
	cache, _ := setup(t, repo)
	ctx := context.Background()

	first, err := cache.List(ctx)
	require.NoError(t, err)
	second, err := cache.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls, "second read served from cache")
	assert.Equal(t, first, second)
	require.Len(t, second, 2)
	assert.True(t, second[0].Price.Decimal.Equal(decimal.NewFromInt(100)))
	assert.True(t, second[1].Priceless(), "null price survives the cache round trip")
}

func TestList_ExpiredEntryRefetches(t *testing.T) {
	repo := &countingRepo{products: catalog()}
	cache, mr := setup(t, repo)
	ctx := context.Background()

	_, err := cache.List(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = cache.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestList_FailsOpenWhenRedisDown(t *testing.T) {
	repo := &countingRepo{products: catalog()}
	cache, mr := setup(t, repo)
	mr.Close()

	products, err := cache.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 1, repo.calls)
}

func TestList_PropagatesRepositoryError(t *testing.T) {
	repo := &countingRepo{err: errors.New("db down")}
	cache, _ := setup(t, repo)

	_, err := cache.List(context.Background())
	require.Error(t, err)
}

func TestInvalidate(t *testing.T) {
	repo := &countingRepo{products: catalog()}
	cache, _ := setup(t, repo)
	ctx := context.Background()

	_, err := cache.List(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx))

	_, err = cache.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}
