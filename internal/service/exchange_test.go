package service

import (
	"context"
	"testing"
	"time"

	"launchpad_backend/internal/model"
	"launchpad_backend/internal/repository"
	"launchpad_backend/internal/service/mocks"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newExchangeForTest(cache *mocks.MockCacheRepository, market *mocks.MockMarketDataClient, now time.Time) *ExchangeService {
	s := NewExchangeService(cache, market, nil, zap.NewNop())
	s.now = func() time.Time { return now }
	return s
}

func cachedEntry(key string, price float64, quotedAt time.Time) *repository.CacheEntry {
	value, _ := json.Marshal(cachedQuote{
		CurrentPrice: price,
		QuotedFrom:   "coingecko",
	})
	return &repository.CacheEntry{
		Key:       key,
		Value:     value,
		QuotedAt:  quotedAt,
		ExpiresAt: quotedAt.Add(exchangeCacheTTL),
	}
}

func TestExchangeService_GetExchangeData(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	key := "exchange-api/swissborg-usd"

	t.Run("unsupported pair is rejected", func(t *testing.T) {
		s := newExchangeForTest(&mocks.MockCacheRepository{}, &mocks.MockMarketDataClient{}, base)

		_, err := s.GetExchangeData(context.Background(), "dogecoin", "usd")
		assert.ErrorIs(t, err, ErrUnsupportedCurrencyPair)
	})

	t.Run("pegged pair quotes at 1 without upstream", func(t *testing.T) {
		market := &mocks.MockMarketDataClient{}
		s := newExchangeForTest(&mocks.MockCacheRepository{}, market, base)

		data, err := s.GetExchangeData(context.Background(), "USD", "usd")
		assert.NoError(t, err)
		assert.Equal(t, 1.0, data.CurrentPrice)
		assert.Equal(t, "pegged", data.QuotedFrom)
		market.AssertNotCalled(t, "GetMarketQuote")
	})

	t.Run("miss fetches upstream and stores the entry", func(t *testing.T) {
		cache := &mocks.MockCacheRepository{}
		market := &mocks.MockMarketDataClient{}
		s := newExchangeForTest(cache, market, base)

		cache.On("GetCacheEntry", mock.Anything, key).Return(nil, repository.ErrNotFound)
		market.On("GetMarketQuote", mock.Anything, "swissborg", "usd").
			Return(&model.MarketQuote{CurrentPrice: 0.21, Source: "coingecko"}, nil)
		cache.On("PutCacheEntry", mock.Anything, mock.MatchedBy(func(entry *repository.CacheEntry) bool {
			return entry.Key == key && entry.ExpiresAt.Equal(base.Add(exchangeCacheTTL))
		})).Return(nil)

		data, err := s.GetExchangeData(context.Background(), "swissborg", "usd")
		assert.NoError(t, err)
		assert.Equal(t, model.CacheMiss, data.Cache.Status)
		assert.Equal(t, 0.21, data.CurrentPrice)
		cache.AssertExpectations(t)
		market.AssertExpectations(t)
	})

	t.Run("fresh entry is a hit", func(t *testing.T) {
		cache := &mocks.MockCacheRepository{}
		market := &mocks.MockMarketDataClient{}
		quotedAt := base.Add(-exchangeCacheTTL + time.Millisecond)
		s := newExchangeForTest(cache, market, base)

		cache.On("GetCacheEntry", mock.Anything, key).Return(cachedEntry(key, 0.19, quotedAt), nil)

		data, err := s.GetExchangeData(context.Background(), "swissborg", "usd")
		assert.NoError(t, err)
		assert.Equal(t, model.CacheHit, data.Cache.Status)
		assert.Equal(t, 0.19, data.CurrentPrice)
		assert.Equal(t, quotedAt, data.Cache.CreatedAt)
		market.AssertNotCalled(t, "GetMarketQuote")
	})

	t.Run("entry expiring exactly now is already stale", func(t *testing.T) {
		cache := &mocks.MockCacheRepository{}
		market := &mocks.MockMarketDataClient{}
		quotedAt := base.Add(-exchangeCacheTTL)
		s := newExchangeForTest(cache, market, base)

		cache.On("GetCacheEntry", mock.Anything, key).Return(cachedEntry(key, 0.19, quotedAt), nil)
		market.On("GetMarketQuote", mock.Anything, "swissborg", "usd").
			Return(&model.MarketQuote{CurrentPrice: 0.22, Source: "coingecko"}, nil)
		cache.On("PutCacheEntry", mock.Anything, mock.Anything).Return(nil)

		data, err := s.GetExchangeData(context.Background(), "swissborg", "usd")
		assert.NoError(t, err)
		assert.Equal(t, model.CacheMiss, data.Cache.Status)
		assert.Equal(t, 0.22, data.CurrentPrice)
	})

	t.Run("failed cache write does not fail the quote", func(t *testing.T) {
		cache := &mocks.MockCacheRepository{}
		market := &mocks.MockMarketDataClient{}
		s := newExchangeForTest(cache, market, base)

		cache.On("GetCacheEntry", mock.Anything, key).Return(nil, repository.ErrNotFound)
		market.On("GetMarketQuote", mock.Anything, "swissborg", "usd").
			Return(&model.MarketQuote{CurrentPrice: 0.21, Source: "coingecko"}, nil)
		cache.On("PutCacheEntry", mock.Anything, mock.Anything).Return(assert.AnError)

		data, err := s.GetExchangeData(context.Background(), "swissborg", "usd")
		assert.NoError(t, err)
		assert.Equal(t, 0.21, data.CurrentPrice)
	})
}

func TestExchangeService_RefreshCachedPairs(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cache := &mocks.MockCacheRepository{}
	market := &mocks.MockMarketDataClient{}
	s := newExchangeForTest(cache, market, base)

	market.On("GetMarketQuote", mock.Anything, "swissborg", "usd").
		Return(&model.MarketQuote{CurrentPrice: 0.25, Source: "coingecko"}, nil)
	cache.On("PutCacheEntry", mock.Anything, mock.Anything).Return(nil)

	refreshed, err := s.RefreshCachedPairs(context.Background())
	assert.NoError(t, err)
	// Only the non-pegged pair hits upstream; usd/usd never needs a refresh.
	assert.Len(t, refreshed, 1)
	assert.Equal(t, 0.25, refreshed[0].CurrentPrice)
	market.AssertNumberOfCalls(t, "GetMarketQuote", 1)
}
