package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"launchpad_backend/internal/model"
	"launchpad_backend/internal/repository"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const exchangeCacheTTL = 30 * time.Second

// MarketDataClient abstracts the upstream quote provider so the cache layer
// can be tested without network access.
type MarketDataClient interface {
	GetMarketQuote(ctx context.Context, coinID, vsCurrency string) (*model.MarketQuote, error)
}

// defaultPairs maps supported "base/target" pairs to the upstream coin id. An
// empty id marks the pair as pegged: it quotes at 1 without an upstream call.
var defaultPairs = map[string]string{
	"swissborg/usd": "swissborg",
	"usd/usd":       "",
}

// cachedQuote is the payload stored in the cache table. Cache provenance is
// reconstructed from the row timestamps on read, not stored.
type cachedQuote struct {
	CurrentPrice          float64 `json:"currentPrice"`
	MarketCap             float64 `json:"marketCap"`
	FullyDilutedValuation float64 `json:"fullyDilutedValuation"`
	QuotedFrom            string  `json:"quotedFrom"`
}

// ExchangeService serves exchange rates through a read-through cache with a
// short TTL. Concurrent misses for the same pair are collapsed into a single
// upstream request.
type ExchangeService struct {
	cache  CacheRepository
	market MarketDataClient
	pairs  map[string]string
	group  singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

func NewExchangeService(cache CacheRepository, market MarketDataClient, pairs map[string]string, logger *zap.Logger) *ExchangeService {
	if pairs == nil {
		pairs = defaultPairs
	}
	return &ExchangeService{
		cache:  cache,
		market: market,
		pairs:  pairs,
		now:    time.Now,
		logger: logger.Named("exchange"),
	}
}

func exchangeCacheKey(base, target string) string {
	return fmt.Sprintf("exchange-api/%s-%s", base, target)
}

// GetExchangeData returns the quote for a supported currency pair, with cache
// provenance attached. A cached entry is served until the instant it expires;
// an entry whose expiry equals the current time is already stale.
func (s *ExchangeService) GetExchangeData(ctx context.Context, baseCurrency, targetCurrency string) (*model.ExchangeData, error) {
	base := strings.ToLower(baseCurrency)
	target := strings.ToLower(targetCurrency)

	coinID, ok := s.pairs[base+"/"+target]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnsupportedCurrencyPair, base, target)
	}

	if coinID == "" {
		return s.peggedQuote(base, target), nil
	}

	key := exchangeCacheKey(base, target)
	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		return s.lookup(ctx, key, base, target, coinID)
	})
	if err != nil {
		return nil, err
	}

	return result.(*model.ExchangeData), nil
}

// RefreshCachedPairs re-fetches every non-pegged pair and rewrites its cache
// entry, regardless of expiry. Used by the admin refresh endpoint.
func (s *ExchangeService) RefreshCachedPairs(ctx context.Context) ([]*model.ExchangeData, error) {
	var refreshed []*model.ExchangeData
	for pair, coinID := range s.pairs {
		if coinID == "" {
			continue
		}

		base, target, ok := strings.Cut(pair, "/")
		if !ok {
			continue
		}

		data, err := s.fetchAndStore(ctx, exchangeCacheKey(base, target), base, target, coinID)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh pair %s: %w", pair, err)
		}
		refreshed = append(refreshed, data)
	}

	return refreshed, nil
}

func (s *ExchangeService) peggedQuote(base, target string) *model.ExchangeData {
	now := s.now().UTC()
	return &model.ExchangeData{
		BaseCurrency:   base,
		TargetCurrency: target,
		CurrentPrice:   1,
		QuotedFrom:     "pegged",
		Cache: model.CacheInfo{
			Status:    model.CacheHit,
			CreatedAt: now,
			ExpiresAt: now.Add(exchangeCacheTTL),
		},
	}
}

func (s *ExchangeService) lookup(ctx context.Context, key, base, target, coinID string) (*model.ExchangeData, error) {
	entry, err := s.cache.GetCacheEntry(ctx, key)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to read exchange cache: %w", err)
	}

	if entry != nil && s.now().Before(entry.ExpiresAt) {
		var quote cachedQuote
		if err := json.Unmarshal(entry.Value, &quote); err != nil {
			return nil, fmt.Errorf("failed to decode cached quote (key=%s): %w", key, err)
		}

		return &model.ExchangeData{
			BaseCurrency:          base,
			TargetCurrency:        target,
			CurrentPrice:          quote.CurrentPrice,
			MarketCap:             quote.MarketCap,
			FullyDilutedValuation: quote.FullyDilutedValuation,
			QuotedFrom:            quote.QuotedFrom,
			Cache: model.CacheInfo{
				Status:    model.CacheHit,
				CreatedAt: entry.QuotedAt,
				ExpiresAt: entry.ExpiresAt,
			},
		}, nil
	}

	return s.fetchAndStore(ctx, key, base, target, coinID)
}

func (s *ExchangeService) fetchAndStore(ctx context.Context, key, base, target, coinID string) (*model.ExchangeData, error) {
	quote, err := s.market.GetMarketQuote(ctx, coinID, target)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quote for %s/%s: %w", base, target, err)
	}

	now := s.now().UTC()
	expiresAt := now.Add(exchangeCacheTTL)

	value, err := json.Marshal(cachedQuote{
		CurrentPrice:          quote.CurrentPrice,
		MarketCap:             quote.MarketCap,
		FullyDilutedValuation: quote.FullyDilutedValuation,
		QuotedFrom:            quote.Source,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode quote: %w", err)
	}

	err = s.cache.PutCacheEntry(ctx, &repository.CacheEntry{
		Key:       key,
		Value:     value,
		QuotedAt:  now,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		// A failed cache write only costs the next caller an upstream fetch.
		s.logger.Warn("failed to store exchange cache entry",
			zap.String("key", key),
			zap.Error(err))
	}

	return &model.ExchangeData{
		BaseCurrency:          base,
		TargetCurrency:        target,
		CurrentPrice:          quote.CurrentPrice,
		MarketCap:             quote.MarketCap,
		FullyDilutedValuation: quote.FullyDilutedValuation,
		QuotedFrom:            quote.Source,
		Cache: model.CacheInfo{
			Status:    model.CacheMiss,
			CreatedAt: now,
			ExpiresAt: expiresAt,
		},
	}, nil
}
