package model

import "time"

type CacheStatus string

const (
	CacheHit  CacheStatus = "HIT"
	CacheMiss CacheStatus = "MISS"
)

// CacheInfo is the provenance of an exchange quote: whether it was served
// from the cache table and when that entry was created and expires.
type CacheInfo struct {
	Status    CacheStatus `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// MarketQuote is a single market-data snapshot for one coin, as returned by
// the upstream market-data provider.
type MarketQuote struct {
	CurrentPrice          float64
	MarketCap             float64
	FullyDilutedValuation float64
	Source                string
}

type ExchangeData struct {
	BaseCurrency   string `json:"baseCurrency"`
	TargetCurrency string `json:"targetCurrency"`

	CurrentPrice          float64 `json:"currentPrice"`
	MarketCap             float64 `json:"marketCap"`
	FullyDilutedValuation float64 `json:"fullyDilutedValuation"`
	QuotedFrom            string  `json:"quotedFrom"`

	Cache CacheInfo `json:"cache"`
}
