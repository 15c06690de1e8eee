package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"launchpad_backend/internal/model"

	"github.com/cenkalti/backoff/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const defaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// CoinGecko rejects requests without a browser-looking User-Agent.
const coinGeckoUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

type coinMarketRow struct {
	CurrentPrice          float64 `json:"current_price"`
	MarketCap             float64 `json:"market_cap"`
	FullyDilutedValuation float64 `json:"fully_diluted_valuation"`
}

// CoinGeckoClient fetches market data from the CoinGecko /coins/markets
// endpoint, retrying transient failures with exponential backoff.
type CoinGeckoClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

func NewCoinGeckoClient(baseURL, apiKey string, logger *zap.Logger) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = defaultCoinGeckoURL
	}
	return &CoinGeckoClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger.Named("coingecko"),
	}
}

func (c *CoinGeckoClient) GetMarketQuote(ctx context.Context, coinID, vsCurrency string) (*model.MarketQuote, error) {
	op := func() (*model.MarketQuote, error) {
		return c.fetch(ctx, coinID, vsCurrency)
	}

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("market data fetch failed, retrying",
			zap.String("coin_id", coinID),
			zap.Duration("backoff", wait),
			zap.Error(err))
	}

	quote, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxElapsedTime(15*time.Second),
		backoff.WithNotify(notify))
	if err != nil {
		return nil, err
	}

	return quote, nil
}

func (c *CoinGeckoClient) fetch(ctx context.Context, coinID, vsCurrency string) (*model.MarketQuote, error) {
	q := url.Values{}
	q.Set("vs_currency", vsCurrency)
	q.Set("ids", coinID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/coins/markets?"+q.Encode(), nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to build market data request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", coinGeckoUserAgent)
	if c.apiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("market data request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read market data response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("market data rate limited")
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("market data server error (%d)", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("market data request rejected (%d): %s", resp.StatusCode, body))
	}

	var rows []coinMarketRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to decode market data response: %w", err))
	}
	if len(rows) == 0 {
		return nil, backoff.Permanent(fmt.Errorf("%w: %s", ErrPriceUnavailable, coinID))
	}

	return &model.MarketQuote{
		CurrentPrice:          rows[0].CurrentPrice,
		MarketCap:             rows[0].MarketCap,
		FullyDilutedValuation: rows[0].FullyDilutedValuation,
		Source:                "coingecko",
	}, nil
}
