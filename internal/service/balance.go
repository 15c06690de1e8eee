package service

import (
	"context"
	"fmt"
	"strconv"

	"launchpad_backend/internal/model"
	"launchpad_backend/internal/solclient"
)

// BalanceService serves token balances for display, memoized through the
// balance cache. Only informational surfaces use it; eligibility evaluation
// reads the chain directly.
type BalanceService struct {
	balances TokenBalanceSource
	cache    solclient.BalanceCache
	cluster  model.Cluster
}

func NewBalanceService(balances TokenBalanceSource, cache solclient.BalanceCache, cluster model.Cluster) *BalanceService {
	if cache == nil {
		cache = solclient.NewNopBalanceCache()
	}
	return &BalanceService{
		balances: balances,
		cache:    cache,
		cluster:  cluster,
	}
}

func (s *BalanceService) GetTokenBalance(ctx context.Context, address, mint string) (float64, error) {
	key := solclient.BalanceCacheKey(address, mint, string(s.cluster))
	if amount, ok := s.cache.Get(key); ok {
		return amount, nil
	}

	balance, err := s.balances.TokenBalance(ctx, address, mint)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch token balance: %w", err)
	}

	var amount float64
	if balance.UiAmount != nil {
		amount = *balance.UiAmount
	} else if balance.UiAmountString != "" {
		amount, err = strconv.ParseFloat(balance.UiAmountString, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse balance %q: %w", balance.UiAmountString, err)
		}
	}

	s.cache.Put(key, amount)
	return amount, nil
}
