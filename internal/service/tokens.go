package service

import (
	"fmt"

	"launchpad_backend/internal/model"
)

// TokensService computes the deterministic token split for a deposit. It has
// no state: the same amount, price and project config always produce the same
// calculation, which is what makes stored deposits auditable after the fact.
type TokensService struct{}

func NewTokensService() *TokensService {
	return &TokensService{}
}

// Calculate splits a deposit into its LP position and reward allocation.
//
// Half of the deposited value stays in the raised token as the base side of
// the LP position; the other half converts to the launched token at its fixed
// sale price. Rewards scale linearly with the deposit's USD value: a project
// that raises exactly its target distributes exactly its reward pool.
//
// Without a positive price on both sides there is nothing to quote, so the
// calculation refuses rather than record zeroes against a real deposit.
func (s *TokensService) Calculate(uiAmount, basePriceUsd float64, cfg *model.ProjectConfig) (model.TokensCalculation, error) {
	if basePriceUsd <= 0 {
		return model.TokensCalculation{}, fmt.Errorf("%w: base token price %v", ErrPriceUnavailable, basePriceUsd)
	}
	if cfg.LaunchedToken.FixedTokenPriceUsd <= 0 {
		return model.TokensCalculation{}, fmt.Errorf("%w: fixed price %v for %s", ErrPriceUnavailable, cfg.LaunchedToken.FixedTokenPriceUsd, cfg.LaunchedToken.Ticker)
	}

	depositUsd := uiAmount * basePriceUsd
	halfUsd := depositUsd / 2

	lpPaired := halfUsd / cfg.LaunchedToken.FixedTokenPriceUsd

	rewardPaired := 0.0
	if cfg.RaiseTargetInUsd > 0 {
		rewardPaired = depositUsd * (cfg.TotalTokensForRewardDistribution / cfg.RaiseTargetInUsd)
	}

	return model.TokensCalculation{
		LpPosition: model.LpPosition{
			BaseToken:      uiAmount / 2,
			BaseTokenUsd:   halfUsd,
			PairedToken:    lpPaired,
			PairedTokenUsd: lpPaired * cfg.LaunchedToken.FixedTokenPriceUsd,
		},
		RewardDistribution: model.RewardDistribution{
			PairedToken:    rewardPaired,
			PairedTokenUsd: rewardPaired * cfg.LaunchedToken.FixedTokenPriceUsd,
		},
		TotalToBeReceived: lpPaired + rewardPaired,
	}, nil
}
