package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"launchpad_backend/internal/model"
	"launchpad_backend/internal/repository"

	"go.uber.org/zap"
)

// SaleResultsService aggregates the deposit table into the public sale
// results: totals, averages, sell-out progress and participant count.
type SaleResultsService struct {
	projects ProjectRepository
	deposits DepositRepository
	exchange ExchangeDataSource
	logger   *zap.Logger
}

func NewSaleResultsService(
	projects ProjectRepository,
	deposits DepositRepository,
	exchange ExchangeDataSource,
	logger *zap.Logger,
) *SaleResultsService {
	return &SaleResultsService{
		projects: projects,
		deposits: deposits,
		exchange: exchange,
		logger:   logger.Named("sale-results"),
	}
}

func (s *SaleResultsService) GetSaleResults(ctx context.Context, projectID string) (*model.SaleResults, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	totals, err := s.deposits.GetDepositorTotals(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load depositor totals: %w", err)
	}

	price, err := raisedTokenPrice(ctx, s.exchange, &project.Config)
	if err != nil {
		return nil, err
	}

	var totalRaw uint64
	for _, t := range totals {
		amount, err := strconv.ParseUint(t.TotalAmount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse depositor total (%s): %w", t.TotalAmount, err)
		}
		totalRaw += amount
	}

	decimals := project.Config.RaisedToken.Decimals
	totalUi := uiAmountFromRaw(totalRaw, decimals)
	totalUsd := totalUi * price

	participants := len(totals)
	averageUi := 0.0
	if participants > 0 {
		averageUi = totalUi / float64(participants)
	}

	sellOut := 0.0
	if project.Config.RaiseTargetInUsd > 0 {
		sellOut = totalUsd / project.Config.RaiseTargetInUsd * 100
	}
	sellOut = math.Min(math.Max(sellOut, 0), 100)

	return &model.SaleResults{
		RaiseTargetInUsd:   formatFloat(project.Config.RaiseTargetInUsd),
		RaiseTargetReached: totalUsd >= project.Config.RaiseTargetInUsd,
		TotalAmountRaised: model.TokenAmount{
			Amount:          strconv.FormatUint(totalRaw, 10),
			Decimals:        decimals,
			UiAmount:        formatFloat(totalUi),
			AmountInUsd:     formatFloat(totalUsd),
			TokenPriceInUsd: formatFloat(price),
		},
		AverageDepositAmount: model.TokenAmount{
			Amount:          formatFloat(averageUi * math.Pow10(decimals)),
			Decimals:        decimals,
			UiAmount:        formatFloat(averageUi),
			AmountInUsd:     formatFloat(averageUi * price),
			TokenPriceInUsd: formatFloat(price),
		},
		SellOutPercentage: sellOut,
		ParticipantsCount: participants,
	}, nil
}

// GetParticipantCounts reports the distinct depositor count per project for
// the launchpad overview page.
func (s *SaleResultsService) GetParticipantCounts(ctx context.Context, projectIDs []string) (map[string]int, error) {
	counts, err := s.deposits.GetParticipantCounts(ctx, projectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load participant counts: %w", err)
	}
	return counts, nil
}

// raisedTokenPrice quotes the raised token in USD. Pegged tokens quote at 1
// without an upstream call; everything else needs a CoinGecko name.
func raisedTokenPrice(ctx context.Context, exchange ExchangeDataSource, cfg *model.ProjectConfig) (float64, error) {
	if cfg.RaisedToken.UsdPegged {
		return 1, nil
	}
	if cfg.RaisedToken.CoinGeckoName == "" {
		return 0, fmt.Errorf("%w: mint %s has no quote source", ErrUnknownToken, cfg.RaisedToken.MintAddress)
	}

	data, err := exchange.GetExchangeData(ctx, cfg.RaisedToken.CoinGeckoName, "usd")
	if err != nil {
		return 0, fmt.Errorf("failed to quote raised token: %w", err)
	}
	return data.CurrentPrice, nil
}

func uiAmountFromRaw(raw uint64, decimals int) float64 {
	return float64(raw) / math.Pow10(decimals)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
