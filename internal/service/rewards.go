package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"launchpad_backend/internal/model"
	"launchpad_backend/internal/repository"
)

// RewardsService reports linear vesting progress of a user's reward
// allocation. Vesting starts when the sale closes and runs for the project's
// configured number of months.
type RewardsService struct {
	projects ProjectRepository
	deposits DepositRepository
	now      func() time.Time
}

func NewRewardsService(projects ProjectRepository, deposits DepositRepository) *RewardsService {
	return &RewardsService{
		projects: projects,
		deposits: deposits,
		now:      time.Now,
	}
}

func (s *RewardsService) GetAccruedRewards(ctx context.Context, address, projectID string) (*model.AccruedRewards, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	deposits, err := s.deposits.ListUserDeposits(ctx, address, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deposits: %w", err)
	}

	var allocation float64
	for _, d := range deposits {
		allocation += d.Data.TokensCalculation.RewardDistribution.PairedToken
	}

	claimed, err := s.deposits.GetClaimedAmount(ctx, address, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load claimed amount: %w", err)
	}

	vested := allocation * s.vestedFraction(&project.Config)
	claimable := math.Max(vested-claimed, 0)

	return &model.AccruedRewards{
		TotalAllocation: allocation,
		Vested:          vested,
		Claimed:         claimed,
		Claimable:       claimable,
	}, nil
}

// vestedFraction is 0 before the sale closes and 1 after the distribution
// window ends; linear in between, by calendar months.
func (s *RewardsService) vestedFraction(cfg *model.ProjectConfig) float64 {
	start := cfg.Timeline.ClosesAt
	end := start.AddDate(0, cfg.RewardDistributionMonths, 0)

	now := s.now()
	if !now.After(start) {
		return 0
	}
	if !now.Before(end) {
		return 1
	}

	total := end.Sub(start)
	if total <= 0 {
		return 1
	}
	return float64(now.Sub(start)) / float64(total)
}
