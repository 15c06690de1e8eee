package service

import (
	"context"
	"testing"
	"time"

	"launchpad_backend/internal/model"
	"launchpad_backend/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func rewardDeposit(pairedToken float64) *model.Deposit {
	return &model.Deposit{
		ProjectID: testProjectID,
		Data: model.DepositData{
			TokensCalculation: model.TokensCalculation{
				RewardDistribution: model.RewardDistribution{PairedToken: pairedToken},
			},
		},
	}
}

func newRewardsForTest(now time.Time, project *model.Project, deposits []*model.Deposit, claimed float64) *RewardsService {
	projects := &mocks.MockProjectRepository{}
	depositRepo := &mocks.MockDepositRepository{}
	projects.On("GetProjectByID", mock.Anything, testProjectID).Return(project, nil)
	depositRepo.On("ListUserDeposits", mock.Anything, testAddress, testProjectID).Return(deposits, nil)
	depositRepo.On("GetClaimedAmount", mock.Anything, testAddress, testProjectID).Return(claimed, nil)

	s := NewRewardsService(projects, depositRepo)
	s.now = func() time.Time { return now }
	return s
}

func TestRewardsService_GetAccruedRewards(t *testing.T) {
	closesAt := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	project := depositProject()
	project.Config.Timeline.ClosesAt = closesAt
	project.Config.RewardDistributionMonths = 12

	deposits := []*model.Deposit{rewardDeposit(600), rewardDeposit(600)}

	t.Run("nothing vests before the sale closes", func(t *testing.T) {
		s := newRewardsForTest(closesAt.Add(-time.Hour), project, deposits, 0)

		rewards, err := s.GetAccruedRewards(context.Background(), testAddress, testProjectID)
		assert.NoError(t, err)
		assert.Equal(t, 1200.0, rewards.TotalAllocation)
		assert.Equal(t, 0.0, rewards.Vested)
		assert.Equal(t, 0.0, rewards.Claimable)
	})

	t.Run("vesting is linear over the distribution window", func(t *testing.T) {
		// Exactly 6 of 12 months in: half the allocation is vested.
		s := newRewardsForTest(closesAt.AddDate(0, 6, 0), project, deposits, 0)

		rewards, err := s.GetAccruedRewards(context.Background(), testAddress, testProjectID)
		assert.NoError(t, err)
		// Calendar months are uneven, so allow a little drift around half.
		assert.InDelta(t, 600.0, rewards.Vested, 10)
		assert.Equal(t, rewards.Vested, rewards.Claimable)
	})

	t.Run("everything vests after the window ends", func(t *testing.T) {
		s := newRewardsForTest(closesAt.AddDate(1, 1, 0), project, deposits, 0)

		rewards, err := s.GetAccruedRewards(context.Background(), testAddress, testProjectID)
		assert.NoError(t, err)
		assert.Equal(t, 1200.0, rewards.Vested)
	})

	t.Run("claims reduce the claimable amount", func(t *testing.T) {
		s := newRewardsForTest(closesAt.AddDate(1, 1, 0), project, deposits, 700)

		rewards, err := s.GetAccruedRewards(context.Background(), testAddress, testProjectID)
		assert.NoError(t, err)
		assert.Equal(t, 700.0, rewards.Claimed)
		assert.Equal(t, 500.0, rewards.Claimable)
	})

	t.Run("over-claimed never goes negative", func(t *testing.T) {
		s := newRewardsForTest(closesAt.AddDate(0, 1, 0), project, deposits, 5000)

		rewards, err := s.GetAccruedRewards(context.Background(), testAddress, testProjectID)
		assert.NoError(t, err)
		assert.Equal(t, 0.0, rewards.Claimable)
	})
}
