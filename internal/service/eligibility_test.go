package service

import (
	"context"
	"testing"
	"time"

	"launchpad_backend/internal/model"
	"launchpad_backend/internal/repository"
	"launchpad_backend/internal/service/mocks"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

const (
	testAddress   = "7Np41oeYqPefeNQEHSv1UDhYrehxin3NStELsSKCT4K2"
	testProjectID = "proj-1"
	testMint      = "EswgBj2hZKdgovX2ihWSUDnuBg9VNbGmSGoH5yjNsPRa"
)

func questProject() *model.Project {
	return &model.Project{
		ID:     testProjectID,
		Status: model.ProjectStatusActive,
		Config: model.ProjectConfig{
			Cluster: model.ClusterMainnet,
			Tiers: []model.Tier{
				{
					ID:    "tier-1",
					Label: "Holder",
					Quests: []model.Quest{
						{Type: model.QuestHoldToken, TokenMintAddress: testMint, TokenName: "BORG", TokenAmount: "1000"},
					},
					Benefits: model.TierBenefits{MinInvestment: 100, MaxInvestment: 10000},
				},
				{
					ID:    "tier-2",
					Label: "Follower",
					Quests: []model.Quest{
						{Type: model.QuestFollowOnTwitter, TwitterHandle: "launchpad"},
					},
					Benefits: model.TierBenefits{MinInvestment: 100, MaxInvestment: 50000},
				},
			},
		},
	}
}

func compliantUser() *model.User {
	return &model.User{
		Address: testAddress,
		Data: model.UserData{
			TermsOfUse: &model.TermsOfUse{AcceptedAt: time.Now()},
			InvestmentIntent: map[string]model.InvestmentIntent{
				testProjectID: {Amount: "5000"},
			},
			Twitter: &model.TwitterState{
				Follows: map[string]bool{"launchpad": true},
			},
		},
	}
}

func uiTokenAmount(amount float64) *rpc.UiTokenAmount {
	return &rpc.UiTokenAmount{UiAmount: &amount}
}

func TestEligibilityService_GetEligibilityStatus(t *testing.T) {
	t.Run("project not found", func(t *testing.T) {
		projects := &mocks.MockProjectRepository{}
		projects.On("GetProjectByID", mock.Anything, testProjectID).Return(nil, repository.ErrNotFound)

		s := NewEligibilityService(projects, &mocks.MockUserRepository{}, &mocks.MockTokenBalanceSource{}, zap.NewNop())
		_, err := s.GetEligibilityStatus(context.Background(), testAddress, testProjectID)
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})

	t.Run("unknown wallet evaluates with nothing completed", func(t *testing.T) {
		projects := &mocks.MockProjectRepository{}
		users := &mocks.MockUserRepository{}
		balances := &mocks.MockTokenBalanceSource{}
		projects.On("GetProjectByID", mock.Anything, testProjectID).Return(questProject(), nil)
		users.On("GetUserByAddress", mock.Anything, testAddress).Return(nil, repository.ErrNotFound)
		balances.On("TokenBalance", mock.Anything, testAddress, testMint).Return(uiTokenAmount(0), nil)

		s := NewEligibilityService(projects, users, balances, zap.NewNop())
		status, err := s.GetEligibilityStatus(context.Background(), testAddress, testProjectID)
		assert.NoError(t, err)
		assert.False(t, status.IsEligible)
		assert.Nil(t, status.EligibilityTier)
		for _, c := range status.Compliances {
			assert.False(t, c.IsCompleted)
		}
	})

	t.Run("compliances come back in fixed order", func(t *testing.T) {
		projects := &mocks.MockProjectRepository{}
		users := &mocks.MockUserRepository{}
		balances := &mocks.MockTokenBalanceSource{}
		projects.On("GetProjectByID", mock.Anything, testProjectID).Return(questProject(), nil)
		users.On("GetUserByAddress", mock.Anything, testAddress).Return(compliantUser(), nil)
		balances.On("TokenBalance", mock.Anything, testAddress, testMint).Return(uiTokenAmount(0), nil)

		s := NewEligibilityService(projects, users, balances, zap.NewNop())
		status, err := s.GetEligibilityStatus(context.Background(), testAddress, testProjectID)
		assert.NoError(t, err)
		assert.Len(t, status.Compliances, 2)
		assert.Equal(t, model.QuestAcceptTermsOfUse, status.Compliances[0].Type)
		assert.Equal(t, model.QuestProvideInvestmentIntent, status.Compliances[1].Type)
	})

	t.Run("last completed tier wins", func(t *testing.T) {
		projects := &mocks.MockProjectRepository{}
		users := &mocks.MockUserRepository{}
		balances := &mocks.MockTokenBalanceSource{}
		projects.On("GetProjectByID", mock.Anything, testProjectID).Return(questProject(), nil)
		users.On("GetUserByAddress", mock.Anything, testAddress).Return(compliantUser(), nil)
		// Holds enough for tier-1 and follows for tier-2: tier-2 wins.
		balances.On("TokenBalance", mock.Anything, testAddress, testMint).Return(uiTokenAmount(1500), nil)

		s := NewEligibilityService(projects, users, balances, zap.NewNop())
		status, err := s.GetEligibilityStatus(context.Background(), testAddress, testProjectID)
		assert.NoError(t, err)
		assert.True(t, status.IsEligible)
		assert.Equal(t, "tier-2", status.EligibilityTier.ID)
		assert.True(t, status.Tiers[0].IsCompleted)
		assert.True(t, status.Tiers[1].IsCompleted)
	})

	t.Run("tier progress without compliance reports no tier", func(t *testing.T) {
		user := compliantUser()
		user.Data.TermsOfUse = nil

		projects := &mocks.MockProjectRepository{}
		users := &mocks.MockUserRepository{}
		balances := &mocks.MockTokenBalanceSource{}
		projects.On("GetProjectByID", mock.Anything, testProjectID).Return(questProject(), nil)
		users.On("GetUserByAddress", mock.Anything, testAddress).Return(user, nil)
		balances.On("TokenBalance", mock.Anything, testAddress, testMint).Return(uiTokenAmount(1500), nil)

		s := NewEligibilityService(projects, users, balances, zap.NewNop())
		status, err := s.GetEligibilityStatus(context.Background(), testAddress, testProjectID)
		assert.NoError(t, err)
		// Tier quests still report their completion state, but the wallet
		// has no eligibility tier until the compliances are done.
		assert.True(t, status.Tiers[0].IsCompleted)
		assert.True(t, status.Tiers[1].IsCompleted)
		assert.Nil(t, status.EligibilityTier)
		assert.False(t, status.IsEligible)
	})

	t.Run("hold quest flips when the balance crosses the threshold", func(t *testing.T) {
		for _, tc := range []struct {
			balance   float64
			completed bool
		}{
			{500, false},
			{1000, true},
		} {
			projects := &mocks.MockProjectRepository{}
			users := &mocks.MockUserRepository{}
			balances := &mocks.MockTokenBalanceSource{}
			projects.On("GetProjectByID", mock.Anything, testProjectID).Return(questProject(), nil)
			users.On("GetUserByAddress", mock.Anything, testAddress).Return(compliantUser(), nil)
			balances.On("TokenBalance", mock.Anything, testAddress, testMint).Return(uiTokenAmount(tc.balance), nil)

			s := NewEligibilityService(projects, users, balances, zap.NewNop())
			status, err := s.GetEligibilityStatus(context.Background(), testAddress, testProjectID)
			assert.NoError(t, err)

			quest := status.Tiers[0].Quests[0]
			assert.Equal(t, tc.completed, quest.IsCompleted)
			assert.Equal(t, tc.balance, *quest.Holds)
			assert.Equal(t, 1000.0, *quest.Needs)
		}
	})

	t.Run("balance lookup failure degrades to not completed", func(t *testing.T) {
		projects := &mocks.MockProjectRepository{}
		users := &mocks.MockUserRepository{}
		balances := &mocks.MockTokenBalanceSource{}
		projects.On("GetProjectByID", mock.Anything, testProjectID).Return(questProject(), nil)
		users.On("GetUserByAddress", mock.Anything, testAddress).Return(compliantUser(), nil)
		balances.On("TokenBalance", mock.Anything, testAddress, testMint).Return(nil, assert.AnError)

		s := NewEligibilityService(projects, users, balances, zap.NewNop())
		status, err := s.GetEligibilityStatus(context.Background(), testAddress, testProjectID)
		assert.NoError(t, err)

		quest := status.Tiers[0].Quests[0]
		assert.False(t, quest.IsCompleted)
		assert.Nil(t, quest.Holds)
		assert.NotNil(t, quest.Needs)
		// The twitter tier still evaluated, so the user stays eligible.
		assert.True(t, status.IsEligible)
		assert.Equal(t, "tier-2", status.EligibilityTier.ID)
	})

	t.Run("unknown quest type is fatal", func(t *testing.T) {
		project := questProject()
		project.Config.Tiers[0].Quests = []model.Quest{{Type: "DANCE_ON_TIKTOK"}}

		projects := &mocks.MockProjectRepository{}
		users := &mocks.MockUserRepository{}
		projects.On("GetProjectByID", mock.Anything, testProjectID).Return(project, nil)
		users.On("GetUserByAddress", mock.Anything, testAddress).Return(compliantUser(), nil)

		s := NewEligibilityService(projects, users, &mocks.MockTokenBalanceSource{}, zap.NewNop())
		_, err := s.GetEligibilityStatus(context.Background(), testAddress, testProjectID)
		assert.ErrorIs(t, err, ErrUnknownQuestType)
	})
}
