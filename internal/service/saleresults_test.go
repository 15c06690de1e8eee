package service

import (
	"context"
	"testing"

	"launchpad_backend/internal/model"
	"launchpad_backend/internal/repository"
	"launchpad_backend/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func resultsProject(pegged bool) *model.Project {
	project := depositProject()
	project.Config.RaisedToken.UsdPegged = pegged
	if !pegged {
		project.Config.RaisedToken.CoinGeckoName = "swissborg"
	}
	return project
}

func TestSaleResultsService_GetSaleResults(t *testing.T) {
	t.Run("empty sale reports zeroes", func(t *testing.T) {
		projects := &mocks.MockProjectRepository{}
		deposits := &mocks.MockDepositRepository{}
		projects.On("GetProjectByID", mock.Anything, testProjectID).Return(resultsProject(true), nil)
		deposits.On("GetDepositorTotals", mock.Anything, testProjectID).
			Return([]repository.DepositorTotal{}, nil)

		s := NewSaleResultsService(projects, deposits, &mocks.MockExchangeDataSource{}, zap.NewNop())
		results, err := s.GetSaleResults(context.Background(), testProjectID)
		assert.NoError(t, err)
		assert.Equal(t, 0, results.ParticipantsCount)
		assert.Equal(t, 0.0, results.SellOutPercentage)
		assert.False(t, results.RaiseTargetReached)
		assert.Equal(t, "0", results.TotalAmountRaised.Amount)
	})

	t.Run("aggregates totals and averages per depositor", func(t *testing.T) {
		projects := &mocks.MockProjectRepository{}
		deposits := &mocks.MockDepositRepository{}
		projects.On("GetProjectByID", mock.Anything, testProjectID).Return(resultsProject(true), nil)
		// Two depositors: 300 and 100 tokens at 9 decimals.
		deposits.On("GetDepositorTotals", mock.Anything, testProjectID).
			Return([]repository.DepositorTotal{
				{FromAddress: "a", TotalAmount: "300000000000"},
				{FromAddress: "b", TotalAmount: "100000000000"},
			}, nil)

		s := NewSaleResultsService(projects, deposits, &mocks.MockExchangeDataSource{}, zap.NewNop())
		results, err := s.GetSaleResults(context.Background(), testProjectID)
		assert.NoError(t, err)
		assert.Equal(t, 2, results.ParticipantsCount)
		assert.Equal(t, "400000000000", results.TotalAmountRaised.Amount)
		assert.Equal(t, "400", results.TotalAmountRaised.UiAmount)
		assert.Equal(t, "400", results.TotalAmountRaised.AmountInUsd)
		assert.Equal(t, "200", results.AverageDepositAmount.UiAmount)
		// 400 USD of a 1000 USD target.
		assert.Equal(t, 40.0, results.SellOutPercentage)
		assert.False(t, results.RaiseTargetReached)
	})

	t.Run("sell-out percentage is clamped at 100", func(t *testing.T) {
		projects := &mocks.MockProjectRepository{}
		deposits := &mocks.MockDepositRepository{}
		projects.On("GetProjectByID", mock.Anything, testProjectID).Return(resultsProject(true), nil)
		deposits.On("GetDepositorTotals", mock.Anything, testProjectID).
			Return([]repository.DepositorTotal{
				{FromAddress: "a", TotalAmount: "2500000000000"},
			}, nil)

		s := NewSaleResultsService(projects, deposits, &mocks.MockExchangeDataSource{}, zap.NewNop())
		results, err := s.GetSaleResults(context.Background(), testProjectID)
		assert.NoError(t, err)
		assert.Equal(t, 100.0, results.SellOutPercentage)
		assert.True(t, results.RaiseTargetReached)
	})

	t.Run("non-pegged token quotes through the exchange", func(t *testing.T) {
		projects := &mocks.MockProjectRepository{}
		deposits := &mocks.MockDepositRepository{}
		exchange := &mocks.MockExchangeDataSource{}
		projects.On("GetProjectByID", mock.Anything, testProjectID).Return(resultsProject(false), nil)
		deposits.On("GetDepositorTotals", mock.Anything, testProjectID).
			Return([]repository.DepositorTotal{
				{FromAddress: "a", TotalAmount: "100000000000"},
			}, nil)
		exchange.On("GetExchangeData", mock.Anything, "swissborg", "usd").
			Return(&model.ExchangeData{CurrentPrice: 0.2}, nil)

		s := NewSaleResultsService(projects, deposits, exchange, zap.NewNop())
		results, err := s.GetSaleResults(context.Background(), testProjectID)
		assert.NoError(t, err)
		assert.Equal(t, "20", results.TotalAmountRaised.AmountInUsd)
		assert.Equal(t, "0.2", results.TotalAmountRaised.TokenPriceInUsd)
	})

	t.Run("token without a quote source is rejected", func(t *testing.T) {
		project := resultsProject(false)
		project.Config.RaisedToken.CoinGeckoName = ""

		projects := &mocks.MockProjectRepository{}
		deposits := &mocks.MockDepositRepository{}
		projects.On("GetProjectByID", mock.Anything, testProjectID).Return(project, nil)
		deposits.On("GetDepositorTotals", mock.Anything, testProjectID).
			Return([]repository.DepositorTotal{}, nil)

		s := NewSaleResultsService(projects, deposits, &mocks.MockExchangeDataSource{}, zap.NewNop())
		_, err := s.GetSaleResults(context.Background(), testProjectID)
		assert.ErrorIs(t, err, ErrUnknownToken)
	})
}
