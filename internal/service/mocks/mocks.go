// Package mocks contains testify mocks for the service-layer interfaces.
package mocks

import (
	"context"

	"launchpad_backend/internal/model"
	"launchpad_backend/internal/repository"
	"launchpad_backend/internal/solclient"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/mock"
)

type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) GetProjectByID(ctx context.Context, id string) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetUserByAddress(ctx context.Context, address string) (*model.User, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockDepositRepository struct {
	mock.Mock
}

func (m *MockDepositRepository) CreateDeposit(ctx context.Context, deposit *model.Deposit) error {
	args := m.Called(ctx, deposit)
	return args.Error(0)
}

func (m *MockDepositRepository) GetUserDepositedAmount(ctx context.Context, address, projectID string) (uint64, error) {
	args := m.Called(ctx, address, projectID)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockDepositRepository) GetDepositorTotals(ctx context.Context, projectID string) ([]repository.DepositorTotal, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.DepositorTotal), args.Error(1)
}

func (m *MockDepositRepository) GetParticipantCounts(ctx context.Context, projectIDs []string) (map[string]int, error) {
	args := m.Called(ctx, projectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockDepositRepository) ListUserDeposits(ctx context.Context, address, projectID string) ([]*model.Deposit, error) {
	args := m.Called(ctx, address, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Deposit), args.Error(1)
}

func (m *MockDepositRepository) GetClaimedAmount(ctx context.Context, address, projectID string) (float64, error) {
	args := m.Called(ctx, address, projectID)
	return args.Get(0).(float64), args.Error(1)
}

type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) GetEligibilitySnapshot(ctx context.Context, address, projectID string) (*model.EligibilityStatus, error) {
	args := m.Called(ctx, address, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EligibilityStatus), args.Error(1)
}

func (m *MockSnapshotRepository) CreateEligibilitySnapshot(ctx context.Context, address, projectID string, status *model.EligibilityStatus) error {
	args := m.Called(ctx, address, projectID, status)
	return args.Error(0)
}

type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) GetCacheEntry(ctx context.Context, key string) (*repository.CacheEntry, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.CacheEntry), args.Error(1)
}

func (m *MockCacheRepository) PutCacheEntry(ctx context.Context, entry *repository.CacheEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

type MockTokenBalanceSource struct {
	mock.Mock
}

func (m *MockTokenBalanceSource) TokenBalance(ctx context.Context, owner, mint string) (*rpc.UiTokenAmount, error) {
	args := m.Called(ctx, owner, mint)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rpc.UiTokenAmount), args.Error(1)
}

type MockMarketDataClient struct {
	mock.Mock
}

func (m *MockMarketDataClient) GetMarketQuote(ctx context.Context, coinID, vsCurrency string) (*model.MarketQuote, error) {
	args := m.Called(ctx, coinID, vsCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MarketQuote), args.Error(1)
}

type MockExchangeDataSource struct {
	mock.Mock
}

func (m *MockExchangeDataSource) GetExchangeData(ctx context.Context, baseCurrency, targetCurrency string) (*model.ExchangeData, error) {
	args := m.Called(ctx, baseCurrency, targetCurrency)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExchangeData), args.Error(1)
}

type MockTransactionSender struct {
	mock.Mock
}

func (m *MockTransactionSender) SendRawTransaction(ctx context.Context, rawTx []byte) (solanago.Signature, error) {
	args := m.Called(ctx, rawTx)
	return args.Get(0).(solanago.Signature), args.Error(1)
}

type MockConfirmationWaiter struct {
	mock.Mock
}

func (m *MockConfirmationWaiter) Subscribe(ctx context.Context, signature solanago.Signature) (*solclient.SubscribeResult, error) {
	args := m.Called(ctx, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*solclient.SubscribeResult), args.Error(1)
}

type MockTransactionDataSource struct {
	mock.Mock
}

func (m *MockTransactionDataSource) ExtractTransactionData(ctx context.Context, txID string, cluster model.Cluster) (*model.TransactionData, error) {
	args := m.Called(ctx, txID, cluster)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TransactionData), args.Error(1)
}

type MockEligibilitySource struct {
	mock.Mock
}

func (m *MockEligibilitySource) GetEligibilityStatus(ctx context.Context, address, projectID string) (*model.EligibilityStatus, error) {
	args := m.Called(ctx, address, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EligibilityStatus), args.Error(1)
}
