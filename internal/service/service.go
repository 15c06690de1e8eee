package service

import (
	"context"
	"errors"
	"fmt"

	"launchpad_backend/internal/model"
	"launchpad_backend/internal/repository"
	"launchpad_backend/internal/solclient"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrSnapshotNotFound = errors.New("eligibility snapshot not found")

	ErrUnsupportedCurrencyPair = errors.New("unsupported currency pair")
	ErrUnknownToken            = errors.New("unknown token")
	ErrPriceUnavailable        = errors.New("token price unavailable")

	ErrUnknownQuestType      = errors.New("unknown quest type")
	ErrUnknownComplianceType = errors.New("unknown compliance type")

	ErrMalformedTransaction    = errors.New("malformed transaction")
	ErrTransactionNotConfirmed = errors.New("transaction not confirmed")
)

// SaleErrorCode values are a de facto contract with the frontend and must not
// be renamed.
type SaleErrorCode string

const (
	SaleNotOpenForProject         SaleErrorCode = "SALE_NOT_OPEN_FOR_PROJECT"
	SaleClosedForProject          SaleErrorCode = "SALE_CLOSED_FOR_PROJECT"
	ProjectRaiseTargetReached     SaleErrorCode = "PROJECT_RAISE_TARGET_REACHED"
	UserNotEligible               SaleErrorCode = "USER_NOT_ELIGIBLE"
	UserMaxInvestmentExceeded     SaleErrorCode = "USER_MAX_INVESTMENT_EXCEEDED"
	UserMinInvestmentInsufficient SaleErrorCode = "USER_MIN_INVESTMENT_INSUFFICIENT"
	SaleNotOpenForEligibilityTier SaleErrorCode = "SALE_NOT_OPEN_FOR_ELIGIBILITY_TIER"
)

// SaleValidationError is returned for deposit preconditions the frontend
// renders by code.
type SaleValidationError struct {
	Code SaleErrorCode
}

func (e *SaleValidationError) Error() string {
	return fmt.Sprintf("sale validation failed (%s)", e.Code)
}

func AsSaleValidationError(err error) (*SaleValidationError, bool) {
	var saleErr *SaleValidationError
	if errors.As(err, &saleErr) {
		return saleErr, true
	}
	return nil, false
}

type ProjectRepository interface {
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)
}

type UserRepository interface {
	GetUserByAddress(ctx context.Context, address string) (*model.User, error)
}

type DepositRepository interface {
	CreateDeposit(ctx context.Context, deposit *model.Deposit) error
	GetUserDepositedAmount(ctx context.Context, address, projectID string) (uint64, error)
	GetDepositorTotals(ctx context.Context, projectID string) ([]repository.DepositorTotal, error)
	GetParticipantCounts(ctx context.Context, projectIDs []string) (map[string]int, error)
	ListUserDeposits(ctx context.Context, address, projectID string) ([]*model.Deposit, error)
	GetClaimedAmount(ctx context.Context, address, projectID string) (float64, error)
}

type SnapshotRepository interface {
	GetEligibilitySnapshot(ctx context.Context, address, projectID string) (*model.EligibilityStatus, error)
	CreateEligibilitySnapshot(ctx context.Context, address, projectID string, status *model.EligibilityStatus) error
}

type CacheRepository interface {
	GetCacheEntry(ctx context.Context, key string) (*repository.CacheEntry, error)
	PutCacheEntry(ctx context.Context, entry *repository.CacheEntry) error
}

// TokenBalanceSource fetches live on-chain balances for HOLD_TOKEN quests.
type TokenBalanceSource interface {
	TokenBalance(ctx context.Context, owner, mint string) (*rpc.UiTokenAmount, error)
}

type TransactionSender interface {
	SendRawTransaction(ctx context.Context, rawTx []byte) (solanago.Signature, error)
}

type ConfirmationWaiter interface {
	Subscribe(ctx context.Context, signature solanago.Signature) (*solclient.SubscribeResult, error)
}

type TransactionDataSource interface {
	ExtractTransactionData(ctx context.Context, txID string, cluster model.Cluster) (*model.TransactionData, error)
}

type ExchangeDataSource interface {
	GetExchangeData(ctx context.Context, baseCurrency, targetCurrency string) (*model.ExchangeData, error)
}

type EligibilitySource interface {
	GetEligibilityStatus(ctx context.Context, address, projectID string) (*model.EligibilityStatus, error)
}
