package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"launchpad_backend/internal/model"
	"launchpad_backend/internal/repository"

	"go.uber.org/zap"
)

// DepositEvent announces a recorded deposit to interested workers.
type DepositEvent struct {
	ProjectID   string
	Address     string
	UiAmount    string
	TokenTicker string
	TxID        string
}

// DepositService runs the deposit pipeline: validate the sale state and the
// user's allowance, broadcast the signed transaction, wait for confirmation,
// recover the on-chain facts from the indexer and record the deposit.
type DepositService struct {
	projects  ProjectRepository
	deposits  DepositRepository
	snapshots *SnapshotService
	exchange  ExchangeDataSource
	tokens    *TokensService
	sender    TransactionSender
	confirmer ConfirmationWaiter
	extractor TransactionDataSource

	events chan<- DepositEvent
	now    func() time.Time
	logger *zap.Logger
}

func NewDepositService(
	projects ProjectRepository,
	deposits DepositRepository,
	snapshots *SnapshotService,
	exchange ExchangeDataSource,
	tokens *TokensService,
	sender TransactionSender,
	confirmer ConfirmationWaiter,
	extractor TransactionDataSource,
	events chan<- DepositEvent,
	logger *zap.Logger,
) *DepositService {
	return &DepositService{
		projects:  projects,
		deposits:  deposits,
		snapshots: snapshots,
		exchange:  exchange,
		tokens:    tokens,
		sender:    sender,
		confirmer: confirmer,
		extractor: extractor,
		events:    events,
		now:       time.Now,
		logger:    logger.Named("deposit"),
	}
}

// SubmitDepositInput carries the signed transaction plus the amount the
// frontend claims it deposits. The claimed amount is only used for the cheap
// pre-broadcast checks; the recorded amount always comes from the chain.
type SubmitDepositInput struct {
	SerializedTx []byte
	ProjectID    string
	Address      string
	// Amount is the claimed deposit in raw units of the raised token.
	Amount uint64
}

func (s *DepositService) SubmitDeposit(ctx context.Context, input SubmitDepositInput) (*model.Deposit, error) {
	project, err := s.projects.GetProjectByID(ctx, input.ProjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	cfg := &project.Config

	price, err := raisedTokenPrice(ctx, s.exchange, cfg)
	if err != nil {
		return nil, err
	}

	status, err := s.validateSale(ctx, cfg, input, price)
	if err != nil {
		return nil, err
	}

	// Everything after this point costs real money: the transaction is on
	// chain whether or not we manage to record it.
	signature, err := s.sender.SendRawTransaction(ctx, input.SerializedTx)
	if err != nil {
		return nil, fmt.Errorf("failed to broadcast transaction: %w", err)
	}
	txID := signature.String()

	result, err := s.confirmer.Subscribe(ctx, signature)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for confirmation (tx=%s): %w", txID, err)
	}
	if !result.Confirmed() {
		s.logger.Warn("deposit transaction did not confirm",
			zap.String("tx_id", txID),
			zap.String("status", result.Status),
			zap.String("error_code", result.ErrorCode),
			zap.Any("err", result.Err))
		return nil, fmt.Errorf("%w (tx=%s, code=%s)", ErrTransactionNotConfirmed, txID, result.ErrorCode)
	}

	txData, err := s.extractor.ExtractTransactionData(ctx, txID, cfg.Cluster)
	if err != nil {
		return nil, fmt.Errorf("failed to extract transaction data (tx=%s): %w", txID, err)
	}

	uiAmount, err := strconv.ParseFloat(txData.TokenAmount, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad amount %q (tx=%s)", ErrMalformedTransaction, txData.TokenAmount, txID)
	}
	calc, err := s.tokens.Calculate(uiAmount, price, cfg)
	if err != nil {
		return nil, err
	}

	// The snapshot write is best effort: the deposit itself already proves
	// the user passed validation, and a retry can freeze the snapshot later.
	if _, err := s.snapshots.EnsureSnapshot(ctx, input.Address, input.ProjectID); err != nil {
		s.logger.Warn("failed to freeze eligibility snapshot",
			zap.String("address", input.Address),
			zap.String("project_id", input.ProjectID),
			zap.Error(err))
	}

	deposit := &model.Deposit{
		TxID:            txID,
		FromAddress:     txData.UserWalletAddress,
		ToAddress:       txData.LbpAddress,
		TokenAddress:    txData.TokenAddress,
		AmountDeposited: strconv.FormatUint(txData.AmountInLamports, 10),
		ProjectID:       input.ProjectID,
		TierID:          s.tierID(status),
		NftAddress:      txData.NftAddress,
		CreatedAt:       s.now().UTC(),
		Data: model.DepositData{
			Cluster:           cfg.Cluster,
			UiAmount:          txData.TokenAmount,
			DecimalMultiplier: strconv.Itoa(txData.Decimals),
			TokensCalculation: calc,
			TransactionStatus: string(result.ConfirmationStatus),
		},
	}

	err = s.deposits.CreateDeposit(ctx, deposit)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			s.logger.Info("deposit already recorded", zap.String("tx_id", txID))
			return deposit, nil
		}
		return nil, fmt.Errorf("failed to record deposit (tx=%s): %w", txID, err)
	}

	s.publish(DepositEvent{
		ProjectID:   input.ProjectID,
		Address:     txData.UserWalletAddress,
		UiAmount:    txData.TokenAmount,
		TokenTicker: cfg.LaunchedToken.Ticker,
		TxID:        txID,
	})

	return deposit, nil
}

// GetUserDepositedAmount reports a user's cumulative raw deposit for a
// project.
func (s *DepositService) GetUserDepositedAmount(ctx context.Context, address, projectID string) (uint64, error) {
	amount, err := s.deposits.GetUserDepositedAmount(ctx, address, projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to get deposited amount: %w", err)
	}
	return amount, nil
}

func (s *DepositService) ListUserDeposits(ctx context.Context, address, projectID string) ([]*model.Deposit, error) {
	deposits, err := s.deposits.ListUserDeposits(ctx, address, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	return deposits, nil
}

// validateSale runs every precondition that can be checked before spending
// the user's transaction. The returned status is the frozen snapshot if one
// exists, otherwise a live evaluation.
func (s *DepositService) validateSale(ctx context.Context, cfg *model.ProjectConfig, input SubmitDepositInput, price float64) (*model.EligibilityStatus, error) {
	now := s.now()
	if now.Before(cfg.Timeline.OpensAt) {
		return nil, &SaleValidationError{Code: SaleNotOpenForProject}
	}
	if now.After(cfg.Timeline.ClosesAt) {
		return nil, &SaleValidationError{Code: SaleClosedForProject}
	}

	totals, err := s.deposits.GetDepositorTotals(ctx, input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load depositor totals: %w", err)
	}
	var totalRaw uint64
	for _, t := range totals {
		amount, err := strconv.ParseUint(t.TotalAmount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse depositor total (%s): %w", t.TotalAmount, err)
		}
		totalRaw += amount
	}
	totalUsd := uiAmountFromRaw(totalRaw, cfg.RaisedToken.Decimals) * price
	if totalUsd >= cfg.RaiseTargetInUsd {
		return nil, &SaleValidationError{Code: ProjectRaiseTargetReached}
	}

	status, err := s.currentEligibility(ctx, input.Address, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if !status.IsEligible || status.EligibilityTier == nil {
		return nil, &SaleValidationError{Code: UserNotEligible}
	}

	tier := status.EligibilityTier
	if now.Before(tier.Benefits.StartDate) {
		return nil, &SaleValidationError{Code: SaleNotOpenForEligibilityTier}
	}

	existing, err := s.deposits.GetUserDepositedAmount(ctx, input.Address, input.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get deposited amount: %w", err)
	}
	cumulative := existing + input.Amount
	if tier.Benefits.MaxInvestment > 0 && cumulative > tier.Benefits.MaxInvestment {
		return nil, &SaleValidationError{Code: UserMaxInvestmentExceeded}
	}
	if cumulative < tier.Benefits.MinInvestment {
		return nil, &SaleValidationError{Code: UserMinInvestmentInsufficient}
	}

	return status, nil
}

// currentEligibility prefers the frozen snapshot; a user without one is
// validated live without freezing anything yet.
func (s *DepositService) currentEligibility(ctx context.Context, address, projectID string) (*model.EligibilityStatus, error) {
	status, err := s.snapshots.GetSnapshot(ctx, address, projectID)
	if err == nil {
		return status, nil
	}
	if !errors.Is(err, ErrSnapshotNotFound) {
		return nil, err
	}

	return s.snapshots.eligibility.GetEligibilityStatus(ctx, address, projectID)
}

func (s *DepositService) tierID(status *model.EligibilityStatus) string {
	if status.EligibilityTier == nil {
		return ""
	}
	return status.EligibilityTier.ID
}

// publish never blocks: a full or absent event channel drops the event, the
// deposit record is the source of truth.
func (s *DepositService) publish(event DepositEvent) {
	if s.events == nil {
		return
	}
	select {
	case s.events <- event:
	default:
		s.logger.Warn("deposit event dropped", zap.String("tx_id", event.TxID))
	}
}
