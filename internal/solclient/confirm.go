package solclient

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

const (
	// ErrCodeSignatureStatusTimeout marks an unknown outcome: the transaction
	// may still land after the polling budget is spent.
	ErrCodeSignatureStatusTimeout = "SIGNATURE_STATUS_TIMEOUT"

	defaultPollInterval = 3 * time.Second
	defaultPollBudget   = 180 * time.Second
)

type StatusSource interface {
	GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
}

// SubscribeResult is the single terminal result of a confirmation wait.
// Status "ok" covers both success and an on-chain error (check Err);
// status "error" currently only means the polling budget ran out.
type SubscribeResult struct {
	Status string `json:"status"`
	TxID   string `json:"txId"`

	ConfirmationStatus rpc.ConfirmationStatusType `json:"confirmationStatus,omitempty"`
	Err                interface{}                `json:"err,omitempty"`
	Confirmations      *uint64                    `json:"confirmations,omitempty"`
	Slot               uint64                     `json:"slot,omitempty"`

	ErrorCode string `json:"errorCode,omitempty"`
}

func (r *SubscribeResult) Confirmed() bool {
	return r.Status == "ok" && r.Err == nil &&
		(r.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
			r.ConfirmationStatus == rpc.ConfirmationStatusFinalized)
}

// Poller waits for a submitted transaction to reach a terminal confirmation
// state by polling getSignatureStatuses.
type Poller struct {
	source   StatusSource
	logger   *zap.Logger
	interval time.Duration
	budget   time.Duration
}

func NewPoller(source StatusSource, logger *zap.Logger) *Poller {
	return &Poller{
		source:   source,
		logger:   logger.Named("signature-poller"),
		interval: defaultPollInterval,
		budget:   defaultPollBudget,
	}
}

// NewPollerWithTiming exists for tests; production callers use NewPoller.
func NewPollerWithTiming(source StatusSource, logger *zap.Logger, interval, budget time.Duration) *Poller {
	p := NewPoller(source, logger)
	p.interval = interval
	p.budget = budget
	return p
}

// Subscribe blocks until the transaction errs on chain, reaches confirmed or
// finalized, the budget is spent, or ctx is cancelled. A transient RPC error
// does not end the wait; the next tick retries.
func (p *Poller) Subscribe(ctx context.Context, signature solana.Signature) (*SubscribeResult, error) {
	txID := signature.String()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	deadline := time.After(p.budget)

	for {
		statuses, err := p.source.GetSignatureStatuses(ctx, signature)
		if err != nil {
			p.logger.Warn("failed to fetch signature status", zap.String("tx_id", txID), zap.Error(err))
		} else if len(statuses.Value) > 0 && statuses.Value[0] != nil {
			status := statuses.Value[0]
			if status.Err != nil ||
				status.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
				status.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return &SubscribeResult{
					Status:             "ok",
					TxID:               txID,
					ConfirmationStatus: status.ConfirmationStatus,
					Err:                status.Err,
					Confirmations:      status.Confirmations,
					Slot:               status.Slot,
				}, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			p.logger.Info("signature status wait timed out", zap.String("tx_id", txID))
			return &SubscribeResult{
				Status:    "error",
				TxID:      txID,
				ErrorCode: ErrCodeSignatureStatusTimeout,
			}, nil
		case <-ticker.C:
		}
	}
}
