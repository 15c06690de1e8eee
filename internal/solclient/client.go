package solclient

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/zap"
)

// Client is a thin adapter over the solana-go RPC client, exposing only the
// calls the sale core needs.
type Client struct {
	rpc    *rpc.Client
	logger *zap.Logger
}

func NewClient(rpcURL string, logger *zap.Logger) *Client {
	return &Client{
		rpc:    rpc.New(rpcURL),
		logger: logger.Named("solana-client"),
	}
}

// TokenBalance returns the wallet's balance for the given mint, derived
// through the associated token account. A missing account surfaces as an RPC
// error; callers decide whether that is fatal.
func (c *Client) TokenBalance(ctx context.Context, owner, mint string) (*rpc.UiTokenAmount, error) {
	ownerKey, err := solana.PublicKeyFromBase58(owner)
	if err != nil {
		return nil, fmt.Errorf("invalid owner address (%s): %w", owner, err)
	}
	mintKey, err := solana.PublicKeyFromBase58(mint)
	if err != nil {
		return nil, fmt.Errorf("invalid mint address (%s): %w", mint, err)
	}

	ata, _, err := solana.FindAssociatedTokenAddress(ownerKey, mintKey)
	if err != nil {
		return nil, fmt.Errorf("failed to derive associated token address: %w", err)
	}

	result, err := c.rpc.GetTokenAccountBalance(ctx, ata, rpc.CommitmentConfirmed)
	if err != nil {
		c.logger.Debug("GetTokenAccountBalance error",
			zap.String("owner", owner),
			zap.String("mint", mint),
			zap.Error(err))
		return nil, err
	}

	return result.Value, nil
}

// SendRawTransaction broadcasts an already-signed serialized transaction.
// Preflight is skipped because the latest blockhash may expire while the
// request is in flight.
func (c *Client) SendRawTransaction(ctx context.Context, rawTx []byte) (solana.Signature, error) {
	sig, err := c.rpc.SendRawTransactionWithOpts(ctx, rawTx, rpc.TransactionOpts{
		SkipPreflight: true,
	})
	if err != nil {
		c.logger.Error("SendRawTransaction error", zap.Error(err))
		return solana.Signature{}, err
	}
	return sig, nil
}

func (c *Client) GetSignatureStatuses(ctx context.Context, signatures ...solana.Signature) (*rpc.GetSignatureStatusesResult, error) {
	result, err := c.rpc.GetSignatureStatuses(ctx, false, signatures...)
	if err != nil {
		c.logger.Error("GetSignatureStatuses error", zap.Error(err))
		return nil, err
	}
	return result, nil
}
