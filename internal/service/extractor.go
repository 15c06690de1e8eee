package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"launchpad_backend/internal/model"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	indexerMainnetURL = "https://api.helius.xyz"
	indexerDevnetURL  = "https://api-devnet.helius.xyz"
)

// enrichedTransaction is the indexer's parsed-transaction shape, reduced to
// the fields the deposit pipeline reads.
type enrichedTransaction struct {
	FeePayer       string          `json:"feePayer"`
	TokenTransfers []tokenTransfer `json:"tokenTransfers"`
	AccountData    []accountData   `json:"accountData"`
}

type tokenTransfer struct {
	FromUserAccount string      `json:"fromUserAccount"`
	ToUserAccount   string      `json:"toUserAccount"`
	Mint            string      `json:"mint"`
	TokenAmount     json.Number `json:"tokenAmount"`
	TokenStandard   string      `json:"tokenStandard"`
}

type accountData struct {
	TokenBalanceChanges []tokenBalanceChange `json:"tokenBalanceChanges"`
}

type tokenBalanceChange struct {
	Mint           string `json:"mint"`
	RawTokenAmount struct {
		TokenAmount string `json:"tokenAmount"`
		Decimals    int    `json:"decimals"`
	} `json:"rawTokenAmount"`
}

// IndexerClient recovers structured deposit data from a confirmed transaction
// via the indexing API's parse endpoint.
type IndexerClient struct {
	httpClient *http.Client
	mainnetURL string
	devnetURL  string
	apiKey     string
	logger     *zap.Logger
}

func NewIndexerClient(mainnetURL, devnetURL, apiKey string, logger *zap.Logger) *IndexerClient {
	if mainnetURL == "" {
		mainnetURL = indexerMainnetURL
	}
	if devnetURL == "" {
		devnetURL = indexerDevnetURL
	}
	return &IndexerClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		mainnetURL: mainnetURL,
		devnetURL:  devnetURL,
		apiKey:     apiKey,
		logger:     logger.Named("indexer"),
	}
}

// ExtractTransactionData parses a confirmed deposit transaction. A deposit
// carries exactly one fungible transfer (the contribution, paid by the fee
// payer) and one NFT transfer (the receipt, sent from the sale wallet); a
// transaction missing either is not a deposit.
func (c *IndexerClient) ExtractTransactionData(ctx context.Context, txID string, cluster model.Cluster) (*model.TransactionData, error) {
	tx, err := c.parseTransaction(ctx, txID, cluster)
	if err != nil {
		return nil, err
	}

	if tx.FeePayer == "" {
		return nil, fmt.Errorf("%w: no fee payer (tx=%s)", ErrMalformedTransaction, txID)
	}

	var spl, nft *tokenTransfer
	for i := range tx.TokenTransfers {
		t := &tx.TokenTransfers[i]
		switch t.TokenStandard {
		case "Fungible":
			if spl == nil {
				spl = t
			}
		case "NonFungible", "ProgrammableNonFungible":
			if nft == nil {
				nft = t
			}
		}
	}
	if spl == nil {
		return nil, fmt.Errorf("%w: no fungible transfer (tx=%s)", ErrMalformedTransaction, txID)
	}
	if nft == nil {
		return nil, fmt.Errorf("%w: no receipt transfer (tx=%s)", ErrMalformedTransaction, txID)
	}

	decimals := 0
	for _, data := range tx.AccountData {
		if len(data.TokenBalanceChanges) > 0 && data.TokenBalanceChanges[0].Mint == spl.Mint {
			decimals = data.TokenBalanceChanges[0].RawTokenAmount.Decimals
		}
	}

	amount := spl.TokenAmount.String()
	lamports, err := lamportsFromDecimal(amount, decimals)
	if err != nil {
		return nil, fmt.Errorf("%w: bad transfer amount %q (tx=%s)", ErrMalformedTransaction, amount, txID)
	}

	return &model.TransactionData{
		UserWalletAddress: tx.FeePayer,
		TokenAddress:      spl.Mint,
		TokenAmount:       amount,
		LbpAddress:        nft.FromUserAccount,
		NftAddress:        nft.Mint,
		Decimals:          decimals,
		AmountInLamports:  lamports,
	}, nil
}

func (c *IndexerClient) parseTransaction(ctx context.Context, txID string, cluster model.Cluster) (*enrichedTransaction, error) {
	baseURL := c.mainnetURL
	if cluster == model.ClusterDevnet {
		baseURL = c.devnetURL
	}
	url := fmt.Sprintf("%s/v0/transactions?api-key=%s&commitment=confirmed", baseURL, c.apiKey)

	payload, err := json.Marshal(map[string][]string{"transactions": {txID}})
	if err != nil {
		return nil, fmt.Errorf("failed to encode parse request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build parse request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("parse request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read parse response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("parse request rejected (%d): %s", resp.StatusCode, body)
	}

	var txs []enrichedTransaction
	if err := json.Unmarshal(body, &txs); err != nil {
		return nil, fmt.Errorf("failed to decode parse response: %w", err)
	}
	if len(txs) == 0 {
		return nil, fmt.Errorf("%w: transaction not indexed (tx=%s)", ErrMalformedTransaction, txID)
	}

	return &txs[0], nil
}

// lamportsFromDecimal converts a decimal amount string to raw units without
// going through float64, so large amounts keep exact precision. Fractional
// digits beyond the token's decimals round half up.
func lamportsFromDecimal(amount string, decimals int) (uint64, error) {
	whole, frac, _ := strings.Cut(amount, ".")
	if whole == "" {
		whole = "0"
	}

	roundUp := false
	if len(frac) > decimals {
		if frac[decimals] >= '5' {
			roundUp = true
		}
		frac = frac[:decimals]
	}
	for len(frac) < decimals {
		frac += "0"
	}

	digits := whole + frac
	var lamports uint64
	for _, d := range digits {
		if d < '0' || d > '9' {
			return 0, fmt.Errorf("invalid decimal amount %q", amount)
		}
		if lamports > (math.MaxUint64-9)/10 {
			return 0, fmt.Errorf("amount %q overflows", amount)
		}
		lamports = lamports*10 + uint64(d-'0')
	}
	if roundUp {
		lamports++
	}

	return lamports, nil
}
