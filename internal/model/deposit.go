package model

import "time"

// Deposit is the system of record for a user's contribution. The primary key
// is the on-chain transaction id, which makes recording idempotent; rows are
// never mutated or deleted.
type Deposit struct {
	TxID            string      `json:"txId"`
	FromAddress     string      `json:"fromAddress"`
	ToAddress       string      `json:"toAddress"`
	TokenAddress    string      `json:"tokenAddress"`
	AmountDeposited string      `json:"amountDeposited"`
	ProjectID       string      `json:"projectId"`
	TierID          string      `json:"tierId"`
	NftAddress      string      `json:"nftAddress"`
	CreatedAt       time.Time   `json:"createdAt"`
	Data            DepositData `json:"data"`
}

type DepositData struct {
	Cluster           Cluster           `json:"cluster"`
	UiAmount          string            `json:"uiAmount"`
	DecimalMultiplier string            `json:"decimalMultiplier"`
	TokensCalculation TokensCalculation `json:"tokensCalculation"`
	TransactionStatus string            `json:"transactionStatus"`
}

// TokensCalculation is the deterministic LP/reward split computed at deposit
// time from the amount, the project config and the live exchange rate.
type TokensCalculation struct {
	LpPosition         LpPosition         `json:"lpPosition"`
	RewardDistribution RewardDistribution `json:"rewardDistribution"`
	// TotalToBeReceived is the launched-token total: LP half plus rewards.
	TotalToBeReceived float64 `json:"totalToBeReceived"`
}

type LpPosition struct {
	BaseToken      float64 `json:"baseToken"`
	BaseTokenUsd   float64 `json:"baseTokenInUsd"`
	PairedToken    float64 `json:"pairedToken"`
	PairedTokenUsd float64 `json:"pairedTokenInUsd"`
}

type RewardDistribution struct {
	PairedToken    float64 `json:"pairedToken"`
	PairedTokenUsd float64 `json:"pairedTokenInUsd"`
}

// TokenAmount carries one amount in every denomination the frontend needs.
// Amounts are strings to survive JSON round-trips without precision drift.
type TokenAmount struct {
	Amount          string `json:"amount"`
	Decimals        int    `json:"decimals"`
	UiAmount        string `json:"uiAmount"`
	AmountInUsd     string `json:"amountInUsd"`
	TokenPriceInUsd string `json:"tokenPriceInUsd"`
}

type SaleResults struct {
	RaiseTargetInUsd     string      `json:"raiseTargetInUsd"`
	RaiseTargetReached   bool        `json:"raiseTargetReached"`
	TotalAmountRaised    TokenAmount `json:"totalAmountRaised"`
	AverageDepositAmount TokenAmount `json:"averageDepositAmount"`
	// SellOutPercentage is clamped to [0, 100].
	SellOutPercentage float64 `json:"sellOutPercentage"`
	ParticipantsCount int     `json:"participantsCount"`
}

// TransactionData is the structured form of a confirmed deposit transaction,
// as recovered from the indexing API.
type TransactionData struct {
	UserWalletAddress string
	TokenAddress      string
	// TokenAmount is the UI-denominated decimal string from the indexer.
	TokenAmount      string
	LbpAddress       string
	NftAddress       string
	Decimals         int
	AmountInLamports uint64
}

// Claim records a reward payout, written by the distribution process.
type Claim struct {
	TxID         string
	FromAddress  string
	ToAddress    string
	TokenAddress string
	Amount       string
	ProjectID    string
	CreatedAt    time.Time
}

// AccruedRewards reports linear vesting progress of a user's reward
// allocation for a project.
type AccruedRewards struct {
	TotalAllocation float64 `json:"totalAllocation"`
	Vested          float64 `json:"vested"`
	Claimed         float64 `json:"claimed"`
	Claimable       float64 `json:"claimable"`
}
