package model

import "time"

type Cluster string

const (
	ClusterMainnet Cluster = "mainnet"
	ClusterDevnet  Cluster = "devnet"
)

type ProjectStatus string

const (
	ProjectStatusPending ProjectStatus = "pending"
	ProjectStatusActive  ProjectStatus = "active"
	ProjectStatusEnded   ProjectStatus = "ended"
)

// Project is owned by the admin subsystem; the sale core reads it and never
// writes it back.
type Project struct {
	ID     string
	Status ProjectStatus
	Config ProjectConfig
}

// ProjectConfig is the typed form of the project's JSON configuration column.
// It is validated when loaded from storage, so the rest of the code can rely
// on the fields being present.
type ProjectConfig struct {
	Cluster Cluster `json:"cluster"`

	RaisedToken   RaisedTokenConfig   `json:"raisedTokenData"`
	LaunchedToken LaunchedTokenConfig `json:"launchedTokenData"`

	RaiseTargetInUsd                 float64 `json:"raiseTargetInUsd"`
	TotalTokensForLiquidity          float64 `json:"totalTokensForLiquidity"`
	TotalTokensForRewardDistribution float64 `json:"totalTokensForRewardDistribution"`
	RewardDistributionMonths         int     `json:"rewardDistributionMonths"`

	Timeline SaleTimeline `json:"timeline"`

	// Ordered list, most generous tier last.
	Tiers []Tier `json:"tiers"`
}

// RaisedTokenConfig describes the token users deposit into the sale.
type RaisedTokenConfig struct {
	MintAddress   string `json:"mintAddress"`
	Decimals      int    `json:"decimals"`
	CoinGeckoName string `json:"coinGeckoName"`
	// UsdPegged tokens skip the market-data lookup and quote at 1.
	UsdPegged bool `json:"usdPegged"`
}

// LaunchedTokenConfig describes the token being sold.
type LaunchedTokenConfig struct {
	MintAddress        string  `json:"mintAddress"`
	Ticker             string  `json:"ticker"`
	FixedTokenPriceUsd float64 `json:"fixedTokenPriceInUsd"`
}

type SaleTimeline struct {
	OpensAt  time.Time `json:"opensAt"`
	ClosesAt time.Time `json:"closesAt"`
}

// Tier grants benefits to users who complete all of its quests. Tiers are
// evaluated in list order and the last completed one wins.
type Tier struct {
	ID       string       `json:"id"`
	Label    string       `json:"label"`
	Quests   []Quest      `json:"quests"`
	Benefits TierBenefits `json:"benefits"`
}

// TierBenefits caps are raw amounts of the raised token.
type TierBenefits struct {
	StartDate     time.Time `json:"startDate"`
	MinInvestment uint64    `json:"minInvestment,string"`
	MaxInvestment uint64    `json:"maxInvestment,string"`
}

type QuestType string

const (
	QuestAcceptTermsOfUse        QuestType = "ACCEPT_TERMS_OF_USE"
	QuestProvideInvestmentIntent QuestType = "PROVIDE_INVESTMENT_INTENT"
	QuestFollowOnTwitter         QuestType = "FOLLOW_ON_TWITTER"
	QuestHoldToken               QuestType = "HOLD_TOKEN"
)

// Quest is a tagged variant embedded in the project config. Only the fields
// for its Type are populated.
type Quest struct {
	Type QuestType `json:"type"`

	// FOLLOW_ON_TWITTER
	TwitterHandle string `json:"twitterHandle,omitempty"`

	// HOLD_TOKEN; TokenAmount is a UI-denominated decimal string.
	TokenMintAddress string `json:"tokenMintAddress,omitempty"`
	TokenName        string `json:"tokenName,omitempty"`
	TokenAmount      string `json:"tokenAmount,omitempty"`
}
