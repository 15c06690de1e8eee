package model

import "time"

// User is keyed by wallet address. The JSON blob is written by the
// compliance-recording endpoints; the eligibility engine only reads it.
type User struct {
	Address string
	Data    UserData
}

type UserData struct {
	TermsOfUse       *TermsOfUse                 `json:"termsOfUse,omitempty"`
	InvestmentIntent map[string]InvestmentIntent `json:"investmentIntent,omitempty"`
	Twitter          *TwitterState               `json:"twitter,omitempty"`
}

type TermsOfUse struct {
	AcceptedAt time.Time `json:"acceptedAt"`
}

// InvestmentIntent is stored per project id.
type InvestmentIntent struct {
	Amount     string    `json:"amount"`
	ProvidedAt time.Time `json:"providedAt"`
}

type TwitterState struct {
	TwitterID string `json:"twitterId,omitempty"`
	// Follows maps a twitter handle to whether the user follows it.
	Follows map[string]bool `json:"follows,omitempty"`
}
