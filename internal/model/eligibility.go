package model

import "time"

// QuestWithCompletion is a Quest plus its evaluation result. Holds/Needs are
// only set for HOLD_TOKEN quests where a balance was actually fetched.
type QuestWithCompletion struct {
	Quest
	IsCompleted bool     `json:"isCompleted"`
	Holds       *float64 `json:"holds,omitempty"`
	Needs       *float64 `json:"needs,omitempty"`
}

type TierWithCompletion struct {
	ID          string                `json:"id"`
	Label       string                `json:"label"`
	Benefits    TierBenefits          `json:"benefits"`
	Quests      []QuestWithCompletion `json:"quests"`
	IsCompleted bool                  `json:"isCompleted"`
}

// EligibilityStatus is the full evaluation result for an (address, project)
// pair. SnapshotTakenAt is only set when loaded from the snapshot store.
type EligibilityStatus struct {
	Address string `json:"address"`

	IsEligible      bool  `json:"isEligible"`
	EligibilityTier *Tier `json:"eligibilityTier"`

	Compliances []QuestWithCompletion `json:"compliances"`
	Tiers       []TierWithCompletion  `json:"tiers"`

	SnapshotTakenAt *time.Time `json:"snapshotTakenAt,omitempty"`
}
