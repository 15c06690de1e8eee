package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"launchpad_backend/internal/model"
	"launchpad_backend/internal/repository"

	"go.uber.org/zap"
)

// complianceQuests are evaluated for every project, in this order, before any
// tier quests. A user with an incomplete compliance is ineligible regardless
// of tier progress.
var complianceQuests = []model.QuestType{
	model.QuestAcceptTermsOfUse,
	model.QuestProvideInvestmentIntent,
}

// EligibilityService evaluates a wallet's compliance and tier quests against
// a project's configuration. Evaluation is read-only: persisting the result
// is the snapshot service's concern.
type EligibilityService struct {
	projects ProjectRepository
	users    UserRepository
	balances TokenBalanceSource
	logger   *zap.Logger
}

func NewEligibilityService(
	projects ProjectRepository,
	users UserRepository,
	balances TokenBalanceSource,
	logger *zap.Logger,
) *EligibilityService {
	return &EligibilityService{
		projects: projects,
		users:    users,
		balances: balances,
		logger:   logger.Named("eligibility"),
	}
}

// GetEligibilityStatus evaluates the wallet live against the project config.
// A wallet the user store has never seen evaluates with empty data: every
// quest incomplete, not an error.
func (s *EligibilityService) GetEligibilityStatus(ctx context.Context, address, projectID string) (*model.EligibilityStatus, error) {
	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	var data model.UserData
	user, err := s.users.GetUserByAddress(ctx, address)
	switch {
	case err == nil:
		data = user.Data
	case errors.Is(err, repository.ErrNotFound):
		// leave data empty
	default:
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	status := &model.EligibilityStatus{
		Address: address,
	}

	compliancesComplete := true
	for _, questType := range complianceQuests {
		completed, err := evaluateCompliance(questType, &data, projectID)
		if err != nil {
			return nil, err
		}
		compliancesComplete = compliancesComplete && completed
		status.Compliances = append(status.Compliances, model.QuestWithCompletion{
			Quest:       model.Quest{Type: questType},
			IsCompleted: completed,
		})
	}

	for i := range project.Config.Tiers {
		tier := &project.Config.Tiers[i]

		tierResult := model.TierWithCompletion{
			ID:          tier.ID,
			Label:       tier.Label,
			Benefits:    tier.Benefits,
			IsCompleted: true,
		}

		for _, quest := range tier.Quests {
			result, err := s.evaluateTierQuest(ctx, address, quest, &data)
			if err != nil {
				return nil, err
			}
			tierResult.IsCompleted = tierResult.IsCompleted && result.IsCompleted
			tierResult.Quests = append(tierResult.Quests, result)
		}

		status.Tiers = append(status.Tiers, tierResult)
		if tierResult.IsCompleted {
			// Later tiers override earlier ones: the last completed tier wins.
			status.EligibilityTier = tier
		}
	}

	// Tier progress only counts for a compliant wallet: the reported
	// eligibility tier is null until every compliance is complete, even when
	// tier quests are done.
	if !compliancesComplete {
		status.EligibilityTier = nil
	}
	status.IsEligible = status.EligibilityTier != nil

	return status, nil
}

func evaluateCompliance(questType model.QuestType, data *model.UserData, projectID string) (bool, error) {
	switch questType {
	case model.QuestAcceptTermsOfUse:
		return data.TermsOfUse != nil, nil
	case model.QuestProvideInvestmentIntent:
		_, ok := data.InvestmentIntent[projectID]
		return ok, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrUnknownComplianceType, questType)
	}
}

func (s *EligibilityService) evaluateTierQuest(
	ctx context.Context,
	address string,
	quest model.Quest,
	data *model.UserData,
) (model.QuestWithCompletion, error) {
	result := model.QuestWithCompletion{Quest: quest}

	switch quest.Type {
	case model.QuestFollowOnTwitter:
		result.IsCompleted = data.Twitter != nil && data.Twitter.Follows[quest.TwitterHandle]

	case model.QuestHoldToken:
		needs, err := strconv.ParseFloat(quest.TokenAmount, 64)
		if err != nil {
			return result, fmt.Errorf("invalid token amount in quest (%s): %w", quest.TokenAmount, err)
		}
		result.Needs = &needs

		holds, err := s.heldAmount(ctx, address, quest.TokenMintAddress)
		if err != nil {
			// On-chain lookup failures must not block the rest of the
			// evaluation; the quest just reads as not completed.
			s.logger.Warn("token balance lookup failed",
				zap.String("address", address),
				zap.String("mint", quest.TokenMintAddress),
				zap.Error(err))
			return result, nil
		}

		result.Holds = &holds
		result.IsCompleted = holds >= needs

	default:
		return result, fmt.Errorf("%w: %s", ErrUnknownQuestType, quest.Type)
	}

	return result, nil
}

// heldAmount reads the balance live. Quest checks never go through the
// balance cache: a stale balance could grant or deny a tier wrongly.
func (s *EligibilityService) heldAmount(ctx context.Context, address, mint string) (float64, error) {
	balance, err := s.balances.TokenBalance(ctx, address, mint)
	if err != nil {
		return 0, err
	}

	var amount float64
	if balance.UiAmount != nil {
		amount = *balance.UiAmount
	} else if balance.UiAmountString != "" {
		amount, err = strconv.ParseFloat(balance.UiAmountString, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse balance %q: %w", balance.UiAmountString, err)
		}
	}

	return amount, nil
}
