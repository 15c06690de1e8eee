package service

import (
	"context"
	"errors"
	"fmt"

	"launchpad_backend/internal/model"
	"launchpad_backend/internal/repository"
)

// SnapshotService freezes eligibility evaluations. Once a wallet has a
// snapshot for a project, that snapshot is the wallet's eligibility forever;
// later quest progress or regressions do not change it.
type SnapshotService struct {
	snapshots   SnapshotRepository
	eligibility EligibilitySource
}

func NewSnapshotService(snapshots SnapshotRepository, eligibility EligibilitySource) *SnapshotService {
	return &SnapshotService{
		snapshots:   snapshots,
		eligibility: eligibility,
	}
}

func (s *SnapshotService) GetSnapshot(ctx context.Context, address, projectID string) (*model.EligibilityStatus, error) {
	status, err := s.snapshots.GetEligibilitySnapshot(ctx, address, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}
	return status, nil
}

// EnsureSnapshot returns the stored snapshot, evaluating and freezing one
// first if none exists. Under a concurrent first call the store picks one
// winner; the re-read after insert returns whichever evaluation won.
func (s *SnapshotService) EnsureSnapshot(ctx context.Context, address, projectID string) (*model.EligibilityStatus, error) {
	status, err := s.snapshots.GetEligibilitySnapshot(ctx, address, projectID)
	if err == nil {
		return status, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	live, err := s.eligibility.GetEligibilityStatus(ctx, address, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate eligibility: %w", err)
	}

	if err := s.snapshots.CreateEligibilitySnapshot(ctx, address, projectID, live); err != nil {
		return nil, fmt.Errorf("failed to create snapshot: %w", err)
	}

	status, err = s.snapshots.GetEligibilitySnapshot(ctx, address, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read snapshot: %w", err)
	}
	return status, nil
}
