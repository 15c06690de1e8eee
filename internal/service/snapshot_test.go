package service

import (
	"context"
	"testing"
	"time"

	"launchpad_backend/internal/model"
	"launchpad_backend/internal/repository"
	"launchpad_backend/internal/service/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSnapshotService_GetSnapshot(t *testing.T) {
	snapshots := &mocks.MockSnapshotRepository{}
	snapshots.On("GetEligibilitySnapshot", mock.Anything, testAddress, testProjectID).
		Return(nil, repository.ErrNotFound)

	s := NewSnapshotService(snapshots, &mocks.MockEligibilitySource{})
	_, err := s.GetSnapshot(context.Background(), testAddress, testProjectID)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestSnapshotService_EnsureSnapshot(t *testing.T) {
	takenAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	frozen := &model.EligibilityStatus{
		Address:         testAddress,
		IsEligible:      true,
		SnapshotTakenAt: &takenAt,
	}

	t.Run("existing snapshot is returned without re-evaluating", func(t *testing.T) {
		snapshots := &mocks.MockSnapshotRepository{}
		eligibility := &mocks.MockEligibilitySource{}
		snapshots.On("GetEligibilitySnapshot", mock.Anything, testAddress, testProjectID).
			Return(frozen, nil)

		s := NewSnapshotService(snapshots, eligibility)
		status, err := s.EnsureSnapshot(context.Background(), testAddress, testProjectID)
		assert.NoError(t, err)
		assert.Equal(t, frozen, status)
		eligibility.AssertNotCalled(t, "GetEligibilityStatus")
	})

	t.Run("first call evaluates, freezes and re-reads", func(t *testing.T) {
		snapshots := &mocks.MockSnapshotRepository{}
		eligibility := &mocks.MockEligibilitySource{}
		live := &model.EligibilityStatus{Address: testAddress, IsEligible: true}

		snapshots.On("GetEligibilitySnapshot", mock.Anything, testAddress, testProjectID).
			Return(nil, repository.ErrNotFound).Once()
		eligibility.On("GetEligibilityStatus", mock.Anything, testAddress, testProjectID).
			Return(live, nil).Once()
		snapshots.On("CreateEligibilitySnapshot", mock.Anything, testAddress, testProjectID, live).
			Return(nil).Once()
		snapshots.On("GetEligibilitySnapshot", mock.Anything, testAddress, testProjectID).
			Return(frozen, nil).Once()

		s := NewSnapshotService(snapshots, eligibility)
		status, err := s.EnsureSnapshot(context.Background(), testAddress, testProjectID)
		assert.NoError(t, err)
		assert.NotNil(t, status.SnapshotTakenAt)
		snapshots.AssertExpectations(t)
		eligibility.AssertExpectations(t)
	})

	t.Run("losing a concurrent race still returns the stored winner", func(t *testing.T) {
		snapshots := &mocks.MockSnapshotRepository{}
		eligibility := &mocks.MockEligibilitySource{}
		live := &model.EligibilityStatus{Address: testAddress, IsEligible: false}

		snapshots.On("GetEligibilitySnapshot", mock.Anything, testAddress, testProjectID).
			Return(nil, repository.ErrNotFound).Once()
		eligibility.On("GetEligibilityStatus", mock.Anything, testAddress, testProjectID).
			Return(live, nil)
		// The conditional insert is a no-op when another writer won the race.
		snapshots.On("CreateEligibilitySnapshot", mock.Anything, testAddress, testProjectID, live).
			Return(nil)
		snapshots.On("GetEligibilitySnapshot", mock.Anything, testAddress, testProjectID).
			Return(frozen, nil).Once()

		s := NewSnapshotService(snapshots, eligibility)
		status, err := s.EnsureSnapshot(context.Background(), testAddress, testProjectID)
		assert.NoError(t, err)
		assert.True(t, status.IsEligible)
	})
}
