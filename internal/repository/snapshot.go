package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"launchpad_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
)

type snapshotRow struct {
	Address   string    `db:"address"`
	ProjectID string    `db:"project_id"`
	Json      []byte    `db:"json"`
	CreatedAt time.Time `db:"created_at"`
}

// GetEligibilitySnapshot returns the frozen eligibility status for the
// (address, project) pair, or ErrNotFound if none was ever taken.
func (r *Repository) GetEligibilitySnapshot(ctx context.Context, address, projectID string) (*model.EligibilityStatus, error) {
	query, args, err := squirrel.
		Select("address", "project_id", "json", "created_at").
		From("eligibility_status_snapshot").
		Where(squirrel.Eq{
			"address":    address,
			"project_id": projectID,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot query: %w", err)
	}

	var row snapshotRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var status model.EligibilityStatus
	if err := json.Unmarshal(row.Json, &status); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot (address=%s): %w", row.Address, err)
	}
	status.SnapshotTakenAt = &row.CreatedAt

	return &status, nil
}

// CreateEligibilitySnapshot freezes an eligibility evaluation for the
// (address, project) pair. The insert is conditional on the composite key, so
// under a concurrent first-deposit race exactly one snapshot wins and every
// later attempt is a silent no-op. Snapshots are never updated or deleted.
func (r *Repository) CreateEligibilitySnapshot(ctx context.Context, address, projectID string, status *model.EligibilityStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	query, args, err := squirrel.
		Insert("eligibility_status_snapshot").
		SetMap(map[string]interface{}{
			"address":    address,
			"project_id": projectID,
			"json":       data,
			"created_at": time.Now().UTC(),
		}).
		Suffix("ON CONFLICT (address, project_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build snapshot insert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}
