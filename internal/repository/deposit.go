package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"launchpad_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
	"github.com/lib/pq"
)

type depositRow struct {
	TransactionID   string    `db:"transaction_id"`
	FromAddress     string    `db:"from_address"`
	ToAddress       string    `db:"to_address"`
	TokenAddress    string    `db:"token_address"`
	AmountDeposited string    `db:"amount_deposited"`
	ProjectID       string    `db:"project_id"`
	TierID          string    `db:"tier_id"`
	NftAddress      string    `db:"nft_address"`
	CreatedAt       time.Time `db:"created_at"`
	Json            []byte    `db:"json"`
}

// DepositorTotal is one depositor's summed contribution to a project.
type DepositorTotal struct {
	FromAddress string `db:"from_address"`
	TotalAmount string `db:"total_amount"`
}

// CreateDeposit inserts a deposit keyed by its transaction id. Replaying the
// same confirmed transaction returns ErrAlreadyExists, which callers treat as
// "already recorded". Rows are never updated or deleted.
func (r *Repository) CreateDeposit(ctx context.Context, deposit *model.Deposit) error {
	data, err := json.Marshal(deposit.Data)
	if err != nil {
		return fmt.Errorf("failed to encode deposit json: %w", err)
	}

	query, args, err := squirrel.
		Insert("deposit").
		SetMap(map[string]interface{}{
			"transaction_id":   deposit.TxID,
			"from_address":     deposit.FromAddress,
			"to_address":       deposit.ToAddress,
			"token_address":    deposit.TokenAddress,
			"amount_deposited": deposit.AmountDeposited,
			"project_id":       deposit.ProjectID,
			"tier_id":          deposit.TierID,
			"nft_address":      deposit.NftAddress,
			"created_at":       deposit.CreatedAt,
			"json":             data,
		}).
		Suffix("ON CONFLICT (transaction_id) DO NOTHING").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build deposit insert query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to insert deposit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return ErrAlreadyExists
	}

	return nil
}

// GetUserDepositedAmount sums a user's raw deposited amount for a project.
func (r *Repository) GetUserDepositedAmount(ctx context.Context, address, projectID string) (uint64, error) {
	query, args, err := squirrel.
		Select("COALESCE(SUM(amount_deposited::numeric), 0)::text AS total_amount").
		From("deposit").
		Where(squirrel.Eq{
			"from_address": address,
			"project_id":   projectID,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build deposit sum query: %w", err)
	}

	var total string
	err = r.db.GetContext(ctx, &total, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to sum deposits: %w", err)
	}

	amount, err := strconv.ParseUint(total, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse deposit sum (%s): %w", total, err)
	}
	return amount, nil
}

// GetDepositorTotals returns the summed deposit per depositor address for a
// project. The sale-results aggregator derives participant count, total and
// average from this single grouped query.
func (r *Repository) GetDepositorTotals(ctx context.Context, projectID string) ([]DepositorTotal, error) {
	query, args, err := squirrel.
		Select(
			"from_address",
			"SUM(amount_deposited::numeric)::text AS total_amount",
		).
		From("deposit").
		Where(squirrel.Eq{"project_id": projectID}).
		GroupBy("from_address").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build depositor totals query: %w", err)
	}

	var totals []DepositorTotal
	err = r.db.SelectContext(ctx, &totals, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []DepositorTotal{}, nil
		}
		return nil, fmt.Errorf("failed to get depositor totals: %w", err)
	}

	return totals, nil
}

type participantCountRow struct {
	ProjectID         string `db:"project_id"`
	ParticipantsCount int    `db:"participants_count"`
}

// GetParticipantCounts returns the distinct depositor count for each of the
// given projects in one query.
func (r *Repository) GetParticipantCounts(ctx context.Context, projectIDs []string) (map[string]int, error) {
	query, args, err := squirrel.
		Select(
			"project_id",
			"COUNT(DISTINCT from_address) AS participants_count",
		).
		From("deposit").
		Where("project_id = ANY(?)", pq.Array(projectIDs)).
		GroupBy("project_id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build participant counts query: %w", err)
	}

	var rows []participantCountRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return map[string]int{}, nil
		}
		return nil, fmt.Errorf("failed to get participant counts: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.ProjectID] = row.ParticipantsCount
	}
	return counts, nil
}

// ListUserDeposits loads a user's deposits for a project, including the
// decoded token-split calculation.
func (r *Repository) ListUserDeposits(ctx context.Context, address, projectID string) ([]*model.Deposit, error) {
	query, args, err := squirrel.
		Select(
			"transaction_id", "from_address", "to_address", "token_address",
			"amount_deposited", "project_id", "tier_id", "nft_address",
			"created_at", "json",
		).
		From("deposit").
		Where(squirrel.Eq{
			"from_address": address,
			"project_id":   projectID,
		}).
		OrderBy("created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build deposits query: %w", err)
	}

	var rows []depositRow
	err = r.db.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []*model.Deposit{}, nil
		}
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}

	deposits := make([]*model.Deposit, len(rows))
	for i, row := range rows {
		var data model.DepositData
		if err := json.Unmarshal(row.Json, &data); err != nil {
			return nil, fmt.Errorf("failed to decode deposit json (tx=%s): %w", row.TransactionID, err)
		}
		deposits[i] = &model.Deposit{
			TxID:            row.TransactionID,
			FromAddress:     row.FromAddress,
			ToAddress:       row.ToAddress,
			TokenAddress:    row.TokenAddress,
			AmountDeposited: row.AmountDeposited,
			ProjectID:       row.ProjectID,
			TierID:          row.TierID,
			NftAddress:      row.NftAddress,
			CreatedAt:       row.CreatedAt,
			Data:            data,
		}
	}

	return deposits, nil
}

// GetClaimedAmount sums the reward payouts already made to an address for a
// project, as recorded by the distribution process in the claim table.
func (r *Repository) GetClaimedAmount(ctx context.Context, address, projectID string) (float64, error) {
	query, args, err := squirrel.
		Select("COALESCE(SUM(amount::numeric), 0)::float8 AS total").
		From("claim").
		Where(squirrel.Eq{
			"to_address": address,
			"project_id": projectID,
		}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build claim sum query: %w", err)
	}

	var total float64
	err = r.db.GetContext(ctx, &total, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to sum claims: %w", err)
	}

	return total, nil
}
