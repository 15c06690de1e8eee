package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"launchpad_backend/internal/model"

	"github.com/Masterminds/squirrel"
	"github.com/goccy/go-json"
)

type userRow struct {
	Address string `db:"address"`
	Json    []byte `db:"json"`
}

func (r *Repository) GetUserByAddress(ctx context.Context, address string) (*model.User, error) {
	query, args, err := squirrel.
		Select("address", "json").
		From(`"user"`).
		Where(squirrel.Eq{"address": address}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build user query: %w", err)
	}

	var row userRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var data model.UserData
	if err := json.Unmarshal(row.Json, &data); err != nil {
		return nil, fmt.Errorf("failed to decode user data (address=%s): %w", row.Address, err)
	}

	return &model.User{
		Address: row.Address,
		Data:    data,
	}, nil
}
