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

type projectRow struct {
	ID     string `db:"id"`
	Status string `db:"status"`
	Json   []byte `db:"json"`
}

// GetProjectByID loads a project and decodes its JSON configuration column.
// The config is validated here so callers can rely on the typed fields.
func (r *Repository) GetProjectByID(ctx context.Context, id string) (*model.Project, error) {
	query, args, err := squirrel.
		Select("id", "status", "json").
		From("project").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build project query: %w", err)
	}

	var row projectRow
	err = r.db.GetContext(ctx, &row, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	var config model.ProjectConfig
	if err := json.Unmarshal(row.Json, &config); err != nil {
		return nil, fmt.Errorf("failed to decode project config (id=%s): %w", row.ID, err)
	}
	if err := validateProjectConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid project config (id=%s): %w", row.ID, err)
	}

	return &model.Project{
		ID:     row.ID,
		Status: model.ProjectStatus(row.Status),
		Config: config,
	}, nil
}

func validateProjectConfig(config *model.ProjectConfig) error {
	if config.Cluster != model.ClusterMainnet && config.Cluster != model.ClusterDevnet {
		return fmt.Errorf("unsupported cluster (%s)", config.Cluster)
	}
	if config.RaisedToken.MintAddress == "" {
		return fmt.Errorf("raised token mint address is missing")
	}
	if config.RaisedToken.Decimals < 0 {
		return fmt.Errorf("raised token decimals must not be negative")
	}
	if config.RaiseTargetInUsd < 1 {
		return fmt.Errorf("raiseTargetInUsd must be at least 1")
	}
	for i, tier := range config.Tiers {
		if tier.ID == "" {
			return fmt.Errorf("tier %d is missing an id", i)
		}
		if len(tier.Quests) == 0 {
			return fmt.Errorf("tier %s has no quests", tier.ID)
		}
	}
	return nil
}
