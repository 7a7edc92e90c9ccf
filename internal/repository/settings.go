package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingsRepository handles per-player flags.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository instance.
func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// FlipFirstLaunch records the player's first launch.
// Returns true only for the call that created the record.
func (r *SettingsRepository) FlipFirstLaunch(ctx context.Context, playerID string) (bool, error) {
	const query = `
		INSERT INTO player_settings (player_id, first_launch_at)
		VALUES ($1, NOW())
		ON CONFLICT (player_id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query, playerID)
	if err != nil {
		return false, fmt.Errorf("failed to record first launch: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
