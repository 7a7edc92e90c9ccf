package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"culinary-quest/internal/model"
)

// AchievementRepository handles achievement unlock persistence.
// Unlocks are never removed.
type AchievementRepository struct {
	pool *pgxpool.Pool
}

// NewAchievementRepository creates a new AchievementRepository instance.
func NewAchievementRepository(pool *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{pool: pool}
}

// ListUnlocked returns a player's unlocked achievements, oldest first.
func (r *AchievementRepository) ListUnlocked(ctx context.Context, playerID string) ([]model.Achievement, error) {
	const query = `
		SELECT achievement_id, unlocked_at
		FROM achievement_unlocks
		WHERE player_id = $1
		ORDER BY unlocked_at
	`

	rows, err := r.pool.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	defer rows.Close()

	var list []model.Achievement
	for rows.Next() {
		var (
			id string
			at time.Time
		)
		if err := rows.Scan(&id, &at); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		list = append(list, model.Achievement{ID: id}.Unlock(at))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievements: %w", err)
	}
	return list, nil
}

// SaveUnlocked records the unlocked entries of list. Existing unlocks keep
// their original timestamp.
func (r *AchievementRepository) SaveUnlocked(ctx context.Context, playerID string, list []model.Achievement) error {
	const query = `
		INSERT INTO achievement_unlocks (player_id, achievement_id, unlocked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, achievement_id) DO NOTHING
	`

	for _, a := range list {
		if !a.Unlocked {
			continue
		}
		at := time.Now()
		if a.UnlockedAt != nil {
			at = *a.UnlockedAt
		}
		if _, err := r.pool.Exec(ctx, query, playerID, a.ID, at); err != nil {
			return fmt.Errorf("failed to save achievement %s: %w", a.ID, err)
		}
	}
	return nil
}
