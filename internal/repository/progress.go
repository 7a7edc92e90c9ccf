// Package repository provides PostgreSQL data access for player state.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"culinary-quest/internal/model"
)

// Common errors for repository operations.
var (
	ErrProgressNotFound = errors.New("progress not found")
)

// ProgressRepository handles player progress persistence.
type ProgressRepository struct {
	pool *pgxpool.Pool
}

// NewProgressRepository creates a new ProgressRepository instance.
func NewProgressRepository(pool *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{pool: pool}
}

// Get retrieves a player's progress.
// Returns ErrProgressNotFound if nothing is stored for the player.
func (r *ProgressRepository) Get(ctx context.Context, playerID string) (*model.PlayerProgress, error) {
	const query = `
		SELECT player_id, level, total_xp, games_played, total_score, best_score,
		       discovered_ingredients, unlocked_recipes, favorite_cuisines,
		       streak_days, last_played
		FROM player_progress
		WHERE player_id = $1
	`

	var (
		p        model.PlayerProgress
		cuisines []string
	)
	err := r.pool.QueryRow(ctx, query, playerID).Scan(
		&p.PlayerID,
		&p.Level,
		&p.TotalXP,
		&p.GamesPlayed,
		&p.TotalScore,
		&p.BestScore,
		&p.DiscoveredIngredients,
		&p.UnlockedRecipes,
		&cuisines,
		&p.StreakDays,
		&p.LastPlayed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	p.FavoriteCuisines = make([]model.Cuisine, len(cuisines))
	for i, c := range cuisines {
		p.FavoriteCuisines[i] = model.Cuisine(c)
	}
	return &p, nil
}

// Upsert stores a player's progress, replacing any previous row.
func (r *ProgressRepository) Upsert(ctx context.Context, p model.PlayerProgress) error {
	const query = `
		INSERT INTO player_progress (
			player_id, level, total_xp, games_played, total_score, best_score,
			discovered_ingredients, unlocked_recipes, favorite_cuisines,
			streak_days, last_played, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
		ON CONFLICT (player_id) DO UPDATE SET
			level = EXCLUDED.level,
			total_xp = EXCLUDED.total_xp,
			games_played = EXCLUDED.games_played,
			total_score = EXCLUDED.total_score,
			best_score = EXCLUDED.best_score,
			discovered_ingredients = EXCLUDED.discovered_ingredients,
			unlocked_recipes = EXCLUDED.unlocked_recipes,
			favorite_cuisines = EXCLUDED.favorite_cuisines,
			streak_days = EXCLUDED.streak_days,
			last_played = EXCLUDED.last_played,
			updated_at = NOW()
	`

	cuisines := make([]string, len(p.FavoriteCuisines))
	for i, c := range p.FavoriteCuisines {
		cuisines[i] = string(c)
	}

	_, err := r.pool.Exec(ctx, query,
		p.PlayerID,
		p.Level,
		p.TotalXP,
		p.GamesPlayed,
		p.TotalScore,
		p.BestScore,
		nonNil(p.DiscoveredIngredients),
		nonNil(p.UnlockedRecipes),
		cuisines,
		p.StreakDays,
		p.LastPlayed,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}
	return nil
}

// nonNil keeps NOT NULL array columns from receiving NULL.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
