package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// migrations are applied in order. Each statement is idempotent.
var migrations = []struct {
	name string
	sql  string
}{
	{
		name: "player_progress table",
		sql: `
		CREATE TABLE IF NOT EXISTS player_progress (
			player_id VARCHAR(255) PRIMARY KEY,
			level INT NOT NULL DEFAULT 1 CHECK (level >= 1),
			total_xp BIGINT NOT NULL DEFAULT 0 CHECK (total_xp >= 0),
			games_played INT NOT NULL DEFAULT 0,
			total_score BIGINT NOT NULL DEFAULT 0,
			best_score BIGINT NOT NULL DEFAULT 0,
			discovered_ingredients TEXT[] NOT NULL DEFAULT '{}',
			unlocked_recipes TEXT[] NOT NULL DEFAULT '{}',
			favorite_cuisines TEXT[] NOT NULL DEFAULT '{}',
			streak_days INT NOT NULL DEFAULT 0,
			last_played TIMESTAMPTZ,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		`,
	},
	{
		name: "game_scores table",
		sql: `
		CREATE TABLE IF NOT EXISTS game_scores (
			id UUID PRIMARY KEY,
			player_id VARCHAR(255) NOT NULL,
			player_name VARCHAR(255) NOT NULL,
			score BIGINT NOT NULL,
			mode VARCHAR(50) NOT NULL,
			difficulty VARCHAR(20) NOT NULL,
			played_at TIMESTAMPTZ NOT NULL,
			elapsed_ms BIGINT NOT NULL DEFAULT 0
		);
		CREATE INDEX IF NOT EXISTS idx_game_scores_mode_score ON game_scores(mode, score DESC);
		CREATE INDEX IF NOT EXISTS idx_game_scores_player_mode ON game_scores(player_id, mode);
		`,
	},
	{
		name: "achievement_unlocks table",
		sql: `
		CREATE TABLE IF NOT EXISTS achievement_unlocks (
			player_id VARCHAR(255) NOT NULL,
			achievement_id VARCHAR(100) NOT NULL,
			unlocked_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (player_id, achievement_id)
		);
		`,
	},
	{
		name: "quest_completions table",
		sql: `
		CREATE TABLE IF NOT EXISTS quest_completions (
			player_id VARCHAR(255) NOT NULL,
			quest_id UUID NOT NULL,
			completed_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (player_id, quest_id)
		);
		`,
	},
	{
		name: "player_settings table",
		sql: `
		CREATE TABLE IF NOT EXISTS player_settings (
			player_id VARCHAR(255) PRIMARY KEY,
			first_launch_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		`,
	},
}

// Migrate creates the schema. Safe to run on every start.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	log.Info().Msg("Running database migrations...")

	for i, m := range migrations {
		if _, err := pool.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", i+1, m.name, err)
		}
		log.Info().Int("migration", i+1).Str("name", m.name).Msg("Migration applied")
	}

	log.Info().Msg("Database migrations completed")
	return nil
}
