package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestRepository handles daily quest completion records.
type QuestRepository struct {
	pool *pgxpool.Pool
}

// NewQuestRepository creates a new QuestRepository instance.
func NewQuestRepository(pool *pgxpool.Pool) *QuestRepository {
	return &QuestRepository{pool: pool}
}

// Completions returns the completion time of every quest a player finished.
func (r *QuestRepository) Completions(ctx context.Context, playerID string) (map[uuid.UUID]time.Time, error) {
	const query = `
		SELECT quest_id, completed_at
		FROM quest_completions
		WHERE player_id = $1
	`

	rows, err := r.pool.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quest completions: %w", err)
	}
	defer rows.Close()

	done := make(map[uuid.UUID]time.Time)
	for rows.Next() {
		var (
			id string
			at time.Time
		)
		if err := rows.Scan(&id, &at); err != nil {
			return nil, fmt.Errorf("failed to scan quest completion: %w", err)
		}
		questID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("failed to parse quest id: %w", err)
		}
		done[questID] = at
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quest completions: %w", err)
	}
	return done, nil
}

// Complete records a quest completion. The first completion wins.
func (r *QuestRepository) Complete(ctx context.Context, playerID string, questID uuid.UUID, at time.Time) error {
	const query = `
		INSERT INTO quest_completions (player_id, quest_id, completed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, quest_id) DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, playerID, questID.String(), at); err != nil {
		return fmt.Errorf("failed to save quest completion: %w", err)
	}
	return nil
}
