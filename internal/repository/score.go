package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"culinary-quest/internal/model"
)

// ScoreRepository handles the per-mode score leaderboard.
type ScoreRepository struct {
	pool *pgxpool.Pool
}

// NewScoreRepository creates a new ScoreRepository instance.
func NewScoreRepository(pool *pgxpool.Pool) *ScoreRepository {
	return &ScoreRepository{pool: pool}
}

// Append inserts a score and trims its mode to the best
// model.MaxScoresPerMode rows, in one transaction.
func (r *ScoreRepository) Append(ctx context.Context, s model.GameScore) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const insert = `
		INSERT INTO game_scores (id, player_id, player_name, score, mode, difficulty, played_at, elapsed_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err = tx.Exec(ctx, insert,
		s.ID.String(),
		s.PlayerID,
		s.PlayerName,
		s.Score,
		string(s.Mode),
		string(s.Difficulty),
		s.PlayedAt,
		s.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert score: %w", err)
	}

	const trim = `
		DELETE FROM game_scores
		WHERE mode = $1 AND id NOT IN (
			SELECT id FROM game_scores
			WHERE mode = $1
			ORDER BY score DESC, played_at ASC
			LIMIT $2
		)
	`
	if _, err := tx.Exec(ctx, trim, string(s.Mode), model.MaxScoresPerMode); err != nil {
		return fmt.Errorf("failed to trim scores: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// TopByMode retrieves the best scores of a mode, highest first.
func (r *ScoreRepository) TopByMode(ctx context.Context, mode model.GameMode, limit int) ([]model.GameScore, error) {
	const query = `
		SELECT id, player_id, player_name, score, mode, difficulty, played_at, elapsed_ms
		FROM game_scores
		WHERE mode = $1
		ORDER BY score DESC, played_at ASC
		LIMIT $2
	`
	if limit <= 0 {
		limit = model.MaxScoresPerMode
	}

	rows, err := r.pool.Query(ctx, query, string(mode), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top scores: %w", err)
	}
	defer rows.Close()

	var scores []model.GameScore
	for rows.Next() {
		sc, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, sc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scores: %w", err)
	}
	return scores, nil
}

// BestForPlayer returns a player's best retained score in a mode. Ties go to
// the earlier game. Returns false if the player has none.
func (r *ScoreRepository) BestForPlayer(ctx context.Context, playerID string, mode model.GameMode) (model.GameScore, bool, error) {
	const query = `
		SELECT id, player_id, player_name, score, mode, difficulty, played_at, elapsed_ms
		FROM game_scores
		WHERE player_id = $1 AND mode = $2
		ORDER BY score DESC, played_at ASC
		LIMIT 1
	`

	best, err := scanScore(r.pool.QueryRow(ctx, query, playerID, string(mode)))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.GameScore{}, false, nil
	}
	if err != nil {
		return model.GameScore{}, false, fmt.Errorf("failed to get best score: %w", err)
	}
	return best, true, nil
}

// scoreRow is satisfied by pgx.Row and pgx.Rows.
type scoreRow interface {
	Scan(dest ...any) error
}

func scanScore(row scoreRow) (model.GameScore, error) {
	var (
		s          model.GameScore
		id         string
		modeStr    string
		difficulty string
		elapsedMs  int64
	)
	err := row.Scan(
		&id,
		&s.PlayerID,
		&s.PlayerName,
		&s.Score,
		&modeStr,
		&difficulty,
		&s.PlayedAt,
		&elapsedMs,
	)
	if err != nil {
		return model.GameScore{}, err
	}
	if s.ID, err = uuid.Parse(id); err != nil {
		return model.GameScore{}, fmt.Errorf("failed to parse score id: %w", err)
	}
	s.Mode = model.GameMode(modeStr)
	s.Difficulty = model.Difficulty(difficulty)
	s.Elapsed = time.Duration(elapsedMs) * time.Millisecond
	return s, nil
}
