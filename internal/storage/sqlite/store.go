// Package sqlite persists player state in a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"culinary-quest/internal/game"
	"culinary-quest/internal/model"
)

// Compile-time interface check.
var _ game.Gateway = (*Gateway)(nil)

// Times are stored in UTC with a fixed-width fraction so that text order is
// time order. Parsing accepts any RFC 3339 fraction.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"


// Store is a SQLite database shared by every player's gateway.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path. Use ":memory:" for a
// throwaway database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	log.Info().Str("path", path).Msg("SQLite store opened")
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS player_progress (
        player_id TEXT PRIMARY KEY,
        level INTEGER NOT NULL DEFAULT 1,
        total_xp INTEGER NOT NULL DEFAULT 0,
        games_played INTEGER NOT NULL DEFAULT 0,
        total_score INTEGER NOT NULL DEFAULT 0,
        best_score INTEGER NOT NULL DEFAULT 0,
        discovered TEXT NOT NULL DEFAULT '[]',
        recipes TEXT NOT NULL DEFAULT '[]',
        cuisines TEXT NOT NULL DEFAULT '[]',
        streak_days INTEGER NOT NULL DEFAULT 0,
        last_played TEXT
    );

    CREATE TABLE IF NOT EXISTS game_scores (
        id TEXT PRIMARY KEY,
        player_id TEXT NOT NULL,
        player_name TEXT NOT NULL,
        score INTEGER NOT NULL,
        mode TEXT NOT NULL,
        difficulty TEXT NOT NULL,
        played_at TEXT NOT NULL,
        elapsed_ms INTEGER NOT NULL
    );

    CREATE TABLE IF NOT EXISTS achievement_unlocks (
        player_id TEXT NOT NULL,
        achievement_id TEXT NOT NULL,
        unlocked_at TEXT NOT NULL,
        PRIMARY KEY (player_id, achievement_id)
    );

    CREATE TABLE IF NOT EXISTS quest_completions (
        player_id TEXT NOT NULL,
        quest_id TEXT NOT NULL,
        completed_at TEXT NOT NULL,
        PRIMARY KEY (player_id, quest_id)
    );

    CREATE TABLE IF NOT EXISTS player_settings (
        player_id TEXT NOT NULL,
        key TEXT NOT NULL,
        value TEXT NOT NULL,
        PRIMARY KEY (player_id, key)
    );

    CREATE INDEX IF NOT EXISTS idx_game_scores_mode_score ON game_scores(mode, score DESC);
    `

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// ForPlayer returns a gateway bound to one player.
func (s *Store) ForPlayer(playerID string) *Gateway {
	return &Gateway{db: s.db, playerID: playerID}
}

// TopScores returns the best scores of a mode across all players.
func (s *Store) TopScores(ctx context.Context, mode model.GameMode, limit int) ([]model.GameScore, error) {
	if limit <= 0 {
		limit = model.MaxScoresPerMode
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, player_id, player_name, score, mode, difficulty, played_at, elapsed_ms
        FROM game_scores
        WHERE mode = ?
        ORDER BY score DESC, played_at ASC
        LIMIT ?`, string(mode), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scores: %w", err)
	}
	defer rows.Close()

	var scores []model.GameScore
	for rows.Next() {
		var sc model.GameScore
		var id, modeStr, diff, playedAt string
		var elapsedMs int64
		if err := rows.Scan(&id, &sc.PlayerID, &sc.PlayerName, &sc.Score, &modeStr, &diff, &playedAt, &elapsedMs); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		if sc.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("failed to parse score id: %w", err)
		}
		if sc.PlayedAt, err = time.Parse(time.RFC3339Nano, playedAt); err != nil {
			return nil, fmt.Errorf("failed to parse played_at: %w", err)
		}
		sc.Mode = model.GameMode(modeStr)
		sc.Difficulty = model.Difficulty(diff)
		sc.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		scores = append(scores, sc)
	}
	return scores, rows.Err()
}

// Gateway is the per-player view of a Store.
type Gateway struct {
	db       *sql.DB
	playerID string
}

// LoadProgress returns the stored progress or a fresh default.
func (g *Gateway) LoadProgress(ctx context.Context) (model.PlayerProgress, error) {
	p := model.NewPlayerProgress(g.playerID)
	var (
		discovered, recipes, cuisines string
		lastPlayed                    sql.NullString
	)
	err := g.db.QueryRowContext(ctx, `
        SELECT level, total_xp, games_played, total_score, best_score,
               discovered, recipes, cuisines, streak_days, last_played
        FROM player_progress WHERE player_id = ?`, g.playerID).Scan(
		&p.Level, &p.TotalXP, &p.GamesPlayed, &p.TotalScore, &p.BestScore,
		&discovered, &recipes, &cuisines, &p.StreakDays, &lastPlayed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return p, nil
	}
	if err != nil {
		return p, fmt.Errorf("failed to load progress: %w", err)
	}

	if err := json.Unmarshal([]byte(discovered), &p.DiscoveredIngredients); err != nil {
		return p, fmt.Errorf("failed to decode discovered ingredients: %w", err)
	}
	if err := json.Unmarshal([]byte(recipes), &p.UnlockedRecipes); err != nil {
		return p, fmt.Errorf("failed to decode unlocked recipes: %w", err)
	}
	if err := json.Unmarshal([]byte(cuisines), &p.FavoriteCuisines); err != nil {
		return p, fmt.Errorf("failed to decode favorite cuisines: %w", err)
	}
	if lastPlayed.Valid {
		t, err := time.Parse(time.RFC3339Nano, lastPlayed.String)
		if err != nil {
			return p, fmt.Errorf("failed to parse last_played: %w", err)
		}
		p.LastPlayed = &t
	}
	return p, nil
}

// SaveProgress upserts the player's progress.
func (g *Gateway) SaveProgress(ctx context.Context, p model.PlayerProgress) error {
	discovered, err := json.Marshal(nonNil(p.DiscoveredIngredients))
	if err != nil {
		return fmt.Errorf("failed to encode discovered ingredients: %w", err)
	}
	recipes, err := json.Marshal(nonNil(p.UnlockedRecipes))
	if err != nil {
		return fmt.Errorf("failed to encode unlocked recipes: %w", err)
	}
	cuisines, err := json.Marshal(nonNil(p.FavoriteCuisines))
	if err != nil {
		return fmt.Errorf("failed to encode favorite cuisines: %w", err)
	}
	var lastPlayed sql.NullString
	if p.LastPlayed != nil {
		lastPlayed = sql.NullString{String: p.LastPlayed.UTC().Format(timeLayout), Valid: true}
	}

	_, err = g.db.ExecContext(ctx, `
        INSERT INTO player_progress (player_id, level, total_xp, games_played, total_score, best_score,
                                     discovered, recipes, cuisines, streak_days, last_played)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(player_id) DO UPDATE SET
            level = excluded.level,
            total_xp = excluded.total_xp,
            games_played = excluded.games_played,
            total_score = excluded.total_score,
            best_score = excluded.best_score,
            discovered = excluded.discovered,
            recipes = excluded.recipes,
            cuisines = excluded.cuisines,
            streak_days = excluded.streak_days,
            last_played = excluded.last_played`,
		g.playerID, p.Level, p.TotalXP, p.GamesPlayed, p.TotalScore, p.BestScore,
		string(discovered), string(recipes), string(cuisines), p.StreakDays, lastPlayed,
	)
	if err != nil {
		return fmt.Errorf("failed to save progress: %w", err)
	}
	return nil
}

// AppendScore inserts a score and trims its mode to the best
// model.MaxScoresPerMode rows.
func (g *Gateway) AppendScore(ctx context.Context, sc model.GameScore) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
        INSERT INTO game_scores (id, player_id, player_name, score, mode, difficulty, played_at, elapsed_ms)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID.String(), sc.PlayerID, sc.PlayerName, sc.Score, string(sc.Mode), string(sc.Difficulty),
		sc.PlayedAt.UTC().Format(timeLayout), sc.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert score: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
        DELETE FROM game_scores
        WHERE mode = ? AND id NOT IN (
            SELECT id FROM game_scores WHERE mode = ?
            ORDER BY score DESC, played_at ASC
            LIMIT ?
        )`, string(sc.Mode), string(sc.Mode), model.MaxScoresPerMode)
	if err != nil {
		return fmt.Errorf("failed to trim scores: %w", err)
	}

	return tx.Commit()
}

// TopScores returns the best scores of a mode, highest first.
func (g *Gateway) TopScores(ctx context.Context, mode model.GameMode, limit int) ([]model.GameScore, error) {
	return (&Store{db: g.db}).TopScores(ctx, mode, limit)
}

// LoadAchievements returns the player's unlocked achievements. Only ID and
// unlock state are stored; definitions come from the catalog.
func (g *Gateway) LoadAchievements(ctx context.Context) ([]model.Achievement, error) {
	rows, err := g.db.QueryContext(ctx, `
        SELECT achievement_id, unlocked_at FROM achievement_unlocks
        WHERE player_id = ? ORDER BY unlocked_at`, g.playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievements: %w", err)
	}
	defer rows.Close()

	var list []model.Achievement
	for rows.Next() {
		var id, at string
		if err := rows.Scan(&id, &at); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		unlockedAt, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("failed to parse unlocked_at: %w", err)
		}
		list = append(list, model.Achievement{ID: id}.Unlock(unlockedAt))
	}
	return list, rows.Err()
}

// SaveAchievements records every unlocked achievement. Unlocks are never
// removed.
func (g *Gateway) SaveAchievements(ctx context.Context, list []model.Achievement) error {
	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range list {
		if !a.Unlocked {
			continue
		}
		at := time.Now()
		if a.UnlockedAt != nil {
			at = *a.UnlockedAt
		}
		_, err := tx.ExecContext(ctx, `
            INSERT OR IGNORE INTO achievement_unlocks (player_id, achievement_id, unlocked_at)
            VALUES (?, ?, ?)`, g.playerID, a.ID, at.UTC().Format(timeLayout))
		if err != nil {
			return fmt.Errorf("failed to save achievement %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

// IsFirstLaunch reports true on the first call for the player only.
func (g *Gateway) IsFirstLaunch(ctx context.Context) (bool, error) {
	res, err := g.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO player_settings (player_id, key, value)
        VALUES (?, 'launched', '1')`, g.playerID)
	if err != nil {
		return false, fmt.Errorf("failed to flip first launch flag: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read first launch flag: %w", err)
	}
	return n == 1, nil
}

// LoadQuestCompletions returns when each completed quest was finished.
func (g *Gateway) LoadQuestCompletions(ctx context.Context) (map[uuid.UUID]time.Time, error) {
	rows, err := g.db.QueryContext(ctx, `
        SELECT quest_id, completed_at FROM quest_completions WHERE player_id = ?`, g.playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quest completions: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID]time.Time)
	for rows.Next() {
		var id, at string
		if err := rows.Scan(&id, &at); err != nil {
			return nil, fmt.Errorf("failed to scan quest completion: %w", err)
		}
		questID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("failed to parse quest id: %w", err)
		}
		completedAt, err := time.Parse(time.RFC3339Nano, at)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completed_at: %w", err)
		}
		out[questID] = completedAt
	}
	return out, rows.Err()
}

// SaveQuestCompletion marks a quest completed.
func (g *Gateway) SaveQuestCompletion(ctx context.Context, questID uuid.UUID, at time.Time) error {
	_, err := g.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO quest_completions (player_id, quest_id, completed_at)
        VALUES (?, ?, ?)`, g.playerID, questID.String(), at.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("failed to save quest completion: %w", err)
	}
	return nil
}

// nonNil keeps empty lists encoded as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
