package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"culinary-quest/internal/game"
	"culinary-quest/internal/model"
)

var _ game.Gateway = (*Gateway)(nil)

// Gateway adapts the repositories to game.Gateway for one player.
type Gateway struct {
	playerID     string
	progress     *ProgressRepository
	scores       *ScoreRepository
	achievements *AchievementRepository
	quests       *QuestRepository
	settings     *SettingsRepository
}

// NewGateway creates a Gateway for playerID backed by pool.
func NewGateway(pool *pgxpool.Pool, playerID string) *Gateway {
	return &Gateway{
		playerID:     playerID,
		progress:     NewProgressRepository(pool),
		scores:       NewScoreRepository(pool),
		achievements: NewAchievementRepository(pool),
		quests:       NewQuestRepository(pool),
		settings:     NewSettingsRepository(pool),
	}
}

// LoadProgress returns the player's progress, or defaults if none is stored.
func (g *Gateway) LoadProgress(ctx context.Context) (model.PlayerProgress, error) {
	p, err := g.progress.Get(ctx, g.playerID)
	if errors.Is(err, ErrProgressNotFound) {
		return model.NewPlayerProgress(g.playerID), nil
	}
	if err != nil {
		return model.PlayerProgress{}, err
	}
	return *p, nil
}

// SaveProgress upserts the player's progress.
func (g *Gateway) SaveProgress(ctx context.Context, p model.PlayerProgress) error {
	p.PlayerID = g.playerID
	return g.progress.Upsert(ctx, p)
}

// AppendScore records a finished game on its mode's leaderboard.
func (g *Gateway) AppendScore(ctx context.Context, s model.GameScore) error {
	return g.scores.Append(ctx, s)
}

// TopScores retrieves the best scores of a mode across all players.
func (g *Gateway) TopScores(ctx context.Context, mode model.GameMode, limit int) ([]model.GameScore, error) {
	return g.scores.TopByMode(ctx, mode, limit)
}

// LoadAchievements returns the player's unlocked achievements.
func (g *Gateway) LoadAchievements(ctx context.Context) ([]model.Achievement, error) {
	return g.achievements.ListUnlocked(ctx, g.playerID)
}

// SaveAchievements stores newly unlocked achievements. Existing unlocks are kept.
func (g *Gateway) SaveAchievements(ctx context.Context, list []model.Achievement) error {
	return g.achievements.SaveUnlocked(ctx, g.playerID, list)
}

// IsFirstLaunch reports true on the player's first call only.
func (g *Gateway) IsFirstLaunch(ctx context.Context) (bool, error) {
	return g.settings.FlipFirstLaunch(ctx, g.playerID)
}

// LoadQuestCompletions returns the quests the player completed, by ID.
func (g *Gateway) LoadQuestCompletions(ctx context.Context) (map[uuid.UUID]time.Time, error) {
	return g.quests.Completions(ctx, g.playerID)
}

// SaveQuestCompletion records a completed quest. The first completion wins.
func (g *Gateway) SaveQuestCompletion(ctx context.Context, questID uuid.UUID, at time.Time) error {
	return g.quests.Complete(ctx, g.playerID, questID, at)
}

// PlayerBest returns the best retained score of playerID in mode.
func (g *Gateway) PlayerBest(ctx context.Context, playerID string, mode model.GameMode) (model.GameScore, bool, error) {
	return g.scores.BestForPlayer(ctx, playerID, mode)
}
