package service

import (
	"context"
	"fmt"

	"culinary-quest/internal/game"
	"culinary-quest/internal/model"
)

// ScoreBoard is the score query every storage gateway provides.
type ScoreBoard interface {
	TopScores(ctx context.Context, mode model.GameMode, limit int) ([]model.GameScore, error)
}

// PlayerBestBoard is a ScoreBoard that can look up one player's best score
// without reading the whole leaderboard.
type PlayerBestBoard interface {
	ScoreBoard
	PlayerBest(ctx context.Context, playerID string, mode model.GameMode) (model.GameScore, bool, error)
}

// RankingService handles leaderboard queries.
type RankingService struct {
	board ScoreBoard
}

// NewRankingService creates a new RankingService instance.
func NewRankingService(board ScoreBoard) *RankingService {
	return &RankingService{board: board}
}

// TopScores retrieves the best scores of a mode, highest first.
func (s *RankingService) TopScores(ctx context.Context, mode model.GameMode, limit int) ([]model.GameScore, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", game.ErrUnknownMode, mode)
	}
	scores, err := s.board.TopScores(ctx, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top scores: %w", err)
	}
	return scores, nil
}

// Leaderboard retrieves the top scores of every mode. Modes without scores
// are omitted.
func (s *RankingService) Leaderboard(ctx context.Context, limit int) (map[model.GameMode][]model.GameScore, error) {
	board := make(map[model.GameMode][]model.GameScore)
	for _, mode := range model.GameModes() {
		scores, err := s.TopScores(ctx, mode, limit)
		if err != nil {
			return nil, err
		}
		if len(scores) > 0 {
			board[mode] = scores
		}
	}
	return board, nil
}

// PersonalBest returns the player's best retained score in a mode.
// Returns false if the player has no score in it.
func (s *RankingService) PersonalBest(ctx context.Context, playerID string, mode model.GameMode) (model.GameScore, bool, error) {
	if board, ok := s.board.(PlayerBestBoard); ok {
		if !mode.Valid() {
			return model.GameScore{}, false, fmt.Errorf("%w: %q", game.ErrUnknownMode, mode)
		}
		best, found, err := board.PlayerBest(ctx, playerID, mode)
		if err != nil {
			return model.GameScore{}, false, fmt.Errorf("failed to get personal best: %w", err)
		}
		return best, found, nil
	}

	scores, err := s.TopScores(ctx, mode, model.MaxScoresPerMode)
	if err != nil {
		return model.GameScore{}, false, err
	}
	// Scores come highest first, so the first match is the best.
	for _, sc := range scores {
		if sc.PlayerID == playerID {
			return sc, true, nil
		}
	}
	return model.GameScore{}, false, nil
}
