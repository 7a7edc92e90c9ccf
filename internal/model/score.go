package model

import (
	"time"

	"github.com/google/uuid"
)

// MaxScoresPerMode is how many scores the leaderboard keeps for each mode.
const MaxScoresPerMode = 100

// GameScore is an immutable record of one completed session.
type GameScore struct {
	ID         uuid.UUID     `db:"id"`
	PlayerID   string        `db:"player_id"`
	PlayerName string        `db:"player_name"`
	Score      int           `db:"score"`
	Mode       GameMode      `db:"mode"`
	Difficulty Difficulty    `db:"difficulty"`
	PlayedAt   time.Time     `db:"played_at"`
	Elapsed    time.Duration `db:"elapsed"`
}

// GameResults is the snapshot produced when a session ends.
type GameResults struct {
	FinalScore            int
	Mode                  GameMode
	Difficulty            Difficulty
	Elapsed               time.Duration
	TimeRemaining         int
	Accuracy              float64
	IngredientsDiscovered int
	RecipesCreated        int
	XPGained              int
	IsNewBest             bool
	LeveledUp             bool
	NewLevel              int
	QuestCompleted        bool
}
