package model

import "fmt"

// GameMode is one of the fixed ways a session can be played.
type GameMode string

const (
	ModeCulinaryChallenge GameMode = "culinary_challenge"
	ModeTasteTest         GameMode = "taste_test"
	ModeIngredientMastery GameMode = "ingredient_mastery"
	ModeDailyQuest        GameMode = "daily_quest"
	ModeARHunt            GameMode = "ar_hunt"
)

// ModeInfo holds display metadata for a game mode.
type ModeInfo struct {
	Title       string
	Description string
	Icon        string
}

var modeInfo = map[GameMode]ModeInfo{
	ModeCulinaryChallenge: {"Culinary Challenge", "Pick ingredients and combine them into recipes", "🍳"},
	ModeTasteTest:         {"Taste Test", "Name every ingredient of a mystery recipe", "👅"},
	ModeIngredientMastery: {"Ingredient Mastery", "Identify as many ingredients as you can", "🥕"},
	ModeDailyQuest:        {"Daily Quest", "Complete today's special challenge", "📜"},
	ModeARHunt:            {"AR Hunt", "Find real ingredients around you", "🔍"},
}

// GameModes returns every game mode in menu order.
func GameModes() []GameMode {
	return []GameMode{ModeCulinaryChallenge, ModeTasteTest, ModeIngredientMastery, ModeDailyQuest, ModeARHunt}
}

// Info returns the display metadata of the mode.
func (m GameMode) Info() ModeInfo {
	return modeInfo[m]
}

// Valid reports whether m is a known mode.
func (m GameMode) Valid() bool {
	_, ok := modeInfo[m]
	return ok
}

// ParseGameMode converts a mode name into a GameMode.
func ParseGameMode(s string) (GameMode, error) {
	m := GameMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("unknown game mode %q", s)
	}
	return m, nil
}

// Difficulty is the difficulty chosen when starting a session.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties returns every difficulty from easiest to hardest.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// TimeLimit returns the session length in seconds.
func (d Difficulty) TimeLimit() int {
	switch d {
	case DifficultyEasy:
		return 90
	case DifficultyMedium:
		return 60
	case DifficultyHard:
		return 30
	default:
		return 0
	}
}

// PointMultiplier scales experience earned from a session score.
func (d Difficulty) PointMultiplier() float64 {
	switch d {
	case DifficultyEasy:
		return 1.0
	case DifficultyMedium:
		return 1.5
	case DifficultyHard:
		return 2.0
	default:
		return 1.0
	}
}

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// ParseDifficulty converts a difficulty name into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	if !d.Valid() {
		return "", fmt.Errorf("unknown difficulty %q", s)
	}
	return d, nil
}
