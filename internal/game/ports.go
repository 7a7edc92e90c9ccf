// Package game implements the game session state machine: mode setup,
// scoring, the countdown, completion, and the progression, achievement and
// quest updates that follow a finished session.
package game

import (
	"context"
	"time"

	"github.com/google/uuid"

	"culinary-quest/internal/model"
)

// Catalog supplies immutable content and random selection queries.
type Catalog interface {
	// RandomIngredients samples up to count ingredients without replacement,
	// skipping the excluded rarities.
	RandomIngredients(count int, exclude ...model.Rarity) []model.Ingredient
	RandomRecipe() (model.Recipe, error)
	IngredientsForCuisine(cuisine model.Cuisine) []model.Ingredient
	// ActiveDailyQuests may include completed or expired quests.
	ActiveDailyQuests() []model.DailyQuest
	AllAchievements() []model.Achievement
}

// Gateway persists the state of one player. Failures are reported but the
// engine never rolls back in-memory state because of them.
type Gateway interface {
	// LoadProgress returns default progress when nothing is stored yet.
	LoadProgress(ctx context.Context) (model.PlayerProgress, error)
	SaveProgress(ctx context.Context, p model.PlayerProgress) error

	// AppendScore records a score and trims its mode to the top
	// model.MaxScoresPerMode entries.
	AppendScore(ctx context.Context, s model.GameScore) error
	TopScores(ctx context.Context, mode model.GameMode, limit int) ([]model.GameScore, error)

	LoadAchievements(ctx context.Context) ([]model.Achievement, error)
	SaveAchievements(ctx context.Context, list []model.Achievement) error

	// IsFirstLaunch reports true exactly once, then flips the flag.
	IsFirstLaunch(ctx context.Context) (bool, error)

	LoadQuestCompletions(ctx context.Context) (map[uuid.UUID]time.Time, error)
	SaveQuestCompletion(ctx context.Context, questID uuid.UUID, at time.Time) error
}
