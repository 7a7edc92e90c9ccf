package quest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"culinary-quest/internal/model"
)

var testTemplates = []Template{
	{Title: "Recipe Maker", Type: model.QuestCreateRecipes, Target: 2, RewardXP: 100},
	{Title: "Sharp Eye", Type: model.QuestIdentifyIngredients, Target: 5, RewardXP: 80},
	{Title: "World Tour", Type: model.QuestExploreNewCuisine, Target: 4, RewardXP: 120,
		Cuisines: []model.Cuisine{model.CuisineItalian, model.CuisineJapanese}},
	{Title: "Quick Tongue", Type: model.QuestSpeedChallenge, Target: 10, RewardXP: 150},
}

func TestGenerateIsDeterministicPerDay(t *testing.T) {
	morning := time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 6, 10, 22, 0, 0, 0, time.UTC)

	a := Generate(morning, time.UTC, testTemplates)
	b := Generate(evening, time.UTC, testTemplates)

	require.Len(t, a, PerDay)
	assert.Equal(t, a, b)
	for _, q := range a {
		assert.Equal(t, time.Date(2026, 6, 10, 23, 59, 59, 999999999, time.UTC), q.ExpiresAt)
		assert.True(t, q.IsActive(evening))
	}

	next := Generate(morning.AddDate(0, 0, 1), time.UTC, testTemplates)
	assert.NotEqual(t, a[0].ID, next[0].ID)
}

func TestGenerateWithoutTemplates(t *testing.T) {
	assert.Empty(t, Generate(time.Now(), nil, nil))
}

func TestSelectActive(t *testing.T) {
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	expired := model.DailyQuest{ID: uuid.New(), Title: "old", ExpiresAt: now.Add(-time.Minute)}
	done := model.DailyQuest{ID: uuid.New(), Title: "done", ExpiresAt: now.Add(time.Hour)}
	later := model.DailyQuest{ID: uuid.New(), Title: "later", ExpiresAt: now.Add(3 * time.Hour)}
	sooner := model.DailyQuest{ID: uuid.New(), Title: "sooner", ExpiresAt: now.Add(2 * time.Hour)}

	completed := map[uuid.UUID]time.Time{done.ID: now.Add(-time.Hour)}

	q, ok := SelectActive([]model.DailyQuest{expired, done, later, sooner}, completed, now)
	require.True(t, ok)
	assert.Equal(t, "sooner", q.Title)

	_, ok = SelectActive([]model.DailyQuest{expired, done}, completed, now)
	assert.False(t, ok)
}

func TestQuestExpiryIsRecomputed(t *testing.T) {
	expires := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	q := model.DailyQuest{ExpiresAt: expires}

	assert.True(t, q.IsActive(expires))
	assert.False(t, q.IsActive(expires.Add(time.Second)))
}

func TestPlanFor(t *testing.T) {
	tests := []struct {
		quest model.DailyQuest
		want  Plan
	}{
		{model.DailyQuest{Type: model.QuestCreateRecipes}, Plan{Mode: model.ModeCulinaryChallenge, Difficulty: model.DifficultyMedium}},
		{model.DailyQuest{Type: model.QuestIdentifyIngredients}, Plan{Mode: model.ModeIngredientMastery, Difficulty: model.DifficultyEasy}},
		{model.DailyQuest{Type: model.QuestExploreNewCuisine, Criteria: "thai"}, Plan{Mode: model.ModeIngredientMastery, Difficulty: model.DifficultyMedium, Cuisine: model.CuisineThai}},
		{model.DailyQuest{Type: model.QuestSpeedChallenge}, Plan{Mode: model.ModeTasteTest, Difficulty: model.DifficultyHard}},
		{model.DailyQuest{Type: model.QuestPerfectGame}, Plan{Mode: model.ModeCulinaryChallenge, Difficulty: model.DifficultyMedium}},
	}

	for _, tt := range tests {
		t.Run(string(tt.quest.Type), func(t *testing.T) {
			assert.Equal(t, tt.want, PlanFor(tt.quest))
		})
	}
}

func TestObjectiveMet(t *testing.T) {
	assert.True(t, ObjectiveMet(model.DailyQuest{Type: model.QuestCreateRecipes, Target: 2}, Progress{RecipesCreated: 2}))
	assert.False(t, ObjectiveMet(model.DailyQuest{Type: model.QuestCreateRecipes, Target: 2}, Progress{RecipesCreated: 1}))
	assert.True(t, ObjectiveMet(model.DailyQuest{Type: model.QuestIdentifyIngredients, Target: 3}, Progress{IngredientsGuessed: 3}))
	assert.True(t, ObjectiveMet(model.DailyQuest{Type: model.QuestExploreNewCuisine, Target: 4}, Progress{IngredientsDiscovered: 5}))
	assert.False(t, ObjectiveMet(model.DailyQuest{Type: model.QuestSpeedChallenge, Target: 10}, Progress{TimeRemaining: 9}))
	assert.True(t, ObjectiveMet(model.DailyQuest{Type: model.QuestPerfectGame}, Progress{Accuracy: 1.0}))
	assert.False(t, ObjectiveMet(model.DailyQuest{Type: model.QuestPerfectGame}, Progress{Accuracy: 0.8}))
}
