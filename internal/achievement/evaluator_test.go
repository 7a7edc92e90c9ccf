package achievement

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"culinary-quest/internal/model"
)

func TestSatisfied(t *testing.T) {
	p := model.NewPlayerProgress("p1")
	p.TotalScore = 500
	p.GamesPlayed = 3
	p.DiscoveredIngredients = []string{"Tomato", "Basil"}
	p.StreakDays = 30

	tests := []struct {
		name    string
		req     model.Requirement
		session *Session
		want    bool
	}{
		{"total score met", model.TotalScoreRequirement{Value: 500}, nil, true},
		{"total score short", model.TotalScoreRequirement{Value: 501}, nil, false},
		{"games played", model.GamesPlayedRequirement{Value: 3}, nil, true},
		{"discovered", model.IngredientsDiscoveredRequirement{Value: 2}, nil, true},
		{"discovered short", model.IngredientsDiscoveredRequirement{Value: 3}, nil, false},
		{"time record without session", model.TimeRecordRequirement{Seconds: 10}, nil, false},
		{"time record met", model.TimeRecordRequirement{Seconds: 10}, &Session{TimeRemaining: 50}, true},
		{"time record short", model.TimeRecordRequirement{Seconds: 10}, &Session{TimeRemaining: 49}, false},
		{"perfect games never", model.PerfectGamesRequirement{Value: 0}, &Session{}, false},
		{"recipes completed never", model.RecipesCompletedRequirement{Value: 0}, &Session{}, false},
		{"streak days never", model.StreakDaysRequirement{Value: 1}, &Session{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Satisfied(tt.req, p, tt.session))
		})
	}
}

func TestEvaluateUnlocksAndCreditsXP(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	list := []model.Achievement{
		{ID: "first_game", XPReward: 50, Requirement: model.GamesPlayedRequirement{Value: 1}},
		{ID: "big_score", XPReward: 200, Requirement: model.TotalScoreRequirement{Value: 10_000}},
		{ID: "streak", XPReward: 100, Requirement: model.StreakDaysRequirement{Value: 1}},
	}
	p := model.NewPlayerProgress("p1")
	p.GamesPlayed = 1

	updated, unlocked := Evaluate(list, &p, nil, now)

	require.Len(t, unlocked, 1)
	assert.Equal(t, "first_game", unlocked[0].ID)
	assert.True(t, updated[0].Unlocked)
	require.NotNil(t, updated[0].UnlockedAt)
	assert.Equal(t, now, *updated[0].UnlockedAt)
	assert.False(t, updated[1].Unlocked)
	assert.False(t, updated[2].Unlocked)
	assert.Equal(t, 50, p.TotalXP)

	// The input list is left untouched.
	assert.False(t, list[0].Unlocked)
}

func TestEvaluateIsMonotonic(t *testing.T) {
	earlier := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	list := []model.Achievement{
		model.Achievement{ID: "first_game", XPReward: 50, Requirement: model.GamesPlayedRequirement{Value: 1}}.Unlock(earlier),
	}
	p := model.NewPlayerProgress("p1")

	updated, unlocked := Evaluate(list, &p, nil, time.Now())
	assert.Empty(t, unlocked)
	assert.True(t, updated[0].Unlocked)
	assert.Equal(t, earlier, *updated[0].UnlockedAt)
	assert.Zero(t, p.TotalXP)
}
