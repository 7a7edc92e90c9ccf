package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"culinary-quest/internal/model"
)

func TestGateway_ProgressRoundTrip(t *testing.T) {
	ctx := context.Background()
	g := NewStore().ForPlayer("p1")

	p, err := g.LoadProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, "p1", p.PlayerID)

	p.TotalXP = 250
	p.Discover("Basil")
	require.NoError(t, g.SaveProgress(ctx, p))

	// Mutating the caller's copy must not leak into the store.
	p.Discover("Thyme")

	loaded, err := g.LoadProgress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 250, loaded.TotalXP)
	assert.Equal(t, []string{"Basil"}, loaded.DiscoveredIngredients)
}

func TestGateway_PlayersAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	a := store.ForPlayer("a")
	b := store.ForPlayer("b")

	p := model.NewPlayerProgress("a")
	p.TotalScore = 99
	require.NoError(t, a.SaveProgress(ctx, p))

	loaded, err := b.LoadProgress(ctx)
	require.NoError(t, err)
	assert.Zero(t, loaded.TotalScore)
}

func TestGateway_AppendScoreKeepsTopPerMode(t *testing.T) {
	ctx := context.Background()
	g := NewStore().ForPlayer("p1")

	for i := 0; i < model.MaxScoresPerMode+20; i++ {
		require.NoError(t, g.AppendScore(ctx, model.GameScore{
			ID:    uuid.New(),
			Score: i,
			Mode:  model.ModeTasteTest,
		}))
	}
	require.NoError(t, g.AppendScore(ctx, model.GameScore{ID: uuid.New(), Score: 5, Mode: model.ModeARHunt}))

	all, err := g.TopScores(ctx, model.ModeTasteTest, 0)
	require.NoError(t, err)
	require.Len(t, all, model.MaxScoresPerMode)
	assert.Equal(t, model.MaxScoresPerMode+19, all[0].Score)
	assert.Equal(t, 20, all[len(all)-1].Score)

	top, err := g.TopScores(ctx, model.ModeTasteTest, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.GreaterOrEqual(t, top[0].Score, top[1].Score)
	assert.GreaterOrEqual(t, top[1].Score, top[2].Score)

	ar, err := g.TopScores(ctx, model.ModeARHunt, 10)
	require.NoError(t, err)
	assert.Len(t, ar, 1)
}

func TestGateway_FirstLaunchFlipsOnce(t *testing.T) {
	ctx := context.Background()
	g := NewStore().ForPlayer("p1")

	first, err := g.IsFirstLaunch(ctx)
	require.NoError(t, err)
	assert.True(t, first)

	again, err := g.IsFirstLaunch(ctx)
	require.NoError(t, err)
	assert.False(t, again)
}

func TestGateway_AchievementsAndQuests(t *testing.T) {
	ctx := context.Background()
	g := NewStore().ForPlayer("p1")

	list, err := g.LoadAchievements(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	unlocked := model.Achievement{ID: "first_game"}.Unlock(time.Now())
	require.NoError(t, g.SaveAchievements(ctx, []model.Achievement{unlocked}))

	list, err = g.LoadAchievements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Unlocked)

	first := *list[0].UnlockedAt
	require.NoError(t, g.SaveAchievements(ctx, []model.Achievement{
		{ID: "first_game"},
		model.Achievement{ID: "streak_3"}.Unlock(time.Now()),
	}))
	list, err = g.LoadAchievements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.True(t, list[0].Unlocked, "unlocks are never lost")
	assert.True(t, list[0].UnlockedAt.Equal(first))
	assert.True(t, list[1].Unlocked)

	id := uuid.New()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, g.SaveQuestCompletion(ctx, id, at))

	done, err := g.LoadQuestCompletions(ctx)
	require.NoError(t, err)
	assert.Equal(t, at, done[id])
}
