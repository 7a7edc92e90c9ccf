package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"culinary-quest/internal/model"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Zero(t, r.Count())

	assert.ErrorIs(t, r.Register(nil), ErrNilPolicy)
	assert.ErrorIs(t, r.Register(PolicyFunc{GameMode: "bogus"}), ErrUnknownMode)

	require.NoError(t, r.Register(TasteTestPolicy()))
	require.NoError(t, r.Register(CulinaryChallengePolicy()))
	assert.Equal(t, 2, r.Count())
	assert.Equal(t, []model.GameMode{model.ModeCulinaryChallenge, model.ModeTasteTest}, r.Modes())

	p, ok := r.Get(model.ModeTasteTest)
	require.True(t, ok)
	assert.Equal(t, model.ModeTasteTest, p.Mode())

	assert.True(t, r.Unregister(model.ModeTasteTest))
	assert.False(t, r.Unregister(model.ModeTasteTest))
	_, ok = r.Get(model.ModeTasteTest)
	assert.False(t, ok)
}

func TestDefaultRegistry_HasEveryMode(t *testing.T) {
	r := NewDefaultRegistry()
	assert.Equal(t, model.GameModes(), r.Modes())
}

func TestEngine_CustomPolicy(t *testing.T) {
	r := NewDefaultRegistry()
	tomato := testIngredients()[0]
	require.NoError(t, r.Register(PolicyFunc{GameMode: model.ModeARHunt, Fn: func(SetupRequest) Setup {
		return Setup{Pool: []model.Ingredient{tomato}, Completion: model.ModeIngredientMastery}
	}}))

	e := newTestEngine(t, newFakeCatalog(), newFakeGateway(), WithRegistry(r))
	e.StartGame(t.Context(), model.ModeARHunt, model.DifficultyEasy)
	require.Len(t, e.Snapshot().Pool, 1)

	require.True(t, e.GuessIngredient(t.Context(), "Tomato"))
	assert.Equal(t, StateEnded, e.State())
}

func TestEngine_PoolSizeOverride(t *testing.T) {
	e := newTestEngine(t, newFakeCatalog(), newFakeGateway(), WithPoolSizes(map[model.GameMode]PoolSizes{
		model.ModeCulinaryChallenge: {Easy: 2, Medium: 4, Hard: 6},
	}))

	e.StartGame(t.Context(), model.ModeCulinaryChallenge, model.DifficultyHard)
	assert.Len(t, e.Snapshot().Pool, 6)

	e.StartGame(t.Context(), model.ModeIngredientMastery, model.DifficultyEasy)
	assert.Len(t, e.Snapshot().Pool, 5, "other modes keep their defaults")
}

func TestDailyQuestPolicy_Delegation(t *testing.T) {
	cat := newFakeCatalog()
	registry := NewDefaultRegistry()
	expires := time.Now().Add(time.Hour)

	tests := []struct {
		questType  model.QuestType
		wantPool   int
		completion model.GameMode
		withRecipe bool
	}{
		{model.QuestCreateRecipes, 5, model.ModeCulinaryChallenge, false},
		{model.QuestPerfectGame, 5, model.ModeCulinaryChallenge, false},
		{model.QuestIdentifyIngredients, 5, model.ModeIngredientMastery, false},
		{model.QuestSpeedChallenge, 3, model.ModeTasteTest, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.questType), func(t *testing.T) {
			q := model.DailyQuest{ID: uuid.New(), Type: tt.questType, Target: 1, ExpiresAt: expires}
			setup := DailyQuestPolicy().Setup(SetupRequest{
				Catalog:     cat,
				Difficulty:  model.DifficultyHard,
				Sizes:       DefaultPoolSizes(),
				ActiveQuest: func() (model.DailyQuest, bool) { return q, true },
				Registry:    registry,
			})

			assert.Len(t, setup.Pool, tt.wantPool)
			assert.Equal(t, tt.completion, setup.Completion)
			assert.Equal(t, tt.withRecipe, setup.Recipe != nil)
			require.NotNil(t, setup.Quest)
			assert.Equal(t, q.ID, setup.Quest.ID)
		})
	}
}

func TestDailyQuestPolicy_NoQuest(t *testing.T) {
	setup := DailyQuestPolicy().Setup(SetupRequest{
		Catalog:     newFakeCatalog(),
		Difficulty:  model.DifficultyEasy,
		Sizes:       DefaultPoolSizes(),
		ActiveQuest: func() (model.DailyQuest, bool) { return model.DailyQuest{}, false },
		Registry:    NewDefaultRegistry(),
	})

	assert.Empty(t, setup.Pool)
	assert.Nil(t, setup.Quest)
	assert.Equal(t, model.ModeDailyQuest, setup.Completion)
}

func TestPoolSizes_For(t *testing.T) {
	s := PoolSizes{Easy: 1, Medium: 2, Hard: 3}
	assert.Equal(t, 1, s.For(model.DifficultyEasy))
	assert.Equal(t, 2, s.For(model.DifficultyMedium))
	assert.Equal(t, 3, s.For(model.DifficultyHard))
	assert.Equal(t, 1, s.For("unknown"))
}
