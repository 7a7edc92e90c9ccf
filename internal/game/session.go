package game

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"culinary-quest/internal/achievement"
	"culinary-quest/internal/model"
	"culinary-quest/internal/progression"
	"culinary-quest/internal/quest"
)

// recipeCategoryBonus is added per distinct category in a created recipe.
const recipeCategoryBonus = 10

// StartGame begins a session. An active session is discarded without
// results. Unknown modes and difficulties are ignored.
func (e *Engine) StartGame(ctx context.Context, mode model.GameMode, d model.Difficulty) {
	if !mode.Valid() || !d.Valid() {
		log.Warn().Str("mode", string(mode)).Str("difficulty", string(d)).Msg("Ignoring start with unknown mode or difficulty")
		return
	}

	e.run(func() {
		e.initLocked(ctx)

		policy, ok := e.registry.Get(mode)
		if !ok {
			log.Warn().Str("mode", string(mode)).Msg("No policy registered for mode")
			return
		}

		if e.state == StateActive {
			log.Info().Str("player", e.playerID).Str("mode", string(e.mode)).Msg("Discarding active session")
			e.stopCountdown()
		}
		e.resetSession()

		e.mode = mode
		e.difficulty = d
		e.timeRemaining = d.TimeLimit()
		e.startedAt = e.now()

		setup := policy.Setup(SetupRequest{
			Catalog:     e.catalog,
			Difficulty:  d,
			Sizes:       e.sizes,
			ActiveQuest: e.selectQuest,
			Registry:    e.registry,
		})
		e.pool = setup.Pool
		for _, ing := range setup.Pool {
			e.poolNames[normalizeName(ing.Name)] = struct{}{}
		}
		e.recipe = setup.Recipe
		e.activeQuest = setup.Quest
		e.completion = setup.Completion
		if e.completion == "" {
			e.completion = mode
		}

		e.progress.GamesPlayed++
		e.saveProgress(ctx)

		e.state = StateActive
		e.gen++
		e.countdown = startCountdown(e.tickInterval, e.gen, e.tick)

		log.Info().
			Str("player", e.playerID).
			Str("mode", string(mode)).
			Str("difficulty", string(d)).
			Int("pool", len(e.pool)).
			Msg("Session started")

		e.emitState()
		e.emitScore()
		e.emitTime()
	})
}

// SelectIngredient adds a pool ingredient to the selections and credits its
// points. Selecting an ingredient that is already selected does nothing; one
// already credited this session is selected without points.
func (e *Engine) SelectIngredient(ctx context.Context, ing model.Ingredient) {
	e.run(func() {
		if e.state != StateActive {
			return
		}
		if !e.inPool(ing) || e.isSelected(ing) {
			return
		}

		e.selected = append(e.selected, ing)
		name := normalizeName(ing.Name)
		if _, done := e.credited[name]; done {
			e.used[ing.Key()] = false
			return
		}
		e.used[ing.Key()] = true
		e.credited[name] = struct{}{}
		e.credit(ctx, ing)
		e.checkCompletion(ctx)
	})
}

// RemoveSelectedIngredient drops a selection and takes back the points it
// credited. The score never goes below zero.
func (e *Engine) RemoveSelectedIngredient(ctx context.Context, ing model.Ingredient) {
	e.run(func() {
		if e.state != StateActive {
			return
		}
		idx := slices.IndexFunc(e.selected, ing.Equal)
		if idx < 0 {
			return
		}

		e.selected = slices.Delete(e.selected, idx, idx+1)
		if e.used[ing.Key()] {
			delete(e.credited, normalizeName(ing.Name))
			e.score = max(0, e.score-ing.Points())
		}
		delete(e.used, ing.Key())
		e.emitScore()
	})
}

// GuessIngredient credits a pool ingredient named by text. Matching ignores
// case and surrounding whitespace. An ingredient already credited this
// session by a guess or a selection is rejected.
func (e *Engine) GuessIngredient(ctx context.Context, text string) bool {
	var ok bool
	e.run(func() {
		if e.state != StateActive {
			return
		}
		name := normalizeName(text)
		if name == "" {
			return
		}
		if _, inPool := e.poolNames[name]; !inPool {
			return
		}
		if _, done := e.credited[name]; done {
			return
		}

		idx := slices.IndexFunc(e.pool, func(ing model.Ingredient) bool {
			return normalizeName(ing.Name) == name
		})
		e.guessed[name] = struct{}{}
		e.credited[name] = struct{}{}
		e.credit(ctx, e.pool[idx])
		e.checkCompletion(ctx)
		ok = true
	})
	return ok
}

// CreateRecipe combines two or more selections into a recipe. The bonus is
// the selections' points plus a per-category bonus. Selections are cleared.
func (e *Engine) CreateRecipe(ctx context.Context) bool {
	var ok bool
	e.run(func() {
		if e.state != StateActive || len(e.selected) < 2 {
			return
		}

		bonus := 0
		for _, ing := range e.selected {
			bonus += ing.Points()
		}
		bonus += recipeCategoryBonus * model.DistinctCategories(e.selected)

		e.score += bonus
		e.recipesCreated++
		e.selected = nil

		log.Debug().Str("player", e.playerID).Int("bonus", bonus).Int("recipes", e.recipesCreated).Msg("Recipe created")
		e.emitScore()
		e.checkCompletion(ctx)
		ok = true
	})
	return ok
}

// EndGame finishes the active session. It does nothing in any other state.
func (e *Engine) EndGame(ctx context.Context) {
	e.run(func() {
		if e.state != StateActive {
			return
		}
		e.endLocked(ctx)
	})
}

// ReturnToMainMenu clears an ended session.
func (e *Engine) ReturnToMainMenu() {
	e.run(func() {
		if e.state != StateEnded {
			return
		}
		e.resetSession()
		e.state = StateIdle
		e.emitState()
	})
}

func (e *Engine) tick(gen uint64) {
	e.run(func() {
		if e.state != StateActive || gen != e.gen {
			return
		}
		if e.timeRemaining > 0 {
			e.timeRemaining--
		}
		e.emitTime()
		if e.timeRemaining == 0 {
			log.Info().Str("player", e.playerID).Str("mode", string(e.mode)).Msg("Time is up")
			e.endLocked(context.Background())
		}
	})
}

func (e *Engine) stopCountdown() {
	e.countdown.Stop()
	e.countdown = nil
	e.gen++
}

func (e *Engine) resetSession() {
	e.mode = ""
	e.difficulty = ""
	e.completion = ""
	e.score = 0
	e.timeRemaining = 0
	e.startedAt = time.Time{}
	e.pool = nil
	e.poolNames = make(map[string]struct{})
	e.selected = nil
	e.used = make(map[string]bool)
	e.guessed = make(map[string]struct{})
	e.credited = make(map[string]struct{})
	e.discovered = make(map[string]struct{})
	e.recipesCreated = 0
	e.recipe = nil
	e.activeQuest = nil
	e.results = nil
}

func (e *Engine) inPool(ing model.Ingredient) bool {
	return slices.ContainsFunc(e.pool, ing.Equal)
}

func (e *Engine) isSelected(ing model.Ingredient) bool {
	return slices.ContainsFunc(e.selected, ing.Equal)
}

// credit adds an ingredient's points and records it as discovered.
func (e *Engine) credit(ctx context.Context, ing model.Ingredient) {
	e.score += ing.Points()
	e.discovered[normalizeName(ing.Name)] = struct{}{}
	if e.progress.Discover(ing.Name) {
		e.saveProgress(ctx)
	}
	e.emitScore()
}

// checkCompletion ends guess-driven sessions once every pool ingredient is
// credited. Selection-driven sessions end only by EndGame or the countdown.
func (e *Engine) checkCompletion(ctx context.Context) {
	switch e.completion {
	case model.ModeTasteTest, model.ModeIngredientMastery:
		if len(e.poolNames) > 0 && len(e.credited) >= len(e.poolNames) {
			e.endLocked(ctx)
		}
	}
}

// accuracy is the share of the pool the player credited. Selection ratio
// for selection-driven sessions, credited names otherwise.
func (e *Engine) accuracy() float64 {
	if len(e.pool) == 0 {
		return 0
	}
	switch e.completion {
	case model.ModeCulinaryChallenge:
		return float64(len(e.used)) / float64(len(e.pool))
	default:
		if len(e.poolNames) == 0 {
			return 0
		}
		return float64(len(e.credited)) / float64(len(e.poolNames))
	}
}

func (e *Engine) endLocked(ctx context.Context) {
	e.stopCountdown()

	now := e.now()
	elapsed := now.Sub(e.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	accuracy := e.accuracy()

	outcome := progression.ApplyGameResult(&e.progress, e.score, e.difficulty)
	if outcome.LeveledUp {
		e.markLevelUp()
	}

	if e.mode == model.ModeTasteTest && e.recipe != nil && accuracy >= 1 {
		e.progress.UnlockRecipe(e.recipe.Name)
		e.progress.AddFavoriteCuisine(e.recipe.Cuisine)
	}

	questCompleted := e.completeQuest(ctx, now, accuracy)

	e.results = &model.GameResults{
		FinalScore:            e.score,
		Mode:                  e.mode,
		Difficulty:            e.difficulty,
		Elapsed:               elapsed,
		TimeRemaining:         e.timeRemaining,
		Accuracy:              accuracy,
		IngredientsDiscovered: len(e.discovered),
		RecipesCreated:        e.recipesCreated,
		XPGained:              outcome.XPGained,
		IsNewBest:             outcome.IsNewBest,
		LeveledUp:             outcome.LeveledUp,
		NewLevel:              outcome.NewLevel,
		QuestCompleted:        questCompleted,
	}
	e.saveProgress(ctx)

	score := model.GameScore{
		ID:         uuid.New(),
		PlayerID:   e.playerID,
		PlayerName: e.playerName,
		Score:      e.score,
		Mode:       e.mode,
		Difficulty: e.difficulty,
		PlayedAt:   now,
		Elapsed:    elapsed,
	}
	if err := e.gateway.AppendScore(ctx, score); err != nil {
		log.Error().Err(err).Str("player", e.playerID).Str("op", "append_score").Msg("Failed to persist score")
	}

	e.state = StateEnded

	log.Info().
		Str("player", e.playerID).
		Str("mode", string(e.mode)).
		Int("score", e.score).
		Float64("accuracy", accuracy).
		Int("xp", outcome.XPGained).
		Dur("elapsed", elapsed).
		Msg("Session ended")

	e.emitState()

	e.evaluateAchievements(ctx, &achievement.Session{TimeRemaining: e.timeRemaining})
	if e.checkLevelUp(ctx) && e.results != nil {
		e.results.LeveledUp = true
		e.results.NewLevel = e.progress.Level
	}
}

// completeQuest rewards the session's daily quest if its objective was met.
func (e *Engine) completeQuest(ctx context.Context, now time.Time, accuracy float64) bool {
	if e.activeQuest == nil {
		return false
	}
	if _, done := e.questCompletions[e.activeQuest.ID]; done {
		return false
	}

	met := quest.ObjectiveMet(*e.activeQuest, quest.Progress{
		RecipesCreated:        e.recipesCreated,
		IngredientsGuessed:    len(e.guessed),
		IngredientsDiscovered: len(e.discovered),
		TimeRemaining:         e.timeRemaining,
		Accuracy:              accuracy,
	})
	if !met {
		return false
	}

	completed := e.activeQuest.Complete(now)
	e.activeQuest = &completed
	e.questCompletions[completed.ID] = now
	e.progress.TotalXP += completed.Reward.XP

	if err := e.gateway.SaveQuestCompletion(ctx, completed.ID, now); err != nil {
		log.Error().Err(err).Str("player", e.playerID).Str("op", "save_quest").Msg("Failed to persist quest completion")
	}

	log.Info().Str("player", e.playerID).Str("quest", completed.Title).Int("xp", completed.Reward.XP).Msg("Daily quest completed")
	e.emit(Event{Kind: EventQuestCompleted, State: e.state, Quest: &completed})
	return true
}
