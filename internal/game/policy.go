package game

import (
	"github.com/rs/zerolog/log"

	"culinary-quest/internal/model"
	"culinary-quest/internal/quest"
)

// PoolSizes is the ingredient pool size of a mode at each difficulty.
type PoolSizes struct {
	Easy   int
	Medium int
	Hard   int
}

// For returns the size for difficulty d.
func (p PoolSizes) For(d model.Difficulty) int {
	switch d {
	case model.DifficultyEasy:
		return p.Easy
	case model.DifficultyMedium:
		return p.Medium
	case model.DifficultyHard:
		return p.Hard
	default:
		return p.Easy
	}
}

// DefaultPoolSizes returns the built-in pool sizes of the random-pool modes.
func DefaultPoolSizes() map[model.GameMode]PoolSizes {
	return map[model.GameMode]PoolSizes{
		model.ModeCulinaryChallenge: {Easy: 3, Medium: 5, Hard: 7},
		model.ModeIngredientMastery: {Easy: 5, Medium: 8, Hard: 12},
		model.ModeARHunt:            {Easy: 3, Medium: 5, Hard: 8},
	}
}

// Setup is what a mode policy prepares for a new session.
type Setup struct {
	Pool   []model.Ingredient
	Recipe *model.Recipe
	// Completion is the mode whose completion rule the session follows.
	Completion model.GameMode
	Quest      *model.DailyQuest
}

// SetupRequest carries everything a policy may draw on.
type SetupRequest struct {
	Catalog    Catalog
	Difficulty model.Difficulty
	Sizes      map[model.GameMode]PoolSizes
	// ActiveQuest returns the quest a daily quest session should play.
	ActiveQuest func() (model.DailyQuest, bool)
	Registry    *Registry
}

func (r SetupRequest) size(mode model.GameMode) int {
	return r.Sizes[mode].For(r.Difficulty)
}

// Policy populates a session for one game mode.
type Policy interface {
	Mode() model.GameMode
	Setup(req SetupRequest) Setup
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc struct {
	GameMode model.GameMode
	Fn       func(req SetupRequest) Setup
}

// Mode returns the mode the policy serves.
func (p PolicyFunc) Mode() model.GameMode { return p.GameMode }

// Setup runs the wrapped function.
func (p PolicyFunc) Setup(req SetupRequest) Setup { return p.Fn(req) }

// CulinaryChallengePolicy draws random ingredients to combine into recipes.
// The session ends only when the player ends it or time runs out.
func CulinaryChallengePolicy() Policy {
	return PolicyFunc{GameMode: model.ModeCulinaryChallenge, Fn: func(req SetupRequest) Setup {
		return Setup{
			Pool:       req.Catalog.RandomIngredients(req.size(model.ModeCulinaryChallenge)),
			Completion: model.ModeCulinaryChallenge,
		}
	}}
}

// TasteTestPolicy uses the ingredients of one random recipe.
func TasteTestPolicy() Policy {
	return PolicyFunc{GameMode: model.ModeTasteTest, Fn: func(req SetupRequest) Setup {
		setup := Setup{Completion: model.ModeTasteTest}
		recipe, err := req.Catalog.RandomRecipe()
		if err != nil {
			log.Warn().Err(err).Msg("No recipe available for taste test, starting with an empty pool")
			return setup
		}
		setup.Recipe = &recipe
		setup.Pool = model.Dedupe(recipe.Ingredients)
		return setup
	}}
}

// IngredientMasteryPolicy draws random ingredients to identify.
func IngredientMasteryPolicy() Policy {
	return PolicyFunc{GameMode: model.ModeIngredientMastery, Fn: func(req SetupRequest) Setup {
		return Setup{
			Pool:       req.Catalog.RandomIngredients(req.size(model.ModeIngredientMastery)),
			Completion: model.ModeIngredientMastery,
		}
	}}
}

// ARHuntPolicy draws random non-legendary ingredients to find. It completes
// like ingredient mastery, once every ingredient is found.
func ARHuntPolicy() Policy {
	return PolicyFunc{GameMode: model.ModeARHunt, Fn: func(req SetupRequest) Setup {
		return Setup{
			Pool:       req.Catalog.RandomIngredients(req.size(model.ModeARHunt), model.RarityLegendary),
			Completion: model.ModeIngredientMastery,
		}
	}}
}

// DailyQuestPolicy plays the active daily quest through the mode it
// delegates to. Without an active quest the pool stays empty.
func DailyQuestPolicy() Policy {
	return PolicyFunc{GameMode: model.ModeDailyQuest, Fn: func(req SetupRequest) Setup {
		if req.ActiveQuest == nil {
			return Setup{Completion: model.ModeDailyQuest}
		}
		q, ok := req.ActiveQuest()
		if !ok {
			log.Info().Msg("No active daily quest, starting with an empty pool")
			return Setup{Completion: model.ModeDailyQuest}
		}

		plan := quest.PlanFor(q)
		var setup Setup
		if plan.Cuisine != "" {
			setup = Setup{
				Pool:       model.Dedupe(req.Catalog.IngredientsForCuisine(plan.Cuisine)),
				Completion: model.ModeIngredientMastery,
			}
		} else {
			delegate, ok := req.Registry.Get(plan.Mode)
			if !ok || plan.Mode == model.ModeDailyQuest {
				return Setup{Completion: model.ModeDailyQuest, Quest: &q}
			}
			sub := req
			sub.Difficulty = plan.Difficulty
			setup = delegate.Setup(sub)
		}
		setup.Quest = &q
		return setup
	}}
}

// DefaultPolicies returns the policies of every built-in mode.
func DefaultPolicies() []Policy {
	return []Policy{
		CulinaryChallengePolicy(),
		TasteTestPolicy(),
		IngredientMasteryPolicy(),
		DailyQuestPolicy(),
		ARHuntPolicy(),
	}
}
