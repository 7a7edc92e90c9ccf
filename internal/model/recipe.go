package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// RecipeDifficulty is the difficulty tier of a recipe.
type RecipeDifficulty string

const (
	RecipeBeginner     RecipeDifficulty = "beginner"
	RecipeIntermediate RecipeDifficulty = "intermediate"
	RecipeAdvanced     RecipeDifficulty = "advanced"
	RecipeExpert       RecipeDifficulty = "expert"
)

// Recipe is an immutable catalog recipe.
type Recipe struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Ingredients  []Ingredient     `json:"ingredients"`
	Cuisine      Cuisine          `json:"cuisine"`
	Difficulty   RecipeDifficulty `json:"difficulty"`
	CookingTime  time.Duration    `json:"cooking_time"`
	Description  string           `json:"description"`
	Instructions []string         `json:"instructions"`
}

// Key identifies a recipe by name, cuisine and difficulty.
func (r Recipe) Key() string {
	return strings.Join([]string{r.Name, string(r.Cuisine), string(r.Difficulty)}, "|")
}

// Equal compares two recipes by name, cuisine and difficulty.
func (r Recipe) Equal(other Recipe) bool {
	return r.Key() == other.Key()
}
