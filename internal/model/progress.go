package model

import (
	"slices"
	"time"
)

// PlayerProgress is the durable per-player state.
type PlayerProgress struct {
	PlayerID              string     `json:"player_id"`
	Level                 int        `json:"level"`
	TotalXP               int        `json:"total_xp"`
	GamesPlayed           int        `json:"games_played"`
	TotalScore            int        `json:"total_score"`
	BestScore             int        `json:"best_score"`
	DiscoveredIngredients []string   `json:"discovered_ingredients"`
	UnlockedRecipes       []string   `json:"unlocked_recipes"`
	FavoriteCuisines      []Cuisine  `json:"favorite_cuisines"`
	StreakDays            int        `json:"streak_days"`
	LastPlayed            *time.Time `json:"last_played,omitempty"`
}

// NewPlayerProgress returns the zeroed default progress for a player.
func NewPlayerProgress(playerID string) PlayerProgress {
	return PlayerProgress{
		PlayerID:              playerID,
		Level:                 1,
		DiscoveredIngredients: []string{},
		UnlockedRecipes:       []string{},
		FavoriteCuisines:      []Cuisine{},
	}
}

// Discover records an ingredient name. Returns false if it was already known.
func (p *PlayerProgress) Discover(name string) bool {
	if slices.Contains(p.DiscoveredIngredients, name) {
		return false
	}
	p.DiscoveredIngredients = append(p.DiscoveredIngredients, name)
	return true
}

// UnlockRecipe records a recipe name. Returns false if it was already unlocked.
func (p *PlayerProgress) UnlockRecipe(name string) bool {
	if slices.Contains(p.UnlockedRecipes, name) {
		return false
	}
	p.UnlockedRecipes = append(p.UnlockedRecipes, name)
	return true
}

// AddFavoriteCuisine records a cuisine once.
func (p *PlayerProgress) AddFavoriteCuisine(c Cuisine) {
	if c == "" || slices.Contains(p.FavoriteCuisines, c) {
		return
	}
	p.FavoriteCuisines = append(p.FavoriteCuisines, c)
}

// Clone returns a deep copy safe to hand to other goroutines.
func (p PlayerProgress) Clone() PlayerProgress {
	out := p
	out.DiscoveredIngredients = slices.Clone(p.DiscoveredIngredients)
	out.UnlockedRecipes = slices.Clone(p.UnlockedRecipes)
	out.FavoriteCuisines = slices.Clone(p.FavoriteCuisines)
	if p.LastPlayed != nil {
		t := *p.LastPlayed
		out.LastPlayed = &t
	}
	return out
}
