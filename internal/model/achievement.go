package model

import (
	"fmt"
	"time"
)

// RequirementKind names a variant of Requirement.
type RequirementKind string

const (
	RequirementTotalScore            RequirementKind = "total_score"
	RequirementGamesPlayed           RequirementKind = "games_played"
	RequirementIngredientsDiscovered RequirementKind = "ingredients_discovered"
	RequirementTimeRecord            RequirementKind = "time_record"
	RequirementPerfectGames          RequirementKind = "perfect_games"
	RequirementRecipesCompleted      RequirementKind = "recipes_completed"
	RequirementStreakDays            RequirementKind = "streak_days"
)

// Requirement is the condition under which an achievement unlocks.
// The set of implementations is closed to this package.
type Requirement interface {
	Kind() RequirementKind
	Target() int
	isRequirement()
}

// TotalScoreRequirement is met once total score reaches Value.
type TotalScoreRequirement struct{ Value int }

// GamesPlayedRequirement is met once games played reaches Value.
type GamesPlayedRequirement struct{ Value int }

// IngredientsDiscoveredRequirement is met once Value ingredients are discovered.
type IngredientsDiscoveredRequirement struct{ Value int }

// TimeRecordRequirement is met when a session ends with at least Seconds
// saved against a 60 second baseline.
type TimeRecordRequirement struct{ Seconds int }

// PerfectGamesRequirement has no evaluation rule yet.
type PerfectGamesRequirement struct{ Value int }

// RecipesCompletedRequirement has no evaluation rule yet.
type RecipesCompletedRequirement struct{ Value int }

// StreakDaysRequirement has no evaluation rule yet.
type StreakDaysRequirement struct{ Value int }

func (r TotalScoreRequirement) Kind() RequirementKind {
	return RequirementTotalScore
}
func (r TotalScoreRequirement) Target() int {
	return r.Value
}
func (TotalScoreRequirement) isRequirement() {}

func (r GamesPlayedRequirement) Kind() RequirementKind {
	return RequirementGamesPlayed
}
func (r GamesPlayedRequirement) Target() int {
	return r.Value
}
func (GamesPlayedRequirement) isRequirement() {}

func (r IngredientsDiscoveredRequirement) Kind() RequirementKind {
	return RequirementIngredientsDiscovered
}
func (r IngredientsDiscoveredRequirement) Target() int {
	return r.Value
}
func (IngredientsDiscoveredRequirement) isRequirement() {}

func (r TimeRecordRequirement) Kind() RequirementKind {
	return RequirementTimeRecord
}
func (r TimeRecordRequirement) Target() int {
	return r.Seconds
}
func (TimeRecordRequirement) isRequirement() {}

func (r PerfectGamesRequirement) Kind() RequirementKind {
	return RequirementPerfectGames
}
func (r PerfectGamesRequirement) Target() int {
	return r.Value
}
func (PerfectGamesRequirement) isRequirement() {}

func (r RecipesCompletedRequirement) Kind() RequirementKind {
	return RequirementRecipesCompleted
}
func (r RecipesCompletedRequirement) Target() int {
	return r.Value
}
func (RecipesCompletedRequirement) isRequirement() {}

func (r StreakDaysRequirement) Kind() RequirementKind {
	return RequirementStreakDays
}
func (r StreakDaysRequirement) Target() int {
	return r.Value
}
func (StreakDaysRequirement) isRequirement() {}

// NewRequirement builds the Requirement variant for kind.
func NewRequirement(kind RequirementKind, target int) (Requirement, error) {
	switch kind {
	case RequirementTotalScore:
		return TotalScoreRequirement{Value: target}, nil
	case RequirementGamesPlayed:
		return GamesPlayedRequirement{Value: target}, nil
	case RequirementIngredientsDiscovered:
		return IngredientsDiscoveredRequirement{Value: target}, nil
	case RequirementTimeRecord:
		return TimeRecordRequirement{Seconds: target}, nil
	case RequirementPerfectGames:
		return PerfectGamesRequirement{Value: target}, nil
	case RequirementRecipesCompleted:
		return RecipesCompletedRequirement{Value: target}, nil
	case RequirementStreakDays:
		return StreakDaysRequirement{Value: target}, nil
	default:
		return nil, fmt.Errorf("unknown requirement kind %q", kind)
	}
}

// Achievement is an unlockable goal.
type Achievement struct {
	ID          string
	Title       string
	Description string
	Icon        string
	XPReward    int
	Unlocked    bool
	UnlockedAt  *time.Time
	Requirement Requirement
}

// Unlock returns an unlocked copy of the achievement stamped with at.
func (a Achievement) Unlock(at time.Time) Achievement {
	a.Unlocked = true
	a.UnlockedAt = &at
	return a
}

// MergeUnlocks overlays persisted unlock state onto catalog definitions by ID.
// Definitions missing from saved keep their locked state; saved entries for
// unknown IDs are dropped.
func MergeUnlocks(definitions, saved []Achievement) []Achievement {
	byID := make(map[string]Achievement, len(saved))
	for _, a := range saved {
		if a.Unlocked {
			byID[a.ID] = a
		}
	}
	out := make([]Achievement, len(definitions))
	for i, def := range definitions {
		out[i] = def
		if s, ok := byID[def.ID]; ok {
			at := time.Now()
			if s.UnlockedAt != nil {
				at = *s.UnlockedAt
			}
			out[i] = def.Unlock(at)
		}
	}
	return out
}
