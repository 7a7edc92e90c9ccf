// Package achievement evaluates achievement requirements against player
// progress and the session that just ended.
package achievement

import (
	"time"

	"culinary-quest/internal/model"
)

// TimeRecordBaseline is the reference session length, in seconds, that
// time records are measured against. It does not follow the difficulty's
// own time limit.
const TimeRecordBaseline = 60

// Session is the part of an ended session that requirements can inspect.
type Session struct {
	TimeRemaining int
}

// Satisfied reports whether req holds. session is nil when no session has
// ended yet (for example at startup).
func Satisfied(req model.Requirement, p model.PlayerProgress, session *Session) bool {
	switch r := req.(type) {
	case model.TotalScoreRequirement:
		return p.TotalScore >= r.Value
	case model.GamesPlayedRequirement:
		return p.GamesPlayed >= r.Value
	case model.IngredientsDiscoveredRequirement:
		return len(p.DiscoveredIngredients) >= r.Value
	case model.TimeRecordRequirement:
		if session == nil {
			return false
		}
		return session.TimeRemaining >= TimeRecordBaseline-r.Seconds
	case model.PerfectGamesRequirement, model.RecipesCompletedRequirement, model.StreakDaysRequirement:
		// No unlock rule is defined for these kinds; they stay locked.
		return false
	default:
		return false
	}
}

// Evaluate unlocks every locked achievement whose requirement is satisfied,
// crediting its XP reward to p. It returns the updated list and the newly
// unlocked achievements in list order. Unlocked achievements are never
// re-evaluated or reverted.
func Evaluate(list []model.Achievement, p *model.PlayerProgress, session *Session, now time.Time) ([]model.Achievement, []model.Achievement) {
	updated := make([]model.Achievement, len(list))
	copy(updated, list)

	var unlocked []model.Achievement
	for i, a := range updated {
		if a.Unlocked || a.Requirement == nil {
			continue
		}
		if !Satisfied(a.Requirement, *p, session) {
			continue
		}
		a = a.Unlock(now)
		updated[i] = a
		p.TotalXP += a.XPReward
		unlocked = append(unlocked, a)
	}
	return updated, unlocked
}
