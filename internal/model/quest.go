package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestType is the objective family of a daily quest.
type QuestType string

const (
	QuestCreateRecipes       QuestType = "create_recipes"
	QuestIdentifyIngredients QuestType = "identify_ingredients"
	QuestExploreNewCuisine   QuestType = "explore_new_cuisine"
	QuestSpeedChallenge      QuestType = "speed_challenge"
	QuestPerfectGame         QuestType = "perfect_game"
)

// QuestReward is granted when a quest is completed.
type QuestReward struct {
	XP           int
	BonusContent string
	Title        string
}

// DailyQuest is a time-limited objective.
type DailyQuest struct {
	ID          uuid.UUID
	Title       string
	Description string
	Type        QuestType
	// Target is the numeric goal; Criteria carries a type-specific qualifier
	// such as the cuisine to explore.
	Target      int
	Criteria    string
	Reward      QuestReward
	ExpiresAt   time.Time
	Completed   bool
	CompletedAt *time.Time
}

// IsExpired reports whether now is past the quest's expiry.
func (q DailyQuest) IsExpired(now time.Time) bool {
	return now.After(q.ExpiresAt)
}

// IsActive reports whether the quest can still be played.
func (q DailyQuest) IsActive(now time.Time) bool {
	return !q.Completed && !q.IsExpired(now)
}

// Complete returns a completed copy of the quest stamped with at.
func (q DailyQuest) Complete(at time.Time) DailyQuest {
	q.Completed = true
	q.CompletedAt = &at
	return q
}
