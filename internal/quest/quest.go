// Package quest generates the daily quests, picks the quest a daily quest
// session plays, and checks quest objectives when that session ends.
package quest

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"culinary-quest/internal/model"
)

// questNamespace seeds deterministic quest IDs so a day's quests keep the
// same identity across restarts.
var questNamespace = uuid.MustParse("9f1c7a52-3d0e-4b8e-9a57-2b7c1f0d6e41")

// Template describes a quest that can be offered on any day.
type Template struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Type        model.QuestType `yaml:"type"`
	Target      int             `yaml:"target"`
	// Cuisines rotate daily into the quest's Criteria.
	Cuisines     []model.Cuisine `yaml:"cuisines,omitempty"`
	RewardXP     int             `yaml:"reward_xp"`
	BonusContent string          `yaml:"bonus_content,omitempty"`
	RewardTitle  string          `yaml:"reward_title,omitempty"`
}

// PerDay is how many quests are offered each day.
const PerDay = 3

// Generate returns the quests for the calendar day containing day in loc.
// The result depends only on the date, so repeated calls agree.
func Generate(day time.Time, loc *time.Location, templates []Template) []model.DailyQuest {
	if loc == nil {
		loc = time.UTC
	}
	if len(templates) == 0 {
		return nil
	}

	y, m, d := day.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	expires := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	dayIndex := int(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
	dateKey := start.Format("2006-01-02")

	count := min(PerDay, len(templates))
	quests := make([]model.DailyQuest, 0, count)
	for i := 0; i < count; i++ {
		tpl := templates[(dayIndex+i)%len(templates)]
		criteria := ""
		if len(tpl.Cuisines) > 0 {
			criteria = string(tpl.Cuisines[dayIndex%len(tpl.Cuisines)])
		}
		quests = append(quests, model.DailyQuest{
			ID:          uuid.NewSHA1(questNamespace, []byte(fmt.Sprintf("%s/%d/%s", dateKey, i, tpl.Type))),
			Title:       tpl.Title,
			Description: tpl.Description,
			Type:        tpl.Type,
			Target:      tpl.Target,
			Criteria:    criteria,
			Reward: model.QuestReward{
				XP:           tpl.RewardXP,
				BonusContent: tpl.BonusContent,
				Title:        tpl.RewardTitle,
			},
			ExpiresAt: expires,
		})
	}
	return quests
}

// SelectActive returns the active quest expiring soonest. Quests whose ID
// is in completed count as completed even if the flag is not set.
func SelectActive(quests []model.DailyQuest, completed map[uuid.UUID]time.Time, now time.Time) (model.DailyQuest, bool) {
	var active []model.DailyQuest
	for _, q := range quests {
		if at, ok := completed[q.ID]; ok && !q.Completed {
			q = q.Complete(at)
		}
		if q.IsActive(now) {
			active = append(active, q)
		}
	}
	if len(active) == 0 {
		return model.DailyQuest{}, false
	}
	slices.SortStableFunc(active, func(a, b model.DailyQuest) int {
		return a.ExpiresAt.Compare(b.ExpiresAt)
	})
	return active[0], true
}

// Plan is the concrete session a quest is played as.
type Plan struct {
	Mode       model.GameMode
	Difficulty model.Difficulty
	// Cuisine is set when the pool comes from a single cuisine.
	Cuisine model.Cuisine
}

// PlanFor maps a quest to the mode and difficulty it delegates to.
func PlanFor(q model.DailyQuest) Plan {
	switch q.Type {
	case model.QuestCreateRecipes, model.QuestPerfectGame:
		return Plan{Mode: model.ModeCulinaryChallenge, Difficulty: model.DifficultyMedium}
	case model.QuestIdentifyIngredients:
		return Plan{Mode: model.ModeIngredientMastery, Difficulty: model.DifficultyEasy}
	case model.QuestExploreNewCuisine:
		return Plan{Mode: model.ModeIngredientMastery, Difficulty: model.DifficultyMedium, Cuisine: model.Cuisine(q.Criteria)}
	case model.QuestSpeedChallenge:
		return Plan{Mode: model.ModeTasteTest, Difficulty: model.DifficultyHard}
	default:
		return Plan{Mode: model.ModeCulinaryChallenge, Difficulty: model.DifficultyMedium}
	}
}

// Progress is what a quest objective is measured against.
type Progress struct {
	RecipesCreated        int
	IngredientsGuessed    int
	IngredientsDiscovered int
	TimeRemaining         int
	Accuracy              float64
}

// ObjectiveMet reports whether the session satisfied the quest.
func ObjectiveMet(q model.DailyQuest, p Progress) bool {
	switch q.Type {
	case model.QuestCreateRecipes:
		return p.RecipesCreated >= q.Target
	case model.QuestIdentifyIngredients:
		return p.IngredientsGuessed >= q.Target
	case model.QuestExploreNewCuisine:
		return p.IngredientsDiscovered >= q.Target
	case model.QuestSpeedChallenge:
		return p.TimeRemaining >= q.Target
	case model.QuestPerfectGame:
		return p.Accuracy >= 1.0
	default:
		return false
	}
}
