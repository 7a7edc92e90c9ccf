package game

import "culinary-quest/internal/model"

// State is the lifecycle state of a session.
type State int

const (
	StateIdle State = iota
	StateActive
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateActive:
		return "active"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// EventKind identifies what changed.
type EventKind string

const (
	EventStateChanged        EventKind = "state_changed"
	EventScoreChanged        EventKind = "score_changed"
	EventTimeChanged         EventKind = "time_changed"
	EventAchievementUnlocked EventKind = "achievement_unlocked"
	EventLevelUp             EventKind = "level_up"
	EventQuestCompleted      EventKind = "quest_completed"
)

// Event is emitted to listeners after the engine releases its lock, so a
// listener may call back into the engine.
type Event struct {
	Kind          EventKind
	State         State
	Score         int
	TimeRemaining int
	Level         int
	Achievement   *model.Achievement
	Quest         *model.DailyQuest
}

// Listener receives engine events.
type Listener func(Event)

// Notifications are one-shot messages for the player, drained by
// Engine.TakeNotifications.
type Notifications struct {
	Achievements []model.Achievement
	// LevelUp is the level reached, or 0 if there was no level-up.
	LevelUp int
}

// Empty reports whether there is nothing to show.
func (n Notifications) Empty() bool {
	return len(n.Achievements) == 0 && n.LevelUp == 0
}
