// Package progression implements leveling math and the updates applied to
// PlayerProgress when a session ends or a new day of play starts.
package progression

import (
	"math"
	"time"

	"culinary-quest/internal/model"
)

// xpUnit scales the quadratic level curve.
const xpUnit = 100

// XPForLevel returns n² × 100, the total XP needed to finish level n and
// reach level n+1. XPForLevel(0) is 0, the threshold of level 1.
func XPForLevel(n int) int {
	if n <= 0 {
		return 0
	}
	return n * n * xpUnit
}

// LevelForXP returns floor(sqrt(xp / 100)) + 1.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	level := int(math.Sqrt(float64(xp)/xpUnit)) + 1
	// Guard against float rounding right at a threshold.
	for XPForLevel(level) <= xp {
		level++
	}
	for level > 1 && XPForLevel(level-1) > xp {
		level--
	}
	return level
}

// CurrentLevelXP is the XP earned since reaching the stored level.
func CurrentLevelXP(p model.PlayerProgress) int {
	return p.TotalXP - XPForLevel(p.Level-1)
}

// XPToNextLevel is the XP still missing to reach the next level.
func XPToNextLevel(p model.PlayerProgress) int {
	return XPForLevel(p.Level) - p.TotalXP
}

// ProgressToNextLevel is the fraction of the current level completed, in [0, 1).
func ProgressToNextLevel(p model.PlayerProgress) float64 {
	span := XPForLevel(p.Level) - XPForLevel(p.Level-1)
	if span <= 0 {
		return 0
	}
	frac := float64(CurrentLevelXP(p)) / float64(span)
	switch {
	case frac < 0:
		return 0
	case frac >= 1:
		return math.Nextafter(1, 0)
	}
	return frac
}

// Outcome describes what ApplyGameResult changed.
type Outcome struct {
	XPGained  int
	IsNewBest bool
	LeveledUp bool
	NewLevel  int
}

// XPForScore converts a session score into experience: floor(score/10)
// scaled by the difficulty multiplier, truncated.
func XPForScore(score int, d model.Difficulty) int {
	if score <= 0 {
		return 0
	}
	return int(float64(score/10) * d.PointMultiplier())
}

// ApplyGameResult folds a finished session into p.
func ApplyGameResult(p *model.PlayerProgress, score int, d model.Difficulty) Outcome {
	out := Outcome{}
	p.TotalScore += score
	if score > p.BestScore {
		p.BestScore = score
		out.IsNewBest = true
	}

	out.XPGained = XPForScore(score, d)
	p.TotalXP += out.XPGained

	out.LeveledUp = CheckLevelUp(p)
	out.NewLevel = p.Level
	return out
}

// CheckLevelUp raises the stored level to match TotalXP. The level never
// decreases. Returns true if the level changed.
func CheckLevelUp(p *model.PlayerProgress) bool {
	if p.Level < 1 {
		p.Level = 1
	}
	level := LevelForXP(p.TotalXP)
	if level > p.Level {
		p.Level = level
		return true
	}
	return false
}

// UpdateStreak evaluates the consecutive-day streak against now using
// calendar days in loc, then stamps LastPlayed with now.
func UpdateStreak(p *model.PlayerProgress, now time.Time, loc *time.Location) {
	if loc == nil {
		loc = time.UTC
	}

	switch {
	case p.LastPlayed == nil:
		p.StreakDays = 1
	default:
		switch DaysBetween(*p.LastPlayed, now, loc) {
		case 0:
			if p.StreakDays < 1 {
				p.StreakDays = 1
			}
		case 1:
			p.StreakDays++
		default:
			p.StreakDays = 1
		}
	}

	stamp := now
	p.LastPlayed = &stamp
}

// DaysBetween returns the number of calendar days from a to b in loc.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
