// Package memory provides an in-memory implementation of the persistence
// gateway. Nothing survives a restart.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"culinary-quest/internal/game"
	"culinary-quest/internal/model"
)

// Compile-time interface check.
var _ game.Gateway = (*Gateway)(nil)

type playerState struct {
	progress     *model.PlayerProgress
	achievements []model.Achievement
	launched     bool
	quests       map[uuid.UUID]time.Time
}

// Store holds the state of every player plus the shared leaderboard.
// Safe for concurrent access.
type Store struct {
	mu      sync.RWMutex
	players map[string]*playerState
	scores  map[model.GameMode][]model.GameScore
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		players: make(map[string]*playerState),
		scores:  make(map[model.GameMode][]model.GameScore),
	}
}

// ForPlayer returns a gateway bound to one player.
func (s *Store) ForPlayer(playerID string) *Gateway {
	return &Gateway{store: s, playerID: playerID}
}

// player returns the state of id, creating it. Callers hold the write lock.
func (s *Store) player(id string) *playerState {
	ps, ok := s.players[id]
	if !ok {
		ps = &playerState{quests: make(map[uuid.UUID]time.Time)}
		s.players[id] = ps
	}
	return ps
}

// TopScores returns the best scores of a mode across all players.
func (s *Store) TopScores(mode model.GameMode, limit int) []model.GameScore {
	s.mu.RLock()
	defer s.mu.RUnlock()

	scores := s.scores[mode]
	if limit <= 0 || limit > len(scores) {
		limit = len(scores)
	}
	return slices.Clone(scores[:limit])
}

// Gateway is the per-player view of a Store.
type Gateway struct {
	store    *Store
	playerID string
}

// LoadProgress returns the stored progress or a fresh default.
func (g *Gateway) LoadProgress(ctx context.Context) (model.PlayerProgress, error) {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()

	ps, ok := g.store.players[g.playerID]
	if !ok || ps.progress == nil {
		return model.NewPlayerProgress(g.playerID), nil
	}
	return ps.progress.Clone(), nil
}

// SaveProgress overwrites the stored progress.
func (g *Gateway) SaveProgress(ctx context.Context, p model.PlayerProgress) error {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	cp := p.Clone()
	g.store.player(g.playerID).progress = &cp
	log.Debug().Str("player", g.playerID).Int("xp", p.TotalXP).Msg("Saved progress")
	return nil
}

// AppendScore records a score and keeps the best model.MaxScoresPerMode of
// its mode.
func (g *Gateway) AppendScore(ctx context.Context, sc model.GameScore) error {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	scores := append(g.store.scores[sc.Mode], sc)
	slices.SortStableFunc(scores, func(a, b model.GameScore) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(scores) > model.MaxScoresPerMode {
		scores = scores[:model.MaxScoresPerMode]
	}
	g.store.scores[sc.Mode] = scores
	return nil
}

// TopScores returns the best scores of a mode, highest first.
func (g *Gateway) TopScores(ctx context.Context, mode model.GameMode, limit int) ([]model.GameScore, error) {
	return g.store.TopScores(mode, limit), nil
}

// LoadAchievements returns the stored achievement list.
func (g *Gateway) LoadAchievements(ctx context.Context) ([]model.Achievement, error) {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()

	ps, ok := g.store.players[g.playerID]
	if !ok {
		return nil, nil
	}
	return slices.Clone(ps.achievements), nil
}

// SaveAchievements merges list into the stored achievements. Stored unlocks
// are kept with their original time, even when list shows them locked.
func (g *Gateway) SaveAchievements(ctx context.Context, list []model.Achievement) error {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	ps := g.store.player(g.playerID)
	merged := model.MergeUnlocks(list, ps.achievements)
	for _, a := range ps.achievements {
		if a.Unlocked && !slices.ContainsFunc(merged, func(m model.Achievement) bool { return m.ID == a.ID }) {
			merged = append(merged, a)
		}
	}
	ps.achievements = merged
	return nil
}

// IsFirstLaunch reports true on the first call for the player only.
func (g *Gateway) IsFirstLaunch(ctx context.Context) (bool, error) {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	ps := g.store.player(g.playerID)
	if ps.launched {
		return false, nil
	}
	ps.launched = true
	return true, nil
}

// LoadQuestCompletions returns when each completed quest was finished.
func (g *Gateway) LoadQuestCompletions(ctx context.Context) (map[uuid.UUID]time.Time, error) {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()

	out := make(map[uuid.UUID]time.Time)
	if ps, ok := g.store.players[g.playerID]; ok {
		for id, at := range ps.quests {
			out[id] = at
		}
	}
	return out, nil
}

// SaveQuestCompletion marks a quest completed.
func (g *Gateway) SaveQuestCompletion(ctx context.Context, questID uuid.UUID, at time.Time) error {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	g.store.player(g.playerID).quests[questID] = at
	return nil
}
