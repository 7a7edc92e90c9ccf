// Package service provides the player-facing entry points over the engine.
package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"culinary-quest/internal/game"
	"culinary-quest/internal/pkg/lock"
)

// Common errors for session operations.
var (
	ErrEmptyPlayerID = errors.New("player id is required")
)

// lockTimeout bounds how long engine creation waits for a player's lock.
const lockTimeout = 5 * time.Second

// GatewayFactory returns the persistence gateway of one player.
type GatewayFactory func(playerID string) game.Gateway

// SessionService keeps one engine per player.
type SessionService struct {
	catalog  game.Catalog
	gateways GatewayFactory
	opts     []game.Option
	locks    *lock.PlayerLock

	mu      sync.RWMutex
	engines map[string]*game.Engine
}

// NewSessionService creates a new SessionService instance. opts are applied
// to every engine before the player identity.
func NewSessionService(catalog game.Catalog, gateways GatewayFactory, opts ...game.Option) *SessionService {
	return &SessionService{
		catalog:  catalog,
		gateways: gateways,
		opts:     opts,
		locks:    lock.NewPlayerLock(),
		engines:  make(map[string]*game.Engine),
	}
}

// Engine returns the player's engine, creating and initializing it on first
// use. name is only used when the engine is created.
func (s *SessionService) Engine(ctx context.Context, playerID, name string) (*game.Engine, error) {
	if playerID == "" {
		return nil, ErrEmptyPlayerID
	}
	if e, ok := s.Lookup(playerID); ok {
		return e, nil
	}

	var engine *game.Engine
	err := s.locks.WithLockContext(ctx, playerID, lockTimeout, func() error {
		// Another caller may have won the race while we waited.
		if e, ok := s.Lookup(playerID); ok {
			engine = e
			return nil
		}

		opts := append(slices.Clone(s.opts), game.WithPlayer(playerID, name))
		e, err := game.New(s.catalog, s.gateways(playerID), opts...)
		if err != nil {
			return fmt.Errorf("failed to create engine: %w", err)
		}
		e.Init(ctx)

		s.mu.Lock()
		s.engines[playerID] = e
		s.mu.Unlock()

		log.Info().Str("player", playerID).Msg("Engine created")
		engine = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return engine, nil
}

// Lookup returns the player's engine if one exists.
func (s *SessionService) Lookup(playerID string) (*game.Engine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.engines[playerID]
	return e, ok
}

// Release ends the player's active session, if any, and forgets the engine.
// Returns false if the player has no engine.
func (s *SessionService) Release(ctx context.Context, playerID string) bool {
	s.mu.Lock()
	e, ok := s.engines[playerID]
	delete(s.engines, playerID)
	s.mu.Unlock()

	if !ok {
		return false
	}
	if e.State() == game.StateActive {
		e.EndGame(ctx)
	}
	log.Info().Str("player", playerID).Msg("Engine released")
	return true
}

// Players returns the ids of players with an engine, sorted.
func (s *SessionService) Players() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.engines))
	for id := range s.engines {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
