package game

import (
	"errors"
	"sync"

	"culinary-quest/internal/model"
)

// Registry errors.
var (
	ErrNilPolicy   = errors.New("cannot register nil policy")
	ErrUnknownMode = errors.New("unknown game mode")
)

// Registry maps game modes to their setup policies. Safe for concurrent use.
type Registry struct {
	policies map[model.GameMode]Policy
	mu       sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		policies: make(map[model.GameMode]Policy),
	}
}

// NewDefaultRegistry creates a registry holding every built-in policy.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, p := range DefaultPolicies() {
		// Built-in policies always carry a known mode.
		_ = r.Register(p)
	}
	return r
}

// Register adds a policy, replacing any policy for the same mode.
func (r *Registry) Register(p Policy) error {
	if p == nil {
		return ErrNilPolicy
	}
	if !p.Mode().Valid() {
		return ErrUnknownMode
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.policies[p.Mode()] = p
	return nil
}

// Get returns the policy for mode.
func (r *Registry) Get(mode model.GameMode) (Policy, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.policies[mode]
	return p, ok
}

// Modes returns the registered modes in menu order.
func (r *Registry) Modes() []model.GameMode {
	r.mu.RLock()
	defer r.mu.RUnlock()

	modes := make([]model.GameMode, 0, len(r.policies))
	for _, m := range model.GameModes() {
		if _, ok := r.policies[m]; ok {
			modes = append(modes, m)
		}
	}
	return modes
}

// Count returns the number of registered policies.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.policies)
}

// Unregister removes the policy for mode. Returns false if none was registered.
func (r *Registry) Unregister(mode model.GameMode) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.policies[mode]; ok {
		delete(r.policies, mode)
		return true
	}
	return false
}
