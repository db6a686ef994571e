package store

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory Store. Data is lost on restart; use the Mongo
// store for durability. States are copied in and out so callers never
// share slices with the map.
type Memory struct {
	mu     sync.RWMutex
	states map[string]*State
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{states: make(map[string]*State)}
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, companyID string) (*State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.states[companyID]
	if !ok {
		return nil, fmt.Errorf("company %q: %w", companyID, ErrNotFound)
	}
	return state.Clone(), nil
}

// Put implements Store.
func (m *Memory) Put(_ context.Context, state *State) error {
	if state.Company.ID == "" {
		return fmt.Errorf("company ID is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.Company.ID] = state.Clone()
	return nil
}

// List implements Store.
func (m *Memory) List(_ context.Context) ([]Company, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	companies := make([]Company, 0, len(m.states))
	for _, state := range m.states {
		companies = append(companies, state.Company)
	}
	return companies, nil
}

// Count implements Store.
func (m *Memory) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states), nil
}

var _ Store = (*Memory)(nil)
