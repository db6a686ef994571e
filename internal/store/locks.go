package store

import "sync"

// Locks serializes read-modify-write cycles per company. Any service that
// does a Get, mutates the State, and Puts it back must hold the company's
// lock across the whole cycle, or a concurrent writer's Put can commit a
// stale aggregate over it.
type Locks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocks creates an empty lock registry. One registry is shared by every
// service writing to the same store.
func NewLocks() *Locks {
	return &Locks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock for one company and returns its release func.
func (l *Locks) Lock(companyID string) func() {
	l.mu.Lock()
	m, ok := l.locks[companyID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[companyID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
