package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store maps session ids to their State.
type Store struct {
	mu sync.RWMutex
	m  map[uuid.UUID]*State
}

func NewStore() *Store {
	return &Store{m: make(map[uuid.UUID]*State)}
}

// Get returns the state for id and marks it as used.
func (s *Store) Get(id uuid.UUID) (*State, bool) {
	s.mu.RLock()
	st, ok := s.m[id]
	s.mu.RUnlock()
	if ok {
		st.touch(time.Now())
	}
	return st, ok
}

// GetOrCreate returns the state for id, creating a fresh one under a new id
// when id is unknown. The returned id is the one to hand back to the client.
func (s *Store) GetOrCreate(id uuid.UUID) (uuid.UUID, *State) {
	if id != uuid.Nil {
		if st, ok := s.Get(id); ok {
			return id, st
		}
	}

	newID := uuid.New()
	st := NewState()

	s.mu.Lock()
	s.m[newID] = st
	s.mu.Unlock()
	return newID, st
}

func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	delete(s.m, id)
	s.mu.Unlock()
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Sweep removes sessions idle for longer than maxIdle and returns how many
// were dropped.
func (s *Store) Sweep(now time.Time, maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, st := range s.m {
		if now.Sub(st.idleSince()) > maxIdle {
			delete(s.m, id)
			n++
		}
	}
	return n
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *Store) RunSweeper(ctx context.Context, interval, maxIdle time.Duration, onSweep func(removed int)) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := s.Sweep(now, maxIdle); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}
