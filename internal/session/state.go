// Package session keeps the last route a user asked for.
//
// Every user session owns its own State; nothing here is shared between
// sessions. The road network itself lives elsewhere and is read-only.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atharv3903/itsroute/internal/algo"
	"github.com/atharv3903/itsroute/internal/model"
)

// Result is the route currently shown to a user.
type Result struct {
	Start    string
	End      string
	Path     []string
	Distance float64
}

// State holds at most one Result. Writes replace it as a whole.
type State struct {
	mu       sync.Mutex
	current  *Result
	lastSeen time.Time
}

func NewState() *State {
	return &State{lastSeen: time.Now()}
}

// Snapshot returns a copy of the current result, or nil.
func (s *State) Snapshot() *Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	cp.Path = append([]string(nil), s.current.Path...)
	return &cp
}

func (s *State) Set(r Result) {
	r.Path = append([]string(nil), r.Path...)
	s.mu.Lock()
	s.current = &r
	s.mu.Unlock()
}

func (s *State) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}

func (s *State) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *State) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

type OutcomeKind string

const (
	OutcomeFound    OutcomeKind = "found"
	OutcomeSameNode OutcomeKind = "same_node"
	OutcomeNoPath   OutcomeKind = "no_path"
)

// Outcome describes what a find request did to the session.
type Outcome struct {
	Kind     OutcomeKind
	Message  string
	Route    model.Route
	CacheHit bool
}

// Finder computes routes; algo.GraphCtx satisfies it.
type Finder interface {
	ShortestPath(src, dst string) (model.Route, bool, error)
}

const (
	msgSameNode = "Origin and destination are the same node, please pick another one."
	msgNoPath   = "No path exists between these two nodes in the network."
	msgFound    = "Shortest path found."
)

// Find validates the request, runs the finder and updates st. The previous
// result is cleared on every outcome except success, where it is replaced.
// Errors other than a missing path are returned and also clear the state.
func Find(f Finder, st *State, start, end string) (Outcome, error) {
	if start == end {
		st.Clear()
		return Outcome{Kind: OutcomeSameNode, Message: msgSameNode}, nil
	}

	route, hit, err := f.ShortestPath(start, end)
	switch {
	case errors.Is(err, algo.ErrNoPath):
		st.Clear()
		return Outcome{Kind: OutcomeNoPath, Message: msgNoPath}, nil
	case err != nil:
		st.Clear()
		return Outcome{}, fmt.Errorf("find route %s to %s: %w", start, end, err)
	}

	st.Set(Result{
		Start:    start,
		End:      end,
		Path:     route.Path,
		Distance: route.Distance,
	})
	return Outcome{Kind: OutcomeFound, Message: msgFound, Route: route, CacheHit: hit}, nil
}
