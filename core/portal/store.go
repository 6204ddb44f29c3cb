package portal

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// ErrStale is returned when committing a state issued before the viewer's latest request.
var ErrStale = errors.New("stale request generation")

type entry struct {
	state      State
	generation uint64
	seen       time.Time
}

// Store keeps the State of every viewer along with its latest request generation.
// It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	viewers map[string]*entry
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{viewers: make(map[string]*entry), now: time.Now}
}

// Get returns the latest state of viewer, or NewState.
// Its data may still be loading when a request is in flight.
func (s *Store) Get(viewer string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.viewers[viewer]; ok {
		return e.state
	}
	return NewState()
}

// Begin applies event to the latest state of viewer, stores the result under a new request generation
// and returns it. Events never wait on loads: each one builds on every event issued before it.
// Every state stamped with an older generation becomes stale.
func (s *Store) Begin(viewer string, event func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.viewers[viewer]
	if !ok {
		e = &entry{state: NewState()}
		s.viewers[viewer] = e
	}
	e.generation++
	e.seen = s.now()
	st := event(e.state)
	st.Generation = e.generation
	e.state = st
	return st
}

// Commit stores the data loaded for st unless a newer generation was issued since st's.
func (s *Store) Commit(viewer string, st State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.viewers[viewer]
	if !ok || st.Generation != e.generation {
		return ErrStale
	}
	e.state = st
	return nil
}

// Delete forgets viewer.
func (s *Store) Delete(viewer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.viewers, viewer)
}

// Prune forgets the viewers not seen since before, returning how many were dropped.
func (s *Store) Prune(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for id, e := range s.viewers {
		if e.seen.Before(before) {
			delete(s.viewers, id)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.viewers)
}
