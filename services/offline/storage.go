package offline

import (
	"context"
	"net/http"
	"sort"
	"sync"
)

// Response is a cached response.
type Response struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// Write copies r to w.
func (r *Response) Write(w http.ResponseWriter) error {
	for k, vv := range r.Header {
		for _, v := range vv {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(r.Status)
	_, err := w.Write(r.Body)
	return err
}

// Storage holds named caches of responses keyed by request URI.
type Storage interface {
	Put(ctx context.Context, cache, key string, res *Response) error
	// Match returns the response stored under key, ok is false on a miss.
	Match(ctx context.Context, cache, key string) (res *Response, ok bool, err error)
	// Caches lists the cache names.
	Caches(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, cache string) error
}

type memoryStorage struct {
	mu     sync.RWMutex
	caches map[string]map[string]*Response
}

var _ Storage = (*memoryStorage)(nil)

// NewMemoryStorage returns a Storage living in the process memory.
func NewMemoryStorage() Storage {
	return &memoryStorage{caches: make(map[string]map[string]*Response)}
}

func (s *memoryStorage) Put(_ context.Context, cache, key string, res *Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.caches[cache]
	if !ok {
		c = make(map[string]*Response)
		s.caches[cache] = c
	}
	c[key] = res
	return nil
}

func (s *memoryStorage) Match(_ context.Context, cache, key string) (*Response, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.caches[cache][key]
	return res, ok, nil
}

func (s *memoryStorage) Caches(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.caches))
	for name := range s.caches {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *memoryStorage) Delete(_ context.Context, cache string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.caches, cache)
	return nil
}
