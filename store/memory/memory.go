// Package memory provides an in-process store.Store backed by a map.
// Intended for tests and single-process deployments; entries are checked
// lazily on Get and optionally swept by a background loop.
package memory

import (
	"context"
	"sync"
	"time"

	st "github.com/unkn0wn-root/listcache/store"
)

type entry struct {
	v   []byte
	exp time.Time // zero => no expiry
}

type Store struct {
	mu sync.RWMutex
	m  map[string]entry

	ticker *time.Ticker
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

var _ st.Store = (*Store)(nil)

// New creates a memory store. If sweepInterval > 0 a background loop prunes
// expired entries; otherwise they are only dropped lazily on Get.
func New(sweepInterval time.Duration) *Store {
	s := &Store{m: make(map[string]entry)}
	if sweepInterval > 0 {
		s.ticker = time.NewTicker(sweepInterval)
		s.stopCh = make(chan struct{})
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-s.ticker.C:
					s.sweep()
				case <-s.stopCh:
					return
				}
			}
		}()
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, ok := s.m[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		s.mu.Lock()
		// re-check under the write lock; a concurrent Set may have refreshed it
		if cur, ok := s.m[key]; ok && !cur.exp.IsZero() && time.Now().After(cur.exp) {
			delete(s.m, key)
		}
		s.mu.Unlock()
		return nil, false, nil
	}
	return e.v, true, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte, pol st.Policy) error {
	ttl := pol.TTL()
	s.mu.Lock()
	defer s.mu.Unlock()
	if ttl < 0 {
		delete(s.m, key)
		return nil
	}
	var exp time.Time
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	s.m[key] = entry{v: value, exp: exp}
	return nil
}

func (s *Store) Touch(_ context.Context, key string, window time.Duration) error {
	if window <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.m[key]
	if !ok {
		return nil
	}
	e.exp = time.Now().Add(window)
	s.m[key] = e
	return nil
}

func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

func (s *Store) Close(context.Context) error {
	s.once.Do(func() {
		if s.stopCh != nil {
			close(s.stopCh)
			s.ticker.Stop()
			s.wg.Wait()
		}
	})
	return nil
}

// Len reports the number of live entries (expired-but-unswept included).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

func (s *Store) sweep() {
	now := time.Now()
	s.mu.Lock()
	for k, e := range s.m {
		if !e.exp.IsZero() && now.After(e.exp) {
			delete(s.m, k)
		}
	}
	s.mu.Unlock()
}
