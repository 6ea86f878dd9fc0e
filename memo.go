package dashpages

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// MemoStore stores callback results for a bounded time.
type MemoStore interface {
	Get(ctx context.Context, key string) ([]any, bool, error)
	Set(ctx context.Context, key string, value []any, ttl time.Duration) error
}

// MemoObserver is notified of memo hits and misses.
type MemoObserver interface {
	MemoHit()
	MemoMiss()
}

// Memo reuses recent callback results keyed by binding and arguments.
//
// A reused result may be stale for up to the callback's memo window; callers
// must not rely on memoization for correctness. Errors, including
// ErrPreventUpdate, are never stored.
type Memo struct {
	store    MemoStore
	group    singleflight.Group
	observer MemoObserver
	logger   *slog.Logger
}

type MemoOption func(*Memo)

func WithMemoObserver(o MemoObserver) MemoOption {
	return func(m *Memo) {
		m.observer = o
	}
}

func WithMemoLogger(l *slog.Logger) MemoOption {
	return func(m *Memo) {
		m.logger = l
	}
}

func NewMemo(store MemoStore, opts ...MemoOption) *Memo {
	m := &Memo{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Do returns the stored result for key, or runs fn and stores its result for
// ttl. Concurrent calls for the same missing key share one run of fn.
func (m *Memo) Do(ctx context.Context, key string, ttl time.Duration, fn func() ([]any, error)) ([]any, error) {
	v, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.logger.WarnContext(ctx, "Memo store read failed", "error", err)
	}
	if ok {
		m.hit()
		return v, nil
	}
	m.miss()

	res, err, _ := m.group.Do(key, func() (any, error) {
		out, err := fn()
		if err != nil {
			return nil, err
		}
		if err := m.store.Set(ctx, key, out, ttl); err != nil {
			m.logger.WarnContext(ctx, "Memo store write failed", "error", err)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]any), nil
}

func (m *Memo) hit() {
	if m.observer != nil {
		m.observer.MemoHit()
	}
}

func (m *Memo) miss() {
	if m.observer != nil {
		m.observer.MemoMiss()
	}
}

// MemoryStore is an in-process MemoStore. Expired entries are treated as
// missing and removed by EvictExpired.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoEntry
	clock   clockwork.Clock
	logger  *slog.Logger
}

type memoEntry struct {
	value     []any
	expiresAt time.Time
}

type MemoryStoreOption func(*MemoryStore)

// WithStoreLogger sets the logger used by the eviction loop.
func WithStoreLogger(l *slog.Logger) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.logger = l
	}
}

func NewMemoryStore(clock clockwork.Clock, opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]memoEntry),
		clock:   clock,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || !s.clock.Now().Before(e.expiresAt) {
		return nil, false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []any, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoEntry{value: value, expiresAt: s.clock.Now().Add(ttl)}
	return nil
}

// Size returns the number of entries, including expired ones.
func (s *MemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// EvictExpired removes expired entries and returns how many were removed.
func (s *MemoryStore) EvictExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	evicted := 0
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
			evicted++
		}
	}
	return evicted
}

// StartEviction evicts expired entries every interval until the returned stop
// function is called.
func (s *MemoryStore) StartEviction(interval time.Duration) func() {
	ticker := s.clock.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.Chan():
				if n := s.EvictExpired(); n > 0 {
					s.logger.Debug("Evicted expired memo entries", "count", n, "remaining", s.Size())
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}
