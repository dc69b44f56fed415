package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/matst80/slask-facets/pkg/catalog"
	"github.com/matst80/slask-facets/pkg/facet"
	"github.com/matst80/slask-facets/pkg/filter"
	"github.com/matst80/slask-facets/pkg/search"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrSessionNotFound = errors.New("session not found")

const refreshConcurrency = 8

type Manager struct {
	Provider       catalog.Provider
	Catalog        *facet.Catalog
	Evaluator      filter.Evaluator
	TTL            time.Duration
	RecentCapacity int
	Popular        *search.Popular
	Logger         *zap.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(provider catalog.Provider, cat *facet.Catalog, evaluator filter.Evaluator, ttl time.Duration, recentCapacity int, logger *zap.Logger) *Manager {
	if cat == nil {
		cat = facet.DefaultCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		Provider:       provider,
		Catalog:        cat,
		Evaluator:      evaluator,
		TTL:            ttl,
		RecentCapacity: recentCapacity,
		Popular:        search.NewPopular(0),
		Logger:         logger,
		sessions:       make(map[string]*Session),
	}
}

// Create registers a session seeded with the given state and loads the product collection.
// A failed load is logged and leaves the session with no products.
func (m *Manager) Create(ctx context.Context, seed filter.State) *Session {
	s := New(seed, m.Evaluator, m.Catalog, m.RecentCapacity)

	m.mu.Lock()
	m.sessions[s.Id] = s
	liveSessions.Set(float64(len(m.sessions)))
	m.mu.Unlock()

	if m.Provider != nil {
		if err := s.Load(ctx, m.Provider); err != nil {
			m.Logger.Warn("product load failed", zap.String("session", s.Id), zap.Error(err))
		}
	}
	m.Logger.Debug("session created", zap.String("session", s.Id), zap.String("category", seed.Category), zap.Int("products", s.Len()))
	return s
}

func (m *Manager) expired(s *Session, now time.Time) bool {
	return m.TTL > 0 && now.Sub(s.LastUsed()) > m.TTL
}

func (m *Manager) Get(id string) (*Session, error) {
	const op = "session.Manager.Get"
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok || m.expired(s, time.Now()) {
		return nil, fmt.Errorf("%s: %w: %s", op, ErrSessionNotFound, id)
	}
	return s, nil
}

func (m *Manager) Close(id string) error {
	const op = "session.Manager.Close"
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%s: %w: %s", op, ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	liveSessions.Set(float64(len(m.sessions)))
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *Manager) all() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ret := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		ret = append(ret, s)
	}
	return ret
}

// Evict drops sessions idle for longer than the TTL and returns how many were removed.
func (m *Manager) Evict(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if m.expired(s, now) {
			delete(m.sessions, id)
			removed++
		}
	}
	liveSessions.Set(float64(len(m.sessions)))
	return removed
}

// RunEviction evicts idle sessions every interval until ctx is done.
func (m *Manager) RunEviction(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := m.Evict(now); n > 0 {
				m.Logger.Info("evicted idle sessions", zap.Int("count", n))
			}
		}
	}
}

// RefreshAll reloads the product collection of every live session.
func (m *Manager) RefreshAll(ctx context.Context) error {
	const op = "session.Manager.RefreshAll"
	if m.Provider == nil {
		return nil
	}
	sessions := m.all()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshConcurrency)
	for _, s := range sessions {
		g.Go(func() error {
			err := s.Load(gctx, m.Provider)
			if err != nil && !errors.Is(err, ErrSuperseded) {
				m.Logger.Warn("session refresh failed", zap.String("session", s.Id), zap.Error(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	m.Logger.Info("sessions refreshed", zap.Int("count", len(sessions)))
	return nil
}

// RecordSearch stores the query in the session history and the shared popularity table.
func (m *Manager) RecordSearch(s *Session, query string) bool {
	if !s.Recent.Add(query) {
		return false
	}
	if m.Popular != nil {
		m.Popular.Record(query)
	}
	return true
}
