package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/matst80/slask-facets/pkg/catalog"
	"github.com/matst80/slask-facets/pkg/facet"
	"github.com/matst80/slask-facets/pkg/filter"
	"github.com/matst80/slask-facets/pkg/search"
	"github.com/matst80/slask-facets/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrSuperseded is returned by Load when a later load started before this one finished.
var ErrSuperseded = errors.New("load superseded by a newer request")

// Session is one shopper's filter panel: the current state and the product snapshot
// it is evaluated against. Safe for concurrent use.
type Session struct {
	Id      string
	Created time.Time
	Recent  *search.Recent

	evaluator filter.Evaluator
	catalog   *facet.Catalog
	lastUsed  atomic.Int64

	mu         sync.RWMutex
	state      filter.State
	products   []types.Product
	generation uint64
}

func New(seed filter.State, evaluator filter.Evaluator, cat *facet.Catalog, recentCapacity int) *Session {
	if cat == nil {
		cat = facet.DefaultCatalog()
	}
	now := time.Now()
	s := &Session{
		Id:        uuid.NewString(),
		Created:   now,
		Recent:    search.NewRecent(recentCapacity),
		evaluator: evaluator,
		catalog:   cat,
		state:     seed,
		products:  []types.Product{},
	}
	s.lastUsed.Store(now.UnixNano())
	return s
}

func (s *Session) touch() {
	s.lastUsed.Store(time.Now().UnixNano())
}

func (s *Session) LastUsed() time.Time {
	return time.Unix(0, s.lastUsed.Load())
}

func (s *Session) State() filter.State {
	s.touch()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Apply(c filter.Change) filter.State {
	s.touch()
	kind := "none"
	if c != nil {
		kind = string(c.Kind())
	}
	filterChanges.WithLabelValues(kind).Inc()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = filter.Apply(s.state, c)
	return s.state
}

// ApplyKind applies a view event. Unknown kinds and unparsable values leave the state as is
// and report false.
func (s *Session) ApplyKind(kind types.FacetKind, value string) (filter.State, bool) {
	c, ok := filter.ParseChange(kind, value)
	if !ok {
		return s.State(), false
	}
	return s.Apply(c), true
}

func (s *Session) ClearAll() filter.State {
	s.touch()
	filterChanges.WithLabelValues("clear").Inc()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = s.state.Cleared()
	return s.state
}

func (s *Session) ActiveFilterCount() int {
	return s.State().ActiveCount()
}

// Facets returns the facet definition for the current category.
func (s *Session) Facets() facet.Definition {
	return s.catalog.ForLabel(s.State().Category)
}

func (s *Session) snapshot() ([]types.Product, filter.State) {
	s.touch()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products, s.state
}

// Result is the filtered product list in the given order.
func (s *Session) Result(order filter.SortOrder) []types.Product {
	products, state := s.snapshot()
	timer := prometheus.NewTimer(evaluationDuration)
	defer timer.ObserveDuration()
	evaluations.Inc()
	return filter.SortProducts(s.evaluator.Evaluate(products, state), order)
}

func (s *Session) Counts(kind types.FacetKind) []filter.ValueCount {
	products, state := s.snapshot()
	return s.evaluator.CountValues(products, state, kind)
}

// Len is the size of the loaded product snapshot.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// SetProducts replaces the snapshot and discards any load in flight.
func (s *Session) SetProducts(products []types.Product) {
	if products == nil {
		products = []types.Product{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.products = products
}

// Load fetches a new snapshot. A failed fetch leaves the session with an empty collection.
// The result is dropped when ctx is done or another load started meanwhile.
func (s *Session) Load(ctx context.Context, provider catalog.Provider) error {
	const op = "session.Session.Load"
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	products, fetchErr := provider.FetchAll(ctx)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if fetchErr != nil {
		fetchFailures.Inc()
		products = []types.Product{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return fmt.Errorf("%s: %w", op, ErrSuperseded)
	}
	if products == nil {
		products = []types.Product{}
	}
	s.products = products
	if fetchErr != nil {
		return fmt.Errorf("%s: %w", op, fetchErr)
	}
	return nil
}
