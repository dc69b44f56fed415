package search

import (
	"slices"
	"strings"
	"sync"
)

const DefaultRecentCapacity = 10

// Recent is a capped list of search queries, most recent first. Repeating a query moves
// it to the front instead of adding a duplicate.
type Recent struct {
	mu       sync.Mutex
	capacity int
	items    []string
}

func NewRecent(capacity int) *Recent {
	if capacity <= 0 {
		capacity = DefaultRecentCapacity
	}
	return &Recent{capacity: capacity, items: make([]string, 0, capacity)}
}

func Normalize(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

// Add records a query and reports whether it was accepted.
func (r *Recent) Add(query string) bool {
	query = Normalize(query)
	if query == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := Fold(query)
	r.items = slices.DeleteFunc(r.items, func(existing string) bool {
		return Fold(existing) == key
	})
	r.items = slices.Insert(r.items, 0, query)
	if len(r.items) > r.capacity {
		r.items = r.items[:r.capacity]
	}
	return true
}

func (r *Recent) Items() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.items)
}

func (r *Recent) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

func (r *Recent) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = r.items[:0]
}
