package search

import (
	"cmp"
	"slices"
	"sync"
)

const DefaultPopularCapacity = 1000

type Term struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

type popularEntry struct {
	query string
	count int
	seq   uint64
}

// Popular counts queries across sessions. It tracks at most capacity distinct queries;
// when full, the least used and then the oldest entry is evicted.
type Popular struct {
	mu       sync.Mutex
	capacity int
	seq      uint64
	entries  map[string]*popularEntry
}

func NewPopular(capacity int) *Popular {
	if capacity <= 0 {
		capacity = DefaultPopularCapacity
	}
	return &Popular{capacity: capacity, entries: make(map[string]*popularEntry)}
}

func (p *Popular) Record(query string) {
	query = Normalize(query)
	if query == "" {
		return
	}
	key := Fold(query)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	if e, ok := p.entries[key]; ok {
		e.count++
		e.seq = p.seq
		return
	}
	if len(p.entries) >= p.capacity {
		p.evict()
	}
	p.entries[key] = &popularEntry{query: query, count: 1, seq: p.seq}
}

func (p *Popular) evict() {
	var victim string
	var worst *popularEntry
	for key, e := range p.entries {
		if worst == nil || e.count < worst.count || (e.count == worst.count && e.seq < worst.seq) {
			victim, worst = key, e
		}
	}
	if worst != nil {
		delete(p.entries, victim)
	}
}

// Top returns the n most searched queries, ties ordered alphabetically.
func (p *Popular) Top(n int) []Term {
	p.mu.Lock()
	ret := make([]Term, 0, len(p.entries))
	for _, e := range p.entries {
		ret = append(ret, Term{Query: e.query, Count: e.count})
	}
	p.mu.Unlock()
	slices.SortFunc(ret, func(a, b Term) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Query, b.Query)
	})
	if n > 0 && len(ret) > n {
		ret = ret[:n]
	}
	return ret
}
