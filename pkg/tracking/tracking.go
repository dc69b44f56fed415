package tracking

import (
	"net/http"

	"github.com/matst80/slask-facets/pkg/filter"
	"github.com/matst80/slask-facets/pkg/types"
)

type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackFilterChange(sessionId string, kind types.FacetKind, value string, state filter.State, results int)
	TrackClear(sessionId string)
	TrackSearch(sessionId string, query string, results int, r *http.Request)
	Close() error
}

// NoTracking is used when no broker is configured.
type NoTracking struct{}

func (NoTracking) TrackSession(string, *http.Request)                                   {}
func (NoTracking) TrackFilterChange(string, types.FacetKind, string, filter.State, int) {}
func (NoTracking) TrackClear(string)                                                    {}
func (NoTracking) TrackSearch(string, string, int, *http.Request)                       {}
func (NoTracking) Close() error                                                         { return nil }
