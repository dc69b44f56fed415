package server

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"
	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/matst80/slask-facets/pkg/filter"
	"github.com/matst80/slask-facets/pkg/types"
)

var ErrMissingKind = errors.New("missing filter kind")

// SeedRequest is the initial filter state of a new session, usually taken from the
// storefront url.
type SeedRequest struct {
	Category          string   `schema:"category"`
	MinPrice          float64  `schema:"minPrice,default:0"`
	MaxPrice          float64  `schema:"maxPrice,default:10000"`
	Rating            int      `schema:"rating"`
	Brands            []string `schema:"brand"`
	Genders           []string `schema:"gender"`
	Colors            []string `schema:"color"`
	Sizes             []string `schema:"size"`
	Subcategories     []string `schema:"subcategory"`
	ExcludeOutOfStock bool     `schema:"excludeOutOfStock"`
}

// State builds a normalized filter state. Out of range ratings and invalid price bounds are
// ignored the same way the reducer ignores them.
func (s *SeedRequest) State() filter.State {
	state := filter.NewState(s.Category)
	state = filter.Apply(state, filter.ToggleRating{Value: s.Rating})
	if s.MinPrice != filter.DefaultMinPrice || s.MaxPrice != filter.DefaultMaxPrice {
		state = filter.Apply(state, filter.SetPriceRange{Min: s.MinPrice, Max: s.MaxPrice})
	}
	state.Brands = filter.NewSelection(s.Brands...)
	state.Genders = filter.NewSelection(s.Genders...)
	state.Colors = filter.NewSelection(s.Colors...)
	state.Sizes = filter.NewSelection(s.Sizes...)
	state.Subcategories = filter.NewSelection(s.Subcategories...)
	state.ExcludeOutOfStock = s.ExcludeOutOfStock
	return state
}

type ChangeRequest struct {
	Kind  types.FacetKind `json:"kind" schema:"kind"`
	Value string          `json:"value" schema:"value"`
}

type PageRequest struct {
	Sort     string `schema:"sort,default:relevance"`
	Page     int    `schema:"page"`
	PageSize int    `schema:"size,default:40"`
}

type SearchRequest struct {
	Query string `json:"query" schema:"q"`
}

func newDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return decoder
}

func decodeQuery(query url.Values, result any) error {
	if err := newDecoder().Decode(result, query); err != nil {
		return fmt.Errorf("decode query: %w", err)
	}
	return nil
}

func isJson(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// decodeRequest reads a JSON body when one is sent and the query string otherwise.
func decodeRequest(r *http.Request, result any) error {
	if r.Method != http.MethodGet && isJson(r) {
		if err := jsoncompat.NewDecoder(r.Body).Decode(result); err != nil {
			return fmt.Errorf("decode body: %w", err)
		}
		return nil
	}
	return decodeQuery(r.URL.Query(), result)
}

func SeedFromRequest(r *http.Request) (filter.State, error) {
	seed := SeedRequest{}
	if err := decodeQuery(r.URL.Query(), &seed); err != nil {
		return filter.State{}, err
	}
	return seed.State(), nil
}

func ChangeFromRequest(r *http.Request) (ChangeRequest, error) {
	change := ChangeRequest{}
	if err := decodeRequest(r, &change); err != nil {
		return change, err
	}
	if change.Kind == "" {
		return change, ErrMissingKind
	}
	return change, nil
}
