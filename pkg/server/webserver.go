package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/matst80/slask-facets/pkg/common"
	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/matst80/slask-facets/pkg/facet"
	"github.com/matst80/slask-facets/pkg/filter"
	"github.com/matst80/slask-facets/pkg/search"
	"github.com/matst80/slask-facets/pkg/session"
	"github.com/matst80/slask-facets/pkg/tracking"
	"github.com/matst80/slask-facets/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var (
	facetRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfacets_facet_requests_total",
		Help: "The total number of facet definition lookups",
	})
	productRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfacets_product_requests_total",
		Help: "The total number of filtered product listings served",
	})
	rejectedChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskfacets_rejected_changes_total",
		Help: "The total number of filter changes that could not be parsed",
	})
)

type WebServer struct {
	Sessions *session.Manager
	Catalog  *facet.Catalog
	Tracking tracking.Tracking
	Logger   *zap.Logger
}

func NewWebServer(sessions *session.Manager, cat *facet.Catalog, trk tracking.Tracking, logger *zap.Logger) *WebServer {
	if cat == nil {
		cat = facet.DefaultCatalog()
	}
	if trk == nil {
		trk = tracking.NoTracking{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebServer{Sessions: sessions, Catalog: cat, Tracking: trk, Logger: logger}
}

type SessionResponse struct {
	Id            string             `json:"id"`
	State         filter.State       `json:"filters"`
	ActiveFilters int                `json:"activeFilters"`
	Facets        facet.Definition   `json:"facets"`
	Category      types.CategoryType `json:"category"`
	Products      int                `json:"products"`
}

type ChangeResponse struct {
	*SessionResponse
	Changed bool `json:"changed"`
}

type ProductsResponse struct {
	Items         []types.Product  `json:"items"`
	TotalHits     int              `json:"totalHits"`
	ActiveFilters int              `json:"activeFilters"`
	Sort          filter.SortOrder `json:"sort"`
	Page          int              `json:"page"`
	PageSize      int              `json:"pageSize"`
}

type CountsResponse struct {
	Kind   types.FacetKind     `json:"kind"`
	Values []filter.ValueCount `json:"values"`
}

type SearchesResponse struct {
	Recent []string `json:"recent"`
}

func toSessionResponse(s *session.Session) *SessionResponse {
	state := s.State()
	facets := s.Facets()
	return &SessionResponse{
		Id:            s.Id,
		State:         state,
		ActiveFilters: state.ActiveCount(),
		Facets:        facets,
		Category:      facets.Category,
		Products:      s.Len(),
	}
}

func badRequest(err error) error {
	return common.WithStatus(http.StatusBadRequest, err)
}

func (ws *WebServer) getSession(r *http.Request) (*session.Session, error) {
	s, err := ws.Sessions.Get(chi.URLParam(r, "id"))
	if errors.Is(err, session.ErrSessionNotFound) {
		return nil, common.WithStatus(http.StatusNotFound, err)
	}
	return s, err
}

func (ws *WebServer) Facets(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	facetRequests.Inc()
	w.Header().Set("Cache-Control", "public, max-age=600")
	return enc.Encode(ws.Catalog.ForLabel(r.URL.Query().Get("category")))
}

func (ws *WebServer) CreateSession(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	seed, err := SeedFromRequest(r)
	if err != nil {
		return badRequest(err)
	}
	s := ws.Sessions.Create(r.Context(), seed)
	ws.Tracking.TrackSession(s.Id, r)
	w.Header().Set("Location", fmt.Sprintf("/api/sessions/%s", s.Id))
	w.WriteHeader(http.StatusCreated)
	return enc.Encode(toSessionResponse(s))
}

func (ws *WebServer) GetSession(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	s, err := ws.getSession(r)
	if err != nil {
		return err
	}
	return enc.Encode(toSessionResponse(s))
}

func (ws *WebServer) DeleteSession(w http.ResponseWriter, r *http.Request) {
	err := ws.Sessions.Close(chi.URLParam(r, "id"))
	if errors.Is(err, session.ErrSessionNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ws *WebServer) ApplyFilter(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	s, err := ws.getSession(r)
	if err != nil {
		return err
	}
	change, err := ChangeFromRequest(r)
	if err != nil {
		rejectedChanges.Inc()
		return badRequest(err)
	}
	if _, ok := s.ApplyKind(change.Kind, change.Value); !ok {
		rejectedChanges.Inc()
		return badRequest(fmt.Errorf("invalid value %q for filter %q", change.Value, change.Kind))
	}
	res := toSessionResponse(s)
	ws.Tracking.TrackFilterChange(s.Id, change.Kind, change.Value, res.State, len(s.Result(filter.SortRelevance)))
	return enc.Encode(ChangeResponse{SessionResponse: res, Changed: true})
}

func (ws *WebServer) ClearFilters(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	s, err := ws.getSession(r)
	if err != nil {
		return err
	}
	s.ClearAll()
	ws.Tracking.TrackClear(s.Id)
	return enc.Encode(toSessionResponse(s))
}

func paginate(items []types.Product, page, size int) []types.Product {
	if size <= 0 {
		return items
	}
	start := max(page, 0) * size
	if start >= len(items) {
		return []types.Product{}
	}
	return items[start:min(start+size, len(items))]
}

func (ws *WebServer) Products(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	s, err := ws.getSession(r)
	if err != nil {
		return err
	}
	req := PageRequest{}
	if err = decodeQuery(r.URL.Query(), &req); err != nil {
		return badRequest(err)
	}
	productRequests.Inc()
	order := filter.ParseSortOrder(req.Sort)
	items := s.Result(order)
	return enc.Encode(ProductsResponse{
		Items:         paginate(items, req.Page, req.PageSize),
		TotalHits:     len(items),
		ActiveFilters: s.ActiveFilterCount(),
		Sort:          order,
		Page:          req.Page,
		PageSize:      req.PageSize,
	})
}

func (ws *WebServer) Counts(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	s, err := ws.getSession(r)
	if err != nil {
		return err
	}
	kind := types.FacetKind(r.URL.Query().Get("kind"))
	if kind == "" {
		return badRequest(ErrMissingKind)
	}
	values := s.Counts(kind)
	if values == nil {
		return badRequest(fmt.Errorf("no counts for filter %q", kind))
	}
	return enc.Encode(CountsResponse{Kind: kind, Values: values})
}

func (ws *WebServer) RecordSearch(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	s, err := ws.getSession(r)
	if err != nil {
		return err
	}
	req := SearchRequest{}
	if err = decodeRequest(r, &req); err != nil {
		return badRequest(err)
	}
	if !ws.Sessions.RecordSearch(s, req.Query) {
		return badRequest(errors.New("empty search query"))
	}
	ws.Tracking.TrackSearch(s.Id, search.Normalize(req.Query), len(s.Result(filter.SortRelevance)), r)
	return enc.Encode(SearchesResponse{Recent: s.Recent.Items()})
}

func (ws *WebServer) RecentSearches(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	s, err := ws.getSession(r)
	if err != nil {
		return err
	}
	return enc.Encode(SearchesResponse{Recent: s.Recent.Items()})
}

func (ws *WebServer) PopularSearches(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error {
	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return badRequest(fmt.Errorf("invalid limit %q", v))
		}
		limit = n
	}
	return enc.Encode(ws.Sessions.Popular.Top(limit))
}

func (ws *WebServer) Router() http.Handler {
	h := func(fn func(w http.ResponseWriter, r *http.Request, enc jsoncompat.Encoder) error) http.HandlerFunc {
		return common.JsonHandler(ws.Logger, fn)
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer, middleware.RealIP, common.Cors)

	r.Route("/api", func(r chi.Router) {
		r.Get("/facets", h(ws.Facets))
		r.Get("/searches/popular", h(ws.PopularSearches))
		r.Post("/sessions", h(ws.CreateSession))
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", h(ws.GetSession))
			r.Delete("/", ws.DeleteSession)
			r.Post("/filters", h(ws.ApplyFilter))
			r.Delete("/filters", h(ws.ClearFilters))
			r.Get("/products", h(ws.Products))
			r.Get("/counts", h(ws.Counts))
			r.Post("/searches", h(ws.RecordSearch))
			r.Get("/searches", h(ws.RecentSearches))
		})
	})
	return r
}
