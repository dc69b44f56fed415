package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matst80/slask-facets/pkg/catalog"
	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/matst80/slask-facets/pkg/filter"
	"github.com/matst80/slask-facets/pkg/session"
	"github.com/matst80/slask-facets/pkg/tracking"
	"github.com/matst80/slask-facets/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var products = catalog.StaticProvider{
	{Id: "1", Title: "Air Runner", Category: "Shoes", Brand: "Nike", Price: 300, Rating: 4.5, Stock: 2, Sizes: []string{"42"}},
	{Id: "2", Title: "Court Classic", Category: "Shoes", Brand: "Adidas", Price: 150, Rating: 3, Stock: 0, Sizes: []string{"41", "42"}},
	{Id: "3", Title: "Phone", Category: "Electronics", Brand: "Apple", Price: 4000, Rating: 5, Stock: 1},
	{Id: "4", Title: "Boot", Category: "Shoes", Brand: "Nike", Price: 900, Rating: 2, Stock: 5},
}

type trackingSpy struct {
	tracking.NoTracking
	mu      sync.Mutex
	changes []types.FacetKind
	created int
}

func (t *trackingSpy) TrackSession(string, *http.Request) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.created++
}

func (t *trackingSpy) TrackFilterChange(_ string, kind types.FacetKind, _ string, _ filter.State, _ int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.changes = append(t.changes, kind)
}

type fixture struct {
	handler http.Handler
	manager *session.Manager
	spy     *trackingSpy
}

func newFixture() *fixture {
	manager := session.NewManager(products, nil, filter.NewEvaluator(1), time.Hour, 3, nil)
	spy := &trackingSpy{}
	ws := NewWebServer(manager, nil, spy, nil)
	return &fixture{handler: ws.Router(), manager: manager, spy: spy}
}

func (f *fixture) do(t *testing.T, method, target string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		data, err := jsoncompat.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, target, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json; charset=utf-8")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	if out != nil && rec.Code < 300 {
		require.NoError(t, jsoncompat.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec
}

func (f *fixture) create(t *testing.T, query url.Values) SessionResponse {
	t.Helper()
	res := SessionResponse{}
	rec := f.do(t, http.MethodPost, "/api/sessions?"+query.Encode(), nil, &res)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return res
}

func TestFacetsEndpoint(t *testing.T) {
	f := newFixture()
	res := map[string]any{}
	rec := f.do(t, http.MethodGet, "/api/facets?category=Running+Shoes", nil, &res)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "shoes", res["category"])
	assert.Contains(t, res["brands"], "Nike")
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture()
	created := f.create(t, url.Values{"category": {"shoes"}})
	assert.Equal(t, types.CategoryShoes, created.Category)
	assert.Equal(t, 4, created.Products)
	assert.Equal(t, 0, created.ActiveFilters)
	assert.Equal(t, 1, f.spy.created)

	got := SessionResponse{}
	rec := f.do(t, http.MethodGet, "/api/sessions/"+created.Id, nil, &got)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.Id, got.Id)

	rec = f.do(t, http.MethodDelete, "/api/sessions/"+created.Id, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = f.do(t, http.MethodGet, "/api/sessions/"+created.Id, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = f.do(t, http.MethodDelete, "/api/sessions/"+created.Id, nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSeededSession(t *testing.T) {
	f := newFixture()
	created := f.create(t, url.Values{
		"category":          {"shoes"},
		"brand":             {"Nike", "Adidas"},
		"maxPrice":          {"500"},
		"excludeOutOfStock": {"true"},
		"unknown":           {"ignored"},
	})
	assert.Equal(t, []string{"Adidas", "Nike"}, created.State.Brands.Values())
	assert.Equal(t, 500.0, created.State.MaxPrice)
	assert.True(t, created.State.ExcludeOutOfStock)
	assert.Equal(t, 3, created.ActiveFilters)

	res := ProductsResponse{}
	f.do(t, http.MethodGet, "/api/sessions/"+created.Id+"/products", nil, &res)
	require.Len(t, res.Items, 1)
	assert.Equal(t, types.ProductId("1"), res.Items[0].Id)
}

func TestApplyFilterAndClear(t *testing.T) {
	f := newFixture()
	id := f.create(t, url.Values{"category": {"shoes"}}).Id
	base := "/api/sessions/" + id

	changed := ChangeResponse{}
	rec := f.do(t, http.MethodPost, base+"/filters?kind=brand&value=Nike", nil, &changed)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, changed.Changed)
	assert.Equal(t, 1, changed.ActiveFilters)

	rec = f.do(t, http.MethodPost, base+"/filters", ChangeRequest{Kind: types.FacetRating, Value: "4"}, &changed)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 4, changed.State.Rating)

	rec = f.do(t, http.MethodPost, base+"/filters", ChangeRequest{Kind: types.FacetPriceRange, Value: "200-250"}, &changed)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, changed.ActiveFilters)

	res := ProductsResponse{}
	f.do(t, http.MethodGet, base+"/products", nil, &res)
	assert.Empty(t, res.Items)
	assert.NotNil(t, res.Items)

	cleared := SessionResponse{}
	rec = f.do(t, http.MethodDelete, base+"/filters", nil, &cleared)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, cleared.ActiveFilters)
	assert.Equal(t, "shoes", cleared.State.Category)

	assert.Equal(t, []types.FacetKind{types.FacetBrand, types.FacetRating, types.FacetPriceRange}, f.spy.changes)
}

func TestApplyFilterRejectsBadInput(t *testing.T) {
	f := newFixture()
	id := f.create(t, url.Values{}).Id
	base := "/api/sessions/" + id

	for _, target := range []string{
		base + "/filters",
		base + "/filters?kind=material&value=leather",
		base + "/filters?kind=rating&value=lots",
		base + "/filters?kind=priceRange&value=100",
	} {
		rec := f.do(t, http.MethodPost, target, nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.True(t, strings.Contains(rec.Body.String(), `"error"`), target)
	}

	rec := f.do(t, http.MethodPost, "/api/sessions/missing/filters?kind=brand&value=Nike", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	got := SessionResponse{}
	f.do(t, http.MethodGet, base, nil, &got)
	assert.Equal(t, 0, got.ActiveFilters)
}

func TestProductsSortingAndPaging(t *testing.T) {
	f := newFixture()
	id := f.create(t, url.Values{"category": {"shoes"}}).Id

	res := ProductsResponse{}
	f.do(t, http.MethodGet, "/api/sessions/"+id+"/products?sort=price_desc&size=2", nil, &res)
	assert.Equal(t, 3, res.TotalHits)
	assert.Equal(t, filter.SortPriceDesc, res.Sort)
	require.Len(t, res.Items, 2)
	assert.Equal(t, types.ProductId("4"), res.Items[0].Id)
	assert.Equal(t, types.ProductId("1"), res.Items[1].Id)

	f.do(t, http.MethodGet, "/api/sessions/"+id+"/products?sort=price_desc&size=2&page=1", nil, &res)
	require.Len(t, res.Items, 1)
	assert.Equal(t, types.ProductId("2"), res.Items[0].Id)

	f.do(t, http.MethodGet, "/api/sessions/"+id+"/products?size=2&page=7", nil, &res)
	assert.Empty(t, res.Items)
}

func TestCountsEndpoint(t *testing.T) {
	f := newFixture()
	id := f.create(t, url.Values{"category": {"shoes"}, "brand": {"Nike"}}).Id

	res := CountsResponse{}
	rec := f.do(t, http.MethodGet, "/api/sessions/"+id+"/counts?kind=brand", nil, &res)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []filter.ValueCount{{Value: "Nike", Count: 2}, {Value: "Adidas", Count: 1}}, res.Values)

	rec = f.do(t, http.MethodGet, "/api/sessions/"+id+"/counts?kind=material", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = f.do(t, http.MethodGet, "/api/sessions/"+id+"/counts", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchEndpoints(t *testing.T) {
	f := newFixture()
	a := f.create(t, url.Values{}).Id
	b := f.create(t, url.Values{}).Id

	res := SearchesResponse{}
	f.do(t, http.MethodPost, "/api/sessions/"+a+"/searches?q=running+shoes", nil, &res)
	f.do(t, http.MethodPost, "/api/sessions/"+a+"/searches", SearchRequest{Query: "watch"}, &res)
	assert.Equal(t, []string{"watch", "running shoes"}, res.Recent)

	f.do(t, http.MethodPost, "/api/sessions/"+b+"/searches?q=Running+Shoes", nil, &res)
	rec := f.do(t, http.MethodPost, "/api/sessions/"+b+"/searches?q=++", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.do(t, http.MethodGet, "/api/sessions/"+a+"/searches", nil, &res)
	assert.Equal(t, []string{"watch", "running shoes"}, res.Recent)

	popular := []map[string]any{}
	rec = f.do(t, http.MethodGet, "/api/searches/popular?limit=1", nil, &popular)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, popular, 1)
	assert.Equal(t, float64(2), popular[0]["count"])

	rec = f.do(t, http.MethodGet, "/api/searches/popular?limit=x", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCorsPreflight(t *testing.T) {
	f := newFixture()
	req := httptest.NewRequest(http.MethodOptions, "/api/sessions", nil)
	req.Header.Set("Origin", "https://shop.example")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestDebugRouter(t *testing.T) {
	healthy := true
	h := DebugRouter(map[string]HealthCheck{
		"redis": func(ctx context.Context) error {
			if healthy {
				return nil
			}
			return context.DeadlineExceeded
		},
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	healthy = false
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
