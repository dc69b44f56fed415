package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/matst80/slask-facets/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPProviderDecodesArray(t *testing.T) {
	srv := serve(t, http.StatusOK, `[
		{"id": 12, "name": "Air Max", "category": "Shoes", "subCategory": "Running", "brand": "Nike",
		 "colour": "Black", "gender": "Men", "sizes": ["42", 43], "price": "499.5", "rating": 4.5,
		 "stockQuantity": 3, "discountPercentage": 10},
		{"id": "b", "title": {"en": "Kettle"}, "price": null, "rating": "n/a", "stock": -4}
	]`)
	p := NewHTTPProvider(srv.URL, time.Second)

	products, err := p.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, types.Product{
		Id: "12", Title: "Air Max", Category: "Shoes", Subcategory: "Running", Brand: "Nike",
		Color: "Black", Gender: "Men", Sizes: []string{"42", "43"}, Price: 499.5, Rating: 4.5,
		Stock: 3, Discount: 10,
	}, products[0])
	assert.Equal(t, "Kettle", products[1].Title)
	assert.Equal(t, 0.0, products[1].Price)
	assert.Equal(t, 0.0, products[1].Rating)
	assert.Equal(t, 0, products[1].Stock)
}

func TestHTTPProviderDecodesEnvelope(t *testing.T) {
	srv := serve(t, http.StatusOK, `{"products": [{"id": "1", "brand": "Apple", "size": "S, M"}]}`)
	products, err := NewHTTPProvider(srv.URL, time.Second).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, []string{"S", "M"}, products[0].Sizes)
}

func TestHTTPProviderErrors(t *testing.T) {
	srv := serve(t, http.StatusBadGateway, `oops`)
	_, err := NewHTTPProvider(srv.URL, time.Second).FetchAll(context.Background())
	assert.ErrorIs(t, err, ErrUnexpectedStatus)

	srv = serve(t, http.StatusOK, `not json`)
	_, err = NewHTTPProvider(srv.URL, time.Second).FetchAll(context.Background())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv = serve(t, http.StatusOK, `[]`)
	_, err = NewHTTPProvider(srv.URL, time.Second).FetchAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaticProviderCopies(t *testing.T) {
	s := StaticProvider{{Id: "1"}}
	products, err := s.FetchAll(context.Background())
	require.NoError(t, err)
	products[0].Id = "changed"
	assert.Equal(t, types.ProductId("1"), s[0].Id)
}
