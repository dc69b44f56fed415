package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/matst80/slask-facets/pkg/types"
)

var ErrUnexpectedStatus = errors.New("unexpected status from product api")

type HTTPProvider struct {
	Url    string
	Client *http.Client
}

func NewHTTPProvider(url string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		Url:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

type productEnvelope struct {
	Products []wireProduct `json:"products"`
	Data     []wireProduct `json:"data"`
}

func (h *HTTPProvider) FetchAll(ctx context.Context) ([]types.Product, error) {
	const op = "catalog.HTTPProvider.FetchAll"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.Url, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w: %d", op, ErrUnexpectedStatus, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}

	// plain array or an object wrapping it
	var records []wireProduct
	if err = jsoncompat.Unmarshal(body, &records); err != nil {
		var env productEnvelope
		if envErr := jsoncompat.Unmarshal(body, &env); envErr != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		records = env.Products
		if records == nil {
			records = env.Data
		}
	}
	return decodeProducts(records), nil
}
