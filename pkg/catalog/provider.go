package catalog

import (
	"context"
	"slices"

	"github.com/matst80/slask-facets/pkg/types"
)

// Provider returns the full product collection. Callers treat the returned slice as an
// immutable snapshot.
type Provider interface {
	FetchAll(ctx context.Context) ([]types.Product, error)
}

type ProviderFunc func(ctx context.Context) ([]types.Product, error)

func (f ProviderFunc) FetchAll(ctx context.Context) ([]types.Product, error) {
	return f(ctx)
}

// StaticProvider serves a fixed collection.
type StaticProvider []types.Product

func (s StaticProvider) FetchAll(ctx context.Context) ([]types.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone([]types.Product(s)), nil
}
