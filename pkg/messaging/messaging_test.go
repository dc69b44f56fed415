package messaging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetName(t *testing.T) {
	assert.Equal(t, "facets_products_changed", getName(ServicePrefix, ProductsChanged))
	assert.Equal(t, "global_tracking", getName(GlobalPrefix, Tracking))
}

func TestEncodeDecodeProductChange(t *testing.T) {
	msg, err := encode(ProductChange{Ids: []string{"1", "2"}, Reason: "price"})
	require.NoError(t, err)
	assert.Equal(t, "application/json", msg.ContentType)

	var got ProductChange
	require.NoError(t, decode(msg.Body, func(c ProductChange) error {
		got = c
		return nil
	}))
	assert.Equal(t, ProductChange{Ids: []string{"1", "2"}, Reason: "price"}, got)
}

func TestDecodeErrors(t *testing.T) {
	called := false
	err := decode([]byte("{"), func(ProductChange) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)

	boom := errors.New("boom")
	err = decode([]byte(`{}`), func(ProductChange) error { return boom })
	assert.ErrorIs(t, err, boom)
}
