package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathID(t *testing.T) {
	id, err := pathID("/admin/orders/12/items", "/admin/orders/")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	id, err = pathID("/admin/materials/7", "/admin/materials/")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	_, err = pathID("/admin/orders/abc/items", "/admin/orders/")
	assert.Error(t, err)

	_, err = pathID("/admin/orders/0", "/admin/orders/")
	assert.Error(t, err)

	_, err = pathID("/admin/orders/", "/admin/orders/")
	assert.Error(t, err)
}
