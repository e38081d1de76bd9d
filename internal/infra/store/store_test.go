package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/ligue-prospect/internal/config"
	"github.com/xavierca1/ligue-prospect/internal/infra/store"
)

func TestOpenMemory(t *testing.T) {
	s, err := store.Open(context.Background(), config.Config{StoreDriver: config.DriverMemory})
	require.NoError(t, err)
	assert.NotNil(t, s.Leads)
	assert.NotNil(t, s.Scripts)
	assert.Nil(t, s.Ping)
	assert.NoError(t, s.Close())
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := store.Open(context.Background(), config.Config{StoreDriver: "sqlite"})
	assert.Error(t, err)
}
