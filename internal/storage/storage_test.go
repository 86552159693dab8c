package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ristorante/internal/config"
)

func TestOpen_Memory(t *testing.T) {
	ctx := context.Background()
	cfg := &config.Config{Storage: config.StorageConfig{Driver: config.DriverMemory}}

	repos, err := Open(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, config.DriverMemory, repos.Driver)
	assert.NotNil(t, repos.Tables)
	assert.NotNil(t, repos.Orders)
	assert.NotNil(t, repos.Catalog)
	assert.NoError(t, repos.Ping(ctx))
	assert.NoError(t, repos.Close(ctx))
}

func TestOpen_UnknownDriver(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "sqlite"}}

	_, err := Open(context.Background(), cfg, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported storage driver")
}

func TestNewMemory_SharesOneStore(t *testing.T) {
	ctx := context.Background()
	repos := NewMemory()

	count, err := repos.Tables.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	orders, err := repos.Orders.FindOpen(ctx)
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}
