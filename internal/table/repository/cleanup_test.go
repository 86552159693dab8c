package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanupContext_HasDeadline(t *testing.T) {
	ctx, cancel := cleanupContext()
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(cleanupTimeout), deadline, time.Second)
	assert.NoError(t, ctx.Err())

	cancel()
	assert.Error(t, ctx.Err())
}
