package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRateLimiter_Allow(t *testing.T) {
	mr, client := setupMiniredis(t)
	limiter := NewRateLimiter(client, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, "login", "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be allowed", i+1)
	}

	ok, err := limiter.Allow(ctx, "login", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, ok, "4th attempt should be rejected")

	// Other clients have their own window.
	ok, err = limiter.Allow(ctx, "login", "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, ok)

	// Window expiry resets the counter.
	mr.FastForward(time.Minute + time.Second)
	ok, err = limiter.Allow(ctx, "login", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, ok)
}
