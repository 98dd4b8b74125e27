package api

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"grindai/fitness-planner/internal/logger"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based test in short mode")
	}
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("docker not installed, skipping container-based test")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("could not start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	addr, err := container.PortEndpoint(ctx, "6379/tcp", "")
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRateLimiter_IsAllowed(t *testing.T) {
	client := setupRedis(t)
	limiter, err := NewRateLimiter(client, RateLimitConfig{Window: time.Hour, Limit: 2}, logger.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	allowed, remaining, reset, err := limiter.IsAllowed(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
	assert.True(t, reset.After(time.Now()))

	allowed, remaining, _, err = limiter.IsAllowed(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, _, err = limiter.IsAllowed(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, allowed)

	// counters are per owner
	allowed, _, _, err = limiter.IsAllowed(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestNewRateLimiter_RejectsBadConfig(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer client.Close()

	tests := []struct {
		name   string
		config RateLimitConfig
	}{
		{"zero window", RateLimitConfig{Window: 0, Limit: 5}},
		{"negative window", RateLimitConfig{Window: -time.Minute, Limit: 5}},
		{"sub-second window", RateLimitConfig{Window: 500 * time.Millisecond, Limit: 5}},
		{"zero limit", RateLimitConfig{Window: time.Hour, Limit: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter, err := NewRateLimiter(client, tt.config, logger.Nop())
			assert.Error(t, err)
			assert.Nil(t, limiter)
		})
	}

	t.Run("defaults the key prefix", func(t *testing.T) {
		limiter, err := NewRateLimiter(client, RateLimitConfig{Window: time.Second, Limit: 1}, logger.Nop())
		require.NoError(t, err)
		assert.Equal(t, "rate_limit:plan_generation", limiter.config.KeyPrefix)
	})
}
