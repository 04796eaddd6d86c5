package api_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/docker/docker/client"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"jrc-server/internal/api"
	"jrc-server/internal/messaging"
	"jrc-server/internal/model"
)

func TestNewRateLimitStore_AcceptsRedisClient(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()

	assert.NotNil(t, api.NewRateLimitStore(rdb, 1))
	assert.NotNil(t, api.NewRateLimitStore(nil, 1))
}

func TestRateLimit_RedisStore(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		t.Skipf("Docker client init error: %v", err)
	}
	defer cli.Close()
	if _, err := cli.Ping(context.Background()); err != nil {
		t.Skipf("Docker daemon is not accessible: %v", err)
	}

	ctx := context.Background()
	container, err := tcredis.Run(ctx,
		"docker.io/redis:7-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("* Ready to accept connections").
				WithOccurrence(1).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "Failed to start redis container")
	defer func() { _ = container.Terminate(ctx) }()

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	defer rdb.Close()
	require.NoError(t, rdb.Ping(ctx).Err())

	env := newTestEnvWithRateStore(t, api.NewRateLimitStore(rdb, 1))
	env.login(t)
	env.generator.On("Generate", mock.Anything, "1", mock.Anything).Return(samplePlan("plan-1"), nil).Once()
	env.publisher.On("Publish", mock.Anything, eventOfType(messaging.EventPlanGenerated, "plan-1")).Return(nil).Once()

	w := env.do(t, http.MethodPost, "/api/plans/generate", generateBody)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/plans/generate", generateBody)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, model.ErrCodeRateLimited, decodeError(t, w).Code)

	// Счётчик лежит в redis, а не в памяти процесса.
	keys, err := rdb.Keys(ctx, "*hits").Result()
	require.NoError(t, err)
	assert.NotEmpty(t, keys)
}
