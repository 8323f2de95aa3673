package redis_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/random-spot/internal/domain"
	redisRepo "github.com/random-spot/internal/repository/redis"
)

const (
	testRequestStream = "test:stream:spot:generate"
	testDoneStream    = "test:stream:spot:done"
)

// getTestRedisClient creates a Redis client for testing
func getTestRedisClient(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use DB 1 for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for integration tests: %v", err)
	}

	client.Del(ctx, testRequestStream, testDoneStream)
	t.Cleanup(func() {
		client.Del(context.Background(), testRequestStream, testDoneStream)
		_ = client.Close()
	})

	return client
}

func TestStreamRepository_CreateConsumerGroup(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.CreateConsumerGroup(ctx, testRequestStream, "test-group"))

	groups, err := client.XInfoGroups(ctx, testRequestStream).Result()
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "test-group", groups[0].Name)

	// Creating again should not error (BUSYGROUP handled)
	assert.NoError(t, repo.CreateConsumerGroup(ctx, testRequestStream, "test-group"))
}

func TestStreamRepository_PublishToStream(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()

	requestID := uuid.New()
	event := &domain.SpotDoneEvent{
		RequestID: requestID,
		Spot: &domain.Spot{
			ID:         uuid.New(),
			RegionID:   "france",
			RegionName: "France",
			Lat:        46.1,
			Lon:        2.3,
			Attempts:   2,
		},
	}
	require.NoError(t, repo.PublishToStream(ctx, testDoneStream, event))

	messages, err := client.XRead(ctx, &redis.XReadArgs{
		Streams: []string{testDoneStream, "0"},
		Count:   1,
	}).Result()
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Len(t, messages[0].Messages, 1)

	dataStr, ok := messages[0].Messages[0].Values["data"].(string)
	require.True(t, ok)

	var received domain.SpotDoneEvent
	require.NoError(t, json.Unmarshal([]byte(dataStr), &received))
	assert.Equal(t, requestID, received.RequestID)
	require.NotNil(t, received.Spot)
	assert.Equal(t, "France", received.Spot.RegionName)
}

func TestStreamRepository_ConsumeBatchAndAck(t *testing.T) {
	client := getTestRedisClient(t)
	repo := redisRepo.NewStreamRepository(client, zap.NewNop())
	ctx := context.Background()
	group := "test-batch-group"

	require.NoError(t, repo.CreateConsumerGroup(ctx, testRequestStream, group))

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.PublishToStream(ctx, testRequestStream, &domain.SpotRequestEvent{
			RequestID: uuid.New(),
			Region:    "Chile",
		}))
	}

	messages, err := repo.ConsumeBatch(ctx, testRequestStream, group, "consumer-1", 2)
	require.NoError(t, err)
	assert.Len(t, messages, 2)

	rest, err := repo.ConsumeBatch(ctx, testRequestStream, group, "consumer-1", 20)
	require.NoError(t, err)
	assert.Len(t, rest, 1)

	ids := []string{messages[0].ID, messages[1].ID, rest[0].ID}

	pending, err := client.XPending(ctx, testRequestStream, group).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(3), pending.Count)

	require.NoError(t, repo.AckMessages(ctx, testRequestStream, group, ids))

	pending, err = client.XPending(ctx, testRequestStream, group).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)

	empty, err := repo.ConsumeBatch(ctx, testRequestStream, group, "consumer-1", 20)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
