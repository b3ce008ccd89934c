package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/poster-outreach/internal/llm"
)

type countingCompleter struct {
	calls   int
	content string
	err     error
}

func (c *countingCompleter) Complete(_ context.Context, _ llm.CompletionRequest) (string, error) {
	c.calls++
	return c.content, c.err
}

func (c *countingCompleter) Name() string { return "fake" }

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCompleterCachesContent(t *testing.T) {
	_, client := setupTestRedis(t)
	next := &countingCompleter{content: `{"event_name":"Jazz Night"}`}
	c := New(next, client, time.Hour, nil)
	req := llm.CompletionRequest{System: "sys", Prompt: "poster text"}
	ctx := context.Background()

	first, err := c.Complete(ctx, req)
	require.NoError(t, err)
	second, err := c.Complete(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, "fake", c.Name())
}

func TestCompleterExpires(t *testing.T) {
	mr, client := setupTestRedis(t)
	next := &countingCompleter{content: "{}"}
	c := New(next, client, time.Minute, nil)
	req := llm.CompletionRequest{Prompt: "p"}
	ctx := context.Background()

	_, err := c.Complete(ctx, req)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = c.Complete(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 2, next.calls)
}

func TestCompleterDoesNotCacheErrors(t *testing.T) {
	mr, client := setupTestRedis(t)
	next := &countingCompleter{err: errors.New("quota exceeded")}
	c := New(next, client, time.Hour, nil)
	req := llm.CompletionRequest{Prompt: "p"}

	_, err := c.Complete(context.Background(), req)
	require.Error(t, err)
	assert.False(t, mr.Exists(Key("fake", req)))
}

func TestCompleterFallsThroughWhenRedisDown(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	defer client.Close()
	next := &countingCompleter{content: "{}"}
	c := New(next, client, time.Hour, nil)

	got, err := c.Complete(context.Background(), llm.CompletionRequest{Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "{}", got)
	assert.Equal(t, 1, next.calls)
}

func TestKeyDistinguishesRequests(t *testing.T) {
	a := Key("openai", llm.CompletionRequest{System: "s", Prompt: "p"})
	b := Key("openai", llm.CompletionRequest{System: "sp", Prompt: ""})
	c := Key("gemini", llm.CompletionRequest{System: "s", Prompt: "p"})

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "poster:llm:openai:")
}

func TestPing(t *testing.T) {
	_, client := setupTestRedis(t)
	assert.NoError(t, Ping(context.Background(), client))
}
