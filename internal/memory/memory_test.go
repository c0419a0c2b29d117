package memory

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, limit int64) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewStore(client, time.Hour, limit), mr
}

func TestAppendAndRecent(t *testing.T) {
	store, _ := newTestStore(t, 10)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "client-1", Exchange{
		Utterance: "call mom",
		Response:  "Calling Mom",
	}))
	require.NoError(t, store.Append(ctx, "client-1", Exchange{
		Utterance: "open spotify",
		Response:  "Opening Spotify",
	}))

	recent, err := store.Recent(ctx, "client-1", 5)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "open spotify", recent[0].Utterance)
	assert.Equal(t, "call mom", recent[1].Utterance)
	assert.False(t, recent[0].At.IsZero())
}

func TestAppendTrimsToLimit(t *testing.T) {
	store, _ := newTestStore(t, 3)
	ctx := context.Background()

	for _, u := range []string{"one", "two", "three", "four", "five"} {
		require.NoError(t, store.Append(ctx, "client-1", Exchange{Utterance: u}))
	}

	recent, err := store.Recent(ctx, "client-1", 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "five", recent[0].Utterance)
	assert.Equal(t, "three", recent[2].Utterance)
}

func TestAppendSetsTTL(t *testing.T) {
	store, mr := newTestStore(t, 10)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "client-1", Exchange{Utterance: "hi"}))
	assert.Positive(t, mr.TTL("memory:client-1"))
}

func TestRecentIsolatesClients(t *testing.T) {
	store, _ := newTestStore(t, 10)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "client-a", Exchange{Utterance: "a side"}))

	recent, err := store.Recent(ctx, "client-b", 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}
