package services

import (
	"context"
	"testing"
	"time"

	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/redisclient"
	"github.com/securevote/app-verify/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWarningStoreSuite(t *testing.T, store WarningStore) {
	ctx := context.Background()

	entry, err := store.Get(ctx, "VOTER-1")
	require.NoError(t, err)
	assert.Nil(t, entry)

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, store.Put(ctx, "VOTER-1", models.WarningEntry{
		Count:          1,
		FirstWarningAt: now,
		LastWarningAt:  now,
		CandidateID:    "CAND-1",
		LastViolation:  models.ViolationMultipleFaces,
	}, time.Minute))

	entry, err = store.Get(ctx, "VOTER-1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, 1, entry.Count)
	assert.Equal(t, "CAND-1", entry.CandidateID)
	assert.True(t, entry.LastWarningAt.Equal(now))

	require.NoError(t, store.Delete(ctx, "VOTER-1"))
	entry, err = store.Get(ctx, "VOTER-1")
	require.NoError(t, err)
	assert.Nil(t, entry)

	require.NoError(t, store.Delete(ctx, "VOTER-404"))
}

func TestMemoryWarningStore(t *testing.T) {
	runWarningStoreSuite(t, NewMemoryWarningStore())
}

func TestMemoryWarningStore_Expiry(t *testing.T) {
	clock := newFakeClock()
	store := NewMemoryWarningStore()
	store.now = clock.Now
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "VOTER-1", models.WarningEntry{Count: 1}, time.Minute))
	clock.Advance(59 * time.Second)
	entry, err := store.Get(ctx, "VOTER-1")
	require.NoError(t, err)
	assert.NotNil(t, entry)

	clock.Advance(time.Second)
	entry, err = store.Get(ctx, "VOTER-1")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestRedisWarningStore(t *testing.T) {
	client := testutil.RedisClient(t)
	store := NewRedisWarningStore(redisclient.NewClient(client), "test:warnings:")

	runWarningStoreSuite(t, store)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "VOTER-2", models.WarningEntry{Count: 1}, 5*time.Minute))
	ttl, err := client.TTL(ctx, "test:warnings:VOTER-2").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 4*time.Minute)
}
