package session

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waybill/internal/types"
)

func setupManager(t *testing.T) *Manager {
	t.Helper()
	addr := os.Getenv("WAYBILL_REDIS_ADDR")
	if addr == "" {
		t.Skip("WAYBILL_REDIS_ADDR not set; skipping redis-backed tests")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewManager(NewStore(rdb, time.Minute))
}

func TestManager_UserRoundTrip(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()
	id := types.ID(fmt.Sprintf("driver_%d", time.Now().UnixNano()))

	require.NoError(t, m.SaveUser(ctx, User{ID: id, Role: "driver", VerificationStatus: "submitted"}))
	u, err := m.LoadUser(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "submitted", u.VerificationStatus)
	assert.False(t, u.UpdatedAt.IsZero())
}

func TestManager_MissingSnapshot(t *testing.T) {
	m := setupManager(t)
	_, err := m.LoadStatistics(context.Background(), "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "waybill:session:order:o1", key("order", "o1"))
}
