// AngelaMos | 2026
// redis_test.go

package core

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisFromClient(client), mr
}

func TestRedis_FlagExpires(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r, mr := newTestRedis(t)

	flagged, err := r.Flagged(ctx, "session:revoked:a")
	require.NoError(t, err)
	require.False(t, flagged)

	require.NoError(t, r.Flag(ctx, "session:revoked:a", time.Minute))

	flagged, err = r.Flagged(ctx, "session:revoked:a")
	require.NoError(t, err)
	require.True(t, flagged)

	mr.FastForward(2 * time.Minute)

	flagged, err = r.Flagged(ctx, "session:revoked:a")
	require.NoError(t, err)
	require.False(t, flagged)
}

func TestRedis_ClaimAndRelease(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r, _ := newTestRedis(t)

	won, err := r.Claim(ctx, "otp:cooldown:a@b.c", time.Minute)
	require.NoError(t, err)
	require.True(t, won)

	won, err = r.Claim(ctx, "otp:cooldown:a@b.c", time.Minute)
	require.NoError(t, err)
	require.False(t, won)

	require.NoError(t, r.Release(ctx, "otp:cooldown:a@b.c"))

	won, err = r.Claim(ctx, "otp:cooldown:a@b.c", time.Minute)
	require.NoError(t, err)
	require.True(t, won)
}

func TestRedis_ErrorsAreWrapped(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	r, mr := newTestRedis(t)
	mr.Close()

	_, err := r.Flagged(ctx, "k")
	require.ErrorContains(t, err, "check flag k")

	_, err = r.Claim(ctx, "k", time.Second)
	require.ErrorContains(t, err, "claim k")

	require.Error(t, r.Ping(ctx))
}
