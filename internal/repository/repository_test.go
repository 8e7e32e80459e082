package repository

import (
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/portal-go-api/internal/kv"
)

func newTestStore(t *testing.T) kv.Store {
	t.Helper()

	mini, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mini.Close)

	return kv.NewRedisStore(redis.NewClient(&redis.Options{Addr: mini.Addr()}))
}
