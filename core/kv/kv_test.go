package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect(t *testing.T) {
	t.Run("Reachable", func(t *testing.T) {
		mr := miniredis.RunT(t)

		client, err := Connect(context.Background(), Config{URL: "redis://" + mr.Addr()})
		require.NoError(t, err)
		defer client.Close()

		require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
		mr.CheckGet(t, "k", "v")
	})

	t.Run("Invalid URL", func(t *testing.T) {
		_, err := Connect(context.Background(), Config{URL: "http://nope"})
		assert.ErrorContains(t, err, "invalid redis URL")
	})

	t.Run("Unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		_, err := Connect(context.Background(), Config{URL: "redis://" + addr, DialTimeout: 200 * time.Millisecond})
		assert.ErrorContains(t, err, "failed to connect to redis")
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "catalog:vintage:7", Key("catalog", "vintage", "7"))
	assert.Equal(t, "wine:100:vintages", Key("", "wine", "100", "vintages"))
}
