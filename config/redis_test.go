package config

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("pass")

	client, err := InitRedis(context.Background(), mr.Addr(), "pass")
	require.NoError(t, err)
	defer client.Close()

	_, err = InitRedis(context.Background(), mr.Addr(), "wrong")
	assert.Error(t, err)
}
