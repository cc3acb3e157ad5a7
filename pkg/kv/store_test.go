package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stringListStore interface {
	GetStringList(ctx context.Context, key string) ([]string, bool, error)
	SetStringList(ctx context.Context, key string, values []string) error
}

// testStoreContract exercises the behaviour every backend shares.
func testStoreContract(t *testing.T, s stringListStore) {
	t.Helper()
	ctx := context.Background()

	values, ok, err := s.GetStringList(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, values)

	require.NoError(t, s.SetStringList(ctx, "completed", []string{"b", "a"}))
	values, ok, err = s.GetStringList(ctx, "completed")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.ElementsMatch(t, []string{"a", "b"}, values)

	// Overwrite replaces the whole list.
	require.NoError(t, s.SetStringList(ctx, "completed", []string{"c"}))
	values, _, err = s.GetStringList(ctx, "completed")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, values)

	// Keys are independent.
	require.NoError(t, s.SetStringList(ctx, "other", []string{"x"}))
	values, _, err = s.GetStringList(ctx, "completed")
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, values)
}
