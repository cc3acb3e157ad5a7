//go:build integration

package kv

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func natsURL() string {
	if url := os.Getenv("NATS_URL"); url != "" {
		return url
	}
	return nats.DefaultURL
}

func setupNATS(t *testing.T) *NATS {
	t.Helper()
	conn, err := nats.Connect(natsURL())
	if err != nil {
		t.Skipf("NATS not available: %v", err)
	}
	t.Cleanup(conn.Close)

	bucket := fmt.Sprintf("monarch-test-%d", time.Now().UnixNano())
	store, err := NewNATS(context.Background(), conn, bucket)
	require.NoError(t, err)
	return store
}

func TestNATS_Contract(t *testing.T) {
	testStoreContract(t, setupNATS(t))
}

func TestNATS_EmptyListIsStored(t *testing.T) {
	ctx := context.Background()
	n := setupNATS(t)

	require.NoError(t, n.SetStringList(ctx, "k", nil))

	values, ok, err := n.GetStringList(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, values)
}

func TestNATS_RequiresConnection(t *testing.T) {
	_, err := NewNATS(context.Background(), nil, "b")
	assert.ErrorContains(t, err, "nats connection required")
}
