package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// DefaultNATSBucket is the JetStream KV bucket used when none is configured.
const DefaultNATSBucket = "monarch"

// NATS keeps lists in a JetStream key-value bucket, one JSON-encoded value
// per key.
type NATS struct {
	conn *nats.Conn
	kv   jetstream.KeyValue
	owns bool
}

// ConnectNATS connects to url and opens bucket. Close also closes the
// connection.
func ConnectNATS(ctx context.Context, url, bucket string) (*NATS, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	store, err := NewNATS(ctx, conn, bucket)
	if err != nil {
		conn.Close()
		return nil, err
	}
	store.owns = true
	return store, nil
}

// NewNATS opens (creating if needed) bucket on an existing connection.
func NewNATS(ctx context.Context, conn *nats.Conn, bucket string) (*NATS, error) {
	if conn == nil {
		return nil, fmt.Errorf("nats connection required")
	}
	if bucket == "" {
		bucket = DefaultNATSBucket
	}

	js, err := jetstream.New(conn)
	if err != nil {
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  bucket,
		History: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create KV bucket %s: %w", bucket, err)
	}
	return &NATS{conn: conn, kv: kv}, nil
}

// GetStringList returns the list stored under key.
func (n *NATS) GetStringList(ctx context.Context, key string) ([]string, bool, error) {
	entry, err := n.kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	values, err := decodeList(key, entry.Value())
	if err != nil {
		return nil, false, err
	}
	return values, true, nil
}

// SetStringList replaces the list stored under key.
func (n *NATS) SetStringList(ctx context.Context, key string, values []string) error {
	data, err := encodeList(values)
	if err != nil {
		return err
	}
	if _, err := n.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Close closes the connection if the store opened it.
func (n *NATS) Close() error {
	if n.owns {
		n.conn.Close()
	}
	return nil
}
