package kv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// DefaultBoltBucket is the bucket used when none is configured.
const DefaultBoltBucket = "monarch"

// Bolt keeps lists in a bbolt database, one JSON-encoded value per key.
type Bolt struct {
	db     *bolt.DB
	bucket []byte
}

// OpenBolt opens (creating if needed) the database at path and ensures the
// bucket exists. The database is locked for the lifetime of the store; call
// Close when done.
func OpenBolt(path, bucket string) (*Bolt, error) {
	if bucket == "" {
		bucket = DefaultBoltBucket
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bolt database %s: %w", path, err)
	}

	b := &Bolt{db: db, bucket: []byte(bucket)}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(b.bucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating bucket %s: %w", bucket, err)
	}
	return b, nil
}

// GetStringList returns the list stored under key.
func (b *Bolt) GetStringList(_ context.Context, key string) ([]string, bool, error) {
	var (
		values []string
		found  bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(b.bucket)
		if bkt == nil {
			return nil
		}
		// The returned slice is only valid inside the transaction.
		data := bkt.Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		var err error
		values, err = decodeList(key, data)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return values, found, nil
}

// SetStringList replaces the list stored under key.
func (b *Bolt) SetStringList(_ context.Context, key string, values []string) error {
	data, err := encodeList(values)
	if err != nil {
		return err
	}
	return b.db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists(b.bucket)
		if err != nil {
			return err
		}
		return bkt.Put([]byte(key), data)
	})
}

// Close releases the database.
func (b *Bolt) Close() error {
	return b.db.Close()
}
