package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var bucketAnswers = []byte("answers")

type record struct {
	Answer    string `json:"answer"`
	ExpiresAt int64  `json:"expires_at,omitempty"`
}

// BoltCache implements cache.Cache in a single bbolt file, so answers survive
// restarts of a single-node deployment.
type BoltCache struct {
	db  *bbolt.DB
	ttl time.Duration
	now func() time.Time
}

// New opens (or creates) the cache file at path. A zero ttl keeps answers
// until the file is removed.
func New(path string, ttl time.Duration) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketAnswers); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketAnswers, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltCache{db: db, ttl: ttl, now: time.Now}, nil
}

func (c *BoltCache) Get(ctx context.Context, key string) (string, bool, error) {
	var rec record
	var found bool
	err := c.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketAnswers).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, &rec)
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to read cached answer: %w", err)
	}
	if !found {
		return "", false, nil
	}

	if rec.ExpiresAt != 0 && c.now().UnixNano() >= rec.ExpiresAt {
		_ = c.db.Update(func(tx *bbolt.Tx) error {
			return tx.Bucket(bucketAnswers).Delete([]byte(key))
		})
		return "", false, nil
	}
	return rec.Answer, true, nil
}

func (c *BoltCache) Set(ctx context.Context, key, answer string) error {
	rec := record{Answer: answer}
	if c.ttl > 0 {
		rec.ExpiresAt = c.now().Add(c.ttl).UnixNano()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	err = c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAnswers).Put([]byte(key), data)
	})
	if err != nil {
		return fmt.Errorf("failed to cache answer: %w", err)
	}
	return nil
}

func (c *BoltCache) Close() error {
	return c.db.Close()
}
