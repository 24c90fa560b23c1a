// Package bolt implements the repositories on a single bbolt file. Each
// entity lives in its own bucket as JSON; volume names are indexed in a
// separate bucket to enforce uniqueness.
package bolt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kompox/volsaga/domain"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketVolumes       = []byte("volumes")
	bucketVolumeNames   = []byte("volume_names")
	bucketVolumeRecords = []byte("volume_records")
	bucketOperateLogs   = []byte("saga_operate_logs")
)

// Store bundles the bbolt-backed repositories.
type Store struct {
	db *bolt.DB
}

// OpenFromURL opens a store from a bolt:<path> url.
func OpenFromURL(dbURL string) (*Store, error) {
	if !strings.HasPrefix(dbURL, "bolt:") {
		return nil, fmt.Errorf("unsupported db scheme: %s", dbURL)
	}
	path := strings.TrimPrefix(dbURL, "bolt:")
	if path == "" {
		path = "./volsaga.bolt"
	}
	return Open(path)
}

// Open opens or creates the database file at path and its buckets.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketVolumes, bucketVolumeNames, bucketVolumeRecords, bucketOperateLogs} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Repositories() *domain.Repositories {
	return repositoriesFor(runner{db: s.db})
}

// Do runs fn inside one read-write transaction. Any error discards the
// transaction.
func (s *Store) Do(ctx context.Context, fn func(repos *domain.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := fn(repositoriesFor(runner{tx: tx})); err != nil {
			return err
		}
		return ctx.Err()
	})
}

func repositoriesFor(r runner) *domain.Repositories {
	return &domain.Repositories{
		Volume:       &VolumeRepository{r},
		VolumeRecord: &VolumeRecordRepository{r},
		OperateLog:   &OperateLogRepository{r},
	}
}

// runner executes against the bound transaction when there is one, or
// opens its own.
type runner struct {
	db *bolt.DB
	tx *bolt.Tx
}

func (r runner) view(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.db.View(fn)
}

func (r runner) update(ctx context.Context, fn func(tx *bolt.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.tx != nil {
		return fn(r.tx)
	}
	return r.db.Update(fn)
}

func getJSON[T any](b *bolt.Bucket, key string) (*T, error) {
	data := b.Get([]byte(key))
	if data == nil {
		return nil, nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &v, nil
}

func putJSON(b *bolt.Bucket, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return b.Put([]byte(key), data)
}

func listJSON[T any](b *bolt.Bucket, keep func(*T) bool) ([]*T, error) {
	var out []*T
	err := b.ForEach(func(k, data []byte) error {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decode %s: %w", k, err)
		}
		if keep(&v) {
			out = append(out, &v)
		}
		return nil
	})
	return out, err
}

var _ domain.UnitOfWork = (*Store)(nil)
