// Package cache persists lint reports keyed by input content, so
// re-linting unchanged files skips the pipeline entirely. Entries are
// invalidated by content, catalog fingerprint, or policy changes, since
// all three participate in the key.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/rzbill/sigil/pkg/log"
	"github.com/rzbill/sigil/pkg/report"
)

// DefaultTTL bounds how long a cached report is served before the file
// is re-linted regardless.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a BadgerDB-backed report cache.
type Cache struct {
	db     *badger.DB
	logger log.Logger
	ttl    time.Duration
}

// Option configures a cache at open time.
type Option func(*Cache)

// WithTTL overrides the entry time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// Open opens (or creates) the cache at path.
func Open(path string, logger log.Logger, opts ...Option) (*Cache, error) {
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	c := &Cache{
		logger: logger.WithComponent("cache"),
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}

	badgerOpts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache at %s: %w", path, err)
	}
	c.db = db
	return c, nil
}

// Key derives the cache key for one input: content hash, catalog
// fingerprint, and the policy bits that affect findings.
func Key(data []byte, fingerprint string, strict bool) string {
	h := sha256.New()
	h.Write(data)
	fmt.Fprintf(h, "|%s|strict=%t", fingerprint, strict)
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached report for key, if present and unexpired.
func (c *Cache) Get(key string) (*report.Report, bool, error) {
	var rep report.Report
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rep)
		})
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache read failed: %w", err)
	}
	c.logger.Debug("cache hit", log.Str("key", key[:12]))
	return &rep, true, nil
}

// Put stores a report under key with the configured TTL.
func (c *Cache) Put(key string, rep *report.Report) error {
	data, err := json.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), data).WithTTL(c.ttl)
		return txn.SetEntry(entry)
	})
	if err != nil {
		return fmt.Errorf("cache write failed: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
