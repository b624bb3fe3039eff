package journal

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jetrotal/YN-HUB/pkg/logger"
	bolt "go.etcd.io/bbolt"
)

var bucketEntries = []byte("entries") // sequence -> Entry

type boltJournal struct {
	db     *bolt.DB
	logger logger.Logger
	config Config

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) a bbolt journal at cfg.Path.
func Open(cfg Config, log logger.Logger) (Journal, error) {
	if cfg.Path == "" {
		return nil, ErrNoPath
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = time.Second
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 1000
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	db, err := bolt.Open(cfg.Path, 0600, &bolt.Options{Timeout: cfg.Timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(bucketEntries)
		return createErr
	}); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error("failed to close journal after initialization error", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to create entries bucket: %w", err)
	}

	log.Info("journal opened", "path", cfg.Path, "max_entries", cfg.MaxEntries)

	return &boltJournal{db: db, logger: log, config: cfg}, nil
}

func (j *boltJournal) Record(entry Entry) error {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return ErrClosed
	}

	fill(&entry)

	return j.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketEntries)

		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate sequence: %w", err)
		}

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal entry: %w", err)
		}
		if err := b.Put(itob(seq), data); err != nil {
			return fmt.Errorf("failed to store entry: %w", err)
		}

		return prune(b, seq, uint64(j.config.MaxEntries))
	})
}

func (j *boltJournal) List(limit int) ([]Entry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		return nil, ErrClosed
	}

	var entries []Entry
	err := j.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketEntries).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(entries) >= limit {
				break
			}
			var e Entry
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("failed to unmarshal entry: %w", err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (j *boltJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.closed {
		return nil
	}
	j.closed = true

	if err := j.db.Close(); err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}
	return nil
}

// prune deletes entries with a sequence at or below newest-max.
func prune(b *bolt.Bucket, newest, max uint64) error {
	if newest <= max {
		return nil
	}
	cutoff := itob(newest - max)

	var stale [][]byte
	c := b.Cursor()
	for k, _ := c.First(); k != nil && bytes.Compare(k, cutoff) <= 0; k, _ = c.Next() {
		stale = append(stale, append([]byte(nil), k...))
	}
	for _, k := range stale {
		if err := b.Delete(k); err != nil {
			return fmt.Errorf("failed to prune entry: %w", err)
		}
	}
	return nil
}

func fill(entry *Entry) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now().UTC()
	}
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
