// Animerec - Anime Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/animerec/internal/recommend"
)

// reportKeyPrefix prefixes every build report key. Keys sort by start time:
// report/<zero-padded unix nanos>-<report id>
const reportKeyPrefix = "report/"

// ErrStoreClosed is returned by operations on a closed store.
var ErrStoreClosed = errors.New("report store is closed")

// ReportStore keeps the most recent build reports in BadgerDB.
// It implements recommend.ReportRecorder.
type ReportStore struct {
	db      *badger.DB
	history int

	mu     sync.Mutex
	closed bool
}

var _ recommend.ReportRecorder = (*ReportStore)(nil)

// Open opens a report store at path keeping at most history reports.
// An empty path keeps reports in memory only.
func Open(path string, history int) (*ReportStore, error) {
	if history < 1 {
		return nil, fmt.Errorf("history must be at least 1, got %d", history)
	}

	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for reports: %w", err)
	}
	return &ReportStore{db: db, history: history}, nil
}

// Record persists report and drops the oldest reports beyond the history limit.
func (s *ReportStore) Record(ctx context.Context, report *recommend.BuildReport) error {
	if report == nil {
		return errors.New("report is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	key := reportKey(report)
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	}); err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	return s.prune()
}

// prune deletes the oldest reports so that at most history remain.
// Must be called with mu held.
func (s *ReportStore) prune() error {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(reportKeyPrefix)
		opts.PrefetchValues = false // keys only
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan reports: %w", err)
	}

	excess := len(keys) - s.history
	if excess <= 0 {
		return nil
	}
	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range keys[:excess] {
			if err := txn.Delete(key); err != nil {
				return fmt.Errorf("delete report: %w", err)
			}
		}
		return nil
	})
}

// List returns up to limit reports, newest first. limit <= 0 returns all.
func (s *ReportStore) List(ctx context.Context, limit int) ([]recommend.BuildReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrStoreClosed
	}

	reports := []recommend.BuildReport{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(reportKeyPrefix)
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// 0xFF sorts after every digit, so the seek lands on the newest key.
		for it.Seek([]byte(reportKeyPrefix + "\xff")); it.Valid(); it.Next() {
			if limit > 0 && len(reports) >= limit {
				break
			}
			var r recommend.BuildReport
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &r)
			}); err != nil {
				return fmt.Errorf("decode report %s: %w", it.Item().Key(), err)
			}
			reports = append(reports, r)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// Count returns the number of stored reports without decoding them.
func (s *ReportStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return 0, ErrStoreClosed
	}

	n := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(reportKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return n, nil
}

// Close closes the underlying database. Further calls return ErrStoreClosed.
func (s *ReportStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func reportKey(r *recommend.BuildReport) []byte {
	return []byte(fmt.Sprintf("%s%020d-%s", reportKeyPrefix, r.StartedAt.UnixNano(), r.ID))
}
