// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
)

// Key prefixes for BadgerDB storage
const (
	runKeyPrefix     = "run:"
	runTimeKeyPrefix = "run_time:"
	runUserKeyPrefix = "run_user:"
)

var (
	// ErrRunNotFound is returned when no run exists for an ID or user.
	ErrRunNotFound = errors.New("evaluation run not found")

	// ErrNilRun is returned when a nil run is passed to Save.
	ErrNilRun = errors.New("run cannot be nil")
)

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 50

// gcDiscardRatio is the value log discard ratio used by CollectGarbage.
const gcDiscardRatio = 0.5

// RunStore persists evaluation runs in BadgerDB.
type RunStore struct {
	db *badger.DB
}

// Open opens the run store described by cfg.
func Open(cfg *config.StoreConfig) (*RunStore, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.Logger = nil // Suppress BadgerDB internal logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for runs: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("Run store opened")
	return &RunStore{db: db}, nil
}

// Close closes the underlying BadgerDB.
func (s *RunStore) Close() error {
	return s.db.Close()
}

// Save stores a run and indexes it by creation time and user.
func (s *RunStore) Save(ctx context.Context, run *EvaluationRun) error {
	if run == nil {
		return ErrNilRun
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}

	id := []byte(run.ID.String())
	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(runKey(run.ID), data); err != nil {
			return fmt.Errorf("set run: %w", err)
		}
		if err := txn.Set(timeKey(run), id); err != nil {
			return fmt.Errorf("set time index: %w", err)
		}
		if err := txn.Set(userKey(run), id); err != nil {
			return fmt.Errorf("set user index: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.RunsStored.Inc()
	return nil
}

// Get retrieves a run by ID.
func (s *RunStore) Get(ctx context.Context, id uuid.UUID) (*EvaluationRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var run *EvaluationRun
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		run, err = getRun(txn, id.String())
		return err
	})
	if err != nil {
		return nil, err
	}
	return run, nil
}

// ListOptions filters List.
type ListOptions struct {
	// UserID restricts the listing to one user when non-zero.
	UserID int
	// Limit caps the number of runs; <= 0 uses DefaultListLimit.
	Limit int
}

// List returns runs newest first.
func (s *RunStore) List(ctx context.Context, opts ListOptions) ([]*EvaluationRun, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}

	prefix := []byte(runTimeKeyPrefix)
	if opts.UserID != 0 {
		prefix = userPrefix(opts.UserID)
	}

	runs := make([]*EvaluationRun, 0, limit)
	err := s.db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Reverse = true
		iterOpts.Prefix = prefix
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		// Reverse iteration starts at the last key under the prefix.
		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(runs) < limit; it.Next() {
			var runID string
			if err := it.Item().Value(func(val []byte) error {
				runID = string(val)
				return nil
			}); err != nil {
				return fmt.Errorf("read index: %w", err)
			}

			run, err := getRun(txn, runID)
			if errors.Is(err, ErrRunNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			runs = append(runs, run)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// LatestForUser returns the most recent run for a user.
func (s *RunStore) LatestForUser(ctx context.Context, userID int) (*EvaluationRun, error) {
	runs, err := s.List(ctx, ListOptions{UserID: userID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: user %d", ErrRunNotFound, userID)
	}
	return runs[0], nil
}

// CollectGarbage reclaims value log space until nothing is left to rewrite.
func (s *RunStore) CollectGarbage() error {
	for {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("run GC: %w", err)
		}
	}
}

// Serve runs value log garbage collection every interval until ctx is done.
// It satisfies suture.Service.
func (s *RunStore) Serve(ctx context.Context) error {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.CollectGarbage(); err != nil {
				logging.Warn().Err(err).Msg("Run store garbage collection failed")
			}
		}
	}
}

// String names the service in supervisor logs.
func (s *RunStore) String() string {
	return "run-store-gc"
}

// gcInterval is how often Serve collects garbage.
var gcInterval = 10 * time.Minute

func getRun(txn *badger.Txn, id string) (*EvaluationRun, error) {
	item, err := txn.Get([]byte(runKeyPrefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	var run EvaluationRun
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &run)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal run: %w", err)
	}
	return &run, nil
}

func runKey(id uuid.UUID) []byte {
	return []byte(runKeyPrefix + id.String())
}

// timeKey sorts by creation time; the id suffix keeps keys unique.
func timeKey(run *EvaluationRun) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", runTimeKeyPrefix, run.CreatedAt.UnixNano(), run.ID))
}

func userPrefix(userID int) []byte {
	return []byte(fmt.Sprintf("%s%012d:", runUserKeyPrefix, userID))
}

func userKey(run *EvaluationRun) []byte {
	return []byte(fmt.Sprintf("%s%020d:%s", userPrefix(run.UserID), run.CreatedAt.UnixNano(), run.ID))
}
