// Package catalog implements the local catalog store: the in-memory source
// of truth for neologisms and categories, mirrored to a durable key-value
// store.
//
// The store is created explicitly with Open and torn down with Close; there
// is no package-level instance. Mutations update memory first. When the
// mirror sees them depends on the sync strategy:
//
//	immediate  flush after every mutation (default)
//	on_close   flush only on Flush or Close
//	batch      flush every BatchSize mutations or every BatchInterval
//
// Flush failures during a mutation are logged and never roll back or fail
// the mutation; memory stays authoritative. Flush called directly returns
// its error.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/coinage/internal/logger"
	"github.com/mesh-intelligence/coinage/internal/mirror"
	"github.com/mesh-intelligence/coinage/pkg/types"
)

var _ types.Catalog = (*Store)(nil)

// Store is the local catalog. It is safe for concurrent use.
type Store struct {
	mu         sync.RWMutex
	closed     bool
	cfg        types.Config
	mirror     mirror.Store
	log        *logger.Logger
	neologisms []types.Neologism // newest first
	categories []types.Category  // creation order
	latestID   string            // most recent AddNeologism this session

	// Change counters per collection; a collection is dirty while its
	// version is ahead of what was last flushed.
	neologismsVersion uint64
	categoriesVersion uint64

	flushMu           sync.Mutex // serializes mirror writes
	neologismsFlushed uint64
	categoriesFlushed uint64

	batchMu    sync.Mutex
	pending    int
	batchTimer *time.Timer

	now   func() time.Time
	newID func() string
	pick  func(n int) int
}

// Option customizes a Store.
type Option func(*Store)

// WithClock sets the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the id source for new entities.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithPicker sets the function choosing among Ready neologisms for
// RandomNeologism. It must return a value in [0, n).
func WithPicker(pick func(n int) int) Option {
	return func(s *Store) { s.pick = pick }
}

// Open builds a Store from cfg and seeds it from m. Either collection that
// is absent or unreadable in the mirror falls back to the seed dataset;
// load errors are logged, not returned. The Store owns m and closes it in
// Close. A nil m keeps the catalog in memory only.
//
// Validation is strict unless cfg.Validation is types.ValidationLenient:
// mutations reject drafts that fail types.ValidateDraft or name a missing
// category. Lenient mode stores whatever it is given.
func Open(ctx context.Context, cfg types.Config, m mirror.Store, log *logger.Logger, opts ...Option) (*Store, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}

	s := &Store{
		cfg:    cfg,
		mirror: m,
		log:    log.With("component", "catalog"),
		now:    time.Now,
		newID:  generateUUID,
		pick:   rand.IntN,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.load(ctx)
	return s, nil
}

func (s *Store) load(ctx context.Context) {
	neologisms, ok := s.loadNeologisms(ctx)
	if !ok {
		s.log.Info("seeding neologisms")
		neologisms = SeedNeologisms()
		// Seeded data has never been written; mark it dirty.
		s.neologismsVersion++
	}
	categories, ok := s.loadCategories(ctx)
	if !ok {
		s.log.Info("seeding categories")
		categories = SeedCategories()
		s.categoriesVersion++
	}
	s.neologisms = neologisms
	s.categories = categories

	if s.cfg.SyncStrategy == types.SyncBatch && s.cfg.BatchInterval > 0 {
		s.startBatchTimer()
	}
	if s.cfg.SyncStrategy == types.SyncImmediate {
		s.flushLogged(ctx)
	}
}

func (s *Store) loadNeologisms(ctx context.Context) ([]types.Neologism, bool) {
	if s.mirror == nil {
		return nil, false
	}
	return mirror.LoadNeologisms(ctx, s.mirror, s.log)
}

func (s *Store) loadCategories(ctx context.Context) ([]types.Category, bool) {
	if s.mirror == nil {
		return nil, false
	}
	return mirror.LoadCategories(ctx, s.mirror, s.log)
}

// Flush writes every dirty collection to the mirror. Collections that are
// already clean are skipped. A nil mirror makes Flush a no-op.
func (s *Store) Flush(ctx context.Context) error {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()

	s.mu.RLock()
	m := s.mirror
	if m == nil {
		s.mu.RUnlock()
		return nil
	}
	var (
		neologisms []types.Neologism
		categories []types.Category
		nVersion   = s.neologismsVersion
		cVersion   = s.categoriesVersion
		nDirty     = nVersion != s.neologismsFlushed
		cDirty     = cVersion != s.categoriesFlushed
	)
	if nDirty {
		neologisms = cloneNeologisms(s.neologisms)
	}
	if cDirty {
		categories = append([]types.Category(nil), s.categories...)
	}
	s.mu.RUnlock()

	var errs []error
	if nDirty {
		if err := mirror.SaveNeologisms(ctx, m, neologisms); err != nil {
			errs = append(errs, err)
		} else {
			s.neologismsFlushed = nVersion
		}
	}
	if cDirty {
		if err := mirror.SaveCategories(ctx, m, categories); err != nil {
			errs = append(errs, err)
		} else {
			s.categoriesFlushed = cVersion
		}
	}

	s.batchMu.Lock()
	if len(errs) == 0 {
		s.pending = 0
	}
	s.batchMu.Unlock()

	return errors.Join(errs...)
}

// Dirty reports whether any mutation has not reached the mirror yet.
func (s *Store) Dirty() bool {
	s.flushMu.Lock()
	defer s.flushMu.Unlock()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.neologismsVersion != s.neologismsFlushed || s.categoriesVersion != s.categoriesFlushed
}

// Close stops the batch timer, flushes, and closes the mirror. After Close
// every operation returns types.ErrCatalogClosed. Idempotent.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.stopBatchTimer()

	var errs []error
	if err := s.Flush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("final flush: %w", err))
	}

	// Detach the mirror under flushMu so a late timer flush becomes a no-op.
	s.flushMu.Lock()
	s.mu.Lock()
	m := s.mirror
	s.mirror = nil
	s.mu.Unlock()
	if m != nil {
		if err := m.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close mirror: %w", err))
		}
	}
	s.flushMu.Unlock()

	return errors.Join(errs...)
}

// changed runs the sync strategy after a mutation. It must be called
// without s.mu held.
func (s *Store) changed(ctx context.Context) {
	switch s.cfg.SyncStrategy {
	case types.SyncImmediate:
		s.flushLogged(ctx)
	case types.SyncBatch:
		s.batchMu.Lock()
		s.pending++
		full := s.cfg.BatchSize > 0 && s.pending >= s.cfg.BatchSize
		s.batchMu.Unlock()
		if full {
			s.flushLogged(ctx)
		}
	}
}

// flushLogged flushes and logs any failure instead of returning it.
func (s *Store) flushLogged(ctx context.Context) {
	if err := s.Flush(ctx); err != nil {
		s.log.Error("error saving catalog to mirror", "error", err)
	}
}

// startBatchTimer flushes every BatchInterval until stopBatchTimer.
func (s *Store) startBatchTimer() {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()

	if s.batchTimer != nil {
		return
	}
	interval := s.cfg.BatchInterval
	s.batchTimer = time.AfterFunc(interval, func() {
		s.flushLogged(context.Background())

		s.batchMu.Lock()
		if s.batchTimer != nil {
			s.batchTimer.Reset(interval)
		}
		s.batchMu.Unlock()
	})
}

func (s *Store) stopBatchTimer() {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()

	if s.batchTimer != nil {
		s.batchTimer.Stop()
		s.batchTimer = nil
	}
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

func cloneNeologisms(list []types.Neologism) []types.Neologism {
	out := make([]types.Neologism, len(list))
	for i, n := range list {
		out[i] = n.Clone()
	}
	return out
}
