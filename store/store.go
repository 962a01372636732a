// Package store catalogs sealed segments in a blobstore and answers
// row-id lookups across all of them. It is the read/write surface above
// the segment container: Put persists a sealed segment, Lookup fans out
// over the cataloged segments and returns the slices covering the
// requested ids, Erase drops a segment and reports how many rows went
// with it.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/logseg"
	"github.com/hupe1980/logseg/blobstore"
	"github.com/hupe1980/logseg/ids"
	"github.com/hupe1980/logseg/internal/cache"
	"github.com/hupe1980/logseg/segment"
	"github.com/hupe1980/logseg/settings"
	"github.com/hupe1980/logseg/table"
)

// ErrUnknownSegment is returned for ids the store has never seen.
var ErrUnknownSegment = errors.New("unknown segment")

const (
	segmentPrefix = "segments/"

	defaultCacheCapacity     = 256 << 20
	defaultLookupParallelism = 8
)

type options struct {
	logger      *logseg.Logger
	cacheBytes  uint64
	parallelism int
}

// Option configures a Store.
type Option func(*options)

// WithLogger sets the logger, logseg.DefaultLogger() if unset.
func WithLogger(l *logseg.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithCacheCapacity bounds the bytes of parsed segments kept in memory.
func WithCacheCapacity(n uint64) Option {
	return func(o *options) {
		o.cacheBytes = n
	}
}

// WithLookupParallelism bounds the number of segments read concurrently
// during a lookup.
func WithLookupParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

// FromSettings derives options from a settings tree. Recognized keys:
// "cache-capacity" (byte size) and "lookup-parallelism".
func FromSettings(opts settings.Settings) (Option, error) {
	capacity, err := settings.GetBytesize(opts, "cache-capacity", defaultCacheCapacity)
	if err != nil {
		return nil, err
	}
	parallelism := defaultLookupParallelism
	if v, ok := settings.Get(opts, "lookup-parallelism"); ok {
		n, ok := v.(int)
		if !ok || n < 1 {
			return nil, fmt.Errorf("%w: lookup-parallelism must be a positive integer, got %v",
				settings.ErrInvalidArgument, v)
		}
		parallelism = n
	}
	return func(o *options) {
		o.cacheBytes = capacity
		o.parallelism = parallelism
	}, nil
}

// Store is a catalog of sealed segments over a blobstore. It is safe for
// concurrent use.
type Store struct {
	blobs  blobstore.Store
	logger *logseg.Logger
	cache  *cache.LRU[uuid.UUID, *segment.Segment]
	par    int

	mu       sync.Mutex
	mappings map[uuid.UUID][]func() error
}

// New creates a store over the given blobstore.
func New(blobs blobstore.Store, optFns ...Option) *Store {
	opts := options{
		logger:      logseg.DefaultLogger(),
		cacheBytes:  defaultCacheCapacity,
		parallelism: defaultLookupParallelism,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		blobs:    blobs,
		logger:   opts.logger,
		cache:    cache.New[uuid.UUID, *segment.Segment](int64(opts.cacheBytes)),
		par:      opts.parallelism,
		mappings: make(map[uuid.UUID][]func() error),
	}
}

func key(id uuid.UUID) string {
	return segmentPrefix + id.String()
}

// Put persists a sealed segment.
func (s *Store) Put(ctx context.Context, seg *segment.Segment) error {
	if seg.ID() == uuid.Nil {
		return fmt.Errorf("refusing to store a segment without an id")
	}
	if err := s.blobs.Put(ctx, key(seg.ID()), bytes.NewReader(seg.Chunk())); err != nil {
		err = fmt.Errorf("store segment %s: %w", seg.ID(), err)
		s.logger.LogPut(ctx, seg.ID(), 0, 0, err)
		return err
	}
	s.cache.Set(seg.ID(), seg)
	s.logger.LogPut(ctx, seg.ID(), seg.NumSlices(), seg.Size(), nil)
	return nil
}

// Get returns the segment with the given id, loading and caching it if
// necessary.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*segment.Segment, error) {
	if seg, ok := s.cache.Get(id); ok {
		return seg, nil
	}
	chunk, err := s.load(ctx, id)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSegment, id)
		}
		return nil, err
	}
	seg, err := segment.New(chunk)
	if err != nil {
		return nil, fmt.Errorf("segment %s: %w", id, err)
	}
	s.cache.Set(id, seg)
	return seg, nil
}

// load fetches the chunk bytes, memory-mapping them when the blobstore
// supports it. Mappings stay open until Erase or Close: dropping one
// eagerly would invalidate slices a concurrent lookup may still decode.
func (s *Store) load(ctx context.Context, id uuid.UUID) ([]byte, error) {
	if m, ok := s.blobs.(blobstore.Mapper); ok {
		data, closeFn, err := m.Map(key(id))
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		// Racing loads may map the same blob twice; every mapping is
		// kept and released together.
		s.mappings[id] = append(s.mappings[id], closeFn)
		s.mu.Unlock()
		return data, nil
	}
	rc, err := s.blobs.Get(ctx, key(id))
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// IDs lists the ids of all cataloged segments in ascending key order.
func (s *Store) IDs(ctx context.Context) ([]uuid.UUID, error) {
	keys, err := s.blobs.List(ctx, segmentPrefix)
	if err != nil {
		return nil, err
	}
	out := make([]uuid.UUID, 0, len(keys))
	for _, k := range keys {
		id, err := uuid.Parse(k[len(segmentPrefix):])
		if err != nil {
			s.logger.WarnContext(ctx, "skipping foreign blob in segment catalog",
				slog.String("key", k))
			continue
		}
		out = append(out, id)
	}
	return out, nil
}

// Lookup returns the slices of all cataloged segments that cover any of
// the requested ids, ordered by row offset. Segments are consulted
// concurrently; one failure fails the lookup.
func (s *Store) Lookup(ctx context.Context, xs *ids.Set) ([]*table.Slice, error) {
	segIDs, err := s.IDs(ctx)
	if err != nil {
		return nil, err
	}
	var (
		mu      sync.Mutex
		results []*table.Slice
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.par)
	for _, id := range segIDs {
		g.Go(func() error {
			seg, err := s.Get(ctx, id)
			if err != nil {
				return err
			}
			slices, err := seg.Lookup(xs)
			if err != nil {
				return err
			}
			if len(slices) == 0 {
				return nil
			}
			mu.Lock()
			results = append(results, slices...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.LogLookup(ctx, 0, err)
		return nil, err
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Offset() < results[j].Offset()
	})
	s.logger.LogLookup(ctx, len(results), nil)
	return results, nil
}

// Erase removes the segment with the given id and returns the number of
// rows it covered.
func (s *Store) Erase(ctx context.Context, id uuid.UUID) (uint64, error) {
	seg, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	rows := seg.IDs().Count()
	if err := s.blobs.Delete(ctx, key(id)); err != nil {
		err = fmt.Errorf("erase segment %s: %w", id, err)
		s.logger.LogErase(ctx, id, 0, err)
		return 0, err
	}
	s.cache.Remove(id)
	s.mu.Lock()
	closers := s.mappings[id]
	delete(s.mappings, id)
	s.mu.Unlock()
	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			s.logger.WarnContext(ctx, "failed to unmap erased segment",
				slog.String("segment", id.String()), slog.Any("error", err))
		}
	}
	s.logger.LogErase(ctx, id, rows, nil)
	return rows, nil
}

// Close releases all open mappings. The store must not be used after.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for id, closers := range s.mappings {
		for _, closeFn := range closers {
			if err := closeFn(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		delete(s.mappings, id)
	}
	return firstErr
}
