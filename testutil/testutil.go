package testutil

import (
	"fmt"
	"math/rand"
	"net/netip"
	"sync"
	"time"

	"github.com/hupe1980/logseg/data"
	"github.com/hupe1980/logseg/schema"
	"github.com/hupe1980/logseg/segment"
	"github.com/hupe1980/logseg/table"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Uint64 returns a pseudo-random uint64.
func (r *RNG) Uint64() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Uint64()
}

// ConnLayout returns the layout used by the connection fixtures.
func ConnLayout() schema.Type {
	return schema.Record(
		schema.NamedField("ts", schema.Time()),
		schema.NamedField("orig", schema.Addr()),
		schema.NamedField("resp", schema.Addr()),
		schema.NamedField("bytes", schema.Count()),
		schema.NamedField("proto", schema.String()),
	).WithName("conn")
}

// Addr returns a deterministic IPv4 address derived from the RNG.
func (r *RNG) Addr() netip.Addr {
	n := r.Uint64()
	return netip.AddrFrom4([4]byte{10, byte(n >> 16), byte(n >> 8), byte(n)})
}

// ConnRow returns one row of values matching ConnLayout.
func (r *RNG) ConnRow(row uint64) []data.Data {
	base := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	protos := []string{"tcp", "udp", "icmp"}

	return []data.Data{
		data.Time(base.Add(time.Duration(row) * time.Second)),
		data.Addr(r.Addr()),
		data.Addr(r.Addr()),
		data.Count(r.Uint64() % 1_000_000),
		data.Str(protos[r.Intn(len(protos))]),
	}
}

// ConnSlice builds a slice of rows rows at the given offset.
func (r *RNG) ConnSlice(offset, rows uint64) (*table.Slice, error) {
	b := table.NewBuilder(ConnLayout())

	for i := uint64(0); i < rows; i++ {
		if err := b.Add(r.ConnRow(offset + i)...); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}

	return b.Finish(offset), nil
}

// ConnSegment builds a segment from slices of rowsPerSlice rows each,
// starting at offset.
func (r *RNG) ConnSegment(offset uint64, slices int, rowsPerSlice uint64, optFns ...segment.BuilderOption) (*segment.Segment, error) {
	b := segment.NewBuilder(optFns...)

	for i := 0; i < slices; i++ {
		s, err := r.ConnSlice(offset+uint64(i)*rowsPerSlice, rowsPerSlice)
		if err != nil {
			return nil, err
		}

		if err := b.Add(s); err != nil {
			return nil, err
		}
	}

	return b.Finish()
}
