// Package ids provides sets of global row identifiers backed by compressed
// bitmaps. A Set tracks a logical size alongside the bitmap so that runs of
// absent rows can be appended in sequence, mirroring how slices with gaps
// between their row ranges are laid out.
package ids

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Set is a set of row ids with a logical append position.
type Set struct {
	bm   *roaring64.Bitmap
	size uint64
}

// New returns an empty set.
func New() *Set {
	return &Set{bm: roaring64.NewBitmap()}
}

// Make builds a set from half-open [lo, hi) ranges.
func Make(ranges ...[2]uint64) *Set {
	s := New()
	for _, r := range ranges {
		s.AddRange(r[0], r[1])
	}
	return s
}

// AppendBits appends n copies of bit at the current logical size.
func (s *Set) AppendBits(bit bool, n uint64) {
	if bit && n > 0 {
		s.bm.AddRange(s.size, s.size+n)
	}
	s.size += n
}

// AddRange adds the half-open range [lo, hi), extending the logical size
// if the range reaches past it.
func (s *Set) AddRange(lo, hi uint64) {
	if lo >= hi {
		return
	}
	s.bm.AddRange(lo, hi)
	if hi > s.size {
		s.size = hi
	}
}

// Add adds a single id.
func (s *Set) Add(id uint64) {
	s.bm.Add(id)
	if id >= s.size {
		s.size = id + 1
	}
}

// Contains reports whether id is in the set.
func (s *Set) Contains(id uint64) bool {
	return s.bm.Contains(id)
}

// Size returns the logical size, one past the highest position appended.
func (s *Set) Size() uint64 { return s.size }

// Count returns the number of ids in the set.
func (s *Set) Count() uint64 { return s.bm.GetCardinality() }

// Empty reports whether the set contains no ids.
func (s *Set) Empty() bool { return s.bm.IsEmpty() }

// Min returns the smallest id. The set must not be empty.
func (s *Set) Min() uint64 { return s.bm.Minimum() }

// Max returns the largest id. The set must not be empty.
func (s *Set) Max() uint64 { return s.bm.Maximum() }

// Intersects reports whether any member falls in the half-open
// range [lo, hi).
func (s *Set) Intersects(lo, hi uint64) bool {
	if lo >= hi || s.bm.IsEmpty() {
		return false
	}
	it := s.bm.Iterator()
	it.AdvanceIfNeeded(lo)
	return it.HasNext() && it.Next() < hi
}

// Or folds other into s.
func (s *Set) Or(other *Set) {
	s.bm.Or(other.bm)
	if other.size > s.size {
		s.size = other.size
	}
}

// Slice materializes the members in ascending order.
func (s *Set) Slice() []uint64 {
	return s.bm.ToArray()
}

// Each calls fn for every member in ascending order until fn returns
// false.
func (s *Set) Each(fn func(id uint64) bool) {
	it := s.bm.Iterator()
	for it.HasNext() {
		if !fn(it.Next()) {
			return
		}
	}
}
