// Package synopsis provides tiny per-column summaries used to rule out
// segments before their slices are decoded. A synopsis answers "can this
// column possibly match the predicate" with false meaning a definite no.
package synopsis

import (
	"cmp"
	"time"
)

// Bool summarizes a boolean column by remembering which values occurred.
type Bool struct {
	anyTrue  bool
	anyFalse bool
}

// Add folds one value into the synopsis.
func (b *Bool) Add(v bool) {
	if v {
		b.anyTrue = true
	} else {
		b.anyFalse = true
	}
}

// PossiblyEquals reports whether any added value may equal v.
func (b *Bool) PossiblyEquals(v bool) bool {
	if v {
		return b.anyTrue
	}
	return b.anyFalse
}

// Empty reports whether no value was added yet.
func (b *Bool) Empty() bool {
	return !b.anyTrue && !b.anyFalse
}

// MinMax summarizes an ordered column by its observed range.
type MinMax[T cmp.Ordered] struct {
	min, max T
	seen     bool
}

// Add folds one value into the synopsis.
func (m *MinMax[T]) Add(v T) {
	if !m.seen {
		m.min, m.max = v, v
		m.seen = true
		return
	}
	if v < m.min {
		m.min = v
	}
	if v > m.max {
		m.max = v
	}
}

// Empty reports whether no value was added yet.
func (m *MinMax[T]) Empty() bool { return !m.seen }

// Min returns the smallest added value. The synopsis must not be empty.
func (m *MinMax[T]) Min() T { return m.min }

// Max returns the largest added value. The synopsis must not be empty.
func (m *MinMax[T]) Max() T { return m.max }

// PossiblyEquals reports whether any added value may equal v.
func (m *MinMax[T]) PossiblyEquals(v T) bool {
	return m.seen && v >= m.min && v <= m.max
}

// PossiblyLess reports whether any added value may be less than v.
func (m *MinMax[T]) PossiblyLess(v T) bool {
	return m.seen && m.min < v
}

// PossiblyGreater reports whether any added value may be greater than v.
func (m *MinMax[T]) PossiblyGreater(v T) bool {
	return m.seen && m.max > v
}

// Time summarizes a timestamp column by its observed range.
type Time struct {
	ns MinMax[int64]
}

// Add folds one timestamp into the synopsis.
func (t *Time) Add(v time.Time) {
	t.ns.Add(v.UnixNano())
}

// Empty reports whether no timestamp was added yet.
func (t *Time) Empty() bool { return t.ns.Empty() }

// PossiblyIn reports whether any added timestamp may fall in the
// half-open interval [from, to).
func (t *Time) PossiblyIn(from, to time.Time) bool {
	if t.ns.Empty() || !from.Before(to) {
		return false
	}
	return t.ns.max >= from.UnixNano() && t.ns.min < to.UnixNano()
}
