// Package testutil provides testing utilities for logseg.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random number generator and
// fixture builders for table slices and segments.
//
//	rng := testutil.NewRNG(seed)
//	slice, err := rng.ConnSlice(0, 100)
//	seg, err := rng.ConnSegment(0, 4, 1024)
package testutil
