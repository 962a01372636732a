// Package segment implements the on-disk container for sealed batches of
// table slices. A segment is a single immutable byte chunk addressed by a
// UUID, holding its slices together with the row-id ranges they cover, so
// lookups can decode only the slices a query actually touches.
package segment

import "errors"

// Binary layout, all integers little-endian:
//
//	magic    [4]byte  "LSEG"
//	version  uint8    0 = none, 1 = v0
//	checksum uint32   CRC32 (IEEE) of the payload
//	length   uint64   payload length in bytes
//	payload:
//	  uuid   [16]byte
//	  count  uint32
//	  per slice:
//	    offset uint64
//	    rows   uint64
//	    codec  uint8
//	    length uint64
//	    bytes  [length]byte  encoded table slice, possibly compressed
//
// A version byte other than v0 marks the segment as empty rather than
// broken: id and slice accessors return zero values and lookups succeed
// with no results.

const (
	magic      = "LSEG"
	headerSize = 4 + 1 + 4 + 8

	versionNone uint8 = 0
	versionV0   uint8 = 1
)

var (
	// ErrInvalidMagic indicates bytes that are not a segment.
	ErrInvalidMagic = errors.New("invalid segment magic")
	// ErrTruncated indicates a segment shorter than its own bookkeeping.
	ErrTruncated = errors.New("truncated segment")
	// ErrChecksum indicates payload corruption.
	ErrChecksum = errors.New("segment checksum mismatch")
	// ErrCodec indicates an unknown slice compression codec.
	ErrCodec = errors.New("unknown slice codec")
)
