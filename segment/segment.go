package segment

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/google/uuid"

	"github.com/hupe1980/logseg/ids"
	"github.com/hupe1980/logseg/table"
)

// sliceEntry is the parsed bookkeeping for one contained slice. The
// encoded bytes alias the segment chunk and stay untouched until a lookup
// decodes them.
type sliceEntry struct {
	offset uint64
	rows   uint64
	codec  Codec
	data   []byte
}

// Segment is a read-only view over a segment chunk. The zero slice table
// of an empty-version segment makes every accessor total.
type Segment struct {
	chunk  []byte
	id     uuid.UUID
	slices []sliceEntry
}

// New parses the segment bookkeeping from chunk. The contained slices are
// not decoded. An unrecognized version byte yields an empty segment, not
// an error; corrupt bookkeeping does.
func New(chunk []byte) (*Segment, error) {
	if len(chunk) < headerSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(chunk))
	}
	if string(chunk[:4]) != magic {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMagic, chunk[:4])
	}
	s := &Segment{chunk: chunk}
	if chunk[4] != versionV0 {
		return s, nil
	}
	length := binary.LittleEndian.Uint64(chunk[9:headerSize])
	payload := chunk[headerSize:]
	if uint64(len(payload)) < length {
		return nil, fmt.Errorf("%w: payload has %d of %d bytes", ErrTruncated, len(payload), length)
	}
	payload = payload[:length]
	sum := binary.LittleEndian.Uint32(chunk[5:9])
	if got := crc32.ChecksumIEEE(payload); got != sum {
		return nil, fmt.Errorf("%w: computed %08x, stored %08x", ErrChecksum, got, sum)
	}
	if err := s.parsePayload(payload); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Segment) parsePayload(p []byte) error {
	if len(p) < 16+4 {
		return fmt.Errorf("%w: payload has %d bytes", ErrTruncated, len(p))
	}
	copy(s.id[:], p[:16])
	count := binary.LittleEndian.Uint32(p[16:20])
	p = p[20:]
	s.slices = make([]sliceEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(p) < 25 {
			return fmt.Errorf("%w: slice %d header", ErrTruncated, i)
		}
		entry := sliceEntry{
			offset: binary.LittleEndian.Uint64(p[0:8]),
			rows:   binary.LittleEndian.Uint64(p[8:16]),
			codec:  Codec(p[16]),
		}
		n := binary.LittleEndian.Uint64(p[17:25])
		p = p[25:]
		if uint64(len(p)) < n {
			return fmt.Errorf("%w: slice %d has %d of %d bytes", ErrTruncated, i, len(p), n)
		}
		entry.data = p[:n]
		p = p[n:]
		s.slices = append(s.slices, entry)
	}
	return nil
}

// ID returns the segment's UUID, uuid.Nil for an empty-version segment.
func (s *Segment) ID() uuid.UUID { return s.id }

// NumSlices returns the number of contained slices.
func (s *Segment) NumSlices() int { return len(s.slices) }

// Size returns the size of the underlying chunk in bytes.
func (s *Segment) Size() int { return len(s.chunk) }

// Chunk returns the raw segment bytes.
func (s *Segment) Chunk() []byte { return s.chunk }

// IDs returns the set of row ids covered by the contained slices.
func (s *Segment) IDs() *ids.Set {
	result := ids.New()
	for _, e := range s.slices {
		if e.offset > result.Size() {
			result.AppendBits(false, e.offset-result.Size())
		}
		result.AppendBits(true, e.rows)
	}
	return result
}

// Lookup decodes the slices whose row range intersects xs. Each matching
// slice is decoded exactly once; a single decode failure fails the whole
// lookup. An empty-version segment yields no slices and no error.
func (s *Segment) Lookup(xs *ids.Set) ([]*table.Slice, error) {
	var result []*table.Slice
	for i, e := range s.slices {
		if !xs.Intersects(e.offset, e.offset+e.rows) {
			continue
		}
		raw, err := decompress(e.codec, e.data)
		if err != nil {
			return nil, fmt.Errorf("segment %s: slice %d: %w", s.id, i, err)
		}
		slice, err := table.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("segment %s: slice %d: %w", s.id, i, err)
		}
		result = append(result, slice)
	}
	return result, nil
}
