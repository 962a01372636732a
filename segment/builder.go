package segment

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/google/uuid"

	"github.com/hupe1980/logseg/table"
)

type builderOptions struct {
	codec Codec
	id    uuid.UUID
}

// BuilderOption configures a Builder.
type BuilderOption func(*builderOptions)

// WithCodec selects the compression applied to each added slice.
func WithCodec(c Codec) BuilderOption {
	return func(o *builderOptions) {
		o.codec = c
	}
}

// WithID fixes the segment's UUID instead of generating one at Finish.
func WithID(id uuid.UUID) BuilderOption {
	return func(o *builderOptions) {
		o.id = id
	}
}

// Builder accumulates table slices and seals them into a segment chunk.
type Builder struct {
	opts    builderOptions
	entries []sliceEntry
	size    int
}

// NewBuilder returns an empty builder.
func NewBuilder(optFns ...BuilderOption) *Builder {
	opts := builderOptions{codec: CodecZstd}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Builder{
		opts: opts,
		size: headerSize + 16 + 4,
	}
}

// Add encodes and compresses one slice. Slices must arrive in ascending,
// non-overlapping row order.
func (b *Builder) Add(s *table.Slice) error {
	if n := len(b.entries); n > 0 {
		prev := b.entries[n-1]
		if s.Offset() < prev.offset+prev.rows {
			return fmt.Errorf("slice at offset %d overlaps previous range [%d, %d)",
				s.Offset(), prev.offset, prev.offset+prev.rows)
		}
	}
	encoded, err := s.Encode()
	if err != nil {
		return err
	}
	compressed, err := compress(b.opts.codec, encoded)
	if err != nil {
		return err
	}
	b.entries = append(b.entries, sliceEntry{
		offset: s.Offset(),
		rows:   s.Rows(),
		codec:  b.opts.codec,
		data:   compressed,
	})
	b.size += 25 + len(compressed)
	return nil
}

// NumSlices returns the number of slices added so far.
func (b *Builder) NumSlices() int { return len(b.entries) }

// Size returns the byte size the sealed segment will have. Callers use it
// to rotate to a fresh builder once a size budget is reached.
func (b *Builder) Size() int { return b.size }

// Finish seals the accumulated slices into a segment.
func (b *Builder) Finish() (*Segment, error) {
	id := b.opts.id
	if id == uuid.Nil {
		id = uuid.New()
	}
	payload := make([]byte, 0, b.size-headerSize)
	payload = append(payload, id[:]...)
	payload = binary.LittleEndian.AppendUint32(payload, uint32(len(b.entries)))
	for _, e := range b.entries {
		payload = binary.LittleEndian.AppendUint64(payload, e.offset)
		payload = binary.LittleEndian.AppendUint64(payload, e.rows)
		payload = append(payload, byte(e.codec))
		payload = binary.LittleEndian.AppendUint64(payload, uint64(len(e.data)))
		payload = append(payload, e.data...)
	}
	chunk := make([]byte, 0, headerSize+len(payload))
	chunk = append(chunk, magic...)
	chunk = append(chunk, versionV0)
	chunk = binary.LittleEndian.AppendUint32(chunk, crc32.ChecksumIEEE(payload))
	chunk = binary.LittleEndian.AppendUint64(chunk, uint64(len(payload)))
	chunk = append(chunk, payload...)
	return New(chunk)
}
