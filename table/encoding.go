package table

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/hupe1980/logseg/data"
	"github.com/hupe1980/logseg/schema"
)

// Encoding discriminates the serialized representation of a Slice. It is
// the first byte of every encoded slice.
type Encoding uint8

// EncodingMsgpack is the only wire encoding currently produced.
const EncodingMsgpack Encoding = 1

// ErrUnsupportedEncoding indicates an unknown encoding discriminator.
var ErrUnsupportedEncoding = errors.New("unsupported slice encoding")

type wireSlice struct {
	Layout  schema.Type   `msgpack:"layout"`
	Offset  uint64        `msgpack:"offset"`
	Rows    uint64        `msgpack:"rows"`
	Columns [][]data.Data `msgpack:"columns"`
}

// Encode serializes the slice with a leading encoding discriminator.
func (s *Slice) Encode() ([]byte, error) {
	payload, err := msgpack.Marshal(&wireSlice{
		Layout:  s.layout,
		Offset:  s.offset,
		Rows:    s.rows,
		Columns: s.cols,
	})
	if err != nil {
		return nil, fmt.Errorf("encode slice: %w", err)
	}
	buf := make([]byte, 0, len(payload)+1)
	buf = append(buf, byte(EncodingMsgpack))
	return append(buf, payload...), nil
}

// Decode deserializes a slice produced by Encode.
func Decode(b []byte) (*Slice, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUnsupportedEncoding)
	}
	if Encoding(b[0]) != EncodingMsgpack {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedEncoding, b[0])
	}
	var w wireSlice
	if err := msgpack.Unmarshal(b[1:], &w); err != nil {
		return nil, fmt.Errorf("decode slice: %w", err)
	}
	return &Slice{
		layout: w.Layout,
		offset: w.Offset,
		rows:   w.Rows,
		cols:   w.Columns,
	}, nil
}
