// Package table implements immutable columnar batches of typed events.
// A Slice holds the cells of consecutive rows in column-major order,
// together with the record type describing the columns and the global row
// id of the first row.
package table

import (
	"errors"
	"fmt"

	"github.com/hupe1980/logseg/data"
	"github.com/hupe1980/logseg/schema"
)

// ErrArity indicates a row whose cell count does not match the layout.
var ErrArity = errors.New("row arity mismatch")

// Slice is an immutable columnar batch. Columns follow the pre-order
// flattening of the layout's record type.
type Slice struct {
	layout schema.Type
	offset uint64
	rows   uint64
	cols   [][]data.Data
}

// Layout returns the record type describing the columns.
func (s *Slice) Layout() schema.Type { return s.layout }

// Offset returns the global row id of the first row.
func (s *Slice) Offset() uint64 { return s.offset }

// Rows returns the number of rows.
func (s *Slice) Rows() uint64 { return s.rows }

// Columns returns the number of columns.
func (s *Slice) Columns() int { return len(s.cols) }

// At returns the cell at (row, col).
func (s *Slice) At(row uint64, col int) data.Data {
	return s.cols[col][row]
}

// Row materializes one row as a nested record shaped by the layout.
func (s *Slice) Row(row uint64) (data.Record, error) {
	values := make([]data.Data, len(s.cols))
	for c := range s.cols {
		values[c] = s.cols[c][row]
	}
	return data.MakeRecord(s.layout, values)
}

// Builder accumulates rows and seals them into a Slice. A Builder is
// reusable: Finish hands off the accumulated columns and resets the
// receiver for the next batch.
type Builder struct {
	layout schema.Type
	arity  int
	rows   uint64
	cols   [][]data.Data
}

// NewBuilder returns a builder for the given record layout.
func NewBuilder(layout schema.Type) *Builder {
	arity := len(schema.Each(layout.Underlying()))
	b := &Builder{layout: layout, arity: arity}
	b.reset()
	return b
}

func (b *Builder) reset() {
	b.rows = 0
	b.cols = make([][]data.Data, b.arity)
}

// Add appends one row of cells in flattened layout order.
func (b *Builder) Add(values ...data.Data) error {
	if len(values) != b.arity {
		return fmt.Errorf("%w: got %d cells, layout has %d columns", ErrArity, len(values), b.arity)
	}
	for c, v := range values {
		b.cols[c] = append(b.cols[c], v)
	}
	b.rows++
	return nil
}

// Rows returns the number of rows added since the last Finish.
func (b *Builder) Rows() uint64 { return b.rows }

// Finish seals the accumulated rows into a Slice starting at the given
// global row id and resets the builder.
func (b *Builder) Finish(offset uint64) *Slice {
	s := &Slice{
		layout: b.layout,
		offset: offset,
		rows:   b.rows,
		cols:   b.cols,
	}
	b.reset()
	return s
}
