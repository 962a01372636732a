package convert

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/logseg/data"
	"github.com/hupe1980/logseg/schema"
)

func TestRecordScalars(t *testing.T) {
	layout := schema.Record(
		schema.NamedField("a", schema.Count()),
		schema.NamedField("b", schema.Int()),
		schema.NamedField("c", schema.String()),
		schema.NamedField("d", schema.Bool()),
		schema.NamedField("e", schema.Real()),
	)
	src := data.NewRecord(
		data.F("a", data.Count(42)),
		data.F("b", data.Int(-7)),
		data.F("c", data.Str("hello")),
		data.F("d", data.Bool(true)),
		data.F("e", data.Real(0.5)),
	)
	var dst struct {
		A uint64
		B int64
		C string
		D bool
		E float64
	}
	require.NoError(t, Record(src, &dst, layout))
	assert.Equal(t, uint64(42), dst.A)
	assert.Equal(t, int64(-7), dst.B)
	assert.Equal(t, "hello", dst.C)
	assert.True(t, dst.D)
	assert.Equal(t, 0.5, dst.E)
}

func TestValueNarrowing(t *testing.T) {
	tests := []struct {
		name    string
		src     data.Data
		typ     schema.Type
		convert func(data.Data, schema.Type) error
		wantErr error
	}{
		{
			name: "count fits uint8",
			src:  data.Count(255),
			typ:  schema.Count(),
			convert: func(d data.Data, ty schema.Type) error {
				var v uint8
				if err := Value(d, &v, ty); err != nil {
					return err
				}
				assert.Equal(t, uint8(255), v)
				return nil
			},
		},
		{
			name: "count overflows uint8",
			src:  data.Count(256),
			typ:  schema.Count(),
			convert: func(d data.Data, ty schema.Type) error {
				var v uint8
				return Value(d, &v, ty)
			},
			wantErr: ErrOutOfRange,
		},
		{
			name: "int fits int8 lower bound",
			src:  data.Int(-128),
			typ:  schema.Int(),
			convert: func(d data.Data, ty schema.Type) error {
				var v int8
				if err := Value(d, &v, ty); err != nil {
					return err
				}
				assert.Equal(t, int8(-128), v)
				return nil
			},
		},
		{
			name: "int underflows int8",
			src:  data.Int(-129),
			typ:  schema.Int(),
			convert: func(d data.Data, ty schema.Type) error {
				var v int8
				return Value(d, &v, ty)
			},
			wantErr: ErrOutOfRange,
		},
		{
			name: "int overflows int8",
			src:  data.Int(128),
			typ:  schema.Int(),
			convert: func(d data.Data, ty schema.Type) error {
				var v int8
				return Value(d, &v, ty)
			},
			wantErr: ErrOutOfRange,
		},
		{
			name: "negative int to unsigned",
			src:  data.Int(-1),
			typ:  schema.Count(),
			convert: func(d data.Data, ty schema.Type) error {
				var v uint64
				return Value(d, &v, ty)
			},
			wantErr: ErrNegativeToUnsigned,
		},
		{
			name: "non-negative int to unsigned",
			src:  data.Int(300),
			typ:  schema.Count(),
			convert: func(d data.Data, ty schema.Type) error {
				var v uint16
				if err := Value(d, &v, ty); err != nil {
					return err
				}
				assert.Equal(t, uint16(300), v)
				return nil
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.convert(tt.src, tt.typ)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestRealToFloat32(t *testing.T) {
	var v float32
	require.NoError(t, Value(data.Real(1.5), &v, schema.Real()))
	assert.Equal(t, float32(1.5), v)
}

func TestCountToSignedFails(t *testing.T) {
	var v int64
	err := Value(data.Count(666), &v, schema.Count())
	require.ErrorIs(t, err, ErrNoConversion)
}

func TestAbsentFieldLeavesDestinationUntouched(t *testing.T) {
	layout := schema.Record(
		schema.NamedField("a", schema.Count()),
		schema.NamedField("b", schema.Count()),
	)
	src := data.NewRecord(data.F("a", data.Count(1)))
	dst := struct {
		A uint64
		B uint64
	}{B: 1337}
	require.NoError(t, Record(src, &dst, layout))
	assert.Equal(t, uint64(1), dst.A)
	assert.Equal(t, uint64(1337), dst.B)
}

func TestNullField(t *testing.T) {
	layout := schema.Record(
		schema.NamedField("plain", schema.Count()),
		schema.NamedField("opt", schema.Count()),
	)
	src := data.NewRecord(
		data.F("plain", data.None()),
		data.F("opt", data.None()),
	)
	prev := uint64(42)
	dst := struct {
		Plain uint64
		Opt   *uint64
	}{Plain: 7, Opt: &prev}
	require.NoError(t, Record(src, &dst, layout))
	// A null leaves a plain member alone but resets an optional to a
	// present default value.
	assert.Equal(t, uint64(7), dst.Plain)
	require.NotNil(t, dst.Opt)
	assert.Equal(t, uint64(0), *dst.Opt)
}

func TestNullSetsNilOptional(t *testing.T) {
	layout := schema.Record(schema.NamedField("opt", schema.Count()))
	src := data.NewRecord(data.F("opt", data.None()))
	var dst struct {
		Opt *uint64
	}
	require.NoError(t, Record(src, &dst, layout))
	require.NotNil(t, dst.Opt)
	assert.Equal(t, uint64(0), *dst.Opt)
}

func TestOptionalConversion(t *testing.T) {
	layout := schema.Record(schema.NamedField("opt", schema.Count()))
	src := data.NewRecord(data.F("opt", data.Count(9)))
	var dst struct {
		Opt *uint64
	}
	require.NoError(t, Record(src, &dst, layout))
	require.NotNil(t, dst.Opt)
	assert.Equal(t, uint64(9), *dst.Opt)
}

func TestNestedRecord(t *testing.T) {
	layout := schema.Record(
		schema.NamedField("a", schema.Count()),
		schema.NamedField("inner", schema.Record(
			schema.NamedField("b", schema.Count()),
			schema.NamedField("c", schema.String()),
		)),
		schema.NamedField("d", schema.Bool()),
	)
	src := data.NewRecord(
		data.F("a", data.Count(1)),
		data.F("inner", data.FromRecord(data.NewRecord(
			data.F("b", data.Count(2)),
			data.F("c", data.Str("x")),
		))),
		data.F("d", data.Bool(true)),
	)
	var dst struct {
		A     uint64
		Inner struct {
			B uint64
			C string
		}
		D bool
	}
	require.NoError(t, Record(src, &dst, layout))
	assert.Equal(t, uint64(1), dst.A)
	assert.Equal(t, uint64(2), dst.Inner.B)
	assert.Equal(t, "x", dst.Inner.C)
	assert.True(t, dst.D)
}

type Base struct {
	A uint64
}

func TestEmbeddedStructInlines(t *testing.T) {
	layout := schema.Record(
		schema.NamedField("a", schema.Count()),
		schema.NamedField("b", schema.Count()),
	)
	src := data.NewRecord(
		data.F("a", data.Count(1)),
		data.F("b", data.Count(2)),
	)
	var dst struct {
		Base
		B uint64
	}
	require.NoError(t, Record(src, &dst, layout))
	assert.Equal(t, uint64(1), dst.Base.A)
	assert.Equal(t, uint64(2), dst.B)
}

type selfLayouted struct {
	Count uint64
	Name  string
}

func (selfLayouted) Layout() schema.Type {
	return schema.Record(
		schema.NamedField("count", schema.Count()),
		schema.NamedField("name", schema.String()),
	)
}

func TestSelf(t *testing.T) {
	src := data.FromRecord(data.NewRecord(
		data.F("count", data.Count(3)),
		data.F("name", data.Str("three")),
	))
	var dst selfLayouted
	require.NoError(t, Self(src, &dst))
	assert.Equal(t, uint64(3), dst.Count)
	assert.Equal(t, "three", dst.Name)
}

func TestSelfRejectsNonRecord(t *testing.T) {
	var dst selfLayouted
	err := Self(data.Count(1), &dst)
	require.ErrorIs(t, err, ErrRecordExpected)
}

func TestLayoutedMemberPairsWithEmptyRecordLeaf(t *testing.T) {
	// A zero-field record leaf defers to the member's own layout.
	layout := schema.Record(
		schema.NamedField("a", schema.Count()),
		schema.NamedField("nested", schema.Record()),
	)
	src := data.NewRecord(
		data.F("a", data.Count(1)),
		data.F("nested", data.FromRecord(data.NewRecord(
			data.F("count", data.Count(2)),
			data.F("name", data.Str("two")),
		))),
	)
	var dst struct {
		A      uint64
		Nested selfLayouted
	}
	require.NoError(t, Record(src, &dst, layout))
	assert.Equal(t, uint64(1), dst.A)
	assert.Equal(t, uint64(2), dst.Nested.Count)
	assert.Equal(t, "two", dst.Nested.Name)
}

func TestMissingLayout(t *testing.T) {
	var dst struct {
		A uint64
	}
	err := Record(data.NewRecord(data.F("a", data.Count(1))), &dst, schema.Record())
	require.ErrorIs(t, err, ErrMissingLayout)
}

func TestMemberCountMismatch(t *testing.T) {
	layout := schema.Record(
		schema.NamedField("a", schema.Count()),
		schema.NamedField("b", schema.Count()),
	)
	var dst struct {
		A uint64
	}
	err := Record(data.NewRecord(), &dst, layout)
	require.ErrorIs(t, err, ErrNoConversion)
}

func TestEnum(t *testing.T) {
	ty := schema.Enum("foo", "bar", "baz")

	var v uint8
	require.NoError(t, Value(data.Str("bar"), &v, ty))
	assert.Equal(t, uint8(1), v)

	var w int32
	require.NoError(t, Value(data.Str("baz"), &w, ty))
	assert.Equal(t, int32(2), w)

	err := Value(data.Str("qux"), &v, ty)
	require.ErrorIs(t, err, ErrUnknownEnumerator)
}

func TestEnumerationValue(t *testing.T) {
	ty := schema.Enum("foo", "bar")
	var v uint32
	require.NoError(t, Value(data.Enum(1), &v, ty))
	assert.Equal(t, uint32(1), v)
}

func TestListToSlice(t *testing.T) {
	ty := schema.List(schema.Count())
	var v []uint64
	src := data.ListOf(data.Count(1), data.Count(2), data.Count(3))
	require.NoError(t, Value(src, &v, ty))
	assert.Equal(t, []uint64{1, 2, 3}, v)
}

func TestListElementErrorCarriesIndex(t *testing.T) {
	layout := schema.Record(schema.NamedField("xs", schema.List(schema.Count())))
	src := data.NewRecord(data.F("xs", data.ListOf(
		data.Count(1), data.Count(2), data.Count(999),
	)))
	var dst struct {
		Xs []uint8
	}
	err := Record(src, &dst, layout)
	require.ErrorIs(t, err, ErrOutOfRange)
	assert.Contains(t, err.Error(), ".xs[2]")
}

func TestMapToMap(t *testing.T) {
	ty := schema.MapOf(schema.String(), schema.Count())
	src := data.FromMap(data.Map{
		{Key: data.Str("a"), Value: data.Count(1)},
		{Key: data.Str("b"), Value: data.Count(2)},
	})
	var v map[string]uint64
	require.NoError(t, Value(src, &v, ty))
	assert.Equal(t, map[string]uint64{"a": 1, "b": 2}, v)
}

func TestRecordToMap(t *testing.T) {
	ty := schema.MapOf(schema.String(), schema.Count())
	src := data.FromRecord(data.NewRecord(
		data.F("a", data.Count(1)),
		data.F("b", data.Count(2)),
	))
	var v map[string]uint64
	require.NoError(t, Value(src, &v, ty))
	assert.Equal(t, map[string]uint64{"a": 1, "b": 2}, v)
}

func TestMapKeyCollision(t *testing.T) {
	ty := schema.MapOf(schema.String(), schema.Count())
	src := data.FromMap(data.Map{
		{Key: data.Str("a"), Value: data.Count(1)},
		{Key: data.Str("a"), Value: data.Count(2)},
	})
	var v map[string]uint64
	err := Value(src, &v, ty)
	require.ErrorIs(t, err, ErrRedefinition)
	assert.Contains(t, err.Error(), ".a")
}

type tally struct {
	N uint64
}

func (t tally) Combine(other any) any {
	o := other.(tally)
	return tally{N: t.N + o.N}
}

func keyedRecordType() schema.Type {
	return schema.Record(
		schema.NamedField("id", schema.String().WithAttrs(schema.Attr("key"))),
		schema.NamedField("n", schema.Count()),
	)
}

func TestListOfRecordsToMap(t *testing.T) {
	ty := schema.List(keyedRecordType())
	src := data.ListOf(
		data.FromRecord(data.NewRecord(
			data.F("id", data.Str("x")),
			data.F("n", data.Count(1)),
		)),
		data.FromRecord(data.NewRecord(
			data.F("id", data.Str("y")),
			data.F("n", data.Count(2)),
		)),
	)
	var v map[string]struct{ N uint64 }
	require.NoError(t, Value(src, &v, ty))
	require.Len(t, v, 2)
	assert.Equal(t, uint64(1), v["x"].N)
	assert.Equal(t, uint64(2), v["y"].N)
}

func TestListOfRecordsToMapAccumulates(t *testing.T) {
	ty := schema.List(keyedRecordType())
	entry := func(id string, n uint64) data.Data {
		return data.FromRecord(data.NewRecord(
			data.F("id", data.Str(id)),
			data.F("n", data.Count(n)),
		))
	}

	var v map[string]struct{ N uint64 }
	require.NoError(t, Value(data.ListOf(entry("x", 1)), &v, ty))
	require.NoError(t, Value(data.ListOf(entry("y", 2)), &v, ty))

	require.Len(t, v, 2)
	assert.Equal(t, uint64(1), v["x"].N)
	assert.Equal(t, uint64(2), v["y"].N)

	// A later batch may not redefine a key already present.
	err := Value(data.ListOf(entry("y", 3)), &v, ty)
	require.ErrorIs(t, err, ErrRedefinition)
	assert.Equal(t, uint64(2), v["y"].N)
}

func TestListOfRecordsToMapRedefinition(t *testing.T) {
	ty := schema.List(keyedRecordType())
	src := data.ListOf(
		data.FromRecord(data.NewRecord(
			data.F("id", data.Str("x")),
			data.F("n", data.Count(1)),
		)),
		data.FromRecord(data.NewRecord(
			data.F("id", data.Str("x")),
			data.F("n", data.Count(2)),
		)),
	)
	var v map[string]struct{ N uint64 }
	err := Value(src, &v, ty)
	require.ErrorIs(t, err, ErrRedefinition)
}

func TestListOfRecordsToMapCombines(t *testing.T) {
	ty := schema.List(keyedRecordType())
	src := data.ListOf(
		data.FromRecord(data.NewRecord(
			data.F("id", data.Str("x")),
			data.F("n", data.Count(1)),
		)),
		data.FromRecord(data.NewRecord(
			data.F("id", data.Str("x")),
			data.F("n", data.Count(2)),
		)),
	)
	var v map[string]tally
	require.NoError(t, Value(src, &v, ty))
	assert.Equal(t, uint64(3), v["x"].N)
}

func TestListOfRecordsToMapSkipsNullAndAbsentKeys(t *testing.T) {
	ty := schema.List(keyedRecordType())
	src := data.ListOf(
		data.FromRecord(data.NewRecord(
			data.F("id", data.None()),
			data.F("n", data.Count(1)),
		)),
		data.FromRecord(data.NewRecord(
			data.F("n", data.Count(2)),
		)),
		data.FromRecord(data.NewRecord(
			data.F("id", data.Str("z")),
			data.F("n", data.Count(3)),
		)),
	)
	var v map[string]tally
	require.NoError(t, Value(src, &v, ty))
	require.Len(t, v, 1)
	assert.Equal(t, uint64(3), v["z"].N)
}

func TestListOfRecordsToMapRequiresKeyField(t *testing.T) {
	ty := schema.List(schema.Record(
		schema.NamedField("id", schema.String()),
		schema.NamedField("n", schema.Count()),
	))
	var v map[string]tally
	err := Value(data.ListOf(), &v, ty)
	require.ErrorIs(t, err, ErrKeyFieldMissing)
}

func TestListOfRecordsToMapRejectsDuplicateKeyFields(t *testing.T) {
	ty := schema.List(schema.Record(
		schema.NamedField("a", schema.String().WithAttrs(schema.Attr("key"))),
		schema.NamedField("b", schema.String().WithAttrs(schema.Attr("key"))),
	))
	var v map[string]tally
	err := Value(data.ListOf(), &v, ty)
	require.ErrorIs(t, err, ErrKeyFieldNotUnique)
}

func TestListOfRecordsToMapRejectsNonRecordElement(t *testing.T) {
	ty := schema.List(keyedRecordType())
	var v map[string]tally
	err := Value(data.ListOf(data.Count(1)), &v, ty)
	require.ErrorIs(t, err, ErrRecordExpected)
}

func TestAliasResolves(t *testing.T) {
	ty := schema.Alias("port", schema.Count())
	var v uint16
	require.NoError(t, Value(data.Count(443), &v, ty))
	assert.Equal(t, uint16(443), v)
}

func TestNoneTypeRejected(t *testing.T) {
	var v uint64
	err := Value(data.Count(1), &v, schema.None())
	require.ErrorIs(t, err, ErrNoConversion)
}

func TestTerminalPayloads(t *testing.T) {
	ts := time.Unix(1700000000, 0).UTC()
	layout := schema.Record(
		schema.NamedField("ts", schema.Time()),
		schema.NamedField("d", schema.Duration()),
	)
	src := data.NewRecord(
		data.F("ts", data.Time(ts)),
		data.F("d", data.Duration(5*time.Second)),
	)
	var dst struct {
		TS time.Time
		D  time.Duration
	}
	require.NoError(t, Record(src, &dst, layout))
	assert.True(t, ts.Equal(dst.TS))
	assert.Equal(t, 5*time.Second, dst.D)
}

func TestNestedFieldErrorPath(t *testing.T) {
	layout := schema.Record(
		schema.NamedField("outer", schema.Record(
			schema.NamedField("inner", schema.Count()),
		)),
	)
	src := data.NewRecord(
		data.F("outer", data.FromRecord(data.NewRecord(
			data.F("inner", data.Int(-1)),
		))),
	)
	var dst struct {
		Inner uint64
	}
	err := Record(src, &dst, layout)
	require.ErrorIs(t, err, ErrNegativeToUnsigned)
	assert.Contains(t, err.Error(), ".outer.inner")
}

func TestNonRecordIntermediate(t *testing.T) {
	layout := schema.Record(
		schema.NamedField("outer", schema.Record(
			schema.NamedField("inner", schema.Count()),
		)),
	)
	src := data.NewRecord(data.F("outer", data.Count(1)))
	var dst struct {
		Inner uint64
	}
	err := Record(src, &dst, layout)
	require.ErrorIs(t, err, ErrRecordExpected)
}

func TestNilDestination(t *testing.T) {
	err := Record(data.NewRecord(), (*struct{ A uint64 })(nil), schema.Record(
		schema.NamedField("a", schema.Count()),
	))
	require.ErrorIs(t, err, ErrNoConversion)
}
