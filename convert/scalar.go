package convert

import (
	"fmt"
	"math"
	"reflect"

	"github.com/hupe1980/logseg/data"
	"github.com/hupe1980/logseg/schema"
)

// convKey identifies one typed converter: the source value kind, the
// destination's reflect kind, and the schema type kind.
type convKey struct {
	src  data.Kind
	dst  reflect.Kind
	kind schema.Kind
}

type convFunc func(src data.Data, dst reflect.Value, t schema.Type) error

// typedConverters is the closed registry of typed conversions. Resolution
// happens at a single call site in convertScalar: typed first, then the
// untyped identity bridge, then ErrNoConversion.
var typedConverters = map[convKey]convFunc{}

var (
	intKinds  = []reflect.Kind{reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64}
	uintKinds = []reflect.Kind{reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64}
)

func init() {
	for _, k := range uintKinds {
		typedConverters[convKey{data.KindCount, k, schema.KindCount}] = countToUint
		typedConverters[convKey{data.KindInt, k, schema.KindCount}] = intToUint
		typedConverters[convKey{data.KindEnum, k, schema.KindEnum}] = enumToUint
		typedConverters[convKey{data.KindString, k, schema.KindEnum}] = stringToEnum
	}
	for _, k := range intKinds {
		typedConverters[convKey{data.KindInt, k, schema.KindInt}] = intToInt
		typedConverters[convKey{data.KindEnum, k, schema.KindEnum}] = enumToInt
		typedConverters[convKey{data.KindString, k, schema.KindEnum}] = stringToEnum
	}
	typedConverters[convKey{data.KindReal, reflect.Float64, schema.KindReal}] = realToFloat
	typedConverters[convKey{data.KindReal, reflect.Float32, schema.KindReal}] = realToFloat
}

func convertScalar(src data.Data, dst reflect.Value, t schema.Type) error {
	if fn, ok := typedConverters[convKey{src.Kind(), dst.Kind(), t.Kind}]; ok {
		return fn(src, dst, t)
	}
	// Untyped identity bridge: exact representation match, plus the one
	// permitted narrowing between float widths.
	if nv := reflect.ValueOf(src.Native()); nv.IsValid() {
		if nv.Type().AssignableTo(dst.Type()) {
			dst.Set(nv)
			return nil
		}
		if nv.Kind() == reflect.Float64 && dst.Kind() == reflect.Float32 {
			dst.SetFloat(nv.Float())
			return nil
		}
	}
	return fmt.Errorf("%w from %s to %s with type %s", ErrNoConversion, src.Kind(), dst.Type(), t)
}

func countToUint(src data.Data, dst reflect.Value, _ schema.Type) error {
	u := src.AsCount()
	if dst.OverflowUint(u) {
		return fmt.Errorf("%w: %d can not be represented by the destination [0, %d]",
			ErrOutOfRange, u, maxUint(dst))
	}
	dst.SetUint(u)
	return nil
}

func intToUint(src data.Data, dst reflect.Value, _ schema.Type) error {
	i := src.AsInt()
	if i < 0 {
		return fmt.Errorf("%w: %d can not be negative", ErrNegativeToUnsigned, i)
	}
	u := uint64(i)
	if dst.OverflowUint(u) {
		return fmt.Errorf("%w: %d can not be represented by the destination [0, %d]",
			ErrOutOfRange, u, maxUint(dst))
	}
	dst.SetUint(u)
	return nil
}

func intToInt(src data.Data, dst reflect.Value, _ schema.Type) error {
	i := src.AsInt()
	if dst.OverflowInt(i) {
		lo, hi := intBounds(dst)
		return fmt.Errorf("%w: %d can not be represented by the destination [%d, %d]",
			ErrOutOfRange, i, lo, hi)
	}
	dst.SetInt(i)
	return nil
}

func enumToUint(src data.Data, dst reflect.Value, _ schema.Type) error {
	u := uint64(src.AsEnum())
	if dst.OverflowUint(u) {
		return fmt.Errorf("%w: enumerator index %d can not be represented by the destination [0, %d]",
			ErrOutOfRange, u, maxUint(dst))
	}
	dst.SetUint(u)
	return nil
}

func enumToInt(src data.Data, dst reflect.Value, _ schema.Type) error {
	i := int64(src.AsEnum())
	if dst.OverflowInt(i) {
		lo, hi := intBounds(dst)
		return fmt.Errorf("%w: enumerator index %d can not be represented by the destination [%d, %d]",
			ErrOutOfRange, i, lo, hi)
	}
	dst.SetInt(i)
	return nil
}

// stringToEnum resolves a string to the zero-based index of the matching
// enumerator name, by linear scan over the declared names.
func stringToEnum(src data.Data, dst reflect.Value, t schema.Type) error {
	s := src.AsString()
	for i, name := range t.Enums {
		if name != s {
			continue
		}
		switch dst.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			dst.SetInt(int64(i))
		default:
			dst.SetUint(uint64(i))
		}
		return nil
	}
	return fmt.Errorf("%w: %q is not a value of %s", ErrUnknownEnumerator, s, t)
}

func realToFloat(src data.Data, dst reflect.Value, _ schema.Type) error {
	dst.SetFloat(src.AsReal())
	return nil
}

func maxUint(dst reflect.Value) uint64 {
	bits := dst.Type().Bits()
	if bits >= 64 {
		return math.MaxUint64
	}
	return 1<<bits - 1
}

func intBounds(dst reflect.Value) (int64, int64) {
	bits := dst.Type().Bits()
	if bits >= 64 {
		return math.MinInt64, math.MaxInt64
	}
	return -(1 << (bits - 1)), 1<<(bits-1) - 1
}
