// Package convert implements the structural conversion engine: a
// type-directed recursive algorithm that populates statically-typed
// destination structures from the dynamic value model in package data,
// guided by a schema type descriptor.
//
// A destination is a pointer to a struct whose exported fields, in declared
// order, correspond positionally to the pre-order flattening of the record
// type's fields. Nested non-struct-terminal structs are inlined into the
// member sequence; embedded structs are always inlined. A member whose type
// implements Layouted is treated as a single self-describing member and
// pairs with an empty-record leaf in the layout.
//
// A field that is absent from the source record leaves the destination
// member unchanged. An explicitly null field does too, with one exception:
// a pointer member is reset to a pointer to the zero value, so null turns
// an optional into "present with default" rather than clearing it.
package convert

import (
	"fmt"
	"net/netip"
	"reflect"
	"time"

	"github.com/hupe1980/logseg/data"
	"github.com/hupe1980/logseg/schema"
)

// Layouted is implemented by destination types that describe their own
// record layout. It is required when converting against a zero-field
// record type (the self-describing sentinel).
type Layouted interface {
	Layout() schema.Type
}

// Combiner is implemented by map value types that combine on key collision
// instead of failing with ErrRedefinition. Combine receives the newly
// converted value and returns the merged result; the receiver is the value
// already present in the map.
type Combiner interface {
	Combine(other any) any
}

// Record populates dst from a record value using the given record layout.
// dst must be a non-nil pointer to a struct.
func Record(src data.Record, dst any, layout schema.Type) error {
	v, err := structDest(dst)
	if err != nil {
		return err
	}
	return convertRecord(src, v, layout)
}

// Value converts a single value into dst using the given type. dst must be
// a non-nil pointer.
func Value(src data.Data, dst any, t schema.Type) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return fmt.Errorf("%w: destination must be a non-nil pointer, got %T", ErrNoConversion, dst)
	}
	return convertValue(src, v.Elem(), t)
}

// Self populates dst from a record value using dst's own layout. dst must
// be a non-nil pointer to a struct implementing Layouted.
func Self(src data.Data, dst any) error {
	if src.Kind() != data.KindRecord {
		return fmt.Errorf("%w, got %s", ErrRecordExpected, src.Kind())
	}
	v, err := structDest(dst)
	if err != nil {
		return err
	}
	layout, ok := layoutOf(v)
	if !ok {
		return fmt.Errorf("%w: %T", ErrMissingLayout, dst)
	}
	return convertRecord(src.AsRecord(), v, layout)
}

func structDest(dst any) (reflect.Value, error) {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: destination must be a non-nil pointer, got %T", ErrNoConversion, dst)
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: destination must point to a struct, got %T", ErrNoConversion, dst)
	}
	return v, nil
}

// convertRecord walks the record type's flattened leaves and the
// destination's flattened member sequence in lockstep.
func convertRecord(src data.Record, dst reflect.Value, layout schema.Type) error {
	u := layout.Underlying()
	if u.Kind != schema.KindRecord {
		return fmt.Errorf("%w: cannot convert a record with type %s", ErrNoConversion, u.Kind)
	}
	if len(u.Fields) == 0 {
		self, ok := layoutOf(dst)
		if !ok {
			return fmt.Errorf("%w: %s", ErrMissingLayout, dst.Type())
		}
		u = self.Underlying()
		if u.Kind != schema.KindRecord || len(u.Fields) == 0 {
			return fmt.Errorf("%w: %s", ErrMissingLayout, dst.Type())
		}
	}
	leaves := schema.Each(u)
	members := flattenMembers(dst)
	if len(leaves) != len(members) {
		return fmt.Errorf("%w: layout has %d fields but %s has %d members",
			ErrNoConversion, len(leaves), dst.Type(), len(members))
	}
	for i, leaf := range leaves {
		val, found, err := lookupPath(src, leaf.Path)
		if err != nil {
			return prepend(err, "."+leaf.Key())
		}
		if !found {
			continue
		}
		if val.IsNone() {
			// Null resets an optional to a present default; any other
			// member stays untouched, same as an absent field.
			if members[i].Kind() == reflect.Pointer {
				members[i].Set(reflect.New(members[i].Type().Elem()))
			}
			continue
		}
		if err := convertValue(val, members[i], leaf.Type); err != nil {
			return prepend(err, "."+leaf.Key())
		}
	}
	return nil
}

// lookupPath resolves a nested field trace against a record. A missing key
// along the path means "absent"; a non-record intermediate is an error.
func lookupPath(r data.Record, path []string) (data.Data, bool, error) {
	var val data.Data
	for i, name := range path {
		v, ok := r.Get(name)
		if !ok {
			return data.Data{}, false, nil
		}
		if i == len(path)-1 {
			val = v
			break
		}
		if v.Kind() != data.KindRecord {
			return data.Data{}, false, fmt.Errorf("%w at %q, got %s", ErrRecordExpected, name, v.Kind())
		}
		r = v.AsRecord()
	}
	return val, true, nil
}

// convertValue dispatches a single (value, destination, type) triple. The
// resolution order is structural forms first, then the typed scalar
// registry, then the untyped identity bridge, then ErrNoConversion.
func convertValue(src data.Data, dst reflect.Value, t schema.Type) error {
	u := t.Underlying()
	if u.Kind == schema.KindNone {
		return fmt.Errorf("%w: cannot convert with the none type", ErrNoConversion)
	}
	if dst.Kind() == reflect.Pointer {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return convertValue(src, dst.Elem(), t)
	}
	switch dst.Kind() {
	case reflect.Slice:
		if src.Kind() == data.KindList && u.Kind == schema.KindList {
			return convertList(src.AsList(), dst, u)
		}
	case reflect.Map:
		switch {
		case u.Kind == schema.KindMap && src.Kind() == data.KindMap:
			return convertMap(src.AsMap(), dst, u)
		case u.Kind == schema.KindMap && src.Kind() == data.KindRecord:
			return convertRecordToMap(src.AsRecord(), dst, u)
		case u.Kind == schema.KindList && src.Kind() == data.KindList:
			return convertListToMap(src.AsList(), dst, u)
		}
	case reflect.Struct:
		if !isTerminalStruct(dst.Type()) {
			if src.Kind() != data.KindRecord {
				return fmt.Errorf("%w for %s, got %s", ErrRecordExpected, dst.Type(), src.Kind())
			}
			return convertRecord(src.AsRecord(), dst, t)
		}
	}
	return convertScalar(src, dst, u)
}

var (
	layoutedType = reflect.TypeOf((*Layouted)(nil)).Elem()

	timeType   = reflect.TypeOf(time.Time{})
	addrType   = reflect.TypeOf(netip.Addr{})
	prefixType = reflect.TypeOf(netip.Prefix{})
	dataType   = reflect.TypeOf(data.Data{})
)

// isTerminalStruct reports whether a struct type is a scalar payload
// carrier rather than a nested destination aggregate.
func isTerminalStruct(t reflect.Type) bool {
	switch t {
	case timeType, addrType, prefixType, dataType:
		return true
	}
	return false
}

func isLayouted(t reflect.Type) bool {
	return t.Implements(layoutedType) || reflect.PointerTo(t).Implements(layoutedType)
}

func layoutOf(v reflect.Value) (schema.Type, bool) {
	if v.Type().Implements(layoutedType) {
		return v.Interface().(Layouted).Layout(), true
	}
	if v.CanAddr() && reflect.PointerTo(v.Type()).Implements(layoutedType) {
		return v.Addr().Interface().(Layouted).Layout(), true
	}
	return schema.Type{}, false
}

// flattenMembers produces the destination's declared member sequence.
// Embedded structs are always inlined; named struct members are inlined
// unless they are terminal payload types or self-describing (Layouted).
func flattenMembers(v reflect.Value) []reflect.Value {
	var members []reflect.Value
	flattenMembersInto(v, &members)
	return members
}

func flattenMembersInto(v reflect.Value, members *[]reflect.Value) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		f := v.Field(i)
		if f.Kind() == reflect.Struct {
			if sf.Anonymous || (!isTerminalStruct(sf.Type) && !isLayouted(sf.Type)) {
				flattenMembersInto(f, members)
				continue
			}
		}
		*members = append(*members, f)
	}
}
