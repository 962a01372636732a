package convert

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/hupe1980/logseg/data"
	"github.com/hupe1980/logseg/schema"
)

// convertList appends the converted source elements to dst in order.
// Conversion stops at the first failing element; elements appended before
// the failure remain in dst.
func convertList(src data.List, dst reflect.Value, t schema.Type) error {
	elemType := dst.Type().Elem()
	for i, elem := range src {
		ev := reflect.New(elemType).Elem()
		if err := convertValue(elem, ev, *t.Elem); err != nil {
			return prepend(err, "["+strconv.Itoa(i)+"]")
		}
		dst.Set(reflect.Append(dst, ev))
	}
	return nil
}

// convertMap converts each source entry and inserts it into dst, combining
// or failing on key collision.
func convertMap(src data.Map, dst reflect.Value, t schema.Type) error {
	ensureMap(dst)
	for _, kv := range src {
		if err := convertEntry(kv.Key, kv.Value, dst, t); err != nil {
			return prepend(err, "."+keyText(kv.Key))
		}
	}
	return nil
}

// convertRecordToMap is convertMap with (field name, value) pairs as the
// source entries.
func convertRecordToMap(src data.Record, dst reflect.Value, t schema.Type) error {
	ensureMap(dst)
	for _, f := range src {
		if err := convertEntry(data.Str(f.Name), f.Value, dst, t); err != nil {
			return prepend(err, "."+f.Name)
		}
	}
	return nil
}

func convertEntry(key, value data.Data, dst reflect.Value, t schema.Type) error {
	kv := reflect.New(dst.Type().Key()).Elem()
	if err := convertValue(key, kv, *t.Key); err != nil {
		return err
	}
	vv := reflect.New(dst.Type().Elem()).Elem()
	if err := convertValue(value, vv, *t.Value); err != nil {
		return err
	}
	return insertToMap(dst, kv, vv)
}

// convertListToMap folds a list of records into dst. The list's record
// type must declare exactly one leaf with the "key" attribute; that leaf's
// value becomes the map key and the record, converted against the
// key-pruned type, becomes the map value. Repeated invocations accumulate;
// collisions follow the same policy as plain map conversion.
func convertListToMap(src data.List, dst reflect.Value, t schema.Type) error {
	rt := t.Elem.Underlying()
	if rt.Kind != schema.KindRecord {
		return fmt.Errorf("%w: expected a record type in list, got %s", ErrNoConversion, t.Elem)
	}
	var keyLeaf schema.Leaf
	found := false
	for _, leaf := range schema.Each(rt) {
		if !leaf.Type.HasAttribute("key") {
			continue
		}
		if found {
			return fmt.Errorf("%w: %s", ErrKeyFieldNotUnique, rt)
		}
		keyLeaf = leaf
		found = true
	}
	if !found {
		return fmt.Errorf("%w: %s", ErrKeyFieldMissing, rt)
	}
	pruned, ok := schema.RemoveField(rt, keyLeaf.Path)
	if !ok {
		return fmt.Errorf("%w: cannot prune key field %q from %s", ErrNoConversion, keyLeaf.Key(), rt)
	}
	ensureMap(dst)
	for _, elem := range src {
		if elem.Kind() != data.KindRecord {
			return fmt.Errorf("%w in list, got %s", ErrRecordExpected, elem.Kind())
		}
		rec := elem.AsRecord()
		keyVal, present, err := lookupPath(rec, keyLeaf.Path)
		if err != nil {
			return err
		}
		if !present || keyVal.IsNone() {
			continue
		}
		kv := reflect.New(dst.Type().Key()).Elem()
		if err := convertValue(keyVal, kv, keyLeaf.Type); err != nil {
			return err
		}
		vv := reflect.New(dst.Type().Elem()).Elem()
		if err := convertValue(data.FromRecord(rec), vv, pruned); err != nil {
			return err
		}
		if err := insertToMap(dst, kv, vv); err != nil {
			return err
		}
	}
	return nil
}

// insertToMap inserts (key, value) into dst. If the key is already present
// and the value type implements Combiner, the existing value absorbs the
// new one; otherwise the collision is a hard error.
func insertToMap(dst reflect.Value, key, value reflect.Value) error {
	existing := dst.MapIndex(key)
	if !existing.IsValid() {
		dst.SetMapIndex(key, value)
		return nil
	}
	if comb, ok := existing.Interface().(Combiner); ok {
		combined := reflect.ValueOf(comb.Combine(value.Interface()))
		if !combined.Type().AssignableTo(dst.Type().Elem()) {
			return fmt.Errorf("%w: Combine returned %s, want %s",
				ErrRedefinition, combined.Type(), dst.Type().Elem())
		}
		dst.SetMapIndex(key, combined)
		return nil
	}
	return fmt.Errorf("%w of %v detected: %q vs %q",
		ErrRedefinition, key, fmt.Sprint(existing.Interface()), fmt.Sprint(value.Interface()))
}

func ensureMap(dst reflect.Value) {
	if dst.IsNil() {
		dst.Set(reflect.MakeMap(dst.Type()))
	}
}

// keyText renders a map key for the error breadcrumb; strings stay bare.
func keyText(d data.Data) string {
	if d.Kind() == data.KindString {
		return d.AsString()
	}
	return d.String()
}
