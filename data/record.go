package data

import (
	"fmt"
	"strings"

	"github.com/hupe1980/logseg/schema"
)

// MaxRecursionDepth bounds recursive traversals of nested records. Fields
// nested deeper are truncated by Flatten rather than reported as an error.
const MaxRecursionDepth = 100

// RecordField is a single named field of a record value.
type RecordField struct {
	Name  string
	Value Data
}

// Record is an ordered sequence of named values. Name uniqueness is not
// enforced; lookup by name returns the first match.
type Record []RecordField

// NewRecord constructs a record from the given fields in order.
func NewRecord(fields ...RecordField) Record {
	return Record(fields)
}

// F pairs a name with a value.
func F(name string, value Data) RecordField {
	return RecordField{Name: name, Value: value}
}

// Get returns the value of the first field with the given name.
func (r Record) Get(name string) (Data, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return Data{}, false
}

// Index returns the position of the first field with the given name, or -1.
func (r Record) Index(name string) int {
	for i, f := range r {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Set overwrites the first field with the given name, or appends a new
// field if none exists.
func (r *Record) Set(name string, value Data) {
	if i := r.Index(name); i >= 0 {
		(*r)[i].Value = value
		return
	}
	*r = append(*r, RecordField{Name: name, Value: value})
}

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for i, f := range r {
		out[i] = RecordField{Name: f.Name, Value: cloneData(f.Value)}
	}
	return out
}

func cloneData(d Data) Data {
	switch d.Kind() {
	case KindList:
		l := d.AsList()
		out := make(List, len(l))
		for i, e := range l {
			out[i] = cloneData(e)
		}
		return FromList(out)
	case KindMap:
		m := d.AsMap()
		out := make(Map, len(m))
		for i, kv := range m {
			out[i] = KV{Key: cloneData(kv.Key), Value: cloneData(kv.Value)}
		}
		return FromMap(out)
	case KindRecord:
		return FromRecord(d.AsRecord().Clone())
	default:
		return d
	}
}

// String renders the record for diagnostics.
func (r Record) String() string {
	fields := make([]string, len(r))
	for i, f := range r {
		fields[i] = f.Name + ": " + f.Value.String()
	}
	return "<" + strings.Join(fields, ", ") + ">"
}

// Depth returns the maximum nesting depth of the record. A record without
// record-valued fields has depth 1.
func Depth(r Record) int {
	depth := 1
	for _, f := range r {
		if nested := f.Value.AsRecord(); nested != nil {
			if d := Depth(nested) + 1; d > depth {
				depth = d
			}
		}
	}
	return depth
}

// Flatten recursively inlines nested record fields into dotted-path keys.
// Fields nested deeper than MaxRecursionDepth are dropped, not reported as
// an error.
func Flatten(r Record) Record {
	out := make(Record, 0, len(r))
	flattenInto(&out, r, "", 0)
	return out
}

func flattenInto(out *Record, r Record, prefix string, depth int) {
	for _, f := range r {
		name := f.Name
		if prefix != "" {
			name = prefix + "." + f.Name
		}
		if f.Value.Kind() == KindRecord {
			if depth >= MaxRecursionDepth {
				continue
			}
			flattenInto(out, f.Value.AsRecord(), name, depth+1)
			continue
		}
		*out = append(*out, RecordField{Name: name, Value: f.Value})
	}
}

// ListPolicy selects how Merge combines list-valued fields present on both
// sides.
type ListPolicy uint8

const (
	// ReplaceLists overwrites the destination list with the source list.
	ReplaceLists ListPolicy = iota
	// ConcatenateLists appends the source list's elements after the
	// destination's.
	ConcatenateLists
)

// Merge merges src into dst such that source fields overwrite destination
// fields of the same name. Record-valued fields present on both sides are
// merged recursively; list-valued fields follow the given policy. Existing
// destination fields keep their position, new fields are appended.
func Merge(src Record, dst *Record, policy ListPolicy) {
	for _, f := range src {
		i := dst.Index(f.Name)
		if i < 0 {
			*dst = append(*dst, RecordField{Name: f.Name, Value: cloneData(f.Value)})
			continue
		}
		existing := (*dst)[i].Value
		switch {
		case f.Value.Kind() == KindRecord && existing.Kind() == KindRecord:
			merged := existing.AsRecord()
			Merge(f.Value.AsRecord(), &merged, policy)
			(*dst)[i].Value = FromRecord(merged)
		case policy == ConcatenateLists && f.Value.Kind() == KindList && existing.Kind() == KindList:
			combined := append(List(nil), existing.AsList()...)
			combined = append(combined, f.Value.AsList()...)
			(*dst)[i].Value = FromList(combined)
		default:
			(*dst)[i].Value = cloneData(f.Value)
		}
	}
}

// Strip recursively removes null fields and empty records, collapsing the
// record to its non-empty subset.
func Strip(r Record) Record {
	out := make(Record, 0, len(r))
	for _, f := range r {
		if f.Value.IsNone() {
			continue
		}
		if nested := f.Value.AsRecord(); f.Value.Kind() == KindRecord {
			stripped := Strip(nested)
			if len(stripped) == 0 {
				continue
			}
			out = append(out, RecordField{Name: f.Name, Value: FromRecord(stripped)})
			continue
		}
		out = append(out, f)
	}
	return out
}

// MakeRecord builds a nested record for the given record type. The values
// must correspond one-to-one to the fields of the flattened version of the
// record type.
func MakeRecord(rt schema.Type, values []Data) (Record, error) {
	u := rt.Underlying()
	if u.Kind != schema.KindRecord {
		return nil, fmt.Errorf("make record: expected a record type, got %s", u.Kind)
	}
	rec, rest, err := makeRecord(u, values)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("make record: %d values left over", len(rest))
	}
	return rec, nil
}

func makeRecord(rt schema.Type, values []Data) (Record, []Data, error) {
	rec := make(Record, 0, len(rt.Fields))
	for _, f := range rt.Fields {
		u := f.Type.Underlying()
		if u.Kind == schema.KindRecord && len(u.Fields) > 0 {
			nested, rest, err := makeRecord(u, values)
			if err != nil {
				return nil, nil, err
			}
			rec = append(rec, RecordField{Name: f.Name, Value: FromRecord(nested)})
			values = rest
			continue
		}
		if len(values) == 0 {
			return nil, nil, fmt.Errorf("make record: not enough values for field %q", f.Name)
		}
		rec = append(rec, RecordField{Name: f.Name, Value: values[0]})
		values = values[1:]
	}
	return rec, values, nil
}
