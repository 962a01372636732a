package schema

import "strings"

// Leaf describes one leaf of a record type's pre-order flattening. A field
// is a leaf if its underlying type is anything but a non-empty record; an
// empty record field is itself a leaf (the self-describing sentinel).
type Leaf struct {
	// Path holds the field names from the root record to the leaf.
	Path []string
	// Offset holds the field indices along the same trace.
	Offset []int
	// Type is the leaf's field type.
	Type Type
}

// Key returns the dotted path of the leaf.
func (l Leaf) Key() string {
	return strings.Join(l.Path, ".")
}

// Each returns the deterministic pre-order flattening of a record type's
// nested fields. This traversal order is the contract conversion relies on
// for positional correspondence with destination struct members.
func Each(rt Type) []Leaf {
	u := rt.Underlying()
	if u.Kind != KindRecord {
		return nil
	}
	var leaves []Leaf
	eachField(u, nil, nil, &leaves)
	return leaves
}

func eachField(rt Type, path []string, offset []int, leaves *[]Leaf) {
	for i, f := range rt.Fields {
		p := append(append([]string(nil), path...), f.Name)
		o := append(append([]int(nil), offset...), i)
		u := f.Type.Underlying()
		if u.Kind == KindRecord && len(u.Fields) > 0 {
			eachField(u, p, o, leaves)
			continue
		}
		*leaves = append(*leaves, Leaf{Path: p, Offset: o, Type: f.Type})
	}
}

// RemoveField returns a copy of the record type rt with the field at the
// given name path pruned. Record fields that become empty through pruning
// are removed as well. It reports whether the path was found.
func RemoveField(rt Type, path []string) (Type, bool) {
	u := rt.Underlying()
	if u.Kind != KindRecord || len(path) == 0 {
		return rt, false
	}
	fields := make([]Field, 0, len(u.Fields))
	found := false
	for _, f := range u.Fields {
		if f.Name != path[0] || found {
			fields = append(fields, f)
			continue
		}
		if len(path) == 1 {
			found = true
			continue
		}
		sub, ok := RemoveField(f.Type, path[1:])
		if !ok {
			fields = append(fields, f)
			continue
		}
		found = true
		if su := sub.Underlying(); su.Kind == KindRecord && len(su.Fields) == 0 {
			continue
		}
		fields = append(fields, Field{Name: f.Name, Type: sub})
	}
	if !found {
		return rt, false
	}
	out := u
	out.Fields = fields
	return out, true
}
