package schema

import (
	"strings"
)

// Kind identifies the concrete variant of a Type.
type Kind uint8

const (
	// KindNone represents the absent type.
	KindNone Kind = iota
	// KindBool represents a boolean type.
	KindBool
	// KindInt represents a signed integer type.
	KindInt
	// KindCount represents an unsigned integer type.
	KindCount
	// KindReal represents a double-precision floating point type.
	KindReal
	// KindDuration represents a time span type.
	KindDuration
	// KindTime represents a point-in-time type.
	KindTime
	// KindString represents a string type.
	KindString
	// KindPattern represents a regular expression type.
	KindPattern
	// KindAddr represents an IP address type.
	KindAddr
	// KindSubnet represents an IP subnet type.
	KindSubnet
	// KindEnum represents an enumeration type.
	KindEnum
	// KindList represents a homogeneous sequence type.
	KindList
	// KindMap represents an associative type.
	KindMap
	// KindRecord represents an ordered named-field aggregate type.
	KindRecord
	// KindAlias represents a named wrapper around another type.
	KindAlias
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindCount:
		return "count"
	case KindReal:
		return "real"
	case KindDuration:
		return "duration"
	case KindTime:
		return "time"
	case KindString:
		return "string"
	case KindPattern:
		return "pattern"
	case KindAddr:
		return "addr"
	case KindSubnet:
		return "subnet"
	case KindEnum:
		return "enum"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindRecord:
		return "record"
	case KindAlias:
		return "alias"
	default:
		return "unknown"
	}
}

// Attribute is a free-form tag attached to a type. The value part is
// optional; the "key" attribute used by list-to-map conversion has none.
type Attribute struct {
	Key   string `msgpack:"k"`
	Value string `msgpack:"v,omitempty"`
}

// Attr constructs a value-less attribute.
func Attr(key string) Attribute {
	return Attribute{Key: key}
}

// AttrKV constructs a key-value attribute.
func AttrKV(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Field is a single named field of a record type. Field order within a
// record type is contractual: conversion pairs fields with destination
// members positionally.
type Field struct {
	Name string `msgpack:"n"`
	Type Type   `msgpack:"t"`
}

// Type is a closed, recursive type descriptor mirroring the shape of
// data.Data. The zero value is the none type.
type Type struct {
	Kind  Kind        `msgpack:"k"`
	Name  string      `msgpack:"nm,omitempty"`
	Attrs []Attribute `msgpack:"a,omitempty"`

	// Enums holds the enumerator names for KindEnum.
	Enums []string `msgpack:"e,omitempty"`
	// Elem is the element type for KindList and the wrapped type for
	// KindAlias.
	Elem *Type `msgpack:"el,omitempty"`
	// Key and Value are the entry types for KindMap.
	Key   *Type `msgpack:"mk,omitempty"`
	Value *Type `msgpack:"mv,omitempty"`
	// Fields are the ordered fields for KindRecord.
	Fields []Field `msgpack:"f,omitempty"`
}

// None returns the none type.
func None() Type { return Type{Kind: KindNone} }

// Bool returns a boolean type.
func Bool() Type { return Type{Kind: KindBool} }

// Int returns a signed integer type.
func Int() Type { return Type{Kind: KindInt} }

// Count returns an unsigned integer type.
func Count() Type { return Type{Kind: KindCount} }

// Real returns a floating point type.
func Real() Type { return Type{Kind: KindReal} }

// Duration returns a time span type.
func Duration() Type { return Type{Kind: KindDuration} }

// Time returns a point-in-time type.
func Time() Type { return Type{Kind: KindTime} }

// String returns a string type.
func String() Type { return Type{Kind: KindString} }

// Pattern returns a regular expression type.
func Pattern() Type { return Type{Kind: KindPattern} }

// Addr returns an IP address type.
func Addr() Type { return Type{Kind: KindAddr} }

// Subnet returns an IP subnet type.
func Subnet() Type { return Type{Kind: KindSubnet} }

// Enum returns an enumeration type over the given enumerator names.
func Enum(names ...string) Type {
	return Type{Kind: KindEnum, Enums: names}
}

// List returns a list type with the given element type.
func List(elem Type) Type {
	return Type{Kind: KindList, Elem: &elem}
}

// MapOf returns a map type with the given key and value types.
func MapOf(key, value Type) Type {
	return Type{Kind: KindMap, Key: &key, Value: &value}
}

// Record returns a record type with the given fields in order.
func Record(fields ...Field) Type {
	return Type{Kind: KindRecord, Fields: fields}
}

// Alias wraps t under a new name.
func Alias(name string, t Type) Type {
	return Type{Kind: KindAlias, Name: name, Elem: &t}
}

// NamedField pairs a name with a type.
func NamedField(name string, t Type) Field {
	return Field{Name: name, Type: t}
}

// WithName returns a copy of t carrying the given name.
func (t Type) WithName(name string) Type {
	t.Name = name
	return t
}

// WithAttrs returns a copy of t with the given attributes appended.
func (t Type) WithAttrs(attrs ...Attribute) Type {
	t.Attrs = append(append([]Attribute(nil), t.Attrs...), attrs...)
	return t
}

// Underlying resolves alias chains to the structural type. Attributes of
// the alias layers are not merged into the result.
func (t Type) Underlying() Type {
	for t.Kind == KindAlias && t.Elem != nil {
		t = *t.Elem
	}
	return t
}

// HasAttribute reports whether t carries an attribute with the given key.
func (t Type) HasAttribute(key string) bool {
	_, ok := t.Attribute(key)
	return ok
}

// Attribute returns the value of the attribute with the given key.
func (t Type) Attribute(key string) (string, bool) {
	for _, a := range t.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// IsRecord reports whether the underlying type of t is a record.
func (t Type) IsRecord() bool {
	return t.Underlying().Kind == KindRecord
}

// String renders the type structurally, e.g.
// "record{a: string, b: list<count>}".
func (t Type) String() string {
	var sb strings.Builder
	t.render(&sb)
	return sb.String()
}

func (t Type) render(sb *strings.Builder) {
	u := t.Underlying()
	switch u.Kind {
	case KindEnum:
		sb.WriteString("enum{")
		sb.WriteString(strings.Join(u.Enums, ", "))
		sb.WriteByte('}')
	case KindList:
		sb.WriteString("list<")
		u.Elem.render(sb)
		sb.WriteByte('>')
	case KindMap:
		sb.WriteString("map<")
		u.Key.render(sb)
		sb.WriteString(", ")
		u.Value.render(sb)
		sb.WriteByte('>')
	case KindRecord:
		sb.WriteString("record{")
		for i, f := range u.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.Name)
			sb.WriteString(": ")
			f.Type.render(sb)
		}
		sb.WriteByte('}')
	default:
		sb.WriteString(u.Kind.String())
	}
}
