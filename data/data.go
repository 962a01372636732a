package data

import (
	"hash/fnv"
	"math"
	"net/netip"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the concrete variant stored in a Data.
type Kind uint8

// The variant order below is the documented cross-variant ordering used by
// Compare: none < bool < int < count < real < duration < time < string <
// pattern < addr < subnet < enum < list < map < record.
const (
	// KindNone represents the absent value.
	KindNone Kind = iota
	// KindBool represents a boolean value.
	KindBool
	// KindInt represents a signed integer value.
	KindInt
	// KindCount represents an unsigned integer value.
	KindCount
	// KindReal represents a double-precision floating point value.
	KindReal
	// KindDuration represents a time span.
	KindDuration
	// KindTime represents a point in time.
	KindTime
	// KindString represents a string value.
	KindString
	// KindPattern represents a regular expression value.
	KindPattern
	// KindAddr represents an IP address.
	KindAddr
	// KindSubnet represents an IP subnet.
	KindSubnet
	// KindEnum represents an enumeration index.
	KindEnum
	// KindList represents an ordered sequence of values.
	KindList
	// KindMap represents an ordered association of values.
	KindMap
	// KindRecord represents an ordered named-field aggregate.
	KindRecord
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
	default:
		return "invalid"
	}
}

// Pattern is a regular expression literal. It is stored unparsed; matching
// is the concern of query evaluation, not of the value model.
type Pattern string

// Enumeration is a zero-based index into an enumeration type's declared
// enumerator names.
type Enumeration uint32

// List is an ordered sequence of values.
type List []Data

// KV is a single key-value entry of a Map.
type KV struct {
	Key   Data
	Value Data
}

// Map is an ordered association of values. Entry order is preserved;
// key uniqueness is not enforced.
type Map []KV

// Data is a closed tagged union over the value kinds above. The zero value
// is none. Data is a value type: copies are independent up to the usual
// slice-aliasing caveats for list, map, and record payloads.
type Data struct {
	kind Kind
	b    bool
	n    uint64 // int (two's complement), count, enum
	f    float64
	s    string // string and pattern
	t    time.Time
	d    time.Duration
	a    netip.Addr
	p    netip.Prefix
	l    List
	m    Map
	r    Record
}

// None returns the absent value. Equivalent to the zero Data.
func None() Data { return Data{} }

// Bool constructs a boolean value.
func Bool(b bool) Data { return Data{kind: KindBool, b: b} }

// Int constructs a signed integer value.
func Int(i int64) Data { return Data{kind: KindInt, n: uint64(i)} }

// Count constructs an unsigned integer value.
func Count(u uint64) Data { return Data{kind: KindCount, n: u} }

// Real constructs a floating point value.
func Real(f float64) Data { return Data{kind: KindReal, f: f} }

// Str constructs a string value.
func Str(s string) Data { return Data{kind: KindString, s: s} }

// Pat constructs a pattern value.
func Pat(p Pattern) Data { return Data{kind: KindPattern, s: string(p)} }

// Addr constructs an IP address value.
func Addr(a netip.Addr) Data { return Data{kind: KindAddr, a: a} }

// Subnet constructs an IP subnet value.
func Subnet(p netip.Prefix) Data { return Data{kind: KindSubnet, p: p} }

// Time constructs a point-in-time value.
func Time(t time.Time) Data { return Data{kind: KindTime, t: t} }

// Duration constructs a time span value.
func Duration(d time.Duration) Data { return Data{kind: KindDuration, d: d} }

// Enum constructs an enumeration index value.
func Enum(e Enumeration) Data { return Data{kind: KindEnum, n: uint64(e)} }

// FromList constructs a list value.
func FromList(l List) Data { return Data{kind: KindList, l: l} }

// ListOf constructs a list value from the given elements.
func ListOf(elems ...Data) Data { return FromList(List(elems)) }

// FromMap constructs a map value.
func FromMap(m Map) Data { return Data{kind: KindMap, m: m} }

// FromRecord constructs a record value.
func FromRecord(r Record) Data { return Data{kind: KindRecord, r: r} }

// Kind returns the variant stored in d.
func (d Data) Kind() Kind { return d.kind }

// IsNone reports whether d is the absent value.
func (d Data) IsNone() bool { return d.kind == KindNone }

// AsBool returns the boolean payload, or false for other kinds.
func (d Data) AsBool() bool {
	if d.kind == KindBool {
		return d.b
	}
	return false
}

// AsInt returns the signed integer payload, or 0 for other kinds.
func (d Data) AsInt() int64 {
	if d.kind == KindInt {
		return int64(d.n)
	}
	return 0
}

// AsCount returns the unsigned integer payload, or 0 for other kinds.
func (d Data) AsCount() uint64 {
	if d.kind == KindCount {
		return d.n
	}
	return 0
}

// AsReal returns the floating point payload, or 0 for other kinds.
func (d Data) AsReal() float64 {
	if d.kind == KindReal {
		return d.f
	}
	return 0
}

// AsString returns the string payload, or "" for other kinds.
func (d Data) AsString() string {
	if d.kind == KindString {
		return d.s
	}
	return ""
}

// AsPattern returns the pattern payload, or "" for other kinds.
func (d Data) AsPattern() Pattern {
	if d.kind == KindPattern {
		return Pattern(d.s)
	}
	return ""
}

// AsAddr returns the address payload, or the zero Addr for other kinds.
func (d Data) AsAddr() netip.Addr {
	if d.kind == KindAddr {
		return d.a
	}
	return netip.Addr{}
}

// AsSubnet returns the subnet payload, or the zero Prefix for other kinds.
func (d Data) AsSubnet() netip.Prefix {
	if d.kind == KindSubnet {
		return d.p
	}
	return netip.Prefix{}
}

// AsTime returns the time payload, or the zero Time for other kinds.
func (d Data) AsTime() time.Time {
	if d.kind == KindTime {
		return d.t
	}
	return time.Time{}
}

// AsDuration returns the duration payload, or 0 for other kinds.
func (d Data) AsDuration() time.Duration {
	if d.kind == KindDuration {
		return d.d
	}
	return 0
}

// AsEnum returns the enumeration payload, or 0 for other kinds.
func (d Data) AsEnum() Enumeration {
	if d.kind == KindEnum {
		return Enumeration(d.n)
	}
	return 0
}

// AsList returns the list payload, or nil for other kinds.
func (d Data) AsList() List {
	if d.kind == KindList {
		return d.l
	}
	return nil
}

// AsMap returns the map payload, or nil for other kinds.
func (d Data) AsMap() Map {
	if d.kind == KindMap {
		return d.m
	}
	return nil
}

// AsRecord returns the record payload, or nil for other kinds.
func (d Data) AsRecord() Record {
	if d.kind == KindRecord {
		return d.r
	}
	return nil
}

// Native returns the payload as its natural Go representation: bool, int64,
// uint64, float64, string, Pattern, netip.Addr, netip.Prefix, time.Time,
// time.Duration, Enumeration, List, Map, Record, or nil for none.
func (d Data) Native() any {
	switch d.kind {
	case KindBool:
		return d.b
	case KindInt:
		return int64(d.n)
	case KindCount:
		return d.n
	case KindReal:
		return d.f
	case KindDuration:
		return d.d
	case KindTime:
		return d.t
	case KindString:
		return d.s
	case KindPattern:
		return Pattern(d.s)
	case KindAddr:
		return d.a
	case KindSubnet:
		return d.p
	case KindEnum:
		return Enumeration(d.n)
	case KindList:
		return d.l
	case KindMap:
		return d.m
	case KindRecord:
		return d.r
	default:
		return nil
	}
}

// Equal reports whether d and other hold the same kind and payload.
func (d Data) Equal(other Data) bool {
	return d.Compare(other) == 0
}

// Compare imposes a total order over all values. Values of different kinds
// order by kind; values of the same kind order by payload. The order is
// deterministic and consistent with Equal and Hash.
func (d Data) Compare(other Data) int {
	if d.kind != other.kind {
		if d.kind < other.kind {
			return -1
		}
		return 1
	}
	switch d.kind {
	case KindNone:
		return 0
	case KindBool:
		if d.b == other.b {
			return 0
		}
		if !d.b {
			return -1
		}
		return 1
	case KindInt:
		return cmpOrdered(int64(d.n), int64(other.n))
	case KindCount, KindEnum:
		return cmpOrdered(d.n, other.n)
	case KindReal:
		return cmpOrdered(d.f, other.f)
	case KindDuration:
		return cmpOrdered(d.d, other.d)
	case KindTime:
		return d.t.Compare(other.t)
	case KindString, KindPattern:
		return strings.Compare(d.s, other.s)
	case KindAddr:
		return d.a.Compare(other.a)
	case KindSubnet:
		if c := d.p.Addr().Compare(other.p.Addr()); c != 0 {
			return c
		}
		return cmpOrdered(d.p.Bits(), other.p.Bits())
	case KindList:
		return cmpLists(d.l, other.l)
	case KindMap:
		for i := 0; i < len(d.m) && i < len(other.m); i++ {
			if c := d.m[i].Key.Compare(other.m[i].Key); c != 0 {
				return c
			}
			if c := d.m[i].Value.Compare(other.m[i].Value); c != 0 {
				return c
			}
		}
		return cmpOrdered(len(d.m), len(other.m))
	case KindRecord:
		for i := 0; i < len(d.r) && i < len(other.r); i++ {
			if c := strings.Compare(d.r[i].Name, other.r[i].Name); c != 0 {
				return c
			}
			if c := d.r[i].Value.Compare(other.r[i].Value); c != 0 {
				return c
			}
		}
		return cmpOrdered(len(d.r), len(other.r))
	default:
		return 0
	}
}

func cmpOrdered[T int | int64 | uint64 | float64 | time.Duration](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpLists(a, b List) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := a[i].Compare(b[i]); c != 0 {
			return c
		}
	}
	return cmpOrdered(len(a), len(b))
}

// Hash returns a 64-bit hash of d, consistent with Equal.
func (d Data) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte(d.Key()))
	return h.Sum64()
}

// Key returns a stable canonical representation for use as a map key and as
// hash input. It must remain stable across versions.
func (d Data) Key() string {
	var sb strings.Builder
	d.appendKey(&sb)
	return sb.String()
}

func (d Data) appendKey(sb *strings.Builder) {
	switch d.kind {
	case KindNone:
		sb.WriteString("_")
	case KindBool:
		if d.b {
			sb.WriteString("b:1")
		} else {
			sb.WriteString("b:0")
		}
	case KindInt:
		sb.WriteString("i:")
		sb.WriteString(strconv.FormatInt(int64(d.n), 10))
	case KindCount:
		sb.WriteString("c:")
		sb.WriteString(strconv.FormatUint(d.n, 10))
	case KindReal:
		sb.WriteString("r:")
		sb.WriteString(strconv.FormatUint(math.Float64bits(d.f), 16))
	case KindDuration:
		sb.WriteString("d:")
		sb.WriteString(strconv.FormatInt(int64(d.d), 10))
	case KindTime:
		sb.WriteString("t:")
		sb.WriteString(strconv.FormatInt(d.t.UnixNano(), 10))
	case KindString:
		sb.WriteString("s:")
		sb.WriteString(d.s)
	case KindPattern:
		sb.WriteString("p:")
		sb.WriteString(d.s)
	case KindAddr:
		sb.WriteString("a:")
		sb.WriteString(d.a.String())
	case KindSubnet:
		sb.WriteString("n:")
		sb.WriteString(d.p.String())
	case KindEnum:
		sb.WriteString("e:")
		sb.WriteString(strconv.FormatUint(d.n, 10))
	case KindList:
		sb.WriteString("l:")
		for i, e := range d.l {
			if i > 0 {
				sb.WriteByte('\x1f')
			}
			e.appendKey(sb)
		}
	case KindMap:
		sb.WriteString("m:")
		for i, kv := range d.m {
			if i > 0 {
				sb.WriteByte('\x1f')
			}
			kv.Key.appendKey(sb)
			sb.WriteByte('\x1e')
			kv.Value.appendKey(sb)
		}
	case KindRecord:
		sb.WriteString("R:")
		for i, f := range d.r {
			if i > 0 {
				sb.WriteByte('\x1f')
			}
			sb.WriteString(f.Name)
			sb.WriteByte('\x1e')
			f.Value.appendKey(sb)
		}
	}
}

// String renders d for diagnostics.
func (d Data) String() string {
	switch d.kind {
	case KindNone:
		return "nil"
	case KindBool:
		return strconv.FormatBool(d.b)
	case KindInt:
		return strconv.FormatInt(int64(d.n), 10)
	case KindCount:
		return strconv.FormatUint(d.n, 10)
	case KindReal:
		return strconv.FormatFloat(d.f, 'g', -1, 64)
	case KindDuration:
		return d.d.String()
	case KindTime:
		return d.t.UTC().Format(time.RFC3339Nano)
	case KindString:
		return strconv.Quote(d.s)
	case KindPattern:
		return "/" + d.s + "/"
	case KindAddr:
		return d.a.String()
	case KindSubnet:
		return d.p.String()
	case KindEnum:
		return strconv.FormatUint(d.n, 10)
	case KindList:
		elems := make([]string, len(d.l))
		for i, e := range d.l {
			elems[i] = e.String()
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case KindMap:
		entries := make([]string, len(d.m))
		for i, kv := range d.m {
			entries[i] = kv.Key.String() + " -> " + kv.Value.String()
		}
		return "{" + strings.Join(entries, ", ") + "}"
	case KindRecord:
		return d.r.String()
	default:
		return "invalid"
	}
}
