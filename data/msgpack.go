package data

import (
	"fmt"
	"net/netip"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

var (
	_ msgpack.CustomEncoder = (*Data)(nil)
	_ msgpack.CustomDecoder = (*Data)(nil)
)

// EncodeMsgpack implements msgpack.CustomEncoder. The encoding is a kind
// byte followed by the kind's payload and is self-describing, so containers
// nest without schema information.
func (d *Data) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeUint8(uint8(d.kind)); err != nil {
		return err
	}
	switch d.kind {
	case KindNone:
		return nil
	case KindBool:
		return enc.EncodeBool(d.b)
	case KindInt:
		return enc.EncodeInt(int64(d.n))
	case KindCount, KindEnum:
		return enc.EncodeUint(d.n)
	case KindReal:
		return enc.EncodeFloat64(d.f)
	case KindDuration:
		return enc.EncodeInt(int64(d.d))
	case KindTime:
		return enc.EncodeInt(d.t.UnixNano())
	case KindString, KindPattern:
		return enc.EncodeString(d.s)
	case KindAddr:
		return enc.EncodeBytes(d.a.AsSlice())
	case KindSubnet:
		if err := enc.EncodeBytes(d.p.Addr().AsSlice()); err != nil {
			return err
		}
		return enc.EncodeUint8(uint8(d.p.Bits()))
	case KindList:
		if err := enc.EncodeArrayLen(len(d.l)); err != nil {
			return err
		}
		for i := range d.l {
			if err := d.l[i].EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case KindMap:
		if err := enc.EncodeArrayLen(len(d.m)); err != nil {
			return err
		}
		for i := range d.m {
			if err := d.m[i].Key.EncodeMsgpack(enc); err != nil {
				return err
			}
			if err := d.m[i].Value.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	case KindRecord:
		if err := enc.EncodeArrayLen(len(d.r)); err != nil {
			return err
		}
		for i := range d.r {
			if err := enc.EncodeString(d.r[i].Name); err != nil {
				return err
			}
			if err := d.r[i].Value.EncodeMsgpack(enc); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("msgpack: invalid data kind %d", d.kind)
	}
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (d *Data) DecodeMsgpack(dec *msgpack.Decoder) error {
	kind, err := dec.DecodeUint8()
	if err != nil {
		return err
	}
	switch Kind(kind) {
	case KindNone:
		*d = Data{}
		return nil
	case KindBool:
		b, err := dec.DecodeBool()
		if err != nil {
			return err
		}
		*d = Bool(b)
		return nil
	case KindInt:
		i, err := dec.DecodeInt64()
		if err != nil {
			return err
		}
		*d = Int(i)
		return nil
	case KindCount:
		u, err := dec.DecodeUint64()
		if err != nil {
			return err
		}
		*d = Count(u)
		return nil
	case KindEnum:
		u, err := dec.DecodeUint64()
		if err != nil {
			return err
		}
		*d = Enum(Enumeration(u))
		return nil
	case KindReal:
		f, err := dec.DecodeFloat64()
		if err != nil {
			return err
		}
		*d = Real(f)
		return nil
	case KindDuration:
		i, err := dec.DecodeInt64()
		if err != nil {
			return err
		}
		*d = Duration(time.Duration(i))
		return nil
	case KindTime:
		ns, err := dec.DecodeInt64()
		if err != nil {
			return err
		}
		*d = Time(time.Unix(0, ns).UTC())
		return nil
	case KindString:
		s, err := dec.DecodeString()
		if err != nil {
			return err
		}
		*d = Str(s)
		return nil
	case KindPattern:
		s, err := dec.DecodeString()
		if err != nil {
			return err
		}
		*d = Pat(Pattern(s))
		return nil
	case KindAddr:
		raw, err := dec.DecodeBytes()
		if err != nil {
			return err
		}
		a, ok := netip.AddrFromSlice(raw)
		if !ok {
			return fmt.Errorf("msgpack: invalid address payload of %d bytes", len(raw))
		}
		*d = Addr(a)
		return nil
	case KindSubnet:
		raw, err := dec.DecodeBytes()
		if err != nil {
			return err
		}
		a, ok := netip.AddrFromSlice(raw)
		if !ok {
			return fmt.Errorf("msgpack: invalid subnet payload of %d bytes", len(raw))
		}
		bits, err := dec.DecodeUint8()
		if err != nil {
			return err
		}
		p := netip.PrefixFrom(a, int(bits))
		if !p.IsValid() {
			return fmt.Errorf("msgpack: invalid subnet /%d for %s", bits, a)
		}
		*d = Subnet(p)
		return nil
	case KindList:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		l := make(List, n)
		for i := range l {
			if err := l[i].DecodeMsgpack(dec); err != nil {
				return err
			}
		}
		*d = FromList(l)
		return nil
	case KindMap:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		m := make(Map, n)
		for i := range m {
			if err := m[i].Key.DecodeMsgpack(dec); err != nil {
				return err
			}
			if err := m[i].Value.DecodeMsgpack(dec); err != nil {
				return err
			}
		}
		*d = FromMap(m)
		return nil
	case KindRecord:
		n, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		r := make(Record, n)
		for i := range r {
			name, err := dec.DecodeString()
			if err != nil {
				return err
			}
			r[i].Name = name
			if err := r[i].Value.DecodeMsgpack(dec); err != nil {
				return err
			}
		}
		*d = FromRecord(r)
		return nil
	default:
		return fmt.Errorf("msgpack: unknown data kind %d", kind)
	}
}
