package data

import (
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestKindAccessors(t *testing.T) {
	assert.Equal(t, KindNone, None().Kind())
	assert.True(t, None().IsNone())

	d := Count(42)
	assert.Equal(t, KindCount, d.Kind())
	assert.Equal(t, uint64(42), d.AsCount())
	// Accessing with the wrong kind yields the zero value.
	assert.Equal(t, int64(0), d.AsInt())
	assert.Equal(t, "", d.AsString())

	addr := netip.MustParseAddr("10.0.0.1")
	assert.Equal(t, addr, Addr(addr).AsAddr())
}

func TestEqual(t *testing.T) {
	assert.True(t, Count(1).Equal(Count(1)))
	assert.False(t, Count(1).Equal(Count(2)))
	// Same numeric value, different kind.
	assert.False(t, Count(1).Equal(Int(1)))

	l := ListOf(Count(1), Str("x"))
	assert.True(t, l.Equal(ListOf(Count(1), Str("x"))))
	assert.False(t, l.Equal(ListOf(Count(1), Str("y"))))

	r := FromRecord(NewRecord(F("a", Count(1))))
	assert.True(t, r.Equal(FromRecord(NewRecord(F("a", Count(1))))))
	assert.False(t, r.Equal(FromRecord(NewRecord(F("b", Count(1))))))
}

func TestCompareIsKindFirst(t *testing.T) {
	// The kind order is fixed: none < bool < int < count < real < ...
	assert.Equal(t, -1, None().Compare(Bool(false)))
	assert.Equal(t, -1, Bool(true).Compare(Int(-100)))
	assert.Equal(t, -1, Int(999).Compare(Count(0)))
	assert.Equal(t, 1, Str("a").Compare(Real(1.5)))
}

func TestCompareWithinKind(t *testing.T) {
	assert.Equal(t, -1, Int(-1).Compare(Int(1)))
	assert.Equal(t, 0, Int(5).Compare(Int(5)))
	assert.Equal(t, 1, Str("b").Compare(Str("a")))

	lo := Subnet(netip.MustParsePrefix("10.0.0.0/8"))
	hi := Subnet(netip.MustParsePrefix("10.0.0.0/16"))
	assert.Equal(t, -1, lo.Compare(hi))
	assert.Equal(t, 0, lo.Compare(lo))
}

func TestHashConsistency(t *testing.T) {
	a := FromRecord(NewRecord(F("x", Count(1)), F("y", Str("s"))))
	b := FromRecord(NewRecord(F("x", Count(1)), F("y", Str("s"))))
	assert.Equal(t, a.Hash(), b.Hash())

	c := FromRecord(NewRecord(F("x", Count(2)), F("y", Str("s"))))
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestNative(t *testing.T) {
	assert.Nil(t, None().Native())
	assert.Equal(t, uint64(7), Count(7).Native())
	assert.Equal(t, int64(-7), Int(-7).Native())
	assert.Equal(t, "s", Str("s").Native())
	assert.Equal(t, 5*time.Second, Duration(5*time.Second).Native())
}

func TestMsgpackRoundtrip(t *testing.T) {
	addr := netip.MustParseAddr("2001:db8::1")
	original := FromRecord(NewRecord(
		F("n", None()),
		F("b", Bool(true)),
		F("i", Int(-42)),
		F("c", Count(42)),
		F("r", Real(0.25)),
		F("s", Str("text")),
		F("p", Pat(`foo.*`)),
		F("t", Time(time.Unix(1700000000, 12345).UTC())),
		F("d", Duration(90*time.Second)),
		F("a", Addr(addr)),
		F("sn", Subnet(netip.MustParsePrefix("192.168.0.0/24"))),
		F("e", Enum(2)),
		F("l", ListOf(Count(1), Str("two"))),
		F("m", FromMap(Map{{Key: Str("k"), Value: Count(9)}})),
	))

	raw, err := msgpack.Marshal(&original)
	require.NoError(t, err)

	var decoded Data
	require.NoError(t, msgpack.Unmarshal(raw, &decoded))
	assert.True(t, original.Equal(decoded), "decoded: %s", decoded)
}

func TestString(t *testing.T) {
	r := FromRecord(NewRecord(F("a", Count(1)), F("b", Str("x"))))
	s := r.String()
	assert.Contains(t, s, "a")
	assert.Contains(t, s, "x")
}
