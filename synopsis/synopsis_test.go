package synopsis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBool(t *testing.T) {
	var b Bool
	assert.True(t, b.Empty())
	assert.False(t, b.PossiblyEquals(true))
	assert.False(t, b.PossiblyEquals(false))

	b.Add(true)
	assert.False(t, b.Empty())
	assert.True(t, b.PossiblyEquals(true))
	assert.False(t, b.PossiblyEquals(false))

	b.Add(false)
	assert.True(t, b.PossiblyEquals(true))
	assert.True(t, b.PossiblyEquals(false))
}

func TestMinMax(t *testing.T) {
	var m MinMax[uint64]
	assert.True(t, m.Empty())
	assert.False(t, m.PossiblyEquals(1))

	m.Add(10)
	m.Add(20)
	m.Add(15)
	assert.Equal(t, uint64(10), m.Min())
	assert.Equal(t, uint64(20), m.Max())

	assert.True(t, m.PossiblyEquals(10))
	assert.True(t, m.PossiblyEquals(15))
	assert.False(t, m.PossiblyEquals(9))
	assert.False(t, m.PossiblyEquals(21))

	assert.True(t, m.PossiblyLess(11))
	assert.False(t, m.PossiblyLess(10))
	assert.True(t, m.PossiblyGreater(19))
	assert.False(t, m.PossiblyGreater(20))
}

func TestTime(t *testing.T) {
	base := time.Unix(1700000000, 0)
	var s Time
	assert.True(t, s.Empty())
	assert.False(t, s.PossiblyIn(base, base.Add(time.Hour)))

	s.Add(base.Add(10 * time.Minute))
	s.Add(base.Add(30 * time.Minute))

	assert.True(t, s.PossiblyIn(base, base.Add(time.Hour)))
	assert.True(t, s.PossiblyIn(base.Add(20*time.Minute), base.Add(25*time.Minute)))
	assert.False(t, s.PossiblyIn(base.Add(31*time.Minute), base.Add(time.Hour)))
	assert.False(t, s.PossiblyIn(base, base))
}
