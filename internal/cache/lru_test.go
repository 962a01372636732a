package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type blob []byte

func (b blob) Size() int { return len(b) }

func TestLRU(t *testing.T) {
	c := New[string, blob](10)

	c.Set("a", blob("aaaa"))
	c.Set("b", blob("bbbb"))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, int64(8), c.Bytes())

	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, blob("aaaa"), got)

	// "b" is now least recently used and gets evicted first.
	c.Set("c", blob("cccc"))
	_, ok = c.Get("b")
	assert.False(t, ok)
	_, ok = c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestLRUOversizedValue(t *testing.T) {
	c := New[string, blob](4)
	c.Set("big", blob("toolarge"))
	assert.Equal(t, 0, c.Len())
}

func TestLRUUpdate(t *testing.T) {
	c := New[string, blob](10)
	c.Set("a", blob("aa"))
	c.Set("a", blob("aaaa"))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(4), c.Bytes())
}

func TestLRURemove(t *testing.T) {
	c := New[string, blob](10)
	c.Set("a", blob("aa"))
	c.Remove("a")
	c.Remove("missing")
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Bytes())
}
