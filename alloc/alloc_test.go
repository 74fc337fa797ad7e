package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlloc(t *testing.T) {
	assert := assert.New(t)
	max := uint64(32)
	a := MkBitmap(max)

	assert.Equal(max, a.NumFree(), "everything should be initially free")

	n, ok := a.Alloc(max)
	assert.True(ok)
	assert.Equal(uint64(0), n, "first fit starts at 0")
	assert.True(a.IsUsed(n))

	a.MarkUsed(n + 1)
	n2, ok := a.Alloc(max)
	assert.True(ok)
	assert.NotEqual(n+1, n2, "should not allocate something marked used")
	assert.Equal(uint64(2), n2)

	assert.Equal(max-3, a.NumFree(), "should have used 3 items")

	a.Free(n)
	a.Free(n2)
	assert.Equal(max-1, a.NumFree(), "should have freed")
}

func TestAllocDistinct(t *testing.T) {
	assert := assert.New(t)
	a := MkBitmap(100)
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		n, ok := a.Alloc(100)
		assert.True(ok)
		assert.False(seen[n], "slot %d allocated twice", n)
		assert.True(a.IsUsed(n))
		seen[n] = true
	}
	_, ok := a.Alloc(100)
	assert.False(ok, "map should be exhausted")
}

func TestAllocReuse(t *testing.T) {
	assert := assert.New(t)
	a := MkBitmap(8)
	for i := 0; i < 8; i++ {
		a.Alloc(8)
	}
	a.Free(5)
	n, ok := a.Alloc(8)
	assert.True(ok)
	assert.Equal(uint64(5), n, "freed slot should be reused")
	_, ok = a.Alloc(8)
	assert.False(ok)
}

func TestAllocBound(t *testing.T) {
	assert := assert.New(t)
	a := MkBitmap(16)
	a.MarkUsed(0)
	a.MarkUsed(1)
	_, ok := a.Alloc(2)
	assert.False(ok, "search must stop at max")

	n, ok := a.Alloc(1000)
	assert.True(ok, "max is clamped to the map length")
	assert.Equal(uint64(2), n)
}

func TestFreeUnused(t *testing.T) {
	a := MkBitmap(4)
	a.Free(3)
	assert.False(t, a.IsUsed(3))
	assert.Equal(t, uint64(4), a.NumFree())
}

func TestSetAndClear(t *testing.T) {
	assert := assert.New(t)
	a := MkBitmap(4)
	a.Set(2, true)
	assert.Equal([]byte{0, 0, 1, 0}, a.Bytes())
	a.Set(2, false)
	assert.False(a.IsUsed(2))

	a.MarkUsed(0)
	a.MarkUsed(3)
	a.Clear()
	assert.Equal(uint64(4), a.NumFree())
}

func TestNonzeroIsUsed(t *testing.T) {
	a := MkBitmapFrom([]byte{0, 0xff, 7})
	assert.False(t, a.IsUsed(0))
	assert.True(t, a.IsUsed(1))
	assert.True(t, a.IsUsed(2))
	n, ok := a.Alloc(3)
	assert.True(t, ok)
	assert.Equal(t, uint64(0), n)
}

func TestOutOfRange(t *testing.T) {
	a := MkBitmap(4)
	assert.Panics(t, func() { a.IsUsed(4) })
	assert.Panics(t, func() { a.Set(10, true) })
}
