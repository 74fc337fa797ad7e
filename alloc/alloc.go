// Package alloc hands out slot numbers from a presence map.
//
// The map keeps one byte per slot: 0 is free, anything else is used. It is
// not bit-packed, because the same bytes are persisted verbatim as the
// on-disk block and inode bitmaps.
package alloc

import (
	"fmt"

	"github.com/mit-pdos/go-pkfs/util"
)

// Bitmap is the in-memory mirror of a block or inode presence map.
type Bitmap struct {
	slots []byte
}

func MkBitmap(n uint64) *Bitmap {
	return &Bitmap{slots: make([]byte, n)}
}

// MkBitmapFrom wraps b without copying it.
func MkBitmapFrom(b []byte) *Bitmap {
	return &Bitmap{slots: b}
}

func (bm *Bitmap) Len() uint64 {
	return uint64(len(bm.slots))
}

// Bytes returns the backing slots, as they are laid out on disk.
func (bm *Bitmap) Bytes() []byte {
	return bm.slots
}

func (bm *Bitmap) check(i uint64) {
	if i >= uint64(len(bm.slots)) {
		panic(fmt.Errorf("alloc: index %d out of range (len %d)", i, len(bm.slots)))
	}
}

func (bm *Bitmap) IsUsed(i uint64) bool {
	bm.check(i)
	return bm.slots[i] != 0
}

func (bm *Bitmap) Set(i uint64, used bool) {
	bm.check(i)
	if used {
		bm.slots[i] = 1
	} else {
		bm.slots[i] = 0
	}
}

func (bm *Bitmap) MarkUsed(i uint64) {
	bm.Set(i, true)
}

// Alloc returns the first free slot below max and marks it used. max is
// clamped to Len(). The second result is false when every slot is used.
func (bm *Bitmap) Alloc(max uint64) (uint64, bool) {
	n := util.Min(max, bm.Len())
	for i := uint64(0); i < n; i++ {
		if bm.slots[i] == 0 {
			bm.slots[i] = 1
			util.DPrintf(10, "Alloc: %d\n", i)
			return i, true
		}
	}
	return 0, false
}

// Free marks i unused whether or not it was allocated.
func (bm *Bitmap) Free(i uint64) {
	bm.Set(i, false)
}

func (bm *Bitmap) Clear() {
	for i := range bm.slots {
		bm.slots[i] = 0
	}
}

func (bm *Bitmap) NumFree() uint64 {
	n := uint64(0)
	for _, s := range bm.slots {
		if s == 0 {
			n++
		}
	}
	return n
}
