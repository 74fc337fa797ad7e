// buf manages sub-block byte ranges of a backing disk, so that a device with
// small blocks can be laid over a disk with larger ones.
package buf

import (
	"fmt"

	"github.com/mit-pdos/go-pkfs/addr"
	"github.com/mit-pdos/go-pkfs/util"
)

// A Buf is a byte range inside one backing block.
type Buf struct {
	Addr addr.Addr
	Data []byte
}

func MkBuf(addr addr.Addr, data []byte) *Buf {
	return &Buf{Addr: addr, Data: data}
}

// MkBufLoad slices sz bytes at addr out of blk; the buf aliases blk.
func MkBufLoad(addr addr.Addr, sz uint64, blk []byte) *Buf {
	return &Buf{Addr: addr, Data: blk[addr.Off : addr.Off+sz]}
}

func (b *Buf) Sz() uint64 {
	return uint64(len(b.Data))
}

func (b *Buf) check(blk []byte) {
	if b.Addr.Off+b.Sz() > uint64(len(blk)) {
		panic(fmt.Errorf("buf: %v+%d does not fit in a %d-byte block",
			b.Addr, b.Sz(), len(blk)))
	}
}

// Install copies the buf's bytes into blk at the buf's offset.
func (b *Buf) Install(blk []byte) {
	b.check(blk)
	util.DPrintf(20, "%v: install %d bytes\n", b.Addr, b.Sz())
	copy(blk[b.Addr.Off:], b.Data)
}

// Load fills the buf's bytes from blk at the buf's offset.
func (b *Buf) Load(blk []byte) {
	b.check(blk)
	copy(b.Data, blk[b.Addr.Off:b.Addr.Off+b.Sz()])
}

// Split cuts the flat byte range starting at off and covering data into one
// buf per backing block of bsz bytes. The bufs alias data.
func Split(off uint64, data []byte, bsz uint64) []*Buf {
	var bufs []*Buf
	pos := uint64(0)
	n := uint64(len(data))
	for pos < n {
		a := addr.MkFlatAddr(off+pos, bsz)
		sz := util.Min(bsz-a.Off, n-pos)
		bufs = append(bufs, MkBuf(a, data[pos:pos+sz]))
		pos += sz
	}
	return bufs
}
