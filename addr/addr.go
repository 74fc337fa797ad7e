package addr

import (
	"github.com/mit-pdos/go-pkfs/common"
)

// Addr identifies the start of a disk object.
//
// Blkno is the block number containing the object, and Off is the location of
// the object within the block, in bytes. The size of the object is determined
// by the context in which Addr is used.
type Addr struct {
	Blkno common.Bnum
	Off   uint64 // offset in bytes
}

// Flatid is the absolute byte address of a for blocks of bsz bytes.
func (a Addr) Flatid(bsz uint64) uint64 {
	return uint64(a.Blkno)*bsz + a.Off
}

func MkAddr(blkno common.Bnum, off uint64) Addr {
	return Addr{Blkno: blkno, Off: off}
}

// MkFlatAddr splits an absolute byte address into block and offset.
func MkFlatAddr(flat uint64, bsz uint64) Addr {
	return Addr{Blkno: common.Bnum(flat / bsz), Off: flat % bsz}
}
