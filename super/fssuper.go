package super

import (
	"fmt"

	"github.com/mit-pdos/go-pkfs/alloc"
	"github.com/mit-pdos/go-pkfs/blkdev"
	"github.com/mit-pdos/go-pkfs/common"
	"github.com/mit-pdos/go-pkfs/util"
)

// FsSuper is the superblock together with the in-memory mirrors of the
// block and inode bitmaps. The mirrors reach the disk only through Write.
type FsSuper struct {
	Sb       *Superblock
	BlockMap *alloc.Bitmap // one slot per block
	InodeMap *alloc.Bitmap // one slot per inode
}

// MkFsSuper pairs sb with empty bitmaps.
func MkFsSuper(sb *Superblock) *FsSuper {
	return &FsSuper{
		Sb:       sb,
		BlockMap: alloc.MkBitmap(uint64(sb.TotalBlock)),
		InodeMap: alloc.MkBitmap(sb.NInode()),
	}
}

// Load reads and validates the superblock at block 0, then reads both
// bitmaps.
func Load(d blkdev.Device) (*FsSuper, error) {
	b := make([]byte, common.SUPERSZ)
	if err := d.ReadBlock(common.SUPERBLK, 0, b); err != nil {
		return nil, fmt.Errorf("read superblock: %w", err)
	}
	sb, err := Decode(b)
	if err != nil {
		return nil, err
	}
	if err := sb.Validate(); err != nil {
		return nil, err
	}
	size, err := d.Size()
	if err != nil {
		return nil, err
	}
	if uint64(sb.TotalBlock)*common.BlockSize > size {
		return nil, fmt.Errorf("%d blocks on a %d-byte device: %w",
			sb.TotalBlock, size, ErrBadLayout)
	}
	fs := MkFsSuper(sb)
	if err := d.ReadBlock(sb.BlockMapStart(), 0, fs.BlockMap.Bytes()); err != nil {
		return nil, fmt.Errorf("read block bitmap: %w", err)
	}
	if err := d.ReadBlock(sb.InodeMapStart(), 0, fs.InodeMap.Bytes()); err != nil {
		return nil, fmt.Errorf("read inode bitmap: %w", err)
	}
	util.DPrintf(1, "Load: %v, %d free blocks, %d free inodes\n", sb,
		fs.BlockMap.NumFree(), fs.InodeMap.NumFree())
	return fs, nil
}

// Write stores the superblock and both bitmaps. It is idempotent.
func (fs *FsSuper) Write(d blkdev.Device) error {
	if err := d.WriteBlock(common.SUPERBLK, 0, fs.Sb.Encode()); err != nil {
		return fmt.Errorf("write superblock: %w", err)
	}
	if err := d.WriteBlock(fs.Sb.BlockMapStart(), 0, fs.BlockMap.Bytes()); err != nil {
		return fmt.Errorf("write block bitmap: %w", err)
	}
	if err := d.WriteBlock(fs.Sb.InodeMapStart(), 0, fs.InodeMap.Bytes()); err != nil {
		return fmt.Errorf("write inode bitmap: %w", err)
	}
	util.DPrintf(5, "FsSuper.Write: %v\n", fs.Sb)
	return nil
}

// MarkReserved marks every block before the data region used.
func (fs *FsSuper) MarkReserved() {
	for bn := uint64(0); bn < uint64(fs.Sb.DataStart); bn++ {
		fs.BlockMap.MarkUsed(bn)
	}
}
