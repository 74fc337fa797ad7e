package fs

import (
	"fmt"

	"github.com/mit-pdos/go-pkfs/blkdev"
	"github.com/mit-pdos/go-pkfs/common"
	"github.com/mit-pdos/go-pkfs/dirent"
	"github.com/mit-pdos/go-pkfs/inode"
	"github.com/mit-pdos/go-pkfs/super"
	"github.com/mit-pdos/go-pkfs/util"
)

// Format lays a fresh filesystem over all of d: an empty root directory in
// inode 0, whose "." and ".." both name itself. The superblock is written
// last, so an interrupted Format leaves an image Mount rejects.
func Format(d blkdev.Device) error {
	size, err := d.Size()
	if err != nil {
		return err
	}
	sb, err := super.MkSuperblock(size / common.BlockSize)
	if err != nil {
		return fmt.Errorf("format: %w", err)
	}
	fsup := super.MkFsSuper(sb)
	fsup.MarkReserved()

	root := inode.MkInode(common.ROOTINUM, inode.Directory, sb.DataStart)
	root.Length = 2 * common.DIRENTSZ
	fsup.BlockMap.MarkUsed(uint64(root.HeadBlock))
	fsup.InodeMap.MarkUsed(uint64(root.Inum))

	blk := make([]byte, common.BlockSize)
	copy(blk[0:], dirent.MkDirEnt(root.Inum, ".").Encode())
	copy(blk[common.DIRENTSZ:], dirent.MkDirEnt(root.Inum, "..").Encode())
	if err := d.WriteBlock(root.HeadBlock, 0, blk); err != nil {
		return fmt.Errorf("format: root directory: %w", err)
	}
	a := sb.Inum2Addr(root.Inum)
	if err := d.WriteBlock(a.Blkno, a.Off, root.Encode()); err != nil {
		return fmt.Errorf("format: root inode: %w", err)
	}
	if err := fsup.Write(d); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	util.DPrintf(1, "Format: %v, %d inodes\n", sb, sb.NInode())
	return nil
}
