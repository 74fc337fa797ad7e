package fs

import (
	"github.com/mit-pdos/go-pkfs/common"
	"github.com/mit-pdos/go-pkfs/inode"
	"github.com/mit-pdos/go-pkfs/util"
)

// allocBlock takes the first free block of the data region. Blocks below
// DataStart are never handed out: if the bitmap shows one free, it stays
// marked used and the scan goes on.
func (fs *FileSystem) allocBlock() (common.Bnum, error) {
	sb := fs.super.Sb
	for {
		n, ok := fs.super.BlockMap.Alloc(uint64(sb.TotalBlock))
		if !ok {
			return 0, ErrNoBlock
		}
		if n >= uint64(sb.DataStart) {
			return common.Bnum(n), nil
		}
		util.DPrintf(0, "allocBlock: reserved block %d was free in the bitmap\n", n)
	}
}

// allocInode picks a data block and an inode slot and returns an in-memory
// inode for them; the caller writes it. If no inode is free the block is
// released again.
func (fs *FileSystem) allocInode(kind inode.FileType) (*inode.Inode, common.Bnum, error) {
	bn, err := fs.allocBlock()
	if err != nil {
		return nil, 0, err
	}
	imap := fs.super.InodeMap
	inum, ok := imap.Alloc(imap.Len())
	if !ok {
		fs.super.BlockMap.Free(uint64(bn))
		return nil, 0, ErrNoInode
	}
	ip := inode.MkInode(common.Inum(inum), kind, bn)
	util.DPrintf(5, "allocInode: %v\n", ip)
	return ip, bn, nil
}
