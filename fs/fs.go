// Package fs is the pkfs engine: it mounts a formatted device and creates,
// finds, and lists files and directories on it.
//
// Every file and directory owns exactly one data block. A directory block is
// a table of common.DIRENTBLK entries, the first two being "." and "..".
//
// Mutations update the block and inode bitmaps in memory only. Nothing is
// durable across a restart until Sync is called; no operation calls it
// implicitly. A FileSystem must not be shared between goroutines, and no two
// FileSystems may mount the same device.
package fs

import (
	"fmt"

	"github.com/mit-pdos/go-pkfs/blkdev"
	"github.com/mit-pdos/go-pkfs/common"
	"github.com/mit-pdos/go-pkfs/inode"
	"github.com/mit-pdos/go-pkfs/super"
	"github.com/mit-pdos/go-pkfs/util"
)

type FileSystem struct {
	d     blkdev.Device
	super *super.FsSuper
}

// Mount reads and validates the superblock of d and loads its bitmaps. The
// FileSystem owns d from then on.
func Mount(d blkdev.Device) (*FileSystem, error) {
	fsup, err := super.Load(d)
	if err != nil {
		return nil, fmt.Errorf("mount: %w", err)
	}
	util.DPrintf(1, "Mount: %v\n", fsup.Sb)
	return &FileSystem{d: d, super: fsup}, nil
}

// Sync writes the superblock and both bitmaps back to the device.
func (fs *FileSystem) Sync() error {
	util.DPrintf(5, "Sync\n")
	return fs.super.Write(fs.d)
}

// Super returns a copy of the mounted superblock.
func (fs *FileSystem) Super() super.Superblock {
	return *fs.super.Sb
}

// GetMaxInode is the capacity of everything before the data region counted
// as inode table. It is an exclusive bound: valid inode numbers are below
// it. The bitmaps share that space, so the real table (NInode) is smaller.
func (fs *FileSystem) GetMaxInode() uint64 {
	sb := fs.super.Sb
	return uint64(sb.DataStart-1) * uint64(sb.BlockSize) / common.INODESZ
}

func (fs *FileSystem) NInode() uint64 {
	return fs.super.InodeMap.Len()
}

func (fs *FileSystem) NumFreeBlocks() uint64 {
	return fs.super.BlockMap.NumFree()
}

func (fs *FileSystem) NumFreeInodes() uint64 {
	return fs.super.InodeMap.NumFree()
}

// getInode returns ErrNotFound for an inode that is out of range or free in
// the inode bitmap, without touching the disk.
func (fs *FileSystem) getInode(inum common.Inum) (*inode.Inode, error) {
	imap := fs.super.InodeMap
	if uint64(inum) >= imap.Len() || !imap.IsUsed(uint64(inum)) {
		return nil, fmt.Errorf("inode %d: %w", inum, ErrNotFound)
	}
	a := fs.super.Sb.Inum2Addr(inum)
	b := make([]byte, common.INODESZ)
	if err := fs.d.ReadBlock(a.Blkno, a.Off, b); err != nil {
		return nil, fmt.Errorf("read inode %d: %w", inum, err)
	}
	ip, err := inode.Decode(b)
	if err != nil {
		return nil, fmt.Errorf("inode %d: %w: %w", inum, ErrCorrupt, err)
	}
	if ip.Inum != inum || !ip.IsUsed {
		return nil, fmt.Errorf("inode %d: record says %v: %w", inum, ip, ErrCorrupt)
	}
	return ip, nil
}

func (fs *FileSystem) writeInode(ip *inode.Inode) error {
	a := fs.super.Sb.Inum2Addr(ip.Inum)
	if err := fs.d.WriteBlock(a.Blkno, a.Off, ip.Encode()); err != nil {
		return fmt.Errorf("write inode %d: %w", ip.Inum, err)
	}
	util.DPrintf(10, "writeInode: %v\n", ip)
	return nil
}

// Stat returns the inode inum.
func (fs *FileSystem) Stat(inum common.Inum) (*inode.Inode, error) {
	return fs.getInode(inum)
}

func (fs *FileSystem) String() string {
	return fmt.Sprintf("fs{%v}", fs.super.Sb)
}
