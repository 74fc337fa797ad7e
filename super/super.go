// Package super defines the superblock and the disk layout derived from it.
//
// The layout of a pkfs image:
//
//	[ super | inode table | block bitmap | inode bitmap | data ... ]
//	  0       1             BitmapStart                   DataStart  TotalBlock
//
// Only the five superblock fields are stored; every other boundary is
// recomputed from them.
package super

import (
	"errors"
	"fmt"
	"math"

	"github.com/tchajed/marshal"

	"github.com/mit-pdos/go-pkfs/addr"
	"github.com/mit-pdos/go-pkfs/common"
	"github.com/mit-pdos/go-pkfs/util"
)

var (
	ErrBadMagic  = errors.New("invalid superblock magic")
	ErrBadLayout = errors.New("inconsistent superblock layout")
	ErrShort     = errors.New("buffer too short for superblock")
	ErrTooSmall  = errors.New("device too small")
	ErrTooLarge  = errors.New("device too large")
)

type Superblock struct {
	Magic       uint32
	BlockSize   uint32
	BitmapStart common.Bnum // first block of the block bitmap
	DataStart   common.Bnum // first block usable for payload
	TotalBlock  uint32
}

// MkSuperblock lays out a fresh filesystem over total blocks, with one
// inode per block.
func MkSuperblock(total uint64) (*Superblock, error) {
	if total < common.MINBLOCKS {
		return nil, fmt.Errorf("%d blocks, need %d: %w", total, common.MINBLOCKS, ErrTooSmall)
	}
	if total > math.MaxUint32 {
		return nil, fmt.Errorf("%d blocks: %w", total, ErrTooLarge)
	}
	nInodeBlk := util.RoundUp(total, common.INODEBLK)
	sb := &Superblock{
		Magic:       common.Magic,
		BlockSize:   uint32(common.BlockSize),
		BitmapStart: common.INODESTART + common.Bnum(nInodeBlk),
		TotalBlock:  uint32(total),
	}
	data := sb.layoutDataStart()
	if data >= total {
		return nil, fmt.Errorf("%d blocks leave no data region: %w", total, ErrTooSmall)
	}
	sb.DataStart = common.Bnum(data)
	util.DPrintf(1, "MkSuperblock: %v\n", sb)
	return sb, nil
}

func (sb *Superblock) Encode() []byte {
	enc := marshal.NewEnc(common.SUPERSZ)
	enc.PutInt32(sb.Magic)
	enc.PutInt32(sb.BlockSize)
	enc.PutInt32(sb.BitmapStart)
	enc.PutInt32(sb.DataStart)
	enc.PutInt32(sb.TotalBlock)
	return enc.Finish()
}

// Decode parses a superblock without validating it.
func Decode(b []byte) (*Superblock, error) {
	if uint64(len(b)) < common.SUPERSZ {
		return nil, fmt.Errorf("%d bytes: %w", len(b), ErrShort)
	}
	dec := marshal.NewDec(b[:common.SUPERSZ])
	sb := &Superblock{}
	sb.Magic = dec.GetInt32()
	sb.BlockSize = dec.GetInt32()
	sb.BitmapStart = dec.GetInt32()
	sb.DataStart = dec.GetInt32()
	sb.TotalBlock = dec.GetInt32()
	return sb, nil
}

func (sb *Superblock) Validate() error {
	if sb.Magic != common.Magic {
		return fmt.Errorf("magic %#x: %w", sb.Magic, ErrBadMagic)
	}
	if uint64(sb.BlockSize) != common.BlockSize {
		return fmt.Errorf("block size %d: %w", sb.BlockSize, ErrBadLayout)
	}
	if !(common.INODESTART < sb.BitmapStart && sb.BitmapStart < sb.DataStart &&
		sb.DataStart <= sb.TotalBlock) {
		return fmt.Errorf("bitmap %d data %d total %d: %w",
			sb.BitmapStart, sb.DataStart, sb.TotalBlock, ErrBadLayout)
	}
	if uint64(sb.DataStart) != sb.layoutDataStart() {
		return fmt.Errorf("data start %d, layout says %d: %w",
			sb.DataStart, sb.layoutDataStart(), ErrBadLayout)
	}
	return nil
}

// NInode is the number of inode slots in the inode table.
func (sb *Superblock) NInode() uint64 {
	return uint64(sb.BitmapStart-common.INODESTART) * common.INODEBLK
}

func (sb *Superblock) BlockMapStart() common.Bnum {
	return sb.BitmapStart
}

func (sb *Superblock) NBlockMapBlk() uint64 {
	return util.RoundUp(uint64(sb.TotalBlock), common.BlockSize)
}

func (sb *Superblock) InodeMapStart() common.Bnum {
	return sb.BitmapStart + common.Bnum(sb.NBlockMapBlk())
}

func (sb *Superblock) NInodeMapBlk() uint64 {
	return util.RoundUp(sb.NInode(), common.BlockSize)
}

func (sb *Superblock) layoutDataStart() uint64 {
	return uint64(sb.InodeMapStart()) + sb.NInodeMapBlk()
}

// Inum2Addr locates inode inum in the inode table. It is the only mapping
// from inode identity to disk location.
func (sb *Superblock) Inum2Addr(inum common.Inum) addr.Addr {
	inodesPerBlock := uint64(sb.BlockSize) / common.INODESZ
	return addr.MkAddr(common.INODESTART+common.Bnum(uint64(inum)/inodesPerBlock),
		(uint64(inum)%inodesPerBlock)*common.INODESZ)
}

func (sb *Superblock) String() string {
	return fmt.Sprintf("super{magic %#x bsz %d bitmap %d data %d total %d}",
		sb.Magic, sb.BlockSize, sb.BitmapStart, sb.DataStart, sb.TotalBlock)
}
