// Package inode defines the fixed-size inode record.
//
// On disk an inode is common.INODESZ bytes, little-endian:
//
//	0  is_used     u32 (0 or 1)
//	4  inode_id    u32
//	8  file_type   u32
//	12 head_block  u32
//	16 file_length u64
//	24 reserved    8 bytes, zero
package inode

import (
	"errors"
	"fmt"

	"github.com/tchajed/marshal"

	"github.com/mit-pdos/go-pkfs/common"
)

var (
	ErrShort   = errors.New("buffer too short for inode")
	ErrBadType = errors.New("unknown file type")
)

type FileType uint32

const (
	Regular   FileType = 0
	Directory FileType = 1
	Device    FileType = 2
)

func (t FileType) String() string {
	switch t {
	case Regular:
		return "file"
	case Directory:
		return "dir"
	case Device:
		return "dev"
	}
	return fmt.Sprintf("type(%d)", uint32(t))
}

func (t FileType) valid() bool {
	return t <= Device
}

type Inode struct {
	IsUsed    bool
	Inum      common.Inum
	Kind      FileType
	HeadBlock common.Bnum // the one block holding the payload
	Length    uint64      // bytes of valid payload
}

func MkInode(inum common.Inum, kind FileType, head common.Bnum) *Inode {
	return &Inode{
		IsUsed:    true,
		Inum:      inum,
		Kind:      kind,
		HeadBlock: head,
		Length:    0,
	}
}

func (ip *Inode) IsDir() bool {
	return ip.Kind == Directory
}

func (ip *Inode) Encode() []byte {
	enc := marshal.NewEnc(common.INODESZ)
	if ip.IsUsed {
		enc.PutInt32(1)
	} else {
		enc.PutInt32(0)
	}
	enc.PutInt32(uint32(ip.Inum))
	enc.PutInt32(uint32(ip.Kind))
	enc.PutInt32(ip.HeadBlock)
	enc.PutInt(ip.Length)
	return enc.Finish()
}

func Decode(b []byte) (*Inode, error) {
	if uint64(len(b)) < common.INODESZ {
		return nil, fmt.Errorf("%d bytes: %w", len(b), ErrShort)
	}
	dec := marshal.NewDec(b[:common.INODESZ])
	ip := &Inode{}
	ip.IsUsed = dec.GetInt32() != 0
	ip.Inum = common.Inum(dec.GetInt32())
	ip.Kind = FileType(dec.GetInt32())
	ip.HeadBlock = dec.GetInt32()
	ip.Length = dec.GetInt()
	if !ip.Kind.valid() {
		return nil, fmt.Errorf("inode %d: %d: %w", ip.Inum, ip.Kind, ErrBadType)
	}
	return ip, nil
}

func (ip *Inode) String() string {
	return fmt.Sprintf("inode{%d %v head %d len %d used %v}",
		ip.Inum, ip.Kind, ip.HeadBlock, ip.Length, ip.IsUsed)
}
