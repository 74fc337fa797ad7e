// Package dirent defines directory entries and the fixed entry table that
// fills a directory's head block.
package dirent

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/tchajed/marshal"

	"github.com/mit-pdos/go-pkfs/common"
)

var ErrShort = errors.New("buffer too short for directory entry")

// DirEnt maps a name to an inode. The name is NUL-padded; the last byte is
// always NUL.
type DirEnt struct {
	Inum common.Inum
	Name [common.NAMELEN]byte
}

// MkDirEnt truncates name to NAMELEN-1 bytes.
func MkDirEnt(inum common.Inum, name string) DirEnt {
	de := DirEnt{Inum: inum}
	copy(de.Name[:common.NAMELEN-1], name)
	return de
}

func (de DirEnt) NameString() string {
	n := bytes.IndexByte(de.Name[:], 0)
	if n < 0 {
		n = len(de.Name)
	}
	return string(de.Name[:n])
}

// IsFree reports an unoccupied slot: inode 0 and an empty name.
func (de DirEnt) IsFree() bool {
	return de.Inum == 0 && de.Name[0] == 0
}

func (de DirEnt) Encode() []byte {
	enc := marshal.NewEnc(common.DIRENTSZ)
	enc.PutInt32(uint32(de.Inum))
	b := enc.Finish()
	copy(b[4:], de.Name[:])
	return b
}

func Decode(b []byte) (DirEnt, error) {
	var de DirEnt
	if uint64(len(b)) < common.DIRENTSZ {
		return de, fmt.Errorf("%d bytes: %w", len(b), ErrShort)
	}
	dec := marshal.NewDec(b[:4])
	de.Inum = common.Inum(dec.GetInt32())
	copy(de.Name[:], b[4:common.DIRENTSZ])
	return de, nil
}

// DecodeBlock splits a directory block into its DIRENTBLK slots, occupied
// or not.
func DecodeBlock(blk []byte) ([]DirEnt, error) {
	if uint64(len(blk)) < common.BlockSize {
		return nil, fmt.Errorf("directory block of %d bytes: %w", len(blk), ErrShort)
	}
	des := make([]DirEnt, common.DIRENTBLK)
	for i := range des {
		off := uint64(i) * common.DIRENTSZ
		de, err := Decode(blk[off : off+common.DIRENTSZ])
		if err != nil {
			return nil, err
		}
		des[i] = de
	}
	return des, nil
}

func (de DirEnt) String() string {
	return fmt.Sprintf("%q -> %d", de.NameString(), de.Inum)
}
