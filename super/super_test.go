package super

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mit-pdos/go-pkfs/addr"
	"github.com/mit-pdos/go-pkfs/blkdev"
	"github.com/mit-pdos/go-pkfs/common"
)

const blocks64M uint64 = 64 * 1024 * 1024 / common.BlockSize

func TestLayout64M(t *testing.T) {
	assert := assert.New(t)
	sb, err := MkSuperblock(blocks64M)
	assert.Nil(err)
	assert.Nil(sb.Validate())

	assert.Equal(common.Magic, sb.Magic)
	assert.Equal(uint32(1024), sb.BlockSize)
	assert.Equal(uint32(65536), sb.TotalBlock)
	assert.Equal(common.Bnum(1+2048), sb.BitmapStart)
	assert.Equal(uint64(65536), sb.NInode(), "one inode per block")
	assert.Equal(uint64(64), sb.NBlockMapBlk())
	assert.Equal(common.Bnum(2049+64), sb.InodeMapStart())
	assert.Equal(uint64(64), sb.NInodeMapBlk())
	assert.Equal(common.Bnum(2049+64+64), sb.DataStart)
}

func TestLayoutSmall(t *testing.T) {
	assert := assert.New(t)
	sb, err := MkSuperblock(common.MINBLOCKS)
	assert.Nil(err)
	assert.Nil(sb.Validate())
	assert.Equal(common.Bnum(2), sb.BitmapStart)
	assert.Equal(uint64(32), sb.NInode())
	assert.Equal(common.Bnum(4), sb.DataStart)
	assert.True(uint32(sb.DataStart) < sb.TotalBlock)
}

func TestLayoutInvariant(t *testing.T) {
	for _, n := range []uint64{16, 17, 31, 33, 100, 1000, 4096, 8193, 100000} {
		sb, err := MkSuperblock(n)
		assert.Nil(t, err, "%d blocks", n)
		assert.Nil(t, sb.Validate(), "%d blocks", n)
		assert.True(t, sb.BitmapStart < sb.DataStart && sb.DataStart < sb.TotalBlock)
		assert.True(t, sb.NInode() >= n, "%d blocks should get at least one inode each", n)
	}
}

func TestTooSmall(t *testing.T) {
	_, err := MkSuperblock(common.MINBLOCKS - 1)
	assert.True(t, errors.Is(err, ErrTooSmall))
	_, err = MkSuperblock(0)
	assert.True(t, errors.Is(err, ErrTooSmall))
}

func TestTooLarge(t *testing.T) {
	_, err := MkSuperblock(math.MaxUint32 + 1)
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestEncodeDecode(t *testing.T) {
	assert := assert.New(t)
	for _, sb := range []*Superblock{
		{},
		{Magic: common.Magic, BlockSize: 1024, BitmapStart: 2, DataStart: 4, TotalBlock: 16},
		{Magic: math.MaxUint32, BlockSize: math.MaxUint32, BitmapStart: math.MaxUint32,
			DataStart: math.MaxUint32, TotalBlock: math.MaxUint32},
	} {
		b := sb.Encode()
		assert.Equal(common.SUPERSZ, uint64(len(b)))
		sb2, err := Decode(b)
		assert.Nil(err)
		assert.Equal(sb, sb2)
	}
}

func TestEncodeLittleEndian(t *testing.T) {
	sb := &Superblock{Magic: common.Magic, BlockSize: 1024, BitmapStart: 2, DataStart: 4, TotalBlock: 16}
	b := sb.Encode()
	assert.Equal(t, []byte{0x53, 0x46, 0x4B, 0x50}, b[0:4], "magic reads PKFS as a big-endian word")
	assert.Equal(t, []byte{0x00, 0x04, 0, 0}, b[4:8])
	assert.Equal(t, []byte{16, 0, 0, 0}, b[16:20])
}

func TestDecodeShort(t *testing.T) {
	_, err := Decode(make([]byte, common.SUPERSZ-1))
	assert.True(t, errors.Is(err, ErrShort))
}

func TestValidate(t *testing.T) {
	assert := assert.New(t)
	good, _ := MkSuperblock(1000)

	sb := *good
	sb.Magic = 0xdeadbeef
	assert.True(errors.Is(sb.Validate(), ErrBadMagic))

	sb = *good
	sb.BlockSize = 4096
	assert.True(errors.Is(sb.Validate(), ErrBadLayout))

	sb = *good
	sb.DataStart = sb.BitmapStart
	assert.True(errors.Is(sb.Validate(), ErrBadLayout))

	sb = *good
	sb.DataStart = sb.TotalBlock + 1
	assert.True(errors.Is(sb.Validate(), ErrBadLayout))

	sb = *good
	sb.DataStart++
	assert.True(errors.Is(sb.Validate(), ErrBadLayout), "data start must match the layout")
}

func TestInum2Addr(t *testing.T) {
	assert := assert.New(t)
	sb, _ := MkSuperblock(blocks64M)

	assert.Equal(addr.MkAddr(1, 0), sb.Inum2Addr(0))
	assert.Equal(addr.MkAddr(1, 32), sb.Inum2Addr(1))
	assert.Equal(addr.MkAddr(1, 31*32), sb.Inum2Addr(31))
	assert.Equal(addr.MkAddr(2, 0), sb.Inum2Addr(32))

	for _, i := range []common.Inum{0, 5, 31, 32, 1000, 65535} {
		a := sb.Inum2Addr(i)
		assert.Equal(a, sb.Inum2Addr(i), "pure")
		next := sb.Inum2Addr(i + common.Inum(common.INODEBLK))
		assert.Equal(a.Blkno+1, next.Blkno)
		assert.Equal(a.Off, next.Off)
		assert.True(a.Blkno < sb.BitmapStart || uint64(i) >= sb.NInode())
	}
}

func TestFsSuperWriteLoad(t *testing.T) {
	assert := assert.New(t)
	d := blkdev.NewMemDeviceBlocks(1000)
	sb, _ := MkSuperblock(1000)
	fs := MkFsSuper(sb)
	fs.MarkReserved()
	fs.InodeMap.MarkUsed(0)
	fs.InodeMap.MarkUsed(7)
	assert.Nil(fs.Write(d))

	fs2, err := Load(d)
	assert.Nil(err)
	assert.Equal(sb, fs2.Sb)
	assert.Equal(fs.BlockMap.Bytes(), fs2.BlockMap.Bytes())
	assert.Equal(fs.InodeMap.Bytes(), fs2.InodeMap.Bytes())
	for bn := uint64(0); bn < uint64(sb.DataStart); bn++ {
		assert.True(fs2.BlockMap.IsUsed(bn))
	}
	assert.False(fs2.BlockMap.IsUsed(uint64(sb.DataStart)))
	assert.True(fs2.InodeMap.IsUsed(7))
}

func TestLoadBadMagic(t *testing.T) {
	d := blkdev.NewMemDeviceBlocks(100)
	_, err := Load(d)
	assert.True(t, errors.Is(err, ErrBadMagic))
}

func TestLoadDeviceTooSmall(t *testing.T) {
	sb, _ := MkSuperblock(1000)
	d := blkdev.NewMemDeviceBlocks(500)
	assert.Nil(t, d.WriteBlock(0, 0, sb.Encode()))
	_, err := Load(d)
	assert.True(t, errors.Is(err, ErrBadLayout))
}
