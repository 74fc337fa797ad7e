package blkdev

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tchajed/goose/machine/disk"

	"github.com/mit-pdos/go-pkfs/common"
)

const nblocks uint64 = 16 // 4 goose blocks

func devices(t *testing.T) map[string]Device {
	path := filepath.Join(t.TempDir(), "img")
	fd, err := CreateFile(path, nblocks*common.BlockSize)
	if err != nil {
		t.Fatal(err)
	}
	return map[string]Device{
		"mem":  NewMemDeviceBlocks(nblocks),
		"disk": NewDiskDevice(disk.NewMemDisk(nblocks * common.BlockSize / disk.BlockSize)),
		"file": fd,
	}
}

func pattern(n int, seed byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = seed + byte(i)
	}
	return b
}

func forEachDevice(t *testing.T, f func(t *testing.T, d Device)) {
	for name, d := range devices(t) {
		d := d
		t.Run(name, func(t *testing.T) {
			defer d.Close()
			f(t, d)
		})
	}
}

func TestSize(t *testing.T) {
	forEachDevice(t, func(t *testing.T, d Device) {
		sz, err := d.Size()
		assert.Nil(t, err)
		assert.Equal(t, nblocks*common.BlockSize, sz)
	})
}

func TestReadWriteBlock(t *testing.T) {
	forEachDevice(t, func(t *testing.T, d Device) {
		assert := assert.New(t)
		data := pattern(int(common.BlockSize), 1)
		assert.Nil(d.WriteBlock(3, 0, data))

		out := make([]byte, common.BlockSize)
		assert.Nil(d.ReadBlock(3, 0, out))
		assert.Equal(data, out)

		zero := make([]byte, common.BlockSize)
		assert.Nil(d.ReadBlock(2, 0, out))
		assert.Equal(zero, out, "neighbouring block untouched")
		assert.Nil(d.ReadBlock(4, 0, out))
		assert.Equal(zero, out, "neighbouring block untouched")
	})
}

func TestSubBlockOffset(t *testing.T) {
	forEachDevice(t, func(t *testing.T, d Device) {
		assert := assert.New(t)
		assert.Nil(d.WriteBlock(5, 32, []byte{9, 8, 7}))

		out := make([]byte, 5)
		assert.Nil(d.ReadBlock(5, 31, out))
		assert.Equal([]byte{0, 9, 8, 7, 0}, out)

		// the same bytes addressed from an earlier block
		out = make([]byte, 3)
		assert.Nil(d.ReadBlock(4, common.BlockSize+32, out))
		assert.Equal([]byte{9, 8, 7}, out)
	})
}

func TestSpanBlocks(t *testing.T) {
	forEachDevice(t, func(t *testing.T, d Device) {
		assert := assert.New(t)
		// crosses fs blocks 3..6 and the goose block boundary at fs block 4
		data := pattern(int(3*common.BlockSize), 5)
		assert.Nil(d.WriteBlock(3, 512, data))

		out := make([]byte, len(data))
		assert.Nil(d.ReadBlock(3, 512, out))
		assert.Equal(data, out)

		head := make([]byte, 512)
		assert.Nil(d.ReadBlock(3, 0, head))
		assert.Equal(make([]byte, 512), head)
	})
}

func TestOutOfRange(t *testing.T) {
	forEachDevice(t, func(t *testing.T, d Device) {
		assert := assert.New(t)
		err := d.ReadBlock(common.Bnum(nblocks), 0, make([]byte, 1))
		assert.True(errors.Is(err, ErrOutOfRange))

		err = d.WriteBlock(common.Bnum(nblocks-1), 1000, make([]byte, 100))
		assert.True(errors.Is(err, ErrOutOfRange))

		// offsets that wrap around are not taken modulo 2^64
		err = d.ReadBlock(1, math.MaxUint64-100, make([]byte, 1))
		assert.True(errors.Is(err, ErrOutOfRange))

		// the last byte is still addressable
		assert.Nil(d.WriteBlock(common.Bnum(nblocks-1), common.BlockSize-1, []byte{1}))
	})
}

func TestFileReopen(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "img")
	d, err := CreateFile(path, 4*common.BlockSize)
	assert.Nil(err)
	assert.Nil(d.WriteBlock(1, 10, []byte("pkfs")))
	assert.Nil(d.Close())

	d, err = OpenFile(path)
	assert.Nil(err)
	defer d.Close()
	sz, _ := d.Size()
	assert.Equal(4*common.BlockSize, sz)
	out := make([]byte, 4)
	assert.Nil(d.ReadBlock(1, 10, out))
	assert.Equal([]byte("pkfs"), out)
}

func TestIsBlockDevice(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "img")
	d, err := CreateFile(path, 4*common.BlockSize)
	assert.Nil(err)
	assert.Nil(d.Close())

	blk, err := IsBlockDevice(path)
	assert.Nil(err)
	assert.False(blk)

	_, err = IsBlockDevice(filepath.Join(t.TempDir(), "nope"))
	assert.NotNil(err)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "nope"))
	assert.NotNil(t, err)
}
