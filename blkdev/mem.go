package blkdev

import (
	"sync"

	"github.com/mit-pdos/go-pkfs/common"
)

var _ Device = (*MemDevice)(nil)

// MemDevice keeps the whole device in memory. Used for testing.
type MemDevice struct {
	l    *sync.RWMutex
	data []byte
}

func NewMemDevice(size uint64) *MemDevice {
	return &MemDevice{l: new(sync.RWMutex), data: make([]byte, size)}
}

// NewMemDeviceBlocks makes a device of nblocks common.BlockSize blocks.
func NewMemDeviceBlocks(nblocks uint64) *MemDevice {
	return NewMemDevice(nblocks * common.BlockSize)
}

func (d *MemDevice) ReadBlock(bn common.Bnum, off uint64, buf []byte) error {
	d.l.RLock()
	defer d.l.RUnlock()
	start, err := checkRange(bn, off, len(buf), uint64(len(d.data)))
	if err != nil {
		return err
	}
	copy(buf, d.data[start:])
	return nil
}

func (d *MemDevice) WriteBlock(bn common.Bnum, off uint64, data []byte) error {
	d.l.Lock()
	defer d.l.Unlock()
	start, err := checkRange(bn, off, len(data), uint64(len(d.data)))
	if err != nil {
		return err
	}
	copy(d.data[start:], data)
	return nil
}

func (d *MemDevice) Size() (uint64, error) {
	// data is allocated once and never resized
	return uint64(len(d.data)), nil
}

func (d *MemDevice) Close() error { return nil }
