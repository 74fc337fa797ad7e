package blkdev

import (
	"github.com/tchajed/goose/machine/disk"

	"github.com/mit-pdos/go-pkfs/buf"
	"github.com/mit-pdos/go-pkfs/common"
	"github.com/mit-pdos/go-pkfs/util"
)

var _ Device = (*DiskDevice)(nil)

// DiskDevice lays the device over a goose disk, whose blocks are
// disk.BlockSize bytes. Sub-block writes read, patch, and rewrite each
// backing block they touch, then issue a barrier.
type DiskDevice struct {
	d disk.Disk
}

func NewDiskDevice(d disk.Disk) *DiskDevice {
	return &DiskDevice{d: d}
}

func (dd *DiskDevice) size() uint64 {
	return dd.d.Size() * disk.BlockSize
}

func (dd *DiskDevice) ReadBlock(bn common.Bnum, off uint64, p []byte) error {
	start, err := checkRange(bn, off, len(p), dd.size())
	if err != nil {
		return err
	}
	for _, b := range buf.Split(start, p, disk.BlockSize) {
		blk := dd.d.Read(uint64(b.Addr.Blkno))
		b.Load(blk)
	}
	return nil
}

func (dd *DiskDevice) WriteBlock(bn common.Bnum, off uint64, data []byte) error {
	start, err := checkRange(bn, off, len(data), dd.size())
	if err != nil {
		return err
	}
	for _, b := range buf.Split(start, data, disk.BlockSize) {
		var blk disk.Block
		if b.Sz() == disk.BlockSize {
			blk = util.CloneByteSlice(b.Data)
		} else {
			blk = dd.d.Read(uint64(b.Addr.Blkno))
			b.Install(blk)
		}
		util.DPrintf(20, "DiskDevice: write backing block %d\n", b.Addr.Blkno)
		dd.d.Write(uint64(b.Addr.Blkno), blk)
	}
	dd.d.Barrier()
	return nil
}

func (dd *DiskDevice) Size() (uint64, error) {
	return dd.size(), nil
}

func (dd *DiskDevice) Close() error {
	dd.d.Close()
	return nil
}
