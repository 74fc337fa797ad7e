// Package blkdev provides byte-addressed access to a device made of
// common.BlockSize blocks.
//
// Every call goes straight to the backing medium; there is no caching.
package blkdev

import (
	"errors"
	"fmt"

	"github.com/mit-pdos/go-pkfs/addr"
	"github.com/mit-pdos/go-pkfs/common"
	"github.com/mit-pdos/go-pkfs/util"
)

var (
	ErrShortIO    = errors.New("short read or write")
	ErrOutOfRange = errors.New("access beyond end of device")
)

// Device reads and writes byte ranges addressed as (block, offset).
type Device interface {
	// ReadBlock fills buf from byte bn*BlockSize+off. The range may cross
	// block boundaries.
	ReadBlock(bn common.Bnum, off uint64, buf []byte) error

	// WriteBlock stores data at byte bn*BlockSize+off. The data is durable
	// when WriteBlock returns.
	WriteBlock(bn common.Bnum, off uint64, data []byte) error

	// Size reports how big the device is, in bytes.
	Size() (uint64, error)

	// Close releases any resources used by the device and makes it unusable.
	Close() error
}

func checkRange(bn common.Bnum, off uint64, n int, size uint64) (uint64, error) {
	start := addr.MkAddr(bn, off).Flatid(common.BlockSize)
	if util.SumOverflows(off, uint64(bn)*common.BlockSize) ||
		util.SumOverflows(start, uint64(n)) || start+uint64(n) > size {
		return 0, fmt.Errorf("block %d offset %d len %d (size %d): %w",
			bn, off, n, size, ErrOutOfRange)
	}
	return start, nil
}
