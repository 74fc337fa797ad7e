package blkdev

import (
	"fmt"
	"io"

	"golang.org/x/sys/unix"

	"github.com/mit-pdos/go-pkfs/common"
	"github.com/mit-pdos/go-pkfs/util"
)

var _ Device = (*FileDevice)(nil)

// FileDevice is a Device backed by an image file or a raw block device.
type FileDevice struct {
	fd   int
	size uint64
}

// OpenFile opens an existing image; its current size is the device size.
func OpenFile(path string) (*FileDevice, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	size := uint64(stat.Size)
	if stat.Mode&unix.S_IFMT == unix.S_IFBLK {
		size, err = blockDeviceSize(fd)
		if err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("size of %s: %w", path, err)
		}
	}
	util.DPrintf(1, "OpenFile: %s, %d bytes\n", path, size)
	return &FileDevice{fd: fd, size: size}, nil
}

// IsBlockDevice reports whether path names a block special file.
func IsBlockDevice(path string) (bool, error) {
	var stat unix.Stat_t
	if err := unix.Stat(path, &stat); err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	return stat.Mode&unix.S_IFMT == unix.S_IFBLK, nil
}

// CreateFile creates (or truncates) a size-byte image at path.
func CreateFile(path string, size uint64) (*FileDevice, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("truncate %s: %w", path, err)
	}
	util.DPrintf(1, "CreateFile: %s, %d bytes\n", path, size)
	return &FileDevice{fd: fd, size: size}, nil
}

func blockDeviceSize(fd int) (uint64, error) {
	off, err := unix.Seek(fd, 0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	return uint64(off), nil
}

func (d *FileDevice) ReadBlock(bn common.Bnum, off uint64, buf []byte) error {
	start, err := checkRange(bn, off, len(buf), d.size)
	if err != nil {
		return err
	}
	n, err := unix.Pread(d.fd, buf, int64(start))
	if err != nil {
		return fmt.Errorf("read block %d: %w", bn, err)
	}
	if n != len(buf) {
		return fmt.Errorf("read block %d: got %d of %d bytes: %w", bn, n, len(buf), ErrShortIO)
	}
	util.DPrintf(20, "read: %d+%d len %d\n", bn, off, len(buf))
	return nil
}

func (d *FileDevice) WriteBlock(bn common.Bnum, off uint64, data []byte) error {
	start, err := checkRange(bn, off, len(data), d.size)
	if err != nil {
		return err
	}
	n, err := unix.Pwrite(d.fd, data, int64(start))
	if err != nil {
		return fmt.Errorf("write block %d: %w", bn, err)
	}
	if n != len(data) {
		return fmt.Errorf("write block %d: wrote %d of %d bytes: %w", bn, n, len(data), ErrShortIO)
	}
	if err := unix.Fsync(d.fd); err != nil {
		return fmt.Errorf("sync block %d: %w", bn, err)
	}
	util.DPrintf(20, "write: %d+%d len %d\n", bn, off, len(data))
	return nil
}

func (d *FileDevice) Size() (uint64, error) {
	return d.size, nil
}

func (d *FileDevice) Close() error {
	return unix.Close(d.fd)
}
