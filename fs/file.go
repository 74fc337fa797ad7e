package fs

import (
	"fmt"

	"github.com/mit-pdos/go-pkfs/common"
	"github.com/mit-pdos/go-pkfs/inode"
)

func (fs *FileSystem) getFile(inum common.Inum) (*inode.Inode, error) {
	ip, err := fs.getInode(inum)
	if err != nil {
		return nil, err
	}
	if ip.IsDir() {
		return nil, fmt.Errorf("inode %d: %w", inum, ErrIsDir)
	}
	return ip, nil
}

// Write stores data at byte off of file inum. A file is a single block, so
// off+len(data) may not exceed common.BlockSize. The file grows to cover the
// write; it never shrinks. Gaps read back as zeros, since MkFile clears the
// block.
func (fs *FileSystem) Write(inum common.Inum, off uint64, data []byte) error {
	ip, err := fs.getFile(inum)
	if err != nil {
		return err
	}
	end := off + uint64(len(data))
	if end < off || end > common.BlockSize {
		return fmt.Errorf("inode %d: write of %d bytes at %d: %w",
			inum, len(data), off, ErrFileTooBig)
	}
	if err := fs.d.WriteBlock(ip.HeadBlock, off, data); err != nil {
		return fmt.Errorf("write inode %d data: %w", inum, err)
	}
	if end > ip.Length {
		ip.Length = end
		return fs.writeInode(ip)
	}
	return nil
}

// Read returns the contents of file inum.
func (fs *FileSystem) Read(inum common.Inum) ([]byte, error) {
	ip, err := fs.getFile(inum)
	if err != nil {
		return nil, err
	}
	if ip.Length > common.BlockSize {
		return nil, fmt.Errorf("inode %d: length %d: %w", inum, ip.Length, ErrCorrupt)
	}
	data := make([]byte, ip.Length)
	if err := fs.d.ReadBlock(ip.HeadBlock, 0, data); err != nil {
		return nil, fmt.Errorf("read inode %d data: %w", inum, err)
	}
	return data, nil
}
