package fs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mit-pdos/go-pkfs/common"
	"github.com/mit-pdos/go-pkfs/dirent"
	"github.com/mit-pdos/go-pkfs/inode"
	"github.com/mit-pdos/go-pkfs/util"
)

func validateName(name string) error {
	if len(name) == 0 {
		return fmt.Errorf("empty name: %w", ErrInvalidName)
	}
	if strings.ContainsAny(name, "/\x00") {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%q is reserved: %w", name, ErrInvalidName)
	}
	return nil
}

// getDir reads a directory inode that is about to receive an entry.
func (fs *FileSystem) getDir(inum common.Inum) (*inode.Inode, error) {
	ip, err := fs.getInode(inum)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("directory %d: %w", inum, ErrParentNotFound)
	}
	if err != nil {
		return nil, err
	}
	if !ip.IsDir() {
		return nil, fmt.Errorf("inode %d: %w", inum, ErrNotDir)
	}
	return ip, nil
}

func (fs *FileSystem) readDirBlock(dip *inode.Inode) ([]dirent.DirEnt, error) {
	blk := make([]byte, common.BlockSize)
	if err := fs.d.ReadBlock(dip.HeadBlock, 0, blk); err != nil {
		return nil, fmt.Errorf("read directory %d: %w", dip.Inum, err)
	}
	return dirent.DecodeBlock(blk)
}

// entries returns the occupied prefix of dip's entry table.
func (fs *FileSystem) entries(dip *inode.Inode) ([]dirent.DirEnt, error) {
	des, err := fs.readDirBlock(dip)
	if err != nil {
		return nil, err
	}
	n := util.Min(dip.Length/common.DIRENTSZ, common.DIRENTBLK)
	return des[:n], nil
}

func (fs *FileSystem) lookup(dip *inode.Inode, name string) (common.Inum, error) {
	des, err := fs.entries(dip)
	if err != nil {
		return 0, err
	}
	// compare the stored form, so over-long names match their truncation
	want := dirent.MkDirEnt(0, name).NameString()
	for _, de := range des {
		if de.NameString() == want {
			return de.Inum, nil
		}
	}
	return 0, fmt.Errorf("%q in directory %d: %w", name, dip.Inum, ErrNotFound)
}

// addDirEntry appends (name, inum) to parent's entry table, then records the
// longer table in the parent inode. The two writes are not atomic.
func (fs *FileSystem) addDirEntry(parent common.Inum, name string, inum common.Inum) error {
	pip, err := fs.getDir(parent)
	if err != nil {
		return err
	}
	off := pip.Length
	if off+common.DIRENTSZ > common.BlockSize {
		return fmt.Errorf("directory %d: %w", parent, ErrDirFull)
	}
	de := dirent.MkDirEnt(inum, name)
	if err := fs.d.WriteBlock(pip.HeadBlock, off, de.Encode()); err != nil {
		return fmt.Errorf("write entry %v: %w", de, err)
	}
	pip.Length += common.DIRENTSZ
	if err := fs.writeInode(pip); err != nil {
		return err
	}
	util.DPrintf(5, "addDirEntry: %d: %v at %d\n", parent, de, off)
	return nil
}

// checkNew runs the checks that can fail a create before anything is
// allocated.
func (fs *FileSystem) checkNew(parent common.Inum, name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	pip, err := fs.getDir(parent)
	if err != nil {
		return err
	}
	_, err = fs.lookup(pip, name)
	if err == nil {
		return fmt.Errorf("%q in directory %d: %w", name, parent, ErrExists)
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}
	if pip.Length+common.DIRENTSZ > common.BlockSize {
		return fmt.Errorf("directory %d: %w", parent, ErrDirFull)
	}
	return nil
}

// MkFile creates an empty regular file called name in directory parent.
//
// If linking it into parent fails after the inode was allocated, the inode
// stays allocated and unreferenced; there is no rollback.
func (fs *FileSystem) MkFile(parent common.Inum, name string) (common.Inum, error) {
	if err := fs.checkNew(parent, name); err != nil {
		return 0, err
	}
	ip, bn, err := fs.allocInode(inode.Regular)
	if err != nil {
		return 0, err
	}
	// a freed block still holds its last owner's bytes
	if err := fs.d.WriteBlock(bn, 0, make([]byte, common.BlockSize)); err != nil {
		return 0, fmt.Errorf("clear file %d: %w", ip.Inum, err)
	}
	if err := fs.writeInode(ip); err != nil {
		return 0, err
	}
	if err := fs.addDirEntry(parent, name, ip.Inum); err != nil {
		return 0, err
	}
	util.DPrintf(1, "MkFile: %d/%s -> %d\n", parent, name, ip.Inum)
	return ip.Inum, nil
}

// MkDir creates directory name in parent, with "." naming the new directory
// and ".." naming parent. Failures after allocation leave an orphan, as for
// MkFile.
func (fs *FileSystem) MkDir(parent common.Inum, name string) (common.Inum, error) {
	if err := fs.checkNew(parent, name); err != nil {
		return 0, err
	}
	ip, bn, err := fs.allocInode(inode.Directory)
	if err != nil {
		return 0, err
	}
	ip.Length = 2 * common.DIRENTSZ
	if err := fs.writeInode(ip); err != nil {
		return 0, err
	}
	blk := make([]byte, common.BlockSize)
	copy(blk[0:], dirent.MkDirEnt(ip.Inum, ".").Encode())
	copy(blk[common.DIRENTSZ:], dirent.MkDirEnt(parent, "..").Encode())
	if err := fs.d.WriteBlock(bn, 0, blk); err != nil {
		return 0, fmt.Errorf("write directory %d: %w", ip.Inum, err)
	}
	if err := fs.addDirEntry(parent, name, ip.Inum); err != nil {
		return 0, err
	}
	util.DPrintf(1, "MkDir: %d/%s -> %d\n", parent, name, ip.Inum)
	return ip.Inum, nil
}

func (fs *FileSystem) getDirForRead(inum common.Inum) (*inode.Inode, error) {
	ip, err := fs.getInode(inum)
	if err != nil {
		return nil, err
	}
	if !ip.IsDir() {
		return nil, fmt.Errorf("inode %d: %w", inum, ErrNotDir)
	}
	return ip, nil
}

// Ls lists the entries of directory inum, "." and ".." included, in the
// order they were created.
func (fs *FileSystem) Ls(inum common.Inum) ([]dirent.DirEnt, error) {
	dip, err := fs.getDirForRead(inum)
	if err != nil {
		return nil, err
	}
	return fs.entries(dip)
}

// ReadDirBlock returns every slot of directory inum's entry table, including
// unoccupied ones (inode 0, empty name).
func (fs *FileSystem) ReadDirBlock(inum common.Inum) ([]dirent.DirEnt, error) {
	dip, err := fs.getDirForRead(inum)
	if err != nil {
		return nil, err
	}
	return fs.readDirBlock(dip)
}

// Lookup finds name in directory dir.
func (fs *FileSystem) Lookup(dir common.Inum, name string) (common.Inum, error) {
	dip, err := fs.getDirForRead(dir)
	if err != nil {
		return 0, err
	}
	return fs.lookup(dip, name)
}

// Namei resolves a slash-separated path from the root directory.
func (fs *FileSystem) Namei(path string) (common.Inum, error) {
	inum := common.ROOTINUM
	for _, name := range strings.Split(path, "/") {
		if name == "" {
			continue
		}
		next, err := fs.Lookup(inum, name)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		inum = next
	}
	return inum, nil
}
