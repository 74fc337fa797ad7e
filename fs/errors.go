package fs

import "errors"

var (
	ErrNoBlock        = errors.New("no free block")
	ErrNoInode        = errors.New("no free inode")
	ErrNotFound       = errors.New("inode not found")
	ErrParentNotFound = errors.New("parent not found")
	ErrNotDir         = errors.New("not a directory")
	ErrIsDir          = errors.New("is a directory")
	ErrDirFull        = errors.New("directory full")
	ErrExists         = errors.New("file exists")
	ErrInvalidName    = errors.New("invalid name")
	ErrFileTooBig     = errors.New("file too large")
	ErrCorrupt        = errors.New("filesystem corrupted")
)
