package common

const (
	BlockSize uint64 = 1024
	Magic     uint32 = 0x504B4653 // "PKFS"

	SUPERSZ  uint64 = 20 // on-disk size
	INODESZ  uint64 = 32 // on-disk size
	INODEBLK uint64 = BlockSize / INODESZ

	NAMELEN   uint64 = 252
	DIRENTSZ  uint64 = 4 + NAMELEN
	DIRENTBLK uint64 = BlockSize / DIRENTSZ

	// smallest image Format accepts
	MINBLOCKS uint64 = 16
)

type Inum uint32
type Bnum = uint32

const (
	ROOTINUM   Inum = 0
	SUPERBLK   Bnum = 0
	INODESTART Bnum = 1 // first block of the inode table
)
