// mkpkfs creates a pkfs image.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/mit-pdos/go-pkfs/blkdev"
	"github.com/mit-pdos/go-pkfs/fs"
	"github.com/mit-pdos/go-pkfs/util"
)

func main() {
	sizeMB := flag.Uint64("size", 64, "image size in MB; 0 formats an existing image in place (block devices always are)")
	debug := flag.Uint64("debug", util.GetEnvUint("PKFS_DEBUG", 0), "debug print level")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: mkpkfs [-size MB] [-debug N] PATH\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	util.Debug = *debug
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := mkfs(flag.Arg(0), *sizeMB); err != nil {
		fmt.Fprintf(os.Stderr, "mkpkfs: %v\n", err)
		os.Exit(1)
	}
}

func mkfs(path string, sizeMB uint64) error {
	var d *blkdev.FileDevice
	dev, err := blkdev.IsBlockDevice(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if dev || sizeMB == 0 {
		d, err = blkdev.OpenFile(path)
	} else {
		d, err = blkdev.CreateFile(path, sizeMB*1024*1024)
	}
	if err != nil {
		return err
	}
	defer d.Close()

	if err := fs.Format(d); err != nil {
		return err
	}
	fsys, err := fs.Mount(d)
	if err != nil {
		return err
	}
	sb := fsys.Super()
	fmt.Printf("%s: %d blocks of %d bytes, %d inodes, data starts at block %d\n",
		path, sb.TotalBlock, sb.BlockSize, fsys.NInode(), sb.DataStart)
	return nil
}
