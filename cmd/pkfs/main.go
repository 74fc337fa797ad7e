// pkfs operates on a pkfs image.
//
//	pkfs IMAGE ls [PATH]
//	pkfs IMAGE mkdir PATH
//	pkfs IMAGE touch PATH
//	pkfs IMAGE write PATH DATA
//	pkfs IMAGE cat PATH
//	pkfs IMAGE stat PATH
//	pkfs IMAGE df
package main

import (
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/mit-pdos/go-pkfs/blkdev"
	"github.com/mit-pdos/go-pkfs/common"
	"github.com/mit-pdos/go-pkfs/fs"
	"github.com/mit-pdos/go-pkfs/util"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(),
		"Usage: pkfs [-debug N] IMAGE ls|mkdir|touch|write|cat|stat|df [PATH] [DATA]\n")
	flag.PrintDefaults()
}

func main() {
	debug := flag.Uint64("debug", util.GetEnvUint("PKFS_DEBUG", 0), "debug print level")
	flag.Usage = usage
	flag.Parse()
	util.Debug = *debug
	if flag.NArg() < 2 {
		usage()
		os.Exit(2)
	}
	if err := run(flag.Arg(0), flag.Arg(1), flag.Args()[2:]); err != nil {
		fmt.Fprintf(os.Stderr, "pkfs: %v\n", err)
		os.Exit(1)
	}
}

func arg(args []string, i int, what string) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("missing %s", what)
	}
	return args[i], nil
}

func run(image string, cmd string, args []string) error {
	d, err := blkdev.OpenFile(image)
	if err != nil {
		return err
	}
	defer d.Close()
	fsys, err := fs.Mount(d)
	if err != nil {
		return err
	}

	switch cmd {
	case "ls":
		p := "/"
		if len(args) > 0 {
			p = args[0]
		}
		return ls(fsys, p)
	case "mkdir", "touch":
		p, err := arg(args, 0, "path")
		if err != nil {
			return err
		}
		return create(fsys, p, cmd == "mkdir")
	case "write":
		p, err := arg(args, 0, "path")
		if err != nil {
			return err
		}
		data, err := arg(args, 1, "data")
		if err != nil {
			return err
		}
		inum, err := fsys.Namei(p)
		if err != nil {
			return err
		}
		if err := fsys.Write(inum, 0, []byte(data)); err != nil {
			return err
		}
		return fsys.Sync()
	case "cat":
		p, err := arg(args, 0, "path")
		if err != nil {
			return err
		}
		inum, err := fsys.Namei(p)
		if err != nil {
			return err
		}
		data, err := fsys.Read(inum)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	case "stat":
		p, err := arg(args, 0, "path")
		if err != nil {
			return err
		}
		inum, err := fsys.Namei(p)
		if err != nil {
			return err
		}
		ip, err := fsys.Stat(inum)
		if err != nil {
			return err
		}
		fmt.Printf("inode %d\ntype %v\nhead block %d\nlength %d\n",
			ip.Inum, ip.Kind, ip.HeadBlock, ip.Length)
		return nil
	case "df":
		sb := fsys.Super()
		fmt.Printf("blocks %d free %d\ninodes %d free %d\n",
			sb.TotalBlock, fsys.NumFreeBlocks(), fsys.NInode(), fsys.NumFreeInodes())
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func ls(fsys *fs.FileSystem, p string) error {
	inum, err := fsys.Namei(p)
	if err != nil {
		return err
	}
	des, err := fsys.Ls(inum)
	if err != nil {
		return err
	}
	for _, de := range des {
		ip, err := fsys.Stat(de.Inum)
		if err != nil {
			fmt.Printf("%6d  ?     %s\n", de.Inum, de.NameString())
			continue
		}
		fmt.Printf("%6d  %-4v %5d  %s\n", de.Inum, ip.Kind, ip.Length, de.NameString())
	}
	return nil
}

func create(fsys *fs.FileSystem, p string, dir bool) error {
	parent, err := fsys.Namei(path.Dir(path.Clean("/" + p)))
	if err != nil {
		return err
	}
	name := path.Base(path.Clean("/" + p))
	var inum common.Inum
	if dir {
		inum, err = fsys.MkDir(parent, name)
	} else {
		inum, err = fsys.MkFile(parent, name)
	}
	if err != nil {
		return err
	}
	util.DPrintf(1, "create %s -> %d\n", p, inum)
	return fsys.Sync()
}
