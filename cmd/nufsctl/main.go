// Command nufsctl drives a nufs image from the command line, one
// subcommand per storage-facade operation, grounded on the teacher's
// cmd/main.go urfave/cli/v2 skeleton.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/roadkillsanta/nufs"
	"github.com/roadkillsanta/nufs/internal/diskprofile"
)

func main() {
	app := &cli.App{
		Name:  "nufsctl",
		Usage: "inspect and manipulate a nufs disk image",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "image", Aliases: []string{"i"}, Required: true, Usage: "path to the disk image"},
			&cli.StringFlag{Name: "profile", Aliases: []string{"p"}, Value: "default", Usage: "layout profile of the image; an existing image must match it, a missing one is created with it"},
		},
		Commands: []*cli.Command{
			{Name: "mkdir", ArgsUsage: "PATH", Action: withEngine(cmdMkdir)},
			{Name: "mknod", ArgsUsage: "PATH MODE", Action: withEngine(cmdMknod)},
			{Name: "write", ArgsUsage: "PATH TEXT OFFSET", Action: withEngine(cmdWrite)},
			{Name: "read", ArgsUsage: "PATH LENGTH OFFSET", Action: withEngine(cmdRead)},
			{Name: "ls", ArgsUsage: "PATH", Action: withEngine(cmdList)},
			{Name: "stat", ArgsUsage: "PATH", Action: withEngine(cmdStat)},
			{Name: "rm", ArgsUsage: "PATH", Action: withEngine(cmdUnlink)},
			{Name: "mv", ArgsUsage: "FROM TO", Action: withEngine(cmdRename)},
			{Name: "chmod", ArgsUsage: "PATH MODE", Action: withEngine(cmdChmod)},
			{Name: "truncate", ArgsUsage: "PATH", Action: withEngine(cmdTruncate)},
			{Name: "fsstat", Action: withEngine(cmdFSStat)},
			{
				Name:   "profiles",
				Usage:  "list known layout profiles",
				Action: cmdProfiles,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("nufsctl: %s", err)
	}
}

func withEngine(fn func(*cli.Context, *nufs.Engine) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		profile, err := diskprofile.Get(c.String("profile"))
		if err != nil {
			return err
		}
		engine, err := nufs.Open(c.String("image"), profile.Layout())
		if err != nil {
			return fmt.Errorf("opening image: %w", err)
		}
		defer engine.Close()
		return fn(c, engine)
	}
}

func cmdMkdir(c *cli.Context, e *nufs.Engine) error {
	return e.Mkdir(c.Args().Get(0), 0755)
}

func cmdMknod(c *cli.Context, e *nufs.Engine) error {
	mode, err := strconv.ParseUint(c.Args().Get(1), 0, 32)
	if err != nil {
		return fmt.Errorf("parsing mode: %w", err)
	}
	return e.Mknod(c.Args().Get(0), uint32(mode))
}

func cmdWrite(c *cli.Context, e *nufs.Engine) error {
	offset, err := strconv.ParseInt(c.Args().Get(2), 10, 64)
	if err != nil {
		return fmt.Errorf("parsing offset: %w", err)
	}
	n, err := e.Write(c.Args().Get(0), []byte(c.Args().Get(1)), offset)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d bytes\n", n)
	return nil
}

func cmdRead(c *cli.Context, e *nufs.Engine) error {
	length, err := strconv.Atoi(c.Args().Get(1))
	if err != nil {
		return fmt.Errorf("parsing length: %w", err)
	}
	offset, err := strconv.ParseInt(c.Args().Get(2), 10, 64)
	if err != nil {
		return fmt.Errorf("parsing offset: %w", err)
	}
	buf := make([]byte, length)
	n, err := e.Read(c.Args().Get(0), buf, offset)
	if err != nil {
		return err
	}
	fmt.Println(string(buf[:n]))
	return nil
}

func cmdList(c *cli.Context, e *nufs.Engine) error {
	names, err := e.List(c.Args().Get(0))
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Println(name)
	}
	return nil
}

func cmdStat(c *cli.Context, e *nufs.Engine) error {
	stat, err := e.Stat(c.Args().Get(0))
	if err != nil {
		return err
	}
	fmt.Printf("inode=%d mode=%#o size=%d dir=%v\n", stat.InodeNumber, stat.ModeFlags, stat.Size, stat.IsDir())
	return nil
}

func cmdUnlink(c *cli.Context, e *nufs.Engine) error {
	return e.Unlink(c.Args().Get(0))
}

func cmdRename(c *cli.Context, e *nufs.Engine) error {
	return e.Rename(c.Args().Get(0), c.Args().Get(1))
}

func cmdChmod(c *cli.Context, e *nufs.Engine) error {
	mode, err := strconv.ParseUint(c.Args().Get(1), 0, 32)
	if err != nil {
		return fmt.Errorf("parsing mode: %w", err)
	}
	return e.Chmod(c.Args().Get(0), uint32(mode))
}

func cmdTruncate(c *cli.Context, e *nufs.Engine) error {
	return e.Truncate(c.Args().Get(0))
}

func cmdFSStat(c *cli.Context, e *nufs.Engine) error {
	stat := e.FSStat()
	fmt.Printf("blocks: %d/%d free  inodes: %d/%d free  max name length: %d\n",
		stat.BlocksFree, stat.TotalBlocks, stat.InodesFree, stat.Inodes, stat.MaxNameLength)
	return nil
}

func cmdProfiles(c *cli.Context) error {
	for _, p := range diskprofile.All() {
		l := p.Layout()
		fmt.Printf("%-10s %-28s %d bytes (%d blocks of %d, %d inodes)\n",
			p.Slug, p.Name, l.ImageSize(), l.TotalBlocks, l.BlockSize, l.InodeCount)
	}
	return nil
}
