package commands

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/keelsh/keelsh/core/sys"
)

// Stat implements a stat command in the style of GNU coreutils.
func Stat(system sys.OS) int {
	cmd := &SimpleCommand{
		Use:   "stat FILE...",
		Short: "Display file status.",
	}

	return cmd.Run(system, func() int {
		files := cmd.Flags().Args()
		if len(files) == 0 {
			fmt.Fprintln(system.Stderr(), "stat: missing operand")
			return 1
		}

		uid2name := UidResolver(system)
		gid2name := GidResolver(system)

		exitCode := 0
		for _, file := range files {
			info, err := system.Stat(file)
			if err != nil {
				fmt.Fprintf(system.Stderr(), "stat: cannot stat %q: %v\n", file, err)
				exitCode = 1
				continue
			}
			printStat(system.Stdout(), file, info, uid2name, gid2name)
		}
		return exitCode
	})
}

// printStat writes the status block for a single file.
func printStat(w io.Writer, name string, info os.FileInfo, uid2name, gid2name func(int) string) {
	uid, gid := getUIDGID(info)

	fmt.Fprintf(w, "  File: %s\n", name)
	fmt.Fprintf(w, "  Size: %-10d Blocks: %-10d IO Block: 4096   %s\n",
		info.Size(), (info.Size()+511)/512, fileKind(info))
	fmt.Fprintf(w, "Access: (%04o/%s)  Uid: (%5d/%8s)   Gid: (%5d/%8s)\n",
		info.Mode().Perm(), info.Mode().String(), uid, uid2name(uid), gid, gid2name(gid))
	fmt.Fprintf(w, "Modify: %s\n", info.ModTime().Format("2006-01-02 15:04:05.000000000 -0700"))
}

// fileKind names the file type the way stat(1) does.
func fileKind(info os.FileInfo) string {
	mode := info.Mode()
	switch {
	case mode.IsDir():
		return "directory"
	case mode&fs.ModeSymlink != 0:
		return "symbolic link"
	case mode&fs.ModeNamedPipe != 0:
		return "fifo"
	case mode&fs.ModeSocket != 0:
		return "socket"
	case mode&fs.ModeCharDevice != 0:
		return "character special file"
	case mode&fs.ModeDevice != 0:
		return "block special file"
	case info.Size() == 0:
		return "regular empty file"
	default:
		return "regular file"
	}
}

var _ sys.ProcessFunc = Stat

func init() {
	mustAddForkedCmd("stat", Stat)
}
