package commands

import (
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path"
	"sort"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	fcolor "github.com/fatih/color"
	"github.com/keelsh/keelsh/core/sys"
	getopt "github.com/pborman/getopt/v2"
)

// dotEntry renames a FileInfo so a directory can list itself as "." and its
// parent as "..".
type dotEntry struct {
	os.FileInfo
	name string
}

func (d dotEntry) Name() string {
	return d.name
}

// Ls implements the UNIX ls command.
func Ls(system sys.OS) int {
	opts := getopt.New()
	listAll := opts.Bool('a', "don't ignore entries starting with .")
	longListing := opts.Bool('l', "use a long listing format")
	humanSize := opts.BoolLong("human-readable", 'h', "print human readable sizes")
	lineWidth := opts.IntLong("width", 'w', system.GetPTY().Width, "set the column width, 0 is infinite")
	helpOpt := opts.BoolLong("help", '?', "show help and exit")

	var color ColorPrinter
	color.Init(opts, system)

	if err := opts.Getopt(system.Args(), nil); err != nil || *helpOpt {
		w := system.Stderr()
		if err != nil {
			system.LogInvalidInvocation(err)
			fmt.Fprintln(w, err)
		}
		fmt.Fprintln(w, "Usage: ls [OPTION]... [FILE]...")
		fmt.Fprintln(w, "List information about the FILEs (the current directory by default).")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Flags:")
		opts.PrintOptions(w)
		return 1
	}

	directoriesToList := opts.Args()
	if len(directoriesToList) == 0 {
		directoriesToList = append(directoriesToList, ".")
	}
	sort.Strings(directoriesToList)

	showDirectoryNames := len(directoriesToList) > 1

	sizeFmt := func(bytes int64) string {
		return fmt.Sprintf("%d", bytes)
	}
	if *humanSize {
		sizeFmt = BytesToHuman
	}

	if *lineWidth == 0 {
		*lineWidth = math.MaxInt32
	}

	uid2name := UidResolver(system)
	gid2name := GidResolver(system)

	exitCode := 0

	for _, directory := range directoriesToList {
		file, err := system.Open(directory)
		if err != nil {
			fmt.Fprintf(system.Stderr(), "%s: %v\n", directory, err)
			exitCode = 1
			continue
		}

		allEntries, err := file.Readdir(-1)
		file.Close()
		if err != nil {
			fmt.Fprintf(system.Stderr(), "%s: %v\n", directory, err)
			exitCode = 1
			continue
		}

		var totalSize int64
		var entries []os.FileInfo
		if *listAll {
			for _, dot := range []string{".", ".."} {
				if info, err := system.Stat(path.Join(directory, dot)); err == nil {
					entries = append(entries, dotEntry{info, dot})
				}
			}
		}
		for _, entry := range allEntries {
			if !*listAll && strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			entries = append(entries, entry)
		}
		for _, entry := range entries {
			totalSize += entry.Size()
		}

		sort.Slice(entries, func(i int, j int) bool {
			return entries[i].Name() < entries[j].Name()
		})

		if showDirectoryNames {
			fmt.Fprintf(system.Stdout(), "%s:\n", directory)
		}

		if *longListing {
			fmt.Fprintf(system.Stdout(), "total %d\n", totalSize)
			tw := tabwriter.NewWriter(system.Stdout(), 0, 0, 1, ' ', 0)
			for _, f := range entries {
				// Approximate hard links as self plus parent for
				// directories.
				hardLinks := 1
				if f.IsDir() {
					hardLinks = 2
				}

				// Entries modified this year show the time instead
				// of the year.
				modTime := f.ModTime().Format("Jan _2 2006")
				if f.ModTime().Year() >= time.Now().Year() {
					modTime = f.ModTime().Format("Jan _2 15:04")
				}

				uid, gid := getUIDGID(f)
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
					f.Mode().String(),
					hardLinks,
					uid2name(uid),
					gid2name(gid),
					sizeFmt(f.Size()),
					modTime,
					color.Sprintf(Dircolor(f), "%s", f.Name()))
			}
			tw.Flush()
		} else {
			colWidths := columnize(entries, *lineWidth)
			cols := len(colWidths)
			rows := (len(entries) + cols - 1) / cols

			out := system.Stdout()
			for row := 0; row < rows; row++ {
				for col, width := range colWidths {
					if col > 0 {
						io.WriteString(out, "  ")
					}
					// Entries run down the columns, not across the
					// rows.
					if index := (col * rows) + row; index < len(entries) {
						entry := entries[index]
						name := entry.Name()
						width -= len(name)
						io.WriteString(out, color.Sprintf(Dircolor(entry), "%s", name))
					}
					if width > 0 {
						io.WriteString(out, strings.Repeat(" ", width))
					}
				}
				fmt.Fprintln(out)
			}
		}
	}

	return exitCode
}

type LsColorTest struct {
	color *fcolor.Color
	test  func(fileInfo os.FileInfo) bool
}

// Color listing comes from: https://askubuntu.com/a/884513
var dircolors = []LsColorTest{
	// Directories are bold blue.
	{color: ColorBoldBlue, test: os.FileInfo.IsDir},
	// Symlinks are bold cyan.
	{color: ColorBoldCyan, test: func(fi os.FileInfo) bool {
		return fi.Mode()&fs.ModeSymlink > 0
	}},
	// Yellow with black background pipe, block device, char device.
	{color: fcolor.New(fcolor.FgYellow, fcolor.BgBlack, fcolor.Bold), test: func(fi os.FileInfo) bool {
		return fi.Mode()&(fs.ModeDevice|fs.ModeNamedPipe|fs.ModeSocket|fs.ModeCharDevice) > 0
	}},
	// Executables are bold green.
	{color: ColorBoldGreen, test: func(fi os.FileInfo) bool {
		return fi.Mode().Perm()&0111 > 0
	}},
	// Archives are bold red.
	{color: ColorBoldRed, test: func(fi os.FileInfo) bool {
		return map[string]bool{
			".tar": true,
			".tgz": true,
			".zip": true,
			".gz":  true,
			".bz2": true,
			".bz":  true,
			".tbz": true,
			".deb": true,
			".rpm": true,
			".jar": true,
			".war": true,
			".rar": true,
		}[path.Ext(fi.Name())]
	}},
}

// Dircolor picks the display color for a directory entry.
func Dircolor(fileInfo os.FileInfo) *fcolor.Color {
	for _, dc := range dircolors {
		if dc.test(fileInfo) {
			return dc.color
		}
	}

	return fcolor.New(fcolor.FgHiWhite)
}

// columnize fits entries into columns no wider than screenWidth and returns
// the width of each column.
func columnize(entries []os.FileInfo, screenWidth int) []int {
	numFiles := len(entries)
	if numFiles == 0 {
		return []int{0}
	}

	const colPadding = 2

	// Length of the name as displayed, color escapes excluded.
	displayLengths := make([]int, len(entries))
	for i, p := range entries {
		displayLengths[i] = len(p.Name())
	}

	// Start with the maximum number of columns and work down until the rows
	// fit. One character of name plus padding is the narrowest column.
	columns := screenWidth / (1 + colPadding)
	if columns > numFiles {
		columns = numFiles
	}
	var maximums []int // Holds the widest name in each column.
	for ; columns >= 1; columns-- {
		maximums = make([]int, columns)
		total := (columns - 1) * colPadding
		rows := (numFiles + columns - 1) / columns
		for i, nameLen := range displayLengths {
			prevMax := maximums[i/rows]
			if nameLen > prevMax {
				maximums[i/rows] = nameLen
				total = total - prevMax + nameLen
				if total > screenWidth {
					break
				}
			}
		}

		if total <= screenWidth {
			return maximums
		}
	}

	return maximums
}

// getUIDGID pulls ownership out of a FileInfo when the backing filesystem
// reports it, otherwise everything belongs to root.
func getUIDGID(fileInfo os.FileInfo) (uid, gid int) {
	if stat, ok := fileInfo.Sys().(*syscall.Stat_t); ok {
		return int(stat.Uid), int(stat.Gid)
	}
	return 0, 0
}

var _ sys.ProcessFunc = Ls

func init() {
	mustAddForkedCmd("ls", Ls)
}
