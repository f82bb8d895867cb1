package commands

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"

	"github.com/keelsh/keelsh/core/sys"
	"github.com/spf13/afero"
)

// Cp implements a POSIX cp command.
//
// https://pubs.opengroup.org/onlinepubs/9699919799.2018edition/utilities/cp.html
func Cp(system sys.OS) int {
	cmd := &SimpleCommand{
		Use:   "cp [OPTION...] SOURCE... DEST",
		Short: "Copy files and directories.",
	}

	recursive := cmd.Flags().BoolLong("recursive", 'r', "copy directories recursively")
	verbose := cmd.Flags().BoolLong("verbose", 'v', "explain what is being done")

	return cmd.Run(system, func() int {
		args := cmd.Flags().Args()
		switch len(args) {
		case 0:
			fmt.Fprintln(system.Stderr(), "cp: missing file operand")
			return 1
		case 1:
			fmt.Fprintf(system.Stderr(), "cp: missing destination file operand after %q\n", args[0])
			return 1
		}

		sources, dest := args[:len(args)-1], args[len(args)-1]

		destInfo, err := system.Stat(dest)
		destIsDir := err == nil && destInfo.IsDir()
		if len(sources) > 1 && !destIsDir {
			fmt.Fprintf(system.Stderr(), "cp: target %q is not a directory\n", dest)
			return 1
		}

		exitCode := 0
		for _, src := range sources {
			target := dest
			if destIsDir {
				target = path.Join(dest, path.Base(src))
			}
			if err := copyPath(system, src, target, *recursive, *verbose); err != nil {
				fmt.Fprintf(system.Stderr(), "cp: %v\n", err)
				exitCode = 1
			}
		}
		return exitCode
	})
}

// copyPath copies src to dst, recursing when src is a directory and -r was
// given.
func copyPath(system sys.OS, src, dst string, recursive, verbose bool) error {
	info, err := system.Stat(src)
	if err != nil {
		return err
	}

	if info.IsDir() {
		if !recursive {
			return fmt.Errorf("-r not specified; omitting directory %q", src)
		}
		return copyDir(system, src, dst, info.Mode(), verbose)
	}
	return copyFile(system, src, dst, info.Mode(), verbose)
}

func copyDir(system sys.OS, src, dst string, mode fs.FileMode, verbose bool) error {
	if err := system.MkdirAll(dst, mode.Perm()); err != nil {
		return err
	}

	entries, err := afero.ReadDir(system, src)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := path.Join(src, entry.Name())
		dstPath := path.Join(dst, entry.Name())
		if entry.IsDir() {
			err = copyDir(system, srcPath, dstPath, entry.Mode(), verbose)
		} else {
			err = copyFile(system, srcPath, dstPath, entry.Mode(), verbose)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(system sys.OS, src, dst string, mode fs.FileMode, verbose bool) error {
	in, err := system.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := system.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(system.Stdout(), "'%s' -> '%s'\n", src, dst)
	}
	return nil
}

var _ sys.ProcessFunc = Cp

func init() {
	mustAddForkedCmd("cp", Cp)
}
