package sys

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/keelsh/keelsh/third_party/realpath"
	"github.com/spf13/afero"
)

// FsOp is a textual description of a filesystem operation.
type FsOp = string

const (
	FsOpChtimes  FsOp = "chtimes"
	FsOpSymlink  FsOp = "symlink"
	FsOpChmod    FsOp = "chmod"
	FsOpChown    FsOp = "chown"
	FsOpStat     FsOp = "stat"
	FsOpRename   FsOp = "rename"
	FsOpRemove   FsOp = "remove"
	FsOpOpen     FsOp = "open"
	FsOpMkdir    FsOp = "mkdir"
	FsOpCreate   FsOp = "create"
	FsOpLstat    FsOp = "lstat"
	FsOpReadlink FsOp = "readlink"
)

// PathRewriteFunc maps the path of an incoming filesystem operation to the
// path handed to the base filesystem.
type PathRewriteFunc func(op FsOp, name string) (string, error)

// NewRelativeFs wraps base so paths resolve the way a process with its own
// working directory expects: relative names are resolved against getwd and
// symlinks collapse to canonical absolute paths.
//
// Operations that create their target fall back to lexical resolution when
// the parent directory doesn't exist yet so MkdirAll can do its job.
func NewRelativeFs(base FS, getwd func() (dir string, err error)) FS {
	rpos := &realpathOs{getwd: getwd, base: base}
	return NewPathRewriteFs(base, func(op FsOp, name string) (string, error) {
		switch op {
		case FsOpMkdir, FsOpCreate, FsOpRename, FsOpSymlink:
			// The final element may not exist yet, resolve its directory.
			dir, err := realpath.Realpath(rpos, path.Dir(name))
			switch {
			case errors.Is(err, fs.ErrNotExist):
				return rpos.lexical(name), nil
			case err != nil:
				return name, unwrapPathErr(err)
			}
			return path.Join(dir, path.Base(name)), nil
		default:
			resolved, err := realpath.Realpath(rpos, name)
			if err != nil {
				return name, unwrapPathErr(err)
			}
			return resolved, nil
		}
	})
}

// unwrapPathErr strips PathError context so the rewrite's own wrap doesn't
// repeat it.
func unwrapPathErr(err error) error {
	var perr *os.PathError
	if errors.As(err, &perr) {
		return perr.Err
	}
	return err
}

type realpathOs struct {
	getwd func() (dir string, err error)
	base  FS
}

var _ realpath.OS = (*realpathOs)(nil)

func (r *realpathOs) Getwd() (string, error) {
	return r.getwd()
}

func (r *realpathOs) Lstat(name string) (fs.FileInfo, error) {
	if lstater, ok := r.base.(afero.Lstater); ok {
		stat, _, err := lstater.LstatIfPossible(name)
		return stat, err
	}
	return r.base.Stat(name)
}

func (r *realpathOs) Readlink(name string) (string, error) {
	if reader, ok := r.base.(afero.LinkReader); ok {
		return reader.ReadlinkIfPossible(name)
	}
	return "", errors.New("not a link")
}

// lexical resolves name against the working directory without touching the
// filesystem.
func (r *realpathOs) lexical(name string) string {
	if !path.IsAbs(name) {
		if wd, err := r.getwd(); err == nil {
			return path.Join(wd, name)
		}
	}
	return path.Clean(name)
}

// PathRewriteFs rewrites every path on a filesystem via a callback before
// passing the operation to the base filesystem.
type PathRewriteFs struct {
	Base    FS
	Rewrite PathRewriteFunc
}

var _ afero.Lstater = (*PathRewriteFs)(nil)

func NewPathRewriteFs(base FS, rewrite PathRewriteFunc) *PathRewriteFs {
	return &PathRewriteFs{Base: base, Rewrite: rewrite}
}

// rewriteFile reports the path the caller opened rather than the rewritten
// one handed to the base filesystem.
type rewriteFile struct {
	afero.File
	name string
}

func (f *rewriteFile) Name() string {
	return f.name
}

func (b *PathRewriteFs) Name() string {
	return "PathRewriteFs"
}

func (b *PathRewriteFs) Chtimes(name string, atime, mtime time.Time) (err error) {
	if name, err = b.Rewrite(FsOpChtimes, name); err != nil {
		return &os.PathError{Op: FsOpChtimes, Path: name, Err: err}
	}
	return b.Base.Chtimes(name, atime, mtime)
}

func (b *PathRewriteFs) Chmod(name string, mode os.FileMode) (err error) {
	if name, err = b.Rewrite(FsOpChmod, name); err != nil {
		return &os.PathError{Op: FsOpChmod, Path: name, Err: err}
	}
	return b.Base.Chmod(name, mode)
}

func (b *PathRewriteFs) Chown(name string, uid, gid int) (err error) {
	if name, err = b.Rewrite(FsOpChown, name); err != nil {
		return &os.PathError{Op: FsOpChown, Path: name, Err: err}
	}
	return b.Base.Chown(name, uid, gid)
}

func (b *PathRewriteFs) Stat(name string) (fi os.FileInfo, err error) {
	if name, err = b.Rewrite(FsOpStat, name); err != nil {
		return nil, &os.PathError{Op: FsOpStat, Path: name, Err: err}
	}
	return b.Base.Stat(name)
}

func (b *PathRewriteFs) Rename(oldname, newname string) (err error) {
	if oldname, err = b.Rewrite(FsOpRename, oldname); err != nil {
		return &os.PathError{Op: FsOpRename, Path: oldname, Err: err}
	}
	if newname, err = b.Rewrite(FsOpRename, newname); err != nil {
		return &os.PathError{Op: FsOpRename, Path: newname, Err: err}
	}
	return b.Base.Rename(oldname, newname)
}

func (b *PathRewriteFs) RemoveAll(name string) (err error) {
	if name, err = b.Rewrite(FsOpRemove, name); err != nil {
		return &os.PathError{Op: FsOpRemove, Path: name, Err: err}
	}
	return b.Base.RemoveAll(name)
}

func (b *PathRewriteFs) Remove(name string) (err error) {
	if name, err = b.Rewrite(FsOpRemove, name); err != nil {
		return &os.PathError{Op: FsOpRemove, Path: name, Err: err}
	}
	return b.Base.Remove(name)
}

func (b *PathRewriteFs) OpenFile(name string, flag int, mode os.FileMode) (f afero.File, err error) {
	op := FsOpOpen
	if flag&os.O_CREATE != 0 {
		op = FsOpCreate
	}
	orig := name
	if name, err = b.Rewrite(op, name); err != nil {
		return nil, &os.PathError{Op: op, Path: name, Err: err}
	}
	base, err := b.Base.OpenFile(name, flag, mode)
	if err != nil {
		return nil, err
	}
	return &rewriteFile{File: base, name: orig}, nil
}

func (b *PathRewriteFs) Open(name string) (f afero.File, err error) {
	orig := name
	if name, err = b.Rewrite(FsOpOpen, name); err != nil {
		return nil, &os.PathError{Op: FsOpOpen, Path: name, Err: err}
	}
	base, err := b.Base.Open(name)
	if err != nil {
		return nil, err
	}
	return &rewriteFile{File: base, name: orig}, nil
}

func (b *PathRewriteFs) Mkdir(name string, mode os.FileMode) (err error) {
	if name, err = b.Rewrite(FsOpMkdir, name); err != nil {
		return &os.PathError{Op: FsOpMkdir, Path: name, Err: err}
	}
	return b.Base.Mkdir(name, mode)
}

func (b *PathRewriteFs) MkdirAll(name string, mode os.FileMode) (err error) {
	if name, err = b.Rewrite(FsOpMkdir, name); err != nil {
		return &os.PathError{Op: FsOpMkdir, Path: name, Err: err}
	}
	return b.Base.MkdirAll(name, mode)
}

func (b *PathRewriteFs) Create(name string) (f afero.File, err error) {
	orig := name
	if name, err = b.Rewrite(FsOpCreate, name); err != nil {
		return nil, &os.PathError{Op: FsOpCreate, Path: name, Err: err}
	}
	base, err := b.Base.Create(name)
	if err != nil {
		return nil, err
	}
	return &rewriteFile{File: base, name: orig}, nil
}

func (b *PathRewriteFs) LstatIfPossible(name string) (os.FileInfo, bool, error) {
	name, err := b.Rewrite(FsOpLstat, name)
	if err != nil {
		return nil, false, &os.PathError{Op: FsOpLstat, Path: name, Err: err}
	}
	if lstater, ok := b.Base.(afero.Lstater); ok {
		return lstater.LstatIfPossible(name)
	}
	fi, err := b.Base.Stat(name)
	return fi, false, err
}

func (b *PathRewriteFs) SymlinkIfPossible(oldname, newname string) error {
	newname, err := b.Rewrite(FsOpSymlink, newname)
	if err != nil {
		return &os.LinkError{Op: FsOpSymlink, Old: oldname, New: newname, Err: err}
	}
	if linker, ok := b.Base.(afero.Linker); ok {
		return linker.SymlinkIfPossible(oldname, newname)
	}
	return &os.LinkError{Op: FsOpSymlink, Old: oldname, New: newname, Err: afero.ErrNoSymlink}
}

func (b *PathRewriteFs) ReadlinkIfPossible(name string) (string, error) {
	name, err := b.Rewrite(FsOpReadlink, name)
	if err != nil {
		return "", &os.PathError{Op: FsOpReadlink, Path: name, Err: err}
	}
	if reader, ok := b.Base.(afero.LinkReader); ok {
		return reader.ReadlinkIfPossible(name)
	}
	return "", &os.PathError{Op: FsOpReadlink, Path: name, Err: afero.ErrNoReadlink}
}
