package testutils

import (
	"github.com/mandelsoft/goutils/errors"
	"github.com/mandelsoft/vfs/pkg/composefs"
	"github.com/mandelsoft/vfs/pkg/layerfs"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/projectionfs"
	"github.com/mandelsoft/vfs/pkg/readonlyfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
)

// TestFileSystem provides a file system based on a temporary directory.
// The given directories of the OS file system are mounted at the same
// path. Unless readonly is set, modifications of mounted files are kept
// in a temporary layer and never reach the OS file system.
// The file system must be released with vfs.Cleanup.
func TestFileSystem(readonly bool, dirs ...string) (vfs.FileSystem, error) {
	tmpfs, err := osfs.NewTempFileSystem()
	if err != nil {
		return nil, err
	}
	defer func() {
		if tmpfs != nil {
			vfs.Cleanup(tmpfs)
		}
	}()

	fs := composefs.New(tmpfs, "/tmp")
	for _, dir := range dirs {
		if err := mount(fs, tmpfs, dir, readonly); err != nil {
			return nil, errors.Wrapf(err, "cannot mount %s", dir)
		}
	}
	tmpfs = nil
	return fs, nil
}

type mounter interface {
	Mount(path string, fs vfs.FileSystem) error
}

func mount(fs mounter, tmpfs vfs.FileSystem, dir string, readonly bool) error {
	err := tmpfs.MkdirAll(dir, 0o700)
	if err != nil {
		return err
	}
	overlay, err := projectionfs.New(osfs.OsFs, dir)
	if err != nil {
		return err
	}
	if readonly {
		overlay = readonlyfs.New(overlay)
	} else {
		o, err := projectionfs.New(tmpfs, dir)
		if err != nil {
			return err
		}
		overlay = layerfs.New(o, overlay)
	}
	return fs.Mount(dir, overlay)
}
