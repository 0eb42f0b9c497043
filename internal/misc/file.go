package misc

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

func IsFileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || os.IsExist(err)
}

// HasSize reports whether path is a regular file of exactly size bytes.
func HasSize(path string, size int64) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() == size
}

// MoveFile renames src to dst, creating the parent of dst. When a rename is
// not possible (e.g. across devices) the content is copied and src removed.
func MoveFile(src, dst string) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "Create folder ["+dir+"] failed")
	}
	// a stale symlink at dst must not redirect the write into the cache
	if info, err := os.Lstat(dst); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if err = os.Remove(dst); err != nil {
			return errors.Wrap(err, "Remove link ["+dst+"] failed")
		}
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return errors.Wrap(err, "Remove file ["+src+"] failed")
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "Open file ["+src+"] failed")
	}
	defer func(in *os.File) {
		_ = in.Close()
	}(in)

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrap(err, "Create file ["+dst+"] failed")
	}
	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.Wrap(err, "Copy ["+src+"] to ["+dst+"] failed")
	}
	return errors.Wrap(out.Close(), "Close file ["+dst+"] failed")
}
