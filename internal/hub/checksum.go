package hub

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/pkg/errors"
)

func verifyChecksum(path, expected string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "Open file ["+path+"] failed")
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	h := sha256.New()
	if _, err = io.Copy(h, f); err != nil {
		return errors.Wrap(err, "Hash file ["+path+"] failed")
	}
	if actual := hex.EncodeToString(h.Sum(nil)); actual != expected {
		return errors.Wrapf(ErrChecksum, "expected %s, got %s [%s]", expected, actual, path)
	}
	return nil
}
