package hub

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

const lockRetryDelay = 250 * time.Millisecond

var lockLog = log.Sub("Lock")

// lockRepo takes the cache lock of a repository folder, waiting at most
// timeout for another holder to release it.
func lockRepo(ctx context.Context, cacheDir, folder string, timeout time.Duration) (*flock.Flock, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, errors.Wrap(err, "Create folder ["+cacheDir+"] failed")
	}

	lockPath := filepath.Join(cacheDir, folder+".lock")
	fileLock := flock.New(lockPath)

	lockCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	locked, err := fileLock.TryLockContext(lockCtx, lockRetryDelay)
	if err == nil && locked {
		lockLog.Trace("Acquired %s.", lockPath)
		return fileLock, nil
	}
	lockLog.Warn("Could not lock %s: %v.", lockPath, err)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil && lockCtx.Err() == nil {
		return nil, errors.Wrap(err, "Lock ["+lockPath+"] failed")
	}
	return nil, errors.Wrap(ErrCacheLocked, lockPath)
}
