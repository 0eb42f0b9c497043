package core

import (
	"context"

	"github.com/pkg/errors"
)

// Fetcher retrieves a remote artifact collection into a local directory.
//
type Fetcher interface {
	Snapshot(ctx context.Context, req SnapshotRequest) error
}

// SnapshotRequest constraints of a single snapshot retrieval
//
type SnapshotRequest struct {
	RepoID   string
	Revision string

	// LocalDir receives the files, laid out as in the repository.
	LocalDir string
	// CacheDir holds partial downloads, blobs and refs.
	CacheDir string

	// UseSymlinks links LocalDir entries to blobs in CacheDir instead of
	// materializing the files.
	UseSymlinks bool
	// Resume continues partial downloads found in CacheDir.
	Resume bool

	// AllowPatterns restricts the retrieved files. Empty means everything.
	AllowPatterns []string
}

func (r SnapshotRequest) Validate() error {
	if r.RepoID == "" {
		return errors.New("missing repository id")
	}
	if r.LocalDir == "" {
		return errors.New("missing local directory")
	}
	if r.CacheDir == "" {
		return errors.New("missing cache directory")
	}
	return nil
}
