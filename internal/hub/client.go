// Package hub retrieves model repository snapshots from a Hugging Face
// compatible hub.
package hub

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/edward-yakop/go-hfsnap/internal/core"
	"github.com/edward-yakop/go-hfsnap/internal/misc"
)

const (
	DefaultEndpoint    = "https://huggingface.co"
	DefaultUserAgent   = "go-hfsnap/1.0"
	DefaultRetryCount  = 3
	DefaultLockTimeout = 10 * time.Minute
)

var log = misc.NewLogger("Hub", 2)

// Options of a hub Client. Zero values select the defaults.
type Options struct {
	Endpoint    string
	Token       string
	UserAgent   string
	RetryCount  int
	RetryWait   time.Duration
	LockTimeout time.Duration
	HTTPClient  *http.Client
}

// Client downloads repository snapshots. It implements core.Fetcher.
type Client struct {
	// rest retries by itself; raw streams file bodies and is retried by
	// fetchFile so a dropped attempt's body is always closed.
	rest        *resty.Client
	raw         *resty.Client
	endpoint    string
	retryCount  int
	retryWait   time.Duration
	lockTimeout time.Duration
}

var _ core.Fetcher = &Client{}

func NewClient(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.RetryCount == 0 {
		opts.RetryCount = DefaultRetryCount
	}
	if opts.RetryWait == 0 {
		opts.RetryWait = 2 * time.Second
	}
	if opts.LockTimeout == 0 {
		opts.LockTimeout = DefaultLockTimeout
	}

	rest := newRestClient(opts).
		SetRetryCount(opts.RetryCount).
		SetRetryWaitTime(opts.RetryWait).
		SetRetryMaxWaitTime(4 * opts.RetryWait).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return isTemporaryStatus(resp.StatusCode())
		})

	return &Client{
		rest:        rest,
		raw:         newRestClient(opts),
		endpoint:    strings.TrimRight(opts.Endpoint, "/"),
		retryCount:  opts.RetryCount,
		retryWait:   opts.RetryWait,
		lockTimeout: opts.LockTimeout,
	}
}

func newRestClient(opts Options) *resty.Client {
	var rest *resty.Client
	if opts.HTTPClient != nil {
		rest = resty.NewWithClient(opts.HTTPClient)
	} else {
		rest = resty.New()
	}
	rest.SetHeader("User-Agent", opts.UserAgent)
	if opts.Token != "" {
		rest.SetAuthToken(opts.Token)
	}
	return rest
}

// Snapshot downloads every file of req.RepoID at req.Revision matching
// req.AllowPatterns into req.LocalDir. Files that fail are reported together
// after all others were attempted.
func (c *Client) Snapshot(ctx context.Context, req core.SnapshotRequest) error {
	if err := req.Validate(); err != nil {
		return errors.Wrap(err, "invalid snapshot request")
	}
	if req.Revision == "" {
		req.Revision = "main"
	}

	filter, err := NewFilter(req.AllowPatterns)
	if err != nil {
		return err
	}

	folder := RepoFolderName(req.RepoID)
	repoCache := filepath.Join(req.CacheDir, folder)
	fileLock, err := lockRepo(ctx, req.CacheDir, folder, c.lockTimeout)
	if err != nil {
		return err
	}
	defer func() {
		_ = fileLock.Unlock()
	}()

	info, err := c.RepoInfo(ctx, req.RepoID, req.Revision)
	if err != nil {
		return err
	}
	commit := info.SHA
	if commit == "" {
		commit = req.Revision
	}

	files := filter.Apply(info.Siblings)
	log.Info("%s@%s: %d of %d files selected.", req.RepoID, commit, len(files), len(info.Siblings))

	var result *multierror.Error
	for i, file := range files {
		if err = ctx.Err(); err != nil {
			result = multierror.Append(result, err)
			break
		}
		log.Info("[%d/%d] %s", i+1, len(files), file.Path)
		if err = c.fetchFile(ctx, req, repoCache, commit, file); err != nil {
			log.Error("Fetch %s failed: %v.", file.Path, err)
			result = multierror.Append(result, errors.Wrap(err, file.Path))
		}
	}

	if err = writeRef(repoCache, req.Revision, commit); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

func (c *Client) fetchFile(ctx context.Context, req core.SnapshotRequest, repoCache, commit string, file Sibling) error {
	target, err := localPath(req.LocalDir, file.Path)
	if err != nil {
		return err
	}
	size, sized := file.ExpectedSize()

	blob, err := localPath(filepath.Join(repoCache, "blobs"), file.BlobName())
	if err != nil {
		return err
	}
	if req.UseSymlinks {
		if sized && misc.HasSize(blob, size) {
			log.Trace("Cached %s.", file.Path)
			return linkBlob(blob, target)
		}
	} else if sized && isRegular(target) && misc.HasSize(target, size) {
		log.Trace("Up to date %s.", file.Path)
		return nil
	}

	// partials are keyed by blob, not by repository path
	incomplete := blob + ".incomplete"
	expected := int64(-1)
	if sized {
		expected = size
	}

	URL := c.resolveURL(req.RepoID, commit, file.Path)
	var written int64
	for retry := 0; ; retry++ {
		written, err = c.download(ctx, URL, incomplete, req.Resume, expected)
		if err == nil || retry >= c.retryCount || !isRetryable(ctx, err) {
			break
		}
		log.Warn("[%d] Download %s failed: %v.", retry, file.Path, err)
		if err = c.delay(ctx, retry); err != nil {
			return err
		}
	}
	if err != nil {
		return err
	}
	log.Trace("Wrote %d bytes of %s.", written, file.Path)

	if sized && !misc.HasSize(incomplete, size) {
		_ = os.Remove(incomplete)
		return errors.Wrapf(ErrSizeMismatch, "expected %d bytes [%s]", size, file.Path)
	}
	if file.LFS != nil && file.LFS.SHA256 != "" {
		if err = verifyChecksum(incomplete, file.LFS.SHA256); err != nil {
			_ = os.Remove(incomplete)
			return err
		}
	}

	if req.UseSymlinks {
		if err = misc.MoveFile(incomplete, blob); err != nil {
			return err
		}
		return linkBlob(blob, target)
	}
	return misc.MoveFile(incomplete, target)
}

// delay waits before the next download attempt, doubling per retry up to
// four times the configured wait.
func (c *Client) delay(ctx context.Context, retry int) error {
	wait := c.retryWait
	for i := 0; i < retry && wait < 4*c.retryWait; i++ {
		wait *= 2
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isRegular(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode().IsRegular()
}

// linkBlob points target at blob with a relative symlink.
func linkBlob(blob, target string) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "Create folder ["+dir+"] failed")
	}
	if _, err := os.Lstat(target); err == nil {
		if err = os.Remove(target); err != nil {
			return errors.Wrap(err, "Remove ["+target+"] failed")
		}
	}

	src := blob
	if absDir, err := filepath.Abs(dir); err == nil {
		if absBlob, err := filepath.Abs(blob); err == nil {
			if rel, err := filepath.Rel(absDir, absBlob); err == nil {
				src = rel
			}
		}
	}
	return errors.Wrap(os.Symlink(src, target), "Link ["+target+"] failed")
}

// writeRef records the commit a revision resolved to.
func writeRef(repoCache, revision, commit string) error {
	ref, err := localPath(filepath.Join(repoCache, "refs"), revision)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(ref), 0755); err != nil {
		return errors.Wrap(err, "Create folder ["+filepath.Dir(ref)+"] failed")
	}
	return errors.Wrap(os.WriteFile(ref, []byte(commit), 0644), "Write ref ["+ref+"] failed")
}
