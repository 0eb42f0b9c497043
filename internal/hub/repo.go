package hub

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// RepoInfo is the subset of the model info reply used for a snapshot.
type RepoInfo struct {
	ID       string    `json:"id"`
	SHA      string    `json:"sha"`
	Siblings []Sibling `json:"siblings"`
}

// Sibling is one file of a repository revision.
type Sibling struct {
	Path   string   `json:"rfilename"`
	Size   *int64   `json:"size,omitempty"`
	BlobID string   `json:"blobId,omitempty"`
	LFS    *LFSInfo `json:"lfs,omitempty"`
}

type LFSInfo struct {
	SHA256 string `json:"sha256"`
	Size   int64  `json:"size"`
}

// ExpectedSize returns the file size announced by the hub, if any.
func (s Sibling) ExpectedSize() (int64, bool) {
	if s.LFS != nil {
		return s.LFS.Size, true
	}
	if s.Size != nil {
		return *s.Size, true
	}
	return 0, false
}

// BlobName names the blob of this file inside the repository cache.
func (s Sibling) BlobName() string {
	switch {
	case s.LFS != nil && s.LFS.SHA256 != "":
		return s.LFS.SHA256
	case s.BlobID != "":
		return s.BlobID
	default:
		return strings.ReplaceAll(s.Path, "/", "--")
	}
}

// RepoFolderName is the cache folder of a model repository, e.g.
// "ByteDance-Seed/BAGEL-7B-MoT" -> "models--ByteDance-Seed--BAGEL-7B-MoT".
func RepoFolderName(repoID string) string {
	return "models--" + strings.ReplaceAll(repoID, "/", "--")
}

// RepoInfo fetches the file listing of repoID at revision.
func (c *Client) RepoInfo(ctx context.Context, repoID, revision string) (*RepoInfo, error) {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetRawPathParams(map[string]string{
			"repo":     repoID,
			"revision": url.PathEscape(revision),
		}).
		SetQueryParam("blobs", "true").
		ForceContentType("application/json").
		SetResult(&RepoInfo{}).
		Get(c.endpoint + "/api/models/{repo}/revision/{revision}")
	if err != nil {
		return nil, errors.Wrap(err, "Failed to retrieve repository info ["+repoID+"@"+revision+"]")
	}
	if resp.IsError() {
		return nil, statusError(resp.StatusCode(), resp.Request.URL)
	}

	info, ok := resp.Result().(*RepoInfo)
	if !ok || info == nil {
		return nil, errors.New("empty repository info [" + repoID + "@" + revision + "]")
	}
	return info, nil
}

// resolveURL is the download location of path in repoID at revision.
func (c *Client) resolveURL(repoID, revision, path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return c.endpoint + "/" + repoID + "/resolve/" + url.PathEscape(revision) + "/" + strings.Join(segments, "/")
}

// localPath joins a repository file path below dir, rejecting paths that
// would leave dir.
func localPath(dir, path string) (string, error) {
	rel := filepath.FromSlash(path)
	if !filepath.IsLocal(rel) {
		return "", errors.Wrap(ErrUnsafePath, path)
	}
	return filepath.Join(dir, rel), nil
}
