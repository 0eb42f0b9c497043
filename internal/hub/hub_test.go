package hub

import (
	"bytes"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/edward-yakop/go-hfsnap/internal/core"
)

type fakeFile struct {
	path string
	data []byte
	lfs  bool
	// badSHA announces a wrong lfs checksum
	badSHA bool
	// unsized leaves the size out of the listing
	unsized bool
	// ignoreRange answers range requests with the whole file
	ignoreRange bool
}

// blobKey is the blob name the listing announces for f.
func (f fakeFile) blobKey() string {
	if f.lfs && !f.badSHA {
		digest := sha256.Sum256(f.data)
		return hex.EncodeToString(digest[:])
	}
	if f.lfs {
		return strings.Repeat("0", 64)
	}
	sum := sha1.Sum(f.data)
	return hex.EncodeToString(sum[:])
}

// fakeHub serves the model info and resolve endpoints of one repository.
type fakeHub struct {
	repo  string
	sha   string
	token string
	files []fakeFile

	mu     sync.Mutex
	ranges map[string]string
	hits   map[string]int
	// failures answers that many requests of a path with 503 first
	failures map[string]int
}

func newFakeHub(t *testing.T, files ...fakeFile) (*fakeHub, *httptest.Server) {
	h := &fakeHub{
		repo:   "org/model",
		sha:    "0123456789abcdef0123456789abcdef01234567",
		files:  files,
		ranges:   map[string]string{},
		hits:     map[string]int{},
		failures: map[string]int{},
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return h, srv
}

func (h *fakeHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.token != "" && r.Header.Get("Authorization") != "Bearer "+h.token {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	infoPath := "/api/models/" + h.repo + "/revision/"
	resolvePath := "/" + h.repo + "/resolve/" + h.sha + "/"
	switch {
	case strings.HasPrefix(r.URL.Path, infoPath):
		h.serveInfo(w)
	case strings.HasPrefix(r.URL.Path, resolvePath):
		h.serveFile(w, r, strings.TrimPrefix(r.URL.Path, resolvePath))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *fakeHub) serveInfo(w http.ResponseWriter) {
	info := RepoInfo{ID: h.repo, SHA: h.sha}
	for _, f := range h.files {
		size := int64(len(f.data))
		sum := sha1.Sum(f.data)
		s := Sibling{Path: f.path, BlobID: hex.EncodeToString(sum[:])}
		if !f.unsized {
			s.Size = &size
		}
		if f.lfs {
			s.LFS = &LFSInfo{SHA256: f.blobKey(), Size: size}
		}
		info.Siblings = append(info.Siblings, s)
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(info)
}

func (h *fakeHub) serveFile(w http.ResponseWriter, r *http.Request, path string) {
	h.mu.Lock()
	h.hits[path]++
	h.ranges[path] = r.Header.Get("Range")
	fail := h.failures[path] > 0
	if fail {
		h.failures[path]--
	}
	h.mu.Unlock()

	if fail {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	for _, f := range h.files {
		if f.path == path {
			if f.ignoreRange {
				r.Header.Del("Range")
			}
			http.ServeContent(w, r, path, time.Time{}, bytes.NewReader(f.data))
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *fakeHub) hitCount(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hits[path]
}

func (h *fakeHub) rangeOf(path string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ranges[path]
}

// partialPath is where an interrupted download of f is kept.
func partialPath(req core.SnapshotRequest, f fakeFile) string {
	return filepath.Join(req.CacheDir, "models--org--model", "blobs", f.blobKey()+".incomplete")
}

func writePartial(t *testing.T, path string, data []byte) {
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func newTestClient(srv *httptest.Server, token string) *Client {
	return NewClient(Options{
		Endpoint:    srv.URL,
		Token:       token,
		RetryCount:  1,
		RetryWait:   10 * time.Millisecond,
		LockTimeout: 300 * time.Millisecond,
	})
}
