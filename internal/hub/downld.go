package hub

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// download fetches URL into path. An existing partial file at path is
// continued with a range request when resume is set and it is shorter than
// expected bytes; otherwise it is discarded. A negative expected means the
// size is unknown.
func (c *Client) download(ctx context.Context, URL string, path string, resume bool, expected int64) (written int64, err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0755); err != nil {
		err = errors.Wrap(err, "Create folder ["+dir+"] failed")
		return
	}

	var offset int64
	if info, statErr := os.Stat(path); statErr == nil {
		if resume && (expected < 0 || info.Size() < expected) {
			offset = info.Size()
		} else if err = os.Remove(path); err != nil {
			err = errors.Wrap(err, "Remove partial file ["+path+"] failed")
			return
		}
	}

	req := c.raw.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)
	if offset > 0 {
		req.SetHeader("Range", fmt.Sprintf("bytes=%d-", offset))
	}
	resp, err := req.Get(URL)
	if err != nil {
		err = errors.Wrap(err, "Download ["+URL+"] failed")
		return
	}
	body := resp.RawBody()
	defer func(body io.ReadCloser) {
		_ = body.Close()
	}(body)

	flags := os.O_CREATE | os.O_WRONLY
	switch resp.StatusCode() {
	case http.StatusPartialContent:
		log.Trace("Resuming %s at %d bytes.", URL, offset)
		flags |= os.O_APPEND
	case http.StatusOK:
		if offset > 0 {
			log.Trace("Range ignored by server, restarting %s.", URL)
		}
		flags |= os.O_TRUNC
	case http.StatusRequestedRangeNotSatisfiable:
		if offset > 0 {
			// partial file already holds the whole content
			return
		}
		fallthrough
	default:
		err = statusError(resp.StatusCode(), URL)
		return
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		err = errors.Wrap(err, "Create file ["+path+"] failed")
		return
	}
	written, err = io.Copy(f, body)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		err = errors.Wrap(err, "Saving ["+URL+"] to ["+path+"] failed")
	}
	return
}
