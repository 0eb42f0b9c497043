package hub

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

var (
	ErrUnauthorized = errors.New("hub: authentication required or token rejected")
	ErrGated        = errors.New("hub: access to repository is restricted")
	ErrRepoNotFound = errors.New("hub: repository or revision not found")
	ErrHTTPStatus   = errors.New("hub: unexpected http status")
	ErrChecksum     = errors.New("hub: checksum mismatch")
	ErrSizeMismatch = errors.New("hub: size mismatch")
	ErrUnsafePath   = errors.New("hub: file path escapes target directory")
	ErrCacheLocked  = errors.New("hub: cache is locked by another process")
)

// StatusError is a non-success http reply. It unwraps to one of the hub
// errors above.
type StatusError struct {
	Status int
	URL    string
	kind   error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %d %s [%s]", e.kind, e.Status, http.StatusText(e.Status), e.URL)
}

func (e *StatusError) Unwrap() error {
	return e.kind
}

// Temporary reports whether repeating the request may succeed.
func (e *StatusError) Temporary() bool {
	return isTemporaryStatus(e.Status)
}

func isTemporaryStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// statusError maps a non-success http reply on URL to one of the hub errors.
func statusError(status int, URL string) error {
	var kind error
	switch status {
	case http.StatusUnauthorized:
		kind = ErrUnauthorized
	case http.StatusForbidden:
		kind = ErrGated
	case http.StatusNotFound:
		kind = ErrRepoNotFound
	default:
		kind = ErrHTTPStatus
	}
	return &StatusError{Status: status, URL: URL, kind: kind}
}

// isRetryable reports whether a failed download is worth another attempt:
// temporary http statuses and transport errors, unless ctx is done.
func isRetryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Temporary()
	}
	var ue *url.Error
	return errors.As(err, &ue)
}
