package app

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind of a download-and-verify outcome
type Kind int

const (
	KindOK Kind = iota
	KindRetrievalFailed
	KindIncomplete
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindRetrievalFailed:
		return "retrieval failed"
	case KindIncomplete:
		return "incomplete"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	ErrRetrieval  = errors.New("retrieval failed")
	ErrIncomplete = errors.New("essential files missing")
)

// Result of App.Execute
type Result struct {
	Kind Kind
	// Cause is the retrieval error when Kind is KindRetrievalFailed.
	Cause error
	// Missing essential files, in checklist order, when Kind is KindIncomplete.
	Missing []string
}

func (r Result) OK() bool {
	return r.Kind == KindOK
}

// ExitCode 0 on success, 1 otherwise.
func (r Result) ExitCode() int {
	if r.OK() {
		return 0
	}
	return 1
}

// Err is nil on success. Failures match ErrRetrieval or ErrIncomplete with
// errors.Is, and unwrap to the retrieval cause.
func (r Result) Err() error {
	switch r.Kind {
	case KindOK:
		return nil
	case KindRetrievalFailed:
		return &resultError{sentinel: ErrRetrieval, cause: r.Cause}
	case KindIncomplete:
		return &resultError{sentinel: ErrIncomplete, cause: errors.Errorf("%v", r.Missing)}
	default:
		return errors.Errorf("unknown result kind %s", r.Kind)
	}
}

type resultError struct {
	sentinel error
	cause    error
}

func (e *resultError) Error() string {
	if e.cause == nil {
		return e.sentinel.Error()
	}
	return e.sentinel.Error() + ": " + e.cause.Error()
}

func (e *resultError) Is(target error) bool {
	return target == e.sentinel
}

func (e *resultError) Unwrap() error {
	return e.cause
}

func retrievalFailed(err error) Result {
	return Result{Kind: KindRetrievalFailed, Cause: err}
}
