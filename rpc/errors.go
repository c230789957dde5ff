package rpc

import "github.com/pkg/errors"

var (
	// ErrDependencyTimeout indicates the reply did not arrive within the
	// caller's deadline. The in-flight reply, if it later arrives, is
	// discarded.
	ErrDependencyTimeout = errors.New("dependency timed out")

	// ErrDependencyUnavailable indicates the transport rejected the request
	// (connection refused, channel closed).
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// IsDependencyFailure reports whether err is a transport-level failure.
// Timeout and unavailable are deliberately one class for callers: the
// remediation (retry later) is identical.
func IsDependencyFailure(err error) bool {
	return errors.Is(err, ErrDependencyTimeout) || errors.Is(err, ErrDependencyUnavailable)
}
