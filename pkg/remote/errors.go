package remote

import (
	"context"
	"net"

	"gitlab.com/tozd/go/errors"
)

// ErrNotFound is wrapped by backends when the asset being removed does not
// exist on the remote. It is always paired with a fatal marker.
var ErrNotFound = errors.Base("asset not found on remote")

// 🔁 TransientError is a remote failure worth retrying (timeout, rate limit, 5xx)
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// 🛑 FatalError is a remote failure that will not go away on retry (auth, validation)
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return "fatal: " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// Transient marks err as retryable
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// Fatal marks err as not retryable
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsTransient classifies err. The outermost explicit marker wins; unmarked
// deadline and network errors are transient, everything else is fatal.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		switch e.(type) {
		case *TransientError:
			return true
		case *FatalError:
			return false
		}
	}

	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
