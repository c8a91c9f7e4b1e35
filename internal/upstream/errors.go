package upstream

import (
	"errors"
	"fmt"
)

// Kind classifies an upstream failure by how callers should react to it.
type Kind int

const (
	// KindTransient covers network errors and timeouts. Callers may retry.
	KindTransient Kind = iota + 1
	// KindQuotaExceeded means the credential allowance for the period is used up.
	KindQuotaExceeded
	// KindFatal is any other non-2xx response or an unusable payload.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindTransient:
		return "transient"
	case KindQuotaExceeded:
		return "quota exceeded"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

var (
	ErrQuotaExceeded = errors.New("upstream quota exceeded")
	ErrTransient     = errors.New("upstream temporarily unavailable")
	ErrFatal         = errors.New("upstream request failed")

	// ErrNoCredentialsAvailable is returned when every key is exhausted. It
	// matches ErrQuotaExceeded under errors.Is.
	ErrNoCredentialsAvailable = fmt.Errorf("%w: no credentials available", ErrQuotaExceeded)
)

// Error is the tagged error returned by Client. Use errors.Is against the
// sentinel errors above, or errors.As to read the status code and body.
type Error struct {
	Kind       Kind
	Endpoint   string
	StatusCode int
	Body       string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("upstream %s: %s", e.Endpoint, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrQuotaExceeded:
		return e.Kind == KindQuotaExceeded
	case ErrTransient:
		return e.Kind == KindTransient
	case ErrFatal:
		return e.Kind == KindFatal
	}
	return false
}

// KindOf returns the Kind of err, or 0 when err did not come from this package.
func KindOf(err error) Kind {
	var uerr *Error
	if errors.As(err, &uerr) {
		return uerr.Kind
	}
	return 0
}
