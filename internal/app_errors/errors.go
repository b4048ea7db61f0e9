package app_errors

import (
	"errors"
	"fmt"
	"net"
)

var (
	ErrRateLimiter = errors.New("rate limiter error")
	ErrBadData     = errors.New("malformed data")
)

// Kind is the failure class surfaced at the orchestrator boundary.
type Kind int

const (
	KindUnknown Kind = iota
	KindTimeout
	KindConnection
	KindStatus
	KindBadData
)

// StatusError is a non-2xx marketplace response.
type StatusError struct {
	StatusCode int
	Status     string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %s", e.Status)
}

// KindOf classifies an error from a sync run. Timeouts and connection
// failures are reported distinctly; everything else collapses into the
// status, bad-data or unknown kind.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return KindStatus
	}

	if errors.Is(err, ErrBadData) {
		return KindBadData
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnection
	}

	return KindUnknown
}
