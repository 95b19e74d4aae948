package resilience

import (
	"errors"
	"net"
	"strings"
	"syscall"
)

// Transient marks an error as safe to retry, carrying the HTTP status
// that triggered it when applicable.
type Transient struct {
	Err    error
	Status int
}

func (t *Transient) Error() string { return t.Err.Error() }
func (t *Transient) Unwrap() error { return t.Err }

// MarkTransient wraps err as retryable.
func MarkTransient(err error, status int) *Transient {
	return &Transient{Err: err, Status: status}
}

// RetryableStatus reports whether an HTTP status indicates a server-side
// condition that may clear on retry.
func RetryableStatus(status int) bool {
	switch status {
	case 408, 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// IsTransient reports whether err looks like a temporary network or
// server condition. Empty results and parse errors are not transient.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var t *Transient
	if errors.As(err, &t) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, p := range []string{
		"connection reset by peer",
		"no such host",
		"i/o timeout",
		"tls handshake timeout",
		"broken pipe",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
