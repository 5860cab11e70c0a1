package services

import (
	"errors"
	"fmt"
)

// The outbound error channel: these propagate to the booking/pricing caller.
// The inbound webhook boundary never returns them to the remote sender; the
// controllers convert everything to protocol-valid XML instead.

var (
	ErrBookingNotFound = errors.New("booking_not_found")
	// ErrAlreadySent guards the send-exactly-once contract: a correlation id
	// that already has a row can never produce a second payload.
	ErrAlreadySent = errors.New("booking_already_sent")
)

// TransportError is a network-level failure: connect/timeout errors or
// retries exhausted on 5xx. It wraps the last underlying failure.
type TransportError struct {
	Attempts int
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failed after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError is a terminal rejection: a 4xx status or a well-formed
// response carrying <Errors>. Never retried.
type ProtocolError struct {
	StatusCode int
	Remote     string
}

func (e *ProtocolError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote rejected request (HTTP %d): %s", e.StatusCode, e.Remote)
	}
	return fmt.Sprintf("remote rejected request: %s", e.Remote)
}
