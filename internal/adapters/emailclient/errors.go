package emailclient

import (
	"errors"
	"fmt"
)

// Kind classifies a failed delivery.
type Kind int

const (
	// KindTimeout means no response arrived within the configured timeout or the
	// caller's deadline.
	KindTimeout Kind = iota + 1
	// KindTransport means the request could not be completed (DNS, refused
	// connection, reset, caller cancellation).
	KindTransport
	// KindRejected means the relay answered with a non-2xx status.
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindTransport:
		return "transport"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// DeliveryError reports a failed Send. It never carries the authorization token.
type DeliveryError struct {
	Kind Kind
	// Status is the relay's HTTP status code when Kind is KindRejected.
	Status int
	Err    error
}

func (e *DeliveryError) Error() string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindRejected:
		return fmt.Sprintf("email delivery rejected: HTTP %d", e.Status)
	default:
		if e.Err != nil {
			return fmt.Sprintf("email delivery %s: %v", e.Kind, e.Err)
		}
		return "email delivery " + e.Kind.String()
	}
}

func (e *DeliveryError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func IsTimeout(err error) bool {
	var de *DeliveryError
	return errors.As(err, &de) && de.Kind == KindTimeout
}

func IsTransport(err error) bool {
	var de *DeliveryError
	return errors.As(err, &de) && de.Kind == KindTransport
}

// RejectedStatus returns the relay's status code if err is a rejection.
func RejectedStatus(err error) (int, bool) {
	var de *DeliveryError
	if errors.As(err, &de) && de.Kind == KindRejected {
		return de.Status, true
	}
	return 0, false
}
