package domain

import "net/mail"

// SubscriberEmail is an email address that passed syntax validation.
type SubscriberEmail struct {
	value string
}

// ParseSubscriberEmail accepts a bare RFC 5322 address ("local@domain").
// Display-name forms such as "Ursula <ursula@example.com>" are rejected.
func ParseSubscriberEmail(raw string) (SubscriberEmail, error) {
	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return SubscriberEmail{}, &ValidationError{Field: "email", Input: raw, Reason: "must be a valid email address"}
	}
	if addr.Address != raw {
		return SubscriberEmail{}, &ValidationError{Field: "email", Input: raw, Reason: "must be a bare email address"}
	}
	return SubscriberEmail{value: raw}, nil
}

func (e SubscriberEmail) String() string { return e.value }
