package domain

import (
	"strings"

	"github.com/rivo/uniseg"
)

// MaxSubscriberNameLength is measured in grapheme clusters, not bytes or runes.
const MaxSubscriberNameLength = 256

const forbiddenNameCharacters = `/()<>\{}`

// SubscriberName is a display name that passed validation.
//
// The zero value is not a valid name; obtain one through ParseSubscriberName.
type SubscriberName struct {
	value string
}

// ParseSubscriberName validates raw and wraps it. A name is rejected when it is
// empty or whitespace-only, longer than MaxSubscriberNameLength grapheme
// clusters, or contains any of / ( ) < > \ { }.
func ParseSubscriberName(raw string) (SubscriberName, error) {
	isBlank := strings.TrimSpace(raw) == ""
	isTooLong := uniseg.GraphemeClusterCount(raw) > MaxSubscriberNameLength
	hasForbidden := strings.ContainsAny(raw, forbiddenNameCharacters)

	switch {
	case isBlank:
		return SubscriberName{}, &ValidationError{Field: "name", Input: raw, Reason: "must not be blank"}
	case isTooLong:
		return SubscriberName{}, &ValidationError{Field: "name", Input: raw, Reason: "must be at most 256 characters"}
	case hasForbidden:
		return SubscriberName{}, &ValidationError{Field: "name", Input: raw, Reason: `must not contain any of / ( ) < > \ { }`}
	}
	return SubscriberName{value: raw}, nil
}

// String returns the name without giving up the wrapper.
func (n SubscriberName) String() string { return n.value }

// Take returns the inner string and resets n to the zero value. The caller owns
// the string from then on; n no longer holds a name.
func (n *SubscriberName) Take() string {
	v := n.value
	n.value = ""
	return v
}

// UnsafeMut exposes the inner string for in-place modification.
//
// Writes through the returned pointer are not validated and can leave n holding
// a value ParseSubscriberName would reject. The subscription path never calls it.
func (n *SubscriberName) UnsafeMut() *string { return &n.value }
