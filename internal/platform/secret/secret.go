package secret

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

const redacted = "[REDACTED]"

// String holds a sensitive value (passwords, API tokens).
//
// Every formatting and encoding path renders "[REDACTED]"; the raw value is only
// reachable through Expose. The value sits behind a pointer so that printing a
// struct holding a String in an unexported field shows an address, not the value.
type String struct {
	v *string
}

func New(v string) String { return String{v: &v} }

// Expose returns the raw value. Call it at the last possible moment (e.g. when
// setting a request header) and never pass the result to a logger.
func (s String) Expose() string {
	if s.v == nil {
		return ""
	}
	return *s.v
}

func (s String) IsZero() bool { return s.Expose() == "" }

func (s String) String() string   { return redacted }
func (s String) GoString() string { return redacted }

func (s String) MarshalJSON() ([]byte, error) { return json.Marshal(redacted) }
func (s String) MarshalText() ([]byte, error) { return []byte(redacted), nil }

// UnmarshalText lets config decoders (yaml, env) populate the value.
func (s *String) UnmarshalText(b []byte) error {
	*s = New(string(b))
	return nil
}

// UnmarshalYAML accepts any scalar, so numeric-looking passwords keep their
// literal spelling.
func (s *String) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return &yaml.TypeError{Errors: []string{"secret must be a scalar value"}}
	}
	*s = New(value.Value)
	return nil
}
