package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestParseSubscriberName_256GraphemesIsValid(t *testing.T) {
	t.Parallel()

	// "a" followed by a combining candrabindu renders as one character.
	name := strings.Repeat("a̐", 256)
	if _, err := ParseSubscriberName(name); err != nil {
		t.Fatalf("ParseSubscriberName() err=%v, want nil", err)
	}
}

func TestParseSubscriberName_LongerThan256GraphemesIsRejected(t *testing.T) {
	t.Parallel()

	if _, err := ParseSubscriberName(strings.Repeat("a", 257)); err == nil {
		t.Fatalf("expected error for 257-character name")
	}
	if _, err := ParseSubscriberName(strings.Repeat("a̐", 257)); err == nil {
		t.Fatalf("expected error for 257-grapheme name")
	}
}

func TestParseSubscriberName_BlankIsRejected(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", " ", "\t\n  "} {
		if _, err := ParseSubscriberName(in); err == nil {
			t.Fatalf("ParseSubscriberName(%q) err=nil, want error", in)
		}
	}
}

func TestParseSubscriberName_ForbiddenCharactersAreRejected(t *testing.T) {
	t.Parallel()

	for _, c := range []string{"/", "(", ")", "<", ">", `\`, "{", "}"} {
		for _, in := range []string{c, "ursula" + c, c + " Le Guin"} {
			_, err := ParseSubscriberName(in)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("ParseSubscriberName(%q) err=%v, want *ValidationError", in, err)
			}
			if ve.Field != "name" || ve.Input != in {
				t.Fatalf("ValidationError=%+v, want field=name input=%q", ve, in)
			}
		}
	}
}

func TestParseSubscriberName_ValidNameIsParsed(t *testing.T) {
	t.Parallel()

	n, err := ParseSubscriberName("ursula Le Guin")
	if err != nil {
		t.Fatalf("ParseSubscriberName() err=%v", err)
	}
	if n.String() != "ursula Le Guin" {
		t.Fatalf("String()=%q", n.String())
	}
}

func TestParseSubscriberName_ErrorNamesTheInput(t *testing.T) {
	t.Parallel()

	_, err := ParseSubscriberName("<script>")
	if err == nil || !strings.Contains(err.Error(), `"<script>"`) {
		t.Fatalf("err=%v, want message naming the input", err)
	}
}

func TestSubscriberName_TakeResetsWrapper(t *testing.T) {
	t.Parallel()

	n, err := ParseSubscriberName("Ursula")
	if err != nil {
		t.Fatalf("ParseSubscriberName() err=%v", err)
	}
	if got := n.Take(); got != "Ursula" {
		t.Fatalf("Take()=%q, want %q", got, "Ursula")
	}
	if n.String() != "" {
		t.Fatalf("String() after Take=%q, want empty", n.String())
	}
}

// UnsafeMut can break the invariant established at construction; this test pins
// that hazard down so a change in behaviour is noticed.
func TestSubscriberName_UnsafeMutBypassesValidation(t *testing.T) {
	t.Parallel()

	n, err := ParseSubscriberName("Ursula")
	if err != nil {
		t.Fatalf("ParseSubscriberName() err=%v", err)
	}
	*n.UnsafeMut() = "{invalid}"
	if n.String() != "{invalid}" {
		t.Fatalf("String()=%q, want mutated value", n.String())
	}
	if _, err := ParseSubscriberName(n.String()); err == nil {
		t.Fatalf("mutated value unexpectedly passes validation")
	}
}
