package validation

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// Required fails when the value is absent or an empty string.
func Required(message string) Rule {
	return func(ctx context.Context, value any, bag *Bag) (any, error) {
		if value == nil {
			return nil, errors.New(message)
		}
		if s, ok := value.(string); ok && strings.TrimSpace(s) == "" {
			return nil, errors.New(message)
		}
		return value, nil
	}
}

// IsString asserts the raw JSON value is a string.
func IsString(message string) Rule {
	return func(ctx context.Context, value any, bag *Bag) (any, error) {
		s, ok := value.(string)
		if !ok {
			return nil, errors.New(message)
		}
		return s, nil
	}
}

// Trim normalizes a string by stripping surrounding whitespace.
func Trim() Rule {
	return func(ctx context.Context, value any, bag *Bag) (any, error) {
		s, _ := value.(string)
		return strings.TrimSpace(s), nil
	}
}

// Length enforces inclusive rune-count bounds on a string.
func Length(min, max int, message string) Rule {
	return func(ctx context.Context, value any, bag *Bag) (any, error) {
		s, _ := value.(string)
		n := len([]rune(s))
		if n < min || n > max {
			return nil, errors.New(message)
		}
		return s, nil
	}
}

// IsEmail checks address syntax and rejects forms with a display name.
func IsEmail(message string) Rule {
	return func(ctx context.Context, value any, bag *Bag) (any, error) {
		s, _ := value.(string)
		addr, err := mail.ParseAddress(s)
		if err != nil || addr.Address != s {
			return nil, errors.New(message)
		}
		return s, nil
	}
}

// IsStrongPassword requires at least one lowercase, one uppercase, one
// digit and one symbol, with a minimum length of 6.
func IsStrongPassword(message string) Rule {
	return func(ctx context.Context, value any, bag *Bag) (any, error) {
		s, _ := value.(string)
		if len([]rune(s)) < 6 {
			return nil, errors.New(message)
		}
		var lower, upper, digit, symbol bool
		for _, r := range s {
			switch {
			case unicode.IsLower(r):
				lower = true
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsDigit(r):
				digit = true
			default:
				symbol = true
			}
		}
		if !lower || !upper || !digit || !symbol {
			return nil, errors.New(message)
		}
		return s, nil
	}
}

// EqualsField compares the value against another field validated earlier
// in the same schema (e.g. confirm_password against password).
func EqualsField(other, message string) Rule {
	return func(ctx context.Context, value any, bag *Bag) (any, error) {
		s, _ := value.(string)
		if s != bag.String(other) {
			return nil, errors.New(message)
		}
		return s, nil
	}
}

// IsISO8601 parses a strict ISO-8601 date-time with separators and
// normalizes the field to a time.Time.
func IsISO8601(message string) Rule {
	return func(ctx context.Context, value any, bag *Bag) (any, error) {
		s, ok := value.(string)
		if !ok {
			return nil, errors.New(message)
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, errors.New(message)
		}
		return t, nil
	}
}

// Matches enforces a fixed pattern on the whole string.
func Matches(re *regexp.Regexp, message string) Rule {
	return func(ctx context.Context, value any, bag *Bag) (any, error) {
		s, _ := value.(string)
		if !re.MatchString(s) {
			return nil, errors.New(message)
		}
		return s, nil
	}
}

// IsUUID checks the value looks like a valid opaque id and normalizes it
// to a uuid.UUID. Fails with the given StatusError when it does not.
func IsUUID(fail *StatusError) Rule {
	return func(ctx context.Context, value any, bag *Bag) (any, error) {
		s, _ := value.(string)
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fail
		}
		return id, nil
	}
}
