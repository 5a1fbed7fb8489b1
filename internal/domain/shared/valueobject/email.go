package valueobject

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MaxEmailLength bounds stored addresses.
const MaxEmailLength = 250

var emailValidator = validator.New()

// Email is an optional e-mail address. The zero value means "not set".
type Email struct {
	value string
}

// NewEmail validates raw. An empty string yields the zero Email.
func NewEmail(raw string) (Email, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Email{}, nil
	}
	if utf8.RuneCountInString(raw) > MaxEmailLength {
		return Email{}, fmt.Errorf("email cannot exceed %d characters", MaxEmailLength)
	}
	if err := emailValidator.Var(raw, "email"); err != nil {
		return Email{}, fmt.Errorf("invalid email address: %q", raw)
	}
	return Email{value: raw}, nil
}

// MustNewEmail panics on invalid input; intended for tests and fixtures.
func MustNewEmail(raw string) Email {
	e, err := NewEmail(raw)
	if err != nil {
		panic(err)
	}
	return e
}

// String returns the address or an empty string
func (e Email) String() string {
	return e.value
}

// IsEmpty reports whether no address is set
func (e Email) IsEmpty() bool {
	return e.value == ""
}

// RestoreEmail rebuilds an Email from trusted storage without validation.
func RestoreEmail(raw string) Email {
	return Email{value: raw}
}
