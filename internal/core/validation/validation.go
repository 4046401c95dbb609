// Package validation holds the syntactic checks applied to credentials
// before they reach the hasher or the store.
package validation

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const MinPasswordLength = 8

// Password rule messages, reported in this order.
const (
	MsgPasswordLength    = "password must be at least 8 characters long"
	MsgPasswordUppercase = "password must contain at least one uppercase letter"
	MsgPasswordLowercase = "password must contain at least one lowercase letter"
	MsgPasswordDigit     = "password must contain at least one digit"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail checks shape only: local part, '@', and a dotted domain.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// PasswordResult lists every rule a password violates.
type PasswordResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidatePassword evaluates all strength rules without stopping at the
// first failure.
func ValidatePassword(s string) PasswordResult {
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}

	var errs []string
	if utf8.RuneCountInString(s) < MinPasswordLength {
		errs = append(errs, MsgPasswordLength)
	}
	if !upper {
		errs = append(errs, MsgPasswordUppercase)
	}
	if !lower {
		errs = append(errs, MsgPasswordLowercase)
	}
	if !digit {
		errs = append(errs, MsgPasswordDigit)
	}

	return PasswordResult{Valid: len(errs) == 0, Errors: errs}
}

// Register installs the email_syntax and password_strength tags on v.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("email_syntax", func(fl validator.FieldLevel) bool {
		return IsValidEmail(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("password_strength", func(fl validator.FieldLevel) bool {
		return ValidatePassword(fl.Field().String()).Valid
	})
}
