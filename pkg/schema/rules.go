package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Rule checks a single field value. A nil return means the value is accepted.
// Rules must be total: they never panic, for any input including "".
type Rule func(value string) error

var (
	digitsOnlyPattern      = regexp.MustCompile(`^[0-9]+$`)
	lettersSpacesPattern   = regexp.MustCompile(`^[a-zA-Z\s]+$`)
	emailPattern           = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	passwordUpperPattern   = regexp.MustCompile(`[A-Z]`)
	passwordSymbolPattern  = regexp.MustCompile(`[!@#$%^&*]`)
	passwordCharsetPattern = regexp.MustCompile(`^[A-Za-z\d!@#$%^&*]+$`)
)

// ExactDigits accepts values consisting of exactly n digits. Used for
// 10-digit mobile numbers and 12-digit Aadhaar numbers.
func ExactDigits(n int) Rule {
	return func(value string) error {
		if len(value) != n || !digitsOnlyPattern.MatchString(value) {
			return fmt.Errorf("must be exactly %d digits", n)
		}
		return nil
	}
}

// LettersAndSpacesOnly accepts non-empty values made of ASCII letters and
// whitespace, matching the name checks repeated across the registration
// screens.
func LettersAndSpacesOnly() Rule {
	return func(value string) error {
		if !lettersSpacesPattern.MatchString(value) {
			return fmt.Errorf("must contain only letters")
		}
		return nil
	}
}

// MinLength accepts values of at least n characters. Length is counted in
// runes; a Devanagari name is as many characters long as it looks.
func MinLength(n int) Rule {
	return func(value string) error {
		if utf8.RuneCountInString(value) < n {
			return fmt.Errorf("must be at least %d characters", n)
		}
		return nil
	}
}

// NumericRange accepts integer values between min and max inclusive.
// Non-numeric input is rejected rather than coerced.
func NumericRange(min, max int) Rule {
	return func(value string) error {
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("must be a number")
		}
		if n < min || n > max {
			return fmt.Errorf("must be between %d and %d", min, max)
		}
		return nil
	}
}

// NonEmptyChoice accepts any non-empty value. Choice membership is enforced
// separately by the engine for KindChoice fields.
func NonEmptyChoice() Rule {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("a selection is required")
		}
		return nil
	}
}

// EmailShape accepts values that look like an email address. This is a shape
// check, not RFC validation.
func EmailShape() Rule {
	return func(value string) error {
		if !emailPattern.MatchString(value) {
			return fmt.Errorf("must be a valid email address")
		}
		return nil
	}
}

// PasswordMinLength is the lenient password rule: at least 8 characters.
// The source sign-in flow enforced only this.
func PasswordMinLength() Rule {
	return func(value string) error {
		if utf8.RuneCountInString(value) < 8 {
			return fmt.Errorf("must be at least 8 characters")
		}
		return nil
	}
}

// PasswordStrict is the strict password rule: at least 8 characters from the
// allowed charset, with at least one uppercase letter and one symbol. The
// source sign-up flow enforced this variant. Both rules are kept distinct
// deliberately; which one a form uses is a product decision.
func PasswordStrict() Rule {
	return func(value string) error {
		if len(value) < 8 || !passwordCharsetPattern.MatchString(value) {
			return fmt.Errorf("must be at least 8 characters using letters, digits, and !@#$%%^&*")
		}
		if !passwordUpperPattern.MatchString(value) {
			return fmt.Errorf("must contain an uppercase letter")
		}
		if !passwordSymbolPattern.MatchString(value) {
			return fmt.Errorf("must contain a symbol (!@#$%%^&*)")
		}
		return nil
	}
}

// Optional wraps a rule so that the empty string is accepted. Use it for
// non-required fields whose rule should only apply once the user has typed
// something.
func Optional(rule Rule) Rule {
	return func(value string) error {
		if value == "" {
			return nil
		}
		if rule == nil {
			return nil
		}
		return rule(value)
	}
}

// All combines rules left to right, returning the first failure.
func All(rules ...Rule) Rule {
	return func(value string) error {
		for _, rule := range rules {
			if rule == nil {
				continue
			}
			if err := rule(value); err != nil {
				return err
			}
		}
		return nil
	}
}
