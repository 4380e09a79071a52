package utils

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate = validator.New()

	licensePattern = regexp.MustCompile(`^[A-Z]{3}-\d{7}$`)
	htmlTagPattern = regexp.MustCompile(`<[^>]+>`)
	unsafeChars    = regexp.MustCompile(`[^\w\s.,!?-]`)
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// ValidateEmail reports whether email is a well-formed address.
func ValidateEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// ValidatePassword requires at least 8 characters with an upper-case letter,
// a lower-case letter and a digit.
func ValidatePassword(password string) bool {
	if len(password) < MinPasswordLength {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// ValidateLicenseNumber checks the XXX-1234567 format: three capital letters,
// a dash and seven digits.
func ValidateLicenseNumber(license string) bool {
	return licensePattern.MatchString(license)
}

// SanitizeInput strips HTML tags and every character other than word
// characters, whitespace and basic punctuation.
func SanitizeInput(text string) string {
	text = htmlTagPattern.ReplaceAllString(text, "")
	text = unsafeChars.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
