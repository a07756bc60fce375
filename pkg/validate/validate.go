// Package validate holds the shape checks applied to enquiry fields before
// anything is sent to the spreadsheet webhook.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the ISO calendar date format used by the visit form
const DateLayout = "2006-01-02"

var (
	// Go's \s is ASCII only; \p{Z}, VT and BOM widen it to the Unicode
	// whitespace a browser's \s rejects.
	emailPattern = regexp.MustCompile(`^[^\s\p{Z}\x{000b}\x{feff}@]+@[^\s\p{Z}\x{000b}\x{feff}@]+\.[^\s\p{Z}\x{000b}\x{feff}@]+$`)

	// +91 with an optional separator, optional trunk 0, optional repeated
	// country code, then a 10 digit mobile number starting 6-9.
	phonePattern = regexp.MustCompile(`^(\+91[\-\s]?)?[0]?(91)?[6789]\d{9}$`)
)

// IsValidEmail reports whether s looks like local@domain.tld with no
// whitespace and a single @. It does no DNS lookup.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhone reports whether s, with all whitespace removed, is an Indian
// mobile number.
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(stripSpace(s))
}

// IsNotPast reports whether date is a YYYY-MM-DD day on or after now's day.
// The comparison is done in now's location.
func IsNotPast(date string, now time.Time) bool {
	day, err := time.ParseInLocation(DateLayout, date, now.Location())
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !day.Before(today)
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Register adds the leademail and notpast tags to v. The phone check depends
// on configuration and is applied by the enquiry service instead.
// notpast uses clock to decide what "today" is.
func Register(v *validator.Validate, clock func() time.Time) error {
	if clock == nil {
		clock = time.Now
	}

	tags := map[string]validator.Func{
		"leademail": func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		},
		"notpast": func(fl validator.FieldLevel) bool {
			return IsNotPast(fl.Field().String(), clock())
		},
	}

	for tag, fn := range tags {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %s validation: %w", tag, err)
		}
	}
	return nil
}
