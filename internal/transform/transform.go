// Package transform turns raw generated records into load-ready users:
// it validates email syntax, derives the email domain, and normalizes signup
// dates to the canonical layout.
//
// Transform is a pure function over its input: no I/O, order-preserving, and
// exactly one output record per input record. Per-record problems (invalid
// email, unparseable date) are recorded on the output record rather than
// raised as errors, so the loaded table keeps the full batch with diagnostic
// flags instead of silently dropping rows.
package transform

import (
	"regexp"
	"strings"
	"time"

	"userseed/internal/schema"
)

// emailRe is the canonical address shape: a local part of one or more
// characters excluding '@' and whitespace, then '@', then dot-separated
// domain labels with an alphabetic final label of length >= 2. The domain is
// matched case-insensitively.
var emailRe = regexp.MustCompile(`^[^@\s]+@(?i:[A-Z0-9-]+\.)+(?i:[A-Z]{2,})$`)

// Transform converts each raw record into a schema.User. The returned slice
// has the same length and order as the input.
func Transform(in []schema.RawUser) []schema.User {
	out := make([]schema.User, len(in))
	for i, raw := range in {
		u := schema.User{Name: raw.Name, Email: raw.Email}
		if ValidEmail(raw.Email) {
			u.EmailValid = true
			d := Domain(raw.Email)
			u.EmailDomain = &d
		}
		if t, ok := ParseDate(raw.SignupDate); ok {
			u.SignupDate = &t
		}
		out[i] = u
	}
	return out
}

// ValidEmail reports whether the address matches the canonical pattern.
// The check is purely syntactic; no DNS resolution is attempted.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// Domain returns the substring following the last '@'. It returns "" when the
// address contains no '@'; callers should check ValidEmail first.
func Domain(email string) string {
	i := strings.LastIndexByte(email, '@')
	if i < 0 {
		return ""
	}
	return email[i+1:]
}

// ParseDate tries the accepted layouts in order and returns the parsed date
// truncated to day precision. Parsing an already-canonical value yields the
// same value back when formatted with schema.Layout.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range schema.AcceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// Canonical formats a parsed signup date using the canonical layout.
func Canonical(t time.Time) string {
	return t.Format(schema.Layout)
}
