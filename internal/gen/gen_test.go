package gen

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"userseed/internal/schema"
)

// anchor pins the signup window so generated sequences are reproducible
// across test runs.
var anchor = time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

func TestGenerate_InvalidCount(t *testing.T) {
	t.Parallel()

	for _, count := range []int{0, -1, -1000} {
		recs, err := NewAt(1, anchor).Generate(count)
		if !errors.Is(err, ErrInvalidCount) {
			t.Fatalf("Generate(%d): err=%v, want ErrInvalidCount", count, err)
		}
		if recs != nil {
			t.Fatalf("Generate(%d): got %d records, want nil", count, len(recs))
		}
	}
}

func TestGenerate_Count(t *testing.T) {
	t.Parallel()

	for _, count := range []int{1, 7, 1000} {
		recs, err := NewAt(42, anchor).Generate(count)
		if err != nil {
			t.Fatalf("Generate(%d): %v", count, err)
		}
		if len(recs) != count {
			t.Fatalf("Generate(%d): got %d records", count, len(recs))
		}
	}
}

// TestGenerate_Deterministic verifies that the same seed and anchor reproduce
// an identical record sequence, and that different seeds diverge.
func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	a, err := NewAt(7, anchor).Generate(200)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := NewAt(7, anchor).Generate(200)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed produced different sequences")
	}

	c, err := NewAt(8, anchor).Generate(200)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if reflect.DeepEqual(a, c) {
		t.Fatalf("different seeds produced identical sequences")
	}
}

// TestGenerate_FieldShape checks the structural promises: names are two
// non-empty words, every record has a non-empty email and signup date, and
// dates fall inside the historical window.
func TestGenerate_FieldShape(t *testing.T) {
	t.Parallel()

	recs, err := NewAt(3, anchor).Generate(500)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	lower := anchor.Add(-window)
	for i, r := range recs {
		parts := strings.SplitN(r.Name, " ", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			t.Fatalf("record %d: malformed name %q", i, r.Name)
		}
		if r.Email == "" {
			t.Fatalf("record %d: empty email", i)
		}
		if r.SignupDate == "" {
			t.Fatalf("record %d: empty signup date", i)
		}
		ts, ok := parseAny(r.SignupDate)
		if !ok {
			t.Fatalf("record %d: date %q matches no accepted layout", i, r.SignupDate)
		}
		// Layouts without a time component truncate toward midnight, so allow
		// a day of slack at the lower bound.
		if ts.Before(lower.Add(-24*time.Hour)) || ts.After(anchor) {
			t.Fatalf("record %d: date %q outside window [%s, %s]", i, r.SignupDate, lower, anchor)
		}
	}
}

// TestGenerate_MalformedFraction checks that a batch contains both
// well-formed and deliberately malformed emails in a plausible ratio.
func TestGenerate_MalformedFraction(t *testing.T) {
	t.Parallel()

	recs, err := NewAt(11, anchor).Generate(2000)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	malformed := 0
	for _, r := range recs {
		if !wellFormed(r.Email) {
			malformed++
		}
	}
	if malformed == 0 {
		t.Fatalf("no malformed emails in 2000 records")
	}
	// Expected rate is 1/MalformedEvery; allow generous slack.
	if got, lo, hi := malformed, 2000/MalformedEvery/2, 2000/MalformedEvery*2; got < lo || got > hi {
		t.Fatalf("malformed=%d outside [%d, %d]", got, lo, hi)
	}
}

func TestGenerate_EmailDerivedFromName(t *testing.T) {
	t.Parallel()

	recs, err := NewAt(5, anchor).Generate(300)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for i, r := range recs {
		if strings.Contains(r.Email, " ") {
			continue // the malformed whitespace variant splits the first name
		}
		first := localPart(strings.SplitN(r.Name, " ", 2)[0])
		if first == "" {
			t.Fatalf("record %d: name %q folds to empty local part", i, r.Name)
		}
		if !strings.Contains(r.Email, first) {
			t.Fatalf("record %d: email %q not derived from name %q", i, r.Email, r.Name)
		}
	}
}

func TestLocalPart(t *testing.T) {
	t.Parallel()

	tests := []struct{ in, want string }{
		{"Alice", "alice"},
		{"Zoë", "zoe"},
		{"Dvořák", "dvorak"},
		{"O'Brien", "obrien"},
		{"José", "jose"},
		{"Müller", "muller"},
	}
	for _, tt := range tests {
		if got := localPart(tt.in); got != tt.want {
			t.Errorf("localPart(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func parseAny(s string) (time.Time, bool) {
	for _, layout := range schema.AcceptedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// wellFormed mirrors the transformer's canonical pattern closely enough to
// classify generator output without importing the transform package.
func wellFormed(email string) bool {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || strings.ContainsAny(email, " \t") {
		return false
	}
	domain := email[at+1:]
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return false
	}
	tld := labels[len(labels)-1]
	if len(tld) < 2 {
		return false
	}
	for _, r := range tld {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}
