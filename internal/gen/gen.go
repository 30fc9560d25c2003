// Package gen produces randomized but structurally plausible user records:
// a human-readable name, an email derived from that name, and a signup date
// rendered in one of several textual formats.
//
// A controlled fraction of emails is deliberately malformed and dates are
// rendered in varying layouts so the downstream transformer has something to
// validate and normalize. Generation performs no I/O; all randomness flows
// through an injectable *rand.Rand, so a fixed seed (and a fixed window
// anchor) reproduces an exact record sequence.
package gen

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"userseed/internal/schema"
)

// ErrInvalidCount is returned when the requested record count is not positive.
var ErrInvalidCount = errors.New("gen: record count must be positive")

// window is how far back signup dates may fall, measured from the anchor.
const window = 5 * 365 * 24 * time.Hour

// MalformedEvery controls the malformed-email rate: roughly one in this many
// generated emails is broken on purpose.
const MalformedEvery = 8

var firstNames = []string{
	"Alice", "Bohdan", "Carla", "Dmitri", "Eva", "František", "Grace", "Hana",
	"Ivan", "José", "Karel", "Lucie", "Marek", "Nadia", "Ondřej", "Petra",
	"Quentin", "René", "Sofia", "Tomáš", "Uma", "Viktor", "Wanda", "Xenia",
	"Yusuf", "Zoë",
}

var lastNames = []string{
	"Adams", "Beránek", "Carter", "Dvořák", "Ellis", "Fischer", "García",
	"Horák", "Ishida", "Janda", "Kovář", "López", "Müller", "Novák", "O'Brien",
	"Procházka", "Quinn", "Rossi", "Svoboda", "Takahashi", "Urban", "Veselý",
	"Walker", "Young", "Zeman",
}

var mailDomains = []string{
	"example.com", "example.org", "mail.example.net", "inbox.test",
	"acme-corp.io", "post.example.co",
}

// Generator produces RawUser batches from an injected random source.
type Generator struct {
	r   *rand.Rand
	end time.Time // exclusive upper bound of the signup window
}

// New returns a Generator seeded with the given value, anchored at the
// current time.
func New(seed int64) *Generator {
	return NewAt(seed, time.Now().UTC())
}

// NewAt returns a Generator seeded with the given value whose signup window
// ends at the given anchor. Fixing both seed and anchor makes the produced
// sequence fully reproducible.
func NewAt(seed int64, end time.Time) *Generator {
	return &Generator{r: rand.New(rand.NewSource(seed)), end: end.UTC()}
}

// Generate produces count raw records. It returns ErrInvalidCount for a zero
// or negative count, before any work is done.
func (g *Generator) Generate(count int) ([]schema.RawUser, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, count)
	}
	out := make([]schema.RawUser, count)
	for i := range out {
		first := firstNames[g.r.Intn(len(firstNames))]
		last := lastNames[g.r.Intn(len(lastNames))]
		name := first + " " + last
		out[i] = schema.RawUser{
			Name:       name,
			Email:      g.email(first, last),
			SignupDate: g.signupDate(),
		}
	}
	return out, nil
}

// email builds an address from the name parts. Most are well-formed; roughly
// one in MalformedEvery is broken in a way the transformer must flag.
func (g *Generator) email(first, last string) string {
	local := localPart(first)
	switch g.r.Intn(3) {
	case 0:
		local += "." + localPart(last)
	case 1:
		local += "_" + localPart(last)
	default:
		local += localPart(last) + strconv.Itoa(g.r.Intn(100))
	}
	domain := mailDomains[g.r.Intn(len(mailDomains))]

	if g.r.Intn(MalformedEvery) != 0 {
		return local + "@" + domain
	}

	// Deliberately malformed variants.
	switch g.r.Intn(4) {
	case 0:
		// Missing '@' entirely.
		return local + "." + domain
	case 1:
		// Domain without a dot-separated label.
		return local + "@" + strings.SplitN(domain, ".", 2)[0]
	case 2:
		// Whitespace inside the local part.
		return local[:1] + " " + local[1:] + "@" + domain
	default:
		// Final label too short to be a TLD.
		return local + "@" + strings.TrimSuffix(domain, ".com") + ".x"
	}
}

// signupDate picks a random instant within the historical window and renders
// it in one of the accepted layouts.
func (g *Generator) signupDate() string {
	offset := time.Duration(g.r.Int63n(int64(window)))
	t := g.end.Add(-offset)
	layout := schema.AcceptedLayouts[g.r.Intn(len(schema.AcceptedLayouts))]
	return t.Format(layout)
}

// foldTransform strips combining marks so accented letters collapse to their
// ASCII base ("Zoë" -> "Zoe").
var foldTransform = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// localPart lowercases a name fragment and reduces it to the characters safe
// for an email local part.
func localPart(s string) string {
	folded, _, err := transform.String(foldTransform, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
