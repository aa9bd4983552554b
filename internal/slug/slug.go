// internal/slug/slug.go
//
// Subdomain slugs and collision-free suggestions.
//
// Context
// -------
// Every merchant is addressed as `<subdomain>.<base_domain>`.  The subdomain
// is derived from free text (the requested subdomain or, failing that, the
// store name) and must be unique across the platform.  This package owns the
// two halves of that problem:
//
//   - Slugify ─ converts arbitrary text into `[a-z0-9-]` using NFKD folding,
//     so “Café Ñandú” becomes “cafe-nandu”.
//   - Allocator ─ asks the identity store whether a slug is taken and
//     produces the deterministic candidates `base-2`, `base-3`, … when it is.
//
// Rules (Slugify)
// ---------------
//  1. NFKD-normalize and drop every non-ASCII rune.  Diacritics vanish with
//     their combining marks; scripts with no ASCII residue vanish entirely.
//  2. Drop anything outside letters, digits, ASCII whitespace, and “-”.
//     The information separators \x1c–\x1f count as whitespace.
//  3. Trim surrounding whitespace and lower-case.
//  4. Collapse runs of whitespace, “_”, or “-” into one “-”.
//  5. If nothing is left, return the fallback token.
//
// Notes
// -----
// • Leading or trailing hyphens that survive rule 3 are kept; the output is
//   stable under a second pass.
// • With a maximum length set, Candidates shortens the root so every
//   suggestion fits; `base-2` may become `bas-10` as the suffix grows.
// • The identity store enforces uniqueness.  The allocator only lowers the
//   odds of a rejected insert and supplies alternatives after one.
// • Oxford commas, two spaces after periods.
package slug

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/yanizio/storefront/internal/metrics"
)

const (
	// Fallback replaces slugs that fold down to nothing.
	Fallback = "tienda"

	// DefaultMaxProbes bounds the existence checks made per Candidates run.
	DefaultMaxProbes = 5000
)

// ErrProbesExhausted is returned when MaxProbes consecutive candidates were
// all taken.
var ErrProbesExhausted = errors.New("slug: suggestion probes exhausted")

var (
	disallowed = regexp.MustCompile(`[^a-zA-Z0-9\t\n\v\f\r\x1c-\x1f -]`)
	separators = regexp.MustCompile(`[\t\n\v\f\r\x1c-\x1f _-]+`)
)

/*──────────────────────────── Slugify ───────────────────────────────────────*/

// Slugify converts text to a subdomain slug, falling back to Fallback.
func Slugify(text string) string {
	return slugifyOr(text, Fallback)
}

func slugifyOr(text, fallback string) string {
	s := separators.ReplaceAllString(
		strings.ToLower(strings.TrimFunc(
			disallowed.ReplaceAllString(foldASCII(text), ""),
			isSpace,
		)),
		"-",
	)
	if s == "" {
		return fallback
	}
	return s
}

// isSpace matches the ASCII whitespace kept by disallowed.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0x1c, 0x1d, 0x1e, 0x1f:
		return true
	}
	return false
}

// foldASCII decomposes text (NFKD) and removes every rune above 0x7F.  The
// transformer is stateful, so one is built per call.
func foldASCII(text string) string {
	t := transform.Chain(
		norm.NFKD,
		runes.Remove(runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })),
	)
	out, _, err := transform.String(t, text)
	if err != nil {
		return ""
	}
	return out
}

/*──────────────────────────── Allocator ─────────────────────────────────────*/

// ExistenceChecker answers whether a subdomain is already committed.  The
// merchant repository satisfies it.
type ExistenceChecker interface {
	ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error)
}

// Allocator tests slugs against the identity store and suggests free ones.
// It keeps no state between calls.
type Allocator struct {
	checker   ExistenceChecker
	fallback  string
	maxProbes int
	maxLen    int
}

// Option tweaks an Allocator.
type Option func(*Allocator)

// WithMaxLength caps the length of every candidate.  n < 1 means no cap.
func WithMaxLength(n int) Option { return func(a *Allocator) { a.maxLen = n } }

// NewAllocator returns an Allocator.  The fallback is itself slugified, so
// an empty or unusable one means Fallback.  maxProbes < 1 means
// DefaultMaxProbes.
func NewAllocator(checker ExistenceChecker, fallback string, maxProbes int, opts ...Option) *Allocator {
	if maxProbes < 1 {
		maxProbes = DefaultMaxProbes
	}
	a := &Allocator{
		checker:   checker,
		fallback:  slugifyOr(fallback, Fallback),
		maxProbes: maxProbes,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Slugify is the package Slugify with the allocator's fallback token.
func (a *Allocator) Slugify(text string) string {
	return slugifyOr(text, a.fallback)
}

// Exists reports whether candidate is already taken.
func (a *Allocator) Exists(ctx context.Context, candidate string) (bool, error) {
	taken, err := a.checker.ExistsBySubdomain(ctx, candidate)
	if err != nil {
		return false, fmt.Errorf("slug exists %q: %w", candidate, err)
	}
	return taken, nil
}

// Candidates yields free slugs of the form `Slugify(base)-n` for n = 2, 3,
// … in order.  The sequence is lazy and restarts from -2 on every range.  A
// checker failure or probe exhaustion is yielded once as the final error.
func (a *Allocator) Candidates(ctx context.Context, base string) iter.Seq2[string, error] {
	root := a.Slugify(base)
	return func(yield func(string, error) bool) {
		for n := 2; n < 2+a.maxProbes; n++ {
			candidate := a.fit(root, "-"+strconv.Itoa(n))
			taken, err := a.Exists(ctx, candidate)
			if err != nil {
				yield("", err)
				return
			}
			if taken {
				continue
			}
			if !yield(candidate, nil) {
				return
			}
		}
		zap.L().Warn("slug probes exhausted",
			zap.String("base", root),
			zap.Int("max_probes", a.maxProbes))
		yield("", fmt.Errorf("%w: %q after %d probes", ErrProbesExhausted, root, a.maxProbes))
	}
}

// fit joins root and suffix, cutting root so the result stays within
// maxLen.  A hyphen left dangling by the cut is trimmed.
func (a *Allocator) fit(root, suffix string) string {
	if a.maxLen < 1 || len(root)+len(suffix) <= a.maxLen {
		return root + suffix
	}
	cut := root[:max(a.maxLen-len(suffix), 0)]
	if trimmed := strings.TrimRight(cut, "-"); trimmed != "" {
		cut = trimmed
	}
	return cut + suffix
}

// Suggest returns the first k values of Candidates.  k < 1 returns an empty
// slice without touching the store.
func (a *Allocator) Suggest(ctx context.Context, base string, k int) ([]string, error) {
	out := make([]string, 0, max(k, 0))
	if k < 1 {
		return out, nil
	}
	for candidate, err := range a.Candidates(ctx, base) {
		if err != nil {
			return nil, err
		}
		out = append(out, candidate)
		if len(out) == k {
			break
		}
	}
	metrics.SlugSuggestionsTotal.Add(float64(len(out)))
	return out, nil
}
