// Package slug builds URL-safe identifiers from poet names and book/poem
// titles. Source text is usually Tajik Cyrillic or Persian script, so
// slugification runs through transliteration first and guarantees a non-empty
// ASCII result via a two-tier fallback.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/guftaho/guftaho-server/internal/translit"
)

var (
	// Matches any non-alphanumeric character.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	// Matches multiple hyphens.
	multipleHyphens = regexp.MustCompile(`-+`)
	// Matches characters that are not word characters, whitespace, or hyphens.
	// Used by the looser fallback pass.
	nonWord = regexp.MustCompile(`[^\w\s-]`)
	// Matches runs of whitespace and hyphens.
	hyphenRuns = regexp.MustCompile(`[-\s]+`)
)

// Slugify converts a string to a URL-safe slug.
// "Science Fiction" -> "science-fiction".
// "Девони Ҳофиз" -> "devoni-hofiz" (after transliteration by Make).
func Slugify(s string) string {
	// Normalize unicode (decompose accented characters).
	s = norm.NFKD.String(s)

	// Remove non-ASCII characters.
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	// Lowercase.
	s = strings.ToLower(s)

	// Replace non-alphanumeric with hyphens.
	s = nonAlphanumeric.ReplaceAllString(s, "-")

	// Collapse multiple hyphens.
	s = multipleHyphens.ReplaceAllString(s, "-")

	// Trim leading/trailing hyphens.
	s = strings.Trim(s, "-")

	return s
}

// Make builds a slug from raw text, falling back to the given default when
// nothing usable survives. The result contains only lowercase ASCII letters,
// digits, and hyphens, and is never empty for a non-empty fallback.
//
// Two tiers: transliterate then slugify; if that strips everything (input was
// entirely unmapped symbols), retry with a looser pass that keeps word
// characters; if still empty, return the fallback.
func Make(raw, fallback string) string {
	if raw == "" {
		return fallback
	}

	latin := translit.Transliterate(raw)
	if s := Slugify(latin); s != "" {
		return s
	}

	// Looser pass: keep word characters, whitespace, and hyphens, then
	// collapse separators. Catches inputs the strict pass wipes out.
	loose := nonWord.ReplaceAllString(latin, "")
	loose = strings.ToLower(strings.TrimSpace(loose))
	loose = hyphenRuns.ReplaceAllString(loose, "-")
	loose = strings.Trim(loose, "-")
	if s := Slugify(loose); s != "" {
		return s
	}

	return fallback
}

// Unique resolves a candidate slug against an existence predicate for the
// relevant uniqueness scope (all poets, all books, or poems within one book).
// If the candidate is free it is returned unchanged; otherwise a numeric
// suffix is appended and incremented until a free value is found.
//
// The caller is responsible for running this inside the entity's save path;
// the store's UNIQUE constraint remains the final arbiter under concurrent
// creation, and services retry on conflict.
func Unique(candidate string, exists func(string) (bool, error)) (string, error) {
	taken, err := exists(candidate)
	if err != nil {
		return "", fmt.Errorf("check slug %q: %w", candidate, err)
	}
	if !taken {
		return candidate, nil
	}

	for i := 1; ; i++ {
		next := fmt.Sprintf("%s-%d", candidate, i)
		taken, err := exists(next)
		if err != nil {
			return "", fmt.Errorf("check slug %q: %w", next, err)
		}
		if !taken {
			return next, nil
		}
	}
}
