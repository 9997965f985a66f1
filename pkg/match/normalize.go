package match

import (
	"regexp"
	"strings"
)

// Package-level compiled patterns; normalization runs once per record
// per grouping pass.
var (
	bracketRe    = regexp.MustCompile(`[\(\[\{][^\)\]\}]*[\)\]\}]`)
	fillerRe     = regexp.MustCompile(`\b(100%|0%|with|without|for|the|an|a)\b`)
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9\s]`)
	multiSpaceRe = regexp.MustCompile(`\s+`)

	// quantityTokenRe matches embedded pack-size tokens, including the
	// multi-pack "12 x 500ml" form, so strict normalization can make
	// names differing only by pack size identical.
	quantityTokenRe = regexp.MustCompile(
		`(?i)\b\d+(?:\.\d+)?\s*(?:x\s*\d+(?:\.\d+)?\s*)?` + unitAlternation + `\b`)
)

// Normalize strips descriptive noise from a raw product name to produce
// its canonical comparison key:
//
//  1. drop everything after the first pipe,
//  2. remove bracket-delimited spans,
//  3. lowercase,
//  4. remove standalone filler words,
//  5. replace remaining punctuation with spaces,
//  6. collapse whitespace.
//
// The result is deterministic and may be empty for degenerate input;
// empty keys match nothing.
func Normalize(name string) string {
	if idx := strings.IndexByte(name, '|'); idx >= 0 {
		name = name[:idx]
	}

	name = bracketRe.ReplaceAllString(name, "")
	name = strings.ToLower(name)
	name = fillerRe.ReplaceAllString(name, "")
	name = nonAlnumRe.ReplaceAllString(name, " ")
	name = multiSpaceRe.ReplaceAllString(name, " ")

	return strings.TrimSpace(name)
}

// NormalizeStrict is Normalize with embedded quantity tokens stripped,
// so "atta 5kg" and "atta 10 kg" collapse to the same key. The grouper
// compares names in this form; canonical group names keep the plain
// Normalize form.
func NormalizeStrict(name string) string {
	if idx := strings.IndexByte(name, '|'); idx >= 0 {
		name = name[:idx]
	}

	name = bracketRe.ReplaceAllString(name, "")
	name = quantityTokenRe.ReplaceAllString(name, " ")
	name = strings.ToLower(name)
	name = fillerRe.ReplaceAllString(name, "")
	name = nonAlnumRe.ReplaceAllString(name, " ")
	name = multiSpaceRe.ReplaceAllString(name, " ")

	return strings.TrimSpace(name)
}

// TitleCase renders a normalized name as a display name ("tata salt" ->
// "Tata Salt").
func TitleCase(normalized string) string {
	words := strings.Fields(normalized)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
