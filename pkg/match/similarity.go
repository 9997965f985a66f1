package match

import (
	"strings"
)

// Similarity computes the blended [0,1] similarity between two product
// names. Both names are normalized first, so callers may pass raw or
// already-normalized strings. The blend is a sequence-alignment ratio
// weighted by cfg.SequenceWeight plus a word-overlap ratio weighted by
// cfg.WordWeight, clamped to [0,1]. Symmetric, and 1.0 for identical
// non-empty names.
func Similarity(name1, name2 string, cfg Config) float64 {
	n1 := Normalize(name1)
	n2 := Normalize(name2)

	seq := sequenceRatio(n1, n2)
	word := wordRatio(n1, n2)

	sim := seq*cfg.SequenceWeight + word*cfg.WordWeight
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}

// sequenceRatio is a difflib-style similarity ratio: twice the total
// length of matching blocks over the combined length. Matching blocks
// are found by recursive longest-common-substring search. Two empty
// strings are identical; one empty string matches nothing.
func sequenceRatio(s1, s2 string) float64 {
	if s1 == "" && s2 == "" {
		return 1.0
	}
	if s1 == "" || s2 == "" {
		return 0.0
	}

	// The greedy block decomposition tie-breaks on position in the first
	// argument, so pin the argument order before decomposing to keep the
	// ratio independent of call order.
	if s1 > s2 {
		s1, s2 = s2, s1
	}

	a := []rune(s1)
	b := []rune(s2)
	matches := matchingBlockSize(a, b)

	return 2.0 * float64(matches) / float64(len(a)+len(b))
}

// matchingBlockSize returns the total length of the matching blocks
// between a and b: the longest common substring, plus, recursively, the
// matching blocks to its left and right.
func matchingBlockSize(a, b []rune) int {
	ai, bi, size := longestCommonSubstring(a, b)
	if size == 0 {
		return 0
	}
	total := size
	total += matchingBlockSize(a[:ai], b[:bi])
	total += matchingBlockSize(a[ai+size:], b[bi+size:])
	return total
}

// longestCommonSubstring finds the longest run of runes common to a and
// b, returning its start in each and its length. Earliest-in-a wins ties
// so the block decomposition is deterministic.
func longestCommonSubstring(a, b []rune) (ai, bi, size int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}

	// lengths[j] is the length of the common suffix ending at a[i], b[j]
	// for the current row i.
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for i := range a {
		for j := range b {
			if a[i] != b[j] {
				curr[j+1] = 0
				continue
			}
			curr[j+1] = prev[j] + 1
			if curr[j+1] > size {
				size = curr[j+1]
				ai = i - size + 1
				bi = j - size + 1
			}
		}
		prev, curr = curr, prev
	}

	return ai, bi, size
}

// wordRatio is the share of overlapping words relative to the larger
// word set. Empty sets overlap nothing.
func wordRatio(n1, n2 string) float64 {
	words1 := wordSet(n1)
	words2 := wordSet(n2)
	if len(words1) == 0 || len(words2) == 0 {
		return 0.0
	}

	common := 0
	for w := range words1 {
		if _, ok := words2[w]; ok {
			common++
		}
	}

	larger := max(len(words1), len(words2))
	return float64(common) / float64(larger)
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}
