// Package match implements the cross-platform product reconciliation
// core: name normalization, quantity extraction, fuzzy similarity, and
// the grouping algorithm that folds per-platform listings into canonical
// product groups. Everything here is pure computation over in-memory
// data; configuration is threaded explicitly and never held in package
// state.
package match

import (
	"errors"
	"fmt"
	"math"
)

// Strict-mode tolerance overrides.
const (
	strictToleranceRatio    = 1.1
	strictToleranceAbsolute = 0.1
)

// Config holds the knobs for one matching run.
type Config struct {
	// SimilarityThreshold is the minimum blended similarity for a record
	// to join an existing group.
	SimilarityThreshold float64

	// StrictMatching requires quantity data on both sides of a match and
	// tightens the quantity tolerances.
	StrictMatching bool

	// QuantityToleranceRatio is the maximum max/min ratio between two
	// base amounts still considered the same product.
	QuantityToleranceRatio float64

	// QuantityToleranceAbsolute is the maximum absolute difference
	// accepted for sub-kilogram base amounts.
	QuantityToleranceAbsolute float64

	// QuantityMatchBoost is added to a candidate's score when ranking
	// groups whose quantities agree with the record's. It reorders
	// candidates only; it never lifts a pair over the threshold.
	QuantityMatchBoost float64

	// SequenceWeight and WordWeight blend the sequence-alignment ratio
	// and the word-overlap ratio into the similarity score.
	SequenceWeight float64
	WordWeight     float64

	// DedupeThreshold is the canonical-name similarity at which the
	// post-pass merges two groups. Deliberately higher than
	// SimilarityThreshold to avoid over-merging.
	DedupeThreshold float64
}

// DefaultConfig returns the default matching configuration.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold:       0.6,
		StrictMatching:            false,
		QuantityToleranceRatio:    2.0,
		QuantityToleranceAbsolute: 0.5,
		QuantityMatchBoost:        0.2,
		SequenceWeight:            0.6,
		WordWeight:                0.4,
		DedupeThreshold:           0.9,
	}
}

// Strict returns a copy of the config with strict matching enabled and
// the strict tolerance overrides applied.
func (c Config) Strict() Config {
	c.StrictMatching = true
	c.QuantityToleranceRatio = strictToleranceRatio
	c.QuantityToleranceAbsolute = strictToleranceAbsolute
	return c
}

// Validate checks that the config describes a usable matching run.
func (c Config) Validate() error {
	var errs []error

	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Errorf(
			"similarity threshold must be in (0, 1], got %v", c.SimilarityThreshold))
	}
	if c.DedupeThreshold <= 0 || c.DedupeThreshold > 1 {
		errs = append(errs, fmt.Errorf(
			"dedupe threshold must be in (0, 1], got %v", c.DedupeThreshold))
	}
	if c.SequenceWeight < 0 || c.WordWeight < 0 {
		errs = append(errs, fmt.Errorf(
			"similarity weights must be non-negative, got sequence=%v word=%v",
			c.SequenceWeight, c.WordWeight))
	}
	if math.Abs(c.SequenceWeight+c.WordWeight-1.0) > 0.001 {
		errs = append(errs, fmt.Errorf(
			"similarity weights must sum to 1.0, got %v", c.SequenceWeight+c.WordWeight))
	}
	if c.QuantityToleranceRatio < 1 {
		errs = append(errs, fmt.Errorf(
			"quantity tolerance ratio must be >= 1, got %v", c.QuantityToleranceRatio))
	}
	if c.QuantityToleranceAbsolute < 0 {
		errs = append(errs, fmt.Errorf(
			"quantity tolerance absolute must be >= 0, got %v", c.QuantityToleranceAbsolute))
	}
	if c.QuantityMatchBoost < 0 {
		errs = append(errs, fmt.Errorf(
			"quantity match boost must be >= 0, got %v", c.QuantityMatchBoost))
	}

	return errors.Join(errs...)
}
