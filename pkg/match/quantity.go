package match

import (
	"regexp"
	"strconv"
	"strings"

	domain "github.com/basketwatch/basketwatch/pkg/types"
)

// unitAlternation lists every unit keyword the extractor understands,
// longest spelling first so the regex engine never stops at a prefix.
const unitAlternation = `(?:kilograms?|kgs?|grams?|gms?|g|lbs?|oz|` +
	`litres?|liters?|ltrs?|millilitres?|milliliters?|ml|` +
	`packets?|pkts?|packs?|pieces?|pcs?|cans?|bottles?|tablets?|strips?|jars?|boxe?s?)`

var (
	multiPackRe = regexp.MustCompile(
		`(?i)\b(\d+(?:\.\d+)?)\s*x\s*(\d+(?:\.\d+)?)\s*(` + unitAlternation + `)\b`)
	simpleQtyRe = regexp.MustCompile(
		`(?i)\b(\d+(?:\.\d+)?)\s*(` + unitAlternation + `)\b`)
	parenWeightRe = regexp.MustCompile(
		`(?i)\(\s*(\d+(?:\.\d+)?)\s*(kilograms?|kgs?|grams?|gms?|g|lbs?|oz|` +
			`litres?|liters?|ltrs?|millilitres?|milliliters?|ml)\s*\)`)
)

// unitAliases collapses spelling variants onto a canonical unit label.
var unitAliases = map[string]string{
	"kg": "kg", "kgs": "kg", "kilogram": "kg", "kilograms": "kg",
	"g": "g", "gm": "g", "gms": "g", "gram": "g", "grams": "g",
	"lb": "lb", "lbs": "lb",
	"oz":  "oz",
	"ltr": "ltr", "ltrs": "ltr", "litre": "ltr", "litres": "ltr", "liter": "ltr", "liters": "ltr",
	"ml": "ml", "millilitre": "ml", "millilitres": "ml", "milliliter": "ml", "milliliters": "ml",
	"pack": "pack", "packs": "pack", "packet": "pack", "packets": "pack", "pkt": "pack", "pkts": "pack",
	"pc": "pcs", "pcs": "pcs", "piece": "pcs", "pieces": "pcs",
	"can": "can", "cans": "can",
	"bottle": "bottle", "bottles": "bottle",
	"tablet": "tablet", "tablets": "tablet",
	"strip": "strip", "strips": "strip",
	"jar": "jar", "jars": "jar",
	"box": "box", "boxs": "box", "boxes": "box",
}

// countUnits maps canonical count-unit labels to their unit class.
var countUnits = map[string]domain.UnitClass{
	"pack":   domain.UnitPack,
	"pcs":    domain.UnitPcs,
	"can":    domain.UnitCan,
	"bottle": domain.UnitBottle,
	"tablet": domain.UnitTablet,
	"strip":  domain.UnitStrip,
	"jar":    domain.UnitJar,
	"box":    domain.UnitBox,
}

// weight/volume conversion factors onto the kg/liter baseline.
var baseFactors = map[string]float64{
	"kg":  1.0,
	"g":   1.0 / 1000.0,
	"lb":  0.453592,
	"oz":  0.0283495,
	"ltr": 1.0,
	"ml":  1.0 / 1000.0,
}

// physicalClasses maps a canonical weight or volume unit to the class
// its converted amount is reported under.
var physicalClasses = map[string]domain.UnitClass{
	"kg":  domain.UnitKg,
	"g":   domain.UnitKg,
	"lb":  domain.UnitKg,
	"oz":  domain.UnitKg,
	"ltr": domain.UnitLtr,
	"ml":  domain.UnitLtr,
}

// canonicalUnit resolves a matched unit token to its canonical label.
func canonicalUnit(token string) string {
	return unitAliases[strings.ToLower(token)]
}

// convertToBase converts a value in the given canonical unit onto the
// physical baseline. Count units pass through unchanged.
func convertToBase(value float64, unit string) float64 {
	if f, ok := baseFactors[unit]; ok {
		return value * f
	}
	return value
}

// ExtractQuantity parses a pack-size quantity from a record's free text.
// The description is searched when present, else the name. Patterns are
// tried in priority order; the first match wins. A nil result means
// "unknown" and must never be treated as zero.
func ExtractQuantity(name, description string) *domain.Quantity {
	text := description
	if strings.TrimSpace(text) == "" {
		text = name
	}

	// Multi-pack: "12 x 500ml" -> 6 liters on the baseline.
	if m := multiPackRe.FindStringSubmatch(text); m != nil {
		count := parseFloat(m[1])
		value := parseFloat(m[2])
		unit := canonicalUnit(m[3])
		if class, physical := physicalClasses[unit]; physical {
			return &domain.Quantity{
				Amount: convertToBase(value, unit) * count,
				Unit:   class,
			}
		}
		return &domain.Quantity{Amount: count * value, Unit: countUnits[unit]}
	}

	// Simple quantity: "5 kg", "2 packs", "10 tablets".
	if m := simpleQtyRe.FindStringSubmatchIndex(text); m != nil {
		value := parseFloat(text[m[2]:m[3]])
		unit := canonicalUnit(text[m[4]:m[5]])

		if class, isCount := countUnits[unit]; isCount {
			// "1 pack (1 kg)" reports the total physical amount.
			if pm := parenWeightRe.FindStringSubmatch(text[m[1]:]); pm != nil {
				parenValue := parseFloat(pm[1])
				parenUnit := canonicalUnit(pm[2])
				return &domain.Quantity{
					Amount: value * convertToBase(parenValue, parenUnit),
					Unit:   physicalClasses[parenUnit],
				}
			}
			return &domain.Quantity{Amount: value, Unit: class}
		}

		return &domain.Quantity{
			Amount: convertToBase(value, unit),
			Unit:   physicalClasses[unit],
		}
	}

	// Parenthesized weight alone: "(500g)".
	if m := parenWeightRe.FindStringSubmatch(text); m != nil {
		value := parseFloat(m[1])
		unit := canonicalUnit(m[2])
		return &domain.Quantity{
			Amount: convertToBase(value, unit),
			Unit:   physicalClasses[unit],
		}
	}

	return nil
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// QuantitiesCompatible decides whether two extracted quantities are close
// enough to describe the same product. Quantity is a disambiguating
// signal, not a primary key: missing data is permissive outside strict
// mode, and mismatched unit classes cannot disprove a match.
func QuantitiesCompatible(q1, q2 *domain.Quantity, cfg Config) bool {
	if q1 == nil || q2 == nil {
		return !cfg.StrictMatching
	}

	base1 := q1.Unit.Physical()
	base2 := q2.Unit.Physical()

	// One side physical, the other count-only: incomparable, permissive.
	if base1 != base2 {
		return true
	}

	if base1 && base2 {
		return baseAmountsCompatible(q1.Amount, q2.Amount, cfg)
	}

	// Both count classes (same or different): amounts must agree.
	return abs(q1.Amount-q2.Amount) < 0.01
}

func baseAmountsCompatible(a1, a2 float64, cfg Config) bool {
	diff := abs(a1 - a2)
	if diff < 0.01 {
		return true
	}

	lo, hi := a1, a2
	if lo > hi {
		lo, hi = hi, lo
	}

	// Zero or negative minimum makes the ratio unbounded; only the
	// absolute tolerance can save it below.
	if lo > 0 && hi/lo <= cfg.QuantityToleranceRatio {
		return true
	}

	return lo < 1.0 && diff < cfg.QuantityToleranceAbsolute
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
