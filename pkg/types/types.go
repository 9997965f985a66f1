// Package domain defines the core business types for basketwatch.
package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Platform identifies a grocery-delivery retailer acting as a data source.
// It is an open set: config can introduce new platforms without a code
// change, but the zero value is never a valid platform.
type Platform string

// Platforms known to the bundled source configurations.
const (
	PlatformZepto     Platform = "zepto"
	PlatformBlinkit   Platform = "blinkit"
	PlatformInstamart Platform = "instamart"
	PlatformBigBasket Platform = "bigbasket"
	PlatformDMart     Platform = "dmart"
)

// Valid reports whether the platform tag is usable for grouping.
func (p Platform) Valid() bool {
	return strings.TrimSpace(string(p)) != ""
}

// RawProduct is a single product listing as supplied by one platform.
// Once handed to the matcher it is read-only; derived data lives in
// ProductGroup, never back on the raw record.
type RawProduct struct {
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	Description  string   `json:"description,omitempty"`
	DeliveryTime string   `json:"deliveryTime,omitempty"`
	Link         string   `json:"link,omitempty"`
	Image        string   `json:"image,omitempty"`
	Platform     Platform `json:"platform"`
}

// RecordKey identifies a raw record for at-most-once consumption across
// a grouping run.
type RecordKey struct {
	Platform Platform
	Name     string
	Price    float64
	Link     string
}

// Key returns the record's consumption key.
func (p *RawProduct) Key() RecordKey {
	return RecordKey{
		Platform: p.Platform,
		Name:     p.Name,
		Price:    p.Price,
		Link:     p.Link,
	}
}

// UnitClass is the comparison class of an extracted quantity.
// Physical classes carry amounts already converted to their baseline
// (kilograms for weight, liters for volume) and are compared to each
// other across the weight/volume divide. Count classes are only ever
// compared to other count classes.
type UnitClass string

// Unit class values.
const (
	UnitKg     UnitClass = "kg"
	UnitLtr    UnitClass = "ltr"
	UnitPack   UnitClass = "pack"
	UnitPcs    UnitClass = "pcs"
	UnitCan    UnitClass = "can"
	UnitBottle UnitClass = "bottle"
	UnitTablet UnitClass = "tablet"
	UnitStrip  UnitClass = "strip"
	UnitJar    UnitClass = "jar"
	UnitBox    UnitClass = "box"
)

// Physical reports whether the class is directly comparable on the
// weight/volume baseline.
func (u UnitClass) Physical() bool {
	return u == UnitKg || u == UnitLtr
}

// Quantity is a pack size parsed out of a product name or description.
// A nil *Quantity means "unknown", which is distinct from zero.
type Quantity struct {
	Amount float64
	Unit   UnitClass
}

// Display renders the quantity the way the comparison JSON carries it,
// e.g. "5 kg", "0.5 ltr", or "2 pack".
func (q Quantity) Display() string {
	return strconv.FormatFloat(q.Amount, 'f', -1, 64) + " " + string(q.Unit)
}

// MarshalJSON encodes the quantity as its display string.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(q.Display())), nil
}

// UnmarshalJSON decodes a display string back into a quantity.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("quantity must be a JSON string: %w", err)
	}
	parsed, err := ParseQuantity(s)
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// ParseQuantity parses a display-format quantity string ("5 kg",
// "0.5 ltr", "2 pack"). It is the inverse of Display for values the
// matcher produces; free-text extraction lives in pkg/match.
func ParseQuantity(s string) (Quantity, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return Quantity{}, fmt.Errorf("malformed quantity %q", s)
	}
	amount, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("malformed quantity amount %q: %w", fields[0], err)
	}
	unit := UnitClass(strings.ToLower(fields[1]))
	switch unit {
	case UnitKg, UnitLtr, UnitPack, UnitPcs, UnitCan, UnitBottle, UnitTablet, UnitStrip, UnitJar, UnitBox:
		return Quantity{Amount: amount, Unit: unit}, nil
	default:
		return Quantity{}, fmt.Errorf("unknown quantity unit %q", fields[1])
	}
}

// PlatformEntry is one platform's contribution to a product group.
type PlatformEntry struct {
	Price        float64   `json:"price"`
	Quantity     *Quantity `json:"quantity"`
	DeliveryTime string    `json:"deliveryTime"`
	Link         string    `json:"link"`
}

// ProductGroup is the reconciled representation of one real-world
// product, aggregating at most one record per contributing platform.
type ProductGroup struct {
	Name            string                     `json:"name"`
	Image           string                     `json:"image"`
	OriginalNames   map[Platform]string        `json:"original_names"`
	Platforms       map[Platform]PlatformEntry `json:"platforms"`
	SimilarityScore *float64                   `json:"similarity_score"`
}

// Matched reports whether the group ever absorbed a cross-platform match.
func (g *ProductGroup) Matched() bool {
	return g.SimilarityScore != nil
}

// MinPrice returns the lowest price across the group's platforms and the
// platform offering it. ok is false for a group with no entries.
func (g *ProductGroup) MinPrice() (price float64, platform Platform, ok bool) {
	for p, entry := range g.Platforms {
		if !ok || entry.Price < price || (entry.Price == price && p < platform) {
			price = entry.Price
			platform = p
			ok = true
		}
	}
	return price, platform, ok
}

// Location is the delivery location a comparison was run for. It is
// pass-through data: basketwatch never resolves or validates it.
type Location struct {
	City string  `json:"city,omitempty"`
	Lat  float64 `json:"lat,omitempty"`
	Lon  float64 `json:"lon,omitempty"`
}

// ComparisonResult is the persisted and transmitted output contract:
// one reconciliation run over a search query.
type ComparisonResult struct {
	ID              string         `json:"id,omitempty"`
	SearchQuery     string         `json:"search_query"`
	Timestamp       time.Time      `json:"timestamp"`
	TotalProducts   int            `json:"total_products"`
	MatchedProducts int            `json:"matched_products"`
	Location        Location       `json:"location"`
	Products        []ProductGroup `json:"products"`
}

// Watch is a saved comparison query refreshed on a schedule.
type Watch struct {
	ID          string     `json:"id"                     db:"id"`
	Name        string     `json:"name"                   db:"name"`
	SearchQuery string     `json:"search_query"           db:"search_query"`
	Platforms   []Platform `json:"platforms"              db:"platforms"`
	Location    Location   `json:"location"               db:"location"`
	MaxPrice    *float64   `json:"max_price,omitempty"    db:"max_price"`
	Strict      bool       `json:"strict"                 db:"strict"`
	Enabled     bool       `json:"enabled"                db:"enabled"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"  db:"last_run_at"`
	CreatedAt   time.Time  `json:"created_at"             db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"             db:"updated_at"`
}

// JobRun records a single execution of a scheduled job.
type JobRun struct {
	ID           string     `json:"id"                      db:"id"`
	JobName      string     `json:"job_name"                db:"job_name"`
	StartedAt    time.Time  `json:"started_at"              db:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"  db:"completed_at"`
	Status       string     `json:"status"                  db:"status"`
	ErrorText    string     `json:"error_text,omitempty"    db:"error_text"`
	RowsAffected *int       `json:"rows_affected,omitempty" db:"rows_affected"`
}
