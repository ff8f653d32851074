package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")

	// Contract violations: callers must validate before invoking the engine.
	ErrInvalidRoomDimensions = errors.New("room area and dimensions must be > 0")
	ErrInvalidBudget         = errors.New("max budget must be > 0")
)

// Dimensions are outer measurements in meters.
type Dimensions struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

func (d Dimensions) Volume() float64 { return d.Width * d.Depth * d.Height }

func (d Dimensions) positive() bool {
	return d.Width > 0 && d.Depth > 0 && d.Height > 0
}

type Color struct {
	Name   string      `json:"name"`
	Family ColorFamily `json:"family"`
}

type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Range buckets the amount into a price tier.
func (p Price) Range() PriceRange {
	switch {
	case p.Amount < 150:
		return PriceRangeBudget
	case p.Amount < 500:
		return PriceRangeMedium
	case p.Amount < 1500:
		return PriceRangePremium
	default:
		return PriceRangeLuxury
	}
}

// FurnitureItem is an immutable catalog entry. Optional fields are zero-valued
// (Brand, SeatHeight) or nil (Price) when absent and contribute nothing to
// scoring.
type FurnitureItem struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    Category `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Brand       string   `json:"brand,omitempty"`

	Dimensions Dimensions `json:"dimensions"`
	SeatHeight float64    `json:"seat_height,omitempty"`
	WeightKG   float64    `json:"weight_kg,omitempty"`

	Materials []string `json:"materials,omitempty"`
	Colors    []Color  `json:"colors,omitempty"`
	Styles    []string `json:"styles,omitempty"`

	Price    *Price    `json:"price,omitempty"`
	Features []Feature `json:"features,omitempty"`

	// StyleCompatibility maps design style -> affinity 0..1, authored as metadata.
	StyleCompatibility map[string]float64 `json:"style_compatibility,omitempty"`
	Tags               []string           `json:"tags,omitempty"`

	PopularityScore float64   `json:"popularity_score"`
	WarrantyYears   int       `json:"warranty_years,omitempty"`
	EcoFriendly     bool      `json:"eco_friendly,omitempty"`
	DateAdded       time.Time `json:"date_added"`
	LastUpdated     time.Time `json:"last_updated"`
	InStock         bool      `json:"in_stock"`
	Featured        bool      `json:"featured,omitempty"`
	Custom          bool      `json:"custom,omitempty"`
}

// Footprint is the 2D floor-space proxy: width x depth in m².
func (i FurnitureItem) Footprint() float64 {
	return i.Dimensions.Width * i.Dimensions.Depth
}

func (i FurnitureItem) Volume() float64 { return i.Dimensions.Volume() }

// PriceRange reports the item's price tier; ok is false for unpriced items.
func (i FurnitureItem) PriceRange() (PriceRange, bool) {
	if i.Price == nil {
		return "", false
	}
	return i.Price.Range(), true
}

// HasFeature reports whether the item carries the given functional feature.
func (i FurnitureItem) HasFeature(f Feature) bool {
	for _, have := range i.Features {
		if have == f {
			return true
		}
	}
	return false
}

// RoomContext describes the physical and stylistic context a recommendation
// is ranked against. ExistingItems is carried for callers but unused by the
// core score.
type RoomContext struct {
	Area          float64           `json:"area"`
	Dimensions    Dimensions        `json:"dimensions"`
	Style         string            `json:"style,omitempty"`
	ExistingItems []FurnitureItem   `json:"existing_items,omitempty"`
	Lighting      LightingCondition `json:"lighting,omitempty"`
	Usage         RoomUsage         `json:"usage,omitempty"`
}

// Validate rejects the contract violations size-dependent scorers must never
// see: non-positive area or dimension components.
func (r RoomContext) Validate() error {
	if r.Area <= 0 || !r.Dimensions.positive() {
		return ErrInvalidRoomDimensions
	}
	return nil
}

// PreferenceProfile is a normalized weight profile derived from the user's
// favorite and recently viewed items. Missing keys read as 0.
type PreferenceProfile struct {
	Categories  map[Category]float64   `json:"categories"`
	Styles      map[string]float64     `json:"styles"`
	Materials   map[string]float64     `json:"materials"`
	PriceRanges map[PriceRange]float64 `json:"price_ranges"`
	Brands      map[string]float64     `json:"brands"`
}
