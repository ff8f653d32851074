package domain

import (
	"fmt"
	"time"
)

// Category is the closed set of furniture categories used across the engine.
type Category string

const (
	CategorySeating  Category = "seating"
	CategoryTables   Category = "tables"
	CategoryStorage  Category = "storage"
	CategoryBedroom  Category = "bedroom"
	CategoryLighting Category = "lighting"
	CategoryDecor    Category = "decor"
	CategoryOutdoor  Category = "outdoor"
	CategoryOffice   Category = "office"
	CategoryKitchen  Category = "kitchen"
	CategoryBathroom Category = "bathroom"
)

// Categories lists every valid category in declaration order.
func Categories() []Category {
	return []Category{
		CategorySeating, CategoryTables, CategoryStorage, CategoryBedroom,
		CategoryLighting, CategoryDecor, CategoryOutdoor, CategoryOffice,
		CategoryKitchen, CategoryBathroom,
	}
}

func (c Category) Valid() bool {
	for _, v := range Categories() {
		if c == v {
			return true
		}
	}
	return false
}

// PriceRange is the discretized price tier derived from an item's price;
// preference matching compares tiers, not raw amounts.
type PriceRange string

const (
	PriceRangeBudget  PriceRange = "budget"
	PriceRangeMedium  PriceRange = "medium"
	PriceRangePremium PriceRange = "premium"
	PriceRangeLuxury  PriceRange = "luxury"
)

// ColorFamily groups item colors for harmony checks.
type ColorFamily string

const (
	ColorFamilyNeutral ColorFamily = "neutral"
	ColorFamilyWarm    ColorFamily = "warm"
	ColorFamilyCool    ColorFamily = "cool"
	ColorFamilyEarth   ColorFamily = "earth"
	ColorFamilyPastel  ColorFamily = "pastel"
	ColorFamilyBold    ColorFamily = "bold"
)

// Feature is a functional capability an item may carry.
type Feature string

const (
	FeatureStorage     Feature = "storage"
	FeatureConvertible Feature = "convertible"
	FeatureExtendable  Feature = "extendable"
	FeatureModular     Feature = "modular"
	FeatureFoldable    Feature = "foldable"
	FeatureAdjustable  Feature = "adjustable"
	FeatureReclining   Feature = "reclining"
	FeatureSwivel      Feature = "swivel"
)

// Timeframe is a fixed lookback window for trending queries.
type Timeframe string

const (
	TimeframeWeek    Timeframe = "week"
	TimeframeMonth   Timeframe = "month"
	TimeframeQuarter Timeframe = "quarter"
	TimeframeYear    Timeframe = "year"
)

// ParseTimeframe validates and normalizes a timeframe string.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(s) {
	case TimeframeWeek, TimeframeMonth, TimeframeQuarter, TimeframeYear:
		return Timeframe(s), nil
	}
	return "", fmt.Errorf("unknown timeframe %q", s)
}

// Duration returns the lookback window. Unknown values fall back to a month.
func (t Timeframe) Duration() time.Duration {
	const day = 24 * time.Hour
	switch t {
	case TimeframeWeek:
		return 7 * day
	case TimeframeQuarter:
		return 90 * day
	case TimeframeYear:
		return 365 * day
	default:
		return 30 * day
	}
}

type LightingCondition string

const (
	LightingBright LightingCondition = "bright"
	LightingMedium LightingCondition = "medium"
	LightingDim    LightingCondition = "dim"
)

type RoomUsage string

const (
	UsageLiving  RoomUsage = "living"
	UsageDining  RoomUsage = "dining"
	UsageSleep   RoomUsage = "sleep"
	UsageWork    RoomUsage = "work"
	UsageCooking RoomUsage = "cooking"
	UsageBathing RoomUsage = "bathing"
	UsageOutdoor RoomUsage = "outdoor"
)
