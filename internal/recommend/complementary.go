package recommend

import (
	"sort"

	"github.com/roomly-ar/furniture-recommend/internal/domain"
)

// complementaryCategories pairs each category with the categories considered
// to furnish well next to it. The table is intentionally not symmetric
// (storage lists lighting, lighting does not list storage); product has not
// confirmed whether that asymmetry is wanted, so it is preserved as authored.
var complementaryCategories = map[domain.Category][]domain.Category{
	domain.CategorySeating:  {domain.CategoryTables, domain.CategoryLighting, domain.CategoryStorage},
	domain.CategoryTables:   {domain.CategorySeating, domain.CategoryLighting, domain.CategoryDecor},
	domain.CategoryStorage:  {domain.CategorySeating, domain.CategoryDecor, domain.CategoryLighting},
	domain.CategoryBedroom:  {domain.CategoryStorage, domain.CategoryLighting, domain.CategoryDecor},
	domain.CategoryLighting: {domain.CategorySeating, domain.CategoryTables, domain.CategoryDecor},
	domain.CategoryDecor:    {domain.CategoryLighting, domain.CategoryStorage},
	domain.CategoryOutdoor:  {domain.CategoryOutdoor, domain.CategoryLighting},
	domain.CategoryOffice:   {domain.CategoryStorage, domain.CategoryLighting},
	domain.CategoryKitchen:  {domain.CategorySeating, domain.CategoryStorage},
	domain.CategoryBathroom: {domain.CategoryStorage, domain.CategoryDecor},
}

// harmoniousFamilies lists color-family pairs that read as harmonious; the
// check is order-insensitive and same-family always harmonizes.
var harmoniousFamilies = [][2]domain.ColorFamily{
	{domain.ColorFamilyNeutral, domain.ColorFamilyWarm},
	{domain.ColorFamilyNeutral, domain.ColorFamilyCool},
	{domain.ColorFamilyWarm, domain.ColorFamilyEarth},
	{domain.ColorFamilyCool, domain.ColorFamilyPastel},
	{domain.ColorFamilyNeutral, domain.ColorFamilyBold},
}

// Complementary pairing constants.
const (
	compCategoryBonus  = 0.4
	compPerSharedStyle = 0.2
	compFootprintSnug  = 0.3 // combined footprint <= 30% of room
	compFootprintLoose = 0.5 // combined footprint <= 50% of room
	compSnugBonus      = 0.3
	compLooseBonus     = 0.1
	compColorBonus     = 0.1
)

// ComplementaryScore rates how well candidate pairs with primary in a room of
// the given floor area.
func ComplementaryScore(primary, candidate domain.FurnitureItem, roomSize float64) float64 {
	var s float64
	if isComplementaryCategory(primary.Category, candidate.Category) {
		s += compCategoryBonus
	}
	s += compPerSharedStyle * float64(sharedCount(primary.Styles, candidate.Styles))

	if roomSize > 0 {
		ratio := (primary.Footprint() + candidate.Footprint()) / roomSize
		switch {
		case ratio <= compFootprintSnug:
			s += compSnugBonus
		case ratio <= compFootprintLoose:
			s += compLooseBonus
		}
	}

	if colorsHarmonize(primary.Colors, candidate.Colors) {
		s += compColorBonus
	}
	return s
}

// ComplementaryItems returns up to Config.ComplementaryLimit candidates whose
// category complements the item's, best pairing first. Candidates scoring
// non-positive are dropped.
func (e *Engine) ComplementaryItems(item domain.FurnitureItem, items []domain.FurnitureItem, roomSize float64) []domain.FurnitureItem {
	type scored struct {
		item  domain.FurnitureItem
		score float64
	}
	var out []scored
	for _, it := range items {
		if it.ID == item.ID {
			continue
		}
		if !isComplementaryCategory(item.Category, it.Category) {
			continue
		}
		if s := ComplementaryScore(item, it, roomSize); s > 0 {
			out = append(out, scored{item: it, score: s})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })

	limit := e.cfg.ComplementaryLimit
	if limit <= 0 {
		limit = DefaultConfig().ComplementaryLimit
	}
	if len(out) > limit {
		out = out[:limit]
	}
	result := make([]domain.FurnitureItem, len(out))
	for i, s := range out {
		result[i] = s.item
	}
	return result
}

func isComplementaryCategory(primary, candidate domain.Category) bool {
	for _, c := range complementaryCategories[primary] {
		if c == candidate {
			return true
		}
	}
	return false
}

func colorsHarmonize(a, b []domain.Color) bool {
	for _, ca := range a {
		for _, cb := range b {
			if familiesHarmonize(ca.Family, cb.Family) {
				return true
			}
		}
	}
	return false
}

func familiesHarmonize(a, b domain.ColorFamily) bool {
	if a == b {
		return true
	}
	for _, pair := range harmoniousFamilies {
		if (pair[0] == a && pair[1] == b) || (pair[0] == b && pair[1] == a) {
			return true
		}
	}
	return false
}
