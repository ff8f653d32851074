package recommend

import "github.com/roomly-ar/furniture-recommend/internal/domain"

// History weighting: a favorite counts twice as much as a recent view.
const (
	favoriteWeight = 2.0
	recentWeight   = 1.0
)

// BuildProfile reduces the user's favorite and recently viewed items into a
// normalized preference profile. Every accumulated weight is divided by the
// total weight mass (2x favorites + 1x recents); with no history all maps are
// empty and every lookup reads 0.
func BuildProfile(favorites, recent []domain.FurnitureItem) domain.PreferenceProfile {
	p := domain.PreferenceProfile{
		Categories:  make(map[domain.Category]float64),
		Styles:      make(map[string]float64),
		Materials:   make(map[string]float64),
		PriceRanges: make(map[domain.PriceRange]float64),
		Brands:      make(map[string]float64),
	}

	mass := favoriteWeight*float64(len(favorites)) + recentWeight*float64(len(recent))
	if mass == 0 {
		return p
	}

	for _, it := range favorites {
		accumulate(&p, it, favoriteWeight)
	}
	for _, it := range recent {
		accumulate(&p, it, recentWeight)
	}

	for k, v := range p.Categories {
		p.Categories[k] = v / mass
	}
	for k, v := range p.Styles {
		p.Styles[k] = v / mass
	}
	for k, v := range p.Materials {
		p.Materials[k] = v / mass
	}
	for k, v := range p.PriceRanges {
		p.PriceRanges[k] = v / mass
	}
	for k, v := range p.Brands {
		p.Brands[k] = v / mass
	}
	return p
}

func accumulate(p *domain.PreferenceProfile, it domain.FurnitureItem, w float64) {
	p.Categories[it.Category] += w
	if pr, ok := it.PriceRange(); ok {
		p.PriceRanges[pr] += w
	}
	for _, s := range it.Styles {
		p.Styles[s] += w
	}
	for _, m := range it.Materials {
		p.Materials[m] += w
	}
	if it.Brand != "" {
		p.Brands[it.Brand] += w
	}
}
