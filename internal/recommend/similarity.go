package recommend

import (
	"sort"

	"github.com/roomly-ar/furniture-recommend/internal/domain"
)

// Pairwise similarity component constants.
const (
	simCategoryMatch    = 0.3
	simSubcategoryMatch = 0.2
	simPerSharedStyle   = 0.1
	simPerSharedMat     = 0.1
	simPriceRangeMatch  = 0.1
	simDimensionWeight  = 0.2
)

// Similarity computes the symmetric pairwise similarity of two items. Every
// component is additive, so swapping a and b cannot change the result.
func Similarity(a, b domain.FurnitureItem) float64 {
	var s float64
	if a.Category == b.Category {
		s += simCategoryMatch
	}
	if a.Subcategory != "" && a.Subcategory == b.Subcategory {
		s += simSubcategoryMatch
	}
	s += simPerSharedStyle * float64(sharedCount(a.Styles, b.Styles))
	s += simPerSharedMat * float64(sharedCount(a.Materials, b.Materials))

	if ra, ok := a.PriceRange(); ok {
		if rb, ok := b.PriceRange(); ok && ra == rb {
			s += simPriceRangeMatch
		}
	}

	va, vb := a.Volume(), b.Volume()
	if max := maxFloat(va, vb); max > 0 {
		diff := va - vb
		if diff < 0 {
			diff = -diff
		}
		s += simDimensionWeight * (1 - diff/max)
	}
	return s
}

// SimilarItems returns up to Config.SimilarLimit candidates whose similarity
// to target exceeds Config.SimilarityThreshold, most similar first. The
// target itself is excluded by ID.
func (e *Engine) SimilarItems(target domain.FurnitureItem, items []domain.FurnitureItem) []domain.FurnitureItem {
	type scored struct {
		item  domain.FurnitureItem
		score float64
	}
	var out []scored
	for _, it := range items {
		if it.ID == target.ID {
			continue
		}
		if s := Similarity(target, it); s > e.cfg.SimilarityThreshold {
			out = append(out, scored{item: it, score: s})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })

	limit := e.cfg.SimilarLimit
	if limit <= 0 {
		limit = DefaultConfig().SimilarLimit
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

func sharedCount(a, b []string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	n := 0
	for _, v := range b {
		if _, ok := set[v]; ok {
			n++
			delete(set, v)
		}
	}
	return n
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
