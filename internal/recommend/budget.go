package recommend

import (
	"sort"

	"github.com/roomly-ar/furniture-recommend/internal/domain"
)

// Budget-value scoring constants.
const (
	budgetHeadroomWeight = 0.4
	budgetPerFeature     = 0.1
	budgetFeatureCap     = 0.3
	budgetPerWarrantyYr  = 0.05
	budgetWarrantyCap    = 0.2
	budgetEcoBonus       = 0.1
)

// BudgetRecommendations returns every priced item from the wanted categories
// at or under maxBudget, ranked by price-adjusted value. Unpriced items are
// excluded. No result cap.
func (e *Engine) BudgetRecommendations(maxBudget float64, categories []domain.Category, items []domain.FurnitureItem) ([]domain.FurnitureItem, error) {
	if maxBudget <= 0 {
		return nil, domain.ErrInvalidBudget
	}

	wanted := make(map[domain.Category]struct{}, len(categories))
	for _, c := range categories {
		wanted[c] = struct{}{}
	}

	type scored struct {
		item  domain.FurnitureItem
		score float64
	}
	var out []scored
	for _, it := range items {
		if _, ok := wanted[it.Category]; !ok {
			continue
		}
		if it.Price == nil || it.Price.Amount > maxBudget {
			continue
		}
		out = append(out, scored{item: it, score: budgetValueScore(it, maxBudget)})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })

	result := make([]domain.FurnitureItem, len(out))
	for i, s := range out {
		result[i] = s.item
	}
	return result, nil
}

func budgetValueScore(item domain.FurnitureItem, maxBudget float64) float64 {
	s := (1 - item.Price.Amount/maxBudget) * budgetHeadroomWeight

	features := budgetPerFeature * float64(len(item.Features))
	if features > budgetFeatureCap {
		features = budgetFeatureCap
	}
	s += features

	warranty := budgetPerWarrantyYr * float64(item.WarrantyYears)
	if warranty > budgetWarrantyCap {
		warranty = budgetWarrantyCap
	}
	s += warranty

	if item.EcoFriendly {
		s += budgetEcoBonus
	}
	return s
}
