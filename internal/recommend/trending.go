package recommend

import (
	"sort"

	"github.com/roomly-ar/furniture-recommend/internal/domain"
)

// Trending returns the most popular items added or updated within the
// timeframe, capped at Config.TopN.
func (e *Engine) Trending(items []domain.FurnitureItem, timeframe domain.Timeframe) []domain.FurnitureItem {
	cutoff := e.now().Add(-timeframe.Duration())

	var out []domain.FurnitureItem
	for _, it := range items {
		if it.DateAdded.After(cutoff) || it.LastUpdated.After(cutoff) {
			out = append(out, it)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PopularityScore > out[j].PopularityScore
	})

	limit := e.cfg.TopN
	if limit <= 0 {
		limit = DefaultConfig().TopN
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
