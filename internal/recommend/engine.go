package recommend

import (
	"context"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/roomly-ar/furniture-recommend/internal/domain"
)

// Engine ranks catalog items against a room and a derived preference profile.
// All methods are pure over their inputs; the only state is configuration and
// an injectable clock.
type Engine struct {
	cfg Config
	now func() time.Time
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg, now: time.Now}
}

// Footprint-ratio bands for the room-size fit sub-score.
const (
	fitRatioTiny  = 0.05
	fitRatioIdeal = 0.15
	fitRatioLarge = 0.30
)

// Recommend scores every candidate against the room and the profile derived
// from favorites and recently viewed items, drops non-positive scores, and
// returns at most Config.TopN items sorted by score. Equal scores keep
// catalog order.
func (e *Engine) Recommend(room domain.RoomContext, items, favorites, recent []domain.FurnitureItem) ([]domain.FurnitureItem, error) {
	if err := room.Validate(); err != nil {
		return nil, err
	}
	profile := BuildProfile(favorites, recent)

	type scored struct {
		item  domain.FurnitureItem
		score float64
	}
	out := make([]scored, 0, len(items))
	for _, it := range items {
		s := e.Score(it, room, profile)
		if s <= 0 {
			continue
		}
		out = append(out, scored{item: it, score: s})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })

	limit := e.cfg.TopN
	if limit <= 0 {
		limit = DefaultConfig().TopN
	}
	if len(out) > limit {
		out = out[:limit]
	}
	result := make([]domain.FurnitureItem, len(out))
	for i, s := range out {
		result[i] = s.item
	}
	return result, nil
}

// Score computes the weighted multi-factor recommendation score for a single
// item. Precondition: room has been validated.
func (e *Engine) Score(item domain.FurnitureItem, room domain.RoomContext, profile domain.PreferenceProfile) float64 {
	w := e.cfg.Weights
	return roomFitScore(item, room)*w.RoomFit +
		styleScore(item, room)*w.Style +
		profile.Categories[item.Category]*w.Category +
		priceRangeScore(item, profile)*w.PriceRange +
		historyScore(item, profile)*w.UserHistory +
		item.PopularityScore*w.Popularity +
		availabilityScore(item)*w.Availability
}

// ScoreAll is the parallel map over a candidate list: scores[i] corresponds to
// items[i], so output is deterministic regardless of scheduling. Intended for
// large catalogs and for raw-score diagnostics.
func (e *Engine) ScoreAll(ctx context.Context, room domain.RoomContext, profile domain.PreferenceProfile, items []domain.FurnitureItem) ([]float64, error) {
	if err := room.Validate(); err != nil {
		return nil, err
	}
	scores := make([]float64, len(items))

	const chunk = 256
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for start := 0; start < len(items); start += chunk {
		end := start + chunk
		if end > len(items) {
			end = len(items)
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				scores[i] = e.Score(items[i], room, profile)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

// roomFitScore rates the item's footprint share of the floor area. The bands
// favor items taking 5-15% of the room.
func roomFitScore(item domain.FurnitureItem, room domain.RoomContext) float64 {
	ratio := item.Footprint() / room.Area
	switch {
	case ratio < fitRatioTiny:
		return 0.7
	case ratio <= fitRatioIdeal:
		return 1.0
	case ratio <= fitRatioLarge:
		return 0.8
	default:
		return 0.3
	}
}

// styleScore reads the item's authored affinity for the room's target style;
// rooms without a target style rate every item neutral.
func styleScore(item domain.FurnitureItem, room domain.RoomContext) float64 {
	if room.Style == "" {
		return 0.5
	}
	return item.StyleCompatibility[room.Style]
}

func priceRangeScore(item domain.FurnitureItem, profile domain.PreferenceProfile) float64 {
	pr, ok := item.PriceRange()
	if !ok {
		return 0
	}
	return profile.PriceRanges[pr]
}

// historyScore sums the profile weights of every style, material, and the
// brand the item carries, capped at 1.
func historyScore(item domain.FurnitureItem, profile domain.PreferenceProfile) float64 {
	var sum float64
	for _, s := range item.Styles {
		sum += profile.Styles[s]
	}
	for _, m := range item.Materials {
		sum += profile.Materials[m]
	}
	if item.Brand != "" {
		sum += profile.Brands[item.Brand]
	}
	if sum > 1 {
		return 1
	}
	return sum
}

func availabilityScore(item domain.FurnitureItem) float64 {
	if item.InStock {
		return 1.0
	}
	return 0.5
}
