package recommend

import (
	"sort"

	"github.com/roomly-ar/furniture-recommend/internal/domain"
)

// Space-efficiency bonus constants.
const (
	spaceStorageBonus     = 0.2
	spaceConvertibleBonus = 0.3
	spaceExtendableBonus  = 0.1
	spaceVerticalBonus    = 0.1
	spaceVerticalRatio    = 0.8 // item uses >80% of room height
)

// SpaceOptimized returns every item that physically fits inside the room
// dimensions (optionally restricted to one category), ranked by how little
// volume it consumes plus functional bonuses. No result cap.
func (e *Engine) SpaceOptimized(roomDims domain.Dimensions, category *domain.Category, items []domain.FurnitureItem) ([]domain.FurnitureItem, error) {
	if roomDims.Width <= 0 || roomDims.Depth <= 0 || roomDims.Height <= 0 {
		return nil, domain.ErrInvalidRoomDimensions
	}
	roomVolume := roomDims.Volume()

	type scored struct {
		item  domain.FurnitureItem
		score float64
	}
	var out []scored
	for _, it := range items {
		if category != nil && it.Category != *category {
			continue
		}
		if !fitsWithin(it.Dimensions, roomDims) {
			continue
		}
		out = append(out, scored{item: it, score: spaceScore(it, roomDims, roomVolume)})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].score > out[j].score })

	result := make([]domain.FurnitureItem, len(out))
	for i, s := range out {
		result[i] = s.item
	}
	return result, nil
}

func fitsWithin(item, room domain.Dimensions) bool {
	return item.Width <= room.Width && item.Depth <= room.Depth && item.Height <= room.Height
}

func spaceScore(item domain.FurnitureItem, roomDims domain.Dimensions, roomVolume float64) float64 {
	s := 1 - item.Volume()/roomVolume
	if s < 0 {
		s = 0
	}
	if item.HasFeature(domain.FeatureStorage) {
		s += spaceStorageBonus
	}
	if item.HasFeature(domain.FeatureConvertible) {
		s += spaceConvertibleBonus
	}
	if item.HasFeature(domain.FeatureExtendable) {
		s += spaceExtendableBonus
	}
	// Tall pieces exploit vertical space the footprint ratio cannot see.
	if item.Dimensions.Height/roomDims.Height > spaceVerticalRatio {
		s += spaceVerticalBonus
	}
	return s
}
