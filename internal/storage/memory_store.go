package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/roomly-ar/furniture-recommend/internal/domain"
)

// MemoryStore is a slice-backed catalog store with the same surface as
// SQLiteStore. It backs deployments without a database path and the HTTP
// tests. The mutex linearizes favorites/recent mutation so snapshots stay
// consistent.
type MemoryStore struct {
	mu        sync.RWMutex
	items     []domain.FurnitureItem
	favorites []string
	views     []string // append-only view log, newest last
}

func NewMemoryStore(items []domain.FurnitureItem) *MemoryStore {
	return &MemoryStore{items: append([]domain.FurnitureItem(nil), items...)}
}

func (s *MemoryStore) CountItems(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items), nil
}

func (s *MemoryStore) UpsertMany(ctx context.Context, items []domain.FurnitureItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	have := make(map[string]struct{}, len(s.items))
	for _, it := range s.items {
		have[it.ID] = struct{}{}
	}
	for _, it := range items {
		if _, ok := have[it.ID]; ok {
			continue
		}
		s.items = append(s.items, it)
		have[it.ID] = struct{}{}
	}
	return nil
}

func (s *MemoryStore) CreateItem(ctx context.Context, it domain.FurnitureItem) (domain.FurnitureItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if it.ID == "" {
		it.ID = fmt.Sprintf("f-%d", time.Now().UnixNano())
	}
	if it.DateAdded.IsZero() {
		it.DateAdded = time.Now().UTC()
	}
	if it.LastUpdated.IsZero() {
		it.LastUpdated = it.DateAdded
	}
	s.items = append(s.items, it)
	return it, nil
}

func (s *MemoryStore) DeleteItem(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, it := range s.items {
		if it.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) GetItem(ctx context.Context, id string) (domain.FurnitureItem, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.ID == id {
			return it, true, nil
		}
	}
	return domain.FurnitureItem{}, false, nil
}

func (s *MemoryStore) ListItems(ctx context.Context) ([]domain.FurnitureItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.FurnitureItem(nil), s.items...), nil
}

func (s *MemoryStore) ListItemsFiltered(
	ctx context.Context,
	limit, offset int,
	category string,
	minPrice, maxPrice float64,
	inStockOnly bool,
	sortBy string,
) ([]domain.FurnitureItem, int, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.RLock()
	matched := make([]domain.FurnitureItem, 0, len(s.items))
	for _, it := range s.items {
		if strings.TrimSpace(category) != "" && string(it.Category) != category {
			continue
		}
		if minPrice > 0 && (it.Price == nil || it.Price.Amount < minPrice) {
			continue
		}
		if maxPrice > 0 && (it.Price == nil || it.Price.Amount > maxPrice) {
			continue
		}
		if inStockOnly && !it.InStock {
			continue
		}
		matched = append(matched, it)
	}
	s.mu.RUnlock()

	switch sortBy {
	case "price_asc":
		sort.SliceStable(matched, func(i, j int) bool { return priceOf(matched[i]) < priceOf(matched[j]) })
	case "price_desc":
		sort.SliceStable(matched, func(i, j int) bool { return priceOf(matched[i]) > priceOf(matched[j]) })
	case "popularity":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].PopularityScore > matched[j].PopularityScore })
	case "newest":
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].DateAdded.After(matched[j].DateAdded) })
	}

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (s *MemoryStore) AddFavorite(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasItem(itemID) {
		return domain.ErrNotFound
	}
	for _, id := range s.favorites {
		if id == itemID {
			return nil
		}
	}
	s.favorites = append(s.favorites, itemID)
	return nil
}

func (s *MemoryStore) RemoveFavorite(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, id := range s.favorites {
		if id == itemID {
			s.favorites = append(s.favorites[:i], s.favorites[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *MemoryStore) ListFavorites(ctx context.Context) ([]domain.FurnitureItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemsByID(s.favorites), nil
}

func (s *MemoryStore) RecordView(ctx context.Context, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasItem(itemID) {
		return domain.ErrNotFound
	}
	s.views = append(s.views, itemID)
	return nil
}

func (s *MemoryStore) ListRecentViews(ctx context.Context, limit int) ([]domain.FurnitureItem, error) {
	if limit <= 0 {
		limit = 20
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest first, first occurrence wins.
	seen := make(map[string]struct{}, len(s.views))
	var ids []string
	for i := len(s.views) - 1; i >= 0 && len(ids) < limit; i-- {
		id := s.views[i]
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return s.itemsByID(ids), nil
}

func (s *MemoryStore) hasItem(id string) bool {
	for _, it := range s.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func (s *MemoryStore) itemsByID(ids []string) []domain.FurnitureItem {
	byID := make(map[string]domain.FurnitureItem, len(s.items))
	for _, it := range s.items {
		byID[it.ID] = it
	}
	out := make([]domain.FurnitureItem, 0, len(ids))
	for _, id := range ids {
		if it, ok := byID[id]; ok {
			out = append(out, it)
		}
	}
	return out
}

func priceOf(it domain.FurnitureItem) float64 {
	if it.Price == nil {
		return 0
	}
	return it.Price.Amount
}
