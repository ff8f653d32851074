package storage

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/roomly-ar/furniture-recommend/internal/domain"
)

// LoadItemsFromFile reads the seed catalog from a JSON file.
func LoadItemsFromFile(path string) ([]domain.FurnitureItem, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var items []domain.FurnitureItem
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return items, nil
}
