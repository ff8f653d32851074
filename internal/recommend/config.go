package recommend

import (
	"encoding/json"
	"fmt"
	"os"
)

// Weights defines the seven sub-score coefficients of the recommendation
// score. They are expected to sum to 1.0.
type Weights struct {
	RoomFit      float64 `json:"room_fit"`
	Style        float64 `json:"style"`
	Category     float64 `json:"category"`
	PriceRange   float64 `json:"price_range"`
	UserHistory  float64 `json:"user_history"`
	Popularity   float64 `json:"popularity"`
	Availability float64 `json:"availability"`
}

// Config collects the tunable constants of the engine. The additive bonus
// constants of the secondary scorers are named package constants; the values
// here are the ones worth overriding per deployment.
type Config struct {
	Weights Weights `json:"weights"`

	// TopN caps Recommend and Trending result lists.
	TopN int `json:"top_n"`

	SimilarityThreshold float64 `json:"similarity_threshold"`
	SimilarLimit        int     `json:"similar_limit"`
	ComplementaryLimit  int     `json:"complementary_limit"`
}

// DefaultConfig returns the hand-tuned baseline.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			RoomFit:      0.25,
			Style:        0.20,
			Category:     0.15,
			PriceRange:   0.15,
			UserHistory:  0.10,
			Popularity:   0.10,
			Availability: 0.05,
		},
		TopN:                20,
		SimilarityThreshold: 0.3,
		SimilarLimit:        5,
		ComplementaryLimit:  5,
	}
}

// LoadConfigFromFile loads config from a JSON file, falling back to defaults
// on read errors.
func LoadConfigFromFile(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read scoring config: %w", err)
	}
	if err := json.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshal scoring config: %w", err)
	}
	return cfg, nil
}
