package recommend

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roomly-ar/furniture-recommend/internal/domain"
)

func TestTrending_CapAndOrder(t *testing.T) {
	t.Parallel()

	e := NewEngine(DefaultConfig())
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return now }

	var items []domain.FurnitureItem
	for i := 0; i < 30; i++ {
		it := testItem(fmt.Sprintf("i-%02d", i), domain.CategoryDecor, 0.2, 0.2)
		it.DateAdded = now.Add(-time.Duration(i+1) * 24 * time.Hour)
		it.PopularityScore = float64(i) / 100
		items = append(items, it)
	}

	got := e.Trending(items, domain.TimeframeMonth)
	require.Len(t, got, 20)
	for i := 1; i < len(got); i++ {
		require.GreaterOrEqual(t, got[i-1].PopularityScore, got[i].PopularityScore)
	}
}

func TestTimeframeDurations(t *testing.T) {
	t.Parallel()

	const day = 24 * time.Hour
	require.Equal(t, 7*day, domain.TimeframeWeek.Duration())
	require.Equal(t, 30*day, domain.TimeframeMonth.Duration())
	require.Equal(t, 90*day, domain.TimeframeQuarter.Duration())
	require.Equal(t, 365*day, domain.TimeframeYear.Duration())

	_, err := domain.ParseTimeframe("decade")
	require.Error(t, err)
}
