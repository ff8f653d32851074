package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roomly-ar/furniture-recommend/internal/domain"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.EnsureSchema())
	return store
}

func sampleItem(id string) domain.FurnitureItem {
	return domain.FurnitureItem{
		ID:          id,
		Name:        "Oslo Sofa",
		Category:    domain.CategorySeating,
		Subcategory: "sofa",
		Brand:       "Nordhem",
		Dimensions:  domain.Dimensions{Width: 2.1, Depth: 0.95, Height: 0.82},
		SeatHeight:  0.44,
		WeightKG:    62,
		Materials:   []string{"fabric", "wood"},
		Colors:      []domain.Color{{Name: "gray", Family: domain.ColorFamilyNeutral}},
		Styles:      []string{"scandinavian"},
		Price:       &domain.Price{Amount: 899, Currency: "EUR"},
		Features:    []domain.Feature{domain.FeatureConvertible},
		StyleCompatibility: map[string]float64{
			"scandinavian": 0.95,
		},
		Tags:            []string{"living room"},
		PopularityScore: 0.85,
		WarrantyYears:   5,
		EcoFriendly:     true,
		DateAdded:       time.Date(2026, 7, 2, 9, 0, 0, 0, time.UTC),
		LastUpdated:     time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC),
		InStock:         true,
		Featured:        true,
	}
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	want := sampleItem("sofa-1")
	_, err := store.CreateItem(ctx, want)
	require.NoError(t, err)

	got, ok, err := store.GetItem(ctx, "sofa-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, want, got)

	_, ok, err = store.GetItem(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLiteStore_UnpricedItem(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	it := sampleItem("bare")
	it.Price = nil
	_, err := store.CreateItem(ctx, it)
	require.NoError(t, err)

	got, ok, err := store.GetItem(ctx, "bare")
	require.NoError(t, err)
	require.True(t, ok)
	require.Nil(t, got.Price)
}

func TestSQLiteStore_UpsertManyIgnoresDuplicates(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	items := []domain.FurnitureItem{sampleItem("a"), sampleItem("b")}
	require.NoError(t, store.UpsertMany(ctx, items))
	require.NoError(t, store.UpsertMany(ctx, items))

	n, err := store.CountItems(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestSQLiteStore_ListItemsFiltered(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	sofa := sampleItem("sofa")
	lamp := sampleItem("lamp")
	lamp.Category = domain.CategoryLighting
	lamp.Price = &domain.Price{Amount: 150, Currency: "EUR"}
	out := sampleItem("out-of-stock")
	out.InStock = false
	require.NoError(t, store.UpsertMany(ctx, []domain.FurnitureItem{sofa, lamp, out}))

	got, total, err := store.ListItemsFiltered(ctx, 20, 0, "seating", 0, 0, true, "")
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "sofa", got[0].ID)

	got, total, err = store.ListItemsFiltered(ctx, 20, 0, "", 0, 200, false, "price_desc")
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "lamp", got[0].ID)
}

func TestSQLiteStore_FavoritesAndRecent(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	a, b := sampleItem("a"), sampleItem("b")
	require.NoError(t, store.UpsertMany(ctx, []domain.FurnitureItem{a, b}))

	require.ErrorIs(t, store.AddFavorite(ctx, "missing"), domain.ErrNotFound)
	require.NoError(t, store.AddFavorite(ctx, "a"))
	require.NoError(t, store.AddFavorite(ctx, "a")) // idempotent

	favs, err := store.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	require.Equal(t, "a", favs[0].ID)

	require.NoError(t, store.RemoveFavorite(ctx, "a"))
	require.ErrorIs(t, store.RemoveFavorite(ctx, "a"), domain.ErrNotFound)

	// View a, then b, then a again: recents are deduped, newest first.
	require.NoError(t, store.RecordView(ctx, "a"))
	require.NoError(t, store.RecordView(ctx, "b"))
	require.NoError(t, store.RecordView(ctx, "a"))

	recent, err := store.ListRecentViews(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.Equal(t, "a", recent[0].ID)
	require.Equal(t, "b", recent[1].ID)
}

func TestSQLiteStore_DeleteCascades(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertMany(ctx, []domain.FurnitureItem{sampleItem("a")}))
	require.NoError(t, store.AddFavorite(ctx, "a"))
	require.NoError(t, store.RecordView(ctx, "a"))

	deleted, err := store.DeleteItem(ctx, "a")
	require.NoError(t, err)
	require.True(t, deleted)

	favs, err := store.ListFavorites(ctx)
	require.NoError(t, err)
	require.Empty(t, favs)

	recent, err := store.ListRecentViews(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, recent)
}
