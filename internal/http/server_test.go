package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/roomly-ar/furniture-recommend/internal/domain"
	"github.com/roomly-ar/furniture-recommend/internal/recommend"
	"github.com/roomly-ar/furniture-recommend/internal/storage"
)

func newTestServer(t *testing.T, items ...domain.FurnitureItem) *httptest.Server {
	t.Helper()
	srv := NewServer(
		recommend.NewEngine(recommend.DefaultConfig()),
		storage.NewMemoryStore(items),
		zerolog.Nop(),
	)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func catalogItem(id string, category domain.Category, price float64) domain.FurnitureItem {
	return domain.FurnitureItem{
		ID:              id,
		Name:            id,
		Category:        category,
		Dimensions:      domain.Dimensions{Width: 1.5, Depth: 1, Height: 0.8},
		Price:           &domain.Price{Amount: price, Currency: "EUR"},
		PopularityScore: 0.5,
		DateAdded:       time.Now().Add(-48 * time.Hour),
		LastUpdated:     time.Now().Add(-24 * time.Hour),
		InStock:         true,
	}
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	return resp
}

func decodeItems(t *testing.T, resp *http.Response) []domain.FurnitureItem {
	t.Helper()
	defer resp.Body.Close()
	var items []domain.FurnitureItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	return items
}

func TestItemsCreateAndGet(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/items", catalogItem("", domain.CategorySeating, 300))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created domain.FurnitureItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.NotEmpty(t, created.ID) // server assigns an id

	got, err := http.Get(ts.URL + "/items/" + created.ID)
	require.NoError(t, err)
	defer got.Body.Close()
	require.Equal(t, http.StatusOK, got.StatusCode)
}

func TestItemsCreate_RejectsInvalidCategory(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t)

	bad := catalogItem("", "spaceship", 300)
	resp := postJSON(t, ts.URL+"/items", bad)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRecommendationsEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t,
		catalogItem("sofa", domain.CategorySeating, 300),
		catalogItem("table", domain.CategoryTables, 200),
	)

	resp := postJSON(t, ts.URL+"/recommendations", RecommendationsRequest{
		Room: domain.RoomContext{
			Area:       20,
			Dimensions: domain.Dimensions{Width: 5, Depth: 4, Height: 2.5},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decodeItems(t, resp)
	require.NotEmpty(t, items)
}

func TestRecommendationsEndpoint_InvalidRoom(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, catalogItem("sofa", domain.CategorySeating, 300))

	resp := postJSON(t, ts.URL+"/recommendations", RecommendationsRequest{
		Room: domain.RoomContext{Area: -5},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestScoresEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t,
		catalogItem("sofa", domain.CategorySeating, 300),
		catalogItem("table", domain.CategoryTables, 200),
	)

	resp := postJSON(t, ts.URL+"/scores", ScoresRequest{
		Room: domain.RoomContext{
			Area:       20,
			Dimensions: domain.Dimensions{Width: 5, Depth: 4, Height: 2.5},
		},
		ItemIDs: []string{"sofa"},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var scores []ItemScore
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&scores))
	require.Len(t, scores, 1)
	require.Equal(t, "sofa", scores[0].ID)
	require.Greater(t, scores[0].Score, 0.0)
}

func TestSimilarEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t,
		catalogItem("sofa-a", domain.CategorySeating, 300),
		catalogItem("sofa-b", domain.CategorySeating, 320),
		catalogItem("lamp", domain.CategoryLighting, 80),
	)

	resp, err := http.Get(ts.URL + "/items/sofa-a/similar")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decodeItems(t, resp)
	require.Len(t, items, 1)
	require.Equal(t, "sofa-b", items[0].ID)
}

func TestComplementaryEndpoint_RequiresRoomSize(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t,
		catalogItem("sofa", domain.CategorySeating, 300),
		catalogItem("table", domain.CategoryTables, 200),
	)

	resp, err := http.Get(ts.URL + "/items/sofa/complementary")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/items/sofa/complementary?room_size=20")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decodeItems(t, resp)
	require.Len(t, items, 1)
	require.Equal(t, "table", items[0].ID)
}

func TestBudgetEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t,
		catalogItem("cheap", domain.CategorySeating, 100),
		catalogItem("pricey", domain.CategorySeating, 900),
	)

	resp, err := http.Get(ts.URL + "/budget?max=500&category=seating")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decodeItems(t, resp)
	require.Len(t, items, 1)
	require.Equal(t, "cheap", items[0].ID)

	resp, err = http.Get(ts.URL + "/budget?category=seating") // missing max
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTrendingEndpoint(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, catalogItem("sofa", domain.CategorySeating, 300))

	resp, err := http.Get(ts.URL + "/trending?timeframe=week")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decodeItems(t, resp)
	require.Len(t, items, 1)

	resp, err = http.Get(ts.URL + "/trending?timeframe=decade")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestFavoritesFlow(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, catalogItem("sofa", domain.CategorySeating, 300))

	resp := postJSON(t, ts.URL+"/favorites/sofa", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = postJSON(t, ts.URL+"/favorites/ghost", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	got, err := http.Get(ts.URL + "/favorites")
	require.NoError(t, err)
	items := decodeItems(t, got)
	require.Len(t, items, 1)
	require.Equal(t, "sofa", items[0].ID)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/favorites/sofa", nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	require.Equal(t, http.StatusOK, del.StatusCode)
}

func TestRecentViewsInfluenceRecommendations(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t,
		catalogItem("sofa", domain.CategorySeating, 300),
		catalogItem("table", domain.CategoryTables, 200),
	)

	// Viewing the table repeatedly builds category preference for tables.
	for i := 0; i < 3; i++ {
		resp := postJSON(t, ts.URL+"/recent/table", nil)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp := postJSON(t, ts.URL+"/recommendations", RecommendationsRequest{
		Room: domain.RoomContext{
			Area:       20,
			Dimensions: domain.Dimensions{Width: 5, Depth: 4, Height: 2.5},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decodeItems(t, resp)
	require.Equal(t, "table", items[0].ID)
}

func TestItemsList_Pagination(t *testing.T) {
	t.Parallel()

	var seed []domain.FurnitureItem
	for i := 0; i < 5; i++ {
		seed = append(seed, catalogItem(fmt.Sprintf("item-%d", i), domain.CategorySeating, 100+float64(i)))
	}
	ts := newTestServer(t, seed...)

	resp, err := http.Get(ts.URL + "/items?limit=2&offset=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got ItemsListResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, 5, got.Total)
	require.Len(t, got.Items, 2)
	require.Equal(t, "item-2", got.Items[0].ID)
}
