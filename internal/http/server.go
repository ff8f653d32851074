package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/roomly-ar/furniture-recommend/internal/domain"
	"github.com/roomly-ar/furniture-recommend/internal/recommend"
)

// Catalog is the store surface the API needs. Implemented by
// storage.SQLiteStore and storage.MemoryStore.
type Catalog interface {
	ListItems(ctx context.Context) ([]domain.FurnitureItem, error)
	ListItemsFiltered(ctx context.Context, limit, offset int, category string, minPrice, maxPrice float64, inStockOnly bool, sortBy string) ([]domain.FurnitureItem, int, error)
	GetItem(ctx context.Context, id string) (domain.FurnitureItem, bool, error)
	CreateItem(ctx context.Context, it domain.FurnitureItem) (domain.FurnitureItem, error)
	DeleteItem(ctx context.Context, id string) (bool, error)
	AddFavorite(ctx context.Context, itemID string) error
	RemoveFavorite(ctx context.Context, itemID string) error
	ListFavorites(ctx context.Context) ([]domain.FurnitureItem, error)
	RecordView(ctx context.Context, itemID string) error
	ListRecentViews(ctx context.Context, limit int) ([]domain.FurnitureItem, error)
}

type Server struct {
	Engine  *recommend.Engine
	Catalog Catalog
	Log     zerolog.Logger
}

func NewServer(engine *recommend.Engine, catalog Catalog, log zerolog.Logger) *Server {
	return &Server{Engine: engine, Catalog: catalog, Log: log}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)

	r.Route("/items", func(r chi.Router) {
		r.Get("/", s.handleItemsList)
		r.Post("/", s.handleItemsCreate)
		r.Get("/{id}", s.handleItemGet)
		r.Delete("/{id}", s.handleItemDelete)
		r.Get("/{id}/similar", s.handleSimilar)
		r.Get("/{id}/complementary", s.handleComplementary)
	})

	r.Post("/recommendations", s.handleRecommendations)
	r.Post("/scores", s.handleScores)
	r.Post("/space-optimized", s.handleSpaceOptimized)
	r.Get("/budget", s.handleBudget)
	r.Get("/trending", s.handleTrending)

	r.Get("/favorites", s.handleFavoritesList)
	r.Post("/favorites/{id}", s.handleFavoriteAdd)
	r.Delete("/favorites/{id}", s.handleFavoriteRemove)

	r.Get("/recent", s.handleRecentList)
	r.Post("/recent/{id}", s.handleRecentRecord)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.Log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---- Items ----

type ItemsListResponse struct {
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Total  int                    `json:"total"`
	Items  []domain.FurnitureItem `json:"items"`
}

func (s *Server) handleItemsList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := parseLimitOffset(r, 20, 0)

	minPrice, _ := strconv.ParseFloat(q.Get("min_price"), 64)
	maxPrice, _ := strconv.ParseFloat(q.Get("max_price"), 64)
	inStock := q.Get("in_stock") == "true"

	items, total, err := s.Catalog.ListItemsFiltered(r.Context(), limit, offset, q.Get("category"), minPrice, maxPrice, inStock, q.Get("sort"))
	if err != nil {
		s.serverError(w, err)
		return
	}
	if items == nil {
		items = []domain.FurnitureItem{}
	}
	writeJSON(w, http.StatusOK, ItemsListResponse{Limit: limit, Offset: offset, Total: total, Items: items})
}

func (s *Server) handleItemsCreate(w http.ResponseWriter, r *http.Request) {
	var item domain.FurnitureItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}

	// minimal validation
	if item.Name == "" || !item.Category.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name and a valid category are required"})
		return
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}

	created, err := s.Catalog.CreateItem(r.Context(), item)
	if err != nil {
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleItemGet(w http.ResponseWriter, r *http.Request) {
	item, ok, err := s.Catalog.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.serverError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleItemDelete(w http.ResponseWriter, r *http.Request) {
	deleted, err := s.Catalog.DeleteItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.serverError(w, err)
		return
	}
	if !deleted {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ---- Rankers ----

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	target, ok, err := s.Catalog.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.serverError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
		return
	}

	items, err := s.Catalog.ListItems(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}

	result := s.Engine.SimilarItems(target, items)
	writeJSON(w, http.StatusOK, trimToQueryLimit(r, result))
}

func (s *Server) handleComplementary(w http.ResponseWriter, r *http.Request) {
	item, ok, err := s.Catalog.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.serverError(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
		return
	}

	roomSize, _ := strconv.ParseFloat(r.URL.Query().Get("room_size"), 64)
	if roomSize <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "room_size must be > 0"})
		return
	}

	items, err := s.Catalog.ListItems(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}

	result := s.Engine.ComplementaryItems(item, items, roomSize)
	writeJSON(w, http.StatusOK, trimToQueryLimit(r, result))
}

type RecommendationsRequest struct {
	Room  domain.RoomContext `json:"room"`
	Limit int                `json:"limit"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	var req RecommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}

	items, err := s.Catalog.ListItems(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	favorites, err := s.Catalog.ListFavorites(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	recent, err := s.Catalog.ListRecentViews(r.Context(), 20)
	if err != nil {
		s.serverError(w, err)
		return
	}

	result, err := s.Engine.Recommend(req.Room, items, favorites, recent)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRoomDimensions) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.serverError(w, err)
		return
	}
	if req.Limit > 0 && len(result) > req.Limit {
		result = result[:req.Limit]
	}
	writeJSON(w, http.StatusOK, result)
}

type ScoresRequest struct {
	Room    domain.RoomContext `json:"room"`
	ItemIDs []string           `json:"item_ids,omitempty"`
}

type ItemScore struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// handleScores exposes raw per-item scores for diagnostics.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	var req ScoresRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}

	items, err := s.Catalog.ListItems(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	if len(req.ItemIDs) > 0 {
		wanted := make(map[string]struct{}, len(req.ItemIDs))
		for _, id := range req.ItemIDs {
			wanted[id] = struct{}{}
		}
		filtered := items[:0:0]
		for _, it := range items {
			if _, ok := wanted[it.ID]; ok {
				filtered = append(filtered, it)
			}
		}
		items = filtered
	}

	favorites, err := s.Catalog.ListFavorites(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	recent, err := s.Catalog.ListRecentViews(r.Context(), 20)
	if err != nil {
		s.serverError(w, err)
		return
	}

	profile := recommend.BuildProfile(favorites, recent)
	scores, err := s.Engine.ScoreAll(r.Context(), req.Room, profile, items)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRoomDimensions) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.serverError(w, err)
		return
	}

	out := make([]ItemScore, len(items))
	for i := range items {
		out[i] = ItemScore{ID: items[i].ID, Score: scores[i]}
	}
	writeJSON(w, http.StatusOK, out)
}

type SpaceOptimizedRequest struct {
	Dimensions domain.Dimensions `json:"dimensions"`
	Category   *domain.Category  `json:"category,omitempty"`
}

func (s *Server) handleSpaceOptimized(w http.ResponseWriter, r *http.Request) {
	var req SpaceOptimizedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_json"})
		return
	}

	items, err := s.Catalog.ListItems(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}

	result, err := s.Engine.SpaceOptimized(req.Dimensions, req.Category, items)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRoomDimensions) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.serverError(w, err)
		return
	}
	if result == nil {
		result = []domain.FurnitureItem{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleBudget(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	maxBudget, _ := strconv.ParseFloat(q.Get("max"), 64)

	var categories []domain.Category
	for _, c := range q["category"] {
		categories = append(categories, domain.Category(c))
	}

	items, err := s.Catalog.ListItems(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}

	result, err := s.Engine.BudgetRecommendations(maxBudget, categories, items)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBudget) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.serverError(w, err)
		return
	}
	if result == nil {
		result = []domain.FurnitureItem{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	timeframe, err := domain.ParseTimeframe(r.URL.Query().Get("timeframe"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	items, err := s.Catalog.ListItems(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}

	result := s.Engine.Trending(items, timeframe)
	if result == nil {
		result = []domain.FurnitureItem{}
	}
	writeJSON(w, http.StatusOK, result)
}

// ---- Favorites and recent views ----

func (s *Server) handleFavoritesList(w http.ResponseWriter, r *http.Request) {
	items, err := s.Catalog.ListFavorites(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	if items == nil {
		items = []domain.FurnitureItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleFavoriteAdd(w http.ResponseWriter, r *http.Request) {
	s.mutateHistory(w, r, s.Catalog.AddFavorite, "favorited")
}

func (s *Server) handleFavoriteRemove(w http.ResponseWriter, r *http.Request) {
	s.mutateHistory(w, r, s.Catalog.RemoveFavorite, "removed")
}

func (s *Server) handleRecentList(w http.ResponseWriter, r *http.Request) {
	limit, _ := parseLimitOffset(r, 20, 0)
	items, err := s.Catalog.ListRecentViews(r.Context(), limit)
	if err != nil {
		s.serverError(w, err)
		return
	}
	if items == nil {
		items = []domain.FurnitureItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleRecentRecord(w http.ResponseWriter, r *http.Request) {
	s.mutateHistory(w, r, s.Catalog.RecordView, "recorded")
}

func (s *Server) mutateHistory(w http.ResponseWriter, r *http.Request, op func(context.Context, string) error, status string) {
	id := chi.URLParam(r, "id")
	if err := op(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
			return
		}
		s.serverError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

// ---- helpers ----

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.Log.Error().Err(err).Msg("internal error")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
}

func trimToQueryLimit(r *http.Request, items []domain.FurnitureItem) []domain.FurnitureItem {
	if items == nil {
		return []domain.FurnitureItem{}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil && limit > 0 && len(items) > limit {
			return items[:limit]
		}
	}
	return items
}

func parseLimitOffset(r *http.Request, defLimit, defOffset int) (int, int) {
	q := r.URL.Query()

	limit := defLimit
	if v := q.Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = defLimit
	}
	// safety cap
	if limit > 200 {
		limit = 200
	}

	offset := defOffset
	if v := q.Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = defOffset
	}

	return limit, offset
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
