package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roomly-ar/furniture-recommend/internal/domain"
)

// SQLiteStore is the catalog store: furniture items plus the user's favorite
// and recently viewed lists. Mutations are serialized by sqlite, so engine
// calls always read a consistent snapshot.
type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) EnsureSchema() error {
	const createItems = `
CREATE TABLE IF NOT EXISTS furniture_items (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  subcategory TEXT NOT NULL DEFAULT '',
  brand TEXT NOT NULL DEFAULT '',
  width REAL NOT NULL,
  depth REAL NOT NULL,
  height REAL NOT NULL,
  seat_height REAL NOT NULL DEFAULT 0,
  weight_kg REAL NOT NULL DEFAULT 0,
  materials_json TEXT NOT NULL DEFAULT '[]',
  colors_json TEXT NOT NULL DEFAULT '[]',
  styles_json TEXT NOT NULL DEFAULT '[]',
  price_amount REAL,
  price_currency TEXT NOT NULL DEFAULT '',
  features_json TEXT NOT NULL DEFAULT '[]',
  style_compat_json TEXT NOT NULL DEFAULT '{}',
  tags_json TEXT NOT NULL DEFAULT '[]',
  popularity REAL NOT NULL DEFAULT 0,
  warranty_years INTEGER NOT NULL DEFAULT 0,
  eco_friendly INTEGER NOT NULL DEFAULT 0,
  date_added TEXT NOT NULL,
  last_updated TEXT NOT NULL,
  in_stock INTEGER NOT NULL DEFAULT 1,
  featured INTEGER NOT NULL DEFAULT 0,
  custom INTEGER NOT NULL DEFAULT 0
);
`
	if _, err := s.db.Exec(createItems); err != nil {
		return err
	}

	const createFavorites = `
CREATE TABLE IF NOT EXISTS favorites (
  item_id TEXT PRIMARY KEY REFERENCES furniture_items(id) ON DELETE CASCADE,
  added_at TEXT NOT NULL
);
`
	if _, err := s.db.Exec(createFavorites); err != nil {
		return err
	}

	const createRecent = `
CREATE TABLE IF NOT EXISTS recent_views (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  item_id TEXT NOT NULL REFERENCES furniture_items(id) ON DELETE CASCADE,
  viewed_at TEXT NOT NULL
);
`
	if _, err := s.db.Exec(createRecent); err != nil {
		return err
	}

	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_items_category ON furniture_items(category);`); err != nil {
		return err
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_items_price ON furniture_items(price_amount);`); err != nil {
		return err
	}
	if _, err := s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_recent_item ON recent_views(item_id);`); err != nil {
		return err
	}

	return nil
}

func (s *SQLiteStore) CountItems(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM furniture_items`).Scan(&n)
	return n, err
}

const itemColumns = `id, name, category, subcategory, brand,
width, depth, height, seat_height, weight_kg,
materials_json, colors_json, styles_json,
price_amount, price_currency,
features_json, style_compat_json, tags_json,
popularity, warranty_years, eco_friendly,
date_added, last_updated, in_stock, featured, custom`

// UpsertMany inserts the seed dataset without duplicating by id.
func (s *SQLiteStore) UpsertMany(ctx context.Context, items []domain.FurnitureItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
INSERT OR IGNORE INTO furniture_items (`+itemColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.ExecContext(ctx, itemArgs(it)...); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) CreateItem(ctx context.Context, it domain.FurnitureItem) (domain.FurnitureItem, error) {
	if it.ID == "" {
		it.ID = fmt.Sprintf("f-%d", time.Now().UnixNano())
	}
	if it.DateAdded.IsZero() {
		it.DateAdded = time.Now().UTC()
	}
	if it.LastUpdated.IsZero() {
		it.LastUpdated = it.DateAdded
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO furniture_items (`+itemColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, itemArgs(it)...)
	return it, err
}

func (s *SQLiteStore) DeleteItem(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM furniture_items WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff > 0, nil
}

func (s *SQLiteStore) GetItem(ctx context.Context, id string) (domain.FurnitureItem, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM furniture_items WHERE id = ?`, id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return domain.FurnitureItem{}, false, nil
	}
	if err != nil {
		return domain.FurnitureItem{}, false, err
	}
	return it, true, nil
}

// ListItems returns the full catalog snapshot in insertion order.
func (s *SQLiteStore) ListItems(ctx context.Context) ([]domain.FurnitureItem, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM furniture_items ORDER BY rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

// ListItemsFiltered pages through the catalog with optional filters.
func (s *SQLiteStore) ListItemsFiltered(
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

	where := make([]string, 0, 4)
	args := make([]any, 0, 6)

	if strings.TrimSpace(category) != "" {
		where = append(where, "category = ?")
		args = append(args, category)
	}
	if minPrice > 0 {
		where = append(where, "price_amount >= ?")
		args = append(args, minPrice)
	}
	if maxPrice > 0 {
		where = append(where, "price_amount <= ?")
		args = append(args, maxPrice)
	}
	if inStockOnly {
		where = append(where, "in_stock = 1")
	}

	whereSQL := ""
	if len(where) > 0 {
		whereSQL = "WHERE " + strings.Join(where, " AND ")
	}

	orderSQL := "ORDER BY rowid"
	switch sortBy {
	case "price_asc":
		orderSQL = "ORDER BY price_amount ASC"
	case "price_desc":
		orderSQL = "ORDER BY price_amount DESC"
	case "popularity":
		orderSQL = "ORDER BY popularity DESC"
	case "newest":
		orderSQL = "ORDER BY date_added DESC"
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM furniture_items "+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rowsSQL := "SELECT " + itemColumns + " FROM furniture_items " + whereSQL + "\n" + orderSQL + "\nLIMIT ? OFFSET ?"
	rowsArgs := append(append([]any{}, args...), limit, offset)

	rows, err := s.db.QueryContext(ctx, rowsSQL, rowsArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := collectItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ---- Favorites and recent views ----

func (s *SQLiteStore) AddFavorite(ctx context.Context, itemID string) error {
	if _, ok, err := s.GetItem(ctx, itemID); err != nil {
		return err
	} else if !ok {
		return domain.ErrNotFound
	}
	_, err := s.db.ExecContext(ctx, `
INSERT OR REPLACE INTO favorites (item_id, added_at) VALUES (?, ?)
`, itemID, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) RemoveFavorite(ctx context.Context, itemID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE item_id = ?`, itemID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListFavorites(ctx context.Context) ([]domain.FurnitureItem, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT `+prefixedItemColumns("i")+`
FROM furniture_items i
JOIN favorites f ON f.item_id = i.id
ORDER BY f.added_at
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

// RecordView appends to the user's view history.
func (s *SQLiteStore) RecordView(ctx context.Context, itemID string) error {
	if _, ok, err := s.GetItem(ctx, itemID); err != nil {
		return err
	} else if !ok {
		return domain.ErrNotFound
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO recent_views (item_id, viewed_at) VALUES (?, ?)
`, itemID, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

// ListRecentViews returns distinct recently viewed items, most recent first.
func (s *SQLiteStore) ListRecentViews(ctx context.Context, limit int) ([]domain.FurnitureItem, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT `+prefixedItemColumns("i")+`
FROM furniture_items i
JOIN (SELECT item_id, MAX(seq) AS last_seq FROM recent_views GROUP BY item_id) r
  ON r.item_id = i.id
ORDER BY r.last_seq DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

// ---- row mapping ----

func itemArgs(it domain.FurnitureItem) []any {
	materials, _ := json.Marshal(it.Materials)
	colors, _ := json.Marshal(it.Colors)
	styles, _ := json.Marshal(it.Styles)
	features, _ := json.Marshal(it.Features)
	compat, _ := json.Marshal(it.StyleCompatibility)
	tags, _ := json.Marshal(it.Tags)

	var priceAmount any
	priceCurrency := ""
	if it.Price != nil {
		priceAmount = it.Price.Amount
		priceCurrency = it.Price.Currency
	}

	return []any{
		it.ID, it.Name, string(it.Category), it.Subcategory, it.Brand,
		it.Dimensions.Width, it.Dimensions.Depth, it.Dimensions.Height, it.SeatHeight, it.WeightKG,
		string(materials), string(colors), string(styles),
		priceAmount, priceCurrency,
		string(features), string(compat), string(tags),
		it.PopularityScore, it.WarrantyYears, boolInt(it.EcoFriendly),
		it.DateAdded.UTC().Format(time.RFC3339Nano), it.LastUpdated.UTC().Format(time.RFC3339Nano),
		boolInt(it.InStock), boolInt(it.Featured), boolInt(it.Custom),
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (domain.FurnitureItem, error) {
	var it domain.FurnitureItem
	var category string
	var materialsJSON, colorsJSON, stylesJSON, featuresJSON, compatJSON, tagsJSON string
	var priceAmount sql.NullFloat64
	var priceCurrency string
	var ecoFriendly, inStock, featured, custom int
	var dateAdded, lastUpdated string

	err := row.Scan(
		&it.ID, &it.Name, &category, &it.Subcategory, &it.Brand,
		&it.Dimensions.Width, &it.Dimensions.Depth, &it.Dimensions.Height, &it.SeatHeight, &it.WeightKG,
		&materialsJSON, &colorsJSON, &stylesJSON,
		&priceAmount, &priceCurrency,
		&featuresJSON, &compatJSON, &tagsJSON,
		&it.PopularityScore, &it.WarrantyYears, &ecoFriendly,
		&dateAdded, &lastUpdated, &inStock, &featured, &custom,
	)
	if err != nil {
		return domain.FurnitureItem{}, err
	}

	it.Category = domain.Category(category)
	_ = json.Unmarshal([]byte(materialsJSON), &it.Materials)
	_ = json.Unmarshal([]byte(colorsJSON), &it.Colors)
	_ = json.Unmarshal([]byte(stylesJSON), &it.Styles)
	_ = json.Unmarshal([]byte(featuresJSON), &it.Features)
	_ = json.Unmarshal([]byte(compatJSON), &it.StyleCompatibility)
	_ = json.Unmarshal([]byte(tagsJSON), &it.Tags)

	if priceAmount.Valid {
		it.Price = &domain.Price{Amount: priceAmount.Float64, Currency: priceCurrency}
	}
	it.EcoFriendly = ecoFriendly != 0
	it.InStock = inStock != 0
	it.Featured = featured != 0
	it.Custom = custom != 0
	it.DateAdded, _ = time.Parse(time.RFC3339Nano, dateAdded)
	it.LastUpdated, _ = time.Parse(time.RFC3339Nano, lastUpdated)

	return it, nil
}

func collectItems(rows *sql.Rows) ([]domain.FurnitureItem, error) {
	var out []domain.FurnitureItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func prefixedItemColumns(alias string) string {
	cols := strings.Split(itemColumns, ",")
	for i, c := range cols {
		cols[i] = alias + "." + strings.TrimSpace(c)
	}
	return strings.Join(cols, ", ")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
