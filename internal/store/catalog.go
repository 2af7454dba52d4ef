package store

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/specquote/internal/catalog"
)

// Sort modes accepted by ListItems.
const (
	SortDefault   = "default"
	SortPriceAsc  = "priceAsc"
	SortPriceDesc = "priceDesc"
	SortNameAsc   = "nameAsc"
	SortStockDesc = "stockDesc"
)

// Filter narrows and orders a catalog listing.
type Filter struct {
	// Query matches name, brand, socket and form factor, case-insensitively.
	Query    string
	Category catalog.Category
	// Brand, Socket and FormFactor must match exactly when non-empty.
	Brand      string
	Socket     string
	FormFactor string
	Sort       string
}

const itemColumns = `
	id, category, name, brand, price, cost, stock,
	socket, memory_type, form_factor, gpu_length, gpu_max_clearance, tdp, wattage`

// UpsertItems inserts new items and overwrites existing ones by id. New items
// are appended after the current catalog order.
func (s *Store) UpsertItems(items []catalog.Item) (Stats, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin catalog upsert: %w", err)
	}

	stats := Stats{}
	for _, item := range items {
		if err := upsertItem(tx, item, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit catalog upsert: %w", err)
	}
	return stats, nil
}

func upsertItem(tx *sql.Tx, item catalog.Item, stats *Stats) error {
	if err := item.Validate(); err != nil {
		return err
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM catalog_items WHERE id = ?)`, item.ID).Scan(&exists); err != nil {
		return fmt.Errorf("check catalog item %q: %w", item.ID, err)
	}

	attrs := item.Attributes()
	args := []any{
		string(item.Category),
		item.Name,
		item.Brand,
		item.Price.String(),
		nullDecimal(item.Cost),
		item.Stock,
		nullString(attrs.Socket),
		nullMemoryType(attrs.MemoryType),
		nullString(attrs.FormFactor),
		nullInt(attrs.GPULength),
		nullInt(attrs.GPUMaxClearance),
		nullInt(attrs.TDP),
		nullInt(attrs.Wattage),
	}

	if exists {
		if _, err := tx.Exec(`
			UPDATE catalog_items
			SET
				category = ?, name = ?, brand = ?, price = ?, cost = ?, stock = ?,
				socket = ?, memory_type = ?, form_factor = ?,
				gpu_length = ?, gpu_max_clearance = ?, tdp = ?, wattage = ?,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = ?
		`, append(args, item.ID)...); err != nil {
			return fmt.Errorf("update catalog item %q: %w", item.ID, err)
		}
		stats.Updates++
		return nil
	}

	if _, err := tx.Exec(`
		INSERT INTO catalog_items (`+itemColumns+`, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM catalog_items))
	`, append([]any{item.ID}, args...)...); err != nil {
		return fmt.Errorf("insert catalog item %q: %w", item.ID, err)
	}
	stats.Inserts++
	return nil
}

// ListItems returns the catalog matching f.
func (s *Store) ListItems(f Filter) ([]catalog.Item, error) {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	search := "%" + query + "%"

	rows, err := s.db.Query(`
		SELECT `+itemColumns+`
		FROM catalog_items
		WHERE (? = '' OR category = ?)
		  AND (? = '' OR LOWER(name || ' ' || brand || ' ' || COALESCE(socket, '') || ' ' || COALESCE(form_factor, '')) LIKE ?)
		  AND (? = '' OR brand = ?)
		  AND (? = '' OR COALESCE(socket, '') = ?)
		  AND (? = '' OR COALESCE(form_factor, '') = ?)
		ORDER BY position, id
	`,
		string(f.Category), string(f.Category),
		query, search,
		f.Brand, f.Brand,
		f.Socket, f.Socket,
		f.FormFactor, f.FormFactor,
	)
	if err != nil {
		return nil, fmt.Errorf("query catalog items: %w", err)
	}
	defer rows.Close()

	items := make([]catalog.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog items: %w", err)
	}

	sortItems(items, f.Sort)
	return items, nil
}

// GetItems returns the items with the given ids, keyed by id. Unknown ids are
// absent from the result.
func (s *Store) GetItems(ids []string) (map[string]catalog.Item, error) {
	found := make(map[string]catalog.Item, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.Query(`SELECT `+itemColumns+` FROM catalog_items WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query catalog items by id: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		found[item.ID] = item
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog items: %w", err)
	}
	return found, nil
}

// CountItems returns the number of catalog rows.
func (s *Store) CountItems() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM catalog_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count catalog items: %w", err)
	}
	return count, nil
}

func scanItem(rows *sql.Rows) (catalog.Item, error) {
	var (
		id, category, name, brand, price string
		cost                             sql.NullString
		stock                            int
		socket, memoryType, formFactor   sql.NullString
		gpuLength, clearance, tdp, watt  sql.NullInt64
	)
	if err := rows.Scan(&id, &category, &name, &brand, &price, &cost, &stock,
		&socket, &memoryType, &formFactor, &gpuLength, &clearance, &tdp, &watt); err != nil {
		return catalog.Item{}, fmt.Errorf("scan catalog item: %w", err)
	}

	cat, err := catalog.ParseCategory(category)
	if err != nil {
		return catalog.Item{}, fmt.Errorf("catalog item %q: %w", id, err)
	}
	priceValue, err := decimal.NewFromString(price)
	if err != nil {
		return catalog.Item{}, fmt.Errorf("catalog item %q price: %w", id, err)
	}

	var attrs catalog.Attributes
	if socket.Valid {
		attrs.Socket = catalog.Declared(socket.String)
	}
	if memoryType.Valid {
		mt, err := catalog.ParseMemoryType(memoryType.String)
		if err != nil {
			return catalog.Item{}, fmt.Errorf("catalog item %q: %w", id, err)
		}
		attrs.MemoryType = catalog.Declared(mt)
	}
	if formFactor.Valid {
		attrs.FormFactor = catalog.Declared(formFactor.String)
	}
	attrs.GPULength = intAttr(gpuLength)
	attrs.GPUMaxClearance = intAttr(clearance)
	attrs.TDP = intAttr(tdp)
	attrs.Wattage = intAttr(watt)

	item, err := catalog.NewItem(id, cat, name, priceValue, stock, attrs)
	if err != nil {
		return catalog.Item{}, err
	}
	item = item.WithBrand(brand)
	if cost.Valid {
		costValue, err := decimal.NewFromString(cost.String)
		if err != nil {
			return catalog.Item{}, fmt.Errorf("catalog item %q cost: %w", id, err)
		}
		item = item.WithCost(costValue)
	}
	return item, nil
}

func sortItems(items []catalog.Item, mode string) {
	switch mode {
	case SortPriceAsc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price.LessThan(items[j].Price) })
	case SortPriceDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Price.GreaterThan(items[j].Price) })
	case SortNameAsc:
		sort.SliceStable(items, func(i, j int) bool { return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name) })
	case SortStockDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].Stock > items[j].Stock })
	}
}

func nullString(a catalog.Attr[string]) any {
	if v, ok := a.Get(); ok {
		return v
	}
	return nil
}

func nullMemoryType(a catalog.Attr[catalog.MemoryType]) any {
	if v, ok := a.Get(); ok {
		return string(v)
	}
	return nil
}

func nullInt(a catalog.Attr[int]) any {
	if v, ok := a.Get(); ok {
		return v
	}
	return nil
}

func nullDecimal(a catalog.Attr[decimal.Decimal]) any {
	if v, ok := a.Get(); ok {
		return v.String()
	}
	return nil
}

func intAttr(v sql.NullInt64) catalog.Attr[int] {
	if !v.Valid {
		return catalog.Attr[int]{}
	}
	return catalog.Declared(int(v.Int64))
}
