package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReadCSV parses a catalog export. Columns are located by header name, so any
// subset and order of the known columns is accepted; only category is
// required. Blank optional cells are absent attributes.
//
// Known columns: id, category, name, brand, price, cost, stock, socket,
// memory_type, form_factor (or size), gpu_length, gpu_max_clearance, tdp,
// watt (or wattage).
func ReadCSV(r io.Reader) ([]Item, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("catalog CSV is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["category"]; !ok {
		return nil, fmt.Errorf("catalog CSV header must include a category column, got %v", header)
	}

	var items []Item
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("catalog CSV row %d: %w", line, err)
		}
		if blankRecord(record) {
			continue
		}

		item, err := parseRecord(csvRow{cols: cols, record: record})
		if err != nil {
			return nil, fmt.Errorf("catalog CSV row %d: %w", line, err)
		}
		items = append(items, item)
	}

	return items, nil
}

type csvRow struct {
	cols   map[string]int
	record []string
}

func (r csvRow) get(names ...string) string {
	for _, name := range names {
		if i, ok := r.cols[name]; ok && i < len(r.record) {
			if v := strings.TrimSpace(r.record[i]); v != "" {
				return v
			}
		}
	}
	return ""
}

func parseRecord(row csvRow) (Item, error) {
	category, err := ParseCategory(row.get("category"))
	if err != nil {
		return Item{}, err
	}

	id := row.get("id")
	if id == "" {
		id = "csv-" + uuid.NewString()[:8]
	}
	name := row.get("name")
	if name == "" {
		name = "Unnamed"
	}

	price := decimal.Zero
	if raw := row.get("price"); raw != "" {
		if price, err = decimal.NewFromString(raw); err != nil {
			return Item{}, fmt.Errorf("price %q is not numeric", raw)
		}
	}

	stock := 0
	if raw := row.get("stock"); raw != "" {
		if stock, err = strconv.Atoi(raw); err != nil {
			return Item{}, fmt.Errorf("stock %q is not an integer", raw)
		}
	}

	var attrs Attributes
	if v := row.get("socket"); v != "" {
		attrs.Socket = Declared(v)
	}
	if v := row.get("form_factor", "size"); v != "" {
		attrs.FormFactor = Declared(v)
	}
	if v := row.get("memory_type"); v != "" {
		mt, err := ParseMemoryType(v)
		if err != nil {
			return Item{}, err
		}
		attrs.MemoryType = Declared(mt)
	}
	ints := []struct {
		target *Attr[int]
		names  []string
	}{
		{&attrs.GPULength, []string{"gpu_length"}},
		{&attrs.GPUMaxClearance, []string{"gpu_max_clearance"}},
		{&attrs.TDP, []string{"tdp"}},
		{&attrs.Wattage, []string{"watt", "wattage"}},
	}
	for _, f := range ints {
		raw := row.get(f.names...)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return Item{}, fmt.Errorf("%s %q is not an integer", f.names[0], raw)
		}
		*f.target = Declared(v)
	}

	item, err := NewItem(id, category, name, price, stock, attrs)
	if err != nil {
		return Item{}, err
	}
	item = item.WithBrand(row.get("brand"))

	if raw := row.get("cost"); raw != "" {
		cost, err := decimal.NewFromString(raw)
		if err != nil {
			return Item{}, fmt.Errorf("cost %q is not numeric", raw)
		}
		item = item.WithCost(cost)
		if err := item.Validate(); err != nil {
			return Item{}, err
		}
	}

	return item, nil
}

func blankRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Merge overlays imported items on an existing catalog by id. Existing items
// keep their position; unseen ids are appended in import order.
func Merge(existing, imported []Item) []Item {
	index := make(map[string]int, len(existing)+len(imported))
	merged := make([]Item, 0, len(existing)+len(imported))
	for _, item := range existing {
		if i, ok := index[item.ID]; ok {
			merged[i] = item
			continue
		}
		index[item.ID] = len(merged)
		merged = append(merged, item)
	}
	for _, item := range imported {
		if i, ok := index[item.ID]; ok {
			merged[i] = item
			continue
		}
		index[item.ID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}
